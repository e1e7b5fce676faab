package passenger

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	surnameRe = regexp.MustCompile(`(?i)([a-z]+),`)
	titleRe   = regexp.MustCompile(`(?i)([a-z]+),\s*([a-z]+)\.?`)
)

// Name is a passenger name split into its parts. Surname and Title are lower-cased.
type Name struct {
	Surname string
	Title   string
	Given   string
}

// ParseError is returned when a name does not follow the "Surname, Title. Given" form.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse name %q: %s", e.Value, e.Reason)
}

// Surname extracts the lower-cased run of letters right before the first comma
// that follows a letter.
func Surname(value string) (string, error) {
	match := surnameRe.FindStringSubmatch(value)
	if match == nil {
		return "", &ParseError{Value: value, Reason: "no surname before a comma"}
	}

	return strings.ToLower(match[1]), nil
}

// ParseName splits a name such as "Braund, Mr. Owen Harris".
func ParseName(value string) (Name, error) {
	loc := titleRe.FindStringSubmatchIndex(value)
	if loc == nil {
		return Name{}, &ParseError{Value: value, Reason: "no title after the surname"}
	}

	return Name{
		Surname: strings.ToLower(value[loc[2]:loc[3]]),
		Title:   strings.ToLower(value[loc[4]:loc[5]]),
		Given:   strings.TrimSpace(value[loc[1]:]),
	}, nil
}
