// Package passenger describes the raw passenger records and parses their names.
package passenger

// Raw passenger columns.
const (
	ColPassengerID = "PassengerId"
	ColSurvived    = "Survived"
	ColPclass      = "Pclass"
	ColName        = "Name"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColTicket      = "Ticket"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
)

// Columns lists every raw column in file order.
var Columns = []string{
	ColPassengerID, ColSurvived, ColPclass, ColName, ColSex, ColAge,
	ColSibSp, ColParch, ColTicket, ColFare, ColCabin, ColEmbarked,
}

// StringColumns lists the raw columns holding text. Every other raw column is numeric.
var StringColumns = []string{ColName, ColSex, ColTicket, ColCabin, ColEmbarked}

// IsString reports whether a raw column holds text.
func IsString(name string) bool {
	for _, col := range StringColumns {
		if col == name {
			return true
		}
	}

	return false
}
