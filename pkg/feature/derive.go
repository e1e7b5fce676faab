package feature

import (
	"math"
	"strings"
)

// Deck groups, the last one collects every cabin not found in the others.
var deckGroups = []string{"ABC", "DE", "FG", "M"}

// Family size buckets.
const (
	FamilyAlone  = "Alone"
	FamilySmall  = "Small"
	FamilyMedium = "Medium"
	FamilyLarge  = "Large"
)

var familySizeDomain = []string{FamilyAlone, FamilySmall, FamilyMedium, FamilyLarge}

// Title groups.
const (
	TitleMr    = "mr"
	TitleMiss  = "miss/mrs/ms"
	TitleNoble = "dr/military/noble/clergy"
)

var titleDomain = []string{TitleMr, TitleMiss, TitleNoble}

var titleGroups = map[string]string{
	"miss":         TitleMiss,
	"mrs":          TitleMiss,
	"ms":           TitleMiss,
	"mlle":         TitleMiss,
	"lady":         TitleMiss,
	"mme":          TitleMiss,
	"the countess": TitleMiss,
	"dona":         TitleMiss,
	"dr":           TitleNoble,
	"col":          TitleNoble,
	"major":        TitleNoble,
	"master":       TitleNoble,
	"jonkheer":     TitleNoble,
	"capt":         TitleNoble,
	"sir":          TitleNoble,
	"don":          TitleNoble,
	"rev":          TitleNoble,
}

// deck returns the deck group of a cabin from its first letter.
func deck(cabin string, ok bool) string {
	fallback := deckGroups[len(deckGroups)-1]
	if !ok || cabin == "" {
		return fallback
	}
	for _, group := range deckGroups[:len(deckGroups)-1] {
		if strings.IndexByte(group, cabin[0]) >= 0 {
			return group
		}
	}

	return fallback
}

// familySize buckets 1+sibSp+parch. A missing count falls through to Large.
func familySize(sibSp, parch float64) string {
	size := 1 + sibSp + parch
	switch {
	case math.IsNaN(size):
		return FamilyLarge
	case size <= 1:
		return FamilyAlone
	case size <= 4:
		return FamilySmall
	case size <= 6:
		return FamilyMedium
	default:
		return FamilyLarge
	}
}

// normalizeTitle groups honorifics. Unknown titles are returned unchanged.
func normalizeTitle(title string) string {
	if group, ok := titleGroups[title]; ok {
		return group
	}

	return title
}

func isMarried(name string) float64 {
	if strings.Contains(name, "Mrs.") {
		return 1
	}

	return 0
}
