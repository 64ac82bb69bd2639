package spawn

import "strings"

// Natures in index order.
var Natures = [25]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// NatureName returns the display name of a nature index.
func NatureName(n uint8) string {
	if int(n) >= len(Natures) {
		return "?"
	}
	return Natures[n]
}

// NatureIndex looks a nature up by name, ignoring case.
func NatureIndex(name string) (uint8, bool) {
	for i, n := range Natures {
		if strings.EqualFold(n, name) {
			return uint8(i), true
		}
	}
	return 0, false
}
