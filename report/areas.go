package report

const noArea = "(Empty Area Detail)"

var areaNames = map[uint64]string{
	0xE3BBEF047A645A1D: "Obsidian Fieldlands",
	0xE3BBEC047A645504: "Crimson Mirelands",
	0xE3BBED047A6456B7: "Cobalt Coastlands",
	0xE3BBEA047A64519E: "Coronet Highlands",
	0xE3BBEB047A645351: "Alabaster Icelands",
}

// AreaName returns the display name of an area hash. Unknown and empty
// hashes share the empty-area name.
func AreaName(hash uint64) string {
	if n, ok := areaNames[hash]; ok {
		return n
	}
	return noArea
}
