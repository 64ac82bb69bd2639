// Package advance defines the closed set of player actions the search
// enumerates, with their removal compositions and display names.
package advance

import (
	"fmt"
	"strings"
)

// Type identifies an advance. The declaration order is the display order.
type Type uint8

const (
	RG Type = iota // let the spawner regenerate
	CR             // clear remaining, move to the next wave
	A1
	A2
	A3
	A4
	B1
	B2
	B3
	B4
	O1
	O2
	O3
	O4
	S2
	S3
	S4
	G1
	G2
	G3
)

// Family groups the numbered advance types.
type Family uint8

const (
	FamilyAggressive Family = iota
	FamilyBeta
	FamilyOblivious
	FamilyScare
	FamilyGhost
)

var families = map[Family][]Type{
	FamilyAggressive: {A1, A2, A3, A4},
	FamilyBeta:       {B1, B2, B3, B4},
	FamilyOblivious:  {O1, O2, O3, O4},
	FamilyScare:      {S2, S3, S4},
	FamilyGhost:      {G1, G2, G3},
}

// firstCount is the count of the first member of each family.
var firstCount = map[Family]int{
	FamilyAggressive: 1,
	FamilyBeta:       1,
	FamilyOblivious:  1,
	FamilyScare:      2,
	FamilyGhost:      1,
}

var names = [...]string{
	"RG", "CR",
	"A1", "A2", "A3", "A4",
	"B1", "B2", "B3", "B4",
	"O1", "O2", "O3", "O4",
	"S2", "S3", "S4",
	"G1", "G2", "G3",
}

var humanNames = map[Type]string{
	RG: "Regenerate",
	CR: "Clear Remaining",
	A1: "1 Aggressive",
	A2: "2 Aggressive",
	A3: "3 Aggressive",
	A4: "4 Aggressive",
	B1: "1 Beta",
	B2: "1 Beta + 1 Aggressive",
	B3: "1 Beta + 2 Aggressive",
	B4: "1 Beta + 3 Aggressive",
	O1: "1 Oblivious",
	O2: "1 Oblivious + 1 Aggressive",
	O3: "1 Oblivious + 2 Aggressive",
	O4: "1 Oblivious + 3 Aggressive",
	S2: "Multi Scare 2 + Leave",
	S3: "Multi Scare 3 + Leave",
	S4: "Multi Scare 4 + Leave",
	G1: "De-spawn 1 + Leave",
	G2: "De-spawn 2 + Leave",
	G3: "De-spawn 3 + Leave",
}

// Of returns the member of family that consumes count entities.
// It panics when the family has no such member.
func Of(f Family, count int) Type {
	members, ok := families[f]
	i := count - firstCount[f]
	if !ok || i < 0 || i >= len(members) {
		panic(fmt.Sprintf("advance: no member of family %d with count %d", f, count))
	}
	return members[i]
}

// String returns the short code, e.g. "A2".
func (t Type) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Parse reads a short code such as "B3". Case is ignored.
func Parse(s string) (Type, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown advance %q", s)
}

// Family reports which numbered family t belongs to.
func (t Type) Family() (Family, bool) {
	for f, members := range families {
		for _, m := range members {
			if m == t {
				return f, true
			}
		}
	}
	return 0, false
}

// Count returns how many individuals the advance consumes.
func (t Type) Count() int {
	f, ok := t.Family()
	if !ok {
		return 0
	}
	for i, m := range families[f] {
		if m == t {
			return firstCount[f] + i
		}
	}
	return 0
}

func (t Type) IsMultiAggressive() bool { return t == A2 || t == A3 || t == A4 }
func (t Type) IsMultiBeta() bool       { return t == B2 || t == B3 || t == B4 }
func (t Type) IsMultiOblivious() bool  { return t == O2 || t == O3 || t == O4 }
func (t Type) IsMultiScare() bool      { return t == S2 || t == S3 || t == S4 }
func (t Type) IsGhost() bool           { return t == G1 || t == G2 || t == G3 }

// Removals returns the (aggressive, beta, oblivious) composition the
// advance knocks out. A beta or oblivious target is only reachable once
// the aggressive ones in front of it are cleared.
func (t Type) Removals() (aggro, beta, oblivious int) {
	f, ok := t.Family()
	c := t.Count()
	switch {
	case ok && f == FamilyAggressive:
		return c, 0, 0
	case ok && f == FamilyBeta:
		return c - 1, 1, 0
	case ok && f == FamilyScare:
		return 0, c, 0
	case ok && f == FamilyOblivious:
		return c - 1, 0, 1
	}
	panic(fmt.Sprintf("advance: %s has no removal composition", t))
}

// Advance is one step of a path. Raw selects the short code for display.
type Advance struct {
	Type Type
	Raw  bool
}

// Name returns the display name. Types without a long name keep
// their short code.
func (a Advance) Name() string {
	if h, ok := humanNames[a.Type]; ok && !a.Raw {
		return h
	}
	return a.Type.String()
}

// SequenceEqual compares two paths by advance type, ignoring Raw.
func SequenceEqual(a, b []Advance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

// IsPrefix reports whether parent is a strict prefix of child.
func IsPrefix(parent, child []Advance) bool {
	if len(parent) >= len(child) {
		return false
	}
	return SequenceEqual(parent, child[:len(parent)])
}

// Join renders a path with the given separator.
func Join(path []Advance, sep string) string {
	parts := make([]string, len(path))
	for i, a := range path {
		parts[i] = a.Name()
	}
	return strings.Join(parts, sep)
}

// ParsePath reads a path written as short codes separated by '|', ',' or
// spaces.
func ParsePath(s string) ([]Advance, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' ' || r == '\t'
	})
	path := make([]Advance, 0, len(fields))
	for _, f := range fields {
		t, err := Parse(f)
		if err != nil {
			return nil, err
		}
		path = append(path, Advance{Type: t, Raw: true})
	}
	return path, nil
}
