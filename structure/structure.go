// Package structure decodes dumps of the host's outbreak blocks and turns
// each active spawner into a session graph.
package structure

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nathoo/permutemmo/engine/session"
)

var le = binary.LittleEndian

// Block sizes.
const (
	MassSpawnerSize    = 0x50
	MassSetSize        = 0x190
	MassiveSpawnerSize = 0x90
	MassiveAreaSize    = 0xB80
	MassiveSetSize     = 0x3980

	AreaCount      = 5
	SpawnersByArea = 20
)

func f32(b []byte) float32 {
	return math.Float32frombits(le.Uint32(b))
}

// MassSpawner is one mass outbreak slot of the overworld block.
type MassSpawner struct {
	Species      uint16
	Form         uint16
	AreaHash     uint64
	X, Y, Z      float32
	CountSeed    uint64
	GroupSeed    uint64
	BaseCount    uint8
	SpawnedCount uint32
}

func decodeMassSpawner(b []byte) MassSpawner {
	return MassSpawner{
		Species:      le.Uint16(b[0x00:]),
		Form:         le.Uint16(b[0x04:]),
		AreaHash:     le.Uint64(b[0x18:]),
		X:            f32(b[0x20:]),
		Y:            f32(b[0x24:]),
		Z:            f32(b[0x28:]),
		CountSeed:    le.Uint64(b[0x34:]),
		GroupSeed:    le.Uint64(b[0x3C:]),
		BaseCount:    b[0x44],
		SpawnedCount: le.Uint32(b[0x48:]),
	}
}

// HasOutbreak reports whether the slot holds an outbreak.
func (s MassSpawner) HasOutbreak() bool {
	return !session.IsEmptyHash(s.AreaHash)
}

// IsValid reports whether a species is displayed.
func (s MassSpawner) IsValid() bool {
	return s.Species != 0
}

// Graph returns the outbreak session, keyed by the displayed species.
func (s MassSpawner) Graph() *session.Graph {
	return session.NewOutbreak(s.Species, int(s.BaseCount))
}

// MassSet is the decoded mass outbreak block, one spawner per area.
type MassSet [AreaCount]MassSpawner

// DecodeMassSet decodes a mass outbreak block.
func DecodeMassSet(b []byte) (MassSet, error) {
	var set MassSet
	if len(b) < MassSetSize {
		return set, fmt.Errorf("mass outbreak block: got %d bytes, need %d", len(b), MassSetSize)
	}
	for i := range set {
		set[i] = decodeMassSpawner(b[i*MassSpawnerSize:])
	}
	return set, nil
}

// Status of a massive outbreak spawner.
type Status uint8

const (
	StatusNone Status = iota
	StatusUnrevealed
	StatusNormal
	StatusStar
	StatusAguav
)

func (s Status) String() string {
	switch s {
	case StatusUnrevealed:
		return "Unrevealed"
	case StatusNormal:
		return "Normal"
	case StatusStar:
		return "Star"
	case StatusAguav:
		return "Aguav"
	}
	return "None"
}

func toStatus(b uint8) Status {
	if b > uint8(StatusAguav) {
		return StatusNone
	}
	return Status(b)
}

// MassiveSpawner is one spawner of a massive mass outbreak area.
type MassiveSpawner struct {
	X, Y, Z      float32
	Status       Status
	Species      uint16
	Form         uint16
	BaseTable    uint64
	BonusTable   uint64
	AguavSeed    uint64
	CountSeed    uint64
	GroupSeed    uint64
	BaseCount    uint8
	SpawnedCount uint32
	SpawnerName  uint64
	BonusCount   uint8
}

func decodeMassiveSpawner(b []byte) MassiveSpawner {
	return MassiveSpawner{
		X:            f32(b[0x00:]),
		Y:            f32(b[0x04:]),
		Z:            f32(b[0x08:]),
		Status:       toStatus(b[0x10]),
		Species:      le.Uint16(b[0x14:]),
		Form:         le.Uint16(b[0x18:]),
		BaseTable:    le.Uint64(b[0x38:]),
		BonusTable:   le.Uint64(b[0x40:]),
		AguavSeed:    le.Uint64(b[0x48:]),
		CountSeed:    le.Uint64(b[0x50:]),
		GroupSeed:    le.Uint64(b[0x58:]),
		BaseCount:    b[0x60],
		SpawnedCount: le.Uint32(b[0x64:]),
		SpawnerName:  le.Uint64(b[0x68:]),
		BonusCount:   b[0x74],
	}
}

func (s MassiveSpawner) HasBase() bool  { return !session.IsEmptyHash(s.BaseTable) }
func (s MassiveSpawner) HasBonus() bool { return !session.IsEmptyHash(s.BonusTable) }

// Graph returns the MMO session. The bonus wave is chained only when the
// spawner has a bonus table.
func (s MassiveSpawner) Graph() *session.Graph {
	return session.NewMMO(s.BaseTable, int(s.BaseCount), s.BonusTable, int(s.BonusCount))
}

// MassiveArea is one area of the massive mass outbreak block.
type MassiveArea struct {
	AreaHash uint64
	Active   bool
	Spawners [SpawnersByArea]MassiveSpawner
}

func decodeMassiveArea(b []byte) MassiveArea {
	a := MassiveArea{
		AreaHash: le.Uint64(b[0x00:]),
		Active:   b[0x08] == 1,
	}
	for i := range a.Spawners {
		a.Spawners[i] = decodeMassiveSpawner(b[0x10+i*MassiveSpawnerSize:])
	}
	return a
}

// IsValid reports whether the area hash names an area.
func (a MassiveArea) IsValid() bool {
	return !session.IsEmptyHash(a.AreaHash)
}

// MassiveSet is the decoded massive mass outbreak block.
type MassiveSet [AreaCount]MassiveArea

// DecodeMassiveSet decodes a massive mass outbreak block.
func DecodeMassiveSet(b []byte) (MassiveSet, error) {
	var set MassiveSet
	if len(b) < MassiveSetSize {
		return set, fmt.Errorf("massive outbreak block: got %d bytes, need %d", len(b), MassiveSetSize)
	}
	for i := range set {
		set[i] = decodeMassiveArea(b[i*MassiveAreaSize:])
	}
	return set, nil
}
