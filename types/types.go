// Package types defines the shared data structures for the permute engine.
// This package contains only type definitions: no logic, no methods.
package types

// Kind classifies a spawn point. The numeric order matches the host's
// spawner type values.
type Kind int

const (
	KindRegular Kind = iota
	KindMMO
	KindOutbreak
)

// Behavior is the species-level reaction to the player.
type Behavior int

const (
	BehaviorAggressive Behavior = iota
	BehaviorSkittish
	BehaviorOblivious
)

// Gender values stored on an EntityResult.
const (
	GenderMale       uint8 = 0
	GenderFemale     uint8 = 1
	GenderGenderless uint8 = 2
)

// Species is one entry of the species catalog.
type Species struct {
	ID          uint16
	Name        string
	GenderRatio int // 0 male only, 254 female only, 255 genderless
	Behavior    Behavior
}

// SlotDetail is one weighted entry of a spawn table.
type SlotDetail struct {
	Rate        int
	Name        string
	IsAlpha     bool
	MinLevel    int
	MaxLevel    int
	FlawlessIVs int
	Species     uint16
	Form        uint16
	GenderRatio int
	Behavior    Behavior
}

// EntityResult is one generated spawn with its full provenance.
type EntityResult struct {
	Slot SlotDetail

	GroupSeed uint64
	Index     int // 1-based position within the respawn batch
	SlotSeed  uint64
	SlotRoll  float32
	GenSeed   uint64
	AlphaSeed uint64

	Species uint16
	Form    uint16
	Level   int
	IsAlpha bool

	EC               uint32
	FakeTID          uint32
	PID              uint32
	ShinyXor         uint32
	IsShiny          bool
	RollCountUsed    int
	RollCountAllowed int

	IVs     [6]uint8
	Ability uint8
	Gender  uint8
	Nature  uint8
	Height  uint8
	Weight  uint8
}

// Condition is a declarative entity predicate loaded from Lua.
type Condition struct {
	Type     string         // "shiny", "alpha", "species", "nature", "all", "any", etc.
	Params   map[string]any // condition-specific parameters
	Negate   bool           // true if wrapped in Not()
	Inner    *Condition     // for Not(): the negated inner condition
	Children []Condition    // for All{} and Any{}
}

// SessionDef describes a configured spawn point as loaded from data files.
type SessionDef struct {
	Name       string
	Kind       Kind
	Table      uint64 // base table; species id for outbreaks
	Count      int    // base count
	Bonus      uint64 // bonus table, 0 when absent
	BonusCount int
	MaxAlive   int // regular spawners only
	MinAlive   int
	CountSeed  uint64
	Seed       uint64 // group seed to search from, 0 when unset
}

// Settings holds search defaults read from the data directory.
type Settings struct {
	Depth    int
	Criteria *Condition
	LogLevel string
	Raw      bool
}
