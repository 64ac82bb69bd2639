// Package save implements JSON serialization of search runs.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// Version of the save format.
const Version = "1"

// Hex is a 64-bit value written as "0x%016X".
type Hex uint64

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%016X", uint64(h))), nil
}

func (h *Hex) UnmarshalText(b []byte) error {
	v, err := spawn.ParseHash(string(b))
	if err != nil {
		return err
	}
	*h = Hex(v)
	return nil
}

// SessionData describes the spawner a run searched.
type SessionData struct {
	Name       string `json:"name,omitempty"`
	Kind       string `json:"kind"`
	Table      Hex    `json:"table"`
	Count      int    `json:"count,omitempty"`
	Bonus      Hex    `json:"bonus,omitempty"`
	BonusCount int    `json:"bonus_count,omitempty"`
	MaxAlive   int    `json:"max_alive,omitempty"`
	MinAlive   int    `json:"min_alive,omitempty"`
	CountSeed  Hex    `json:"count_seed,omitempty"`
}

// ResultData is one saved result: its path and the fields that identify
// the entity on replay.
type ResultData struct {
	Path     string `json:"path"`
	Index    int    `json:"index"`
	SlotSeed Hex    `json:"slot_seed"`
	PID      uint32 `json:"pid"`
	Name     string `json:"name"`
	Species  uint16 `json:"species"`
	Shiny    bool   `json:"shiny"`
	Alpha    bool   `json:"alpha"`
	Nature   string `json:"nature"`
	IVs      []int  `json:"ivs"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version   string       `json:"version"`
	Session   SessionData  `json:"session"`
	Seed      Hex          `json:"seed"`
	Depth     int          `json:"depth"`
	Criteria  string       `json:"criteria,omitempty"`
	Generated int          `json:"generated"`
	Results   []ResultData `json:"results"`
}

// Run is the input to Save.
type Run struct {
	Session  types.SessionDef
	Seed     uint64
	Depth    int
	Criteria string
	Meta     *engine.Meta
}

// Save serializes a search run to JSON bytes.
func Save(r Run) ([]byte, error) {
	if r.Meta == nil {
		return nil, fmt.Errorf("save: no search to save")
	}
	def := r.Session
	data := SaveData{
		Version: Version,
		Session: SessionData{
			Name:       def.Name,
			Kind:       session.KindName(def.Kind),
			Table:      Hex(def.Table),
			Count:      def.Count,
			Bonus:      Hex(def.Bonus),
			BonusCount: def.BonusCount,
			MaxAlive:   def.MaxAlive,
			MinAlive:   def.MinAlive,
			CountSeed:  Hex(def.CountSeed),
		},
		Seed:      Hex(r.Seed),
		Depth:     r.Depth,
		Criteria:  r.Criteria,
		Generated: r.Meta.Generated,
		Results:   make([]ResultData, 0, len(r.Meta.Results)),
	}
	for _, res := range r.Meta.Results {
		e := res.Entity
		ivs := make([]int, len(e.IVs))
		for i, iv := range e.IVs {
			ivs[i] = int(iv)
		}
		data.Results = append(data.Results, ResultData{
			Path:     advance.Join(res.Advances, "|"),
			Index:    e.Index,
			SlotSeed: Hex(e.SlotSeed),
			PID:      e.PID,
			Name:     e.Slot.Name,
			Species:  e.Species,
			Shiny:    e.IsShiny,
			Alpha:    e.IsAlpha,
			Nature:   spawn.NatureName(e.Nature),
			IVs:      ivs,
		})
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version != Version {
		return nil, fmt.Errorf("unsupported save version %q", sd.Version)
	}
	// Ensure the result list is never nil after load.
	if sd.Results == nil {
		sd.Results = []ResultData{}
	}
	return &sd, nil
}

// Def rebuilds the session definition of a loaded run.
func (sd *SaveData) Def() (types.SessionDef, error) {
	kind, err := session.ParseKind(sd.Session.Kind)
	if err != nil {
		return types.SessionDef{}, err
	}
	s := sd.Session
	return types.SessionDef{
		Name:       s.Name,
		Kind:       kind,
		Table:      uint64(s.Table),
		Count:      s.Count,
		Bonus:      uint64(s.Bonus),
		BonusCount: s.BonusCount,
		MaxAlive:   s.MaxAlive,
		MinAlive:   s.MinAlive,
		CountSeed:  uint64(s.CountSeed),
		Seed:       uint64(sd.Seed),
	}, nil
}

// Mismatch is a saved result that did not reproduce.
type Mismatch struct {
	Result ResultData
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s #%d: %s", m.Result.Path, m.Result.Index, m.Reason)
}

// Verify replays every saved result against tables and returns those
// whose slot seed or PID does not come back.
func Verify(sd *SaveData, tables spawn.Tables) ([]Mismatch, error) {
	def, err := sd.Def()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	g, err := session.FromDef(def)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var bad []Mismatch
	for _, r := range sd.Results {
		path, err := advance.ParsePath(r.Path)
		if err != nil {
			bad = append(bad, Mismatch{r, err.Error()})
			continue
		}
		m, _, err := engine.TryReplay(g, tables, uint64(sd.Seed), path, nil)
		if err != nil {
			bad = append(bad, Mismatch{r, err.Error()})
			continue
		}
		got, ok := m.Find(path, r.Index)
		switch {
		case !ok:
			bad = append(bad, Mismatch{r, "no spawn at this index"})
		case got.Entity.SlotSeed != uint64(r.SlotSeed):
			bad = append(bad, Mismatch{r, fmt.Sprintf("slot seed 0x%016X", got.Entity.SlotSeed)})
		case got.Entity.PID != r.PID:
			bad = append(bad, Mismatch{r, fmt.Sprintf("pid 0x%08X", got.Entity.PID)})
		}
	}
	return bad, nil
}
