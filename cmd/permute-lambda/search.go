// Permute-lambda runs one spawner search per request. Built with the
// lambda tag it serves a Lambda function URL; without it, it reads one
// request from stdin for local testing.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/engine/save"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/loader"
	"github.com/nathoo/permutemmo/report"
	"github.com/nathoo/permutemmo/shell"
	"github.com/nathoo/permutemmo/types"
)

// Depth limits per request. maxDepth bounds wave chaining; a repeating
// spawner branches at every step, so its limit is much lower.
const (
	maxDepth        = 20
	maxRegularDepth = 8
)

func depthLimit(kind types.Kind) int {
	if kind == types.KindRegular {
		return maxRegularDepth
	}
	return maxDepth
}

type searchRequest struct {
	Kind       string   `json:"kind"`
	Base       save.Hex `json:"base"`
	BaseCount  int      `json:"base_count"`
	Bonus      save.Hex `json:"bonus"`
	BonusCount int      `json:"bonus_count"`
	MaxAlive   int      `json:"max"`
	MinAlive   int      `json:"min"`
	CountSeed  save.Hex `json:"count_seed"`
	Seed       save.Hex `json:"seed"`
	Depth      *int     `json:"depth"`
	Criteria   string   `json:"criteria"`
	Raw        *bool    `json:"raw"`

	SpeciesID uint16 `json:"species_id"` // outbreaks only

	Species json.RawMessage `json:"species"` // [{"id":..,"name":..,"gender":..,"behavior":..}]
	Tables  json.RawMessage `json:"tables"`  // mmo_es.json format
}

type searchResponse struct {
	Lines     []string        `json:"lines"`
	Count     int             `json:"count"`
	Generated int             `json:"generated"`
	Run       json.RawMessage `json:"run"`
}

// requestError is a problem with the request itself, as opposed to a
// failure while searching.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{fmt.Sprintf(format, args...)}
}

func (r searchRequest) def() (types.SessionDef, error) {
	kind, err := session.ParseKind(r.Kind)
	if err != nil {
		return types.SessionDef{}, badRequest("%v", err)
	}
	table := uint64(r.Base)
	if kind == types.KindOutbreak {
		table = uint64(r.SpeciesID)
	}
	return types.SessionDef{
		Name:       "request",
		Kind:       kind,
		Table:      table,
		Count:      r.BaseCount,
		Bonus:      uint64(r.Bonus),
		BonusCount: r.BonusCount,
		MaxAlive:   r.MaxAlive,
		MinAlive:   r.MinAlive,
		CountSeed:  uint64(r.CountSeed),
		Seed:       uint64(r.Seed),
	}, nil
}

// search compiles the request's data and runs its search.
func search(body []byte, logger *log.Logger) (searchResponse, error) {
	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return searchResponse{}, badRequest("invalid JSON: %v", err)
	}
	if len(req.Species) == 0 {
		return searchResponse{}, badRequest("missing species field")
	}
	def, err := req.def()
	if err != nil {
		return searchResponse{}, err
	}

	docs := [][]byte{req.Species}
	if len(req.Tables) > 0 {
		docs = append(docs, req.Tables)
	}
	data, err := loader.LoadJSON(logger, docs...)
	if err != nil {
		return searchResponse{}, badRequest("%v", err)
	}
	if def.Kind != types.KindOutbreak {
		for _, t := range []uint64{def.Table, def.Bonus} {
			if !session.IsEmptyHash(t) && !data.Catalog.HasTable(t) {
				return searchResponse{}, badRequest("table 0x%016X is not in tables", t)
			}
		}
	}

	sh, err := shell.New(data, logger)
	if err != nil {
		return searchResponse{}, err
	}
	if err := sh.SetSession(def); err != nil {
		return searchResponse{}, badRequest("%v", err)
	}
	limit := depthLimit(def.Kind)
	depth := min(sh.Depth(), limit)
	if req.Depth != nil {
		if *req.Depth > limit {
			return searchResponse{}, badRequest("depth %d exceeds %d", *req.Depth, limit)
		}
		depth = *req.Depth
	}
	if err := sh.SetDepth(depth); err != nil {
		return searchResponse{}, badRequest("%v", err)
	}
	if req.Criteria != "" {
		if err := sh.SetCriteria(req.Criteria); err != nil {
			return searchResponse{}, badRequest("%v", err)
		}
	}
	raw := req.Raw == nil || *req.Raw

	m, err := sh.Search()
	if err != nil {
		return searchResponse{}, err
	}
	run, err := sh.Export()
	if err != nil {
		return searchResponse{}, err
	}
	return searchResponse{
		Lines:     report.Lines(m, raw),
		Count:     len(m.Results),
		Generated: m.Generated,
		Run:       run,
	}, nil
}
