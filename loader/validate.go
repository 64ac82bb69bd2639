package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/permutemmo/engine/filter"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
}

// validate checks the compiled data for referential integrity and
// consistency. Warnings are stored on data for the caller to log.
func validate(data *Data) error {
	ve := &ValidationError{}
	ve.Errors = append(ve.Errors, data.errs...)
	ve.Warnings = append(ve.Warnings, data.Warnings...)

	validateSettings(data.Settings, ve)

	for _, id := range data.Catalog.TableIDs() {
		validateSlots(fmt.Sprintf("table 0x%016X", id), data.Catalog.Slots(id), ve)
	}

	names := map[string]bool{}
	for _, def := range data.Sessions {
		key := strings.ToLower(def.Name)
		if names[key] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate session name %q", def.Name))
		}
		names[key] = true
		validateSession(def, data.Catalog, ve)
	}

	data.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateSettings(s types.Settings, ve *ValidationError) {
	if s.Depth < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Settings.depth must not be negative, got %d", s.Depth))
	}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Settings.log_level %q is not a known level", s.LogLevel))
	}
	if s.Criteria != nil {
		if err := filter.Validate(*s.Criteria); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Settings.criteria: %v", err))
		}
	}
}

func validateSlots(label string, slots []types.SlotDetail, ve *ValidationError) {
	if len(slots) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s has no slots", label))
		return
	}
	alpha := false
	for i, s := range slots {
		switch {
		case s.Rate < 0:
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s slot %d (%s): negative rate %d", label, i+1, s.Name, s.Rate))
		case s.Rate == 0:
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s slot %d (%s) can never be picked", label, i+1, s.Name))
		}
		if s.MinLevel > s.MaxLevel {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s slot %d (%s): level range %d..%d is inverted", label, i+1, s.Name, s.MinLevel, s.MaxLevel))
		}
		if s.FlawlessIVs < 0 || s.FlawlessIVs > 6 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s slot %d (%s): %d flawless IVs", label, i+1, s.Name, s.FlawlessIVs))
		}
		alpha = alpha || s.IsAlpha
	}
	if !alpha {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s has no alpha slot", label))
	}
}

func validateSession(def types.SessionDef, cat *spawn.Catalog, ve *ValidationError) {
	label := fmt.Sprintf("%s %q", session.KindName(def.Kind), def.Name)
	if _, err := session.FromDef(def); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
		return
	}

	switch def.Kind {
	case types.KindMMO:
		if !cat.HasTable(def.Table) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s references undefined base table 0x%016X", label, def.Table))
		}
		if !session.IsEmptyHash(def.Bonus) && !cat.HasTable(def.Bonus) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s references undefined bonus table 0x%016X", label, def.Bonus))
		}
		if def.Count <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s needs a positive base_count", label))
		}
		if !session.IsEmptyHash(def.Bonus) && def.BonusCount <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s needs a positive bonus_count", label))
		}
	case types.KindOutbreak:
		if !cat.HasTable(def.Table) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s references undefined species %d", label, def.Table))
		}
		if def.Count <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s needs a positive count", label))
		}
	case types.KindRegular:
		if !cat.HasTable(def.Table) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s references undefined table 0x%016X", label, def.Table))
		}
		if def.MinAlive != 0 && def.MinAlive != def.MaxAlive && def.CountSeed == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s has a ranged count without count_seed", label))
		}
	}

	if def.Seed == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s has no seed; pass one with --seed", label))
	}
}
