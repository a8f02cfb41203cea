package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// PetPatch enumerates the mutable pet fields. Only non-nil fields are
// applied, and a patch is applied in full or not at all.
type PetPatch struct {
	Name *string

	Hunger    *int
	Hygiene   *int
	Happiness *int
	Energy    *int
	Health    *int

	LastInteraction  *time.Time
	LastNotification *time.Time
	LastAmbient      *time.Time

	Stage     *AgeStage
	PrevStage *AgeStage

	Quiet *bool
}

func (p *PetPatch) IsEmpty() bool {
	return p == nil || *p == PetPatch{}
}

// Validate rejects out-of-range stats, overlong names and unknown stages
// before the patch reaches the store.
func (p *PetPatch) Validate() error {
	for _, s := range []struct {
		name string
		val  *int
	}{
		{"hunger", p.Hunger},
		{"hygiene", p.Hygiene},
		{"happiness", p.Happiness},
		{"energy", p.Energy},
		{"health", p.Health},
	} {
		if s.val != nil && (*s.val < StatMin || *s.val > StatMax) {
			return fmt.Errorf("patch %s out of range: %d", s.name, *s.val)
		}
	}
	if p.Name != nil && utf8.RuneCountInString(*p.Name) > MaxNameLen {
		return fmt.Errorf("patch name too long: %d chars", utf8.RuneCountInString(*p.Name))
	}
	for _, st := range []*AgeStage{p.Stage, p.PrevStage} {
		if st != nil && !validStage(*st) {
			return fmt.Errorf("patch stage unknown: %q", *st)
		}
	}
	return nil
}

// Apply writes the patch onto the pet. The caller must have validated.
func (p *PetPatch) Apply(pet *Pet) {
	if p.Name != nil {
		pet.Name = *p.Name
	}
	if p.Hunger != nil {
		pet.Hunger = *p.Hunger
	}
	if p.Hygiene != nil {
		pet.Hygiene = *p.Hygiene
	}
	if p.Happiness != nil {
		pet.Happiness = *p.Happiness
	}
	if p.Energy != nil {
		pet.Energy = *p.Energy
	}
	if p.Health != nil {
		pet.Health = *p.Health
	}
	if p.LastInteraction != nil {
		pet.LastInteraction = *p.LastInteraction
	}
	if p.LastNotification != nil {
		pet.LastNotification = *p.LastNotification
	}
	if p.LastAmbient != nil {
		pet.LastAmbient = *p.LastAmbient
	}
	if p.Stage != nil {
		pet.Stage = *p.Stage
	}
	if p.PrevStage != nil {
		pet.PrevStage = *p.PrevStage
	}
	if p.Quiet != nil {
		pet.Quiet = *p.Quiet
	}
}

func validStage(s AgeStage) bool {
	switch s {
	case StageEgg, StageChild, StageTeen, StageAdult, StageElder:
		return true
	}
	return false
}

func IntPtr(v int) *int              { return &v }
func StringPtr(v string) *string     { return &v }
func TimePtr(v time.Time) *time.Time { return &v }
func StagePtr(v AgeStage) *AgeStage  { return &v }
func BoolPtr(v bool) *bool           { return &v }
