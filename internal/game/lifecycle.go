package game

import (
	"strings"
	"time"

	"meshagotchi/internal/models"
	"meshagotchi/internal/structures"
)

const (
	deathReasonNeglect = "Health depleted (neglect)"
	deathReasonOldAge  = "Natural death (old age)"
)

// Simulator computes stat decay, age transitions, death and care actions
// as pure functions of a pet snapshot and the current time. Every method
// returns a typed patch; the caller applies it through the store.
type Simulator struct {
	cfg structures.GameConfig
}

func NewSimulator(cfg structures.GameConfig) *Simulator {
	return &Simulator{cfg: cfg}
}

// Decay applies elapsed-time drift to the five stats. The health rule
// reads the already-updated hunger and hygiene values; tests pin this
// ordering, do not "fix" it.
func (s *Simulator) Decay(pet *models.Pet, now time.Time) *models.PetPatch {
	hours := now.Sub(pet.LastInteraction).Hours()
	if hours <= 0 {
		return &models.PetPatch{}
	}

	hunger := models.ClampStat(pet.Hunger + int(s.cfg.HungerRate*hours))
	hygiene := models.ClampStat(pet.Hygiene - int(s.cfg.HygieneRate*hours))
	happiness := models.ClampStat(pet.Happiness - int(s.cfg.HappinessRate*hours))
	energy := models.ClampStat(pet.Energy + int(s.cfg.EnergyRate*hours))

	patch := &models.PetPatch{
		Hunger:          models.IntPtr(hunger),
		Hygiene:         models.IntPtr(hygiene),
		Happiness:       models.IntPtr(happiness),
		Energy:          models.IntPtr(energy),
		LastInteraction: models.TimePtr(now),
	}

	if hunger > 80 || hygiene < 20 {
		patch.Health = models.IntPtr(models.ClampStat(pet.Health - int(s.cfg.HealthRate*hours)))
	}
	return patch
}

// StageFor maps age in hours onto the fixed, non-overlapping stage bands.
func (s *Simulator) StageFor(hoursOld float64) models.AgeStage {
	switch {
	case hoursOld <= s.cfg.EggMaxHours:
		return models.StageEgg
	case hoursOld <= s.cfg.ChildMaxHours:
		return models.StageChild
	case hoursOld <= s.cfg.TeenMaxHours:
		return models.StageTeen
	case hoursOld <= s.cfg.AdultMaxHours:
		return models.StageAdult
	default:
		return models.StageElder
	}
}

// Aging recomputes the stage from birth time. Idempotent: a second call
// with the same now yields an empty patch. On a transition the outgoing
// stage is parked in PrevStage until the notifier reports the upgrade.
func (s *Simulator) Aging(pet *models.Pet, now time.Time) *models.PetPatch {
	stage := s.StageFor(pet.HoursOld(now))
	if stage == pet.Stage {
		return &models.PetPatch{}
	}
	return &models.PetPatch{
		Stage:     models.StagePtr(stage),
		PrevStage: models.StagePtr(pet.Stage),
	}
}

// DeathCheck reports whether a death condition fired and why. Health
// depletion takes precedence over old age.
func (s *Simulator) DeathCheck(pet *models.Pet, now time.Time) (string, bool) {
	if !pet.Alive {
		return "", false
	}
	if pet.Health <= 0 {
		return deathReasonNeglect, true
	}
	if pet.HoursOld(now) >= s.cfg.MaxLifespan {
		return deathReasonOldAge, true
	}
	return "", false
}

func (s *Simulator) Feed(pet *models.Pet, now time.Time) *models.PetPatch {
	return &models.PetPatch{
		Hunger:          models.IntPtr(models.ClampStat(pet.Hunger - 30)),
		LastInteraction: models.TimePtr(now),
	}
}

func (s *Simulator) Clean(pet *models.Pet, now time.Time) *models.PetPatch {
	return &models.PetPatch{
		Hygiene:         models.IntPtr(models.ClampStat(pet.Hygiene + 30)),
		LastInteraction: models.TimePtr(now),
	}
}

func (s *Simulator) Play(pet *models.Pet, now time.Time) (*models.PetPatch, error) {
	if pet.Energy < 20 {
		return nil, NewValidationError("Energy too low. Pet needs rest.")
	}
	return &models.PetPatch{
		Happiness:       models.IntPtr(models.ClampStat(pet.Happiness + 25)),
		Energy:          models.IntPtr(models.ClampStat(pet.Energy - 20)),
		LastInteraction: models.TimePtr(now),
	}, nil
}

func (s *Simulator) Rename(pet *models.Pet, name string) (*models.PetPatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("Usage: /name <name>")
	}
	// Truncate on rune boundaries so a multi-byte name stays valid UTF-8.
	if runes := []rune(name); len(runes) > models.MaxNameLen {
		name = string(runes[:models.MaxNameLen])
	}
	return &models.PetPatch{Name: models.StringPtr(name)}, nil
}

func (s *Simulator) SetQuiet(quiet bool) *models.PetPatch {
	return &models.PetPatch{Quiet: models.BoolPtr(quiet)}
}
