package models

import "time"

type AgeStage string

const (
	StageEgg   AgeStage = "egg"
	StageChild AgeStage = "child"
	StageTeen  AgeStage = "teen"
	StageAdult AgeStage = "adult"
	StageElder AgeStage = "elder"
)

const (
	StatMin = 0
	StatMax = 100

	MaxNameLen = 20
)

type Owner struct {
	NodeID          string    `json:"node_id"`
	CurrentPetID    int64     `json:"current_pet_id"`
	TotalPetsRaised int       `json:"total_pets_raised"`
	CreatedAt       time.Time `json:"created_at"`
}

type Pet struct {
	ID         int64  `json:"id"`
	OwnerID    string `json:"owner_id"`
	Generation int    `json:"generation"`
	DNASeed    string `json:"dna_seed"`
	Name       string `json:"name,omitempty"`

	BirthTime        time.Time `json:"birth_time"`
	LastInteraction  time.Time `json:"last_interaction"`
	LastNotification time.Time `json:"last_notification"`
	LastAmbient      time.Time `json:"last_ambient"`

	Stage     AgeStage `json:"age_stage"`
	PrevStage AgeStage `json:"last_age_stage"`

	Hunger    int `json:"hunger"`
	Hygiene   int `json:"hygiene"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	Health    int `json:"health"`

	Alive       bool   `json:"is_alive"`
	DeathReason string `json:"death_reason,omitempty"`
	Quiet       bool   `json:"quiet"`
}

// HoursOld returns the pet age in fractional hours at the given instant.
func (p *Pet) HoursOld(now time.Time) float64 {
	return now.Sub(p.BirthTime).Hours()
}

func (p *Pet) Clone() *Pet {
	c := *p
	return &c
}

func ClampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}
