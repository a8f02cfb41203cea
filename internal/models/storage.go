package models

// Storage is the on-disk snapshot of the whole pet database.
type Storage struct {
	Owners    map[string]*Owner `json:"owners"`
	Pets      map[int64]*Pet    `json:"pets"`
	NextPetID int64             `json:"next_pet_id"`
}

func NewStorage() *Storage {
	return &Storage{
		Owners:    make(map[string]*Owner),
		Pets:      make(map[int64]*Pet),
		NextPetID: 1,
	}
}
