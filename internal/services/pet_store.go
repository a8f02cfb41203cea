package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"meshagotchi/internal/models"
)

type PetStoreInterface interface {
	GetOrCreateOwner(nodeID string, now time.Time) *models.Owner
	GetActivePet(nodeID string) *models.Pet
	CreatePet(nodeID string, now time.Time) (*models.Pet, error)
	ApplyPatch(petID int64, patch *models.PetPatch) error
	MarkDead(petID int64, reason string) error
	AlivePets() []*models.Pet
	AliveCount() int
	OwnerCount() int
	GetSnapshot() *models.Storage
	PutSnapshot(storage *models.Storage)
}

// PetStore is the in-memory record store for owners and pets. Every
// accessor returns copies, so callers always work on snapshots and
// mutations only happen through validated patches.
type PetStore struct {
	mu      sync.Mutex
	storage *models.Storage
}

func NewPetStore() PetStoreInterface {
	return &PetStore{storage: models.NewStorage()}
}

func (s *PetStore) GetOrCreateOwner(nodeID string, now time.Time) *models.Owner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.storage.Owners[nodeID]; ok {
		c := *owner
		return &c
	}
	owner := &models.Owner{NodeID: nodeID, CreatedAt: now}
	s.storage.Owners[nodeID] = owner
	c := *owner
	return &c
}

func (s *PetStore) GetActivePet(nodeID string) *models.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.storage.Owners[nodeID]
	if !ok || owner.CurrentPetID == 0 {
		return nil
	}
	pet, ok := s.storage.Pets[owner.CurrentPetID]
	if !ok || !pet.Alive {
		return nil
	}
	return pet.Clone()
}

// CreatePet hatches a new generation for the owner. The one-living-pet
// invariant is checked here again even though the engine pre-checks it.
func (s *PetStore) CreatePet(nodeID string, now time.Time) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.storage.Owners[nodeID]
	if !ok {
		owner = &models.Owner{NodeID: nodeID, CreatedAt: now}
		s.storage.Owners[nodeID] = owner
	}
	if owner.CurrentPetID != 0 {
		if pet, ok := s.storage.Pets[owner.CurrentPetID]; ok && pet.Alive {
			return nil, fmt.Errorf("owner %s already has a living pet", nodeID)
		}
	}

	generation := owner.TotalPetsRaised + 1
	pet := &models.Pet{
		ID:              s.storage.NextPetID,
		OwnerID:         nodeID,
		Generation:      generation,
		DNASeed:         models.DeriveDNASeed(nodeID, now, generation),
		BirthTime:       now,
		LastInteraction: now,
		Stage:           models.StageEgg,
		PrevStage:       models.StageEgg,
		Hunger:          50,
		Hygiene:         50,
		Happiness:       50,
		Energy:          100,
		Health:          100,
		Alive:           true,
	}
	s.storage.NextPetID++
	s.storage.Pets[pet.ID] = pet

	owner.CurrentPetID = pet.ID
	owner.TotalPetsRaised = generation

	return pet.Clone(), nil
}

func (s *PetStore) ApplyPatch(petID int64, patch *models.PetPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.storage.Pets[petID]
	if !ok {
		return fmt.Errorf("pet %d not found", petID)
	}
	patch.Apply(pet)
	return nil
}

func (s *PetStore) MarkDead(petID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.storage.Pets[petID]
	if !ok {
		return fmt.Errorf("pet %d not found", petID)
	}
	pet.Alive = false
	pet.DeathReason = reason

	if owner, ok := s.storage.Owners[pet.OwnerID]; ok && owner.CurrentPetID == petID {
		owner.CurrentPetID = 0
	}
	return nil
}

func (s *PetStore) AlivePets() []*models.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	pets := make([]*models.Pet, 0)
	for _, pet := range s.storage.Pets {
		if pet.Alive {
			pets = append(pets, pet.Clone())
		}
	}
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID < pets[j].ID })
	return pets
}

func (s *PetStore) AliveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, pet := range s.storage.Pets {
		if pet.Alive {
			count++
		}
	}
	return count
}

func (s *PetStore) OwnerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.storage.Owners)
}

func (s *PetStore) GetSnapshot() *models.Storage {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := models.NewStorage()
	snapshot.NextPetID = s.storage.NextPetID
	for id, owner := range s.storage.Owners {
		c := *owner
		snapshot.Owners[id] = &c
	}
	for id, pet := range s.storage.Pets {
		snapshot.Pets[id] = pet.Clone()
	}
	return snapshot
}

func (s *PetStore) PutSnapshot(storage *models.Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if storage.Owners == nil {
		storage.Owners = make(map[string]*models.Owner)
	}
	if storage.Pets == nil {
		storage.Pets = make(map[int64]*models.Pet)
	}
	if storage.NextPetID < 1 {
		storage.NextPetID = 1
	}
	for _, pet := range storage.Pets {
		if pet.ID >= storage.NextPetID {
			storage.NextPetID = pet.ID + 1
		}
	}
	s.storage = storage
}
