package game

import (
	"math/rand"
	"time"

	"meshagotchi/internal/models"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/services"
	"meshagotchi/internal/structures"
)

const (
	lowHealthThreshold  = 30
	lowHygieneThreshold = 30

	// A quiet pet still speaks up when the end is near.
	elderWarningHours = 24
)

type Notification struct {
	NodeID string
	Kind   string
	Text   string
}

// Notifier performs the periodic sweep over all living pets and decides,
// per pet, whether to emit at most one message. The random source is
// injected so flavor selection is deterministic under test.
type Notifier struct {
	conf    *structures.Config
	store   services.PetStoreInterface
	sim     *Simulator
	rng     *rand.Rand
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

// NewChatterRand seeds the shared flavor-selection source.
func NewChatterRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func NewNotifier(conf *structures.Config, store services.PetStoreInterface, sim *Simulator, rng *rand.Rand, logger providers.Logger, metrics providers.MetricsProviderInterface) *Notifier {
	return &Notifier{
		conf:    conf,
		store:   store,
		sim:     sim,
		rng:     rng,
		logger:  logger,
		metrics: metrics,
	}
}

// Sweep visits every living pet once. A failure on one pet never blocks
// the rest of the sweep.
func (n *Notifier) Sweep(now time.Time) []Notification {
	var out []Notification
	for _, pet := range n.store.AlivePets() {
		notification, err := n.sweepPet(pet, now)
		if err != nil {
			n.logger.Errorf(providers.TypeNotify, "Sweep failed for pet %d (%s): %s", pet.ID, pet.OwnerID, err)
			continue
		}
		if notification != nil {
			n.metrics.IncNotificationsTotal(notification.Kind)
			out = append(out, *notification)
		}
	}
	n.metrics.SetPetsAlive(n.store.AliveCount())
	return out
}

func (n *Notifier) sweepPet(pet *models.Pet, now time.Time) (*Notification, error) {
	// Lifecycle first, so no rule below reads stale stats.
	for _, patch := range []*models.PetPatch{n.sim.Decay(pet, now), n.sim.Aging(pet, now)} {
		if patch.IsEmpty() {
			continue
		}
		if err := n.store.ApplyPatch(pet.ID, patch); err != nil {
			return nil, err
		}
		patch.Apply(pet)
	}
	if reason, dead := n.sim.DeathCheck(pet, now); dead {
		if err := n.store.MarkDead(pet.ID, reason); err != nil {
			return nil, err
		}
		n.logger.Infof(providers.TypeNotify, "Pet %d (%s) died: %s", pet.ID, pet.OwnerID, reason)
		return nil, nil
	}

	if pet.PrevStage != pet.Stage {
		err := n.store.ApplyPatch(pet.ID, &models.PetPatch{
			PrevStage:        models.StagePtr(pet.Stage),
			LastNotification: models.TimePtr(now),
		})
		if err != nil {
			return nil, err
		}
		return &Notification{NodeID: pet.OwnerID, Kind: "upgrade", Text: upgradeMessage(pet.PrevStage, pet.Stage)}, nil
	}

	cooledDown := pet.LastNotification.IsZero() || now.Sub(pet.LastNotification) >= n.conf.Notifier.AlertCooldown

	if pet.Health < lowHealthThreshold && cooledDown {
		if err := n.stampNotified(pet.ID, now); err != nil {
			return nil, err
		}
		return &Notification{NodeID: pet.OwnerID, Kind: "health", Text: healthWarning}, nil
	}

	if pet.Hygiene < lowHygieneThreshold && cooledDown {
		if err := n.stampNotified(pet.ID, now); err != nil {
			return nil, err
		}
		return &Notification{NodeID: pet.OwnerID, Kind: "hygiene", Text: hygieneWarning}, nil
	}

	return n.ambient(pet, now)
}

func (n *Notifier) ambient(pet *models.Pet, now time.Time) (*Notification, error) {
	if !pet.LastAmbient.IsZero() && now.Sub(pet.LastAmbient) < n.conf.Notifier.AmbientCooldown {
		return nil, nil
	}

	pool := n.pickPool(pet, now)
	if pool == "" {
		return nil, nil
	}

	err := n.store.ApplyPatch(pet.ID, &models.PetPatch{LastAmbient: models.TimePtr(now)})
	if err != nil {
		return nil, err
	}

	messages := chatterPools[pool]
	text := messages[n.rng.Intn(len(messages))]
	return &Notification{NodeID: pet.OwnerID, Kind: "ambient", Text: text}, nil
}

// pickPool selects the chatter category, honoring quiet mode: a quiet pet
// only speaks when health is critical or its lifespan is nearly over, and
// then always with an urgent pool.
func (n *Notifier) pickPool(pet *models.Pet, now time.Time) string {
	if pet.Quiet {
		hoursLeft := n.conf.Game.MaxLifespan - pet.HoursOld(now)
		if pet.Health >= lowHealthThreshold && hoursLeft >= elderWarningHours {
			return ""
		}
		if pet.Health < 20 {
			return "hunger"
		}
		return "hygiene"
	}

	switch {
	case pet.Hunger > 70:
		return "hunger"
	case pet.Hygiene < 30:
		return "hygiene"
	case pet.Happiness < 30:
		return "happiness"
	default:
		return "greeting"
	}
}

func (n *Notifier) stampNotified(petID int64, now time.Time) error {
	return n.store.ApplyPatch(petID, &models.PetPatch{LastNotification: models.TimePtr(now)})
}
