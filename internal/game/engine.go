package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"meshagotchi/internal/ai"
	"meshagotchi/internal/models"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/services"
	"meshagotchi/internal/structures"
)

const welcomeText = "Welcome to MeshAgotchi!\n" +
	"A virtual pet game on LoRa mesh networks. " +
	"Hatch and care for your unique pet by feeding, cleaning, and playing with them.\n" +
	"Send /help to get started."

const helpText = "Commands:\n" +
	"/help - Help\n" +
	"/howto - Game guide\n" +
	"/hatch - New pet\n" +
	"/pet - Stats & art\n" +
	"/feed - Feed\n" +
	"/clean - Clean\n" +
	"/play - Play\n" +
	"/status - Status\n" +
	"/name <n> - Name\n" +
	"/quiet - Mute chatter\n" +
	"/talk - Unmute\n" +
	"/ai <q> - Ask the pet"

// Engine routes inbound command text to handlers. Every command on a pet
// first advances its lifecycle (decay, aging, death) so actions never
// read stale stats, then applies its own mutation as one patch. Commands
// hold the ops lock shared with the sweep scheduler, so a command and a
// sweep never interleave on the same pet.
type Engine struct {
	conf    *structures.Config
	store   services.PetStoreInterface
	sim     *Simulator
	textgen ai.ClientInterface
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	ops     *sync.Mutex
	now     func() time.Time
}

func NewEngine(conf *structures.Config, store services.PetStoreInterface, sim *Simulator, textgen ai.ClientInterface, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, ops *sync.Mutex) *Engine {
	return &Engine{
		conf:    conf,
		store:   store,
		sim:     sim,
		textgen: textgen,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		ops:     ops,
		now:     time.Now,
	}
}

// SetClock replaces the time source. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// HandleCommand processes one inbound message and returns the response
// frames, each within the configured frame budget.
func (e *Engine) HandleCommand(nodeID, text string) []string {
	e.ops.Lock()
	defer e.ops.Unlock()

	text = strings.TrimSpace(text)
	budget := e.conf.Transport.MaxFrameLen

	now := e.now()
	e.store.GetOrCreateOwner(nodeID, now)

	if !strings.HasPrefix(text, "/") {
		return Chunk([]string{welcomeText}, budget)
	}

	fields := strings.SplitN(text, " ", 2)
	command := strings.ToLower(fields[0])
	args := ""
	if len(fields) > 1 {
		args = strings.TrimSpace(fields[1])
	}

	pet := e.store.GetActivePet(nodeID)
	deathReason := ""
	if pet != nil {
		var err error
		pet, deathReason, err = e.advance(pet, now)
		if err != nil {
			e.logger.Errorf(providers.TypeGame, "Lifecycle advance failed for %s: %s", nodeID, err)
			return Chunk([]string{"Temporary fault. Try again in a moment."}, budget)
		}
	}

	e.metrics.IncCommandsTotal(strings.TrimPrefix(command, "/"))

	parts, err := e.dispatch(command, args, nodeID, pet, deathReason, now)
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return Chunk([]string{vErr.Msg}, budget)
	}
	if err != nil {
		e.logger.Errorf(providers.TypeGame, "Command %s from %s failed: %s", command, nodeID, err)
		return Chunk([]string{"Temporary fault. Try again in a moment."}, budget)
	}
	return Chunk(parts, budget)
}

// advance runs decay, aging and the death check on the addressed pet.
// Returns the refreshed snapshot, or nil plus the death reason when a
// death condition fired during this advance.
func (e *Engine) advance(pet *models.Pet, now time.Time) (*models.Pet, string, error) {
	for _, patch := range []*models.PetPatch{e.sim.Decay(pet, now), e.sim.Aging(pet, now)} {
		if patch.IsEmpty() {
			continue
		}
		if err := e.store.ApplyPatch(pet.ID, patch); err != nil {
			return nil, "", err
		}
		patch.Apply(pet)
	}
	if reason, dead := e.sim.DeathCheck(pet, now); dead {
		if err := e.store.MarkDead(pet.ID, reason); err != nil {
			return nil, "", err
		}
		e.logger.Infof(providers.TypeGame, "Pet %d (%s) died: %s", pet.ID, pet.OwnerID, reason)
		return nil, reason, nil
	}
	return pet, "", nil
}

func (e *Engine) dispatch(command, args, nodeID string, pet *models.Pet, deathReason string, now time.Time) ([]string, error) {
	switch command {
	case "/help":
		return []string{helpText}, nil
	case "/howto":
		return howtoParts(), nil
	case "/hatch":
		return e.handleHatch(nodeID, pet, now)
	case "/pet":
		return e.handlePet(pet, deathReason)
	case "/feed":
		return e.handleCare(pet, deathReason, func() (*models.PetPatch, error) {
			return e.sim.Feed(pet, now), nil
		}, "Current supplied. Hunger decreased.")
	case "/clean":
		return e.handleCare(pet, deathReason, func() (*models.PetPatch, error) {
			return e.sim.Clean(pet, now), nil
		}, "Buffer cleared. Hygiene restored.")
	case "/play":
		return e.handleCare(pet, deathReason, func() (*models.PetPatch, error) {
			return e.sim.Play(pet, now)
		}, "Play session complete. Happiness increased!")
	case "/status":
		return e.handleStatus(pet, deathReason, now)
	case "/name":
		return e.handleName(pet, deathReason, args)
	case "/quiet":
		return e.handleQuiet(pet, deathReason, true)
	case "/talk":
		return e.handleQuiet(pet, deathReason, false)
	case "/ai":
		return e.handleAI(args)
	default:
		return []string{welcomeText}, nil
	}
}

// requireLiving converts an absent or just-deceased pet into the
// appropriate ValidationError.
func requireLiving(pet *models.Pet, deathReason string) error {
	if pet != nil {
		return nil
	}
	if deathReason != "" {
		return NewValidationError(fmt.Sprintf("Pet died: %s. Use /hatch for new pet.", deathReason))
	}
	return NewValidationError("No active pet. Use /hatch to create one.")
}

func (e *Engine) handleHatch(nodeID string, pet *models.Pet, now time.Time) ([]string, error) {
	if pet != nil {
		return nil, NewValidationError("You already have a living pet! Use /pet to check on them.")
	}
	created, err := e.store.CreatePet(nodeID, now)
	if err != nil {
		return nil, err
	}
	e.logger.Infof(providers.TypeGame, "Hatched pet %d generation %d for %s", created.ID, created.Generation, nodeID)
	return []string{fmt.Sprintf("Signal acquired! Pet Generation %d hatched!\nUse /pet to see your new pet.", created.Generation)}, nil
}

func (e *Engine) handlePet(pet *models.Pet, deathReason string) ([]string, error) {
	if err := requireLiving(pet, deathReason); err != nil {
		return nil, err
	}

	art := e.renderCached(pet)

	var b strings.Builder
	if pet.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", pet.Name)
	}
	b.WriteString(art)
	fmt.Fprintf(&b, "\nAge: %s", pet.Stage)
	fmt.Fprintf(&b, "\nHealth: %d/100", pet.Health)
	fmt.Fprintf(&b, "\nHunger: %d/100", pet.Hunger)
	fmt.Fprintf(&b, "\nHygiene: %d/100", pet.Hygiene)
	fmt.Fprintf(&b, "\nHappiness: %d/100", pet.Happiness)
	fmt.Fprintf(&b, "\nEnergy: %d/100", pet.Energy)
	if flavor := flavorText(pet); flavor != "" {
		b.WriteString("\n" + flavor)
	}
	return []string{b.String()}, nil
}

func (e *Engine) renderCached(pet *models.Pet) string {
	key := pet.DNASeed + ":" + string(pet.Stage) + ":" + pet.Name
	if cached, ok := e.cache.Get(key); ok {
		e.metrics.IncCacheHits()
		return string(cached)
	}
	e.metrics.IncCacheMisses()
	art := RenderPet(pet)
	e.cache.Set(key, []byte(art))
	return art
}

func (e *Engine) handleCare(pet *models.Pet, deathReason string, action func() (*models.PetPatch, error), reply string) ([]string, error) {
	if err := requireLiving(pet, deathReason); err != nil {
		return nil, err
	}
	patch, err := action()
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyPatch(pet.ID, patch); err != nil {
		return nil, err
	}
	return []string{reply}, nil
}

func (e *Engine) handleStatus(pet *models.Pet, deathReason string, now time.Time) ([]string, error) {
	if err := requireLiving(pet, deathReason); err != nil {
		return nil, err
	}

	hoursOld := pet.HoursOld(now)
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", pet.Stage)
	fmt.Fprintf(&b, "Health: %d/100\n", pet.Health)
	fmt.Fprintf(&b, "Alive: %s", formatHours(hoursOld))

	if next, until := e.nextEvolution(pet.Stage, hoursOld); next != "" {
		fmt.Fprintf(&b, "\nNext evolution: %s until %s", formatHours(until), next)
	}
	return []string{b.String()}, nil
}

func (e *Engine) nextEvolution(stage models.AgeStage, hoursOld float64) (string, float64) {
	var boundary float64
	var next models.AgeStage
	switch stage {
	case models.StageEgg:
		boundary, next = e.conf.Game.EggMaxHours, models.StageChild
	case models.StageChild:
		boundary, next = e.conf.Game.ChildMaxHours, models.StageTeen
	case models.StageTeen:
		boundary, next = e.conf.Game.TeenMaxHours, models.StageAdult
	case models.StageAdult:
		boundary, next = e.conf.Game.AdultMaxHours, models.StageElder
	default:
		return "", 0
	}
	until := boundary - hoursOld
	if until <= 0 {
		return "", 0
	}
	return string(next), until
}

func (e *Engine) handleName(pet *models.Pet, deathReason, args string) ([]string, error) {
	if err := requireLiving(pet, deathReason); err != nil {
		return nil, err
	}
	patch, err := e.sim.Rename(pet, args)
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyPatch(pet.ID, patch); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Pet named: %s", *patch.Name)}, nil
}

func (e *Engine) handleQuiet(pet *models.Pet, deathReason string, quiet bool) ([]string, error) {
	if err := requireLiving(pet, deathReason); err != nil {
		return nil, err
	}
	if err := e.store.ApplyPatch(pet.ID, e.sim.SetQuiet(quiet)); err != nil {
		return nil, err
	}
	if quiet {
		return []string{"Quiet mode on. Ambient chatter muted (urgent alerts still get through)."}, nil
	}
	return []string{"Quiet mode off. Your pet will chat again."}, nil
}

func (e *Engine) handleAI(args string) ([]string, error) {
	if args == "" {
		return nil, NewValidationError("Usage: /ai <question>")
	}
	if !e.textgen.Enabled() {
		return nil, NewValidationError("AI backend disabled on this node.")
	}

	timeout := e.conf.Ollama.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := e.textgen.Generate(ctx, args)
	if err != nil {
		// Backend failures become exactly one bounded frame.
		return []string{"AI backend unavailable. Try again later."}, nil
	}
	return ChunkWords("AI: ", text, e.conf.Transport.MaxFrameLen), nil
}

func flavorText(pet *models.Pet) string {
	var messages []string
	if pet.Hunger > 80 {
		messages = append(messages, "Low voltage detected. Supply current.")
	}
	if pet.Hygiene < 20 {
		messages = append(messages, "Buffer overflow! CRC mismatch in sector 4 (Poop).")
	}
	if pet.Happiness > 80 {
		messages = append(messages, "Signal Strength: 100%.")
	}
	if pet.Health < 20 {
		messages = append(messages, "Packet loss critical... disconnecting...")
	}
	return strings.Join(messages, " ")
}

func formatHours(hours float64) string {
	if hours < 24 {
		return fmt.Sprintf("%.1f hours", hours)
	}
	return fmt.Sprintf("%.1f days (%.1f hours)", hours/24, hours)
}

func howtoParts() []string {
	return []string{
		"MeshAgotchi Guide\n" +
			"HOW TO PLAY:\n" +
			"1. Start: /hatch\n" +
			"2. Care: /feed, /clean, /play\n" +
			"3. Monitor: /pet\n" +
			"4. Check: /status",
		"STATS:\n" +
			"- Health: Drops if hunger>80 or hygiene<20\n" +
			"- Hunger: Increases, use /feed\n" +
			"- Hygiene: Decreases, use /clean\n" +
			"- Happiness: Use /play\n" +
			"- Energy: Regens, need 20 for /play",
		"EVOLUTION:\n" +
			"- Egg: 0-1hr\n" +
			"- Child: 1-24hrs\n" +
			"- Teen: 24-72hrs\n" +
			"- Adult: 72-168hrs\n" +
			"- Elder: 168+hrs",
		"COMMANDS:\n" +
			"/hatch - New pet\n" +
			"/pet - Stats & art\n" +
			"/feed - Decrease hunger\n" +
			"/clean - Increase hygiene\n" +
			"/play - Increase happiness",
		"/status - Quick status\n" +
			"/name <n> - Name pet\n" +
			"/quiet, /talk - Chatter\n" +
			"/ai <q> - Ask the pet\n\n" +
			"TIPS:\n" +
			"- Keep hunger<80, hygiene>20",
		"- Energy regens auto\n" +
			"- Wait if too low to play\n" +
			"- Each generation unique\n" +
			"based on Node ID",
	}
}
