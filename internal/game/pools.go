package game

import "meshagotchi/internal/models"

// Curated ambient chatter pools. Flavor only; nothing here carries state.
var chatterPools = map[string][]string{
	"hunger": {
		"Low voltage detected. Supply current with /feed.",
		"Battery at critical draw. Your pet is hungry.",
		"Input buffer empty. Requesting nutrients.",
		"Brownout warning: feed cycle overdue.",
		"Power budget exceeded. /feed recommended.",
		"Your pet is nibbling on stray packets. /feed soon.",
		"Charge controller reports hunger spikes.",
		"Fuel gauge blinking. Time to /feed.",
		"Current draw unstable. A meal would help.",
		"Supply rail sagging. Hunger rising.",
	},
	"hygiene": {
		"Buffer overflow detected. /clean required.",
		"CRC mismatch in sector 4 (Poop). Run /clean.",
		"Checksum errors accumulating. Hygiene low.",
		"Garbage collection overdue. /clean please.",
		"Debris in the signal path. Your pet needs a wash.",
		"Corrosion warning on the contacts. /clean advised.",
		"Dust accumulation critical. Scrub cycle needed.",
		"Your pet left fragmented frames everywhere. /clean.",
		"Parity errors rising. A bath would fix that.",
		"Cache is filthy. Flush it with /clean.",
	},
	"happiness": {
		"Signal strength dropping. Your pet misses you.",
		"RSSI low on the friendship link. /play sometime?",
		"Heartbeat packets getting lonely out here.",
		"Your pet pings you. No ACK received.",
		"Morale subsystem degraded. /play restores it.",
		"Link quality poor. Some play time would help.",
		"Your pet is humming sad carrier tones.",
		"Keepalive requested: a quick /play.",
		"Antenna drooping. Your pet feels ignored.",
		"Retransmitting affection request. /play?",
	},
	"greeting": {
		"Beacon received. Your pet waves an antenna.",
		"All systems nominal. Your pet chirps happily.",
		"Telemetry green across the board.",
		"Your pet broadcasts a cheerful advert.",
		"Mesh weather is fine. Your pet is content.",
		"Zero packet loss on the cuddle channel.",
		"Your pet hums along at full signal.",
		"Routine ping: your pet says hi.",
		"Link established. Your pet wags its whip antenna.",
		"Status OK. Your pet is daydreaming in hex.",
	},
}

// upgradeMessages is keyed by the (old, new) stage pair.
var upgradeMessages = map[[2]models.AgeStage]string{
	{models.StageEgg, models.StageChild}:   "Signal acquired! Your pet has hatched! Use /pet to see them.",
	{models.StageChild, models.StageTeen}:  "Firmware update complete! Your pet is now a Teen.",
	{models.StageTeen, models.StageAdult}:  "System upgrade successful! Your pet reached Adulthood!",
	{models.StageAdult, models.StageElder}: "Legacy mode activated. Your pet is now an Elder.",
}

func upgradeMessage(from, to models.AgeStage) string {
	if msg, ok := upgradeMessages[[2]models.AgeStage{from, to}]; ok {
		return msg
	}
	return "Age upgrade: " + string(from) + " -> " + string(to)
}

const (
	healthWarning  = "WARNING: Health critical (<30). Packet loss imminent. Use /feed and /clean."
	hygieneWarning = "WARNING: Buffer overflow detected. Hygiene critical. Use /clean."
)
