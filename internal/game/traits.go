package game

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"meshagotchi/internal/models"
)

// eyePalette is the family trait pool: one pair of eyes per owner,
// forever, shared by every generation that owner raises.
var eyePalette = []string{
	"(o o)", "(0 0)", "(^ ^)", "(* *)", "(= =)", "(@ @)", "(~ ~)", "(O O)",
	"[o o]", "[+ +]", "[x x]", "(u u)",
}

var mouthGlyphs = []string{"==", "^^", "~~", "vv", "oo", "--"}

var accessoryGlyphs = []string{"||", "/\\", "**", "##"}

type FamilyTrait struct {
	Eyes string
}

type IndividualTrait struct {
	Body      int
	Mouth     string
	Accessory string
}

// FamilyTraitFor hashes the owner identity (presentation prefix removed)
// into the eye palette. Same identity, same eyes, on every call.
func FamilyTraitFor(nodeID string) FamilyTrait {
	id := strings.TrimPrefix(nodeID, "!")
	sum := sha256.Sum256([]byte(id))
	idx := binary.BigEndian.Uint32(sum[:4]) % uint32(len(eyePalette))
	return FamilyTrait{Eyes: eyePalette[idx]}
}

// IndividualTraitFor seeds a deterministic sequence from the leading bits
// of the dna seed. Identical seed, identical triple, always.
func IndividualTraitFor(dnaSeed string) IndividualTrait {
	rng := rand.New(rand.NewSource(seedInt(dnaSeed)))
	trait := IndividualTrait{
		Body:  rng.Intn(3),
		Mouth: mouthGlyphs[rng.Intn(len(mouthGlyphs))],
	}
	if rng.Intn(2) == 1 {
		trait.Accessory = accessoryGlyphs[rng.Intn(len(accessoryGlyphs))]
	}
	return trait
}

func seedInt(dnaSeed string) int64 {
	s := dnaSeed
	if len(s) > 8 {
		s = s[:8]
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	return int64(v)
}

var bodyFrames = [3][2]string{
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
}

// Render draws the pet as a glyph grid of at most five lines. Output is a
// pure function of its inputs and reproducible byte for byte.
func Render(family FamilyTrait, trait IndividualTrait, stage models.AgeStage, name string) string {
	l, r := bodyFrames[trait.Body][0], bodyFrames[trait.Body][1]

	var lines []string
	switch stage {
	case models.StageEgg:
		lines = []string{
			"  " + l + "~~~~" + r,
			"  " + l + " ?? " + r,
			"  " + l + "~~~~" + r,
		}
	case models.StageChild:
		lines = []string{
			"  " + family.Eyes,
			" " + l + "  " + trait.Mouth + "  " + r,
			"  -----",
		}
	case models.StageTeen:
		lines = []string{
			"  " + family.Eyes,
			" " + l + "======" + r,
			" |  " + trait.Mouth + "  |",
			"  ||  ||",
		}
	case models.StageAdult:
		lines = []string{
			"  " + family.Eyes,
			" " + l + "========" + r,
			" |   " + trait.Mouth + "   |",
			"  ||    ||",
		}
		if trait.Accessory != "" {
			lines = append([]string{"   " + trait.Accessory}, lines...)
		}
	case models.StageElder:
		lines = []string{
			"  " + family.Eyes,
			" " + l + "========" + r,
			" |   " + trait.Mouth + "   |",
			"  ~ wise ~",
		}
	default:
		return Render(family, trait, models.StageChild, name)
	}

	if name != "" && len(lines) < 5 {
		lines = append(lines, fmt.Sprintf("  %s", name))
	}
	return strings.Join(lines, "\n")
}

// RenderPet is the convenience entry used by the command engine.
func RenderPet(pet *models.Pet) string {
	return Render(FamilyTraitFor(pet.OwnerID), IndividualTraitFor(pet.DNASeed), pet.Stage, pet.Name)
}
