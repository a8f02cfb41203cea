package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshagotchi/internal/models"
)

func TestFamilyTraitFor_Deterministic(t *testing.T) {
	a := FamilyTraitFor("!abcd1234")
	b := FamilyTraitFor("!abcd1234")
	assert.Equal(t, a, b)
}

func TestFamilyTraitFor_PresentationPrefixIgnored(t *testing.T) {
	assert.Equal(t, FamilyTraitFor("abcd1234"), FamilyTraitFor("!abcd1234"))
}

func TestFamilyTraitFor_EyesFromPalette(t *testing.T) {
	trait := FamilyTraitFor("!deadbeef")
	assert.Contains(t, eyePalette, trait.Eyes)
}

func TestFamilyTrait_SharedAcrossGenerations(t *testing.T) {
	// Generations differ in dna seed but share the owner hash.
	birth := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed1 := models.DeriveDNASeed("!abcd1234", birth, 1)
	seed2 := models.DeriveDNASeed("!abcd1234", birth.Add(time.Hour), 2)
	require.NotEqual(t, seed1, seed2)

	assert.Equal(t, FamilyTraitFor("!abcd1234"), FamilyTraitFor("!abcd1234"))
}

func TestIndividualTraitFor_Deterministic(t *testing.T) {
	birth := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := models.DeriveDNASeed("!abcd1234", birth, 1)

	a := IndividualTraitFor(seed)
	b := IndividualTraitFor(seed)
	assert.Equal(t, a, b)
}

func TestIndividualTraitFor_FieldsInRange(t *testing.T) {
	birth := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for gen := 1; gen <= 10; gen++ {
		seed := models.DeriveDNASeed("!abcd1234", birth, gen)
		trait := IndividualTraitFor(seed)
		assert.GreaterOrEqual(t, trait.Body, 0)
		assert.Less(t, trait.Body, 3)
		assert.Contains(t, mouthGlyphs, trait.Mouth)
		if trait.Accessory != "" {
			assert.Contains(t, accessoryGlyphs, trait.Accessory)
		}
	}
}

func TestSeedInt_MalformedSeed(t *testing.T) {
	assert.Equal(t, int64(0), seedInt("not-hex!"))
}

func TestRender_AtMostFiveLines(t *testing.T) {
	family := FamilyTrait{Eyes: "(o o)"}
	stages := []models.AgeStage{
		models.StageEgg, models.StageChild, models.StageTeen,
		models.StageAdult, models.StageElder,
	}
	traits := []IndividualTrait{
		{Body: 0, Mouth: "=="},
		{Body: 2, Mouth: "~~", Accessory: "||"},
	}
	for _, stage := range stages {
		for _, trait := range traits {
			for _, name := range []string{"", "Bitty"} {
				art := Render(family, trait, stage, name)
				lines := strings.Split(art, "\n")
				assert.LessOrEqual(t, len(lines), 5, "stage=%s accessory=%q name=%q", stage, trait.Accessory, name)
			}
		}
	}
}

func TestRender_EggHidesTraits(t *testing.T) {
	art := Render(FamilyTrait{Eyes: "(o o)"}, IndividualTrait{Body: 0, Mouth: "=="}, models.StageEgg, "")
	assert.Contains(t, art, "??")
	assert.NotContains(t, art, "(o o)")
}

func TestRender_ElderMarker(t *testing.T) {
	art := Render(FamilyTrait{Eyes: "(o o)"}, IndividualTrait{Body: 1, Mouth: "^^"}, models.StageElder, "")
	assert.Contains(t, art, "~ wise ~")
}

func TestRender_NameAppendedWhenRoomAllows(t *testing.T) {
	art := Render(FamilyTrait{Eyes: "(o o)"}, IndividualTrait{Body: 0, Mouth: "=="}, models.StageChild, "Bitty")
	assert.Contains(t, art, "Bitty")
}

func TestRenderPet_ReproducibleByteForByte(t *testing.T) {
	birth := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pet := newbornPet(birth)
	pet.Stage = models.StageAdult

	assert.Equal(t, RenderPet(pet), RenderPet(pet))
}
