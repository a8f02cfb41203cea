package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshagotchi/internal/models"
	"meshagotchi/internal/services"
	"meshagotchi/internal/testutil"
)

func newTestFileManager(store services.PetStoreInterface, comp *testutil.MockCompressor) *FileManager {
	return NewFileManager(comp, store, &testutil.MockLogger{})
}

func TestFileManager_SaveToFile_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.dat")

	store := services.NewPetStore()
	_, err := store.CreatePet("!node1", time.Now())
	require.NoError(t, err)

	fm := newTestFileManager(store, &testutil.MockCompressor{})
	require.NoError(t, fm.SaveToFile(path))

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Temp file should not exist
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	fm := newTestFileManager(services.NewPetStore(), &testutil.MockCompressor{})
	assert.NoError(t, fm.LoadFromFile("/nonexistent/path/pets.dat"))
}

func TestFileManager_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.dat")

	store := services.NewPetStore()
	pet, err := store.CreatePet("!node1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, store.ApplyPatch(pet.ID, &models.PetPatch{Name: models.StringPtr("Bitty")}))

	comp := &testutil.MockCompressor{}
	fm := newTestFileManager(store, comp)
	require.NoError(t, fm.SaveToFile(path))

	restored := services.NewPetStore()
	fm2 := newTestFileManager(restored, comp)
	require.NoError(t, fm2.LoadFromFile(path))

	got := restored.GetActivePet("!node1")
	require.NotNil(t, got)
	assert.Equal(t, "Bitty", got.Name)
	assert.Equal(t, pet.DNASeed, got.DNASeed)
}

func TestFileManager_LoadFromFile_LegacyUncompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.dat")

	storage := models.NewStorage()
	storage.Pets[1] = &models.Pet{ID: 1, OwnerID: "!node1", Name: "Old", Alive: true}
	storage.Owners["!node1"] = &models.Owner{NodeID: "!node1", CurrentPetID: 1, TotalPetsRaised: 1}
	jsonData, _ := json.Marshal(storage)
	require.NoError(t, os.WriteFile(path, jsonData, 0644))

	comp := &testutil.MockCompressor{
		DecompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("not zstd")
		},
	}
	restored := services.NewPetStore()
	fm := newTestFileManager(restored, comp)
	require.NoError(t, fm.LoadFromFile(path))

	got := restored.GetActivePet("!node1")
	require.NotNil(t, got)
	assert.Equal(t, "Old", got.Name)
}

func TestFileManager_LoadFromFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	comp := &testutil.MockCompressor{
		DecompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("not zstd")
		},
	}
	fm := newTestFileManager(services.NewPetStore(), comp)
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_CompressError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "err.dat")

	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress failed")
		},
	}
	fm := newTestFileManager(services.NewPetStore(), comp)
	err := fm.SaveToFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compress failed")
}

func TestFileManager_ZstdRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zstd.dat")

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	store := services.NewPetStore()
	_, err = store.CreatePet("!node1", time.Now())
	require.NoError(t, err)

	fm := NewFileManager(comp, store, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	restored := services.NewPetStore()
	fm2 := NewFileManager(comp, restored, &testutil.MockLogger{})
	require.NoError(t, fm2.LoadFromFile(path))
	assert.Equal(t, 1, restored.AliveCount())
}
