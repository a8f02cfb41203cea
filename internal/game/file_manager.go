package game

import (
	"os"

	json "github.com/goccy/go-json"

	"meshagotchi/internal/game/interfaces"
	"meshagotchi/internal/models"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/services"
)

type FileManager struct {
	store      services.PetStoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store services.PetStoreInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage := f.store.GetSnapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		// Older deployments persisted uncompressed JSON.
		f.logger.Warnf(providers.TypeApp, "Inconsistent DB found, try to migrate from uncompressed format")
		var legacy models.Storage
		if jsonErr := json.Unmarshal(data, &legacy); jsonErr != nil || legacy.Pets == nil {
			f.logger.Warnf(providers.TypeApp, "Migration failed")
			return err
		}
		f.logger.Warnf(providers.TypeApp, "Migration from uncompressed format successful")
		f.store.PutSnapshot(&legacy)
		return nil
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	f.store.PutSnapshot(&storage)
	return nil
}
