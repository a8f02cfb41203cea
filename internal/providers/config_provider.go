package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"meshagotchi/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "MAG_LOG_LEVEL")
	viper.BindEnv("notifier.sweepInterval", "MAG_SWEEP_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "MAG_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "MAG_CACHE_ENABLED")
	viper.BindEnv("cache.size", "MAG_CACHE_SIZE")
	viper.BindEnv("ollama.host", "MAG_OLLAMA_HOST")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MeshAgotchi"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
