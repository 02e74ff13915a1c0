package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/maxamas123/district-line-tracker/internal/structures"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "DLT_LOG_LEVEL")
	viper.BindEnv("tfl.pollInterval", "DLT_TFL_POLL_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "DLT_SAVE_INTERVAL")
	viper.BindEnv("rateLimit.cooldown", "DLT_RATE_COOLDOWN")
	viper.BindEnv("cache.enabled", "DLT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DLT_CACHE_SIZE")

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

	conf.AppName = "DistrictLineTracker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
