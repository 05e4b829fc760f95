// Package config loads service configuration through viper, with
// defaults for every key so the service runs without a config file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from coastersim.cfg.json in configDir and
// sets default values. A missing config file is not an error; defaults
// apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("listen.port", 8080)

	viper.SetDefault("sim.tickHz", 60)

	viper.SetDefault("ride.speedScale", 1.0)
	viper.SetDefault("ride.chainLift", true)
	// "timescaled" (frame-rate independent), "exponential" or "snap"
	viper.SetDefault("ride.smoothing", "timescaled")
	viper.SetDefault("ride.smoothingRate", 17.3)
	viper.SetDefault("ride.smoothingFactor", 0.25)

	viper.SetConfigName("coastersim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
