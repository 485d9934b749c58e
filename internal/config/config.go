package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration. Environment variables set
// the defaults; CLI flags override them per run.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Capture settings
	SampleRate int `envconfig:"FADER_SAMPLE_RATE" default:"48000"`

	// Interaction tuning
	FineDragRatio float64 `envconfig:"FADER_FINE_DRAG_RATIO" default:"0.2"`
	DoubleClickMS int     `envconfig:"FADER_DOUBLE_CLICK_MS" default:"400"`
	NeutralDB     float64 `envconfig:"FADER_NEUTRAL_DB" default:"0"`

	// Peak indicator tuning
	PeakHoldMS    int    `envconfig:"FADER_PEAK_HOLD_MS" default:"1500"`
	PeakFalloffMS int    `envconfig:"FADER_PEAK_FALLOFF_MS" default:"700"`
	PeakDecay     string `envconfig:"FADER_PEAK_DECAY" default:"linear"` // linear or snap

	// Remote-control API
	ServeAddr string `envconfig:"FADER_SERVE_ADDR" default:""`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}
