package robot

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gwillem/allbot/pkg/motion"
	"github.com/gwillem/allbot/pkg/servo"
)

const DefaultConfigFile = "allbot.json"

// PortEnv overrides the configured serial port when set.
const PortEnv = "ALLBOT_PORT"

// Config holds the robot configuration
type Config struct {
	Port        string      `json:"port"`
	StepMS      int         `json:"step_ms,omitempty"`
	Capacity    int         `json:"capacity,omitempty"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// IsCalibrated returns true if the config has calibration data
func (c *Config) IsCalibrated() bool {
	return len(c.Calibration) > 0
}

// StepDuration returns the animation step, defaulting to the servo refresh period
func (c *Config) StepDuration() time.Duration {
	if c.StepMS <= 0 {
		return servo.RefreshPeriod
	}
	return time.Duration(c.StepMS) * time.Millisecond
}

// Animator returns an animator configured from c
func (c *Config) Animator() *motion.Animator {
	an := motion.NewAnimator()
	an.Step = c.StepDuration()
	if c.Capacity > 0 {
		an.Capacity = c.Capacity
	}
	return an
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if port := os.Getenv(PortEnv); port != "" {
		cfg.Port = port
	}
	return &cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
