package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes one planning session
type Config struct {
	MapFile             string   `yaml:"map_file"`
	MapWidth            int      `yaml:"map_width"`
	MapHeight           int      `yaml:"map_height"`
	Start               Position `yaml:"start"`
	Goal                Position `yaml:"goal"`
	MinDistEnabled      bool     `yaml:"min_dist_enabled"`
	ObjectiveFile       string   `yaml:"objective_file,omitempty"`
	PathOutputFile      string   `yaml:"path_output_file,omitempty"`
	MaxIterationNum     int      `yaml:"max_iteration_num"`
	SegmentLength       float64  `yaml:"segment_length"`
	Theta               float64  `yaml:"theta"`
	Seed                int64    `yaml:"seed,omitempty"`
	MaxResampleAttempts int      `yaml:"max_resample_attempts,omitempty"`
}

// DefaultConfig returns the parameters used when a file leaves them out
func DefaultConfig() Config {
	return Config{
		Start:           Position{X: -1, Y: -1},
		Goal:            Position{X: -1, Y: -1},
		MinDistEnabled:  true,
		MaxIterationNum: 100,
		SegmentLength:   5.0,
		Theta:           DefaultTheta,
	}
}

// LoadConfig reads a YAML planning config, filling unset fields from DefaultConfig
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", filename, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}

	// Relative asset paths resolve against the config file's directory.
	dir := filepath.Dir(filename)
	cfg.MapFile = resolvePath(dir, cfg.MapFile)
	cfg.ObjectiveFile = resolvePath(dir, cfg.ObjectiveFile)
	cfg.PathOutputFile = resolvePath(dir, cfg.PathOutputFile)

	return cfg, nil
}

// SaveConfig writes cfg as YAML
func SaveConfig(filename string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", filename, err)
	}
	return nil
}

// Validate checks the fields a planning session cannot start without
func (c Config) Validate() error {
	var errs []error

	if c.SegmentLength <= 0 {
		errs = append(errs, fmt.Errorf("segment_length must be positive, got %v", c.SegmentLength))
	}
	if c.MaxIterationNum < 0 {
		errs = append(errs, fmt.Errorf("max_iteration_num must not be negative, got %d", c.MaxIterationNum))
	}
	if c.Theta <= 0 {
		errs = append(errs, fmt.Errorf("theta must be positive, got %v", c.Theta))
	}
	if c.Start.X < 0 || c.Start.Y < 0 {
		errs = append(errs, errors.New("start is not set"))
	}
	if c.Goal.X < 0 || c.Goal.Y < 0 {
		errs = append(errs, errors.New("goal is not set"))
	}
	if !c.MinDistEnabled && c.ObjectiveFile == "" {
		errs = append(errs, errors.New("objective_file is required when min_dist_enabled is false"))
	}
	if (c.MapFile == "" || isGeoJSON(c.MapFile)) && (c.MapWidth <= 0 || c.MapHeight <= 0) {
		errs = append(errs, errors.New("map_width and map_height are required without an image map"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func isGeoJSON(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".geojson" || ext == ".json"
}
