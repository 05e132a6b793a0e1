package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadConfig_DefaultsAndRelativePaths(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "planning.yaml", `
map_file: maps/room.png
start: {x: 3, y: 4}
goal: {x: 90, y: 80}
path_output_file: out/path.txt
`)

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "maps/room.png"), cfg.MapFile)
	assert.Equal(t, filepath.Join(dir, "out/path.txt"), cfg.PathOutputFile)
	assert.Equal(t, "", cfg.ObjectiveFile)
	assert.Equal(t, Pos(3, 4), cfg.Start)
	assert.Equal(t, Pos(90, 80), cfg.Goal)
	assert.Equal(t, 100, cfg.MaxIterationNum)
	assert.Equal(t, 5.0, cfg.SegmentLength)
	assert.Equal(t, DefaultTheta, cfg.Theta)
	assert.True(t, cfg.MinDistEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, t.TempDir(), "bad.yaml", "start: [1, 2\n")
	_, err = LoadConfig(bad)
	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.MapFile = filepath.Join(dir, "map.png")
	cfg.Start = Pos(1, 2)
	cfg.Goal = Pos(30, 40)
	cfg.MinDistEnabled = false
	cfg.ObjectiveFile = filepath.Join(dir, "cost.png")
	cfg.Seed = 17

	file := filepath.Join(dir, "saved.yaml")
	require.NoError(t, SaveConfig(file, cfg))
	got, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(cfg, got))
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.MapWidth, valid.MapHeight = 10, 10
	valid.Start, valid.Goal = Pos(0, 0), Pos(9, 9)
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NoStart", func(c *Config) { c.Start = Position{X: -1, Y: -1} }},
		{"NoGoal", func(c *Config) { c.Goal = Position{X: -1, Y: 3} }},
		{"ZeroSegment", func(c *Config) { c.SegmentLength = 0 }},
		{"NegativeIterations", func(c *Config) { c.MaxIterationNum = -1 }},
		{"ZeroTheta", func(c *Config) { c.Theta = 0 }},
		{"CostWithoutObjective", func(c *Config) { c.MinDistEnabled = false }},
		{"NoDimensions", func(c *Config) { c.MapWidth = 0 }},
		{"GeoJSONNeedsDimensions", func(c *Config) { c.MapFile = "zones.geojson"; c.MapHeight = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
