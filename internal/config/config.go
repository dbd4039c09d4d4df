// Package config holds runtime configuration: environment variables
// (optionally via .env) plus a YAML station registry mapping station
// names to their data folders.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/luki/telemerge/internal/merge"
	"github.com/luki/telemerge/internal/snapshot"
)

const defaultDataRoot = "data"

// defaultStations covers the deployments that existed before the registry
// file; a TELEMERGE_STATIONS file replaces the whole list.
var defaultStations = []Station{
	{Name: "Perth TT", Folder: "data_3262071_TT"},
	{Name: "WROOM PTT", Folder: "data_WROOM_PTT"},
	{Name: "Shangani", Folder: "data_Shangani"},
	{Name: "Funzi", Folder: "data_Funzi"},
}

// Station is one monitored deployment.
type Station struct {
	Name   string `yaml:"name"`
	Folder string `yaml:"folder"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataRoot    string
	SensorCount int
	Stations    []Station
}

// Load reads configuration from environment variables (optionally .env)
// and the station registry file if TELEMERGE_STATIONS is set.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		DataRoot:    defaultDataRoot,
		SensorCount: merge.DefaultSensorCount,
		Stations:    defaultStations,
	}

	if v := strings.TrimSpace(os.Getenv("TELEMERGE_DATA_ROOT")); v != "" {
		cfg.DataRoot = v
	}

	if v := strings.TrimSpace(os.Getenv("TELEMERGE_SENSOR_COUNT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid TELEMERGE_SENSOR_COUNT: %q", v)
		}
		cfg.SensorCount = n
	}

	if v := strings.TrimSpace(os.Getenv("TELEMERGE_STATIONS")); v != "" {
		stations, err := LoadStations(v)
		if err != nil {
			return cfg, err
		}
		cfg.Stations = stations
	}

	return cfg, nil
}

// LoadStations reads a YAML station registry file.
func LoadStations(path string) ([]Station, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station registry: %w", err)
	}
	var stations []Station
	if err := yaml.Unmarshal(raw, &stations); err != nil {
		return nil, fmt.Errorf("parse station registry: %w", err)
	}
	for i, st := range stations {
		if st.Name == "" || st.Folder == "" {
			return nil, fmt.Errorf("station %d: name and folder are required", i)
		}
	}
	return stations, nil
}

// Station looks up a station by name (case-insensitive).
func (c Config) Station(name string) (Station, bool) {
	for _, st := range c.Stations {
		if strings.EqualFold(st.Name, name) {
			return st, true
		}
	}
	return Station{}, false
}

// SnapshotPath returns the merged_data.js path for a station.
func (c Config) SnapshotPath(st Station) string {
	return filepath.Join(c.DataRoot, st.Folder, snapshot.FileName)
}

// MergeConfig returns the merge parameters derived from this
// configuration.
func (c Config) MergeConfig() merge.Config {
	return merge.Config{SensorCount: c.SensorCount}
}
