// Package samples generates YAML seed files for the document store: sample
// satellites and ground stations shaped to pass the collection validators.
package samples

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gopkg.in/yaml.v3"
)

// SatellitesFile and GroundStationsFile are the file names the document
// initializer looks for under the samples directory.
const (
	SatellitesFile     = "satellites.yaml"
	GroundStationsFile = "ground_stations.yaml"
)

var (
	satelliteTypes    = []string{"communication", "earth_observation", "navigation", "science"}
	satelliteStatuses = []string{"operational", "degraded", "standby"}
	missions          = []string{"relay", "imaging", "weather", "research", "broadband"}
	stationBands      = []string{"S-band", "X-band", "Ka-band", "UHF"}
)

// Satellite is a seed document for the satellites collection.
type Satellite struct {
	SatelliteID string    `yaml:"satellite_id"`
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	Status      string    `yaml:"status"`
	Mission     string    `yaml:"mission"`
	Owner       string    `yaml:"owner"`
	LaunchDate  time.Time `yaml:"launch_date"`
}

// Location is the ground station position.
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
}

// GroundStation is a seed document for the ground_stations collection.
type GroundStation struct {
	StationID    string   `yaml:"station_id"`
	Name         string   `yaml:"name"`
	Location     Location `yaml:"location"`
	Capabilities []string `yaml:"capabilities"`
	Status       string   `yaml:"status"`
}

// Generator produces sample documents. A fixed seed yields reproducible
// sample files.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a Generator. Seed 0 produces random output.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Satellites generates n sample satellites with sequential ids.
func (g *Generator) Satellites(n int) []Satellite {
	sats := make([]Satellite, 0, n)
	for i := 0; i < n; i++ {
		sats = append(sats, Satellite{
			SatelliteID: fmt.Sprintf("SAT-%04d", i+1),
			Name:        g.faker.AppName(),
			Type:        g.faker.RandomString(satelliteTypes),
			Status:      g.faker.RandomString(satelliteStatuses),
			Mission:     g.faker.RandomString(missions),
			Owner:       g.faker.Company(),
			LaunchDate: g.faker.DateRange(
				time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			).UTC(),
		})
	}
	return sats
}

// GroundStations generates n sample ground stations with sequential ids.
func (g *Generator) GroundStations(n int) []GroundStation {
	stations := make([]GroundStation, 0, n)
	for i := 0; i < n; i++ {
		bands := g.faker.Number(1, len(stationBands))
		capabilities := append([]string(nil), stationBands...)
		g.faker.ShuffleStrings(capabilities)
		stations = append(stations, GroundStation{
			StationID: fmt.Sprintf("GS-%04d", i+1),
			Name:      fmt.Sprintf("%s Ground Station", g.faker.City()),
			Location: Location{
				Latitude:  g.faker.Latitude(),
				Longitude: g.faker.Longitude(),
				Altitude:  g.faker.Float64Range(0, 3000),
			},
			Capabilities: capabilities[:bands],
			Status:       "active",
		})
	}
	return stations
}

// WriteSampleFiles writes satellites.yaml and ground_stations.yaml into
// dir, creating the directory if needed. Existing files are overwritten.
func (g *Generator) WriteSampleFiles(dir string, satellites, stations int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create samples directory: %w", err)
	}
	if err := writeYAML(filepath.Join(dir, SatellitesFile), g.Satellites(satellites)); err != nil {
		return err
	}
	return writeYAML(filepath.Join(dir, GroundStationsFile), g.GroundStations(stations))
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
