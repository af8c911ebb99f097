package zones

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"rider-fleet-backend/internal/models"
)

type zoneFile struct {
	Zones []struct {
		ID     string  `yaml:"id"`
		Name   string  `yaml:"name"`
		Lat    float64 `yaml:"lat"`
		Lon    float64 `yaml:"lon"`
		Radius float64 `yaml:"radius"`
		Weight int     `yaml:"weight"`
		Active *bool   `yaml:"active"` // defaults to true
	} `yaml:"zones"`
}

// LoadFile reads demand zones from a YAML seed file
func LoadFile(path string) ([]models.DemandZone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes the YAML zone seed format
func Parse(data []byte) ([]models.DemandZone, error) {
	var f zoneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing zones: %w", err)
	}

	out := make([]models.DemandZone, 0, len(f.Zones))
	seen := make(map[string]bool, len(f.Zones))
	for i, z := range f.Zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone #%d: id is required", i+1)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("zone %q: duplicate id", z.ID)
		}
		if z.Radius <= 0 {
			return nil, fmt.Errorf("zone %q: radius must be positive", z.ID)
		}
		seen[z.ID] = true

		active := true
		if z.Active != nil {
			active = *z.Active
		}
		name := z.Name
		if name == "" {
			name = z.ID
		}
		out = append(out, models.DemandZone{
			ID:           z.ID,
			Name:         name,
			Latitude:     z.Lat,
			Longitude:    z.Lon,
			RadiusMeters: z.Radius,
			Weight:       models.ClampWeight(z.Weight),
			Active:       active,
		})
	}
	return out, nil
}

// DefaultZones is the built-in Berlin seed used when no file is configured
func DefaultZones() []models.DemandZone {
	return []models.DemandZone{
		{ID: "zone_1", Name: "Berlin Center", Latitude: 52.5200, Longitude: 13.4050, RadiusMeters: 500, Weight: 3, Active: true},
		{ID: "zone_2", Name: "Kreuzberg", Latitude: 52.4909, Longitude: 13.3929, RadiusMeters: 500, Weight: 2, Active: true},
		{ID: "zone_3", Name: "Mitte", Latitude: 52.5076, Longitude: 13.3904, RadiusMeters: 500, Weight: 1, Active: true},
	}
}
