package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
)

// Location is one gazetteer entry. Name is the form matched against
// query text (lower case); Center and ZoomLevel bootstrap the frontend
// map view for that location.
type Location struct {
	Name      string    `json:"name"`
	Center    orb.Point `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// DefaultLocations is the built-in gazetteer. Order matters: when a
// query mentions several known locations, the first entry in this list
// wins, so keep the more specific names (Wakad) ahead of the cities
// that contain them.
var DefaultLocations = []Location{
	{Name: "wakad", Center: orb.Point{73.7575, 18.5975}, ZoomLevel: 13},
	{Name: "pune", Center: orb.Point{73.8567, 18.5204}, ZoomLevel: 11},
	{Name: "bengaluru", Center: orb.Point{77.5946, 12.9716}, ZoomLevel: 11},
	{Name: "bangalore", Center: orb.Point{77.5946, 12.9716}, ZoomLevel: 11},
	{Name: "mumbai", Center: orb.Point{72.8777, 19.0760}, ZoomLevel: 11},
	{Name: "delhi", Center: orb.Point{77.1025, 28.7041}, ZoomLevel: 11},
	{Name: "gurgaon", Center: orb.Point{77.0266, 28.4595}, ZoomLevel: 12},
	{Name: "noida", Center: orb.Point{77.3910, 28.5355}, ZoomLevel: 12},
	{Name: "hyderabad", Center: orb.Point{78.4867, 17.3850}, ZoomLevel: 11},
	{Name: "kolkata", Center: orb.Point{88.3639, 22.5726}, ZoomLevel: 11},
	{Name: "ahmedabad", Center: orb.Point{72.5714, 23.0225}, ZoomLevel: 11},
	{Name: "jaipur", Center: orb.Point{75.7873, 26.9124}, ZoomLevel: 11},
}

// LoadLocations returns the gazetteer, preferring a JSON override file
// when one exists at the given path. Pass "" to use the built-in list.
func LoadLocations(path string) ([]Location, error) {
	if path == "" {
		return DefaultLocations, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %v", err)
	}

	var locations []Location
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse locations file: %v", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("locations file %s contains no entries", path)
	}
	return locations, nil
}

// LocationNames returns the gazetteer names in match-priority order.
func LocationNames(locations []Location) []string {
	names := make([]string, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
	}
	return names
}
