package models

// VolcanoSummary is a row of the volcano listing.
type VolcanoSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Subregion string `json:"subregion"`
}

// Volcano is the detail record. The population fields are only populated
// for authenticated callers and are omitted from JSON otherwise.
type Volcano struct {
	VolcanoSummary
	LastEruption string  `json:"last_eruption"`
	Summit       int64   `json:"summit"`
	Elevation    int64   `json:"elevation"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	Population5km   *int64 `json:"population_5km,omitempty"`
	Population10km  *int64 `json:"population_10km,omitempty"`
	Population30km  *int64 `json:"population_30km,omitempty"`
	Population100km *int64 `json:"population_100km,omitempty"`
}

// PopulationRadius is a populatedWithin bucket.
type PopulationRadius string

const (
	Within5km   PopulationRadius = "5km"
	Within10km  PopulationRadius = "10km"
	Within30km  PopulationRadius = "30km"
	Within100km PopulationRadius = "100km"
)

// ParsePopulationRadius reports whether value names a known bucket.
func ParsePopulationRadius(value string) (PopulationRadius, bool) {
	switch r := PopulationRadius(value); r {
	case Within5km, Within10km, Within30km, Within100km:
		return r, true
	}
	return "", false
}

// VolcanoFilter selects volcanoes for the listing. An empty PopulatedWithin
// applies no population constraint.
type VolcanoFilter struct {
	Country         string
	PopulatedWithin PopulationRadius
}
