package geofence

// CompetitorLocation is a known business of a given category, shown on the
// dashboard map to help an operator decide where to draw zones.
type CompetitorLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// competitorLocations is static reference data around the Leeds city centre
// demo area.
var competitorLocations = map[string][]CompetitorLocation{
	"cafe": {
		{Name: "North Star Coffee", Lat: 53.7924, Lng: -1.5399},
		{Name: "Laynes Espresso", Lat: 53.7957, Lng: -1.5469},
		{Name: "Kapow Coffee", Lat: 53.7971, Lng: -1.5418},
	},
	"gym": {
		{Name: "PureGym Leeds City Centre", Lat: 53.7989, Lng: -1.5435},
		{Name: "The Gym Leeds", Lat: 53.7945, Lng: -1.5521},
	},
	"restaurant": {
		{Name: "Bundobust", Lat: 53.7968, Lng: -1.5445},
		{Name: "The Ivy Victoria Quarter", Lat: 53.7980, Lng: -1.5395},
		{Name: "Ox Club", Lat: 53.7987, Lng: -1.5486},
	},
	"retail": {
		{Name: "Trinity Leeds", Lat: 53.7965, Lng: -1.5441},
		{Name: "Victoria Gate", Lat: 53.7984, Lng: -1.5381},
	},
}

// CompetitorsFor returns the locations for a business type, empty when the
// category is unknown.
func CompetitorsFor(businessType string) []CompetitorLocation {
	locations, ok := competitorLocations[businessType]
	if !ok {
		return []CompetitorLocation{}
	}
	return locations
}
