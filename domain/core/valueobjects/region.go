package valueobjects

import "errors"

// Region selects which regional derivative service holds a model's data
type Region string

const (
	RegionUS   Region = "US"
	RegionEMEA Region = "EMEA"
)

// NewRegion validates and creates a Region
func NewRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionUS, RegionEMEA:
		return Region(s), nil
	}
	return "", errors.New("region must be US or EMEA")
}

// String returns the string representation of the region
func (r Region) String() string {
	return string(r)
}
