package models

// Location represents a canonical point-of-interest row. Locations have no
// natural key in the feed so LocationID is a content hash; rows are
// overwritten wholesale on re-sighting.
type Location struct {
	LocationID    string
	LocationName  string
	SystemAddress int64
	SystemName    string
	SystemX       float64
	SystemY       float64
	SystemZ       float64
	BodyID        int64
	BodyName      string
	Latitude      float64
	Longitude     float64
	UpdatedAt     string
}

// Fields returns the store-ready field set for the locations table
func (l *Location) Fields() map[string]interface{} {
	return map[string]interface{}{
		"locationId":    l.LocationID,
		"locationName":  l.LocationName,
		"systemAddress": l.SystemAddress,
		"systemName":    l.SystemName,
		"systemX":       l.SystemX,
		"systemY":       l.SystemY,
		"systemZ":       l.SystemZ,
		"bodyId":        l.BodyID,
		"bodyName":      l.BodyName,
		"latitude":      l.Latitude,
		"longitude":     l.Longitude,
		"updatedAt":     l.UpdatedAt,
	}
}
