package models

// System represents a canonical star system row. A system's identity row is
// written once on first sighting and never overwritten by later sightings,
// since coordinates are immutable facts.
type System struct {
	SystemAddress int64
	SystemName    string
	SystemX       float64
	SystemY       float64
	SystemZ       float64
	SystemSector  string
	UpdatedAt     string
}

// Fields returns the store-ready field set for the systems table
func (s *System) Fields() map[string]interface{} {
	return map[string]interface{}{
		"systemAddress": s.SystemAddress,
		"systemName":    s.SystemName,
		"systemX":       s.SystemX,
		"systemY":       s.SystemY,
		"systemZ":       s.SystemZ,
		"systemSector":  s.SystemSector,
		"updatedAt":     s.UpdatedAt,
	}
}
