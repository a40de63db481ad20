package models

// StationServices holds the boolean service flags reported for a station,
// stored as 0/1 integer columns.
type StationServices struct {
	Shipyard                   int
	Outfitting                 int
	BlackMarket                int
	Contacts                   int
	CrewLounge                 int
	InterstellarFactorsContact int
	MaterialTrader             int
	Missions                   int
	Refuel                     int
	Repair                     int
	Restock                    int
	SearchAndRescue            int
	TechnologyBroker           int
	Tuning                     int
	UniversalCartographics     int
}

// Station represents a canonical station row. Optional attributes are
// pointers so that sparse sightings (e.g. a market snapshot that only proves
// a station exists) produce a row containing only the fields actually known,
// leaving the rest untouched on selective update.
type Station struct {
	StationName            string
	MarketID               int64
	StationType            *string
	DistanceToArrival      *float64
	Allegiance             *string
	Government             *string
	ControllingFactionName *string
	PrimaryEconomy         *string
	SecondaryEconomy       *string
	Services               *StationServices
	SystemAddress          *int64
	SystemName             *string
	SystemX                *float64
	SystemY                *float64
	SystemZ                *float64
	BodyID                 *int64
	BodyName               *string
	Latitude               *float64
	Longitude              *float64
	MaxLandingPadSize      *int
	UpdatedAt              string
}

// Fields returns the store-ready field set for the stations table,
// containing only the attributes known from this sighting.
func (s *Station) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"stationName": s.StationName,
		"marketId":    s.MarketID,
		"updatedAt":   s.UpdatedAt,
	}

	if s.StationType != nil {
		fields["stationType"] = *s.StationType
	}
	if s.DistanceToArrival != nil {
		fields["distanceToArrival"] = *s.DistanceToArrival
	}
	if s.Allegiance != nil {
		fields["allegiance"] = *s.Allegiance
	}
	if s.Government != nil {
		fields["government"] = *s.Government
	}
	if s.ControllingFactionName != nil {
		fields["controllingFactionName"] = *s.ControllingFactionName
	}
	if s.PrimaryEconomy != nil {
		fields["primaryEconomy"] = *s.PrimaryEconomy
	}
	if s.SecondaryEconomy != nil {
		fields["secondaryEconomy"] = *s.SecondaryEconomy
	}
	if s.Services != nil {
		fields["shipyard"] = s.Services.Shipyard
		fields["outfitting"] = s.Services.Outfitting
		fields["blackMarket"] = s.Services.BlackMarket
		fields["contacts"] = s.Services.Contacts
		fields["crewLounge"] = s.Services.CrewLounge
		fields["interstellarFactorsContact"] = s.Services.InterstellarFactorsContact
		fields["materialTrader"] = s.Services.MaterialTrader
		fields["missions"] = s.Services.Missions
		fields["refuel"] = s.Services.Refuel
		fields["repair"] = s.Services.Repair
		fields["restock"] = s.Services.Restock
		fields["searchAndRescue"] = s.Services.SearchAndRescue
		fields["technologyBroker"] = s.Services.TechnologyBroker
		fields["tuning"] = s.Services.Tuning
		fields["universalCartographics"] = s.Services.UniversalCartographics
	}
	if s.SystemAddress != nil {
		fields["systemAddress"] = *s.SystemAddress
	}
	if s.SystemName != nil {
		fields["systemName"] = *s.SystemName
	}
	if s.SystemX != nil {
		fields["systemX"] = *s.SystemX
	}
	if s.SystemY != nil {
		fields["systemY"] = *s.SystemY
	}
	if s.SystemZ != nil {
		fields["systemZ"] = *s.SystemZ
	}
	if s.BodyID != nil {
		fields["bodyId"] = *s.BodyID
	}
	if s.BodyName != nil {
		fields["bodyName"] = *s.BodyName
	}
	if s.Latitude != nil {
		fields["latitude"] = *s.Latitude
	}
	if s.Longitude != nil {
		fields["longitude"] = *s.Longitude
	}
	if s.MaxLandingPadSize != nil {
		fields["maxLandingPadSize"] = *s.MaxLandingPadSize
	}

	return fields
}
