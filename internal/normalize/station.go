package normalize

import (
	"strings"

	"github.com/stellar-collector/internal/models"
)

// DockedResult is the outcome of normalizing a docked event
type DockedResult struct {
	Station *models.Station

	// UnknownStationType carries the raw type when it is not in the known
	// vocabulary; the value is passed through uninterpreted and the router
	// logs a warning
	UnknownStationType string
}

// Docked converts a journal docked event into a canonical station row.
// Returns nil when the event is unusable: no market id (an upstream
// data-quality bug seen on old mega ships), no usable position, or a
// filtered placeholder entity.
func Docked(msg *models.JournalMessage) *DockedResult {
	if msg.MarketID == nil {
		return nil
	}
	if !ValidPosition(msg.StarSystem, msg.StarPos) {
		return nil
	}

	stationName := msg.StationName
	rawType := msg.StationType

	if strings.HasPrefix(stationName, "$EXT_PANEL_ColonisationShip") ||
		stationName == "System Colonisation Ship" {
		return nil
	}
	if rawType == "GameplayPOI" || rawType == "DockablePlanetStation" {
		return nil
	}

	if CanonicalStrongholdCarrier(stationName) {
		stationName = "Stronghold Carrier"
		rawType = TypeStrongholdCarrier
	}
	if IsFleetCarrierName(stationName) {
		rawType = "FleetCarrier"
	}

	result := &DockedResult{}

	var stationType string
	if rawType != "" {
		var known bool
		stationType, known = CanonicalStationType(rawType)
		if !known {
			result.UnknownStationType = rawType
		}
	}

	isCarrier := rawType == "FleetCarrier"

	updatedAt := timestampISO(msg.Timestamp)
	systemAddress := msg.SystemAddress
	systemName := msg.StarSystem
	x := models.StarPosAt(msg.StarPos, 0)
	y := models.StarPosAt(msg.StarPos, 1)
	z := models.StarPosAt(msg.StarPos, 2)

	station := &models.Station{
		StationName:   stationName,
		MarketID:      *msg.MarketID,
		SystemAddress: &systemAddress,
		SystemName:    &systemName,
		SystemX:       &x,
		SystemY:       &y,
		SystemZ:       &z,
		Services:      stationServices(msg.StationServices),
		UpdatedAt:     updatedAt,
	}

	if stationType != "" {
		station.StationType = &stationType
	}
	if msg.DistFromStarLS != nil {
		station.DistanceToArrival = msg.DistFromStarLS
	}
	if msg.StationAllegiance != "" {
		allegiance := msg.StationAllegiance
		station.Allegiance = &allegiance
	}

	// Carriers are player-owned: their government and economy are fixed and
	// faction ownership is not meaningful
	if isCarrier {
		government := "Fleet Carrier"
		economy := "Fleet Carrier"
		station.Government = &government
		station.PrimaryEconomy = &economy
	} else {
		if msg.StationGovernment != "" {
			government := CanonicalGovernment(msg.StationGovernment)
			station.Government = &government
		}
		if msg.StationFaction != nil && msg.StationFaction.Name != "" {
			faction := msg.StationFaction.Name
			station.ControllingFactionName = &faction
		}
		if len(msg.StationEconomies) > 0 && msg.StationEconomies[0].Name != "" {
			economy := CanonicalEconomy(msg.StationEconomies[0].Name)
			station.PrimaryEconomy = &economy
		}
	}
	if len(msg.StationEconomies) > 1 && msg.StationEconomies[1].Name != "" {
		economy := CanonicalEconomy(msg.StationEconomies[1].Name)
		station.SecondaryEconomy = &economy
	}

	if pad := maxLandingPadSize(msg.LandingPads, stationType); pad != 0 {
		size := pad
		station.MaxLandingPadSize = &size
	}

	result.Station = station
	return result
}

// stationServices maps the event's service list onto the 0/1 service flag
// columns
func stationServices(services []string) *models.StationServices {
	has := func(service string) int {
		for _, s := range services {
			if s == service {
				return 1
			}
		}
		return 0
	}

	return &models.StationServices{
		Shipyard:                   has("shipyard"),
		Outfitting:                 has("outfitting"),
		BlackMarket:                has("blackmarket"),
		Contacts:                   has("contacts"),
		CrewLounge:                 has("crewlounge"),
		InterstellarFactorsContact: has("facilitator"),
		MaterialTrader:             has("materialtrader"),
		Missions:                   has("missions"),
		Refuel:                     has("refuel"),
		Repair:                     has("repair"),
		Restock:                    has("restock"),
		SearchAndRescue:            has("searchrescue"),
		TechnologyBroker:           has("techBroker"),
		Tuning:                     has("tuning"),
		UniversalCartographics:     has("exploration"),
	}
}

// maxLandingPadSize derives the landing pad size class from explicit pad
// capacity when reported, falling back to type-based inference
func maxLandingPadSize(pads *models.JournalLandingPads, canonicalType string) int {
	if pads != nil {
		size := 0
		if pads.Small > 0 {
			size = PadSmall
		}
		if pads.Medium > 0 {
			size = PadMedium
		}
		if pads.Large > 0 {
			size = PadLarge
		}
		if size != 0 {
			return size
		}
	}

	if size, ok := InferMaxLandingPadSize(canonicalType); ok {
		return size
	}
	return 0
}
