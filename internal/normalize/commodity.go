package normalize

import (
	"encoding/json"
	"strings"

	"github.com/stellar-collector/internal/models"
)

// CommodityName normalizes a commodity name. Some events send localization
// tokens like '$gold_name;' while others send the display form ('Gold');
// both resolve to 'gold'. Normalization is idempotent.
func CommodityName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimPrefix(name, "$")
	name = strings.TrimSuffix(name, "_name;")
	return name
}

// SystemCoords is a best-effort lookup from system name to coordinates,
// used to denormalize positions onto trade order rows. Unknown systems
// return nil coordinates; the feed delivers facts out of order and systems
// may be learned after the stations that reference them.
type SystemCoords func(systemName string) (x, y, z *float64)

// CommoditySnapshot is the canonical form of one market's commodity event
type CommoditySnapshot struct {
	MarketID     int64
	StationName  string
	FleetCarrier bool

	// Station is a minimal station sighting recorded when the market is not
	// yet known, nil when the entity is filtered out (e.g. construction site
	// placeholders)
	Station *models.Station

	Orders []*models.TradeOrder
}

// Commodity converts a commodity market event into a canonical snapshot,
// or nil when the event is unusable
func Commodity(msg *models.CommodityMessage, coords SystemCoords) *CommoditySnapshot {
	if msg.MarketID == 0 || msg.StationName == "" {
		return nil
	}

	isCarrier := IsFleetCarrierName(msg.StationName)
	updatedAt := timestampISO(msg.Timestamp)

	var x, y, z *float64
	if coords != nil {
		x, y, z = coords(msg.SystemName)
	}

	snapshot := &CommoditySnapshot{
		MarketID:     msg.MarketID,
		StationName:  msg.StationName,
		FleetCarrier: isCarrier,
		Station:      commodityStationSighting(msg, updatedAt),
	}

	fleetCarrier := 0
	if isCarrier {
		fleetCarrier = 1
	}

	for _, listing := range msg.Commodities {
		statusFlags := ""
		if len(listing.StatusFlags) > 0 {
			flags, err := json.Marshal(listing.StatusFlags)
			if err == nil {
				statusFlags = string(flags)
			}
		}

		snapshot.Orders = append(snapshot.Orders, &models.TradeOrder{
			MarketID:      msg.MarketID,
			CommodityName: CommodityName(listing.Name),
			StationName:   msg.StationName,
			SystemName:    msg.SystemName,
			SystemX:       x,
			SystemY:       y,
			SystemZ:       z,
			FleetCarrier:  fleetCarrier,
			BuyPrice:      listing.BuyPrice,
			Demand:        listing.Demand,
			DemandBracket: int64(listing.DemandBracket),
			MeanPrice:     listing.MeanPrice,
			SellPrice:     listing.SellPrice,
			Stock:         listing.Stock,
			StockBracket:  int64(listing.StockBracket),
			StatusFlags:   statusFlags,
			UpdatedAt:     updatedAt,
			UpdatedAtDay:  dayBucket(updatedAt),
		})
	}

	return snapshot
}

// commodityStationSighting builds the minimal station row recorded for a
// market not seen before. Commodity events carry a non-unique system name
// but no canonical system address, so only what can be known for certain is
// logged.
func commodityStationSighting(msg *models.CommodityMessage, updatedAt string) *models.Station {
	stationName := msg.StationName
	stationType := msg.StationType

	// Construction site placeholders are transient, not real stations
	if strings.HasPrefix(stationName, "$EXT_PANEL_ColonisationShip") ||
		stationName == "System Colonisation Ship" {
		return nil
	}
	if stationType == "GameplayPOI" || stationType == "DockablePlanetStation" {
		return nil
	}

	if CanonicalStrongholdCarrier(stationName) {
		stationName = "Stronghold Carrier"
		stationType = TypeStrongholdCarrier
	}

	if IsFleetCarrierName(stationName) {
		stationType = TypeFleetCarrier
	}

	station := &models.Station{
		StationName: stationName,
		MarketID:    msg.MarketID,
		UpdatedAt:   updatedAt,
	}

	// Only set the type when one is known; empty strings should be NULL
	if stationType != "" {
		canonical, _ := CanonicalStationType(stationType)
		station.StationType = &canonical
	}

	return station
}
