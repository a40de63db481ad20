package normalize

import (
	"strings"

	"github.com/stellar-collector/internal/models"
	"github.com/stellar-collector/internal/sector"
)

// SettlementKind discriminates the two downstream targets a settlement
// approach event can feed
type SettlementKind int

const (
	// SettlementMarket identifies a settlement with a market id, stored as
	// a station
	SettlementMarket SettlementKind = iota
	// SettlementPointOfInterest identifies a settlement without a market
	// id, stored as a location
	SettlementPointOfInterest
)

// Settlement is the canonical form of a settlement approach event. The same
// upstream event type feeds two different tables depending on whether a
// market id is present, so the normalizer returns an explicit tagged union
// rather than leaving the branch to field-presence checks downstream.
type Settlement struct {
	Kind     SettlementKind
	Station  *models.Station
	Location *models.Location

	// System is the parent system sighting, recorded in case it is not yet
	// known (it should be, but the feed delivers facts out of order)
	System *models.System
}

// ApproachSettlement converts a settlement approach event into its
// canonical form, or nil if the event carries no usable position
func ApproachSettlement(msg *models.ApproachSettlementMessage) *Settlement {
	if !ValidPosition(msg.StarSystem, msg.StarPos) {
		return nil
	}

	updatedAt := timestampISO(msg.Timestamp)
	x := models.StarPosAt(msg.StarPos, 0)
	y := models.StarPosAt(msg.StarPos, 1)
	z := models.StarPosAt(msg.StarPos, 2)

	settlement := &Settlement{
		System: systemRow(msg.SystemAddress, msg.StarSystem, msg.StarPos, updatedAt),
	}

	if msg.MarketID != nil {
		systemAddress := msg.SystemAddress
		systemName := msg.StarSystem
		bodyID := msg.BodyID
		bodyName := msg.BodyName
		latitude := msg.Latitude
		longitude := msg.Longitude
		stationType := settlementType(msg.Name)

		settlement.Kind = SettlementMarket
		settlement.Station = &models.Station{
			StationName:   msg.Name,
			MarketID:      *msg.MarketID,
			StationType:   &stationType,
			SystemAddress: &systemAddress,
			SystemName:    &systemName,
			SystemX:       &x,
			SystemY:       &y,
			SystemZ:       &z,
			BodyID:        &bodyID,
			BodyName:      &bodyName,
			Latitude:      &latitude,
			Longitude:     &longitude,
			UpdatedAt:     updatedAt,
		}
		return settlement
	}

	settlement.Kind = SettlementPointOfInterest
	settlement.Location = &models.Location{
		LocationID:    sector.LocationID(msg.SystemAddress, msg.Name, msg.BodyID, msg.Latitude, msg.Longitude),
		LocationName:  msg.Name,
		SystemAddress: msg.SystemAddress,
		SystemName:    msg.StarSystem,
		SystemX:       x,
		SystemY:       y,
		SystemZ:       z,
		BodyID:        msg.BodyID,
		BodyName:      msg.BodyName,
		Latitude:      msg.Latitude,
		Longitude:     msg.Longitude,
		UpdatedAt:     updatedAt,
	}
	return settlement
}

// settlementType infers the station type from the settlement name. Guardian
// ruin sites arrive through the same event but use localization token names.
func settlementType(name string) string {
	if strings.HasPrefix(name, "$Ancient") {
		return TypeGuardianStructure
	}
	return TypeOdysseySettlement
}
