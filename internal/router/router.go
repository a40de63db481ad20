// Package router dispatches decoded feed messages to the correct
// normalizer and upsert sequence.
package router

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/stellar-collector/internal/errors"
	"github.com/stellar-collector/internal/gate"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/models"
	"github.com/stellar-collector/internal/normalize"
	"github.com/stellar-collector/internal/storage"
)

// minimumGameMajorVersion rejects events from clients still running earlier
// game releases: their field shapes are obsolete and would pollute
// current-state data.
const minimumGameMajorVersion = 4

// liveAPIVersionPrefix marks events relayed from the live API rather than a
// game client; these are always current
const liveAPIVersionPrefix = "CAPI-Live"

// Router inspects an incoming decoded message's schema identifier and
// routes it to the correct normalizer and upsert sequence. Routing is
// stateless; the write-gate is the only shared state consulted.
type Router struct {
	gate      *gate.Gate
	systems   *storage.SystemsStore
	locations *storage.LocationsStore
	stations  *storage.StationsStore
	trade     *storage.TradeStore
	logger    *logging.Logger
}

// New creates a router writing to the given stores, gated by g
func New(g *gate.Gate, systems *storage.SystemsStore, locations *storage.LocationsStore,
	stations *storage.StationsStore, trade *storage.TradeStore, logger *logging.Logger) *Router {
	return &Router{
		gate:      g,
		systems:   systems,
		locations: locations,
		stations:  stations,
		trade:     trade,
		logger:    logger,
	}
}

// Route decodes the envelope of one message and dispatches it. Messages
// arriving while the write-gate is closed are dropped without logging:
// rejection during the maintenance window is expected and frequent. A
// failure while handling one message never propagates; the listener loop
// moves on to the next.
func (r *Router) Route(data []byte) {
	if !r.gate.IsOpen() {
		return
	}

	var envelope models.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		r.logger.WithError(errors.NewMalformedPayloadError("parse", err)).Error("Dropping message")
		return
	}

	if !gameVersionAccepted(envelope.Header.GameVersion) {
		return
	}

	var err error
	switch envelope.SchemaRef {
	case models.SchemaCommodity:
		err = r.handleCommodity(envelope.Message)
	case models.SchemaDiscoveryScan:
		err = r.handleDiscoveryScan(envelope.Message)
	case models.SchemaNavRoute:
		err = r.handleNavRoute(envelope.Message)
	case models.SchemaApproachSettlement:
		err = r.handleApproachSettlement(envelope.Message)
	case models.SchemaJournal:
		err = r.handleJournal(envelope.Message)
	default:
		// The feed adds schemas over time without notice
	}

	if err != nil {
		r.logger.WithError(err).WithField("schema", envelope.SchemaRef).Error("Failed to process message")
	}
}

// gameVersionAccepted applies the stale-client guard. Messages without a
// version header are accepted; the guard exists to reject clients that
// affirmatively report an obsolete release.
func gameVersionAccepted(version string) bool {
	if version == "" {
		return true
	}
	if strings.HasPrefix(version, liveAPIVersionPrefix) {
		return true
	}
	major, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return false
	}
	return n >= minimumGameMajorVersion
}

// handleCommodity processes a market commodity snapshot. The carrier purge
// and the snapshot's inserts run synchronously within this call, so a
// reader can never observe a carrier market between its purge and its new
// rows.
func (r *Router) handleCommodity(raw json.RawMessage) error {
	var msg models.CommodityMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.NewMalformedPayloadError("decode commodity message", err)
	}

	snapshot := normalize.Commodity(&msg, r.systemCoords)
	if snapshot == nil {
		return errors.NewMissingFieldError("commodity", "marketId")
	}

	// Fleet carriers move around and can change their goods at any time, so
	// all prior commodity data for the market is dropped before the new
	// snapshot is written
	if snapshot.FleetCarrier {
		if err := r.trade.DeleteMarketData(snapshot.MarketID); err != nil {
			return errors.NewStoreWriteError(r.trade.DB().Name(), "commodities", err)
		}
	}

	// Record a basic station row for markets not seen before. Commodity
	// events carry no canonical system address so these entries are sparse
	// until a docked event fills them in.
	if snapshot.Station != nil {
		known, err := r.stations.ExistsByMarketID(snapshot.MarketID)
		if err != nil {
			return errors.NewStoreWriteError(r.stations.DB().Name(), "stations", err)
		}
		if !known {
			if err := r.stations.Insert(snapshot.Station); err != nil {
				return err
			}
		}
	}

	for _, order := range snapshot.Orders {
		if err := r.trade.ReplaceOrder(order); err != nil {
			return err
		}
	}

	return nil
}

// systemCoords is the best-effort coordinate lookup handed to the
// commodity normalizer
func (r *Router) systemCoords(systemName string) (x, y, z *float64) {
	system, err := r.systems.GetByName(systemName)
	if err != nil || system == nil {
		return nil, nil, nil
	}
	return &system.SystemX, &system.SystemY, &system.SystemZ
}

// handleDiscoveryScan records a system from a discovery scan event
func (r *Router) handleDiscoveryScan(raw json.RawMessage) error {
	var msg models.DiscoveryScanMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.NewMalformedPayloadError("decode discovery scan message", err)
	}

	system := normalize.DiscoveryScan(&msg)
	if system == nil {
		return nil
	}
	return r.systems.InsertIfUnknown(system)
}

// handleNavRoute records every system along a plotted route
func (r *Router) handleNavRoute(raw json.RawMessage) error {
	var msg models.NavRouteMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.NewMalformedPayloadError("decode nav route message", err)
	}

	for _, system := range normalize.NavRoute(&msg) {
		if err := r.systems.InsertIfUnknown(system); err != nil {
			return err
		}
	}
	return nil
}

// handleApproachSettlement routes a settlement approach to the stations or
// locations store depending on whether the settlement has a market
func (r *Router) handleApproachSettlement(raw json.RawMessage) error {
	var msg models.ApproachSettlementMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.NewMalformedPayloadError("decode approach settlement message", err)
	}

	settlement := normalize.ApproachSettlement(&msg)
	if settlement == nil {
		return nil
	}

	// The parent system should already be known, but the feed delivers
	// facts out of order
	if err := r.systems.InsertIfUnknown(settlement.System); err != nil {
		return err
	}

	switch settlement.Kind {
	case normalize.SettlementMarket:
		known, err := r.stations.ExistsByNameAndSystem(
			settlement.Station.StationName, *settlement.Station.SystemAddress)
		if err != nil {
			return errors.NewStoreWriteError(r.stations.DB().Name(), "stations", err)
		}
		if !known {
			return r.stations.Insert(settlement.Station)
		}
		return nil
	case normalize.SettlementPointOfInterest:
		return r.locations.Upsert(settlement.Location)
	}
	return nil
}

// handleJournal applies the secondary dispatch on the journal envelope's
// inner event name
func (r *Router) handleJournal(raw json.RawMessage) error {
	var msg models.JournalMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.NewMalformedPayloadError("decode journal message", err)
	}

	switch strings.ToLower(msg.Event) {
	case "docked":
		return r.handleDocked(&msg)
	case "fsdjump", "location":
		system := normalize.JournalSystem(&msg)
		if system == nil {
			return nil
		}
		return r.systems.InsertIfUnknown(system)
	default:
		// Journal envelopes carry many event types the collector has no
		// use for
	}
	return nil
}

// handleDocked creates or enriches a station from a docked event
func (r *Router) handleDocked(msg *models.JournalMessage) error {
	if msg.MarketID == nil {
		// The only instances found of this are in data for old mega ships
		return errors.NewMissingFieldError("docked", "MarketID")
	}

	result := normalize.Docked(msg)
	if result == nil || result.Station == nil {
		return nil
	}

	if result.UnknownStationType != "" {
		// Forward-compatibility over strict validation: keep the raw value
		r.logger.WithField("stationType", result.UnknownStationType).
			Warn("Unrecognized station type")
	}

	known, err := r.stations.ExistsByMarketID(result.Station.MarketID)
	if err != nil {
		return errors.NewStoreWriteError(r.stations.DB().Name(), "stations", err)
	}
	if known {
		// Selective update: later sightings add detail without destroying
		// already-known fields. Carrier location fields are overwritten
		// because docked events always carry the full position.
		return r.stations.UpdateByMarketID(result.Station)
	}
	return r.stations.Insert(result.Station)
}
