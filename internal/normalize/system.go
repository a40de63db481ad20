package normalize

import (
	"time"

	"github.com/stellar-collector/internal/models"
	"github.com/stellar-collector/internal/sector"
)

// OriginSystemName is the only system legitimately located at (0, 0, 0).
// Events placing any other system there are reporting "position unknown" and
// are ignored.
const OriginSystemName = "Sol"

// ValidPosition reports whether a coordinate triple is usable for the named
// system. (0,0,0) is a sentinel for "position unknown", never a real
// position, except for the origin system itself.
func ValidPosition(systemName string, pos []float64) bool {
	x := models.StarPosAt(pos, 0)
	y := models.StarPosAt(pos, 1)
	z := models.StarPosAt(pos, 2)
	if x == 0 && y == 0 && z == 0 && systemName != OriginSystemName {
		return false
	}
	return true
}

// systemRow builds a canonical system row from a confirmed sighting
func systemRow(systemAddress int64, systemName string, pos []float64, updatedAt string) *models.System {
	x := models.StarPosAt(pos, 0)
	y := models.StarPosAt(pos, 1)
	z := models.StarPosAt(pos, 2)

	return &models.System{
		SystemAddress: systemAddress,
		SystemName:    systemName,
		SystemX:       x,
		SystemY:       y,
		SystemZ:       z,
		SystemSector:  sector.SectorKey(x, y, z),
		UpdatedAt:     updatedAt,
	}
}

// DiscoveryScan converts a discovery scan event into a canonical system row,
// or nil if the event carries no usable position
func DiscoveryScan(msg *models.DiscoveryScanMessage) *models.System {
	if !ValidPosition(msg.SystemName, msg.StarPos) {
		return nil
	}
	return systemRow(msg.SystemAddress, msg.SystemName, msg.StarPos, nowISO())
}

// NavRoute converts a plotted route event into canonical system rows, one
// per hop with a usable position
func NavRoute(msg *models.NavRouteMessage) []*models.System {
	var systems []*models.System
	for _, hop := range msg.Route {
		if !ValidPosition(hop.StarSystem, hop.StarPos) {
			continue
		}
		systems = append(systems, systemRow(hop.SystemAddress, hop.StarSystem, hop.StarPos, nowISO()))
	}
	return systems
}

// JournalSystem converts a journal fsdjump or location event into a
// canonical system row, or nil if the event carries no usable position
func JournalSystem(msg *models.JournalMessage) *models.System {
	if msg.StarSystem == "" || !ValidPosition(msg.StarSystem, msg.StarPos) {
		return nil
	}
	return systemRow(msg.SystemAddress, msg.StarSystem, msg.StarPos, timestampISO(msg.Timestamp))
}

// nowISO returns the current time in the ISO 8601 form stored in updatedAt
// columns
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// timestampISO normalizes an event timestamp to the stored ISO 8601 form,
// falling back to the current time when the timestamp is absent or
// malformed
func timestampISO(ts string) string {
	if ts == "" {
		return nowISO()
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return nowISO()
	}
	return parsed.UTC().Format("2006-01-02T15:04:05.000Z")
}

// dayBucket returns the date portion of an ISO 8601 timestamp, used for the
// day-bucketed compound index on trade orders
func dayBucket(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
