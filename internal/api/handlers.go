package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/stellar-collector/internal/models"
)

// handleStatus returns a human-readable plaintext snapshot of aggregate
// counts, read from the periodically regenerated stats manifest
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.statusText())
}

// statusText renders the status banner. A missing or malformed stats
// manifest is not an error condition; it simply means stats have not been
// generated yet.
func (s *Server) statusText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stellar Collector v%s Online\n", Version)
	b.WriteString("--------------------------\n")

	data, err := os.ReadFile(s.config.StatsPath)
	if err != nil {
		b.WriteString("Stats not generated yet")
		return b.String()
	}

	var stats models.DatabaseStats
	if err := json.Unmarshal(data, &stats); err != nil {
		b.WriteString("Stats not generated yet")
		return b.String()
	}

	b.WriteString("Locations:\n")
	fmt.Fprintf(&b, "* Star systems: %d\n", stats.Systems)
	fmt.Fprintf(&b, "* Points of interest: %d\n", stats.PointsOfInterest)
	b.WriteString("Stations:\n")
	fmt.Fprintf(&b, "* Stations: %d\n", stats.Stations.Stations)
	fmt.Fprintf(&b, "* Fleet Carriers: %d\n", stats.Stations.Carriers)
	fmt.Fprintf(&b, "* Station updates in last hour: %d\n", stats.Stations.UpdatedInLastHour)
	fmt.Fprintf(&b, "* Station updates in last 24 hours: %d\n", stats.Stations.UpdatedInLast24Hours)
	fmt.Fprintf(&b, "* Station updates in last 7 days: %d\n", stats.Stations.UpdatedInLast7Days)
	fmt.Fprintf(&b, "* Station updates in last 30 days: %d\n", stats.Stations.UpdatedInLast30Days)
	b.WriteString("Trade:\n")
	fmt.Fprintf(&b, "* Station markets: %d\n", stats.Trade.Stations)
	fmt.Fprintf(&b, "* Fleet Carrier markets: %d\n", stats.Trade.Carriers)
	fmt.Fprintf(&b, "* Trade systems: %d\n", stats.Trade.Systems)
	fmt.Fprintf(&b, "* Trade orders: %d\n", stats.Trade.TradeOrders)
	fmt.Fprintf(&b, "* Trade updates in last hour: %d\n", stats.Trade.UpdatedInLastHour)
	fmt.Fprintf(&b, "* Trade updates in last 24 hours: %d\n", stats.Trade.UpdatedInLast24Hours)
	fmt.Fprintf(&b, "* Trade updates in last 7 days: %d\n", stats.Trade.UpdatedInLast7Days)
	fmt.Fprintf(&b, "* Trade updates in last 30 days: %d\n", stats.Trade.UpdatedInLast30Days)
	fmt.Fprintf(&b, "* Unique commodities: %d\n", stats.Trade.UniqueCommodities)
	fmt.Fprintf(&b, "Stats last updated: %s", stats.Timestamp)

	return b.String()
}
