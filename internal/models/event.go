package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Schema identifiers used by the upstream feed. New schemas appear over time
// without notice; anything not listed here is ignored.
const (
	SchemaCommodity          = "https://eddn.edcd.io/schemas/commodity/3"
	SchemaDiscoveryScan      = "https://eddn.edcd.io/schemas/fssdiscoveryscan/1"
	SchemaNavRoute           = "https://eddn.edcd.io/schemas/navroute/1"
	SchemaApproachSettlement = "https://eddn.edcd.io/schemas/approachsettlement/1"
	SchemaJournal            = "https://eddn.edcd.io/schemas/journal/1"
)

// Envelope is the top-level shape of every feed message. The message body is
// left raw until the schema is known.
type Envelope struct {
	SchemaRef string          `json:"$schemaRef"`
	Header    Header          `json:"header"`
	Message   json.RawMessage `json:"message"`
}

// Header is the feed message header. GameVersion is used to reject events
// from stale clients.
type Header struct {
	UploaderID       string `json:"uploaderID"`
	SoftwareName     string `json:"softwareName"`
	GameVersion      string `json:"gameversion"`
	GatewayTimestamp string `json:"gatewayTimestamp"`
}

// Bracket is a stock/demand bracket level (0 none, 1 low, 2 medium, 3 high).
// The feed inconsistently sends it as a number or an empty string.
type Bracket int64

// UnmarshalJSON accepts either a JSON number or an empty string
func (b *Bracket) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte(`""`)) || bytes.Equal(data, []byte("null")) {
		*b = 0
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		if s == "" {
			*b = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*b = Bracket(v)
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*b = Bracket(v)
	return nil
}

// CommodityMessage is the body of a commodity market snapshot event
type CommodityMessage struct {
	SystemName  string             `json:"systemName"`
	StationName string             `json:"stationName"`
	StationType string             `json:"stationType"`
	MarketID    int64              `json:"marketId"`
	Timestamp   string             `json:"timestamp"`
	Commodities []CommodityListing `json:"commodities"`
}

// CommodityListing is a single commodity entry within a market snapshot
type CommodityListing struct {
	Name          string   `json:"name"`
	BuyPrice      int64    `json:"buyPrice"`
	Demand        int64    `json:"demand"`
	DemandBracket Bracket  `json:"demandBracket"`
	MeanPrice     int64    `json:"meanPrice"`
	SellPrice     int64    `json:"sellPrice"`
	Stock         int64    `json:"stock"`
	StockBracket  Bracket  `json:"stockBracket"`
	StatusFlags   []string `json:"statusFlags"`
}

// DiscoveryScanMessage is the body of a discovery scan event
type DiscoveryScanMessage struct {
	SystemAddress int64     `json:"SystemAddress"`
	SystemName    string    `json:"SystemName"`
	StarPos       []float64 `json:"StarPos"`
	Timestamp     string    `json:"timestamp"`
}

// NavRouteMessage is the body of a plotted route event
type NavRouteMessage struct {
	Route     []NavRouteHop `json:"Route"`
	Timestamp string        `json:"timestamp"`
}

// NavRouteHop is one system along a plotted route
type NavRouteHop struct {
	StarSystem    string    `json:"StarSystem"`
	SystemAddress int64     `json:"SystemAddress"`
	StarPos       []float64 `json:"StarPos"`
	StarClass     string    `json:"StarClass"`
}

// ApproachSettlementMessage is the body of a settlement approach event.
// MarketID is absent for points of interest without a market.
type ApproachSettlementMessage struct {
	Name          string    `json:"Name"`
	MarketID      *int64    `json:"MarketID"`
	SystemAddress int64     `json:"SystemAddress"`
	StarSystem    string    `json:"StarSystem"`
	StarPos       []float64 `json:"StarPos"`
	BodyID        int64     `json:"BodyID"`
	BodyName      string    `json:"BodyName"`
	Latitude      float64   `json:"Latitude"`
	Longitude     float64   `json:"Longitude"`
	Timestamp     string    `json:"timestamp"`
}

// JournalMessage is the body of a raw journal event envelope. Only the
// fields used by the docked/fsdjump/location sub-handlers are decoded.
type JournalMessage struct {
	Event             string              `json:"event"`
	StationName       string              `json:"StationName"`
	StationType       string              `json:"StationType"`
	MarketID          *int64              `json:"MarketID"`
	DistFromStarLS    *float64            `json:"DistFromStarLS"`
	StationAllegiance string              `json:"StationAllegiance"`
	StationGovernment string              `json:"StationGovernment"`
	StationFaction    *JournalFaction     `json:"StationFaction"`
	StationEconomies  []JournalEconomy    `json:"StationEconomies"`
	StationServices   []string            `json:"StationServices"`
	LandingPads       *JournalLandingPads `json:"LandingPads"`
	SystemAddress     int64               `json:"SystemAddress"`
	StarSystem        string              `json:"StarSystem"`
	StarPos           []float64           `json:"StarPos"`
	BodyID            *int64              `json:"BodyID"`
	BodyName          string              `json:"Body"`
	Timestamp         string              `json:"timestamp"`
}

// JournalFaction is the controlling faction of a station
type JournalFaction struct {
	Name string `json:"Name"`
}

// JournalEconomy is one station economy entry
type JournalEconomy struct {
	Name       string  `json:"Name"`
	Proportion float64 `json:"Proportion"`
}

// JournalLandingPads reports landing pad capacity by size class
type JournalLandingPads struct {
	Small  int `json:"Small"`
	Medium int `json:"Medium"`
	Large  int `json:"Large"`
}

// StarPosAt returns the coordinate at index i, or 0 if the slice is too
// short. Guards against malformed events with truncated positions.
func StarPosAt(pos []float64, i int) float64 {
	if i < len(pos) {
		return pos[i]
	}
	return 0
}
