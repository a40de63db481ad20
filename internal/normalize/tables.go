// Package normalize contains the pure transformation functions that convert
// raw feed event payloads into canonical rows, applying the name and type
// normalization vocabularies.
package normalize

import "regexp"

// fleetCarrierPattern matches carrier callsigns (e.g. "K7Q-BQL"). Carrier
// names are unique callsigns, so identity is name-keyed.
var fleetCarrierPattern = regexp.MustCompile(`^[A-Z0-9]{3}-[A-Z0-9]{3}$`)

// IsFleetCarrierName reports whether a station name is a fleet carrier
// callsign
func IsFleetCarrierName(name string) bool {
	return fleetCarrierPattern.MatchString(name)
}

// Canonical station type vocabulary. Carriers deliberately keep the single
// token form so maintenance and stats queries can match on it.
const (
	TypeFleetCarrier      = "FleetCarrier"
	TypeStrongholdCarrier = "StrongholdCarrier"
	TypeMegaShip          = "MegaShip"
	TypeOdysseySettlement = "Odyssey Settlement"
	TypeGuardianStructure = "Guardian Structure"
)

// stationTypes maps the feed's station type vocabulary to the canonical
// display vocabulary. Exhaustive over known types; unknown types pass
// through raw with a warning so new types the feed introduces are not lost.
var stationTypes = map[string]string{
	"Orbis":             "Orbis Starport",
	"Coriolis":          "Coriolis Starport",
	"Ocellus":           "Ocellus Starport",
	"AsteroidBase":      "Asteroid Base",
	"Outpost":           "Outpost",
	"CraterOutpost":     "Planetary Outpost",
	"CraterPort":        "Planetary Port",
	"OnFootSettlement":  TypeOdysseySettlement,
	"MegaShip":          TypeMegaShip,
	"Megaship":          TypeMegaShip, // case inconsistency in the feed
	"FleetCarrier":      TypeFleetCarrier,
	"StrongholdCarrier": TypeStrongholdCarrier,
}

// CanonicalStationType returns the canonical display form of a feed station
// type. ok is false for unknown types, in which case the raw value is
// returned uninterpreted.
func CanonicalStationType(rawType string) (string, bool) {
	if canonical, ok := stationTypes[rawType]; ok {
		return canonical, true
	}
	return rawType, false
}

// Landing pad size classes
const (
	PadSmall  = 1
	PadMedium = 2
	PadLarge  = 3
)

// landingPadsByType infers the maximum landing pad size from the canonical
// station type when the event does not report pad capacity. Settlement types
// are deliberately absent: their pad sizes vary, so no inference is made.
var landingPadsByType = map[string]int{
	"Orbis Starport":      PadLarge,
	"Coriolis Starport":   PadLarge,
	"Ocellus Starport":    PadLarge,
	"Asteroid Base":       PadLarge,
	"Planetary Port":      PadLarge,
	"Outpost":             PadMedium,
	"Planetary Outpost":   PadMedium,
	TypeMegaShip:          PadLarge,
	TypeFleetCarrier:      PadLarge,
	TypeStrongholdCarrier: PadLarge,
}

// InferMaxLandingPadSize returns the inferred maximum landing pad size for
// a canonical station type, or ok false if no inference applies
func InferMaxLandingPadSize(canonicalType string) (int, bool) {
	size, ok := landingPadsByType[canonicalType]
	return size, ok
}

// strongholdCarrierAliases lists the localized names a Stronghold Carrier
// appears under across game language settings. There is no official type for
// them but having one is useful.
var strongholdCarrierAliases = map[string]bool{
	"Stronghold Carrier":            true,
	"Hochburg-Carrier":              true,
	"Portanaves bastión":            true,
	"Porte-vaisseaux de forteresse": true,
	"Transportadora da potência":    true,
	"Носитель-база":                 true,
}

// CanonicalStrongholdCarrier reports whether a station name is any known
// alias of a Stronghold Carrier; such stations fold into one canonical
// name/type pair.
func CanonicalStrongholdCarrier(name string) bool {
	if strongholdCarrierAliases[name] {
		return true
	}
	return len(name) >= len("$ShipName_StrongholdCarrier") &&
		name[:len("$ShipName_StrongholdCarrier")] == "$ShipName_StrongholdCarrier"
}

// economyNames remaps feed economy display forms to the canonical vocabulary
// used elsewhere
var economyNames = map[string]string{
	"Agri":      "Agriculture",
	"High Tech": "HighTech",
}

// CanonicalEconomy normalizes an economy name: token decoration is stripped
// and display-form remaps are applied
func CanonicalEconomy(raw string) string {
	name := stripToken(raw, "$economy_")
	if canonical, ok := economyNames[name]; ok {
		return canonical
	}
	return name
}

// CanonicalGovernment normalizes a government name by stripping its token
// decoration
func CanonicalGovernment(raw string) string {
	return stripToken(raw, "$government_")
}

// stripToken removes a leading localization token prefix and the trailing
// ";" terminator, leaving display-form values untouched
func stripToken(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		s = s[len(prefix):]
	}
	if len(s) > 0 && s[len(s)-1] == ';' {
		s = s[:len(s)-1]
	}
	return s
}
