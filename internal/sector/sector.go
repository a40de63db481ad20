// Package sector derives deterministic entity identifiers and spatial bucket
// keys from coordinates. All functions are pure.
package sector

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/crypto/sha3"
)

const (
	// GridSize is the sector grid cell edge length in light years. Data in
	// the systems store assumes this value and needs rebuilding if it changes.
	GridSize = 100

	// HashLength is the hash output length in bytes. Long enough to minimise
	// sector ID collisions.
	HashLength = 8
)

// shakeHex computes a SHAKE-256 digest of s truncated to HashLength bytes,
// hex encoded.
func shakeHex(s string) string {
	h := sha3.NewShake256()
	h.Write([]byte(s))
	digest := make([]byte, HashLength)
	h.Read(digest)
	return hex.EncodeToString(digest)
}

// SectorKey returns the coarse spatial bucket key for a coordinate triple.
// Each axis is floored to a GridSize-sized cell and the cell indices are
// hashed, so nearby systems share a small set of sector keys without needing
// a spatial index.
func SectorKey(x, y, z float64) string {
	xGrid := int64(math.Floor(x / GridSize))
	yGrid := int64(math.Floor(y / GridSize))
	zGrid := int64(math.Floor(z / GridSize))
	return shakeHex(fmt.Sprintf("%d, %d, %d", xGrid, yGrid, zGrid))
}

// LocationID returns a synthetic primary key for a point of interest, which
// has no natural key in the feed. Rare collisions are an accepted risk given
// the low volume of this entity class.
func LocationID(systemAddress int64, name string, bodyID int64, latitude, longitude float64) string {
	s := strconv.FormatInt(systemAddress, 10) + "/" +
		name + "/" +
		strconv.FormatInt(bodyID, 10) + "/" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "/" +
		strconv.FormatFloat(longitude, 'f', -1, 64)
	return shakeHex(s)
}
