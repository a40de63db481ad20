package sector

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSectorKey(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		a := SectorKey(55.71875, 17.59375, 27.15625)
		b := SectorKey(55.71875, 17.59375, 27.15625)
		if a != b {
			t.Errorf("SectorKey not deterministic: %q != %q", a, b)
		}
	})

	t.Run("coordinates in the same grid cell share a key", func(t *testing.T) {
		a := SectorKey(0, 0, 0)
		b := SectorKey(99.9, 99.9, 99.9)
		if a != b {
			t.Errorf("same-cell coordinates produced different keys: %q != %q", a, b)
		}
	})

	t.Run("crossing a cell boundary changes the key", func(t *testing.T) {
		a := SectorKey(99.9, 0, 0)
		b := SectorKey(100.0, 0, 0)
		if a == b {
			t.Error("keys should differ across the cell boundary")
		}
	})

	t.Run("negative coordinates floor toward negative infinity", func(t *testing.T) {
		// -0.1 is in cell -1, not cell 0
		a := SectorKey(-0.1, 0, 0)
		b := SectorKey(0.1, 0, 0)
		if a == b {
			t.Error("negative coordinate should fall into the adjacent cell")
		}

		c := SectorKey(-0.1, 0, 0)
		d := SectorKey(-99.9, 0, 0)
		if c != d {
			t.Errorf("coordinates in the same negative cell produced different keys: %q != %q", c, d)
		}
	})
}

func TestSectorKeyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	coord := gen.Float64Range(-100000, 100000)

	properties.Property("key is 16 lowercase hex characters", prop.ForAll(
		func(x, y, z float64) bool {
			key := SectorKey(x, y, z)
			if len(key) != HashLength*2 {
				return false
			}
			for _, c := range key {
				if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
					return false
				}
			}
			return true
		},
		coord, coord, coord,
	))

	properties.Property("key depends only on the grid cell", prop.ForAll(
		func(x, y, z, dx, dy, dz float64) bool {
			// Offsets within [0, GridSize) from a cell origin stay in the cell
			origin := func(v float64) float64 {
				cell := int64(v) / GridSize * GridSize
				return float64(cell)
			}
			ox, oy, oz := origin(x), origin(y), origin(z)
			return SectorKey(ox, oy, oz) == SectorKey(ox+dx, oy+dy, oz+dz)
		},
		gen.Float64Range(0, 100000), gen.Float64Range(0, 100000), gen.Float64Range(0, 100000),
		gen.Float64Range(0, GridSize-1), gen.Float64Range(0, GridSize-1), gen.Float64Range(0, GridSize-1),
	))

	properties.TestingRun(t)
}

func TestLocationID(t *testing.T) {
	id := LocationID(3932277478106, "Pioneer Point", 34, -12.5, 44.25)

	if len(id) != HashLength*2 {
		t.Errorf("LocationID length = %d, want %d", len(id), HashLength*2)
	}

	if id != LocationID(3932277478106, "Pioneer Point", 34, -12.5, 44.25) {
		t.Error("LocationID not deterministic")
	}

	other := LocationID(3932277478106, "Pioneer Point", 35, -12.5, 44.25)
	if id == other {
		t.Error("different body ids should produce different location ids")
	}
}
