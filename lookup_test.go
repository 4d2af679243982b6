package spine

import (
	"math"
	"testing"
)

func TestTableShape(t *testing.T) {
	tb := NewTable(64)
	diff(t, 64, tb.Samples)
	diff(t, 64*3, len(tb.Positions))
	diff(t, 64*3, len(tb.Normals))

	// Degenerate sample counts are rounded up to the two endpoints.
	diff(t, 2, NewTable(1).Samples)
	diff(t, 2, NewTable(-5).Samples)
}

func TestTableFillEmpty(t *testing.T) {
	tb := NewTable(4)
	tb.Fill(straightEndless())
	// The neutral frame's normal is +y, which encodes to (0.5, 1, 0.5).
	for i := 0; i < tb.Samples; i++ {
		diff(t, float32(0), tb.Positions[i*3+0])
		diff(t, float32(0.5), tb.Normals[i*3+0])
		diff(t, float32(1.0), tb.Normals[i*3+1])
		diff(t, float32(0.5), tb.Normals[i*3+2])
	}
}

func TestTableFill(t *testing.T) {
	cfg := DefaultSteerConfig()
	s := NewSteerer(cfg, Pt3(0, 0, 0), V3(1, 0, 0), 21)
	e := NewEndless(s, 10)
	e.SetTarget(Pt3(12, 4, 0))
	e.ConfigureStartEnd(8, 30)

	tb := NewTable(128)
	tb.Fill(e)
	for i, v := range tb.Positions {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("position %d is %g", i, v)
		}
	}
	for i, v := range tb.Normals {
		// Encoded unit normals live in [0, 1].
		if !(v >= -0.001 && v <= 1.001) {
			t.Fatalf("encoded normal %d out of range: %g", i, v)
		}
	}
}
