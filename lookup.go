package spine

// Table holds per-sample lookup buffers for a tube renderer. Positions are
// raw world-space xyz triplets; normals are unit xyz triplets remapped from
// [-1, 1] to [0, 1], the usual encoding for normal textures. A GPU vertex
// stage indexes both by the sample's v coordinate to place and light
// tube-surface geometry.
//
// A Table is refilled in place every frame; buffers are allocated once.
type Table struct {
	Samples   int
	Positions []float32
	Normals   []float32
}

// NewTable returns a table with capacity for the given number of samples
// along the curve window. Fewer than two samples are rounded up to two.
func NewTable(samples int) *Table {
	if samples < 2 {
		samples = 2
	}
	return &Table{
		Samples:   samples,
		Positions: make([]float32, samples*3),
		Normals:   make([]float32, samples*3),
	}
}

// Fill samples the manager's window at evenly spaced local parameters and
// packs the results into the table's buffers. Call it after
// [Endless.ConfigureStartEnd] each tick.
func (tb *Table) Fill(e *Endless) {
	for i := 0; i < tb.Samples; i++ {
		u := float64(i) / float64(tb.Samples-1)
		b := e.BasisAtLocal(u)
		tb.Positions[i*3+0] = float32(b.Position.X)
		tb.Positions[i*3+1] = float32(b.Position.Y)
		tb.Positions[i*3+2] = float32(b.Position.Z)
		tb.Normals[i*3+0] = float32(b.Normal.X*0.5 + 0.5)
		tb.Normals[i*3+1] = float32(b.Normal.Y*0.5 + 0.5)
		tb.Normals[i*3+2] = float32(b.Normal.Z*0.5 + 0.5)
	}
}
