package tui

// sparkLevels are the eight block heights a sparkline cell can take.
var sparkLevels = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series up to a fixed capacity.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer returns an empty buffer holding at least one sample.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(1, capacity))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

func (r *RingBuffer) Len() int { return r.count }
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head+len(r.data)-1)%len(r.data)]
}

// Slice copies the samples out, oldest first. It returns nil when empty.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := r.head - r.count + len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity and keeps the newest samples that fit.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(1, capacity)
	if capacity == len(r.data) {
		return
	}
	kept := lastN(r.Slice(), capacity)
	r.data = make([]float64, capacity)
	r.Reset()
	for _, v := range kept {
		r.Push(v)
	}
}

// Reset drops all samples and keeps the capacity.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

func clampPercent(v float64) float64 {
	return max(0, min(v, 100))
}

// Normalize rescales non-negative values to percentages of their maximum,
// so series such as throughput can share the 0..100 renderers.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	out := make([]float64, len(values))
	if peak <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = clampPercent(v / peak * 100)
	}
	return out
}

// RenderSparkline draws one block per value, clamping to 0..100.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = sparkLevels[min(int(clampPercent(v)/100*7), 7)]
	}
	return string(runes)
}

// brailleDots[col][row] is the bit of dot (col, row) within a braille cell.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBlank = 0x2800

// RenderBrailleChart plots values (0..100) on a grid of width by rows braille
// cells, two samples per cell, newest sample in the rightmost column.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotRows, dotCols := rows*4, width*2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = brailleBlank
		}
	}

	shown := lastN(values, dotCols)
	offset := dotCols - len(shown)
	for i, v := range shown {
		col := offset + i
		row := dotRows - 1 - int(clampPercent(v)/100*float64(dotRows-1))
		row = max(0, min(row, dotRows-1))
		grid[row/4][col/2] |= brailleDots[col%2][row%4]
	}

	out := make([]string, rows)
	for r := range grid {
		out[r] = string(grid[r])
	}
	return out
}
