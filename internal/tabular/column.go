package tabular

// Renderer is the optional custom-render capability of a column.
type Renderer interface {
	Render(r Record) string
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(r Record) string

func (f RenderFunc) Render(r Record) string { return f(r) }

// Column describes how to title, weigh and render one field of a Record.
type Column struct {
	Key      string
	Title    string
	Width    float64 // relative weight; <= 0 means 1
	Sortable bool
	Renderer Renderer // nil falls back to Stringify(record[Key])
}

// Cell returns the display content of this column for r.
func (c Column) Cell(r Record) string {
	if c.Renderer != nil {
		return c.Renderer.Render(r)
	}
	return r.Text(c.Key)
}

// Weight returns the column's relative width weight.
func (c Column) Weight() float64 {
	if c.Width <= 0 {
		return 1
	}
	return c.Width
}

// Distribute splits total cells across columns proportionally to their
// weights. Every column gets at least min cells; rounding leftovers go to
// the leftmost columns.
func Distribute(columns []Column, total, min int) []int {
	widths := make([]int, len(columns))
	if len(columns) == 0 {
		return widths
	}

	var sum float64
	for _, c := range columns {
		sum += c.Weight()
	}

	used := 0
	for i, c := range columns {
		w := int(float64(total) * c.Weight() / sum)
		if w < min {
			w = min
		}
		widths[i] = w
		used += w
	}

	for i := 0; used < total; i = (i + 1) % len(widths) {
		widths[i]++
		used++
	}
	return widths
}
