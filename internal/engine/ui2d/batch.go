package ui2d

// floatsPerVertex is x, y, r, g, b, a.
const floatsPerVertex = 6

// Rect is an axis-aligned rectangle. Y grows upward.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r. The left and bottom edges
// are inclusive, the right and top edges exclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Batch accumulates colored quads as triangle vertices.
type Batch struct {
	vertices []float32
}

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() {
	b.vertices = b.vertices[:0]
}

// Rect appends a filled rectangle.
func (b *Batch) Rect(r Rect, c Color) {
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	b.vertices = append(b.vertices,
		x0, y0, c.R, c.G, c.B, c.A,
		x1, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,

		x0, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x0, y1, c.R, c.G, c.B, c.A,
	)
}

// Outline appends a rectangle border of the given thickness drawn inside r.
func (b *Batch) Outline(r Rect, thickness float32, c Color) {
	b.Rect(Rect{r.X, r.Y, r.W, thickness}, c)
	b.Rect(Rect{r.X, r.Y + r.H - thickness, r.W, thickness}, c)
	b.Rect(Rect{r.X, r.Y + thickness, thickness, r.H - thickness*2}, c)
	b.Rect(Rect{r.X + r.W - thickness, r.Y + thickness, thickness, r.H - thickness*2}, c)
}

// Vertices returns the accumulated vertex data.
func (b *Batch) Vertices() []float32 {
	return b.vertices
}

// VertexCount returns the number of vertices in the batch.
func (b *Batch) VertexCount() int {
	return len(b.vertices) / floatsPerVertex
}
