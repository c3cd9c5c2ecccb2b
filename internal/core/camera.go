package core

import "math"

// Camera maps world units (y down) onto terminal cells.
// X and Y are the world coordinates shown at cell (0, 0).
type Camera struct {
	X, Y        float64
	UnitsPerCol float64
	UnitsPerRow float64
	Cols, Rows  int
}

// NewCamera creates a camera for a cols x rows viewport.
// Non-positive scales fall back to 8 units per column and 16 per row,
// which keeps square world shapes square on typical terminal fonts.
func NewCamera(cols, rows int, unitsPerCol, unitsPerRow float64) Camera {
	if unitsPerCol <= 0 {
		unitsPerCol = 8
	}
	if unitsPerRow <= 0 {
		unitsPerRow = 16
	}
	return Camera{
		UnitsPerCol: unitsPerCol,
		UnitsPerRow: unitsPerRow,
		Cols:        cols,
		Rows:        rows,
	}
}

// Follow places the world x coordinate at offset units from the left edge.
func (c *Camera) Follow(x, offset float64) {
	c.X = x - offset
}

// Anchor places the world y coordinate on the given row.
func (c *Camera) Anchor(y float64, row int) {
	c.Y = y - float64(row)*c.UnitsPerRow
}

// Resize changes the viewport dimensions, keeping the scale.
func (c *Camera) Resize(cols, rows int) {
	c.Cols, c.Rows = cols, rows
}

// ToCell returns the cell containing the world point.
func (c Camera) ToCell(x, y float64) (col, row int) {
	col = int(math.Floor((x - c.X) / c.UnitsPerCol))
	row = int(math.Floor((y - c.Y) / c.UnitsPerRow))
	return col, row
}

// RectFor returns the cells covered by a world-space box.
// Boxes smaller than a cell still cover one cell.
func (c Camera) RectFor(x, y, w, h float64) Rect {
	col0, row0 := c.ToCell(x, y)
	col1 := int(math.Ceil((x + w - c.X) / c.UnitsPerCol))
	row1 := int(math.Ceil((y + h - c.Y) / c.UnitsPerRow))
	return Rect{X: col0, Y: row0, W: Max(col1-col0, 1), H: Max(row1-row0, 1)}
}

// Span returns the world x range visible in the viewport.
func (c Camera) Span() (minX, maxX float64) {
	return c.X, c.X + float64(c.Cols)*c.UnitsPerCol
}

// Visible reports whether a cell lies inside the viewport.
func (c Camera) Visible(col, row int) bool {
	return col >= 0 && col < c.Cols && row >= 0 && row < c.Rows
}
