package puzzle

// Layout places cards in fixed slots so connector lines come from the data
// model rather than from measured element positions. Units are arbitrary;
// the client scales them to its board box.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// LeftEdge is the x of the left column's right border, RightEdge the x
	// of the right column's left border.
	LeftEdge  float64 `json:"leftEdge"`
	RightEdge float64 `json:"rightEdge"`
}

// DefaultLayout is a 100x100 board with a gap between 30 and 70.
var DefaultLayout = Layout{Width: 100, Height: 100, LeftEdge: 30, RightEdge: 70}

// Line is a connector between two confirmed cards.
type Line struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// SlotY is the vertical center of slot i in a column of n cards.
func (l Layout) SlotY(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return l.Height * (float64(i) + 0.5) / float64(n)
}

// Lines returns one segment per confirmed connection.
func (b *Board) Lines(l Layout) []Line {
	lines := make([]Line, 0, len(b.connections))
	for _, c := range b.connections {
		from, to := b.items[c.From], b.items[c.To]
		lines = append(lines, Line{
			From: c.From,
			To:   c.To,
			X1:   l.LeftEdge,
			Y1:   l.SlotY(from.Slot, len(b.left)),
			X2:   l.RightEdge,
			Y2:   l.SlotY(to.Slot, len(b.right)),
		})
	}
	return lines
}
