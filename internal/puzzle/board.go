package puzzle

import (
	"clock-tutor-service/internal/clock"
	"clock-tutor-service/internal/domain"
)

// Side is the column a card sits in.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Item is one clickable card.
type Item struct {
	ID     string      `json:"id"`
	Side   Side        `json:"side"`
	Slot   int         `json:"slot"`
	Face   *clock.Face `json:"face,omitempty"`
	Label  string      `json:"label,omitempty"`
	pairID string
}

// Connection is a confirmed left/right pair.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Result classifies what a click did.
type Result string

const (
	Ignored    Result = "ignored"
	Selected   Result = "selected"
	Reselected Result = "reselected"
	Connected  Result = "connected"
	Mismatched Result = "mismatched"
)

// Outcome reports a click. Complete is true only on the click that makes
// the last connection.
type Outcome struct {
	Result   Result `json:"result"`
	Complete bool   `json:"complete"`
}

// Board is the pairing puzzle state: confirmed connections plus at most one
// selected card. It is not safe for concurrent use.
type Board struct {
	left        []Item
	right       []Item
	items       map[string]Item
	selected    string
	connections []Connection
	completed   bool
}

// NewBoard lays analog nodes out on the left and digital nodes on the right.
func NewBoard(p domain.MatchPayload) *Board {
	b := &Board{items: make(map[string]Item, len(p.Nodes))}
	for _, n := range p.Left() {
		face := clock.NewFace(n.Time.Hour, n.Time.Minute)
		item := Item{ID: n.ID, Side: Left, Slot: len(b.left), Face: &face, pairID: n.PairID}
		b.left = append(b.left, item)
		b.items[n.ID] = item
	}
	for _, n := range p.Right() {
		item := Item{ID: n.ID, Side: Right, Slot: len(b.right), Label: n.Text, pairID: n.PairID}
		b.right = append(b.right, item)
		b.items[n.ID] = item
	}
	return b
}

// Click applies one card click.
func (b *Board) Click(id string) (Outcome, error) {
	item, ok := b.items[id]
	if !ok {
		return Outcome{}, domain.ErrUnknownItem
	}
	if b.isConnected(id) {
		return Outcome{Result: Ignored}, nil
	}
	if b.selected == "" {
		b.selected = id
		return Outcome{Result: Selected}, nil
	}

	current := b.items[b.selected]
	if current.Side == item.Side {
		b.selected = id
		return Outcome{Result: Reselected}, nil
	}

	left, right := current, item
	if item.Side == Left {
		left, right = item, current
	}
	b.selected = ""
	if left.pairID != right.ID {
		return Outcome{Result: Mismatched}, nil
	}

	b.connections = append(b.connections, Connection{From: left.ID, To: right.ID})
	out := Outcome{Result: Connected}
	if !b.completed && len(b.connections) == len(b.left) {
		b.completed = true
		out.Complete = true
	}
	return out, nil
}

func (b *Board) isConnected(id string) bool {
	for _, c := range b.connections {
		if c.From == id || c.To == id {
			return true
		}
	}
	return false
}

// Selected returns the selected card id, or "" when idle.
func (b *Board) Selected() string { return b.selected }

// Connections returns a copy of the confirmed pairs.
func (b *Board) Connections() []Connection {
	return append([]Connection(nil), b.connections...)
}

// Complete reports whether every left card is connected.
func (b *Board) Complete() bool { return b.completed }

// Snapshot is the serializable board view.
type Snapshot struct {
	Left        []Item       `json:"left"`
	Right       []Item       `json:"right"`
	Selected    string       `json:"selected,omitempty"`
	Connections []Connection `json:"connections"`
	Lines       []Line       `json:"lines"`
	Complete    bool         `json:"complete"`
}

// Snapshot captures the board for rendering with layout l.
func (b *Board) Snapshot(l Layout) Snapshot {
	return Snapshot{
		Left:        append([]Item(nil), b.left...),
		Right:       append([]Item(nil), b.right...),
		Selected:    b.selected,
		Connections: b.Connections(),
		Lines:       b.Lines(l),
		Complete:    b.completed,
	}
}
