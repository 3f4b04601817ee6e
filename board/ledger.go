package board

// Outcome reports what a ledger operation did. Callers must branch on it;
// a silent drop on NotFound/Empty is a policy decision made by the caller,
// never by the ledger.
type Outcome int

const (
	Applied Outcome = iota
	NotFound
	Empty
)

// Ledger is a room's drawing state machine: live (uncommitted) strokes,
// an append-only committed history, and a redo stack. It knows nothing of
// users or transport and is safe to drive from any single goroutine.
type Ledger struct {
	live    map[string]*Stroke
	history []*Stroke
	redo    []*Stroke
}

func NewLedger() *Ledger {
	return &Ledger{live: make(map[string]*Stroke)}
}

// StartStroke inserts a live stroke keyed by its id. A reused id overwrites
// the existing live entry, last writer wins.
func (l *Ledger) StartStroke(s Stroke) *Stroke {
	s.Committed = false
	stroke := &s
	l.live[s.ID] = stroke
	return stroke
}

// AppendPoints extends a live stroke in caller order. The ledger never
// reorders or deduplicates points.
func (l *Ledger) AppendPoints(strokeID string, points []Point) (*Stroke, Outcome) {
	stroke, ok := l.live[strokeID]
	if !ok {
		return nil, NotFound
	}
	stroke.Points = append(stroke.Points, points...)
	return stroke, Applied
}

// FinalizeStroke commits a live stroke: appends any trailing points, moves
// it to the history tail and clears the redo stack.
func (l *Ledger) FinalizeStroke(strokeID string, points []Point) (*Stroke, Outcome) {
	stroke, ok := l.live[strokeID]
	if !ok {
		return nil, NotFound
	}
	stroke.Points = append(stroke.Points, points...)
	stroke.Committed = true
	l.history = append(l.history, stroke)
	delete(l.live, strokeID)
	l.redo = nil
	return stroke, Applied
}

// Undo removes the most recently committed stroke room-wide, regardless of
// author, and parks it on the redo stack.
func (l *Ledger) Undo() (*Stroke, Outcome) {
	if len(l.history) == 0 {
		return nil, Empty
	}
	removed := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]
	l.redo = append(l.redo, removed)
	return removed, Applied
}

// Redo restores the most recently undone stroke to the history tail.
func (l *Ledger) Redo() (*Stroke, Outcome) {
	if len(l.redo) == 0 {
		return nil, Empty
	}
	restored := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.history = append(l.history, restored)
	return restored, Applied
}

// Snapshot returns deep copies of the committed history in commit order.
func (l *Ledger) Snapshot() []Stroke {
	strokes := make([]Stroke, 0, len(l.history))
	for _, s := range l.history {
		copied := *s
		copied.Points = append([]Point(nil), s.Points...)
		strokes = append(strokes, copied)
	}
	return strokes
}
