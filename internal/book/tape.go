package book

// TradeTape is a ring buffer of recent trades (bounded memory). The engine's
// own log is append-only and unbounded; consumers that only render the recent
// past (the TUI tape panel) feed one of these from snapshots instead.
type TradeTape struct {
	buf   []Trade
	size  int
	start int
	count int
}

// NewTradeTape creates a TradeTape with the given capacity.
func NewTradeTape(capacity int) *TradeTape {
	if capacity <= 0 {
		capacity = 1
	}
	return &TradeTape{
		buf:  make([]Trade, capacity),
		size: capacity,
	}
}

// Append adds a trade, overwriting the oldest entry when full.
func (t *TradeTape) Append(tr Trade) {
	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = tr
		t.count++
		return
	}
	t.buf[t.start] = tr
	t.start = (t.start + 1) % t.size
}

// Last returns the last n trades in chronological order.
func (t *TradeTape) Last(n int) []Trade {
	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}
	out := make([]Trade, n)
	first := (t.start + (t.count - n)) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(first+i)%t.size]
	}
	return out
}

// Count returns the number of trades held.
func (t *TradeTape) Count() int { return t.count }
