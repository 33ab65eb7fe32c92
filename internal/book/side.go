package book

import "sort"

// internal resting order node (never exposed)
type restingOrder struct {
	id    string
	owner OwnerID
	side  Side
	price PriceTicks
	size  Size
	time  int64
	seq   uint64 // arrival sequence, final tie-break

	level *level
	prev  *restingOrder
	next  *restingOrder
}

func (o *restingOrder) isFilled() bool { return o.size <= 0 }

// arrivedBefore reports whether o reached the engine before other.
// Timestamps are monotonic; seq settles the (theoretical) tie.
func (o *restingOrder) arrivedBefore(other *restingOrder) bool {
	if o.time != other.time {
		return o.time < other.time
	}
	return o.seq < other.seq
}

// level is a FIFO queue of resting orders at one price.
type level struct {
	price       PriceTicks
	head, tail  *restingOrder
	totalVolume Size
}

func (l *level) append(o *restingOrder) {
	o.level = l
	o.prev = l.tail
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
}

func (l *level) popHead() *restingOrder {
	o := l.head
	if o == nil {
		return nil
	}
	n := o.next
	l.head = n
	if n != nil {
		n.prev = nil
	} else {
		l.tail = nil
	}
	o.prev, o.next, o.level = nil, nil, nil
	return o
}

func (l *level) unlink(o *restingOrder) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.prev, o.next, o.level = nil, nil, nil
}

// bookSide keeps its price levels in a slice sorted best-first
// (descending for bids, ascending for asks). The sorted ladder makes
// best-quote lookup O(1) and depth truncation a simple ordered walk.
type bookSide struct {
	isBid   bool
	levels  []*level // best first
	byPrice map[PriceTicks]*level
}

func newBookSide(isBid bool) *bookSide {
	return &bookSide{
		isBid:   isBid,
		byPrice: map[PriceTicks]*level{},
	}
}

// better reports whether price a outranks price b on this side.
func (bs *bookSide) better(a, b PriceTicks) bool {
	if bs.isBid {
		return a > b
	}
	return a < b
}

func (bs *bookSide) best() *level {
	if len(bs.levels) == 0 {
		return nil
	}
	return bs.levels[0]
}

func (bs *bookSide) bestOrder() *restingOrder {
	l := bs.best()
	if l == nil {
		return nil
	}
	return l.head
}

func (bs *bookSide) getOrCreate(price PriceTicks) *level {
	if l, ok := bs.byPrice[price]; ok {
		return l
	}
	l := &level{price: price}
	bs.byPrice[price] = l
	i := sort.Search(len(bs.levels), func(i int) bool {
		return !bs.better(bs.levels[i].price, price)
	})
	bs.levels = append(bs.levels, nil)
	copy(bs.levels[i+1:], bs.levels[i:])
	bs.levels[i] = l
	return l
}

func (bs *bookSide) removeLevel(l *level) {
	delete(bs.byPrice, l.price)
	for i, cur := range bs.levels {
		if cur == l {
			bs.levels = append(bs.levels[:i], bs.levels[i+1:]...)
			return
		}
	}
}

// removeOrder unlinks a resting order and drops its level if emptied.
func (bs *bookSide) removeOrder(o *restingOrder) {
	l := o.level
	if l == nil {
		return
	}
	l.totalVolume -= o.size
	l.unlink(o)
	if l.head == nil {
		bs.removeLevel(l)
	}
}
