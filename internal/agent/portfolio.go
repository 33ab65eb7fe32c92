package agent

import (
	"github.com/shopspring/decimal"

	"lobsim/internal/book"
)

// Portfolio tracks one agent's net position and cash. Only trades where the
// agent is the buyer or seller move it, and each trade is applied exactly
// once: the cursor marks how much of the engine's append-only trade log has
// been seen, so reconciliation only ever walks the unseen suffix.
type Portfolio struct {
	owner       book.OwnerID
	inventory   int64
	cash        decimal.Decimal
	initialCash decimal.Decimal
	tickValue   decimal.Decimal
	cursor      int
}

// NewPortfolio creates a flat portfolio. tickValue converts price ticks to
// cash units (e.g. 0.01 for one-cent ticks).
func NewPortfolio(owner book.OwnerID, initialCash, tickValue decimal.Decimal) Portfolio {
	return Portfolio{
		owner:       owner,
		cash:        initialCash,
		initialCash: initialCash,
		tickValue:   tickValue,
	}
}

// ID returns the owner id orders are stamped with.
func (p *Portfolio) ID() book.OwnerID { return p.owner }

// Inventory returns the signed net position.
func (p *Portfolio) Inventory() int64 { return p.inventory }

// Cash returns the current cash balance.
func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

// Reconcile applies the unseen suffix of the trade log.
func (p *Portfolio) Reconcile(h BookHandle) {
	trades := h.TradesSince(p.cursor)
	p.cursor += len(trades)
	for _, t := range trades {
		notional := p.notional(t.Price, t.Size)
		if t.Buyer == p.owner {
			p.inventory += int64(t.Size)
			p.cash = p.cash.Sub(notional)
		}
		if t.Seller == p.owner {
			p.inventory -= int64(t.Size)
			p.cash = p.cash.Add(notional)
		}
	}
}

// UnrealizedPnL is cash + inventory valued at current, minus starting cash.
func (p *Portfolio) UnrealizedPnL(current book.PriceTicks) decimal.Decimal {
	position := p.notional(current, book.Size(1)).Mul(decimal.NewFromInt(p.inventory))
	return p.cash.Add(position).Sub(p.initialCash)
}

// Reset flattens the portfolio to its starting state. The trade-log cursor
// is kept, so fills from before the reset stay forgotten.
func (p *Portfolio) Reset() {
	p.inventory = 0
	p.cash = p.initialCash
}

func (p *Portfolio) notional(price book.PriceTicks, size book.Size) decimal.Decimal {
	return decimal.NewFromInt(int64(price)).
		Mul(decimal.NewFromInt(int64(size))).
		Mul(p.tickValue)
}
