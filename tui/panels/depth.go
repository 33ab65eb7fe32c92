package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lobsim/internal/book"
	"lobsim/tui/styles"
)

// priceLevel is one aggregated rung of the ladder.
type priceLevel struct {
	price  book.PriceTicks
	size   book.Size
	orders int
}

// DepthPanel renders the aggregated book ladder, bids and asks side by side.
type DepthPanel struct {
	bids      []priceLevel
	asks      []priceLevel
	lastPrice book.PriceTicks
	prevLast  book.PriceTicks
	width     int
	height    int
	maxLevels int
}

// NewDepthPanel creates a new depth panel.
func NewDepthPanel() *DepthPanel {
	return &DepthPanel{maxLevels: 12}
}

// SetSize sets the panel dimensions.
func (p *DepthPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// SetSnapshot replaces the panel contents from a book snapshot. Orders
// arrive best-first, so same-price runs are adjacent.
func (p *DepthPanel) SetSnapshot(snap book.Snapshot) {
	p.bids = aggregate(snap.Bids)
	p.asks = aggregate(snap.Asks)
	if snap.LastPrice != p.lastPrice {
		p.prevLast = p.lastPrice
		p.lastPrice = snap.LastPrice
	}
}

func aggregate(orders []book.Order) []priceLevel {
	var out []priceLevel
	for _, o := range orders {
		if n := len(out); n > 0 && out[n-1].price == o.Price {
			out[n-1].size += o.Size
			out[n-1].orders++
			continue
		}
		out = append(out, priceLevel{price: o.Price, size: o.Size, orders: 1})
	}
	return out
}

// View renders the panel.
func (p *DepthPanel) View() string {
	var content strings.Builder

	availableHeight := p.height - 5
	levelsToShow := availableHeight
	if levelsToShow > p.maxLevels {
		levelsToShow = p.maxLevels
	}
	if levelsToShow < 3 {
		levelsToShow = 3
	}

	header := fmt.Sprintf("%4s %6s %7s │ %-7s %-6s %-4s", "Ords", "BidSz", "Bid", "Ask", "AskSz", "Ords")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	bids := p.bids
	if len(bids) > levelsToShow {
		bids = bids[:levelsToShow]
	}
	asks := p.asks
	if len(asks) > levelsToShow {
		asks = asks[:levelsToShow]
	}

	maxRows := len(bids)
	if len(asks) > maxRows {
		maxRows = len(asks)
	}

	for i := 0; i < maxRows; i++ {
		bidPart := fmt.Sprintf("%4s %6s %7s", "", "", "")
		askPart := fmt.Sprintf("%-7s %-6s %-4s", "", "", "")
		if i < len(bids) {
			bidPart = fmt.Sprintf("%4d %6d %7d", bids[i].orders, bids[i].size, bids[i].price)
		}
		if i < len(asks) {
			askPart = fmt.Sprintf("%-7d %-6d %-4d", asks[i].price, asks[i].size, asks[i].orders)
		}
		content.WriteString(styles.BuyStyle.Render(bidPart))
		content.WriteString(" │ ")
		content.WriteString(styles.SellStyle.Render(askPart))
		content.WriteString("\n")
	}

	content.WriteString(p.renderMidLine())

	title := styles.RenderTitle("Order Book")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func (p *DepthPanel) renderMidLine() string {
	var parts []string
	if len(p.bids) > 0 && len(p.asks) > 0 {
		spread := p.asks[0].price - p.bids[0].price
		mid := float64(p.bids[0].price+p.asks[0].price) / 2
		parts = append(parts, styles.MidStyle.Render(fmt.Sprintf("mid %.1f", mid)))
		parts = append(parts, styles.SizeStyle.Render(fmt.Sprintf("spread %d", spread)))
	}
	if p.lastPrice > 0 {
		style := styles.PriceStyle
		if p.lastPrice > p.prevLast && p.prevLast > 0 {
			style = styles.PriceUpStyle
		} else if p.lastPrice < p.prevLast {
			style = styles.PriceDownStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("last %d", p.lastPrice)))
	}
	if len(parts) == 0 {
		return styles.SizeStyle.Render("empty book")
	}
	return strings.Join(parts, "  ")
}
