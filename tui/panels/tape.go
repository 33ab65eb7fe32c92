package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lobsim/internal/book"
	"lobsim/tui/styles"
)

// TapePanel renders the stream of recent trades, newest at the top.
type TapePanel struct {
	tape   *book.TradeTape
	width  int
	height int
}

// NewTapePanel creates a tape panel holding up to capacity trades.
func NewTapePanel(capacity int) *TapePanel {
	return &TapePanel{tape: book.NewTradeTape(capacity)}
}

// SetSize sets the panel dimensions.
func (p *TapePanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// AddTrades appends newly observed trades to the tape.
func (p *TapePanel) AddTrades(trades []book.Trade) {
	for _, tr := range trades {
		p.tape.Append(tr)
	}
}

// View renders the panel.
func (p *TapePanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%7s %6s  %-10s %-10s", "Price", "Size", "Buyer", "Seller")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	rows := p.height - 5
	if rows < 1 {
		rows = 1
	}
	// fetch one extra trade so the oldest shown row still has a reference
	// price for up/down coloring
	trades := p.tape.Last(rows + 1)
	stop := 0
	if len(trades) > rows {
		stop = 1
	}
	for i := len(trades) - 1; i >= stop; i-- {
		tr := trades[i]
		style := styles.PriceStyle
		if i > 0 {
			if tr.Price > trades[i-1].Price {
				style = styles.PriceUpStyle
			} else if tr.Price < trades[i-1].Price {
				style = styles.PriceDownStyle
			}
		}
		line := fmt.Sprintf("%7d %6d  %-10s %-10s", tr.Price, tr.Size, truncOwner(tr.Buyer), truncOwner(tr.Seller))
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}
	if p.tape.Count() == 0 {
		content.WriteString(styles.SizeStyle.Render("no trades yet"))
	}

	title := styles.RenderTitle("Trades")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func truncOwner(o book.OwnerID) string {
	s := string(o)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
