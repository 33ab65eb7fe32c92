package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lobsim/internal/agent"
	"lobsim/internal/book"
	"lobsim/tui/styles"
)

// AgentRow is one agent's state as rendered by the panel.
type AgentRow struct {
	Name      string
	Color     string
	Active    bool
	Inventory int64
	Cash      string
	PnL       string
	PnLSign   int
}

// AgentsPanel renders the per-agent position and P&L table.
type AgentsPanel struct {
	rows   []AgentRow
	width  int
	height int
}

// NewAgentsPanel creates an agents panel.
func NewAgentsPanel() *AgentsPanel {
	return &AgentsPanel{}
}

// SetSize sets the panel dimensions.
func (p *AgentsPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// SetAgents rebuilds the table from the live agents, valuing open positions
// at the current price.
func (p *AgentsPanel) SetAgents(agents []agent.Agent, active func(book.OwnerID) bool, current book.PriceTicks) {
	p.rows = p.rows[:0]
	for _, a := range agents {
		pnl := a.UnrealizedPnL(current)
		p.rows = append(p.rows, AgentRow{
			Name:      a.Name(),
			Color:     a.Color(),
			Active:    active(a.ID()),
			Inventory: a.Inventory(),
			Cash:      a.Cash().StringFixed(2),
			PnL:       pnl.StringFixed(2),
			PnLSign:   pnl.Sign(),
		})
	}
}

// View renders the panel.
func (p *AgentsPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-16s %5s %10s %10s", "Agent", "Pos", "Cash", "PnL")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, r := range p.rows {
		nameStyle := styles.AgentStyle(r.Color)
		if !r.Active {
			nameStyle = styles.InactiveStyle
		}
		pnlStyle := styles.PriceStyle
		switch {
		case r.PnLSign > 0:
			pnlStyle = styles.PriceUpStyle
		case r.PnLSign < 0:
			pnlStyle = styles.PriceDownStyle
		}

		content.WriteString(nameStyle.Render(fmt.Sprintf("%d %-14s", i+1, r.Name)))
		content.WriteString(styles.RowStyle.Render(fmt.Sprintf(" %5d %10s ", r.Inventory, r.Cash)))
		content.WriteString(pnlStyle.Render(fmt.Sprintf("%10s", r.PnL)))
		content.WriteString("\n")
	}
	if len(p.rows) == 0 {
		content.WriteString(styles.SizeStyle.Render("no agents configured"))
	}

	title := styles.RenderTitle("Agents")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(body)
}
