// Package tui is the interactive terminal front-end of the simulation. The
// model owns the driver and advances it from render ticks, so simulation
// time only moves while the UI is alive.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lobsim/internal/noise"
	"lobsim/internal/sim"
	"lobsim/tui/panels"
	"lobsim/tui/styles"
)

// frameRate is how often the UI ticks the driver and redraws.
const frameRate = time.Second / 30

type keyMap struct {
	Pause   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Regime  key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Agent1  key.Binding
	Agent2  key.Binding
	Agent3  key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		Regime:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regime")),
		VolUp:   key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "vol+")),
		VolDown: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "vol-")),
		Agent1:  key.NewBinding(key.WithKeys("1")),
		Agent2:  key.NewBinding(key.WithKeys("2")),
		Agent3:  key.NewBinding(key.WithKeys("3")),
		Reset:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset pnl")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the main TUI application model.
type Model struct {
	driver *sim.Driver
	keys   keyMap

	depthPanel  *panels.DepthPanel
	tapePanel   *panels.TapePanel
	chartPanel  *panels.ChartPanel
	agentsPanel *panels.AgentsPanel

	// tradeCursor marks how much of the trade log the tape has consumed.
	tradeCursor int

	lastFrame time.Time
	width     int
	height    int
	ready     bool
}

// NewModel creates the TUI model around a driver.
func NewModel(driver *sim.Driver) *Model {
	return &Model{
		driver:      driver,
		keys:        defaultKeyMap(),
		depthPanel:  panels.NewDepthPanel(),
		tapePanel:   panels.NewTapePanel(256),
		chartPanel:  panels.NewChartPanel(0),
		agentsPanel: panels.NewAgentsPanel(),
	}
}

// frameMsg carries the wall-clock time of a render tick.
type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	return frameTick()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case frameMsg:
		now := time.Time(msg)
		elapsed := now.Sub(m.lastFrame)
		m.lastFrame = now
		m.advance(elapsed)
		return m, frameTick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Pause):
		m.driver.TogglePause()
	case key.Matches(msg, k.Faster):
		m.driver.SetSpeed(m.driver.Speed() * 2)
	case key.Matches(msg, k.Slower):
		m.driver.SetSpeed(m.driver.Speed() / 2)
	case key.Matches(msg, k.Regime):
		m.driver.SetRegime(nextRegime(m.driver.Regime()))
	case key.Matches(msg, k.VolUp):
		m.driver.SetVolatility(m.driver.Volatility() + 0.25)
	case key.Matches(msg, k.VolDown):
		m.driver.SetVolatility(m.driver.Volatility() - 0.25)
	case key.Matches(msg, k.Agent1):
		m.toggleAgent(0)
	case key.Matches(msg, k.Agent2):
		m.toggleAgent(1)
	case key.Matches(msg, k.Agent3):
		m.toggleAgent(2)
	case key.Matches(msg, k.Reset):
		m.driver.ResetPortfolios()
	}
	return m, nil
}

func nextRegime(r noise.Regime) noise.Regime {
	for i, cur := range noise.Regimes {
		if cur == r {
			return noise.Regimes[(i+1)%len(noise.Regimes)]
		}
	}
	return noise.RegimeStable
}

func (m *Model) toggleAgent(idx int) {
	agents := m.driver.Agents()
	if idx < 0 || idx >= len(agents) {
		return
	}
	id := agents[idx].ID()
	m.driver.SetAgentActive(id, !m.driver.AgentActive(id))
}

// advance runs the simulation for the elapsed wall time and refreshes every
// panel from the resulting snapshot.
func (m *Model) advance(elapsed time.Duration) {
	snap := m.driver.Tick(elapsed)

	m.depthPanel.SetSnapshot(snap)
	if m.tradeCursor < len(snap.Trades) {
		fresh := snap.Trades[m.tradeCursor:]
		m.tapePanel.AddTrades(fresh)
		m.chartPanel.AddTrades(fresh)
		m.tradeCursor = len(snap.Trades)
	}
	m.agentsPanel.SetAgents(m.driver.Agents(), m.driver.AgentActive, snap.LastPrice)
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Layout:
	// ┌──────────────┬───────────┬───────────┐
	// │  Order Book  │   Price   │  Trades   │
	// ├──────────────┴───────────┴───────────┤
	// │                Agents                │
	// └──────────────────────────────────────┘
	leftWidth := m.width * 2 / 5
	midWidth := m.width * 7 / 20
	rightWidth := m.width - leftWidth - midWidth

	topHeight := (m.height - 2) * 2 / 3
	bottomHeight := m.height - topHeight - 2

	m.depthPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(midWidth, topHeight)
	m.tapePanel.SetSize(rightWidth, topHeight)
	m.agentsPanel.SetSize(m.width, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.depthPanel.View(),
		m.chartPanel.View(),
		m.tapePanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		topRow,
		m.agentsPanel.View(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderStatusBar() string {
	state := m.driver.State().String()
	stateStr := styles.StatusBarDescStyle.Render(state)
	if m.driver.State() == sim.StatePaused {
		stateStr = styles.PausedStyle.Render(state)
	}

	status := lipgloss.JoinHorizontal(lipgloss.Center,
		stateStr,
		" │ ",
		regimeStyle(m.driver.Regime()).Render(m.driver.Regime().String()),
		" │ ",
		styles.StatusBarDescStyle.Render(fmt.Sprintf("fair %.1f", m.driver.FairPrice())),
		" │ ",
		styles.StatusBarDescStyle.Render(fmt.Sprintf("vol %.2f", m.driver.Volatility())),
		" │ ",
		styles.StatusBarDescStyle.Render(fmt.Sprintf("x%g", m.driver.Speed())),
	)

	help := []string{
		m.helpEntry(m.keys.Pause),
		m.helpEntry(m.keys.Faster),
		m.helpEntry(m.keys.Slower),
		m.helpEntry(m.keys.Regime),
		styles.StatusBarKeyStyle.Render("1-3") + styles.StatusBarDescStyle.Render(" agents"),
		m.helpEntry(m.keys.Reset),
		m.helpEntry(m.keys.Quit),
	}

	line := status + " │ " + joinHelp(help)
	return styles.StatusBarStyle.Width(m.width).Render(line)
}

func (m *Model) helpEntry(b key.Binding) string {
	h := b.Help()
	return styles.StatusBarKeyStyle.Render(h.Key) + styles.StatusBarDescStyle.Render(" "+h.Desc)
}

func joinHelp(entries []string) string {
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += " "
		}
		out += e
	}
	return out
}

func regimeStyle(r noise.Regime) lipgloss.Style {
	switch r {
	case noise.RegimeUptrend:
		return styles.RegimeUptrendStyle
	case noise.RegimeDowntrend:
		return styles.RegimeDowntrendStyle
	case noise.RegimeVolatile:
		return styles.RegimeVolatileStyle
	default:
		return styles.RegimeStableStyle
	}
}
