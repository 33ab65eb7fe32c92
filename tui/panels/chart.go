package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lobsim/internal/book"
	"lobsim/tui/styles"
)

// Candle is one OHLC bucket of trades.
type Candle struct {
	Open   book.PriceTicks
	High   book.PriceTicks
	Low    book.PriceTicks
	Close  book.PriceTicks
	Volume book.Size
	Time   int64
}

// ChartPanel renders a candlestick chart of the trade stream. Candles bucket
// by simulation time, not wall time, so pausing freezes the chart.
type ChartPanel struct {
	candles []Candle
	current *Candle

	candleStart  int64
	candlePeriod int64

	width  int
	height int

	maxCandles int
}

// NewChartPanel creates a chart panel bucketing trades into candles of the
// given simulation-time period.
func NewChartPanel(period int64) *ChartPanel {
	if period <= 0 {
		period = 2e9
	}
	return &ChartPanel{
		candlePeriod: period,
		maxCandles:   60,
	}
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// AddTrades folds newly observed trades into the candle series. Trades must
// arrive in time order.
func (p *ChartPanel) AddTrades(trades []book.Trade) {
	for _, tr := range trades {
		p.addTrade(tr)
	}
}

func (p *ChartPanel) addTrade(tr book.Trade) {
	bucket := tr.Time - tr.Time%p.candlePeriod

	if p.current == nil || bucket != p.candleStart {
		if p.current != nil {
			p.candles = append(p.candles, *p.current)
			if len(p.candles) > p.maxCandles {
				p.candles = p.candles[len(p.candles)-p.maxCandles:]
			}
		}
		p.candleStart = bucket
		p.current = &Candle{
			Open:  tr.Price,
			High:  tr.Price,
			Low:   tr.Price,
			Close: tr.Price,
			Time:  bucket,
		}
	}

	c := p.current
	if tr.Price > c.High {
		c.High = tr.Price
	}
	if tr.Price < c.Low {
		c.Low = tr.Price
	}
	c.Close = tr.Price
	c.Volume += tr.Size
}

func (p *ChartPanel) allCandles() []Candle {
	if p.current == nil {
		return p.candles
	}
	return append(p.candles, *p.current)
}

// View renders the panel.
func (p *ChartPanel) View() string {
	var content strings.Builder

	candles := p.allCandles()
	if len(candles) == 0 {
		content.WriteString(styles.SizeStyle.Render("no trading data yet"))
	} else {
		content.WriteString(p.renderChart(p.width-4, p.height-5, candles))
	}

	title := styles.RenderTitle("Price")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func (p *ChartPanel) renderChart(width, height int, candles []Candle) string {
	// 8 chars of price axis plus separator
	chartWidth := width - 9
	if chartWidth < 10 {
		chartWidth = 10
	}

	// one column plus a space per candle
	candlesToShow := chartWidth / 2
	if candlesToShow < 1 {
		candlesToShow = 1
	}
	if candlesToShow > len(candles) {
		candlesToShow = len(candles)
	}
	display := candles[len(candles)-candlesToShow:]

	minPrice := display[0].Low
	maxPrice := display[0].High
	for _, c := range display {
		if c.Low < minPrice {
			minPrice = c.Low
		}
		if c.High > maxPrice {
			maxPrice = c.High
		}
	}

	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = 2
	}
	padding := book.PriceTicks(float64(priceRange) * 0.1)
	if padding < 1 {
		padding = 1
	}
	minPrice -= padding
	maxPrice += padding
	if minPrice < 0 {
		minPrice = 0
	}

	if height < 5 {
		height = 5
	}

	var result strings.Builder
	for row := 0; row < height; row++ {
		price := p.rowToPrice(row, minPrice, maxPrice, height)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%7d │", price)))

		for _, candle := range display {
			char := p.candleChar(candle, row, minPrice, maxPrice, height)
			style := styles.CandleUpStyle
			if candle.Close < candle.Open {
				style = styles.CandleDownStyle
			}
			result.WriteString(style.Render(string(char)))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("────────┴"))
	for range display {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}

	return result.String()
}

// rowToPrice maps a chart row (0 = top) to its price level.
func (p *ChartPanel) rowToPrice(row int, minPrice, maxPrice book.PriceTicks, height int) book.PriceTicks {
	if height <= 1 {
		return maxPrice
	}
	span := float64(maxPrice - minPrice)
	frac := float64(height-1-row) / float64(height-1)
	return minPrice + book.PriceTicks(span*frac+0.5)
}

func (p *ChartPanel) candleChar(candle Candle, row int, minPrice, maxPrice book.PriceTicks, height int) rune {
	rowPrice := p.rowToPrice(row, minPrice, maxPrice, height)

	bodyTop := candle.Open
	bodyBottom := candle.Close
	if candle.Close > candle.Open {
		bodyTop = candle.Close
		bodyBottom = candle.Open
	}

	tolerance := (maxPrice - minPrice) / book.PriceTicks(height*2)
	if tolerance < 1 {
		tolerance = 1
	}

	if rowPrice <= bodyTop+tolerance && rowPrice >= bodyBottom-tolerance {
		return '┃'
	}
	if rowPrice <= candle.High+tolerance && rowPrice > bodyTop {
		return '│'
	}
	if rowPrice >= candle.Low-tolerance && rowPrice < bodyBottom {
		return '│'
	}
	return ' '
}
