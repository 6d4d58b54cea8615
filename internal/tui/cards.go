package tui

import (
	"fmt"
	"strings"

	"shopfront-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type cardState int

const (
	cardNormal cardState = iota
	cardSelected
	cardDragging
)

// cardHeight is the number of terminal lines one product occupies: a
// bordered card, or a compact row when the terminal is short.
func cardHeight(bordered bool) int {
	if bordered {
		return 3
	}
	return 1
}

func renderProductCard(p model.Product, width int, bordered bool, state cardState) string {
	if width < 12 {
		width = 12
	}
	price := lipgloss.NewStyle().Foreground(colorPrice).Render(fmtPrice(p.Price))
	priceW := lipgloss.Width(price)

	marker := "  "
	switch state {
	case cardSelected:
		marker = "› "
	case cardDragging:
		marker = "≡ "
	}

	if !bordered {
		titleW := width - priceW - lipgloss.Width(marker) - 1
		line := marker + padOrCut(truncateToWidth(p.Title, titleW), titleW) + " " + price
		st := lipgloss.NewStyle()
		switch state {
		case cardSelected:
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		case cardDragging:
			st = st.Foreground(colorDragBorder).Bold(true)
		}
		return st.Render(padOrCut(line, width))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1)
	titleSt := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	switch state {
	case cardSelected:
		card = card.BorderForeground(colorSelectedBorder)
		titleSt = titleSt.Bold(true)
	case cardDragging:
		card = card.BorderForeground(colorDragBorder).BorderStyle(lipgloss.ThickBorder())
		titleSt = titleSt.Bold(true)
	}
	innerW := width - card.GetHorizontalFrameSize()
	if innerW < 4 {
		innerW = 4
	}
	titleW := innerW - priceW - lipgloss.Width(marker) - 1
	line := marker + titleSt.Render(padOrCut(truncateToWidth(p.Title, titleW), titleW)) + " " + price
	return card.Width(innerW + card.GetHorizontalPadding()).Render(padOrCut(line, innerW))
}

func fmtPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// renderProductDetail is the right-hand pane for the product under the cursor.
func renderProductDetail(p model.Product, width int, theme string) string {
	lines := []string{
		styleTitle().Render(truncateToWidth(p.Title, width)),
		lipgloss.NewStyle().Foreground(colorPrice).Bold(true).Render(fmtPrice(p.Price)),
	}
	meta := []string{fmt.Sprintf("#%d", p.ID)}
	if c := strings.TrimSpace(p.Category); c != "" {
		meta = append(meta, c)
	}
	if p.Rating != nil {
		meta = append(meta, fmt.Sprintf("★ %.1f (%d)", p.Rating.Rate, p.Rating.Count))
	}
	lines = append(lines, styleMuted().Render(strings.Join(meta, " • ")))
	if img := strings.TrimSpace(p.Image); img != "" {
		lines = append(lines, styleMuted().Render("image "+truncateToWidth(img, width-6)))
	}
	if desc := renderMarkdown(p.Description, width, theme); desc != "" {
		lines = append(lines, "", desc)
	}
	return strings.Join(lines, "\n")
}
