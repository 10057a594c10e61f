package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/basket/internal/cart"
)

const titleWidth = 28

// renderCatalog renders the product list with the selection cursor and a
// badge per product.
func (m Model) renderCatalog(width int) string {
	styles := m.theme.Styles()
	snap := m.products

	lines := []string{styles.AccentText.Bold(true).Render("Catalog")}
	if len(snap.Products) == 0 {
		if snap.LastError != nil {
			lines = append(lines, styles.DangerText.Render("Catalog unavailable: "+snap.LastError.Error()))
		} else {
			lines = append(lines, styles.MutedText.Render("Loading catalog..."))
		}
	}
	for i, p := range snap.Products {
		lines = append(lines, m.renderProductLine(i, p))
	}
	if snap.LastError != nil && len(snap.Products) > 0 {
		lines = append(lines, "", styles.WarningText.Render("Refresh failed: "+snap.LastError.Error()))
	}

	return m.pane(strings.Join(lines, "\n"), width)
}

func (m Model) renderProductLine(i int, p cart.Product) string {
	styles := m.theme.Styles()

	cursor := "  "
	if i == m.selected {
		cursor = "› "
	}
	text := fmt.Sprintf("%s%-*s %10s", cursor, titleWidth, truncate(p.Title, titleWidth), p.Price.StringFixed(2))

	line := styles.Text.Render(text)
	if i == m.selected {
		line = styles.Selected.Render(text)
	}

	if badge := m.productBadge(p.ID); badge != "" {
		label := badge
		if badge == statusInCart {
			label = fmt.Sprintf("in cart ×%d", m.cart.Quantity(p.ID))
		}
		line += " " + styles.StatusStyle(badge).Render(label)
	}
	return line
}

// productBadge picks the badge for id. A running check wins over the
// outcome of an earlier one.
func (m Model) productBadge(id cart.ProductID) string {
	switch {
	case m.checks != nil && m.checks.Pending(id):
		return statusChecking
	case m.cart.StockCheckFailed(id):
		return statusOutOfStock
	case m.cart.Quantity(id) > 0:
		return statusInCart
	default:
		return ""
	}
}

// pane wraps content in a rounded border sized to width.
func (m Model) pane(content string, width int) string {
	styles := m.theme.Styles()
	return styles.Border.
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Render(content)
}

// RenderCatalogTable renders products as an id, title and price table.
func RenderCatalogTable(products []cart.Product, th Theme) string {
	styles := th.Styles()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(th.Border))).
		Headers("ID", "Product", "Price").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := styles.TableCell
			if row == table.HeaderRow {
				style = styles.TableHeader
			}
			if col != 1 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	for _, p := range products {
		t.Row(fmt.Sprintf("%d", p.ID), p.Title, p.Price.StringFixed(2))
	}
	return t.Render()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
