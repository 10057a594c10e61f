package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/state"
)

// renderCart renders the cart table, its total and the products whose last
// stock check failed.
func (m Model) renderCart(width int) string {
	styles := m.theme.Styles()

	lines := []string{styles.AccentText.Bold(true).Render("Cart")}
	if m.cart.Len() == 0 {
		lines = append(lines, styles.MutedText.Render("Cart is empty. Select a product and press enter."))
	} else {
		lines = append(lines, RenderCartTable(m.cart, m.theme))
		lines = append(lines, styles.SuccessText.Render(fmt.Sprintf("Total %s  (%d items)", m.cart.Total().StringFixed(2), m.cart.TotalQuantity())))
	}

	if failed := FailedLabels(m.cart, m.products); len(failed) > 0 {
		lines = append(lines, "", styles.DangerText.Render("Out of stock: ")+styles.Text.Render(strings.Join(failed, ", ")))
	}

	return m.pane(strings.Join(lines, "\n"), width)
}

// RenderCartTable renders line items in insertion order with product, price,
// quantity and subtotal columns.
func RenderCartTable(st cart.State, th Theme) string {
	styles := th.Styles()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(th.Border))).
		Headers("Product", "Price", "Qty", "Subtotal").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := styles.TableCell
			if row == table.HeaderRow {
				style = styles.TableHeader
			}
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	for _, item := range st.Items() {
		t.Row(
			item.Product.Title,
			item.Product.Price.StringFixed(2),
			strconv.Itoa(item.Quantity),
			item.Subtotal().StringFixed(2),
		)
	}
	return t.Render()
}

// FailedLabels names the products whose latest stock check failed, using
// catalog titles where known.
func FailedLabels(st cart.State, catalog state.CatalogSnapshot) []string {
	failed := st.FailedStockChecks()
	labels := make([]string, 0, len(failed))
	for _, id := range failed {
		if p, ok := catalog.Lookup(id); ok {
			labels = append(labels, p.Title)
			continue
		}
		if item, ok := st.Item(id); ok {
			labels = append(labels, item.Product.Title)
			continue
		}
		labels = append(labels, fmt.Sprintf("#%d", id))
	}
	return labels
}
