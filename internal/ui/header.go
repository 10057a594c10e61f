package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the logo, cart summary and API status on one line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("basket", styles.Logo),
		bg.Render(fmt.Sprintf("%d items", m.cart.TotalQuantity()), styles.Text),
		bg.Render("total "+m.cart.Total().StringFixed(2), styles.AccentText),
	}
	if m.checks != nil {
		if n := m.checks.InFlight(); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d checking", n), styles.InfoText))
		}
	}

	status := m.apiStatus()
	parts = append(parts, styles.StatusStyle(status).Render(status))
	if m.config != nil {
		parts = append(parts, bg.Render(m.config.APIBind, styles.FaintText))
	}

	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// apiStatus summarizes catalog reachability.
func (m Model) apiStatus() string {
	switch {
	case m.products.IsOffline():
		return statusOffline
	case m.products.HasProducts:
		return statusOnline
	default:
		return statusConnecting
	}
}

// renderCommandBar renders the short key help and the latest notice.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key, styles.WarningText)+bg.Render(" "+strings.ToLower(h.Desc), styles.MutedText))
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.InfoText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}
