package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/prefs"
	"github.com/five82/basket/internal/state"
)

type fakeChecks map[cart.ProductID]bool

func (f fakeChecks) Pending(id cart.ProductID) bool { return f[id] }

func (f fakeChecks) InFlight() int {
	n := 0
	for _, pending := range f {
		if pending {
			n++
		}
	}
	return n
}

var (
	shirt = cart.Product{ID: 1, Title: "Shirt", Price: decimal.RequireFromString("179.90")}
	shoes = cart.Product{ID: 2, Title: "Shoes", Price: decimal.RequireFromString("42.50")}
)

type harness struct {
	store   *state.Store
	catalog *state.Catalog
	actions []cart.Action
	model   Model
}

func newHarness(t *testing.T, checks CheckTracker) *harness {
	t.Helper()

	h := &harness{catalog: &state.Catalog{}}
	h.store = state.New(state.WithEffects(state.EffectFunc(func(a cart.Action, _ cart.State, _ state.Dispatcher) {
		h.actions = append(h.actions, a)
	})))
	h.catalog.Update([]cart.Product{shirt, shoes}, nil)

	h.model = New(Options{
		Store:     h.store,
		Catalog:   h.catalog,
		Checks:    checks,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	t.Cleanup(h.model.unsubscribe)

	h.send(t, tea.WindowSizeMsg{Width: 160, Height: 40})
	h.send(t, tickMsg(time.Now()))
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	h.model = m
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_EnterDispatchesRequestForSelectedProduct(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	h.send(t, keyRunes("j"))
	cmd := h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, h.actions, "dispatch happens on the command goroutine")

	assert.Nil(t, cmd())
	require.Len(t, h.actions, 1)
	assert.Equal(t, cart.AddToCartRequested{Product: shoes}, h.actions[0])
	assert.Contains(t, h.model.View(), "Checking stock for Shoes")
}

func TestModel_SelectionStaysInBounds(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	h.send(t, keyRunes("k"))
	assert.Equal(t, 0, h.model.selected)

	h.send(t, keyRunes("G"))
	assert.Equal(t, 1, h.model.selected)
	h.send(t, keyRunes("j"))
	assert.Equal(t, 1, h.model.selected)

	h.send(t, keyRunes("g"))
	assert.Equal(t, 0, h.model.selected)
}

func TestModel_EnterWithEmptyCatalogDoesNothing(t *testing.T) {
	store := state.New()
	m := New(Options{Store: store, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	t.Cleanup(m.unsubscribe)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, next.View(), "Loading catalog...")
}

func TestModel_CartMsgRendersCartAndBadges(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	st := cart.NewState()
	st = cart.Reduce(st, cart.AddToCartSucceeded{Product: shirt})
	st = cart.Reduce(st, cart.AddToCartSucceeded{Product: shirt})
	st = cart.Reduce(st, cart.AddToCartFailed{ProductID: shoes.ID})

	cmd := h.send(t, cartMsg{state: st})
	assert.NotNil(t, cmd, "cartMsg re-arms the store watcher")

	view := h.model.View()
	assert.Contains(t, view, "in cart ×2")
	assert.Contains(t, view, "out of stock")
	assert.Contains(t, view, "Out of stock:")
	assert.Contains(t, view, "359.80")
	assert.Contains(t, view, "Total 359.80")
}

func TestModel_PendingCheckShowsChecking(t *testing.T) {
	h := newHarness(t, fakeChecks{shirt.ID: true})

	h.send(t, cartMsg{state: cart.Reduce(cart.NewState(), cart.AddToCartFailed{ProductID: shirt.ID})})

	view := h.model.View()
	assert.Contains(t, view, "checking")
	assert.Contains(t, view, "1 checking")
	assert.Equal(t, statusChecking, h.model.productBadge(shirt.ID))
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t, fakeChecks{})
	require.Equal(t, "Nightfox", h.model.theme.Name)

	h.send(t, keyRunes("T"))
	assert.Equal(t, "Kanagawa", h.model.theme.Name)

	saved := prefs.Load(h.model.prefsPath)
	assert.Equal(t, "Kanagawa", saved.Theme)
	assert.False(t, saved.ShowLogs)

	h.send(t, keyRunes("l"))
	assert.True(t, prefs.Load(h.model.prefsPath).ShowLogs)
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	h.send(t, keyRunes("?"))
	require.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "Keyboard Shortcuts")
	assert.Contains(t, h.model.View(), "Add to cart")

	h.send(t, keyRunes("x"))
	assert.False(t, h.model.showHelp)
}

func TestModel_QuitKey(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	cmd := h.send(t, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_CatalogErrorShowsOffline(t *testing.T) {
	h := newHarness(t, fakeChecks{})

	h.catalog.Update(nil, errors.New("connection refused"))
	h.catalog.Update(nil, errors.New("connection refused"))
	h.send(t, tickMsg(time.Now()))

	view := h.model.View()
	assert.Contains(t, view, "offline")
	assert.Contains(t, view, "Refresh failed: connection refused")
	assert.Contains(t, view, "Shirt", "previous products stay visible")
}

func TestWaitForCart_DeliversLatestState(t *testing.T) {
	store := state.New()
	m := New(Options{Store: store, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	t.Cleanup(m.unsubscribe)

	store.Dispatch(cart.AddToCartSucceeded{Product: shirt})
	store.Dispatch(cart.AddToCartSucceeded{Product: shirt})

	msg := waitForCart(context.Background(), store, m.changed)()
	got, ok := msg.(cartMsg)
	require.True(t, ok, "msg = %T", msg)
	assert.Equal(t, 2, got.state.Quantity(shirt.ID))
}

func TestWaitForCart_ReturnsNilWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := waitForCart(ctx, state.New(), make(chan struct{}))()
	assert.Nil(t, msg)
}

func TestRenderCartTable_ColumnsAndOrder(t *testing.T) {
	st := cart.NewState()
	st = cart.Reduce(st, cart.AddToCartSucceeded{Product: shoes})
	st = cart.Reduce(st, cart.AddToCartSucceeded{Product: shirt})
	st = cart.Reduce(st, cart.AddToCartSucceeded{Product: shoes})

	out := RenderCartTable(st, GetTheme("Slate"))
	for _, want := range []string{"Product", "Price", "Qty", "Subtotal", "85.00", "179.90"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Shoes"), strings.Index(out, "Shirt"), "rows follow insertion order")
}

func TestFailedLabels_FallsBackToID(t *testing.T) {
	st := cart.NewState()
	st = cart.Reduce(st, cart.AddToCartFailed{ProductID: shirt.ID})
	st = cart.Reduce(st, cart.AddToCartFailed{ProductID: 99})

	var catalog state.Catalog
	catalog.Update([]cart.Product{shirt}, nil)

	assert.Equal(t, []string{"Shirt", "#99"}, FailedLabels(st, catalog.Snapshot()))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Shirt", 10, "Shirt"},
		{"Running shoes", 8, "Running…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
