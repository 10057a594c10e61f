package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/config"
	"github.com/five82/basket/internal/prefs"
	"github.com/five82/basket/internal/state"
)

// CartStore is the part of the cart store the UI talks to.
type CartStore interface {
	Dispatch(a cart.Action)
	State() cart.State
	Subscribe(fn func(cart.State)) (unsubscribe func())
}

// CheckTracker reports outstanding stock checks.
type CheckTracker interface {
	Pending(id cart.ProductID) bool
	InFlight() int
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     CartStore
	Catalog   *state.Catalog
	Checks    CheckTracker
	Config    *config.Config
	Logger    *zap.Logger
	PollTick  time.Duration
	ThemeName string
	ShowLogs  bool
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     CartStore
	catalog   *state.Catalog
	checks    CheckTracker
	config    *config.Config
	logger    *zap.Logger
	prefsPath string
	logPath   string
	pollTick  time.Duration
	keys      keyMap

	// Store notifications, coalesced to one pending signal.
	changed     chan struct{}
	unsubscribe func()

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool

	// Data state
	cart     cart.State
	products state.CatalogSnapshot
	selected int
	notice   string

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model and subscribes it to the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = &state.Catalog{}
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		catalog:     catalog,
		checks:      opts.Checks,
		config:      opts.Config,
		logger:      logger,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		changed:     make(chan struct{}, 1),
		unsubscribe: func() {},
		theme:       GetTheme(opts.ThemeName),
		showLogs:    opts.ShowLogs,
		products:    catalog.Snapshot(),
		logState:    logState{follow: true},
	}

	if m.store != nil {
		m.cart = m.store.State()
		changed := m.changed
		m.unsubscribe = m.store.Subscribe(func(cart.State) {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, waitForCart(m.ctx, m.store, m.changed))
	}
	if m.showLogs {
		cmds = append(cmds, m.refreshLogs())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case cartMsg:
		m.cart = msg.state
		return m, waitForCart(m.ctx, m.store, m.changed)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logErrorMsg:
		m.logState.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.resizeLogViewport()
		m.savePrefs()
		if m.showLogs {
			return m, m.refreshLogs()
		}
		return m, nil
	}

	if m.showLogs {
		if handled, cmd := m.handleLogsKey(msg); handled {
			return m, cmd
		}
	}
	return m.handleCatalogKey(msg)
}

// handleCatalogKey moves the selection and adds products.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.products.Products)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.Add):
		product, ok := m.selectedProduct()
		if !ok || m.store == nil {
			return m, nil
		}
		m.notice = "Checking stock for " + product.Title
		return m, dispatchCmd(m.store, cart.AddToCartRequested{Product: product})
	}
	return m, nil
}

func (m Model) selectedProduct() (cart.Product, bool) {
	if m.selected < 0 || m.selected >= len(m.products.Products) {
		return cart.Product{}, false
	}
	return m.products.Products[m.selected], true
}

// handleTick refreshes the catalog snapshot and, when following, the logs.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.products = m.catalog.Snapshot()
	if n := len(m.products.Products); m.selected >= n {
		m.selected = max(n-1, 0)
	}

	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.showLogs && m.logState.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, ShowLogs: m.showLogs}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}
	return b.String()
}

// renderContent places the catalog and cart side by side, or stacked on
// narrow terminals.
func (m Model) renderContent() string {
	if m.width < LayoutCompactWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderCatalog(m.width),
			m.renderCart(m.width),
		)
	}
	left := m.width / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCatalog(left),
		m.renderCart(m.width-left),
	)
}

// Messages

type tickMsg time.Time

type cartMsg struct {
	state cart.State
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForCart blocks until the store reports a change and returns the
// current cart. It yields nil once ctx is done.
func waitForCart(ctx context.Context, store CartStore, changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			return cartMsg{state: store.State()}
		}
	}
}

// dispatchCmd dispatches off the event loop so subscribers never wait on it.
func dispatchCmd(store CartStore, a cart.Action) tea.Cmd {
	return func() tea.Msg {
		store.Dispatch(a)
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("ui requires a cart store")
	}

	m := New(opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
