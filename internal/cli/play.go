package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/deck"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/move"
	"github.com/matzehuels/cardstack/pkg/stackview"
)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		sample     int
		pinning    string
		selectable bool
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "play [deck-id]",
		Short: "Scroll, expose and reorder the cards of a deck in the terminal",
		Long: `Open a deck in an interactive terminal view.

Keys:
  ↑/↓ j/k      select a card (move the dragged card while dragging)
  pgup/pgdn    scroll the stack; scrolling past either end bounces
  enter        expose the selected card, or collapse it
  m            pick up the selected card; enter drops it, esc cancels
  p            pin or unpin the selected card
  s            save the deck
  q            quit (unsaved changes are saved)

The mouse works too: click a card to expose it, drag a card to move it.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeDeckIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return c.runPlay(cmd.Context(), id, sample, pinning, selectable, logFile)
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 0, "play a new sample deck of n cards instead of a stored one")
	cmd.Flags().StringVar(&pinning, "pinning", "", "pinning mode for the exposed arrangement: none, below, all")
	cmd.Flags().BoolVar(&selectable, "selectable", false, "let clicks on other cards switch the exposed card")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file while the view is open")

	return cmd
}

// runPlay loads the deck and runs the terminal view until the user quits.
func (c *CLI) runPlay(ctx context.Context, id string, sample int, pinning string, selectable bool, logFile string) error {
	if id == "" && sample <= 0 {
		return fmt.Errorf("give a deck id or --sample n (see 'cardstack deck list')")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	layoutCfg := cfg.Layout
	if pinning != "" {
		mode, err := layout.ParsePinningMode(pinning)
		if err != nil {
			return err
		}
		layoutCfg.Exposed.PinningMode = mode
	}

	store, err := newDeckStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open deck store: %w", err)
	}
	defer store.Close()

	var d *deck.Deck
	if id != "" {
		if d, err = loadDeck(ctx, store, id); err != nil {
			return err
		}
	} else {
		d = deck.Sample(sample)
	}

	// The view owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())

	m, err := newPlayModel(ctx, d, store, layoutCfg, geom.Sz(cfg.Viewport.Width, cfg.Viewport.Height), selectable, logger)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run view: %w", err)
	}
	pm := final.(*playModel)
	if pm.saveErr != nil {
		return fmt.Errorf("save deck: %w", pm.saveErr)
	}
	if pm.saved {
		printSuccess("Saved deck %s", StyleHighlight.Render(d.Name))
		printKeyValue("id", d.ID)
	}
	return nil
}

// =============================================================================
// playModel - Interactive deck view
// =============================================================================

// playModel is the bubbletea model of the play command. It is the layout
// controller's host: it reports the viewport, and the deck answers the item
// and move queries.
type playModel struct {
	ctx    context.Context
	deck   *deck.Deck
	store  deck.Store
	ctrl   *stackview.Controller
	logger *log.Logger

	vp   layout.Viewport
	snap layout.Snapshot

	cursor  int
	pointer geom.Point // content coordinates of the dragged card's center

	// mouse drag tracking
	pressed   bool
	pressedAt geom.Point

	termW, termH int

	status  string
	dirty   bool
	saved   bool
	saveErr error
	err     error
}

// savedMsg reports the outcome of a save.
type savedMsg struct{ err error }

func newPlayModel(ctx context.Context, d *deck.Deck, store deck.Store, cfg layout.Config, size geom.Size, selectable bool, logger *log.Logger) (*playModel, error) {
	m := &playModel{
		ctx:    ctx,
		deck:   d,
		store:  store,
		logger: logger,
		vp:     layout.Viewport{Size: size},
		termW:  80,
		termH:  24,
	}
	ctrl, err := stackview.New(cfg,
		stackview.WithViewport(func() layout.Viewport { return m.vp }),
		stackview.WithItems(d),
		stackview.WithMoveHost(d),
		stackview.WithExposeObserver(m),
		stackview.WithUnexposedItemsSelectable(selectable),
		stackview.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	m.refresh()
	return m, nil
}

func (m *playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
	case tea.KeyMsg:
		if cmd := m.handleKey(msg.String()); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case savedMsg:
		if msg.err != nil {
			m.saveErr = msg.err
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.dirty, m.saved = false, true
			m.status = "saved"
		}
	}
	m.refresh()
	return m, nil
}

// handleKey applies one key press and returns a command to run, if any.
func (m *playModel) handleKey(key string) tea.Cmd {
	m.err = nil
	if m.ctrl.Dragging() {
		switch key {
		case "ctrl+c":
			m.endDrag(false)
			return m.quit()
		case "up", "k":
			m.dragBy(-m.dragStep())
		case "down", "j":
			m.dragBy(m.dragStep())
		case "enter", " ":
			m.endDrag(true)
		case "esc":
			m.endDrag(false)
		}
		return nil
	}

	switch key {
	case "q", "ctrl+c":
		return m.quit()
	case "esc":
		m.check(m.ctrl.Collapse())
	case "up", "k":
		m.selectCard(m.cursor - 1)
	case "down", "j":
		m.selectCard(m.cursor + 1)
	case "home", "g":
		m.selectCard(0)
	case "end", "G":
		m.selectCard(m.deck.Count() - 1)
	case "pgup":
		m.scrollBy(-m.vp.Size.H / 2)
	case "pgdown":
		m.scrollBy(m.vp.Size.H / 2)
	case "0":
		m.vp.Offset = geom.Point{}
	case "enter", " ":
		m.toggleExpose(m.cursor)
	case "m":
		m.beginDrag(m.cursor)
	case "p":
		m.togglePin(m.cursor)
	case "s":
		return m.save()
	}
	return nil
}

// handleMouse maps clicks to taps and press-and-move to drags.
func (m *playModel) handleMouse(msg tea.MouseMsg) {
	p, ok := m.contentPoint(msg.X, msg.Y)
	if !ok {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pressed, m.pressedAt = true, p
		case tea.MouseButtonWheelUp:
			m.scrollBy(-m.unitY() * 2)
		case tea.MouseButtonWheelDown:
			m.scrollBy(m.unitY() * 2)
		}
	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		if !m.ctrl.Dragging() {
			i, ok := m.snap.ItemAt(m.pressedAt)
			if !ok || m.ctrl.Exposed().IsSet() {
				return
			}
			if !m.beginDrag(i) {
				m.pressed = false
				return
			}
		}
		m.dragBy(p.Y - m.pointer.Y)
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		if m.ctrl.Dragging() {
			m.endDrag(true)
			return
		}
		exposed, err := m.ctrl.Tap(p)
		if !m.check(err) {
			return
		}
		if i, ok := exposed.Get(); ok {
			m.cursor = i
		}
	}
}

// =============================================================================
// Actions
// =============================================================================

func (m *playModel) selectCard(i int) {
	if m.deck.Count() == 0 {
		return
	}
	m.cursor = max(0, min(i, m.deck.Count()-1))
	if m.ctrl.Exposed().IsSet() {
		return
	}
	// Keep the top edge of the selected card on screen.
	if m.cursor >= m.snap.Len() {
		return
	}
	f := m.snap.At(m.cursor).Frame
	top, bottom := m.vp.Offset.Y, m.vp.Offset.Y+m.vp.Size.H
	reveal := m.ctrl.Config().Stacked.Reveal
	switch {
	case f.Y < top:
		m.vp.Offset.Y = f.Y - reveal
	case f.Y+reveal > bottom:
		m.vp.Offset.Y = f.Y + 2*reveal - m.vp.Size.H
	}
	m.vp.Offset.Y = max(m.vp.Offset.Y, 0)
}

// scrollBy moves the content offset, allowing a third of a screen of
// overscroll at either end.
func (m *playModel) scrollBy(dy float64) {
	if m.ctrl.Exposed().IsSet() {
		return
	}
	slack := m.vp.Size.H / 3
	maxY := math.Max(0, m.snap.Extent.H-m.vp.Size.H) + slack
	m.vp.Offset.Y = math.Max(-slack, math.Min(m.vp.Offset.Y+dy, maxY))
}

func (m *playModel) toggleExpose(i int) {
	if m.ctrl.Exposed().Is(i) {
		m.check(m.ctrl.Collapse())
		return
	}
	m.check(m.ctrl.Expose(i))
}

func (m *playModel) togglePin(i int) {
	if i >= m.deck.Count() {
		return
	}
	pinned := !m.deck.Cards[i].Pinned
	if !m.check(m.deck.SetPinned(i, pinned)) {
		return
	}
	m.dirty = true
	if pinned {
		m.status = fmt.Sprintf("pinned %q", m.deck.Cards[i].Title)
	} else {
		m.status = fmt.Sprintf("unpinned %q", m.deck.Cards[i].Title)
	}
}

// beginDrag picks up card i with the pointer on its center.
func (m *playModel) beginDrag(i int) bool {
	if i >= m.snap.Len() {
		return false
	}
	center := m.snap.At(i).Frame.Center()
	ok, err := m.ctrl.BeginDrag(i)
	if !m.check(err) {
		return false
	}
	if !ok {
		m.status = fmt.Sprintf("%q is pinned", m.deck.Cards[i].Title)
		return false
	}
	m.pointer = center
	m.status = fmt.Sprintf("moving %q", m.deck.Cards[i].Title)
	return true
}

func (m *playModel) dragBy(dy float64) {
	m.pointer.Y += dy
	step, err := m.ctrl.DragTo(m.pointer)
	if !m.check(err) {
		return
	}
	switch step.Outcome {
	case move.Moved:
		m.cursor = step.To
		m.status = fmt.Sprintf("moved %d → %d", step.From, step.To)
	case move.Rejected:
		m.status = fmt.Sprintf("position %d is pinned", step.Candidate)
	}
}

func (m *playModel) endDrag(commit bool) {
	res, err := m.ctrl.EndDrag(commit)
	if !m.check(err) {
		return
	}
	m.cursor = res.Final
	if res.Moves > 0 {
		m.dirty = true
	}
	switch {
	case res.Cancelled:
		m.status = fmt.Sprintf("drag cancelled (%d moves kept)", res.Moves)
	case res.Original == res.Final:
		m.status = "dropped in place"
	default:
		m.status = fmt.Sprintf("dropped at %d", res.Final)
	}
}

func (m *playModel) save() tea.Cmd {
	d, store, ctx := m.deck, m.store, m.ctx
	m.status = "saving..."
	return func() tea.Msg {
		return savedMsg{err: store.Set(ctx, d)}
	}
}

// quit saves pending changes before quitting.
func (m *playModel) quit() tea.Cmd {
	if !m.dirty {
		return tea.Quit
	}
	if err := m.store.Set(m.ctx, m.deck); err != nil {
		m.saveErr = err
	} else {
		m.dirty, m.saved = false, true
	}
	return tea.Quit
}

// refresh recomputes the snapshot for the current state.
func (m *playModel) refresh() {
	snap, err := m.ctrl.Refresh()
	if !m.check(err) {
		return
	}
	m.snap = snap
}

// check records err for display and reports whether it was nil.
func (m *playModel) check(err error) bool {
	if err == nil {
		return true
	}
	m.logger.Error("interaction failed", "err", err)
	m.err = err
	return false
}

// =============================================================================
// Expose notifications
// =============================================================================

func (m *playModel) OnExposeBegin(index int, exposing bool) {
	m.logger.Debug("expose begin", "index", index, "exposing", exposing)
}

func (m *playModel) OnExposeEnd(index int, exposing bool) {
	if index >= m.deck.Count() {
		return
	}
	if exposing {
		m.status = fmt.Sprintf("exposed %q", m.deck.Cards[index].Title)
	} else if !m.ctrl.Exposed().IsSet() {
		m.status = "collapsed"
	}
}
