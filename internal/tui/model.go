// Package tui provides the BubbleTea-based terminal host for the toast
// frame: a scrollable page with the toast overlay and status bar on top.
package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastframe/internal/config"
	"github.com/jmylchreest/toastframe/internal/dispatch"
	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/gesture"
	"github.com/jmylchreest/toastframe/internal/layout"
)

// frameInterval is the animation tick rate.
const frameInterval = time.Second / 60

// Options configures a new Model.
type Options struct {
	Config *config.Config
	// Layout is the template to build the surface from. Defaults to the
	// embedded default layout.
	Layout *layout.LayoutConfig
	// Dispatcher defaults to a new Dispatcher.
	Dispatcher *Dispatcher
	// Clock drives toast timeouts. Defaults to the real clock.
	Clock dispatch.Clock
	// Observer receives frame events alongside the page log.
	Observer frame.Observer
	Logger   *slog.Logger
	// Now is the time source for animations and pointer velocity.
	Now func() time.Time
}

// ConfigMsg delivers a reloaded configuration to a running Model.
type ConfigMsg struct {
	Config *config.Config
}

type frameMsg struct {
	at time.Time
}

type downloadMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// pointer tracks a mouse button held on the toast.
type pointer struct {
	pressed bool
	dragged bool
	startX  int
	tracker gesture.Tracker
}

// download is the simulated transfer shown in the status bar.
type download struct {
	active bool
	done   uint64
	total  uint64
}

// Model is the main TUI model.
type Model struct {
	frame   *frame.Frame
	surface *Surface
	disp    *Dispatcher
	events  *eventLog
	logger  *slog.Logger
	now     func() time.Time
	theme   Theme

	// Components
	viewport viewport.Model
	help     help.Model
	progress progress.Model
	spinner  spinner.Model

	// State
	keys      KeyMap
	mouse     pointer
	download  download
	ticking   bool
	showHelp  bool
	callbacks int
	seen      int
	width     int
	height    int
	ready     bool
	statusMsg string
	statusErr bool
}

// New creates the model, builds the surface and applies it to a new frame.
// The dispatcher is bound to the calling goroutine, which must be the one
// that runs the program.
func New(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = NewDispatcher()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cfg := opts.Config

	events := newEventLog(opts.Now)
	observer := frame.Observer(events)
	if opts.Observer != nil {
		observer = frame.Observers(events, opts.Observer)
	}

	f := frame.New(frame.Options{
		Dispatcher: opts.Dispatcher,
		Clock:      opts.Clock,
		Settings:   SettingsFromConfig(cfg),
		Logger:     opts.Logger,
		Observer:   observer,
	})

	surface := NewSurface(opts.Layout, cfg.Gesture.CellWidth, opts.Now)
	opts.Dispatcher.Bind()
	if err := f.ApplyTemplate(surface); err != nil {
		opts.Logger.Error("failed to apply template", "error", err)
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		frame:    f,
		surface:  surface,
		disp:     opts.Dispatcher,
		events:   events,
		logger:   opts.Logger,
		now:      opts.Now,
		theme:    ThemeFromConfig(cfg.Theme),
		help:     help.New(),
		progress: progress.New(progress.WithSolidFill(cfg.Theme.StatusFill), progress.WithoutPercentage()),
		spinner:  sp,
		keys:     DefaultKeyMap(),
	}
}

// SettingsFromConfig converts the configured timing and thresholds.
func SettingsFromConfig(cfg *config.Config) frame.Settings {
	return frame.Settings{
		Timeout: cfg.Toast.Timeout.Duration(),
		HideGap: cfg.Toast.HideGap.Duration(),
		Thresholds: gesture.Thresholds{
			SwipeSpeed:       cfg.Gesture.SwipeSpeed,
			SwipeDistance:    cfg.Gesture.SwipeDistance,
			MinSwipeDistance: cfg.Gesture.MinSwipeDistance,
		},
	}
}

// Frame returns the hosted toast frame.
func (m Model) Frame() *frame.Frame { return m.frame }

// Dispatcher returns the UI context the frame runs on.
func (m Model) Dispatcher() *Dispatcher { return m.disp }

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.disp.Bind()
	m.disp.drainBacklog()

	m, cmd := m.update(msg)
	m.syncPage()

	if !m.ticking && m.surface.Animating() {
		m.ticking = true
		cmd = tea.Batch(cmd, m.nextFrame())
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		m.disp.run(msg.fn)
		return m, nil

	case frameMsg:
		m.ticking = false
		m.surface.Step(msg.at)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.pageHeight())
			m.ready = true
		}
		return m, nil

	case ConfigMsg:
		return m.applyConfig(msg.Config), nil

	case downloadMsg:
		return m.stepDownload()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

// syncPage resizes the page around the status bar and shows new events.
func (m *Model) syncPage() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.pageHeight()
	if m.events.version != m.seen {
		m.seen = m.events.version
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.events.String())
		if atBottom {
			m.viewport.GotoBottom()
		}
	}
}

func (m Model) applyConfig(cfg *config.Config) Model {
	if cfg == nil {
		return m
	}
	if err := m.frame.Configure(SettingsFromConfig(cfg)); err != nil {
		m.logger.Warn("failed to apply settings", "error", err)
	}
	m.surface.SetCellWidth(cfg.Gesture.CellWidth)
	m.theme = ThemeFromConfig(cfg.Theme)
	m.events.add("config     reloaded")
	return m
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.frame
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.ShortToast):
		err = f.ShowToast(sampleShort)
	case key.Matches(msg, m.keys.InfoToast):
		err = f.ShowInfoToast(sampleInfo)
	case key.Matches(msg, m.keys.LongToast):
		err = f.ShowToast(sampleLong)
	case key.Matches(msg, m.keys.TitledToast):
		err = f.ShowToast(sampleTitled)
	case key.Matches(msg, m.keys.LongTitledToast):
		err = f.ShowToast(sampleLongTitled)
	case key.Matches(msg, m.keys.CallbackToast):
		err = f.ShowToast(m.callbackToast())
	case key.Matches(msg, m.keys.Burst):
		err = m.burst()
	case key.Matches(msg, m.keys.HideToast):
		err = f.HideToast()
	case key.Matches(msg, m.keys.ClearToasts):
		err = f.ClearAllToasts()

	case key.Matches(msg, m.keys.Activate):
		if d := m.surface.Draggable(); d != nil {
			d.tap()
		} else {
			return m, setStatus("This template's toast is not interactive", false)
		}
	case key.Matches(msg, m.keys.Swipe):
		if d := m.surface.Draggable(); d != nil {
			m.swipe(d)
		} else {
			return m, setStatus("This template's toast is not interactive", false)
		}

	case key.Matches(msg, m.keys.ToggleStatus):
		err = m.toggleStatusBar()
	case key.Matches(msg, m.keys.ToggleIndeterminate):
		bar := f.StatusBar()
		err = bar.SetIndeterminate(!bar.IsIndeterminate())
	case key.Matches(msg, m.keys.SimulateProgress):
		return m.startDownload()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if err != nil {
		return m, setStatus(err.Error(), true)
	}
	return m, nil
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// swipe plays a drag far enough to dismiss under the active thresholds.
func (m Model) swipe(d *draggableToast) {
	th := m.frame.Settings().Thresholds
	s := gesture.Sample{TranslationX: th.SwipeDistance + m.surface.CellWidth()}
	d.startDrag()
	d.moveDrag(s)
	d.completeDrag(s)
}

func (m Model) toggleStatusBar() error {
	bar := m.frame.StatusBar()
	if bar.IsOpen() {
		return bar.SetOpen(false)
	}
	if bar.Text() == "" {
		if err := bar.SetText("Status bar text"); err != nil {
			return err
		}
	}
	return bar.SetOpen(true)
}

// handleMouse turns a left-button press, motion and release on the toast
// into a tap or a drag.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	d := m.surface.Draggable()
	if d == nil {
		return m
	}
	x := float64(msg.X) * m.surface.CellWidth()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.hitToast(msg.X, msg.Y) {
			return m
		}
		m.mouse = pointer{pressed: true, startX: msg.X}
		m.mouse.tracker.Begin(x, m.now())

	case tea.MouseActionMotion:
		if !m.mouse.pressed {
			return m
		}
		if !m.mouse.dragged {
			if msg.X == m.mouse.startX {
				return m
			}
			m.mouse.dragged = true
			d.startDrag()
		}
		d.moveDrag(m.mouse.tracker.Move(x, m.now()))

	case tea.MouseActionRelease:
		if !m.mouse.pressed {
			return m
		}
		if m.mouse.dragged {
			d.completeDrag(m.mouse.tracker.End(x, m.now()))
		} else {
			m.mouse.tracker.Cancel()
			d.tap()
		}
		m.mouse = pointer{}
	}
	return m
}

// hitToast reports whether screen cell x, y is on the toast.
func (m Model) hitToast(x, y int) bool {
	lines, left, top := m.toastGeometry()
	if len(lines) == 0 {
		return false
	}
	top++ // header row
	w := lipgloss.Width(lines[0])
	return x >= left && x < left+w && y >= top && y < top+len(lines)
}

// toastGeometry renders the toast and places it within the page.
func (m Model) toastGeometry() (lines []string, left, top int) {
	lines = m.surface.renderToast(m.theme, m.width)
	left, top = placement(lines, m.width, m.pageHeight(), m.surface.Offset(), m.surface.Layout().Position)
	return lines, left, top
}

func (m Model) statusBarView() string {
	return renderStatusBar(m.surface.statusBar, m.theme, m.progress, m.spinner, m.width)
}

// pageHeight is what remains after the header, status bar and footer.
func (m Model) pageHeight() int {
	h := m.height - 2
	if bar := m.statusBarView(); bar != "" {
		h -= lipgloss.Height(bar)
	}
	if m.showHelp {
		h -= lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp())) - 1
	}
	return max(h, 1)
}

func (m Model) startDownload() (Model, tea.Cmd) {
	if m.download.active {
		return m, nil
	}
	bar := m.frame.StatusBar()
	m.download = download{active: true, total: 48 * 1000 * 1000}
	if err := bar.SetIndeterminate(false); err != nil {
		return m, setStatus(err.Error(), true)
	}
	_ = bar.SetProgress(0)
	_ = bar.SetText(m.download.label())
	_ = bar.SetOpen(true)
	return m, downloadTick()
}

func (m Model) stepDownload() (Model, tea.Cmd) {
	if !m.download.active {
		return m, nil
	}
	bar := m.frame.StatusBar()
	m.download.done = min(m.download.done+m.download.total/25, m.download.total)
	_ = bar.SetProgress(float64(m.download.done) / float64(m.download.total))

	if m.download.done < m.download.total {
		_ = bar.SetText(m.download.label())
		return m, downloadTick()
	}

	m.download.active = false
	_ = bar.SetText("Download complete")
	if err := m.frame.ShowInfoToast(fmt.Sprintf("Downloaded %s", humanize.Bytes(m.download.total))); err != nil {
		return m, setStatus(err.Error(), true)
	}
	return m, nil
}

func downloadTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return downloadMsg{}
	})
}

func (d download) label() string {
	pct := 0.0
	if d.total > 0 {
		pct = math.Round(float64(d.done) / float64(d.total) * 100)
	}
	return fmt.Sprintf("Downloading %s of %s (%.0f%%)", humanize.Bytes(d.done), humanize.Bytes(d.total), pct)
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	visible := "idle"
	if m.frame.IsToastVisible() {
		visible = "showing"
	}
	header := titleStyle.Render("toastframe") + " " +
		dimStyle.Render(fmt.Sprintf("%s, %d pending", visible, m.frame.Pending()))

	vp := m.viewport
	vp.Height = m.pageHeight()
	page := strings.Split(vp.View(), "\n")
	for len(page) < vp.Height {
		page = append(page, "")
	}
	if lines, left, top := m.toastGeometry(); len(lines) > 0 {
		page = overlay(page, lines, left, top, m.width)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Join(page, "\n"))
	if bar := m.statusBarView(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) footerView() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			style = style.Foreground(lipgloss.Color("9"))
		}
		return style.Render(m.statusMsg)
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// Run starts the TUI on the calling goroutine.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.disp.SetProgram(p)
	_, err := p.Run()
	return err
}
