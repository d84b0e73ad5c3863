package views

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/artpar/mockdeck/internal/tui"
	"github.com/artpar/mockdeck/internal/tui/components"
	"github.com/artpar/mockdeck/internal/tui/keys"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Pane represents which pane is focused.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneDetail
)

// DefaultSidebarWidth is used when no width is configured.
const DefaultSidebarWidth = 40

// notifyFor is how long a status notification stays visible.
const notifyFor = 3 * time.Second

// clearNotificationMsg is sent to clear the notification.
type clearNotificationMsg struct{}

// flushMsg asks the view to run deferred host refreshes.
type flushMsg struct{}

// MainView is the two-pane sidebar and detail view.
type MainView struct {
	width        int
	height       int
	sidebarWidth int

	host    *sidebar.Host
	queue   *sidebar.Queue
	sidebar *components.MockSidebar
	detail  *components.MockDetail
	panes   *tui.ComponentList
	logger  *log.Logger
	layout  *layout

	showHelp     bool
	notification string
	notifyErr    bool
}

// Option configures a MainView.
type Option func(*MainView)

// WithQueue sets the queue the host defers refreshes onto. The view drains
// it after every update.
func WithQueue(q *sidebar.Queue) Option {
	return func(v *MainView) {
		v.queue = q
	}
}

// WithSidebarWidth sets the sidebar column width.
func WithSidebarWidth(width int) Option {
	return func(v *MainView) {
		if width > 0 {
			v.sidebarWidth = width
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(v *MainView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewMainView creates the main view with the sidebar focused.
func NewMainView(sb *components.MockSidebar, detail *components.MockDetail, opts ...Option) *MainView {
	v := &MainView{
		sidebarWidth: DefaultSidebarWidth,
		host:         sb.Host(),
		sidebar:      sb,
		detail:       detail,
		panes:        tui.NewComponentList(sb, detail),
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.panes.SetFocusIndex(int(PaneSidebar))
	v.syncDetail()
	return v
}

// Init initializes the view.
func (v *MainView) Init() tea.Cmd {
	return v.pump(tea.Batch(v.sidebar.Init(), v.detail.Init()))
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	_, cmd := v.update(msg)
	return v, v.pump(cmd)
}

func (v *MainView) update(msg tea.Msg) (tui.Component, tea.Cmd) {
	if v.showHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc", "?", "q":
				v.showHelp = false
			}
			return v, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.updatePaneSizes()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		return v, v.handleMouseMsg(msg)

	case flushMsg:
		v.flush()
		return v, nil

	case tui.RefreshMsg:
		v.host.Refresh()
		v.sidebar.Sync()
		v.syncDetail()
		return v, nil

	case components.SelectionChangedMsg:
		_, cmd := v.detail.Update(msg)
		return v, cmd

	case components.StatusMsg:
		return v, v.notify(msg)

	case components.QuitMsg:
		return v, tea.Quit

	case clearNotificationMsg:
		v.notification = ""
		v.notifyErr = false
		return v, nil
	}

	return v.forwardToFocusedPane(msg)
}

// pump appends a flush when host refreshes are waiting in the queue.
func (v *MainView) pump(cmd tea.Cmd) tea.Cmd {
	if v.queue == nil || v.queue.Len() == 0 {
		return cmd
	}
	flush := func() tea.Msg { return flushMsg{} }
	if cmd == nil {
		return flush
	}
	return tea.Sequence(cmd, flush)
}

func (v *MainView) flush() {
	if v.queue == nil {
		return
	}
	if n := v.queue.Drain(); n > 0 {
		v.logger.Debug("flushed deferred work", "tasks", n)
		v.sidebar.Sync()
		v.syncDetail()
	}
}

// syncDetail shows the first selected mock in the detail pane.
func (v *MainView) syncDetail() {
	mocks := v.host.SelectedMocks()
	if len(mocks) == 0 {
		v.detail.SetMock(nil, len(v.host.SelectedItems()))
		return
	}
	v.detail.SetMock(mocks[0], len(v.host.SelectedItems()))
}

func (v *MainView) notify(msg components.StatusMsg) tea.Cmd {
	v.notification = msg.Text
	v.notifyErr = msg.Err != nil
	if msg.Err != nil {
		v.notification = fmt.Sprintf("%s: %v", msg.Text, msg.Err)
	}
	return tea.Tick(notifyFor, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return v, tea.Quit
	}

	// Search input and the context menu own every key.
	if v.focusedPane() == PaneSidebar && v.sidebar.Mode() != keys.ModeNormal {
		return v.forwardToFocusedPane(msg)
	}

	switch msg.String() {
	case "tab":
		v.panes.FocusNext()
		return v, nil
	case "shift+tab":
		v.panes.FocusPrev()
		return v, nil
	case "?":
		v.showHelp = true
		return v, nil
	case "1":
		v.focusPane(PaneSidebar)
		return v, nil
	case "2":
		v.focusPane(PaneDetail)
		return v, nil
	case "q":
		return v, tea.Quit
	}

	return v.forwardToFocusedPane(msg)
}

func (v *MainView) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if v.layout == nil {
		return nil
	}
	target := v.layout.hit(msg.X, msg.Y)

	if msg.Action == tea.MouseActionPress {
		if v.host.OnPointer(target, v.layout.sidebar) {
			v.focusPane(PaneSidebar)
		} else if sidebar.HandlePointer(target, v.layout.detail) {
			v.focusPane(PaneDetail)
		}
	}

	// Drags that leave the sidebar still need their motion and release.
	inside := sidebar.HandlePointer(target, v.layout.sidebar)
	if !inside && msg.Action == tea.MouseActionPress {
		return nil
	}

	local := msg
	local.X -= v.layout.sidebar.x
	local.Y -= v.layout.sidebar.y
	_, cmd := v.sidebar.Update(local)
	return cmd
}

func (v *MainView) forwardToFocusedPane(msg tea.Msg) (tui.Component, tea.Cmd) {
	focused := v.panes.Focused()
	if focused == nil {
		return v, nil
	}
	_, cmd := focused.Update(msg)
	return v, cmd
}

func (v *MainView) focusedPane() Pane {
	return Pane(v.panes.FocusIndex())
}

func (v *MainView) focusPane(pane Pane) {
	v.panes.SetFocusIndex(int(pane))
}

func (v *MainView) updatePaneSizes() {
	if v.width == 0 || v.height == 0 {
		return
	}

	sidebarWidth := v.sidebarWidth
	if sidebarWidth > v.width*2/3 {
		sidebarWidth = v.width * 2 / 3
	}
	detailWidth := v.width - sidebarWidth

	// Reserve 2 lines for help bar + status bar
	paneHeight := v.height - 2
	if paneHeight < 2 {
		paneHeight = 2
	}

	v.sidebar.SetSize(sidebarWidth, paneHeight)
	v.detail.SetSize(detailWidth, paneHeight)
	v.layout = newLayout(v.width, v.height, sidebarWidth, paneHeight)
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.showHelp {
		return v.renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, v.sidebar.View(), v.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, panes, v.renderHelpBar(), v.renderStatusBar())
}

func (v *MainView) renderHelpBar() string {
	var hint string
	switch v.focusedPane() {
	case PaneSidebar:
		hint = v.sidebar.Help()
	case PaneDetail:
		hint = "j/k scroll · tab switch pane"
	}
	style := lipgloss.NewStyle().
		Width(v.width).
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)
	return style.Render(tui.Truncate(hint, v.width-2))
}

func (v *MainView) renderStatusBar() string {
	var items []string

	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)
	mode := v.sidebar.Mode()
	switch mode {
	case keys.ModeNormal:
		modeStyle = modeStyle.
			Background(lipgloss.Color("34")).
			Foreground(lipgloss.Color("255"))
	default:
		modeStyle = modeStyle.
			Background(lipgloss.Color("214")).
			Foreground(lipgloss.Color("0"))
	}
	items = append(items, modeStyle.Render(strings.ToUpper(mode.String())))

	paneStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)
	items = append(items, paneStyle.Render(v.panes.Focused().Title()))

	if v.host.Armed() {
		items = append(items, lipgloss.NewStyle().
			Foreground(tui.ColorAccent).
			Padding(0, 1).
			Render("armed"))
	}

	if v.notification != "" {
		notifyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true).
			Padding(0, 1)
		if v.notifyErr {
			notifyStyle = notifyStyle.Foreground(lipgloss.Color("160"))
		}
		items = append(items, notifyStyle.Render(v.notification))
	}

	helpHint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Padding(0, 1).
		Render("? help  q quit")

	leftContent := strings.Join(items, " ")
	spacerWidth := v.width - lipgloss.Width(leftContent) - lipgloss.Width(helpHint)
	if spacerWidth < 0 {
		spacerWidth = 0
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("236"))
	return barStyle.Render(leftContent + strings.Repeat(" ", spacerWidth) + helpHint)
}

func (v *MainView) renderHelp() string {
	sections := []struct {
		title string
		lines []string
	}{
		{"Panes", []string{
			"tab / shift+tab  cycle panes",
			"1 / 2            focus sidebar / detail",
			"?                toggle this help",
			"q / ctrl+c       quit",
		}},
		{"Sidebar", []string{
			"j/k  gg/G        move cursor",
			"enter            select row",
			"space            add or remove row",
			"shift+up/down    extend range",
			"/                search",
			"f                cycle filter",
			"a                toggle active",
			"m                context menu",
			"l / h            expand / collapse selected groups",
			"delete           delete selection",
		}},
		{"Mouse", []string{
			"click            select",
			"shift+click      select range",
			"ctrl+click       add or remove",
			"right click      menu",
			"drag mock        move to group",
		}},
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorTitle)
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(section.title))
		b.WriteString("\n")
		for _, line := range section.lines {
			b.WriteString("  " + line + "\n")
		}
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorAccent).
		Padding(1, 2).
		Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "mockdeck"
}

// Focused always reports true; the main view owns the screen.
func (v *MainView) Focused() bool {
	return true
}

// Focus is a no-op.
func (v *MainView) Focus() {}

// Blur is a no-op.
func (v *MainView) Blur() {}

// SetSize sets the view dimensions.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.updatePaneSizes()
}

// Width returns the view width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the view height.
func (v *MainView) Height() int {
	return v.height
}

// FocusedPane returns the focused pane.
func (v *MainView) FocusedPane() Pane {
	return v.focusedPane()
}

// ShowingHelp returns true while the help overlay is open.
func (v *MainView) ShowingHelp() bool {
	return v.showHelp
}

// Notification returns the current status text.
func (v *MainView) Notification() string {
	return v.notification
}

// Sidebar returns the sidebar pane.
func (v *MainView) Sidebar() *components.MockSidebar {
	return v.sidebar
}

// Detail returns the detail pane.
func (v *MainView) Detail() *components.MockDetail {
	return v.detail
}
