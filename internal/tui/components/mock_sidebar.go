package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/filter"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/artpar/mockdeck/internal/tui"
	"github.com/artpar/mockdeck/internal/tui/keys"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Toggler flips the active flag of mocks and groups.
type Toggler interface {
	ToggleMock(ctx context.Context, id string) error
	ToggleGroup(ctx context.Context, id string) error
}

// rowsTop is the line of the first row: top border, search bar, header.
const rowsTop = 3

// drag tracks a primary-button gesture from press to release.
type drag struct {
	row      int
	item     core.Item
	mods     sidebar.Click
	hover    int
	dragging bool
}

// MockSidebar renders the linearized mock list and turns key and mouse
// input into sidebar host calls.
type MockSidebar struct {
	title   string
	focused bool
	width   int
	height  int

	host    *sidebar.Host
	toggler Toggler
	keys    *keys.KeyMap
	seq     *keys.Sequences
	menu    *ContextMenu
	copy    func(string) error
	logger  *log.Logger
	ctx     context.Context

	mode   keys.Mode
	cursor int
	offset int
	search string
	preset string
	script *filter.Script
	drag   *drag
}

// SidebarOption configures a MockSidebar.
type SidebarOption func(*MockSidebar)

// WithKeyMap replaces the default bindings.
func WithKeyMap(km *keys.KeyMap) SidebarOption {
	return func(s *MockSidebar) {
		if km != nil {
			s.keys = km
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) SidebarOption {
	return func(s *MockSidebar) {
		if write != nil {
			s.copy = write
		}
	}
}

// WithSidebarLogger sets the logger.
func WithSidebarLogger(logger *log.Logger) SidebarOption {
	return func(s *MockSidebar) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPreset sets the initial filter preset name.
func WithPreset(name string) SidebarOption {
	return func(s *MockSidebar) {
		s.preset = name
	}
}

// WithScript adds a script predicate to every filter the sidebar applies.
func WithScript(script *filter.Script) SidebarOption {
	return func(s *MockSidebar) {
		s.script = script
	}
}

// NewMockSidebar creates a sidebar over host. toggler applies the on/off
// switches; it is usually the same data API the host reads from.
func NewMockSidebar(host *sidebar.Host, toggler Toggler, opts ...SidebarOption) *MockSidebar {
	s := &MockSidebar{
		title:   "Mocks",
		host:    host,
		toggler: toggler,
		keys:    keys.DefaultKeyMap(),
		seq:     keys.NewSequences(),
		menu:    NewContextMenu(),
		copy:    clipboard.WriteAll,
		logger:  log.New(io.Discard),
		ctx:     context.Background(),
		preset:  filter.PresetAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.preset != filter.PresetAll || s.script != nil {
		s.applyFilter()
	}
	return s
}

// Init initializes the component.
func (s *MockSidebar) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (s *MockSidebar) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
	case tui.FocusMsg:
		s.Focus()
	case tui.BlurMsg:
		s.Blur()
	case tui.RefreshMsg:
		s.Sync()
	case tea.KeyMsg:
		if !s.focused {
			return s, nil
		}
		cmd := s.handleKey(msg)
		s.Sync()
		return s, cmd
	case tea.MouseMsg:
		cmd := s.handleMouse(msg)
		s.Sync()
		return s, cmd
	}
	return s, nil
}

// Sync clamps the cursor after the list changed underneath it.
func (s *MockSidebar) Sync() {
	rows := s.Rows()
	s.cursor = MoveCursor(s.cursor, 0, len(rows))
	s.offset = AdjustOffset(s.cursor, s.offset, s.contentHeight())
}

// Rows returns the rows currently displayed.
func (s *MockSidebar) Rows() []core.Item {
	return VisibleRows(s.host.List())
}

func (s *MockSidebar) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s.mode {
	case keys.ModeSearch:
		return s.handleSearchKey(msg)
	case keys.ModeMenu:
		return s.handleMenuKey(msg)
	}

	if ev := keys.ListKey(msg); ev.Key != sidebar.KeyOther {
		s.seq.Reset()
		return s.runListKey(ev)
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		status, action := s.seq.Handle(string(msg.Runes))
		switch status {
		case keys.SequencePending:
			return nil
		case keys.SequenceComplete:
			return s.runAction(action)
		}
	} else {
		s.seq.Reset()
	}

	action, ok := s.keys.Find(keys.ModeNormal, msg)
	if !ok {
		return nil
	}
	return s.runAction(action)
}

func (s *MockSidebar) runListKey(ev sidebar.KeyEvent) tea.Cmd {
	cmd, err := s.host.OnKeyDown(s.ctx, ev)
	if err != nil {
		return s.fail(cmd.Name(), err)
	}
	switch cmd.(type) {
	case sidebar.DeleteSelected:
		return s.status("deleted selection")
	case sidebar.NoOp:
		return nil
	}
	return s.selectionChanged()
}

func (s *MockSidebar) runAction(action keys.Action) tea.Cmd {
	rows := s.Rows()

	switch action {
	case keys.ActionDown:
		s.moveCursor(1)
	case keys.ActionUp:
		s.moveCursor(-1)
	case keys.ActionTop:
		s.moveCursor(-len(rows))
	case keys.ActionBottom:
		s.moveCursor(len(rows))
	case keys.ActionSelect:
		return s.clickCursor(sidebar.Click{})
	case keys.ActionToggle:
		return s.clickCursor(sidebar.Click{Multiple: true})
	case keys.ActionRange:
		return s.clickCursor(sidebar.Click{Shift: true})
	case keys.ActionRangeDown:
		s.moveCursor(1)
		return s.clickCursor(sidebar.Click{Shift: true})
	case keys.ActionRangeUp:
		s.moveCursor(-1)
		return s.clickCursor(sidebar.Click{Shift: true})
	case keys.ActionExpand:
		return s.runListKey(sidebar.KeyEvent{Key: sidebar.KeyRight})
	case keys.ActionCollapse:
		return s.runListKey(sidebar.KeyEvent{Key: sidebar.KeyLeft})
	case keys.ActionSearch:
		s.mode = keys.ModeSearch
	case keys.ActionFilter:
		s.preset = filter.NextPreset(s.preset)
		s.applyFilter()
		return s.status("filter: " + s.preset)
	case keys.ActionToggleActive:
		return s.toggleActive()
	case keys.ActionMenu:
		s.openMenu(s.cursor)
	case keys.ActionCancel:
		if s.search != "" {
			s.search = ""
			s.applyFilter()
			return nil
		}
		s.host.ClearSelection()
		return s.selectionChanged()
	case keys.ActionQuit:
		return func() tea.Msg { return QuitMsg{} }
	}
	return nil
}

func (s *MockSidebar) moveCursor(delta int) {
	s.cursor = MoveCursor(s.cursor, delta, len(s.Rows()))
	s.offset = AdjustOffset(s.cursor, s.offset, s.contentHeight())
}

func (s *MockSidebar) clickCursor(click sidebar.Click) tea.Cmd {
	rows := s.Rows()
	if s.cursor < 0 || s.cursor >= len(rows) {
		return nil
	}
	s.host.OnItemClick(rows[s.cursor], click)
	return s.selectionChanged()
}

func (s *MockSidebar) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	if action, ok := s.keys.Find(keys.ModeSearch, msg); ok {
		switch action {
		case keys.ActionConfirm:
			s.mode = keys.ModeNormal
		case keys.ActionCancel:
			s.mode = keys.ModeNormal
			s.search = ""
			s.applyFilter()
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if len(s.search) > 0 {
			r := []rune(s.search)
			s.search = string(r[:len(r)-1])
			s.applyFilter()
		}
	case tea.KeyCtrlU:
		s.search = ""
		s.applyFilter()
	case tea.KeySpace:
		s.search += " "
		s.applyFilter()
	case tea.KeyRunes:
		s.search += string(msg.Runes)
		s.applyFilter()
	}
	return nil
}

// applyFilter hands the current query and predicates to the host, which
// clears the selection.
func (s *MockSidebar) applyFilter() {
	p, err := filter.Preset(s.preset)
	if err != nil {
		s.logger.Warn("unknown preset", "preset", s.preset)
		s.preset = filter.PresetAll
	}

	var scripted filter.Predicate
	if s.script != nil {
		scripted = s.script.Predicate()
	}

	s.host.SetFilter(sidebar.Filter{Query: s.search, Predicate: filter.And(p, scripted)})
	s.cursor = 0
	s.offset = 0
}

func (s *MockSidebar) toggleActive() tea.Cmd {
	rows := s.Rows()
	if s.cursor < 0 || s.cursor >= len(rows) {
		return nil
	}
	return s.toggleItems([]core.Item{rows[s.cursor]})
}

func (s *MockSidebar) toggleItems(items []core.Item) tea.Cmd {
	for _, it := range items {
		var err error
		if it.IsGroup() {
			err = s.toggler.ToggleGroup(s.ctx, it.ID())
		} else {
			err = s.toggler.ToggleMock(s.ctx, it.ID())
		}
		if err != nil {
			return s.fail("toggle", err)
		}
	}
	return nil
}

func (s *MockSidebar) openMenu(row int) {
	selection := s.host.SelectedItems()
	state := MenuState{
		HasSelection: len(selection) > 0,
		HasMocks:     len(selection.Mocks()) > 0,
		HasGroups:    len(selection.Groups()) > 0,
	}
	for _, m := range selection.Mocks() {
		if m.Grouped() {
			state.HasGrouped = true
			break
		}
	}
	s.menu.Open(state, row)
	s.mode = keys.ModeMenu
}

func (s *MockSidebar) closeMenu() {
	s.menu.Close()
	s.mode = keys.ModeNormal
}

func (s *MockSidebar) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	action, ok := s.keys.Find(keys.ModeMenu, msg)
	if !ok {
		return nil
	}
	switch action {
	case keys.ActionDown:
		s.menu.Move(1)
	case keys.ActionUp:
		s.menu.Move(-1)
	case keys.ActionCancel:
		s.closeMenu()
	case keys.ActionConfirm:
		entry, ok := s.menu.Selected()
		s.closeMenu()
		if ok {
			return s.runMenu(entry.Action)
		}
	}
	return nil
}

func (s *MockSidebar) runMenu(action MenuAction) tea.Cmd {
	selection := s.host.SelectedItems()

	switch action {
	case MenuExpandAll:
		if err := s.host.Apply(s.ctx, sidebar.ExpandGroups{IDs: GroupIDs(s.host.List())}); err != nil {
			return s.fail("expand", err)
		}
	case MenuCollapseAll:
		if err := s.host.Apply(s.ctx, sidebar.CollapseGroups{IDs: GroupIDs(s.host.List())}); err != nil {
			return s.fail("collapse", err)
		}
	case MenuToggleActive:
		return s.toggleItems(selection)
	case MenuCopyURLs:
		mocks := selection.Mocks()
		if err := s.copy(MockURLs(mocks)); err != nil {
			return s.fail("copy", err)
		}
		return s.status(fmt.Sprintf("copied %d URL(s)", len(mocks)))
	case MenuMoveToRoot:
		for _, m := range selection.Mocks() {
			if _, err := s.host.OnDrop(s.ctx, sidebar.DragPayload{ItemID: m.ID()}, sidebar.Root); err != nil {
				return s.fail("move", err)
			}
		}
	case MenuDelete:
		if err := s.host.Apply(s.ctx, sidebar.DeleteSelected{}); err != nil {
			return s.fail("delete", err)
		}
		return s.status(fmt.Sprintf("deleted %d item(s)", len(selection)))
	}
	return nil
}

// handleMouse expects coordinates relative to the sidebar's top-left corner.
func (s *MockSidebar) handleMouse(msg tea.MouseMsg) tea.Cmd {
	rows := s.Rows()
	idx := RowAt(msg.Y, rowsTop, s.offset, len(rows), s.contentHeight())
	click := sidebar.Click{Shift: msg.Shift, Multiple: msg.Ctrl || msg.Alt}

	if s.menu.Visible() && msg.Action == tea.MouseActionPress {
		s.closeMenu()
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		s.moveCursor(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		s.moveCursor(1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		if idx >= 0 {
			s.cursor = idx
			s.host.OnItemContextMenu(rows[idx])
		}
		s.openMenu(idx)
		return s.selectionChanged()

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		s.drag = nil
		if idx < 0 {
			return nil
		}
		s.cursor = idx
		s.drag = &drag{row: idx, item: rows[idx], mods: click, hover: idx}

	case msg.Action == tea.MouseActionMotion && s.drag != nil:
		if idx != s.drag.row && s.drag.item.IsMock() {
			s.drag.dragging = true
		}
		s.drag.hover = idx

	case msg.Action == tea.MouseActionRelease && s.drag != nil:
		d := s.drag
		s.drag = nil
		if d.dragging || (idx != d.row && d.item.IsMock()) {
			return s.drop(d.item, rows, idx)
		}
		s.host.OnItemClick(d.item, d.mods)
		return s.selectionChanged()
	}
	return nil
}

func (s *MockSidebar) drop(item core.Item, rows []core.Item, idx int) tea.Cmd {
	intent, err := s.host.OnDrop(s.ctx, sidebar.DragPayload{ItemID: item.ID()}, DropTargetsAt(rows, idx)...)
	if err != nil {
		return s.fail("move", err)
	}
	if set, ok := intent.(sidebar.SetGroup); ok {
		where := "root"
		if set.GroupID != "" {
			where = "group"
		}
		return s.status(fmt.Sprintf("moved %s to %s", item.Name(), where))
	}
	return nil
}

func (s *MockSidebar) selectionChanged() tea.Cmd {
	selection := s.host.SelectedItems()
	msg := SelectionChangedMsg{Count: len(selection)}
	if mocks := selection.Mocks(); len(mocks) > 0 {
		msg.First = mocks[0]
	}
	return func() tea.Msg { return msg }
}

func (s *MockSidebar) status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func (s *MockSidebar) fail(op string, err error) tea.Cmd {
	s.logger.Error("sidebar action failed", "op", op, "err", err)
	return func() tea.Msg { return StatusMsg{Text: op + " failed", Err: err} }
}

// contentHeight returns the number of row lines.
func (s *MockSidebar) contentHeight() int {
	h := s.height - rowsTop - 1
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the component.
func (s *MockSidebar) View() string {
	if s.width == 0 || s.height == 0 {
		return ""
	}

	innerWidth := s.width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	contentHeight := s.contentHeight()
	rows := s.Rows()

	parts := []string{
		s.renderSearchBar(innerWidth),
		tui.RenderTitle(s.headerText(), innerWidth, s.focused),
	}

	var lines []string
	for i := s.offset; i < len(rows) && len(lines) < contentHeight; i++ {
		lines = append(lines, s.renderRow(rows[i], i, innerWidth))
	}
	if len(rows) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render(tui.PadRight(" No mocks", innerWidth)))
	}
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", innerWidth))
	}

	if s.menu.Visible() {
		lines = s.overlayMenu(lines, innerWidth)
	}
	parts = append(parts, lines...)

	borderStyle := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
	if s.focused {
		borderStyle = borderStyle.BorderForeground(tui.ColorAccent)
	} else {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("244"))
	}
	return borderStyle.Render(strings.Join(parts, "\n"))
}

func (s *MockSidebar) headerText() string {
	text := s.title
	if s.preset != filter.PresetAll {
		text += " [" + s.preset + "]"
	}
	if n := len(s.host.SelectedItems()); n > 0 {
		text += fmt.Sprintf(" (%d selected)", n)
	}
	return text
}

func (s *MockSidebar) overlayMenu(lines []string, width int) []string {
	box := strings.Split(s.menu.View(width), "\n")
	start := s.menu.Row() - s.offset + 1
	if start < 0 {
		start = 0
	}
	if start+len(box) > len(lines) {
		start = len(lines) - len(box)
	}
	if start < 0 {
		start = 0
	}
	result := append([]string(nil), lines...)
	for i, l := range box {
		if start+i < len(result) {
			result[start+i] = l
		}
	}
	return result
}

func (s *MockSidebar) renderSearchBar(width int) string {
	var content string
	switch {
	case s.mode == keys.ModeSearch:
		content = "/ " + s.search + "▌"
	case s.search != "":
		content = "/ " + s.search
	default:
		content = "/ " + lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render("search...")
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if s.mode == keys.ModeSearch {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	}
	return style.Render(lipgloss.NewStyle().Width(width).MaxWidth(width).Render(content))
}

func (s *MockSidebar) renderRow(item core.Item, idx, width int) string {
	prefix := " "
	if idx == s.cursor {
		prefix = "→"
	}

	var line string
	if item.IsGroup() {
		indicator := "▼ "
		if !item.Group.Active() {
			indicator = "▶ "
		}
		line = prefix + indicator + item.Name() + fmt.Sprintf(" (%d)", len(item.Group.Mocks()))
	} else {
		indent := ""
		if item.Mock.Grouped() {
			indent = "  "
		}
		dot := "●"
		if !item.Mock.Active() {
			dot = "○"
		}
		label := item.Mock.URL()
		if item.Mock.Name() != "" {
			label = item.Mock.Name()
		}
		line = prefix + indent + dot + " " + fmt.Sprintf("%-6s", item.Mock.Method()) + " " + label
	}
	line = tui.PadRight(tui.Truncate(line, width), width)

	style := lipgloss.NewStyle()
	switch {
	case s.drag != nil && s.drag.dragging && idx == s.drag.hover:
		style = style.Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0"))
	case s.host.IsSelected(item):
		if s.focused {
			style = style.Background(tui.ColorAccent).Foreground(tui.ColorTitle)
		} else {
			style = style.Background(lipgloss.Color("238")).Foreground(lipgloss.Color("252"))
		}
	case item.IsMock() && !item.Mock.Active():
		style = style.Foreground(lipgloss.Color("243"))
	}
	return style.Render(line)
}

// Title returns the component title.
func (s *MockSidebar) Title() string {
	return s.title
}

// Focused returns true if the component is focused.
func (s *MockSidebar) Focused() bool {
	return s.focused
}

// Focus focuses the sidebar and arms list shortcuts.
func (s *MockSidebar) Focus() {
	s.focused = true
	s.host.SetArmed(true)
}

// Blur removes focus and disarms list shortcuts.
func (s *MockSidebar) Blur() {
	s.focused = false
	s.host.SetArmed(false)
	s.seq.Reset()
}

// SetSize sets the component dimensions.
func (s *MockSidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.offset = AdjustOffset(s.cursor, s.offset, s.contentHeight())
}

// Width returns the component width.
func (s *MockSidebar) Width() int {
	return s.width
}

// Height returns the component height.
func (s *MockSidebar) Height() int {
	return s.height
}

// Mode returns the input mode.
func (s *MockSidebar) Mode() keys.Mode {
	return s.mode
}

// Cursor returns the cursor row.
func (s *MockSidebar) Cursor() int {
	return s.cursor
}

// SearchQuery returns the current search text.
func (s *MockSidebar) SearchQuery() string {
	return s.search
}

// Preset returns the active filter preset.
func (s *MockSidebar) Preset() string {
	return s.preset
}

// Menu returns the context menu.
func (s *MockSidebar) Menu() *ContextMenu {
	return s.menu
}

// Host returns the selection host.
func (s *MockSidebar) Host() *sidebar.Host {
	return s.host
}

// Help returns the key hints for the current mode.
func (s *MockSidebar) Help() string {
	return s.keys.Help(s.mode)
}
