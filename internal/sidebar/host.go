package sidebar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/mockapi"
	"github.com/charmbracelet/log"
)

// Source is the data API the host reads from and applies intents to.
type Source interface {
	Groups() []*core.Group
	Mocks() []*core.Mock
	Mock(id string) (*core.Mock, bool)
	SetMockGroup(ctx context.Context, mockID, groupID string) error
	SetGroupActive(ctx context.Context, id string, active bool) error
	DeleteItems(ctx context.Context, mockIDs, groupIDs []string) error
	On(event mockapi.Event, handler mockapi.Handler) mockapi.Subscription
	Off(sub mockapi.Subscription)
}

var _ Source = (*mockapi.API)(nil)

// Host owns the selection and focus state of one sidebar and keeps its
// linear list in sync with the data API.
type Host struct {
	source    Source
	scheduler Scheduler
	logger    *log.Logger
	strict    bool
	onRefresh func()

	mu        sync.Mutex
	filter    Filter
	list      LinearList
	selection SelectionSet
	armed     bool
	pending   bool
	active    bool
	subs      []mockapi.Subscription
	refreshes int
}

// Option configures a Host.
type Option func(*Host)

// WithScheduler sets how coalesced refreshes are deferred.
func WithScheduler(s Scheduler) Option {
	return func(h *Host) {
		if s != nil {
			h.scheduler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithStrict makes unknown commands panic instead of being logged.
func WithStrict(strict bool) Option {
	return func(h *Host) {
		h.strict = strict
	}
}

// WithFilter sets the initial filter.
func WithFilter(f Filter) Option {
	return func(h *Host) {
		h.filter = f
	}
}

// WithRefreshHook registers fn to run after every refresh.
func WithRefreshHook(fn func()) Option {
	return func(h *Host) {
		h.onRefresh = fn
	}
}

// NewHost creates a host over source. Call Activate to start listening.
func NewHost(source Source, opts ...Option) *Host {
	h := &Host{
		source:    source,
		scheduler: Immediate,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.list = LinearizeAll(source.Groups(), source.Mocks(), h.filter)
	return h
}

// Activate subscribes to mock and group changes and refreshes once.
// Calling it again while active does nothing.
func (h *Host) Activate() {
	h.mu.Lock()
	if h.active {
		h.mu.Unlock()
		return
	}
	h.active = true
	h.mu.Unlock()

	subs := []mockapi.Subscription{
		h.source.On(mockapi.EventUpdateMock, h.notify),
		h.source.On(mockapi.EventUpdateGroup, h.notify),
	}

	h.mu.Lock()
	h.subs = subs
	h.mu.Unlock()

	h.Refresh()
}

// Close unsubscribes from the data API. It is safe to call more than once.
func (h *Host) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.active = false
	h.pending = false
	h.mu.Unlock()

	for _, sub := range subs {
		h.source.Off(sub)
	}
}

// Active reports whether the host is subscribed.
func (h *Host) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// notify coalesces change notifications: only the first one before the
// deferred refresh runs schedules it.
func (h *Host) notify(change mockapi.Change) {
	h.mu.Lock()
	if !h.active || h.pending {
		h.mu.Unlock()
		return
	}
	h.pending = true
	h.mu.Unlock()

	h.logger.Debug("refresh scheduled", "event", change.Event, "id", change.ID)
	h.scheduler.Defer(h.deferredRefresh)
}

func (h *Host) deferredRefresh() {
	h.mu.Lock()
	if !h.pending {
		h.mu.Unlock()
		return
	}
	h.pending = false
	h.mu.Unlock()

	h.Refresh()
}

// Pending reports whether a refresh has been scheduled but not yet run.
func (h *Host) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}

// Refresh rebuilds the list from the data API and drops selected items that
// no longer exist, swapping the rest for their current records.
func (h *Host) Refresh() {
	groups := h.source.Groups()
	mocks := h.source.Mocks()

	h.mu.Lock()
	h.list = LinearizeAll(groups, mocks, h.filter)
	h.selection = pruneSelection(h.selection, groups, mocks)
	h.refreshes++
	hook := h.onRefresh
	h.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Refreshes returns how many refreshes have run.
func (h *Host) Refreshes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refreshes
}

func pruneSelection(selection SelectionSet, groups []*core.Group, mocks []*core.Mock) SelectionSet {
	if len(selection) == 0 {
		return selection
	}

	groupsByID := make(map[string]*core.Group, len(groups))
	for _, g := range groups {
		groupsByID[g.ID()] = g
	}
	mocksByID := make(map[string]*core.Mock, len(mocks))
	for _, m := range mocks {
		mocksByID[m.ID()] = m
	}

	result := make(SelectionSet, 0, len(selection))
	for _, it := range selection {
		switch it.Kind {
		case core.KindGroup:
			if g, ok := groupsByID[it.ID()]; ok {
				result = append(result, core.GroupItem(g))
			}
		case core.KindMock:
			if m, ok := mocksByID[it.ID()]; ok {
				result = append(result, core.MockItem(m))
			}
		}
	}
	return result
}

// Filter returns the current filter.
func (h *Host) Filter() Filter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter
}

// SetFilter replaces the filter, rebuilds the list and clears the selection.
func (h *Host) SetFilter(f Filter) {
	groups := h.source.Groups()
	mocks := h.source.Mocks()

	h.mu.Lock()
	h.filter = f
	h.list = LinearizeAll(groups, mocks, f)
	h.selection = nil
	h.mu.Unlock()
}

// List returns the current linear list.
func (h *Host) List() LinearList {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list
}

// SelectedItems returns the current selection.
func (h *Host) SelectedItems() SelectionSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selection
}

// SelectedMocks returns the selected mocks.
func (h *Host) SelectedMocks() []*core.Mock {
	return h.SelectedItems().Mocks()
}

// SelectedGroups returns the selected groups.
func (h *Host) SelectedGroups() []*core.Group {
	return h.SelectedItems().Groups()
}

// HasSelection reports whether anything is selected.
func (h *Host) HasSelection() bool {
	return len(h.SelectedItems()) > 0
}

// HasMultipleSelection reports whether more than one item is selected.
func (h *Host) HasMultipleSelection() bool {
	return len(h.SelectedItems()) > 1
}

// IsSelected reports whether item is selected.
func (h *Host) IsSelected(item core.Item) bool {
	return h.SelectedItems().Contains(item)
}

// Armed reports whether list shortcuts are active.
func (h *Host) Armed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.armed
}

// SetArmed sets the focus state directly.
func (h *Host) SetArmed(armed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.armed = armed
}

// Select replaces the selection.
func (h *Host) Select(items ...core.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = append(SelectionSet(nil), items...)
}

// ClearSelection empties the selection.
func (h *Host) ClearSelection() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = nil
}

// OnItemClick applies a primary click on item.
func (h *Host) OnItemClick(item core.Item, click Click) SelectionSet {
	return h.resolve(click, item)
}

// OnItemContextMenu applies a secondary click on item.
func (h *Host) OnItemContextMenu(item core.Item) SelectionSet {
	return h.resolve(ContextClick{}, item)
}

func (h *Host) resolve(event Event, item core.Item) SelectionSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = Resolve(event, item, h.selection, h.list)
	return h.selection
}

// OnPointer arms the host when target lies inside container and disarms it
// otherwise.
func (h *Host) OnPointer(target, container Element) bool {
	armed := HandlePointer(target, container)
	h.SetArmed(armed)
	return armed
}

// OnKeyDown resolves a key press and applies the resulting command.
func (h *Host) OnKeyDown(ctx context.Context, ev KeyEvent) (Command, error) {
	h.mu.Lock()
	cmd := HandleKey(ev, h.armed, h.selection)
	h.mu.Unlock()

	return cmd, h.Apply(ctx, cmd)
}

// OnDrop resolves a drop against targets, innermost first, and applies it.
func (h *Host) OnDrop(ctx context.Context, payload DragPayload, targets ...DropTarget) (Intent, error) {
	if len(targets) == 0 {
		targets = []DropTarget{Root}
	}

	intent := ResolveDropChain(payload, targets, h.source.Mock)
	set, ok := intent.(SetGroup)
	if !ok {
		return intent, nil
	}

	h.logger.Debug("drop", "mock", set.MockID, "group", set.GroupID)
	if err := h.source.SetMockGroup(ctx, set.MockID, set.GroupID); err != nil {
		return intent, fmt.Errorf("move mock %s: %w", set.MockID, err)
	}
	return intent, nil
}

// Apply executes a command against the data API.
func (h *Host) Apply(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case nil, NoOp:
		return nil

	case DeleteSelected:
		selection := h.SelectedItems()
		if len(selection) == 0 {
			return nil
		}
		var mockIDs []string
		for _, m := range selection.Mocks() {
			mockIDs = append(mockIDs, m.ID())
		}
		if err := h.source.DeleteItems(ctx, mockIDs, selection.GroupIDs()); err != nil {
			return fmt.Errorf("delete selection: %w", err)
		}
		h.ClearSelection()
		return nil

	case ExpandGroups:
		return h.setGroupsActive(ctx, c.IDs, true)

	case CollapseGroups:
		return h.setGroupsActive(ctx, c.IDs, false)
	}

	if h.strict {
		panic(fmt.Sprintf("sidebar: unknown command %q (%T)", cmd.Name(), cmd))
	}
	h.logger.Warn("ignoring unknown command", "command", cmd.Name())
	return nil
}

func (h *Host) setGroupsActive(ctx context.Context, ids []string, active bool) error {
	var errs []error
	for _, id := range ids {
		if err := h.source.SetGroupActive(ctx, id, active); err != nil {
			errs = append(errs, fmt.Errorf("group %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
