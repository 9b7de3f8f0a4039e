package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notice levels
const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice is a user-visible message
type Notice struct {
	Level   string
	Message string
}

// Surface receives rendered view models. Calls are made while the controller lock
// is held, so implementations must not call back into the Controller.
type Surface interface {
	RenderCounties(CountyFilterView)
	RenderList(ListView)
	RenderStats(StatsView)
	RenderMap(MapView)
	RenderModals(ModalView)
	Notify(Notice)
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithNoteTakers sets the names offered in the note modal
func WithNoteTakers(names []string) Option {
	return func(c *Controller) { c.noteTakers = append([]string(nil), names...) }
}

// WithClock sets the clock used for locally stamped note entries
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.store.now = now }
}

// WithStaleMapHook registers a callback run whenever a superseded map response is dropped
func WithStaleMapHook(hook func()) Option {
	return func(c *Controller) { c.onStaleMap = hook }
}

// Controller owns the filter state and the organization store of one dashboard
// and keeps the list, statistics and map views consistent with them.
type Controller struct {
	mu         sync.Mutex
	backend    Backend
	surface    Surface
	logger     *zap.Logger
	store      *Store
	filter     *FilterState
	modals     ModalState
	counties   []string
	noteTakers []string

	generation uint64 // last issued map request
	accepted   uint64 // last map document handed to the surface
	ready      uint64 // last generation reported ready by the map document
	onStaleMap func()
}

// NewController returns a controller rendering to surface
func NewController(backend Backend, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		surface: surface,
		logger:  zap.NewNop(),
		store:   NewStore(),
		filter:  NewFilterState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads counties, selects all of them, then loads both organization
// collections and renders every view. Fetch failures are logged and leave the
// affected collection empty.
func (c *Controller) Start(ctx context.Context) {
	counties, err := c.backend.Counties(ctx)
	if err != nil {
		c.logger.Error("Failed to load counties", zap.Error(err))
	}

	c.mu.Lock()
	c.counties = counties
	c.filter.SelectAllCounties(counties)
	c.renderCounties()
	c.mu.Unlock()

	var withLoc, withoutLoc []model.Organization
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orgs, err := c.backend.Organizations(gctx)
		if err != nil {
			c.logger.Error("Failed to load organizations", zap.Error(err))
			return nil
		}
		withLoc = orgs
		return nil
	})
	g.Go(func() error {
		orgs, err := c.backend.OrganizationsWithoutLocation(gctx)
		if err != nil {
			c.logger.Error("Failed to load organizations without location", zap.Error(err))
			return nil
		}
		withoutLoc = orgs
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	c.store.LoadAll(withLoc, withoutLoc)
	c.mu.Unlock()

	c.logger.Info("Dashboard loaded",
		zap.Int("counties", len(counties)),
		zap.Int("with_location", len(withLoc)),
		zap.Int("without_location", len(withoutLoc)))
	c.Refresh(ctx)
}

// ToggleCounty includes or excludes one county
func (c *Controller) ToggleCounty(ctx context.Context, name string, included bool) {
	c.mutateFilter(ctx, func(f *FilterState) { f.ToggleCounty(name, included) })
}

// SetCounties replaces the county selection
func (c *Controller) SetCounties(ctx context.Context, names []string) {
	c.mutateFilter(ctx, func(f *FilterState) { f.SetCounties(names) })
}

// SelectAllCounties selects every known county
func (c *Controller) SelectAllCounties(ctx context.Context) {
	c.mutateFilter(ctx, func(f *FilterState) { f.SelectAllCounties(c.counties) })
}

// ClearCounties deselects every county
func (c *Controller) ClearCounties(ctx context.Context) {
	c.mutateFilter(ctx, func(f *FilterState) { f.ClearCounties() })
}

// SetStatus sets the status bucket filter; an empty bucket shows all statuses
func (c *Controller) SetStatus(ctx context.Context, bucket model.StatusBucket) {
	c.mutateFilter(ctx, func(f *FilterState) { f.SetStatus(bucket) })
}

// SetSearch sets the search text
func (c *Controller) SetSearch(ctx context.Context, text string) {
	c.mutateFilter(ctx, func(f *FilterState) { f.SetSearch(text) })
}

func (c *Controller) mutateFilter(ctx context.Context, fn func(*FilterState)) {
	c.mu.Lock()
	fn(c.filter)
	c.renderCounties()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// ChangeStatus sends a status change to the backend and merges the authoritative record.
// On failure the store and the modals are left as they were.
func (c *Controller) ChangeStatus(ctx context.Context, id int, status string) {
	c.commitStatus(ctx, id, status, "")
}

// MarkDone sets the status to "done"
func (c *Controller) MarkDone(ctx context.Context, id int) {
	c.commitStatus(ctx, id, "done", "Organization marked as done!")
}

func (c *Controller) commitStatus(ctx context.Context, id int, status, success string) {
	patch, err := c.backend.UpdateStatus(ctx, id, model.StatusUpdateRequest{Status: model.StringPtr(status)})
	if err != nil {
		c.logger.Error("Error changing status", zap.Int("org_id", id), zap.String("status", status), zap.Error(err))
		c.notify(Notice{Level: NoticeError, Message: "Error updating status"})
		return
	}

	c.mu.Lock()
	if err := c.store.MergeUpdate(id, patch, Mutation{Kind: StatusMutation, Status: status}); err != nil {
		c.logger.Warn("Status update not merged", zap.Int("org_id", id), zap.Error(err))
	}
	c.modals.CloseAll()
	c.renderModals()
	if success != "" {
		c.surface.Notify(Notice{Level: NoticeInfo, Message: success})
	}
	c.mu.Unlock()

	c.Refresh(ctx)
}

// SaveNote sends a note and its author to the backend without touching the status.
// The note modal closes only on success.
func (c *Controller) SaveNote(ctx context.Context, id int, text, noteTaker string) {
	req := model.StatusUpdateRequest{Notes: model.StringPtr(text), NoteTaker: model.StringPtr(noteTaker)}
	patch, err := c.backend.UpdateStatus(ctx, id, req)
	if err != nil {
		c.logger.Error("Error saving note", zap.Int("org_id", id), zap.Error(err))
		c.notify(Notice{Level: NoticeError, Message: "Error saving note"})
		return
	}

	c.mu.Lock()
	fallback := Mutation{Kind: NoteMutation, Note: text, NoteTaker: noteTaker}
	if err := c.store.MergeUpdate(id, patch, fallback); err != nil {
		c.logger.Warn("Note not merged", zap.Int("org_id", id), zap.Error(err))
	}
	c.modals.CloseNote()
	c.renderModals()
	c.surface.Notify(Notice{Level: NoticeInfo, Message: "Note saved successfully!"})
	c.mu.Unlock()

	c.Refresh(ctx)
}

// OpenDetails opens the detail modal. Unknown ids are logged and ignored.
func (c *Controller) OpenDetails(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.FindByID(id); !ok {
		c.logger.Warn("Organization not found", zap.Int("org_id", id))
		return
	}
	c.modals.OpenDetail(id)
	c.renderModals()
}

// OpenNote opens the note modal. Unknown ids are ignored.
func (c *Controller) OpenNote(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.FindByID(id); !ok {
		c.logger.Warn("Organization not found", zap.Int("org_id", id))
		return
	}
	c.modals.OpenNote(id)
	c.renderModals()
}

// CloseDetails closes the detail modal
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.CloseDetail()
	c.renderModals()
}

// CloseNote closes the note modal
func (c *Controller) CloseNote() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.CloseNote()
	c.renderModals()
}

// CloseAll closes both modals
func (c *Controller) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.CloseAll()
	c.renderModals()
}

// HandleMessage honors a message posted by the map document
func (c *Controller) HandleMessage(msg Message) {
	switch msg.Type {
	case MessageOpenOrgModal:
		c.OpenDetails(msg.OrgID)
	case MessageMapReady:
		c.mu.Lock()
		if msg.Generation > c.ready {
			c.ready = msg.Generation
		}
		c.mu.Unlock()
		c.logger.Debug("Map ready", zap.Uint64("generation", msg.Generation))
	default:
		c.logger.Warn("Ignoring message", zap.String("type", msg.Type))
	}
}

// Refresh re-renders the list and the statistics, then fetches a new map document.
// A map response is rendered only if no newer fetch was issued meanwhile.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	visible := ComputeVisible(c.store, c.filter)
	c.surface.RenderList(BuildListView(visible.WithoutLocation))
	c.surface.RenderStats(BuildStatsView(ComputeStats(c.store, c.filter), c.filter.Status()))
	c.renderModals()
	c.generation++
	query := MapQuery{
		Counties:           c.filter.Counties(),
		CountiesRestricted: len(c.counties) > 0,
		Status:             c.filter.Status(),
		Search:             c.filter.Search(),
		Generation:         c.generation,
	}
	c.mu.Unlock()

	doc, err := c.backend.MapDocument(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if query.Generation != c.generation {
		c.logger.Debug("Discarding stale map",
			zap.Uint64("generation", query.Generation), zap.Uint64("latest", c.generation))
		if c.onStaleMap != nil {
			c.onStaleMap()
		}
		return
	}
	if err != nil {
		c.logger.Error("Error loading map", zap.Error(err))
		return
	}
	c.accepted = query.Generation
	c.surface.RenderMap(MapView{Generation: query.Generation, Query: query, Document: doc})
}

// Organization returns the stored organization with the given id
func (c *Controller) Organization(id int) (model.Organization, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.FindByID(id)
}

// Visible returns the current filtered view
func (c *Controller) Visible() Visible {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeVisible(c.store, c.filter)
}

// Stats returns the current counters
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeStats(c.store, c.filter)
}

// Filter returns a copy of the filter state
func (c *Controller) Filter() *FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

// Modals returns the modal state
func (c *Controller) Modals() ModalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals
}

// MapGenerations returns the last issued, accepted and ready map generations
func (c *Controller) MapGenerations() (issued, accepted, ready uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.accepted, c.ready
}

func (c *Controller) notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.Notify(n)
}

func (c *Controller) renderCounties() {
	c.surface.RenderCounties(BuildCountyFilterView(c.counties, c.filter))
}

func (c *Controller) renderModals() {
	var view ModalView
	if id, ok := c.modals.Detail(); ok {
		if org, found := c.store.FindByID(id); found {
			d := BuildDetailView(org)
			view.Detail = &d
		}
	}
	if id, ok := c.modals.Note(); ok {
		if org, found := c.store.FindByID(id); found {
			n := BuildNoteModalView(org, c.noteTakers)
			view.Note = &n
		}
	}
	c.surface.RenderModals(view)
}
