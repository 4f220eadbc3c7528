// Package daemon provides the long-running background budget monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Months       int
	Category     string
	Account      string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Heuristics   analytics.Heuristics
}

// Snapshot is a compact analytics state for status/event payloads.
type Snapshot struct {
	At            time.Time `json:"at"`
	Expenses      int       `json:"expenses"`
	TotalSpent    float64   `json:"total_spent"`
	MonthSpent    float64   `json:"month_spent"`
	ActiveBudgets int       `json:"active_budgets"`
	TotalBudgeted float64   `json:"total_budgeted"`
	OverBudget    int       `json:"over_budget"`
	TopCategory   string    `json:"top_category,omitempty"`
	Insights      int       `json:"insights"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Expenses   int     `json:"expenses"`
	TotalSpent float64 `json:"total_spent"`
	OverBudget int     `json:"over_budget"`
	Insights   int     `json:"insights"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.TotalSpent == 0 &&
		d.OverBudget == 0 &&
		d.Insights == 0
}

// Event is emitted whenever the analytics snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Months          int       `json:"months"`
	CategoryFilter  string    `json:"category_filter,omitempty"`
	AccountFilter   string    `json:"account_filter,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// budgetPayload is the wire shape served at /v1/budgets.
type budgetPayload struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Budget      float64 `json:"budget"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
	Status      string  `json:"status"`
	Matching    int     `json:"matching"`
}

// insightPayload is the wire shape served at /v1/insights.
type insightPayload struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Priority   string    `json:"priority"`
	Actionable bool      `json:"actionable"`
	ActionRef  string    `json:"action_ref,omitempty"`
	At         time.Time `json:"at"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	db  *store.Store

	mu           sync.RWMutex
	startedAt    time.Time
	lastPollAt   time.Time
	pollCount    int64
	lastError    string
	lastRevision string
	hasSnapshot  bool
	snapshot     Snapshot
	budgets      []budgetPayload
	insights     []insightPayload
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, db *store.Store) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Months < 1 {
		cfg.Months = 6
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	return &Service{
		cfg:       cfg,
		db:        db,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/budgets", s.handleBudgets)
	mux.HandleFunc("/v1/insights", s.handleInsights)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := time.Now()

	revision, err := s.db.Revision()
	if err != nil {
		s.recordPollError(now, err)
		return
	}

	s.mu.RLock()
	unchanged := s.hasSnapshot && revision == s.lastRevision
	s.mu.RUnlock()
	if unchanged {
		s.mu.Lock()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		return
	}

	expenses, err := s.db.ListExpenses()
	if err != nil {
		s.recordPollError(now, err)
		return
	}
	budgets, err := s.db.ListBudgets()
	if err != nil {
		s.recordPollError(now, err)
		return
	}

	if s.cfg.Category != "" {
		expenses = analytics.FilterByCategory(expenses, s.cfg.Category)
	}
	if s.cfg.Account != "" {
		expenses = analytics.FilterByAccount(expenses, s.cfg.Account)
	}

	window := analytics.LastNMonths(now, s.cfg.Months)
	windowed := analytics.FilterByWindow(expenses, window)
	monthly := analytics.FilterByWindow(expenses, analytics.ThisMonth(now))

	portfolio := analytics.Portfolio(budgets, expenses, now)
	statuses := analytics.EvaluateAll(budgets, expenses, now)
	insights := s.cfg.Heuristics.Generate(windowed, budgets, now)

	snap := Snapshot{
		At:            now,
		Expenses:      len(windowed),
		TotalSpent:    analytics.TotalSpent(windowed),
		MonthSpent:    analytics.TotalSpent(monthly),
		ActiveBudgets: portfolio.ActiveBudgets,
		TotalBudgeted: portfolio.TotalBudgeted,
		OverBudget:    portfolio.OverBudget,
		Insights:      len(insights),
	}
	if top := analytics.CategoryTotals(windowed); len(top) > 0 {
		snap.TopCategory = top[0].Category
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.budgets = budgetPayloads(statuses)
	s.insights = insightPayloads(insights)
	s.lastRevision = revision
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     Delta{},
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "records_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) recordPollError(at time.Time, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = at
	s.pollCount++
	s.mu.Unlock()
	log.Printf("aifinacker daemon poll error: %v", err)
}

func budgetPayloads(statuses []model.BudgetStatus) []budgetPayload {
	out := make([]budgetPayload, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, budgetPayload{
			Name:        st.Budget.Name,
			Category:    st.Budget.Category,
			Budget:      st.Budget.Amount,
			Spent:       st.Spent,
			Remaining:   st.Remaining,
			PercentUsed: st.PercentUsed,
			Status:      st.Status.String(),
			Matching:    len(st.Matching),
		})
	}
	return out
}

func insightPayloads(insights []model.InsightRecord) []insightPayload {
	out := make([]insightPayload, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightPayload{
			ID:         in.ID,
			Type:       string(in.Type),
			Title:      in.Title,
			Message:    in.Message,
			Priority:   in.Priority.String(),
			Actionable: in.Actionable,
			ActionRef:  in.ActionRef,
			At:         in.At,
		})
	}
	return out
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses:   curr.Expenses - prev.Expenses,
		TotalSpent: curr.TotalSpent - prev.TotalSpent,
		OverBudget: curr.OverBudget - prev.OverBudget,
		Insights:   curr.Insights - prev.Insights,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Months:          s.cfg.Months,
		CategoryFilter:  s.cfg.Category,
		AccountFilter:   s.cfg.Account,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleBudgets(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	budgets := make([]budgetPayload, len(s.budgets))
	copy(budgets, s.budgets)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(budgets)
}

func (s *Service) handleInsights(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	insights := make([]insightPayload, len(s.insights))
	copy(insights, s.insights)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(insights)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
