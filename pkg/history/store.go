package history

import (
	"sort"
	"sync"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when an id matches no stored record.
var ErrNotFound = errors.New("not found")

// Store is the in-memory record set shared by the CLI and the API server.
// It is safe for concurrent use; Flush persists it when a path is set.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
	path string
	now  func() time.Time

	// flushMu orders saves so an older snapshot never replaces a newer one.
	flushMu sync.Mutex
}

// ConsultantSummary aggregates one consultant's record.
type ConsultantSummary struct {
	ConsultantName   string    `json:"consultant_name"`
	Evaluations      int       `json:"evaluations"`
	AverageScore     float64   `json:"average_score"`
	CriticalFailures int       `json:"critical_failures"`
	OpenActionItems  int       `json:"open_action_items"`
	LastEvaluation   time.Time `json:"last_evaluation"`
}

// NewStore wraps snap. An empty path keeps the store memory-only.
func NewStore(snap Snapshot, path string, now func() time.Time) (store *Store) {
	if now == nil {
		now = time.Now
	}
	store = &Store{
		snap: snap,
		path: path,
		now:  now,
	}
	return store
}

// Open loads the snapshot at path into a new store.
func Open(path string) (store *Store, err error) {
	var snap Snapshot
	snap, err = Load(path)
	if err != nil {
		return store, err
	}

	store = NewStore(snap, path, nil)
	return store, err
}

// Flush saves the store to its path.
func (s *Store) Flush() (err error) {
	if s.path == "" {
		return err
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()

	err = Save(s.path, snap)
	return err
}

// Snapshot returns a copy of the stored records.
func (s *Store) Snapshot() (snap Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap = s.snapshotLocked()
	return snap
}

func (s *Store) snapshotLocked() (snap Snapshot) {
	snap = Snapshot{
		Evaluations: append(make([]evaluation.Evaluation, 0, len(s.snap.Evaluations)), s.snap.Evaluations...),
		ActionItems: append(make([]evaluation.ActionItem, 0, len(s.snap.ActionItems)), s.snap.ActionItems...),
		UpdatedAt:   s.snap.UpdatedAt,
		Version:     s.snap.Version,
	}
	return snap
}

// Append adds a batch of evaluations and their action items.
func (s *Store) Append(evs []evaluation.Evaluation, items []evaluation.ActionItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Evaluations = append(s.snap.Evaluations, evs...)
	s.snap.ActionItems = append(s.snap.ActionItems, items...)
	s.snap.UpdatedAt = s.now()
}

// Ingest runs build against every stored evaluation and appends what it
// returns, holding the write lock throughout so concurrent batches each see
// the records of the ones before them. build must not call back into the store.
// Nothing is appended when build fails.
func (s *Store) Ingest(build func(history []evaluation.Evaluation) (evs []evaluation.Evaluation, items []evaluation.ActionItem, err error)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(make([]evaluation.Evaluation, 0, len(s.snap.Evaluations)), s.snap.Evaluations...)

	var evs []evaluation.Evaluation
	var items []evaluation.ActionItem
	evs, items, err = build(history)
	if err != nil {
		return err
	}

	s.snap.Evaluations = append(s.snap.Evaluations, evs...)
	s.snap.ActionItems = append(s.snap.ActionItems, items...)
	s.snap.UpdatedAt = s.now()

	return err
}

// AddActionItem stores a manually created action item.
func (s *Store) AddActionItem(item evaluation.ActionItem) {
	s.Append(nil, []evaluation.ActionItem{item})
}

// Evaluations lists evaluations, optionally for one consultant, newest first.
func (s *Store) Evaluations(consultant string) (evs []evaluation.Evaluation) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if consultant == "" {
		evs = append(make([]evaluation.Evaluation, 0, len(s.snap.Evaluations)), s.snap.Evaluations...)
	} else {
		evs = s.snap.ForConsultant(consultant)
	}

	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Date.After(evs[j].Date)
	})

	return evs
}

// Evaluation looks up one evaluation by id.
func (s *Store) Evaluation(id string) (ev evaluation.Evaluation, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.snap.Evaluations {
		if stored.ID == id {
			ev = stored
			return ev, err
		}
	}

	err = errors.Wrapf(ErrNotFound, "evaluation %s", id)
	return ev, err
}

// ActionItems lists action items, optionally for one consultant, by deadline.
func (s *Store) ActionItems(consultant string) (items []evaluation.ActionItem) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items = make([]evaluation.ActionItem, 0)
	for _, item := range s.snap.ActionItems {
		if consultant == "" || item.ConsultantName == consultant {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Deadline.Before(items[j].Deadline)
	})

	return items
}

// UpdateActionStatus moves an action item to any of the known statuses.
func (s *Store) UpdateActionStatus(id string, status string) (item evaluation.ActionItem, err error) {
	parsed, ok := evaluation.ParseActionStatus(status)
	if !ok {
		err = errors.Errorf("unknown action status: %q", status)
		return item, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.ActionItems {
		if s.snap.ActionItems[i].ID == id {
			s.snap.ActionItems[i].Status = parsed
			s.snap.UpdatedAt = s.now()
			item = s.snap.ActionItems[i]
			return item, err
		}
	}

	err = errors.Wrapf(ErrNotFound, "action item %s", id)
	return item, err
}

// Acknowledge records that the consultant has seen the feedback.
func (s *Store) Acknowledge(id string) (ev evaluation.Evaluation, err error) {
	err = s.updateEvaluation(id, func(stored *evaluation.Evaluation) {
		at := s.now()
		stored.FeedbackStatus = evaluation.FeedbackAcknowledged
		stored.AcknowledgedAt = &at
	}, &ev)
	return ev, err
}

// UpdateWorkflowStatus moves an evaluation to another review stage.
func (s *Store) UpdateWorkflowStatus(id string, status string) (ev evaluation.Evaluation, err error) {
	if !evaluation.KnownWorkflowStatus(status) {
		err = errors.Errorf("unknown workflow status: %q", status)
		return ev, err
	}

	err = s.updateEvaluation(id, func(stored *evaluation.Evaluation) {
		stored.Status = evaluation.WorkflowStatus(status)
	}, &ev)
	return ev, err
}

// SetAIFeedback stores generated feedback text on an evaluation.
func (s *Store) SetAIFeedback(id string, text string) (ev evaluation.Evaluation, err error) {
	err = s.updateEvaluation(id, func(stored *evaluation.Evaluation) {
		stored.AIFeedback = text
	}, &ev)
	return ev, err
}

func (s *Store) updateEvaluation(id string, mutate func(stored *evaluation.Evaluation), out *evaluation.Evaluation) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Evaluations {
		if s.snap.Evaluations[i].ID == id {
			mutate(&s.snap.Evaluations[i])
			s.snap.UpdatedAt = s.now()
			*out = s.snap.Evaluations[i]
			return err
		}
	}

	err = errors.Wrapf(ErrNotFound, "evaluation %s", id)
	return err
}

// Summaries aggregates every consultant's record, sorted by name.
func (s *Store) Summaries() (summaries []ConsultantSummary) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName := make(map[string]*ConsultantSummary)
	get := func(name string) *ConsultantSummary {
		summary, ok := byName[name]
		if !ok {
			summary = &ConsultantSummary{ConsultantName: name}
			byName[name] = summary
		}
		return summary
	}

	totals := make(map[string]float64)
	for _, ev := range s.snap.Evaluations {
		summary := get(ev.ConsultantName)
		summary.Evaluations++
		totals[ev.ConsultantName] += ev.FinalScore
		if ev.HasCriticalFailure {
			summary.CriticalFailures++
		}
		if ev.Date.After(summary.LastEvaluation) {
			summary.LastEvaluation = ev.Date
		}
	}
	for _, item := range s.snap.ActionItems {
		if item.Status != evaluation.ActionDone {
			get(item.ConsultantName).OpenActionItems++
		}
	}

	summaries = make([]ConsultantSummary, 0, len(byName))
	for name, summary := range byName {
		if summary.Evaluations > 0 {
			summary.AverageScore = totals[name] / float64(summary.Evaluations)
		}
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ConsultantName < summaries[j].ConsultantName
	})

	return summaries
}
