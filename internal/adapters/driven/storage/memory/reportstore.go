// Package memory provides in-memory store implementations.
// Used for tests and ephemeral runs; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// ReportStore is an in-memory implementation of driven.ReportStore.
type ReportStore struct {
	mu      sync.Mutex
	reports map[string]*domain.ReportState
}

var _ driven.ReportStore = (*ReportStore)(nil)

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*domain.ReportState),
	}
}

// Save stores or updates a report state.
func (s *ReportStore) Save(_ context.Context, state *domain.ReportState) error {
	if state == nil || state.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Lock columns belong to AcquireLock/ReleaseLock; preserve them.
	copied := cloneReport(state)
	if existing, ok := s.reports[state.ID]; ok {
		copied.LockOwner = existing.LockOwner
		copied.LockExpiry = existing.LockExpiry
	} else {
		copied.LockOwner = ""
		copied.LockExpiry = time.Time{}
	}
	s.reports[state.ID] = copied
	return nil
}

// Get retrieves a report state by ID.
func (s *ReportStore) Get(_ context.Context, id string) (*domain.ReportState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneReport(state), nil
}

// List returns report states for an organisation, most recent first.
func (s *ReportStore) List(_ context.Context, orgID string) ([]domain.ReportState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ReportState //nolint:prealloc // filtered below
	for _, state := range s.reports {
		if state.OrgID == orgID {
			out = append(out, *cloneReport(state))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a report state.
func (s *ReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reports, id)
	return nil
}

// AcquireLock takes the exclusive lock on a report.
func (s *ReportStore) AcquireLock(_ context.Context, reportID, owner string, ttl time.Duration) error {
	if owner == "" || ttl <= 0 {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.reports[reportID]
	if !ok {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	held := state.LockOwner != "" && state.LockOwner != owner && now.Before(state.LockExpiry)
	if held {
		return fmt.Errorf("%w: held by %s", domain.ErrLockConflict, state.LockOwner)
	}

	state.LockOwner = owner
	state.LockExpiry = now.Add(ttl)
	return nil
}

// ReleaseLock releases the lock if owner holds it.
func (s *ReportStore) ReleaseLock(_ context.Context, reportID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.reports[reportID]
	if !ok {
		return nil
	}
	if state.LockOwner == owner {
		state.LockOwner = ""
		state.LockExpiry = time.Time{}
	}
	return nil
}

// cloneReport deep-copies the mutable parts of a report state so callers
// cannot alias store-internal memory.
func cloneReport(state *domain.ReportState) *domain.ReportState {
	copied := *state
	copied.Scope = append([]string(nil), state.Scope...)
	copied.ActiveSourceIDs = append([]string(nil), state.ActiveSourceIDs...)

	if state.TOC != nil {
		toc := *state.TOC
		toc.Sections = append([]domain.TOCSection(nil), state.TOC.Sections...)
		copied.TOC = &toc
	}

	copied.Sections = make([]domain.GeneratedSection, len(state.Sections))
	for i := range state.Sections {
		sec := state.Sections[i]
		sec.SourceIDs = append([]string(nil), sec.SourceIDs...)
		sec.ExcludedSourceIDs = append([]string(nil), sec.ExcludedSourceIDs...)
		if sec.SourceRelevance != nil {
			rel := make(map[string]float64, len(sec.SourceRelevance))
			for k, v := range sec.SourceRelevance {
				rel[k] = v
			}
			sec.SourceRelevance = rel
		}
		copied.Sections[i] = sec
	}
	return &copied
}
