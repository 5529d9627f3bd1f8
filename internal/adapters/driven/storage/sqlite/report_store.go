package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// reportStore implements driven.ReportStore.
//
// The generation lock lives in the lock_owner/lock_expiry columns and is
// only ever written by AcquireLock/ReleaseLock; Save deliberately leaves
// those columns alone so a stale in-memory copy cannot clobber a lock.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// Save stores or updates a report state.
func (s *reportStore) Save(ctx context.Context, state *domain.ReportState) error {
	if state == nil || state.ID == "" {
		return domain.ErrInvalidInput
	}

	scopeJSON, err := json.Marshal(state.Scope)
	if err != nil {
		return fmt.Errorf("marshalling scope: %w", err)
	}
	tocJSON, err := json.Marshal(state.TOC)
	if err != nil {
		return fmt.Errorf("marshalling toc: %w", err)
	}
	sectionsJSON, err := json.Marshal(state.Sections)
	if err != nil {
		return fmt.Errorf("marshalling sections: %w", err)
	}
	activeJSON, err := json.Marshal(state.ActiveSourceIDs)
	if err != nil {
		return fmt.Errorf("marshalling active sources: %w", err)
	}

	now := time.Now().UTC()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = now
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reports (id, org_id, category, sub_category, title, scope,
			appendix_context, toc, current_section_index, sections,
			active_source_ids, status, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			org_id = excluded.org_id,
			category = excluded.category,
			sub_category = excluded.sub_category,
			title = excluded.title,
			scope = excluded.scope,
			appendix_context = excluded.appendix_context,
			toc = excluded.toc,
			current_section_index = excluded.current_section_index,
			sections = excluded.sections,
			active_source_ids = excluded.active_source_ids,
			status = excluded.status,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`, state.ID, state.OrgID, state.Category, state.SubCategory, state.Title,
		string(scopeJSON), nullString(state.AppendixContext), string(tocJSON),
		state.CurrentSectionIndex, string(sectionsJSON), string(activeJSON),
		string(state.Status), nullString(state.LastError),
		state.CreatedAt.Format(time.RFC3339), state.UpdatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Get retrieves a report state by ID.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.ReportState, error) {
	rows, err := s.store.db.QueryContext(ctx, reportSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying report: %w", err)
		}
		return nil, domain.ErrNotFound
	}
	return scanReport(rows)
}

// List returns report states for an organisation, most recent first.
func (s *reportStore) List(ctx context.Context, orgID string) ([]domain.ReportState, error) {
	rows, err := s.store.db.QueryContext(ctx,
		reportSelect+" WHERE org_id = ? ORDER BY created_at DESC", orgID)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.ReportState //nolint:prealloc // size unknown from query
	for rows.Next() {
		state, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

// Delete removes a report state.
func (s *reportStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return nil
}

// AcquireLock takes the exclusive lock on a report. The conditional
// UPDATE is atomic under SQLite's writer lock, so two concurrent
// acquisitions cannot both succeed.
func (s *reportStore) AcquireLock(ctx context.Context, reportID, owner string, ttl time.Duration) error {
	if owner == "" || ttl <= 0 {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	expiry := now.Add(ttl)

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE reports
		SET lock_owner = ?, lock_expiry = ?
		WHERE id = ?
		  AND (lock_owner IS NULL OR lock_owner = '' OR lock_owner = ? OR lock_expiry < ?)
	`, owner, expiry.Format(time.RFC3339), reportID, owner, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing report from a held lock.
	var holder sql.NullString
	row := s.store.db.QueryRowContext(ctx, "SELECT lock_owner FROM reports WHERE id = ?", reportID)
	if err := row.Scan(&holder); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return fmt.Errorf("checking lock holder: %w", err)
	}
	return fmt.Errorf("%w: held by %s", domain.ErrLockConflict, holder.String)
}

// ReleaseLock releases the lock if owner holds it.
func (s *reportStore) ReleaseLock(ctx context.Context, reportID, owner string) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE reports SET lock_owner = NULL, lock_expiry = NULL
		WHERE id = ? AND lock_owner = ?
	`, reportID, owner)
	if err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

const reportSelect = `
	SELECT id, org_id, category, sub_category, title, scope, appendix_context,
		toc, current_section_index, sections, active_source_ids,
		lock_owner, lock_expiry, status, last_error, created_at, updated_at
	FROM reports`

// scanReport scans a report state from *sql.Rows.
func scanReport(rows *sql.Rows) (*domain.ReportState, error) {
	var state domain.ReportState
	var subCategory, appendix, lockOwner, lockExpiry, lastError sql.NullString
	var scopeJSON, tocJSON, sectionsJSON, activeJSON, status string
	var createdAt, updatedAt sql.NullString

	if err := rows.Scan(&state.ID, &state.OrgID, &state.Category, &subCategory,
		&state.Title, &scopeJSON, &appendix, &tocJSON, &state.CurrentSectionIndex,
		&sectionsJSON, &activeJSON, &lockOwner, &lockExpiry, &status, &lastError,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	if err := json.Unmarshal([]byte(scopeJSON), &state.Scope); err != nil {
		return nil, fmt.Errorf("unmarshaling scope: %w", err)
	}
	if tocJSON != "" && tocJSON != "null" {
		if err := json.Unmarshal([]byte(tocJSON), &state.TOC); err != nil {
			return nil, fmt.Errorf("unmarshaling toc: %w", err)
		}
	}
	if sectionsJSON != "" && sectionsJSON != "null" {
		if err := json.Unmarshal([]byte(sectionsJSON), &state.Sections); err != nil {
			return nil, fmt.Errorf("unmarshaling sections: %w", err)
		}
	}
	if activeJSON != "" && activeJSON != "null" {
		if err := json.Unmarshal([]byte(activeJSON), &state.ActiveSourceIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling active sources: %w", err)
		}
	}

	state.SubCategory = subCategory.String
	state.AppendixContext = appendix.String
	state.LockOwner = lockOwner.String
	state.LockExpiry = parseNullableTime(lockExpiry)
	state.Status = domain.ReportStatus(status)
	state.LastError = lastError.String
	state.CreatedAt = parseNullableTime(createdAt)
	state.UpdatedAt = parseNullableTime(updatedAt)

	return &state, nil
}
