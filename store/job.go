package store // import "github.com/storyhouse/storyhouse/store"

import (
	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/model"
)

// AddJob records a background job in the app db.
func (s *Store) AddJob(job model.Job) (*model.Job, error) {
	if s.appDb == nil {
		return &job, nil
	}
	stmt := `
    INSERT INTO job (book_id, chapter_key, type, status, detail) VALUES (?, ?, ?, ?, ?)
    RETURNING id, book_id, chapter_key, type, status, detail
    `

	s.appDbLock.Lock()
	defer s.appDbLock.Unlock()
	tx, err := s.appDb.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var j model.Job
	if err := tx.QueryRow(stmt, job.BookID, job.ChapterKey, job.Type, job.Status, job.Detail).Scan(
		&j.ID, &j.BookID, &j.ChapterKey, &j.Type, &j.Status, &j.Detail,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	j.Item = job.Item
	return &j, nil
}

// UpdateJobStatus moves a job to a new status with an optional detail
// message (receipt ids on success, the error on failure).
func (s *Store) UpdateJobStatus(id int, status, detail string) error {
	if s.appDb == nil {
		return nil
	}
	s.appDbLock.Lock()
	defer s.appDbLock.Unlock()
	_, err := s.appDb.Exec(`UPDATE job SET status = ?, detail = ? WHERE id = ?`, status, detail, id)
	return errors.Wrapf(err, "failed to update job %d", id)
}

// AddMigrationRecord appends one per-book migration outcome to the history
// table. Duplicate rows from a retried run are tolerated.
func (s *Store) AddMigrationRecord(result model.BookMigrationResult, runID string) error {
	if s.appDb == nil {
		return nil
	}
	stmt := `
    INSERT INTO migration_history (run_id, book_id, parent_book_id, success, chapters_moved, error)
    VALUES (?, ?, ?, ?, ?, ?)
    `

	s.appDbLock.Lock()
	defer s.appDbLock.Unlock()
	_, err := s.appDb.Exec(stmt, runID, result.BookID, result.ParentBookID, result.Success, result.ChaptersMoved, result.Error)
	return errors.Wrapf(err, "failed to record migration of %s", result.BookID)
}

// ListMigrationRecords returns the recorded outcomes of a run.
func (s *Store) ListMigrationRecords(runID string) ([]model.BookMigrationResult, error) {
	if s.appDb == nil {
		return nil, nil
	}
	rows, err := s.appDb.Query(`
    SELECT book_id, parent_book_id, success, chapters_moved, error
    FROM migration_history WHERE run_id = ? ORDER BY id
    `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.BookMigrationResult
	for rows.Next() {
		var r model.BookMigrationResult
		if err := rows.Scan(&r.BookID, &r.ParentBookID, &r.Success, &r.ChaptersMoved, &r.Error); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
