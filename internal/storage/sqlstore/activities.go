package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

const activityColumns = `id, trip_id, day, position, title, location, start_time, cost, currency, category, notes, created_at`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateActivity persists a new activity at the end of its day.
func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt == 0 {
		activity.CreatedAt = now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pos, err := s.nextPosition(ctx, tx, activity.TripID, activity.Day)
	if err != nil {
		return err
	}
	activity.Position = pos

	_, err = tx.ExecContext(ctx, s.q(
		`INSERT INTO activities (id, trip_id, day, position, title, location, start_time, cost, currency, category, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		activity.ID, activity.TripID, activity.Day, activity.Position, activity.Title, activity.Location,
		activity.StartTime, activity.Cost, activity.Currency, activity.Category, activity.Notes, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	return s.getActivity(ctx, s.db, activityID)
}

func (s *Store) getActivity(ctx context.Context, q queryer, activityID string) (*models.Activity, error) {
	row := q.QueryRowContext(ctx, s.q(`SELECT `+activityColumns+` FROM activities WHERE id = ?`), activityID)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: activity %s", storage.ErrNotFound, activityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// ListActivities retrieves a trip's itinerary ordered by day and position.
func (s *Store) ListActivities(ctx context.Context, tripID string) ([]models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+activityColumns+` FROM activities WHERE trip_id = ? ORDER BY day, position, id`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// UpdateActivity updates an activity. Moving it to another day appends it
// there and closes the gap it leaves behind.
func (s *Store) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.getActivity(ctx, tx, activity.ID)
	if err != nil {
		return err
	}

	activity.Position = current.Position
	if activity.Day != current.Day {
		if activity.Position, err = s.nextPosition(ctx, tx, current.TripID, activity.Day); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, s.q(
		`UPDATE activities SET day = ?, position = ?, title = ?, location = ?, start_time = ?,
		   cost = ?, currency = ?, category = ?, notes = ?
		 WHERE id = ?`),
		activity.Day, activity.Position, activity.Title, activity.Location, activity.StartTime,
		activity.Cost, activity.Currency, activity.Category, activity.Notes, activity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	if activity.Day != current.Day {
		if err := s.compactDay(ctx, tx, current.TripID, current.Day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteActivity removes an activity and compacts its day.
func (s *Store) DeleteActivity(ctx context.Context, activityID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.getActivity(ctx, tx, activityID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM activities WHERE id = ?`), activityID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if err := s.compactDay(ctx, tx, current.TripID, current.Day); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReorderDay puts orderedIDs on day in the given order. Activities already on
// the day but not listed keep their relative order after the listed ones.
// Every listed ID must belong to the trip.
func (s *Store) ReorderDay(ctx context.Context, tripID string, day int, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	listed := make(map[string]bool, len(orderedIDs))
	sourceDays := map[int]bool{}
	if len(orderedIDs) > 0 {
		args := make([]any, 0, len(orderedIDs)+1)
		args = append(args, tripID)
		for _, id := range orderedIDs {
			args = append(args, id)
		}
		rows, err := tx.QueryContext(ctx, s.q(
			`SELECT id, day FROM activities WHERE trip_id = ? AND id IN (`+placeholders(len(orderedIDs))+`)`),
			args...,
		)
		if err != nil {
			return fmt.Errorf("failed to load activities: %w", err)
		}
		for rows.Next() {
			var id string
			var d int
			if err := rows.Scan(&id, &d); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan activity: %w", err)
			}
			listed[id] = true
			if d != day {
				sourceDays[d] = true
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate activities: %w", err)
		}
	}
	for _, id := range orderedIDs {
		if !listed[id] {
			return fmt.Errorf("%w: activity %s in trip %s", storage.ErrNotFound, id, tripID)
		}
	}

	existing, err := s.dayActivityIDs(ctx, tx, tripID, day)
	if err != nil {
		return err
	}
	final := append([]string{}, orderedIDs...)
	for _, id := range existing {
		if !listed[id] {
			final = append(final, id)
		}
	}

	for pos, id := range final {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE activities SET day = ?, position = ? WHERE id = ?`), day, pos, id); err != nil {
			return fmt.Errorf("failed to reorder activity: %w", err)
		}
	}
	for d := range sourceDays {
		if err := s.compactDay(ctx, tx, tripID, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) nextPosition(ctx context.Context, q queryer, tripID string, day int) (int, error) {
	var pos int
	err := q.QueryRowContext(ctx, s.q(
		`SELECT COALESCE(MAX(position) + 1, 0) FROM activities WHERE trip_id = ? AND day = ?`),
		tripID, day,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to find next position: %w", err)
	}
	return pos, nil
}

func (s *Store) dayActivityIDs(ctx context.Context, q queryer, tripID string, day int) ([]string, error) {
	rows, err := q.QueryContext(ctx, s.q(
		`SELECT id FROM activities WHERE trip_id = ? AND day = ? ORDER BY position, id`),
		tripID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list day: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan activity id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// compactDay renumbers a day's positions to 0..n-1 keeping their order.
func (s *Store) compactDay(ctx context.Context, tx *sql.Tx, tripID string, day int) error {
	ids, err := s.dayActivityIDs(ctx, tx, tripID, day)
	if err != nil {
		return err
	}
	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE activities SET position = ? WHERE id = ?`), pos, id); err != nil {
			return fmt.Errorf("failed to compact day: %w", err)
		}
	}
	return nil
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	a := &models.Activity{}
	if err := row.Scan(&a.ID, &a.TripID, &a.Day, &a.Position, &a.Title, &a.Location, &a.StartTime,
		&a.Cost, &a.Currency, &a.Category, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}
