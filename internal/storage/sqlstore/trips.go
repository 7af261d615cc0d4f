package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

const tripColumns = `t.id, t.owner_id, t.name, t.destination, t.start_date, t.end_date, t.currency, t.budget, t.created_at`

// CreateTrip persists a new trip and its owner member in one transaction.
func (s *Store) CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Member) error {
	// Generate IDs if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now()
	}
	if trip.Name == "" {
		trip.Name = generateName(trip.Destination, trip.StartDate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(
		`INSERT INTO trips (id, owner_id, name, destination, start_date, end_date, currency, budget, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		trip.ID, trip.OwnerID, trip.Name, trip.Destination,
		formatDate(trip.StartDate), formatDate(trip.EndDate), trip.Currency, trip.Budget, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	owner.TripID = trip.ID
	owner.Role = models.RoleOwner
	if err := s.insertMember(ctx, tx, owner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+tripColumns+` FROM trips t WHERE t.id = ?`), tripID)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTripsForUser retrieves all trips the user belongs to.
func (s *Store) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+tripColumns+`
		 FROM trips t JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.created_at DESC, t.id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// UpdateTrip updates the editable fields of a trip.
func (s *Store) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE trips SET name = ?, destination = ?, start_date = ?, end_date = ?, currency = ?, budget = ?
		 WHERE id = ?`),
		trip.Name, trip.Destination, formatDate(trip.StartDate), formatDate(trip.EndDate),
		trip.Currency, trip.Budget, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return checkAffected(res, "trip", trip.ID)
}

// DeleteTrip removes a trip; dependent rows go with it via ON DELETE CASCADE.
func (s *Store) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM trips WHERE id = ?`), tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return checkAffected(res, "trip", tripID)
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	trip := &models.Trip{}
	var start, end string
	if err := row.Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.Destination,
		&start, &end, &trip.Currency, &trip.Budget, &trip.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if trip.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if trip.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	return trip, nil
}

// generateName creates a trip name when the user didn't give one.
func generateName(destination string, start time.Time) string {
	if destination != "" {
		return fmt.Sprintf("Trip to %s", destination)
	}
	if !start.IsZero() {
		return fmt.Sprintf("Trip - %s", start.Format("Jan 2, 2006"))
	}
	return "Untitled trip"
}
