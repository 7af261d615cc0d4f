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

const paymentColumns = `id, trip_id, from_id, to_id, amount, note, created_by, created_at`

// CreatePayment persists a new payment.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = now()
	}

	var note sql.NullString
	if payment.Note != "" {
		note = sql.NullString{String: payment.Note, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO payments (id, trip_id, from_id, to_id, amount, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		payment.ID, payment.TripID, payment.FromID, payment.ToID,
		payment.Amount, note, payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`), paymentID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: payment %s", storage.ErrNotFound, paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// ListPayments retrieves all payments of a trip, oldest first.
func (s *Store) ListPayments(ctx context.Context, tripID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+paymentColumns+` FROM payments WHERE trip_id = ? ORDER BY created_at, id`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// DeletePayment removes a payment.
func (s *Store) DeletePayment(ctx context.Context, paymentID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM payments WHERE id = ?`), paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return checkAffected(res, "payment", paymentID)
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var note sql.NullString
	if err := row.Scan(&p.ID, &p.TripID, &p.FromID, &p.ToID, &p.Amount, &note, &p.CreatedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Note = note.String
	return p, nil
}
