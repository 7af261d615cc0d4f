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

// CreateInvitation persists a new pending invitation.
func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = now()
	}
	_, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO invitations (id, trip_id, email, name, token_hash, created_by, created_at, accepted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`),
		inv.ID, inv.TripID, inv.Email, inv.Name, inv.TokenHash, inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *Store) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT id, trip_id, email, name, token_hash, created_by, created_at, accepted_at
		 FROM invitations WHERE id = ?`),
		invitationID,
	).Scan(&inv.ID, &inv.TripID, &inv.Email, &inv.Name, &inv.TokenHash, &inv.CreatedBy, &inv.CreatedAt, &inv.AcceptedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invitation %s", storage.ErrNotFound, invitationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// AcceptInvitation marks the invitation accepted and adds the member.
func (s *Store) AcceptInvitation(ctx context.Context, invitationID string, member *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(
		`UPDATE invitations SET accepted_at = ? WHERE id = ? AND accepted_at = 0`),
		now(), invitationID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: invitation %s is not pending", storage.ErrConflict, invitationID)
	}

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	member.Role = models.RoleCollaborator
	if err := s.insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
