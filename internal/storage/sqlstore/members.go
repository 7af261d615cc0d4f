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

const memberColumns = `id, trip_id, user_id, name, email, role, joined_at`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertMember(ctx context.Context, ex execer, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = now()
	}
	_, err := ex.ExecContext(ctx, s.q(
		`INSERT INTO trip_members (id, trip_id, user_id, name, email, role, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		member.ID, member.TripID, member.UserID, member.Name, member.Email, string(member.Role), member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// AddMember inserts a new member into a trip.
func (s *Store) AddMember(ctx context.Context, member *models.Member) error {
	if member.Role == "" {
		member.Role = models.RoleCollaborator
	}
	return s.insertMember(ctx, s.db, member)
}

// ListMembers retrieves a trip's members in the order they joined.
func (s *Store) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+memberColumns+` FROM trip_members WHERE trip_id = ? ORDER BY joined_at, id`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMemberByUser retrieves the member bound to userID in a trip.
func (s *Store) GetMemberByUser(ctx context.Context, tripID, userID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, s.q(
		`SELECT `+memberColumns+` FROM trip_members WHERE trip_id = ? AND user_id = ?`),
		tripID, userID,
	)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s in trip %s", storage.ErrNotFound, userID, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// RemoveMember removes a member from a trip.
func (s *Store) RemoveMember(ctx context.Context, tripID, memberID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM trip_members WHERE trip_id = ? AND id = ?`), tripID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return checkAffected(res, "member", memberID)
}

// MemberHasLedgerEntries reports whether any expense, split or payment of
// the trip references the member.
func (s *Store) MemberHasLedgerEntries(ctx context.Context, tripID, memberID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT
		   (SELECT COUNT(*) FROM expenses WHERE trip_id = ? AND payer_id = ?) +
		   (SELECT COUNT(*) FROM expense_splits sp JOIN expenses e ON e.id = sp.expense_id
		      WHERE e.trip_id = ? AND sp.member_id = ?) +
		   (SELECT COUNT(*) FROM payments WHERE trip_id = ? AND (from_id = ? OR to_id = ?))`),
		tripID, memberID, tripID, memberID, tripID, memberID, memberID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check member usage: %w", err)
	}
	return count > 0, nil
}

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	var role string
	if err := row.Scan(&m.ID, &m.TripID, &m.UserID, &m.Name, &m.Email, &role, &m.JoinedAt); err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	return m, nil
}
