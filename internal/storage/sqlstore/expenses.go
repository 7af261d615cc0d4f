package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

const expenseColumns = `id, trip_id, title, amount, payer_id, expense_date, category, created_at`

// CreateExpense persists a new expense with its splits.
func (s *Store) CreateExpense(ctx context.Context, expense *models.SharedExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(
		`INSERT INTO expenses (id, trip_id, title, amount, payer_id, expense_date, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		expense.ID, expense.TripID, expense.Title, expense.Amount, expense.PayerID,
		formatDate(expense.Date), expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := s.insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) insertSplits(ctx context.Context, tx *sql.Tx, expense *models.SharedExpense) error {
	for i, memberID := range expense.ParticipantIDs {
		_, err := tx.ExecContext(ctx, s.q(
			`INSERT INTO expense_splits (expense_id, member_id, position, share) VALUES (?, ?, ?, ?)`),
			expense.ID, memberID, i, expense.Splits[memberID],
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense and its splits.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.SharedExpense, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`), expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT expense_id, member_id, share FROM expense_splits WHERE expense_id = ? ORDER BY position`),
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	if err := attachSplits(rows, map[string]*models.SharedExpense{expense.ID: expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves all expenses of a trip, splits included.
func (s *Store) ListExpenses(ctx context.Context, tripID string) ([]models.SharedExpense, error) {
	expenses, err := s.listExpenseRows(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	byID := make(map[string]*models.SharedExpense, len(expenses))
	for i := range expenses {
		byID[expenses[i].ID] = &expenses[i]
	}

	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT sp.expense_id, sp.member_id, sp.share
		 FROM expense_splits sp JOIN expenses e ON e.id = sp.expense_id
		 WHERE e.trip_id = ?
		 ORDER BY sp.expense_id, sp.position`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	if err := attachSplits(rows, byID); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) listExpenseRows(ctx context.Context, tripID string) ([]models.SharedExpense, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+expenseColumns+` FROM expenses WHERE trip_id = ? ORDER BY expense_date, created_at, id`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.SharedExpense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces an expense and all of its splits.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.SharedExpense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(
		`UPDATE expenses SET title = ?, amount = ?, payer_id = ?, expense_date = ?, category = ?
		 WHERE id = ?`),
		expense.Title, expense.Amount, expense.PayerID, formatDate(expense.Date), expense.Category, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := checkAffected(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM expense_splits WHERE expense_id = ?`), expense.ID); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	if err := s.insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; its splits cascade.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM expenses WHERE id = ?`), expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense", expenseID)
}

func scanExpense(row rowScanner) (*models.SharedExpense, error) {
	e := &models.SharedExpense{}
	var date string
	if err := row.Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.PayerID, &date, &e.Category, &e.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	e.ParticipantIDs = []string{}
	e.Splits = map[string]decimal.Decimal{}
	return e, nil
}

// attachSplits reads (expense_id, member_id, share) rows into their expenses.
// Rows must be in participant order within each expense.
func attachSplits(rows *sql.Rows, byID map[string]*models.SharedExpense) error {
	for rows.Next() {
		var expenseID, memberID string
		var share decimal.Decimal
		if err := rows.Scan(&expenseID, &memberID, &share); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		e, ok := byID[expenseID]
		if !ok {
			continue
		}
		e.ParticipantIDs = append(e.ParticipantIDs, memberID)
		e.Splits[memberID] = share
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
