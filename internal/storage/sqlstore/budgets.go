package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
)

// ListBudgetCategories retrieves a trip's category limits ordered by name.
func (s *Store) ListBudgetCategories(ctx context.Context, tripID string) ([]models.BudgetCategory, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT trip_id, category, limit_amount FROM budget_categories WHERE trip_id = ? ORDER BY category`),
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}
	defer rows.Close()

	categories := []models.BudgetCategory{}
	for rows.Next() {
		var c models.BudgetCategory
		if err := rows.Scan(&c.TripID, &c.Category, &c.Limit); err != nil {
			return nil, fmt.Errorf("failed to scan budget category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget categories: %w", err)
	}
	return categories, nil
}

// SetBudget updates the trip total and replaces every category limit.
func (s *Store) SetBudget(ctx context.Context, tripID string, total decimal.Decimal, categories []models.BudgetCategory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`UPDATE trips SET budget = ? WHERE id = ?`), total, tripID)
	if err != nil {
		return fmt.Errorf("failed to update trip budget: %w", err)
	}
	if err := checkAffected(res, "trip", tripID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM budget_categories WHERE trip_id = ?`), tripID); err != nil {
		return fmt.Errorf("failed to clear budget categories: %w", err)
	}
	for _, c := range categories {
		_, err := tx.ExecContext(ctx, s.q(
			`INSERT INTO budget_categories (trip_id, category, limit_amount) VALUES (?, ?, ?)`),
			tripID, c.Category, c.Limit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert budget category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
