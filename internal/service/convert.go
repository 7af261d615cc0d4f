package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/models"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

// parseDate parses a required "YYYY-MM-DD" field.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalidArgument("%s must be a date like 2026-05-01, got %q", field, value)
	}
	return t, nil
}

func tripToAPI(t *models.Trip) *api.Trip {
	return &api.Trip{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   formatDate(t.StartDate),
		EndDate:     formatDate(t.EndDate),
		Days:        t.Days(),
		Currency:    t.Currency,
		Budget:      t.Budget,
		CreatedAt:   t.CreatedAt,
	}
}

func memberToAPI(m *models.Member) *api.Member {
	return &api.Member{
		ID:       m.ID,
		TripID:   m.TripID,
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func membersToAPI(members []models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i := range members {
		out[i] = memberToAPI(&members[i])
	}
	return out
}

func expenseToAPI(e *models.SharedExpense) *api.Expense {
	splits := make(map[string]decimal.Decimal, len(e.Splits))
	for k, v := range e.Splits {
		splits[k] = v
	}
	return &api.Expense{
		ID:             e.ID,
		TripID:         e.TripID,
		Title:          e.Title,
		Amount:         e.Amount,
		PayerID:        e.PayerID,
		ParticipantIDs: append([]string{}, e.ParticipantIDs...),
		Splits:         splits,
		Date:           formatDate(e.Date),
		Category:       e.Category,
		CreatedAt:      e.CreatedAt,
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		TripID:    p.TripID,
		FromID:    p.FromID,
		ToID:      p.ToID,
		Amount:    p.Amount,
		Note:      p.Note,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func activityToAPI(a *models.Activity) *api.Activity {
	return &api.Activity{
		ID:        a.ID,
		TripID:    a.TripID,
		Day:       a.Day,
		Position:  a.Position,
		Title:     a.Title,
		Location:  a.Location,
		StartTime: a.StartTime,
		Cost:      a.Cost,
		Currency:  a.Currency,
		Category:  a.Category,
		Notes:     a.Notes,
	}
}

// normalizeCategory lower-cases a category name and files blanks under
// models.CategoryOther.
func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return models.CategoryOther
	}
	return c
}
