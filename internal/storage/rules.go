package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/libs/db"
)

const ruleColumns = `
	id, service_id, weekday, slots_per_hour, start_hour, end_hour, created_at, updated_at`

type RuleRepository struct {
	pool *db.Pool
}

func NewRuleRepository(pool *db.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// Create inserts a rule. The unique key on (service_id, weekday) guarantees
// at most one governing rule per weekday; a duplicate surfaces as a conflict
// error (IsConflict).
func (r *RuleRepository) Create(ctx context.Context, rule *model.AvailabilityRule) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO availability_rules (service_id, weekday, slots_per_hour, start_hour, end_hour)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, rule.ServiceID, int(rule.Weekday), rule.SlotsPerHour, rule.StartHour, rule.EndHour).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetForServiceWeekday returns the single rule governing the service on that
// weekday; IsNotFound(err) means the day has no availability at all.
func (r *RuleRepository) GetForServiceWeekday(ctx context.Context, serviceID string, weekday time.Weekday) (model.AvailabilityRule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+ruleColumns+`
		FROM availability_rules
		WHERE service_id = $1 AND weekday = $2
	`, serviceID, int(weekday))
	return scanRule(row)
}

func (r *RuleRepository) ListForService(ctx context.Context, serviceID string) ([]model.AvailabilityRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+ruleColumns+`
		FROM availability_rules
		WHERE service_id = $1
		ORDER BY weekday ASC
	`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []model.AvailabilityRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return rules, nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRule(row pgx.Row) (model.AvailabilityRule, error) {
	var rule model.AvailabilityRule
	var weekday int
	err := row.Scan(
		&rule.ID,
		&rule.ServiceID,
		&weekday,
		&rule.SlotsPerHour,
		&rule.StartHour,
		&rule.EndHour,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return model.AvailabilityRule{}, err
	}
	rule.Weekday = time.Weekday(weekday)
	return rule, nil
}
