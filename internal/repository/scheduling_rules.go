package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

func (r *Repository) GetSchedulingRules() (*domain.SchedulingRules, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 规则全局只有一条，取最新的
	query := `
		SELECT
			id, start_date, end_date,
			max_consecutive_shifts, min_days_off_after_max_shifts, min_rest_hours,
			min_weekends_off_per_period, min_hours_per_week, min_hours_per_two_weeks,
			created_at, version
		FROM scheduling_rules
		ORDER BY id DESC
		LIMIT 1
	`

	rules := &domain.SchedulingRules{}
	dst := []any{
		&rules.ID,
		&rules.StartDate,
		&rules.EndDate,
		&rules.MaxConsecutiveShifts,
		&rules.MinDaysOffAfterMaxShifts,
		&rules.MinRestHours,
		&rules.MinWeekendsOffPerPeriod,
		&rules.MinHoursPerWeek,
		&rules.MinHoursPerTwoWeeks,
		&rules.CreatedAt,
		&rules.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *Repository) UpdateSchedulingRules(rules *domain.SchedulingRules) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE scheduling_rules
		SET
			start_date = $1,
			end_date = $2,
			max_consecutive_shifts = $3,
			min_days_off_after_max_shifts = $4,
			min_rest_hours = $5,
			min_weekends_off_per_period = $6,
			min_hours_per_week = $7,
			min_hours_per_two_weeks = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`
	params := []any{
		rules.StartDate,
		rules.EndDate,
		rules.MaxConsecutiveShifts,
		rules.MinDaysOffAfterMaxShifts,
		rules.MinRestHours,
		rules.MinWeekendsOffPerPeriod,
		rules.MinHoursPerWeek,
		rules.MinHoursPerTwoWeeks,
		rules.ID,
		rules.Version,
	}

	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rules.Version)
}

// EnsureSchedulingRules 在规则表为空时写入默认规则，服务启动时调用
func (r *Repository) EnsureSchedulingRules(defaults *domain.SchedulingRules) error {
	_, err := r.GetSchedulingRules()
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO scheduling_rules (
			start_date, end_date,
			max_consecutive_shifts, min_days_off_after_max_shifts, min_rest_hours,
			min_weekends_off_per_period, min_hours_per_week, min_hours_per_two_weeks
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	params := []any{
		defaults.StartDate,
		defaults.EndDate,
		defaults.MaxConsecutiveShifts,
		defaults.MinDaysOffAfterMaxShifts,
		defaults.MinRestHours,
		defaults.MinWeekendsOffPerPeriod,
		defaults.MinHoursPerWeek,
		defaults.MinHoursPerTwoWeeks,
	}

	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&defaults.ID, &defaults.CreatedAt, &defaults.Version)
}
