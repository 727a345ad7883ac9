package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.id,
			s.name,
			s.start_time,
			s.end_time,
			s.lunch_break_minutes,
			s.overtime_active,
			s.created_at,
			s.version,
			sic.day,
			sic.ideal_count
		FROM shifts s
		LEFT JOIN shift_ideal_counts sic ON s.id = sic.shift_id
		ORDER BY s.id, sic.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftsMap := make(map[int64]*domain.Shift)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                int64
			Name              string
			StartTime         string
			EndTime           string
			LunchBreakMinutes int32
			OvertimeActive    bool
			CreatedAt         time.Time
			Version           int32

			Day        sql.NullInt32
			IdealCount sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.StartTime,
			&row.EndTime,
			&row.LunchBreakMinutes,
			&row.OvertimeActive,
			&row.CreatedAt,
			&row.Version,
			&row.Day,
			&row.IdealCount,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		shift, exists := shiftsMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个班次，需要在 map 中初始化这个班次
			shift = &domain.Shift{
				ID:                row.ID,
				Name:              row.Name,
				StartTime:         row.StartTime,
				EndTime:           row.EndTime,
				LunchBreakMinutes: row.LunchBreakMinutes,
				OvertimeActive:    row.OvertimeActive,
				IdealCounts:       make([]int32, 7),
				OvertimeEntries:   make([]domain.ShiftOvertimeEntry, 0),
				CreatedAt:         row.CreatedAt,
				Version:           row.Version,
			}
			shiftsMap[row.ID] = shift
			order = append(order, row.ID)
		}

		// 如果 day 为空，则表示这个班次没有配置任何理想人数
		if !row.Day.Valid {
			continue
		}

		if row.Day.Int32 >= 1 && row.Day.Int32 <= 7 {
			shift.IdealCounts[row.Day.Int32-1] = row.IdealCount.Int32
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 加班计划和理想人数是两张平级的子表，分开查询避免笛卡尔积
	query = `
		SELECT id, shift_id, date, quantity, is_active
		FROM shift_overtime_entries
		ORDER BY shift_id, date
	`

	entryRows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var entry domain.ShiftOvertimeEntry
		var shiftID int64

		if err := entryRows.Scan(&entry.ID, &shiftID, &entry.Date, &entry.Quantity, &entry.IsActive); err != nil {
			return nil, err
		}

		if shift, exists := shiftsMap[shiftID]; exists {
			shift.OvertimeEntries = append(shift.OvertimeEntries, entry)
		}
	}

	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	shifts := make([]*domain.Shift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, start_time, end_time, lunch_break_minutes, overtime_active, created_at, version
		FROM shifts
		WHERE id = $1
	`

	shift := &domain.Shift{
		ID:              id,
		IdealCounts:     make([]int32, 7),
		OvertimeEntries: make([]domain.ShiftOvertimeEntry, 0),
	}

	dst := []any{
		&shift.Name,
		&shift.StartTime,
		&shift.EndTime,
		&shift.LunchBreakMinutes,
		&shift.OvertimeActive,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	query = `SELECT day, ideal_count FROM shift_ideal_counts WHERE shift_id = $1`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day, count int32
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		if day >= 1 && day <= 7 {
			shift.IdealCounts[day-1] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `SELECT id, date, quantity, is_active FROM shift_overtime_entries WHERE shift_id = $1 ORDER BY date`
	entryRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var entry domain.ShiftOvertimeEntry
		if err := entryRows.Scan(&entry.ID, &entry.Date, &entry.Quantity, &entry.IsActive); err != nil {
			return nil, err
		}
		shift.OvertimeEntries = append(shift.OvertimeEntries, entry)
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (name, start_time, end_time, lunch_break_minutes, overtime_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	params := []any{shift.Name, shift.StartTime, shift.EndTime, shift.LunchBreakMinutes, shift.OvertimeActive}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	for day, count := range shift.IdealCounts {
		query = `
			INSERT INTO shift_ideal_counts (shift_id, day, ideal_count)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, day+1, count); err != nil {
			return err
		}
	}

	for i := range shift.OvertimeEntries {
		query = `
			INSERT INTO shift_overtime_entries (shift_id, date, quantity, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		entry := &shift.OvertimeEntries[i]
		if err := tx.QueryRowContext(ctx, query, shift.ID, entry.Date, entry.Quantity, entry.IsActive).Scan(&entry.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE shifts
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			lunch_break_minutes = $4,
			overtime_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`
	params := []any{shift.Name, shift.StartTime, shift.EndTime, shift.LunchBreakMinutes, shift.OvertimeActive, shift.ID, shift.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		return err
	}

	// 理想人数整体替换，避免逐行比对
	query = `DELETE FROM shift_ideal_counts WHERE shift_id = $1`
	if _, err := tx.ExecContext(ctx, query, shift.ID); err != nil {
		return err
	}

	for day, count := range shift.IdealCounts {
		query = `
			INSERT INTO shift_ideal_counts (shift_id, day, ideal_count)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, day+1, count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) DeleteShift(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM shifts WHERE id = $1`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateShiftOvertimeEntry(shiftID int64, entry *domain.ShiftOvertimeEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_overtime_entries (shift_id, date, quantity, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, shiftID, entry.Date, entry.Quantity, entry.IsActive).Scan(&entry.ID)
}

func (r *Repository) DeleteShiftOvertimeEntry(shiftID int64, entryID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM shift_overtime_entries WHERE id = $1 AND shift_id = $2`

	result, err := r.dbpool.ExecContext(ctx, query, entryID, shiftID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
