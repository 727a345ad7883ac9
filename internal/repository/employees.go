package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

const dateLayout = "2006-01-02"

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, number, name, hire_date, max_consecutive_override, is_active, created_at, version
		FROM employees
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeesMap := make(map[int64]*domain.Employee)
	order := make([]int64, 0)

	for rows.Next() {
		var override sql.NullInt32
		emp := &domain.Employee{
			FixedShifts:  make(map[int32]int64),
			ManualShifts: make(map[string]int64),
			Leaves:       make([]domain.LeaveRecord, 0),
			Preferences:  make([]int32, 0),
		}

		dst := []any{
			&emp.ID,
			&emp.Number,
			&emp.Name,
			&emp.HireDate,
			&override,
			&emp.IsActive,
			&emp.CreatedAt,
			&emp.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if override.Valid {
			value := override.Int32
			emp.MaxConsecutiveOverride = &value
		}

		employeesMap[emp.ID] = emp
		order = append(order, emp.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEmployeeChildren(ctx, employeesMap, 0); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, employeesMap[id])
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT number, name, hire_date, max_consecutive_override, is_active, created_at, version
		FROM employees
		WHERE id = $1
	`

	var override sql.NullInt32
	emp := &domain.Employee{
		ID:           id,
		FixedShifts:  make(map[int32]int64),
		ManualShifts: make(map[string]int64),
		Leaves:       make([]domain.LeaveRecord, 0),
		Preferences:  make([]int32, 0),
	}

	dst := []any{
		&emp.Number,
		&emp.Name,
		&emp.HireDate,
		&override,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if override.Valid {
		value := override.Int32
		emp.MaxConsecutiveOverride = &value
	}

	employeesMap := map[int64]*domain.Employee{id: emp}
	if err := r.loadEmployeeChildren(ctx, employeesMap, id); err != nil {
		return nil, err
	}

	return emp, nil
}

// loadEmployeeChildren 加载员工的固定班次、手动班次、请假记录和偏好
// employeeID 为 0 时加载全部员工的子表数据
// 四张子表是平级关系，逐表查询避免 JOIN 产生笛卡尔积
func (r *Repository) loadEmployeeChildren(ctx context.Context, employeesMap map[int64]*domain.Employee, employeeID int64) error {
	filter := ""
	params := []any{}
	if employeeID != 0 {
		filter = "WHERE employee_id = $1"
		params = append(params, employeeID)
	}

	// 固定班次
	query := `SELECT employee_id, day, shift_id FROM employee_fixed_shifts ` + filter
	rows, err := r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var empID, shiftID int64
		var day int32
		if err := rows.Scan(&empID, &day, &shiftID); err != nil {
			return err
		}
		if emp, exists := employeesMap[empID]; exists {
			emp.FixedShifts[day] = shiftID
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// 手动班次
	query = `SELECT employee_id, date, shift_id FROM employee_manual_shifts ` + filter
	rows, err = r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var empID, shiftID int64
		var date time.Time
		if err := rows.Scan(&empID, &date, &shiftID); err != nil {
			return err
		}
		if emp, exists := employeesMap[empID]; exists {
			emp.ManualShifts[date.UTC().Format(dateLayout)] = shiftID
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// 请假记录
	query = `SELECT id, employee_id, start_date, end_date, type, hours_per_day FROM employee_leaves ` + filter + ` ORDER BY start_date`
	rows, err = r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var empID int64
		var rec domain.LeaveRecord
		if err := rows.Scan(&rec.ID, &empID, &rec.StartDate, &rec.EndDate, &rec.Type, &rec.HoursPerDay); err != nil {
			return err
		}
		if emp, exists := employeesMap[empID]; exists {
			emp.Leaves = append(emp.Leaves, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// 班次偏好，按位置与班次列表对齐
	query = `SELECT employee_id, position, rank FROM employee_preferences ` + filter + ` ORDER BY employee_id, position`
	rows, err = r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var empID int64
		var position, rank int32
		if err := rows.Scan(&empID, &position, &rank); err != nil {
			return err
		}
		if emp, exists := employeesMap[empID]; exists {
			emp.Preferences = append(emp.Preferences, rank)
		}
	}
	return rows.Err()
}

func (r *Repository) CreateEmployee(emp *domain.Employee) error {
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
		INSERT INTO employees (number, name, hire_date, max_consecutive_override, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	params := []any{emp.Number, emp.Name, emp.HireDate, overrideParam(emp), emp.IsActive}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&emp.ID, &emp.CreatedAt, &emp.Version); err != nil {
		return err
	}

	if err := insertEmployeeChildren(ctx, tx, emp); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) UpdateEmployee(emp *domain.Employee) error {
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
		UPDATE employees
		SET
			number = $1,
			name = $2,
			hire_date = $3,
			max_consecutive_override = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`
	params := []any{emp.Number, emp.Name, emp.HireDate, overrideParam(emp), emp.IsActive, emp.ID, emp.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&emp.Version); err != nil {
		return err
	}

	// 固定班次和偏好整体替换
	query = `DELETE FROM employee_fixed_shifts WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, emp.ID); err != nil {
		return err
	}
	query = `DELETE FROM employee_preferences WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, emp.ID); err != nil {
		return err
	}

	if err := insertEmployeeChildren(ctx, tx, emp); err != nil {
		return err
	}

	return tx.Commit()
}

// insertEmployeeChildren 插入固定班次和偏好，手动班次和请假记录有独立的增删方法
func insertEmployeeChildren(ctx context.Context, tx *sql.Tx, emp *domain.Employee) error {
	for day, shiftID := range emp.FixedShifts {
		query := `
			INSERT INTO employee_fixed_shifts (employee_id, day, shift_id)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, emp.ID, day, shiftID); err != nil {
			return err
		}
	}

	for position, rank := range emp.Preferences {
		query := `
			INSERT INTO employee_preferences (employee_id, position, rank)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, emp.ID, position, rank); err != nil {
			return err
		}
	}

	return nil
}

func overrideParam(emp *domain.Employee) any {
	if emp.MaxConsecutiveOverride == nil {
		return nil
	}
	return *emp.MaxConsecutiveOverride
}

func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM employees WHERE id = $1`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateLeaveRecord(employeeID int64, rec *domain.LeaveRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employee_leaves (employee_id, start_date, end_date, type, hours_per_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	params := []any{employeeID, rec.StartDate, rec.EndDate, rec.Type, rec.HoursPerDay}

	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rec.ID)
}

func (r *Repository) DeleteLeaveRecord(employeeID int64, leaveID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM employee_leaves WHERE id = $1 AND employee_id = $2`

	result, err := r.dbpool.ExecContext(ctx, query, leaveID, employeeID)
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

func (r *Repository) SetManualShift(employeeID int64, date time.Time, shiftID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 同一天重复指定时直接覆盖
	query := `
		INSERT INTO employee_manual_shifts (employee_id, date, shift_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO UPDATE SET shift_id = EXCLUDED.shift_id
	`

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, date, shiftID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteManualShift(employeeID int64, date time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM employee_manual_shifts WHERE employee_id = $1 AND date = $2`

	result, err := r.dbpool.ExecContext(ctx, query, employeeID, date)
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
