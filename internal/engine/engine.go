package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// Engine 基于一次传入的数据快照计算排班覆盖与合规报告
// Engine 本身不持有任何可变状态，底层数据变更后调用方需要用新的快照重新构造
type Engine struct {
	rules     *domain.SchedulingRules
	shifts    []*domain.Shift // 保持传入顺序，员工偏好与这个顺序一一对应
	shiftMap  map[int64]*domain.Shift
	employees []*domain.Employee
}

func New(rules *domain.SchedulingRules, shifts []*domain.Shift, employees []*domain.Employee) (*Engine, error) {
	if rules == nil {
		return nil, errors.New("排班规则不能为空")
	}
	if employees == nil {
		return nil, errors.New("员工列表不能为空")
	}

	if rules.MaxConsecutiveShifts < 1 {
		return nil, errors.New("最大连续上班天数必须大于等于 1")
	}
	if rules.MinDaysOffAfterMaxShifts < 0 {
		return nil, errors.New("连班达到上限后的最少休息天数不能为负数")
	}
	if rules.MinRestHours < 0 {
		return nil, errors.New("两次上班之间的最少休息小时数不能为负数")
	}
	if rules.MinWeekendsOffPerPeriod < 0 {
		return nil, errors.New("每周期最少休息周末数不能为负数")
	}
	if rules.MinHoursPerWeek < 0 || rules.MinHoursPerTwoWeeks < 0 {
		return nil, errors.New("最少工时不能为负数")
	}
	if !rules.StartDate.IsZero() && !rules.EndDate.IsZero() && rules.StartDate.After(rules.EndDate) {
		return nil, errors.New("排班窗口的开始日期不能晚于结束日期")
	}

	e := &Engine{
		rules:     rules,
		shifts:    make([]*domain.Shift, 0, len(shifts)),
		shiftMap:  make(map[int64]*domain.Shift),
		employees: employees,
	}

	for _, shift := range shifts {
		if _, err := time.Parse(clockLayout, shift.StartTime); err != nil {
			return nil, fmt.Errorf("班次 %d 的开始时间格式错误", shift.ID)
		}
		if _, err := time.Parse(clockLayout, shift.EndTime); err != nil {
			return nil, fmt.Errorf("班次 %d 的结束时间格式错误", shift.ID)
		}
		if _, exists := e.shiftMap[shift.ID]; exists {
			return nil, fmt.Errorf("班次 ID %d 重复", shift.ID)
		}
		e.shifts = append(e.shifts, shift)
		e.shiftMap[shift.ID] = shift
	}

	seen := make(map[int64]bool)
	for _, emp := range employees {
		if seen[emp.ID] {
			return nil, fmt.Errorf("员工 ID %d 重复", emp.ID)
		}
		seen[emp.ID] = true
	}

	return e, nil
}
