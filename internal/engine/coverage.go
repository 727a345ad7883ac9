package engine

import (
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// CountScheduled 统计某天被安排到该班次的员工数
// 请假和休息的员工不计入，即使他们的固定班次是这个班次
func (e *Engine) CountScheduled(shift *domain.Shift, date time.Time) int32 {
	var count int32
	for _, emp := range e.employees {
		assignment, _ := e.Resolve(emp, date)
		if assignment.Kind == KindAssigned && assignment.Shift.ID == shift.ID {
			count++
		}
	}
	return count
}

// IdealCount 返回该班次在某天的理想人数，未配置的周几默认为 0
func (e *Engine) IdealCount(shift *domain.Shift, date time.Time) int32 {
	day := DayOfWeek(date)
	if int(day) > len(shift.IdealCounts) {
		return 0
	}
	return shift.IdealCounts[day-1]
}

// CoverageGap 返回该班次在某天的人数缺口，下限为 0
func (e *Engine) CoverageGap(shift *domain.Shift, date time.Time) int32 {
	gap := e.IdealCount(shift, date) - e.CountScheduled(shift, date)
	if gap < 0 {
		return 0
	}
	return gap
}
