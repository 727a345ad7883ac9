package engine

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// Resolve 解析某员工在某天的生效安排
// 优先级为：请假 > 手动班次 > 固定班次 > 未排班，这个顺序是整个引擎的核心约定
// 引用了不存在班次的安排会按未排班处理，并产生一条警告
func (e *Engine) Resolve(emp *domain.Employee, date time.Time) (Assignment, []Warning) {
	date = StartOfDay(date)

	// 请假的优先级最高，即使这一天有手动指定的班次也按请假处理
	for i := range emp.Leaves {
		rec := &emp.Leaves[i]
		if rec.StartDate.After(rec.EndDate) {
			// 无效的请假记录在解析时直接跳过，警告由 employeeDataWarnings 统一产生
			continue
		}
		if leaveContains(rec, date) {
			return Assignment{Kind: KindOnLeave, Leave: rec}, nil
		}
	}

	// 手动班次覆盖当天的固定班次
	if shiftID, exists := emp.ManualShifts[date.Format(dateLayout)]; exists {
		return e.resolveShiftID(emp, date, shiftID, "手动班次")
	}

	// 固定班次按周几匹配
	if shiftID, exists := emp.FixedShifts[DayOfWeek(date)]; exists {
		return e.resolveShiftID(emp, date, shiftID, "固定班次")
	}

	return Assignment{Kind: KindUnassigned}, nil
}

func (e *Engine) resolveShiftID(emp *domain.Employee, date time.Time, shiftID int64, source string) (Assignment, []Warning) {
	if shiftID == domain.DayOffShiftID {
		return Assignment{Kind: KindDayOff}, nil
	}

	shift, exists := e.shiftMap[shiftID]
	if !exists {
		warning := Warning{
			EmployeeID: emp.ID,
			Date:       date,
			Message:    fmt.Sprintf("%s引用了不存在的班次 %d，已按未排班处理", source, shiftID),
		}
		return Assignment{Kind: KindUnassigned}, []Warning{warning}
	}

	return Assignment{Kind: KindAssigned, Shift: shift}, nil
}

// resolveAll 解析某员工在整个日期区间内每一天的生效安排
func (e *Engine) resolveAll(emp *domain.Employee, days []time.Time) ([]Assignment, []Warning) {
	warnings := e.employeeDataWarnings(emp)

	assignments := make([]Assignment, len(days))
	for i, day := range days {
		assignment, ws := e.Resolve(emp, day)
		assignments[i] = assignment
		warnings = append(warnings, ws...)
	}

	return assignments, warnings
}

// employeeDataWarnings 检查员工数据本身的完整性，每个员工只检查一次，避免每天都重复产生相同的警告
func (e *Engine) employeeDataWarnings(emp *domain.Employee) []Warning {
	var warnings []Warning

	for i := range emp.Leaves {
		rec := &emp.Leaves[i]
		if rec.StartDate.After(rec.EndDate) {
			warnings = append(warnings, Warning{
				EmployeeID: emp.ID,
				Date:       StartOfDay(rec.StartDate),
				Message:    fmt.Sprintf("请假记录 %d 的开始日期晚于结束日期，该记录已被忽略", rec.ID),
			})
		}
	}

	if len(emp.Preferences) > 0 && len(emp.Preferences) != len(e.shifts) {
		warnings = append(warnings, Warning{
			EmployeeID: emp.ID,
			Message: fmt.Sprintf("偏好数量 %d 与班次数量 %d 不匹配，缺失的偏好按无偏好处理",
				len(emp.Preferences), len(e.shifts)),
		})
	}

	return warnings
}

func leaveContains(rec *domain.LeaveRecord, date time.Time) bool {
	start := StartOfDay(rec.StartDate)
	end := StartOfDay(rec.EndDate)
	return !date.Before(start) && !date.After(end)
}
