package engine

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// 周末计数的换算周期为 28 天
const weekendPeriodDays = 28

// CheckCompliance 对某员工在区间内的安排执行全部合规检查
func (e *Engine) CheckCompliance(emp *domain.Employee, days []time.Time) []Violation {
	assignments, _ := e.resolveAll(emp, days)
	return e.checkCompliance(emp, days, assignments)
}

func (e *Engine) checkCompliance(emp *domain.Employee, days []time.Time, assignments []Assignment) []Violation {
	var violations []Violation
	violations = append(violations, e.checkMaxConsecutive(emp, days, assignments)...)
	violations = append(violations, e.checkMinRest(emp, days, assignments)...)
	violations = append(violations, e.checkWeekendsOff(emp, days, assignments)...)
	violations = append(violations, e.checkMinHours(emp, days, assignments)...)
	return violations
}

// checkMaxConsecutive 检查最大连续上班天数
// 连班计数在任何非工作日（休息、请假、未排班）清零
// 一段超限的连班结束后，员工需要先连续休息满 MinDaysOffAfterMaxShifts 天才能再次上班
func (e *Engine) checkMaxConsecutive(emp *domain.Employee, days []time.Time, assignments []Assignment) []Violation {
	maxShifts := emp.EffectiveMaxConsecutive(e.rules)
	minOff := e.rules.MinDaysOffAfterMaxShifts

	var violations []Violation
	var streak int32
	exceeded := false    // 当前连班是否已经超限
	pendingRest := false // 超限连班刚结束，正在等待足额休息
	var restDays int32

	for i := range assignments {
		if assignments[i].Kind != KindAssigned {
			if exceeded {
				exceeded = false
				pendingRest = true
				restDays = 0
			}
			if pendingRest {
				restDays++
			}
			streak = 0
			continue
		}

		if pendingRest {
			if restDays < minOff {
				violations = append(violations, Violation{
					EmployeeID: emp.ID,
					Date:       days[i],
					Rule:       RuleMaxConsecutive,
					Message: fmt.Sprintf("连续上班达到上限后仅休息了 %d 天，少于要求的 %d 天",
						restDays, minOff),
				})
			}
			pendingRest = false
		}

		streak++
		if streak > maxShifts && !exceeded {
			// 同一段连班只在首次超限的那天标记一次
			exceeded = true
			violations = append(violations, Violation{
				EmployeeID: emp.ID,
				Date:       days[i],
				Rule:       RuleMaxConsecutive,
				Message:    fmt.Sprintf("连续上班 %d 天，超过上限 %d 天", streak, maxShifts),
			})
		}
	}

	return violations
}

// checkMinRest 检查相邻两个工作日之间的休息时间
// 休息时间为前一班次的结束时刻（跨天班次落在后一个日历日）到后一班次开始时刻的间隔
// 休息时间恰好等于下限时视为合规
func (e *Engine) checkMinRest(emp *domain.Employee, days []time.Time, assignments []Assignment) []Violation {
	minRest := e.rules.MinRestHours
	if minRest <= 0 {
		return nil
	}

	var violations []Violation
	prev := -1

	for i := range assignments {
		if assignments[i].Kind != KindAssigned {
			continue
		}

		if prev >= 0 {
			prevEnd := shiftEndOnDay(days[prev], assignments[prev].Shift)
			curStart := clockOnDay(days[i], assignments[i].Shift.StartTime)

			rest := curStart.Sub(prevEnd).Hours()
			if rest < minRest {
				violations = append(violations, Violation{
					EmployeeID: emp.ID,
					Date:       days[i],
					Rule:       RuleMinRest,
					Message: fmt.Sprintf("两次上班之间仅休息了 %.1f 小时，少于要求的 %.1f 小时",
						rest, minRest),
				})
			}
		}

		prev = i
	}

	return violations
}

// shiftEndOnDay 返回某天的班次的实际结束时刻，跨天班次的结束时刻落在后一个日历日
func shiftEndOnDay(day time.Time, shift *domain.Shift) time.Time {
	start := clockOnDay(day, shift.StartTime)
	end := clockOnDay(day, shift.EndTime)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return end
}

// CountFreeWeekends 统计区间内员工完整休息的周末数
// 只有周六和周日都不上班（休息、请假或未排班）的周末才计入
func (e *Engine) CountFreeWeekends(emp *domain.Employee, days []time.Time) int32 {
	assignments, _ := e.resolveAll(emp, days)
	return countFreeWeekends(days, assignments)
}

func countFreeWeekends(days []time.Time, assignments []Assignment) int32 {
	var count int32

	for i := range days {
		// 周六开头且后一天是周日才构成一个完整的周末对
		if DayOfWeek(days[i]) != 6 || i+1 >= len(days) {
			continue
		}
		if assignments[i].Kind != KindAssigned && assignments[i+1].Kind != KindAssigned {
			count++
		}
	}

	return count
}

// checkWeekendsOff 检查区间内的休息周末数
// 要求的周末数按区间长度占 28 天的比例向上取整换算
func (e *Engine) checkWeekendsOff(emp *domain.Employee, days []time.Time, assignments []Assignment) []Violation {
	if e.rules.MinWeekendsOffPerPeriod <= 0 || len(days) == 0 {
		return nil
	}

	periods := int32((len(days) + weekendPeriodDays - 1) / weekendPeriodDays)
	required := e.rules.MinWeekendsOffPerPeriod * periods

	free := countFreeWeekends(days, assignments)
	if free >= required {
		return nil
	}

	return []Violation{{
		EmployeeID: emp.ID,
		Date:       days[len(days)-1],
		Rule:       RuleWeekendsOff,
		Message:    fmt.Sprintf("区间内仅有 %d 个休息周末，少于要求的 %d 个", free, required),
	}}
}

// checkMinHours 检查每个完整的单周和双周窗口的工时是否达到下限
// 末尾不满一个窗口的天数无法公平地按比例换算，不参与检查
func (e *Engine) checkMinHours(emp *domain.Employee, days []time.Time, assignments []Assignment) []Violation {
	var violations []Violation
	violations = append(violations, e.checkHoursWindows(emp, days, assignments,
		7, e.rules.MinHoursPerWeek, RuleMinHoursWeek, "单周")...)
	violations = append(violations, e.checkHoursWindows(emp, days, assignments,
		hoursBucketDays, e.rules.MinHoursPerTwoWeeks, RuleMinHours, "两周")...)
	return violations
}

func (e *Engine) checkHoursWindows(emp *domain.Employee, days []time.Time, assignments []Assignment, windowDays int, threshold float64, rule RuleKind, label string) []Violation {
	if threshold <= 0 {
		return nil
	}

	var violations []Violation
	total := 0.0
	dayCount := 0

	for i := range assignments {
		total += hoursForDay(&assignments[i])
		dayCount++

		if dayCount == windowDays {
			if round2(total) < threshold {
				violations = append(violations, Violation{
					EmployeeID: emp.ID,
					Date:       days[i],
					Rule:       rule,
					Message: fmt.Sprintf("%s工时 %.2f 小时，少于要求的 %.2f 小时",
						label, round2(total), threshold),
				})
			}
			total = 0
			dayCount = 0
		}
	}

	return violations
}
