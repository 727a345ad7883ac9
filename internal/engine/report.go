package engine

import (
	"errors"
	"time"
)

// EmployeeReport: 单个员工在区间内的汇总结果
type EmployeeReport struct {
	EmployeeID      int64       `json:"employeeID"`
	Name            string      `json:"name"`
	BucketHours     []float64   `json:"bucketHours"` // 每 14 天一个周期的工时
	FreeWeekends    int32       `json:"freeWeekends"`
	PreferenceMatch float64     `json:"preferenceMatch"`
	Violations      []Violation `json:"violations"`
}

// ShiftCoverage: 某班次在某天的人员覆盖情况
type ShiftCoverage struct {
	ShiftID           int64     `json:"shiftID"`
	Date              time.Time `json:"date"`
	Scheduled         int32     `json:"scheduled"`
	Ideal             int32     `json:"ideal"`
	Gap               int32     `json:"gap"`
	OvertimeAvailable int32     `json:"overtimeAvailable"`
}

type Report struct {
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Employees []EmployeeReport `json:"employees"`
	Coverage  []ShiftCoverage  `json:"coverage"`
	Warnings  []Warning        `json:"warnings"`
}

// BuildReport 对整个员工列表和日期区间生成组合报告
// 报告是纯粹的派生数据，底层数据变更后需要重新计算，不能跨变更缓存
func (e *Engine) BuildReport(start, end time.Time) (*Report, error) {
	start = StartOfDay(start)
	end = StartOfDay(end)

	if start.After(end) {
		return nil, errors.New("开始日期不能晚于结束日期")
	}

	days := DateRange(start, end)

	report := &Report{
		StartDate: start,
		EndDate:   end,
		Employees: make([]EmployeeReport, 0, len(e.employees)),
		Warnings:  make([]Warning, 0),
	}

	// 每个班次每天被安排的人数，由所有员工的时间线汇总得到
	scheduled := make(map[int64][]int32)
	for _, shift := range e.shifts {
		scheduled[shift.ID] = make([]int32, len(days))
	}

	for _, emp := range e.employees {
		assignments, warnings := e.resolveAll(emp, days)
		report.Warnings = append(report.Warnings, warnings...)

		for i := range assignments {
			if assignments[i].Kind == KindAssigned {
				scheduled[assignments[i].Shift.ID][i]++
			}
		}

		report.Employees = append(report.Employees, EmployeeReport{
			EmployeeID:      emp.ID,
			Name:            emp.Name,
			BucketHours:     aggregateHours(assignments),
			FreeWeekends:    countFreeWeekends(days, assignments),
			PreferenceMatch: e.matchPercentage(emp, assignments),
			Violations:      e.checkCompliance(emp, days, assignments),
		})
	}

	report.Coverage = make([]ShiftCoverage, 0, len(e.shifts)*len(days))
	for _, shift := range e.shifts {
		for i, day := range days {
			ideal := e.IdealCount(shift, day)
			gap := ideal - scheduled[shift.ID][i]
			if gap < 0 {
				gap = 0
			}

			report.Coverage = append(report.Coverage, ShiftCoverage{
				ShiftID:           shift.ID,
				Date:              day,
				Scheduled:         scheduled[shift.ID][i],
				Ideal:             ideal,
				Gap:               gap,
				OvertimeAvailable: e.overtimeWithGap(shift, day, gap),
			})
		}
	}

	return report, nil
}
