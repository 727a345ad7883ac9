package seed

import (
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/repository"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedDemoData 插入一套固定的演示数据：三个班次、排班规则和若干带固定班表的员工
// 数据是确定性的，方便对照报告结果
func SeedDemoData(r *repository.Repository) {
	year := time.Now().UTC().Year()

	/**********************************************
	 * 班次
	 **********************************************/
	shifts := []*domain.Shift{
		{
			Name:              "早班",
			StartTime:         "08:00:00",
			EndTime:           "16:00:00",
			LunchBreakMinutes: 30,
			IdealCounts:       []int32{3, 3, 3, 3, 3, 2, 2},
			OvertimeActive:    true,
		},
		{
			Name:              "晚班",
			StartTime:         "15:00:00",
			EndTime:           "23:00:00",
			LunchBreakMinutes: 30,
			IdealCounts:       []int32{2, 2, 2, 2, 2, 1, 1},
			OvertimeActive:    false,
		},
		{
			Name:              "夜班",
			StartTime:         "22:00:00",
			EndTime:           "06:00:00",
			LunchBreakMinutes: 0,
			IdealCounts:       []int32{1, 1, 1, 1, 1, 1, 1},
			OvertimeActive:    false,
		},
	}

	for _, shift := range shifts {
		shift.OvertimeEntries = make([]domain.ShiftOvertimeEntry, 0)
		if err := r.CreateShift(shift); err != nil {
			slog.Error("插入班次失败", "name", shift.Name, "error", err)
			return
		}
	}

	// 给早班加一条节前加班计划
	entry := &domain.ShiftOvertimeEntry{
		Date:     date(year, 12, 31),
		Quantity: 2,
		IsActive: true,
	}
	if err := r.CreateShiftOvertimeEntry(shifts[0].ID, entry); err != nil {
		slog.Error("插入加班计划失败", "error", err)
		return
	}

	/**********************************************
	 * 排班规则
	 **********************************************/
	if err := r.EnsureSchedulingRules(domain.DefaultSchedulingRules()); err != nil {
		slog.Error("插入排班规则失败", "error", err)
		return
	}

	/**********************************************
	 * 员工
	 **********************************************/
	weekdayPattern := func(shiftID int64) map[int32]int64 {
		return map[int32]int64{
			1: shiftID, 2: shiftID, 3: shiftID, 4: shiftID, 5: shiftID,
			6: domain.DayOffShiftID, 7: domain.DayOffShiftID,
		}
	}

	employees := []*domain.Employee{
		{
			Number:      "wangwei01",
			Name:        "王伟",
			HireDate:    date(year-2, 3, 1),
			FixedShifts: weekdayPattern(shifts[0].ID),
			Preferences: []int32{1, 0, 0},
			IsActive:    true,
		},
		{
			Number:      "limin02",
			Name:        "李敏",
			HireDate:    date(year-1, 9, 1),
			FixedShifts: weekdayPattern(shifts[1].ID),
			Preferences: []int32{0, 1, 0},
			IsActive:    true,
		},
		{
			Number:   "zhangjie03",
			Name:     "张杰",
			HireDate: date(year-1, 1, 15),
			FixedShifts: map[int32]int64{
				// 夜班轮值，周中休息
				1: shifts[2].ID, 2: shifts[2].ID, 3: domain.DayOffShiftID,
				4: shifts[2].ID, 5: shifts[2].ID, 6: shifts[2].ID, 7: domain.DayOffShiftID,
			},
			Preferences: []int32{0, 0, 1},
			IsActive:    true,
		},
		{
			Number:      "chenli04",
			Name:        "陈丽",
			HireDate:    date(year, 2, 1),
			FixedShifts: weekdayPattern(shifts[0].ID),
			Preferences: []int32{0, 0, 0},
			IsActive:    true,
		},
	}

	for _, emp := range employees {
		emp.ManualShifts = make(map[string]int64)
		emp.Leaves = make([]domain.LeaveRecord, 0)
		if err := r.CreateEmployee(emp); err != nil {
			slog.Error("插入员工失败", "name", emp.Name, "error", err)
			return
		}
	}

	/**********************************************
	 * 请假记录和手动班次
	 **********************************************/
	leave := &domain.LeaveRecord{
		StartDate:   date(year, 7, 1),
		EndDate:     date(year, 7, 5),
		Type:        "年假",
		HoursPerDay: 8,
	}
	if err := r.CreateLeaveRecord(employees[0].ID, leave); err != nil {
		slog.Error("插入请假记录失败", "error", err)
		return
	}

	// 李敏临时顶一天早班
	if err := r.SetManualShift(employees[1].ID, date(year, 7, 4), shifts[0].ID); err != nil {
		slog.Error("插入手动班次失败", "error", err)
		return
	}

	slog.Info("插入演示数据完成")
}
