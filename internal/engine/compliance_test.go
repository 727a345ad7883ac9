package engine

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

func violationsOfKind(violations []Violation, kind RuleKind) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Rule == kind {
			out = append(out, v)
		}
	}
	return out
}

func customEngine(t *testing.T, rules *domain.SchedulingRules, employees []*domain.Employee) *Engine {
	t.Helper()
	e, err := New(rules, testShifts(), employees)
	if err != nil {
		t.Fatalf("构造引擎失败: %v", err)
	}
	return e
}

// 每周七天都上早班的员工
func everydayEmployee(id int64, name string) *domain.Employee {
	return &domain.Employee{
		ID:   id,
		Name: name,
		FixedShifts: map[int32]int64{
			1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1, 7: 1,
		},
	}
}

// ── 最大连续上班天数 ──

func TestCheckMaxConsecutive_FlagOnExceedingDay(t *testing.T) {
	emp := everydayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 7))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMaxConsecutive)

	if len(violations) != 1 {
		t.Fatalf("连续上班 7 天（上限 5）应标记 1 次，实际 %d 次", len(violations))
	}
	// 第 6 天首次超限
	if !violations[0].Date.Equal(testDate(2024, time.January, 6)) {
		t.Errorf("应在首次超限的 1 月 6 日标记，实际 %v", violations[0].Date)
	}
}

func TestCheckMaxConsecutive_DayOffResets(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	// 周一到周五上班、周末休息，连班最多 5 天，不应超限
	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 14))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMaxConsecutive)

	if len(violations) != 0 {
		t.Errorf("周末休息应重置连班计数，实际标记了 %d 次", len(violations))
	}
}

func TestCheckMaxConsecutive_PerEmployeeOverride(t *testing.T) {
	override := int32(3)
	emp := everydayEmployee(1, "张三")
	emp.MaxConsecutiveOverride = &override
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 5))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMaxConsecutive)

	if len(violations) != 1 {
		t.Fatalf("员工覆盖上限为 3 时应标记 1 次，实际 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 4)) {
		t.Errorf("应在 1 月 4 日标记，实际 %v", violations[0].Date)
	}
}

func TestCheckMaxConsecutive_InsufficientRestAfterMax(t *testing.T) {
	rules := testRules()
	rules.MaxConsecutiveShifts = 3
	rules.MinDaysOffAfterMaxShifts = 2

	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 1, "2024-01-02": 1, "2024-01-03": 1, "2024-01-04": 1,
			// 1 月 5 日休息一天后就复工，少于要求的 2 天
			"2024-01-06": 1,
		},
	}
	e := customEngine(t, rules, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 6))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMaxConsecutive)

	if len(violations) != 2 {
		t.Fatalf("期望超限和休息不足各 1 次，实际共 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 4)) {
		t.Errorf("超限应标记在 1 月 4 日，实际 %v", violations[0].Date)
	}
	if !violations[1].Date.Equal(testDate(2024, time.January, 6)) {
		t.Errorf("休息不足应标记在复工的 1 月 6 日，实际 %v", violations[1].Date)
	}
}

func TestCheckMaxConsecutive_SufficientRestAfterMax(t *testing.T) {
	rules := testRules()
	rules.MaxConsecutiveShifts = 3
	rules.MinDaysOffAfterMaxShifts = 2

	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 1, "2024-01-02": 1, "2024-01-03": 1, "2024-01-04": 1,
			// 休满 2 天后复工
			"2024-01-07": 1,
		},
	}
	e := customEngine(t, rules, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 7))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMaxConsecutive)

	if len(violations) != 1 {
		t.Errorf("休息足够后复工只应保留超限那 1 次标记，实际 %d 次", len(violations))
	}
}

// ── 最少休息时间 ──

func TestCheckMinRest_Violation(t *testing.T) {
	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 2, // 晚班 23:00 结束
			"2024-01-02": 1, // 早班 08:00 开始，仅休息 9 小时
		},
	}
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 2))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMinRest)

	if len(violations) != 1 {
		t.Fatalf("9 小时休息（下限 12）应标记 1 次，实际 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 2)) {
		t.Errorf("应标记在后一个工作日，实际 %v", violations[0].Date)
	}
}

func TestCheckMinRest_CrossMidnightShift(t *testing.T) {
	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 3, // 夜班在 1 月 2 日 06:00 结束
			"2024-01-02": 1, // 早班 08:00 开始，仅休息 2 小时
		},
	}
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 2))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMinRest)

	if len(violations) != 1 {
		t.Errorf("跨天班次的结束时刻应落在次日，期望 1 次标记，实际 %d 次", len(violations))
	}
}

func TestCheckMinRest_ExactBoundaryCompliant(t *testing.T) {
	rules := testRules()
	rules.MinRestHours = 16

	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 2, // 23:00 结束
			"2024-01-02": 2, // 15:00 开始，恰好 16 小时
		},
	}
	e := customEngine(t, rules, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 2))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMinRest)

	if len(violations) != 0 {
		t.Errorf("休息时间恰好等于下限时应视为合规，实际标记了 %d 次", len(violations))
	}
}

func TestCheckMinRest_GapDayNoViolation(t *testing.T) {
	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		ManualShifts: map[string]int64{
			"2024-01-01": 2,
			"2024-01-03": 1, // 中间隔了一个完整的休息日
		},
	}
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 3))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMinRest)

	if len(violations) != 0 {
		t.Errorf("隔天上班休息时间充足，不应标记，实际 %d 次", len(violations))
	}
}

// ── 休息周末 ──

func TestCountFreeWeekends(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	// 2024 年 1 月有 4 个完整周末：6/7、13/14、20/21、27/28
	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 31))
	if got := e.CountFreeWeekends(emp, days); got != 4 {
		t.Errorf("期望 4 个休息周末，实际 %d 个", got)
	}
}

func TestCountFreeWeekends_OneWorkingDayBreaksPair(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	emp.ManualShifts = map[string]int64{"2024-01-13": 1} // 周六加班

	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 31))
	if got := e.CountFreeWeekends(emp, days); got != 3 {
		t.Errorf("周六上班的周末不应计入，期望 3 个，实际 %d 个", got)
	}
}

func TestCountFreeWeekends_PartialWeekendNotCounted(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	// 区间从周日开始到周六结束，两端都凑不成完整的周末对
	days := DateRange(testDate(2024, time.January, 7), testDate(2024, time.January, 13))
	if got := e.CountFreeWeekends(emp, days); got != 0 {
		t.Errorf("不完整的周末不应计入，期望 0 个，实际 %d 个", got)
	}
}

func TestCheckWeekendsOff_Violation(t *testing.T) {
	emp := everydayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	// 31 天按 28 天一个周期向上取整为 2 个周期，要求 2 个休息周末
	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 31))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleWeekendsOff)

	if len(violations) != 1 {
		t.Fatalf("全月无休应标记休息周末不足，实际 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 31)) {
		t.Errorf("应标记在区间最后一天，实际 %v", violations[0].Date)
	}
}

func TestCheckWeekendsOff_Compliant(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	e := newTestEngine(t, []*domain.Employee{emp})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 31))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleWeekendsOff)

	if len(violations) != 0 {
		t.Errorf("4 个休息周末满足要求，不应标记，实际 %d 次", len(violations))
	}
}

// ── 最少工时 ──

func TestCheckMinHours(t *testing.T) {
	rules := testRules()
	rules.MinHoursPerTwoWeeks = 80

	full := weekdayEmployee(1, "张三") // 每两周 10 个工作日共 80 小时
	short := &domain.Employee{
		ID:   2,
		Name: "李四",
		FixedShifts: map[int32]int64{
			1: 1, 2: 1, 3: 1, 4: 1, // 每周只上四天
		},
	}
	e := customEngine(t, rules, []*domain.Employee{full, short})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 14))

	if violations := violationsOfKind(e.CheckCompliance(full, days), RuleMinHours); len(violations) != 0 {
		t.Errorf("恰好 80 小时应视为达标，实际标记了 %d 次", len(violations))
	}

	violations := violationsOfKind(e.CheckCompliance(short, days), RuleMinHours)
	if len(violations) != 1 {
		t.Fatalf("64 小时（下限 80）应标记 1 次，实际 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 14)) {
		t.Errorf("应标记在周期最后一天，实际 %v", violations[0].Date)
	}
}

func TestCheckMinHours_WeeklyWindows(t *testing.T) {
	rules := testRules()
	rules.MinHoursPerWeek = 40

	full := weekdayEmployee(1, "张三") // 每周 5 个工作日共 40 小时
	short := &domain.Employee{
		ID:   2,
		Name: "李四",
		FixedShifts: map[int32]int64{
			1: 1, 2: 1, 3: 1, 4: 1,
		},
	}
	e := customEngine(t, rules, []*domain.Employee{full, short})

	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 14))

	if violations := violationsOfKind(e.CheckCompliance(full, days), RuleMinHoursWeek); len(violations) != 0 {
		t.Errorf("恰好 40 小时应视为达标，实际标记了 %d 次", len(violations))
	}

	violations := violationsOfKind(e.CheckCompliance(short, days), RuleMinHoursWeek)
	if len(violations) != 2 {
		t.Fatalf("两个完整单周都只有 32 小时（下限 40），应标记 2 次，实际 %d 次", len(violations))
	}
	if !violations[0].Date.Equal(testDate(2024, time.January, 7)) {
		t.Errorf("第一次应标记在第一周的最后一天，实际 %v", violations[0].Date)
	}
	if !violations[1].Date.Equal(testDate(2024, time.January, 14)) {
		t.Errorf("第二次应标记在第二周的最后一天，实际 %v", violations[1].Date)
	}
}

func TestCheckMinHours_PartialBucketSkipped(t *testing.T) {
	rules := testRules()
	rules.MinHoursPerTwoWeeks = 80

	emp := &domain.Employee{
		ID:   1,
		Name: "张三",
		FixedShifts: map[int32]int64{
			1: 1, 2: 1, 3: 1, 4: 1,
		},
	}
	e := customEngine(t, rules, []*domain.Employee{emp})

	// 17 天 = 一个完整周期 + 3 天的尾巴，尾巴不参与检查
	days := DateRange(testDate(2024, time.January, 1), testDate(2024, time.January, 17))
	violations := violationsOfKind(e.CheckCompliance(emp, days), RuleMinHours)

	if len(violations) != 1 {
		t.Errorf("不完整的末尾周期不应检查，期望 1 次标记，实际 %d 次", len(violations))
	}
}
