package engine

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// ── 测试辅助 ──

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// 三个班次：早班、晚班和跨天的夜班
func testShifts() []*domain.Shift {
	return []*domain.Shift{
		{ID: 1, Name: "早班", StartTime: "08:00:00", EndTime: "16:00:00", IdealCounts: []int32{2, 2, 2, 2, 2, 1, 1}},
		{ID: 2, Name: "晚班", StartTime: "15:00:00", EndTime: "23:00:00", IdealCounts: []int32{2, 2, 2, 2, 2, 1, 1}},
		{ID: 3, Name: "夜班", StartTime: "22:00:00", EndTime: "06:00:00", IdealCounts: []int32{1, 1, 1, 1, 1, 1, 1}},
	}
}

func testRules() *domain.SchedulingRules {
	return &domain.SchedulingRules{
		ID:                       1,
		StartDate:                testDate(2024, time.January, 1),
		EndDate:                  testDate(2024, time.March, 31),
		MaxConsecutiveShifts:     5,
		MinDaysOffAfterMaxShifts: 2,
		MinRestHours:             12,
		MinWeekendsOffPerPeriod:  1,
	}
}

func newTestEngine(t *testing.T, employees []*domain.Employee) *Engine {
	t.Helper()
	e, err := New(testRules(), testShifts(), employees)
	if err != nil {
		t.Fatalf("构造引擎失败: %v", err)
	}
	return e
}

// 周一到周五固定上早班的员工
func weekdayEmployee(id int64, name string) *domain.Employee {
	return &domain.Employee{
		ID:   id,
		Name: name,
		FixedShifts: map[int32]int64{
			1: 1, 2: 1, 3: 1, 4: 1, 5: 1,
		},
	}
}

// ── New 的参数校验 ──

func TestNew_NilRules(t *testing.T) {
	if _, err := New(nil, testShifts(), []*domain.Employee{}); err == nil {
		t.Error("排班规则为空时应返回错误")
	}
}

func TestNew_NilEmployees(t *testing.T) {
	if _, err := New(testRules(), testShifts(), nil); err == nil {
		t.Error("员工列表为空时应返回错误")
	}
}

func TestNew_InvalidThresholds(t *testing.T) {
	rules := testRules()
	rules.MaxConsecutiveShifts = 0
	if _, err := New(rules, testShifts(), []*domain.Employee{}); err == nil {
		t.Error("最大连续上班天数小于 1 时应返回错误")
	}

	rules = testRules()
	rules.MinRestHours = -1
	if _, err := New(rules, testShifts(), []*domain.Employee{}); err == nil {
		t.Error("最少休息小时数为负数时应返回错误")
	}
}

func TestNew_InvalidScheduleWindow(t *testing.T) {
	rules := testRules()
	rules.StartDate = testDate(2024, time.February, 1)
	rules.EndDate = testDate(2024, time.January, 1)
	if _, err := New(rules, testShifts(), []*domain.Employee{}); err == nil {
		t.Error("排班窗口开始晚于结束时应返回错误")
	}
}

func TestNew_InvalidShiftTime(t *testing.T) {
	shifts := testShifts()
	shifts[0].StartTime = "早上八点"
	if _, err := New(testRules(), shifts, []*domain.Employee{}); err == nil {
		t.Error("班次时间格式错误时应返回错误")
	}
}

func TestNew_DuplicateShiftID(t *testing.T) {
	shifts := testShifts()
	shifts[1].ID = shifts[0].ID
	if _, err := New(testRules(), shifts, []*domain.Employee{}); err == nil {
		t.Error("班次 ID 重复时应返回错误")
	}
}

func TestNew_DuplicateEmployeeID(t *testing.T) {
	employees := []*domain.Employee{
		weekdayEmployee(1, "张三"),
		weekdayEmployee(1, "李四"),
	}
	if _, err := New(testRules(), testShifts(), employees); err == nil {
		t.Error("员工 ID 重复时应返回错误")
	}
}
