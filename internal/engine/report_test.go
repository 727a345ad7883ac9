package engine

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

func TestBuildReport_InvertedRange(t *testing.T) {
	e := newTestEngine(t, []*domain.Employee{weekdayEmployee(1, "张三")})

	if _, err := e.BuildReport(testDate(2024, time.January, 31), testDate(2024, time.January, 1)); err == nil {
		t.Error("开始日期晚于结束日期时应返回错误")
	}
}

func TestBuildReport_SingleDay(t *testing.T) {
	e := newTestEngine(t, []*domain.Employee{weekdayEmployee(1, "张三")})

	report, err := e.BuildReport(testDate(2024, time.January, 1), testDate(2024, time.January, 1))
	if err != nil {
		t.Fatalf("单日区间应能生成报告: %v", err)
	}
	if len(report.Employees) != 1 {
		t.Fatalf("期望 1 个员工的结果，实际 %d 个", len(report.Employees))
	}
	if len(report.Employees[0].BucketHours) != 1 {
		t.Errorf("单日区间应产生 1 个工时周期，实际 %d 个", len(report.Employees[0].BucketHours))
	}
	if report.Employees[0].BucketHours[0] != 8 {
		t.Errorf("周一上早班期望 8 小时，实际 %.2f", report.Employees[0].BucketHours[0])
	}
}

func TestBuildReport_CoverageRows(t *testing.T) {
	employees := []*domain.Employee{
		weekdayEmployee(1, "张三"),
		weekdayEmployee(2, "李四"),
	}
	e := newTestEngine(t, employees)

	report, err := e.BuildReport(testDate(2024, time.January, 1), testDate(2024, time.January, 7))
	if err != nil {
		t.Fatalf("生成报告失败: %v", err)
	}

	// 每个班次每天一行
	if len(report.Coverage) != 3*7 {
		t.Fatalf("期望 %d 行覆盖数据，实际 %d 行", 3*7, len(report.Coverage))
	}

	// 周一早班：两人都被安排，理想 2 人，缺口 0
	first := report.Coverage[0]
	if first.ShiftID != 1 || !first.Date.Equal(testDate(2024, time.January, 1)) {
		t.Fatalf("覆盖数据应按班次和日期有序排列，实际第一行 %+v", first)
	}
	if first.Scheduled != 2 || first.Ideal != 2 || first.Gap != 0 {
		t.Errorf("周一早班期望 2/2 缺口 0，实际 %d/%d 缺口 %d", first.Scheduled, first.Ideal, first.Gap)
	}
}

func TestBuildReport_CollectsWarnings(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	emp.ManualShifts = map[string]int64{"2024-01-02": 42} // 不存在的班次
	e := newTestEngine(t, []*domain.Employee{emp})

	report, err := e.BuildReport(testDate(2024, time.January, 1), testDate(2024, time.January, 7))
	if err != nil {
		t.Fatalf("数据完整性问题不应中断计算: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("期望 1 条警告，实际 %d 条", len(report.Warnings))
	}

	// 引用不存在班次的那天按未排班聚合
	for _, row := range report.Coverage {
		if row.Date.Equal(testDate(2024, time.January, 2)) && row.ShiftID == 1 && row.Scheduled != 0 {
			t.Errorf("1 月 2 日不应有人被计入早班，实际 %d 人", row.Scheduled)
		}
	}
}

func TestBuildReport_EmptyRoster(t *testing.T) {
	e := newTestEngine(t, []*domain.Employee{})

	report, err := e.BuildReport(testDate(2024, time.January, 1), testDate(2024, time.January, 7))
	if err != nil {
		t.Fatalf("空员工列表应能生成报告: %v", err)
	}
	if len(report.Employees) != 0 {
		t.Errorf("期望 0 个员工的结果，实际 %d 个", len(report.Employees))
	}
	for _, row := range report.Coverage {
		if row.Scheduled != 0 {
			t.Errorf("空员工列表时所有班次的排班人数都应为 0，实际 %+v", row)
			break
		}
	}
}

func TestBuildReport_EmployeeSummary(t *testing.T) {
	emp := weekdayEmployee(1, "张三")
	emp.Preferences = []int32{1, 0, 0}
	e := newTestEngine(t, []*domain.Employee{emp})

	report, err := e.BuildReport(testDate(2024, time.January, 1), testDate(2024, time.January, 28))
	if err != nil {
		t.Fatalf("生成报告失败: %v", err)
	}

	summary := report.Employees[0]
	if summary.EmployeeID != 1 || summary.Name != "张三" {
		t.Errorf("员工信息不正确: %+v", summary)
	}
	if len(summary.BucketHours) != 2 {
		t.Errorf("28 天期望 2 个工时周期，实际 %d 个", len(summary.BucketHours))
	}
	if summary.FreeWeekends != 4 {
		t.Errorf("期望 4 个休息周末，实际 %d 个", summary.FreeWeekends)
	}
	if summary.PreferenceMatch != 100 {
		t.Errorf("全部被安排到第一偏好班次，期望匹配率 100.00，实际 %.2f", summary.PreferenceMatch)
	}
	if len(summary.Violations) != 0 {
		t.Errorf("合规的安排不应有违规记录，实际 %d 条", len(summary.Violations))
	}
}
