package domain

import "time"

// 固定班次和手动班次中用于表示休息日的哨兵值
const DayOffShiftID int64 = -1

type LeaveRecord struct {
	ID          int64     `json:"id"`
	StartDate   time.Time `json:"startDate"` // 起止日期均为闭区间
	EndDate     time.Time `json:"endDate"`
	Type        string    `json:"type"`
	HoursPerDay float64   `json:"hoursPerDay"` // 请假期间每天计入的工时
}

type Employee struct {
	ID       int64     `json:"id"`
	Number   string    `json:"number"` // 工号
	Name     string    `json:"name"`
	HireDate time.Time `json:"hireDate"`
	// 周几（1~7，周一为 1）-> 班次 ID，DayOffShiftID 表示固定休息日
	FixedShifts map[int32]int64 `json:"fixedShifts"`
	// 日期（格式 2006-01-02）-> 班次 ID，仅覆盖当天的固定班次
	ManualShifts map[string]int64 `json:"manualShifts"`
	Leaves       []LeaveRecord    `json:"leaves"`
	// 与班次列表一一对应，1 为最偏好，0 表示无偏好
	Preferences            []int32   `json:"preferences"`
	MaxConsecutiveOverride *int32    `json:"maxConsecutiveOverride"` // 为空时使用全局规则
	IsActive               bool      `json:"isActive"`
	CreatedAt              time.Time `json:"createdAt"`
	Version                int32     `json:"-"`
}

// 返回该员工生效的最大连续上班天数
func (e *Employee) EffectiveMaxConsecutive(rules *SchedulingRules) int32 {
	if e.MaxConsecutiveOverride != nil {
		return *e.MaxConsecutiveOverride
	}
	return rules.MaxConsecutiveShifts
}
