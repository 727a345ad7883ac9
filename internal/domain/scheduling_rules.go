package domain

import "time"

// 排班规则，全局只有一条记录，所有员工共用
// 员工可以单独覆盖最大连续上班天数（见 Employee.MaxConsecutiveOverride）
type SchedulingRules struct {
	ID                       int64     `json:"id"`
	StartDate                time.Time `json:"startDate"`
	EndDate                  time.Time `json:"endDate"`
	MaxConsecutiveShifts     int32     `json:"maxConsecutiveShifts"`
	MinDaysOffAfterMaxShifts int32     `json:"minDaysOffAfterMaxShifts"`
	MinRestHours             float64   `json:"minRestHours"`
	MinWeekendsOffPerPeriod  int32     `json:"minWeekendsOffPerPeriod"` // 每 28 天内的最少休息周末数
	MinHoursPerWeek          float64   `json:"minHoursPerWeek"`
	MinHoursPerTwoWeeks      float64   `json:"minHoursPerTwoWeeks"`
	CreatedAt                time.Time `json:"createdAt"`
	Version                  int32     `json:"-"`
}

// DefaultSchedulingRules 返回覆盖今年全年的默认规则，规则表为空时在服务启动阶段写入
func DefaultSchedulingRules() *SchedulingRules {
	start := time.Date(time.Now().UTC().Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	return &SchedulingRules{
		StartDate:                start,
		EndDate:                  start.AddDate(1, 0, -1),
		MaxConsecutiveShifts:     5,
		MinDaysOffAfterMaxShifts: 2,
		MinRestHours:             12,
		MinWeekendsOffPerPeriod:  1,
		MinHoursPerWeek:          40,
		MinHoursPerTwoWeeks:      80,
	}
}
