package domain

import "time"

// 班次在某一天的加班计划
type ShiftOvertimeEntry struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Quantity int32     `json:"quantity"`
	IsActive bool      `json:"isActive"`
}

type Shift struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	StartTime         string               `json:"startTime"` // 格式为 15:04:05
	EndTime           string               `json:"endTime"`   // 结束时间小于开始时间时表示该班次跨天
	LunchBreakMinutes int32                `json:"lunchBreakMinutes"`
	IdealCounts       []int32              `json:"idealCounts"` // 下标 0~6 对应周一到周日的理想人数
	OvertimeActive    bool                 `json:"overtimeActive"`
	OvertimeEntries   []ShiftOvertimeEntry `json:"overtimeEntries"`
	CreatedAt         time.Time            `json:"createdAt"`
	Version           int32                `json:"-"`
}
