package engine

import (
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// AssignmentKind: 某员工某天的生效安排的类型
type AssignmentKind int

const (
	KindUnassigned AssignmentKind = iota // 未排班
	KindDayOff                           // 休息日
	KindOnLeave                          // 请假
	KindAssigned                         // 被安排到某个班次
)

// Assignment: 某员工在某天的生效安排
// 四种类型有且仅有一种成立，由 Kind 区分
type Assignment struct {
	Kind  AssignmentKind
	Shift *domain.Shift       // 仅当 Kind 为 KindAssigned 时非空
	Leave *domain.LeaveRecord // 仅当 Kind 为 KindOnLeave 时非空
}

// RuleKind: 合规检查的规则类型
type RuleKind string

const (
	RuleMaxConsecutive RuleKind = "max_consecutive_shifts"
	RuleMinRest        RuleKind = "min_rest_hours"
	RuleWeekendsOff    RuleKind = "min_weekends_off"
	RuleMinHoursWeek   RuleKind = "min_hours_per_week"
	RuleMinHours       RuleKind = "min_hours_per_two_weeks"
)

// Violation: 一条违反排班规则的记录
type Violation struct {
	EmployeeID int64     `json:"employeeID"`
	Date       time.Time `json:"date"`
	Rule       RuleKind  `json:"rule"`
	Message    string    `json:"message"`
}

// Warning: 数据完整性警告
// 警告不会中断计算，计算会按降级后的数据继续，但警告需要随报告返回给调用方
type Warning struct {
	EmployeeID int64     `json:"employeeID"`
	Date       time.Time `json:"date"`
	Message    string    `json:"message"`
}
