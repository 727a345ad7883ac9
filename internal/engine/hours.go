package engine

import (
	"math"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// 工时按 14 天一个周期分桶
const hoursBucketDays = 14

// ShiftDuration 返回班次的工作时长（小时），已扣除午休
// 结束时间早于开始时间时表示班次跨天，按加 24 小时处理
func ShiftDuration(shift *domain.Shift) float64 {
	startTime, _ := time.Parse(clockLayout, shift.StartTime)
	endTime, _ := time.Parse(clockLayout, shift.EndTime)

	duration := endTime.Sub(startTime)
	if duration < 0 {
		duration += 24 * time.Hour
	}

	return duration.Hours() - float64(shift.LunchBreakMinutes)/60
}

// AggregateHours 按 14 天一个周期累计员工在区间内的工时，返回每个周期的总数
// 区间的最后一天总是会关闭当前周期，所以最后一个周期可能不满 14 天
func (e *Engine) AggregateHours(emp *domain.Employee, days []time.Time) []float64 {
	assignments, _ := e.resolveAll(emp, days)
	return aggregateHours(assignments)
}

func aggregateHours(assignments []Assignment) []float64 {
	var buckets []float64
	total := 0.0
	dayCount := 0

	for i := range assignments {
		total += hoursForDay(&assignments[i])
		dayCount++

		if dayCount == hoursBucketDays || i == len(assignments)-1 {
			buckets = append(buckets, round2(total))
			total = 0
			dayCount = 0
		}
	}

	return buckets
}

// hoursForDay 返回某天计入的工时：请假按请假记录的每日工时，上班按班次时长，其余为 0
func hoursForDay(a *Assignment) float64 {
	switch a.Kind {
	case KindOnLeave:
		return a.Leave.HoursPerDay
	case KindAssigned:
		return ShiftDuration(a.Shift)
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
