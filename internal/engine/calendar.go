package engine

import "time"

const (
	clockLayout = "15:04:05"
	dateLayout  = "2006-01-02"
)

// DateRange 返回 [start, end] 闭区间内的每一天，统一对齐到 UTC 零点
// start 晚于 end 时返回空序列
func DateRange(start, end time.Time) []time.Time {
	start = StartOfDay(start)
	end = StartOfDay(end)

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// StartOfDay 将时间对齐到 UTC 零点，避免本地时区导致的日期漂移
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayOfWeek 返回 UTC 下的周几（1~7，周一为 1）
func DayOfWeek(t time.Time) int32 {
	day := int32(t.UTC().Weekday())
	if day == 0 {
		return 7
	}
	return day
}

func sameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// clockOnDay 把 15:04:05 格式的时刻落到某一天上，day 需要已对齐到零点
func clockOnDay(day time.Time, clock string) time.Time {
	t, _ := time.Parse(clockLayout, clock)
	return day.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}
