package engine

import (
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// OvertimeAvailable 返回某班次在某天额外开放的加班名额
// 全局加班开关带来的缺口名额与当天显式配置的加班名额是叠加关系，不是二选一
func (e *Engine) OvertimeAvailable(shift *domain.Shift, date time.Time) int32 {
	return e.overtimeWithGap(shift, date, e.CoverageGap(shift, date))
}

func (e *Engine) overtimeWithGap(shift *domain.Shift, date time.Time, gap int32) int32 {
	var total int32

	if shift.OvertimeActive {
		total += gap
	}

	for i := range shift.OvertimeEntries {
		entry := &shift.OvertimeEntries[i]
		if entry.IsActive && sameDay(entry.Date, date) {
			total += entry.Quantity
		}
	}

	return total
}
