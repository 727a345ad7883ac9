package engine

import (
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

// MatchPercentage 计算员工的实际安排与其第一偏好班次的匹配率（0~100，保留两位小数）
// 请假的天数自动计入匹配，休息和未排班的天数不参与计算
func (e *Engine) MatchPercentage(emp *domain.Employee, days []time.Time) float64 {
	assignments, _ := e.resolveAll(emp, days)
	return e.matchPercentage(emp, assignments)
}

func (e *Engine) matchPercentage(emp *domain.Employee, assignments []Assignment) float64 {
	preferredID, hasPreferred := e.preferredShiftID(emp)

	matched := 0
	countable := 0

	for i := range assignments {
		switch assignments[i].Kind {
		case KindOnLeave:
			// 请假时不存在偏好冲突，按匹配处理
			countable++
			matched++
		case KindAssigned:
			countable++
			if hasPreferred && assignments[i].Shift.ID == preferredID {
				matched++
			}
		}
	}

	if countable == 0 {
		return 0
	}

	return round2(float64(matched) / float64(countable) * 100)
}

// preferredShiftID 返回员工的第一偏好班次（偏好值为 1 的第一个班次）
func (e *Engine) preferredShiftID(emp *domain.Employee) (int64, bool) {
	for i, rank := range emp.Preferences {
		if i >= len(e.shifts) {
			// 偏好数量多于班次数量时，多出的部分没有对应的班次
			break
		}
		if rank == 1 {
			return e.shifts[i].ID, true
		}
	}
	return 0, false
}
