package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"
)

func (h *Handler) GetSchedulingRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repository.GetSchedulingRules()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班规则尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排班规则成功", rules)
}

func (h *Handler) UpdateSchedulingRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repository.GetSchedulingRules()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班规则尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var req struct {
		StartDate                *string  `json:"startDate"`
		EndDate                  *string  `json:"endDate"`
		MaxConsecutiveShifts     *int32   `json:"maxConsecutiveShifts" validate:"omitempty,gte=1"`
		MinDaysOffAfterMaxShifts *int32   `json:"minDaysOffAfterMaxShifts" validate:"omitempty,gte=1"`
		MinRestHours             *float64 `json:"minRestHours" validate:"omitempty,gt=0"`
		MinWeekendsOffPerPeriod  *int32   `json:"minWeekendsOffPerPeriod" validate:"omitempty,gte=0"`
		MinHoursPerWeek          *float64 `json:"minHoursPerWeek" validate:"omitempty,gte=0"`
		MinHoursPerTwoWeeks      *float64 `json:"minHoursPerTwoWeeks" validate:"omitempty,gte=0"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			h.errorResponse(w, r, "开始日期格式错误")
			return
		}
		rules.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式错误")
			return
		}
		rules.EndDate = endDate
	}
	if rules.StartDate.After(rules.EndDate) {
		h.errorResponse(w, r, "规则生效的开始日期不能晚于结束日期")
		return
	}

	if req.MaxConsecutiveShifts != nil {
		rules.MaxConsecutiveShifts = *req.MaxConsecutiveShifts
	}
	if req.MinDaysOffAfterMaxShifts != nil {
		rules.MinDaysOffAfterMaxShifts = *req.MinDaysOffAfterMaxShifts
	}
	if req.MinRestHours != nil {
		rules.MinRestHours = *req.MinRestHours
	}
	if req.MinWeekendsOffPerPeriod != nil {
		rules.MinWeekendsOffPerPeriod = *req.MinWeekendsOffPerPeriod
	}
	if req.MinHoursPerWeek != nil {
		rules.MinHoursPerWeek = *req.MinHoursPerWeek
	}
	if req.MinHoursPerTwoWeeks != nil {
		rules.MinHoursPerTwoWeeks = *req.MinHoursPerTwoWeeks
	}

	if err := h.repository.UpdateSchedulingRules(rules); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "更新排班规则成功", rules)
}
