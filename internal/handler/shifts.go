package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

const clockLayout = "15:04:05"

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repository.GetAllShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有班次成功", shifts)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string  `json:"name" validate:"required"`
		StartTime         string  `json:"startTime" validate:"required"`
		EndTime           string  `json:"endTime" validate:"required"`
		LunchBreakMinutes int32   `json:"lunchBreakMinutes" validate:"gte=0"`
		IdealCounts       []int32 `json:"idealCounts" validate:"required,len=7,dive,gte=0"`
		OvertimeActive    bool    `json:"overtimeActive"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 开始时间和结束时间必须是合法的时刻，结束时间早于开始时间表示班次跨天
	if _, err := time.Parse(clockLayout, req.StartTime); err != nil {
		h.errorResponse(w, r, "开始时间格式错误")
		return
	}
	if _, err := time.Parse(clockLayout, req.EndTime); err != nil {
		h.errorResponse(w, r, "结束时间格式错误")
		return
	}

	shift := &domain.Shift{
		Name:              req.Name,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		LunchBreakMinutes: req.LunchBreakMinutes,
		IdealCounts:       req.IdealCounts,
		OvertimeActive:    req.OvertimeActive,
		OvertimeEntries:   make([]domain.ShiftOvertimeEntry, 0),
	}

	if err := h.repository.CreateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shifts_name_key":
				h.errorResponse(w, r, "班次名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Name              *string `json:"name"`
		StartTime         *string `json:"startTime"`
		EndTime           *string `json:"endTime"`
		LunchBreakMinutes *int32  `json:"lunchBreakMinutes" validate:"omitempty,gte=0"`
		IdealCounts       []int32 `json:"idealCounts" validate:"omitempty,len=7,dive,gte=0"`
		OvertimeActive    *bool   `json:"overtimeActive"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		shift.Name = *req.Name
	}
	if req.StartTime != nil {
		if _, err := time.Parse(clockLayout, *req.StartTime); err != nil {
			h.errorResponse(w, r, "开始时间格式错误")
			return
		}
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if _, err := time.Parse(clockLayout, *req.EndTime); err != nil {
			h.errorResponse(w, r, "结束时间格式错误")
			return
		}
		shift.EndTime = *req.EndTime
	}
	if req.LunchBreakMinutes != nil {
		shift.LunchBreakMinutes = *req.LunchBreakMinutes
	}
	if req.IdealCounts != nil {
		shift.IdealCounts = req.IdealCounts
	}
	if req.OvertimeActive != nil {
		shift.OvertimeActive = *req.OvertimeActive
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shifts_name_key":
				h.errorResponse(w, r, "班次名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	// 引用该班次的固定排班和手动排班不阻止删除，残留的引用在报告中降级为警告
	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) CreateShiftOvertimeEntry(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Date     string `json:"date" validate:"required"`
		Quantity int32  `json:"quantity" validate:"required,gte=1"`
		IsActive *bool  `json:"isActive"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	entry := &domain.ShiftOvertimeEntry{
		Date:     date,
		Quantity: req.Quantity,
		IsActive: true,
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := h.repository.CreateShiftOvertimeEntry(shift.ID, entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "创建加班计划成功", entry)
}

func (h *Handler) DeleteShiftOvertimeEntry(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	entryIDParam := chi.URLParam(r, "entryID")
	entryID, err := strconv.ParseInt(entryIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "加班计划ID无效")
		return
	}

	if err := h.repository.DeleteShiftOvertimeEntry(shift.ID, entryID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "加班计划不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "删除加班计划成功", nil)
}
