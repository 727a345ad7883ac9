package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// unknownFixedShiftID 在固定班次中查找既不是休息日标记也不对应任何已有班次的ID
func unknownFixedShiftID(fixed map[int32]int64, shifts []*domain.Shift) (int64, bool) {
	known := make(map[int64]struct{}, len(shifts))
	for _, shift := range shifts {
		known[shift.ID] = struct{}{}
	}

	for _, shiftID := range fixed {
		if shiftID == domain.DayOffShiftID {
			continue
		}
		if _, ok := known[shiftID]; !ok {
			return shiftID, true
		}
	}

	return 0, false
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有员工成功", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number                 string          `json:"number" validate:"required"`
		Name                   string          `json:"name" validate:"required"`
		HireDate               string          `json:"hireDate" validate:"required"`
		FixedShifts            map[int32]int64 `json:"fixedShifts" validate:"omitempty,dive,keys,gte=1,lte=7,endkeys"`
		Preferences            []int32         `json:"preferences" validate:"omitempty,dive,gte=0"`
		MaxConsecutiveOverride *int32          `json:"maxConsecutiveOverride" validate:"omitempty,gte=1"`
		IsActive               *bool           `json:"isActive"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		h.errorResponse(w, r, "入职日期格式错误")
		return
	}

	// 固定班次的值只能是休息日标记或已有班次的ID
	if len(req.FixedShifts) > 0 {
		shifts, err := h.repository.GetAllShifts()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if shiftID, ok := unknownFixedShiftID(req.FixedShifts, shifts); ok {
			h.errorResponse(w, r, fmt.Sprintf("固定班次引用了不存在的班次 %d", shiftID))
			return
		}
	}

	emp := &domain.Employee{
		Number:                 req.Number,
		Name:                   req.Name,
		HireDate:               hireDate,
		FixedShifts:            req.FixedShifts,
		ManualShifts:           make(map[string]int64),
		Leaves:                 make([]domain.LeaveRecord, 0),
		Preferences:            req.Preferences,
		MaxConsecutiveOverride: req.MaxConsecutiveOverride,
		IsActive:               true,
	}
	if emp.FixedShifts == nil {
		emp.FixedShifts = make(map[int32]int64)
	}
	if emp.Preferences == nil {
		emp.Preferences = make([]int32, 0)
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := h.repository.CreateEmployee(emp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "employees_number_key":
				h.errorResponse(w, r, "员工编号已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "创建员工成功", emp)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	h.successResponse(w, r, "获取员工成功", emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Number                 *string         `json:"number"`
		Name                   *string         `json:"name"`
		HireDate               *string         `json:"hireDate"`
		FixedShifts            map[int32]int64 `json:"fixedShifts" validate:"omitempty,dive,keys,gte=1,lte=7,endkeys"`
		Preferences            []int32         `json:"preferences" validate:"omitempty,dive,gte=0"`
		MaxConsecutiveOverride *int32          `json:"maxConsecutiveOverride" validate:"omitempty,gte=1"`
		ClearOverride          bool            `json:"clearOverride"`
		IsActive               *bool           `json:"isActive"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Number != nil {
		emp.Number = *req.Number
	}
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.HireDate != nil {
		hireDate, err := time.Parse(dateLayout, *req.HireDate)
		if err != nil {
			h.errorResponse(w, r, "入职日期格式错误")
			return
		}
		emp.HireDate = hireDate
	}
	if req.FixedShifts != nil {
		if len(req.FixedShifts) > 0 {
			shifts, err := h.repository.GetAllShifts()
			if err != nil {
				h.internalServerError(w, r, err)
				return
			}
			if shiftID, ok := unknownFixedShiftID(req.FixedShifts, shifts); ok {
				h.errorResponse(w, r, fmt.Sprintf("固定班次引用了不存在的班次 %d", shiftID))
				return
			}
		}
		emp.FixedShifts = req.FixedShifts
	}
	if req.Preferences != nil {
		emp.Preferences = req.Preferences
	}
	if req.MaxConsecutiveOverride != nil {
		emp.MaxConsecutiveOverride = req.MaxConsecutiveOverride
	}
	if req.ClearOverride {
		emp.MaxConsecutiveOverride = nil
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(emp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "employees_number_key":
				h.errorResponse(w, r, "员工编号已存在")
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
	h.successResponse(w, r, "更新员工成功", emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(emp.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "删除员工成功", nil)
}

func (h *Handler) CreateLeaveRecord(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		StartDate   string  `json:"startDate" validate:"required"`
		EndDate     string  `json:"endDate" validate:"required"`
		Type        string  `json:"type" validate:"required"`
		HoursPerDay float64 `json:"hoursPerDay" validate:"gte=0"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期格式错误")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "结束日期格式错误")
		return
	}
	if startDate.After(endDate) {
		h.errorResponse(w, r, "开始日期不能晚于结束日期")
		return
	}

	rec := &domain.LeaveRecord{
		StartDate:   startDate,
		EndDate:     endDate,
		Type:        req.Type,
		HoursPerDay: req.HoursPerDay,
	}

	if err := h.repository.CreateLeaveRecord(emp.ID, rec); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "创建请假记录成功", rec)
}

func (h *Handler) DeleteLeaveRecord(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	leaveIDParam := chi.URLParam(r, "leaveID")
	leaveID, err := strconv.ParseInt(leaveIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "请假记录ID无效")
		return
	}

	if err := h.repository.DeleteLeaveRecord(emp.ID, leaveID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请假记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "删除请假记录成功", nil)
}

func (h *Handler) SetManualShift(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	var req struct {
		ShiftID int64 `json:"shiftId" validate:"required"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// shiftId 为 -1 时表示手动指定休息日
	if req.ShiftID != domain.DayOffShiftID {
		if _, err := h.repository.GetShiftByID(req.ShiftID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "班次不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	if err := h.repository.SetManualShift(emp.ID, date, req.ShiftID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "指定手动班次成功", nil)
}

func (h *Handler) DeleteManualShift(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtx).(*domain.Employee)

	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	if err := h.repository.DeleteManualShift(emp.ID, date); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "手动班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateReportCache()
	h.successResponse(w, r, "删除手动班次成功", nil)
}
