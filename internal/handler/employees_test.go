package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	h, err := NewHandler(&config.Config{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("构造 Handler 失败: %v", err)
	}
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("解码响应失败: %v", err)
	}
	return resp
}

// ──────────────────────── 偏好排名校验 ────────────────────────

// 排名从 1 开始且没有上限，0 表示对该班次无偏好
// 请求体的入职日期故意写错，让请求在通过校验后停在日期解析处，不触达数据库
func TestCreateEmployee_RankedPreferences(t *testing.T) {
	h := newTestHandler(t)

	body := `{"number":"E001","name":"王伟","hireDate":"月份错误","preferences":[3,1,2,0]}`
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateEmployee(rec, req)

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Fatal("期望请求失败，实际成功")
	}
	if resp.Message != "入职日期格式错误" {
		t.Errorf("期望排名为 2 以上的偏好通过校验，实际在校验处被拒绝: %q", resp.Message)
	}
}

func TestCreateEmployee_NegativePreferenceRejected(t *testing.T) {
	h := newTestHandler(t)

	body := `{"number":"E001","name":"王伟","hireDate":"月份错误","preferences":[-1]}`
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateEmployee(rec, req)

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Fatal("期望请求失败，实际成功")
	}
	if resp.Message == "入职日期格式错误" {
		t.Error("期望负数排名在校验处被拒绝，实际通过了校验")
	}
}

func TestUpdateEmployee_RankedPreferences(t *testing.T) {
	h := newTestHandler(t)

	body := `{"hireDate":"月份错误","preferences":[2,1]}`
	req := httptest.NewRequest(http.MethodPatch, "/employees/1", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), EmployeeCtx, &domain.Employee{ID: 1}))
	rec := httptest.NewRecorder()

	h.UpdateEmployee(rec, req)

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Fatal("期望请求失败，实际成功")
	}
	if resp.Message != "入职日期格式错误" {
		t.Errorf("期望排名为 2 以上的偏好通过校验，实际在校验处被拒绝: %q", resp.Message)
	}
}

// ──────────────────────── 固定班次引用检查 ────────────────────────

func TestUnknownFixedShiftID(t *testing.T) {
	shifts := []*domain.Shift{{ID: 1, Name: "早班"}, {ID: 2, Name: "晚班"}}

	fixed := map[int32]int64{1: 1, 2: 2, 6: domain.DayOffShiftID, 7: domain.DayOffShiftID}
	if shiftID, ok := unknownFixedShiftID(fixed, shifts); ok {
		t.Errorf("期望已有班次和休息日标记都通过检查，实际报告了未知班次 %d", shiftID)
	}

	fixed = map[int32]int64{3: 99}
	shiftID, ok := unknownFixedShiftID(fixed, shifts)
	if !ok {
		t.Fatal("期望检查出未知班次，实际全部通过")
	}
	if shiftID != 99 {
		t.Errorf("期望报告未知班次 99，实际为 %d", shiftID)
	}
}
