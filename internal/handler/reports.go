package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/engine"
)

// 报告缓存按 (日期区间, 数据版本号) 作为键
// 任何排班数据变更都会递增版本号，旧版本的缓存项自然失效，等过期后被 redis 回收
const reportDataVersionKey = "report_data_version"

// invalidateReportCache 在排班数据变更后递增数据版本号
// 递增失败时只记录日志，不影响已经落库的变更
func (h *Handler) invalidateReportCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := h.redisClient.Incr(ctx, reportDataVersionKey).Err(); err != nil {
		slog.Warn("报告缓存版本号递增失败", "error", err)
	}
}

// buildScheduleReport 从数据库加载当前快照并计算报告，只纳入在职员工
func (h *Handler) buildScheduleReport(start, end time.Time) (*engine.Report, error) {
	rules, err := h.repository.GetSchedulingRules()
	if err != nil {
		return nil, err
	}

	shifts, err := h.repository.GetAllShifts()
	if err != nil {
		return nil, err
	}

	allEmployees, err := h.repository.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(allEmployees))
	for _, emp := range allEmployees {
		if emp.IsActive {
			employees = append(employees, emp)
		}
	}

	eng, err := engine.New(rules, shifts, employees)
	if err != nil {
		return nil, err
	}

	return eng.BuildReport(start, end)
}

func (h *Handler) parseReportRange(startParam, endParam string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startParam)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("开始日期格式错误")
	}
	end, err := time.Parse(dateLayout, endParam)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("结束日期格式错误")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("开始日期不能晚于结束日期")
	}

	return start, end, nil
}

func (h *Handler) GetScheduleReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parseReportRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	version, err := h.redisClient.Get(ctx, reportDataVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		h.internalServerError(w, r, err)
		return
	}

	cacheKey := fmt.Sprintf("report_%s_%s_v%d", start.Format(dateLayout), end.Format(dateLayout), version)

	cached, err := h.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		report := &engine.Report{}
		if err := json.Unmarshal([]byte(cached), report); err == nil {
			h.successResponse(w, r, "获取排班报告成功", report)
			return
		}
		// 缓存内容损坏时当作未命中，重新计算
	} else if !errors.Is(err, redis.Nil) {
		h.internalServerError(w, r, err)
		return
	}

	report, err := h.buildScheduleReport(start, end)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班规则尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	reportData, err := json.Marshal(report)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.redisClient.Set(ctx, cacheKey, reportData, time.Duration(h.config.Report.CacheExpiration)*time.Second).Err(); err != nil {
		// 缓存写入失败不影响本次响应
		slog.Warn("报告缓存写入失败", "key", cacheKey, "error", err)
	}

	h.successResponse(w, r, "获取排班报告成功", report)
}

var ruleDescriptions = map[engine.RuleKind]string{
	engine.RuleMaxConsecutive: "最大连续上班天数",
	engine.RuleMinRest:        "最少休息间隔",
	engine.RuleWeekendsOff:    "最少休息周末数",
	engine.RuleMinHoursWeek:   "最少单周工时",
	engine.RuleMinHours:       "最少双周工时",
}

func (h *Handler) SendViolationDigest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
	}

	if err := h.bindJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, end, err := h.parseReportRange(req.StartDate, req.EndDate)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// 摘要必须基于最新数据，不走缓存
	report, err := h.buildScheduleReport(start, end)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班规则尚未配置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	items := make([]domain.ViolationDigestItem, 0)
	for _, empReport := range report.Employees {
		for _, violation := range empReport.Violations {
			rule, exists := ruleDescriptions[violation.Rule]
			if !exists {
				rule = string(violation.Rule)
			}

			items = append(items, domain.ViolationDigestItem{
				EmployeeName: empReport.Name,
				Date:         violation.Date.Format(dateLayout),
				Rule:         rule,
				Message:      violation.Message,
			})
		}
	}

	if len(items) == 0 {
		h.successResponse(w, r, "该日期区间内没有违规记录，无需发送摘要", nil)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "violation_digest",
		To:   h.config.Report.SupervisorEmail,
		Data: domain.ViolationDigestMailData{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
			Total:     len(items),
			Items:     items,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "违规摘要已发送", map[string]int{"total": len(items)})
}
