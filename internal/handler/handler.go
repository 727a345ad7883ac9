package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 班次管理
	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Post("/", h.CreateShift)
		r.Get("/", h.GetAllShifts)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shiftInfo)
			r.Get("/", h.GetShift)
			r.Patch("/", h.UpdateShift)
			r.Delete("/", h.DeleteShift)
			r.Route("/overtime-entries", func(r chi.Router) {
				r.Post("/", h.CreateShiftOvertimeEntry)
				r.Delete("/{entryID}", h.DeleteShiftOvertimeEntry)
			})
		})
	})

	// 员工管理
	h.Mux.Route("/employees", func(r chi.Router) {
		r.Post("/", h.CreateEmployee)
		r.Get("/", h.GetAllEmployees)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.employeeInfo)
			r.Get("/", h.GetEmployee)
			r.Patch("/", h.UpdateEmployee)
			r.Delete("/", h.DeleteEmployee)
			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.CreateLeaveRecord)
				r.Delete("/{leaveID}", h.DeleteLeaveRecord)
			})
			r.Route("/manual-shifts", func(r chi.Router) {
				r.Put("/{date}", h.SetManualShift)
				r.Delete("/{date}", h.DeleteManualShift)
			})
		})
	})

	// 排班规则
	h.Mux.Route("/scheduling-rules", func(r chi.Router) {
		r.Get("/", h.GetSchedulingRules)
		r.Patch("/", h.UpdateSchedulingRules)
	})

	// 报告
	h.Mux.Route("/reports", func(r chi.Router) {
		r.Get("/schedule", h.GetScheduleReport)
		r.Post("/schedule/digest", h.SendViolationDigest)
	})
}
