package telegram

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/clock"
	"shift-bot/internal/delivery/telegram/keyboards"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/domain"
	"shift-bot/internal/notify"
	"shift-bot/internal/telemetry"
)

type Handler struct {
	Shifts    domain.ShiftService
	Breaks    domain.BreakService
	Async     *service.AsyncService
	Employees *service.EmployeeService
	Clock     clock.Clock
	Log       *zap.Logger
	Metrics   *telemetry.Metrics
}

// Routes builds the command table. Break commands share one handler and read
// the break kind from the command itself.
func (h *Handler) Routes() *router.CommandRouter {
	r := router.New()
	r.Register("/start", "Hiển thị menu", h.handleStart)
	r.Register("/start_shift", "LÊN CA - 上班", h.handleStartShift)
	r.Register("/end_shift", "XUỐNG CA - 下班", h.handleEndShift)
	r.Register("/meal", "ĂN CƠM - 吃饭", h.handleBreak)
	r.Register("/wc", "WC - 上厕所", h.handleBreak)
	r.Register("/smoke", "HÚT THUỐC - 抽烟", h.handleBreak)
	r.Register("/back", "QUAY LẠI - 回座", h.handleBack)
	r.Register("/status", "TRẠNG THÁI - 状态", h.handleStatus)
	r.Register("/employees", "NHÂN VIÊN - 员工", h.handleEmployees)
	return r
}

// Register attaches the routes to bot behind the logging and recovery
// middleware.
func (h *Handler) Register(bot *telebot.Bot) *router.CommandRouter {
	r := h.Routes()
	r.Attach(bot, middleware.Logger(h.Log, h.Metrics), middleware.Recover(h.Log))
	return r
}

func (h *Handler) handleStart(c telebot.Context) error {
	if u := c.Sender(); u != nil {
		ctx := context.Background()
		_, err := service.Do(h.Async, u.ID, func() (struct{}, error) {
			h.touchEmployee(ctx, c, u)
			return struct{}{}, nil
		})
		if err != nil {
			h.Log.Warn("employee upsert not queued", zap.Int64("user_id", u.ID), zap.Error(err))
		}
	}
	return c.Send(notify.Welcome, keyboards.Menu())
}

func (h *Handler) handleStartShift(c telebot.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	ctx := context.Background()

	shift, err := service.Do(h.Async, u.ID, func() (domain.ShiftRecord, error) {
		h.touchEmployee(ctx, c, u)
		return h.Shifts.StartShift(ctx, u.ID)
	})
	if err != nil {
		return h.fail(c, opStartShift, err)
	}
	return h.reply(c, notify.ShiftStarted(displayName(u), u.ID, shift))
}

func (h *Handler) handleEndShift(c telebot.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	ctx := context.Background()

	sum, err := service.Do(h.Async, u.ID, func() (domain.ShiftSummary, error) {
		h.touchEmployee(ctx, c, u)
		return h.Shifts.EndShift(ctx, u.ID)
	})
	if err != nil {
		return h.fail(c, opEndShift, err)
	}
	h.Metrics.ObserveShift(sum.TotalWork)
	return h.reply(c, notify.ShiftEnded(displayName(u), u.ID, sum))
}

func (h *Handler) handleBreak(c telebot.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	kind, err := domain.ParseBreakKind(router.CommandName(c.Text()))
	if err != nil {
		return h.fail(c, opBreak, err)
	}
	ctx := context.Background()

	started, err := service.Do(h.Async, u.ID, func() (domain.BreakStarted, error) {
		h.touchEmployee(ctx, c, u)
		return h.Breaks.StartBreak(ctx, u.ID, kind)
	})
	if err != nil {
		return h.fail(c, opBreak, err)
	}
	return h.reply(c, notify.BreakStarted(displayName(u), u.ID, started))
}

func (h *Handler) handleBack(c telebot.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	ctx := context.Background()

	ended, err := service.Do(h.Async, u.ID, func() (domain.BreakEnded, error) {
		h.touchEmployee(ctx, c, u)
		return h.Breaks.EndBreak(ctx, u.ID)
	})
	if err != nil {
		return h.fail(c, opBack, err)
	}
	h.Metrics.ObserveBreak(string(ended.Break.Kind), ended.Duration)
	return h.reply(c, notify.BreakEnded(displayName(u), u.ID, ended))
}

func (h *Handler) handleStatus(c telebot.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	ctx := context.Background()
	st, err := service.Do(h.Async, u.ID, func() (domain.Status, error) {
		return h.Shifts.Status(ctx, u.ID)
	})
	if err != nil {
		return h.fail(c, opStatus, err)
	}
	return h.reply(c, notify.Status(h.storedName(ctx, u), u.ID, st, h.Clock.Now()))
}

func (h *Handler) handleEmployees(c telebot.Context) error {
	if h.Employees == nil {
		return h.reply(c, notify.Employees(nil))
	}
	list, err := h.Employees.GetAllEmployees(context.Background())
	if err != nil {
		return h.fail(c, opEmployees, err)
	}
	return h.reply(c, notify.Employees(list))
}

func (h *Handler) reply(c telebot.Context, text string) error {
	return c.Send(text, keyboards.Menu())
}

// fail answers the user and swallows err: rejected commands and store
// failures both end at the handler.
func (h *Handler) fail(c telebot.Context, op operation, err error) error {
	text, outcome := userMessage(op, err)
	c.Set(middleware.OutcomeKey, outcome)

	fields := []zap.Field{zap.String("op", string(op)), zap.Error(err)}
	if id, ok := c.Get(middleware.RequestIDKey).(string); ok {
		fields = append(fields, zap.String("request_id", id))
	}
	if outcome == telemetry.OutcomeRejected {
		h.Log.Debug("command rejected", fields...)
	} else {
		h.Log.Error("command failed", fields...)
	}
	return c.Send(text)
}

// touchEmployee records the caller's current display name. It runs on the
// caller's worker ahead of the command's own transaction. Failures are logged
// only; they never block the command.
func (h *Handler) touchEmployee(ctx context.Context, c telebot.Context, u *telebot.User) {
	if h.Employees == nil {
		return
	}
	var chatID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	err := h.Employees.CreateOrUpdateEmployee(ctx, domain.Employee{
		ID:     u.ID,
		Name:   displayName(u),
		ChatID: chatID,
		Role:   "employee",
	})
	if err != nil {
		h.Log.Warn("employee upsert failed", zap.Int64("user_id", u.ID), zap.Error(err))
	}
}

// storedName is the name recorded for u by earlier commands, falling back to
// the current Telegram profile.
func (h *Handler) storedName(ctx context.Context, u *telebot.User) string {
	if h.Employees == nil {
		return displayName(u)
	}
	e, err := h.Employees.GetEmployeeByID(ctx, u.ID)
	if err != nil || e.Name == "" {
		return displayName(u)
	}
	return e.Name
}

func displayName(u *telebot.User) string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}
