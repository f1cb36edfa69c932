package middleware

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/telemetry"
)

// Context keys shared with the handlers.
const (
	RequestIDKey = "request_id"
	OutcomeKey   = "outcome"
)

// Logger tags each update with a request id, logs it once handled and
// records the command metrics. Handlers may store a telemetry outcome under
// OutcomeKey; otherwise the returned error decides it.
func Logger(log *zap.Logger, m *telemetry.Metrics) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			id := uuid.NewString()
			c.Set(RequestIDKey, id)
			start := time.Now()

			err := next(c)

			took := time.Since(start)
			cmd := router.CommandName(c.Text())
			outcome, _ := c.Get(OutcomeKey).(string)
			if outcome == "" {
				outcome = telemetry.OutcomeOK
				if err != nil {
					outcome = telemetry.OutcomeError
				}
			}
			m.ObserveCommand(cmd, outcome, took)

			fields := []zap.Field{
				zap.String("request_id", id),
				zap.String("command", cmd),
				zap.String("outcome", outcome),
				zap.Duration("took", took),
			}
			if u := c.Sender(); u != nil {
				fields = append(fields, zap.Int64("user_id", u.ID))
			}
			if err != nil {
				log.Error("command failed", append(fields, zap.Error(err))...)
			} else {
				log.Info("command handled", fields...)
			}
			return err
		}
	}
}

// Recover turns a handler panic into an error so the poller keeps running.
func Recover(log *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler panic", zap.Any("panic", r), zap.Stack("stack"))
					c.Set(OutcomeKey, telemetry.OutcomeError)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
