package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"shift-bot/internal/app/service"
	"shift-bot/internal/clock"
	"shift-bot/internal/delivery/telegram/middleware"
	"shift-bot/internal/delivery/telegram/router"
	"shift-bot/internal/domain"
	"shift-bot/internal/repository/sqlite"
	"shift-bot/internal/telemetry"
	"shift-bot/pkg/workerpool"
)

var t0 = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

type env struct {
	h       *Handler
	clock   *clock.Manual
	store   *sqlite.Store
	metrics *telemetry.Metrics
	user    *telebot.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	store := sqlite.NewStore(db)
	c := clock.NewManual(t0)
	m := telemetry.NewMetrics(prometheus.NewRegistry())
	return &env{
		h: &Handler{
			Shifts:    service.NewShiftService(store, c),
			Breaks:    service.NewBreakService(store, c, domain.BreakPolicy{}),
			Employees: service.NewEmployeeService(store.Repos().Employees),
			Clock:     c,
			Log:       zap.NewNop(),
			Metrics:   m,
		},
		clock:   c,
		store:   store,
		metrics: m,
		user:    &telebot.User{ID: 77, FirstName: "Minh"},
	}
}

// run dispatches text through the routes and middleware like the bot would.
func (e *env) run(t *testing.T, text string) *fakeContext {
	t.Helper()
	c := newFakeContext(e.user, text)
	routes := e.h.Routes()
	cmd := router.CommandName(text)
	h, ok := routes.Lookup(cmd)
	require.True(t, ok, cmd)
	wrapped := middleware.Logger(e.h.Log, e.metrics)(middleware.Recover(e.h.Log)(h))
	require.NoError(t, wrapped(c))
	return c
}

func TestStartShowsMenu(t *testing.T) {
	e := newEnv(t)
	c := e.run(t, "/start")
	assert.Equal(t, "Chào bạn! Hãy chọn một hành động từ bàn phím bên dưới:", c.last())
	require.NotNil(t, c.markups[0])
	assert.Len(t, c.markups[0].ReplyKeyboard, 3)
	assert.Len(t, c.markups[0].ReplyKeyboard[2], 3)

	emp, err := e.store.Repos().Employees.GetEmployeeByID(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, "Minh", emp.Name)
}

func TestFullShiftConversation(t *testing.T) {
	e := newEnv(t)

	c := e.run(t, "/start_shift LÊN CA - 上班")
	assert.Contains(t, c.last(), "✅ 打卡成功：上班 - 07/01 08:00:00")
	assert.NotNil(t, c.markups[0])

	e.clock.Advance(60 * time.Second)
	c = e.run(t, "/meal ĂN CƠM - 吃饭")
	assert.Contains(t, c.last(), "✅ 打卡成功：ĂN CƠM - 07/01 08:01:00")

	e.clock.Advance(300 * time.Second)
	c = e.run(t, "/back")
	assert.Contains(t, c.last(), "休息时长：0:05:00")
	assert.Contains(t, c.last(), "总休息次数：1 次")

	e.clock.Set(t0.Add(time.Hour))
	c = e.run(t, "/end_shift")
	assert.Contains(t, c.last(), "今日工作总计：1:00:00")
	assert.Contains(t, c.last(), "纯工作时间：0:55:00")
	assert.Contains(t, c.last(), "今日累计活动总时间：0:05:00")
	assert.Contains(t, c.last(), "【ĂN CƠM】\n次数：1 次\n总时间：0:05:00\n")

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Commands.WithLabelValues("/end_shift", telemetry.OutcomeOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(e.metrics.BreakDuration))
}

func TestRejectionsAreLocalized(t *testing.T) {
	e := newEnv(t)

	c := e.run(t, "/end_shift")
	assert.Equal(t, "Chưa có ca làm việc nào bắt đầu.", c.last())
	assert.Nil(t, c.markups[0])
	assert.Equal(t, telemetry.OutcomeRejected, c.Get(middleware.OutcomeKey))

	c = e.run(t, "/back")
	assert.Equal(t, "Chưa có hoạt động nghỉ nào để quay lại.", c.last())

	e.run(t, "/start_shift")
	c = e.run(t, "/start_shift")
	assert.Contains(t, c.last(), "Bạn đã có một ca làm việc chưa kết thúc.")

	e.run(t, "/wc")
	c = e.run(t, "/wc@shift_bot")
	assert.Equal(t, "Bạn cần quay lại làm việc trước khi thực hiện hoạt động này.", c.last())

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Commands.WithLabelValues("/wc", telemetry.OutcomeRejected)))
}

func TestStatusCommand(t *testing.T) {
	e := newEnv(t)
	c := e.run(t, "/status")
	assert.Contains(t, c.last(), "状态：未上班")

	e.run(t, "/start_shift")
	e.clock.Advance(10 * time.Minute)
	e.run(t, "/smoke")
	e.clock.Advance(3 * time.Minute)
	c = e.run(t, "/status")
	assert.Contains(t, c.last(), "状态：上班中 - 07/01 08:00:00（0:13:00）")
	assert.Contains(t, c.last(), "休息中：HÚT THUỐC")
}

func TestStatusUsesStoredName(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Repos().Employees.CreateOrUpdateEmployee(context.Background(), domain.Employee{
		ID: 77, Name: "Minh Trần", ChatID: 77, Role: "employee",
	}))

	c := e.run(t, "/status")
	assert.Contains(t, c.last(), "用户：Minh Trần\n")

	e.user = &telebot.User{ID: 78, Username: "lan_ng"}
	c = e.run(t, "/status")
	assert.Contains(t, c.last(), "用户：lan_ng\n")
}

func TestEmployeesCommand(t *testing.T) {
	e := newEnv(t)
	c := e.run(t, "/employees")
	assert.Equal(t, "Chưa có nhân viên nào.", c.last())
	assert.NotNil(t, c.markups[0])

	e.run(t, "/start")
	e.user = &telebot.User{ID: 78, Username: "lan_ng"}
	e.run(t, "/start_shift")

	c = e.run(t, "/employees")
	assert.Equal(t, "员工列表 - Danh sách nhân viên:\n77: Minh (employee)\n78: lan_ng (employee)\n", c.last())

	e.h.Employees = service.NewEmployeeService(failingEmployees{})
	c = e.run(t, "/employees")
	assert.Equal(t, "Có lỗi xảy ra khi lấy danh sách nhân viên.", c.last())
	assert.Equal(t, telemetry.OutcomeError, c.Get(middleware.OutcomeKey))
}

type failingEmployees struct{ domain.EmployeeRepo }

func (failingEmployees) GetAllEmployees(context.Context) ([]domain.Employee, error) {
	return nil, &domain.StoreError{Op: "list employees", Err: errors.New("disk I/O error")}
}

func TestEmployeeUpsertWaitsForUserWorker(t *testing.T) {
	e := newEnv(t)
	pool := workerpool.NewWorkerPool(1, 4)
	t.Cleanup(pool.Close)
	e.h.Async = service.NewAsyncService(pool)

	release := make(chan struct{})
	require.NoError(t, pool.Submit(workerpool.Task{Key: e.user.ID, Fn: func() (any, error) {
		<-release
		return nil, nil
	}}))

	h, ok := e.h.Routes().Lookup("/start_shift")
	require.True(t, ok)
	c := newFakeContext(e.user, "/start_shift")
	done := make(chan error, 1)
	go func() { done <- h(c) }()

	employees := e.store.Repos().Employees
	known := func() bool {
		_, err := employees.GetEmployeeByID(context.Background(), e.user.ID)
		return err == nil
	}
	assert.Never(t, known, 100*time.Millisecond, 10*time.Millisecond)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, known())
	assert.Contains(t, c.last(), "✅ 打卡成功：上班")
}

type failingStore struct{ err error }

func (f failingStore) WithTx(context.Context, func(domain.Repos) error) error { return f.err }

func TestStoreFailures(t *testing.T) {
	e := newEnv(t)
	e.h.Shifts = service.NewShiftService(failingStore{err: errors.New("disk I/O error")}, e.clock)
	e.h.Breaks = service.NewBreakService(failingStore{err: &domain.StoreError{Op: "create break", Err: errors.New("disk full")}}, e.clock, domain.BreakPolicy{})

	c := e.run(t, "/start_shift")
	assert.Equal(t, "Có lỗi xảy ra trong quá trình bắt đầu ca làm việc.", c.last())
	assert.Equal(t, telemetry.OutcomeError, c.Get(middleware.OutcomeKey))

	c = e.run(t, "/meal")
	assert.Equal(t, "Có lỗi xảy ra trong quá trình ghi nhận nghỉ.", c.last())

	e.h.Shifts = service.NewShiftService(failingStore{err: domain.ErrStoreUnavailable}, e.clock)
	c = e.run(t, "/end_shift")
	assert.Equal(t, "Lỗi kết nối đến cơ sở dữ liệu.", c.last())
}

type panickingShifts struct{ domain.ShiftService }

func (panickingShifts) Status(context.Context, int64) (domain.Status, error) { panic("boom") }

func TestRecoverMiddleware(t *testing.T) {
	e := newEnv(t)
	e.h.Shifts = panickingShifts{}

	c := newFakeContext(e.user, "/status")
	h, _ := e.h.Routes().Lookup("/status")
	err := middleware.Logger(e.h.Log, e.metrics)(middleware.Recover(e.h.Log)(h))(c)
	require.Error(t, err)
	assert.NotEmpty(t, c.Get(middleware.RequestIDKey))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Commands.WithLabelValues("/status", telemetry.OutcomeError)))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Minh", displayName(&telebot.User{ID: 1, FirstName: "Minh", Username: "minh_t"}))
	assert.Equal(t, "minh_t", displayName(&telebot.User{ID: 1, Username: "minh_t"}))
	assert.Equal(t, "1", displayName(&telebot.User{ID: 1}))
}
