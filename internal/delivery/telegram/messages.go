package telegram

import (
	"errors"

	"shift-bot/internal/domain"
	"shift-bot/internal/telemetry"
)

// operation names a command for logs and for its fallback error reply.
type operation string

const (
	opStartShift operation = "start shift"
	opEndShift   operation = "end shift"
	opBreak      operation = "break"
	opBack       operation = "back to work"
	opStatus     operation = "status"
	opEmployees  operation = "employees"
)

var failureMessages = map[operation]string{
	opStartShift: "Có lỗi xảy ra trong quá trình bắt đầu ca làm việc.",
	opEndShift:   "Có lỗi xảy ra trong quá trình kết thúc ca làm việc.",
	opBreak:      "Có lỗi xảy ra trong quá trình ghi nhận nghỉ.",
	opBack:       "Có lỗi xảy ra khi quay lại làm việc.",
	opStatus:     "Có lỗi xảy ra khi lấy trạng thái làm việc.",
	opEmployees:  "Có lỗi xảy ra khi lấy danh sách nhân viên.",
}

const msgStoreUnavailable = "Lỗi kết nối đến cơ sở dữ liệu."

var rejections = []struct {
	err  error
	text string
}{
	{domain.ErrAlreadyOnShift, "Bạn đã có một ca làm việc chưa kết thúc. Vui lòng kết thúc ca hiện tại trước khi bắt đầu ca mới."},
	{domain.ErrNoOpenShift, "Chưa có ca làm việc nào bắt đầu."},
	{domain.ErrAlreadyOnBreak, "Bạn cần quay lại làm việc trước khi thực hiện hoạt động này."},
	{domain.ErrNoOpenBreak, "Chưa có hoạt động nghỉ nào để quay lại."},
	{domain.ErrNotOnShift, "Bạn cần bắt đầu ca làm việc trước khi nghỉ."},
	{domain.ErrOtherBreakOpen, "Bạn đang có một hoạt động nghỉ khác chưa kết thúc. Vui lòng dùng /back trước."},
	{domain.ErrUnknownBreakKind, "Hoạt động nghỉ không hợp lệ."},
}

// userMessage converts err into the reply text and the telemetry outcome.
func userMessage(op operation, err error) (string, string) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.text, telemetry.OutcomeRejected
		}
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return msgStoreUnavailable, telemetry.OutcomeError
	}
	if msg, ok := failureMessages[op]; ok {
		return msg, telemetry.OutcomeError
	}
	return "Có lỗi xảy ra.", telemetry.OutcomeError
}
