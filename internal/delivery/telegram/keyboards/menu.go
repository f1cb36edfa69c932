package keyboards

import (
	"gopkg.in/telebot.v3"
)

// Button captions start with the command so a tap is routed like a typed
// command; the rest of the caption is ignored.
var (
	BtnStartShift = telebot.Btn{Text: "/start_shift LÊN CA - 上班"}
	BtnEndShift   = telebot.Btn{Text: "/end_shift XUỐNG CA - 下班"}
	BtnMeal       = telebot.Btn{Text: "/meal ĂN CƠM - 吃饭"}
	BtnWC         = telebot.Btn{Text: "/wc WC - 上厕所"}
	BtnSmoke      = telebot.Btn{Text: "/smoke HÚT THUỐC - 抽烟"}
	BtnBack       = telebot.Btn{Text: "/back QUAY LẠI - 回座"}
	BtnStatus     = telebot.Btn{Text: "/status TRẠNG THÁI - 状态"}
	BtnEmployees  = telebot.Btn{Text: "/employees NHÂN VIÊN - 员工"}
)

// Menu builds the fixed reply keyboard shown under every reply.
func Menu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(BtnStartShift.Text), markup.Text(BtnEndShift.Text)),
		markup.Row(markup.Text(BtnMeal.Text), markup.Text(BtnWC.Text), markup.Text(BtnSmoke.Text)),
		markup.Row(markup.Text(BtnBack.Text), markup.Text(BtnStatus.Text), markup.Text(BtnEmployees.Text)),
	)
	return markup
}
