// Package notify renders the chat replies for shift and break events.
//
// All functions are pure: they take already computed values and return the
// text to send. Timestamps use clock.DisplayLayout, durations H:MM:SS.
package notify

import (
	"fmt"
	"strings"
	"time"

	"shift-bot/internal/clock"
	"shift-bot/internal/domain"
)

const Welcome = "Chào bạn! Hãy chọn một hành động từ bàn phím bên dưới:"

const separator = "------------------------"

var kindLabels = map[domain.BreakKind]string{
	domain.BreakMeal:  "ĂN CƠM",
	domain.BreakWC:    "WC",
	domain.BreakSmoke: "HÚT THUỐC",
}

// KindLabel maps a break kind to its display label. Unknown kinds are
// returned as is.
func KindLabel(k domain.BreakKind) string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Duration renders d as H:MM:SS. Hours are not wrapped into days.
func Duration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, total%3600/60, total%60)
}

func stamp(t time.Time) string {
	return t.Format(clock.DisplayLayout)
}

func header(b *strings.Builder, name string, userID int64) {
	fmt.Fprintf(b, "用户：%s\n", name)
	fmt.Fprintf(b, "用户标识：%d\n", userID)
}

func ShiftStarted(name string, userID int64, shift domain.ShiftRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "用户：%s %d\n", name, userID)
	fmt.Fprintf(&b, "用户标识：%d\n", userID)
	fmt.Fprintf(&b, "✅ 打卡成功：上班 - %s\n", stamp(shift.Start))
	b.WriteString("提示：请记得下班时打卡下班")
	return b.String()
}

func ShiftEnded(name string, userID int64, sum domain.ShiftSummary) string {
	var b strings.Builder
	header(&b, name, userID)
	end := sum.Shift.Start.Add(sum.TotalWork)
	if sum.Shift.End != nil {
		end = *sum.Shift.End
	}
	fmt.Fprintf(&b, "✅ 打卡成功：下班 - %s\n", stamp(end))
	b.WriteString("提示：本日工作时间已结算\n")
	fmt.Fprintf(&b, "今日工作总计：%s\n", Duration(sum.TotalWork))
	fmt.Fprintf(&b, "纯工作时间：%s\n", Duration(sum.PureWork))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "今日累计活动总时间：%s\n", Duration(sum.TotalBreak))
	for _, a := range sum.Breakdown {
		fmt.Fprintf(&b, "【%s】\n次数：%d 次\n总时间：%s\n", KindLabel(a.Kind), a.Count, Duration(a.Total))
	}
	return b.String()
}

func BreakStarted(name string, userID int64, started domain.BreakStarted) string {
	var b strings.Builder
	header(&b, name, userID)
	fmt.Fprintf(&b, "✅ 打卡成功：%s - %s\n", KindLabel(started.Break.Kind), stamp(started.Break.Start))
	b.WriteString("提示：请在完成活动后尽早回到工作岗位\n")
	b.WriteString("回到工作：/back")
	return b.String()
}

func BreakEnded(name string, userID int64, ended domain.BreakEnded) string {
	var b strings.Builder
	header(&b, name, userID)
	end := ended.Break.Start.Add(ended.Duration)
	if ended.Break.End != nil {
		end = *ended.Break.End
	}
	fmt.Fprintf(&b, "✅ 打卡成功：回座 - %s\n", stamp(end))
	b.WriteString("提示：您的休息已结束，回到工作岗位\n")
	fmt.Fprintf(&b, "休息类型：%s\n", KindLabel(ended.Break.Kind))
	fmt.Fprintf(&b, "休息时长：%s\n", Duration(ended.Duration))
	fmt.Fprintf(&b, "总计休息时间：%s\n", Duration(ended.Stats.Total))
	fmt.Fprintf(&b, "总休息次数：%d 次\n", ended.Stats.Count)
	b.WriteString("【继续工作】\n")
	return b.String()
}

// Status describes what the user is currently doing. now is used for the
// elapsed time of open records.
func Status(name string, userID int64, st domain.Status, now time.Time) string {
	var b strings.Builder
	header(&b, name, userID)
	if st.Shift == nil {
		b.WriteString("状态：未上班\n")
	} else {
		fmt.Fprintf(&b, "状态：上班中 - %s（%s）\n", stamp(st.Shift.Start), Duration(now.Sub(st.Shift.Start)))
	}
	if st.Break != nil {
		fmt.Fprintf(&b, "休息中：%s - %s（%s）\n", KindLabel(st.Break.Kind), stamp(st.Break.Start), Duration(now.Sub(st.Break.Start)))
	}
	if len(st.Stats) > 0 {
		b.WriteString(separator + "\n")
		for _, s := range st.Stats {
			fmt.Fprintf(&b, "【%s】\n次数：%d 次\n总时间：%s\n", KindLabel(s.Kind), s.Count, Duration(s.Total))
		}
	}
	return b.String()
}

// Employees lists everyone who has used the bot.
func Employees(list []domain.Employee) string {
	if len(list) == 0 {
		return "Chưa có nhân viên nào."
	}
	var b strings.Builder
	b.WriteString("员工列表 - Danh sách nhân viên:\n")
	for _, e := range list {
		fmt.Fprintf(&b, "%d: %s (%s)\n", e.ID, e.Name, e.Role)
	}
	return b.String()
}
