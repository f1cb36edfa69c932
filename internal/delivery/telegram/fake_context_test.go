package telegram

import (
	"gopkg.in/telebot.v3"
)

// fakeContext implements the parts of telebot.Context the handlers use.
// Calling anything else panics on the nil embedded interface.
type fakeContext struct {
	telebot.Context

	sender  *telebot.User
	chat    *telebot.Chat
	text    string
	sent    []string
	markups []*telebot.ReplyMarkup
	store   map[string]any
}

func newFakeContext(user *telebot.User, text string) *fakeContext {
	return &fakeContext{
		sender: user,
		chat:   &telebot.Chat{ID: user.ID},
		text:   text,
		store:  make(map[string]any),
	}
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }
func (f *fakeContext) Chat() *telebot.Chat   { return f.chat }
func (f *fakeContext) Text() string          { return f.text }

func (f *fakeContext) Send(what any, opts ...any) error {
	f.sent = append(f.sent, what.(string))
	var markup *telebot.ReplyMarkup
	for _, o := range opts {
		if m, ok := o.(*telebot.ReplyMarkup); ok {
			markup = m
		}
	}
	f.markups = append(f.markups, markup)
	return nil
}

func (f *fakeContext) Get(key string) any      { return f.store[key] }
func (f *fakeContext) Set(key string, val any) { f.store[key] = val }

func (f *fakeContext) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}
