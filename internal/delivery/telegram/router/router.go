package router

import (
	"strings"

	"gopkg.in/telebot.v3"
)

type route struct {
	endpoint    string
	description string
	handler     telebot.HandlerFunc
}

// CommandRouter keeps the bot's slash commands in registration order so the
// same table drives both bot.Handle and the command list shown by Telegram.
type CommandRouter struct {
	routes []route
	index  map[string]int
}

func New() *CommandRouter {
	return &CommandRouter{index: make(map[string]int)}
}

// Register adds or replaces the handler for endpoint ("/name").
func (r *CommandRouter) Register(endpoint, description string, h telebot.HandlerFunc) {
	if i, ok := r.index[endpoint]; ok {
		r.routes[i] = route{endpoint, description, h}
		return
	}
	r.index[endpoint] = len(r.routes)
	r.routes = append(r.routes, route{endpoint, description, h})
}

func (r *CommandRouter) Lookup(endpoint string) (telebot.HandlerFunc, bool) {
	i, ok := r.index[endpoint]
	if !ok {
		return nil, false
	}
	return r.routes[i].handler, true
}

// Attach registers every route on bot with the given middleware.
func (r *CommandRouter) Attach(bot *telebot.Bot, m ...telebot.MiddlewareFunc) {
	for _, rt := range r.routes {
		bot.Handle(rt.endpoint, rt.handler, m...)
	}
}

// Commands returns the menu entries for bot.SetCommands.
func (r *CommandRouter) Commands() []telebot.Command {
	cmds := make([]telebot.Command, 0, len(r.routes))
	for _, rt := range r.routes {
		cmds = append(cmds, telebot.Command{
			Text:        strings.TrimPrefix(rt.endpoint, "/"),
			Description: rt.description,
		})
	}
	return cmds
}

// CommandName extracts "/cmd" from a message such as "/meal@my_bot ĂN CƠM".
// It returns "" for text that is not a command.
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}
