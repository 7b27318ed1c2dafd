// Package chat defines the transport-neutral shape of a conversation:
// inbound events, outbound replies and the handler chain between them.
package chat

import (
	"context"
	"strconv"
	"strings"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

// Kind classifies an inbound event.
type Kind string

const (
	KindMessage Kind = "message"
	KindCommand Kind = "command"
	KindAction  Kind = "action"
)

// Event is one inbound message or button tap.
type Event struct {
	UpdateID int
	Actor    models.ActorID
	ChatID   int64

	// Text is the message body. Empty for button taps.
	Text string

	// Command is the bot command without the slash, e.g. "start".
	Command string

	// Action is the data of a tapped button.
	Action string

	// CallbackID identifies the tap so the transport can acknowledge it.
	CallbackID string
}

// Kind reports what the event carries.
func (e *Event) Kind() Kind {
	switch {
	case e.Action != "":
		return KindAction
	case e.Command != "":
		return KindCommand
	default:
		return KindMessage
	}
}

// Button is one selectable action under a reply.
type Button struct {
	Label  string
	Action string
}

// Reply is a formatted text answer with optional button rows.
type Reply struct {
	Text    string
	Buttons [][]Button
}

// Text returns a reply without buttons.
func Text(text string) Reply {
	return Reply{Text: text}
}

// Row appends one row of buttons.
func (r Reply) Row(buttons ...Button) Reply {
	if len(buttons) > 0 {
		r.Buttons = append(r.Buttons, buttons)
	}
	return r
}

// Responder sends replies through the transport.
type Responder interface {
	// Reply answers the event in its chat.
	Reply(ctx context.Context, ev *Event, r Reply) error

	// Notify sends a direct message to actor. Delivery is best effort.
	Notify(ctx context.Context, actor models.ActorID, text string) error
}

// HandlerFunc processes one event.
type HandlerFunc func(ctx context.Context, ev *Event) error

// Interceptor wraps a handler with cross-cutting behaviour.
type Interceptor func(next HandlerFunc) HandlerFunc

// Chain wraps h so the first interceptor is the outermost.
func Chain(h HandlerFunc, interceptors ...Interceptor) HandlerFunc {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = interceptors[i](h)
	}
	return h
}

// Action builds button data "name" or "name:arg".
func Action(name string, arg ...int64) string {
	if len(arg) == 0 {
		return name
	}
	return name + ":" + strconv.FormatInt(arg[0], 10)
}

// SplitAction is the inverse of Action. ok is false when the data has no
// numeric argument.
func SplitAction(data string) (name string, arg int64, ok bool) {
	i := strings.LastIndexByte(data, ':')
	if i < 0 {
		return data, 0, false
	}
	v, err := strconv.ParseInt(data[i+1:], 10, 64)
	if err != nil {
		return data, 0, false
	}
	return data[:i], v, true
}
