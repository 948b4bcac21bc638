package persona

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MsgProcessing = "Processing with AI..."
	MsgComplete   = "AI response complete"
)

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short, user facing status message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// logNotifier writes notices to the default logger.
type logNotifier struct{}

func (logNotifier) Notify(n Notice) {
	level := slog.LevelInfo
	if n.Kind == NoticeError {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, n.Message, slog.String("notice", n.Kind.String()))
}

// errorNotice turns a failed invocation into the message shown to the user.
func errorNotice(err error) Notice {
	if isPlain(err) {
		return Notice{Kind: NoticeError, Message: capitalize(err.Error())}
	}
	return Notice{Kind: NoticeError, Message: "AI error: " + err.Error()}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
