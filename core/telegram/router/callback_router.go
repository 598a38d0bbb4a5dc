package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/tunebot/core/telegram"
	"github.com/m3rciful/tunebot/core/telegram/callbacks"
	"github.com/m3rciful/tunebot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callback tokens through the registry.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		token := callbacks.Token(c)
		name := "callback." + normalizeHandlerName(tokenFamily(token))
		extras := []slog.Attr{slog.String("cb_key", token)}

		// Stop the client-side loading spinner right away.
		_ = c.Respond()

		cbHandler, ok := reg.GetCallback(token)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// tokenFamily collapses argument-carrying tokens to their stem for log names,
// e.g. "select_12" -> "select".
func tokenFamily(token string) string {
	if idx := strings.IndexByte(token, '_'); idx > 0 {
		return token[:idx]
	}
	return token
}
