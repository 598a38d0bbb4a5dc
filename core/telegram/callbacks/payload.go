package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Token returns the raw callback token carried by the pressed button.
//
// Buttons built through tele.ReplyMarkup.Data arrive as "\f<unique>|<payload>";
// buttons built with a literal Data string arrive as-is. Both forms are
// reduced to the literal token so wire formats like "select_3" survive
// unchanged.
func Token(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return tokenFromData(cb.Data)
}

func tokenFromData(data string) string {
	raw := strings.TrimPrefix(data, "\f")
	return strings.TrimSpace(raw)
}
