package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/tunebot/core/telegram/keyboard"
	"github.com/m3rciful/tunebot/paging"
)

// User-facing chat texts. Kept byte-identical to the wire format clients
// already depend on.
const (
	msgWelcome        = "🎵 Welcome! Send me a song or video name, and I'll fetch it for you."
	msgNoResults      = "❌ No results found."
	msgNoMore         = "⚠️ No more results."
	msgExpired        = "❗ Session expired. Please search again."
	msgDownloadFailed = "❌ Failed to download audio."
	msgSendFailed     = "❌ Failed to send audio."

	btnPrev = "⬅️ Prev"
	btnNext = "➡️ Next"

	titleButtonLimit   = 50
	titleProgressLimit = 70
)

// resultsHeader renders the list caption. Pages are 1-based for the user.
func resultsHeader(query string, page int) string {
	return fmt.Sprintf("🎬 Results for '%s' (Page %d)", query, page+1)
}

// progressText renders the in-place download notice.
func progressText(title string) string {
	return "🎧 Downloading audio for: " + truncRunes(title, titleProgressLimit)
}

// resultsKeyboard builds the inline keyboard for a page: one button per
// track, then a navigation row when there is anywhere to go.
func resultsKeyboard(p paging.Page) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(p.Items)+1)
	for _, item := range p.Items {
		rows = append(rows, []keyboard.InlineBtn{{
			Text: truncRunes(item.Track.Title, titleButtonLimit),
			Data: paging.SelectToken(item.Index),
		}})
	}

	var nav []keyboard.InlineBtn
	if p.HasPrev {
		nav = append(nav, keyboard.InlineBtn{Text: btnPrev, Data: paging.TokenPrev})
	}
	if p.HasNext {
		nav = append(nav, keyboard.InlineBtn{Text: btnNext, Data: paging.TokenNext})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return keyboard.InlineButtonsRows(rows...)
}

// truncRunes cuts s to at most n runes so multibyte titles never split
// mid-character.
func truncRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
