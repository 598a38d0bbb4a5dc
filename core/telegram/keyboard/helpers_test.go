package keyboard

import (
	"testing"
)

func TestInlineButtonsRowsKeepsLiteralData(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "Song", Data: "select_7"}},
		[]InlineBtn{{Text: "Prev", Data: "prev"}, {Text: "Next", Data: "next"}},
	)

	rows := markup.InlineKeyboard
	if len(rows) != 2 {
		t.Fatalf("rows = %d, expected 2", len(rows))
	}
	if rows[0][0].Data != "select_7" {
		t.Fatalf("data = %q, expected literal token", rows[0][0].Data)
	}
	if rows[1][0].Data != "prev" || rows[1][1].Data != "next" {
		t.Fatalf("nav data = %q/%q", rows[1][0].Data, rows[1][1].Data)
	}
}

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "a", Data: "1"},
		{Text: "b", Data: "2"},
	})
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, expected one button per row", len(markup.InlineKeyboard))
	}
}

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a", Data: "1"},
		{Text: "b", Data: "2"},
		{Text: "c", Data: "3"},
	}
	markup := InlineButtonsNPerRow(buttons, 2)
	rows := markup.InlineKeyboard
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Fatalf("unexpected layout: %d rows", len(rows))
	}
}
