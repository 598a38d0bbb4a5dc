// Package paging slices an ordered result list into fixed-size pages and
// defines the callback tokens the result keyboard is built from.
package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/tunebot/media"
)

// Callback tokens carried in inline button payloads. Select tokens embed the
// absolute index of the chosen track so selection survives page flips.
const (
	TokenNext    = "next"
	TokenPrev    = "prev"
	selectPrefix = "select_"
)

// SelectPrefix is the leading part shared by all selection tokens.
const SelectPrefix = selectPrefix

// Item is one row of a page: a track plus its absolute position in the
// full result list.
type Item struct {
	Index int
	Track media.Track
}

// Page is one window over the result list.
type Page struct {
	Number  int
	Items   []Item
	HasPrev bool
	HasNext bool
}

// Slice returns the window of tracks for the given page. The page number is
// clamped into the valid range, so a stale page index still yields a
// non-empty window as long as any tracks exist.
func Slice(tracks []media.Track, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = 5
	}
	if len(tracks) == 0 {
		return Page{Number: 0}
	}

	maxPage := (len(tracks) - 1) / pageSize
	if page < 0 {
		page = 0
	}
	if page > maxPage {
		page = maxPage
	}

	start := page * pageSize
	end := start + pageSize
	if end > len(tracks) {
		end = len(tracks)
	}

	items := make([]Item, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Item{Index: i, Track: tracks[i]})
	}
	return Page{
		Number:  page,
		Items:   items,
		HasPrev: page > 0,
		HasNext: end < len(tracks),
	}
}

// SelectToken builds the callback token selecting the track at the given
// absolute index.
func SelectToken(index int) string {
	return fmt.Sprintf("%s%d", selectPrefix, index)
}

// ParseSelect extracts the absolute track index from a selection token.
func ParseSelect(token string) (int, bool) {
	rest, ok := strings.CutPrefix(token, selectPrefix)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
