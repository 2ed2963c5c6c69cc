package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/shared"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.LibraryEntry] to implement [list.Item].
type entryItem struct {
	entry models.LibraryEntry
}

func (i entryItem) FilterValue() string { return i.entry.Track.Title }
func (i entryItem) Title() string {
	title := i.entry.Track.Title
	if !i.entry.Track.Playable() {
		title = fmt.Sprintf("%s (no audio)", title)
	}
	return title
}

func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.entry.Track.Credit(), shared.FormatDuration(i.entry.Track.DurationSec))
	if i.entry.Liked {
		desc = fmt.Sprintf("%s • ♥", desc)
	}
	return desc
}
