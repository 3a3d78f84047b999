package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/desertthunder/lineuplens/internal/models"
)

var _ list.Item = festivalItem{}

// festivalItem wraps [models.Festival] to implement [list.Item].
type festivalItem struct {
	festival models.Festival
}

func (i festivalItem) FilterValue() string { return i.festival.Name + " " + i.festival.ID }
func (i festivalItem) Title() string       { return i.festival.Name }
func (i festivalItem) Description() string {
	return fmt.Sprintf("%s • %s", i.festival.ID, i.festival.Source)
}

func festivalItems(festivals []models.Festival) []list.Item {
	items := make([]list.Item, len(festivals))
	for i, f := range festivals {
		items[i] = festivalItem{festival: f}
	}
	return items
}

var resultColumns = []table.Column{
	{Title: "#", Width: 4},
	{Title: "Artist", Width: 36},
	{Title: "Liked Songs", Width: 12},
}

func resultRows(results []models.MatchResult) []table.Row {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		rows[i] = table.Row{strconv.Itoa(i + 1), r.OriginalName, strconv.Itoa(r.LikedSongCount)}
	}
	return rows
}
