package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/session"
	"github.com/desertthunder/lineuplens/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgUserLoaded MsgKind = iota
	MsgProgressUpdate
	MsgGenerateComplete
	MsgSessionChanged
)

type userLoaded struct {
	user *models.UserProfile
	err  error
}

type sessionChanged struct {
	event    session.Event
	snapshot session.Snapshot
}

type generateComplete struct {
	result *tasks.LineupResult
	err    error
}

// userLoadedMsg is the constructor for [MsgUserLoaded]
func userLoadedMsg(user *models.UserProfile, err error) Msg {
	return Msg{kind: MsgUserLoaded, data: userLoaded{user, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// generateCompleteMsg is the constructor for [MsgGenerateComplete]
func generateCompleteMsg(result *tasks.LineupResult, err error) Msg {
	return Msg{kind: MsgGenerateComplete, data: generateComplete{result, err}}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(event session.Event, snapshot session.Snapshot) Msg {
	return Msg{kind: MsgSessionChanged, data: sessionChanged{event, snapshot}}
}
