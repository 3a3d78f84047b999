// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through three views:
//  1. [FestivalListView] : browse configured festivals and toggle lineup and library cache options
//  2. [GeneratingView] : follow progress while the lineup is loaded, the library fetched and artists matched
//  3. [ResultView] : scroll the ranked artists, or the error that stopped the run
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. Progress updates flow through a channel from the lineup engine; the final result arrives on a separate
// channel so the engine goroutine never touches model state. Session changes reach the model the same way, which is
// how a forced sign-out shows up in the header.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help from charmbracelet/bubbles/help.
package ui
