// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides two views:
//  1. [NowPlayingView] : current track, device, and transport controls
//  2. [PlaylistListView] : browse the user's playlists
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Playback state is polled on a ticker while the now-playing view is active,
// and transport commands (play/pause/next/previous) are dispatched as
// non-blocking tea commands against the [services.Player].
//
// When the player reports that the authorization expired, the TUI surfaces a
// single "please re-authenticate" status line instead of retrying.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
