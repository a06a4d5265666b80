package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/services"
	"github.com/spindlefm/spindle/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	NowPlayingView ViewState = iota
	PlaylistListView
)

// pollInterval is how often the now-playing view refreshes playback state.
const pollInterval = 5 * time.Second

type playbackMsg struct {
	playback *models.Playback
	err      error
}

type playlistsMsg struct {
	playlists []models.Playlist
	err       error
}

type commandDoneMsg struct {
	err error
}

type tickMsg time.Time

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	player       services.Player
	width        int
	height       int
	playback     *models.Playback
	playlistList list.Model
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, player services.Player) *Model {
	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Spotify Playlists"

	return &Model{
		ctx:          ctx,
		view:         NowPlayingView,
		player:       player,
		playlistList: playlists,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init fetches the initial playback state and starts the poll ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPlayback(), m.tick())
}

func (m *Model) fetchPlayback() tea.Cmd {
	return func() tea.Msg {
		playback, err := m.player.CurrentPlayback(m.ctx)
		return playbackMsg{playback: playback, err: err}
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.player.Playlists(m.ctx)
		return playlistsMsg{playlists: playlists, err: err}
	}
}

func (m *Model) command(run func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: run(m.ctx)}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case NowPlayingView:
			return m.handleNowPlayingKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		}

	case playbackMsg:
		m.status = ""
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.err = nil
		m.playback = msg.playback
		return m, nil

	case playlistsMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.view = NowPlayingView
			return m, nil
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		cmd := m.playlistList.SetItems(items)
		m.view = PlaylistListView
		return m, cmd

	case commandDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		return m, m.fetchPlayback()

	case tickMsg:
		if m.view == NowPlayingView {
			return m, tea.Batch(m.fetchPlayback(), m.tick())
		}
		return m, m.tick()
	}

	if m.view == PlaylistListView {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setError classifies an error into a user-facing status line.
func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, shared.ErrNoActivePlayback):
		m.playback = nil
		m.status = "No active playback device. Start playing somewhere first."
	case errors.Is(err, shared.ErrAuthExpired), errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrNoRefreshToken), errors.Is(err, shared.ErrRefreshFailed):
		m.status = "Authorization expired. Run 'spindle auth login' and restart."
	default:
		m.err = err
	}
}

func (m *Model) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if m.playback != nil && m.playback.Playing {
			return m, m.command(m.player.Pause)
		}
		return m, m.command(m.player.Play)
	case key.Matches(msg, m.keys.next):
		return m, m.command(m.player.Next)
	case key.Matches(msg, m.keys.previous):
		return m, m.command(m.player.Previous)
	case key.Matches(msg, m.keys.playlists):
		return m, m.fetchPlaylists()
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchPlayback()
	}
	return m, nil
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = NowPlayingView
		return m, m.fetchPlayback()
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.playlistList.View()
	default:
		return m.renderNowPlaying()
	}
}

func (m *Model) renderNowPlaying() string {
	out := styles.title.Render("spindle") + "\n\n"

	if m.status != "" {
		out += styles.warn.Render(m.status) + "\n"
	} else if m.playback == nil {
		out += styles.help.Render("Nothing playing.") + "\n"
	} else {
		track := m.playback.Track
		state := "⏸"
		if m.playback.Playing {
			state = "▶"
		}
		out += fmt.Sprintf("%s  %s\n", state, styles.ok.Render(track.Title))
		out += fmt.Sprintf("   %s", track.Artist)
		if track.Album != "" {
			out += fmt.Sprintf(" • %s", track.Album)
		}
		out += "\n"
		out += styles.help.Render(fmt.Sprintf("   %s / %s on %s",
			formatDuration(m.playback.ProgressMS),
			formatDuration(track.DurationMS),
			m.playback.Device.Name,
		)) + "\n"
	}

	out += "\n" + m.help.View(m.keys)
	return out
}

func formatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
