// Spotify Web API implementation of [Player]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyDevice represents a Spotify Connect device.
type SpotifyDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// SpotifyPlayback represents the playback state response.
type SpotifyPlayback struct {
	Device     SpotifyDevice `json:"device"`
	ProgressMS int           `json:"progress_ms"`
	IsPlaying  bool          `json:"is_playing"`
	Item       *SpotifyTrack `json:"item"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       Owner               `json:"owner"`
	Public      bool                `json:"public"`
	Tracks      simplePlaylistTrack `json:"tracks"`
	Images      []SpotifyImage      `json:"images"`
	URI         string              `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

// SpotifyService implements the [Player] interface over the Spotify Web API.
// All requests go through the shared [Client], inheriting its rate limiting
// and refresh-and-retry-once behavior.
type SpotifyService struct {
	client   *Client
	pageSize int
	logger   *log.Logger
}

// NewSpotifyService creates a new Spotify player backed by the given client.
func NewSpotifyService(client *Client, pageSize int, logger *log.Logger) *SpotifyService {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	return &SpotifyService{client: client, pageSize: pageSize, logger: logger}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// CurrentPlayback retrieves the playback state on the user's active device.
// A 204 from the provider means nothing is playing anywhere.
func (s *SpotifyService) CurrentPlayback(ctx context.Context) (*models.Playback, error) {
	var playback SpotifyPlayback

	status, err := s.client.Do(ctx, http.MethodGet, "/me/player", nil, &playback)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNoContent || playback.Item == nil {
		return nil, shared.ErrNoActivePlayback
	}

	result := &models.Playback{
		Track:      trackModel(*playback.Item),
		ProgressMS: playback.ProgressMS,
		Playing:    playback.IsPlaying,
		Device: models.Device{
			ID:       playback.Device.ID,
			Name:     playback.Device.Name,
			Type:     playback.Device.Type,
			VolumePC: playback.Device.VolumePercent,
			Active:   playback.Device.IsActive,
		},
	}

	return result, nil
}

// Play resumes playback on the active device.
func (s *SpotifyService) Play(ctx context.Context) error {
	return s.command(ctx, http.MethodPut, "/me/player/play")
}

// Pause pauses playback on the active device.
func (s *SpotifyService) Pause(ctx context.Context) error {
	return s.command(ctx, http.MethodPut, "/me/player/pause")
}

// Next skips to the next track.
func (s *SpotifyService) Next(ctx context.Context) error {
	return s.command(ctx, http.MethodPost, "/me/player/next")
}

// Previous skips to the previous track.
func (s *SpotifyService) Previous(ctx context.Context) error {
	return s.command(ctx, http.MethodPost, "/me/player/previous")
}

// command issues a playback control request. The provider answers 404 when
// no device is active.
func (s *SpotifyService) command(ctx context.Context, method, endpoint string) error {
	status, err := s.client.Do(ctx, method, endpoint, nil, nil)
	if status == http.StatusNotFound {
		return shared.ErrNoActivePlayback
	}
	return err
}

// Playlists retrieves all playlists for the authenticated user, following
// pagination until exhausted.
func (s *SpotifyService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", s.pageSize, offset)

		var page SpotifyPaginatedPlaylists
		if _, err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			all = append(all, models.Playlist{
				ID:          sp.ID,
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  sp.Tracks.Total,
				Public:      sp.Public,
				URI:         sp.URI,
			})
		}

		if page.Next == nil {
			break
		}
		offset += s.pageSize
	}

	s.logger.Debug("fetched playlists", "count", len(all))

	return all, nil
}

func trackModel(t SpotifyTrack) models.Track {
	track := models.Track{
		ID:         t.ID,
		Title:      t.Name,
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		URI:        t.URI,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}
