package models

// Playback represents the current playback state on the user's active device.
type Playback struct {
	Track      Track
	Device     Device
	ProgressMS int
	Playing    bool
}

// Device represents a Spotify Connect playback device.
type Device struct {
	ID       string
	Name     string
	Type     string
	VolumePC int
	Active   bool
}

// Track represents a playable track.
type Track struct {
	ID         string
	Title      string
	Artist     string
	Album      string
	DurationMS int
	URI        string
}

// Playlist represents a playlist owned by or followed by the user.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
	URI         string
}
