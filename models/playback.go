package models

// PlaybackAction is the kind of playback a client should perform.
type PlaybackAction string

const (
	// PlaybackOpenExternal means open the URL as an external navigation.
	// Third-party embed pages commonly refuse to load inside iframes, so
	// in-page embedding is never attempted as the primary path.
	PlaybackOpenExternal PlaybackAction = "open_external"

	// PlaybackPlayHLS means attach the URL to an in-page HLS player.
	PlaybackPlayHLS PlaybackAction = "play_hls"

	// PlaybackNoSource means the episode has no usable source. This is a
	// user-facing "no stream available" state, not an error.
	PlaybackNoSource PlaybackAction = "no_source"
)

// PlaybackDecision is the resolved playback instruction for an episode.
type PlaybackDecision struct {
	Action PlaybackAction `json:"action"`
	URL    string         `json:"url,omitempty"`
}
