package playback

import (
	"strings"

	"chumstream/models"
)

// Resolve picks the playback path for an episode's candidate sources.
// A non-blank embed URL always wins and is opened as an external
// navigation; embed hosts block iframe embedding, so in-page embedding is
// never the primary path. HLS is the fallback, and with neither source the
// episode is simply dead. Whitespace-only URLs count as absent.
func Resolve(embedURL, hlsURL string) models.PlaybackDecision {
	embed := strings.TrimSpace(embedURL)
	hls := strings.TrimSpace(hlsURL)

	switch {
	case embed != "":
		return models.PlaybackDecision{Action: models.PlaybackOpenExternal, URL: embed}
	case hls != "":
		return models.PlaybackDecision{Action: models.PlaybackPlayHLS, URL: hls}
	default:
		return models.PlaybackDecision{Action: models.PlaybackNoSource}
	}
}

// ResolveSource resolves an episode's own candidate URLs.
func ResolveSource(source models.EpisodeSource) models.PlaybackDecision {
	return Resolve(source.EmbedURL, source.HLSURL)
}
