package playback

import (
	"testing"

	"chumstream/models"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name       string
		embed, hls string
		wantAction models.PlaybackAction
		wantURL    string
	}{
		{"embed wins over hls", "http://embed", "http://x.m3u8", models.PlaybackOpenExternal, "http://embed"},
		{"whitespace embed is absent", "  ", "http://x.m3u8", models.PlaybackPlayHLS, "http://x.m3u8"},
		{"hls only", "", "http://x.m3u8", models.PlaybackPlayHLS, "http://x.m3u8"},
		{"embed only", "http://embed", "", models.PlaybackOpenExternal, "http://embed"},
		{"no source", "", "", models.PlaybackNoSource, ""},
		{"whitespace everywhere", " \t", "  ", models.PlaybackNoSource, ""},
		{"urls are trimmed", " http://embed ", "", models.PlaybackOpenExternal, "http://embed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.embed, tc.hls)
			if got.Action != tc.wantAction {
				t.Errorf("action = %q, want %q", got.Action, tc.wantAction)
			}
			if got.URL != tc.wantURL {
				t.Errorf("url = %q, want %q", got.URL, tc.wantURL)
			}
		})
	}
}

func TestResolveSource(t *testing.T) {
	got := ResolveSource(models.EpisodeSource{DisplayName: "Episode 1", HLSURL: "http://x.m3u8"})
	if got.Action != models.PlaybackPlayHLS {
		t.Errorf("action = %q, want %q", got.Action, models.PlaybackPlayHLS)
	}
}
