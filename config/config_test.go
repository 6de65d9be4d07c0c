package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()
	c := Load()
	if c.ListenAddr != ":8080" {
		t.Errorf("ListenAddr default: got %q", c.ListenAddr)
	}
	if c.UpstreamBaseURL != "https://app.gogophim.com/v1" {
		t.Errorf("UpstreamBaseURL default: got %q", c.UpstreamBaseURL)
	}
	if c.RequestTimeout != 8*time.Second {
		t.Errorf("RequestTimeout default: got %v", c.RequestTimeout)
	}
	if c.AutoLoadCeiling != 5 {
		t.Errorf("AutoLoadCeiling default: got %d", c.AutoLoadCeiling)
	}
	if !c.PosterRelay {
		t.Error("PosterRelay should default true")
	}
	if c.LogFile != "" {
		t.Errorf("LogFile default should be empty; got %q", c.LogFile)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHUMSTREAM_LISTEN_ADDR", "127.0.0.1:9090")
	os.Setenv("CHUMSTREAM_UPSTREAM_URL", "http://mirror.test/v1/")
	os.Setenv("CHUMSTREAM_REQUEST_TIMEOUT", "3s")
	os.Setenv("CHUMSTREAM_AUTO_LOAD_CEILING", "2")
	os.Setenv("CHUMSTREAM_POSTER_RELAY", "no")
	c := Load()
	if c.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("ListenAddr: got %q", c.ListenAddr)
	}
	if c.UpstreamBaseURL != "http://mirror.test/v1" {
		t.Errorf("UpstreamBaseURL should drop trailing slash; got %q", c.UpstreamBaseURL)
	}
	if c.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout: got %v", c.RequestTimeout)
	}
	if c.AutoLoadCeiling != 2 {
		t.Errorf("AutoLoadCeiling: got %d", c.AutoLoadCeiling)
	}
	if c.PosterRelay {
		t.Error("PosterRelay should be false for no")
	}
}

func TestLoadRejectsNonPositiveValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHUMSTREAM_AUTO_LOAD_CEILING", "-1")
	os.Setenv("CHUMSTREAM_REQUEST_TIMEOUT", "-5s")
	c := Load()
	if c.AutoLoadCeiling != 5 {
		t.Errorf("negative ceiling should fall back to default; got %d", c.AutoLoadCeiling)
	}
	if c.RequestTimeout != 8*time.Second {
		t.Errorf("negative timeout should fall back to default; got %v", c.RequestTimeout)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHUMSTREAM_REQUEST_TIMEOUT", "soon")
	c := Load()
	if c.RequestTimeout != 8*time.Second {
		t.Errorf("unparsable duration should fall back to default; got %v", c.RequestTimeout)
	}
}
