package playback

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var ErrManifestURLRequired = errors.New("manifest url is required")

// Player is the HLS playback capability. Implementations attach a manifest
// and must tolerate nothing else: the manager guarantees Release is called
// exactly once per attached player, on every exit path.
type Player interface {
	Attach(manifestURL string) error
	Release()
}

// PlayerFactory produces a fresh player per playback.
type PlayerFactory func() Player

// Handle is one owned playback instance.
type Handle struct {
	ID        string
	Manifest  string
	StartedAt time.Time

	player      Player
	releaseOnce sync.Once
}

// release tears the player down. Guarded so replace-then-close sequences
// can never double-release.
func (h *Handle) release() {
	h.releaseOnce.Do(func() {
		h.player.Release()
	})
}

// Manager owns the single active playback. Starting a new playback tears
// down the previous instance before attaching the new one; there is never
// more than one live player.
type Manager struct {
	mu      sync.Mutex
	factory PlayerFactory
	active  *Handle
	counter int
}

func NewManager(factory PlayerFactory) *Manager {
	return &Manager{factory: factory}
}

// Start attaches a new player to the manifest, releasing any previous
// playback first. On attach failure the fresh player is released and no
// playback remains active.
func (m *Manager) Start(manifestURL string) (*Handle, error) {
	if manifestURL == "" {
		return nil, ErrManifestURLRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.active.release()
		m.active = nil
	}

	player := m.factory()
	if err := player.Attach(manifestURL); err != nil {
		player.Release()
		return nil, fmt.Errorf("attach %s: %w", manifestURL, err)
	}

	m.counter++
	h := &Handle{
		ID:        fmt.Sprintf("pb-%d", m.counter),
		Manifest:  manifestURL,
		StartedAt: time.Now(),
		player:    player,
	}
	m.active = h
	log.Printf("[playback] started %s for %s", h.ID, manifestURL)
	return h, nil
}

// Stop releases the active playback, if any. Safe to call repeatedly.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return
	}
	log.Printf("[playback] stopped %s", m.active.ID)
	m.active.release()
	m.active = nil
}

// Active returns the current playback handle, or nil when idle.
func (m *Manager) Active() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
