package tempvoice

import (
	"sync"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/logger"
)

// Manager maps guild ids to their Server registries. It is constructed once
// at the composition root and passed to every handler; there is no ambient
// singleton.
type Manager struct {
	platform Platform
	store    Store
	cfg      *config.TempVoiceConfig
	log      *logger.Logger

	mu      sync.RWMutex
	servers map[string]*Server
}

func NewManager(platform Platform, store Store, cfg *config.TempVoiceConfig, log *logger.Logger) *Manager {
	return &Manager{
		platform: platform,
		store:    store,
		cfg:      cfg,
		log:      log,
		servers:  make(map[string]*Server),
	}
}

// Server resolves the registry for a guild, constructing it lazily. Returns
// nil while the guild is unconfigured; the miss is not cached, so later
// configuration is picked up on a subsequent access.
func (m *Manager) Server(guildID string) *Server {
	m.mu.Lock()
	srv, ok := m.servers[guildID]
	if !ok {
		srv = newServer(guildID, m.platform, m.store, m.cfg, m.log)
		m.servers[guildID] = srv
	}
	m.mu.Unlock()

	if err := srv.Refresh(); err != nil {
		m.log.Errorf("failed to refresh guild %s settings: %v", guildID, err)
	}
	if !srv.Configured() {
		return nil
	}
	return srv
}

// ForceRefresh reloads a guild's configuration immediately, constructing the
// registry if needed. Used after the setup command rewrites the settings.
func (m *Manager) ForceRefresh(guildID string) error {
	m.mu.Lock()
	srv, ok := m.servers[guildID]
	if !ok {
		srv = newServer(guildID, m.platform, m.store, m.cfg, m.log)
		m.servers[guildID] = srv
	}
	m.mu.Unlock()
	return srv.ForceRefresh()
}

// Servers returns a snapshot of all constructed registries, configured or
// not; sweeps skip the unconfigured ones via their empty room sets.
func (m *Manager) Servers() []*Server {
	m.mu.RLock()
	defer m.mu.RUnlock()
	servers := make([]*Server, 0, len(m.servers))
	for _, srv := range m.servers {
		servers = append(servers, srv)
	}
	return servers
}

// Store exposes the durable store for boundary code that needs row-level
// access (ban lists for the unban picker, restore at startup).
func (m *Manager) Store() Store {
	return m.store
}

// Platform exposes the platform client for boundary code (channel lookups
// during restore).
func (m *Manager) Platform() Platform {
	return m.platform
}
