package session

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager keeps the live games in memory and pages them in and out of a
// SessionPersistence. IDs are case-insensitive.
//
// The manager never reads a game's engine on its own goroutine. What it
// knows about a game (finished, round) is recorded when the owner hands
// the session back through Save.
type Manager struct {
	mu          sync.RWMutex
	games       map[string]*entry
	persistence SessionPersistence
	seed        *uint64
	engineOpts  []engine.Option
}

type entry struct {
	session  *service.Session
	finished bool
	round    int
}

func (e *entry) record() {
	state := e.session.Engine.GetState()
	e.finished = state.Winner != engine.NoWinner
	e.round = state.Round
}

// Option configures a Manager.
type Option func(*Manager)

// WithPersistence stores a snapshot of every game so it survives restarts
// and eviction.
func WithPersistence(p SessionPersistence) Option {
	return func(m *Manager) { m.persistence = p }
}

// WithSeed makes new games reproducible. Each game is seeded from seed
// and its session ID: the same ID replays the same deck, two sessions
// never share one.
func WithSeed(seed uint64) Option {
	return func(m *Manager) { m.seed = &seed }
}

// WithEngineOptions applies opts to the engine of every new game.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Manager) { m.engineOpts = append(m.engineOpts, opts...) }
}

// NewManager creates a session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{games: make(map[string]*entry)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func key(id string) string {
	return strings.ToLower(id)
}

// sessionSeed mixes the manager seed with the session ID.
func sessionSeed(seed uint64, id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key(id)))
	return seed ^ h.Sum64()
}

// Create starts a new game. An empty id draws a fresh one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.freeID()
	} else if !validSessionID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	if m.known(id) {
		return nil, ErrSessionAlreadyExists
	}

	opts := m.engineOpts
	if m.seed != nil {
		opts = append(append([]engine.Option{}, opts...), engine.WithSeed(sessionSeed(*m.seed, id)))
	}
	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	e := &entry{session: &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}}
	e.record()
	m.games[key(id)] = e

	if m.persistence != nil {
		if err := m.persistence.Save(e.session); err != nil {
			log.WithError(err).WithField("session", id).Warn("failed to persist new session")
		}
	}

	log.WithFields(log.Fields{
		"session":    id,
		"difficulty": config.Difficulty,
		"seeded":     m.seed != nil,
	}).Debug("session created")
	return e.session, nil
}

// Get returns a game, paging it in from persistence when it was evicted.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	e, ok := m.games[key(id)]
	m.mu.RUnlock()
	if ok {
		return e.session, nil
	}

	if m.persistence == nil || !validSessionID(id) || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	sess, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have paged it in meanwhile.
	if e, ok := m.games[key(id)]; ok {
		return e.session, nil
	}
	e = &entry{session: sess}
	e.record()
	m.games[key(id)] = e
	log.WithFields(log.Fields{"session": id, "round": e.round}).Debug("session paged in")
	return sess, nil
}

// List returns the games in memory.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.games))
	for _, e := range m.games {
		result = append(result, e.session)
	}
	return result
}

// Delete removes a game from memory and from persistence.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.games[key(id)]
	delete(m.games, key(id))

	if m.persistence != nil && validSessionID(id) && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// Evict drops a game from memory only. A persisted game comes back on the
// next Get.
func (m *Manager) Evict(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.games, key(id))
	return nil
}

// Touch marks a game as used now. It is written out with the next Save.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	e.session.LastAccessedAt = time.Now()
	return nil
}

// Save records the game's progress and writes its snapshot. The caller
// must own the session's engine for the duration of the call.
func (m *Manager) Save(id string) error {
	m.mu.Lock()
	e, ok := m.games[key(id)]
	if ok {
		e.record()
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if m.persistence == nil {
		return nil
	}
	return m.persistence.Save(e.session)
}

// Retention controls how long unused games stay around. A zero duration
// keeps those games forever.
type Retention struct {
	// Finished games are deleted, snapshot included, once unused this long.
	Finished time.Duration
	// Unfinished games are evicted from memory once unused this long. With
	// persistence they can be paged back in; without it they are gone.
	Idle time.Duration
}

// Expire applies r and reports how many finished games were deleted and
// how many unfinished games were evicted.
func (m *Manager) Expire(r Retention) (deleted, evicted int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.games {
		unused := now.Sub(e.session.LastAccessedAt)
		switch {
		case e.finished && r.Finished > 0 && unused > r.Finished:
			delete(m.games, k)
			deleted++
			if m.persistence != nil && m.persistence.Exists(e.session.ID) {
				if err := m.persistence.Delete(e.session.ID); err != nil {
					log.WithError(err).WithField("session", e.session.ID).Warn("failed to delete finished session")
				}
			}
		case !e.finished && r.Idle > 0 && unused > r.Idle:
			delete(m.games, k)
			evicted++
		}
	}
	return deleted, evicted
}

// Stats summarizes the games in memory.
type Stats struct {
	Sessions   int `json:"sessions"`
	Finished   int `json:"finished"`
	InProgress int `json:"in_progress"`
	// MaxRound is the furthest round any game in memory has reached.
	MaxRound int `json:"max_round"`
}

// Stats returns counts as of each game's last Save.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Stats{Sessions: len(m.games)}
	for _, e := range m.games {
		if e.finished {
			st.Finished++
		} else {
			st.InProgress++
		}
		if e.round > st.MaxRound {
			st.MaxRound = e.round
		}
	}
	return st
}

// Count returns the number of games in memory.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// freeID draws short IDs until one is unused in memory and on disk.
// Callers hold m.mu.
func (m *Manager) freeID() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		if !m.known(id) {
			return id
		}
	}
}

func (m *Manager) known(id string) bool {
	if _, ok := m.games[key(id)]; ok {
		return true
	}
	return m.persistence != nil && m.persistence.Exists(id)
}

// validSessionID accepts IDs that are safe to use as file names.
func validSessionID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Restore loads every persisted game that is not already in memory and
// returns how many were loaded. Unreadable snapshots are skipped.
func (m *Manager) Restore() (int, error) {
	if m.persistence == nil {
		return 0, nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, ok := m.games[key(id)]; ok {
			continue
		}
		sess, err := m.persistence.Load(id)
		if err != nil {
			log.WithError(err).WithField("session", id).Warn("failed to load persisted session")
			continue
		}
		e := &entry{session: sess}
		e.record()
		m.games[key(id)] = e
		loaded++
	}
	return loaded, nil
}

// Flush writes every game in memory. The caller must own all engines,
// which in practice means no requests are being served.
func (m *Manager) Flush() error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sessions := make([]*service.Session, 0, len(m.games))
	for _, e := range m.games {
		sessions = append(sessions, e.session)
	}
	m.mu.RUnlock()

	failed := 0
	for _, sess := range sessions {
		if err := m.persistence.Save(sess); err != nil {
			log.WithError(err).WithField("session", sess.ID).Warn("failed to save session")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
