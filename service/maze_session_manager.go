package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

// SessionClaim is the token claim carrying the session ID.
const SessionClaim = "sid"

const (
	defaultSessionTTL    = 15 * time.Minute
	defaultMaxSessions   = 1024
	defaultMaxCells      = 1 << 16
	defaultMaxSteps      = 4096
	sessionTokenLifetime = 24 * time.Hour
	minJanitorInterval   = time.Second
)

// Session-related errors.
var (
	ErrSessionNotFound      = errors.New("maze session not found")
	ErrTooManySessions      = errors.New("too many maze sessions")
	ErrMazeTooLarge         = errors.New("maze has too many cells")
	ErrGenerationInProgress = errors.New("maze generation still in progress")
	ErrInvalidStepCount     = errors.New("step count must be positive")
	ErrInvalidSessionClaim  = errors.New("token does not name a maze session")
)

// SessionInfo is returned when a session is created.
type SessionInfo struct {
	ID    uuid.UUID
	Token string // Bearer token authorizing access to this session only.
	Shape maze.Shape
}

// StepResult lists the edges carved by one Step call.
type StepResult struct {
	Edges  []maze.Edge
	Carved int  // Total edges carved in the session so far.
	Done   bool // Whether the maze is complete.
}

// MoveResult describes the outcome of a player move.
// A move into a wall is not an error: Moved is false and Position is unchanged.
type MoveResult struct {
	Position maze.Coordinate
	Moved    bool
	Won      bool
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID       uuid.UUID
	Shape    maze.Shape
	Walls    []uint8 // Raw wall bitmasks, row-major over Shape+1 per axis.
	Carved   int
	Done     bool
	Position maze.Coordinate
	Won      bool
	Walk     []maze.Coordinate // Random walk in progress, if any.
}

// session is one maze being carved and played by a single owner.
type session struct {
	id         uuid.UUID
	maze       *maze.Maze
	generator  *maze.Generator
	position   maze.Coordinate // Player position, meaningful once generation is done.
	goal       maze.Coordinate // Far corner of the maze.
	carved     int
	lastActive time.Time
	sync.Mutex // Serializes every access to the maze and generator.
}

// MazeSessionManager keeps in-memory maze sessions and drives their generators.
type MazeSessionManager struct {
	sessions    map[uuid.UUID]*session
	tokenizer   i.Tokenizer
	logger      i.Logger
	ttl         time.Duration
	maxSessions int
	maxCells    int
	maxSteps    int
	now         func() time.Time
	sync.RWMutex
}

// Config holds the dependencies and limits of a MazeSessionManager.
// Zero limits fall back to defaults.
type Config struct {
	Tokenizer   i.Tokenizer
	Logger      i.Logger
	SessionTTL  time.Duration
	MaxSessions int
	MaxCells    int
	MaxSteps    int
}

// NewMazeSessionManager creates a session manager from c.
func NewMazeSessionManager(c *Config) (*MazeSessionManager, error) {
	if c == nil || c.Tokenizer == nil {
		return nil, errors.New("session manager requires a tokenizer")
	}

	m := &MazeSessionManager{
		sessions:    make(map[uuid.UUID]*session),
		tokenizer:   c.Tokenizer,
		logger:      c.Logger,
		ttl:         c.SessionTTL,
		maxSessions: c.MaxSessions,
		maxCells:    c.MaxCells,
		maxSteps:    c.MaxSteps,
		now:         time.Now,
	}

	if m.logger == nil {
		m.logger = logger.Discard()
	}
	if m.ttl <= 0 {
		m.ttl = defaultSessionTTL
	}
	if m.maxSessions <= 0 {
		m.maxSessions = defaultMaxSessions
	}
	if m.maxCells <= 0 {
		m.maxCells = defaultMaxCells
	}
	if m.maxSteps <= 0 {
		m.maxSteps = defaultMaxSteps
	}

	return m, nil
}

// NewSession creates a fully walled maze of the given shape with a generator bound to it.
// A zero seed picks a random one.
func (m *MazeSessionManager) NewSession(shape []int, seed uint64) (*SessionInfo, error) {
	if err := maze.ValidateShape(shape); err != nil {
		return nil, err
	}
	if cells := maze.Shape(shape).Cells(); cells > m.maxCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", ErrMazeTooLarge, cells, m.maxCells)
	}

	mz, err := maze.New(shape...)
	if err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = uint64(m.now().UnixNano())
	}

	goal := mz.Shape()
	for d := range goal {
		goal[d]--
	}

	s := &session{
		maze:       mz,
		generator:  maze.NewGenerator(mz, maze.NewRand(seed)),
		position:   make(maze.Coordinate, mz.Axes()),
		goal:       maze.Coordinate(goal),
		lastActive: m.now(),
	}

	m.Lock()
	if len(m.sessions) >= m.maxSessions {
		m.Unlock()
		m.logger.Warning(fmt.Sprintf("rejected new maze session: %d sessions live", m.maxSessions))
		return nil, ErrTooManySessions
	}
	s.id = uuid.New()
	for {
		if _, ok := m.sessions[s.id]; !ok {
			break
		}
		s.id = uuid.New()
	}
	m.sessions[s.id] = s
	m.Unlock()

	token, err := m.tokenizer.Generate(map[string]interface{}{SessionClaim: s.id.String()}, sessionTokenLifetime)
	if err != nil {
		m.remove(s.id)
		m.logger.Error(fmt.Sprintf("issuing token for maze session %s: %s", s.id, err))
		return nil, err
	}

	m.logger.Info(fmt.Sprintf("created maze session %s with shape %v", s.id, shape))
	return &SessionInfo{ID: s.id, Token: token, Shape: mz.Shape()}, nil
}

// SessionFromClaims extracts the session ID from decoded token claims.
func SessionFromClaims(claims map[string]interface{}) (uuid.UUID, error) {
	raw, ok := claims[SessionClaim].(string)
	if !ok {
		return uuid.Nil, ErrInvalidSessionClaim
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidSessionClaim
	}
	return id, nil
}

// Step advances the session's generator by up to n edges, opening each one on the maze.
// Requests above the configured limit are capped.
func (m *MazeSessionManager) Step(id uuid.UUID, n int) (*StepResult, error) {
	if n <= 0 {
		return nil, ErrInvalidStepCount
	}
	n = min(n, m.maxSteps)

	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.Unlock()

	edges := make([]maze.Edge, 0, n)
	for len(edges) < n {
		e, ok := s.generator.Next()
		if !ok {
			break
		}
		if err := s.maze.Open(e); err != nil {
			m.logger.Error(fmt.Sprintf("opening edge %s in maze session %s: %s", e, id, err))
			return nil, err
		}
		edges = append(edges, e)
		s.carved++
	}

	done := s.generator.Done()
	if done && len(edges) > 0 {
		m.logger.Info(fmt.Sprintf("maze session %s finished carving %d edges", id, s.carved))
	}

	return &StepResult{Edges: edges, Carved: s.carved, Done: done}, nil
}

// Snapshot copies the current state of a session.
func (m *MazeSessionManager) Snapshot(id uuid.UUID) (*Snapshot, error) {
	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.Unlock()

	return &Snapshot{
		ID:       s.id,
		Shape:    s.maze.Shape(),
		Walls:    s.maze.Walls(),
		Carved:   s.carved,
		Done:     s.generator.Done(),
		Position: s.position.Clone(),
		Won:      s.generator.Done() && s.position.Equal(s.goal),
		Walk:     s.generator.Walk(),
	}, nil
}

// Wall reports the wall state crossed when stepping from c along axis in dir.
func (m *MazeSessionManager) Wall(id uuid.UUID, c maze.Coordinate, axis int, dir maze.Direction) (maze.WallState, error) {
	s, err := m.acquire(id)
	if err != nil {
		return maze.Wall, err
	}
	defer s.Unlock()

	return s.maze.Get(c, axis, dir)
}

// Move tries to step the player along axis in dir. The maze must be fully carved.
func (m *MazeSessionManager) Move(id uuid.UUID, axis int, dir maze.Direction) (*MoveResult, error) {
	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.Unlock()

	if !s.generator.Done() {
		return nil, ErrGenerationInProgress
	}

	next, err := s.maze.Walk(s.position, axis, dir)
	if errors.Is(err, maze.ErrBlockedMove) {
		return &MoveResult{Position: s.position.Clone(), Won: s.position.Equal(s.goal)}, nil
	}
	if err != nil {
		return nil, err
	}

	s.position = next
	won := s.position.Equal(s.goal)
	if won {
		m.logger.Info(fmt.Sprintf("maze session %s reached the goal", id))
	}
	return &MoveResult{Position: next.Clone(), Moved: true, Won: won}, nil
}

// Delete drops a session.
func (m *MazeSessionManager) Delete(id uuid.UUID) error {
	if !m.remove(id) {
		return ErrSessionNotFound
	}
	m.logger.Info(fmt.Sprintf("deleted maze session %s", id))
	return nil
}

// Count returns the number of live sessions.
func (m *MazeSessionManager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

// Run evicts idle sessions until ctx is done.
func (m *MazeSessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(max(m.ttl/2, minJanitorInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.evictExpired(m.now()); n > 0 {
				m.logger.Info(fmt.Sprintf("evicted %d idle maze sessions", n))
			}
		}
	}
}

// evictExpired removes sessions idle since before now-ttl and returns how many were dropped.
func (m *MazeSessionManager) evictExpired(now time.Time) int {
	m.Lock()
	defer m.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if !s.TryLock() {
			// Busy sessions are active by definition.
			continue
		}
		expired := now.After(s.lastActive.Add(m.ttl))
		s.Unlock()
		if expired {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// acquire looks up a session, locks it and marks it active.
func (m *MazeSessionManager) acquire(id uuid.UUID) (*session, error) {
	m.RLock()
	s, ok := m.sessions[id]
	m.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.Lock()
	m.RLock()
	current := m.sessions[id]
	m.RUnlock()
	if current != s {
		// Evicted or deleted while waiting for the lock.
		s.Unlock()
		return nil, ErrSessionNotFound
	}
	s.lastActive = m.now()
	return s, nil
}

func (m *MazeSessionManager) remove(id uuid.UUID) bool {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}
