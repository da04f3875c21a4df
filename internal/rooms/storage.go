package rooms

import (
	"clapshot/internal/analytics"
	"clapshot/internal/assets"
	"clapshot/internal/audio"
	"clapshot/internal/broadcast"
	"clapshot/internal/db"
	"clapshot/internal/devices"
	"clapshot/internal/events"
	"clapshot/internal/gamedata"
	"clapshot/internal/geom"
	"clapshot/internal/metrics"
	"clapshot/internal/random"
	"clapshot/internal/remote"
	"clapshot/internal/wshub"
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

const staleTTL = 1 * time.Hour

// SessionRecorder journals the start and end of cabinet sessions.
type SessionRecorder interface {
	StartSession(id, cabinetCode string, seed uint32) error
	EndSession(id string) error
}

type Config struct {
	Game   gamedata.Config
	Frame  time.Duration
	Seed   uint32 // 0 draws a fresh seed per cabinet
	Assets assets.Manifest

	// Optional collaborators; nil disables them.
	Metrics  *metrics.Metrics
	Sessions SessionRecorder
	Journal  chan<- db.EventRecord
}

type Store struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	pending map[string]struct{} // codes whose cabinets are still starting
	cfg     Config
}

func NewStore(cfg Config) *Store {
	if cfg.Frame <= 0 {
		cfg.Frame = 16 * time.Millisecond
	}
	if cfg.Assets == nil {
		cfg.Assets = assets.Default()
	}
	s := &Store{
		rooms:   make(map[string]*Room),
		pending: make(map[string]struct{}),
		cfg:     cfg,
	}
	go s.sweepStale()
	return s
}

// Create reserves a fresh code and starts a cabinet on it. The store lock is
// not held while the cabinet starts, and the room is visible to Get and List
// only once it is running.
func (s *Store) Create(hostID string) (*Room, error) {
	room, err := s.reserve(hostID)
	if err != nil {
		return nil, err
	}
	s.start(room)

	s.mu.Lock()
	delete(s.pending, room.Code)
	s.rooms[room.Code] = room
	s.mu.Unlock()
	return room, nil
}

func (s *Store) reserve(hostID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := NewCode()
		if err != nil {
			return nil, err
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}
		if _, exists := s.pending[code]; exists {
			continue
		}
		s.pending[code] = struct{}{}
		return s.build(code, hostID), nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

func (s *Store) build(code, hostID string) *Room {
	seed := s.cfg.Seed
	for seed == 0 {
		seed = rand.Uint32()
	}

	hub := wshub.NewHub()
	rend := remote.NewRenderer(hub, s.cfg.Assets)
	score, countdown := remote.NewDisplays(hub, s.cfg.Game.Screen, geom.Size{W: 100, H: 40})
	touches := devices.NewTouchQueue()
	clapper := audio.NewClapper(audio.ClapFrames)

	game := gamedata.NewGame(s.cfg.Game, gamedata.Devices{
		Clock:            devices.NewClock(),
		Touch:            touches,
		Mic:              audio.NewStreamSource(clapper),
		Renderer:         rend,
		ScoreDisplay:     score,
		CountdownDisplay: countdown,
	}, random.NewMT(seed), events.NewBus())

	return &Room{
		Code:        code,
		SessionID:   uuid.New().String(),
		Seed:        seed,
		Game:        game,
		Broadcaster: broadcast.NewBroadcaster(),
		Hub:         hub,
		Renderer:    rend,
		Score:       score,
		Countdown:   countdown,
		Touches:     touches,
		Clapper:     clapper,
		Tally:       analytics.NewCounter(),
		CreatedAt:   time.Now(),
		HostID:      hostID,
		done:        make(chan struct{}),
	}
}

func (s *Store) start(room *Room) {
	if s.cfg.Sessions != nil {
		if err := s.cfg.Sessions.StartSession(room.SessionID, room.Code, room.Seed); err != nil {
			log.Printf("[DB] StartSession error: %v\n", err)
		}
	}
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.Cabinets.Inc()
	}

	ctx, cancel := context.WithCancel(context.Background())
	room.cancel = cancel
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		room.Game.Run(ctx, s.cfg.Frame)
	}()
	go func() {
		defer wg.Done()
		s.dispatch(ctx, room)
	}()
	go func() {
		wg.Wait()
		close(room.done)
	}()
	log.Printf("[Room] %s started (seed %d)\n", room.Code, room.Seed)
}

// dispatch fans the cabinet's events out to spectators, the tally, metrics
// and the journal.
func (s *Store) dispatch(ctx context.Context, room *Room) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-room.Game.Events.Events:
			room.Tally.Observe(ev)
			room.Broadcaster.Publish(ev)
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.Observe(ev)
			}
			if s.cfg.Journal != nil {
				select {
				case s.cfg.Journal <- db.EventRecord{SessionID: room.SessionID, Event: ev, RecordedAt: time.Now()}:
				default:
					log.Println("[DB] Journal buffer full, dropping event")
				}
			}
		}
	}
}

func (s *Store) close(room *Room) {
	room.stop()
	room.Hub.CloseAll()
	if s.cfg.Sessions != nil {
		if err := s.cfg.Sessions.EndSession(room.SessionID); err != nil {
			log.Printf("[DB] EndSession error: %v\n", err)
		}
	}
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.Cabinets.Dec()
	}
	log.Printf("[Room] %s closed\n", room.Code)
}

func (s *Store) Get(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code]
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()
	if ok {
		s.close(room)
	}
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

// CloseAll stops every cabinet.
func (s *Store) CloseAll() {
	for _, r := range s.List() {
		s.Delete(r.Code)
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		var stale []*Room
		for code, room := range s.rooms {
			if now.Sub(room.CreatedAt) > staleTTL {
				delete(s.rooms, code)
				stale = append(stale, room)
			}
		}
		s.mu.Unlock()
		for _, room := range stale {
			s.close(room)
		}
	}
}
