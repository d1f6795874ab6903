package api

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-arena/config"
	"github.com/hoshinonyaruko/snake-arena/memimg"
	"github.com/hoshinonyaruko/snake-arena/snake"
	"github.com/hoshinonyaruko/snake-arena/sqlite"
	"github.com/hoshinonyaruko/snake-arena/structs"
)

var ErrRoomNotFound = errors.New("room not found")

// Hub owns every live room.
type Hub struct {
	cfg      *config.AppConfig
	db       *sql.DB
	skins    *memimg.Cache
	interval time.Duration
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	rooms map[string]*Room
}

// Room is one round plus the viewers watching it. The round is only touched under mu.
type Room struct {
	id  string
	hub *Hub

	mu      sync.Mutex
	roundID string
	round   *snake.Round
	paused  bool
	closed  bool
	cancel  context.CancelFunc

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
}

// NewHub builds a hub. db and skins may be nil. A zero tick interval
// (fps <= 0) leaves rooms to be advanced only through /tick.
func NewHub(cfg *config.AppConfig, db *sql.DB, skins *memimg.Cache) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	if skins == nil {
		skins = memimg.NewCache(cfg.Blocksize)
	}
	return &Hub{
		cfg:      cfg,
		db:       db,
		skins:    skins,
		interval: cfg.TickInterval(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		ctx:      ctx,
		cancel:   cancel,
		rooms:    make(map[string]*Room),
	}
}

// RestoreRooms brings back every room saved in the database.
func (h *Hub) RestoreRooms(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	ids, err := sqlite.RoomIDs(ctx, h.db)
	if err != nil {
		return err
	}
	for _, id := range ids {
		rec, err := sqlite.LoadRound(ctx, h.db, id)
		if err != nil {
			log.Printf("room %s: %v", id, err)
			continue
		}
		round, err := rec.Restore()
		if err != nil {
			log.Printf("room %s: %v", id, err)
			continue
		}
		h.addRoom(id, rec.RoundID, round, rec.Paused)
		log.Printf("restored room %s at tick %d", id, round.Ticks())
	}
	return nil
}

// NewRound resets roomID, creating the room when needed.
func (h *Hub) NewRound(roomID string, o config.Overrides) (*Room, error) {
	cfg, err := h.cfg.RoundConfig(o)
	if err != nil {
		return nil, err
	}

	// 查找和创建在同一把锁内完成，并发请求同一房间只会建出一个
	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		round, err := snake.NewRound(cfg)
		if err != nil {
			h.mu.Unlock()
			return nil, err
		}
		room = h.addRoomLocked(roomID, uuid.New().String(), round, false)
	}
	h.mu.Unlock()

	if ok {
		room.mu.Lock()
		if err := room.round.Reset(cfg); err != nil {
			room.mu.Unlock()
			return nil, err
		}
		room.roundID = uuid.New().String()
		room.paused = false
		room.mu.Unlock()
	}

	room.persist()
	room.broadcast(room.View())
	return room, nil
}

func (h *Hub) addRoom(id, roundID string, round *snake.Round, paused bool) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.rooms[id]; ok {
		old.stop()
	}
	return h.addRoomLocked(id, roundID, round, paused)
}

// addRoomLocked registers a room and starts its loop. h.mu must be held.
func (h *Hub) addRoomLocked(id, roundID string, round *snake.Round, paused bool) *Room {
	room := &Room{
		id:      id,
		hub:     h,
		roundID: roundID,
		round:   round,
		paused:  paused,
		conns:   make(map[*websocket.Conn]struct{}),
	}
	h.rooms[id] = room

	if h.interval > 0 {
		ctx, cancel := context.WithCancel(h.ctx)
		room.cancel = cancel
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			room.run(ctx, h.interval)
		}()
	}
	return room
}

func (h *Hub) Room(id string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Delete stops a room and removes its stored state.
func (h *Hub) Delete(id string) error {
	h.mu.Lock()
	room, ok := h.rooms[id]
	delete(h.rooms, id)
	h.mu.Unlock()

	if !ok {
		return ErrRoomNotFound
	}
	room.stop()
	if h.db != nil {
		return sqlite.DeleteRound(context.Background(), h.db, id)
	}
	return nil
}

// Close stops all room loops and saves their final state.
func (h *Hub) Close() {
	h.cancel()
	h.wg.Wait()

	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	for _, room := range rooms {
		room.persist()
		room.closeConns()
	}
}

func (r *Room) ID() string { return r.id }

func (r *Room) View() structs.Round {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Room) viewLocked() structs.Round {
	return structs.FromRound(r.id, r.roundID, r.round, r.paused)
}

// Advance plays up to n ticks, stopping early when the round ends.
func (r *Room) Advance(n int) structs.Round {
	r.mu.Lock()
	for i := 0; i < n && r.round.Status() == snake.Continuing; i++ {
		r.round.Tick()
	}
	view := r.viewLocked()
	r.mu.Unlock()

	r.persist()
	r.broadcast(view)
	return view
}

func (r *Room) SetPaused(paused bool) structs.Round {
	r.mu.Lock()
	r.paused = paused
	view := r.viewLocked()
	r.mu.Unlock()

	r.persist()
	r.broadcast(view)
	return view
}

// run advances the round on every tick while it is running and not paused.
func (r *Room) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		if r.paused || r.round.Status() == snake.Over {
			r.mu.Unlock()
			continue
		}
		status := r.round.Tick()
		view := r.viewLocked()
		r.mu.Unlock()

		r.broadcast(view)
		if status == snake.Over {
			log.Printf("room %s round %s over after %d ticks", r.id, view.RoundID, view.Tick)
			r.persist()
		}
	}
}

func (r *Room) stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.closeConns()
}

func (r *Room) persist() {
	db := r.hub.db
	if db == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	rec := sqlite.Record{
		RoomID:  r.id,
		RoundID: r.roundID,
		Paused:  r.paused,
		Config:  r.round.Config(),
		State:   r.round.State(),
	}
	r.mu.Unlock()

	if err := sqlite.SaveRound(context.Background(), db, rec); err != nil {
		log.Printf("room %s: saving state: %v", r.id, err)
	}
}

func (r *Room) addConn(conn *websocket.Conn) {
	r.connsMu.Lock()
	r.conns[conn] = struct{}{}
	r.connsMu.Unlock()
}

func (r *Room) dropConn(conn *websocket.Conn) {
	r.connsMu.Lock()
	delete(r.conns, conn)
	r.connsMu.Unlock()
	conn.Close()
}

func (r *Room) closeConns() {
	r.connsMu.Lock()
	defer r.connsMu.Unlock()
	for conn := range r.conns {
		conn.Close()
		delete(r.conns, conn)
	}
}

// broadcast sends view to every viewer; connsMu also serializes writes.
func (r *Room) broadcast(view structs.Round) {
	r.connsMu.Lock()
	defer r.connsMu.Unlock()
	for conn := range r.conns {
		if err := conn.WriteJSON(view); err != nil {
			conn.Close()
			delete(r.conns, conn)
		}
	}
}

func (r *Room) send(conn *websocket.Conn, view structs.Round) error {
	r.connsMu.Lock()
	defer r.connsMu.Unlock()
	return conn.WriteJSON(view)
}
