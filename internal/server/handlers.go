package server

import (
	"clapshot/internal/analytics"
	"clapshot/internal/db"
	"clapshot/internal/gamedata"
	"clapshot/internal/metrics"
	"clapshot/internal/rooms"
	"clapshot/internal/wshub"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"text/template"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Server struct {
	Rooms   *rooms.Store
	Tmpl    *template.Template
	Metrics *metrics.Metrics
	DB      *db.DB // nil if no database configured
}

// RoomState is the JSON view of a running cabinet.
type RoomState struct {
	Code      string            `json:"code"`
	SessionID string            `json:"sessionId"`
	Seed      uint32            `json:"seed"`
	Players   int               `json:"players"`
	Snapshot  gamedata.Snapshot `json:"snapshot"`
	Tally     analytics.Tally   `json:"tally"`
}

func (s *Server) roomFromPath(r *http.Request) *rooms.Room {
	code := strings.ToUpper(r.PathValue("code"))
	if !rooms.ValidCode(code) {
		return nil
	}
	return s.Rooms.Get(code)
}

// hostedRoom resolves the cabinet this browser opened from the room_code cookie.
func (s *Server) hostedRoom(r *http.Request) *rooms.Room {
	cookie, err := r.Cookie("room_code")
	if err != nil || !rooms.ValidCode(cookie.Value) {
		return nil
	}
	return s.Rooms.Get(cookie.Value)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Hosted *rooms.Room
		Rooms  []*rooms.Room
	}{s.hostedRoom(r), s.Rooms.List()}
	if err := s.Tmpl.ExecuteTemplate(w, "home", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering home page", http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:CreateRoom] Request Received")

	hostID := uuid.New().String()
	room, err := s.Rooms.Create(hostID)
	if err != nil {
		log.Println(err)
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "room_code",
		Value:    room.Code,
		Path:     "/",
		HttpOnly: true,
	})

	fmt.Printf("[Handle:CreateRoom] Created room %s\n", room.Code)
	http.Redirect(w, r, "/play/"+room.Code, http.StatusSeeOther)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	room := s.roomFromPath(r)
	if room == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	screen := room.Game.Config.Screen
	data := map[string]any{"Code": room.Code, "Width": screen.W, "Height": screen.H}
	if err := s.Tmpl.ExecuteTemplate(w, "cabinet", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering cabinet", http.StatusInternalServerError)
	}
}

func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	room := s.roomFromPath(r)
	if room == nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	state := RoomState{
		Code:      room.Code,
		SessionID: room.SessionID,
		Seed:      room.Seed,
		Players:   room.Hub.Len(),
		Snapshot:  room.Game.Snapshot(),
		Tally:     room.Tally.Tally(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:CloseRoom] Request Received")
	room := s.roomFromPath(r)
	if room == nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	s.Rooms.Delete(room.Code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	room := s.roomFromPath(r)
	if room == nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[Handle:WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	client := &wshub.Client{
		PlayerID: uuid.New().String(),
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}
	room.Join(client)
	defer room.Hub.Unregister(client.PlayerID)
	fmt.Printf("[Handle:WS] Player %s joined %s\n", client.PlayerID, room.Code)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.WritePump(ctx)
	go func() {
		select {
		case <-room.Done():
			conn.Close(websocket.StatusGoingAway, "cabinet closed")
			cancel()
		case <-ctx.Done():
		}
	}()

	err = client.ReadPump(ctx, room.HandleInput)
	if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
		log.Printf("[Handle:WS] Read error: %v\n", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	room := s.roomFromPath(r)
	if room == nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	msgChan := room.Broadcaster.Subscribe()
	defer room.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-room.Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Msg, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s","cabinets":%d}`, status, len(s.Rooms.List()))
}
