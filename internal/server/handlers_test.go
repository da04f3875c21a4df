package server

import (
	"clapshot/internal/db"
	"clapshot/internal/gamedata"
	"clapshot/internal/metrics"
	"clapshot/internal/rooms"
	"clapshot/internal/wshub"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	roomStore := rooms.NewStore(rooms.Config{
		Game:    gamedata.DefaultConfig(),
		Frame:   5 * time.Millisecond,
		Seed:    5489,
		Metrics: m,
	})

	srv := &Server{
		Rooms:   roomStore,
		Tmpl:    parseTemplates(),
		Metrics: m,
	}

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(func() {
		ts.Close()
		roomStore.CloseAll()
	})
	return srv, ts
}

func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// createRoom creates a cabinet via the API and returns its code.
func createRoom(t *testing.T, baseURL string) string {
	t.Helper()
	resp, err := noRedirect().Post(baseURL+"/rooms/create", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/play/") {
		t.Fatalf("Location = %q, want /play/{code}", loc)
	}
	return strings.TrimPrefix(loc, "/play/")
}

func getState(t *testing.T, baseURL, code string) RoomState {
	t.Helper()
	resp, err := http.Get(baseURL + "/room/" + code)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var state RoomState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	return state
}

func TestHandleHome(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHandleCreateRoom(t *testing.T) {
	srv, ts := newTestServer(t)

	code := createRoom(t, ts.URL)

	if len(code) != 4 {
		t.Errorf("room code length = %d, want 4", len(code))
	}
	if srv.Rooms.Get(code) == nil {
		t.Error("created room should be in the store")
	}
}

func TestHandlePlay(t *testing.T) {
	_, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	resp, err := http.Get(ts.URL + "/play/" + code)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = noRedirect().Get(ts.URL + "/play/ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("unknown room status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
}

func TestHandleRoomState(t *testing.T) {
	_, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	deadline := time.Now().Add(2 * time.Second)
	var state RoomState
	for time.Now().Before(deadline) {
		state = getState(t, ts.URL, code)
		if len(state.Snapshot.Hostile) == 5 && len(state.Snapshot.Friendly) == 3 && state.Tally.Spawns >= 8 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if state.Code != code {
		t.Errorf("Code = %q, want %q", state.Code, code)
	}
	if state.Seed != 5489 {
		t.Errorf("Seed = %d, want 5489", state.Seed)
	}
	if len(state.Snapshot.Hostile) != 5 {
		t.Errorf("hostile = %d, want 5", len(state.Snapshot.Hostile))
	}
	if len(state.Snapshot.Friendly) != 3 {
		t.Errorf("friendly = %d, want 3", len(state.Snapshot.Friendly))
	}
	if state.Tally.Spawns < 8 {
		t.Errorf("Tally.Spawns = %d, want >= 8", state.Tally.Spawns)
	}
}

func TestHandleRoomState_NotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/room/ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandleCloseRoom(t *testing.T) {
	srv, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/room/"+code, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if srv.Rooms.Get(code) != nil {
		t.Error("room should be closed")
	}
}

func TestHandleWS_Shoot(t *testing.T) {
	srv, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/room/" + code + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.CloseNow()

	// The joining player gets the current screen, ending with both readouts.
	var sawDigits bool
	for !sawDigits {
		var msg wshub.ServerMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatal(err)
		}
		sawDigits = msg.Type == "digits"
	}

	go func() {
		for {
			var msg wshub.ServerMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				return
			}
		}
	}()

	room := srv.Rooms.Get(code)
	for ctx.Err() == nil {
		snap := room.Game.Snapshot()
		if len(snap.Hostile) > 0 {
			b := snap.Hostile[0].Bounds()
			shot := wshub.ClientMessage{Type: "shoot", X: int(b.X) + int(b.W)/2, Y: int(b.Y) + int(b.H)/2}
			if err := wsjson.Write(ctx, conn, shot); err != nil {
				t.Fatal(err)
			}
		}
		time.Sleep(20 * time.Millisecond)
		if room.Tally.Tally().HostileHits > 0 {
			break
		}
	}

	if room.Game.Snapshot().Score == 0 {
		t.Error("shooting a hostile target should raise the score")
	}
	if tally := room.Tally.Tally(); tally.Triggers == 0 {
		t.Error("shots should register triggers")
	}
}

// The countdown ticks once a second, so a subscriber sees an event soon.
func TestHandleEvents_Streams(t *testing.T) {
	_, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/room/"+code+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	buf := make([]byte, 4096)
	var got strings.Builder
	for !strings.Contains(got.String(), "event: ") {
		n, err := resp.Body.Read(buf)
		got.Write(buf[:n])
		if err != nil {
			t.Fatalf("stream ended before an event: %v", err)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)
	createRoom(t, ts.URL)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Status   string `json:"status"`
		Cabinets int    `json:"cabinets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Cabinets != 1 {
		t.Errorf("health = %+v, want ok with 1 cabinet", body)
	}
}

func TestHandleMetrics(t *testing.T) {
	_, ts := newTestServer(t)
	createRoom(t, ts.URL)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "clapshot_cabinets 1") {
		t.Errorf("metrics output missing cabinet gauge:\n%s", body)
	}
}

func TestRoomIsolation_TwoRooms(t *testing.T) {
	srv, ts := newTestServer(t)
	code1 := createRoom(t, ts.URL)
	code2 := createRoom(t, ts.URL)

	if code1 == code2 {
		t.Fatal("two rooms should have different codes")
	}

	room1 := srv.Rooms.Get(code1)
	room2 := srv.Rooms.Get(code2)
	if room1.Game == room2.Game || room1.Hub == room2.Hub {
		t.Error("rooms should not share a game or hub")
	}
}

type fakeJournal struct {
	mu      sync.Mutex
	batches [][]db.EventRecord
}

func (f *fakeJournal) BatchRecordEvents(records []db.EventRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]db.EventRecord(nil), records...))
	return nil
}

func TestJournalBatchWriter_FlushesOnClose(t *testing.T) {
	j := &fakeJournal{}
	buffer := make(chan db.EventRecord, 10)
	done := make(chan struct{})
	go func() {
		journalBatchWriter(j, buffer)
		close(done)
	}()

	buffer <- db.EventRecord{SessionID: "a"}
	buffer <- db.EventRecord{SessionID: "b"}
	close(buffer)
	<-done

	total := 0
	for _, b := range j.batches {
		total += len(b)
	}
	if total != 2 {
		t.Errorf("journaled %d records, want 2", total)
	}
}

func TestHandleHome_LinksHostedRoom(t *testing.T) {
	_, ts := newTestServer(t)
	code := createRoom(t, ts.URL)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.AddCookie(&http.Cookie{Name: "room_code", Value: code})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "your cabinet "+code) {
		t.Errorf("home page should link the hosted cabinet %s", code)
	}
}

func TestHandleWS_ClosedRoomDisconnects(t *testing.T) {
	srv, ts := newTestServer(t)
	code := createRoom(t, ts.URL)
	room := srv.Rooms.Get(code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/room/" + code + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.CloseNow()

	for room.Hub.Len() == 0 && ctx.Err() == nil {
		time.Sleep(5 * time.Millisecond)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/room/"+code, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	for {
		var msg wshub.ServerMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			t.Fatal("connection stayed open after the cabinet closed")
		}
		if status := websocket.CloseStatus(err); status != websocket.StatusGoingAway {
			t.Errorf("close status = %v, want %v", status, websocket.StatusGoingAway)
		}
		break
	}

	if n := room.Hub.Len(); n != 0 {
		t.Errorf("hub players after close = %d, want 0", n)
	}
	if n := len(room.Touches.Touches()); n != 0 {
		t.Errorf("queued touches after close = %d, want 0", n)
	}
}
