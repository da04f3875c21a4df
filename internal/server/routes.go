package server

import (
	"clapshot/internal/config"
	"clapshot/internal/db"
	"clapshot/internal/metrics"
	"clapshot/internal/rooms"
	"embed"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func Run() error {
	appCfg := config.Load()

	manifest, err := appCfg.Assets()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	roomCfg := rooms.Config{
		Game:    appCfg.Game(),
		Frame:   appCfg.Frame(),
		Seed:    appCfg.Seed,
		Assets:  manifest,
		Metrics: m,
	}

	srv := &Server{
		Tmpl:    parseTemplates(),
		Metrics: m,
	}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			journal := make(chan db.EventRecord, 1000)
			roomCfg.Journal = journal
			roomCfg.Sessions = database
			go journalBatchWriter(database, journal)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	srv.Rooms = rooms.NewStore(roomCfg)

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.routes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /rooms/create", s.handleCreateRoom)
	mux.HandleFunc("GET /play/{code}", s.handlePlay)
	mux.HandleFunc("GET /room/{code}", s.handleRoomState)
	mux.HandleFunc("DELETE /room/{code}", s.handleCloseRoom)
	mux.HandleFunc("GET /room/{code}/ws", s.handleWS)
	mux.HandleFunc("GET /room/{code}/events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

type eventWriter interface {
	BatchRecordEvents(records []db.EventRecord) error
}

func journalBatchWriter(database eventWriter, buffer chan db.EventRecord) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.EventRecord, 0, 50)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordEvents(batch); err != nil {
			log.Printf("[Journal] BatchRecordEvents error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev, ok := <-buffer:
			if !ok {
				flush()
				return
			}
			batch = append(batch, ev)
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
