package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/api"
	"kgeyst.com/iris/pkg/iris/domain"
)

const ConfigKeyAddress = "address"

//go:embed static
var staticFiles embed.FS

// Server exposes a single chat session to a browser: the page itself, a JSON API and a WebSocket which pushes
// state changes.
type Server struct {
	api          api.API
	player       *Player
	gatherer     prometheus.Gatherer
	logger       common.Logger
	upgrader     websocket.Upgrader
	maxImageSize int64
	now          func() time.Time
}

func NewServer(
	chat api.API,
	player *Player,
	gatherer prometheus.Gatherer,
	config *common.Config,
	logger common.Logger,
) *Server {
	return &Server{
		api:          chat,
		player:       player,
		gatherer:     gatherer,
		logger:       logger,
		maxImageSize: int64(config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, domain.DefaultMaxImageSize)),
		now:          time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // the directory is embedded at compile time
	}
	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/turn", s.handleTurn)
	mux.HandleFunc("POST /api/image", s.handleAttachImage)
	mux.HandleFunc("DELETE /api/image", s.handleDetachImage)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("PUT /api/settings", s.handleSettings)
	mux.HandleFunc("POST /api/recording/start", s.handleStartRecording)
	mux.HandleFunc("POST /api/recording/stop", s.handleStopRecording)
	mux.HandleFunc("POST /api/playback/done", s.handlePlaybackDone)
	mux.HandleFunc("GET /api/audio/latest", s.handleLatestAudio)
	mux.HandleFunc("GET /api/transcript", s.handleTranscript)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves until `ctx` is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	s.logger.Log("web server started", "address", address)
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
