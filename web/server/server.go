package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/log"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// Server exposes a running render over HTTP: the current frame, progress and
// a control surface to retarget the render
type Server struct {
	scheduler *renderer.Scheduler
	scene     *scene.Scene
	console   *Console
	started   time.Time
	interval  time.Duration // Period between streamed frames
	logger    log.Logger
}

// NewServer creates a server for a scheduler rendering sceneObj.
// console may be nil when log capture is not wanted.
func NewServer(scheduler *renderer.Scheduler, sceneObj *scene.Scene, console *Console) *Server {
	return &Server{
		scheduler: scheduler,
		scene:     sceneObj,
		console:   console,
		started:   time.Now(),
		interval:  500 * time.Millisecond,
		logger:    log.New("server"),
	}
}

// SetStreamInterval sets the period between frames sent by /api/stream
func (s *Server) SetStreamInterval(interval time.Duration) {
	s.interval = interval
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/frame.png", s.handleFrame)
	mux.HandleFunc("/api/progress", s.handleProgress)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/pause", s.handlePause)
	mux.HandleFunc("/api/resume", s.handleResume)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/console", s.handleConsole)
	mux.HandleFunc("/api/stream", s.handleStream)
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Noticef("serving on http://localhost%s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Infof("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFrame encodes the current film as PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, s.scheduler.Film().Image()); err != nil {
		s.logger.Warningf("encoding frame: %v", err)
	}
}

// WorkerProgress is the JSON form of renderer.WorkerStats
type WorkerProgress struct {
	ID     int   `json:"id"`
	Tiles  int   `json:"tiles"`
	Passes int   `json:"passes"`
	Pixels int64 `json:"pixels"`
	BusyMs int64 `json:"busyMs"`
}

// ProgressResponse describes how far the current generation has rendered
type ProgressResponse struct {
	Scene           string           `json:"scene"`
	Generation      uint64           `json:"generation"`
	SamplesPerPixel int              `json:"samplesPerPixel"` // Reached by every tile
	TargetSamples   int              `json:"targetSamples"`
	FinishedTiles   int              `json:"finishedTiles"`
	TotalTiles      int              `json:"totalTiles"`
	Done            bool             `json:"done"`
	ElapsedMs       int64            `json:"elapsedMs"`
	Error           string           `json:"error,omitempty"` // Set once a worker failed
	Workers         []WorkerProgress `json:"workers"`
}

func (s *Server) progress() ProgressResponse {
	stats := s.scheduler.Stats()
	response := ProgressResponse{
		Scene:           s.scene.Name,
		Generation:      stats.Generation,
		SamplesPerPixel: stats.Progress,
		TargetSamples:   s.scheduler.Settings().SamplesPerPixel,
		FinishedTiles:   stats.FinishedTiles,
		TotalTiles:      stats.TotalTiles,
		Done:            stats.FinishedTiles == stats.TotalTiles,
		ElapsedMs:       time.Since(s.started).Milliseconds(),
	}
	if err := s.scheduler.Err(); err != nil {
		response.Error = err.Error()
	}
	for _, w := range stats.Workers {
		response.Workers = append(response.Workers, WorkerProgress{
			ID:     w.ID,
			Tiles:  w.Tiles,
			Passes: w.Passes,
			Pixels: w.Pixels,
			BusyMs: w.Busy.Milliseconds(),
		})
	}
	return response
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.progress())
}

// CameraRequest overrides parts of the current camera
type CameraRequest struct {
	Center        *[3]float64 `json:"center,omitempty"`
	LookAt        *[3]float64 `json:"lookAt,omitempty"`
	VFov          *float64    `json:"vfov,omitempty"`
	Aperture      *float64    `json:"aperture,omitempty"`
	FocusDistance *float64    `json:"focusDistance,omitempty"`
}

// SettingsRequest is the body of POST /api/settings. Absent fields keep
// their current value.
type SettingsRequest struct {
	SamplesPerPixel *int           `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int           `json:"maxDepth,omitempty"`
	Integrator      *string        `json:"integrator,omitempty"`
	Camera          *CameraRequest `json:"camera,omitempty"`
}

// SettingsResponse reports the generation a settings update installed
type SettingsResponse struct {
	Generation uint64 `json:"generation"`
}

// handleSettings retargets the running render
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var shader integrator.Integrator
	if req.Integrator != nil {
		var err error
		if shader, err = integrator.New(*req.Integrator, s.scene.Background); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	generation, err := s.scheduler.UpdateSettings(func(settings *renderer.RenderSettings) {
		if req.SamplesPerPixel != nil {
			settings.SamplesPerPixel = *req.SamplesPerPixel
		}
		if req.MaxDepth != nil {
			settings.MaxDepth = *req.MaxDepth
		}
		if shader != nil {
			settings.Integrator = shader
		}
		if req.Camera != nil {
			settings.Camera = s.retargetCamera(settings.Camera, req.Camera)
		}
	})
	switch {
	case errors.Is(err, renderer.ErrTerminated):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SettingsResponse{Generation: generation})
}

// retargetCamera applies req on top of the current camera configuration
func (s *Server) retargetCamera(current renderer.Camera, req *CameraRequest) renderer.Camera {
	config := s.scene.CameraConfig
	if perspective, ok := current.(*renderer.PerspectiveCamera); ok {
		config = perspective.Config()
	}

	if req.Center != nil {
		config.Center = core.NewVec3(req.Center[0], req.Center[1], req.Center[2])
	}
	if req.LookAt != nil {
		config.LookAt = core.NewVec3(req.LookAt[0], req.LookAt[1], req.LookAt[2])
	}
	if req.VFov != nil {
		config.VFov = *req.VFov
	}
	if req.Aperture != nil {
		config.Aperture = *req.Aperture
	}
	if req.FocusDistance != nil {
		config.FocusDistance = *req.FocusDistance
	}
	return renderer.NewCamera(config)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	s.scheduler.Pause()
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	s.scheduler.Resume()
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	messages := []ConsoleMessage{}
	if s.console != nil {
		messages = s.console.Messages()
	}
	writeJSON(w, http.StatusOK, messages)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
