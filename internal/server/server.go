// Package server is the local control surface of the companion. The
// hosted agent drives the machine through it: command execution,
// screen capture, session storage, and control status all live behind
// a loopback-facing HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hevolve/companion/internal/config"
	"github.com/hevolve/companion/internal/logging"
	"github.com/hevolve/companion/internal/store"
)

// CaptureFunc grabs the primary display. The Windows build wires the
// GDI capture; tests substitute a fixed image.
type CaptureFunc func() (image.Image, error)

// Options collects the server's collaborators.
type Options struct {
	Config   config.Config
	Log      *logging.Logger
	Store    *store.Store
	DeviceID string
	Notifier Notifier
	Runner   CommandRunner
	Capture  CaptureFunc
	OpenUI   func(url string) error
	LogPath  string
}

// Server is the companion's control server.
type Server struct {
	cfg      config.Config
	log      *logging.Logger
	store    *store.Store
	deviceID string
	tracker  *ControlTracker
	runner   CommandRunner
	stop     *StopClient
	capture  CaptureFunc
	openUI   func(url string) error
	logPath  string
	execMu   sync.Mutex

	httpSrv *http.Server
}

// New assembles a Server from opts. Runner defaults to OSRunner.
func New(opts Options) *Server {
	runner := opts.Runner
	if runner == nil {
		runner = OSRunner{}
	}
	s := &Server{
		cfg:      opts.Config,
		log:      opts.Log,
		store:    opts.Store,
		deviceID: opts.DeviceID,
		tracker:  NewControlTracker(opts.Notifier),
		runner:   runner,
		stop:     NewStopClient(opts.Config.StopAPIURL, opts.Log),
		capture:  opts.Capture,
		openUI:   opts.OpenUI,
		logPath:  opts.LogPath,
	}
	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", opts.Config.Port),
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the route table. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /probe", s.handleProbe)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /execute", s.handleExecute)
	mux.HandleFunc("GET /screenshot", s.handleScreenshot)
	mux.HandleFunc("GET /llm_control_status", s.handleControlStatus)
	mux.HandleFunc("GET /indicator/show", s.handleIndicatorShow)
	mux.HandleFunc("GET /indicator/hide", s.handleIndicatorHide)
	mux.HandleFunc("GET /indicator/status", s.handleIndicatorStatus)
	mux.HandleFunc("GET /indicator/stop", s.handleIndicatorStop)
	mux.HandleFunc("POST /api/storage/set", s.handleStorageSet)
	mux.HandleFunc("GET /api/storage/get/{key}", s.handleStorageGet)
	mux.HandleFunc("GET /show_window", s.handleShowWindow)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Control server listening on %s", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Probe successful",
		"message": "Service is operational",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "operational",
		"device_id": s.deviceID,
		"log_file":  s.logPath,
	})
}

type executeRequest struct {
	Command    json.RawMessage `json:"command"`
	Shell      bool            `json:"shell"`
	HideWindow *bool           `json:"hide_window"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": "invalid JSON body",
		})
		return
	}

	command, err := decodeCommand(req.Command, req.Shell)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": err.Error(),
		})
		return
	}

	// Commands run one at a time; concurrent requests queue here.
	s.execMu.Lock()
	defer s.execMu.Unlock()

	// Every command marks the control session active, before and after
	// execution, so long-running commands keep the session alive.
	// Windows are hidden unless the request opts out.
	hide := true
	if req.HideWindow != nil {
		hide = *req.HideWindow
	}

	s.tracker.Touch()
	s.log.Info("Executing command: %v", command)

	result, err := s.runner.Run(r.Context(), command, req.Shell, hide)
	s.tracker.Touch()

	if err != nil {
		s.log.Error("Command execution error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": err.Error(),
		})
		return
	}

	s.log.Info("Command executed with return code: %d", result.ReturnCode)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"output":     result.Stdout,
		"error":      result.Stderr,
		"returncode": result.ReturnCode,
	})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	if s.capture == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": "screen capture not available",
		})
		return
	}
	img, err := s.capture()
	if err != nil {
		s.log.Error("Screenshot error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": "Failed to capture screenshot: " + err.Error(),
		})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.log.Error("Screenshot encode error: %v", err)
	}
}

func (s *Server) handleControlStatus(w http.ResponseWriter, r *http.Request) {
	active, last := s.tracker.Status()
	var lastUnix float64
	if !last.IsZero() {
		lastUnix = float64(last.UnixMilli()) / 1000
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":           active,
		"last_activity":    lastUnix,
		"indicator_status": indicatorStatus(active),
	})
}

func (s *Server) handleIndicatorShow(w http.ResponseWriter, r *http.Request) {
	s.tracker.Touch()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "showing"})
}

func (s *Server) handleIndicatorHide(w http.ResponseWriter, r *http.Request) {
	s.tracker.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "hidden"})
}

func (s *Server) handleIndicatorStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  indicatorStatus(s.tracker.Active()),
	})
}

// handleIndicatorStop ends the control session locally and tells the
// backend to stop driving. The session ends even when the backend call
// fails; the response carries the failure.
func (s *Server) handleIndicatorStop(w http.ResponseWriter, r *http.Request) {
	s.log.Info("Stop control request received")
	s.tracker.Stop()

	userData, err := s.store.UserData()
	if err != nil {
		s.log.Warn("Reading user data for stop payload: %v", err)
		userData = map[string]string{}
	}

	if err := s.stop.Stop(r.Context(), userData); err != nil {
		s.log.Error("Stop request failed: %v", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"status":  "control stopped but stop request failed",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "Stopped",
		"message": "Stop request sent successfully",
	})
}

func (s *Server) handleStorageSet(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "error": "invalid JSON body",
		})
		return
	}

	fields := map[string]string{}
	for key, value := range data {
		if !store.IsUserDataKey(key) {
			continue
		}
		fields[key] = fmt.Sprintf("%v", value)
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       false,
			"companion_app": true,
			"error":         "No valid keys provided. Expected one of: " + strings.Join(store.UserDataKeys, ", "),
		})
		return
	}

	if err := s.store.SetUserData(fields); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	s.log.Info("Replaced user data with keys: %v", keysOf(fields))

	url := store.AgentURL(s.cfg.AgentURL, fields)
	urlUpdated := url != s.cfg.AgentURL
	if urlUpdated && s.openUI != nil {
		if err := s.openUI(url); err != nil {
			s.log.Warn("Opening agent UI: %v", err)
			urlUpdated = false
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":                   true,
		"url_updated":               urlUpdated,
		"keys_present":              keysOf(fields),
		"all_required_keys_present": store.AllRequiredKeysPresent(fields),
	})
}

func (s *Server) handleStorageGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	userData, err := s.store.UserData()
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if len(userData) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "User data not found"})
		return
	}
	value, ok := userData[key]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Key not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": value})
}

func (s *Server) handleShowWindow(w http.ResponseWriter, r *http.Request) {
	if s.openUI == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "UI not available"})
		return
	}
	userData, err := s.store.UserData()
	if err != nil {
		userData = map[string]string{}
	}
	if err := s.openUI(store.AgentURL(s.cfg.AgentURL, userData)); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// decodeCommand accepts either a JSON array of arguments or a single
// string, which is split honoring double quotes unless shell mode is
// requested.
func decodeCommand(raw json.RawMessage, shell bool) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing command")
	}
	var args []string
	if err := json.Unmarshal(raw, &args); err == nil {
		if len(args) == 0 {
			return nil, errors.New("empty command")
		}
		return args, nil
	}
	var line string
	if err := json.Unmarshal(raw, &line); err != nil {
		return nil, errors.New("command must be a string or array of strings")
	}
	if line == "" {
		return nil, errors.New("empty command")
	}
	if shell {
		return []string{line}, nil
	}
	return splitCommand(line), nil
}

// splitCommand splits a command line on spaces, keeping double-quoted
// segments intact.
func splitCommand(line string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}

func indicatorStatus(active bool) string {
	if active {
		return "visible"
	}
	return "hidden"
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
