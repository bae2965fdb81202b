package visualizationserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sandeepkv93/mergesort-visualizer/mergesortengine"
	"github.com/sandeepkv93/mergesort-visualizer/reportexporter"
	"github.com/sandeepkv93/mergesort-visualizer/runhistorystore"
	"github.com/sandeepkv93/mergesort-visualizer/sampledatagenerator"
)

// ServerConfig contains configuration for the visualization server.
type ServerConfig struct {
	Address          string
	MaxInputSize     int
	EnableHistory    bool
	HistoryPath      string
	MaxStoredRuns    int
	MinPlayDelay     time.Duration
	MaxPlayDelay     time.Duration
	DefaultPlayDelay time.Duration
	EnableLogging    bool
}

// DefaultServerConfig returns the default server configuration. The
// playback delay bounds mirror the 0.1s..3.0s speed range of the UI.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:          ":8080",
		MaxInputSize:     1000,
		EnableHistory:    true,
		HistoryPath:      "mergesort_runs.db",
		MaxStoredRuns:    100,
		MinPlayDelay:     100 * time.Millisecond,
		MaxPlayDelay:     3 * time.Second,
		DefaultPlayDelay: time.Second,
		EnableLogging:    true,
	}
}

// VisualizationServer serves the merge sort visualizer: the embedded
// UI page, the JSON API around the sort engine, the run history, and a
// WebSocket endpoint that streams recorded steps for timed auto-play.
type VisualizationServer struct {
	config      ServerConfig
	engine      *mergesortengine.Engine
	generator   *sampledatagenerator.Generator
	store       *runhistorystore.Store
	mux         *http.ServeMux
	httpServer  *http.Server
	upgrader    websocket.Upgrader
	connections map[*playbackConn]struct{}
	connMutex   sync.Mutex
	running     bool
	mutex       sync.Mutex
	wg          sync.WaitGroup
}

// NewVisualizationServer creates the server and its collaborators. The
// history store is only opened when EnableHistory is set.
func NewVisualizationServer(config ServerConfig) (*VisualizationServer, error) {
	defaults := DefaultServerConfig()
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.MaxInputSize <= 0 {
		config.MaxInputSize = defaults.MaxInputSize
	}
	if config.MinPlayDelay <= 0 {
		config.MinPlayDelay = defaults.MinPlayDelay
	}
	if config.MaxPlayDelay <= 0 {
		config.MaxPlayDelay = defaults.MaxPlayDelay
	}
	if config.DefaultPlayDelay <= 0 {
		config.DefaultPlayDelay = defaults.DefaultPlayDelay
	}
	if config.MinPlayDelay > config.MaxPlayDelay {
		return nil, fmt.Errorf("min play delay %v exceeds max %v", config.MinPlayDelay, config.MaxPlayDelay)
	}

	generatorConfig := sampledatagenerator.DefaultGeneratorConfig()
	generatorConfig.MaxSize = config.MaxInputSize
	generator, err := sampledatagenerator.NewGenerator(generatorConfig)
	if err != nil {
		return nil, fmt.Errorf("creating sample generator: %w", err)
	}

	server := &VisualizationServer{
		config:    config,
		engine:    mergesortengine.NewEngine(mergesortengine.EngineConfig{MaxInputLength: config.MaxInputSize}),
		generator: generator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		connections: make(map[*playbackConn]struct{}),
	}

	if config.EnableHistory {
		storeConfig := runhistorystore.StoreConfig{
			Path:    config.HistoryPath,
			MaxRuns: config.MaxStoredRuns,
		}
		if storeConfig.Path == "" {
			storeConfig.Path = defaults.HistoryPath
		}
		store, err := runhistorystore.OpenStore(storeConfig)
		if err != nil {
			return nil, fmt.Errorf("opening run history: %w", err)
		}
		server.store = store
	}

	server.setupHTTPHandlers()
	return server, nil
}

// Start starts the HTTP server.
func (vs *VisualizationServer) Start() error {
	vs.mutex.Lock()
	defer vs.mutex.Unlock()

	if vs.running {
		return errors.New("server is already running")
	}
	vs.running = true

	vs.httpServer = &http.Server{
		Addr:    vs.config.Address,
		Handler: vs.mux,
	}

	go func() {
		if err := vs.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	if vs.config.EnableLogging {
		log.Printf("Merge sort visualizer listening on %s", vs.config.Address)
	}
	return nil
}

// Stop shuts the server down, closing open playback connections and
// the history store.
func (vs *VisualizationServer) Stop() error {
	vs.mutex.Lock()
	defer vs.mutex.Unlock()

	if !vs.running {
		return errors.New("server is not running")
	}
	vs.running = false

	vs.connMutex.Lock()
	for pc := range vs.connections {
		pc.stopPlayback()
		pc.conn.Close()
	}
	vs.connMutex.Unlock()

	if vs.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		vs.httpServer.Shutdown(ctx)
	}

	vs.wg.Wait()

	if vs.store != nil {
		if err := vs.store.Close(); err != nil {
			return fmt.Errorf("closing run history: %w", err)
		}
	}

	if vs.config.EnableLogging {
		log.Printf("Merge sort visualizer stopped")
	}
	return nil
}

// Handler exposes the route table, mainly for tests.
func (vs *VisualizationServer) Handler() http.Handler {
	return vs.mux
}

func (vs *VisualizationServer) setupHTTPHandlers() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/sort", vs.handleSort)
	mux.HandleFunc("/api/sample", vs.handleSample)
	mux.HandleFunc("/api/examples", vs.handleExamples)
	mux.HandleFunc("/api/complexity", vs.handleComplexity)
	mux.HandleFunc("/api/runs", vs.handleRuns)
	mux.HandleFunc("/api/runs/report", vs.handleRunReport)

	mux.HandleFunc("/ws", vs.handleWebSocket)

	mux.HandleFunc("/", vs.handleIndex)

	vs.mux = mux
}

type sortRequest struct {
	Values []float64 `json:"values"`
	Labels []string  `json:"labels,omitempty"`
	// Raw is the manual-entry alternative to Values: a comma-separated
	// list of integers as typed into the UI.
	Raw string `json:"raw,omitempty"`
}

type sortResponse struct {
	ID     string                     `json:"id,omitempty"`
	Result *mergesortengine.RunResult `json:"result"`
}

func (vs *VisualizationServer) handleSort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Raw != "" {
		if len(req.Values) > 0 {
			http.Error(w, "Provide either values or raw input, not both", http.StatusBadRequest)
			return
		}
		parsed, err := sampledatagenerator.ParseManualInput(req.Raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Values = make([]float64, len(parsed))
		for i, v := range parsed {
			req.Values[i] = float64(v)
		}
	}
	if len(req.Labels) > 0 && len(req.Labels) != len(req.Values) {
		http.Error(w, "Labels must match values in length", http.StatusBadRequest)
		return
	}

	result, err := vs.engine.Sort(buildElements(req.Values, req.Labels))
	if err != nil {
		if errors.Is(err, mergesortengine.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	resp := sortResponse{Result: result}
	if vs.store != nil {
		id, err := vs.store.SaveRun(result)
		if err != nil {
			// History is best effort; the sort itself succeeded.
			log.Printf("Failed to record run: %v", err)
		} else {
			resp.ID = id
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (vs *VisualizationServer) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dataType, err := sampledatagenerator.ParseDataType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	size := 10
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid size", http.StatusBadRequest)
			return
		}
	}

	values, err := vs.generator.Generate(dataType, size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"type":   dataType.String(),
		"size":   size,
		"values": values,
	})
}

type exampleEntry struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

func (vs *VisualizationServer) handleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cases := sampledatagenerator.ExampleCases()
	entries := make([]exampleEntry, 0, len(cases))
	for _, name := range sampledatagenerator.ExampleNames() {
		entries = append(entries, exampleEntry{Name: name, Values: cases[name]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (vs *VisualizationServer) handleComplexity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"info":             mergesortengine.Complexity(),
		"comparison_table": reportexporter.ComparisonTable(),
		"series":           reportexporter.ComplexitySeries(),
	})
}

func (vs *VisualizationServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if vs.store == nil {
		http.Error(w, "Run history is disabled", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			vs.handleListRuns(w, r)
			return
		}
		run, err := vs.store.GetRun(id)
		if err != nil {
			if errors.Is(err, runhistorystore.ErrRunNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(run)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Run ID required", http.StatusBadRequest)
			return
		}
		if err := vs.store.DeleteRun(id); err != nil {
			if errors.Is(err, runhistorystore.ErrRunNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (vs *VisualizationServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := vs.store.ListRuns()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

func (vs *VisualizationServer) handleRunReport(w http.ResponseWriter, r *http.Request) {
	if vs.store == nil {
		http.Error(w, "Run history is disabled", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Run ID required", http.StatusBadRequest)
		return
	}

	run, err := vs.store.GetRun(id)
	if err != nil {
		if errors.Is(err, runhistorystore.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mergesort_run_"+run.ID+".txt"))
		fmt.Fprint(w, reportexporter.TextReport(run.Result))
	case "json":
		data, err := reportexporter.JSONReport(run.Result)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mergesort_run_"+run.ID+".json"))
		w.Write(data)
	default:
		http.Error(w, "Unknown report format", http.StatusBadRequest)
	}
}

func (vs *VisualizationServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// Playback over WebSocket

type playbackCommand struct {
	Action  string    `json:"action"`
	Values  []float64 `json:"values,omitempty"`
	DelayMS int       `json:"delay_ms,omitempty"`
}

type playbackFrame struct {
	Type   string                      `json:"type"`
	Index  int                         `json:"index,omitempty"`
	Total  int                         `json:"total,omitempty"`
	Step   *mergesortengine.StepRecord `json:"step,omitempty"`
	Result *mergesortengine.RunResult  `json:"result,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

// playbackConn wraps a websocket connection with a write lock (the
// playback goroutine and the command loop both write) and the stop
// channel of the active playback, if any.
type playbackConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	stopMu  sync.Mutex
	stop    chan struct{}
}

func (pc *playbackConn) writeJSON(frame playbackFrame) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	return pc.conn.WriteJSON(frame)
}

func (pc *playbackConn) setStop(stop chan struct{}) {
	pc.stopMu.Lock()
	defer pc.stopMu.Unlock()
	pc.stop = stop
}

func (pc *playbackConn) stopPlayback() {
	pc.stopMu.Lock()
	defer pc.stopMu.Unlock()
	if pc.stop != nil {
		close(pc.stop)
		pc.stop = nil
	}
}

func (vs *VisualizationServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := vs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	pc := &playbackConn{conn: conn}
	vs.connMutex.Lock()
	vs.connections[pc] = struct{}{}
	vs.connMutex.Unlock()

	go vs.handlePlaybackConnection(pc)
}

func (vs *VisualizationServer) handlePlaybackConnection(pc *playbackConn) {
	defer func() {
		pc.stopPlayback()
		pc.conn.Close()
		vs.connMutex.Lock()
		delete(vs.connections, pc)
		vs.connMutex.Unlock()
	}()

	for {
		var cmd playbackCommand
		if err := pc.conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "start":
			vs.startPlayback(pc, cmd)
		case "stop":
			pc.stopPlayback()
			pc.writeJSON(playbackFrame{Type: "stopped"})
		default:
			pc.writeJSON(playbackFrame{Type: "error", Error: fmt.Sprintf("unknown action %q", cmd.Action)})
		}
	}
}

// startPlayback sorts eagerly and then streams the recorded steps one
// per delay tick. The computation itself is never incremental; playback
// is a replay of the finished log.
func (vs *VisualizationServer) startPlayback(pc *playbackConn, cmd playbackCommand) {
	pc.stopPlayback()

	result, err := vs.engine.Sort(buildElements(cmd.Values, nil))
	if err != nil {
		pc.writeJSON(playbackFrame{Type: "error", Error: err.Error()})
		return
	}

	delay := vs.clampDelay(time.Duration(cmd.DelayMS) * time.Millisecond)
	stop := make(chan struct{})
	pc.setStop(stop)

	vs.wg.Add(1)
	go func() {
		defer vs.wg.Done()
		total := len(result.Steps)
		for i := range result.Steps {
			select {
			case <-stop:
				return
			case <-time.After(delay):
			}
			frame := playbackFrame{Type: "step", Index: i, Total: total, Step: &result.Steps[i]}
			if err := pc.writeJSON(frame); err != nil {
				return
			}
		}
		pc.writeJSON(playbackFrame{Type: "done", Result: result})
	}()
}

func (vs *VisualizationServer) clampDelay(delay time.Duration) time.Duration {
	if delay <= 0 {
		return vs.config.DefaultPlayDelay
	}
	if delay < vs.config.MinPlayDelay {
		return vs.config.MinPlayDelay
	}
	if delay > vs.config.MaxPlayDelay {
		return vs.config.MaxPlayDelay
	}
	return delay
}

func buildElements(values []float64, labels []string) []mergesortengine.Element {
	elements := make([]mergesortengine.Element, len(values))
	for i, v := range values {
		elements[i] = mergesortengine.Element{Value: v}
		if i < len(labels) {
			elements[i].Label = labels[i]
		}
	}
	return elements
}
