package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
)

// maxExtendPerRequest caps how many growth steps a single /extend call may run.
const maxExtendPerRequest = 10000

type InitRequest struct {
	Start *Position `json:"start,omitempty"`
	Goal  *Position `json:"goal,omitempty"`
}

type ExtendRequest struct {
	Iterations int `json:"iterations"`
}

type StatusResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	NodeCount  int     `json:"nodeCount"`
	Iteration  int     `json:"iteration"`
	BallRadius float64 `json:"ballRadius"`
}

type PathResponse struct {
	Path    []Position `json:"path"`
	Cost    float64    `json:"cost"`
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
}

// planningServer serialises every access to the session; the planner itself is not thread-safe
type planningServer struct {
	mu      sync.RWMutex
	session *Session
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *planningServer) status(message string) StatusResponse {
	p := s.session.Planner
	return StatusResponse{
		Success:    true,
		Message:    message,
		NodeCount:  p.NodeCount(),
		Iteration:  p.Iteration(),
		BallRadius: p.BallRadius(),
	}
}

// POST /init - Reset the tree to the root, optionally moving start and goal
func (s *planningServer) initHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("🔄 Init request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Reset(req.Start, req.Goal); err != nil {
		log.Printf("❌ Init failed: %v\n", err)
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: err.Error()})
		return
	}

	start, goal := s.session.Planner.Start(), s.session.Planner.Goal()
	log.Printf("   Start: (%.2f, %.2f)\n", start.X, start.Y)
	log.Printf("   Goal:  (%.2f, %.2f)\n", goal.X, goal.Y)
	writeJSON(w, http.StatusOK, s.status("session initialized"))
}

// POST /extend - Grow the tree by the requested number of accepted samples
func (s *planningServer) extendHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Iterations <= 0 {
		req.Iterations = 1
	}
	if req.Iterations > maxExtendPerRequest {
		req.Iterations = maxExtendPerRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < req.Iterations; i++ {
		if err := s.session.Planner.Extend(); err != nil {
			log.Printf("⚠️  Extend stopped after %d steps: %v\n", i, err)
			resp := s.status(err.Error())
			resp.Success = false
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, s.status(""))
}

// GET /path - Best path to the goal found so far
func (s *planningServer) pathHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// FindPath refreshes the ball radius, so it needs the write lock.
	s.mu.Lock()
	path := s.session.Planner.FindPath()
	s.mu.Unlock()

	response := PathResponse{
		Path:    path.Waypoints,
		Cost:    path.Cost,
		Success: path.Found(),
	}
	if !path.Found() {
		log.Println("❌ No path found yet")
		response.Message = "No tree node near the goal yet"
	} else {
		log.Printf("✅ Path found with %d waypoints, cost %.4f\n", len(path.Waypoints), path.Cost)
	}

	writeJSON(w, http.StatusOK, response)
}

// GET /tree - Tree edges as GeoJSON for visualization
func (s *planningServer) treeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	p := s.session.Planner
	fc := TreeGeoJSON(p.Edges(), WorkspaceBound(p.Width(), p.Height()))
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, fc)
}

// GET /health - Health check endpoint
func (s *planningServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := s.status("ready")
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *planningServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/init", corsMiddleware(s.initHandler))
	mux.HandleFunc("/extend", corsMiddleware(s.extendHandler))
	mux.HandleFunc("/path", corsMiddleware(s.pathHandler))
	mux.HandleFunc("/tree", corsMiddleware(s.treeHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return mux
}

// runBatch plans for the configured budget and writes the path and cost-distribution dumps
func runBatch(session *Session) error {
	path, err := session.Run()
	if err != nil {
		return err
	}

	out := session.Config.PathOutputFile
	if out == "" {
		return path.WriteText(os.Stdout)
	}
	if err := SavePath(path, out); err != nil {
		return err
	}

	if session.Costs == nil {
		return nil
	}
	f, err := os.Create(out + ".dist")
	if err != nil {
		return fmt.Errorf("failed to create distribution dump: %w", err)
	}
	defer f.Close()
	return session.Planner.DumpDistribution(f)
}

func main() {
	flags := flag.NewFlagSet("fmtstar-planner", flag.ExitOnError)
	configFile := flags.String("config", "planning.yaml", "Path to the YAML planning config.")
	addr := flags.String("addr", ":8080", "Listen address of the planning server.")
	batch := flags.Bool("run", false, "Plan once for max_iteration_num iterations, export the path and exit.")
	flags.Parse(os.Args[1:])

	log.Println("========================================")
	log.Println("🚀 FMT* Grid Motion Planner")
	log.Println("========================================")

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	session, err := NewSession(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("   Workspace: %dx%d\n", session.Planner.Width(), session.Planner.Height())
	log.Printf("   Segment length: %.2f\n", cfg.SegmentLength)

	if *batch {
		if err := runBatch(session); err != nil {
			log.Fatal(err)
		}
		return
	}

	server := &planningServer{session: session}

	log.Printf("Server starting on %s\n", *addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /init     - Reset the tree (optional start/goal override)")
	log.Println("  POST /extend   - Grow the tree by N accepted samples")
	log.Println("  GET  /path     - Best path to the goal so far")
	log.Println("  GET  /tree     - Tree edges as GeoJSON")
	log.Println("  GET  /health   - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")

	if err := http.ListenAndServe(*addr, server.routes()); err != nil {
		log.Fatal(err)
	}
}
