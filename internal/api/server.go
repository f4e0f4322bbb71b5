package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/probtrack/internal/domain"
	"github.com/pbaille/probtrack/internal/query"
	"github.com/pbaille/probtrack/internal/rating"
	"github.com/pbaille/probtrack/internal/store"
)

// Server handles HTTP requests for the problem tracker API
type Server struct {
	store  *store.Store
	addr   string
	logger *slog.Logger
}

// New creates a new API server
func New(s *store.Store, addr string) *Server {
	return &Server{
		store:  s,
		addr:   addr,
		logger: slog.Default(),
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Problems
	mux.HandleFunc("GET /problems", s.listProblems)
	mux.HandleFunc("POST /problems", s.addProblem)
	mux.HandleFunc("POST /problems/status", s.updateStatus)

	// Tags
	mux.HandleFunc("GET /tags", s.listTags)

	// Rating conversion
	mux.HandleFunc("GET /convert", s.convert)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return s.withLogging(withCORS(mux))
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.logger.Info("starting server", "addr", s.addr, "store", s.store.Path())
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request
func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddProblemRequest is the request body for adding a problem
type AddProblemRequest struct {
	Name     string   `json:"name"`
	Platform string   `json:"platform"`
	Link     string   `json:"link"`
	Value    int      `json:"value"`
	Scale    string   `json:"scale,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (s *Server) addProblem(w http.ResponseWriter, r *http.Request) {
	var req AddProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scale := domain.Scale(req.Scale)
	if req.Scale == "" {
		scale = domain.ScaleDMOJ
	}
	if !scale.Valid() {
		writeError(w, http.StatusBadRequest, "scale must be dmoj or cf")
		return
	}

	problem, err := s.store.Add(store.AddRequest{
		Name:     req.Name,
		Platform: req.Platform,
		Link:     req.Link,
		Value:    req.Value,
		Scale:    scale,
		Tags:     req.Tags,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, problem)
}

// UpdateStatusRequest is the request body for changing a problem's status
type UpdateStatusRequest struct {
	Link   string `json:"link"`
	Status string `json:"status"`
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := domain.Status(req.Status)
	if !st.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	found, err := s.store.UpdateStatus(req.Link, st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "problem not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"link":   req.Link,
		"status": req.Status,
	})
}

func (s *Server) listProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := r.URL.Query()

	criteria := query.Criteria{
		Platform: q.Get("platform"),
		Scale:    domain.ScaleDMOJ,
	}

	if st := q.Get("status"); st != "" && st != "all" {
		status := domain.Status(st)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status: "+st)
			return
		}
		criteria.Status = status
	}

	if sc := q.Get("scale"); sc != "" {
		scale := domain.Scale(sc)
		if !scale.Valid() {
			writeError(w, http.StatusBadRequest, "scale must be dmoj or cf")
			return
		}
		criteria.Scale = scale
	}

	if criteria.MinRating, err = query.ParseBound(q.Get("min")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if criteria.MaxRating, err = query.ParseBound(q.Get("max")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				criteria.Tags = append(criteria.Tags, t)
			}
		}
	}

	filtered := query.Apply(problems, criteria)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"problems": filtered,
		"count":    len(filtered),
		"scale":    string(criteria.Scale),
	})
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.AllTags()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	value, err := strconv.Atoi(q.Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "query parameter 'value' must be a number")
		return
	}

	from := domain.Scale(q.Get("from"))
	if q.Get("from") == "" {
		from = domain.ScaleDMOJ
	}
	if !from.Valid() {
		writeError(w, http.StatusBadRequest, "from must be dmoj or cf")
		return
	}

	var difficulty, cf int
	if from == domain.ScaleCF {
		cf = value
		difficulty = rating.RatingToDifficulty(cf)
	} else {
		difficulty = value
		cf = rating.DifficultyToRating(difficulty)
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"difficulty": difficulty,
		"cf_rating":  cf,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
