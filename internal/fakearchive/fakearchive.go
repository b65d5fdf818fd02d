// Package fakearchive serves an in-memory imitation of the media backup
// archive API. Tests run it behind httptest; cmd/snapback-fake serves it
// for local demos.
package fakearchive

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Item is one archived file.
type Item struct {
	Filepath     string `json:"filepath"`
	ID           int64  `json:"id"`
	MediaType    string `json:"media_type"`
	MetadataDate string `json:"metadata_date"`
}

// Bucket is a month/year group and its items.
type Bucket struct {
	Month string
	Year  string
	Items []Item
}

// Options seed the fake archive.
type Options struct {
	// Users maps username to password.
	Users map[string]string
	// Buckets are listed in this order.
	Buckets []Bucket
	// RawToken answers logins with a plain text body instead of {"token": ...}.
	RawToken bool
	// Files maps a path below /files/ (e.g. "2024/a.jpg") to its contents.
	Files map[string][]byte
	// BeforeMedia, when set, runs before a media listing is answered. Tests
	// use it to hold responses back.
	BeforeMedia func(month, year string)
}

// Server implements http.Handler.
type Server struct {
	opts   Options
	router *mux.Router

	mu     sync.Mutex
	tokens map[string]string
	hits   map[string]int
}

// New builds a Server from opts.
func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		tokens: make(map[string]string),
		hits:   make(map[string]int),
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/backups/metadata", s.authorized(s.handleMetadata)).Methods(http.MethodGet)
	r.HandleFunc("/api/backups", s.authorized(s.handleMedia)).Methods(http.MethodGet)
	r.PathPrefix("/files/").HandlerFunc(s.handleFile).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || json.Unmarshal(body, &creds) != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	want, ok := s.opts.Users[creds.Username]
	if !ok || want != creds.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = creds.Username
	s.mu.Unlock()

	if s.opts.RawToken {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, token+"\n")
		return
	}
	writeJSON(w, map[string]string{"token": token})
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, known := s.tokens[token]
		s.mu.Unlock()
		if !ok || !known {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	type monthYear struct {
		Month string `json:"month"`
		Year  string `json:"year"`
	}
	data := make([]monthYear, 0, len(s.opts.Buckets))
	for _, b := range s.opts.Buckets {
		data = append(data, monthYear{Month: b.Month, Year: b.Year})
	}
	writeJSON(w, map[string]any{"data": data})
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	year := r.URL.Query().Get("year")
	if s.opts.BeforeMedia != nil {
		s.opts.BeforeMedia(month, year)
	}
	media := []Item{}
	for _, b := range s.opts.Buckets {
		if b.Month == month && b.Year == year {
			media = append(media, b.Items...)
		}
	}
	writeJSON(w, map[string]any{"media": media})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	data, ok := s.opts.Files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
