package server

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"path"
	"sync"

	"github.com/gorilla/mux"
	"github.com/masnyjimmy/campaign-validator/src/runner"
	"github.com/rs/cors"
)

//go:embed report.html
var reportPage []byte

type Options struct {
	BaseUrl        string
	AllowedOrigins []string
}

func DefaultOptions() Options {
	return Options{
		BaseUrl:        "/",
		AllowedOrigins: []string{"*"},
	}
}

type urls struct {
	UI     string
	Report string
	Events string
}

func makeUrls(base string) urls {
	return urls{
		UI:     path.Clean("/" + base),
		Report: path.Join("/", base, "report.json"),
		Events: path.Join("/", base, "events"),
	}
}

// Server exposes the latest run report and pushes an event after every run.
type Server struct {
	options     Options
	broadcaster *broadcaster
	urls        urls

	mu     sync.RWMutex
	report []byte
}

func New(opt Options) *Server {
	return &Server{
		options:     opt,
		broadcaster: newBroadcaster(),
		urls:        makeUrls(opt.BaseUrl),
		report:      []byte("null"),
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc(s.urls.UI, s.serveUI).Methods(http.MethodGet)
	router.HandleFunc(s.urls.Report, s.serveReport).Methods(http.MethodGet)
	router.Handle(s.urls.Events, s.broadcaster).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: s.options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)
}

func (s *Server) serveUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(reportPage)
}

func (s *Server) serveReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write(report)
}

// SetReport replaces the served report and pushes it to subscribers as a
// "report" event.
func (s *Server) SetReport(report *runner.Report) error {
	bytes, err := json.Marshal(report)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.report = bytes
	s.mu.Unlock()

	// json.Marshal output is a single line, safe as one SSE data field
	s.broadcaster.publish(event{name: "report", data: bytes})
	return nil
}
