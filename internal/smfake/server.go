// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package smfake is an in-memory stand-in for the Service Manager REST API.
// It serves the ScriptLibrary collection under /SM/9/rest and is used by the
// test suites and by `smctl serve` for trying the tool without a real server.
package smfake

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"smctl/internal/config"
	"smctl/internal/logger"

	"github.com/gorilla/mux"
)

// RestPrefix is where the API is mounted.
const RestPrefix = "/SM/9/rest"

const resource = "ScriptLibrary"

// Record is a stored ScriptLibrary.
type Record struct {
	Name    string `json:"Name"`
	Package string `json:"Package"`
	Script  string `json:"Script"`
}

// Request is one served request, recorded for assertions.
type Request struct {
	Method string
	Path   string
	Body   map[string]map[string]string
}

// Server holds the fake's state. The zero value is not usable; call New.
type Server struct {
	Username string
	Password string

	mu       sync.Mutex
	records  map[string]Record
	compile  map[string][]string
	execute  map[string][]string
	failures []int
	requests []Request
	router   *mux.Router
}

// New creates a server that accepts the given basic-auth credentials.
func New(username, password string) *Server {
	s := &Server{
		Username: username,
		Password: password,
		records:  map[string]Record{},
		compile:  map[string][]string{},
		execute:  map[string][]string{},
	}

	r := mux.NewRouter()
	r.Use(s.logRequests, s.failInjected, s.authenticate)
	collection := RestPrefix + "/{collection}"
	record := collection + "/{name}"
	r.HandleFunc(collection, s.handleList).Methods(http.MethodGet)
	r.HandleFunc(collection, s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc(record, s.handleGet).Methods(http.MethodGet)
	r.HandleFunc(record, s.handleUpdate).Methods(http.MethodPost)
	r.HandleFunc(record, s.handleCompile).Methods(http.MethodPut)
	r.HandleFunc(record+"/action/execute", s.handleExecute).Methods(http.MethodPost)
	s.router = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Environment describes this server as a configured environment reachable at baseURL.
func (s *Server) Environment(name, baseURL, path string) config.Environment {
	return config.Environment{
		Name:               name,
		URL:                strings.TrimRight(baseURL, "/") + RestPrefix,
		ResourceCollection: resource,
		ResourceName:       resource,
		Username:           s.Username,
		Password:           s.Password,
		Path:               path,
		DefaultPackage:     "User",
		Fields:             config.Fields{Name: "Name", Package: "Package", Script: "Script"},
	}
}

// Put stores or replaces a record.
func (s *Server) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Name] = rec
}

// Get returns a stored record.
func (s *Server) Get(name string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	return rec, ok
}

// SetCompileMessages sets what compiling name reports.
func (s *Server) SetCompileMessages(name string, msgs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compile[name] = msgs
}

// SetExecuteMessages sets what executing name reports.
func (s *Server) SetExecuteMessages(name string, msgs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execute[name] = msgs
}

// FailNext makes the next len(statuses) requests fail with those statuses.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Requests returns the requests served so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeMessages(w, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			req.Body = body
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		logger.Debug("smfake request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, withBody(r, req.Body))
	})
}

func (s *Server) failInjected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		if len(s.failures) > 0 {
			status, s.failures = s.failures[0], s.failures[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeMessages(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			writeMessages(w, http.StatusUnauthorized, "Not Authorized")
			return
		}
		if mux.Vars(r)["collection"] != resource {
			writeMessages(w, http.StatusNotFound, "Unknown collection")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	s.mu.Unlock()
	slices.Sort(names)

	content := make([]map[string]map[string]string, 0, len(names))
	for _, n := range names {
		content = append(content, map[string]map[string]string{resource: {"Name": n}})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"@count":     len(content),
		"content":    content,
		"Messages":   []string{},
		"ReturnCode": 0,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.Get(mux.Vars(r)["name"])
	if !ok {
		writeMessages(w, http.StatusNotFound, "No (more) records found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		resource:     rec,
		"Messages":   []string{},
		"ReturnCode": 0,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields := bodyOf(r)[resource]
	name := fields["Name"]
	if name == "" {
		writeMessages(w, http.StatusBadRequest, "Name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[name]; exists {
		writeMessages(w, http.StatusConflict, "Record already exists")
		return
	}
	s.records[name] = Record{Name: name, Package: fields["Package"], Script: fields["Script"]}
	writeMessages(w, http.StatusOK, "ScriptLibrary record added.")
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	fields := bodyOf(r)[resource]

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok {
		writeMessages(w, http.StatusNotFound, "No (more) records found")
		return
	}
	if script, ok := fields["Script"]; ok {
		rec.Script = script
	}
	s.records[name] = rec
	writeMessages(w, http.StatusOK, "ScriptLibrary record updated.")
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	s.respondAction(w, mux.Vars(r)["name"], s.compile)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	s.respondAction(w, mux.Vars(r)["name"], s.execute)
}

func (s *Server) respondAction(w http.ResponseWriter, name string, canned map[string][]string) {
	s.mu.Lock()
	_, ok := s.records[name]
	msgs := slices.Clone(canned[name])
	s.mu.Unlock()
	if !ok {
		writeMessages(w, http.StatusNotFound, "No (more) records found")
		return
	}
	writeMessages(w, http.StatusOK, msgs...)
}

func writeMessages(w http.ResponseWriter, status int, msgs ...string) {
	if msgs == nil {
		msgs = []string{}
	}
	code := 0
	if status >= 400 {
		code = -1
	}
	writeJSON(w, status, map[string]any{"Messages": msgs, "ReturnCode": code})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("smfake: encoding response", "error", err)
	}
}
