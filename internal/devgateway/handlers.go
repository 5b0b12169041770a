package devgateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
)

const (
	msgUserCreated      = "User created successfully"
	msgFormFetched      = "Form fetched successfully"
	msgMissingIdentity  = "rollNumber and name are required"
	msgMissingRoll      = "rollNumber is required"
	msgUserNotFound     = "User not found"
	msgMethodNotAllowed = "Method not allowed"
	msgBadBody          = "Request body must be JSON"
)

type createUserBody struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

type messageBody struct {
	Message string `json:"message"`
}

// routes wires both endpoints behind the request logger
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/create-user", s.handleCreateUser)
	mux.HandleFunc("/get-form", s.handleGetForm)
	return logRequests(mux)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, messageBody{msgMethodNotAllowed})
		return
	}

	var body createUserBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{msgBadBody})
		return
	}

	roll := strings.TrimSpace(body.RollNumber)
	name := strings.TrimSpace(body.Name)
	if roll == "" || name == "" {
		writeJSON(w, http.StatusBadRequest, messageBody{msgMissingIdentity})
		return
	}

	s.mu.Lock()
	s.users[roll] = name
	s.mu.Unlock()

	logging.Info("User registered", zap.String("roll_number", roll))
	writeJSON(w, http.StatusOK, messageBody{msgUserCreated})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, messageBody{msgMethodNotAllowed})
		return
	}

	roll := strings.TrimSpace(r.URL.Query().Get("rollNumber"))
	if roll == "" {
		writeJSON(w, http.StatusBadRequest, messageBody{msgMissingRoll})
		return
	}

	s.mu.Lock()
	_, known := s.users[roll]
	s.mu.Unlock()
	if !known {
		writeJSON(w, http.StatusNotFound, messageBody{msgUserNotFound})
		return
	}

	writeJSON(w, http.StatusOK, schema.WireResponse{
		Message: msgFormFetched,
		Form:    s.Form().ToWire(),
	})
}

// writeJSON encodes v before sending the status, so an encoding failure
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to encode response", zap.Error(err))
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logging.Error("Failed to write response", zap.Error(err))
	}
}

// statusRecorder captures the status code for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogServedRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
	})
}
