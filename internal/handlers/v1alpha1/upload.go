// Package v1alpha1 implements the HTTP handlers of the upload API:
// submit an inventory export, poll the processing session, download the
// rendered reports.
package v1alpha1

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/service"
	"github.com/vmassess/bomgen/internal/store"
	"github.com/vmassess/bomgen/pkg/metrics"
)

type Handler struct {
	runner         *service.SessionRunner
	store          store.Store
	maxUploadBytes int64
}

func NewHandler(runner *service.SessionRunner, sessionStore store.Store, maxUploadBytes int64) *Handler {
	return &Handler{
		runner:         runner,
		store:          sessionStore,
		maxUploadBytes: maxUploadBytes,
	}
}

type UploadReply struct {
	ID string `json:"id"`
}

type SessionReply struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Reports   []string  `json:"reports,omitempty"`
}

type ErrorReply struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
}

func (u UploadReply) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (s SessionReply) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Status)
	return nil
}

// Upload accepts a multipart inventory export under the "file" field
// and starts a background processing session. Replies 202 with the
// session id.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := zap.S().Named("handlers")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			_ = render.Render(w, r, ErrorReply{Status: http.StatusRequestEntityTooLarge, Error: "uploaded file is too large"})
			return
		}
		_ = render.Render(w, r, ErrorReply{Status: http.StatusBadRequest, Error: "expected a multipart form upload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = render.Render(w, r, ErrorReply{Status: http.StatusBadRequest, Error: "missing form field \"file\""})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		_ = render.Render(w, r, ErrorReply{Status: http.StatusBadRequest, Error: "reading uploaded file failed"})
		return
	}

	opts := service.Options{
		AssessmentName:    r.FormValue("name"),
		IncludePoweredOff: r.FormValue("include_powered_off") == "true",
	}
	if opts.AssessmentName == "" {
		opts.AssessmentName = strings.TrimSuffix(header.Filename, fileExtension(header.Filename))
	}

	session, err := h.runner.Start(header.Filename, content, opts)
	if err != nil {
		metrics.IncreaseUploadsTotalMetric("rejected")
		_ = render.Render(w, r, ErrorReply{Status: http.StatusInternalServerError, Error: err.Error()})
		return
	}

	log.Infof("accepted upload %q (%d bytes) as session %s", header.Filename, len(content), session.ID)
	render.Status(r, http.StatusAccepted)
	_ = render.Render(w, r, UploadReply{ID: session.ID.String()})
}

// GetSession replies with the current state of one processing session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	_ = render.Render(w, r, sessionReply(session))
}

// GetReport streams one rendered report of a completed session.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	content, ok := session.Reports[name]
	if !ok {
		_ = render.Render(w, r, ErrorReply{Status: http.StatusNotFound, Error: "report not found"})
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	_, _ = w.Write(content)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, ErrorReply{Status: http.StatusBadRequest, Error: "malformed session id"})
		return nil, false
	}

	session, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			_ = render.Render(w, r, ErrorReply{Status: http.StatusNotFound, Error: "session not found"})
			return nil, false
		}
		_ = render.Render(w, r, ErrorReply{Status: http.StatusInternalServerError, Error: err.Error()})
		return nil, false
	}
	return session, true
}

func sessionReply(session *store.Session) SessionReply {
	reports := make([]string, 0, len(session.Reports))
	for name := range session.Reports {
		reports = append(reports, name)
	}
	sort.Strings(reports)

	return SessionReply{
		ID:        session.ID.String(),
		Filename:  session.Filename,
		Status:    string(session.Status),
		Progress:  session.Progress,
		Message:   session.Message,
		Error:     session.Error,
		CreatedAt: session.CreatedAt,
		Reports:   reports,
	}
}

func fileExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}

func contentTypeFor(name string) string {
	switch fileExtension(name) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
