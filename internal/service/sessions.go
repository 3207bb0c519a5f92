package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/store"
	"github.com/vmassess/bomgen/pkg/metrics"
)

// SessionRunner drives background processing runs for the web layer.
// Each upload becomes a session; the runner processes it on its own
// goroutine and publishes progress through the store so clients can
// poll while the run is in flight.
type SessionRunner struct {
	service *ProcessingService
	store   store.Store
}

func NewSessionRunner(service *ProcessingService, sessionStore store.Store) *SessionRunner {
	return &SessionRunner{service: service, store: sessionStore}
}

// Start registers a pending session for the upload and kicks off the
// run in the background. The returned session is the pending snapshot;
// callers poll the store for progress.
func (r *SessionRunner) Start(filename string, content []byte, opts Options) (*store.Session, error) {
	session := store.NewSession(filename)
	if err := r.store.Put(session); err != nil {
		return nil, err
	}

	go r.run(session.ID, content, opts)
	return session, nil
}

func (r *SessionRunner) run(id uuid.UUID, content []byte, opts Options) {
	log := zap.S().Named("service")

	r.update(id, func(s *store.Session) {
		s.Status = store.StatusProcessing
		s.Message = "Reading uploaded data..."
	})

	opts.Progress = func(stage string, percent int) {
		r.update(id, func(s *store.Session) {
			s.Progress = percent
			s.Message = stage
		})
	}

	result, err := r.service.Process(context.Background(), content, opts)
	if err != nil {
		log.Warnf("session %s failed: %v", id, err)
		metrics.IncreaseUploadsTotalMetric("failed")
		r.update(id, func(s *store.Session) {
			s.Status = store.StatusFailed
			s.Error = err.Error()
			s.Message = "Processing failed"
		})
		return
	}

	r.update(id, func(s *store.Session) {
		s.Progress = 90
		s.Message = "Rendering reports..."
	})

	files, err := r.service.RenderReports(result, opts.Formats)
	if err != nil {
		log.Warnf("session %s report rendering failed: %v", id, err)
		metrics.IncreaseUploadsTotalMetric("failed")
		r.update(id, func(s *store.Session) {
			s.Status = store.StatusFailed
			s.Error = err.Error()
			s.Message = "Report rendering failed"
		})
		return
	}

	metrics.IncreaseUploadsTotalMetric("completed")
	metrics.AddVMsProcessedMetric(result.Assessment.TotalVMs)
	for name := range files {
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			metrics.IncreaseReportsRenderedMetric(name[idx+1:])
		}
	}

	log.Infof("session %s completed: %d VMs, %d reports", id, result.Assessment.TotalVMs, len(files))
	r.update(id, func(s *store.Session) {
		s.Status = store.StatusCompleted
		s.Progress = 100
		s.Message = "Completed"
		s.Reports = files
	})
}

// update applies fn to the stored session. A missing session means it
// expired mid-run; the update is dropped.
func (r *SessionRunner) update(id uuid.UUID, fn func(*store.Session)) {
	session, err := r.store.Get(id)
	if err != nil {
		return
	}
	fn(session)
	_ = r.store.Put(session)
}
