// Package session holds the single active document pipeline shared by all requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/internal/pipeline"
	"github.com/hyperjump/pdfqa/internal/retriever"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Session.
type State string

const (
	// StateEmpty means no document has been loaded.
	StateEmpty State = "empty"
	// StateReady means a pipeline is installed and questions can be answered.
	StateReady State = "ready"
)

// ErrSuperseded is returned by Load when a newer upload installed its pipeline first.
var ErrSuperseded = errors.New("upload superseded by a newer document")

// Builder turns an uploaded file into a pipeline.
type Builder interface {
	Build(ctx context.Context, upload models.Upload) (pipeline.Pipeline, *models.DocumentInfo, error)
}

// LoadOption configures a single Load.
type LoadOption func(*models.Upload)

// ReleaseAfterRead registers fn to run once the builder has read the file. The caller may
// still call fn itself afterwards, so fn must tolerate a second call.
func ReleaseAfterRead(fn func()) LoadOption {
	return func(u *models.Upload) { u.Release = fn }
}

// Session owns the current pipeline. Builds run without holding the lock; each Load takes a
// ticket when it starts and installs only if no later-started Load has installed already.
type Session struct {
	builder Builder
	logger  *zap.Logger

	tickets atomic.Uint64

	mu         sync.RWMutex
	current    pipeline.Pipeline
	info       *models.DocumentInfo
	installed  uint64 // ticket of the installed pipeline
	generation uint64 // number of successful installs
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a logger for load and answer events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates an empty session that builds pipelines with builder.
func New(builder Builder, opts ...Option) *Session {
	s := &Session{builder: builder}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Load builds a pipeline for the file at path and installs it. On any error the previously
// installed pipeline, if any, stays active.
func (s *Session) Load(ctx context.Context, name, path string, opts ...LoadOption) (*models.DocumentInfo, error) {
	upload := models.Upload{Name: name, Path: path}
	for _, opt := range opts {
		opt(&upload)
	}
	ticket := s.tickets.Add(1)
	began := time.Now()
	s.logger.Info("loading document",
		zap.String("name", name),
		zap.String("state", string(s.State())),
		zap.Uint64("ticket", ticket))

	p, info, err := s.builder.Build(ctx, upload)
	if err != nil {
		s.logger.Warn("document load failed", zap.String("name", name), zap.Uint64("ticket", ticket), zap.Error(err))
		return nil, err
	}
	if info == nil {
		info = &models.DocumentInfo{Name: name}
	}
	if err := s.install(ticket, p, info); err != nil {
		s.logger.Warn("document load discarded", zap.String("name", name), zap.Uint64("ticket", ticket), zap.Error(err))
		return nil, err
	}
	s.logger.Info("document loaded",
		zap.String("name", name),
		zap.String("doc_id", info.ID),
		zap.Int("segments", info.Segments),
		zap.Uint64("ticket", ticket),
		zap.Duration("took", time.Since(began)))
	return info, nil
}

func (s *Session) install(ticket uint64, p pipeline.Pipeline, info *models.DocumentInfo) error {
	if p == nil {
		return fmt.Errorf("builder returned no pipeline")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.installed {
		return ErrSuperseded
	}
	s.current = p
	s.info = info
	s.installed = ticket
	s.generation++
	return nil
}

// Current returns the installed pipeline, or retriever.ErrNoActiveIndex when empty.
func (s *Session) Current() (pipeline.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, retriever.ErrNoActiveIndex
	}
	return s.current, nil
}

// Answer answers question with the pipeline installed at call time. A concurrent Load does
// not affect a call already in progress.
func (s *Session) Answer(ctx context.Context, question string) (string, error) {
	p, err := s.Current()
	if err != nil {
		return "", err
	}
	return p.Answer(ctx, question)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.current == nil {
		return StateEmpty
	}
	return StateReady
}

// Status reports the state and the loaded document.
func (s *Session) Status() models.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := models.StatusResponse{State: string(s.stateLocked()), Generation: s.generation}
	if s.current != nil {
		info := *s.info
		resp.Document = &info
	}
	return resp
}
