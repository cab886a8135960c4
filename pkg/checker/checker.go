// Package checker is the request orchestration core: it validates a
// check request, consults the result cache, dispatches to the selected
// provider on a miss, stores the result, and returns a uniform
// response envelope.
package checker

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/proofly-ai/proofly/pkg/audit"
	"github.com/proofly-ai/proofly/pkg/cache"
	"github.com/proofly-ai/proofly/pkg/models"
	"github.com/proofly-ai/proofly/pkg/provider"
)

// MaxTextLength is the largest accepted text, in characters.
const MaxTextLength = 10000

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "en-US"

// ValidationError reports a malformed check request. It is terminal:
// no cache lookup or provider call happens after it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Service orchestrates check requests. All dependencies are injected
// at construction; the cache store is a Noop when unconfigured, so no
// call site needs to ask whether caching is enabled.
type Service struct {
	store     cache.Store
	providers map[string]provider.Client
	auditor   *audit.Logger
	ttl       time.Duration
}

// New creates a Service. auditor may be nil to disable audit logging.
func New(store cache.Store, providers map[string]provider.Client, auditor *audit.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		store:     store,
		providers: providers,
		auditor:   auditor,
		ttl:       ttl,
	}
}

// Check runs one request through the validate → cache → dispatch →
// store pipeline. Cache writes, usage counters, session markers, and
// audit entries are all fire-and-forget; their failures never affect
// the response.
func (s *Service) Check(ctx context.Context, req models.CheckRequest) (*models.CheckResponse, error) {
	start := time.Now()
	if req.Language == "" {
		req.Language = DefaultLanguage
	}

	client, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		go s.store.TrackSession(context.Background(), req.SessionID)
	}

	key := cache.Key(req.Provider, req.Language, req.Text)
	if errs, ok := s.store.Get(ctx, key); ok {
		resp := s.envelope(req, errs, true, start)
		s.recordCheck(req, len(errs), true, http.StatusOK, start)
		return resp, nil
	}

	errs, err := client.Check(ctx, req.Text, req.Language)
	if err != nil {
		s.recordCheck(req, 0, false, http.StatusInternalServerError, start)
		return nil, err
	}

	go func() {
		bg := context.Background()
		s.store.Set(bg, key, errs, s.ttl)
		s.store.IncrementProviderUsage(bg, req.Provider)
	}()

	resp := s.envelope(req, errs, false, start)
	s.recordCheck(req, len(errs), false, http.StatusOK, start)
	return resp, nil
}

func (s *Service) validate(req models.CheckRequest) (provider.Client, error) {
	if req.Text == "" {
		return nil, &ValidationError{Reason: "text is required"}
	}
	if utf8.RuneCountInString(req.Text) > MaxTextLength {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("text exceeds maximum length of %d characters", MaxTextLength),
		}
	}
	client, ok := s.providers[req.Provider]
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown provider %q", req.Provider)}
	}
	return client, nil
}

func (s *Service) envelope(req models.CheckRequest, errs []models.GrammarError, cached bool, start time.Time) *models.CheckResponse {
	if errs == nil {
		errs = []models.GrammarError{}
	}
	return &models.CheckResponse{
		Errors: errs,
		Metadata: models.Metadata{
			Provider:       req.Provider,
			ProcessingTime: time.Since(start).Milliseconds(),
			Cached:         cached,
			Timestamp:      time.Now().UnixMilli(),
			Language:       req.Language,
		},
	}
}

// recordCheck writes an audit entry in a detached goroutine.
func (s *Service) recordCheck(req models.CheckRequest, errorCount int, cached bool, status int, start time.Time) {
	if s.auditor == nil {
		return
	}
	rec := models.CheckRecord{
		RequestID:  newRequestID(),
		TextHash:   cache.HashText(req.Text),
		TextLength: utf8.RuneCountInString(req.Text),
		Provider:   req.Provider,
		Language:   req.Language,
		SessionID:  req.SessionID,
		ErrorCount: errorCount,
		Cached:     cached,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	go func() {
		if err := s.auditor.Log(context.Background(), rec); err != nil {
			log.Printf("audit log error: %v", err)
		}
	}()
}

// newRequestID creates an ID like chk_20260831_a3f9c2.
func newRequestID() string {
	b := make([]byte, 3)
	rand.Read(b)
	return fmt.Sprintf("chk_%s_%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(b))
}
