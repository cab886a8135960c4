package cache

import (
	"context"
	"time"

	"github.com/proofly-ai/proofly/pkg/models"
)

// Noop is the Store used when no Redis address is configured. Every
// operation is a silent no-op; every Get is a miss. Injecting it keeps
// "is the cache configured" branching out of the call sites.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.GrammarError, bool) { return nil, false }

func (Noop) Set(context.Context, string, []models.GrammarError, time.Duration) {}

func (Noop) IncrementProviderUsage(context.Context, string) {}

func (Noop) TrackSession(context.Context, string) {}

func (Noop) Exists(context.Context, string) bool { return false }

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }
