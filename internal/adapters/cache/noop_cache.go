package cache

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
)

// NoopCache never stores anything. It is used when no Redis address is configured.
type NoopCache struct{}

var _ portsrepo.Cache = NoopCache{}

func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }

func (NoopCache) DeletePrefix(context.Context, string) error { return nil }
