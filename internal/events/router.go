// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/artlens/artlens/internal/cache"
	"github.com/artlens/artlens/internal/config"
)

// RouterConfig tunes the consumer-side middleware stack.
type RouterConfig struct {
	// CloseTimeout bounds how long shutdown waits for in-flight handlers.
	CloseTimeout time.Duration

	// Retry backoff for handler errors. RetryMaxRetries counts retries,
	// not attempts: a handler runs at most 1+RetryMaxRetries times per
	// delivery.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Deduplication window for message UUIDs. The deduplicator sits
	// outside the retry middleware, so it also ends the redelivery loop
	// for a message whose retries were exhausted. A zero TTL disables it.
	DedupCapacity int
	DedupTTL      time.Duration
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		DedupCapacity:        10000,
		DedupTTL:             5 * time.Minute,
	}
}

// RouterConfigFrom overlays the operator's event settings on the defaults.
// The config loader has already validated their ranges.
func RouterConfigFrom(cfg config.EventsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	rc.CloseTimeout = cfg.CloseTimeout
	rc.RetryMaxRetries = cfg.RetryCount
	rc.RetryInitialInterval = cfg.RetryInitialInterval
	return rc
}

// InMemoryDeduplicator adapts the dedup window to the repository interface
// the Watermill deduplicator middleware consumes. Seen both checks and
// records, so the first sighting of a key claims it.
type InMemoryDeduplicator struct {
	seen *cache.DedupWindow
}

// NewInMemoryDeduplicator remembers up to capacity keys for ttl.
func NewInMemoryDeduplicator(capacity int, ttl time.Duration) *InMemoryDeduplicator {
	return &InMemoryDeduplicator{seen: cache.NewDedupWindow(capacity, ttl)}
}

// IsDuplicate implements middleware.ExpiringKeyRepository.
func (d *InMemoryDeduplicator) IsDuplicate(_ context.Context, key string) (bool, error) {
	return d.seen.Seen(key), nil
}

// Router dispatches bus messages to registered consumers. Each handler's
// stack, outermost first: panic recovery, UUID deduplication, retry.
//
// Deduplication and retry are registered per handler, not router-wide, for
// two reasons. The bus fans every message out to every handler under the
// same UUID, so a shared repository would let whichever handler ran first
// starve the rest. And the deduplicator must stay outside the retry loop:
// inside it, the first retry would find the UUID already claimed and ack
// the failed message instead of retrying it.
type Router struct {
	router *message.Router
	cfg    RouterConfig
	logger watermill.LoggerAdapter
}

// NewRouter builds the router. Register handlers with AddConsumerHandler
// before Run.
func NewRouter(cfg RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	// Router-level and handler-level middleware share one nesting order:
	// whatever is added first wraps everything added later.
	wmRouter.AddMiddleware(middleware.Recoverer)

	return &Router{router: wmRouter, cfg: cfg, logger: logger}, nil
}

// AddConsumerHandler registers a consume-only handler for a topic with its
// own deduplication window and retry backoff. Each handler gets its own
// subscription, so every handler on a topic sees every message. Call
// before Run.
func (r *Router) AddConsumerHandler(name, topic string, subscriber message.Subscriber, handler message.NoPublishHandlerFunc) {
	h := r.router.AddNoPublisherHandler(name, topic, subscriber, handler)

	if r.cfg.DedupTTL > 0 {
		dedup := middleware.Deduplicator{
			KeyFactory: func(msg *message.Message) (string, error) {
				return msg.UUID, nil
			},
			Repository: NewInMemoryDeduplicator(r.cfg.DedupCapacity, r.cfg.DedupTTL),
		}
		h.AddMiddleware(dedup.Middleware)
	}

	retry := middleware.Retry{
		MaxRetries:      r.cfg.RetryMaxRetries,
		InitialInterval: r.cfg.RetryInitialInterval,
		MaxInterval:     r.cfg.RetryMaxInterval,
		Multiplier:      r.cfg.RetryMultiplier,
		Logger:          r.logger,
	}
	h.AddMiddleware(retry.Middleware)
}

// Run starts the handlers and blocks until ctx is canceled, then drains
// in-flight messages within CloseTimeout.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is consuming. The GoChannel
// transport drops messages published to a topic with no subscribers, so
// publish only after this closes.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router without a supervising context.
func (r *Router) Close() error {
	return r.router.Close()
}
