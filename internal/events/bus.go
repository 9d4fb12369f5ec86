// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
)

// ErrBusClosed is returned by publishes after Close.
var ErrBusClosed = errors.New("event bus is closed")

// NewLogger returns a Watermill logger that writes to the global zerolog
// sink through the slog bridge.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// Bus is the in-process event transport. A single GoChannel instance acts
// as both publisher and subscriber, so every handler registered on the
// router sees every published message.
type Bus struct {
	channel *gochannel.GoChannel

	mu     sync.RWMutex
	closed bool
}

// NewBus creates the transport. BufferSize bounds each subscriber's output
// channel; a publish blocks once a consumer falls that far behind.
func NewBus(cfg config.EventsConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	channel := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)

	return &Bus{channel: channel}
}

// PublishScanMatched serializes the event and fans it out to the topic's
// subscribers. The caller's context values travel with the message, but its
// cancelation does not: handlers must not die with the HTTP request whose
// scan they are recording.
func (b *Bus) PublishScanMatched(ctx context.Context, event *ScanMatchedEvent) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	b.mu.RUnlock()

	msg, err := event.Message()
	if err != nil {
		return err
	}
	msg.SetContext(context.WithoutCancel(ctx))

	if err := b.channel.Publish(TopicScanMatched, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicScanMatched, err)
	}

	metrics.RecordEventPublished(TopicScanMatched)
	return nil
}

// Subscriber exposes the transport for handler registration on the router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.channel
}

// Close shuts down the transport. Subsequent publishes fail with
// ErrBusClosed. Close after Close is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.channel.Close()
}
