// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
	"github.com/artlens/artlens/internal/session"
)

// Handler names, used for router registration and metrics labels.
const (
	HandlerInteractionRecorder = "interaction-recorder"
	HandlerFeedBroadcaster     = "feed-broadcaster"
)

// ScanRecorder appends a scan to the session's interaction history.
// Implementations report session.ErrConsentWithheld when the session's
// consent flags block recording and database.ErrSessionNotFound when the
// session no longer exists; both are terminal for the message.
type ScanRecorder interface {
	RecordScan(ctx context.Context, sessionID, artworkID uuid.UUID, score, distanceMeters float64) (*models.ArtworkInteraction, error)
}

// CounterStore bumps an artwork's lifetime scan counter.
type CounterStore interface {
	IncrementScanCount(ctx context.Context, id uuid.UUID) error
}

// CacheInvalidator drops cached analytics responses once a scan changes
// the numbers they report.
type CacheInvalidator interface {
	InvalidateCache()
}

// InteractionRecorder is the write side of the analytics pipeline: one
// interaction row, one artwork counter bump, and one cache invalidation
// per matched scan, unless the session's consent flags say otherwise.
type InteractionRecorder struct {
	sessions  ScanRecorder
	artworks  CounterStore
	analytics CacheInvalidator
	logger    watermill.LoggerAdapter

	recorded     atomic.Int64
	consentSkips atomic.Int64
}

// NewInteractionRecorder wires the recorder to its stores.
func NewInteractionRecorder(sessions ScanRecorder, artworks CounterStore, analytics CacheInvalidator, logger watermill.LoggerAdapter) (*InteractionRecorder, error) {
	if sessions == nil {
		return nil, fmt.Errorf("scan recorder required")
	}
	if artworks == nil {
		return nil, fmt.Errorf("counter store required")
	}
	if analytics == nil {
		return nil, fmt.Errorf("cache invalidator required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	return &InteractionRecorder{
		sessions:  sessions,
		artworks:  artworks,
		analytics: analytics,
		logger:    logger,
	}, nil
}

// Handle processes one scan.matched message. Malformed payloads, consent
// refusals, and vanished sessions are acked, since redelivery cannot change
// them; storage failures are returned so the retry middleware runs again.
func (h *InteractionRecorder) Handle(msg *message.Message) error {
	start := time.Now()
	err := h.handle(msg)
	metrics.RecordEventProcessed(HandlerInteractionRecorder, time.Since(start), err)
	return err
}

func (h *InteractionRecorder) handle(msg *message.Message) error {
	event, err := DecodeScanMatched(msg)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		h.logger.Error("Dropping undecodable scan event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	ctx := msg.Context()

	_, err = h.sessions.RecordScan(ctx, event.SessionID, event.ArtworkID, event.Score, event.DistanceMeters)
	switch {
	case errors.Is(err, session.ErrConsentWithheld):
		// The scan leaves no trace: the artwork counter and the cached
		// analytics stay as they are.
		h.consentSkips.Add(1)
		logging.Debug().
			Str("session_id", event.SessionID.String()).
			Str("artwork_id", event.ArtworkID.String()).
			Msg("Scan not recorded, session withheld consent")
		return nil
	case errors.Is(err, database.ErrSessionNotFound):
		// Deleted between publish and delivery, most likely by retention
		// cleanup. Nothing left to attribute the scan to.
		logging.Warn().
			Str("session_id", event.SessionID.String()).
			Msg("Scan event names a session that no longer exists")
		return nil
	case err != nil:
		return fmt.Errorf("record scan interaction: %w", err)
	}

	if err := h.artworks.IncrementScanCount(ctx, event.ArtworkID); err != nil {
		// The interaction row is already committed; redelivering now would
		// record it twice. The hourly stats refresh reconciles the counter.
		logging.Err(err).
			Str("artwork_id", event.ArtworkID.String()).
			Msg("Scan counter bump failed, leaving it to the stats refresh")
	}

	h.analytics.InvalidateCache()
	h.recorded.Add(1)

	logging.Debug().
		Str("scan_id", event.ScanID.String()).
		Str("session_id", event.SessionID.String()).
		Str("artwork_id", event.ArtworkID.String()).
		Float64("score", event.Score).
		Msg("Scan interaction recorded")

	return nil
}

// Stats reports the recorder's lifetime counters.
func (h *InteractionRecorder) Stats() InteractionRecorderStats {
	return InteractionRecorderStats{
		Recorded:     h.recorded.Load(),
		ConsentSkips: h.consentSkips.Load(),
	}
}

// InteractionRecorderStats holds runtime counters.
type InteractionRecorderStats struct {
	Recorded     int64
	ConsentSkips int64
}

// Broadcaster fans frames out to connected live-feed clients. Implemented
// by the WebSocket hub.
type Broadcaster interface {
	// BroadcastRaw sends pre-marshaled JSON to every connected client.
	BroadcastRaw(data []byte)
}

// feedFrame is the live-feed wire envelope. The WebSocket hub writes the
// same shape for its stats_update and ping frames.
type feedFrame struct {
	Type      string            `json:"type"`
	Data      *ScanMatchedEvent `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
}

const frameTypeScanMatched = "scan_matched"

// FeedBroadcaster forwards matched scans to the live feed. Broadcasting is
// fire-and-forget: every path acks, because a feed frame that could not be
// built or delivered is not worth redelivering once the moment has passed.
type FeedBroadcaster struct {
	hub    Broadcaster
	logger watermill.LoggerAdapter

	broadcast atomic.Int64
}

// NewFeedBroadcaster wires the broadcaster to the hub.
func NewFeedBroadcaster(hub Broadcaster, logger watermill.LoggerAdapter) (*FeedBroadcaster, error) {
	if hub == nil {
		return nil, fmt.Errorf("broadcaster required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	return &FeedBroadcaster{hub: hub, logger: logger}, nil
}

// Handle wraps the event in a scan_matched frame and hands it to the hub.
func (h *FeedBroadcaster) Handle(msg *message.Message) error {
	start := time.Now()
	err := h.handle(msg)
	metrics.RecordEventProcessed(HandlerFeedBroadcaster, time.Since(start), err)
	return err
}

func (h *FeedBroadcaster) handle(msg *message.Message) error {
	event, err := DecodeScanMatched(msg)
	if err != nil {
		h.logger.Error("Dropping undecodable scan event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	frame, err := json.Marshal(feedFrame{
		Type:      frameTypeScanMatched,
		Data:      event,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("Failed to marshal feed frame", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	h.hub.BroadcastRaw(frame)
	h.broadcast.Add(1)
	return nil
}

// Stats reports the broadcaster's lifetime counters.
func (h *FeedBroadcaster) Stats() FeedBroadcasterStats {
	return FeedBroadcasterStats{Broadcast: h.broadcast.Load()}
}

// FeedBroadcasterStats holds runtime counters.
type FeedBroadcasterStats struct {
	Broadcast int64
}
