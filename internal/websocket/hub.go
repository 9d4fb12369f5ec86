// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/artlens/artlens/internal/cache"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
)

// ShutdownReason identifies why the hub stopped, for log filtering.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline means a shutdown deadline expired first.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Frame types pushed to connected dashboards.
const (
	FrameTypeScanMatched = "scan_matched"
	FrameTypeStatsUpdate = "stats_update"
	FrameTypePing        = "ping"
	FrameTypePong        = "pong"
)

// Frame is the envelope every hub message uses on the wire. The event
// pipeline encodes the same shape for the frames it pushes through
// BroadcastRaw.
type Frame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// MarshalFrame encodes a frame for the wire.
func MarshalFrame(frame Frame) ([]byte, error) {
	return json.Marshal(frame)
}

// StatsUpdateData is the payload of a stats_update frame.
type StatsUpdateData struct {
	ScansLastHour          int64 `json:"scans_last_hour"`
	UniqueSessionsLastHour int   `json:"unique_sessions_last_hour"`
	ConnectedClients       int   `json:"connected_clients"`
}

const (
	// Live counters roll over a one-hour window in one-minute buckets.
	statsWindow  = time.Hour
	statsBuckets = 60

	defaultStatsInterval = 30 * time.Second

	broadcastBuffer = 256
)

// Hub owns the set of connected clients and fans frames out to them.
// Frames travel the broadcast channel pre-encoded so a frame is marshaled
// once regardless of how many clients are listening.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	statsInterval  time.Duration
	scans          *cache.SlidingWindowCounter
	uniqueSessions *cache.UniqueValueCounter
}

// NewHub creates a hub with empty state and live counters.
func NewHub() *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan []byte, broadcastBuffer),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		statsInterval:  defaultStatsInterval,
		scans:          cache.NewSlidingWindowCounter(statsWindow, statsBuckets),
		uniqueSessions: cache.NewUniqueValueCounter(statsWindow, statsBuckets),
	}
}

// RunWithContext serves the hub until the context is canceled, then closes
// every client and returns ctx.Err(). Designed to run under supervision.
//
// Channel readiness is checked in priority order so behavior stays
// predictable when several channels are ready at once:
//  1. shutdown
//  2. client lifecycle (Register/Unregister)
//  3. broadcasts and the stats timer
func (h *Hub) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(h.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.addClient(client)

		case client := <-h.Unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			h.broadcastToClients(data)

		case <-ticker.C:
			h.enqueueStatsUpdate()
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(count)
	logging.Info().Int("total_clients", count).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(count)
	logging.Info().Int("total_clients", count).Msg("websocket client disconnected")
}

// broadcastToClients delivers one frame to every client in ascending client
// ID order. Map iteration order would make slow-client eviction depend on
// the run; the sort keeps it reproducible.
func (h *Hub) broadcastToClients(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var stalled []*Client
	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			// Full send buffer: the client stopped draining. Evict it
			// rather than block every other connection.
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		close(client.send)
		delete(h.clients, client)
	}
	if len(stalled) > 0 {
		metrics.SetWebSocketClients(len(h.clients))
		logging.Warn().Int("evicted", len(stalled)).Msg("evicted websocket clients with full send buffers")
	}
}

// logGracefulShutdown closes all clients and logs the stop. ctx.Err() is not
// logged as an error; cancellation is the expected shutdown path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.SetWebSocketClients(0)
}

// BroadcastRaw queues a pre-encoded frame for delivery to every client. The
// event pipeline hands frames over already marshaled; they are decoded only
// far enough to reject garbage and feed the live counters.
func (h *Hub) BroadcastRaw(data []byte) {
	var probe struct {
		Type string `json:"type"`
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		logging.Warn().Err(err).Msg("dropping malformed websocket frame")
		return
	}

	if probe.Type == FrameTypeScanMatched {
		h.scans.IncrementOne()
		if probe.Data.SessionID != "" {
			h.uniqueSessions.Add(probe.Data.SessionID)
		}
	}

	h.enqueue(data, probe.Type)
}

// BroadcastFrame encodes a typed frame and queues it for delivery.
func (h *Hub) BroadcastFrame(frameType string, data interface{}) {
	payload, err := MarshalFrame(Frame{
		Type:      frameType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logging.Warn().Err(err).Str("frame_type", frameType).Msg("failed to encode websocket frame")
		return
	}
	h.enqueue(payload, frameType)
}

func (h *Hub) enqueue(data []byte, frameType string) {
	select {
	case h.broadcast <- data:
	default:
		logging.Warn().Str("frame_type", frameType).Msg("broadcast queue full, dropping frame")
	}
}

// enqueueStatsUpdate pushes a stats_update frame unless nobody is listening.
// The counters keep rolling either way.
func (h *Hub) enqueueStatsUpdate() {
	count := h.GetClientCount()
	if count == 0 {
		return
	}
	h.BroadcastFrame(FrameTypeStatsUpdate, StatsUpdateData{
		ScansLastHour:          h.scans.Count(),
		UniqueSessionsLastHour: h.uniqueSessions.CountUnique(),
		ConnectedClients:       count,
	})
}

// Snapshot reports current live-feed activity without broadcasting it.
func (h *Hub) Snapshot() StatsUpdateData {
	return StatsUpdateData{
		ScansLastHour:          h.scans.Count(),
		UniqueSessionsLastHour: h.uniqueSessions.CountUnique(),
		ConnectedClients:       h.GetClientCount(),
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
