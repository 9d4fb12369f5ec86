// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/artlens/artlens/internal/config"
)

// Pipeline owns the scan event flow end to end: the bus the scan endpoint
// publishes to, the router, and the two consumers.
type Pipeline struct {
	Bus         *Bus
	Router      *Router
	Recorder    *InteractionRecorder
	Broadcaster *FeedBroadcaster
}

// NewPipeline wires the bus, the router, and both consumers.
func NewPipeline(
	cfg config.EventsConfig,
	sessions ScanRecorder,
	artworks CounterStore,
	analytics CacheInvalidator,
	feed Broadcaster,
	logger watermill.LoggerAdapter,
) (*Pipeline, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	bus := NewBus(cfg, logger)

	router, err := NewRouter(RouterConfigFrom(cfg), logger)
	if err != nil {
		return nil, err
	}

	recorder, err := NewInteractionRecorder(sessions, artworks, analytics, logger)
	if err != nil {
		return nil, fmt.Errorf("create interaction recorder: %w", err)
	}

	broadcaster, err := NewFeedBroadcaster(feed, logger)
	if err != nil {
		return nil, fmt.Errorf("create feed broadcaster: %w", err)
	}

	router.AddConsumerHandler(HandlerInteractionRecorder, TopicScanMatched, bus.Subscriber(), recorder.Handle)
	router.AddConsumerHandler(HandlerFeedBroadcaster, TopicScanMatched, bus.Subscriber(), broadcaster.Handle)

	return &Pipeline{
		Bus:         bus,
		Router:      router,
		Recorder:    recorder,
		Broadcaster: broadcaster,
	}, nil
}

// Serve runs the router until ctx is canceled, then drains in-flight
// handlers within the close timeout. It satisfies the supervisor's service
// contract.
func (p *Pipeline) Serve(ctx context.Context) error {
	return p.Router.Run(ctx)
}

// Running is closed once both consumers are subscribed. Accept scans only
// after this: the transport drops messages published to a topic nobody is
// consuming yet.
func (p *Pipeline) Running() <-chan struct{} {
	return p.Router.Running()
}

// Close tears down the router, then the bus.
func (p *Pipeline) Close() error {
	err := p.Router.Close()
	if busErr := p.Bus.Close(); err == nil {
		err = busErr
	}
	return err
}

// String names the pipeline in supervisor logs.
func (p *Pipeline) String() string {
	return "event-pipeline"
}
