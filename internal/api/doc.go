// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package api provides the HTTP REST API layer for ArtLens.

It exposes the visitor-facing scan and session endpoints, the curator
catalogue CRUD, the analytics surface, and the WebSocket live feed. The
package owns request decoding, validation, and the mapping from domain
errors to the JSON error envelope; domain logic lives in the services it
delegates to.

Key Components:

  - Router: chi route tree and middleware stack (SetupChi)
  - Handler: request handlers bound to the catalogue, session, analytics,
    and scan-resolution services through narrow consumer interfaces
  - Response formatting: standardized success/error envelopes with
    timestamps, cache provenance, and ETag generation
  - Rate limiting: per-IP limits tiered by route class (scan, write,
    analytics, health, websocket)
  - CORS: permissive by default since visitor clients are anonymous
    gallery devices; restrict via security.cors_origins

Endpoint Categories:

 1. Scan (/api/v1/scan, /api/v1/geofence/check):
    photograph-plus-GPS artwork identification and standalone geofence
    evaluation.

 2. Catalogue (/api/v1/artworks...):
    curator CRUD with multipart reference-image upload, listing filters,
    per-artwork insights and visual-similarity lookups.

 3. Sessions (/api/v1/sessions..., /api/v1/interactions, /api/v1/feedback):
    anonymous visitor sessions with consent handling, interaction
    recording, and reaction feedback.

 4. Analytics (/api/v1/analytics/..., /api/v1/recommendations):
    museum summary, weekday-by-hour heatmap, per-session recommendations.

 5. Live feed (/api/v1/ws):
    WebSocket stream of scan matches, feedback events, and gallery stats.

Usage:

	handler := api.NewHandler(db, catalogue, sessions, analytics, resolver, publisher, hub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security))
	http.ListenAndServe(":8080", router.SetupChi())

All handlers are safe for concurrent use; shared state is owned by the
injected services.
*/
package api
