// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/models"
)

// ErrConsentWithheld is returned when a recording operation targets a
// session whose visitor withheld or withdrew analytics consent. The event
// path treats it as a silent skip; the API maps it to a 403 envelope.
var ErrConsentWithheld = errors.New("session withheld analytics consent")

// Store is the persistence surface the session service needs.
type Store interface {
	InsertSession(ctx context.Context, s *models.VisitorSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.VisitorSession, error)
	TouchSession(ctx context.Context, id uuid.UUID) error
	OptOutSession(ctx context.Context, id uuid.UUID) error
	InsertInteraction(ctx context.Context, in *models.ArtworkInteraction) error
	UpsertFeedback(ctx context.Context, fb *models.VisitorFeedback) error
}

// Service owns the visitor session lifecycle and the consent gate all
// recording flows through.
type Service struct {
	store Store
}

// NewService builds a session service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create starts an anonymous session from an explicit request. Omitted
// consent defaults to true, the same as sessions minted lazily by the scan
// endpoint.
func (s *Service) Create(ctx context.Context, req models.CreateSessionRequest) (*models.VisitorSession, error) {
	consent := true
	if req.AnalyticsConsent != nil {
		consent = *req.AnalyticsConsent
	}

	sess := &models.VisitorSession{
		AnalyticsConsent: consent,
		DeviceType:       req.DeviceType,
		Language:         req.Language,
	}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logging.Info().
		Str("session_id", sess.ID.String()).
		Bool("analytics_consent", sess.AnalyticsConsent).
		Msg("Visitor session started")
	return sess, nil
}

// EnsureSession resolves the session a scan runs under. An empty, malformed,
// or unknown ID mints a fresh consenting session, so a visitor's first scan
// works without a prior POST /sessions and a client holding an ID that a
// retention sweep removed recovers on its own. The bool reports whether this
// call created the session.
//
// Store failures propagate instead of minting: a transient database error
// must not fork the visitor's identity.
func (s *Service) EnsureSession(ctx context.Context, rawID string) (*models.VisitorSession, bool, error) {
	if rawID != "" {
		if id, err := uuid.Parse(rawID); err == nil {
			sess, err := s.Get(ctx, id)
			switch {
			case err == nil:
				return sess, false, nil
			case !errors.Is(err, database.ErrSessionNotFound):
				return nil, false, err
			}
		}
	}

	sess := &models.VisitorSession{AnalyticsConsent: true}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}

	logging.Info().
		Str("session_id", sess.ID.String()).
		Msg("Visitor session started")
	return sess, true, nil
}

// Get returns one session and advances its last_activity: a lookup means
// the visitor's app is still open, which is what retention measures.
// Unknown IDs surface database.ErrSessionNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.VisitorSession, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.TouchSession(ctx, id); err != nil {
		logging.Warn().Err(err).
			Str("session_id", id.String()).
			Msg("Failed to advance session activity")
	}
	return sess, nil
}

// OptOut withdraws analytics consent: the session's recorded history is
// deleted, its counters reset, and it stops accepting new interactions and
// feedback. Scanning keeps working.
func (s *Service) OptOut(ctx context.Context, id uuid.UUID) error {
	if err := s.store.OptOutSession(ctx, id); err != nil {
		return err
	}

	logging.Info().
		Str("session_id", id.String()).
		Msg("Session opted out of analytics")
	return nil
}

// RecordScan appends the interaction for a matched scan and bumps the
// session counters. Called from the event path after the resolver has
// already answered the visitor, so failures here never affect the scan
// response.
func (s *Service) RecordScan(ctx context.Context, sessionID, artworkID uuid.UUID, score, distanceMeters float64) (*models.ArtworkInteraction, error) {
	in := &models.ArtworkInteraction{
		SessionID:       sessionID,
		ArtworkID:       artworkID,
		InteractionType: models.InteractionScan,
		SimilarityScore: &score,
		DistanceMeters:  &distanceMeters,
	}
	if err := s.record(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// RecordInteraction appends one client-reported interaction (detail views,
// audio plays) and bumps the session's total. Scan interactions come from
// the event path, never through here.
func (s *Service) RecordInteraction(ctx context.Context, sessionID, artworkID uuid.UUID, interactionType string) (*models.ArtworkInteraction, error) {
	in := &models.ArtworkInteraction{
		SessionID:       sessionID,
		ArtworkID:       artworkID,
		InteractionType: interactionType,
	}
	if err := s.record(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// record runs the consent gate and inserts. Both flags block: consent=false
// means the visitor never agreed to analytics, opted_out means they
// withdrew. Opt-out also forces consent off, so the second check is only
// reachable for sessions created with an explicit consent refusal.
func (s *Service) record(ctx context.Context, in *models.ArtworkInteraction) error {
	sess, err := s.store.GetSession(ctx, in.SessionID)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	if sess.OptedOut || !sess.AnalyticsConsent {
		return ErrConsentWithheld
	}

	if err := s.store.InsertInteraction(ctx, in); err != nil {
		return fmt.Errorf("failed to record %s interaction: %w", in.InteractionType, err)
	}

	logging.Debug().
		Str("session_id", in.SessionID.String()).
		Str("artwork_id", in.ArtworkID.String()).
		Str("interaction_type", in.InteractionType).
		Msg("Interaction recorded")
	return nil
}

// SubmitFeedback stores or replaces the visitor's reaction to an artwork.
// Leaving a reaction is deliberate, unlike the passive interaction trail,
// so it is blocked only for opted-out sessions, not by the analytics
// consent flag.
func (s *Service) SubmitFeedback(ctx context.Context, sessionID, artworkID uuid.UUID, reaction, comment string) (*models.VisitorFeedback, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if sess.OptedOut {
		return nil, ErrConsentWithheld
	}

	fb := &models.VisitorFeedback{
		SessionID: sessionID,
		ArtworkID: artworkID,
		Reaction:  reaction,
		Comment:   comment,
	}
	if err := s.store.UpsertFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to submit feedback: %w", err)
	}

	logging.Debug().
		Str("session_id", sessionID.String()).
		Str("artwork_id", artworkID.String()).
		Str("reaction", reaction).
		Msg("Feedback recorded")
	return fb, nil
}
