// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package validation checks decoded request structs against their validate
// tags using go-playground/validator v10 and renders failures in the
// VALIDATION_ERROR envelope shape.
//
// A single shared validator instance serves the process; validator caches
// parsed struct tags, so the first validation of each request type pays
// the reflection cost once. The instance registers a tag name function
// that reports json wire names, so a client that sent user_latitude is
// told about user_latitude, never UserLatitude.
//
// # Quick Start
//
//	type FeedbackRequest struct {
//	    SessionID string `json:"session_id" validate:"required,uuid4"`
//	    ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
//	    Reaction  string `json:"reaction" validate:"required,oneof=love like neutral dislike"`
//	    Comment   string `json:"comment,omitempty" validate:"max=2000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
//	        verr.Message(), verr.Details())
//	    return
//	}
//
// # Tags In Use
//
// The request structs in internal/models carry:
//   - required: field must be present and non-zero
//   - uuid4: artwork and session identifiers
//   - latitude, longitude: coordinate ranges
//   - oneof=a b c: interaction types, reactions, device types
//   - bcp47_language_tag: session language
//   - min=n / max=n: string lengths and numeric bounds
//
// # Envelope Shapes
//
// One failed constraint produces a single message plus the rejected value:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "latitude must be at most 90",
//	    "details": {"field": "latitude", "tag": "max", "value": 91.0}
//	}
//
// Several failures are joined, with per-field entries in details:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "session_id: session_id is required; reaction: reaction must be one of: love, like, neutral, dislike",
//	    "details": {
//	        "fields": [
//	            {"field": "session_id", "tag": "required", "message": "..."},
//	            {"field": "reaction", "tag": "oneof", "message": "..."}
//	        ]
//	    }
//	}
//
// # See Also
//
//   - internal/api: request handlers calling ValidateStruct
//   - internal/models: request structs carrying the tags
//   - github.com/go-playground/validator/v10: underlying library
package validation
