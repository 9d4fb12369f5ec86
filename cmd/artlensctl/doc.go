// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package main implements artlensctl, the ArtLens administration CLI.

Commands run one-shot against the same configuration the server reads:

	artlensctl init-db                  # create the schema and exit
	artlensctl seed                     # insert the sample catalogue
	artlensctl reindex                  # re-extract changed fingerprints
	artlensctl cleanup-sessions --days 30

seed and reindex open the BadgerDB fingerprint cache exclusively; stop the
server first when pointing at its data directory.
*/
package main
