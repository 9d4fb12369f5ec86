// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package maintenance runs the periodic housekeeping jobs.

Two loops run under the supervision tree, each implementing the
suture.Service contract (Serve blocks until its context is canceled):

  - RetentionSweeper deletes visitor sessions idle past the configured
    retention age, together with their interactions and feedback.
  - StatsRefresher rewrites the per-artwork scan counters from the
    interaction log wherever the two drifted apart, then refreshes the
    in-memory catalogue and drops stale analytics responses.

Both jobs run once at startup and again on every interval tick, so drift
accumulated during downtime heals as soon as the process is back. A failed
run is logged and retried on the next tick rather than crashing the loop;
the jobs are idempotent, so nothing is lost by waiting.
*/
package maintenance
