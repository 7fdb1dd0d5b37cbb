// Package feed implements the per-connection poll-and-push loop.
//
// A Stream fetches the latest price on a fixed tick, pushes it to a single
// client as a two-decimal text frame, and falls back to the connection-local
// last known price (or the "0.00" sentinel) when a fetch fails. The Tracker
// records the most recent successful fetch for the status endpoints.
package feed
