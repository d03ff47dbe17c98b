// Package models defines the core domain models for the tournament.
//
// # Stored Models
//
//   - Player: A registered competitor. The id is assigned by storage.
//   - Match: The outcome of one game, recorded as a winner and a loser.
//   - Organizer: An account allowed to change tournament state.
//
// # Derived Models
//
// These are recomputed on every request and never persisted:
//   - Standing: A player's win and match counts.
//   - Pairing: Two players who meet in the next round.
//
// Relationships are expressed through ids, never pointers.
package models
