package models

// Player is a registered competitor.
type Player struct {
	// ID is assigned by storage when the player is registered.
	ID int64

	// Name is the player's full name. Names need not be unique.
	Name string
}

// Match records the result of a single game between two players.
// Matches are never updated; they disappear only when storage is cleared.
type Match struct {
	Winner int64
	Loser  int64
}
