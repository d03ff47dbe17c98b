package models

// Standing is one row of the tournament table.
type Standing struct {
	ID   int64
	Name string

	// Wins is the number of matches this player won.
	Wins int

	// Matches is the number of matches this player played, won or lost.
	Matches int
}

// Pairing assigns two players to meet in the next round.
type Pairing struct {
	ID1   int64
	Name1 string
	ID2   int64
	Name2 string
}
