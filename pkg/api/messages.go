package api

// Player is a registered competitor.
type Player struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type RegisterPlayerRequest struct {
	Name string `json:"name"`
}

type RegisterPlayerResponse struct {
	Player *Player `json:"player"`
}

type ReportMatchRequest struct {
	Winner int64 `json:"winner"`
	Loser  int64 `json:"loser"`
}

// Standing is one row of the tournament table.
type Standing struct {
	Id      int64  `json:"id"`
	Name    string `json:"name"`
	Wins    int32  `json:"wins"`
	Matches int32  `json:"matches"`
}

type PlayerStandingsResponse struct {
	Standings []*Standing `json:"standings"`
}

// Pairing names the two players who meet next round.
type Pairing struct {
	Id1   int64  `json:"id1"`
	Name1 string `json:"name1"`
	Id2   int64  `json:"id2"`
	Name2 string `json:"name2"`
}

type SwissPairingsResponse struct {
	Pairings []*Pairing `json:"pairings"`
}

// Organizer is an account allowed to change tournament state.
type Organizer struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Organizer *Organizer `json:"organizer"`
	Token     string     `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Organizer *Organizer `json:"organizer"`
	Token     string     `json:"token"`
}
