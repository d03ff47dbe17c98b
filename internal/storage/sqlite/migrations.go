package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// wins_matches joins players against matches with a LEFT JOIN so that a
// player who has not played yet still gets a row with zero wins and zero
// matches.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    winner INTEGER NOT NULL,
    loser INTEGER NOT NULL,
    FOREIGN KEY (winner) REFERENCES players(id) ON DELETE CASCADE,
    FOREIGN KEY (loser) REFERENCES players(id) ON DELETE CASCADE,
    CHECK (winner <> loser)
);

CREATE TABLE IF NOT EXISTS organizers (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
CREATE INDEX IF NOT EXISTS idx_matches_loser ON matches(loser);

CREATE VIEW IF NOT EXISTS wins_matches AS
SELECT
    p.id AS id,
    COUNT(CASE WHEN m.winner = p.id THEN 1 END) AS wins,
    COUNT(m.id) AS matches
FROM players p
LEFT JOIN matches m ON m.winner = p.id OR m.loser = p.id
GROUP BY p.id;
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
