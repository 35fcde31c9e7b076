package sportsdb

import "time"

// Event is a normalized match from the secondary provider. Scores are nil
// for matches that have not been played.
type Event struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	League    string    `json:"league"`
	Season    string    `json:"season,omitempty"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	HomeScore *int      `json:"home_score"`
	AwayScore *int      `json:"away_score"`
	Kickoff   time.Time `json:"kickoff"`
}

// Team is a search result from the provider's team lookup.
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	League  string `json:"league"`
	Stadium string `json:"stadium,omitempty"`
}

// TableRow is one line of a league table.
type TableRow struct {
	Rank     int    `json:"rank"`
	Team     string `json:"team"`
	Points   int    `json:"points"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Drawn    int    `json:"drawn"`
	Lost     int    `json:"lost"`
	GoalDiff int    `json:"goal_diff"`
}

// Upstream shapes. Every numeric field arrives as a JSON string and must
// be coerced explicitly; a field that fails coercion is a validation
// error, not a zero.
type rawEvent struct {
	ID        string `json:"idEvent"`
	Name      string `json:"strEvent"`
	League    string `json:"strLeague"`
	Season    string `json:"strSeason"`
	HomeTeam  string `json:"strHomeTeam"`
	AwayTeam  string `json:"strAwayTeam"`
	HomeScore string `json:"intHomeScore"`
	AwayScore string `json:"intAwayScore"`
	Date      string `json:"dateEvent"`
	Time      string `json:"strTime"`
}

type rawTeam struct {
	ID      string `json:"idTeam"`
	Name    string `json:"strTeam"`
	League  string `json:"strLeague"`
	Stadium string `json:"strStadium"`
}

type rawTableRow struct {
	Rank     string `json:"intRank"`
	Team     string `json:"strTeam"`
	Points   string `json:"intPoints"`
	Played   string `json:"intPlayed"`
	Won      string `json:"intWin"`
	Drawn    string `json:"intDraw"`
	Lost     string `json:"intLoss"`
	GoalDiff string `json:"intGoalDifference"`
}

type eventsResponse struct {
	Events []rawEvent `json:"events"`
}

// eventslast.php wraps its payload in "results" instead of "events".
type resultsResponse struct {
	Results []rawEvent `json:"results"`
}

type teamsResponse struct {
	Teams []rawTeam `json:"teams"`
}

type tableResponse struct {
	Table []rawTableRow `json:"table"`
}
