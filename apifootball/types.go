package apifootball

import "time"

// Match is the normalized fixture shape shared by the portal's football
// pages. Goals are nil until the match has a score.
type Match struct {
	ID        int64     `json:"id"`
	Kickoff   time.Time `json:"kickoff"`
	Status    string    `json:"status"`
	Elapsed   int       `json:"elapsed,omitempty"`
	League    string    `json:"league"`
	Round     string    `json:"round,omitempty"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	HomeGoals *int      `json:"home_goals"`
	AwayGoals *int      `json:"away_goals"`
}

// FixtureList is an ordered sequence of matches, upstream page order
// preserved when aggregating.
type FixtureList []Match

// TeamRow is one line of a flattened standings table.
type TeamRow struct {
	Rank     int    `json:"rank"`
	Team     string `json:"team"`
	Group    string `json:"group,omitempty"`
	Points   int    `json:"points"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Drawn    int    `json:"drawn"`
	Lost     int    `json:"lost"`
	GoalDiff int    `json:"goal_diff"`
}

// StandingsTable is the flattened, rank-ordered table. Multi-group
// leagues are concatenated in upstream group order.
type StandingsTable []TeamRow

// Upstream envelope. Every endpoint wraps its payload in "response" and
// reports pagination in "paging".
type envelope[T any] struct {
	Response []T `json:"response"`
	Paging   struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"paging"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name  string `json:"name"`
		Round string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type standingsItem struct {
	League struct {
		Standings [][]standingsRow `json:"standings"`
	} `json:"league"`
}

type standingsRow struct {
	Rank int `json:"rank"`
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Points    int    `json:"points"`
	GoalsDiff int    `json:"goalsDiff"`
	Group     string `json:"group"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
	} `json:"all"`
}
