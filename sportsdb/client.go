// Package sportsdb fetches football data from the secondary provider,
// whose API embeds the key in the URL path and types every number as a
// JSON string.
package sportsdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
)

const DefaultBaseURL = "https://www.thesportsdb.com/api/v1/json"

const sport = "Soccer"

// Client talks to the provider through the gateway's cache and retry
// infrastructure.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	gw      *gateway.Group
	retry   gateway.Retryer
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithRetryer(r gateway.Retryer) Option {
	return func(c *Client) { c.retry = r }
}

// New returns a client for the secondary football provider.
func New(apiKey string, gw *gateway.Group, opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: u,
		apiKey:  apiKey,
		gw:      gw,
		retry:   gateway.NewRetryer(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EventsByDay returns the day's football events.
func (c *Client) EventsByDay(ctx context.Context, day time.Time) ([]Event, error) {
	params := gateway.Params{}.SetDate("d", day)
	key := gateway.Key("sportsdb/eventsday", params)
	ttl := gateway.TTLFor(gateway.Hints{Date: day}, c.now())

	events, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) ([]Event, error) {
		q := url.Values{}
		q.Set("d", day.Format("2006-01-02"))
		q.Set("s", sport)
		return c.fetchEvents(ctx, "eventsday.php", q, false)
	})
	return events, err
}

// NextEvents returns a team's upcoming matches.
func (c *Client) NextEvents(ctx context.Context, teamID int64) ([]Event, error) {
	params := gateway.Params{}.Set("id", strconv.FormatInt(teamID, 10))
	key := gateway.Key("sportsdb/eventsnext", params)
	ttl := gateway.TTLFor(gateway.Hints{Date: c.now()}, c.now())

	events, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) ([]Event, error) {
		q := url.Values{}
		q.Set("id", strconv.FormatInt(teamID, 10))
		return c.fetchEvents(ctx, "eventsnext.php", q, false)
	})
	return events, err
}

// LastEvents returns a team's most recent results.
func (c *Client) LastEvents(ctx context.Context, teamID int64) ([]Event, error) {
	params := gateway.Params{}.Set("id", strconv.FormatInt(teamID, 10))
	key := gateway.Key("sportsdb/eventslast", params)
	ttl := gateway.TTLFor(gateway.Hints{Date: c.now()}, c.now())

	events, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) ([]Event, error) {
		q := url.Values{}
		q.Set("id", strconv.FormatInt(teamID, 10))
		return c.fetchEvents(ctx, "eventslast.php", q, true)
	})
	return events, err
}

// SearchTeams looks up teams by name.
func (c *Client) SearchTeams(ctx context.Context, name string) ([]Team, error) {
	if name == "" {
		return nil, fmt.Errorf("sportsdb: team name is required")
	}
	params := gateway.Params{}.Set("t", name)
	key := gateway.Key("sportsdb/searchteams", params)
	ttl := gateway.TTLFor(gateway.Hints{}, c.now())

	teams, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) ([]Team, error) {
		return c.fetchTeams(ctx, name)
	})
	return teams, err
}

// LookupTable returns a league's table for a season.
func (c *Client) LookupTable(ctx context.Context, leagueID int64, season string) ([]TableRow, error) {
	params := gateway.Params{}.
		Set("l", strconv.FormatInt(leagueID, 10)).
		Set("s", season)
	key := gateway.Key("sportsdb/table", params)
	ttl := gateway.TTLFor(gateway.Hints{}, c.now())

	table, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) ([]TableRow, error) {
		return c.fetchTable(ctx, leagueID, season)
	})
	return table, err
}

func (c *Client) fetchEvents(ctx context.Context, endpoint string, query url.Values, lastShape bool) ([]Event, error) {
	var events []Event
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var raws []rawEvent
		if lastShape {
			var resp resultsResponse
			if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
				return err
			}
			raws = resp.Results
		} else {
			var resp eventsResponse
			if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
				return err
			}
			raws = resp.Events
		}
		parsed, err := parseEvents(raws)
		if err != nil {
			return err
		}
		events = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) fetchTeams(ctx context.Context, name string) ([]Team, error) {
	q := url.Values{}
	q.Set("t", name)

	var teams []Team
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var resp teamsResponse
		if err := c.getJSON(ctx, "searchteams.php", q, &resp); err != nil {
			return err
		}
		teams = make([]Team, 0, len(resp.Teams))
		for _, rt := range resp.Teams {
			id, err := coerceInt64("idTeam", rt.ID)
			if err != nil {
				return err
			}
			teams = append(teams, Team{ID: id, Name: rt.Name, League: rt.League, Stadium: rt.Stadium})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) fetchTable(ctx context.Context, leagueID int64, season string) ([]TableRow, error) {
	q := url.Values{}
	q.Set("l", strconv.FormatInt(leagueID, 10))
	q.Set("s", season)

	var table []TableRow
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var resp tableResponse
		if err := c.getJSON(ctx, "lookuptable.php", q, &resp); err != nil {
			return err
		}
		parsed, err := parseTable(resp.Table)
		if err != nil {
			return err
		}
		table = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// getJSON issues one GET with the key embedded in the path, as the
// provider's simple-auth scheme requires.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path = u.Path + "/" + c.apiKey + "/" + endpoint
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &gateway.StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return gateway.BadResponse("sportsdb: %v", err)
	}
	return nil
}

func parseEvents(raws []rawEvent) ([]Event, error) {
	events := make([]Event, 0, len(raws))
	for _, re := range raws {
		id, err := coerceInt64("idEvent", re.ID)
		if err != nil {
			return nil, err
		}
		homeScore, err := coerceScore("intHomeScore", re.HomeScore)
		if err != nil {
			return nil, err
		}
		awayScore, err := coerceScore("intAwayScore", re.AwayScore)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{
			ID:        id,
			Name:      re.Name,
			League:    re.League,
			Season:    re.Season,
			Home:      re.HomeTeam,
			Away:      re.AwayTeam,
			HomeScore: homeScore,
			AwayScore: awayScore,
			Kickoff:   parseKickoff(re.Date, re.Time),
		})
	}
	return events, nil
}

func parseTable(raws []rawTableRow) ([]TableRow, error) {
	table := make([]TableRow, 0, len(raws))
	for _, rr := range raws {
		row := TableRow{Team: rr.Team}
		fields := []struct {
			name  string
			value string
			dst   *int
		}{
			{"intRank", rr.Rank, &row.Rank},
			{"intPoints", rr.Points, &row.Points},
			{"intPlayed", rr.Played, &row.Played},
			{"intWin", rr.Won, &row.Won},
			{"intDraw", rr.Drawn, &row.Drawn},
			{"intLoss", rr.Lost, &row.Lost},
			{"intGoalDifference", rr.GoalDiff, &row.GoalDiff},
		}
		for _, f := range fields {
			n, err := coerceInt(f.name, f.value)
			if err != nil {
				return nil, err
			}
			*f.dst = n
		}
		table = append(table, row)
	}
	return table, nil
}

func coerceInt(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, gateway.BadResponse("sportsdb: field %s: %q is not a number", field, s)
	}
	return n, nil
}

func coerceInt64(field, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, gateway.BadResponse("sportsdb: field %s: %q is not a number", field, s)
	}
	return n, nil
}

// coerceScore treats an empty string as "not played yet".
func coerceScore(field, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := coerceInt(field, s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseKickoff combines the provider's split date and time fields. A
// missing or malformed time degrades to midnight UTC rather than failing
// the whole event list.
func parseKickoff(date, clock string) time.Time {
	if clock != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", date+" "+clock); err == nil {
			return t.UTC()
		}
	}
	t, _ := time.Parse("2006-01-02", date)
	return t.UTC()
}
