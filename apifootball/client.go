// Package apifootball fetches fixtures and standings from the primary
// football data provider. Fixture queries can aggregate multiple upstream
// pages into one list, bounded by a page cap.
package apifootball

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

const DefaultBaseURL = "https://v3.football.api-sports.io"

// DefaultMaxPages bounds aggregated fixture fetches so one request never
// walks an unbounded upstream result set.
const DefaultMaxPages = 5

// Client talks to the provider through the gateway's cache and retry
// infrastructure. The API key travels in the x-apisports-key header.
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

// New returns a fixtures/standings client backed by gw.
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

// FixtureQuery selects which fixtures to fetch. Zero-valued fields are
// omitted from the upstream query and from the cache key.
type FixtureQuery struct {
	Date     time.Time
	Live     bool
	League   int
	Season   int
	Team     int
	Timezone string
}

func (q FixtureQuery) params() gateway.Params {
	return gateway.Params{}.
		SetDate("date", q.Date).
		SetBool("live", q.Live).
		SetInt("league", q.League).
		SetInt("season", q.Season).
		SetInt("team", q.Team).
		Set("timezone", q.Timezone)
}

func (q FixtureQuery) hints() gateway.Hints {
	return gateway.Hints{Live: q.Live, Date: q.Date}
}

// Fixtures returns one page of matches for the query.
func (c *Client) Fixtures(ctx context.Context, q FixtureQuery, page int) (FixtureList, error) {
	if page <= 0 {
		page = 1
	}
	params := q.params().SetInt("page", page)
	key := gateway.Key("apifootball/fixtures", params)
	ttl := gateway.TTLFor(q.hints(), c.now())

	list, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) (FixtureList, error) {
		list, _, err := c.fetchFixturePage(ctx, q, page)
		return list, err
	})
	return list, err
}

// FixturesAll walks the query's pages in order and concatenates the
// results, stopping at the upstream's reported page total or at maxPages,
// whichever comes first. The aggregate is cached as a single entry.
func (c *Client) FixturesAll(ctx context.Context, q FixtureQuery, maxPages int) (FixtureList, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	params := q.params().SetInt("maxpages", maxPages)
	key := gateway.Key("apifootball/fixtures/all", params)
	ttl := gateway.TTLFor(q.hints(), c.now())

	list, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) (FixtureList, error) {
		return c.fetchAllPages(ctx, q, maxPages)
	})
	return list, err
}

func (c *Client) fetchAllPages(ctx context.Context, q FixtureQuery, maxPages int) (FixtureList, error) {
	all, total, err := c.fetchFixturePage(ctx, q, 1)
	if err != nil {
		return nil, err
	}
	if total > maxPages {
		total = maxPages
	}
	for page := 2; page <= total; page++ {
		list, _, err := c.fetchFixturePage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return all, nil
}

// Standings returns the league table, flattened across groups.
func (c *Client) Standings(ctx context.Context, league, season int) (StandingsTable, error) {
	if league == 0 || season == 0 {
		return nil, fmt.Errorf("apifootball: league and season are required")
	}
	params := gateway.Params{}.SetInt("league", league).SetInt("season", season)
	key := gateway.Key("apifootball/standings", params)
	ttl := gateway.TTLFor(gateway.Hints{}, c.now())

	table, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) (StandingsTable, error) {
		return c.fetchStandings(ctx, league, season)
	})
	return table, err
}

func (c *Client) fetchFixturePage(ctx context.Context, q FixtureQuery, page int) (FixtureList, int, error) {
	query := url.Values{}
	if !q.Date.IsZero() {
		query.Set("date", q.Date.Format("2006-01-02"))
	}
	if q.Live {
		query.Set("live", "all")
	}
	if q.League != 0 {
		query.Set("league", strconv.Itoa(q.League))
	}
	if q.Season != 0 {
		query.Set("season", strconv.Itoa(q.Season))
	}
	if q.Team != 0 {
		query.Set("team", strconv.Itoa(q.Team))
	}
	if q.Timezone != "" {
		query.Set("timezone", q.Timezone)
	}
	query.Set("page", strconv.Itoa(page))

	var list FixtureList
	var total int
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var env envelope[fixtureItem]
		if err := c.getJSON(ctx, "/fixtures", query, &env); err != nil {
			return err
		}
		parsed, err := parseFixtures(env.Response)
		if err != nil {
			return err
		}
		list, total = parsed, env.Paging.Total
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (c *Client) fetchStandings(ctx context.Context, league, season int) (StandingsTable, error) {
	query := url.Values{}
	query.Set("league", strconv.Itoa(league))
	query.Set("season", strconv.Itoa(season))

	var table StandingsTable
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var env envelope[standingsItem]
		if err := c.getJSON(ctx, "/standings", query, &env); err != nil {
			return err
		}
		if len(env.Response) == 0 {
			return gateway.BadResponse("apifootball: standings response empty")
		}
		table = flattenStandings(env.Response[0])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path = path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-apisports-key", c.apiKey)
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
		return gateway.BadResponse("apifootball: %v", err)
	}
	return nil
}

func parseFixtures(items []fixtureItem) (FixtureList, error) {
	list := make(FixtureList, 0, len(items))
	for _, it := range items {
		kickoff, err := time.Parse(time.RFC3339, it.Fixture.Date)
		if err != nil {
			return nil, gateway.BadResponse("apifootball: bad fixture date %q", it.Fixture.Date)
		}
		m := Match{
			ID:        it.Fixture.ID,
			Kickoff:   kickoff,
			Status:    it.Fixture.Status.Short,
			League:    it.League.Name,
			Round:     it.League.Round,
			Home:      it.Teams.Home.Name,
			Away:      it.Teams.Away.Name,
			HomeGoals: it.Goals.Home,
			AwayGoals: it.Goals.Away,
		}
		if it.Fixture.Status.Elapsed != nil {
			m.Elapsed = *it.Fixture.Status.Elapsed
		}
		list = append(list, m)
	}
	return list, nil
}

// flattenStandings concatenates a possibly-grouped standings shape into
// one ordered sequence, preserving upstream group order.
func flattenStandings(item standingsItem) StandingsTable {
	var table StandingsTable
	for _, group := range item.League.Standings {
		for _, row := range group {
			table = append(table, TeamRow{
				Rank:     row.Rank,
				Team:     row.Team.Name,
				Group:    row.Group,
				Points:   row.Points,
				Played:   row.All.Played,
				Won:      row.All.Win,
				Drawn:    row.All.Draw,
				Lost:     row.All.Lose,
				GoalDiff: row.GoalsDiff,
			})
		}
	}
	return table
}
