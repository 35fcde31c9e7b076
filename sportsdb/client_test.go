package sportsdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw := gateway.NewGroup(gateway.NewStore(0), zerolog.Nop())
	retry := gateway.NewRetryer()
	retry.SetSleepForTest(func(time.Duration) {})

	return New("testkey", gw, WithBaseURL(srv.URL), WithRetryer(retry))
}

func TestEventsByDayCoercesStringFields(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[
			{"idEvent":"602219","strEvent":"Millonarios vs Santa Fe",
			 "strLeague":"Categoria Primera A","strSeason":"2024",
			 "strHomeTeam":"Millonarios","strAwayTeam":"Santa Fe",
			 "intHomeScore":"2","intAwayScore":"1",
			 "dateEvent":"2024-01-01","strTime":"19:00:00"},
			{"idEvent":"602220","strEvent":"Junior vs Nacional",
			 "strLeague":"Categoria Primera A","strSeason":"2024",
			 "strHomeTeam":"Junior","strAwayTeam":"Nacional",
			 "intHomeScore":"","intAwayScore":"",
			 "dateEvent":"2024-01-01","strTime":""}
		]}`)
	})
	c := newTestClient(t, handler)

	events, err := c.EventsByDay(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.Equal(t, int64(602219), events[0].ID)
	require.NotNil(t, events[0].HomeScore)
	require.Equal(t, 2, *events[0].HomeScore)
	require.Equal(t, time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC), events[0].Kickoff)

	// Unplayed match: empty scores stay nil, missing time degrades to midnight.
	require.Nil(t, events[1].HomeScore)
	require.Nil(t, events[1].AwayScore)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), events[1].Kickoff)
}

func TestEventsByDayBadNumberIsFatal(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[{"idEvent":"abc","strEvent":"x","dateEvent":"2024-01-01"}]}`)
	})
	c := newTestClient(t, handler)

	_, err := c.EventsByDay(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	require.ErrorIs(t, err, gateway.ErrBadResponse)
	require.Contains(t, err.Error(), "idEvent")
}

func TestLastEventsUsesResultsShape(t *testing.T) {
	var path atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		fmt.Fprint(w, `{"results":[
			{"idEvent":"700001","strEvent":"Millonarios vs Tolima",
			 "strLeague":"Categoria Primera A",
			 "strHomeTeam":"Millonarios","strAwayTeam":"Tolima",
			 "intHomeScore":"3","intAwayScore":"0",
			 "dateEvent":"2024-01-05","strTime":"21:00:00"}
		]}`)
	})
	c := newTestClient(t, handler)

	events, err := c.LastEvents(context.Background(), 134301)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, 3, *events[0].HomeScore)

	// The key is embedded in the path, not the query.
	require.True(t, strings.HasSuffix(path.Load().(string), "/testkey/eventslast.php"))
}

func TestSearchTeams(t *testing.T) {
	var gotName atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName.Store(r.URL.Query().Get("t"))
		fmt.Fprint(w, `{"teams":[
			{"idTeam":"134301","strTeam":"Millonarios",
			 "strLeague":"Categoria Primera A","strStadium":"El Campin"}
		]}`)
	})
	c := newTestClient(t, handler)

	teams, err := c.SearchTeams(context.Background(), "Millonarios")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, int64(134301), teams[0].ID)
	require.Equal(t, "El Campin", teams[0].Stadium)
	require.Equal(t, "Millonarios", gotName.Load())

	_, err = c.SearchTeams(context.Background(), "")
	require.Error(t, err, "empty name is a caller error, no network call")
}

func TestLookupTable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"table":[
			{"intRank":"1","strTeam":"Millonarios","intPoints":"40","intPlayed":"19",
			 "intWin":"12","intDraw":"4","intLoss":"3","intGoalDifference":"15"},
			{"intRank":"2","strTeam":"Nacional","intPoints":"38","intPlayed":"19",
			 "intWin":"11","intDraw":"5","intLoss":"3","intGoalDifference":"12"}
		]}`)
	})
	c := newTestClient(t, handler)

	table, err := c.LookupTable(context.Background(), 4328, "2024")
	require.NoError(t, err)
	require.Len(t, table, 2)
	require.Equal(t, 1, table[0].Rank)
	require.Equal(t, 40, table[0].Points)
	require.Equal(t, 12, table[0].Won)
	require.Equal(t, 15, table[0].GoalDiff)
}

func TestNextEventsCached(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"events":[]}`)
	})
	c := newTestClient(t, handler)

	_, err := c.NextEvents(context.Background(), 134301)
	require.NoError(t, err)
	_, err = c.NextEvents(context.Background(), 134301)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}
