// Package routes wires the gateway clients into the JSON API the rest of
// the portal consumes.
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Javiko0420/plataforma-colombiana-sub000/apifootball"
	"github.com/Javiko0420/plataforma-colombiana-sub000/exchangerate"
	appmw "github.com/Javiko0420/plataforma-colombiana-sub000/internal/http/middleware"
	"github.com/Javiko0420/plataforma-colombiana-sub000/sportsdb"
	"github.com/Javiko0420/plataforma-colombiana-sub000/weather"
)

type Server struct {
	Router   *chi.Mux
	Weather  *weather.Client
	Football *apifootball.Client
	SportsDB *sportsdb.Client
	Rates    *exchangerate.Client
}

type ServerOptions struct {
	Weather  *weather.Client
	Football *apifootball.Client
	SportsDB *sportsdb.Client
	Rates    *exchangerate.Client
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(appmw.RequestID)

	s := &Server{
		Router:   r,
		Weather:  opts.Weather,
		Football: opts.Football,
		SportsDB: opts.SportsDB,
		Rates:    opts.Rates,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/weather", s.handleWeather)
		r.Get("/fixtures", s.handleFixtures)
		r.Get("/standings", s.handleStandings)
		r.Get("/matches", s.handleMatches)
		r.Get("/teams", s.handleTeamSearch)
		r.Get("/teams/{id}/next", s.handleTeamNext)
		r.Get("/teams/{id}/last", s.handleTeamLast)
		r.Get("/table", s.handleTable)
		r.Get("/rates", s.handleRates)
		r.Get("/convert", s.handleConvert)
	})

	return s
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		badRequest(w, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		badRequest(w, "lon must be a number")
		return
	}
	bundle, err := s.Weather.Forecast(r.Context(), lat, lon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := apifootball.FixtureQuery{
		Live:     q.Get("live") == "true" || q.Get("live") == "all",
		Timezone: q.Get("timezone"),
	}
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		query.Date = d
	}
	var err error
	if query.League, err = intParam(q.Get("league")); err != nil {
		badRequest(w, "league must be a number")
		return
	}
	if query.Season, err = intParam(q.Get("season")); err != nil {
		badRequest(w, "season must be a number")
		return
	}
	if query.Team, err = intParam(q.Get("team")); err != nil {
		badRequest(w, "team must be a number")
		return
	}
	pages, err := intParam(q.Get("pages"))
	if err != nil {
		badRequest(w, "pages must be a number")
		return
	}

	var list apifootball.FixtureList
	if pages > 1 {
		list, err = s.Football.FixturesAll(r.Context(), query, pages)
	} else {
		list, err = s.Football.Fixtures(r.Context(), query, 1)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	league, err := intParam(r.URL.Query().Get("league"))
	if err != nil || league == 0 {
		badRequest(w, "league is required and must be a number")
		return
	}
	season, err := intParam(r.URL.Query().Get("season"))
	if err != nil || season == 0 {
		badRequest(w, "season is required and must be a number")
		return
	}
	table, err := s.Football.Standings(r.Context(), league, season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}
	events, err := s.SportsDB.EventsByDay(r.Context(), day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleTeamSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("q")
	if name == "" {
		badRequest(w, "q is required")
		return
	}
	teams, err := s.SportsDB.SearchTeams(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleTeamNext(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "team id must be a number")
		return
	}
	events, err := s.SportsDB.NextEvents(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleTeamLast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "team id must be a number")
		return
	}
	events, err := s.SportsDB.LastEvents(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	league, err := strconv.ParseInt(r.URL.Query().Get("league"), 10, 64)
	if err != nil {
		badRequest(w, "league is required and must be a number")
		return
	}
	season := r.URL.Query().Get("season")
	if season == "" {
		badRequest(w, "season is required")
		return
	}
	table, err := s.SportsDB.LookupTable(r.Context(), league, season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = exchangerate.DefaultBaseCurrency
	}
	sheet, err := s.Rates.Latest(r.Context(), base)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		badRequest(w, "amount must be a number")
		return
	}
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		badRequest(w, "from and to are required")
		return
	}
	conv, err := s.Rates.Convert(r.Context(), amount, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError turns a gateway failure into the degraded response the
// portal's pages render. Domain errors the caller can fix are 400s;
// anything upstream-shaped is a 502.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var unknownCur *exchangerate.UnknownCurrencyError
	if errors.As(err, &unknownCur) {
		badRequest(w, unknownCur.Error())
		return
	}

	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("gateway fetch failed")
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "datos no disponibles"})
}
