// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Javiko0420/plataforma-colombiana-sub000/apifootball"
	"github.com/Javiko0420/plataforma-colombiana-sub000/exchangerate"
	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
	"github.com/Javiko0420/plataforma-colombiana-sub000/internal/config"
	"github.com/Javiko0420/plataforma-colombiana-sub000/internal/http/routes"
	"github.com/Javiko0420/plataforma-colombiana-sub000/sportsdb"
	"github.com/Javiko0420/plataforma-colombiana-sub000/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	log.Printf("starting gateway on :%s", cfg.Port)

	// One cache store for the whole process, injected into every client.
	store := gateway.NewStore(cfg.CacheMaxEntries)
	gw := gateway.NewGroup(store, logger)

	retry := gateway.NewRetryer()
	retry.MaxRetries = cfg.MaxRetries
	httpc := &http.Client{Timeout: cfg.UpstreamTimeout}

	wx := weather.New(gw,
		weather.WithHTTPClient(httpc),
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithRetryer(retry),
	)
	fb := apifootball.New(cfg.Football.APIKey, gw,
		apifootball.WithHTTPClient(httpc),
		apifootball.WithBaseURL(cfg.Football.BaseURL),
		apifootball.WithRetryer(retry),
	)
	sdb := sportsdb.New(cfg.SportsDB.APIKey, gw,
		sportsdb.WithHTTPClient(httpc),
		sportsdb.WithBaseURL(cfg.SportsDB.BaseURL),
		sportsdb.WithRetryer(retry),
	)
	fx := exchangerate.New(gw,
		exchangerate.WithHTTPClient(httpc),
		exchangerate.WithBaseURL(cfg.Rates.BaseURL),
		exchangerate.WithBaseCurrency(cfg.Rates.BaseCurrency),
		exchangerate.WithRetryer(retry),
	)

	if !cfg.HasFootball() {
		logger.Warn().Msg("APIFOOTBALL_KEY not set, primary fixtures provider will return errors")
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Weather:  wx,
		Football: fb,
		SportsDB: sdb,
		Rates:    fx,
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
