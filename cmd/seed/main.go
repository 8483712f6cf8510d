package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/config"
	"github.com/bluestock/ipo-api/internal/application"
	"github.com/bluestock/ipo-api/internal/container"
	"github.com/bluestock/ipo-api/internal/domain/entity"
	pginfra "github.com/bluestock/ipo-api/internal/infrastructure/postgres"
	"github.com/bluestock/ipo-api/pkg/helpers"
)

func num(f float64) entity.Number { return entity.NewNumber(f) }

func date(y int, m time.Month, d int) *entity.Date {
	dt := entity.NewDate(y, m, d)
	return &dt
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	c := &container.Container{Config: cfg, Logger: logger, Store: pginfra.NewStore(pool)}
	defer c.Close()

	email, password := "demo@bluestock.in", "password123"
	_, err = c.AuthService().Signup(ctx, application.SignupInput{Name: "Demo User", Email: email, Password: password})
	switch {
	case err == nil:
		logger.WithField("email", email).Info("seeded demo user")
	case errors.Is(err, application.ErrConflict):
		logger.WithField("email", email).Info("demo user already exists")
	default:
		logger.Fatalf("failed to seed user: %v", err)
	}

	n, err := seedIPOs(ctx, c.IPOService(), logger)
	if err != nil {
		logger.Fatalf("failed to seed ipos: %v", err)
	}
	logger.WithField("inserted", n).Info("seed complete")
}

// seedIPOs registers the sample rows whose company_name is not already
// present, so repeated runs do not duplicate them.
func seedIPOs(ctx context.Context, svc *application.IPOService, logger *logrus.Logger) (int, error) {
	existing, err := svc.List(ctx)
	if err != nil && !errors.Is(err, application.ErrEmptyResult) {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, ipo := range existing {
		have[ipo.CompanyName] = true
	}

	inserted := 0
	for _, in := range sampleIPOs() {
		if have[in.CompanyName] {
			logger.WithField("company", in.CompanyName).Debug("ipo already seeded")
			continue
		}
		id, err := svc.Register(ctx, in)
		if err != nil {
			return inserted, fmt.Errorf("seed ipo %s: %w", in.CompanyName, err)
		}
		have[in.CompanyName] = true
		inserted++
		logger.WithField("ipo_id", id).Infof("seeded ipo %s", in.CompanyName)
	}
	return inserted, nil
}

func sampleIPOs() []application.RegisterIPOInput {
	return []application.RegisterIPOInput{
		{
			CompanyName: "Nova Agritech Ltd.", PriceBand: "39-41", IssueSize: "143.81 Cr", IssueType: "Book Built", Status: "listed",
			OpenDate: date(2024, 1, 22), CloseDate: date(2024, 1, 24), ListingDate: date(2024, 1, 31), ListedDate: date(2024, 1, 31),
			IPOPrice: num(41.0), ListingPrice: num(56.0), ListingGain: num(36.59), CurrentMarketPrice: num(48.5), CurrentReturn: num(18.29),
		},
		{
			CompanyName: "EPACK Durable Ltd.", PriceBand: "218-230", IssueSize: "640.05 Cr", IssueType: "Book Built", Status: "listed",
			OpenDate: date(2024, 1, 19), CloseDate: date(2024, 1, 24), ListingDate: date(2024, 1, 30), ListedDate: date(2024, 1, 30),
			IPOPrice: num(230.0), ListingPrice: num(225.0), ListingGain: num(-2.17), CurrentMarketPrice: num(190.0), CurrentReturn: num(-17.39),
		},
		{
			CompanyName: "Bluestock Fintech", PriceBand: "100-110", IssueSize: "250 Cr", IssueType: "Fixed Price", Status: "upcoming",
			OpenDate: date(2026, 11, 3), CloseDate: date(2026, 11, 5),
		},
	}
}
