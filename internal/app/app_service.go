package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ferreteria-bi/internal/analytics"
	"ferreteria-bi/internal/core"
	"ferreteria-bi/internal/loader"

	"github.com/shopspring/decimal"
)

// ErrInvalidCredentials is returned by AuthenticateUser for any bad
// username/password pair. Callers never learn which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type dashboardService struct {
	loader loader.Loader
	users  core.UserService // nil in CSV-only mode; env credentials apply
	cache  *SnapshotCache
}

// NewDashboardService constructs a dashboardService that satisfies
// DashboardService. users may be nil when no database is configured; login
// then falls back to the DASHBOARD_USER / DASHBOARD_PASSWORD environment pair.
func NewDashboardService(l loader.Loader, users core.UserService, cache *SnapshotCache) DashboardService {
	return &dashboardService{loader: l, users: users, cache: cache}
}

func (s *dashboardService) snapshot(ctx context.Context) (*Snapshot, error) {
	return s.cache.Get(ctx, func(ctx context.Context) (*Snapshot, error) {
		ds, err := s.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		return &Snapshot{Dataset: ds, Enriched: core.Enrich(ds.Products)}, nil
	})
}

func loadInfo(ds *loader.Dataset) LoadInfo {
	return LoadInfo{Source: ds.Source, LoadedAt: ds.LoadedAt, SkippedRows: ds.Skipped}
}

const topSellerCount = 10

func (s *dashboardService) GetDashboard(ctx context.Context) (*DashboardResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	kpis := core.ComputeKPIs(snap.Enriched)
	res := &DashboardResult{
		KPIs:       kpis,
		Insights:   core.GenerateInsights(kpis),
		TopSellers: core.TopBySales(snap.Enriched, topSellerCount),
		Categories: core.RollupByCategory(snap.Enriched),
		Load:       loadInfo(snap.Dataset),
	}
	if alerts, ok := snap.Dataset.Alerts.Get(); ok {
		res.Alerts = alerts
		res.AlertsAvailable = true
	}
	return res, nil
}

func (s *dashboardService) GetInventory(ctx context.Context, f Filter) (*InventoryResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]core.EnrichedProduct, 0, len(snap.Enriched))
	for _, p := range snap.Enriched {
		if f.Match(p) {
			products = append(products, p)
		}
	}
	return &InventoryResult{
		Products: products,
		Total:    len(products),
		Load:     loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) GetCriticalProducts(ctx context.Context) (*CriticalResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	suggestions, total := core.ReorderSuggestions(snap.Enriched)
	return &CriticalResult{
		Products:        core.CriticalProducts(snap.Enriched),
		Suggestions:     suggestions,
		TotalInvestment: total,
		Load:            loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) GetABCAnalysis(ctx context.Context) (*ABCResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entries := core.ClassifyABC(snap.Enriched)
	counts := map[core.ABCClass]int{}
	revenue := map[core.ABCClass]decimal.Decimal{}
	for _, e := range entries {
		counts[e.Class]++
		revenue[e.Class] = revenue[e.Class].Add(e.Revenue)
	}
	return &ABCResult{
		Entries:        entries,
		CountByClass:   counts,
		RevenueByClass: revenue,
		Load:           loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) GetRotation(ctx context.Context) (*RotationResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[core.RotationClass]int{}
	for _, p := range snap.Enriched {
		if p.RotationClass != "" {
			counts[p.RotationClass]++
		}
	}
	slow, immobilized := core.SlowMovers(snap.Enriched)
	return &RotationResult{
		Counts:           counts,
		AvgTurnover:      core.ComputeKPIs(snap.Enriched).AvgTurnover,
		SlowMovers:       slow,
		ImmobilizedValue: immobilized,
		Load:             loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) GetMargins(ctx context.Context) (*MarginsResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &MarginsResult{
		Stats:      core.ComputeMarginStats(snap.Enriched),
		ByCategory: core.RollupByCategory(snap.Enriched),
		BySupplier: core.RollupBySupplier(snap.Enriched),
		Load:       loadInfo(snap.Dataset),
	}, nil
}

const defaultHorizonDays = 30

func (s *dashboardService) GetProjections(ctx context.Context, horizonDays int) (*ProjectionsResult, error) {
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &ProjectionsResult{
		HorizonDays: horizonDays,
		Projections: core.ProjectAll(snap.Enriched, horizonDays),
		Load:        loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) GetRecommendations(ctx context.Context, horizonDays int) (*RecommendationsResult, error) {
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &RecommendationsResult{
		HorizonDays:     horizonDays,
		Recommendations: analytics.BuildRecommendations(snap.Enriched, horizonDays),
		Load:            loadInfo(snap.Dataset),
	}, nil
}

func (s *dashboardService) Refresh(ctx context.Context) error {
	s.cache.Invalidate()
	return nil
}

func (s *dashboardService) AuthenticateUser(ctx context.Context, username, password string) (*core.User, error) {
	if s.users == nil {
		return envAuthenticate(username, password)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *dashboardService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	if s.users == nil {
		if userID != envUserID {
			return nil, fmt.Errorf("user id=%d not found", userID)
		}
		return envUser(), nil
	}
	return s.users.GetByID(ctx, userID)
}

// envUserID is the synthetic ID issued when authenticating against the
// environment credential pair instead of the users table.
const envUserID = 1

func envUser() *core.User {
	return &core.User{
		ID:        envUserID,
		Username:  os.Getenv("DASHBOARD_USER"),
		Role:      "admin",
		IsActive:  true,
		CreatedAt: time.Time{},
	}
}

func envAuthenticate(username, password string) (*core.User, error) {
	wantUser := os.Getenv("DASHBOARD_USER")
	wantPass := os.Getenv("DASHBOARD_PASSWORD")
	if wantUser == "" || wantPass == "" {
		return nil, errors.New("no users table and DASHBOARD_USER/DASHBOARD_PASSWORD not set")
	}
	if username != wantUser || password != wantPass {
		return nil, ErrInvalidCredentials
	}
	return envUser(), nil
}
