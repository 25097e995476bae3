package app

import (
	"context"

	"ferreteria-bi/internal/core"
)

// Filter narrows an inventory listing. Zero-valued fields match everything.
type Filter struct {
	Category string
	Supplier string
	States   []core.StockState
}

// Match reports whether the product passes the filter.
func (f Filter) Match(p core.EnrichedProduct) bool {
	if f.Category != "" && p.CategoryName != f.Category {
		return false
	}
	if f.Supplier != "" && p.SupplierName != f.Supplier {
		return false
	}
	if len(f.States) > 0 {
		ok := false
		for _, s := range f.States {
			if p.StockState == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// DashboardService is the single interface all UI adapters call. It decouples
// presentation from business logic. Implementations must contain no display
// logic of any kind.
type DashboardService interface {
	// GetDashboard returns the landing-page aggregate: KPIs, insights, top
	// sellers, category rollups, and active alerts when available.
	GetDashboard(ctx context.Context) (*DashboardResult, error)

	// GetInventory returns the enriched product listing, filtered.
	GetInventory(ctx context.Context, f Filter) (*InventoryResult, error)

	// GetCriticalProducts returns critical-stock products with reorder
	// suggestions and the total purchase investment required.
	GetCriticalProducts(ctx context.Context) (*CriticalResult, error)

	// GetABCAnalysis returns the revenue-contribution classification.
	GetABCAnalysis(ctx context.Context) (*ABCResult, error)

	// GetRotation returns rotation-class counts plus the slow movers and the
	// inventory value they immobilize.
	GetRotation(ctx context.Context) (*RotationResult, error)

	// GetMargins returns the margin distribution and profitability rollups.
	GetMargins(ctx context.Context) (*MarginsResult, error)

	// GetProjections returns the simple demand projection over horizonDays.
	GetProjections(ctx context.Context, horizonDays int) (*ProjectionsResult, error)

	// GetRecommendations runs the predictive models (demand forecast,
	// anomaly detection, product clustering) over the current snapshot.
	GetRecommendations(ctx context.Context, horizonDays int) (*RecommendationsResult, error)

	// Refresh discards the cached snapshot so the next read reloads from the
	// source.
	Refresh(ctx context.Context) error

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*core.User, error)

	// GetUser returns a user by ID, for session validation.
	GetUser(ctx context.Context, userID int) (*core.User, error)
}
