// Package loader reads the four required inventory tables (inventario,
// categorias, proveedores, ubicaciones) and the two optional ones (alertas,
// movimientos_inventario) from PostgreSQL or from flat CSV files, and joins
// them into one denormalized record set keyed by product.
package loader

import (
	"context"
	"errors"
	"time"

	"ferreteria-bi/internal/core"
)

// ErrNoData signals a fatal load: a required table or file is absent. Callers
// must treat the whole load as failed — the loader never returns a partial
// record set alongside this error.
var ErrNoData = errors.New("no data available")

// Optional wraps a table that may legitimately be absent from the source.
// Absence is distinct from present-but-empty.
type Optional[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// None is an absent value.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// Present reports whether the table was available at load time.
func (o Optional[T]) Present() bool { return o.present }

// Dataset is the output of one load: the joined product records plus the
// optional side tables and the count of malformed rows that were excluded.
type Dataset struct {
	Products  []core.JoinedProduct
	Alerts    Optional[[]core.StockAlert]
	Movements Optional[[]core.StockMovement]

	// Skipped counts rows excluded by required-field validation. The
	// presentation layer surfaces it as "N records skipped", distinct from
	// the fatal ErrNoData case.
	Skipped int

	Source   string // "postgres" or "csv"
	LoadedAt time.Time
}

// Loader produces a fresh Dataset on every call. Loading is blocking I/O;
// timeouts are imposed by the caller through ctx, not by the loader.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// join left-joins products with their category, supplier, and location rows.
// Active products only; products failing validation are skipped and counted.
func join(products []core.Product, categories []core.Category,
	suppliers []core.Supplier, locations []core.Location) ([]core.JoinedProduct, int) {

	catByID := make(map[int]core.Category, len(categories))
	for _, c := range categories {
		catByID[c.ID] = c
	}
	supByID := make(map[int]core.Supplier, len(suppliers))
	for _, s := range suppliers {
		supByID[s.ID] = s
	}
	locByID := make(map[int]core.Location, len(locations))
	for _, l := range locations {
		locByID[l.ID] = l
	}

	joined := make([]core.JoinedProduct, 0, len(products))
	skipped := 0
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if err := p.Validate(); err != nil {
			skipped++
			continue
		}
		jp := core.JoinedProduct{Product: p}
		if c, ok := catByID[p.CategoryID]; ok {
			jp.CategoryName = c.Name
			jp.CategoryMargin = c.AvgMargin
		}
		if s, ok := supByID[p.SupplierID]; ok {
			jp.SupplierName = s.Name
			jp.SupplierRating = s.Rating
			jp.LeadTimeDays = s.LeadTimeDays
		}
		if l, ok := locByID[p.LocationID]; ok {
			jp.LocationCode = l.Code()
		}
		joined = append(joined, jp)
	}
	return joined, skipped
}
