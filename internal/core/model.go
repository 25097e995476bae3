package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one inventory item as stored in the inventario table (or the
// inventario_expandido.csv seed file). Monetary fields use decimal to avoid
// float drift in margin and valuation math.
type Product struct {
	ID                int             `json:"producto_id"`
	Name              string          `json:"nombre"`
	CategoryID        int             `json:"categoria_id"`
	SupplierID        int             `json:"proveedor_id"`
	LocationID        int             `json:"ubicacion_id"`
	Stock             int             `json:"stock_actual"`
	MinStock          int             `json:"stock_minimo"`
	ReorderPoint      int             `json:"punto_reorden"`
	UnitCost          decimal.Decimal `json:"costo_unitario"`
	SalePrice         decimal.Decimal `json:"precio_venta"`
	SalesCurrentMonth int             `json:"ventas_mes_actual"`
	SalesPriorMonth   int             `json:"ventas_mes_anterior"`
	SalesQuarter      int             `json:"ventas_trimestre"`
	IsActive          bool            `json:"activo"`
	LastPurchaseAt    *time.Time      `json:"fecha_ultima_compra,omitempty"`
	LastSaleAt        *time.Time      `json:"fecha_ultima_venta,omitempty"`
	CreatedAt         *time.Time      `json:"fecha_creacion,omitempty"`
}

// Validate reports whether the product row carries every field the pipeline
// requires. Rows failing validation are excluded by the loader (skip-and-count,
// never abort the batch).
func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("producto_id must be positive, got %d", p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("product %d has empty name", p.ID)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %d has negative stock %d", p.ID, p.Stock)
	}
	if p.UnitCost.IsNegative() {
		return fmt.Errorf("product %d has negative unit cost %s", p.ID, p.UnitCost)
	}
	if p.SalePrice.IsNegative() {
		return fmt.Errorf("product %d has negative sale price %s", p.ID, p.SalePrice)
	}
	if p.SalesCurrentMonth < 0 || p.SalesPriorMonth < 0 || p.SalesQuarter < 0 {
		return fmt.Errorf("product %d has negative sales figures", p.ID)
	}
	return nil
}

// Category groups products and carries the historical average margin for the group.
type Category struct {
	ID        int             `json:"categoria_id"`
	Name      string          `json:"nombre_categoria"`
	AvgMargin decimal.Decimal `json:"margen_promedio"`
	IsActive  bool            `json:"activo"`
}

// Supplier is a purchasing source with a quality rating and delivery lead time.
type Supplier struct {
	ID           int             `json:"proveedor_id"`
	Name         string          `json:"nombre_proveedor"`
	Rating       decimal.Decimal `json:"calificacion"`
	LeadTimeDays int             `json:"tiempo_entrega_dias"`
}

// Location is a physical shelf position, addressed as seccion-pasillo-estante.
type Location struct {
	ID      int    `json:"ubicacion_id"`
	Section string `json:"seccion"`
	Aisle   string `json:"pasillo"`
	Shelf   string `json:"estante"`
}

// Code returns the composite seccion-pasillo-estante position code.
func (l Location) Code() string {
	return l.Section + "-" + l.Aisle + "-" + l.Shelf
}

// StockAlert is a row from the optional alertas table.
type StockAlert struct {
	ID          int        `json:"alerta_id"`
	State       string     `json:"estado"`
	GeneratedAt time.Time  `json:"fecha_generacion"`
	ResolvedAt  *time.Time `json:"fecha_resolucion,omitempty"`
}

// StockMovement is a row from the optional movimientos_inventario table.
type StockMovement struct {
	Timestamp time.Time `json:"fecha_movimiento"`
	ProductID int       `json:"producto_id"`
	Quantity  int       `json:"cantidad"`
	Type      string    `json:"tipo_movimiento"`
}

// JoinedProduct is a Product left-joined with its category, supplier, and
// location. Join fields are zero-valued when the referenced row is missing,
// mirroring a SQL LEFT JOIN.
type JoinedProduct struct {
	Product
	CategoryName   string          `json:"nombre_categoria"`
	CategoryMargin decimal.Decimal `json:"categoria_margen"`
	SupplierName   string          `json:"nombre_proveedor"`
	SupplierRating decimal.Decimal `json:"proveedor_calificacion"`
	LeadTimeDays   int             `json:"tiempo_entrega_dias"`
	LocationCode   string          `json:"ubicacion_codigo"`
}

// StockState is the categorical health label for current stock relative to the
// configured thresholds.
type StockState string

const (
	StockStateNone     StockState = "NO_STOCK"
	StockStateCritical StockState = "CRITICAL"
	StockStateLow      StockState = "LOW"
	StockStateNormal   StockState = "NORMAL"
)

// RotationClass grades months-of-inventory for products with current sales.
// A product without current-month sales has no rotation class (empty string).
type RotationClass string

const (
	RotationExcellent RotationClass = "EXCELLENT"
	RotationGood      RotationClass = "GOOD"
	RotationFair      RotationClass = "FAIR"
	RotationSlow      RotationClass = "SLOW"
)

// ABCClass is a revenue-contribution tier: a small subset of products (A)
// explains the majority of revenue.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// DemandRisk compares current stock against projected near-term demand.
type DemandRisk string

const (
	RiskStockout   DemandRisk = "STOCKOUT_RISK"
	RiskTight      DemandRisk = "TIGHT"
	RiskSufficient DemandRisk = "SUFFICIENT"
)

// EnrichedProduct is a JoinedProduct with all derived metric fields appended.
// Derived fields are recomputed on every load and never written back.
type EnrichedProduct struct {
	JoinedProduct
	UnitMargin        decimal.Decimal `json:"utilidad_unitaria"`
	MarginPct         decimal.Decimal `json:"margen_porcentaje"`
	MonthlyProfit     decimal.Decimal `json:"utilidad_mes"`
	InventoryValue    decimal.Decimal `json:"valor_inventario"`
	MonthlyTurnover   decimal.Decimal `json:"rotacion_mensual"`
	MonthsOfInventory decimal.Decimal `json:"meses_inventario"`
	GrowthPct         decimal.Decimal `json:"crecimiento_pct"`
	StockState        StockState      `json:"estado_stock"`
	RotationClass     RotationClass   `json:"clasificacion_rotacion,omitempty"`
}

// MonthlyRevenue is current-month units sold times sale price.
func (p EnrichedProduct) MonthlyRevenue() decimal.Decimal {
	return decimal.NewFromInt(int64(p.SalesCurrentMonth)).Mul(p.SalePrice)
}

// MonthlyCost is current-month units sold times unit cost.
func (p EnrichedProduct) MonthlyCost() decimal.Decimal {
	return decimal.NewFromInt(int64(p.SalesCurrentMonth)).Mul(p.UnitCost)
}
