package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ferreteria-bi/internal/core"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CSV seed file names, matching the original data drops.
const (
	fileInventory  = "inventario_expandido.csv"
	fileCategories = "categorias.csv"
	fileSuppliers  = "proveedores.csv"
	fileLocations  = "ubicaciones.csv"
	fileAlerts     = "alertas_sample.csv"
	fileMovements  = "movimientos_inventario_sample.csv"
)

// CSVLoader reads the tables from flat files in a data directory. It is the
// fallback source when no DATABASE_URL is configured.
type CSVLoader struct {
	dir string
}

// NewCSVLoader constructs a CSVLoader rooted at dir.
func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{dir: dir}
}

// Row structs keep numeric columns as strings so a single unparsable cell
// skips that row instead of failing the whole file.

type csvProductRow struct {
	ID                string `csv:"producto_id"`
	Name              string `csv:"nombre"`
	CategoryID        string `csv:"categoria_id"`
	SupplierID        string `csv:"proveedor_id"`
	LocationID        string `csv:"ubicacion_id"`
	Stock             string `csv:"stock_actual"`
	MinStock          string `csv:"stock_minimo"`
	ReorderPoint      string `csv:"punto_reorden"`
	UnitCost          string `csv:"costo_unitario"`
	SalePrice         string `csv:"precio_venta"`
	SalesCurrentMonth string `csv:"ventas_mes_actual"`
	SalesPriorMonth   string `csv:"ventas_mes_anterior"`
	SalesQuarter      string `csv:"ventas_trimestre"`
	IsActive          string `csv:"activo"`
	LastPurchaseAt    string `csv:"fecha_ultima_compra"`
	LastSaleAt        string `csv:"fecha_ultima_venta"`
	CreatedAt         string `csv:"fecha_creacion"`
}

type csvCategoryRow struct {
	ID        string `csv:"categoria_id"`
	Name      string `csv:"nombre_categoria"`
	AvgMargin string `csv:"margen_promedio"`
	IsActive  string `csv:"activo"`
}

type csvSupplierRow struct {
	ID           string `csv:"proveedor_id"`
	Name         string `csv:"nombre_proveedor"`
	Rating       string `csv:"calificacion"`
	LeadTimeDays string `csv:"tiempo_entrega_dias"`
}

type csvLocationRow struct {
	ID      string `csv:"ubicacion_id"`
	Section string `csv:"seccion"`
	Aisle   string `csv:"pasillo"`
	Shelf   string `csv:"estante"`
}

type csvAlertRow struct {
	ID          string `csv:"alerta_id"`
	State       string `csv:"estado"`
	GeneratedAt string `csv:"fecha_generacion"`
	ResolvedAt  string `csv:"fecha_resolucion"`
}

type csvMovementRow struct {
	Timestamp string `csv:"fecha_movimiento"`
	ProductID string `csv:"producto_id"`
	Quantity  string `csv:"cantidad"`
	Type      string `csv:"tipo_movimiento"`
}

// Load reads the four required files, joins them, and attaches the optional
// alerts and movements when their files exist. A missing required file is
// fatal and wraps ErrNoData.
func (l *CSVLoader) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var productRows []csvProductRow
	if err := l.readFile(fileInventory, &productRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var categoryRows []csvCategoryRow
	if err := l.readFile(fileCategories, &categoryRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var supplierRows []csvSupplierRow
	if err := l.readFile(fileSuppliers, &supplierRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var locationRows []csvLocationRow
	if err := l.readFile(fileLocations, &locationRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	products, skippedProducts := convertProducts(productRows)
	categories := convertCategories(categoryRows)
	suppliers := convertSuppliers(supplierRows)
	locations := convertLocations(locationRows)

	joined, skippedJoin := join(products, categories, suppliers, locations)

	ds := &Dataset{
		Products:  joined,
		Alerts:    None[[]core.StockAlert](),
		Movements: None[[]core.StockMovement](),
		Skipped:   skippedProducts + skippedJoin,
		Source:    "csv",
		LoadedAt:  time.Now(),
	}

	var alertRows []csvAlertRow
	if err := l.readFile(fileAlerts, &alertRows); err == nil {
		ds.Alerts = Some(convertAlerts(alertRows))
	}
	var movementRows []csvMovementRow
	if err := l.readFile(fileMovements, &movementRows); err == nil {
		ds.Movements = Some(convertMovements(movementRows))
	}

	return ds, nil
}

// Tables is the raw per-table read, before joining. The setup CLI uses it to
// seed PostgreSQL from the CSV drops.
type Tables struct {
	Products   []core.Product
	Categories []core.Category
	Suppliers  []core.Supplier
	Locations  []core.Location
	Alerts     []core.StockAlert
	Movements  []core.StockMovement
	Skipped    int
}

// LoadTables reads every file without joining. Required files are fatal,
// optional ones come back empty when absent.
func (l *CSVLoader) LoadTables() (*Tables, error) {
	var productRows []csvProductRow
	if err := l.readFile(fileInventory, &productRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var categoryRows []csvCategoryRow
	if err := l.readFile(fileCategories, &categoryRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var supplierRows []csvSupplierRow
	if err := l.readFile(fileSuppliers, &supplierRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	var locationRows []csvLocationRow
	if err := l.readFile(fileLocations, &locationRows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	t := &Tables{
		Categories: convertCategories(categoryRows),
		Suppliers:  convertSuppliers(supplierRows),
		Locations:  convertLocations(locationRows),
	}
	t.Products, t.Skipped = convertProducts(productRows)

	var alertRows []csvAlertRow
	if err := l.readFile(fileAlerts, &alertRows); err == nil {
		t.Alerts = convertAlerts(alertRows)
	}
	var movementRows []csvMovementRow
	if err := l.readFile(fileMovements, &movementRows); err == nil {
		t.Movements = convertMovements(movementRows)
	}
	return t, nil
}

func (l *CSVLoader) readFile(name string, out any) error {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// ── Row conversion (skip-and-count on malformed cells) ────────────────────────

func convertProducts(rows []csvProductRow) ([]core.Product, int) {
	products := make([]core.Product, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		p := core.Product{Name: r.Name}
		ok := true
		p.ID = parseInt(r.ID, &ok)
		p.CategoryID = parseInt(r.CategoryID, &ok)
		p.SupplierID = parseInt(r.SupplierID, &ok)
		p.LocationID = parseInt(r.LocationID, &ok)
		p.Stock = parseInt(r.Stock, &ok)
		p.MinStock = parseInt(r.MinStock, &ok)
		p.ReorderPoint = parseInt(r.ReorderPoint, &ok)
		p.UnitCost = parseDecimal(r.UnitCost, &ok)
		p.SalePrice = parseDecimal(r.SalePrice, &ok)
		p.SalesCurrentMonth = parseInt(r.SalesCurrentMonth, &ok)
		p.SalesPriorMonth = parseInt(r.SalesPriorMonth, &ok)
		p.SalesQuarter = parseInt(r.SalesQuarter, &ok)
		p.IsActive = parseBool(r.IsActive)
		p.LastPurchaseAt = parseTime(r.LastPurchaseAt)
		p.LastSaleAt = parseTime(r.LastSaleAt)
		p.CreatedAt = parseTime(r.CreatedAt)
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}
	return products, skipped
}

func convertCategories(rows []csvCategoryRow) []core.Category {
	out := make([]core.Category, 0, len(rows))
	for _, r := range rows {
		ok := true
		c := core.Category{
			ID:        parseInt(r.ID, &ok),
			Name:      r.Name,
			AvgMargin: parseDecimal(r.AvgMargin, &ok),
			IsActive:  parseBool(r.IsActive),
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func convertSuppliers(rows []csvSupplierRow) []core.Supplier {
	out := make([]core.Supplier, 0, len(rows))
	for _, r := range rows {
		ok := true
		s := core.Supplier{
			ID:           parseInt(r.ID, &ok),
			Name:         r.Name,
			Rating:       parseDecimal(r.Rating, &ok),
			LeadTimeDays: parseInt(r.LeadTimeDays, &ok),
		}
		if ok {
			out = append(out, s)
		}
	}
	return out
}

func convertLocations(rows []csvLocationRow) []core.Location {
	out := make([]core.Location, 0, len(rows))
	for _, r := range rows {
		ok := true
		l := core.Location{
			ID:      parseInt(r.ID, &ok),
			Section: r.Section,
			Aisle:   r.Aisle,
			Shelf:   r.Shelf,
		}
		if ok {
			out = append(out, l)
		}
	}
	return out
}

func convertAlerts(rows []csvAlertRow) []core.StockAlert {
	out := make([]core.StockAlert, 0, len(rows))
	for _, r := range rows {
		ok := true
		a := core.StockAlert{
			ID:         parseInt(r.ID, &ok),
			State:      r.State,
			ResolvedAt: parseTime(r.ResolvedAt),
		}
		if t := parseTime(r.GeneratedAt); t != nil {
			a.GeneratedAt = *t
		}
		if ok {
			out = append(out, a)
		}
	}
	return out
}

func convertMovements(rows []csvMovementRow) []core.StockMovement {
	out := make([]core.StockMovement, 0, len(rows))
	for _, r := range rows {
		ok := true
		m := core.StockMovement{
			ProductID: parseInt(r.ProductID, &ok),
			Quantity:  parseInt(r.Quantity, &ok),
			Type:      r.Type,
		}
		if t := parseTime(r.Timestamp); t != nil {
			m.Timestamp = *t
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// ── Cell parsers ──────────────────────────────────────────────────────────────

func parseInt(s string, ok *bool) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*ok = false
		return 0
	}
	return n
}

func parseDecimal(s string, ok *bool) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*ok = false
		return decimal.Zero
	}
	return d
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "si", "sí":
		return true
	}
	return false
}

var timeLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Unparseable dates degrade to nil rather than invalidating the row.
	return nil
}
