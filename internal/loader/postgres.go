package loader

import (
	"context"
	"fmt"
	"log"
	"time"

	"ferreteria-bi/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLoader reads the denormalized record set from PostgreSQL with a
// single LEFT JOIN query, plus the optional alertas and movimientos tables.
type PostgresLoader struct {
	pool *pgxpool.Pool
}

// NewPostgresLoader constructs a PostgresLoader backed by the given pool.
func NewPostgresLoader(pool *pgxpool.Pool) *PostgresLoader {
	return &PostgresLoader{pool: pool}
}

const joinedQuery = `
	SELECT i.producto_id, i.nombre, i.categoria_id, i.proveedor_id, i.ubicacion_id,
	       i.stock_actual, i.stock_minimo, i.punto_reorden,
	       i.costo_unitario, i.precio_venta,
	       i.ventas_mes_actual, i.ventas_mes_anterior, i.ventas_trimestre,
	       i.activo, i.fecha_ultima_compra, i.fecha_ultima_venta, i.fecha_creacion,
	       COALESCE(c.nombre_categoria, ''),
	       COALESCE(c.margen_promedio, 0),
	       COALESCE(p.nombre_proveedor, ''),
	       COALESCE(p.calificacion, 0),
	       COALESCE(p.tiempo_entrega_dias, 0),
	       COALESCE(u.seccion || '-' || u.pasillo || '-' || u.estante, '')
	FROM inventario i
	LEFT JOIN categorias c  ON i.categoria_id = c.categoria_id
	LEFT JOIN proveedores p ON i.proveedor_id = p.proveedor_id
	LEFT JOIN ubicaciones u ON i.ubicacion_id = u.ubicacion_id
	WHERE i.activo = true
	ORDER BY i.producto_id`

// Load runs the joined query and the optional side queries. A failure on the
// required tables is fatal and wraps ErrNoData; failures on the optional
// tables only mark them absent.
func (l *PostgresLoader) Load(ctx context.Context) (*Dataset, error) {
	rows, err := l.pool.Query(ctx, joinedQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query inventario: %v", ErrNoData, err)
	}
	defer rows.Close()

	var products []core.JoinedProduct
	skipped := 0
	for rows.Next() {
		var jp core.JoinedProduct
		if err := rows.Scan(
			&jp.ID, &jp.Name, &jp.CategoryID, &jp.SupplierID, &jp.LocationID,
			&jp.Stock, &jp.MinStock, &jp.ReorderPoint,
			&jp.UnitCost, &jp.SalePrice,
			&jp.SalesCurrentMonth, &jp.SalesPriorMonth, &jp.SalesQuarter,
			&jp.IsActive, &jp.LastPurchaseAt, &jp.LastSaleAt, &jp.CreatedAt,
			&jp.CategoryName, &jp.CategoryMargin,
			&jp.SupplierName, &jp.SupplierRating, &jp.LeadTimeDays,
			&jp.LocationCode,
		); err != nil {
			// One malformed row never aborts the batch.
			skipped++
			continue
		}
		if err := jp.Validate(); err != nil {
			skipped++
			continue
		}
		products = append(products, jp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate inventario rows: %v", ErrNoData, err)
	}

	ds := &Dataset{
		Products:  products,
		Alerts:    None[[]core.StockAlert](),
		Movements: None[[]core.StockMovement](),
		Skipped:   skipped,
		Source:    "postgres",
		LoadedAt:  time.Now(),
	}

	if alerts, err := l.loadAlerts(ctx); err == nil {
		ds.Alerts = Some(alerts)
	} else {
		log.Printf("loader: alertas unavailable: %v", err)
	}
	if movements, err := l.loadMovements(ctx); err == nil {
		ds.Movements = Some(movements)
	} else {
		log.Printf("loader: movimientos unavailable: %v", err)
	}

	return ds, nil
}

func (l *PostgresLoader) loadAlerts(ctx context.Context) ([]core.StockAlert, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT alerta_id, estado, fecha_generacion, fecha_resolucion
		FROM alertas
		WHERE estado = 'ACTIVA'
		ORDER BY fecha_generacion DESC`)
	if err != nil {
		return nil, fmt.Errorf("query alertas: %w", err)
	}
	defer rows.Close()

	var alerts []core.StockAlert
	for rows.Next() {
		var a core.StockAlert
		if err := rows.Scan(&a.ID, &a.State, &a.GeneratedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (l *PostgresLoader) loadMovements(ctx context.Context) ([]core.StockMovement, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT fecha_movimiento, producto_id, cantidad, tipo_movimiento
		FROM movimientos_inventario
		ORDER BY fecha_movimiento DESC
		LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("query movimientos: %w", err)
	}
	defer rows.Close()

	var movements []core.StockMovement
	for rows.Next() {
		var m core.StockMovement
		if err := rows.Scan(&m.Timestamp, &m.ProductID, &m.Quantity, &m.Type); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
