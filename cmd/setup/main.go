// Command setup administers the PostgreSQL side of the dashboard: schema
// creation, seeding from the CSV drops, backups, and routine maintenance.
//
// Usage:
//
//	setup --setup              apply schema and seed from DATA_DIR
//	setup --reload             re-seed data tables from DATA_DIR
//	setup --test               check connectivity and print table counts
//	setup --backup             pg_dump into backups/
//	setup --optimize           VACUUM ANALYZE the data tables
//	setup --create-user u:p:r  insert a dashboard user (role optional)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ferreteria-bi/internal/db"
	"ferreteria-bi/internal/loader"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var dataTables = []string{
	"inventario", "categorias", "proveedores", "ubicaciones",
	"alertas", "movimientos_inventario",
}

func main() {
	_ = godotenv.Load()

	var (
		doSetup    = flag.Bool("setup", false, "apply schema and seed from DATA_DIR")
		doReload   = flag.Bool("reload", false, "re-seed data tables from DATA_DIR")
		doTest     = flag.Bool("test", false, "check connectivity and print table counts")
		doBackup   = flag.Bool("backup", false, "pg_dump the database into backups/")
		doOptimize = flag.Bool("optimize", false, "VACUUM ANALYZE the data tables")
		createUser = flag.String("create-user", "", "insert a dashboard user as username:password[:role]")
	)
	flag.Parse()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	switch {
	case *doSetup:
		if err := applySchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		if err := seed(ctx, pool); err != nil {
			log.Fatalf("seed: %v", err)
		}
	case *doReload:
		if err := seed(ctx, pool); err != nil {
			log.Fatalf("seed: %v", err)
		}
	case *doTest:
		if err := testConnection(ctx, pool); err != nil {
			log.Fatalf("test: %v", err)
		}
	case *doBackup:
		if err := backup(); err != nil {
			log.Fatalf("backup: %v", err)
		}
	case *doOptimize:
		if err := optimize(ctx, pool); err != nil {
			log.Fatalf("optimize: %v", err)
		}
	case *createUser != "":
		if err := insertUser(ctx, pool, *createUser); err != nil {
			log.Fatalf("create-user: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func applySchema(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/001_schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	fmt.Println("schema applied")
	return nil
}

// seed truncates the data tables and copies the CSV drops in. Runs in one
// transaction so a bad file leaves the previous data intact.
func seed(ctx context.Context, pool *pgxpool.Pool) error {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	tables, err := loader.NewCSVLoader(dir).LoadTables()
	if err != nil {
		return err
	}
	if tables.Skipped > 0 {
		fmt.Printf("warning: %d malformed product rows skipped\n", tables.Skipped)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"TRUNCATE movimientos_inventario, alertas, inventario, ubicaciones, proveedores, categorias CASCADE",
	); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	catRows := make([][]any, len(tables.Categories))
	for i, c := range tables.Categories {
		catRows[i] = []any{c.ID, c.Name, c.AvgMargin, c.IsActive}
	}
	if err := copyRows(ctx, tx, "categorias",
		[]string{"categoria_id", "nombre_categoria", "margen_promedio", "activo"}, catRows); err != nil {
		return err
	}

	supRows := make([][]any, len(tables.Suppliers))
	for i, s := range tables.Suppliers {
		supRows[i] = []any{s.ID, s.Name, s.Rating, s.LeadTimeDays}
	}
	if err := copyRows(ctx, tx, "proveedores",
		[]string{"proveedor_id", "nombre_proveedor", "calificacion", "tiempo_entrega_dias"}, supRows); err != nil {
		return err
	}

	locRows := make([][]any, len(tables.Locations))
	for i, l := range tables.Locations {
		locRows[i] = []any{l.ID, l.Section, l.Aisle, l.Shelf}
	}
	if err := copyRows(ctx, tx, "ubicaciones",
		[]string{"ubicacion_id", "seccion", "pasillo", "estante"}, locRows); err != nil {
		return err
	}

	prodRows := make([][]any, len(tables.Products))
	for i, p := range tables.Products {
		prodRows[i] = []any{
			p.ID, p.Name, p.CategoryID, p.SupplierID, p.LocationID,
			p.Stock, p.MinStock, p.ReorderPoint, p.UnitCost, p.SalePrice,
			p.SalesCurrentMonth, p.SalesPriorMonth, p.SalesQuarter,
			p.IsActive, p.LastPurchaseAt, p.LastSaleAt, p.CreatedAt,
		}
	}
	if err := copyRows(ctx, tx, "inventario", []string{
		"producto_id", "nombre", "categoria_id", "proveedor_id", "ubicacion_id",
		"stock_actual", "stock_minimo", "punto_reorden", "costo_unitario", "precio_venta",
		"ventas_mes_actual", "ventas_mes_anterior", "ventas_trimestre",
		"activo", "fecha_ultima_compra", "fecha_ultima_venta", "fecha_creacion",
	}, prodRows); err != nil {
		return err
	}

	alertRows := make([][]any, len(tables.Alerts))
	for i, a := range tables.Alerts {
		alertRows[i] = []any{a.State, a.GeneratedAt, a.ResolvedAt}
	}
	if err := copyRows(ctx, tx, "alertas",
		[]string{"estado", "fecha_generacion", "fecha_resolucion"}, alertRows); err != nil {
		return err
	}

	movRows := make([][]any, len(tables.Movements))
	for i, m := range tables.Movements {
		movRows[i] = []any{m.Timestamp, m.ProductID, m.Quantity, m.Type}
	}
	if err := copyRows(ctx, tx, "movimientos_inventario",
		[]string{"fecha_movimiento", "producto_id", "cantidad", "tipo_movimiento"}, movRows); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	fmt.Printf("seeded: %d productos, %d categorias, %d proveedores, %d ubicaciones, %d alertas, %d movimientos\n",
		len(tables.Products), len(tables.Categories), len(tables.Suppliers),
		len(tables.Locations), len(tables.Alerts), len(tables.Movements))
	return nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy %s: wrote %d of %d rows", table, n, len(rows))
	}
	return nil
}

func testConnection(ctx context.Context, pool *pgxpool.Pool) error {
	fmt.Println("connection ok")
	for _, table := range dataTables {
		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			fmt.Printf("  %-25s unavailable (%v)\n", table, err)
			continue
		}
		fmt.Printf("  %-25s %d rows\n", table, count)
	}
	return nil
}

func backup() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if err := os.MkdirAll("backups", 0o755); err != nil {
		return err
	}
	out := filepath.Join("backups", "ferreteria_"+time.Now().Format("20060102_150405")+".sql")

	cmd := exec.Command("pg_dump", "--no-owner", "--file", out, dbURL)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w", err)
	}
	fmt.Printf("backup written to %s\n", out)
	return nil
}

func optimize(ctx context.Context, pool *pgxpool.Pool) error {
	for _, table := range dataTables {
		if _, err := pool.Exec(ctx, "VACUUM ANALYZE "+table); err != nil {
			return fmt.Errorf("vacuum %s: %w", table, err)
		}
		fmt.Printf("  %s optimized\n", table)
	}
	return nil
}

func insertUser(ctx context.Context, pool *pgxpool.Pool, spec string) error {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("expected username:password[:role], got %q", spec)
	}
	role := "viewer"
	if len(parts) == 3 && parts[2] != "" {
		role = parts[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(parts[1]), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = $2, role = $3`,
		parts[0], string(hash), role,
	); err != nil {
		return err
	}
	fmt.Printf("user %q ready (role %s)\n", parts[0], role)
	return nil
}
