package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ferreteria-bi/internal/loader"
)

const (
	categoriesCSV = "categoria_id,nombre_categoria,margen_promedio,activo\n" +
		"1,Herramientas,30.5,true\n" +
		"2,Pinturas,25.0,true\n"

	suppliersCSV = "proveedor_id,nombre_proveedor,calificacion,tiempo_entrega_dias\n" +
		"1,ACME,4.5,7\n"

	locationsCSV = "ubicacion_id,seccion,pasillo,estante\n" +
		"1,A,1,2\n"

	inventoryCSV = "producto_id,nombre,categoria_id,proveedor_id,ubicacion_id," +
		"stock_actual,stock_minimo,punto_reorden,costo_unitario,precio_venta," +
		"ventas_mes_actual,ventas_mes_anterior,ventas_trimestre,activo," +
		"fecha_ultima_compra,fecha_ultima_venta,fecha_creacion\n" +
		"1,Martillo,1,1,1,20,5,10,50.00,75.00,10,8,30,true,2025-01-10,2025-02-01,2024-06-01\n" +
		"2,Brocha,2,1,1,5,2,4,10.00,18.00,3,5,12,true,,,\n" +
		"3,Inactivo,1,1,1,5,2,4,10.00,18.00,3,5,12,false,,,\n" +
		"4,Roto,1,1,1,not-a-number,2,4,10.00,18.00,3,5,12,true,,,\n"

	alertsCSV = "alerta_id,estado,fecha_generacion,fecha_resolucion\n" +
		"1,ACTIVA,2025-02-01 08:00:00,\n"
)

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func requiredFiles() map[string]string {
	return map[string]string{
		"inventario_expandido.csv": inventoryCSV,
		"categorias.csv":           categoriesCSV,
		"proveedores.csv":          suppliersCSV,
		"ubicaciones.csv":          locationsCSV,
	}
}

func TestCSVLoader_Load(t *testing.T) {
	dir := writeDataDir(t, requiredFiles())
	ds, err := loader.NewCSVLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Active valid products only: Martillo and Brocha. The inactive row is
	// filtered, the malformed one counted as skipped.
	if len(ds.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(ds.Products))
	}
	if ds.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", ds.Skipped)
	}
	if ds.Source != "csv" {
		t.Errorf("source = %s, want csv", ds.Source)
	}

	martillo := ds.Products[0]
	if martillo.Name != "Martillo" {
		t.Fatalf("first product = %s, want Martillo", martillo.Name)
	}
	if martillo.CategoryName != "Herramientas" {
		t.Errorf("category join = %q, want Herramientas", martillo.CategoryName)
	}
	if martillo.SupplierName != "ACME" {
		t.Errorf("supplier join = %q, want ACME", martillo.SupplierName)
	}
	if martillo.LocationCode != "A-1-2" {
		t.Errorf("location code = %q, want A-1-2", martillo.LocationCode)
	}
	if martillo.LastPurchaseAt == nil {
		t.Error("last purchase date should be parsed")
	}
}

func TestCSVLoader_OptionalTables(t *testing.T) {
	// Without the alerts file the table is absent, not empty.
	dir := writeDataDir(t, requiredFiles())
	ds, err := loader.NewCSVLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Alerts.Present() {
		t.Error("alerts should be absent without the file")
	}

	files := requiredFiles()
	files["alertas_sample.csv"] = alertsCSV
	dir = writeDataDir(t, files)
	ds, err = loader.NewCSVLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	alerts, ok := ds.Alerts.Get()
	if !ok {
		t.Fatal("alerts should be present")
	}
	if len(alerts) != 1 || alerts[0].State != "ACTIVA" {
		t.Errorf("alerts = %+v, want one ACTIVA row", alerts)
	}
}

func TestCSVLoader_MissingRequiredFile(t *testing.T) {
	files := requiredFiles()
	delete(files, "inventario_expandido.csv")
	dir := writeDataDir(t, files)

	_, err := loader.NewCSVLoader(dir).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing required file")
	}
	if !errors.Is(err, loader.ErrNoData) {
		t.Errorf("error should wrap ErrNoData, got %v", err)
	}
}

func TestCSVLoader_MissingJoinRollsUpEmpty(t *testing.T) {
	files := requiredFiles()
	// A product referencing a nonexistent category still loads; the join
	// fields stay zero-valued like a SQL LEFT JOIN.
	files["inventario_expandido.csv"] = "producto_id,nombre,categoria_id,proveedor_id,ubicacion_id," +
		"stock_actual,stock_minimo,punto_reorden,costo_unitario,precio_venta," +
		"ventas_mes_actual,ventas_mes_anterior,ventas_trimestre,activo," +
		"fecha_ultima_compra,fecha_ultima_venta,fecha_creacion\n" +
		"1,Huerfano,99,1,1,20,5,10,50.00,75.00,10,8,30,true,,,\n"
	dir := writeDataDir(t, files)

	ds, err := loader.NewCSVLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Products) != 1 {
		t.Fatalf("products = %d, want 1", len(ds.Products))
	}
	if ds.Products[0].CategoryName != "" {
		t.Errorf("category name = %q, want empty for missing join", ds.Products[0].CategoryName)
	}
}

func TestCSVLoader_LoadTables(t *testing.T) {
	dir := writeDataDir(t, requiredFiles())
	tables, err := loader.NewCSVLoader(dir).LoadTables()
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	// Raw read keeps the inactive product; only the malformed row is dropped.
	if len(tables.Products) != 3 {
		t.Errorf("products = %d, want 3", len(tables.Products))
	}
	if tables.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", tables.Skipped)
	}
	if len(tables.Categories) != 2 {
		t.Errorf("categories = %d, want 2", len(tables.Categories))
	}
}
