package analytics

import (
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"ferreteria-bi/internal/core"
)

const clusterCount = 5

// ProductCluster assigns one product to a behaviour segment.
type ProductCluster struct {
	ProductID   int    `json:"producto_id"`
	Name        string `json:"nombre"`
	Cluster     int    `json:"cluster"`
	ClusterName string `json:"nombre_cluster"`
}

// ClusterProfile summarizes one segment for presentation.
type ClusterProfile struct {
	Cluster      int     `json:"cluster"`
	Name         string  `json:"nombre"`
	Products     int     `json:"num_productos"`
	AvgSales     float64 `json:"ventas_promedio"`
	AvgMarginPct float64 `json:"margen_promedio"`
	AvgTurnover  float64 `json:"rotacion_promedio"`
	AvgPrice     float64 `json:"precio_promedio"`
}

// obs wraps a feature vector so the kmeans package can partition it while we
// keep track of which product it came from.
type obs struct {
	idx    int
	coords clusters.Coordinates
}

func (o obs) Coordinates() clusters.Coordinates { return o.coords }

func (o obs) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// ClusterProducts partitions the catalog into five behaviour segments with
// k-means over standardized sales, turnover, margin and pricing features. Each
// segment is named by comparing its averages against catalog quantiles.
// Catalogs smaller than the segment count are returned unclustered.
func ClusterProducts(products []core.EnrichedProduct) ([]ProductCluster, []ClusterProfile, error) {
	feats := Prepare(products)
	if len(feats) < clusterCount {
		return nil, nil, fmt.Errorf("clustering requires at least %d products, got %d", clusterCount, len(feats))
	}

	rows := make([][]float64, len(feats))
	for i, f := range feats {
		rows[i] = []float64{
			f.SalesCurrent, f.AnnualTurnover, f.AbsoluteMargin,
			f.PriceRatio, f.Trend, f.StockSalesRatio,
		}
	}
	scaled := standardize(rows)

	var data clusters.Observations
	for i, row := range scaled {
		data = append(data, obs{idx: i, coords: clusters.Coordinates(row)})
	}

	km := kmeans.New()
	partition, err := km.Partition(data, clusterCount)
	if err != nil {
		return nil, nil, fmt.Errorf("partition products: %w", err)
	}

	names := nameClusters(feats, partition)

	var assignments []ProductCluster
	profiles := make([]ClusterProfile, 0, len(partition))
	for ci, cluster := range partition {
		var sales, margin, turnover, price float64
		for _, o := range cluster.Observations {
			f := feats[o.(obs).idx]
			assignments = append(assignments, ProductCluster{
				ProductID:   f.ProductID,
				Name:        f.Name,
				Cluster:     ci,
				ClusterName: names[ci],
			})
			sales += f.SalesCurrent
			margin += f.MarginPct
			turnover += f.AnnualTurnover
			price += f.SalePrice
		}
		n := float64(len(cluster.Observations))
		if n == 0 {
			continue
		}
		profiles = append(profiles, ClusterProfile{
			Cluster:      ci,
			Name:         names[ci],
			Products:     len(cluster.Observations),
			AvgSales:     sales / n,
			AvgMarginPct: margin / n,
			AvgTurnover:  turnover / n,
			AvgPrice:     price / n,
		})
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].ProductID < assignments[j].ProductID
	})
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].AvgSales > profiles[j].AvgSales
	})
	return assignments, profiles, nil
}

// nameClusters labels each segment by where its averages sit relative to the
// catalog's sales, margin and turnover quantiles.
func nameClusters(feats []Features, partition clusters.Clusters) map[int]string {
	sales := make([]float64, len(feats))
	margins := make([]float64, len(feats))
	turnovers := make([]float64, len(feats))
	for i, f := range feats {
		sales[i] = f.SalesCurrent
		margins[i] = f.MarginPct
		turnovers[i] = f.AnnualTurnover
	}
	salesHigh := quantile(sales, 0.80)
	marginGood := quantile(margins, 0.70)
	marginHigh := quantile(margins, 0.80)
	turnoverLow := quantile(turnovers, 0.30)

	names := make(map[int]string, len(partition))
	for ci, cluster := range partition {
		var avgSales, avgMargin, avgTurnover float64
		n := float64(len(cluster.Observations))
		if n == 0 {
			names[ci] = "Estándar"
			continue
		}
		for _, o := range cluster.Observations {
			f := feats[o.(obs).idx]
			avgSales += f.SalesCurrent / n
			avgMargin += f.MarginPct / n
			avgTurnover += f.AnnualTurnover / n
		}
		switch {
		case avgSales > salesHigh && avgMargin > marginGood:
			names[ci] = "Estrellas (Alta Venta, Alto Margen)"
		case avgSales > salesHigh:
			names[ci] = "Volumen (Alta Venta, Bajo Margen)"
		case avgMargin > marginHigh:
			names[ci] = "Premium (Baja Venta, Alto Margen)"
		case avgTurnover < turnoverLow:
			names[ci] = "Lento Movimiento"
		default:
			names[ci] = "Estándar"
		}
	}
	return names
}
