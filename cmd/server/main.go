package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	webAdapter "ferreteria-bi/internal/adapters/web"
	"ferreteria-bi/internal/app"
	"ferreteria-bi/internal/core"
	"ferreteria-bi/internal/db"
	"ferreteria-bi/internal/loader"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	var (
		dataLoader loader.Loader
		users      core.UserService
	)

	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.NewPool(ctx)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		dataLoader = loader.NewPostgresLoader(pool)
		users = core.NewUserService(pool)
		log.Println("data source: postgres")
	} else {
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		dataLoader = loader.NewCSVLoader(dir)
		log.Printf("data source: csv (%s)", dir)
	}

	cache := app.NewSnapshotCache(cacheTTL())
	svc := app.NewDashboardService(dataLoader, users, cache)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// cacheTTL reads CACHE_TTL in seconds; 0 selects the service default.
func cacheTTL() time.Duration {
	raw := os.Getenv("CACHE_TTL")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("invalid CACHE_TTL %q, using default", raw)
		return 0
	}
	return time.Duration(n) * time.Second
}
