package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dataco-storefront/internal/config"
	"dataco-storefront/internal/db"
	"dataco-storefront/internal/importer"
	"dataco-storefront/internal/repository/catalog"
)

func main() {
	var (
		filePath     string
		defaultStock int
	)
	flag.StringVar(&filePath, "file", "", "Path to supply-chain CSV export")
	flag.IntVar(&defaultStock, "stock", 100, "Stock level assigned to imported products")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalog.NewPostgresWriter(pool), defaultStock)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
