// Command seed bulk-loads a CSV file into the catalog through the same
// ingestion pipeline the upload endpoint uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hlubek/productcatalog/config"
	"github.com/hlubek/productcatalog/ingest"
	"github.com/hlubek/productcatalog/repository"
	"github.com/hlubek/productcatalog/storage"
)

func main() {
	file := flag.String("file", "sample_products.csv", "CSV file to load")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	cfg := config.Load()
	db, stopDB, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer stopDB()

	ctx := context.Background()
	repo := repository.NewProductRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	result, err := ingest.NewPipeline(repo).Ingest(ctx, data)
	if err != nil {
		return err
	}

	fmt.Printf("Stored %d products\n", result.Stored)
	for _, line := range result.Failed {
		fmt.Println(line)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total products in catalog: %d\n", count)
	return nil
}
