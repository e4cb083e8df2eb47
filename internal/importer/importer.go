package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dataco-storefront/internal/repository/catalog"
)

// CSVImporter reads supply-chain CSV exports and upserts the catalog.
// Export rows repeat one per order line, so each product is written once
// per run.
type CSVImporter struct {
	reader       *csv.Reader
	writer       catalog.Writer
	defaultStock int
}

func NewCSVImporter(r io.Reader, writer catalog.Writer, defaultStock int) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		writer:       writer,
		defaultStock: defaultStock,
	}
}

type csvRow struct {
	Department string
	Category   string
	Product    string
	Price      float64
	Cost       float64
	Status     int
}

// Run parses CSV rows and upserts departments, categories and products.
// Returns the number of distinct products written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	deptIDs := map[string]int64{}
	catIDs := map[string]int64{}
	seen := map[string]bool{}
	imported := 0

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		productKey := row.Category + "\x00" + row.Product
		if seen[productKey] {
			continue
		}
		seen[productKey] = true

		deptID, ok := deptIDs[row.Department]
		if !ok {
			deptID, err = i.writer.EnsureDepartment(ctx, row.Department)
			if err != nil {
				return imported, fmt.Errorf("ensure department %q: %w", row.Department, err)
			}
			deptIDs[row.Department] = deptID
		}

		catKey := row.Department + "\x00" + row.Category
		catID, ok := catIDs[catKey]
		if !ok {
			catID, err = i.writer.EnsureCategory(ctx, deptID, row.Category)
			if err != nil {
				return imported, fmt.Errorf("ensure category %q: %w", row.Category, err)
			}
			catIDs[catKey] = catID
		}

		_, err = i.writer.UpsertProduct(ctx, catID, catalog.ProductUpsert{
			Name:     row.Product,
			Price:    row.Price,
			Cost:     row.Cost,
			Stock:    i.defaultStock,
			IsActive: row.Status == 0, // export convention: 0 means available
		})
		if err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", row.Product, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	dept := pick(record, index, "Department Name")
	cat := pick(record, index, "Category Name")
	product := pick(record, index, "Product Name")
	if dept == "" || cat == "" || product == "" {
		return nil
	}

	price, _ := strconv.ParseFloat(pick(record, index, "Product Price"), 64)
	cost, _ := strconv.ParseFloat(pick(record, index, "Product Cost"), 64)
	status, _ := strconv.Atoi(pick(record, index, "Product Status"))

	return &csvRow{
		Department: dept,
		Category:   cat,
		Product:    product,
		Price:      price,
		Cost:       cost,
		Status:     status,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
