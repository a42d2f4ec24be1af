package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/abdulhadi30211/luminvera-backend/config"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/abdulhadi30211/luminvera-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Bulk catalog import from an XLSX workbook. Expected columns:
// Name | Description | Price | Category Slug | Subcategory | Image URL | Stock Quantity
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	// Cache category lookups so repeated slugs hit the DB once
	categoryIDs := make(map[string]*uint)

	var products []model.Product
	seenSlugs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])

		if name == "" || priceStr == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		slug := util.Slugify(name)
		if seenSlugs[slug] {
			skipped++
			continue
		}
		seenSlugs[slug] = true

		product := model.Product{
			Name:        name,
			Slug:        slug,
			Description: description,
			Price:       price,
			InStock:     true,
		}

		if len(row) > 3 {
			categorySlug := strings.TrimSpace(row[3])
			if categorySlug != "" {
				id, cached := categoryIDs[categorySlug]
				if !cached {
					category, err := categoryRepo.FindBySlug(categorySlug)
					if err == nil {
						id = &category.ID
					}
					categoryIDs[categorySlug] = id
				}
				if id == nil {
					fmt.Printf("Unknown category %q for product %q, importing without category\n", categorySlug, name)
				}
				product.CategoryID = id
			}
		}
		if len(row) > 4 {
			product.Subcategory = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			product.ImageURL = strings.TrimSpace(row[5])
		}
		if len(row) > 6 {
			if qty, err := strconv.Atoi(strings.TrimSpace(row[6])); err == nil && qty >= 0 {
				product.StockQuantity = qty
				product.InStock = qty > 0
			}
		}

		products = append(products, product)
	}

	return products, skipped, nil
}
