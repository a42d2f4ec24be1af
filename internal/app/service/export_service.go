package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Products"

var exportHeaders = []string{
	"ID", "Name", "Slug", "Category", "Subcategory",
	"Price", "Rating", "In Stock", "Stock Quantity", "Created At",
}

// ExportService renders the product catalog as an XLSX workbook for
// back-office download.
type ExportService interface {
	ExportProducts() ([]byte, string, error)
}

type exportService struct {
	productRepo repository.ProductRepository
}

func NewExportService(productRepo repository.ProductRepository) ExportService {
	return &exportService{productRepo: productRepo}
}

// ExportProducts returns the workbook bytes and a timestamped filename
func (s *exportService) ExportProducts() ([]byte, string, error) {
	products, err := s.productRepo.FindAllForExport()
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		row := []interface{}{
			p.ID, p.Name, p.Slug, categoryName, p.Subcategory,
			p.Price, p.Rating, p.InStock, p.StockQuantity,
			p.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write export workbook", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	logger.Info("Product catalog exported", map[string]interface{}{
		"count":    len(products),
		"filename": filename,
	})
	return buf.Bytes(), filename, nil
}
