package service

import (
	"errors"
	"strconv"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/abdulhadi30211/luminvera-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductInput carries the writable product fields for create/update
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	CategorySlug  string
	Subcategory   string
	ImageURL      string
	InStock       bool
	StockQuantity int
}

type ProductService interface {
	GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(idOrSlug string) (*model.Product, error)
	GetCategories() ([]model.Category, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to fetch products", err, map[string]interface{}{
			"category": filter.CategorySlug,
			"search":   filter.Search,
		})
		return nil, 0, err
	}

	logger.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

// GetProduct resolves either a numeric id or a slug, matching the storefront
// URLs that use both forms.
func (s *productService) GetProduct(idOrSlug string) (*model.Product, error) {
	if id, err := strconv.ParseUint(idOrSlug, 10, 32); err == nil {
		product, err := s.productRepo.FindByID(uint(id))
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	product, err := s.productRepo.FindBySlug(idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"id_or_slug": idOrSlug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"id_or_slug": idOrSlug,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"category": input.CategorySlug,
	})

	product := &model.Product{
		Name:          input.Name,
		Slug:          util.Slugify(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		Subcategory:   input.Subcategory,
		ImageURL:      input.ImageURL,
		InStock:       input.InStock,
		StockQuantity: input.StockQuantity,
	}

	if input.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(input.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = &category.ID
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Subcategory = input.Subcategory
	product.ImageURL = input.ImageURL
	product.InStock = input.InStock
	product.StockQuantity = input.StockQuantity

	if input.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(input.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = &category.ID
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	return s.productRepo.Delete(id)
}
