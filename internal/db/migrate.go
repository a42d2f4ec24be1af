package db

import (
	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.WishlistItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	if err := seedProducts(); err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "Home & Kitchen", Slug: "home-kitchen", ImageURL: "https://images.pexels.com/photos/1080721/pexels-photo-1080721.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 245},
		{Name: "Fashion & Travel", Slug: "fashion-travel", ImageURL: "https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 189},
		{Name: "Health & Beauty", Slug: "health-beauty", ImageURL: "https://images.pexels.com/photos/3762879/pexels-photo-3762879.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 156},
		{Name: "Tech & Gadgets", Slug: "tech-gadgets", ImageURL: "https://images.pexels.com/photos/393047/pexels-photo-393047.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 312},
		{Name: "Baby & Family", Slug: "baby-family", ImageURL: "https://images.pexels.com/photos/1166473/pexels-photo-1166473.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 98},
		{Name: "Pets & Outdoors", Slug: "pets-outdoors", ImageURL: "https://images.pexels.com/photos/1108099/pexels-photo-1108099.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 134},
		{Name: "Auto & DIY", Slug: "auto-diy", ImageURL: "https://images.pexels.com/photos/1319460/pexels-photo-1319460.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 87},
		{Name: "Office & Stationery", Slug: "office-stationery", ImageURL: "https://images.pexels.com/photos/159751/book-address-book-learning-learn-159751.jpeg?auto=compress&cs=tinysrgb&w=800", ProductCount: 123},
	}

	if err := DB.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Categories seeded", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}

func seedProducts() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categoryIDs, err := categoryIDsBySlug()
	if err != nil {
		return err
	}

	products := []model.Product{
		{
			Name:        "Premium Electric Kettle",
			Slug:        "premium-electric-kettle",
			Description: "Stainless steel electric kettle with temperature control",
			Price:       49.99,
			CategoryID:  categoryIDs["home-kitchen"],
			Subcategory: "Kitchen Appliances",
			ImageURL:    "https://images.pexels.com/photos/6315801/pexels-photo-6315801.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.5,
			InStock:     true,
		},
		{
			Name:        "Wireless Headphones",
			Slug:        "wireless-headphones",
			Description: "Noise-cancelling wireless headphones with premium sound",
			Price:       129.99,
			CategoryID:  categoryIDs["tech-gadgets"],
			Subcategory: "Audio",
			ImageURL:    "https://images.pexels.com/photos/3945667/pexels-photo-3945667.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.8,
			InStock:     true,
		},
		{
			Name:        "Leather Handbag",
			Slug:        "leather-handbag",
			Description: "Genuine leather handbag with multiple compartments",
			Price:       89.99,
			CategoryID:  categoryIDs["fashion-travel"],
			Subcategory: "Bags",
			ImageURL:    "https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.3,
			InStock:     true,
		},
		{
			Name:        "Smart Watch",
			Slug:        "smart-watch",
			Description: "Fitness tracking smartwatch with heart rate monitor",
			Price:       199.99,
			CategoryID:  categoryIDs["tech-gadgets"],
			Subcategory: "Wearables",
			ImageURL:    "https://images.pexels.com/photos/393047/pexels-photo-393047.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.6,
			InStock:     true,
		},
		{
			Name:        "Organic Face Cream",
			Slug:        "organic-face-cream",
			Description: "Natural moisturizing face cream with SPF protection",
			Price:       24.99,
			CategoryID:  categoryIDs["health-beauty"],
			Subcategory: "Skincare",
			ImageURL:    "https://images.pexels.com/photos/3762879/pexels-photo-3762879.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.4,
			InStock:     true,
		},
		{
			Name:        "Baby Soft Toy",
			Slug:        "baby-soft-toy",
			Description: "Soft plush toy perfect for babies and toddlers",
			Price:       19.99,
			CategoryID:  categoryIDs["baby-family"],
			Subcategory: "Toys",
			ImageURL:    "https://images.pexels.com/photos/1166473/pexels-photo-1166473.jpeg?auto=compress&cs=tinysrgb&w=800",
			Rating:      4.7,
			InStock:     true,
		},
	}

	if err := DB.Create(&products).Error; err != nil {
		return err
	}

	logger.Info("Products seeded", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func categoryIDsBySlug() (map[string]*uint, error) {
	var categories []model.Category
	if err := DB.Find(&categories).Error; err != nil {
		return nil, err
	}

	ids := make(map[string]*uint, len(categories))
	for i := range categories {
		ids[categories[i].Slug] = &categories[i].ID
	}
	return ids, nil
}
