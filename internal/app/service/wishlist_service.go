package service

import (
	"errors"

	apperrors "github.com/abdulhadi30211/luminvera-backend/internal/errors"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrWishlistItemAlreadyExists = errors.New("product already in wishlist")

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) (*model.WishlistItem, error)
	RemoveFromWishlist(userID, productID uint) error
	ClearWishlist(userID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	logger.Debug("Fetching user wishlist", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return items, nil
}

func (s *wishlistService) AddToWishlist(userID, productID uint) (*model.WishlistItem, error) {
	logger.Info("Adding item to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}

	if err := s.wishlistRepo.Create(item); err != nil {
		// The unique index rejects the second add for the same product,
		// whether from a repeated click or a concurrent request.
		if apperrors.IsDuplicateKey(err) {
			logger.Warn("Product already in wishlist", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrWishlistItemAlreadyExists
		}
		return nil, err
	}

	logger.Info("Item added to wishlist successfully", map[string]interface{}{
		"wishlist_item_id": item.ID,
		"user_id":          userID,
		"product_id":       productID,
	})
	return item, nil
}

// RemoveFromWishlist deletes by (user, product) filter and succeeds whether
// or not the item was present.
func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	logger.Info("Removing item from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	return s.wishlistRepo.Delete(userID, productID)
}

func (s *wishlistService) ClearWishlist(userID uint) error {
	logger.Info("Clearing user wishlist", map[string]interface{}{
		"user_id": userID,
	})

	return s.wishlistRepo.DeleteByUserID(userID)
}
