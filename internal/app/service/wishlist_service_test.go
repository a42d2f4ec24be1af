package service

import (
	"testing"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistRepo := repository.NewWishlistRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

	user := &model.User{Email: "wish@example.com", PasswordHash: "hash", EmailVerified: true}
	testDB.Create(user)
	product := &model.Product{Name: "Smart Watch", Slug: "smart-watch", Price: 199.99, InStock: true}
	testDB.Create(product)

	return wishlistService, user, product, testDB
}

func TestWishlistService_AddToWishlist(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	item, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, item.UserID)
	assert.Equal(t, product.ID, item.ProductID)
}

func TestWishlistService_AddToWishlist_Duplicate(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)

	_, err = wishlistService.AddToWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemAlreadyExists)
}

func TestWishlistService_AddToWishlist_ProductNotFound(t *testing.T) {
	wishlistService, user, _, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, 99999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_RemoveFromWishlist_Idempotent(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, wishlistService.RemoveFromWishlist(user.ID, product.ID))

	// Second remove is a no-op, not an error
	assert.NoError(t, wishlistService.RemoveFromWishlist(user.ID, product.ID))

	items, err := wishlistService.GetUserWishlist(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestWishlistService_ReAddAfterRemove(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)
	require.NoError(t, wishlistService.RemoveFromWishlist(user.ID, product.ID))

	// The unique index must not block a fresh add after removal
	_, err = wishlistService.AddToWishlist(user.ID, product.ID)
	assert.NoError(t, err)
}

func TestWishlistService_ClearWishlist(t *testing.T) {
	wishlistService, user, product, testDB := setupWishlistServiceTest(t)

	second := &model.Product{Name: "Leather Handbag", Slug: "leather-handbag", Price: 89.99, InStock: true}
	testDB.Create(second)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)
	_, err = wishlistService.AddToWishlist(user.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, wishlistService.ClearWishlist(user.ID))

	items, err := wishlistService.GetUserWishlist(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	assert.NoError(t, wishlistService.ClearWishlist(user.ID))
}
