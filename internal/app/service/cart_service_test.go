package service

import (
	"errors"
	"testing"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:         "test@example.com",
		PasswordHash:  "hash",
		EmailVerified: true,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:    "Premium Electric Kettle",
		Slug:    "premium-electric-kettle",
		Price:   49.99,
		InStock: true,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_GetUserCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Initially empty
	items, err := cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 0)

	_, err = cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	items, err = cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, product.ID, items[0].Product.ID)
}

func TestCartService_GetUserCart_NewestFirst(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	second := &model.Product{
		Name:    "Wireless Headphones",
		Slug:    "wireless-headphones",
		Price:   129.99,
		InStock: true,
	}
	testDB.Create(second)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 1)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ProductID, "most recent line should come first")
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, user.ID, item.UserID)
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, 3, item.Quantity)
}

func TestCartService_AddToCart_MergesExistingLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	first, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	second, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	// Same line, summed quantity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = cartService.AddToCart(user.ID, product.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 99999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateCartItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cartService.UpdateCartItem(user.ID, item.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 7, updated.Quantity)
}

func TestCartService_UpdateCartItem_ZeroQuantityRemovesLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cartService.UpdateCartItem(user.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, updated)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateCartItem_NegativeQuantityRemovesLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cartService.UpdateCartItem(user.ID, item.ID, -5)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateCartItem(user.ID, 99999, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_OtherUsersLine(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:         "other@example.com",
		PasswordHash:  "hash",
		EmailVerified: true,
	}
	testDB.Create(other)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	// Another user's line looks like a missing line, and stays untouched
	_, err = cartService.UpdateCartItem(other.ID, item.ID, 9)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_RemoveFromCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, item.ID)
	assert.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestCartService_RemoveFromCart_Idempotent(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, cartService.RemoveFromCart(user.ID, item.ID))

	// Removing an already-removed line still succeeds
	assert.NoError(t, cartService.RemoveFromCart(user.ID, item.ID))
}

func TestCartService_RemoveFromCart_OtherUsersLine(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:         "other@example.com",
		PasswordHash:  "hash",
		EmailVerified: true,
	}
	testDB.Create(other)

	item, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(other.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	second := &model.Product{
		Name:    "Smart Watch",
		Slug:    "smart-watch",
		Price:   199.99,
		InStock: true,
	}
	testDB.Create(second)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 2)
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(user.ID))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	// Clearing an empty cart is fine
	assert.NoError(t, cartService.ClearCart(user.ID))
}

func TestCartService_ClearCart_OnlyOwnLines(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:         "other@example.com",
		PasswordHash:  "hash",
		EmailVerified: true,
	}
	testDB.Create(other)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(other.ID, product.ID, 4)
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(user.ID))

	otherItems, err := cartService.GetUserCart(other.ID)
	require.NoError(t, err)
	assert.Len(t, otherItems, 1)
}

func TestCartTotal(t *testing.T) {
	items := []model.CartItem{
		{Quantity: 2, Product: model.Product{Price: 10.00}},
		{Quantity: 3, Product: model.Product{Price: 5.00}},
	}
	assert.InDelta(t, 35.00, CartTotal(items), 0.0001)
}

func TestCartTotal_Empty(t *testing.T) {
	assert.Equal(t, 0.0, CartTotal(nil))
}

func TestCartTotal_OutOfStockStillCounts(t *testing.T) {
	items := []model.CartItem{
		{Quantity: 1, Product: model.Product{Price: 20.00, InStock: false}},
	}
	assert.InDelta(t, 20.00, CartTotal(items), 0.0001)
}

// racingCartRepo simulates losing the insert race: the first FindByUserAndProduct
// reports no line, Create fails with a unique-constraint error, and the re-read
// sees the row the concurrent request inserted.
type racingCartRepo struct {
	repository.CartRepository
	db        *gorm.DB
	raced     bool
	competing *model.CartItem
}

func (r *racingCartRepo) FindByUserAndProduct(userID, productID uint) (*model.CartItem, error) {
	if !r.raced {
		return nil, gorm.ErrRecordNotFound
	}
	return r.CartRepository.FindByUserAndProduct(userID, productID)
}

func (r *racingCartRepo) Create(item *model.CartItem) error {
	if !r.raced {
		r.raced = true
		// The competing request commits first
		if err := r.db.Create(r.competing).Error; err != nil {
			return err
		}
		return errors.New(`duplicate key value violates unique constraint "idx_cart_items_user_product"`)
	}
	return r.CartRepository.Create(item)
}

func TestCartService_AddToCart_LostInsertRaceMerges(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "racer@example.com", PasswordHash: "hash", EmailVerified: true}
	testDB.Create(user)
	product := &model.Product{Name: "Leather Handbag", Slug: "leather-handbag", Price: 89.99, InStock: true}
	testDB.Create(product)

	cartRepo := &racingCartRepo{
		CartRepository: repository.NewCartRepository(testDB),
		db:             testDB,
		competing: &model.CartItem{
			UserID:    user.ID,
			ProductID: product.ID,
			Quantity:  2,
		},
	}
	cartService := NewCartService(cartRepo, repository.NewProductRepository(testDB))

	item, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity, "lost race should merge into the winner's line")

	// Exactly one line survives
	var count int64
	testDB.Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", user.ID, product.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}
