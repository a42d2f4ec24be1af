package repository

import (
	"testing"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	apperrors "github.com/abdulhadi30211/luminvera-backend/internal/errors"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (CartRepository, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "repo@example.com", PasswordHash: "hash"}
	testDB.Create(user)
	product := &model.Product{Name: "Organic Face Cream", Slug: "organic-face-cream", Price: 24.99, InStock: true}
	testDB.Create(product)

	return NewCartRepository(testDB), user, product, testDB
}

func TestCartRepository_UniqueUserProductIndex(t *testing.T) {
	repo, user, product, _ := setupCartRepoTest(t)

	first := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, repo.Create(first))

	// A second row for the same (user, product) pair must be rejected
	dup := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	err := repo.Create(dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))
}

func TestCartRepository_SameProductDifferentUsers(t *testing.T) {
	repo, user, product, testDB := setupCartRepoTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash"}
	testDB.Create(other)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	assert.NoError(t, repo.Create(&model.CartItem{UserID: other.ID, ProductID: product.ID, Quantity: 1}))
}

func TestCartRepository_FindByUserID_NewestFirstWithProduct(t *testing.T) {
	repo, user, product, testDB := setupCartRepoTest(t)

	second := &model.Product{Name: "Baby Soft Toy", Slug: "baby-soft-toy", Price: 19.99, InStock: true}
	testDB.Create(second)

	older := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(older))
	newer := &model.CartItem{UserID: user.ID, ProductID: second.ID, Quantity: 1}
	require.NoError(t, repo.Create(newer))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ProductID)
	assert.Equal(t, "Baby Soft Toy", items[0].Product.Name, "product must be preloaded")
	assert.Equal(t, product.ID, items[1].ProductID)
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	repo, user, product, _ := setupCartRepoTest(t)

	_, err := repo.FindByUserAndProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 4}))

	item, err := repo.FindByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	repo, user, product, testDB := setupCartRepoTest(t)

	other := &model.User{Email: "keep@example.com", PasswordHash: "hash"}
	testDB.Create(other)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: other.ID, ProductID: product.ID, Quantity: 1}))

	require.NoError(t, repo.DeleteByUserID(user.ID))

	mine, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 0)

	theirs, err := repo.FindByUserID(other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestCartRepository_DeleteOrphaned(t *testing.T) {
	repo, user, product, testDB := setupCartRepoTest(t)

	doomed := &model.User{Email: "doomed@example.com", PasswordHash: "hash"}
	testDB.Create(doomed)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: doomed.ID, ProductID: product.ID, Quantity: 1}))

	// Soft-delete the account; its cart rows are now orphans
	require.NoError(t, testDB.Delete(doomed).Error)

	removed, err := repo.DeleteOrphaned()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
