package scheduler

import (
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupScheduler periodically removes cart and wishlist rows whose owning
// account was deleted. Account deletion does not cascade through the ORM, so
// these rows accumulate until swept.
type CleanupScheduler struct {
	cron         *cron.Cron
	cartRepo     repository.CartRepository
	wishlistRepo repository.WishlistRepository
}

func NewCleanupScheduler(
	cartRepo repository.CartRepository,
	wishlistRepo repository.WishlistRepository,
) *CleanupScheduler {
	return &CleanupScheduler{
		cron:         cron.New(),
		cartRepo:     cartRepo,
		wishlistRepo: wishlistRepo,
	}
}

// Start registers the nightly sweep (daily at 4:00 AM)
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", s.RunCleanup)
	if err != nil {
		logger.Error("Failed to add cron job for orphan cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started successfully (daily at 4:00 AM)", nil)
	return nil
}

// RunCleanup deletes orphaned cart and wishlist rows once
func (s *CleanupScheduler) RunCleanup() {
	logger.Info("Starting orphaned row cleanup", nil)

	cartRows, err := s.cartRepo.DeleteOrphaned()
	if err != nil {
		logger.Error("Failed to clean up orphaned cart items", err)
	}

	wishlistRows, err := s.wishlistRepo.DeleteOrphaned()
	if err != nil {
		logger.Error("Failed to clean up orphaned wishlist items", err)
	}

	logger.Info("Orphaned row cleanup finished", map[string]interface{}{
		"cart_rows_removed":     cartRows,
		"wishlist_rows_removed": wishlistRows,
	})
}

// Stop stops the scheduler
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler...", nil)
	s.cron.Stop()
}
