package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VeluraLiving/Velura/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.MarketplaceAd{},
	))
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB) *models.Supplier {
	t.Helper()
	user := &models.User{
		Name:     "Test Supplier",
		Email:    "supplier@example.com",
		Password: "hash",
		Role:     models.ROLE_USER,
		Status:   models.STATUS_ACTIVE,
	}
	require.NoError(t, db.Create(user).Error)

	supplier := &models.Supplier{UserID: user.ID, KYCStatus: models.KYCStatusVerified}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedAd(t *testing.T, db *gorm.DB, supplierID uint, status string, mutate func(*models.MarketplaceAd)) *models.MarketplaceAd {
	t.Helper()
	ad := &models.MarketplaceAd{
		UUID:       uuid.New().String(),
		SupplierID: supplierID,
		Title:      "Penthouse, Lake Como",
		Status:     status,
	}
	if mutate != nil {
		mutate(ad)
	}
	require.NoError(t, db.Create(ad).Error)
	return ad
}

func TestSubmitForModeration(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db)
	repo := NewAdRepository(db)

	draft := seedAd(t, db, supplier.ID, models.AdStatusDraft, nil)
	approved := seedAd(t, db, supplier.ID, models.AdStatusApproved, nil)

	require.NoError(t, repo.SubmitForModeration(draft.ID))
	require.NoError(t, repo.SubmitForModeration(approved.ID))

	got, err := repo.GetByID(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusPending, got.Status)

	// Non-draft ads are left alone.
	got, err = repo.GetByID(approved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, got.Status)
}

func TestExpireOverdueBoundary(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db)
	repo := NewAdRepository(db)

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(24 * time.Hour)

	overdue := seedAd(t, db, supplier.ID, models.AdStatusApproved, func(ad *models.MarketplaceAd) {
		ad.GoLiveAt = &past
		ad.ExpiresAt = &past
	})
	stillLive := seedAd(t, db, supplier.ID, models.AdStatusApproved, func(ad *models.MarketplaceAd) {
		ad.GoLiveAt = &past
		ad.ExpiresAt = &future
	})
	neverApproved := seedAd(t, db, supplier.ID, models.AdStatusPending, func(ad *models.MarketplaceAd) {
		ad.ExpiresAt = &past
	})

	expired, err := repo.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := repo.GetByID(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusExpired, got.Status)

	got, err = repo.GetByID(stillLive.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, got.Status)

	got, err = repo.GetByID(neverApproved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusPending, got.Status)

	// A second sweep finds nothing left to do.
	expired, err = repo.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)
}

func TestListByStatusOldestFirst(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db)
	repo := NewAdRepository(db)

	older := seedAd(t, db, supplier.ID, models.AdStatusPending, func(ad *models.MarketplaceAd) {
		ad.CreatedAt = time.Now().Add(-2 * time.Hour)
	})
	newer := seedAd(t, db, supplier.ID, models.AdStatusPending, func(ad *models.MarketplaceAd) {
		ad.CreatedAt = time.Now().Add(-1 * time.Hour)
	})
	seedAd(t, db, supplier.ID, models.AdStatusDraft, nil)

	ads, err := repo.ListByStatus(models.AdStatusPending, 0, 50)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, older.ID, ads[0].ID)
	assert.Equal(t, newer.ID, ads[1].ID)

	count, err := repo.CountByStatus(models.AdStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
