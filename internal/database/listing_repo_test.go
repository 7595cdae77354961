package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

func seedListings(t *testing.T, d *Database, owner int64) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.Listing{
		{UserID: owner, Title: "old approved", HousingType: "room", District: "Алмалинский", Price: 20000, Status: models.StatusApproved, CreatedAt: base},
		{UserID: owner, Title: "new approved", HousingType: "apartment", District: "Ауэзовский", Price: 28000, Status: models.StatusApproved, CreatedAt: base.Add(48 * time.Hour)},
		{UserID: owner, Title: "featured approved", HousingType: "room", District: "Алмалинский", Price: 30000, Status: models.StatusApproved, IsFeatured: true, CreatedAt: base.Add(24 * time.Hour)},
		{UserID: owner, Title: "expensive approved", HousingType: "room", District: "Алмалинский", Price: 90000, Status: models.StatusApproved, CreatedAt: base.Add(72 * time.Hour)},
		{UserID: owner, Title: "pending", HousingType: "room", District: "Алмалинский", Price: 15000, Status: models.StatusPending, CreatedAt: base.Add(96 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, d.GetDB().Create(&rows[i]).Error)
	}
}

func TestListListings_FilterAndOrder(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	owner := &models.User{Email: "owner@example.com"}
	require.NoError(t, d.CreateUser(owner))
	seedListings(t, d, owner.ID)

	result, err := d.ListListings(models.ListingFilter{
		Status:   models.StatusApproved,
		MaxPrice: 30000,
	})
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Featured first, then newest first.
	assert.Equal(t, "featured approved", result[0].Title)
	assert.Equal(t, "new approved", result[1].Title)
	assert.Equal(t, "old approved", result[2].Title)

	for _, listing := range result {
		assert.Equal(t, models.StatusApproved, listing.Status)
		assert.LessOrEqual(t, listing.Price, 30000)
	}
}

func TestListListings_HousingTypeAndDistrict(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	owner := &models.User{Email: "owner@example.com"}
	require.NoError(t, d.CreateUser(owner))
	seedListings(t, d, owner.ID)

	result, err := d.ListListings(models.ListingFilter{
		Status:      models.StatusApproved,
		HousingType: "apartment",
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "new approved", result[0].Title)

	result, err = d.ListListings(models.ListingFilter{District: "Ауэзовский"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Ауэзовский", result[0].District)
}

func TestListListingsByOwner_AllStatuses(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	owner := &models.User{Email: "owner@example.com"}
	other := &models.User{Email: "other@example.com"}
	require.NoError(t, d.CreateUser(owner))
	require.NoError(t, d.CreateUser(other))
	seedListings(t, d, owner.ID)
	require.NoError(t, d.GetDB().Create(&models.Listing{
		UserID: other.ID, Title: "not mine", HousingType: "room",
		District: "Алмалинский", Price: 10000, Status: models.StatusApproved,
	}).Error)

	result, err := d.ListListingsByOwner(owner.ID)
	require.NoError(t, err)
	require.Len(t, result, 5)

	statuses := map[string]bool{}
	for _, listing := range result {
		require.Equal(t, owner.ID, listing.UserID)
		statuses[listing.Status] = true
	}
	assert.True(t, statuses[models.StatusPending], "owners see their pending listings")

	// Newest first.
	for i := 1; i < len(result); i++ {
		assert.False(t, result[i].CreatedAt.After(result[i-1].CreatedAt))
	}
}

func TestCreateListing_DanglingOwner(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	listing := &models.Listing{
		UserID: 9999, Title: "orphan", HousingType: "room",
		District: "Алмалинский", Price: 10000, Status: models.StatusPending,
	}
	_, err = d.CreateListing(listing, nil)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}

func TestUpdateListingStatus_MissingRow(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	err = d.UpdateListingStatus(12345, models.StatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestIncrementListingViews_Monotonic(t *testing.T) {
	d, err := NewTestDB()
	require.NoError(t, err)

	owner := &models.User{Email: "owner@example.com"}
	require.NoError(t, d.CreateUser(owner))

	listing := &models.Listing{
		UserID: owner.ID, Title: "views", HousingType: "room",
		District: "Алмалинский", Price: 10000, Status: models.StatusApproved,
	}
	require.NoError(t, d.GetDB().Create(listing).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.IncrementListingViews(listing.ID))
	}

	got, err := d.GetListing(listing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)
}
