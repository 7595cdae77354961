// Package listings owns the housing-listing lifecycle: submission,
// moderation transitions and the attached image pipeline.
package listings

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/database"
	"zhilfond/server/internal/models"
	"zhilfond/server/internal/notify"
)

// Moderation actions accepted by Moderate.
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionFeature   = "feature"
	ActionArchive   = "archive"
	ActionUnarchive = "unarchive"
)

type Service struct {
	db             *database.Database
	logger         *logrus.Logger
	notifications  *notify.Queue
	moderatorEmail string
}

func NewService(db *database.Database, logger *logrus.Logger, notifications *notify.Queue, moderatorEmail string) *Service {
	return &Service{
		db:             db,
		logger:         logger,
		notifications:  notifications,
		moderatorEmail: moderatorEmail,
	}
}

// CreateInput carries the submitted form fields. Price arrives as text
// and must parse to a positive integer.
type CreateInput struct {
	Title       string
	Description string
	HousingType string
	District    string
	Address     string
	Price       string
	PricePeriod string
	Rooms       *int
	Area        *float64
	Floor       *int
	TotalFloors *int
	Amenities   []string
	Phone       string
	Email       string
	Telegram    string
}

func (in *CreateInput) validate() (int, error) {
	if in.Title == "" {
		return 0, apperrors.NewValidation("title", "required")
	}
	if in.HousingType == "" {
		return 0, apperrors.NewValidation("housing_type", "required")
	}
	validType := false
	for _, t := range models.HousingTypes {
		if in.HousingType == t {
			validType = true
			break
		}
	}
	if !validType {
		return 0, apperrors.NewValidation("housing_type", "unrecognized housing type")
	}
	if in.District == "" {
		return 0, apperrors.NewValidation("district", "required")
	}
	price, err := strconv.Atoi(in.Price)
	if err != nil || price <= 0 {
		return 0, apperrors.NewValidation("price", "must be a positive integer")
	}
	return price, nil
}

// Create validates the submission and persists the listing together with
// its images in one transaction. The listing always starts pending,
// unfeatured, with zero views, owned by the caller.
func (s *Service) Create(userID int64, in CreateInput, uploads []Upload) (int64, error) {
	price, err := in.validate()
	if err != nil {
		return 0, err
	}

	// The credential may outlive the account; a dangling user id means
	// the caller has to log in again.
	owner, err := s.db.GetUserByID(userID)
	if err != nil {
		return 0, err
	}

	images, err := Ingest(uploads)
	if err != nil {
		return 0, err
	}

	period := in.PricePeriod
	if period != models.PeriodDay {
		period = models.PeriodMonth
	}

	listing := &models.Listing{
		UserID:      owner.ID,
		Title:       in.Title,
		Description: in.Description,
		HousingType: in.HousingType,
		District:    in.District,
		Address:     in.Address,
		Price:       price,
		PricePeriod: period,
		Rooms:       in.Rooms,
		Area:        in.Area,
		Floor:       in.Floor,
		TotalFloors: in.TotalFloors,
		Amenities:   in.Amenities,
		Phone:       in.Phone,
		Email:       in.Email,
		Telegram:    in.Telegram,
		Status:      models.StatusPending,
		IsFeatured:  false,
		Views:       0,
	}

	id, err := s.db.CreateListing(listing, images)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": id,
		"user_id":    owner.ID,
		"images":     len(images),
	}).Info("Listing submitted for moderation")

	s.notifyModerators(listing)
	return id, nil
}

// Get returns the listing with its images and counts the view. Every
// call increments by exactly one; viewers are not deduplicated.
func (s *Service) Get(id int64) (*models.Listing, error) {
	if err := s.db.IncrementListingViews(id); err != nil {
		return nil, err
	}
	return s.db.GetListing(id)
}

// List returns listings matching the filter, featured first then newest.
func (s *Service) List(filter models.ListingFilter) ([]models.Listing, error) {
	return s.db.ListListings(filter)
}

// ListMine returns the caller's listings in any status.
func (s *Service) ListMine(userID int64) ([]models.Listing, error) {
	return s.db.ListListingsByOwner(userID)
}

// Moderate applies one status transition. Transitions are idempotent
// writes; approving an approved listing is not an error. Featuring is
// only allowed on approved listings.
func (s *Service) Moderate(id int64, action string) error {
	switch action {
	case ActionApprove:
		if err := s.db.UpdateListingStatus(id, models.StatusApproved); err != nil {
			return err
		}
	case ActionReject:
		if err := s.db.UpdateListingStatus(id, models.StatusRejected); err != nil {
			return err
		}
	case ActionArchive:
		if err := s.db.UpdateListingStatus(id, models.StatusArchived); err != nil {
			return err
		}
	case ActionUnarchive:
		if err := s.db.UpdateListingStatus(id, models.StatusApproved); err != nil {
			return err
		}
	case ActionFeature:
		listing, err := s.db.GetListing(id)
		if err != nil {
			return err
		}
		if listing.Status != models.StatusApproved {
			return fmt.Errorf("only approved listings can be featured: %w", apperrors.ErrConflict)
		}
		if err := s.db.SetListingFeatured(id, true); err != nil {
			return err
		}
	default:
		return apperrors.NewValidation("action", "unrecognized action")
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": id,
		"action":     action,
	}).Info("Listing moderated")

	if action == ActionApprove || action == ActionReject {
		s.notifyOwner(id, action)
	}
	return nil
}

// Delete removes the listing and all its images permanently.
func (s *Service) Delete(id int64) error {
	if err := s.db.DeleteListing(id); err != nil {
		return err
	}
	s.logger.WithField("listing_id", id).Info("Listing deleted")
	return nil
}

func (s *Service) notifyModerators(listing *models.Listing) {
	if s.notifications == nil || s.moderatorEmail == "" {
		return
	}
	err := s.notifications.Push(&notify.Notification{
		To:      []string{s.moderatorEmail},
		Subject: "New listing awaiting moderation",
		Body:    fmt.Sprintf("Listing %q (%s, %s) was submitted and is awaiting review.", listing.Title, listing.HousingType, listing.District),
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to queue moderator notification")
	}
}

func (s *Service) notifyOwner(listingID int64, action string) {
	if s.notifications == nil {
		return
	}
	listing, err := s.db.GetListing(listingID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load listing for owner notification")
		return
	}
	owner, err := s.db.GetUserByID(listing.UserID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load owner for notification")
		return
	}

	subject := "Your listing was approved"
	body := fmt.Sprintf("Your listing %q has been approved and is now visible.", listing.Title)
	if action == ActionReject {
		subject = "Your listing was rejected"
		body = fmt.Sprintf("Your listing %q was rejected by the moderators.", listing.Title)
	}

	err = s.notifications.Push(&notify.Notification{
		To:      []string{owner.Email},
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to queue owner notification")
	}
}
