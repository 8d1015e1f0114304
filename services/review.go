package services

import (
	"errors"
	"fmt"
	"strings"

	"rentalhouse-server/models"

	"gorm.io/gorm"
)

type ReviewInput struct {
	Rating     int    `json:"rating" form:"rating" validate:"required"`
	ReviewText string `json:"reviewText" form:"review_text" validate:"max=5000"`
}

type OwnerResponseInput struct {
	OwnerResponse string `json:"ownerResponse" form:"owner_response" validate:"required,max=5000"`
}

func reviewExists(db *gorm.DB, bookingID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

// SubmitReview records the tenant's one review for a booking.
func SubmitReview(db *gorm.DB, tenantUserID, bookingID uint, in ReviewInput) (*models.Review, error) {
	booking, err := TenantBooking(db, tenantUserID, bookingID)
	if err != nil {
		return nil, err
	}
	exists, err := reviewExists(db, booking.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	if in.Rating < 1 || in.Rating > 5 {
		return nil, formError("rating", "Rating must be between 1 and 5")
	}
	text := strings.TrimSpace(in.ReviewText)
	if text != "" && len(text) < 10 {
		return nil, formError("reviewText", "Review must be at least 10 characters long")
	}

	review := models.Review{
		BookingID:  booking.ID,
		TenantID:   booking.TenantID,
		PropertyID: booking.PropertyID,
		Rating:     in.Rating,
		ReviewText: text,
		IsApproved: true,
	}
	if err := db.Create(&review).Error; err != nil {
		// the unique booking index catches a concurrent duplicate
		if exists, _ := reviewExists(db, booking.ID); exists {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}

func RespondToReview(db *gorm.DB, ownerUserID, reviewID uint, response string) (*models.Review, error) {
	var review models.Review
	err := db.Joins("JOIN properties ON properties.id = reviews.property_id").
		Joins("JOIN owners ON owners.id = properties.owner_id").
		Where("reviews.id = ? AND owners.user_id = ?", reviewID, ownerUserID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	review.OwnerResponse = strings.TrimSpace(response)
	if err := db.Model(&models.Review{}).Where("id = ?", review.ID).Update("owner_response", review.OwnerResponse).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func SetReviewApproval(db *gorm.DB, reviewID uint, approved bool) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return nil, err
	}
	if err := db.Model(&models.Review{}).Where("id = ?", review.ID).Update("is_approved", approved).Error; err != nil {
		return nil, err
	}
	review.IsApproved = approved
	return &review, nil
}

func ListReviews(db *gorm.DB, approved *bool) ([]models.Review, error) {
	q := db.Preload("Property").Preload("Tenant.User")
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}
	var reviews []models.Review
	err := q.Order("created_at desc").Find(&reviews).Error
	return reviews, err
}
