package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rentalhouse-server/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const featuredLimit = 6

type PropertyInput struct {
	Title           string   `json:"title" form:"title" validate:"required,max=200"`
	Description     string   `json:"description" form:"description"`
	Address         string   `json:"address" form:"address" validate:"required"`
	City            string   `json:"city" form:"city" validate:"required,max=100"`
	State           string   `json:"state" form:"state" validate:"max=100"`
	ZipCode         string   `json:"zipCode" form:"zip_code" validate:"max=20"`
	PropertyType    string   `json:"propertyType" form:"property_type" validate:"required,oneof=apartment house villa condo studio"`
	Bedrooms        int      `json:"bedrooms" form:"bedrooms"`
	Bathrooms       float32  `json:"bathrooms" form:"bathrooms" validate:"gte=0"`
	AreaSqft        int      `json:"areaSqft" form:"area_sqft" validate:"gte=0"`
	RentAmount      string   `json:"rentAmount" form:"rent_amount" validate:"required"`
	SecurityDeposit string   `json:"securityDeposit" form:"security_deposit"`
	AvailableFrom   string   `json:"availableFrom" form:"available_from"`
	Amenities       []string `json:"amenities" form:"amenities"`
}

type SearchInput struct {
	City         string `json:"city" url:"city" validate:"max=100"`
	PropertyType string `json:"propertyType" url:"property_type" validate:"omitempty,oneof=apartment house villa condo studio"`
	MinBedrooms  *int   `json:"minBedrooms" url:"min_bedrooms" validate:"omitempty,gte=0"`
	MaxBedrooms  *int   `json:"maxBedrooms" url:"max_bedrooms" validate:"omitempty,gte=0"`
	MinRent      string `json:"minRent" url:"min_rent"`
	MaxRent      string `json:"maxRent" url:"max_rent"`
}

func (in PropertyInput) apply(p *models.Property) error {
	rent, err := ParseAmount("rentAmount", in.RentAmount)
	if err != nil {
		return err
	}
	if !rent.Valid || !rent.Decimal.IsPositive() {
		return formError("rentAmount", "Rent amount must be positive")
	}

	deposit, err := ParseAmount("securityDeposit", in.SecurityDeposit)
	if err != nil {
		return err
	}
	if deposit.Valid && deposit.Decimal.IsNegative() {
		return formError("securityDeposit", "Security deposit cannot be negative")
	}

	availableFrom, err := ParseDate("availableFrom", in.AvailableFrom)
	if err != nil {
		return err
	}
	if availableFrom != nil && availableFrom.Before(today()) {
		return formError("availableFrom", "Available date cannot be in the past")
	}

	if in.Bedrooms < 0 {
		return formError("bedrooms", "Number of bedrooms cannot be negative")
	}

	amenities := make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}
	amenitiesJSON, err := json.Marshal(amenities)
	if err != nil {
		return err
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Address = in.Address
	p.City = strings.TrimSpace(in.City)
	p.State = in.State
	p.ZipCode = in.ZipCode
	p.PropertyType = in.PropertyType
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.AreaSqft = in.AreaSqft
	p.RentAmount = rent.Decimal
	p.SecurityDeposit = deposit
	p.AvailableFrom = availableFrom
	p.Amenities = datatypes.JSON(amenitiesJSON)
	return nil
}

func ListOwnerProperties(db *gorm.DB, ownerUserID uint) ([]models.Property, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	var properties []models.Property
	if err := db.Preload("Images").Where("owner_id = ?", owner.ID).Order("created_at desc").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func CreateProperty(db *gorm.DB, ownerUserID uint, in PropertyInput) (*models.Property, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}

	property := models.Property{OwnerID: owner.ID, Status: models.PropertyAvailable}
	if err := in.apply(&property); err != nil {
		return nil, err
	}
	if err := db.Create(&property).Error; err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return &property, nil
}

// ownedProperty loads a property only if it belongs to the owner behind ownerUserID.
func ownedProperty(db *gorm.DB, ownerUserID, propertyID uint) (*models.Property, error) {
	var property models.Property
	err := db.Joins("JOIN owners ON owners.id = properties.owner_id").
		Where("properties.id = ? AND owners.user_id = ?", propertyID, ownerUserID).
		First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func UpdateProperty(db *gorm.DB, ownerUserID, propertyID uint, in PropertyInput) (*models.Property, error) {
	property, err := ownedProperty(db, ownerUserID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := in.apply(property); err != nil {
		return nil, err
	}
	if err := db.Save(property).Error; err != nil {
		return nil, fmt.Errorf("update property %d: %w", propertyID, err)
	}
	return property, nil
}

func DeleteProperty(db *gorm.DB, ownerUserID, propertyID uint) error {
	property, err := ownedProperty(db, ownerUserID, propertyID)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	})
}

func AddPropertyImage(db *gorm.DB, ownerUserID, propertyID uint, url, caption string, primary bool) (*models.PropertyImage, error) {
	property, err := ownedProperty(db, ownerUserID, propertyID)
	if err != nil {
		return nil, err
	}

	image := models.PropertyImage{PropertyID: property.ID, ImageURL: url, Caption: caption, IsPrimary: primary}
	err = db.Transaction(func(tx *gorm.DB) error {
		if primary {
			if err := tx.Model(&models.PropertyImage{}).
				Where("property_id = ?", property.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func SearchProperties(db *gorm.DB, in SearchInput) ([]models.Property, error) {
	if in.MinBedrooms != nil && in.MaxBedrooms != nil && *in.MinBedrooms > *in.MaxBedrooms {
		return nil, formError("minBedrooms", "Minimum bedrooms cannot be greater than maximum bedrooms")
	}
	minRent, err := ParseAmount("minRent", in.MinRent)
	if err != nil {
		return nil, err
	}
	maxRent, err := ParseAmount("maxRent", in.MaxRent)
	if err != nil {
		return nil, err
	}
	if minRent.Valid && minRent.Decimal.IsNegative() || maxRent.Valid && maxRent.Decimal.IsNegative() {
		return nil, formError("minRent", "Rent filters cannot be negative")
	}
	if minRent.Valid && maxRent.Valid && minRent.Decimal.GreaterThan(maxRent.Decimal) {
		return nil, formError("minRent", "Minimum rent cannot be greater than maximum rent")
	}

	q := db.Model(&models.Property{}).Preload("Images").Where("status = ?", models.PropertyAvailable)
	if city := strings.TrimSpace(in.City); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if in.PropertyType != "" {
		q = q.Where("property_type = ?", in.PropertyType)
	}
	if in.MinBedrooms != nil {
		q = q.Where("bedrooms >= ?", *in.MinBedrooms)
	}
	if in.MaxBedrooms != nil {
		q = q.Where("bedrooms <= ?", *in.MaxBedrooms)
	}
	if minRent.Valid {
		q = q.Where("rent_amount >= ?", minRent.Decimal)
	}
	if maxRent.Valid {
		q = q.Where("rent_amount <= ?", maxRent.Decimal)
	}

	var properties []models.Property
	if err := q.Order("created_at desc").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FeaturedProperties backs the home page.
func FeaturedProperties(db *gorm.DB) ([]models.Property, error) {
	var properties []models.Property
	err := db.Preload("Images").
		Where("status = ?", models.PropertyAvailable).
		Order("created_at desc").
		Limit(featuredLimit).
		Find(&properties).Error
	return properties, err
}

type PropertyDetail struct {
	Property models.Property `json:"property"`
	Reviews  []models.Review `json:"reviews"`
	Rating   decimal.Decimal `json:"averageRating"`
}

// GetPropertyDetail returns the property with its images and approved reviews.
func GetPropertyDetail(db *gorm.DB, propertyID uint) (*PropertyDetail, error) {
	var property models.Property
	err := db.Preload("Images").Preload("Owner.User").First(&property, propertyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := db.Where("property_id = ? AND is_approved = ?", propertyID, true).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}

	detail := &PropertyDetail{Property: property, Reviews: reviews, Rating: decimal.Zero}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		detail.Rating = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	}
	return detail, nil
}

// SetPropertyStatus is the admin override. Moving to available drops the occupancy holder.
func SetPropertyStatus(db *gorm.DB, propertyID uint, status models.PropertyStatus) (*models.Property, error) {
	if status != models.PropertyAvailable && status != models.PropertyOccupied {
		return nil, formError("status", "Select a valid property status.")
	}
	var property models.Property
	if err := db.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
		}
		return nil, err
	}
	fields := map[string]interface{}{"status": status}
	if status == models.PropertyAvailable {
		fields["occupied_by_booking_id"] = nil
	}
	if err := db.Model(&property).Updates(fields).Error; err != nil {
		return nil, err
	}
	property.Status = status
	if status == models.PropertyAvailable {
		property.OccupiedByBookingID = nil
	}
	return &property, nil
}

// CheckPropertyOwner reports ErrNotFound unless the property belongs to the owner.
func CheckPropertyOwner(db *gorm.DB, ownerUserID, propertyID uint) error {
	_, err := ownedProperty(db, ownerUserID, propertyID)
	return err
}
