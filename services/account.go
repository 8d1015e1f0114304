package services

import (
	"errors"
	"fmt"
	"strings"

	"rentalhouse-server/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Role            string `json:"role" form:"role" validate:"required,oneof=tenant owner"`
	Email           string `json:"email" form:"email" validate:"required,max=256,email"`
	FirstName       string `json:"firstName" form:"first_name" validate:"required,max=150"`
	LastName        string `json:"lastName" form:"last_name" validate:"required,max=150"`
	Phone           string `json:"phone" form:"phone" validate:"max=20"`
	Password        string `json:"password" form:"password" validate:"required,min=6,max=256"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ProfileInput carries the user fields plus whichever role profile applies.
// Nil pointers leave the stored value unchanged.
type ProfileInput struct {
	FirstName *string `json:"firstName" form:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"lastName" form:"last_name" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" form:"phone" validate:"omitempty,max=20"`

	EmergencyContact *string `json:"emergencyContact" form:"emergency_contact"`
	EmploymentStatus *string `json:"employmentStatus" form:"employment_status"`
	IncomeRange      *string `json:"incomeRange" form:"income_range"`
	RentalHistory    *string `json:"rentalHistory" form:"rental_history"`

	CompanyName     *string `json:"companyName" form:"company_name"`
	TaxID           *string `json:"taxID" form:"tax_id"`
	BankAccountInfo *string `json:"bankAccountInfo" form:"bank_account_info"`
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func emailTaken(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Register creates the user and its tenant or owner profile in one transaction.
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	role := models.Role(in.Role)
	if role != models.TenantRole && role != models.OwnerRole {
		return nil, formError("role", "Select a valid account type.")
	}
	if in.Password != in.ConfirmPassword {
		return nil, formError("confirmPassword", "Passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := emailTaken(db, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := hashAndSaltPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Password:  hashed,
		Phone:     in.Phone,
		Role:      role,
		Status:    models.UserActive,
		IsActive:  true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role == models.TenantRole {
			return tx.Create(&models.Tenant{UserID: user.ID}).Error
		}
		return tx.Create(&models.Owner{UserID: user.ID, VerificationStatus: "pending"}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return &user, nil
}

// CreateAdmin creates or promotes an administrator account.
func CreateAdmin(db *gorm.DB, email, password, firstName, lastName string) (*models.User, error) {
	if len(password) < 6 {
		return nil, formError("password", "Password must be at least 6 characters.")
	}
	hashed, err := hashAndSaltPassword(password)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	res := db.Where("email = ?", email).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}

	user.Email = email
	user.Password = hashed
	user.Role = models.AdminRole
	user.Status = models.UserActive
	user.IsActive = true
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if err := db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	res := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive || user.Status == models.UserSuspended {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

func GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := db.Preload("Tenant").Preload("Owner").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func TenantForUser(db *gorm.DB, userID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := db.Where("user_id = ?", userID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func OwnerForUser(db *gorm.DB, userID uint) (*models.Owner, error) {
	var owner models.Owner
	err := db.Preload("User").Where("user_id = ?", userID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileMissing
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func UpdateProfile(db *gorm.DB, userID uint, in ProfileInput) (*models.User, error) {
	user, err := GetUser(db, userID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		userFields := map[string]interface{}{}
		setIfPresent(userFields, "first_name", in.FirstName)
		setIfPresent(userFields, "last_name", in.LastName)
		setIfPresent(userFields, "phone", in.Phone)
		if len(userFields) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(userFields).Error; err != nil {
				return err
			}
		}

		switch user.Role {
		case models.TenantRole:
			fields := map[string]interface{}{}
			setIfPresent(fields, "emergency_contact", in.EmergencyContact)
			setIfPresent(fields, "employment_status", in.EmploymentStatus)
			setIfPresent(fields, "income_range", in.IncomeRange)
			setIfPresent(fields, "rental_history", in.RentalHistory)
			if len(fields) == 0 {
				return nil
			}
			if user.Tenant == nil {
				if err := tx.Create(&models.Tenant{UserID: userID}).Error; err != nil {
					return err
				}
			}
			return tx.Model(&models.Tenant{}).Where("user_id = ?", userID).Updates(fields).Error
		case models.OwnerRole:
			fields := map[string]interface{}{}
			setIfPresent(fields, "company_name", in.CompanyName)
			setIfPresent(fields, "tax_id", in.TaxID)
			setIfPresent(fields, "bank_account_info", in.BankAccountInfo)
			if len(fields) == 0 {
				return nil
			}
			if user.Owner == nil {
				if err := tx.Create(&models.Owner{UserID: userID, VerificationStatus: "pending"}).Error; err != nil {
					return err
				}
			}
			return tx.Model(&models.Owner{}).Where("user_id = ?", userID).Updates(fields).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile %d: %w", userID, err)
	}
	return GetUser(db, userID)
}

func SetProfilePicture(db *gorm.DB, userID uint, url string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("profile_picture", url).Error
}

func setIfPresent(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = strings.TrimSpace(*value)
	}
}
