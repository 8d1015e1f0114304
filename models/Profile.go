package models

import "gorm.io/gorm"

type Tenant struct {
	gorm.Model
	UserID           uint   `json:"userID" gorm:"uniqueIndex;not null"`
	User             *User  `json:"user,omitempty"`
	EmergencyContact string `json:"emergencyContact"`
	EmploymentStatus string `json:"employmentStatus"`
	IncomeRange      string `json:"incomeRange"`
	RentalHistory    string `json:"rentalHistory" gorm:"type:text"`
}

type Owner struct {
	gorm.Model
	UserID             uint   `json:"userID" gorm:"uniqueIndex;not null"`
	User               *User  `json:"user,omitempty"`
	CompanyName        string `json:"companyName"`
	TaxID              string `json:"taxID"`
	BankAccountInfo    string `json:"bankAccountInfo"`
	VerificationStatus string `json:"verificationStatus" gorm:"type:varchar(20);default:pending"` // pending, verified, rejected
}
