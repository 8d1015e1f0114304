package models

import (
	"time"

	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

var (
	ComplaintTypes      = []string{"maintenance", "noise", "billing", "other"}
	ComplaintPriorities = []string{"low", "medium", "high"}
)

type Complaint struct {
	gorm.Model
	TenantID        uint            `json:"tenantID" gorm:"not null;index"`
	Tenant          *Tenant         `json:"tenant,omitempty"`
	PropertyID      uint            `json:"propertyID" gorm:"not null;index"`
	Property        *Property       `json:"property,omitempty"`
	Type            string          `json:"type" gorm:"type:varchar(20)"`
	Title           string          `json:"title"`
	Description     string          `json:"description" gorm:"type:text"`
	Priority        string          `json:"priority" gorm:"type:varchar(10);default:medium;index"`
	Status          ComplaintStatus `json:"status" gorm:"type:varchar(20);default:open;index"`
	ResolutionNotes string          `json:"resolutionNotes" gorm:"type:text"`
	ResolvedAt      *time.Time      `json:"resolvedAt"`
}
