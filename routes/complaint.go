package routes

import (
	"errors"
	"fmt"

	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func noActiveBooking(ctx iris.Context) {
	utils.Flash(ctx, iris.StatusConflict, utils.FlashError, "No active booking found.", "tenant_dashboard", nil)
}

// GetComplaintForm returns the property a new complaint would be filed against.
func GetComplaintForm(ctx iris.Context) {
	tenant, err := services.TenantForUser(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	booking, err := services.ActiveBooking(storage.DB, tenant.ID)
	if errors.Is(err, services.ErrNoActiveBooking) {
		noActiveBooking(ctx)
		return
	}
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	ctx.JSON(iris.Map{
		"property":   booking.Property,
		"types":      models.ComplaintTypes,
		"priorities": models.ComplaintPriorities,
	})
}

func SubmitComplaint(ctx iris.Context) {
	var complaintInput services.ComplaintInput
	if !readInput(ctx, &complaintInput) {
		return
	}

	complaint, err := services.SubmitComplaint(storage.DB, utils.CurrentUserID(ctx), complaintInput)
	if errors.Is(err, services.ErrNoActiveBooking) {
		noActiveBooking(ctx)
		return
	}
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	created(ctx, "Complaint submitted successfully!", "tenant_dashboard", complaint)
}

func GetOwnerComplaints(ctx iris.Context) {
	overview, err := services.OwnerComplaints(storage.DB, utils.CurrentUserID(ctx), ctx.URLParamDefault("tenant_id", ""))
	if err != nil {
		handleServiceError(ctx, err, "login")
		return
	}
	ctx.JSON(overview)
}

func UpdateComplaint(ctx iris.Context) {
	var resolutionInput services.ResolutionInput
	if !readInput(ctx, &resolutionInput) {
		return
	}

	id := idParam(ctx)
	complaint, err := services.UpdateComplaint(storage.DB, utils.CurrentUserID(ctx), id, resolutionInput)
	if errors.Is(err, services.ErrNotFound) {
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Complaint not found.", "owner_complaints", nil)
		return
	}
	if err != nil {
		handleServiceError(ctx, err, "owner_complaints")
		return
	}
	success(ctx, fmt.Sprintf("Complaint #%d updated successfully!", id), "owner_complaints", complaint)
}

func QuickResolveComplaint(ctx iris.Context) {
	id := idParam(ctx)
	complaint, err := services.QuickResolve(storage.DB, utils.CurrentUserID(ctx), id)
	if err != nil {
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, fmt.Sprintf("Error resolving complaint: %v", err), "owner_complaints", nil)
		return
	}
	success(ctx, fmt.Sprintf("Complaint #%d marked as resolved!", id), "owner_complaints", complaint)
}
