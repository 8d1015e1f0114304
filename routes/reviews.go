package routes

import (
	"errors"

	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func SubmitReview(ctx iris.Context) {
	if utils.CurrentRole(ctx) != string(models.TenantRole) {
		utils.Flash(ctx, iris.StatusForbidden, utils.FlashError, "Only tenants can submit reviews.", "home", nil)
		return
	}

	var reviewInput services.ReviewInput
	if !readInput(ctx, &reviewInput) {
		return
	}

	review, err := services.SubmitReview(storage.DB, utils.CurrentUserID(ctx), idParam(ctx), reviewInput)
	if errors.Is(err, services.ErrAlreadyReviewed) {
		utils.Flash(ctx, iris.StatusConflict, utils.FlashError, "You have already reviewed this property.", "tenant_dashboard", nil)
		return
	}
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	created(ctx, "Review submitted successfully!", "tenant_dashboard", review)
}

func RespondToReview(ctx iris.Context) {
	var in services.OwnerResponseInput
	if !readInput(ctx, &in) {
		return
	}

	review, err := services.RespondToReview(storage.DB, utils.CurrentUserID(ctx), idParam(ctx), in.OwnerResponse)
	if err != nil {
		handleServiceError(ctx, err, "owner_dashboard")
		return
	}
	success(ctx, "Response saved.", "owner_dashboard", review)
}
