package routes

import (
	"errors"

	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func GetInbox(ctx iris.Context) {
	inbox, err := services.GetInbox(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(inbox)
}

func SendMessage(ctx iris.Context) {
	var messageInput services.MessageInput
	if !readInput(ctx, &messageInput) {
		return
	}

	message, err := services.SendMessage(storage.DB, utils.CurrentUserID(ctx), messageInput)
	if err != nil {
		handleServiceError(ctx, err, "inbox")
		return
	}

	redirect := "owner_dashboard"
	if utils.CurrentRole(ctx) == string(models.TenantRole) {
		redirect = "tenant_dashboard"
	}
	created(ctx, "Message sent successfully!", redirect, message)
}

func DeleteMessage(ctx iris.Context) {
	err := services.DeleteMessage(storage.DB, utils.CurrentUserID(ctx), idParam(ctx))
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.Flash(ctx, iris.StatusForbidden, utils.FlashError, "You do not have permission to delete this message.", "inbox", nil)
		return
	case errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Message not found.", "inbox", nil)
		return
	case err != nil:
		handleServiceError(ctx, err, "inbox")
		return
	}
	success(ctx, "Message deleted successfully!", "inbox", nil)
}

func MarkMessageRead(ctx iris.Context) {
	if err := services.MarkMessageRead(storage.DB, utils.CurrentUserID(ctx), idParam(ctx)); err != nil {
		handleServiceError(ctx, err, "inbox")
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
