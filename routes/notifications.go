package routes

import (
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func GetNotifications(ctx iris.Context) {
	unreadOnly := ctx.URLParamDefault("unread", "") == "true"
	notifications, err := services.ListNotifications(storage.DB, utils.CurrentUserID(ctx), unreadOnly)
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(iris.Map{"notifications": notifications})
}

func MarkNotificationRead(ctx iris.Context) {
	if err := services.MarkNotificationRead(storage.DB, utils.CurrentUserID(ctx), idParam(ctx)); err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	updated, err := services.MarkAllNotificationsRead(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(iris.Map{"updated": updated})
}
