package routes

import (
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func TenantDashboard(ctx iris.Context) {
	dashboard, err := services.GetTenantDashboard(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(dashboard)
}

func OwnerDashboard(ctx iris.Context) {
	dashboard, err := services.GetOwnerDashboard(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(dashboard)
}

func AdminDashboard(ctx iris.Context) {
	dashboard, err := services.GetAdminDashboard(storage.DB)
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(dashboard)
}
