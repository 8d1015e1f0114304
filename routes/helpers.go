package routes

import (
	"errors"

	"rentalhouse-server/services"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog/log"
)

func idParam(ctx iris.Context) uint {
	return ctx.Params().GetUintDefault("id", 0)
}

// readInput decodes a JSON or form body and reports validation failures.
func readInput(ctx iris.Context, ptr interface{}) bool {
	if err := ctx.ReadBody(ptr); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return false
	}
	return true
}

// handleServiceError maps the errors every service shares. Handlers check their own
// sentinels first so they can use more specific messages.
func handleServiceError(ctx iris.Context, err error, redirect string) {
	var formErr *services.FormError
	switch {
	case errors.As(err, &formErr):
		utils.CreateFormError(formErr.Field, formErr.Message, ctx)
	case errors.Is(err, services.ErrProfileMissing):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Profile not found.", redirect, nil)
	case errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Not found.", redirect, nil)
	case errors.Is(err, services.ErrForbidden):
		utils.Flash(ctx, iris.StatusForbidden, utils.FlashError, "Access denied.", "home", nil)
	default:
		log.Error().Err(err).Str("path", ctx.Path()).Msg("request failed")
		utils.CreateInternalServerError(ctx)
	}
}

func success(ctx iris.Context, message, redirect string, data interface{}) {
	utils.Flash(ctx, iris.StatusOK, utils.FlashSuccess, message, redirect, data)
}

func created(ctx iris.Context, message, redirect string, data interface{}) {
	utils.Flash(ctx, iris.StatusCreated, utils.FlashSuccess, message, redirect, data)
}
