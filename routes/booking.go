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

const alreadyProcessed = "This booking is already processed."

func CreateBooking(ctx iris.Context) {
	if utils.CurrentRole(ctx) != string(models.TenantRole) {
		utils.Flash(ctx, iris.StatusForbidden, utils.FlashError, "Only tenants can book properties.", "home", nil)
		return
	}

	var bookingInput services.BookingInput
	if !readInput(ctx, &bookingInput) {
		return
	}

	booking, err := services.CreateBooking(storage.DB, utils.CurrentUserID(ctx), idParam(ctx), bookingInput)
	switch {
	case errors.Is(err, services.ErrPropertyUnavailable), errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Property not found or not available.", "property_search", nil)
		return
	case err != nil:
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}

	created(ctx, "Property booked successfully!", "tenant_dashboard", booking)
}

func GetTenantBookings(ctx iris.Context) {
	bookings, err := services.ListTenantBookings(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	ctx.JSON(iris.Map{"bookings": bookings})
}

func GetOwnerBookings(ctx iris.Context) {
	bookings, err := services.ListOwnerBookings(storage.DB, utils.CurrentUserID(ctx), ctx.URLParamDefault("status", ""))
	if err != nil {
		handleServiceError(ctx, err, "owner_dashboard")
		return
	}
	ctx.JSON(iris.Map{"bookings": bookings})
}

func ConfirmBooking(ctx iris.Context) {
	booking, err := services.ConfirmBooking(storage.DB, utils.CurrentUserID(ctx), idParam(ctx))
	switch {
	case errors.Is(err, services.ErrAlreadyProcessed):
		utils.Flash(ctx, iris.StatusOK, utils.FlashWarning, alreadyProcessed, "owner_dashboard", booking)
		return
	case errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Booking not found or you do not have permission.", "owner_dashboard", nil)
		return
	case err != nil:
		handleServiceError(ctx, err, "owner_dashboard")
		return
	}

	success(ctx, fmt.Sprintf("Booking #%d has been confirmed!", booking.ID), "owner_dashboard", booking)
}

func CancelBooking(ctx iris.Context) {
	role := models.Role(utils.CurrentRole(ctx))
	redirect := "home"
	switch role {
	case models.OwnerRole:
		redirect = "owner_dashboard"
	case models.TenantRole:
		redirect = "tenant_dashboard"
	}

	booking, err := services.CancelBooking(storage.DB, utils.CurrentUserID(ctx), role, idParam(ctx))
	switch {
	case errors.Is(err, services.ErrAlreadyProcessed):
		utils.Flash(ctx, iris.StatusOK, utils.FlashWarning, alreadyProcessed, redirect, booking)
		return
	case errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Booking not found.", "home", nil)
		return
	case errors.Is(err, services.ErrForbidden):
		utils.Flash(ctx, iris.StatusForbidden, utils.FlashError, "Booking not found or you do not have permission.", "home", nil)
		return
	case err != nil:
		handleServiceError(ctx, err, redirect)
		return
	}

	success(ctx, fmt.Sprintf("Booking #%d has been cancelled.", booking.ID), redirect, booking)
}
