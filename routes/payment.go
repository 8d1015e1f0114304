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

// GetPaymentForm returns the booking with the suggested amount pre-filled.
func GetPaymentForm(ctx iris.Context) {
	booking, err := services.TenantBooking(storage.DB, utils.CurrentUserID(ctx), idParam(ctx))
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	ctx.JSON(iris.Map{
		"booking":        booking,
		"amount":         services.SuggestedAmount(booking).StringFixed(2),
		"paymentMethods": models.PaymentMethods,
	})
}

func MakePayment(ctx iris.Context) {
	var paymentInput services.PaymentInput
	if !readInput(ctx, &paymentInput) {
		return
	}

	payment, err := services.CreatePayment(storage.DB, utils.CurrentUserID(ctx), idParam(ctx), paymentInput)
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	created(ctx, "Payment submitted successfully!", "tenant_dashboard", payment)
}

func GetTenantPayments(ctx iris.Context) {
	payments, err := services.ListTenantPayments(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "tenant_dashboard")
		return
	}
	ctx.JSON(iris.Map{"payments": payments})
}

func GetOwnerPayments(ctx iris.Context) {
	payments, err := services.ListOwnerPayments(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "owner_dashboard")
		return
	}
	ctx.JSON(iris.Map{"payments": payments})
}

func ConfirmPayment(ctx iris.Context) {
	payment, err := services.ConfirmPayment(storage.DB, utils.CurrentUserID(ctx), idParam(ctx))
	switch {
	case errors.Is(err, services.ErrAlreadyCompleted):
		utils.Flash(ctx, iris.StatusOK, utils.FlashInfo, "Payment already marked as completed.", "owner_payments", payment)
		return
	case errors.Is(err, services.ErrNotFound):
		utils.Flash(ctx, iris.StatusNotFound, utils.FlashError, "Payment not found or you do not have permission.", "owner_payments", nil)
		return
	case err != nil:
		handleServiceError(ctx, err, "owner_payments")
		return
	}

	success(ctx, fmt.Sprintf("Payment #%d marked as received.", payment.ID), "owner_payments", payment)
}
