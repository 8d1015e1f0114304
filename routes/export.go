package routes

import (
	"bytes"
	"fmt"

	"rentalhouse-server/export"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog/log"
)

func ExportOwnerPaymentsCSV(ctx iris.Context) {
	table, err := services.OwnerPaymentsReport(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "owner_payments")
		return
	}
	writeCSV(ctx, table, "owner_payments.csv")
}

// ExportOwnerPaymentsPDF falls back to an error flash when rendering fails.
func ExportOwnerPaymentsPDF(ctx iris.Context) {
	table, err := services.OwnerPaymentsReport(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "owner_payments")
		return
	}
	writePDF(ctx, table, "owner_payments.pdf", "owner_payments")
}

func writeCSV(ctx iris.Context, table *export.Table, filename string) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		services.ExportsGenerated.WithLabelValues("csv", "error").Inc()
		log.Error().Err(err).Str("file", filename).Msg("csv export failed")
		utils.CreateInternalServerError(ctx)
		return
	}
	services.ExportsGenerated.WithLabelValues("csv", "ok").Inc()

	ctx.ContentType("text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Write(buf.Bytes())
}

func writePDF(ctx iris.Context, table *export.Table, filename, redirect string) {
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, table); err != nil {
		services.ExportsGenerated.WithLabelValues("pdf", "error").Inc()
		log.Error().Err(err).Str("file", filename).Msg("pdf export failed")
		utils.Flash(ctx, iris.StatusInternalServerError, utils.FlashError, "PDF export is currently unavailable.", redirect, nil)
		return
	}
	services.ExportsGenerated.WithLabelValues("pdf", "ok").Inc()

	ctx.ContentType("application/pdf")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Write(buf.Bytes())
}
