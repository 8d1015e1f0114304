package routes

import (
	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// GET /admin/users
func AdminListUsers(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	filter := services.UserFilter{
		Role:   ctx.URLParamDefault("role", ""),
		Status: ctx.URLParamDefault("status", ""),
		Query:  ctx.URLParamDefault("q", ""),
	}
	users, total, err := services.ListUsers(storage.DB, filter, page, perPage)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// PATCH /admin/users/{id}
func AdminUpdateUser(ctx iris.Context) {
	var in services.AdminUserInput
	if !readInput(ctx, &in) {
		return
	}
	before, after, err := services.UpdateUser(storage.DB, idParam(ctx), in)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.Audit(ctx, "user.update", "user", after.ID, before, after)
	success(ctx, "User updated successfully!", "admin_users", after)
}

// POST /admin/users/bulk { action, userIDs }
func AdminBulkUsers(ctx iris.Context) {
	var in services.BulkUserInput
	if !readInput(ctx, &in) {
		return
	}
	affected, err := services.BulkUpdateUsers(storage.DB, utils.CurrentUserID(ctx), in)
	if err != nil {
		handleServiceError(ctx, err, "admin_users")
		return
	}
	utils.Audit(ctx, "user.bulk_"+in.Action, "user", 0, in.UserIDs, iris.Map{"affected": affected})
	success(ctx, "Bulk action applied.", "admin_users", iris.Map{"affected": affected})
}

// GET /admin/properties
func AdminListProperties(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	properties, total, err := services.ListAllProperties(storage.DB, ctx.URLParamDefault("status", ""), page, perPage)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.JSONPage(ctx, properties, page, perPage, total)
}

type propertyStatusInput struct {
	Status string `json:"status" validate:"required,oneof=available occupied"`
}

// PATCH /admin/properties/{id}/status
func AdminSetPropertyStatus(ctx iris.Context) {
	var in propertyStatusInput
	if !readInput(ctx, &in) {
		return
	}
	property, err := services.SetPropertyStatus(storage.DB, idParam(ctx), models.PropertyStatus(in.Status))
	if err != nil {
		handleServiceError(ctx, err, "admin_properties")
		return
	}
	utils.Audit(ctx, "property.status", "property", property.ID, nil, in)
	success(ctx, "Property status updated.", "admin_properties", property)
}

// GET /admin/bookings?status=&date_from=&date_to=
func AdminListBookings(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	r, err := services.ParseDateRange(ctx.URLParamDefault("date_from", ""), ctx.URLParamDefault("date_to", ""))
	if err != nil {
		handleServiceError(ctx, err, "admin_bookings")
		return
	}
	bookings, total, err := services.ListAllBookings(storage.DB, ctx.URLParamDefault("status", ""), r, page, perPage)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.JSONPage(ctx, bookings, page, perPage, total)
}

// GET /admin/payments?status=&date_from=&date_to=
func AdminListPayments(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	r, err := services.ParseDateRange(ctx.URLParamDefault("date_from", ""), ctx.URLParamDefault("date_to", ""))
	if err != nil {
		handleServiceError(ctx, err, "admin_payments")
		return
	}
	payments, total, err := services.ListAllPayments(storage.DB, ctx.URLParamDefault("status", ""), r, page, perPage)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.JSONPage(ctx, payments, page, perPage, total)
}

// GET /admin/reviews?approved=true|false
func AdminListReviews(ctx iris.Context) {
	var approved *bool
	switch ctx.URLParamDefault("approved", "") {
	case "true":
		v := true
		approved = &v
	case "false":
		v := false
		approved = &v
	}
	reviews, err := services.ListReviews(storage.DB, approved)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	ctx.JSON(iris.Map{"data": reviews})
}

type reviewApprovalInput struct {
	IsApproved bool `json:"isApproved"`
}

// PATCH /admin/reviews/{id}/approval
func AdminSetReviewApproval(ctx iris.Context) {
	var in reviewApprovalInput
	if !readInput(ctx, &in) {
		return
	}
	review, err := services.SetReviewApproval(storage.DB, idParam(ctx), in.IsApproved)
	if err != nil {
		handleServiceError(ctx, err, "admin_reviews")
		return
	}
	utils.Audit(ctx, "review.approval", "review", review.ID, nil, in)
	success(ctx, "Review updated.", "admin_reviews", review)
}

// GET /admin/reports/{type}?format=csv|pdf&date_from=&date_to=
func AdminReport(ctx iris.Context) {
	kind := ctx.Params().Get("type")
	if !slices.Contains(services.ReportTypes, kind) {
		utils.CreateFormError("reportType", "Select a valid report type.", ctx)
		return
	}
	format := ctx.URLParamDefault("format", "pdf")
	if format != "pdf" && format != "csv" {
		utils.CreateFormError("format", "Select a valid report format.", ctx)
		return
	}

	r, err := services.ParseDateRange(ctx.URLParamDefault("date_from", ""), ctx.URLParamDefault("date_to", ""))
	if err != nil {
		handleServiceError(ctx, err, "admin_reports")
		return
	}
	table, err := services.BuildReport(storage.DB, kind, r)
	if err != nil {
		handleServiceError(ctx, err, "admin_reports")
		return
	}

	filename := kind + "_report." + format
	if format == "csv" {
		writeCSV(ctx, table, filename)
		return
	}
	writePDF(ctx, table, filename, "admin_reports")
}

// GET /admin/audit
func AdminListAuditLogs(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	logs, total, err := services.ListAuditLogs(storage.DB, ctx.URLParamDefault("resource_type", ""), page, perPage)
	if err != nil {
		handleServiceError(ctx, err, "admin_dashboard")
		return
	}
	utils.JSONPage(ctx, logs, page, perPage, total)
}
