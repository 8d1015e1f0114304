package routes

import (
	"os"

	"rentalhouse-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slices"
)

// NewApp wires every route. Token secrets are read from the environment;
// cross-origin requests are answered only for allowedOrigins.
func NewApp(allowedOrigins []string) *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Vary", "Origin")
		if origin := ctx.GetHeader("Origin"); origin != "" && slices.Contains(allowedOrigins, origin) {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
			ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
			ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		}
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})
	app.UseRouter(utils.RequestLogger)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	tenantOnly := utils.RoleMiddleware("tenant")
	ownerOnly := utils.RoleMiddleware("owner")
	adminOnly := utils.RoleMiddleware("admin")
	tenantOrOwner := utils.RoleMiddleware("tenant", "owner")

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})
	app.Get("/metrics", iris.FromStd(promhttp.Handler()))

	api := app.Party("/api")
	{
		api.Get("/home", Home)
	}

	auth := api.Party("/auth")
	{
		auth.Post("/register", Register)
		auth.Post("/login", Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		auth.Post("/logout", refreshTokenVerifierMiddleware, utils.Logout)
	}

	profile := api.Party("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		profile.Get("/", GetProfile)
		profile.Put("/", UpdateProfile)
		profile.Post("/picture", UploadProfilePicture)
	}

	properties := api.Party("/properties")
	{
		properties.Get("/search", SearchProperties)
		properties.Get("/{id:uint}", GetPropertyDetail)
		properties.Post("/{id:uint}/book", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateBooking)
	}

	bookings := api.Party("/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		bookings.Post("/{id:uint}/cancel", tenantOrOwner, CancelBooking)
		bookings.Post("/{id:uint}/review", SubmitReview)
	}

	tenant := api.Party("/tenant", accessTokenVerifierMiddleware, tenantOnly)
	{
		tenant.Get("/dashboard", TenantDashboard)
		tenant.Get("/bookings", GetTenantBookings)
		tenant.Get("/bookings/{id:uint}/payment", GetPaymentForm)
		tenant.Post("/bookings/{id:uint}/payments", MakePayment)
		tenant.Get("/payments", GetTenantPayments)
		tenant.Get("/complaints/new", GetComplaintForm)
		tenant.Post("/complaints", SubmitComplaint)
	}

	owner := api.Party("/owner", accessTokenVerifierMiddleware, ownerOnly)
	{
		owner.Get("/dashboard", OwnerDashboard)
		owner.Get("/properties", ListOwnerProperties)
		owner.Post("/properties", CreateProperty)
		owner.Put("/properties/{id:uint}", UpdateProperty)
		owner.Delete("/properties/{id:uint}", DeleteProperty)
		owner.Post("/properties/{id:uint}/images", AddPropertyImage)
		owner.Get("/bookings", GetOwnerBookings)
		owner.Post("/bookings/{id:uint}/confirm", ConfirmBooking)
		owner.Get("/payments", GetOwnerPayments)
		owner.Post("/payments/{id:uint}/confirm", ConfirmPayment)
		owner.Get("/payments/export/csv", ExportOwnerPaymentsCSV)
		owner.Get("/payments/export/pdf", ExportOwnerPaymentsPDF)
		owner.Get("/complaints", GetOwnerComplaints)
		owner.Post("/complaints/{id:uint}", UpdateComplaint)
		owner.Post("/complaints/{id:uint}/resolve", QuickResolveComplaint)
		owner.Post("/reviews/{id:uint}/response", RespondToReview)
	}

	messages := api.Party("/messages", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		messages.Get("/", GetInbox)
		messages.Post("/", SendMessage)
		messages.Delete("/{id:uint}", DeleteMessage)
		messages.Post("/{id:uint}/read", MarkMessageRead)
	}

	notifications := api.Party("/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", GetNotifications)
		notifications.Post("/{id:uint}/read", MarkNotificationRead)
		notifications.Post("/read-all", MarkAllNotificationsRead)
	}

	admin := api.Party("/admin", accessTokenVerifierMiddleware, adminOnly)
	{
		admin.Get("/dashboard", AdminDashboard)
		admin.Get("/users", AdminListUsers)
		admin.Patch("/users/{id:uint}", AdminUpdateUser)
		admin.Post("/users/bulk", AdminBulkUsers)
		admin.Get("/properties", AdminListProperties)
		admin.Patch("/properties/{id:uint}/status", AdminSetPropertyStatus)
		admin.Get("/bookings", AdminListBookings)
		admin.Get("/payments", AdminListPayments)
		admin.Get("/reviews", AdminListReviews)
		admin.Patch("/reviews/{id:uint}/approval", AdminSetReviewApproval)
		admin.Get("/reports/{type:string}", AdminReport)
		admin.Get("/audit", AdminListAuditLogs)
	}

	return app
}
