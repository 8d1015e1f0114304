package utils

import (
	"errors"

	"rentalhouse-server/models"
	"rentalhouse-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// UserIDFromTokenMiddleware extracts the user ID from the access token and stores it in context.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims, ok := jwt.Get(ctx).(*AccessToken)
	if !ok {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Missing access token.", ctx)
		return
	}
	if !loadTokenUser(ctx, claims) {
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}

// RoleMiddleware lets the request through only for the given roles.
func RoleMiddleware(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		claims, ok := jwt.Get(ctx).(*AccessToken)
		if !ok || !slices.Contains(roles, claims.Role) {
			ctx.StopWithJSON(iris.StatusForbidden, FlashResponse{
				Level:    FlashError,
				Message:  "Access denied.",
				Redirect: "home",
			})
			return
		}
		if !loadTokenUser(ctx, claims) {
			return
		}
		ctx.Values().Set("userID", claims.ID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// loadTokenUser checks the token's user against the database and stops the
// request when the account is gone, disabled, or no longer has the token's role.
func loadTokenUser(ctx iris.Context, claims *AccessToken) bool {
	var user models.User
	err := storage.DB.Select("id, role, is_active, status").First(&user, claims.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Your session is no longer valid.", ctx)
		return false
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", claims.ID).Msg("failed to load token user")
		CreateInternalServerError(ctx)
		return false
	}
	if !accountEnabled(user) {
		CreateError(iris.StatusForbidden, "Forbidden", "Your account is disabled.", ctx)
		return false
	}
	if string(user.Role) != claims.Role {
		CreateError(iris.StatusForbidden, "Forbidden", "Your role has changed, please log in again.", ctx)
		return false
	}
	return true
}

func accountEnabled(user models.User) bool {
	return user.IsActive && user.Status != models.UserSuspended
}

func CurrentUserID(ctx iris.Context) uint {
	if id, ok := ctx.Values().Get("userID").(uint); ok {
		return id
	}
	if claims, ok := jwt.Get(ctx).(*AccessToken); ok {
		return claims.ID
	}
	return 0
}

func CurrentRole(ctx iris.Context) string {
	if role := ctx.Values().GetString("role"); role != "" {
		return role
	}
	if claims, ok := jwt.Get(ctx).(*AccessToken); ok {
		return claims.Role
	}
	return ""
}
