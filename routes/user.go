package routes

import (
	"errors"
	"fmt"

	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog/log"
)

func Register(ctx iris.Context) {
	var userInput services.RegisterInput
	if !readInput(ctx, &userInput) {
		return
	}

	user, err := services.Register(storage.DB, userInput)
	if errors.Is(err, services.ErrEmailTaken) {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}
	if err != nil {
		handleServiceError(ctx, err, "register")
		return
	}

	message := "Tenant account created successfully! Please login."
	if user.Role == models.OwnerRole {
		message = "Owner account created successfully! Please login."
	}
	created(ctx, message, "login", user)
}

func Login(ctx iris.Context) {
	var userInput services.LoginInput
	if !readInput(ctx, &userInput) {
		return
	}

	user, err := services.Authenticate(storage.DB, userInput.Email, userInput.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid email or password.", ctx)
		return
	case errors.Is(err, services.ErrAccountDisabled):
		utils.CreateError(iris.StatusForbidden, "Credentials Error", "Your account is disabled.", ctx)
		return
	case err != nil:
		handleServiceError(ctx, err, "login")
		return
	}

	returnUser(*user, ctx)
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID, string(user.Role))
	if tokenErr != nil {
		log.Error().Err(tokenErr).Uint("userID", user.ID).Msg("failed to create token pair")
		utils.CreateInternalServerError(ctx)
		return
	}

	success(ctx, fmt.Sprintf("Welcome back, %s!", user.FirstName), user.Dashboard(), iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"role":         user.Role,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func GetProfile(ctx iris.Context) {
	user, err := services.GetUser(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(user)
}

func UpdateProfile(ctx iris.Context) {
	var profileInput services.ProfileInput
	if !readInput(ctx, &profileInput) {
		return
	}

	user, err := services.UpdateProfile(storage.DB, utils.CurrentUserID(ctx), profileInput)
	if err != nil {
		handleServiceError(ctx, err, "user_profile")
		return
	}
	success(ctx, "Profile updated successfully!", "user_profile", user)
}

type imageUploadInput struct {
	Data    string `json:"data" validate:"required"`
	Caption string `json:"caption" validate:"max=200"`
	Primary bool   `json:"isPrimary"`
}

func UploadProfilePicture(ctx iris.Context) {
	var in imageUploadInput
	if !readInput(ctx, &in) {
		return
	}

	userID := utils.CurrentUserID(ctx)
	url, err := storage.Uploader.UploadImage(ctx.Request().Context(), in.Data, "profile_pics", fmt.Sprintf("user-%d", userID))
	if err != nil {
		uploadFailed(ctx, err, "user_profile")
		return
	}
	if err := services.SetProfilePicture(storage.DB, userID, url); err != nil {
		handleServiceError(ctx, err, "user_profile")
		return
	}
	success(ctx, "Profile picture updated.", "user_profile", iris.Map{"url": url})
}

func uploadFailed(ctx iris.Context, err error, redirect string) {
	if errors.Is(err, storage.ErrUploadsDisabled) {
		utils.Flash(ctx, iris.StatusServiceUnavailable, utils.FlashError, "Image uploads are not available.", redirect, nil)
		return
	}
	log.Error().Err(err).Msg("image upload failed")
	utils.Flash(ctx, iris.StatusBadGateway, utils.FlashError, "Image upload failed.", redirect, nil)
}
