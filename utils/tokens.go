package utils

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"rentalhouse-server/models"
	"rentalhouse-server/storage"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/rs/zerolog/log"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var bgContext = context.Background()

// TokenStore is the allow-list of refresh tokens that have not been used or revoked.
type TokenStore interface {
	Allow(ctx context.Context, token string, ttl time.Duration) error
	// Consume removes the token and reports whether it was allowed.
	Consume(ctx context.Context, token string) (bool, error)
}

type RedisTokenStore struct {
	Client *redis.Client
}

func (s *RedisTokenStore) Allow(ctx context.Context, token string, ttl time.Duration) error {
	return s.Client.Set(ctx, token, "true", ttl).Err()
}

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (bool, error) {
	valid, err := s.Client.Get(ctx, token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.Client.Del(ctx, token).Err(); err != nil {
		return false, err
	}
	return valid == "true", nil
}

var Tokens TokenStore

func CreateTokenPair(id uint, role string) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), accessTokenTTL)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")), refreshTokenTTL)

	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(id), 10)}

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: id, Role: role})
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	if Tokens != nil {
		if err := Tokens.Allow(bgContext, string(refreshToken), refreshTokenTTL+5*time.Minute); err != nil {
			return nil, err
		}
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	return &tokenPair, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	if Tokens == nil {
		CreateInternalServerError(ctx)
		return
	}
	valid, err := Tokens.Consume(ctx.Request().Context(), tokenStr)
	if err != nil {
		log.Error().Err(err).Msg("refresh token lookup failed")
		CreateInternalServerError(ctx)
		return
	}
	if !valid {
		CreateError(iris.StatusForbidden, "Forbidden", "Refresh token is no longer valid.", ctx)
		return
	}

	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	var user models.User
	if err := storage.DB.Select("id, role, is_active, status").First(&user, uint(userID)).Error; err != nil {
		CreateNotFound(ctx)
		return
	}
	if !accountEnabled(user) {
		CreateError(iris.StatusForbidden, "Forbidden", "Your account is disabled.", ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(user.ID, string(user.Role))
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// Logout drops the refresh token from the allow-list.
func Logout(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	if Tokens != nil {
		if _, err := Tokens.Consume(ctx.Request().Context(), string(token.Token)); err != nil {
			log.Error().Err(err).Msg("refresh token revoke failed")
		}
	}
	Flash(ctx, iris.StatusOK, FlashSuccess, "You have been logged out.", "login", nil)
}

type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
