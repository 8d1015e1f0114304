package utils

import (
	"encoding/json"
	"net"

	"rentalhouse-server/models"
	"rentalhouse-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog/log"
)

// Audit records an admin mutation. Failures are logged, never returned.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	entry := models.AuditLog{
		AdminUserID:  CurrentUserID(ctx),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    clientIP(ctx),
	}
	if err := storage.DB.Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(ctx.RemoteAddr())
	if err != nil {
		return ctx.RemoteAddr()
	}
	return ip
}
