package utils

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func RequestLogger(ctx iris.Context) {
	start := time.Now()
	ctx.Next()

	status := ctx.GetStatusCode()
	var event *zerolog.Event
	switch {
	case status >= 500:
		event = log.Error()
	case status >= 400:
		event = log.Warn()
	default:
		event = log.Info()
	}
	event.
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
}
