package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandler is the single place errors become responses. App errors keep
// their status and message; anything else is a 500 whose cause is only
// shown outside production.
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		label := apperr.KindInternal.String()
		resp := dto.ErrorResponse{Error: "Internal server error"}

		var fe *fiber.Error
		if appErr, ok := apperr.As(err); ok {
			status = appErr.HTTPStatus()
			label = appErr.Kind.String()
			resp.Error = appErr.Message
			if appErr.Err != nil && !cfg.IsProduction() {
				resp.Details = appErr.Err.Error()
			}
		} else if errors.As(err, &fe) {
			status = fe.Code
			label = "http_" + strconv.Itoa(fe.Code)
			resp.Error = fe.Message
		} else if !cfg.IsProduction() {
			resp.Details = err.Error()
		}

		if status >= fiber.StatusInternalServerError {
			attrs := []any{
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err.Error(),
			}
			if p, perr := middleware.CurrentPrincipal(c); perr == nil {
				attrs = append(attrs, "user_id", p.UserID.String())
			}
			slog.Error("request failed", attrs...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		metrics.AppErrors.WithLabelValues(label).Inc()
		return c.Status(status).JSON(resp)
	}
}

// NotFound answers any route nothing else matched.
func NotFound(c *fiber.Ctx) error {
	return apperr.NotFound("Route " + c.OriginalURL() + " not found")
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid ID format")
	}
	return id, nil
}

// pageQuery reads page and limit; missing or non-numeric values fall back
// to the defaults.
func pageQuery(c *fiber.Ctx, defaultLimit int) dto.PageRequest {
	return dto.NewPageRequest(c.QueryInt("page", 0), c.QueryInt("limit", 0), defaultLimit)
}
