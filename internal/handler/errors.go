package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/pkg/errors"
	"locallink/internal/pkg/validate"
	"locallink/internal/service/auth"
	"locallink/internal/service/business"
	"locallink/internal/service/connection"
	"locallink/internal/service/message"
	"locallink/internal/service/notification"
	"locallink/internal/service/order"
	"locallink/internal/service/product"
	"locallink/internal/service/review"
	"locallink/internal/service/storage"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrForbidden, fiber.StatusForbidden},

	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{auth.ErrInvalidToken, fiber.StatusUnauthorized},
	{auth.ErrEmailExists, fiber.StatusBadRequest},
	{auth.ErrBusinessNotFound, fiber.StatusNotFound},

	{business.ErrBusinessNotFound, fiber.StatusNotFound},

	{product.ErrProductNotFound, fiber.StatusNotFound},
	{product.ErrBusinessNotFound, fiber.StatusNotFound},
	{product.ErrInvalidPriceRange, fiber.StatusBadRequest},

	{order.ErrOrderNotFound, fiber.StatusNotFound},
	{order.ErrProductNotFound, fiber.StatusNotFound},
	{order.ErrSupplierNotFound, fiber.StatusNotFound},
	{order.ErrProductNotOffered, fiber.StatusBadRequest},
	{order.ErrSelfOrder, fiber.StatusBadRequest},
	{order.ErrInvalidStatus, fiber.StatusBadRequest},
	{order.ErrInvalidTransition, fiber.StatusBadRequest},
	{order.ErrInvalidVerificationCode, fiber.StatusBadRequest},
	{order.ErrInvalidRole, fiber.StatusBadRequest},

	{connection.ErrConnectionNotFound, fiber.StatusNotFound},
	{connection.ErrBusinessNotFound, fiber.StatusNotFound},
	{connection.ErrSelfConnection, fiber.StatusBadRequest},
	{connection.ErrInvalidStatus, fiber.StatusBadRequest},

	{message.ErrReceiverNotFound, fiber.StatusNotFound},
	{message.ErrEmptyContent, fiber.StatusBadRequest},
	{message.ErrSelfMessage, fiber.StatusBadRequest},

	{review.ErrReviewNotFound, fiber.StatusNotFound},
	{review.ErrBusinessNotFound, fiber.StatusNotFound},
	{review.ErrSelfReview, fiber.StatusBadRequest},

	{notification.ErrNotificationNotFound, fiber.StatusNotFound},

	{storage.ErrUnsupportedFormat, fiber.StatusBadRequest},
	{storage.ErrFileTooLarge, fiber.StatusBadRequest},
	{storage.ErrNoFiles, fiber.StatusBadRequest},
	{storage.ErrAssetNotFound, fiber.StatusNotFound},
	{storage.ErrStoreUnavailable, fiber.StatusServiceUnavailable},
}

// toHTTPError maps service errors onto the response status. Unknown errors
// pass through so the error handler logs them as 500s.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	var verr *validate.Error
	if errors.As(err, &verr) {
		return middleware.BadRequest(verr.Error())
	}

	var limitErr *storage.BatchLimitError
	if errors.As(err, &limitErr) {
		return middleware.BadRequest(limitErr.Error())
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return fiber.NewError(m.status, m.err.Error())
		}
	}
	return err
}
