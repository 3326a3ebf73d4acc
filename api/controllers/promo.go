package controllers

import (
	"net/http"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/promo"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

// ValidatePromo checks a promo code. The body is always the validation
// result; rejected codes carry 400 (missing), 404 (unknown) or 410 (expired).
func ValidatePromo(validator promo.Validator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if validator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo validator unavailable"))
			return
		}

		var payload struct {
			Code any `json:"code"`
		}
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// non-string codes are treated as missing
		code, _ := payload.Code.(string)
		result := validator.Validate(code)
		if result.Reason != promo.ReasonNone {
			logg.Debug(logg.WithField(r.Context(), "reason", string(result.Reason)), "promo.rejected")
		}
		responses.WriteSuccessStatus(w, promoStatus(result.Reason), result)
	}
}

func promoStatus(reason promo.Reason) int {
	switch reason {
	case promo.ReasonRequired:
		return http.StatusBadRequest
	case promo.ReasonInvalid:
		return http.StatusNotFound
	case promo.ReasonExpired:
		return pkgerrors.MetadataFor(pkgerrors.CodePromoExpired).HTTPStatus
	default:
		return http.StatusOK
	}
}
