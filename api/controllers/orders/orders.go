package orders

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	internalorders "github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/pagination"
)

const maxNotesLen = 2000

// Create places an order for the authenticated customer.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		principal, ok := principalFrom(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), principal, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setETag(w, order)
		responses.WriteSuccessStatus(w, http.StatusCreated, orderMessage{Order: order, Message: "Order placed successfully"})
	}
}

// Detail returns an order to its owner or an admin.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		principal, ok := principalFrom(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "id"), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setETag(w, order)
		responses.WriteSuccess(w, orderMessage{Order: order})
	}
}

// UpdateStatus moves an order through the fulfilment workflow. A version in
// the body or an If-Match header turns the write into a compare-and-swap.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payload.toInput()
		if input.ExpectedVersion == nil {
			version, err := ifMatchVersion(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ExpectedVersion = version
		}

		order, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setETag(w, order)
		responses.WriteSuccess(w, orderMessage{
			Order:   order,
			Message: "Order status updated to " + order.Status.String(),
		})
	}
}

// Remove deletes an order (admin) or cancels a pending one (owner).
func Remove(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		principal, ok := principalFrom(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		outcome, err := svc.RemoveOrder(r.Context(), chi.URLParam(r, "id"), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, outcome.Message(), nil)
	}
}

// List returns the admin order listing filtered by ?status= and paged by
// ?limit= and ?offset=.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		principal, ok := principalFrom(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		query, err := parseListQuery(r, pagination.DefaultAdminLimit, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOrders(r.Context(), principal, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// History returns one customer's orders; callers may read only their own
// unless they are admins.
func History(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		principal, ok := principalFrom(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		userID := strings.TrimSpace(chi.URLParam(r, "userId"))
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userId is required"))
			return
		}

		query, err := parseListQuery(r, pagination.DefaultLimit, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.Filter.UserID = userID

		result, err := svc.ListOrders(r.Context(), principal, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type orderMessage struct {
	Order   *internalorders.Order `json:"order"`
	Message string                `json:"message,omitempty"`
}

type createOrderRequest struct {
	Items           []internalorders.LineInput      `json:"items"`
	ShippingAddress *internalorders.ShippingAddress `json:"shippingAddress"`
	DiscountCode    string                          `json:"discountCode"`
	Notes           string                          `json:"notes"`
}

func (p createOrderRequest) toInput() internalorders.CreateOrderInput {
	return internalorders.CreateOrderInput{
		Items:           p.Items,
		ShippingAddress: p.ShippingAddress,
		DiscountCode:    strings.TrimSpace(p.DiscountCode),
		Notes:           validators.SanitizeString(p.Notes, maxNotesLen),
	}
}

type updateStatusRequest struct {
	Status            string  `json:"status"`
	AdminNotes        *string `json:"adminNotes"`
	TrackingNumber    *string `json:"trackingNumber"`
	EstimatedDelivery *string `json:"estimatedDelivery"`
	Version           *int64  `json:"version" validate:"omitempty,gte=1"`
}

func (p updateStatusRequest) toInput() internalorders.UpdateStatusInput {
	return internalorders.UpdateStatusInput{
		Status:            p.Status,
		AdminNotes:        p.AdminNotes,
		TrackingNumber:    p.TrackingNumber,
		EstimatedDelivery: p.EstimatedDelivery,
		ExpectedVersion:   p.Version,
	}
}

func parseListQuery(r *http.Request, defaultLimit int, sortable bool) (internalorders.ListQuery, error) {
	limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return internalorders.ListQuery{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		return internalorders.ListQuery{}, err
	}

	query := internalorders.ListQuery{
		Filter: internalorders.Filter{Status: enums.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))},
		Page:   pagination.Params{Limit: limit, Offset: offset},
		Sort:   internalorders.DefaultSort,
	}
	if sortable {
		sort, err := internalorders.ParseSort(r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder"))
		if err != nil {
			return internalorders.ListQuery{}, err
		}
		query.Sort = sort
	}
	return query, nil
}

// ifMatchVersion reads an optional If-Match header carrying an order version.
func ifMatchVersion(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "If-Match must carry an order version").
			WithDetails(map[string]any{"ifMatch": r.Header.Get("If-Match")})
	}
	return &version, nil
}

func setETag(w http.ResponseWriter, order *internalorders.Order) {
	if order != nil {
		w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(order.Version, 10)))
	}
}

func principalFrom(r *http.Request) (identity.Principal, bool) {
	principal, ok := identity.PrincipalFromContext(r.Context())
	if !ok || principal.UID == "" {
		return identity.Principal{}, false
	}
	return principal, true
}
