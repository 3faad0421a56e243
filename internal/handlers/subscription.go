package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/handlers/render"
	"github.com/ahm4dd/subhub/internal/handlers/userctx"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/service/auth"
	"github.com/ahm4dd/subhub/internal/service/subscription"
)

type SubscriptionHandler struct {
	subs   *subscription.Service
	guard  *auth.Guard
	logger logger.Logger
}

func NewSubscription(service *subscription.Service, guard *auth.Guard, l logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: service, guard: guard, logger: l}
}

func (h *SubscriptionHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/subscriptions", h.create)
	mux.HandleFunc("GET /api/v1/subscriptions", h.list)
	mux.HandleFunc("GET /api/v1/subscriptions/upcoming-renewals", h.upcomingRenewals)
	mux.HandleFunc("GET /api/v1/subscriptions/{id}", h.get)
	mux.HandleFunc("PUT /api/v1/subscriptions/{id}", h.update)
	mux.HandleFunc("POST /api/v1/subscriptions/{id}/cancel", h.cancel)
	mux.HandleFunc("DELETE /api/v1/subscriptions/{id}", h.delete)

	return mux
}

type SubscriptionRequest struct {
	Name          string          `json:"name" validate:"required,min=3,max=100"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Currency      string          `json:"currency" validate:"required,oneof=USD EUR GDP"`
	Frequency     string          `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Category      string          `json:"category" validate:"required,oneof=sports news entertainment lifestyle technology finance politics other"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
	StartDate     time.Time       `json:"startDate" validate:"required"`
}

type SubscriptionResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Frequency     string          `json:"frequency"`
	Status        string          `json:"status"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"paymentMethod"`
	StartDate     time.Time       `json:"startDate"`
	RenewalDate   *time.Time      `json:"renewalDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toSubscriptionResponse(s models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		Name:          s.Name,
		Price:         s.Price,
		Currency:      s.Currency,
		Frequency:     s.Frequency,
		Status:        s.Status,
		Category:      s.Category,
		PaymentMethod: s.PaymentMethod,
		StartDate:     s.StartDate,
		RenewalDate:   s.RenewalDate,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// validateRequest applies the checks struct tags can't express
func (h *SubscriptionHandler) validateRequest(w http.ResponseWriter, data SubscriptionRequest) bool {
	switch {
	case !data.Price.IsPositive() || data.Price.GreaterThanOrEqual(decimal.NewFromInt(100)):
		render.ServiceError(w, "Price must be greater than 0 and less than 100", http.StatusBadRequest)
	case !data.StartDate.Before(time.Now()):
		render.ServiceError(w, "Start date must be in the past", http.StatusBadRequest)
	default:
		return true
	}
	return false
}

func (h *SubscriptionHandler) create(w http.ResponseWriter, r *http.Request) {
	subject, ok := userctx.Subject(r.Context())
	if !ok {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return
	}

	data, err := render.BindAndValidate[SubscriptionRequest](w, r)
	if err != nil {
		return
	}
	if !h.validateRequest(w, data) {
		return
	}

	sub, err := h.subs.Create(r.Context(), models.Subscription{
		UserID:        subject,
		Name:          data.Name,
		Price:         data.Price,
		Currency:      data.Currency,
		Frequency:     data.Frequency,
		Category:      data.Category,
		PaymentMethod: data.PaymentMethod,
		StartDate:     data.StartDate,
	})
	if err != nil {
		h.logger.Error("create subscription failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONStatus(w, toSubscriptionResponse(sub), http.StatusCreated)
}

func (h *SubscriptionHandler) list(w http.ResponseWriter, r *http.Request) {
	subject, ok := userctx.Subject(r.Context())
	if !ok {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return
	}

	subs, err := h.subs.ListByUser(r.Context(), subject)
	if err != nil {
		h.logger.Error("list subscriptions failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		response = append(response, toSubscriptionResponse(s))
	}

	render.JSON(w, response)
}

// Renewals this far ahead count as upcoming
const renewalWindow = 7 * 24 * time.Hour

func (h *SubscriptionHandler) upcomingRenewals(w http.ResponseWriter, r *http.Request) {
	subject, ok := userctx.Subject(r.Context())
	if !ok {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return
	}

	subs, err := h.subs.UpcomingRenewals(r.Context(), subject, time.Now(), renewalWindow)
	if err != nil {
		h.logger.Error("list upcoming renewals failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		response = append(response, toSubscriptionResponse(s))
	}

	render.JSON(w, response)
}

// loadOwned fetches the subscription and enforces that the
// authenticated subject owns it
func (h *SubscriptionHandler) loadOwned(w http.ResponseWriter, r *http.Request) (models.Subscription, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid subscription id", http.StatusBadRequest)
		return models.Subscription{}, false
	}

	subject, ok := userctx.Subject(r.Context())
	if !ok {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return models.Subscription{}, false
	}

	sub, err := h.subs.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSubscriptionNotFound):
			render.ServiceError(w, "Subscription not found", http.StatusNotFound)
		default:
			h.logger.Error("get subscription failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return models.Subscription{}, false
	}

	if err := h.guard.RequireOwner(subject, sub.UserID); err != nil {
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
		return models.Subscription{}, false
	}

	return sub, true
}

func (h *SubscriptionHandler) get(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	render.JSON(w, toSubscriptionResponse(sub))
}

func (h *SubscriptionHandler) update(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[SubscriptionRequest](w, r)
	if err != nil {
		return
	}
	if !h.validateRequest(w, data) {
		return
	}

	sub.Name = data.Name
	sub.Price = data.Price
	sub.Currency = data.Currency
	sub.Frequency = data.Frequency
	sub.Category = data.Category
	sub.PaymentMethod = data.PaymentMethod
	sub.StartDate = data.StartDate

	updated, err := h.subs.Update(r.Context(), sub)
	if err != nil {
		h.logger.Error("update subscription failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, toSubscriptionResponse(updated))
}

func (h *SubscriptionHandler) cancel(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	cancelled, err := h.subs.Cancel(r.Context(), sub.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSubscriptionCancelled):
			render.ServiceError(w, "Subscription already cancelled", http.StatusBadRequest)
		default:
			h.logger.Error("cancel subscription failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toSubscriptionResponse(cancelled))
}

func (h *SubscriptionHandler) delete(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.subs.Delete(r.Context(), sub.ID); err != nil {
		h.logger.Error("delete subscription failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.NoContent(w)
}
