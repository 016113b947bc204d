package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/bookshop-backend/api/responses"
	"github.com/angelmondragon/bookshop-backend/api/validators"
	"github.com/angelmondragon/bookshop-backend/internal/checkout"
	"github.com/angelmondragon/bookshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
)

// CheckoutService prices carts and completes paid orders.
type CheckoutService interface {
	Summary(c checkout.Cart) checkout.Summary
	Complete(ctx context.Context, c checkout.Cart, outcome checkout.PaymentOutcome) (checkout.Confirmation, error)
}

type contactPayload struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Address   string `json:"address" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"omitempty,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=100"`
}

func (c contactPayload) toContact() checkout.Contact {
	return checkout.Contact{
		FirstName: validators.SanitizeString(c.FirstName, 100),
		LastName:  validators.SanitizeString(c.LastName, 100),
		Email:     validators.SanitizeString(c.Email, 254),
		Phone:     validators.SanitizeString(c.Phone, 32),
		Address:   validators.SanitizeString(c.Address, 200),
		City:      validators.SanitizeString(c.City, 100),
		State:     validators.SanitizeString(c.State, 100),
		ZipCode:   validators.SanitizeString(c.ZipCode, 20),
		Country:   validators.SanitizeString(c.Country, 100),
	}
}

type completeCheckoutRequest struct {
	Status    string         `json:"status" validate:"required,oneof=success failed abandoned"`
	Reference string         `json:"reference" validate:"omitempty,max=128"`
	Contact   contactPayload `json:"contact"`
}

// CheckoutSummary prices the session cart.
func CheckoutSummary(carts CartProvider, svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Summary(store).DTO())
	}
}

// CheckoutComplete records the payment widget outcome. Only a successful
// payment clears the cart.
func CheckoutComplete(carts CartProvider, svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload completeCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conf, err := svc.Complete(r.Context(), store, checkout.PaymentOutcome{
			Status:    status,
			Reference: validators.SanitizeString(payload.Reference, 128),
			Contact:   payload.Contact.toContact(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conf.DTO())
	}
}
