package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/internal/shipping"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func ShippingMethodList(svc shipping.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		inactive := false
		if admin {
			var err error
			if inactive, err = includeInactive(r); err != nil {
				writeResult(w, r, logg, nil, err)
				return
			}
		}
		methods, err := svc.ListMethods(r.Context(), inactive)
		writeResult(w, r, logg, methods, err)
	}
}

// ShippingQuote prices every active method for ?subtotal.
func ShippingQuote(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		subtotal, err := decimal.NewFromString(strings.TrimSpace(r.URL.Query().Get("subtotal")))
		if err != nil || subtotal.IsNegative() {
			writeResult(w, r, logg, nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be a non-negative amount").
				WithDetails(map[string]any{"field": "subtotal"}))
			return
		}
		quotes, err := svc.QuoteAll(r.Context(), subtotal)
		writeResult(w, r, logg, quotes, err)
	}
}

func AdminShippingMethodGet(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		id, ok := pathID(w, r, logg, "methodId")
		if !ok {
			return
		}
		method, err := svc.GetMethod(r.Context(), id)
		writeResult(w, r, logg, method, err)
	}
}

func AdminShippingMethodCreate(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		var body shipping.CreateMethodInput
		if !decode(w, r, logg, &body) {
			return
		}
		method, err := svc.CreateMethod(r.Context(), body)
		writeCreated(w, r, logg, method, err)
	}
}

func AdminShippingMethodUpdate(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		id, ok := pathID(w, r, logg, "methodId")
		if !ok {
			return
		}
		var body shipping.UpdateMethodInput
		if !decode(w, r, logg, &body) {
			return
		}
		method, err := svc.UpdateMethod(r.Context(), id, body)
		writeResult(w, r, logg, method, err)
	}
}

func AdminShippingMethodDelete(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "shipping service")
			return
		}
		id, ok := pathID(w, r, logg, "methodId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteMethod(r.Context(), id))
	}
}
