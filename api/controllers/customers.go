package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/internal/customers"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func MeGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		profile, err := svc.GetProfile(r.Context(), customerID)
		writeResult(w, r, logg, profile, err)
	}
}

func MeUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		var body customers.UpdateProfileInput
		if !decode(w, r, logg, &body) {
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), customerID, body)
		writeResult(w, r, logg, profile, err)
	}
}

// AdminCustomerList pages through customers, optionally filtered by ?q.
func AdminCustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		params, err := pageParams(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.ListCustomers(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), params)
		writeResult(w, r, logg, page, err)
	}
}

func AdminCustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		id, ok := pathID(w, r, logg, "customerId")
		if !ok {
			return
		}
		customer, err := svc.GetCustomer(r.Context(), id)
		writeResult(w, r, logg, customer, err)
	}
}

func AdminCustomerStatus(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		id, ok := pathID(w, r, logg, "customerId")
		if !ok {
			return
		}
		var body customers.SetStatusInput
		if !decode(w, r, logg, &body) {
			return
		}
		customer, err := svc.SetCustomerActive(r.Context(), id, *body.Active)
		writeResult(w, r, logg, customer, err)
	}
}

func AdminAdminList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		admins, err := svc.ListAdmins(r.Context())
		writeResult(w, r, logg, admins, err)
	}
}

func AdminAdminCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers service")
			return
		}
		var body customers.CreateAdminInput
		if !decode(w, r, logg, &body) {
			return
		}
		admin, err := svc.CreateAdmin(r.Context(), body)
		writeCreated(w, r, logg, admin, err)
	}
}
