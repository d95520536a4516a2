package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/internal/workshop"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func WorkshopServiceList(svc workshop.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "workshop service")
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
		list, err := svc.ListServices(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")), inactive)
		writeResult(w, r, logg, list, err)
	}
}

func WorkshopServiceGet(svc workshop.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "workshop service")
			return
		}
		id, ok := pathID(w, r, logg, "serviceId")
		if !ok {
			return
		}
		item, err := svc.GetService(r.Context(), id, admin)
		writeResult(w, r, logg, item, err)
	}
}

func AdminWorkshopServiceCreate(svc workshop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "workshop service")
			return
		}
		var body workshop.CreateServiceInput
		if !decode(w, r, logg, &body) {
			return
		}
		item, err := svc.CreateService(r.Context(), body)
		writeCreated(w, r, logg, item, err)
	}
}

func AdminWorkshopServiceUpdate(svc workshop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "workshop service")
			return
		}
		id, ok := pathID(w, r, logg, "serviceId")
		if !ok {
			return
		}
		var body workshop.UpdateServiceInput
		if !decode(w, r, logg, &body) {
			return
		}
		item, err := svc.UpdateService(r.Context(), id, body)
		writeResult(w, r, logg, item, err)
	}
}

func AdminWorkshopServiceDelete(svc workshop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "workshop service")
			return
		}
		id, ok := pathID(w, r, logg, "serviceId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteService(r.Context(), id))
	}
}
