package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/autocenter-backend/internal/vehicles"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// VehicleLookup resolves a license plate through the cache and providers.
func VehicleLookup(svc vehicles.LookupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicle lookup")
			return
		}
		result, err := svc.Lookup(r.Context(), chi.URLParam(r, "plate"))
		writeResult(w, r, logg, result, err)
	}
}

func VehicleMakeList(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		makes, err := svc.ListMakes(r.Context())
		writeResult(w, r, logg, makes, err)
	}
}

func VehicleModelList(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		makeID, ok := pathID(w, r, logg, "makeId")
		if !ok {
			return
		}
		list, err := svc.ListModels(r.Context(), makeID)
		writeResult(w, r, logg, list, err)
	}
}

func VehicleVariantList(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		modelID, ok := pathID(w, r, logg, "modelId")
		if !ok {
			return
		}
		list, err := svc.ListVariants(r.Context(), modelID)
		writeResult(w, r, logg, list, err)
	}
}

func AdminVehicleMakeCreate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		var body vehicles.MakeInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateMake(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminVehicleMakeUpdate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "makeId")
		if !ok {
			return
		}
		var body vehicles.MakeInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateMake(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminVehicleMakeDelete(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "makeId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteMake(r.Context(), id))
	}
}

func AdminVehicleModelCreate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		makeID, ok := pathID(w, r, logg, "makeId")
		if !ok {
			return
		}
		var body vehicles.ModelInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateModel(r.Context(), makeID, body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminVehicleModelUpdate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "modelId")
		if !ok {
			return
		}
		var body vehicles.ModelInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateModel(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminVehicleModelDelete(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "modelId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteModel(r.Context(), id))
	}
}

func AdminVehicleVariantCreate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		modelID, ok := pathID(w, r, logg, "modelId")
		if !ok {
			return
		}
		var body vehicles.VariantInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateVariant(r.Context(), modelID, body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminVehicleVariantUpdate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "variantId")
		if !ok {
			return
		}
		var body vehicles.VariantInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateVariant(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminVehicleVariantDelete(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		id, ok := pathID(w, r, logg, "variantId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteVariant(r.Context(), id))
	}
}

func GarageList(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListCustomerVehicles(r.Context(), customerID)
		writeResult(w, r, logg, list, err)
	}
}

func GarageAdd(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		var body vehicles.CreateCustomerVehicleInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.AddCustomerVehicle(r.Context(), customerID, body)
		writeCreated(w, r, logg, out, err)
	}
}

func GarageUpdate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "vehicleId")
		if !ok {
			return
		}
		var body vehicles.UpdateCustomerVehicleInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateCustomerVehicle(r.Context(), customerID, id, body)
		writeResult(w, r, logg, out, err)
	}
}

func GarageDelete(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vehicles service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "vehicleId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteCustomerVehicle(r.Context(), customerID, id))
	}
}
