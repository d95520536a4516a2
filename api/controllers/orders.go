package controllers

import (
	"net/http"

	"github.com/angelmondragon/autocenter-backend/api/middleware"
	"github.com/angelmondragon/autocenter-backend/internal/orders"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// OrderCreate checks out the caller's items. The Idempotency-Key header is
// enforced by middleware.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		var body orders.CreateOrderInput
		if !decode(w, r, logg, &body) {
			return
		}
		order, err := svc.Create(r.Context(), customerID, body)
		writeCreated(w, r, logg, order, err)
	}
}

func OrderListMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		input, err := orderListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.ListForCustomer(r.Context(), customerID, input)
		writeResult(w, r, logg, page, err)
	}
}

func OrderGetMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, logg, "orderId")
		if !ok {
			return
		}
		order, err := svc.GetForCustomer(r.Context(), customerID, orderID)
		writeResult(w, r, logg, order, err)
	}
}

func OrderCancelMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, logg, "orderId")
		if !ok {
			return
		}
		order, err := svc.CancelForCustomer(r.Context(), customerID, orderID)
		writeResult(w, r, logg, order, err)
	}
}

func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		input, err := orderListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		if input.CustomerID, err = uuidQuery(r, "customer_id"); err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.List(r.Context(), input)
		writeResult(w, r, logg, page, err)
	}
}

func AdminOrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		orderID, ok := pathID(w, r, logg, "orderId")
		if !ok {
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		writeResult(w, r, logg, order, err)
	}
}

func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}
		adminID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, logg, "orderId")
		if !ok {
			return
		}
		var body orders.UpdateStatusInput
		if !decode(w, r, logg, &body) {
			return
		}
		actor := orders.Actor{ID: adminID, Role: middleware.RoleFromContext(r.Context())}
		order, err := svc.UpdateStatus(r.Context(), actor, orderID, body.Status)
		writeResult(w, r, logg, order, err)
	}
}

func orderListInput(r *http.Request) (orders.ListInput, error) {
	params, err := pageParams(r)
	if err != nil {
		return orders.ListInput{}, err
	}
	status, err := enumQuery(r, "status", enums.ParseOrderStatus)
	if err != nil {
		return orders.ListInput{}, err
	}
	return orders.ListInput{Status: status, Pagination: params}, nil
}
