package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/internal/products"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// ProductList serves both the storefront and the admin listing; only admins
// may pass ?include_inactive=true.
func ProductList(svc products.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		params, err := pageParams(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		input := products.ListProductsInput{
			Category:   strings.TrimSpace(r.URL.Query().Get("category")),
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination: params,
		}
		if admin {
			if input.IncludeInactive, err = includeInactive(r); err != nil {
				writeResult(w, r, logg, nil, err)
				return
			}
		}
		page, err := svc.ListProducts(r.Context(), input)
		writeResult(w, r, logg, page, err)
	}
}

func ProductGet(svc products.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		id, ok := pathID(w, r, logg, "productId")
		if !ok {
			return
		}
		product, err := svc.GetProduct(r.Context(), id, admin)
		writeResult(w, r, logg, product, err)
	}
}

func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		var body products.CreateProductInput
		if !decode(w, r, logg, &body) {
			return
		}
		product, err := svc.CreateProduct(r.Context(), body)
		writeCreated(w, r, logg, product, err)
	}
}

func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		id, ok := pathID(w, r, logg, "productId")
		if !ok {
			return
		}
		var body products.UpdateProductInput
		if !decode(w, r, logg, &body) {
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, body)
		writeResult(w, r, logg, product, err)
	}
}

func AdminProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		id, ok := pathID(w, r, logg, "productId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteProduct(r.Context(), id))
	}
}

// AdminProductStock applies a signed stock delta.
func AdminProductStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		id, ok := pathID(w, r, logg, "productId")
		if !ok {
			return
		}
		var body products.AdjustStockInput
		if !decode(w, r, logg, &body) {
			return
		}
		product, err := svc.AdjustStock(r.Context(), id, body.Delta)
		writeResult(w, r, logg, product, err)
	}
}
