package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/internal/coupons"
	"github.com/angelmondragon/autocenter-backend/internal/promotions"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// CouponValidate previews a coupon against a cart total without redeeming it.
func CouponValidate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		var body coupons.ValidateInput
		if !decode(w, r, logg, &body) {
			return
		}
		result, err := svc.Validate(r.Context(), body, nil)
		writeResult(w, r, logg, result, err)
	}
}

func AdminCouponList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		params, err := pageParams(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), params)
		writeResult(w, r, logg, page, err)
	}
}

func AdminCouponGet(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		id, ok := pathID(w, r, logg, "couponId")
		if !ok {
			return
		}
		coupon, err := svc.Get(r.Context(), id)
		writeResult(w, r, logg, coupon, err)
	}
}

func AdminCouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		var body coupons.CreateCouponInput
		if !decode(w, r, logg, &body) {
			return
		}
		coupon, err := svc.Create(r.Context(), body)
		writeCreated(w, r, logg, coupon, err)
	}
}

func AdminCouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		id, ok := pathID(w, r, logg, "couponId")
		if !ok {
			return
		}
		var body coupons.UpdateCouponInput
		if !decode(w, r, logg, &body) {
			return
		}
		coupon, err := svc.Update(r.Context(), id, body)
		writeResult(w, r, logg, coupon, err)
	}
}

func AdminCouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "coupon service")
			return
		}
		id, ok := pathID(w, r, logg, "couponId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.Delete(r.Context(), id))
	}
}

// PromotionListCurrent returns promotions running right now.
func PromotionListCurrent(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		list, err := svc.ListCurrent(r.Context())
		writeResult(w, r, logg, list, err)
	}
}

func AdminPromotionList(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		list, err := svc.List(r.Context())
		writeResult(w, r, logg, list, err)
	}
}

func AdminPromotionGet(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		id, ok := pathID(w, r, logg, "promotionId")
		if !ok {
			return
		}
		promo, err := svc.Get(r.Context(), id)
		writeResult(w, r, logg, promo, err)
	}
}

func AdminPromotionCreate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		var body promotions.CreatePromotionInput
		if !decode(w, r, logg, &body) {
			return
		}
		promo, err := svc.Create(r.Context(), body)
		writeCreated(w, r, logg, promo, err)
	}
}

func AdminPromotionUpdate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		id, ok := pathID(w, r, logg, "promotionId")
		if !ok {
			return
		}
		var body promotions.UpdatePromotionInput
		if !decode(w, r, logg, &body) {
			return
		}
		promo, err := svc.Update(r.Context(), id, body)
		writeResult(w, r, logg, promo, err)
	}
}

func AdminPromotionDelete(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion service")
			return
		}
		id, ok := pathID(w, r, logg, "promotionId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.Delete(r.Context(), id))
	}
}
