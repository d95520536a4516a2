package controllers

import (
	"net/http"

	"github.com/angelmondragon/autocenter-backend/internal/loyalty"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func LoyaltyAccount(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		account, err := svc.GetAccount(r.Context(), customerID)
		writeResult(w, r, logg, account, err)
	}
}

func LoyaltyTransactions(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		params, err := pageParams(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.ListTransactions(r.Context(), customerID, params)
		writeResult(w, r, logg, page, err)
	}
}

func LoyaltyRewards(svc loyalty.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
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
		rewards, err := svc.ListRewards(r.Context(), inactive)
		writeResult(w, r, logg, rewards, err)
	}
}

// LoyaltyRedeem spends points on a reward.
func LoyaltyRedeem(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		var body loyalty.RedeemRewardInput
		if !decode(w, r, logg, &body) {
			return
		}
		txn, err := svc.RedeemReward(r.Context(), customerID, body.RewardID)
		writeCreated(w, r, logg, txn, err)
	}
}

func AdminLoyaltySettingsGet(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		settings, err := svc.GetSettings(r.Context())
		writeResult(w, r, logg, settings, err)
	}
}

func AdminLoyaltySettingsUpdate(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		var body loyalty.UpdateSettingsInput
		if !decode(w, r, logg, &body) {
			return
		}
		settings, err := svc.UpdateSettings(r.Context(), body)
		writeResult(w, r, logg, settings, err)
	}
}

func AdminLoyaltyAdjust(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		customerID, ok := pathID(w, r, logg, "customerId")
		if !ok {
			return
		}
		var body loyalty.AdjustInput
		if !decode(w, r, logg, &body) {
			return
		}
		txn, err := svc.Adjust(r.Context(), customerID, body)
		writeCreated(w, r, logg, txn, err)
	}
}

func AdminLoyaltyAccount(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		customerID, ok := pathID(w, r, logg, "customerId")
		if !ok {
			return
		}
		account, err := svc.GetAccount(r.Context(), customerID)
		writeResult(w, r, logg, account, err)
	}
}

func AdminRewardCreate(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		var body loyalty.CreateRewardInput
		if !decode(w, r, logg, &body) {
			return
		}
		reward, err := svc.CreateReward(r.Context(), body)
		writeCreated(w, r, logg, reward, err)
	}
}

func AdminRewardUpdate(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		id, ok := pathID(w, r, logg, "rewardId")
		if !ok {
			return
		}
		var body loyalty.UpdateRewardInput
		if !decode(w, r, logg, &body) {
			return
		}
		reward, err := svc.UpdateReward(r.Context(), id, body)
		writeResult(w, r, logg, reward, err)
	}
}

func AdminRewardDelete(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "loyalty service")
			return
		}
		id, ok := pathID(w, r, logg, "rewardId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteReward(r.Context(), id))
	}
}
