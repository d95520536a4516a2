package controllers

import (
	"net/http"

	"github.com/angelmondragon/autocenter-backend/internal/cms"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// CMSHome returns active heroes, marquee messages and the footer in one call.
func CMSHome(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		home, err := svc.Home(r.Context())
		writeResult(w, r, logg, home, err)
	}
}

func AdminHeroList(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		inactive, err := includeInactive(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		list, err := svc.ListHeroes(r.Context(), inactive)
		writeResult(w, r, logg, list, err)
	}
}

func AdminHeroCreate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		var body cms.HeroInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateHero(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminHeroUpdate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		id, ok := pathID(w, r, logg, "heroId")
		if !ok {
			return
		}
		var body cms.UpdateHeroInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateHero(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminHeroDelete(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		id, ok := pathID(w, r, logg, "heroId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteHero(r.Context(), id))
	}
}

func AdminMarqueeList(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		inactive, err := includeInactive(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		list, err := svc.ListMarquee(r.Context(), inactive)
		writeResult(w, r, logg, list, err)
	}
}

func AdminMarqueeCreate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		var body cms.MarqueeInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateMarquee(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminMarqueeUpdate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		id, ok := pathID(w, r, logg, "messageId")
		if !ok {
			return
		}
		var body cms.UpdateMarqueeInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateMarquee(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminMarqueeDelete(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		id, ok := pathID(w, r, logg, "messageId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteMarquee(r.Context(), id))
	}
}

func AdminFooterGet(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		footer, err := svc.Footer(r.Context())
		writeResult(w, r, logg, footer, err)
	}
}

func AdminFooterPut(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cms service")
			return
		}
		var body cms.FooterDTO
		if !decode(w, r, logg, &body) {
			return
		}
		footer, err := svc.UpsertFooter(r.Context(), body)
		writeResult(w, r, logg, footer, err)
	}
}
