package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/internal/revisions"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// ChecklistList returns the checklist template. Admin callers may pass
// ?include_inactive=true.
func ChecklistList(svc revisions.Service, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
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
		list, err := svc.ListChecklist(r.Context(), inactive)
		writeResult(w, r, logg, list, err)
	}
}

func AdminChecklistCategoryCreate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		var body revisions.CategoryInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateCategory(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminChecklistCategoryUpdate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "categoryId")
		if !ok {
			return
		}
		var body revisions.CategoryInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateCategory(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminChecklistCategoryDelete(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "categoryId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteCategory(r.Context(), id))
	}
}

func AdminChecklistItemCreate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		categoryID, ok := pathID(w, r, logg, "categoryId")
		if !ok {
			return
		}
		var body revisions.ItemInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.CreateItem(r.Context(), categoryID, body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminChecklistItemUpdate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "itemId")
		if !ok {
			return
		}
		var body revisions.ItemInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateItem(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminChecklistItemDelete(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "itemId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.DeleteItem(r.Context(), id))
	}
}

func AdminRevisionCreate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		var body revisions.CreateRevisionInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.Create(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminRevisionList(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		input, err := revisionListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		if input.CustomerID, err = uuidQuery(r, "customer_id"); err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		input.Plate = strings.TrimSpace(r.URL.Query().Get("plate"))
		page, err := svc.List(r.Context(), input)
		writeResult(w, r, logg, page, err)
	}
}

func AdminRevisionGet(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "revisionId")
		if !ok {
			return
		}
		out, err := svc.Get(r.Context(), id)
		writeResult(w, r, logg, out, err)
	}
}

func AdminRevisionUpdate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		id, ok := pathID(w, r, logg, "revisionId")
		if !ok {
			return
		}
		var body revisions.UpdateRevisionInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.Update(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminRevisionEntryUpdate(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		revisionID, ok := pathID(w, r, logg, "revisionId")
		if !ok {
			return
		}
		entryID, ok := pathID(w, r, logg, "entryId")
		if !ok {
			return
		}
		var body revisions.UpdateEntryInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.UpdateEntry(r.Context(), revisionID, entryID, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminRevisionTransition(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		adminID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "revisionId")
		if !ok {
			return
		}
		var body revisions.TransitionInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.Transition(r.Context(), adminID, id, body.Status)
		writeResult(w, r, logg, out, err)
	}
}

func RevisionListMine(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		input, err := revisionListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.ListForCustomer(r.Context(), customerID, input)
		writeResult(w, r, logg, page, err)
	}
}

func RevisionGetMine(svc revisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "revisions service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "revisionId")
		if !ok {
			return
		}
		out, err := svc.GetForCustomer(r.Context(), customerID, id)
		writeResult(w, r, logg, out, err)
	}
}

func revisionListInput(r *http.Request) (revisions.ListInput, error) {
	params, err := pageParams(r)
	if err != nil {
		return revisions.ListInput{}, err
	}
	status, err := enumQuery(r, "status", enums.ParseRevisionStatus)
	if err != nil {
		return revisions.ListInput{}, err
	}
	return revisions.ListInput{Status: status, Pagination: params}, nil
}
