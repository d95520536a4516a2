package controllers

import (
	"net/http"

	"github.com/angelmondragon/autocenter-backend/internal/support"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func TicketCreate(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		var body support.CreateTicketInput
		if !decode(w, r, logg, &body) {
			return
		}
		ticket, err := svc.CreateTicket(r.Context(), customerID, body)
		writeCreated(w, r, logg, ticket, err)
	}
}

func TicketListMine(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		input, err := ticketListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.ListForCustomer(r.Context(), customerID, input)
		writeResult(w, r, logg, page, err)
	}
}

func TicketGetMine(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		ticketID, ok := pathID(w, r, logg, "ticketId")
		if !ok {
			return
		}
		ticket, err := svc.GetForCustomer(r.Context(), customerID, ticketID)
		writeResult(w, r, logg, ticket, err)
	}
}

func TicketReplyMine(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		customerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		ticketID, ok := pathID(w, r, logg, "ticketId")
		if !ok {
			return
		}
		var body support.ReplyInput
		if !decode(w, r, logg, &body) {
			return
		}
		msg, err := svc.CustomerReply(r.Context(), customerID, ticketID, body)
		writeCreated(w, r, logg, msg, err)
	}
}

func AdminTicketList(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		input, err := ticketListInput(r)
		if err != nil {
			writeResult(w, r, logg, nil, err)
			return
		}
		page, err := svc.List(r.Context(), input)
		writeResult(w, r, logg, page, err)
	}
}

func AdminTicketGet(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		ticketID, ok := pathID(w, r, logg, "ticketId")
		if !ok {
			return
		}
		ticket, err := svc.Get(r.Context(), ticketID)
		writeResult(w, r, logg, ticket, err)
	}
}

func AdminTicketReply(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		adminID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		ticketID, ok := pathID(w, r, logg, "ticketId")
		if !ok {
			return
		}
		var body support.ReplyInput
		if !decode(w, r, logg, &body) {
			return
		}
		msg, err := svc.AdminReply(r.Context(), adminID, ticketID, body)
		writeCreated(w, r, logg, msg, err)
	}
}

func AdminTicketUpdate(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "support service")
			return
		}
		ticketID, ok := pathID(w, r, logg, "ticketId")
		if !ok {
			return
		}
		var body support.UpdateTicketInput
		if !decode(w, r, logg, &body) {
			return
		}
		ticket, err := svc.UpdateTicket(r.Context(), ticketID, body)
		writeResult(w, r, logg, ticket, err)
	}
}

// FAQList serves published entries publicly; the admin variant also
// returns drafts.
func FAQList(svc support.FAQService, admin bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "faq service")
			return
		}
		list, err := svc.List(r.Context(), r.URL.Query().Get("category"), admin)
		writeResult(w, r, logg, list, err)
	}
}

func AdminFAQCreate(svc support.FAQService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "faq service")
			return
		}
		var body support.CreateFAQInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.Create(r.Context(), body)
		writeCreated(w, r, logg, out, err)
	}
}

func AdminFAQUpdate(svc support.FAQService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "faq service")
			return
		}
		id, ok := pathID(w, r, logg, "faqId")
		if !ok {
			return
		}
		var body support.UpdateFAQInput
		if !decode(w, r, logg, &body) {
			return
		}
		out, err := svc.Update(r.Context(), id, body)
		writeResult(w, r, logg, out, err)
	}
}

func AdminFAQDelete(svc support.FAQService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "faq service")
			return
		}
		id, ok := pathID(w, r, logg, "faqId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.Delete(r.Context(), id))
	}
}

func ticketListInput(r *http.Request) (support.ListTicketsInput, error) {
	params, err := pageParams(r)
	if err != nil {
		return support.ListTicketsInput{}, err
	}
	status, err := enumQuery(r, "status", enums.ParseTicketStatus)
	if err != nil {
		return support.ListTicketsInput{}, err
	}
	return support.ListTicketsInput{Status: status, Pagination: params}, nil
}
