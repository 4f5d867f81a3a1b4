package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agkmart/agkmart-backend/api/middleware"
	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/tickets"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// SupportFAQs returns the published FAQ list. Public, unauthenticated.
func SupportFAQs(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		faqs, err := svc.ListFAQs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "faqs", faqs)
	}
}

// SupportContact opens a support ticket for the authenticated caller.
func SupportContact(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Subject         string  `json:"subject" validate:"required,min=4,max=200"`
		Description     string  `json:"description" validate:"required,min=10,max=2000"`
		Category        string  `json:"category" validate:"required"`
		Priority        string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
		OrderID         *string `json:"orderId" validate:"omitempty,uuid4"`
		ContactPhone    string  `json:"contactPhone" validate:"omitempty,len=10,numeric"`
		ContactEmail    *string `json:"contactEmail" validate:"omitempty,email"`
		RelatedSupplier *string `json:"relatedSupplier" validate:"omitempty,max=200"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		reporterID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := tickets.CreateInput{
			ReporterID:      reporterID,
			ReporterRole:    enums.ActorRole(middleware.RoleFromContext(r.Context())),
			Subject:         req.Subject,
			Description:     req.Description,
			Category:        enums.TicketCategory(req.Category),
			Priority:        enums.TicketPriority(req.Priority),
			ContactPhone:    req.ContactPhone,
			ContactEmail:    req.ContactEmail,
			RelatedSupplier: req.RelatedSupplier,
		}
		if req.OrderID != nil {
			orderID, err := pathUUID(*req.OrderID, "order id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.OrderID = &orderID
		}

		ticket, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "ticket created", ticket)
	}
}

// SupportTicketList pages through the caller's own tickets.
func SupportTicketList(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		reporterID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForReporter(r.Context(), reporterID, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "tickets", list)
	}
}

// SupportTicketDetail returns one ticket. Internal messages are already
// stripped for non-admin viewers by the service.
func SupportTicketDetail(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		viewerID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Get(r.Context(), ticketID, viewerID, enums.ActorRole(middleware.RoleFromContext(r.Context())))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket", ticket)
	}
}

// SupportTicketMessage appends a reply to the caller's own ticket thread.
func SupportTicketMessage(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Body        string   `json:"body" validate:"required,min=1,max=2000"`
		Attachments []string `json:"attachments" validate:"omitempty,max=5,dive,url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		senderID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.TicketSenderType(middleware.RoleFromContext(r.Context()))
		ticket, err := svc.AddMessage(r.Context(), tickets.AddMessageInput{
			TicketID:    ticketID,
			SenderID:    senderID,
			SenderRole:  role,
			Body:        strings.TrimSpace(req.Body),
			Attachments: req.Attachments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "message added", ticket)
	}
}

// SupportTicketRate records satisfaction once the ticket is resolved or
// closed. One rating per ticket.
func SupportTicketRate(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Rating  int     `json:"rating" validate:"required,min=1,max=5"`
		Comment *string `json:"comment" validate:"omitempty,max=500"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		raterID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Rate(r.Context(), tickets.RateInput{
			TicketID: ticketID,
			RaterID:  raterID,
			Rating:   req.Rating,
			Comment:  req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket rated", ticket)
	}
}
