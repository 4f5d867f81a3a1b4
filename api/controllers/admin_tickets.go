package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/tickets"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// AdminTicketQueue pages the full ticket queue with optional status,
// category, priority and assignee filters.
func AdminTicketQueue(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
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

		var filters tickets.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseTicketStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseTicketCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter"))
				return
			}
			filters.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
			priority, err := enums.ParseTicketPriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority filter"))
				return
			}
			filters.Priority = &priority
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("assignedTo")); raw != "" {
			adminID, err := pathUUID(raw, "assignee id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.AssignedAdminID = &adminID
		}

		list, err := svc.ListQueue(r.Context(), pagination.Params{Page: page, Limit: limit}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket queue", list)
	}
}

// AdminAssignTicket hands a ticket to an admin for handling.
func AdminAssignTicket(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		AdminID string `json:"adminId" validate:"required,uuid4"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		actorID, err := subjectUUID(r.Context())
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
		adminID, err := pathUUID(req.AdminID, "admin id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Assign(r.Context(), tickets.AssignInput{
			TicketID:   ticketID,
			AdminID:    adminID,
			AssignedBy: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket assigned", ticket)
	}
}

// AdminTicketStatus moves a ticket along the lifecycle.
func AdminTicketStatus(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		actorID, err := subjectUUID(r.Context())
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

		ticket, err := svc.UpdateStatus(r.Context(), tickets.UpdateStatusInput{
			TicketID:  ticketID,
			NewStatus: enums.TicketStatus(req.Status),
			ActorID:   actorID,
			ActorRole: enums.ActorRoleAdmin,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket status updated", ticket)
	}
}

// AdminTicketMessage appends an admin reply, optionally internal-only.
func AdminTicketMessage(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Body        string   `json:"body" validate:"required,min=1,max=2000"`
		Attachments []string `json:"attachments" validate:"omitempty,max=5,dive,url"`
		IsInternal  bool     `json:"isInternal"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		adminID, err := subjectUUID(r.Context())
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

		ticket, err := svc.AddMessage(r.Context(), tickets.AddMessageInput{
			TicketID:    ticketID,
			SenderID:    adminID,
			SenderRole:  enums.TicketSenderAdmin,
			Body:        strings.TrimSpace(req.Body),
			Attachments: req.Attachments,
			IsInternal:  req.IsInternal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "message added", ticket)
	}
}

// AdminTicketNote attaches a staff-only note outside the message thread.
func AdminTicketNote(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Note string `json:"note" validate:"required,min=1,max=2000"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		adminID, err := subjectUUID(r.Context())
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

		ticket, err := svc.AddAdminNote(r.Context(), ticketID, adminID, strings.TrimSpace(req.Note))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "note added", ticket)
	}
}

// AdminTicketStats aggregates queue health over a trailing window.
func AdminTicketStats(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		windowDays, err := validators.ParseQueryInt(r, "windowDays", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), windowDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ticket stats", stats)
	}
}
