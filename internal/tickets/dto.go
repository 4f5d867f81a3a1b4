package tickets

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// CreateInput opens a new support ticket.
type CreateInput struct {
	ReporterID      uuid.UUID
	ReporterRole    enums.ActorRole
	Subject         string
	Description     string
	Category        enums.TicketCategory
	Priority        enums.TicketPriority
	OrderID         *uuid.UUID
	ContactPhone    string
	ContactEmail    *string
	RelatedSupplier *string
}

// AddMessageInput appends to a ticket thread.
type AddMessageInput struct {
	TicketID    uuid.UUID
	SenderID    uuid.UUID
	SenderRole  enums.TicketSenderType
	Body        string
	Attachments []string
	IsInternal  bool
}

// UpdateStatusInput moves a ticket along the lifecycle.
type UpdateStatusInput struct {
	TicketID  uuid.UUID
	NewStatus enums.TicketStatus
	ActorID   uuid.UUID
	ActorRole enums.ActorRole
}

// AssignInput hands a ticket to an admin.
type AssignInput struct {
	TicketID   uuid.UUID
	AdminID    uuid.UUID
	AssignedBy uuid.UUID
}

// RateInput records post-resolution satisfaction.
type RateInput struct {
	TicketID uuid.UUID
	RaterID  uuid.UUID
	Rating   int
	Comment  *string
}

// ListFilters narrow the admin ticket queue.
type ListFilters struct {
	Status          *enums.TicketStatus
	Category        *enums.TicketCategory
	Priority        *enums.TicketPriority
	AssignedAdminID *uuid.UUID
}

// MessageView is one thread entry as clients see it.
type MessageView struct {
	ID          uuid.UUID              `json:"id"`
	SenderID    uuid.UUID              `json:"senderId"`
	SenderRole  enums.TicketSenderType `json:"senderRole"`
	Body        string                 `json:"body"`
	Attachments []string               `json:"attachments,omitempty"`
	IsInternal  bool                   `json:"isInternal"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// AdminNoteView is staff-only ticket annotation.
type AdminNoteView struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"adminId"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketView is the client rendering of a ticket. Internal messages and
// admin notes are stripped before it reaches a non-admin reader.
type TicketView struct {
	ID                 uuid.UUID            `json:"id"`
	TicketNumber       string               `json:"ticketNumber"`
	ReporterID         uuid.UUID            `json:"reporterId"`
	ReporterRole       enums.ActorRole      `json:"reporterRole"`
	Category           enums.TicketCategory `json:"category"`
	Priority           enums.TicketPriority `json:"priority"`
	Status             enums.TicketStatus   `json:"status"`
	Subject            string               `json:"subject"`
	Description        string               `json:"description"`
	OrderID            *uuid.UUID           `json:"orderId,omitempty"`
	ContactPhone       string               `json:"contactPhone,omitempty"`
	ContactEmail       *string              `json:"contactEmail,omitempty"`
	RelatedSupplier    *string              `json:"relatedSupplier,omitempty"`
	AssignedAdminID    *uuid.UUID           `json:"assignedAdminId,omitempty"`
	Messages           []MessageView        `json:"messages"`
	AdminNotes         []AdminNoteView      `json:"adminNotes,omitempty"`
	MessageCount       int                  `json:"messageCount"`
	ResponseTimeHours  *float64             `json:"responseTimeHours,omitempty"`
	AgeDays            int                  `json:"ageDays"`
	LastActivityAt     time.Time            `json:"lastActivityAt"`
	ResolvedAt         *time.Time           `json:"resolvedAt,omitempty"`
	ClosedAt           *time.Time           `json:"closedAt,omitempty"`
	SatisfactionRating *int                 `json:"satisfactionRating,omitempty"`
	RatingComment      *string              `json:"ratingComment,omitempty"`
	RatedAt            *time.Time           `json:"ratedAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
}

// ViewFromModel maps a ticket row for the given audience. Non-admin readers
// never see internal messages or admin notes.
func ViewFromModel(t *models.SupportTicket, includeInternal bool) TicketView {
	messages := make([]MessageView, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.IsInternal && !includeInternal {
			continue
		}
		messages = append(messages, MessageView{
			ID:          m.ID,
			SenderID:    m.SenderID,
			SenderRole:  m.SenderRole,
			Body:        m.Body,
			Attachments: m.Attachments,
			IsInternal:  m.IsInternal,
			CreatedAt:   m.CreatedAt,
		})
	}

	var notes []AdminNoteView
	if includeInternal {
		notes = make([]AdminNoteView, 0, len(t.AdminNotes))
		for _, n := range t.AdminNotes {
			notes = append(notes, AdminNoteView{
				ID:        n.ID,
				AdminID:   n.AdminID,
				Note:      n.Note,
				CreatedAt: n.CreatedAt,
			})
		}
	}

	// Response time is open-ended until the ticket resolves.
	var responseHours *float64
	if t.ResolvedAt != nil {
		hours := t.ResolvedAt.Sub(t.CreatedAt).Hours()
		responseHours = &hours
	}

	return TicketView{
		ID:                 t.ID,
		TicketNumber:       t.TicketNumber,
		ReporterID:         t.ReporterID,
		ReporterRole:       t.ReporterRole,
		Category:           t.Category,
		Priority:           t.Priority,
		Status:             t.Status,
		Subject:            t.Subject,
		Description:        t.Description,
		OrderID:            t.OrderID,
		ContactPhone:       t.ContactPhone,
		ContactEmail:       t.ContactEmail,
		RelatedSupplier:    t.RelatedSupplier,
		AssignedAdminID:    t.AssignedAdminID,
		Messages:           messages,
		AdminNotes:         notes,
		MessageCount:       len(messages),
		ResponseTimeHours:  responseHours,
		AgeDays:            int(time.Since(t.CreatedAt).Hours() / 24),
		LastActivityAt:     t.LastActivityAt,
		ResolvedAt:         t.ResolvedAt,
		ClosedAt:           t.ClosedAt,
		SatisfactionRating: t.SatisfactionRating,
		RatingComment:      t.RatingComment,
		RatedAt:            t.RatedAt,
		CreatedAt:          t.CreatedAt,
	}
}

// TicketList wraps a paged queue view.
type TicketList struct {
	Tickets []TicketView    `json:"tickets"`
	Meta    pagination.Meta `json:"meta"`
}

// Stats is the support dashboard aggregate.
type Stats struct {
	CountsByStatus     map[enums.TicketStatus]int64 `json:"countsByStatus"`
	AvgResolutionHours float64                      `json:"avgResolutionHours"`
	ResolvedCount      int64                        `json:"resolvedCount"`
	AvgSatisfaction    float64                      `json:"avgSatisfaction"`
	RatedCount         int64                        `json:"ratedCount"`
	WindowDays         int                          `json:"windowDays"`
}

// FAQView is one published FAQ entry.
type FAQView struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

// CreatedEvent is queued when a ticket is opened.
type CreatedEvent struct {
	TicketID     uuid.UUID            `json:"ticket_id"`
	TicketNumber string               `json:"ticket_number"`
	ReporterID   uuid.UUID            `json:"reporter_id"`
	ReporterRole enums.ActorRole      `json:"reporter_role"`
	Category     enums.TicketCategory `json:"category"`
	Priority     enums.TicketPriority `json:"priority"`
}

// StatusChangedEvent is queued on every lifecycle transition.
type StatusChangedEvent struct {
	TicketID     uuid.UUID          `json:"ticket_id"`
	TicketNumber string             `json:"ticket_number"`
	OldStatus    enums.TicketStatus `json:"old_status"`
	NewStatus    enums.TicketStatus `json:"new_status"`
}

// AssignedEvent is queued when a ticket lands on an admin's desk.
type AssignedEvent struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	AdminID      uuid.UUID `json:"admin_id"`
}
