package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
	"github.com/agkmart/agkmart-backend/pkg/security"
)

// defaultStatsWindowDays bounds the rolling dashboard window when callers
// pass nothing.
const defaultStatsWindowDays = 30

// Service is the support ticket manager.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*TicketView, error)
	Get(ctx context.Context, ticketID, viewerID uuid.UUID, viewerRole enums.ActorRole) (*TicketView, error)
	ListForReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) (*TicketList, error)
	ListQueue(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error)

	AddMessage(ctx context.Context, input AddMessageInput) (*TicketView, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TicketView, error)
	Assign(ctx context.Context, input AssignInput) (*TicketView, error)
	AddAdminNote(ctx context.Context, ticketID, adminID uuid.UUID, note string) (*TicketView, error)
	Rate(ctx context.Context, input RateInput) (*TicketView, error)

	Stats(ctx context.Context, windowDays int) (*Stats, error)
	ListFAQs(ctx context.Context) ([]FAQView, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds the support ticket service. Logger is optional.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tickets repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	return &service{repo: repo, tx: tx, outbox: ob, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*TicketView, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)

	if input.ReporterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "reporter identity missing")
	}
	if !input.ReporterRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown reporter role")
	}
	if input.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ticket category").
			WithDetails(map[string]any{"category": input.Category})
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ticket priority").
			WithDetails(map[string]any{"priority": input.Priority})
	}

	now := time.Now()
	ticket := &models.SupportTicket{
		TicketNumber:    security.GenerateReferenceCode("TKT"),
		ReporterID:      input.ReporterID,
		ReporterRole:    input.ReporterRole,
		Category:        input.Category,
		Priority:        priority,
		Status:          enums.TicketStatusOpen,
		Subject:         input.Subject,
		Description:     input.Description,
		OrderID:         input.OrderID,
		ContactPhone:    strings.TrimSpace(input.ContactPhone),
		ContactEmail:    input.ContactEmail,
		RelatedSupplier: input.RelatedSupplier,
		LastActivityAt:  now,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.Create(ctx, ticket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketCreated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Actor:         &outbox.ActorRef{ActorID: input.ReporterID, Role: string(input.ReporterRole)},
			Data: CreatedEvent{
				TicketID:     ticket.ID,
				TicketNumber: ticket.TicketNumber,
				ReporterID:   ticket.ReporterID,
				ReporterRole: ticket.ReporterRole,
				Category:     ticket.Category,
				Priority:     ticket.Priority,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithField(ctx, "ticket_number", ticket.TicketNumber)
		s.logg.Info(ctx, "support ticket opened")
	}

	view := ViewFromModel(ticket, input.ReporterRole == enums.ActorRoleAdmin)
	return &view, nil
}

func (s *service) Get(ctx context.Context, ticketID, viewerID uuid.UUID, viewerRole enums.ActorRole) (*TicketView, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	isAdmin := viewerRole == enums.ActorRoleAdmin
	if !isAdmin && ticket.ReporterID != viewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "ticket belongs to another account")
	}

	view := ViewFromModel(ticket, isAdmin)
	return &view, nil
}

func (s *service) ListForReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) (*TicketList, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListForReporter(ctx, reporterID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	return buildList(rows, total, params, false), nil
}

func (s *service) ListQueue(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ticket queue")
	}
	return buildList(rows, total, params, true), nil
}

func (s *service) AddMessage(ctx context.Context, input AddMessageInput) (*TicketView, error) {
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if !input.SenderRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sender role")
	}
	if input.IsInternal && input.SenderRole != enums.TicketSenderAdmin && input.SenderRole != enums.TicketSenderSystem {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can post internal messages")
	}

	var ticket *models.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := s.loadTicketWith(ctx, repo, input.TicketID)
		if err != nil {
			return err
		}
		if loaded.Status == enums.TicketStatusClosed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is closed")
		}
		if input.SenderRole == enums.TicketSenderCustomer || input.SenderRole == enums.TicketSenderPilot {
			if loaded.ReporterID != input.SenderID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "ticket belongs to another account")
			}
		}

		message := &models.TicketMessage{
			TicketID:    loaded.ID,
			SenderID:    input.SenderID,
			SenderRole:  input.SenderRole,
			Body:        input.Body,
			Attachments: input.Attachments,
			IsInternal:  input.IsInternal,
		}
		if err := repo.AddMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append message")
		}

		now := time.Now()
		if err := repo.Update(ctx, loaded.ID, map[string]any{"last_activity_at": now}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch ticket")
		}

		loaded.Messages = append(loaded.Messages, *message)
		loaded.LastActivityAt = now
		ticket = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := ViewFromModel(ticket, input.SenderRole == enums.TicketSenderAdmin)
	return &view, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TicketView, error) {
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ticket status").
			WithDetails(map[string]any{"status": input.NewStatus})
	}

	var ticket *models.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := s.loadTicketWith(ctx, repo, input.TicketID)
		if err != nil {
			return err
		}
		if loaded.Status == input.NewStatus {
			// Same-status update is a no-op, not an error.
			ticket = loaded
			return nil
		}
		if !loaded.Status.CanTransitionTo(input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{"from": loaded.Status, "to": input.NewStatus})
		}

		now := time.Now()
		updates := map[string]any{"last_activity_at": now}
		if input.NewStatus == enums.TicketStatusResolved && loaded.ResolvedAt == nil {
			updates["resolved_at"] = now
		}
		if input.NewStatus == enums.TicketStatusClosed && loaded.ClosedAt == nil {
			updates["closed_at"] = now
		}

		moved, err := repo.UpdateStatusFrom(ctx, loaded.ID, loaded.Status, input.NewStatus, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket was updated concurrently, retry")
		}

		// The transition itself becomes part of the thread, as an internal
		// system message.
		message := &models.TicketMessage{
			TicketID:   loaded.ID,
			SenderID:   input.ActorID,
			SenderRole: enums.TicketSenderSystem,
			Body:       fmt.Sprintf("status changed from %s to %s", loaded.Status, input.NewStatus),
			IsInternal: true,
		}
		if err := repo.AddMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "log status change")
		}

		oldStatus := loaded.Status
		loaded.Status = input.NewStatus
		loaded.LastActivityAt = now
		if _, ok := updates["resolved_at"]; ok {
			loaded.ResolvedAt = &now
		}
		if _, ok := updates["closed_at"]; ok {
			loaded.ClosedAt = &now
		}
		loaded.Messages = append(loaded.Messages, *message)
		ticket = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketStatusChanged,
			AggregateType: enums.AggregateTicket,
			AggregateID:   loaded.ID,
			Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: string(input.ActorRole)},
			Data: StatusChangedEvent{
				TicketID:     loaded.ID,
				TicketNumber: loaded.TicketNumber,
				OldStatus:    oldStatus,
				NewStatus:    input.NewStatus,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	view := ViewFromModel(ticket, input.ActorRole == enums.ActorRoleAdmin)
	return &view, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*TicketView, error) {
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	var ticket *models.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := s.loadTicketWith(ctx, repo, input.TicketID)
		if err != nil {
			return err
		}
		if loaded.Status == enums.TicketStatusClosed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is closed")
		}
		if loaded.AssignedAdminID != nil && *loaded.AssignedAdminID == input.AdminID {
			ticket = loaded
			return nil
		}

		now := time.Now()
		if err := repo.Update(ctx, loaded.ID, map[string]any{
			"assigned_admin_id": input.AdminID,
			"last_activity_at":  now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign ticket")
		}

		message := &models.TicketMessage{
			TicketID:   loaded.ID,
			SenderID:   input.AssignedBy,
			SenderRole: enums.TicketSenderSystem,
			Body:       fmt.Sprintf("ticket assigned to admin %s", input.AdminID),
			IsInternal: true,
		}
		if err := repo.AddMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "log assignment")
		}

		loaded.AssignedAdminID = &input.AdminID
		loaded.LastActivityAt = now
		loaded.Messages = append(loaded.Messages, *message)
		ticket = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketAssigned,
			AggregateType: enums.AggregateTicket,
			AggregateID:   loaded.ID,
			Actor:         &outbox.ActorRef{ActorID: input.AssignedBy, Role: string(enums.ActorRoleAdmin)},
			Data: AssignedEvent{
				TicketID:     loaded.ID,
				TicketNumber: loaded.TicketNumber,
				AdminID:      input.AdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	view := ViewFromModel(ticket, true)
	return &view, nil
}

func (s *service) AddAdminNote(ctx context.Context, ticketID, adminID uuid.UUID, note string) (*TicketView, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note is required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var ticket *models.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := s.loadTicketWith(ctx, repo, ticketID)
		if err != nil {
			return err
		}

		row := &models.TicketAdminNote{
			TicketID: loaded.ID,
			AdminID:  adminID,
			Note:     note,
		}
		if err := repo.AddAdminNote(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append admin note")
		}

		now := time.Now()
		if err := repo.Update(ctx, loaded.ID, map[string]any{"last_activity_at": now}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch ticket")
		}

		loaded.AdminNotes = append(loaded.AdminNotes, *row)
		loaded.LastActivityAt = now
		ticket = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := ViewFromModel(ticket, true)
	return &view, nil
}

func (s *service) Rate(ctx context.Context, input RateInput) (*TicketView, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var ticket *models.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := s.loadTicketWith(ctx, repo, input.TicketID)
		if err != nil {
			return err
		}
		if loaded.ReporterID != input.RaterID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "ticket belongs to another account")
		}
		if !loaded.Status.IsTerminalOrResolved() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket can be rated once it is resolved or closed")
		}
		if loaded.SatisfactionRating != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "ticket is already rated")
		}

		now := time.Now()
		if err := repo.Update(ctx, loaded.ID, map[string]any{
			"satisfaction_rating": input.Rating,
			"rating_comment":      input.Comment,
			"rated_at":            now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store rating")
		}

		loaded.SatisfactionRating = &input.Rating
		loaded.RatingComment = input.Comment
		loaded.RatedAt = &now
		ticket = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := ViewFromModel(ticket, false)
	return &view, nil
}

func (s *service) Stats(ctx context.Context, windowDays int) (*Stats, error) {
	if windowDays <= 0 {
		windowDays = defaultStatsWindowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count tickets")
	}

	resolved, err := s.repo.ResolvedSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resolved tickets")
	}
	var totalHours float64
	for _, t := range resolved {
		if t.ResolvedAt != nil {
			totalHours += t.ResolvedAt.Sub(t.CreatedAt).Hours()
		}
	}
	avgResolution := 0.0
	if len(resolved) > 0 {
		avgResolution = totalHours / float64(len(resolved))
	}

	rated, err := s.repo.RatedSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rated tickets")
	}
	var totalRating int
	for _, t := range rated {
		if t.SatisfactionRating != nil {
			totalRating += *t.SatisfactionRating
		}
	}
	avgSatisfaction := 0.0
	if len(rated) > 0 {
		avgSatisfaction = float64(totalRating) / float64(len(rated))
	}

	return &Stats{
		CountsByStatus:     counts,
		AvgResolutionHours: avgResolution,
		ResolvedCount:      int64(len(resolved)),
		AvgSatisfaction:    avgSatisfaction,
		RatedCount:         int64(len(rated)),
		WindowDays:         windowDays,
	}, nil
}

func (s *service) ListFAQs(ctx context.Context) ([]FAQView, error) {
	rows, err := s.repo.ListFAQs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faqs")
	}
	out := make([]FAQView, 0, len(rows))
	for _, row := range rows {
		out = append(out, FAQView{
			ID:       row.ID,
			Category: row.Category,
			Question: row.Question,
			Answer:   row.Answer,
		})
	}
	return out, nil
}

func (s *service) loadTicket(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	return s.loadTicketWith(ctx, s.repo, ticketID)
}

func (s *service) loadTicketWith(ctx context.Context, repo Repository, ticketID uuid.UUID) (*models.SupportTicket, error) {
	ticket, err := repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	return ticket, nil
}

func buildList(rows []models.SupportTicket, total int64, params pagination.Params, includeInternal bool) *TicketList {
	views := make([]TicketView, 0, len(rows))
	for i := range rows {
		views = append(views, ViewFromModel(&rows[i], includeInternal))
	}
	return &TicketList{
		Tickets: views,
		Meta:    pagination.MetaFor(params, int(total)),
	}
}
