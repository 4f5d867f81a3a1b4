package tickets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// Repository is the persistence surface for support tickets and FAQs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	FindByNumber(ctx context.Context, number string) (*models.SupportTicket, error)
	ListForReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) ([]models.SupportTicket, int64, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.SupportTicket, int64, error)

	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// UpdateStatusFrom performs a guarded lifecycle transition; false means
	// another writer moved the ticket first.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.TicketStatus, updates map[string]any) (bool, error)

	AddMessage(ctx context.Context, message *models.TicketMessage) error
	AddAdminNote(ctx context.Context, note *models.TicketAdminNote) error

	CountByStatus(ctx context.Context) (map[enums.TicketStatus]int64, error)
	ResolvedSince(ctx context.Context, since time.Time) ([]models.SupportTicket, error)
	RatedSince(ctx context.Context, since time.Time) ([]models.SupportTicket, error)

	ListFAQs(ctx context.Context) ([]models.FAQ, error)
}
