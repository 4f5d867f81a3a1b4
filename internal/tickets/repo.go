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

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ticket repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("AdminNotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) FindByNumber(ctx context.Context, number string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("AdminNotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("ticket_number = ?", number).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListForReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) ([]models.SupportTicket, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("reporter_id = ?", reporterID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupportTicket
	err := query.
		Order("last_activity_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.SupportTicket, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.AssignedAdminID != nil {
		query = query.Where("assigned_admin_id = ?", *filters.AssignedAdminID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupportTicket
	err := query.
		Order("last_activity_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.TicketStatus, updates map[string]any) (bool, error) {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) AddMessage(ctx context.Context, message *models.TicketMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) AddAdminNote(ctx context.Context, note *models.TicketAdminNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.TicketStatus]int64, error) {
	type row struct {
		Status enums.TicketStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.TicketStatus]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}

func (r *repository) ResolvedSince(ctx context.Context, since time.Time) ([]models.SupportTicket, error) {
	var rows []models.SupportTicket
	err := r.db.WithContext(ctx).
		Select("id, created_at, resolved_at").
		Where("resolved_at IS NOT NULL AND resolved_at >= ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) RatedSince(ctx context.Context, since time.Time) ([]models.SupportTicket, error) {
	var rows []models.SupportTicket
	err := r.db.WithContext(ctx).
		Select("id, satisfaction_rating, rated_at").
		Where("rated_at IS NOT NULL AND rated_at >= ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	var rows []models.FAQ
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("category ASC, sort_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
