package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/courierhq/courier/internal/domain"
	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *messageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	err := r.db.WithContext(ctx).
		Omit("FromUser", "ToUser").
		Create(message).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListFrom(ctx context.Context, username string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Preload("ToUser").
		Where("from_username = ?", username).
		Order("sent_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ListTo(ctx context.Context, username string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Where("to_username = ?", username).
		Order("sent_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ?", id).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}
