package repository

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DeckRepo interface {
	GetDeckById(ctx context.Context, id uint64) (*model.PitchDeck, error)
	GetDecksByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.PitchDeck, error)
	CountDecksSince(ctx context.Context, accountID uint64, since time.Time) (int64, error)
	CreateDeck(ctx context.Context, deck *model.PitchDeck) error
	UpdateDeckStatus(ctx context.Context, id uint64, status int) error
	SaveAnalysis(ctx context.Context, id uint64, summary string, score int) error
	DeleteDeck(ctx context.Context, id uint64) error
}

type DeckRepoImpl struct {
	db *gorm.DB
}

func NewDeckRepo(db *gorm.DB) DeckRepo {
	return &DeckRepoImpl{db: db}
}

func (s *DeckRepoImpl) GetDeckById(ctx context.Context, id uint64) (*model.PitchDeck, error) {
	deck := &model.PitchDeck{}
	result := s.db.WithContext(ctx).First(deck, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return deck, nil
}

func (s *DeckRepoImpl) GetDecksByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.PitchDeck, error) {
	decks := make([]*model.PitchDeck, 0)
	result := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&decks)
	if result.Error != nil {
		return nil, result.Error
	}
	return decks, nil
}

func (s *DeckRepoImpl) CountDecksSince(ctx context.Context, accountID uint64, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.PitchDeck{}).
		Where("account_id = ? AND created_at >= ?", accountID, since).
		Count(&count).Error
	return count, err
}

func (s *DeckRepoImpl) CreateDeck(ctx context.Context, deck *model.PitchDeck) error {
	return s.db.WithContext(ctx).Create(deck).Error
}

func (s *DeckRepoImpl) UpdateDeckStatus(ctx context.Context, id uint64, status int) error {
	return s.db.WithContext(ctx).
		Model(&model.PitchDeck{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *DeckRepoImpl) SaveAnalysis(ctx context.Context, id uint64, summary string, score int) error {
	return s.db.WithContext(ctx).
		Model(&model.PitchDeck{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           consts.DeckStatusDone,
			"analysis_summary": summary,
			"score":            score,
		}).Error
}

func (s *DeckRepoImpl) DeleteDeck(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.PitchDeck{}, id).Error
}
