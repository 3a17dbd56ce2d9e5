package repository

import (
	"StartLinker/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AccountRepo interface {
	GetAccountById(ctx context.Context, id uint64) (*model.Account, error)
	GetAccountByIds(ctx context.Context, ids []uint64) ([]*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountHomeInfoById(ctx context.Context, id uint64) (*model.AccountDetail, error)
	GetAccountSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.AccountDetail, error)
	CreateAccount(ctx context.Context, account *model.Account, detail *model.AccountDetail, roles *[]*model.AccountRole) error
	UpdateAccount(ctx context.Context, account *model.Account) error
	UpdateAccountIsBan(ctx context.Context, id uint64, isBan bool) (int64, error)
	UpdateAccountDetail(ctx context.Context, detail *model.AccountDetail) error
	UpdateLastLoginAt(ctx context.Context, id uint64, at time.Time) error
	DeleteAccount(ctx context.Context, id uint64) error
}

type AccountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &AccountRepoImpl{db: db}
}

func (s *AccountRepoImpl) GetAccountById(ctx context.Context, id uint64) (*model.Account, error) {
	account := &model.Account{}
	result := s.db.WithContext(ctx).
		Preload("AccountDetail").
		Preload("AccountRoles").
		First(account, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return account, nil
}

func (s *AccountRepoImpl) GetAccountByIds(ctx context.Context, ids []uint64) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	result := s.db.WithContext(ctx).
		Preload("AccountDetail").
		Preload("AccountRoles").
		Where("id IN ?", ids).
		Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}

func (s *AccountRepoImpl) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	account := &model.Account{}
	result := s.db.WithContext(ctx).
		Preload("AccountDetail").
		Preload("AccountRoles").
		Where("username = ?", username).
		First(&account)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return account, nil
}

// GetAccountByEmail 邮箱入库前已统一小写，这里直接精确匹配
func (s *AccountRepoImpl) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	result := s.db.WithContext(ctx).
		Preload("AccountDetail").
		Preload("AccountRoles").
		Where("email = ?", email).
		First(&account)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return account, nil
}

func (s *AccountRepoImpl) GetAccountHomeInfoById(ctx context.Context, id uint64) (*model.AccountDetail, error) {
	detail := &model.AccountDetail{}
	result := s.db.WithContext(ctx).
		Select("account_id", "nickname", "headline", "region", "avatar_url", "bio", "skills", "website").
		Where("account_id = ?", id).
		First(&detail)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return detail, nil
}

func (s *AccountRepoImpl) GetAccountSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.AccountDetail, error) {
	details := make([]*model.AccountDetail, 0)
	result := s.db.WithContext(ctx).
		Select("account_id", "nickname", "avatar_url", "headline").
		Where("account_id IN ?", ids).
		Find(&details)

	if result.Error != nil {
		return nil, result.Error
	}

	return details, nil
}

func (s *AccountRepoImpl) CreateAccount(ctx context.Context, account *model.Account, detail *model.AccountDetail, roles *[]*model.AccountRole) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(account); result.Error != nil {
			return result.Error
		}

		detail.AccountID = account.ID
		if result := tx.Create(detail); result.Error != nil {
			return result.Error
		}

		for _, role := range *roles {
			role.AccountID = account.ID
		}
		if result := tx.Create(roles); result.Error != nil {
			return result.Error
		}

		return nil
	})
}

func (s *AccountRepoImpl) UpdateAccount(ctx context.Context, account *model.Account) error {
	result := s.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", account.ID).Updates(account)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (s *AccountRepoImpl) UpdateAccountIsBan(ctx context.Context, id uint64, isBan bool) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("is_ban", isBan)

	return result.RowsAffected, result.Error
}

func (s *AccountRepoImpl) UpdateAccountDetail(ctx context.Context, detail *model.AccountDetail) error {
	result := s.db.WithContext(ctx).Model(&model.AccountDetail{}).Where("account_id = ?", detail.AccountID).Updates(detail)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (s *AccountRepoImpl) UpdateLastLoginAt(ctx context.Context, id uint64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at)
	return result.Error
}

func (s *AccountRepoImpl) DeleteAccount(ctx context.Context, id uint64) error {
	usernamePlaceholder := fmt.Sprintf("deleted_%d_%d", id, time.Now().Unix())

	accountUpdate := model.Account{
		IsDelete: true,
		Username: &usernamePlaceholder,
		Password: nil,
		Email:    nil,
	}

	detailUpdate := model.AccountDetail{
		Nickname:  "已注销用户",
		Bio:       nil,
		AvatarURL: "default_avatar.png",
		Headline:  nil,
		Skills:    nil,
		Region:    nil,
		Website:   nil,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accountFields := []string{"is_delete", "username", "password", "email"}
		if result := tx.Model(&model.Account{}).Where("id = ?", id).Select(accountFields).Updates(accountUpdate); result.Error != nil {
			return result.Error
		}

		detailFields := []string{"nickname", "bio", "avatar_url", "headline", "skills", "region", "website"}
		if result := tx.Model(&model.AccountDetail{}).Where("account_id = ?", id).Select(detailFields).Updates(detailUpdate); result.Error != nil {
			return result.Error
		}

		result := tx.Model(&model.AccountRole{}).Where("account_id = ?", id).Delete(&model.AccountRole{})
		if result.Error != nil {
			return result.Error
		}

		return nil
	})
}
