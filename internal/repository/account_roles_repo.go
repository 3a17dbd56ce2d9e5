package repository

import (
	"StartLinker/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type AccountRolesRepo interface {
	GetRoles(ctx context.Context) ([]*model.Role, error)
	GetAccountRoles(ctx context.Context, accountId uint64) ([]*model.Role, error)
	GetAccountHasRole(ctx context.Context, accountId uint64, roleId uint64) (bool, error)
	AddRoleToAccount(ctx context.Context, accountId uint64, roleId uint64) error
	DeleteRoleFromAccount(ctx context.Context, accountId uint64, roleId uint64) error
}

type AccountRolesRepoImpl struct {
	db *gorm.DB
}

func NewAccountRolesRepo(db *gorm.DB) AccountRolesRepo {
	return &AccountRolesRepoImpl{db: db}
}

func (s *AccountRolesRepoImpl) GetRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := s.db.WithContext(ctx).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *AccountRolesRepoImpl) GetAccountRoles(ctx context.Context, accountId uint64) ([]*model.Role, error) {
	var roles []*model.Role
	err := s.db.WithContext(ctx).
		Table("roles").
		Select("roles.*").
		Joins("JOIN account_roles ON account_roles.role_id = roles.id").
		Where("account_roles.account_id = ?", accountId).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *AccountRolesRepoImpl) GetAccountHasRole(ctx context.Context, accountId uint64, roleId uint64) (bool, error) {
	var accountRole model.AccountRole
	result := s.db.WithContext(ctx).
		Where("account_id = ?", accountId).
		Where("role_id = ?", roleId).
		First(&accountRole)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func (s *AccountRolesRepoImpl) AddRoleToAccount(ctx context.Context, accountId uint64, roleId uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.AccountRole{}).
		Create(&model.AccountRole{
			AccountID: accountId,
			RoleID:    roleId,
		}).Error
}

func (s *AccountRolesRepoImpl) DeleteRoleFromAccount(ctx context.Context, accountId uint64, roleId uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.AccountRole{}).
		Where("account_id = ?", accountId).
		Where("role_id = ?", roleId).
		Delete(&model.AccountRole{}).Error
}
