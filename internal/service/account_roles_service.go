package service

import (
	"StartLinker/internal/model"
	"StartLinker/internal/repository"
	"context"
)

type AccountRolesService interface {
	GetRoles(ctx context.Context) ([]*model.Role, error)
	AddRoleToAccount(ctx context.Context, accountId uint64, roleId uint64) error
	DeleteRoleFromAccount(ctx context.Context, accountId uint64, roleId uint64) error
}

type AccountRolesServiceImpl struct {
	accountRolesRepo repository.AccountRolesRepo
}

func NewAccountRolesService(accountRolesRepo repository.AccountRolesRepo) AccountRolesService {
	return &AccountRolesServiceImpl{accountRolesRepo: accountRolesRepo}
}

func (s *AccountRolesServiceImpl) GetRoles(ctx context.Context) ([]*model.Role, error) {
	return s.accountRolesRepo.GetRoles(ctx)
}

func (s *AccountRolesServiceImpl) AddRoleToAccount(ctx context.Context, accountId uint64, roleId uint64) error {
	hasRole, err := s.accountRolesRepo.GetAccountHasRole(ctx, accountId, roleId)
	if err != nil {
		return err
	}
	if hasRole {
		return ErrAccountHasRole
	}
	return s.accountRolesRepo.AddRoleToAccount(ctx, accountId, roleId)
}

func (s *AccountRolesServiceImpl) DeleteRoleFromAccount(ctx context.Context, accountId uint64, roleId uint64) error {
	return s.accountRolesRepo.DeleteRoleFromAccount(ctx, accountId, roleId)
}
