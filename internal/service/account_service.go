package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/minio"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/pkg/security"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AccountService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetAccountInfo(ctx context.Context, id uint64) (*dto.AccountDTO, error)
	GetAccountHomeInfoById(ctx context.Context, id uint64) (*dto.AccountDTO, error)
	GetAccountSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.AccountDTO, error)
	UpdateAccountInfo(ctx context.Context, id uint64, dto *dto.AccountDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateUsername(ctx context.Context, id uint64, dto *dto.ChangeUsernameDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	SearchTalents(ctx context.Context, keyword string, page, pageSize int) ([]*dto.TalentDTO, error)
	BanAccount(ctx context.Context, id uint64, operatorID uint64) error
	UnBanAccount(ctx context.Context, id uint64) error
	CancelAccount(ctx context.Context, id uint64) error
}

type AccountServiceImpl struct {
	accountRepo   repository.AccountRepo
	roleRepo      repository.RoleRepo
	talentES      es.TalentRepo
	streakService StreakService
}

func NewAccountService(accountRepo repository.AccountRepo, roleRepo repository.RoleRepo, talentES es.TalentRepo, streakService StreakService) AccountService {
	return &AccountServiceImpl{
		accountRepo:   accountRepo,
		roleRepo:      roleRepo,
		talentES:      talentES,
		streakService: streakService,
	}
}

func (s *AccountServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	byUsername, err := s.accountRepo.GetAccountByUsername(ctx, *regDTO.Username)
	if err != nil {
		return err
	}
	if byUsername != nil {
		return ErrUsernameExist
	}

	email := util.NormalizeEmail(*regDTO.Email)
	byEmail, err := s.accountRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil {
		return ErrEmailExist
	}

	account := &model.Account{}
	err = copier.Copy(account, &regDTO)
	if err != nil {
		return err
	}
	account.Email = &email

	passwordHash, err := security.HashPassword(*regDTO.Password)
	if err != nil {
		return err
	}
	account.Password = &passwordHash

	detail := &model.AccountDetail{}
	err = copier.Copy(detail, &regDTO)
	if err != nil {
		return err
	}

	role := model.AccountRole{
		AccountID: account.ID,
		RoleID:    1,
	}
	roles := []*model.AccountRole{&role}

	return s.accountRepo.CreateAccount(ctx, account, detail, &roles)
}

// Login 用户名或邮箱 + 密码登录。
// 登录成功后顺带推进连续登录统计，统计失败只记日志，不影响登录结果。
func (s *AccountServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (string, error) {
	if credDTO.Identifier == nil || *credDTO.Identifier == "" ||
		credDTO.Password == nil || *credDTO.Password == "" {
		return "", ErrMissingLoginCredentials
	}

	account, err := s.resolveAccountByIdentifier(ctx, *credDTO.Identifier)
	if err != nil {
		return "", err
	}
	if account == nil || account.IsDelete {
		return "", ErrAccountNotFound
	}
	if account.IsBan {
		return "", ErrAccountBan
	}
	if account.Password == nil {
		return "", ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*credDTO.Password, *account.Password); err != nil {
		return "", ErrPasswordIncorrect
	}

	roleNames, err := s.getRoleNamesForAccount(ctx, account)
	if err != nil {
		return "", err
	}
	token, err := security.GenerateToken(account.ID, roleNames)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if err = s.accountRepo.UpdateLastLoginAt(ctx, account.ID, now); err != nil {
		log.WarnContext(ctx, "Update last login time failed", "account_id", account.ID, "err", err)
	}
	if err = s.streakService.RecordLogin(ctx, account.ID, now); err != nil {
		log.WarnContext(ctx, "Record login streak failed", "account_id", account.ID, "err", err)
	}

	return token, nil
}

func (s *AccountServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *AccountServiceImpl) GetAccountInfo(ctx context.Context, id uint64) (*dto.AccountDTO, error) {
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return s.buildAccountDTO(account)
}

func (s *AccountServiceImpl) GetAccountHomeInfoById(ctx context.Context, id uint64) (*dto.AccountDTO, error) {
	key := consts.AccountHomeInfoKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != "" {
		var accountDTO *dto.AccountDTO
		err = json.Unmarshal([]byte(value), &accountDTO)
		if err != nil {
			return nil, err
		}
		return accountDTO, nil
	}
	detail, err := s.accountRepo.GetAccountHomeInfoById(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrAccountNotFound
	}
	accountDTO := &dto.AccountDTO{}
	err = copier.Copy(accountDTO, detail)
	if err != nil {
		return nil, err
	}
	url := minio.GetPublicURL(detail.AvatarURL)
	accountDTO.AvatarURL = &url
	if detail.Skills != nil {
		accountDTO.Skills = util.SplitSkills(*detail.Skills)
	}
	jsonStr, err := json.Marshal(accountDTO)
	if err != nil {
		return nil, err
	}
	err = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
	if err != nil {
		return nil, err
	}
	return accountDTO, nil
}

func (s *AccountServiceImpl) GetAccountSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.AccountDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.AccountDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.AccountSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var accountDTO *dto.AccountDTO
			err = json.Unmarshal([]byte(value), &accountDTO)
			if err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = accountDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}
	if len(newIds) > 0 {
		details, err := s.accountRepo.GetAccountSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			accountDTO := &dto.AccountDTO{}
			err = copier.Copy(accountDTO, detail)
			if err != nil {
				return nil, err
			}
			url := minio.GetPublicURL(detail.AvatarURL)
			accountDTO.AvatarURL = &url
			mp[detail.AccountID] = accountDTO
			jsonStr, err := json.Marshal(accountDTO)
			if err != nil {
				return nil, err
			}
			err = redis.SetWithExpiration(ctx, consts.AccountSimpleInfoKey+strconv.FormatUint(detail.AccountID, 10), string(jsonStr), time.Hour*1)
			if err != nil {
				return nil, err
			}
		}
	}
	accountDTOList := make([]*dto.AccountDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		accountDTOList = append(accountDTOList, mp[id])
	}
	return accountDTOList, nil
}

func (s *AccountServiceImpl) UpdateAccountInfo(ctx context.Context, id uint64, accountDTO *dto.AccountDTO) error {
	newUUID, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	lockKey := consts.AccountDetailLock + strconv.FormatUint(id, 10)
	lock, err := redis.TryLock(ctx, lockKey, newUUID.String(), time.Second*5, 3)
	if err != nil {
		return err
	}
	if !lock {
		return UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, newUUID.String())

	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	err = copier.CopyWithOption(&account.AccountDetail, accountDTO, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return err
	}
	if len(accountDTO.Skills) > 0 {
		joined := strings.Join(accountDTO.Skills, ",")
		account.AccountDetail.Skills = &joined
	}
	err = s.accountRepo.UpdateAccountDetail(ctx, &account.AccountDetail)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.AccountHomeInfoKey+strconv.FormatUint(id, 10))
	_ = redis.DeleteKey(ctx, consts.AccountSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *AccountServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, changeDTO *dto.ChangePasswordDTO) error {
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	err = security.CheckPasswordHash(*changeDTO.OldPassword, *account.Password)
	if err != nil {
		return ErrPasswordIncorrect
	}
	passwordHash, err := security.HashPassword(*changeDTO.NewPassword)
	if err != nil {
		return err
	}
	account.Password = &passwordHash
	return s.accountRepo.UpdateAccount(ctx, account)
}

func (s *AccountServiceImpl) UpdateUsername(ctx context.Context, id uint64, changeDTO *dto.ChangeUsernameDTO) error {
	byUsername, err := s.accountRepo.GetAccountByUsername(ctx, *changeDTO.Username)
	if err != nil {
		return err
	}
	if byUsername != nil {
		return ErrUsernameExist
	}
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	account.Username = changeDTO.Username
	return s.accountRepo.UpdateAccount(ctx, account)
}

func (s *AccountServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	account.AccountDetail.AvatarURL = objectName
	err = s.accountRepo.UpdateAccountDetail(ctx, &account.AccountDetail)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.AccountHomeInfoKey+strconv.FormatUint(id, 10))
	_ = redis.DeleteKey(ctx, consts.AccountSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

// SearchTalents 人才搜索，索引由 CDC 消费者维护
func (s *AccountServiceImpl) SearchTalents(ctx context.Context, keyword string, page, pageSize int) ([]*dto.TalentDTO, error) {
	page, pageSize = normalizePage(page, pageSize)
	talents, err := s.talentES.SearchTalents(ctx, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.TalentDTO, 0, len(talents))
	for _, talent := range talents {
		dtos = append(dtos, &dto.TalentDTO{
			AccountID: talent.ID,
			Nickname:  talent.Nickname,
			Headline:  talent.Headline,
			Bio:       talent.Bio,
			AvatarURL: minio.GetPublicURL(talent.AvatarURL),
			Region:    talent.Region,
			Skills:    talent.Skills,
		})
	}
	return dtos, nil
}

func (s *AccountServiceImpl) BanAccount(ctx context.Context, id uint64, operatorID uint64) error {
	if id == operatorID {
		return ErrAccountBanSelf
	}
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	roleNames, err := s.getRoleNamesForAccount(ctx, account)
	if err != nil {
		return err
	}
	for _, name := range roleNames {
		if name == consts.RoleAdmin {
			return ErrAccountBanAdmin
		}
	}
	account.IsBan = true
	return s.accountRepo.UpdateAccount(ctx, account)
}

func (s *AccountServiceImpl) UnBanAccount(ctx context.Context, id uint64) error {
	return s.changeAccountIsBanStatus(ctx, id, false)
}

func (s *AccountServiceImpl) CancelAccount(ctx context.Context, id uint64) error {
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	return s.accountRepo.DeleteAccount(ctx, id)
}

// resolveAccountByIdentifier 标识符既可能是用户名也可能是邮箱，分两次独立查询。
// 两条路径命中不同账号时拒绝登录，不做 OR 合并查询。
func (s *AccountServiceImpl) resolveAccountByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	byUsername, err := s.accountRepo.GetAccountByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var byEmail *model.Account
	if util.IsEmailLike(identifier) {
		byEmail, err = s.accountRepo.GetAccountByEmail(ctx, util.NormalizeEmail(identifier))
		if err != nil {
			return nil, err
		}
	}

	if byUsername != nil && byEmail != nil && byUsername.ID != byEmail.ID {
		log.WarnContext(ctx, "Login identifier matched two accounts",
			"username_account", byUsername.ID,
			"email_account", byEmail.ID)
		return nil, ErrAmbiguousIdentifier
	}
	if byUsername != nil {
		return byUsername, nil
	}
	return byEmail, nil
}

func (s *AccountServiceImpl) getRoleNamesForAccount(ctx context.Context, account *model.Account) ([]string, error) {
	if len(account.AccountRoles) == 0 {
		return []string{}, nil
	}
	roleIDs := make([]uint64, 0, len(account.AccountRoles))
	for _, role := range account.AccountRoles {
		roleIDs = append(roleIDs, role.RoleID)
	}
	roles, err := s.roleRepo.GetRoleByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return nil, UnExpectedError
	}
	roleNames := make([]string, 0, len(*roles))
	for _, role := range *roles {
		roleNames = append(roleNames, role.Name)
	}
	return roleNames, nil
}

func (s *AccountServiceImpl) changeAccountIsBanStatus(ctx context.Context, id uint64, isBan bool) error {
	account, err := s.accountRepo.GetAccountById(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	account.IsBan = isBan
	return s.accountRepo.UpdateAccount(ctx, account)
}

func (s *AccountServiceImpl) buildAccountDTO(account *model.Account) (*dto.AccountDTO, error) {
	accountDTO := &dto.AccountDTO{}
	err := copier.Copy(accountDTO, account)
	if err != nil {
		return nil, err
	}
	err = copier.Copy(accountDTO, account.AccountDetail)
	if err != nil {
		return nil, err
	}
	url := minio.GetPublicURL(account.AccountDetail.AvatarURL)
	accountDTO.AvatarURL = &url
	if account.AccountDetail.Skills != nil {
		accountDTO.Skills = util.SplitSkills(*account.AccountDetail.Skills)
	}
	return accountDTO, nil
}
