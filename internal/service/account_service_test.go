package service

import (
	"StartLinker/internal/api/config"
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/minio"
	"StartLinker/internal/pkg/security"
	"StartLinker/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	byUsername map[string]*model.Account
	byEmail    map[string]*model.Account
	byID       map[uint64]*model.Account

	usernameQueries []string
	emailQueries    []string

	updatedAccounts  []*model.Account
	lastLoginUpdates []uint64
	createdAccounts  []*model.Account
}

func (f *fakeAccountRepo) GetAccountById(ctx context.Context, id uint64) (*model.Account, error) {
	return f.byID[id], nil
}

func (f *fakeAccountRepo) GetAccountByIds(ctx context.Context, ids []uint64) ([]*model.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	f.usernameQueries = append(f.usernameQueries, username)
	return f.byUsername[username], nil
}

func (f *fakeAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	f.emailQueries = append(f.emailQueries, email)
	return f.byEmail[email], nil
}

func (f *fakeAccountRepo) GetAccountHomeInfoById(ctx context.Context, id uint64) (*model.AccountDetail, error) {
	return nil, nil
}

func (f *fakeAccountRepo) GetAccountSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.AccountDetail, error) {
	return nil, nil
}

func (f *fakeAccountRepo) CreateAccount(ctx context.Context, account *model.Account, detail *model.AccountDetail, roles *[]*model.AccountRole) error {
	f.createdAccounts = append(f.createdAccounts, account)
	return nil
}

func (f *fakeAccountRepo) UpdateAccount(ctx context.Context, account *model.Account) error {
	f.updatedAccounts = append(f.updatedAccounts, account)
	return nil
}

func (f *fakeAccountRepo) UpdateAccountIsBan(ctx context.Context, id uint64, isBan bool) (int64, error) {
	return 1, nil
}

func (f *fakeAccountRepo) UpdateAccountDetail(ctx context.Context, detail *model.AccountDetail) error {
	return nil
}

func (f *fakeAccountRepo) UpdateLastLoginAt(ctx context.Context, id uint64, at time.Time) error {
	f.lastLoginUpdates = append(f.lastLoginUpdates, id)
	return nil
}

func (f *fakeAccountRepo) DeleteAccount(ctx context.Context, id uint64) error {
	return nil
}

type fakeRoleRepo struct {
	roles map[uint64]*model.Role
}

func (f *fakeRoleRepo) GetRoleByIDs(ctx context.Context, ids []uint64) (*[]*model.Role, error) {
	res := make([]*model.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := f.roles[id]; ok {
			res = append(res, role)
		}
	}
	return &res, nil
}

type fakeTalentESRepo struct {
	results  []*es.TalentES
	keyword  string
	from     int
	size     int
	searched int
}

func (f *fakeTalentESRepo) IndexTalent(ctx context.Context, talent *es.TalentES, version int64) error {
	return nil
}

func (f *fakeTalentESRepo) DeleteTalent(ctx context.Context, id uint64) error {
	return nil
}

func (f *fakeTalentESRepo) SearchTalents(ctx context.Context, keyword string, from, size int) ([]*es.TalentES, error) {
	f.searched++
	f.keyword = keyword
	f.from = from
	f.size = size
	return f.results, nil
}

type fakeStreakService struct {
	recorded []uint64
	err      error
}

func (f *fakeStreakService) RecordLogin(ctx context.Context, accountID uint64, at time.Time) error {
	f.recorded = append(f.recorded, accountID)
	return f.err
}

func (f *fakeStreakService) GetStreak(ctx context.Context, accountID uint64) (*dto.StreakDTO, error) {
	return &dto.StreakDTO{}, nil
}

func setupTestConfig(t *testing.T) {
	t.Helper()
	old := config.Cfg
	oldBucket := minio.MediaBucket
	config.Cfg = &config.Config{
		JWT: config.JWTConfig{Secret: "unit-test-secret", ExpireHours: 24},
		MinIO: config.MinIOConfig{
			ExternalEndpoint: "cdn.test.local",
		},
	}
	minio.MediaBucket = "media"
	t.Cleanup(func() {
		config.Cfg = old
		minio.MediaBucket = oldBucket
	})
}

func mustHash(t *testing.T, password string) *string {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return &hash
}

func testAccount(t *testing.T, id uint64, username, email, password string) *model.Account {
	t.Helper()
	return &model.Account{
		ID:       id,
		Username: util.PtrStr(username),
		Email:    util.PtrStr(email),
		Password: mustHash(t, password),
		AccountRoles: []model.AccountRole{
			{AccountID: id, RoleID: 1},
		},
	}
}

func newTestAccountService(accountRepo *fakeAccountRepo, roleRepo *fakeRoleRepo, talentES *fakeTalentESRepo, streak *fakeStreakService) AccountService {
	if roleRepo == nil {
		roleRepo = &fakeRoleRepo{roles: map[uint64]*model.Role{1: {ID: 1, Name: "USER"}}}
	}
	if talentES == nil {
		talentES = &fakeTalentESRepo{}
	}
	if streak == nil {
		streak = &fakeStreakService{}
	}
	return NewAccountService(accountRepo, roleRepo, talentES, streak)
}

func loginDTO(identifier, password string) *dto.CredentialDTO {
	return &dto.CredentialDTO{
		Identifier: util.PtrStr(identifier),
		Password:   util.PtrStr(password),
	}
}

func TestLogin_ByUsername(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": account},
		byEmail:    map[string]*model.Account{},
	}
	streak := &fakeStreakService{}
	svc := newTestAccountService(repo, nil, nil, streak)

	token, err := svc.Login(context.Background(), loginDTO("alice", "s3cret"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.Equal(t, []string{"USER"}, claims.Roles)

	// 登录成功后顺带推进了连续登录统计
	assert.Equal(t, []uint64{1}, streak.recorded)
	assert.Equal(t, []uint64{1}, repo.lastLoginUpdates)
}

func TestLogin_ByEmailNormalizesCase(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 2, "bob", "bob@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{},
		byEmail:    map[string]*model.Account{"bob@example.com": account},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	token, err := svc.Login(context.Background(), loginDTO("Bob@Example.COM", "s3cret"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// 邮箱查询前统一小写
	require.Len(t, repo.emailQueries, 1)
	assert.Equal(t, "bob@example.com", repo.emailQueries[0])
}

func TestLogin_MissingCredentials(t *testing.T) {
	setupTestConfig(t)
	svc := newTestAccountService(&fakeAccountRepo{}, nil, nil, nil)

	_, err := svc.Login(context.Background(), &dto.CredentialDTO{})
	assert.ErrorIs(t, err, ErrMissingLoginCredentials)

	_, err = svc.Login(context.Background(), &dto.CredentialDTO{Identifier: util.PtrStr("alice")})
	assert.ErrorIs(t, err, ErrMissingLoginCredentials)

	_, err = svc.Login(context.Background(), &dto.CredentialDTO{Password: util.PtrStr("s3cret")})
	assert.ErrorIs(t, err, ErrMissingLoginCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": account},
		byEmail:    map[string]*model.Account{},
	}
	streak := &fakeStreakService{}
	svc := newTestAccountService(repo, nil, nil, streak)

	_, err := svc.Login(context.Background(), loginDTO("alice", "wrong"))
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	assert.Empty(t, streak.recorded)
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	setupTestConfig(t)
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{},
		byEmail:    map[string]*model.Account{},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	_, err := svc.Login(context.Background(), loginDTO("nobody@example.com", "s3cret"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLogin_AmbiguousIdentifier(t *testing.T) {
	setupTestConfig(t)
	// 同一个串既是账号 A 的用户名又是账号 B 的邮箱
	byName := testAccount(t, 1, "x@y.com", "other@example.com", "s3cret")
	byMail := testAccount(t, 2, "someone", "x@y.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"x@y.com": byName},
		byEmail:    map[string]*model.Account{"x@y.com": byMail},
	}
	streak := &fakeStreakService{}
	svc := newTestAccountService(repo, nil, nil, streak)

	_, err := svc.Login(context.Background(), loginDTO("x@y.com", "s3cret"))
	assert.ErrorIs(t, err, ErrAmbiguousIdentifier)
	assert.Empty(t, streak.recorded)
}

func TestLogin_SameAccountOnBothPaths(t *testing.T) {
	setupTestConfig(t)
	// 用户名本身就是邮箱格式，两条查询路径命中同一账号时正常登录
	account := testAccount(t, 3, "x@y.com", "x@y.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"x@y.com": account},
		byEmail:    map[string]*model.Account{"x@y.com": account},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	token, err := svc.Login(context.Background(), loginDTO("x@y.com", "s3cret"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_BannedAccount(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	account.IsBan = true
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": account},
		byEmail:    map[string]*model.Account{},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	_, err := svc.Login(context.Background(), loginDTO("alice", "s3cret"))
	assert.ErrorIs(t, err, ErrAccountBan)
}

func TestLogin_DeletedAccount(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	account.IsDelete = true
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": account},
		byEmail:    map[string]*model.Account{},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	_, err := svc.Login(context.Background(), loginDTO("alice", "s3cret"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLogin_StreakFailureDoesNotBlockLogin(t *testing.T) {
	setupTestConfig(t)
	account := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": account},
		byEmail:    map[string]*model.Account{},
	}
	streak := &fakeStreakService{err: assert.AnError}
	svc := newTestAccountService(repo, nil, nil, streak)

	token, err := svc.Login(context.Background(), loginDTO("alice", "s3cret"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	setupTestConfig(t)
	existing := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{"alice": existing},
		byEmail:    map[string]*model.Account{},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	err := svc.Register(context.Background(), &dto.RegisterDTO{
		Username: util.PtrStr("alice"),
		Email:    util.PtrStr("new@example.com"),
		Password: util.PtrStr("s3cret"),
		Nickname: "新用户",
	})
	assert.ErrorIs(t, err, ErrUsernameExist)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	setupTestConfig(t)
	existing := testAccount(t, 1, "alice", "alice@example.com", "s3cret")
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{},
		byEmail:    map[string]*model.Account{"alice@example.com": existing},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	// 注册邮箱先归一化再查重
	err := svc.Register(context.Background(), &dto.RegisterDTO{
		Username: util.PtrStr("newbie"),
		Email:    util.PtrStr("Alice@Example.com"),
		Password: util.PtrStr("s3cret"),
		Nickname: "新用户",
	})
	assert.ErrorIs(t, err, ErrEmailExist)
}

func TestRegister_HashesPasswordAndLowercasesEmail(t *testing.T) {
	setupTestConfig(t)
	repo := &fakeAccountRepo{
		byUsername: map[string]*model.Account{},
		byEmail:    map[string]*model.Account{},
	}
	svc := newTestAccountService(repo, nil, nil, nil)

	err := svc.Register(context.Background(), &dto.RegisterDTO{
		Username: util.PtrStr("newbie"),
		Email:    util.PtrStr("Newbie@Example.com"),
		Password: util.PtrStr("s3cret"),
		Nickname: "新用户",
	})
	require.NoError(t, err)

	require.Len(t, repo.createdAccounts, 1)
	created := repo.createdAccounts[0]
	assert.Equal(t, "newbie@example.com", *created.Email)
	require.NotNil(t, created.Password)
	assert.NotEqual(t, "s3cret", *created.Password)
	assert.NoError(t, security.CheckPasswordHash("s3cret", *created.Password))
}

func TestBanAccount_Self(t *testing.T) {
	setupTestConfig(t)
	svc := newTestAccountService(&fakeAccountRepo{}, nil, nil, nil)

	err := svc.BanAccount(context.Background(), 5, 5)
	assert.ErrorIs(t, err, ErrAccountBanSelf)
}

func TestBanAccount_Admin(t *testing.T) {
	setupTestConfig(t)
	admin := testAccount(t, 2, "root", "root@example.com", "s3cret")
	admin.AccountRoles = []model.AccountRole{{AccountID: 2, RoleID: 2}}
	repo := &fakeAccountRepo{byID: map[uint64]*model.Account{2: admin}}
	roleRepo := &fakeRoleRepo{roles: map[uint64]*model.Role{2: {ID: 2, Name: "ADMIN"}}}
	svc := newTestAccountService(repo, roleRepo, nil, nil)

	err := svc.BanAccount(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrAccountBanAdmin)
	assert.Empty(t, repo.updatedAccounts)
}

func TestBanAccount(t *testing.T) {
	setupTestConfig(t)
	target := testAccount(t, 3, "spammer", "spam@example.com", "s3cret")
	repo := &fakeAccountRepo{byID: map[uint64]*model.Account{3: target}}
	svc := newTestAccountService(repo, nil, nil, nil)

	err := svc.BanAccount(context.Background(), 3, 1)
	require.NoError(t, err)
	require.Len(t, repo.updatedAccounts, 1)
	assert.True(t, repo.updatedAccounts[0].IsBan)
}

func TestBanAccount_NotFound(t *testing.T) {
	setupTestConfig(t)
	svc := newTestAccountService(&fakeAccountRepo{byID: map[uint64]*model.Account{}}, nil, nil, nil)

	err := svc.BanAccount(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSearchTalents(t *testing.T) {
	setupTestConfig(t)
	talentES := &fakeTalentESRepo{
		results: []*es.TalentES{
			{
				ID:        10,
				Nickname:  "张三",
				Headline:  util.PtrStr("Go 后端"),
				AvatarURL: "avatars/zhangsan.jpg",
				Region:    "上海",
				Skills:    []string{"Go", "Kafka"},
			},
		},
	}
	svc := newTestAccountService(&fakeAccountRepo{}, nil, talentES, nil)

	dtos, err := svc.SearchTalents(context.Background(), "后端", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, "后端", talentES.keyword)
	assert.Equal(t, 10, talentES.from)
	assert.Equal(t, 10, talentES.size)

	require.Len(t, dtos, 1)
	assert.Equal(t, uint64(10), dtos[0].AccountID)
	assert.Equal(t, "https://cdn.test.local/media/avatars/zhangsan.jpg", dtos[0].AvatarURL)
	assert.Equal(t, []string{"Go", "Kafka"}, dtos[0].Skills)
}
