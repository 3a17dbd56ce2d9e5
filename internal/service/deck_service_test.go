package service

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/minio"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeckRepo struct {
	decks map[uint64]*model.PitchDeck
	count int64

	statusUpdates   map[uint64]int
	statusUpdateErr error
	deleted         []uint64
}

func (f *fakeDeckRepo) GetDeckById(ctx context.Context, id uint64) (*model.PitchDeck, error) {
	return f.decks[id], nil
}

func (f *fakeDeckRepo) GetDecksByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.PitchDeck, error) {
	res := make([]*model.PitchDeck, 0)
	for _, deck := range f.decks {
		if deck.AccountID == accountID {
			res = append(res, deck)
		}
	}
	return res, nil
}

func (f *fakeDeckRepo) CountDecksSince(ctx context.Context, accountID uint64, since time.Time) (int64, error) {
	return f.count, nil
}

func (f *fakeDeckRepo) CreateDeck(ctx context.Context, deck *model.PitchDeck) error {
	return nil
}

func (f *fakeDeckRepo) UpdateDeckStatus(ctx context.Context, id uint64, status int) error {
	if f.statusUpdateErr != nil {
		return f.statusUpdateErr
	}
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[uint64]int)
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeDeckRepo) SaveAnalysis(ctx context.Context, id uint64, summary string, score int) error {
	return nil
}

func (f *fakeDeckRepo) DeleteDeck(ctx context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSubscriptionRepo struct {
	sub *model.Subscription
}

func (f *fakeSubscriptionRepo) GetByAccount(ctx context.Context, accountID uint64) (*model.Subscription, error) {
	return f.sub, nil
}

func (f *fakeSubscriptionRepo) SaveOrUpdate(ctx context.Context, sub *model.Subscription) error {
	return nil
}

func (f *fakeSubscriptionRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type presignCall struct {
	bucket string
	object string
	expiry time.Duration
}

func newTestDeckService(deckRepo *fakeDeckRepo, subRepo *fakeSubscriptionRepo, calls *[]presignCall, presignErr error) *DeckServiceImpl {
	if subRepo == nil {
		subRepo = &fakeSubscriptionRepo{}
	}
	return &DeckServiceImpl{
		deckRepo: deckRepo,
		subRepo:  subRepo,
		presign: func(ctx context.Context, bucket, objectName string, expiry time.Duration) (*url.URL, error) {
			if calls != nil {
				*calls = append(*calls, presignCall{bucket: bucket, object: objectName, expiry: expiry})
			}
			if presignErr != nil {
				return nil, presignErr
			}
			return url.Parse("https://minio.test.local/" + bucket + "/" + objectName + "?X-Amz-Expires=3600")
		},
	}
}

func TestSignedObjectURL(t *testing.T) {
	oldBucket := minio.DeckBucket
	minio.DeckBucket = "decks"
	t.Cleanup(func() { minio.DeckBucket = oldBucket })

	calls := make([]presignCall, 0, 1)
	svc := newTestDeckService(&fakeDeckRepo{}, nil, &calls, nil)

	signed := svc.SignedObjectURL(context.Background(), "deck/7/a.pdf")
	assert.Equal(t, "https://minio.test.local/decks/deck/7/a.pdf?X-Amz-Expires=3600", signed)

	require.Len(t, calls, 1)
	assert.Equal(t, "decks", calls[0].bucket)
	assert.Equal(t, "deck/7/a.pdf", calls[0].object)
	assert.Equal(t, time.Hour, calls[0].expiry)
}

func TestSignedObjectURL_EmptyKey(t *testing.T) {
	calls := make([]presignCall, 0, 1)
	svc := newTestDeckService(&fakeDeckRepo{}, nil, &calls, nil)

	signed := svc.SignedObjectURL(context.Background(), "")
	assert.Empty(t, signed)
	// 空 Key 不应触发签名调用
	assert.Empty(t, calls)
}

func TestSignedObjectURL_PresignError(t *testing.T) {
	svc := newTestDeckService(&fakeDeckRepo{}, nil, nil, assert.AnError)

	// 签名失败只记日志，返回空串
	signed := svc.SignedObjectURL(context.Background(), "deck/7/a.pdf")
	assert.Empty(t, signed)
}

func TestGetDeck_NotOwner(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, Title: "种子轮", ObjectKey: "deck/7/a.pdf"},
		},
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	_, err := svc.GetDeck(context.Background(), 8, 1)
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestGetDeck(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, Title: "种子轮", ObjectKey: "deck/7/a.pdf", Status: consts.DeckStatusUploaded},
		},
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	deckDTO, err := svc.GetDeck(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "种子轮", deckDTO.Title)
	assert.NotEmpty(t, deckDTO.DownloadURL)
}

func TestAnalyzeDeck_QuotaExceededOnFreePlan(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, ObjectKey: "deck/7/a.pdf", Status: consts.DeckStatusUploaded},
		},
		count: freeAnalysisPer30Days,
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	err := svc.AnalyzeDeck(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrDeckQuotaExceeded)
}

func TestAnalyzeDeck_ProPlanRaisesQuota(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, ObjectKey: "deck/7/a.pdf", Status: consts.DeckStatusUploaded},
		},
		count: proAnalysisPer30Days,
	}
	subRepo := &fakeSubscriptionRepo{
		sub: &model.Subscription{AccountID: 7, Plan: consts.PlanPro, IsActive: true},
	}
	svc := newTestDeckService(repo, subRepo, nil, nil)

	err := svc.AnalyzeDeck(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrDeckQuotaExceeded)
}

func TestAnalyzeDeck_AlreadyAnalyzing(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, ObjectKey: "deck/7/a.pdf", Status: consts.DeckStatusAnalyzing},
		},
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	err := svc.AnalyzeDeck(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrDeckAnalyzing)
}

func TestAnalyzeDeck_ReleasesLockOnStatusUpdateFailure(t *testing.T) {
	mr := setupTestRedis(t)
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, ObjectKey: "deck/7/a.pdf", Status: consts.DeckStatusUploaded},
		},
		statusUpdateErr: assert.AnError,
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	err := svc.AnalyzeDeck(context.Background(), 7, 1)
	assert.Error(t, err)
	// 状态落库失败时释放分析锁，下次请求可以重试
	assert.False(t, mr.Exists(consts.DeckAnalyzeLock+"1"))
}

func TestDeleteDeck(t *testing.T) {
	repo := &fakeDeckRepo{
		decks: map[uint64]*model.PitchDeck{
			1: {ID: 1, AccountID: 7, ObjectKey: "deck/7/a.pdf"},
		},
	}
	svc := newTestDeckService(repo, nil, nil, nil)

	err := svc.DeleteDeck(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, repo.deleted)
}
