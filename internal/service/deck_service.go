package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/llm"
	"StartLinker/internal/pkg/minio"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/repository"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	signUrlExpiry  = time.Hour
	signUrlTimeout = time.Second * 5

	freeAnalysisPer30Days = 3
	proAnalysisPer30Days  = 30
)

type DeckService interface {
	CreateDeck(ctx context.Context, accountID uint64, deckDTO *dto.CreateDeckDTO, reader io.Reader, size int64, contentType string) (*dto.DeckDTO, error)
	GetDeck(ctx context.Context, accountID uint64, id uint64) (*dto.DeckDTO, error)
	ListDecks(ctx context.Context, accountID uint64, page, pageSize int) ([]*dto.DeckDTO, error)
	DeleteDeck(ctx context.Context, accountID uint64, id uint64) error
	AnalyzeDeck(ctx context.Context, accountID uint64, id uint64) error
	// SignedObjectURL 为私有桶对象生成限时下载地址，拿不到就返回空串
	SignedObjectURL(ctx context.Context, objectKey string) string
}

type DeckServiceImpl struct {
	deckRepo repository.DeckRepo
	subRepo  repository.SubscriptionRepo
	fetcher  *llm.WebFetcher
	presign  func(ctx context.Context, bucket, objectName string, expiry time.Duration) (*url.URL, error)
}

func NewDeckService(deckRepo repository.DeckRepo, subRepo repository.SubscriptionRepo, fetcher *llm.WebFetcher) DeckService {
	return &DeckServiceImpl{
		deckRepo: deckRepo,
		subRepo:  subRepo,
		fetcher:  fetcher,
		presign:  minio.PresignedGet,
	}
}

func (s *DeckServiceImpl) CreateDeck(ctx context.Context, accountID uint64, deckDTO *dto.CreateDeckDTO, reader io.Reader, size int64, contentType string) (*dto.DeckDTO, error) {
	if contentType != consts.MimePdf {
		return nil, ErrFileNotSupported
	}

	objectKey := fmt.Sprintf("deck/%d/%s.pdf", accountID, uuid.NewString())
	_, err := minio.UploadFile(ctx, minio.DeckBucket, objectKey, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	deck := &model.PitchDeck{
		AccountID:  accountID,
		Title:      deckDTO.Title,
		ObjectKey:  objectKey,
		FileSize:   size,
		WebsiteURL: deckDTO.WebsiteURL,
		Status:     consts.DeckStatusUploaded,
	}
	if err = s.deckRepo.CreateDeck(ctx, deck); err != nil {
		// 入库失败时清掉已上传对象，避免孤儿文件
		_ = minio.DeleteFile(ctx, minio.DeckBucket, objectKey)
		return nil, err
	}

	return s.buildDeckDTO(ctx, deck), nil
}

func (s *DeckServiceImpl) GetDeck(ctx context.Context, accountID uint64, id uint64) (*dto.DeckDTO, error) {
	deck, err := s.deckRepo.GetDeckById(ctx, id)
	if err != nil {
		return nil, err
	}
	if deck == nil || deck.AccountID != accountID {
		return nil, ErrDeckNotFound
	}
	return s.buildDeckDTO(ctx, deck), nil
}

func (s *DeckServiceImpl) ListDecks(ctx context.Context, accountID uint64, page, pageSize int) ([]*dto.DeckDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	decks, err := s.deckRepo.GetDecksByAccount(ctx, accountID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	dtos := make([]*dto.DeckDTO, 0, len(decks))
	for _, deck := range decks {
		dtos = append(dtos, s.buildDeckDTO(ctx, deck))
	}
	return dtos, nil
}

func (s *DeckServiceImpl) DeleteDeck(ctx context.Context, accountID uint64, id uint64) error {
	deck, err := s.deckRepo.GetDeckById(ctx, id)
	if err != nil {
		return err
	}
	if deck == nil || deck.AccountID != accountID {
		return ErrDeckNotFound
	}
	if err = s.deckRepo.DeleteDeck(ctx, id); err != nil {
		return err
	}
	_ = minio.DeleteFile(ctx, minio.DeckBucket, deck.ObjectKey)
	return nil
}

func (s *DeckServiceImpl) AnalyzeDeck(ctx context.Context, accountID uint64, id uint64) error {
	deck, err := s.deckRepo.GetDeckById(ctx, id)
	if err != nil {
		return err
	}
	if deck == nil || deck.AccountID != accountID {
		return ErrDeckNotFound
	}
	if deck.Status == consts.DeckStatusAnalyzing {
		return ErrDeckAnalyzing
	}

	if err = s.checkAnalysisQuota(ctx, accountID); err != nil {
		return err
	}

	lockKey := consts.DeckAnalyzeLock + strconv.FormatUint(id, 10)
	lockVal := uuid.NewString()
	lock, err := redis.TryLock(ctx, lockKey, lockVal, time.Minute*5, 1)
	if err != nil {
		return err
	}
	if !lock {
		return ErrDeckAnalyzing
	}

	if err = s.deckRepo.UpdateDeckStatus(ctx, id, consts.DeckStatusAnalyzing); err != nil {
		redis.UnLock(ctx, lockKey, lockVal)
		return err
	}

	go s.runAnalysis(deck, lockKey, lockVal)
	return nil
}

// runAnalysis 独立后台执行，请求方不等待结果
func (s *DeckServiceImpl) runAnalysis(deck *model.PitchDeck, lockKey, lockVal string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()
	defer redis.UnLock(ctx, lockKey, lockVal)

	siteContext := ""
	if deck.WebsiteURL != nil && *deck.WebsiteURL != "" {
		text, err := s.fetcher.FetchSite(ctx, *deck.WebsiteURL)
		if err != nil {
			log.WarnContext(ctx, "Fetch project website failed", "deck_id", deck.ID, "url", *deck.WebsiteURL, "err", err)
		} else {
			siteContext = text
		}
	}

	deckURL := s.SignedObjectURL(ctx, deck.ObjectKey)
	deckText := fmt.Sprintf("标题：%s\n文件地址：%s", deck.Title, deckURL)

	report, err := llm.AnalyzeDeck(ctx, deckText, siteContext)
	if err != nil {
		log.ErrorContext(ctx, "Deck analysis failed", "deck_id", deck.ID, "err", err)
		_ = s.deckRepo.UpdateDeckStatus(ctx, deck.ID, consts.DeckStatusFailed)
		return
	}

	if err = s.deckRepo.SaveAnalysis(ctx, deck.ID, report.Summary, report.Score); err != nil {
		log.ErrorContext(ctx, "Save deck analysis failed", "deck_id", deck.ID, "err", err)
		_ = s.deckRepo.UpdateDeckStatus(ctx, deck.ID, consts.DeckStatusFailed)
	}
}

func (s *DeckServiceImpl) SignedObjectURL(ctx context.Context, objectKey string) string {
	if objectKey == "" {
		return ""
	}

	signCtx, cancel := context.WithTimeout(ctx, signUrlTimeout)
	defer cancel()

	signed, err := s.presign(signCtx, minio.DeckBucket, objectKey, signUrlExpiry)
	if err != nil {
		log.WarnContext(ctx, "Presign object url failed", "object", objectKey, "err", err)
		return ""
	}
	return signed.String()
}

func (s *DeckServiceImpl) checkAnalysisQuota(ctx context.Context, accountID uint64) error {
	sub, err := s.subRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	plan := consts.PlanFree
	if sub != nil && sub.IsActive {
		plan = sub.Plan
	}
	if plan == consts.PlanTeam {
		return nil
	}

	limit := int64(freeAnalysisPer30Days)
	if plan == consts.PlanPro {
		limit = proAnalysisPer30Days
	}

	count, err := s.deckRepo.CountDecksSince(ctx, accountID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return err
	}
	if count >= limit {
		return ErrDeckQuotaExceeded
	}
	return nil
}

func (s *DeckServiceImpl) buildDeckDTO(ctx context.Context, deck *model.PitchDeck) *dto.DeckDTO {
	return &dto.DeckDTO{
		ID:              deck.ID,
		Title:           deck.Title,
		DownloadURL:     s.SignedObjectURL(ctx, deck.ObjectKey),
		WebsiteURL:      deck.WebsiteURL,
		Status:          deck.Status,
		AnalysisSummary: deck.AnalysisSummary,
		Score:           deck.Score,
		CreatedAt:       deck.CreatedAt,
	}
}
