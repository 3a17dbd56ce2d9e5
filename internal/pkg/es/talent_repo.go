package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

type TalentRepo interface {
	IndexTalent(ctx context.Context, talent *TalentES, version int64) error
	DeleteTalent(ctx context.Context, id uint64) error
	SearchTalents(ctx context.Context, keyword string, from, size int) ([]*TalentES, error)
}

type TalentRepoImpl struct {
}

func NewTalentRepo() TalentRepo {
	return &TalentRepoImpl{}
}

func (s *TalentRepoImpl) IndexTalent(ctx context.Context, talent *TalentES, version int64) error {
	docID := strconv.FormatUint(talent.ID, 10)

	_, err := Client.Index(TalentIndex).
		Id(docID).
		Document(talent).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				log.Warn("Version conflict detected, skipping old data",
					"talent_id", talent.ID,
					"version", version)
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *TalentRepoImpl) DeleteTalent(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)
	_, err := Client.Delete(TalentIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.Warn("Talent already deleted or not found in ES", "id", id)
				return nil
			}
		}
		return err
	}
	return nil
}

func (s *TalentRepoImpl) SearchTalents(ctx context.Context, keyword string, from, size int) ([]*TalentES, error) {
	if keyword == "" {
		return []*TalentES{}, nil
	}

	req := Client.Search().Index(TalentIndex).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"nickname^3", "headline^2", "skills^2", "bio"},
			},
		}).
		From(from).
		Size(size)

	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*TalentES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var talent TalentES
		if err = json.Unmarshal(hit.Source_, &talent); err != nil {
			continue
		}
		results = append(results, &talent)
	}
	return results, nil
}
