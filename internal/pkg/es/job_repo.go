package es

import (
	"StartLinker/internal/pkg/consts"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type JobRepo interface {
	IndexJob(ctx context.Context, job *JobES, version int64) error
	DeleteJob(ctx context.Context, id uint64) error
	SearchJobs(ctx context.Context, keyword string, location string, remoteOnly bool, from, size int) ([]*JobES, error)
	GetLatestJobs(ctx context.Context, from, size int) ([]*JobES, error)
}

type JobRepoImpl struct {
}

func NewJobRepo() JobRepo {
	return &JobRepoImpl{}
}

func (s *JobRepoImpl) IndexJob(ctx context.Context, job *JobES, version int64) error {
	docID := strconv.FormatUint(job.ID, 10)

	_, err := Client.Index(JobIndex).
		Id(docID).
		Document(job).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *JobRepoImpl) DeleteJob(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := Client.Delete(JobIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *JobRepoImpl) SearchJobs(ctx context.Context, keyword string, location string, remoteOnly bool, from, size int) ([]*JobES, error) {
	if from >= MaxSearchDepth {
		return []*JobES{}, nil
	}

	filters := []types.Query{{
		Term: map[string]types.TermQuery{
			"status": {Value: consts.JobStatusOpen},
		},
	}}
	if location != "" {
		filters = append(filters, types.Query{
			Match: map[string]types.MatchQuery{
				"location": {Query: location},
			},
		})
	}
	if remoteOnly {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{
				"remote": {Value: true},
			},
		})
	}

	boolQuery := &types.BoolQuery{Filter: filters}
	if keyword != "" {
		boolQuery.Must = []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"title^3", "skills^2", "description"},
			},
		}}
	}

	req := Client.Search().Index(JobIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *JobRepoImpl) GetLatestJobs(ctx context.Context, from, size int) ([]*JobES, error) {
	if from >= MaxSearchDepth {
		return []*JobES{}, nil
	}

	req := Client.Search().Index(JobIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Filter: []types.Query{{
					Term: map[string]types.TermQuery{
						"status": {Value: consts.JobStatusOpen},
					},
				}},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"published_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *JobRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*JobES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*JobES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var job JobES
		if err = json.Unmarshal(hit.Source_, &job); err != nil {
			continue
		}
		results = append(results, &job)
	}
	return results, nil
}
