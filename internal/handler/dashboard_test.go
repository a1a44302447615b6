package handler

import (
	"errors"
	"testing"

	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

func TestCollectDashboardVideosWalksAllPages(t *testing.T) {
	const total = 250 // 3 pages at the max limit

	var requested []repository.PageParams
	fetch := func(params repository.PageParams) (*repository.Page[model.DashboardVideo], error) {
		requested = append(requested, params)

		remaining := total - params.Offset()
		n := params.Limit
		if remaining < n {
			n = remaining
		}
		return repository.NewPage(make([]model.DashboardVideo, n), total, params, ""), nil
	}

	videos, err := collectDashboardVideos(fetch)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(videos) != total {
		t.Errorf("collected %d videos, want %d; export must not stop at one page", len(videos), total)
	}
	if len(requested) != 3 {
		t.Fatalf("fetched %d pages, want 3", len(requested))
	}
	for i, params := range requested {
		if params.Page != i+1 || params.Limit != repository.MaxLimit {
			t.Errorf("fetch %d used %+v, want page=%d limit=%d", i, params, i+1, repository.MaxLimit)
		}
	}
}

func TestCollectDashboardVideosSinglePage(t *testing.T) {
	calls := 0
	fetch := func(params repository.PageParams) (*repository.Page[model.DashboardVideo], error) {
		calls++
		return repository.NewPage(make([]model.DashboardVideo, 7), 7, params, ""), nil
	}

	videos, err := collectDashboardVideos(fetch)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(videos) != 7 || calls != 1 {
		t.Errorf("videos = %d, calls = %d; want 7 videos from a single fetch", len(videos), calls)
	}
}

func TestCollectDashboardVideosPropagatesError(t *testing.T) {
	boom := errors.New("query failed")
	fetch := func(params repository.PageParams) (*repository.Page[model.DashboardVideo], error) {
		if params.Page > 1 {
			return nil, boom
		}
		return repository.NewPage(make([]model.DashboardVideo, params.Limit), 500, params, ""), nil
	}

	if _, err := collectDashboardVideos(fetch); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the fetch error", err)
	}
}
