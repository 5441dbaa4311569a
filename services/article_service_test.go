package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnly/cache"
	"learnly/gateway"
	"learnly/models"
	"learnly/netcheck"
	"learnly/storage"
)

type fakeArticleGateway struct {
	articles []models.Article
	article  *models.Article
	progress []models.ArticleProgress
	err      error

	upserts []string
}

func (f *fakeArticleGateway) ListArticles(ctx context.Context, includePremium bool) ([]models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if includePremium {
		return f.articles, nil
	}
	var visible []models.Article
	for _, a := range f.articles {
		if !a.IsPremium {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

func (f *fakeArticleGateway) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.article == nil || f.article.ID != id {
		return nil, gateway.ErrNotFound
	}
	return f.article, nil
}

func (f *fakeArticleGateway) ListProgress(ctx context.Context, userID string) ([]models.ArticleProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.progress, nil
}

func (f *fakeArticleGateway) UpsertProgress(ctx context.Context, userID, articleID string, completed bool) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, userID+"/"+articleID)
	return nil
}

func remoteArticles() []models.Article {
	created := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	return []models.Article{
		{ID: "a1", Title: "Free One", Body: "body", CreatedAt: created, UpdatedAt: created},
		{ID: "a2", Title: "Paid One", Body: "body", IsPremium: true, CreatedAt: created, UpdatedAt: created},
		{ID: "a3", Title: "Free Two", Body: "body", CreatedAt: created, UpdatedAt: created},
	}
}

func newArticleFixture(t *testing.T, gw ArticleGateway, online bool) (*ArticleService, *cache.Manager) {
	t.Helper()
	cm := cache.NewManager(context.Background(), storage.NewMemoryStore())
	svc := NewArticleService(gw, cm, netcheck.Static(online), DiscardQueue{}, nil)
	return svc, cm
}

func TestFetchArticles_OnlineRefreshesCache(t *testing.T) {
	gw := &fakeArticleGateway{articles: remoteArticles()}
	svc, cm := newArticleFixture(t, gw, true)
	ctx := context.Background()

	list, err := svc.FetchArticles(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	cached, err := cm.GetArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	assert.False(t, cm.IsStale())
}

func TestFetchArticles_FallbackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	gw := &fakeArticleGateway{articles: remoteArticles()}
	svc, cm := newArticleFixture(t, gw, true)
	require.NoError(t, cm.SaveArticles(ctx, remoteArticles()))

	gw.err = errors.New("connection reset")
	list, err := svc.FetchArticles(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestFetchArticles_PremiumFilterOffline(t *testing.T) {
	ctx := context.Background()
	svc, cm := newArticleFixture(t, &fakeArticleGateway{}, false)
	require.NoError(t, cm.SaveArticles(ctx, remoteArticles()))

	list, err := svc.FetchArticles(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.False(t, s.IsPremium)
	}

	list, err = svc.FetchArticles(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestFetchArticles_OfflineEmptyCache(t *testing.T) {
	svc, _ := newArticleFixture(t, &fakeArticleGateway{}, false)

	list, err := svc.FetchArticles(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchArticleByID_RemoteNotFoundIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	gw := &fakeArticleGateway{}
	svc, cm := newArticleFixture(t, gw, true)
	require.NoError(t, cm.SaveArticles(ctx, remoteArticles()))

	_, err := svc.FetchArticleByID(ctx, "a1")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestFetchArticleByID_TransportFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	gw := &fakeArticleGateway{err: errors.New("timeout")}
	svc, cm := newArticleFixture(t, gw, true)
	require.NoError(t, cm.SaveArticles(ctx, remoteArticles()))

	article, err := svc.FetchArticleByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Free One", article.Title)
}

func TestFetchArticleByID_OfflineMiss(t *testing.T) {
	svc, _ := newArticleFixture(t, &fakeArticleGateway{}, false)

	_, err := svc.FetchArticleByID(context.Background(), "a1")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestUpdateArticleProgress_OfflineIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	gw := &fakeArticleGateway{}
	kv := storage.NewMemoryStore()
	cm := cache.NewManager(ctx, kv)
	svc := NewArticleService(gw, cm, netcheck.Static(false), DiscardQueue{}, nil)

	require.NoError(t, svc.UpdateArticleProgress(ctx, "u1", "a1", true))
	assert.Empty(t, gw.upserts)

	// No cache write happened either
	keys, err := kv.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestUpdateArticleProgress_OnlineUpserts(t *testing.T) {
	gw := &fakeArticleGateway{}
	svc, _ := newArticleFixture(t, gw, true)

	require.NoError(t, svc.UpdateArticleProgress(context.Background(), "u1", "a1", true))
	assert.Equal(t, []string{"u1/a1"}, gw.upserts)
}

func TestFetchUserArticleProgress(t *testing.T) {
	gw := &fakeArticleGateway{progress: []models.ArticleProgress{
		{UserID: "u1", ArticleID: "a1", Completed: true},
		{UserID: "u1", ArticleID: "a3", Completed: false},
	}}

	svc, _ := newArticleFixture(t, gw, true)
	got, err := svc.FetchUserArticleProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["a1"].Completed)

	// Offline the mapping is unconditionally empty: progress is never cached
	svc, _ = newArticleFixture(t, gw, false)
	got, err = svc.FetchUserArticleProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
