package services

import (
	"context"
	"errors"
	"log"

	"learnly/cache"
	"learnly/gateway"
	"learnly/models"
	"learnly/netcheck"
)

// ArticleGateway is the slice of the remote gateway the article sync flow
// needs.
type ArticleGateway interface {
	ListArticles(ctx context.Context, includePremium bool) ([]models.Article, error)
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	ListProgress(ctx context.Context, userID string) ([]models.ArticleProgress, error)
	UpsertProgress(ctx context.Context, userID, articleID string, completed bool) error
}

// ArticleService routes every article read/write through the remote-or-cache
// decision. Reads fall back to the cache when the network is out; writes do
// not (see PendingWriteQueue).
type ArticleService struct {
	gw       ArticleGateway
	cache    *cache.Manager
	net      netcheck.Checker
	pending  PendingWriteQueue
	notifier Notifier
}

func NewArticleService(gw ArticleGateway, cache *cache.Manager, net netcheck.Checker, pending PendingWriteQueue, notifier Notifier) *ArticleService {
	return &ArticleService{
		gw:       gw,
		cache:    cache,
		net:      net,
		pending:  pending,
		notifier: notifier,
	}
}

// FetchArticles returns the article list visible to the caller. Online it
// queries the backend and refreshes the cache; offline or on a remote
// failure it serves the cached list. Premium gating uses the same predicate
// on both paths: non-premium callers never see premium articles.
func (s *ArticleService) FetchArticles(ctx context.Context, isPremiumUser bool) ([]models.ArticleSummary, error) {
	if s.net.IsConnected(ctx) {
		articles, err := s.gw.ListArticles(ctx, isPremiumUser)
		if err == nil {
			if cerr := s.cache.SaveArticles(ctx, articles); cerr != nil {
				log.Printf("sync: cache article list: %v", cerr)
			}
			s.notifyRefresh("articles")
			summaries := make([]models.ArticleSummary, 0, len(articles))
			for _, a := range articles {
				summaries = append(summaries, a.Summarize())
			}
			return filterPremium(summaries, isPremiumUser), nil
		}
		log.Printf("sync: list articles remote failed, falling back to cache: %v", err)
	}

	summaries, err := s.cache.GetArticles(ctx)
	if err != nil {
		log.Printf("sync: read cached articles: %v", err)
		return []models.ArticleSummary{}, nil
	}
	return filterPremium(summaries, isPremiumUser), nil
}

// FetchArticleByID returns one article. A remote "no such article" is
// authoritative and surfaces as gateway.ErrNotFound; only transport failures
// fall back to the cached detail record.
func (s *ArticleService) FetchArticleByID(ctx context.Context, id string) (*models.Article, error) {
	if s.net.IsConnected(ctx) {
		article, err := s.gw.GetArticleByID(ctx, id)
		if err == nil {
			if cerr := s.cache.SaveArticleDetail(ctx, *article); cerr != nil {
				log.Printf("sync: cache article %s: %v", id, cerr)
			}
			return article, nil
		}
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, gateway.ErrNotFound
		}
		log.Printf("sync: get article %s remote failed, falling back to cache: %v", id, err)
	}

	article, err := s.cache.GetArticleDetail(ctx, id)
	if err != nil {
		log.Printf("sync: read cached article %s: %v", id, err)
		return nil, gateway.ErrNotFound
	}
	if article == nil {
		return nil, gateway.ErrNotFound
	}
	return article, nil
}

// UpdateArticleProgress upserts the (user, article) progress row. Offline
// the write is handed to the pending queue, which currently discards it;
// the caller sees success either way.
func (s *ArticleService) UpdateArticleProgress(ctx context.Context, userID, articleID string, completed bool) error {
	if !s.net.IsConnected(ctx) {
		return s.pending.Enqueue(ctx, PendingWrite{
			Kind:      PendingProgress,
			UserID:    userID,
			EntityID:  articleID,
			Completed: completed,
		})
	}
	return s.gw.UpsertProgress(ctx, userID, articleID, completed)
}

// FetchUserArticleProgress returns the user's progress keyed by article id.
// Progress records are never cached, so offline (or on a remote failure)
// the result is an empty map rather than an error.
func (s *ArticleService) FetchUserArticleProgress(ctx context.Context, userID string) (map[string]models.ArticleProgress, error) {
	result := make(map[string]models.ArticleProgress)
	if !s.net.IsConnected(ctx) {
		return result, nil
	}
	records, err := s.gw.ListProgress(ctx, userID)
	if err != nil {
		log.Printf("sync: list progress for %s failed: %v", userID, err)
		return result, nil
	}
	for _, r := range records {
		result[r.ArticleID] = r
	}
	return result, nil
}

func (s *ArticleService) notifyRefresh(entity string) {
	if s.notifier != nil {
		s.notifier.NotifyRefresh(entity)
	}
}

// filterPremium drops premium entries for non-premium callers. It is the
// single gating predicate for both the remote and the cached path.
func filterPremium(summaries []models.ArticleSummary, isPremiumUser bool) []models.ArticleSummary {
	if isPremiumUser {
		return summaries
	}
	visible := make([]models.ArticleSummary, 0, len(summaries))
	for _, s := range summaries {
		if !s.IsPremium {
			visible = append(visible, s)
		}
	}
	return visible
}
