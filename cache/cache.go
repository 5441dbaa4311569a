// Package cache maintains the offline copies of articles and quizzes: one
// serialized list record per entity type plus one detail record per entity,
// all namespaced in the key/value store. Writes are best-effort; losing one
// detail record must not forfeit caching the rest.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"learnly/models"
	"learnly/storage"
)

const (
	keyPrefix        = "learnly_"
	keyArticles      = keyPrefix + "articles"
	keyQuizzes       = keyPrefix + "quizzes"
	keyLastSync      = keyPrefix + "last_sync"
	articleKeyPrefix = keyPrefix + "article_"
	quizKeyPrefix    = keyPrefix + "quiz_"
)

// staleAfter is how old the last successful sync may be before the cache
// reports itself stale. Staleness is advisory; nothing is evicted.
const staleAfter = 24 * time.Hour

// Manager owns the cached records and the sync clock.
type Manager struct {
	kv storage.KVStore

	mu       sync.Mutex
	lastSync time.Time
	now      func() time.Time
}

// NewManager creates a cache manager, restoring the sync clock persisted by
// a previous run if one exists.
func NewManager(ctx context.Context, kv storage.KVStore) *Manager {
	m := &Manager{kv: kv, now: time.Now}
	if val, err := kv.Get(ctx, keyLastSync); err == nil {
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			m.lastSync = t
		}
	}
	return m
}

// SaveArticles writes the article list record and every article's detail
// record. Each write is attempted even if a previous one failed; failures
// are collected, logged, and returned joined, but never abort the batch.
// The sync clock is stamped once after all writes were attempted.
func (m *Manager) SaveArticles(ctx context.Context, articles []models.Article) error {
	summaries := make([]models.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, a.Summarize())
	}

	var errs []error
	if err := m.setJSON(ctx, keyArticles, summaries); err != nil {
		log.Printf("cache: save article list: %v", err)
		errs = append(errs, fmt.Errorf("article list: %w", err))
	}
	for _, a := range articles {
		if err := m.setJSON(ctx, articleKeyPrefix+a.ID, a); err != nil {
			log.Printf("cache: save article %s: %v", a.ID, err)
			errs = append(errs, fmt.Errorf("article %s: %w", a.ID, err))
		}
	}

	m.stampSyncClock(ctx)
	return errors.Join(errs...)
}

// SaveQuizzes mirrors SaveArticles for quizzes. Detail records keep the full
// question sequence; the list record carries summaries only.
func (m *Manager) SaveQuizzes(ctx context.Context, quizzes []models.Quiz) error {
	summaries := make([]models.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, q.Summarize())
	}

	var errs []error
	if err := m.setJSON(ctx, keyQuizzes, summaries); err != nil {
		log.Printf("cache: save quiz list: %v", err)
		errs = append(errs, fmt.Errorf("quiz list: %w", err))
	}
	for _, q := range quizzes {
		if err := m.setJSON(ctx, quizKeyPrefix+q.ID, q); err != nil {
			log.Printf("cache: save quiz %s: %v", q.ID, err)
			errs = append(errs, fmt.Errorf("quiz %s: %w", q.ID, err))
		}
	}

	m.stampSyncClock(ctx)
	return errors.Join(errs...)
}

// SaveArticleDetail writes a single article detail record without touching
// the list record or the sync clock.
func (m *Manager) SaveArticleDetail(ctx context.Context, a models.Article) error {
	return m.setJSON(ctx, articleKeyPrefix+a.ID, a)
}

// SaveQuizDetail writes a single quiz detail record.
func (m *Manager) SaveQuizDetail(ctx context.Context, q models.Quiz) error {
	return m.setJSON(ctx, quizKeyPrefix+q.ID, q)
}

// GetArticles returns the cached article list, or an empty slice when no
// list record exists.
func (m *Manager) GetArticles(ctx context.Context) ([]models.ArticleSummary, error) {
	var summaries []models.ArticleSummary
	found, err := m.getJSON(ctx, keyArticles, &summaries)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.ArticleSummary{}, nil
	}
	return summaries, nil
}

// GetQuizzes returns the cached quiz list, or an empty slice when no list
// record exists.
func (m *Manager) GetQuizzes(ctx context.Context) ([]models.QuizSummary, error) {
	var summaries []models.QuizSummary
	found, err := m.getJSON(ctx, keyQuizzes, &summaries)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.QuizSummary{}, nil
	}
	return summaries, nil
}

// GetArticleDetail returns the cached article, or nil when absent. Detail
// records are never synthesized from list projections.
func (m *Manager) GetArticleDetail(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	found, err := m.getJSON(ctx, articleKeyPrefix+id, &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// GetQuizDetail returns the cached quiz, or nil when absent.
func (m *Manager) GetQuizDetail(ctx context.Context, id string) (*models.Quiz, error) {
	var q models.Quiz
	found, err := m.getJSON(ctx, quizKeyPrefix+id, &q)
	if err != nil || !found {
		return nil, err
	}
	return &q, nil
}

// GetQuizByArticleID scans the cached quiz list for the first entry whose
// article reference matches, then resolves it to its detail record. A list
// entry without a detail record is a cache-consistency fault; it is logged
// and reported as not found rather than escalated.
func (m *Manager) GetQuizByArticleID(ctx context.Context, articleID string) (*models.Quiz, error) {
	summaries, err := m.GetQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		if s.ArticleID != articleID {
			continue
		}
		quiz, err := m.GetQuizDetail(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if quiz == nil {
			log.Printf("cache: quiz %s listed but detail record missing", s.ID)
		}
		return quiz, nil
	}
	return nil, nil
}

// ClearAll removes every key carrying the cache namespace prefix in one
// batch and resets the sync clock. Keys outside the namespace are left
// untouched.
func (m *Manager) ClearAll(ctx context.Context) error {
	keys, err := m.kv.GetAllKeys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	var owned []string
	for _, k := range keys {
		if strings.HasPrefix(k, keyPrefix) {
			owned = append(owned, k)
		}
	}
	if err := m.kv.MultiRemove(ctx, owned); err != nil {
		return fmt.Errorf("remove keys: %w", err)
	}

	m.mu.Lock()
	m.lastSync = time.Time{}
	m.mu.Unlock()
	return nil
}

// IsStale reports whether the cache has never synced or last synced more
// than 24 hours ago. Advisory only: callers may use it to prefer a remote
// refresh, but nothing forces one.
func (m *Manager) IsStale() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSync.IsZero() {
		return true
	}
	return m.now().Sub(m.lastSync) > staleAfter
}

// stampSyncClock advances the sync clock and persists it. The clock only
// moves forward.
func (m *Manager) stampSyncClock(ctx context.Context) {
	m.mu.Lock()
	now := m.now()
	if now.After(m.lastSync) {
		m.lastSync = now
	}
	stamp := m.lastSync
	m.mu.Unlock()

	if err := m.kv.Set(ctx, keyLastSync, stamp.Format(time.RFC3339)); err != nil {
		log.Printf("cache: persist sync clock: %v", err)
	}
}

func (m *Manager) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return m.kv.Set(ctx, key, string(data))
}

// getJSON reads and decodes one record. The second return is false when the
// key does not exist.
func (m *Manager) getJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := m.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
