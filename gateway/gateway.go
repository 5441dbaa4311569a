// Package gateway is the typed query layer over the backend database. Every
// single-entity query distinguishes "no such row" (ErrNotFound) from a
// transport or server error, so the sync layer can tell a valid empty result
// from a failed fetch.
package gateway

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnly/models"
)

// ErrNotFound marks a query that legitimately matched zero rows.
var ErrNotFound = errors.New("gateway: not found")

type Gateway struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// ListArticles returns all articles, newest first. When includePremium is
// false, premium articles are filtered out server-side.
func (g *Gateway) ListArticles(ctx context.Context, includePremium bool) ([]models.Article, error) {
	q := g.db.WithContext(ctx).Order("created_at DESC")
	if !includePremium {
		q = q.Where("is_premium = ?", false)
	}
	var articles []models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *Gateway) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := g.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// ListQuizzes returns all quizzes, newest first, each enriched with its
// parent article's title. Titles are fetched in one separate query and
// merged, so a quiz whose article is gone still comes back (untitled).
func (g *Gateway) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := g.db.WithContext(ctx).Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return quizzes, nil
	}

	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ArticleID)
	}
	titles, err := g.articleTitles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].ArticleTitle = titles[quizzes[i].ArticleID]
	}
	return quizzes, nil
}

// GetQuizByArticleID returns the quiz attached to an article together with
// its questions, which are fetched separately ordered by their order value
// and merged in.
func (g *Gateway) GetQuizByArticleID(ctx context.Context, articleID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := g.db.WithContext(ctx).First(&quiz, "article_id = ?", articleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var questions []models.QuizQuestion
	err = g.db.WithContext(ctx).
		Where("quiz_id = ?", quiz.ID).
		Order("\"order\" ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions

	titles, err := g.articleTitles(ctx, []string{quiz.ArticleID})
	if err != nil {
		return nil, err
	}
	quiz.ArticleTitle = titles[quiz.ArticleID]
	return &quiz, nil
}

// ListAttempts returns a user's quiz attempts, most recent first, enriched
// with the quiz titles from a separate merged query.
func (g *Gateway) ListAttempts(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return attempts, nil
	}

	ids := make([]string, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.QuizID)
	}
	var rows []struct {
		ID    string
		Title string
	}
	err = g.db.WithContext(ctx).Model(&models.Quiz{}).
		Select("id", "title").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(rows))
	for _, r := range rows {
		titles[r.ID] = r.Title
	}
	for i := range attempts {
		attempts[i].QuizTitle = titles[attempts[i].QuizID]
	}
	return attempts, nil
}

// ListProgress returns every progress record a user has.
func (g *Gateway) ListProgress(ctx context.Context, userID string) ([]models.ArticleProgress, error) {
	var progress []models.ArticleProgress
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// UpsertProgress creates or updates the single progress row for a
// (user, article) pair.
func (g *Gateway) UpsertProgress(ctx context.Context, userID, articleID string, completed bool) error {
	now := time.Now()
	record := models.ArticleProgress{
		UserID:     userID,
		ArticleID:  articleID,
		Completed:  completed,
		LastReadAt: now,
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "last_read_at", "updated_at"}),
	}).Create(&record).Error
}

// CreateAttempt persists an attempt and its answers in one transaction.
func (g *Gateway) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt, answers []models.QuizAnswer) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Gateway) articleTitles(ctx context.Context, articleIDs []string) (map[string]string, error) {
	var rows []struct {
		ID    string
		Title string
	}
	err := g.db.WithContext(ctx).Model(&models.Article{}).
		Select("id", "title").
		Where("id IN ?", articleIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(rows))
	for _, r := range rows {
		titles[r.ID] = r.Title
	}
	return titles, nil
}
