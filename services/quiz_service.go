package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"learnly/cache"
	"learnly/gateway"
	"learnly/models"
	"learnly/netcheck"
)

// QuizGateway is the slice of the remote gateway the quiz sync flow needs.
type QuizGateway interface {
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	GetQuizByArticleID(ctx context.Context, articleID string) (*models.Quiz, error)
	ListAttempts(ctx context.Context, userID string) ([]models.QuizAttempt, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt, answers []models.QuizAnswer) error
}

type QuizService struct {
	gw       QuizGateway
	cache    *cache.Manager
	net      netcheck.Checker
	pending  PendingWriteQueue
	notifier Notifier
}

func NewQuizService(gw QuizGateway, cache *cache.Manager, net netcheck.Checker, pending PendingWriteQueue, notifier Notifier) *QuizService {
	return &QuizService{
		gw:       gw,
		cache:    cache,
		net:      net,
		pending:  pending,
		notifier: notifier,
	}
}

// AnswerInput is one answered question in a submitted attempt.
type AnswerInput struct {
	QuestionID    string `json:"question_id" binding:"required"`
	SelectedIndex int    `json:"selected_index"`
	IsCorrect     bool   `json:"is_correct"`
}

// SaveAttemptRequest is the submission payload for a finished quiz.
type SaveAttemptRequest struct {
	Score   int           `json:"score" binding:"min=0,max=100"`
	Answers []AnswerInput `json:"answers"`
}

// FetchQuizzes returns all quizzes as list summaries, each carrying its
// article title when the backend join supplied one. Offline or on a remote
// failure the cached list is served instead.
func (s *QuizService) FetchQuizzes(ctx context.Context) ([]models.QuizSummary, error) {
	if s.net.IsConnected(ctx) {
		quizzes, err := s.gw.ListQuizzes(ctx)
		if err == nil {
			if cerr := s.cache.SaveQuizzes(ctx, quizzes); cerr != nil {
				log.Printf("sync: cache quiz list: %v", cerr)
			}
			s.notifyRefresh("quizzes")
			summaries := make([]models.QuizSummary, 0, len(quizzes))
			for _, q := range quizzes {
				summaries = append(summaries, q.Summarize())
			}
			return summaries, nil
		}
		log.Printf("sync: list quizzes remote failed, falling back to cache: %v", err)
	}

	summaries, err := s.cache.GetQuizzes(ctx)
	if err != nil {
		log.Printf("sync: read cached quizzes: %v", err)
		return []models.QuizSummary{}, nil
	}
	return summaries, nil
}

// FetchQuizByArticleID returns the quiz for an article with its ordered
// question sequence. A remote "no quiz for this article" surfaces as
// gateway.ErrNotFound; transport failures fall back to the cached records.
func (s *QuizService) FetchQuizByArticleID(ctx context.Context, articleID string) (*models.Quiz, error) {
	if s.net.IsConnected(ctx) {
		quiz, err := s.gw.GetQuizByArticleID(ctx, articleID)
		if err == nil {
			if cerr := s.cache.SaveQuizDetail(ctx, *quiz); cerr != nil {
				log.Printf("sync: cache quiz %s: %v", quiz.ID, cerr)
			}
			return quiz, nil
		}
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, gateway.ErrNotFound
		}
		log.Printf("sync: get quiz for article %s remote failed, falling back to cache: %v", articleID, err)
	}

	quiz, err := s.cache.GetQuizByArticleID(ctx, articleID)
	if err != nil {
		log.Printf("sync: read cached quiz for article %s: %v", articleID, err)
		return nil, gateway.ErrNotFound
	}
	if quiz == nil {
		return nil, gateway.ErrNotFound
	}
	return quiz, nil
}

// SaveQuizAttempt persists a finished attempt with its answers. Offline the
// attempt is handed to the pending queue and the caller receives a locally
// constructed placeholder that is not durably saved anywhere.
func (s *QuizService) SaveQuizAttempt(ctx context.Context, userID, quizID string, score int, answers []AnswerInput) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: time.Now(),
	}

	if !s.net.IsConnected(ctx) {
		if err := s.pending.Enqueue(ctx, PendingWrite{
			Kind:     PendingAttempt,
			UserID:   userID,
			EntityID: quizID,
			Score:    score,
		}); err != nil {
			return nil, err
		}
		return attempt, nil
	}

	records := make([]models.QuizAnswer, 0, len(answers))
	for _, a := range answers {
		records = append(records, models.QuizAnswer{
			ID:            uuid.NewString(),
			QuestionID:    a.QuestionID,
			SelectedIndex: a.SelectedIndex,
			IsCorrect:     a.IsCorrect,
		})
	}
	if err := s.gw.CreateAttempt(ctx, attempt, records); err != nil {
		return nil, err
	}
	return attempt, nil
}

// FetchUserQuizAttempts returns the user's attempts, most recent first.
// Attempts are never cached, so offline (or on a remote failure) the result
// is an empty slice rather than an error.
func (s *QuizService) FetchUserQuizAttempts(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	if !s.net.IsConnected(ctx) {
		return []models.QuizAttempt{}, nil
	}
	attempts, err := s.gw.ListAttempts(ctx, userID)
	if err != nil {
		log.Printf("sync: list attempts for %s failed: %v", userID, err)
		return []models.QuizAttempt{}, nil
	}
	return attempts, nil
}

func (s *QuizService) notifyRefresh(entity string) {
	if s.notifier != nil {
		s.notifier.NotifyRefresh(entity)
	}
}
