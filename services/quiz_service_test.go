package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnly/cache"
	"learnly/gateway"
	"learnly/models"
	"learnly/netcheck"
	"learnly/storage"
)

type fakeQuizGateway struct {
	quizzes  []models.Quiz
	attempts []models.QuizAttempt
	err      error

	created []*models.QuizAttempt
	answers [][]models.QuizAnswer
}

func (f *fakeQuizGateway) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quizzes, nil
}

func (f *fakeQuizGateway) GetQuizByArticleID(ctx context.Context, articleID string) (*models.Quiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.quizzes {
		if f.quizzes[i].ArticleID == articleID {
			return &f.quizzes[i], nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeQuizGateway) ListAttempts(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.attempts, nil
}

func (f *fakeQuizGateway) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt, answers []models.QuizAnswer) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, attempt)
	f.answers = append(f.answers, answers)
	return nil
}

func remoteQuizzes() []models.Quiz {
	created := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	return []models.Quiz{
		{
			ID:           "q1",
			Title:        "Quiz One",
			ArticleID:    "a1",
			ArticleTitle: "Free One",
			PassingScore: 70,
			CreatedAt:    created,
			UpdatedAt:    created,
			Questions: []models.QuizQuestion{
				{ID: "qq1", QuizID: "q1", Text: "First?", Options: []string{"a", "b"}, CorrectIndex: 0, Order: 1, CreatedAt: created, UpdatedAt: created},
			},
		},
		{ID: "q2", Title: "Quiz Two", ArticleID: "a3", PassingScore: 60, CreatedAt: created, UpdatedAt: created},
	}
}

func newQuizFixture(t *testing.T, gw QuizGateway, online bool) (*QuizService, *cache.Manager, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	cm := cache.NewManager(context.Background(), kv)
	svc := NewQuizService(gw, cm, netcheck.Static(online), DiscardQueue{}, nil)
	return svc, cm, kv
}

func TestFetchQuizzes_OnlineRefreshesCache(t *testing.T) {
	gw := &fakeQuizGateway{quizzes: remoteQuizzes()}
	svc, cm, _ := newQuizFixture(t, gw, true)
	ctx := context.Background()

	list, err := svc.FetchQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Free One", list[0].ArticleTitle)

	cached, err := cm.GetQuizzes(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestFetchQuizzes_FallbackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	gw := &fakeQuizGateway{}
	svc, cm, _ := newQuizFixture(t, gw, true)
	require.NoError(t, cm.SaveQuizzes(ctx, remoteQuizzes()))

	gw.err = errors.New("backend down")
	list, err := svc.FetchQuizzes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFetchQuizByArticleID_OfflineUsesCache(t *testing.T) {
	ctx := context.Background()
	svc, cm, _ := newQuizFixture(t, &fakeQuizGateway{}, false)
	require.NoError(t, cm.SaveQuizzes(ctx, remoteQuizzes()))

	quiz, err := svc.FetchQuizByArticleID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "q1", quiz.ID)
	assert.Len(t, quiz.Questions, 1)

	_, err = svc.FetchQuizByArticleID(ctx, "a2")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestFetchQuizByArticleID_OnlineCachesDetail(t *testing.T) {
	ctx := context.Background()
	gw := &fakeQuizGateway{quizzes: remoteQuizzes()}
	svc, cm, _ := newQuizFixture(t, gw, true)

	quiz, err := svc.FetchQuizByArticleID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, quiz)

	cached, err := cm.GetQuizDetail(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Quiz One", cached.Title)
}

func TestSaveQuizAttempt_Online(t *testing.T) {
	gw := &fakeQuizGateway{}
	svc, _, _ := newQuizFixture(t, gw, true)

	answers := []AnswerInput{
		{QuestionID: "qq1", SelectedIndex: 0, IsCorrect: true},
		{QuestionID: "qq2", SelectedIndex: 2, IsCorrect: false},
	}
	attempt, err := svc.SaveQuizAttempt(context.Background(), "u1", "q1", 50, answers)
	require.NoError(t, err)

	require.Len(t, gw.created, 1)
	assert.Equal(t, attempt.ID, gw.created[0].ID)
	require.Len(t, gw.answers[0], 2)
	assert.NotEmpty(t, gw.answers[0][0].ID)
	assert.Equal(t, "qq1", gw.answers[0][0].QuestionID)
}

func TestSaveQuizAttempt_OfflinePlaceholder(t *testing.T) {
	ctx := context.Background()
	gw := &fakeQuizGateway{}
	svc, _, kv := newQuizFixture(t, gw, false)

	attempt, err := svc.SaveQuizAttempt(ctx, "u1", "q1", 90, nil)
	require.NoError(t, err)
	require.NotNil(t, attempt)

	// Placeholder carries a generated identifier and the submitted values
	_, perr := uuid.Parse(attempt.ID)
	assert.NoError(t, perr)
	assert.Equal(t, "u1", attempt.UserID)
	assert.Equal(t, 90, attempt.Score)
	assert.WithinDuration(t, time.Now(), attempt.CompletedAt, 5*time.Second)

	// Nothing was durably saved: no remote write, no cache write
	assert.Empty(t, gw.created)
	keys, err := kv.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFetchUserQuizAttempts(t *testing.T) {
	gw := &fakeQuizGateway{attempts: []models.QuizAttempt{
		{ID: "at2", UserID: "u1", QuizID: "q1", Score: 80, QuizTitle: "Quiz One"},
		{ID: "at1", UserID: "u1", QuizID: "q2", Score: 40},
	}}

	svc, _, _ := newQuizFixture(t, gw, true)
	got, err := svc.FetchUserQuizAttempts(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Quiz One", got[0].QuizTitle)

	// Attempts are never cached, so offline yields an empty history
	svc, _, _ = newQuizFixture(t, gw, false)
	got, err = svc.FetchUserQuizAttempts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
