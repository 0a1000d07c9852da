package service

import (
	"context"
	"sort"
	"sync"

	"codelearn_backend/internal/model"
	"codelearn_backend/internal/repository"

	"gorm.io/gorm"
)

// 内存版存储桩，语义与 repository 层的 MySQL 实现一致

type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts []model.PracticeAttempt
	// forcedConflicts 让前 N 次 Create 撞唯一索引，模拟并发抢号
	forcedConflicts int
}

func (f *fakeAttemptStore) Create(attempt *model.PracticeAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return gorm.ErrDuplicatedKey
	}

	for _, a := range f.attempts {
		if a.UserID == attempt.UserID && a.TopicID == attempt.TopicID && a.AttemptNumber == attempt.AttemptNumber {
			return gorm.ErrDuplicatedKey
		}
	}

	if attempt.ID == "" {
		attempt.ID = model.GenerateUUID()
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptStore) MaxAttemptNumber(userID, topicID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	max := 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.TopicID == topicID && a.AttemptNumber > max {
			max = a.AttemptNumber
		}
	}
	return max, nil
}

func (f *fakeAttemptStore) ListByUserAndTopic(userID, topicID uint) ([]model.PracticeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.PracticeAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.TopicID == topicID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AttemptNumber > out[j].AttemptNumber
	})
	return out, nil
}

func (f *fakeAttemptStore) FindByID(id string) (*model.PracticeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.attempts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type userTopic struct {
	userID  uint
	topicID uint
}

type fakeBestStore struct {
	mu   sync.Mutex
	best map[userTopic]model.PracticeBestScore
}

func newFakeBestStore() *fakeBestStore {
	return &fakeBestStore{best: make(map[userTopic]model.PracticeBestScore)}
}

func (f *fakeBestStore) UpsertIfGreater(b *model.PracticeBestScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := userTopic{b.UserID, b.TopicID}
	current, ok := f.best[key]
	// 同分保留先写入的一方
	if !ok || b.Percentage > current.Percentage {
		f.best[key] = *b
	}
	return nil
}

func (f *fakeBestStore) ListByUser(userID uint) ([]model.PracticeBestScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.PracticeBestScore
	for key, b := range f.best {
		if key.userID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeChallengeStore struct {
	specs map[uint]*model.ChallengeSpec
}

func (f *fakeChallengeStore) FindByTopic(topicID uint) (*model.ChallengeSpec, error) {
	spec, ok := f.specs[topicID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return spec, nil
}

type fakeSubmissionStore struct {
	mu   sync.Mutex
	rows map[userTopic]model.CodingSubmission
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{rows: make(map[userTopic]model.CodingSubmission)}
}

func (f *fakeSubmissionStore) Upsert(s *model.CodingSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userTopic{s.UserID, s.TopicID}] = *s
	return nil
}

func (f *fakeSubmissionStore) FindByUserAndTopic(userID, topicID uint) (*model.CodingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userTopic{userID, topicID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (f *fakeSubmissionStore) ListByUser(userID uint) ([]model.CodingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.CodingSubmission
	for key, row := range f.rows {
		if key.userID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeExecutor 按注入函数应答，记录调用次数
type fakeExecutor struct {
	mu    sync.Mutex
	calls int
	fn    func(code, language, stdin string) (string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, code, language, stdin string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(code, language, stdin)
}

type fakeRankSource struct {
	mu      sync.Mutex
	sums    []repository.UserPracticeSum
	counts  []repository.UserPassedCount
	queries int
}

func (f *fakeRankSource) PracticeSums() ([]repository.UserPracticeSum, error) {
	f.mu.Lock()
	f.queries++
	f.mu.Unlock()
	return f.sums, nil
}

func (f *fakeRankSource) PassedCounts() ([]repository.UserPassedCount, error) {
	return f.counts, nil
}

func (f *fakeRankSource) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

type fakeNameSource struct {
	names map[uint]string
}

func (f *fakeNameSource) FindNamesByIDs(ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}
