package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"codelearn_backend/internal/repository"
	"codelearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 排行榜默认展示人数
const leaderboardTopSize = 50

const leaderboardCacheKey = "leaderboard:entries"

// RankSource 榜单取数的聚合查询
type RankSource interface {
	PracticeSums() ([]repository.UserPracticeSum, error)
	PassedCounts() ([]repository.UserPassedCount, error)
}

// NameSource 学员显示名
type NameSource interface {
	FindNamesByIDs(ids []uint) (map[uint]string, error)
}

// LeaderboardEntry 排名采用 standard competition ranking：
// 同分同名次，名次 = 严格更高总分的人数 + 1
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         uint   `json:"userId"`
	Name           string `json:"name"`
	PracticePoints int    `json:"practicePoints"`
	CodingPoints   int    `json:"codingPoints"`
	TotalPoints    int    `json:"totalPoints"`
	IsCurrentUser  bool   `json:"isCurrentUser"`
}

type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	// MyRank 不在榜时也会解析；无任何积分时为 null
	MyRank *int `json:"myRank"`
}

// LeaderboardService 榜单是由两张源表现算的派生视图，
// 从不作为权威状态落库；Redis 只做短 TTL 缓存
type LeaderboardService struct {
	RankRepo RankSource
	UserRepo NameSource
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewLeaderboardService(rankRepo RankSource, userRepo NameSource, rdb *redis.Client, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		RankRepo: rankRepo,
		UserRepo: userRepo,
		Redis:    rdb,
		CacheTTL: cacheTTL,
	}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, userID uint) (*Leaderboard, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{
		Entries: make([]LeaderboardEntry, 0, leaderboardTopSize),
	}

	for i, e := range entries {
		if e.UserID == userID {
			rank := e.Rank
			board.MyRank = &rank
		}
		if i < leaderboardTopSize {
			e.IsCurrentUser = e.UserID == userID
			board.Entries = append(board.Entries, e)
		}
	}

	return board, nil
}

// loadEntries 先读缓存，未命中再现算并回填
// 个性化字段（isCurrentUser、myRank）不进缓存，缓存可跨学员共享
func (s *LeaderboardService) loadEntries(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.computeEntries()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		data, err := json.Marshal(entries)
		if err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, data, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// InvalidateCache 清掉缓存的榜单，下一次请求现算
// 管理员在补录或修正数据后调用
func (s *LeaderboardService) InvalidateCache(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, leaderboardCacheKey).Err()
}

// computeEntries 合并两张源表，过滤零分学员，按总分降序排名
func (s *LeaderboardService) computeEntries() ([]LeaderboardEntry, error) {
	sums, err := s.RankRepo.PracticeSums()
	if err != nil {
		return nil, err
	}

	counts, err := s.RankRepo.PassedCounts()
	if err != nil {
		return nil, err
	}

	type points struct {
		practice int
		coding   int
	}
	byUser := make(map[uint]*points)
	for _, row := range sums {
		byUser[row.UserID] = &points{practice: int(math.Round(row.Sum))}
	}
	for _, row := range counts {
		p, ok := byUser[row.UserID]
		if !ok {
			p = &points{}
			byUser[row.UserID] = p
		}
		p.coding = row.Count * 100
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	ids := make([]uint, 0, len(byUser))
	for id, p := range byUser {
		total := p.practice + p.coding
		if total <= 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:         id,
			PracticePoints: p.practice,
			CodingPoints:   p.coding,
			TotalPoints:    total,
		})
		ids = append(ids, id)
	}

	// 同分时按用户ID升序，保证榜单顺序稳定
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	names, err := s.UserRepo.FindNamesByIDs(ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Name = names[entries[i].UserID]
	}

	return entries, nil
}
