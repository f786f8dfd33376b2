// Package storage keeps per-strategy statistics and recent rounds in Redis.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/protocol/codec"
	"github.com/palemoky/tennis/internal/rating"
)

const (
	// Redis key
	strategyStatsKey = "strategy:stats:"
	leaderboardKey   = "leaderboard:winrate"
	recentRoundsKey  = "rounds:recent"

	// RecentLimit 最近回合保留数量
	RecentLimit = 100
)

// StrategyStats 策略统计数据
type StrategyStats struct {
	Name string `json:"name"`

	// 总计
	Rounds int `json:"rounds"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`

	// 先手/后手分开统计
	LeaderRounds int `json:"leader_rounds"`
	LeaderWins   int `json:"leader_wins"`
	DealerRounds int `json:"dealer_rounds"`
	DealerWins   int `json:"dealer_wins"`

	// 误差累计
	ForehandErrorSum int `json:"forehand_error_sum"`
	BackhandErrorSum int `json:"backhand_error_sum"`

	Rating float64 `json:"rating"`

	// 连胜/连败, ties leave the streak alone
	CurrentStreak int `json:"current_streak"`
	MaxWinStreak  int `json:"max_win_streak"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// WinRate is the share of rounds won; ties count as not won.
func (s *StrategyStats) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// AvgError is the average total error per round.
func (s *StrategyStats) AvgError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.ForehandErrorSum+s.BackhandErrorSum) / float64(s.Rounds)
}

func (s *StrategyStats) apply(seat game.Seat, r game.SeatReport, winner game.Seat, decided bool, now int64) {
	s.Rounds++
	s.LastPlayedAt = now
	s.ForehandErrorSum += r.ForehandError
	s.BackhandErrorSum += r.BackhandError

	won := decided && winner == seat
	if seat == game.Leader {
		s.LeaderRounds++
		if won {
			s.LeaderWins++
		}
	} else {
		s.DealerRounds++
		if won {
			s.DealerWins++
		}
	}

	switch {
	case !decided:
		s.Ties++
	case won:
		s.Wins++
		s.CurrentStreak = max(1, s.CurrentStreak+1)
	default:
		s.Losses++
		s.CurrentStreak = min(-1, s.CurrentStreak-1)
	}
	s.MaxWinStreak = max(s.MaxWinStreak, s.CurrentStreak)
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	WinRate  float64 `json:"win_rate"`
	Rounds   int     `json:"rounds"`
	Wins     int     `json:"wins"`
	Rating   float64 `json:"rating"`
	AvgError float64 `json:"avg_error"`
}

// Leaderboard 排行榜. Recording is serialised within one process.
type Leaderboard struct {
	redis *redis.Client
	k     float64
	now   func() time.Time
	mu    sync.Mutex
}

// NewLeaderboard 创建排行榜
func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{redis: client, k: rating.DefaultK, now: time.Now}
}

// GetStats 获取策略统计; nil without error when the strategy has never played.
func (lb *Leaderboard) GetStats(ctx context.Context, name string) (*StrategyStats, error) {
	data, err := lb.redis.Get(ctx, strategyStatsKey+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats StrategyStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode stats of %s: %w", name, err)
	}
	return &stats, nil
}

func (lb *Leaderboard) getOrCreateStats(ctx context.Context, name string) (*StrategyStats, error) {
	stats, err := lb.GetStats(ctx, name)
	if err != nil || stats != nil {
		return stats, err
	}
	return &StrategyStats{
		Name:      name,
		Rating:    rating.DefaultStart,
		CreatedAt: lb.now().Unix(),
	}, nil
}

// RecordRound 记录回合结果: updates both strategies' stats, their Elo and the win-rate
// ranking, and pushes the encoded round summary onto the recent list. The move record is
// never stored.
func (lb *Leaderboard) RecordRound(ctx context.Context, rep *game.Report) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	leader, err := lb.getOrCreateStats(ctx, rep.Leader.Name)
	if err != nil {
		return err
	}
	dealer := leader
	if rep.Dealer.Name != rep.Leader.Name {
		if dealer, err = lb.getOrCreateStats(ctx, rep.Dealer.Name); err != nil {
			return err
		}
		e := rating.Elo{A: leader.Rating, B: dealer.Rating, K: lb.k}
		e.Update(rating.Score(rep.Winner))
		leader.Rating, dealer.Rating = e.A, e.B
	}

	now := lb.now().Unix()
	winner, decided := rep.WinnerSeat()
	leader.apply(game.Leader, rep.Leader, winner, decided, now)
	dealer.apply(game.Dealer, rep.Dealer, winner, decided, now)

	_, err = lb.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, s := range uniqueStats(leader, dealer) {
			data, err := json.Marshal(s)
			if err != nil {
				return err
			}
			pipe.Set(ctx, strategyStatsKey+s.Name, data, 0)
			pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: s.WinRate(), Member: s.Name})
		}
		pipe.LPush(ctx, recentRoundsKey, codec.EncodeReport(summary(rep)))
		pipe.LTrim(ctx, recentRoundsKey, 0, RecentLimit-1)
		return nil
	})
	return err
}

// summary is rep without its move record.
func summary(rep *game.Report) *game.Report {
	s := *rep
	s.Moves = nil
	return &s
}

func uniqueStats(a, b *StrategyStats) []*StrategyStats {
	if a == b {
		return []*StrategyStats{a}
	}
	return []*StrategyStats{a, b}
}

// RecordMatch records both rounds of m.
func (lb *Leaderboard) RecordMatch(ctx context.Context, m *game.MatchReport) error {
	for _, rep := range m.Rounds {
		if err := lb.RecordRound(ctx, rep); err != nil {
			return err
		}
	}
	return nil
}

// Top 获取排行榜, highest win rate first.
func (lb *Leaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	results, err := lb.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}
		stats, err := lb.GetStats(ctx, name)
		if err != nil {
			return nil, err
		}
		if stats == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Name:     name,
			WinRate:  result.Score,
			Rounds:   stats.Rounds,
			Wins:     stats.Wins,
			Rating:   stats.Rating,
			AvgError: stats.AvgError(),
		})
	}
	return entries, nil
}

// Rank 获取策略排名, 1-based; -1 when the strategy is not ranked.
func (lb *Leaderboard) Rank(ctx context.Context, name string) (int64, error) {
	rank, err := lb.redis.ZRevRank(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil // 未上榜
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}

// RecentRounds returns up to limit of the most recent rounds, newest first.
func (lb *Leaderboard) RecentRounds(ctx context.Context, limit int) ([]*game.Report, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := lb.redis.LRange(ctx, recentRoundsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*game.Report, 0, len(raw))
	for _, s := range raw {
		rep, err := codec.DecodeReport([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}
