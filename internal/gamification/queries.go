package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Read-side projections over the ledger and unlock tables. None of these
// participate in the award write path.

// TodayXP sums the XP a user earned since UTC midnight.
func TodayXP(gdb *gorm.DB, userID uint) (int, error) {
	y, m, d := time.Now().UTC().Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var sum *int
	err := gdb.Model(&XpEvent{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Select("SUM(xp_amount)").Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// UnlockedCount returns how many achievements the user has unlocked.
func UnlockedCount(gdb *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := gdb.Model(&UserAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AchievementWithStatus is one catalog entry with the caller's unlock time,
// nil when still locked.
type AchievementWithStatus struct {
	Achievement
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// AchievementCatalog lists the whole catalog with the user's unlock status.
func AchievementCatalog(gdb *gorm.DB, userID uint) ([]AchievementWithStatus, error) {
	var all []Achievement
	if err := gdb.Order("condition_kind, condition_threshold").Find(&all).Error; err != nil {
		return nil, err
	}

	var unlocked []UserAchievement
	if err := gdb.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		return nil, err
	}
	unlockedAt := make(map[uint]time.Time, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	result := make([]AchievementWithStatus, 0, len(all))
	for _, a := range all {
		entry := AchievementWithStatus{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			t := at
			entry.UnlockedAt = &t
		}
		result = append(result, entry)
	}
	return result, nil
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    uint   `json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	TotalXP   int    `json:"total_xp"`
	Level     int    `json:"level"`
	League    League `json:"league"`
}

type LeaderboardResult struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Period   string             `json:"period"`
	UserRank *int               `json:"user_rank"`
}

const leaderboardCacheTTL = 60 * time.Second

type lbRow struct {
	UserID    uint
	FullName  string
	AvatarURL string
	TotalXP   int
	Level     *int
	League    *League
}

// Leaderboard ranks users by XP for the given period: "all_time" over the
// aggregates, "weekly"/"monthly" over ledger sums in the window. Entries are
// cached briefly in redis (pass nil to skip caching); the caller's rank is
// resolved per request, including off-board for all_time.
func Leaderboard(gdb *gorm.DB, rdb *redis.Client, period string, limit int, currentUserID uint) (*LeaderboardResult, error) {
	entries, err := cachedEntries(rdb, period, limit)
	if err != nil || entries == nil {
		switch period {
		case "all_time":
			entries, err = allTimeEntries(gdb, limit)
		case "weekly":
			entries, err = windowEntries(gdb, limit, 7)
		case "monthly":
			entries, err = windowEntries(gdb, limit, 30)
		default:
			return nil, fmt.Errorf("unknown leaderboard period %q", period)
		}
		if err != nil {
			return nil, err
		}
		storeEntries(rdb, period, limit, entries)
	}

	result := &LeaderboardResult{Entries: entries, Period: period}
	for _, e := range entries {
		if e.UserID == currentUserID {
			rank := e.Rank
			result.UserRank = &rank
			break
		}
	}
	if result.UserRank == nil && period == "all_time" {
		rank, err := allTimeRank(gdb, currentUserID)
		if err != nil {
			return nil, err
		}
		result.UserRank = rank
	}
	return result, nil
}

func allTimeEntries(gdb *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	var rows []lbRow
	err := gdb.Table("user_gamification").
		Select("user_gamification.user_id, users.full_name, users.avatar_url, user_gamification.total_xp, user_gamification.level, user_gamification.league").
		Joins("JOIN users ON users.id = user_gamification.user_id").
		Order("user_gamification.total_xp DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rankRows(rows), nil
}

func windowEntries(gdb *gorm.DB, limit, days int) ([]LeaderboardEntry, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	var rows []lbRow
	err := gdb.Table("xp_events").
		Select("xp_events.user_id, users.full_name, users.avatar_url, SUM(xp_events.xp_amount) AS total_xp, user_gamification.level, user_gamification.league").
		Joins("JOIN users ON users.id = xp_events.user_id").
		Joins("LEFT JOIN user_gamification ON user_gamification.user_id = xp_events.user_id").
		Where("xp_events.created_at >= ?", since).
		Group("xp_events.user_id, users.full_name, users.avatar_url, user_gamification.level, user_gamification.league").
		Order("total_xp DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rankRows(rows), nil
}

func rankRows(rows []lbRow) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{
			Rank:      i + 1,
			UserID:    row.UserID,
			FullName:  row.FullName,
			AvatarURL: row.AvatarURL,
			TotalXP:   row.TotalXP,
			Level:     1,
			League:    LeagueBronze,
		}
		if row.Level != nil {
			entry.Level = *row.Level
		}
		if row.League != nil && *row.League != "" {
			entry.League = *row.League
		}
		entries = append(entries, entry)
	}
	return entries
}

// allTimeRank finds a user's position when they are not in the top entries.
func allTimeRank(gdb *gorm.DB, userID uint) (*int, error) {
	var gam UserGamification
	if err := gdb.Where("user_id = ?", userID).First(&gam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var ahead int64
	if err := gdb.Model(&UserGamification{}).Where("total_xp > ?", gam.TotalXP).Count(&ahead).Error; err != nil {
		return nil, err
	}
	rank := int(ahead) + 1
	return &rank, nil
}

func leaderboardCacheKey(period string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", period, limit)
}

func cachedEntries(rdb *redis.Client, period string, limit int) ([]LeaderboardEntry, error) {
	if rdb == nil {
		return nil, nil
	}
	raw, err := rdb.Get(context.Background(), leaderboardCacheKey(period, limit)).Result()
	if err != nil {
		return nil, nil
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

func storeEntries(rdb *redis.Client, period string, limit int, entries []LeaderboardEntry) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	_ = rdb.Set(context.Background(), leaderboardCacheKey(period, limit), raw, leaderboardCacheTTL).Err()
}
