package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

// LeaderboardType 排行榜类型
type LeaderboardType string

const (
	// LeaderboardKills 击杀排行榜
	LeaderboardKills LeaderboardType = "kills"
	// LeaderboardClears 副本通关排行榜
	LeaderboardClears LeaderboardType = "clears"
	// LeaderboardGold 金币排行榜
	LeaderboardGold LeaderboardType = "gold"
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	CharacterID   int64   `json:"character_id"`
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	TotalKills    int     `json:"total_kills"`
	DungeonClears int     `json:"dungeon_clears"`
	Gold          int64   `json:"gold"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
}

// RedisLeaderboard Redis排行榜管理器
type RedisLeaderboard struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisLeaderboard 创建Redis排行榜管理器
func NewRedisLeaderboard() *RedisLeaderboard {
	return &RedisLeaderboard{
		client: db.RedisClient,
		ctx:    context.Background(),
	}
}

// 排行榜Redis键名
const (
	leaderboardKillsKey  = "leaderboard:kills"
	leaderboardClearsKey = "leaderboard:clears"
	leaderboardGoldKey   = "leaderboard:gold"

	// 角色详细信息键前缀
	characterInfoPrefix = "character:info:"

	// 排行榜缓存时间
	leaderboardCacheTTL = 5 * time.Minute
)

// getLeaderboardKey 获取排行榜键名
func (rl *RedisLeaderboard) getLeaderboardKey(t LeaderboardType) string {
	switch t {
	case LeaderboardClears:
		return leaderboardClearsKey
	case LeaderboardGold:
		return leaderboardGoldKey
	default:
		return leaderboardKillsKey
	}
}

// IncrCharacterScore 累加角色分数
func (rl *RedisLeaderboard) IncrCharacterScore(characterID int64, t LeaderboardType, delta float64) error {
	key := rl.getLeaderboardKey(t)
	return rl.client.ZIncrBy(rl.ctx, key, delta, strconv.FormatInt(characterID, 10)).Err()
}

// UpdateCharacterInfo 更新角色信息缓存
func (rl *RedisLeaderboard) UpdateCharacterInfo(entry *LeaderboardEntry) error {
	key := fmt.Sprintf("%s%d", characterInfoPrefix, entry.CharacterID)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return rl.client.Set(rl.ctx, key, data, leaderboardCacheTTL).Err()
}

// GetLeaderboard 获取排行榜(按分数降序)
func (rl *RedisLeaderboard) GetLeaderboard(t LeaderboardType, limit int) ([]LeaderboardEntry, error) {
	key := rl.getLeaderboardKey(t)

	members, err := rl.client.ZRevRangeWithScores(rl.ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	var entries []LeaderboardEntry
	for i, member := range members {
		characterID, err := strconv.ParseInt(member.Member.(string), 10, 64)
		if err != nil {
			continue
		}

		// 获取角色详细信息，缓存未命中则回源数据库
		info, err := rl.getCharacterInfo(characterID)
		if err != nil {
			info, err = rl.getCharacterInfoFromDB(characterID)
			if err != nil {
				continue
			}
			rl.UpdateCharacterInfo(info)
		}

		info.Score = member.Score
		info.Rank = i + 1

		entries = append(entries, *info)
	}

	return entries, nil
}

// GetCharacterRank 获取角色排名
func (rl *RedisLeaderboard) GetCharacterRank(characterID int64, t LeaderboardType) (int, error) {
	key := rl.getLeaderboardKey(t)

	rank, err := rl.client.ZRevRank(rl.ctx, key, strconv.FormatInt(characterID, 10)).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil // 角色不在排行榜中
		}
		return -1, err
	}

	return int(rank) + 1, nil // Redis排名从0开始，转换为从1开始
}

// getCharacterInfo 从Redis获取角色信息
func (rl *RedisLeaderboard) getCharacterInfo(characterID int64) (*LeaderboardEntry, error) {
	key := fmt.Sprintf("%s%d", characterInfoPrefix, characterID)

	data, err := rl.client.Get(rl.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var entry LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// getCharacterInfoFromDB 从数据库获取角色信息
func (rl *RedisLeaderboard) getCharacterInfoFromDB(characterID int64) (*LeaderboardEntry, error) {
	if db.DB == nil {
		return nil, fmt.Errorf("数据库未初始化")
	}

	query := `
		SELECT id, name, level, total_kills, dungeon_clears, gold
		FROM characters WHERE id = $1`

	var entry LeaderboardEntry
	err := db.DB.QueryRow(query, characterID).Scan(
		&entry.CharacterID, &entry.Name, &entry.Level,
		&entry.TotalKills, &entry.DungeonClears, &entry.Gold,
	)
	if err != nil {
		return nil, fmt.Errorf("查询角色信息失败: %w", err)
	}

	return &entry, nil
}

// RefreshLeaderboard 刷新排行榜(从数据库重新加载)
func (rl *RedisLeaderboard) RefreshLeaderboard() error {
	if db.DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	query := `
		SELECT id, name, level, total_kills, dungeon_clears, gold
		FROM characters ORDER BY total_kills DESC LIMIT 500`

	rows, err := db.DB.Query(query)
	if err != nil {
		return fmt.Errorf("查询角色数据失败: %w", err)
	}
	defer rows.Close()

	pipe := rl.client.Pipeline()
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.CharacterID, &entry.Name, &entry.Level,
			&entry.TotalKills, &entry.DungeonClears, &entry.Gold); err != nil {
			continue
		}

		member := strconv.FormatInt(entry.CharacterID, 10)
		pipe.ZAdd(rl.ctx, leaderboardKillsKey, &redis.Z{Score: float64(entry.TotalKills), Member: member})
		pipe.ZAdd(rl.ctx, leaderboardClearsKey, &redis.Z{Score: float64(entry.DungeonClears), Member: member})
		pipe.ZAdd(rl.ctx, leaderboardGoldKey, &redis.Z{Score: float64(entry.Gold), Member: member})

		rl.UpdateCharacterInfo(&entry)
	}

	if _, err := pipe.Exec(rl.ctx); err != nil {
		return fmt.Errorf("写入排行榜失败: %w", err)
	}

	return nil
}
