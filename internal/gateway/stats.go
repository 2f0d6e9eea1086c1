package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/jacl-coder/IdleRealm-Server/internal/models"
	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

// StatsHandler 排行榜查询处理器
type StatsHandler struct {
	auth        *AuthHandler
	leaderboard *models.RedisLeaderboard
}

// NewStatsHandler 创建排行榜处理器
func NewStatsHandler(auth *AuthHandler) *StatsHandler {
	return &StatsHandler{
		auth:        auth,
		leaderboard: models.NewRedisLeaderboard(),
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *StatsHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/stats/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/stats/rank", h.handleRank)
}

// parseLeaderboardType 解析排行榜类型参数
func parseLeaderboardType(s string) models.LeaderboardType {
	switch s {
	case "clears":
		return models.LeaderboardClears
	case "gold":
		return models.LeaderboardGold
	default:
		return models.LeaderboardKills
	}
}

// handleLeaderboard 查询排行榜
func (h *StatsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	if db.RedisClient == nil {
		http.Error(w, "排行榜服务不可用", http.StatusServiceUnavailable)
		return
	}

	lbType := parseLeaderboardType(r.URL.Query().Get("type"))

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.leaderboard.GetLeaderboard(lbType, limit)
	if err != nil {
		log.Printf("查询排行榜失败: %v", err)
		http.Error(w, "查询排行榜失败", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"type":    lbType,
		"entries": entries,
	})
}

// handleRank 查询自己的排名
func (h *StatsHandler) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.auth.authenticate(r)
	if !ok {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	if db.RedisClient == nil {
		http.Error(w, "排行榜服务不可用", http.StatusServiceUnavailable)
		return
	}

	lbType := parseLeaderboardType(r.URL.Query().Get("type"))

	rank, err := h.leaderboard.GetCharacterRank(claims.CharacterID, lbType)
	if err != nil {
		log.Printf("查询排名失败: %v", err)
		http.Error(w, "查询排名失败", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"type":    lbType,
		"rank":    rank,
	})
}

// RedisStatsRecorder 战斗统计落Redis排行榜
//
// 实现战斗核心的 StatsRecorder 接口；Redis不可用时静默跳过。
type RedisStatsRecorder struct {
	leaderboard *models.RedisLeaderboard
}

// NewRedisStatsRecorder 创建排行榜统计记录器
func NewRedisStatsRecorder() *RedisStatsRecorder {
	return &RedisStatsRecorder{
		leaderboard: models.NewRedisLeaderboard(),
	}
}

// RecordBattleResult 累计击杀/通关/金币分数
func (s *RedisStatsRecorder) RecordBattleResult(result *models.RewardResult, killsByCharacter map[int64]int, dungeonClear bool) {
	if db.RedisClient == nil {
		return
	}

	for characterID, kills := range killsByCharacter {
		if kills <= 0 {
			continue
		}
		if err := s.leaderboard.IncrCharacterScore(characterID, models.LeaderboardKills, float64(kills)); err != nil {
			log.Printf("击杀排行榜更新失败: 角色=%d: %v", characterID, err)
		}
	}

	if result == nil {
		return
	}

	for characterID, gold := range result.GoldByCharacter {
		if gold > 0 {
			if err := s.leaderboard.IncrCharacterScore(characterID, models.LeaderboardGold, float64(gold)); err != nil {
				log.Printf("金币排行榜更新失败: 角色=%d: %v", characterID, err)
			}
		}
		if dungeonClear {
			if err := s.leaderboard.IncrCharacterScore(characterID, models.LeaderboardClears, 1); err != nil {
				log.Printf("通关排行榜更新失败: 角色=%d: %v", characterID, err)
			}
		}
	}
}
