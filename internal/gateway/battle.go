package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/jacl-coder/IdleRealm-Server/internal/battle"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
	"github.com/jacl-coder/IdleRealm-Server/internal/roster"
)

// BattleHandler 战斗操作处理器
type BattleHandler struct {
	manager *battle.Manager
	roster  *roster.Roster
	auth    *AuthHandler
}

// StartSoloRequest 单人战斗请求
type StartSoloRequest struct {
	MonsterName string `json:"monster_name"`
}

// StartPartyRequest 组队战斗请求
type StartPartyRequest struct {
	CharacterIDs []int64 `json:"character_ids"`
	MonsterName  string  `json:"monster_name"`
}

// StartMultiRequest 混编战斗请求
type StartMultiRequest struct {
	CharacterIDs []int64            `json:"character_ids,omitempty"`
	Enemies      []models.EnemySpec `json:"enemies"`
}

// StartDungeonRequest 副本战斗请求
type StartDungeonRequest struct {
	CharacterIDs []int64 `json:"character_ids"`
	DungeonID    int     `json:"dungeon_id"`
}

// EndBattleRequest 强制结束战斗请求
type EndBattleRequest struct {
	BattleID string `json:"battle_id"`
}

// BattleResponse 战斗操作统一响应
type BattleResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewBattleHandler 创建战斗操作处理器
func NewBattleHandler(manager *battle.Manager, ros *roster.Roster, auth *AuthHandler) *BattleHandler {
	return &BattleHandler{
		manager: manager,
		roster:  ros,
		auth:    auth,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *BattleHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/battle/solo", h.requireAuth(h.handleStartSolo))
	mux.HandleFunc("/battle/party", h.requireAuth(h.handleStartParty))
	mux.HandleFunc("/battle/multi", h.requireAuth(h.handleStartMulti))
	mux.HandleFunc("/battle/dungeon", h.requireAuth(h.handleStartDungeon))
	mux.HandleFunc("/battle/end", h.requireAuth(h.handleEndBattle))
	mux.HandleFunc("/battle/current", h.requireAuth(h.handleCurrentBattle))
	mux.HandleFunc("/battle/refresh", h.requireAuth(h.handleRefreshStatus))
}

// requireAuth 认证包装
func (h *BattleHandler) requireAuth(next func(http.ResponseWriter, *http.Request, *TokenClaims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.auth.authenticate(r)
		if !ok {
			http.Error(w, "未授权", http.StatusUnauthorized)
			return
		}
		next(w, r, claims)
	}
}

// handleStartSolo 发起单人战斗
func (h *BattleHandler) handleStartSolo(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req StartSoloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	battleID, err := h.manager.StartSoloBattle(claims.CharacterID, req.MonsterName)
	if err != nil {
		writeBattleJSON(w, BattleResponse{Success: false, Message: err.Error()})
		return
	}

	writeBattleJSON(w, BattleResponse{
		Success: true,
		Message: "战斗已开始",
		Data:    map[string]string{"battle_id": battleID},
	})
}

// handleStartParty 发起组队战斗
func (h *BattleHandler) handleStartParty(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req StartPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	ids := ensureMember(req.CharacterIDs, claims.CharacterID)
	battleID, err := h.manager.StartPartyBattle(ids, req.MonsterName)
	if err != nil {
		writeBattleJSON(w, BattleResponse{Success: false, Message: err.Error()})
		return
	}

	writeBattleJSON(w, BattleResponse{
		Success: true,
		Message: "战斗已开始",
		Data:    map[string]string{"battle_id": battleID},
	})
}

// handleStartMulti 发起混编敌人战斗
func (h *BattleHandler) handleStartMulti(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req StartMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	ids := ensureMember(req.CharacterIDs, claims.CharacterID)
	battleID, err := h.manager.StartMultiEnemyBattle(ids, req.Enemies)
	if err != nil {
		writeBattleJSON(w, BattleResponse{Success: false, Message: err.Error()})
		return
	}

	writeBattleJSON(w, BattleResponse{
		Success: true,
		Message: "战斗已开始",
		Data:    map[string]string{"battle_id": battleID},
	})
}

// handleStartDungeon 发起副本战斗
func (h *BattleHandler) handleStartDungeon(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req StartDungeonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	ids := ensureMember(req.CharacterIDs, claims.CharacterID)
	battleID, err := h.manager.StartDungeonBattle(ids, req.DungeonID)
	if err != nil {
		writeBattleJSON(w, BattleResponse{Success: false, Message: err.Error()})
		return
	}

	writeBattleJSON(w, BattleResponse{
		Success: true,
		Message: "副本战斗已开始",
		Data:    map[string]string{"battle_id": battleID},
	})
}

// handleEndBattle 强制结束战斗
func (h *BattleHandler) handleEndBattle(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req EndBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	// 只有参战者能终止自己的战斗
	view, ok := h.manager.GetBattleForPlayer(claims.CharacterID)
	if !ok || view.ID != req.BattleID {
		writeBattleJSON(w, BattleResponse{Success: false, Message: "只能结束自己参与的战斗"})
		return
	}

	if err := h.manager.ForceEndBattle(req.BattleID); err != nil {
		writeBattleJSON(w, BattleResponse{Success: false, Message: err.Error()})
		return
	}

	writeBattleJSON(w, BattleResponse{Success: true, Message: "战斗已结束"})
}

// handleCurrentBattle 查询当前战斗快照
func (h *BattleHandler) handleCurrentBattle(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	view, ok := h.manager.GetBattleForPlayer(claims.CharacterID)
	if !ok {
		writeBattleJSON(w, BattleResponse{Success: false, Message: "当前没有战斗"})
		return
	}

	writeBattleJSON(w, BattleResponse{Success: true, Message: "查询成功", Data: view})
}

// handleRefreshStatus 查询刷新等待状态
func (h *BattleHandler) handleRefreshStatus(w http.ResponseWriter, r *http.Request, claims *TokenClaims) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	data := map[string]interface{}{
		"in_refresh": h.manager.IsPlayerInRefresh(claims.CharacterID),
		"remaining":  h.manager.PlayerRefreshRemaining(claims.CharacterID),
	}
	writeBattleJSON(w, BattleResponse{Success: true, Message: "查询成功", Data: data})
}

// ensureMember 保证发起者在队伍列表中
func ensureMember(ids []int64, self int64) []int64 {
	for _, id := range ids {
		if id == self {
			return ids
		}
	}
	return append([]int64{self}, ids...)
}

// writeBattleJSON 写入JSON响应
func writeBattleJSON(w http.ResponseWriter, resp BattleResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
