// battle.go

package models

import (
	"time"
)

// BattleType 战斗类型
type BattleType string

const (
	// BattleSolo 单人战斗
	BattleSolo BattleType = "solo"
	// BattleParty 组队战斗
	BattleParty BattleType = "party"
	// BattleDungeon 副本战斗
	BattleDungeon BattleType = "dungeon"
)

// BattleStatus 战斗状态
type BattleStatus string

const (
	// BattlePreparing 准备中(仅副本：波次敌人填充阶段)
	BattlePreparing BattleStatus = "preparing"
	// BattleActive 进行中
	BattleActive BattleStatus = "active"
	// BattleCompleted 已结束(终态)
	BattleCompleted BattleStatus = "completed"
)

// TargetStrategy 目标选取策略
type TargetStrategy string

const (
	// TargetLowestHealth 血量比例最低优先
	TargetLowestHealth TargetStrategy = "lowest_health"
	// TargetHighestHealth 血量比例最高优先
	TargetHighestHealth TargetStrategy = "highest_health"
	// TargetRandom 存活目标中均匀随机
	TargetRandom TargetStrategy = "random"
	// TargetHighestThreat 威胁最高优先(以总攻击力近似)
	TargetHighestThreat TargetStrategy = "highest_threat"
)

// ActionKind 战斗日志条目类型
type ActionKind string

const (
	// ActionAttack 普通攻击
	ActionAttack ActionKind = "attack"
	// ActionSkill 技能施放
	ActionSkill ActionKind = "skill"
	// ActionDeath 死亡
	ActionDeath ActionKind = "death"
	// ActionRevive 复活
	ActionRevive ActionKind = "revive"
)

// BattleAction 战斗日志条目(只追加)
type BattleAction struct {
	ID         string     `json:"id"`
	Kind       ActionKind `json:"kind"`
	ActorID    string     `json:"actor_id"`
	ActorName  string     `json:"actor_name"`
	TargetID   string     `json:"target_id,omitempty"`
	TargetName string     `json:"target_name,omitempty"`
	Amount     int        `json:"amount"`
	Critical   bool       `json:"critical,omitempty"`
	SkillID    int        `json:"skill_id,omitempty"`
	Time       time.Time  `json:"time"`
}

// EnemySpec 敌人构成条目(名称+数量)
//
// 刷新战斗时使用：原始敌人列表随击杀清空，
// 因此构成必须在清空前捕获。
type EnemySpec struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ItemDrop 物品掉落
type ItemDrop struct {
	CharacterID int64 `json:"character_id"`
	ItemID      int   `json:"item_id"`
	Quantity    int   `json:"quantity"`
}

// RewardResult 战斗结算结果
type RewardResult struct {
	BattleID  string `json:"battle_id"`
	Victory   bool   `json:"victory"`
	TotalGold int64  `json:"total_gold"`
	TotalExp  int64  `json:"total_exp"`

	// 按角色拆分后的收益
	GoldByCharacter map[int64]int64 `json:"gold_by_character,omitempty"`
	ExpByCharacter  map[int64]int64 `json:"exp_by_character,omitempty"`
	Items           []ItemDrop      `json:"items,omitempty"`
}

// KillEvent 击杀事件(供任务进度等延迟处理)
type KillEvent struct {
	EnemyName    string  `json:"enemy_name"`
	CharacterIDs []int64 `json:"character_ids"`
}
