// view.go

package battle

import (
	"time"

	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// BattleView 战斗只读快照，供对外查询序列化
//
// 战斗上下文本体由管理器的锁保护，不能直接交给外部；
// 快照在持锁期间构造，之后随意读取。
type BattleView struct {
	ID         string              `json:"id"`
	Type       models.BattleType   `json:"type"`
	Status     models.BattleStatus `json:"status"`
	DungeonID  int                 `json:"dungeon_id,omitempty"`
	WaveNumber int                 `json:"wave_number,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`

	Players []CombatantView       `json:"players"`
	Enemies []CombatantView       `json:"enemies"`
	Actions []models.BattleAction `json:"actions,omitempty"`
}

// CombatantView 参战者只读快照
type CombatantView struct {
	ID          string  `json:"id"`
	CharacterID int64   `json:"character_id,omitempty"`
	Name        string  `json:"name"`
	Level       int     `json:"level"`
	Health      int     `json:"health"`
	MaxHealth   int     `json:"max_health"`
	IsAlive     bool    `json:"is_alive"`
	Revival     float64 `json:"revival_time_remaining,omitempty"`
}

// snapshotBattle 构造战斗快照(调用方持锁)
func snapshotBattle(b *Context) *BattleView {
	view := &BattleView{
		ID:         b.ID,
		Type:       b.Type,
		Status:     b.Status,
		DungeonID:  b.DungeonID,
		WaveNumber: b.WaveNumber,
		CreatedAt:  b.CreatedAt,
		Players:    make([]CombatantView, 0, len(b.Players)),
		Enemies:    make([]CombatantView, 0, len(b.Enemies)),
	}

	for _, p := range b.Players {
		view.Players = append(view.Players, CombatantView{
			ID:          p.ID,
			CharacterID: p.CharacterID,
			Name:        p.Name,
			Level:       p.Level,
			Health:      p.Health,
			MaxHealth:   p.MaxHealth,
			IsAlive:     p.IsAlive,
			Revival:     p.RevivalTimeRemaining,
		})
	}
	for _, e := range b.Enemies {
		view.Enemies = append(view.Enemies, CombatantView{
			ID:        e.ID,
			Name:      e.Name,
			Level:     e.Level,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			IsAlive:   e.IsAlive,
		})
	}

	// 日志直接拷贝，条目本身创建后不再修改
	view.Actions = append(view.Actions, b.Actions...)
	return view
}
