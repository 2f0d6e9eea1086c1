// sinks.go

package roster

import (
	"fmt"
	"log"

	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

// InventoryStore 背包写入(PostgreSQL)
//
// 实现战斗核心的 InventorySink 接口。
type InventoryStore struct{}

// NewInventoryStore 创建背包写入器
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{}
}

// AddItem 物品入包，已有条目累加数量
func (s *InventoryStore) AddItem(characterID int64, itemID int, quantity int) error {
	if db.DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	_, err := db.DB.Exec(`
		INSERT INTO inventory (character_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id, item_id)
		DO UPDATE SET quantity = inventory.quantity + $3`,
		characterID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("物品入包失败: %w", err)
	}
	return nil
}

// QuestLog 任务进度回写(PostgreSQL)
//
// 实现战斗核心的 QuestSink 接口；每次击杀每名玩家一条。
type QuestLog struct{}

// NewQuestLog 创建任务进度回写器
func NewQuestLog() *QuestLog {
	return &QuestLog{}
}

// UpdateProgress 累加任务进度
func (q *QuestLog) UpdateProgress(characterID int64, questType string, targetID string, amount int) {
	if db.DB == nil {
		return
	}

	_, err := db.DB.Exec(`
		INSERT INTO quest_progress (character_id, quest_type, target_id, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (character_id, quest_type, target_id)
		DO UPDATE SET amount = quest_progress.amount + $4, updated_at = CURRENT_TIMESTAMP`,
		characterID, questType, targetID, amount)
	if err != nil {
		// 任务进度失败不影响战斗推进
		log.Printf("任务进度更新失败: 角色=%d 类型=%s 目标=%s: %v", characterID, questType, targetID, err)
	}
}
