// dungeon.go

package models

// WaveEntry 波次条目：某种怪物的数量与修正
type WaveEntry struct {
	MonsterName      string  `json:"monster_name"`
	Count            int     `json:"count"`
	LevelAdjustment  int     `json:"level_adjustment"`
	HealthMultiplier float64 `json:"health_multiplier"`
}

// DungeonWave 副本中的一个波次
type DungeonWave struct {
	Entries []WaveEntry `json:"entries"`
}

// DungeonReward 副本奖励表条目
//
// 每个条目独立掷骰：命中后金币/经验发给全体存活玩家，
// 物品只发给随机一名存活玩家。
type DungeonReward struct {
	ItemID     int     `json:"item_id"`
	Quantity   int     `json:"quantity"`
	Gold       int64   `json:"gold"`
	Exp        int64   `json:"exp"`
	DropChance float64 `json:"drop_chance"`
}

// DungeonTemplate 副本模板(静态内容，只读)
type DungeonTemplate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	MinPlayers      int  `json:"min_players"`
	MaxPlayers      int  `json:"max_players"`
	AllowAutoRevive bool `json:"allow_auto_revive"`

	Waves   []DungeonWave   `json:"waves"`
	Rewards []DungeonReward `json:"rewards"`
}

// WaveCount 波次总数
func (d *DungeonTemplate) WaveCount() int {
	return len(d.Waves)
}
