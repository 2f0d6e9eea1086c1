// defaults.go

package catalog

import (
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// 内置默认内容：数据库缺失时的兜底，也是种子数据的来源。

// defaultSkills 默认技能
func defaultSkills() []models.Skill {
	return []models.Skill{
		{ID: 1, Name: "重击", Description: "一次沉重的打击", Type: models.DamageSkill, EffectValue: 25, CooldownRounds: 30},
		{ID: 2, Name: "撕裂", Description: "按目标最大生命比例造成伤害", Type: models.DamageSkill, EffectValue: 0.1, CooldownRounds: 50},
		{ID: 3, Name: "治疗术", Description: "恢复固定生命", Type: models.HealSkill, EffectValue: 20, CooldownRounds: 40},
		{ID: 4, Name: "回春", Description: "按自身最大生命比例恢复", Type: models.HealSkill, EffectValue: 0.15, CooldownRounds: 60},
		{ID: 5, Name: "狂暴", Description: "提升攻击力", Type: models.BuffSkill, EffectValue: 5, CooldownRounds: 100},
		{ID: 6, Name: "毒牙", Description: "怪物的小额固定伤害", Type: models.DamageSkill, EffectValue: 8, CooldownRounds: 35},
	}
}

// defaultMonsters 默认怪物模板
func defaultMonsters() []models.MonsterTemplate {
	return []models.MonsterTemplate{
		{
			Name: "哥布林", Description: "最常见的野怪", Level: 1,
			MaxHealth: 50, AttackPower: 5, Defense: 0, AttacksPerSecond: 0.8,
			CriticalChance: 0.02, CriticalMultiplier: 1.5, DodgeChance: 0.03,
			GoldMin: 2, GoldMax: 6, ExpReward: 10,
		},
		{
			Name: "野狼", Description: "攻速较快的野怪", Level: 3,
			MaxHealth: 80, AttackPower: 8, Defense: 2, AttacksPerSecond: 1.2,
			CriticalChance: 0.05, CriticalMultiplier: 1.5, DodgeChance: 0.08,
			GoldMin: 4, GoldMax: 10, ExpReward: 22,
		},
		{
			Name: "骷髅兵", Description: "带护甲的亡灵", Level: 5,
			MaxHealth: 120, AttackPower: 12, Defense: 8, AttacksPerSecond: 0.7,
			CriticalChance: 0.03, CriticalMultiplier: 1.5, DodgeChance: 0.02,
			SkillIDs: []int{6},
			GoldMin:  8, GoldMax: 18, ExpReward: 40,
		},
		{
			Name: "巨魔", Description: "血量厚实的精英怪", Level: 8,
			MaxHealth: 300, AttackPower: 20, Defense: 12, AttacksPerSecond: 0.5,
			CriticalChance: 0.05, CriticalMultiplier: 2.0, DodgeChance: 0.01,
			SkillIDs: []int{4},
			GoldMin:  20, GoldMax: 45, ExpReward: 120,
		},
		{
			Name: "地穴领主", Description: "副本首领", Level: 10,
			MaxHealth: 600, AttackPower: 28, Defense: 15, AttacksPerSecond: 0.6,
			CriticalChance: 0.08, CriticalMultiplier: 2.0, DodgeChance: 0.02,
			SkillIDs: []int{2, 6},
			GoldMin:  60, GoldMax: 120, ExpReward: 400,
		},
	}
}

// defaultItems 默认物品
func defaultItems() []models.Item {
	return []models.Item{
		{ID: 1, Name: "破损的布片", Rarity: 1, SellPrice: 1},
		{ID: 2, Name: "狼皮", Rarity: 2, SellPrice: 5},
		{ID: 3, Name: "骨质护符", Rarity: 3, SellPrice: 25},
		{ID: 4, Name: "巨魔之血", Rarity: 4, SellPrice: 80},
		{ID: 5, Name: "领主的徽记", Rarity: 5, SellPrice: 300},
	}
}

// defaultDungeons 默认副本
func defaultDungeons() []models.DungeonTemplate {
	return []models.DungeonTemplate{
		{
			ID: 1, Name: "哥布林巢穴", Description: "入门级副本",
			MinPlayers: 1, MaxPlayers: 3, AllowAutoRevive: false,
			Waves: []models.DungeonWave{
				{Entries: []models.WaveEntry{{MonsterName: "哥布林", Count: 3, HealthMultiplier: 1.0}}},
				{Entries: []models.WaveEntry{{MonsterName: "哥布林", Count: 2, HealthMultiplier: 1.0}, {MonsterName: "野狼", Count: 1, HealthMultiplier: 1.0}}},
				{Entries: []models.WaveEntry{{MonsterName: "野狼", Count: 2, LevelAdjustment: 1, HealthMultiplier: 1.5}}},
			},
			Rewards: []models.DungeonReward{
				{ItemID: 1, Quantity: 2, Gold: 30, Exp: 60, DropChance: 1.0},
				{ItemID: 2, Quantity: 1, Gold: 0, Exp: 0, DropChance: 0.5},
			},
		},
		{
			ID: 2, Name: "地穴深处", Description: "五波敌人，最后是首领",
			MinPlayers: 2, MaxPlayers: 5, AllowAutoRevive: true,
			Waves: []models.DungeonWave{
				{Entries: []models.WaveEntry{{MonsterName: "骷髅兵", Count: 3, HealthMultiplier: 1.0}}},
				{Entries: []models.WaveEntry{{MonsterName: "骷髅兵", Count: 4, HealthMultiplier: 1.0}}},
				{Entries: []models.WaveEntry{{MonsterName: "骷髅兵", Count: 2, HealthMultiplier: 1.0}, {MonsterName: "巨魔", Count: 1, HealthMultiplier: 1.0}}},
				{Entries: []models.WaveEntry{{MonsterName: "巨魔", Count: 2, HealthMultiplier: 1.2}}},
				{Entries: []models.WaveEntry{{MonsterName: "地穴领主", Count: 1, HealthMultiplier: 1.0}}},
			},
			Rewards: []models.DungeonReward{
				{ItemID: 3, Quantity: 1, Gold: 150, Exp: 500, DropChance: 1.0},
				{ItemID: 4, Quantity: 1, Gold: 0, Exp: 0, DropChance: 0.35},
				{ItemID: 5, Quantity: 1, Gold: 0, Exp: 0, DropChance: 0.05},
			},
		},
	}
}

// DefaultSkills 导出默认技能(种子数据用)
func DefaultSkills() []models.Skill { return defaultSkills() }

// DefaultMonsters 导出默认怪物(种子数据用)
func DefaultMonsters() []models.MonsterTemplate { return defaultMonsters() }

// DefaultItems 导出默认物品(种子数据用)
func DefaultItems() []models.Item { return defaultItems() }

// DefaultDungeons 导出默认副本(种子数据用)
func DefaultDungeons() []models.DungeonTemplate { return defaultDungeons() }
