package models

import (
	"time"
)

// Character 角色模型(持久记录)
//
// 战斗核心读取攻击属性，并在每个tick后和奖励结算后
// 回写血量/冷却/死亡标记/经验/金币。
type Character struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 成长属性
	Level int   `json:"level"`
	Exp   int64 `json:"exp"`
	Gold  int64 `json:"gold"`

	// 战斗属性
	MaxHealth        int     `json:"max_health"`
	Health           int     `json:"health"`
	AttackPower      int     `json:"attack_power"`
	Defense          int     `json:"defense"`
	AttacksPerSecond float64 `json:"attacks_per_second"`

	CriticalChance     float64 `json:"critical_chance"`
	CriticalMultiplier float64 `json:"critical_multiplier"`
	DodgeChance        float64 `json:"dodge_chance"`

	// 技能装配
	SkillIDs []int `json:"skill_ids,omitempty"`

	// 战斗统计
	TotalKills    int `json:"total_kills"`
	TotalDeaths   int `json:"total_deaths"`
	TotalBattles  int `json:"total_battles"`
	DungeonClears int `json:"dungeon_clears"`
}

// ExpForLevel 升到指定等级所需经验
func ExpForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * int64(level) * 50
}

// ApplyExp 累加经验并结算升级，返回提升的等级数
func (c *Character) ApplyExp(amount int64) int {
	if amount <= 0 {
		return 0
	}
	c.Exp += amount
	gained := 0
	for c.Exp >= ExpForLevel(c.Level+1) {
		c.Level++
		gained++
	}
	return gained
}

// 注意：表结构定义已移至 pkg/db/schema.go 统一管理
