// monster.go

package models

// MonsterTemplate 怪物模板(静态内容，只读)
//
// 每场战斗通过克隆生成独立的可变副本，绝不共享引用。
type MonsterTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`

	MaxHealth        int     `json:"max_health"`
	AttackPower      int     `json:"attack_power"`
	Defense          int     `json:"defense"`
	AttacksPerSecond float64 `json:"attacks_per_second"`

	CriticalChance     float64 `json:"critical_chance"`
	CriticalMultiplier float64 `json:"critical_multiplier"`
	DodgeChance        float64 `json:"dodge_chance"`

	SkillIDs []int `json:"skill_ids,omitempty"`

	// 掉落
	GoldMin   int `json:"gold_min"`
	GoldMax   int `json:"gold_max"`
	ExpReward int `json:"exp_reward"`
}
