// combatant.go

package models

// Combatant 战斗参与者基础结构
//
// 玩家侧与敌人侧共享的属性：血量、攻击、冷却与技能装配。
// 只承载数据和冷却簿记，战斗行为由 battle 包驱动。
type Combatant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`

	// 生存状态
	Health    int  `json:"health"`
	MaxHealth int  `json:"max_health"`
	IsAlive   bool `json:"is_alive"`

	// 攻击属性
	AttackPower      int     `json:"attack_power"`
	Defense          int     `json:"defense"`
	AttacksPerSecond float64 `json:"attacks_per_second"`
	AttackCooldown   float64 `json:"attack_cooldown"` // 距下次攻击的剩余秒数

	// 暴击与闪避
	CriticalChance     float64 `json:"critical_chance"`
	CriticalMultiplier float64 `json:"critical_multiplier"`
	DodgeChance        float64 `json:"dodge_chance"`

	// 技能装配：技能ID有序列表 + 每个技能的剩余回合冷却
	// SkillCooldowns 在创建时为所有装配技能立即填充，不允许延迟补齐
	SkillIDs       []int       `json:"skill_ids,omitempty"`
	SkillCooldowns map[int]int `json:"skill_cooldowns,omitempty"`
}

// AttackInterval 单次攻击间隔(秒)
func (c *Combatant) AttackInterval() float64 {
	if c.AttacksPerSecond <= 0 {
		return 1.0
	}
	return 1.0 / c.AttacksPerSecond
}

// HealthFraction 当前血量比例
func (c *Combatant) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth)
}

// ApplyDamage 扣除血量，下限为0；血量归零时标记死亡
func (c *Combatant) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.Health -= amount
	if c.Health <= 0 {
		c.Health = 0
		c.IsAlive = false
	}
}

// ApplyHeal 恢复血量，上限为最大血量
func (c *Combatant) ApplyHeal(amount int) {
	if amount <= 0 || !c.IsAlive {
		return
	}
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}

// PlayerCombatant 玩家侧参战者
//
// 与角色名册中的持久记录共享引用，战斗结束时由名册回写。
type PlayerCombatant struct {
	Combatant
	CharacterID int64 `json:"character_id"`

	// 死亡与复活
	IsDead               bool    `json:"is_dead"`
	RevivalTimeRemaining float64 `json:"revival_time_remaining,omitempty"`

	// 本场战斗内累计
	Kills      int   `json:"kills"`
	GoldGained int64 `json:"gold_gained"`
	ExpGained  int64 `json:"exp_gained"`
}

// EnemyCombatant 敌人侧参战者
//
// 由怪物模板克隆而来，每场战斗持有独立副本。
type EnemyCombatant struct {
	Combatant
	TemplateName string `json:"template_name"`
	GoldMin      int    `json:"gold_min"`
	GoldMax      int    `json:"gold_max"`
	ExpReward    int    `json:"exp_reward"`
}
