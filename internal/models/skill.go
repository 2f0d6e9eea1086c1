// skill.go

package models

// SkillType 技能类型
type SkillType string

const (
	// DamageSkill 直接伤害技能
	DamageSkill SkillType = "damage"
	// HealSkill 治疗技能
	HealSkill SkillType = "heal"
	// BuffSkill 增益技能
	BuffSkill SkillType = "buff"
)

// Skill 技能模型
//
// 冷却以回合计：每个模拟步长递减一次，与攻击冷却的
// 连续时间模型不同。
type Skill struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        SkillType `json:"type"`

	// 效果数值：小于1.0按目标最大血量的比例解释，否则按绝对值
	EffectValue    float64 `json:"effect_value"`
	CooldownRounds int     `json:"cooldown_rounds"`
}

// IsFractional 效果数值是否按比例解释
func (s *Skill) IsFractional() bool {
	return s.EffectValue < 1.0
}
