// skills.go

package battle

import (
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// SkillEngine 技能引擎
//
// 每tick对每个存活参战者调用一次：冷却归零的技能立刻生效
// 并重置冷却，否则冷却减一。冷却以回合计，与攻击冷却的
// 连续时间模型无关。
type SkillEngine struct {
	catalog *catalog.Catalog
}

// NewSkillEngine 创建技能引擎
func NewSkillEngine(cat *catalog.Catalog) *SkillEngine {
	return &SkillEngine{catalog: cat}
}

// Apply 结算一个参战者本tick的全部技能
//
// opponent 为当前选定的对手，可为nil(无可攻击目标)。
// 伤害扣到0为止但不做死亡判定——死亡的裁决属于战斗结算器，
// 在同一tick的后续步骤中完成。
func (se *SkillEngine) Apply(b *Context, actor *models.Combatant, opponent *models.Combatant) {
	for _, skillID := range actor.SkillIDs {
		cd, ok := actor.SkillCooldowns[skillID]
		if !ok {
			// 冷却表在创建时已填满，缺项视为装配错误，跳过
			continue
		}
		if cd > 0 {
			actor.SkillCooldowns[skillID] = cd - 1
			continue
		}

		skill, found := se.catalog.Skill(skillID)
		if !found {
			continue
		}

		if se.fire(b, actor, opponent, &skill) {
			actor.SkillCooldowns[skillID] = skill.CooldownRounds
		}
	}
}

// fire 施放一个冷却就绪的技能，返回是否实际生效
func (se *SkillEngine) fire(b *Context, actor *models.Combatant, opponent *models.Combatant, skill *models.Skill) bool {
	switch skill.Type {
	case models.DamageSkill:
		if opponent == nil || opponent.Health <= 0 {
			// 无目标则跳过，冷却保持就绪，下tick重试
			return false
		}
		amount := effectAmount(skill, opponent.MaxHealth)
		opponent.Health -= amount
		if opponent.Health < 0 {
			opponent.Health = 0
		}
		b.recordAction(models.BattleAction{
			Kind:       models.ActionSkill,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			TargetID:   opponent.ID,
			TargetName: opponent.Name,
			Amount:     amount,
			SkillID:    skill.ID,
		})
		return true

	case models.HealSkill:
		if actor.Health >= actor.MaxHealth {
			return false
		}
		amount := effectAmount(skill, actor.MaxHealth)
		actor.Health += amount
		if actor.Health > actor.MaxHealth {
			actor.Health = actor.MaxHealth
		}
		b.recordAction(models.BattleAction{
			Kind:      models.ActionSkill,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Amount:    amount,
			SkillID:   skill.ID,
		})
		return true

	case models.BuffSkill:
		amount := effectAmount(skill, actor.AttackPower)
		actor.AttackPower += amount
		b.recordAction(models.BattleAction{
			Kind:      models.ActionSkill,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Amount:    amount,
			SkillID:   skill.ID,
		})
		return true
	}

	return false
}

// effectAmount 解释效果数值：小于1.0按基准值的比例，否则按绝对值
func effectAmount(skill *models.Skill, base int) int {
	var amount int
	if skill.IsFractional() {
		amount = int(skill.EffectValue * float64(base))
	} else {
		amount = int(skill.EffectValue)
	}
	if amount < 1 {
		amount = 1
	}
	return amount
}
