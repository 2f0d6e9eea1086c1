// helpers_test.go

package battle

import (
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// fixedDice 固定返回值的随机替身
//
// Float64 恒为0.5时：伤害浮动系数为1.0，常规暴击/闪避
// 概率都不触发，结算完全确定。
type fixedDice struct {
	value float64
}

func (d fixedDice) Float64() float64 { return d.value }
func (d fixedDice) Intn(n int) int   { return 0 }

// seqDice 按序列返回的随机替身，序列耗尽后循环
type seqDice struct {
	values []float64
	pos    int
}

func (d *seqDice) Float64() float64 {
	v := d.values[d.pos%len(d.values)]
	d.pos++
	return v
}

func (d *seqDice) Intn(n int) int { return 0 }

// newTestPlayer 构造可控属性的玩家参战者
func newTestPlayer(characterID int64, name string, health, attackPower int) *models.PlayerCombatant {
	return &models.PlayerCombatant{
		Combatant: models.Combatant{
			ID:                 name,
			Name:               name,
			Level:              1,
			Health:             health,
			MaxHealth:          health,
			IsAlive:            true,
			AttackPower:        attackPower,
			AttacksPerSecond:   1.0,
			CriticalMultiplier: 1.5,
			SkillCooldowns:     map[int]int{},
		},
		CharacterID: characterID,
	}
}

// newTestEnemy 构造可控属性的敌方参战者
func newTestEnemy(id, template string, health, attackPower int) *models.EnemyCombatant {
	return &models.EnemyCombatant{
		Combatant: models.Combatant{
			ID:                 id,
			Name:               template,
			Level:              1,
			Health:             health,
			MaxHealth:          health,
			IsAlive:            true,
			AttackPower:        attackPower,
			AttacksPerSecond:   1.0,
			CriticalMultiplier: 1.5,
			SkillCooldowns:     map[int]int{},
		},
		TemplateName: template,
	}
}

// newTestContext 构造最小战斗上下文
func newTestContext(players []*models.PlayerCombatant, enemies []*models.EnemyCombatant) *Context {
	b := newContext(models.BattleSolo, players, 100)
	b.Enemies = enemies
	return b
}

// newTestResolver 构造确定性结算器
func newTestResolver(cat *catalog.Catalog, dice Dice) *Resolver {
	return NewResolver(NewSkillEngine(cat), 50, 2.0, dice)
}
