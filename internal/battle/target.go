// target.go

package battle

import (
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// 目标选取：无状态的纯选择逻辑，粘性锁定记录在战斗上下文中。

// SelectTargetForPlayer 为玩家选取攻击目标
//
// 粘性锁定：已记录的目标仍存活则直接沿用，不重新评估策略；
// 目标已死亡则清除记录并按策略重选。无存活敌人返回nil。
func (b *Context) SelectTargetForPlayer(p *models.PlayerCombatant, dice Dice) *models.EnemyCombatant {
	if targetID, ok := b.PlayerTargets[p.ID]; ok {
		if target := b.findLivingEnemy(targetID); target != nil {
			return target
		}
		delete(b.PlayerTargets, p.ID)
	}

	target := selectEnemy(b.LivingEnemies(), b.PlayerStrategy, dice)
	if target != nil {
		b.PlayerTargets[p.ID] = target.ID
	}
	return target
}

// SelectTargetForEnemy 为敌人选取攻击目标
//
// 敌人侧不做粘性锁定，每次按策略评估。无存活玩家返回nil。
func (b *Context) SelectTargetForEnemy(e *models.EnemyCombatant, dice Dice) *models.PlayerCombatant {
	return selectPlayer(b.LivingPlayers(), b.EnemyStrategy, dice)
}

// findLivingEnemy 按ID查找存活敌人
func (b *Context) findLivingEnemy(enemyID string) *models.EnemyCombatant {
	for _, e := range b.Enemies {
		if e.ID == enemyID && e.IsAlive {
			return e
		}
	}
	return nil
}

// selectEnemy 按策略从存活敌人中选取
func selectEnemy(living []*models.EnemyCombatant, strategy models.TargetStrategy, dice Dice) *models.EnemyCombatant {
	if len(living) == 0 {
		return nil
	}

	switch strategy {
	case models.TargetHighestHealth:
		best := living[0]
		for _, e := range living[1:] {
			if e.HealthFraction() > best.HealthFraction() {
				best = e
			}
		}
		return best
	case models.TargetRandom:
		return living[dice.Intn(len(living))]
	default:
		// 血量比例最低优先，平局取先枚举到的
		best := living[0]
		for _, e := range living[1:] {
			if e.HealthFraction() < best.HealthFraction() {
				best = e
			}
		}
		return best
	}
}

// selectPlayer 按策略从存活玩家中选取
func selectPlayer(living []*models.PlayerCombatant, strategy models.TargetStrategy, dice Dice) *models.PlayerCombatant {
	if len(living) == 0 {
		return nil
	}

	switch strategy {
	case models.TargetRandom:
		return living[dice.Intn(len(living))]
	default:
		// 威胁最高优先：以总攻击力近似
		best := living[0]
		for _, p := range living[1:] {
			if p.AttackPower > best.AttackPower {
				best = p
			}
		}
		return best
	}
}
