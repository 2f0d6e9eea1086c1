// resolver.go

package battle

import (
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// Resolver 战斗结算器
//
// 逐tick推进攻击冷却、选取目标、计算伤害并处理死亡。
// 先于攻击结算每tick一次的复活倒计时。
type Resolver struct {
	engine          *SkillEngine
	dice            Dice
	mitigationK     float64
	revivalDuration float64
}

// NewResolver 创建战斗结算器
func NewResolver(engine *SkillEngine, mitigationK int, revivalDuration float64, dice Dice) *Resolver {
	if mitigationK <= 0 {
		mitigationK = 50
	}
	return &Resolver{
		engine:          engine,
		dice:            dice,
		mitigationK:     float64(mitigationK),
		revivalDuration: revivalDuration,
	}
}

// ProcessRevivals 结算复活倒计时
//
// 每tick一次，在双方攻击之前执行。只有允许自动复活的战斗
// 才会启动倒计时；倒计时归零后满血复活并重置技能冷却。
func (r *Resolver) ProcessRevivals(b *Context, dt float64) {
	if !b.AllowAutoRevive {
		return
	}
	for _, p := range b.Players {
		if p.IsAlive || !p.IsDead {
			continue
		}
		p.RevivalTimeRemaining -= dt
		if p.RevivalTimeRemaining > 0 {
			continue
		}

		p.Health = p.MaxHealth
		p.IsAlive = true
		p.IsDead = false
		p.RevivalTimeRemaining = 0
		p.SkillCooldowns = r.engine.catalog.InitialCooldowns(p.SkillIDs)
		b.recordAction(models.BattleAction{
			Kind:      models.ActionRevive,
			ActorID:   p.ID,
			ActorName: p.Name,
		})
	}
}

// ProcessPlayerAttack 结算一名存活玩家本tick的行动
func (r *Resolver) ProcessPlayerAttack(b *Context, p *models.PlayerCombatant, dt float64) {
	if !p.IsAlive {
		return
	}

	// 技能结算，可能击杀当前目标
	skillTarget := b.SelectTargetForPlayer(p, r.dice)
	if skillTarget != nil {
		r.engine.Apply(b, &p.Combatant, &skillTarget.Combatant)
		if skillTarget.Health <= 0 {
			r.handleEnemyDeath(b, p, skillTarget)
		}
	} else {
		r.engine.Apply(b, &p.Combatant, nil)
	}

	// 普通攻击冷却
	p.AttackCooldown -= dt
	if p.AttackCooldown > 0 {
		return
	}

	// 目标可能已被技能击杀，重新选取；无目标则跳过且不补冷却，
	// 下tick以冷却仍≤0的状态重试
	target := b.SelectTargetForPlayer(p, r.dice)
	if target == nil {
		return
	}

	damage, critical, _ := r.computeDamage(&p.Combatant, &target.Combatant)
	target.ApplyDamage(damage)
	b.recordAction(models.BattleAction{
		Kind:       models.ActionAttack,
		ActorID:    p.ID,
		ActorName:  p.Name,
		TargetID:   target.ID,
		TargetName: target.Name,
		Amount:     damage,
		Critical:   critical,
	})

	if target.Health == 0 {
		r.handleEnemyDeath(b, p, target)
	}

	p.AttackCooldown += p.AttackInterval()
}

// ProcessEnemyAttack 结算一名存活敌人本tick的行动
func (r *Resolver) ProcessEnemyAttack(b *Context, e *models.EnemyCombatant, dt float64) {
	if !e.IsAlive {
		return
	}

	skillTarget := b.SelectTargetForEnemy(e, r.dice)
	if skillTarget != nil {
		r.engine.Apply(b, &e.Combatant, &skillTarget.Combatant)
		if skillTarget.Health <= 0 {
			r.handlePlayerDeath(b, skillTarget)
		}
	} else {
		r.engine.Apply(b, &e.Combatant, nil)
	}

	e.AttackCooldown -= dt
	if e.AttackCooldown > 0 {
		return
	}

	target := b.SelectTargetForEnemy(e, r.dice)
	if target == nil {
		return
	}

	damage, critical, _ := r.computeDamage(&e.Combatant, &target.Combatant)
	target.ApplyDamage(damage)
	b.recordAction(models.BattleAction{
		Kind:       models.ActionAttack,
		ActorID:    e.ID,
		ActorName:  e.Name,
		TargetID:   target.ID,
		TargetName: target.Name,
		Amount:     damage,
		Critical:   critical,
	})

	if target.Health == 0 {
		r.handlePlayerDeath(b, target)
	}

	e.AttackCooldown += e.AttackInterval()
}

// computeDamage 计算一次攻击的最终伤害
//
// 顺序：基础攻击力 → ±20%浮动 → 暴击 → 防御减伤 → 闪避。
// 防御减伤为 defense/(defense+K)，渐近但永远达不到100%。
// 命中(未闪避)时最低伤害为1。
func (r *Resolver) computeDamage(attacker *models.Combatant, target *models.Combatant) (int, bool, bool) {
	damage := float64(attacker.AttackPower)
	damage *= 0.8 + r.dice.Float64()*0.4

	critical := r.dice.Float64() < attacker.CriticalChance
	if critical {
		damage *= attacker.CriticalMultiplier
	}

	if target.Defense > 0 {
		mitigation := float64(target.Defense) / (float64(target.Defense) + r.mitigationK)
		damage *= 1.0 - mitigation
	}

	if r.dice.Float64() < target.DodgeChance {
		return 0, critical, true
	}

	final := int(damage)
	if final < 1 {
		final = 1
	}
	return final, critical, false
}

// handleEnemyDeath 敌人死亡处理
//
// 移出敌人列表、清除指向它的目标锁定、登记击杀事件。
// 尸体保留在 Defeated 中供结算引用。
func (r *Resolver) handleEnemyDeath(b *Context, killer *models.PlayerCombatant, e *models.EnemyCombatant) {
	if e.Health > 0 {
		return
	}
	e.Health = 0
	e.IsAlive = false

	b.recordAction(models.BattleAction{
		Kind:      models.ActionDeath,
		ActorID:   e.ID,
		ActorName: e.Name,
	})

	if killer != nil {
		killer.Kills++
	}
	b.queueKill(e.TemplateName)
	b.removeEnemy(e.ID)
}

// handlePlayerDeath 玩家死亡处理
//
// 标记死亡并清零血量；允许自动复活的战斗启动复活倒计时，
// 否则玩家保持死亡直至战斗因全灭而结束。
func (r *Resolver) handlePlayerDeath(b *Context, p *models.PlayerCombatant) {
	if p.Health > 0 || p.IsDead {
		return
	}
	p.Health = 0
	p.IsAlive = false
	p.IsDead = true

	b.recordAction(models.BattleAction{
		Kind:      models.ActionDeath,
		ActorID:   p.ID,
		ActorName: p.Name,
	})

	if b.AllowAutoRevive {
		p.RevivalTimeRemaining = r.revivalDuration
	}
}
