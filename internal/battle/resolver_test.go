// resolver_test.go

package battle

import (
	"testing"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

func TestPlayerAttackDeterministicDamage(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	// 攻击力20、攻速1.0，对50血无防御敌人：每秒一击20点，
	// 第三击击杀
	p := newTestPlayer(1, "玩家A", 1000, 20)
	e := newTestEnemy("e1", "哥布林", 50, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 30 {
		t.Fatalf("第一击后敌人血量应为30，实际 %d", e.Health)
	}

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 10 {
		t.Fatalf("第二击后敌人血量应为10，实际 %d", e.Health)
	}

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 0 || e.IsAlive {
		t.Fatalf("第三击应击杀敌人，血量 %d 存活 %v", e.Health, e.IsAlive)
	}

	// 击杀处理：移出敌人列表、保留尸体、累计击杀
	if len(b.Enemies) != 0 || len(b.Defeated) != 1 {
		t.Fatalf("死亡敌人应移入Defeated，enemies=%d defeated=%d", len(b.Enemies), len(b.Defeated))
	}
	if p.Kills != 1 {
		t.Fatalf("击杀者计数应为1，实际 %d", p.Kills)
	}
	if len(b.pendingKills) != 1 || b.pendingKills[0].EnemyName != "哥布林" {
		t.Fatalf("应登记一条击杀事件，实际 %v", b.pendingKills)
	}
}

func TestAttackCooldownReplenishment(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	// 攻速0.5 → 间隔2秒：首tick出手，次tick冷却未到
	p := newTestPlayer(1, "玩家A", 1000, 10)
	p.AttacksPerSecond = 0.5
	e := newTestEnemy("e1", "哥布林", 1000, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 990 {
		t.Fatalf("首tick应出手一次，敌人血量 %d", e.Health)
	}
	if p.AttackCooldown != 1.0 {
		t.Fatalf("出手后冷却应补到1.0(=-1+2)，实际 %f", p.AttackCooldown)
	}

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 990 {
		t.Fatalf("冷却未到不应出手，敌人血量 %d", e.Health)
	}

	r.ProcessPlayerAttack(b, p, 1.0)
	if e.Health != 980 {
		t.Fatalf("冷却归零应再次出手，敌人血量 %d", e.Health)
	}
}

func TestNoTargetDoesNotReplenishCooldown(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	p := newTestPlayer(1, "玩家A", 1000, 10)
	b := newTestContext([]*models.PlayerCombatant{p}, nil)

	// 无目标：冷却继续下探，不补间隔，下tick保持可立即出手
	r.ProcessPlayerAttack(b, p, 1.0)
	if p.AttackCooldown != -1.0 {
		t.Fatalf("无目标时不应补冷却，实际 %f", p.AttackCooldown)
	}
}

func TestDefenseMitigation(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	attacker := newTestPlayer(1, "玩家A", 100, 100)
	target := newTestEnemy("e1", "哥布林", 1000, 5)
	target.Defense = 50 // K=50 → 减伤50%

	damage, critical, dodged := r.computeDamage(&attacker.Combatant, &target.Combatant)
	if critical || dodged {
		t.Fatalf("固定0.5不应触发暴击/闪避: crit=%v dodge=%v", critical, dodged)
	}
	if damage != 50 {
		t.Fatalf("防御50应减伤一半，实际 %d", damage)
	}
}

func TestDamageFloorIsOne(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	attacker := newTestPlayer(1, "玩家A", 100, 1)
	target := newTestEnemy("e1", "骷髅兵", 1000, 5)
	target.Defense = 500 // 减伤约91%，1点攻击归整为0

	damage, _, dodged := r.computeDamage(&attacker.Combatant, &target.Combatant)
	if dodged {
		t.Fatal("固定0.5不应闪避")
	}
	if damage != 1 {
		t.Fatalf("命中时最低伤害应为1，实际 %d", damage)
	}
}

func TestDodgeYieldsZeroDamage(t *testing.T) {
	cat := catalog.NewDefault()
	// 浮动0.5、暴击roll 0.9(不中)、闪避roll 0.0(必中闪避)
	r := newTestResolver(cat, &seqDice{values: []float64{0.5, 0.9, 0.0}})

	attacker := newTestPlayer(1, "玩家A", 100, 100)
	target := newTestEnemy("e1", "野狼", 1000, 5)
	target.DodgeChance = 0.1

	damage, _, dodged := r.computeDamage(&attacker.Combatant, &target.Combatant)
	if !dodged {
		t.Fatal("闪避roll为0应触发闪避")
	}
	if damage != 0 {
		t.Fatalf("闪避时伤害应为0，实际 %d", damage)
	}
}

func TestCriticalMultiplier(t *testing.T) {
	cat := catalog.NewDefault()
	// 浮动0.5、暴击roll 0.0(必中)、闪避roll 0.9(不中)
	r := newTestResolver(cat, &seqDice{values: []float64{0.5, 0.0, 0.9}})

	attacker := newTestPlayer(1, "玩家A", 100, 20)
	attacker.CriticalChance = 0.05
	attacker.CriticalMultiplier = 1.5
	target := newTestEnemy("e1", "哥布林", 1000, 5)

	damage, critical, _ := r.computeDamage(&attacker.Combatant, &target.Combatant)
	if !critical {
		t.Fatal("暴击roll为0应触发暴击")
	}
	if damage != 30 {
		t.Fatalf("暴击伤害应为20×1.5=30，实际 %d", damage)
	}
}

func TestRevivalCountdown(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5}) // 复活时长2.0秒

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{1}
	p.SkillCooldowns = map[int]int{1: 5}
	b := newTestContext([]*models.PlayerCombatant{p}, nil)
	b.AllowAutoRevive = true

	p.Health = 0
	p.IsAlive = false
	p.IsDead = true
	p.RevivalTimeRemaining = 2.0

	r.ProcessRevivals(b, 1.0)
	if p.IsAlive {
		t.Fatal("倒计时未归零不应复活")
	}

	r.ProcessRevivals(b, 1.0)
	if !p.IsAlive || p.IsDead {
		t.Fatalf("倒计时归零应复活: alive=%v dead=%v", p.IsAlive, p.IsDead)
	}
	if p.Health != p.MaxHealth {
		t.Fatalf("复活应满血，实际 %d/%d", p.Health, p.MaxHealth)
	}
	// 技能冷却重置为初始冷却表
	if p.SkillCooldowns[1] != 30 {
		t.Fatalf("复活应重置技能冷却为初始值30，实际 %d", p.SkillCooldowns[1])
	}
}

func TestRevivalDisabledBattle(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	p := newTestPlayer(1, "玩家A", 100, 10)
	b := newTestContext([]*models.PlayerCombatant{p}, nil)
	b.AllowAutoRevive = false

	p.Health = 0
	p.IsAlive = false
	p.IsDead = true
	p.RevivalTimeRemaining = 0.5

	for i := 0; i < 10; i++ {
		r.ProcessRevivals(b, 1.0)
	}
	if p.IsAlive {
		t.Fatal("不允许自动复活的战斗不应推进复活倒计时")
	}
}

func TestPlayerDeathStartsRevivalTimer(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	p := newTestPlayer(1, "玩家A", 5, 10)
	e := newTestEnemy("e1", "哥布林", 1000, 10)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})
	b.AllowAutoRevive = true

	// 敌人10点攻击击杀5血玩家
	r.ProcessEnemyAttack(b, e, 1.0)
	if p.IsAlive || !p.IsDead {
		t.Fatalf("玩家应被击杀: alive=%v dead=%v", p.IsAlive, p.IsDead)
	}
	if p.RevivalTimeRemaining != 2.0 {
		t.Fatalf("死亡应启动2.0秒复活倒计时，实际 %f", p.RevivalTimeRemaining)
	}
}

func TestSkillKillResolvedBeforeBasicAttack(t *testing.T) {
	cat := catalog.NewDefault()
	r := newTestResolver(cat, fixedDice{0.5})

	// 重击25点先击杀20血敌人；普攻在同tick重选目标打第二个
	p := newTestPlayer(1, "玩家A", 1000, 10)
	p.SkillIDs = []int{1}
	p.SkillCooldowns = map[int]int{1: 0}
	e1 := newTestEnemy("e1", "哥布林", 20, 5)
	e2 := newTestEnemy("e2", "哥布林", 100, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e1, e2})

	r.ProcessPlayerAttack(b, p, 1.0)
	if e1.IsAlive {
		t.Fatal("技能应击杀第一个敌人")
	}
	if e2.Health != 90 {
		t.Fatalf("普攻应重选目标命中第二个敌人，血量 %d", e2.Health)
	}
	if p.Kills != 1 {
		t.Fatalf("技能击杀应计入击杀数，实际 %d", p.Kills)
	}
}
