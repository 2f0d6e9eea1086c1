// skills_test.go

package battle

import (
	"testing"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

func TestSkillCooldownDecrementAndFire(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{1} // 重击：25点伤害，冷却30回合
	p.SkillCooldowns = map[int]int{1: 2}
	e := newTestEnemy("e1", "哥布林", 100, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	// 冷却2 → 1 → 0，前两tick不生效
	engine.Apply(b, &p.Combatant, &e.Combatant)
	engine.Apply(b, &p.Combatant, &e.Combatant)
	if e.Health != 100 {
		t.Fatalf("冷却未归零不应生效，敌人血量 %d", e.Health)
	}
	if p.SkillCooldowns[1] != 0 {
		t.Fatalf("两tick后冷却应为0，实际 %d", p.SkillCooldowns[1])
	}

	// 冷却归零：立刻生效并重置
	engine.Apply(b, &p.Combatant, &e.Combatant)
	if e.Health != 75 {
		t.Fatalf("重击应造成25点伤害，敌人血量 %d", e.Health)
	}
	if p.SkillCooldowns[1] != 30 {
		t.Fatalf("生效后冷却应重置为30，实际 %d", p.SkillCooldowns[1])
	}
}

func TestSkillFractionalDamage(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{2} // 撕裂：目标最大生命的10%
	p.SkillCooldowns = map[int]int{2: 0}
	e := newTestEnemy("e1", "巨魔", 300, 20)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	engine.Apply(b, &p.Combatant, &e.Combatant)
	if e.Health != 270 {
		t.Fatalf("撕裂应按最大生命比例扣除30点，实际血量 %d", e.Health)
	}
}

func TestSkillDamageClampsWithoutDeathMark(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{1}
	p.SkillCooldowns = map[int]int{1: 0}
	e := newTestEnemy("e1", "哥布林", 10, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	engine.Apply(b, &p.Combatant, &e.Combatant)
	if e.Health != 0 {
		t.Fatalf("伤害应扣到0为止，实际 %d", e.Health)
	}
	// 死亡裁决属于结算器，技能引擎不动存活标记
	if !e.IsAlive {
		t.Fatal("技能引擎不应标记死亡")
	}
}

func TestDamageSkillStaysReadyWithoutTarget(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{1}
	p.SkillCooldowns = map[int]int{1: 0}
	b := newTestContext([]*models.PlayerCombatant{p}, nil)

	engine.Apply(b, &p.Combatant, nil)
	if p.SkillCooldowns[1] != 0 {
		t.Fatalf("无目标时冷却应保持就绪，实际 %d", p.SkillCooldowns[1])
	}
}

func TestHealSkillNoopAtFullHealth(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{3} // 治疗术：恢复20点
	p.SkillCooldowns = map[int]int{3: 0}
	b := newTestContext([]*models.PlayerCombatant{p}, nil)

	// 满血不施放，冷却保持就绪
	engine.Apply(b, &p.Combatant, nil)
	if p.SkillCooldowns[3] != 0 {
		t.Fatalf("满血时治疗不应消耗冷却，实际 %d", p.SkillCooldowns[3])
	}

	// 掉血后生效并重置冷却
	p.Health = 50
	engine.Apply(b, &p.Combatant, nil)
	if p.Health != 70 {
		t.Fatalf("治疗术应恢复20点，实际血量 %d", p.Health)
	}
	if p.SkillCooldowns[3] != 40 {
		t.Fatalf("生效后冷却应重置为40，实际 %d", p.SkillCooldowns[3])
	}
}

func TestBuffSkillRaisesAttackPower(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{5} // 狂暴：攻击力+5
	p.SkillCooldowns = map[int]int{5: 0}
	b := newTestContext([]*models.PlayerCombatant{p}, nil)

	engine.Apply(b, &p.Combatant, nil)
	if p.AttackPower != 15 {
		t.Fatalf("狂暴应提升5点攻击力，实际 %d", p.AttackPower)
	}
	if p.SkillCooldowns[5] != 100 {
		t.Fatalf("生效后冷却应重置为100，实际 %d", p.SkillCooldowns[5])
	}
}

func TestSkillMissingCooldownEntrySkipped(t *testing.T) {
	cat := catalog.NewDefault()
	engine := NewSkillEngine(cat)

	p := newTestPlayer(1, "玩家A", 100, 10)
	p.SkillIDs = []int{1}
	p.SkillCooldowns = map[int]int{} // 装配错误：冷却表缺项
	e := newTestEnemy("e1", "哥布林", 100, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e})

	engine.Apply(b, &p.Combatant, &e.Combatant)
	if e.Health != 100 {
		t.Fatalf("冷却表缺项的技能应被跳过，敌人血量 %d", e.Health)
	}
	if _, ok := p.SkillCooldowns[1]; ok {
		t.Fatal("跳过的技能不应补建冷却条目")
	}
}
