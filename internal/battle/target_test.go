// target_test.go

package battle

import (
	"testing"

	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

func TestSelectTargetForPlayerSticky(t *testing.T) {
	p := newTestPlayer(1, "玩家A", 100, 10)
	e1 := newTestEnemy("e1", "哥布林", 100, 5)
	e2 := newTestEnemy("e2", "哥布林", 100, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e1, e2})
	dice := fixedDice{0.5}

	// 首次选取：血量比例相同，取先枚举到的
	first := b.SelectTargetForPlayer(p, dice)
	if first == nil || first.ID != "e1" {
		t.Fatalf("首次选取应为 e1，实际 %v", first)
	}

	// 另一个敌人血量更低，但粘性锁定不重新评估
	e2.Health = 10
	again := b.SelectTargetForPlayer(p, dice)
	if again.ID != "e1" {
		t.Fatalf("粘性锁定应沿用 e1，实际 %s", again.ID)
	}
}

func TestSelectTargetForPlayerReassignOnDeath(t *testing.T) {
	p := newTestPlayer(1, "玩家A", 100, 10)
	e1 := newTestEnemy("e1", "哥布林", 100, 5)
	e2 := newTestEnemy("e2", "野狼", 100, 5)
	b := newTestContext([]*models.PlayerCombatant{p}, []*models.EnemyCombatant{e1, e2})
	dice := fixedDice{0.5}

	if got := b.SelectTargetForPlayer(p, dice); got.ID != "e1" {
		t.Fatalf("首次选取应为 e1，实际 %s", got.ID)
	}

	// 目标死亡后清除记录并重选
	e1.Health = 0
	e1.IsAlive = false
	b.removeEnemy(e1.ID)

	if _, ok := b.PlayerTargets[p.ID]; ok {
		t.Fatal("removeEnemy 应清除指向死亡敌人的锁定")
	}

	got := b.SelectTargetForPlayer(p, dice)
	if got == nil || got.ID != "e2" {
		t.Fatalf("目标死亡后应重选 e2，实际 %v", got)
	}
	if b.PlayerTargets[p.ID] != "e2" {
		t.Fatalf("重选后应记录新锁定 e2，实际 %s", b.PlayerTargets[p.ID])
	}
}

func TestSelectTargetForPlayerNoEnemies(t *testing.T) {
	p := newTestPlayer(1, "玩家A", 100, 10)
	b := newTestContext([]*models.PlayerCombatant{p}, nil)

	if got := b.SelectTargetForPlayer(p, fixedDice{0.5}); got != nil {
		t.Fatalf("无存活敌人应返回nil，实际 %v", got)
	}
	if _, ok := b.PlayerTargets[p.ID]; ok {
		t.Fatal("无目标时不应留下锁定记录")
	}
}

func TestSelectEnemyStrategies(t *testing.T) {
	low := newTestEnemy("low", "哥布林", 100, 5)
	low.Health = 20
	high := newTestEnemy("high", "哥布林", 100, 5)

	living := []*models.EnemyCombatant{high, low}

	if got := selectEnemy(living, models.TargetLowestHealth, fixedDice{0.5}); got.ID != "low" {
		t.Fatalf("最低血量策略应选 low，实际 %s", got.ID)
	}
	if got := selectEnemy(living, models.TargetHighestHealth, fixedDice{0.5}); got.ID != "high" {
		t.Fatalf("最高血量策略应选 high，实际 %s", got.ID)
	}
	if got := selectEnemy(living, models.TargetRandom, fixedDice{0.5}); got.ID != "high" {
		t.Fatalf("随机策略(Intn=0)应选第一个，实际 %s", got.ID)
	}
}

func TestSelectPlayerHighestThreat(t *testing.T) {
	weak := newTestPlayer(1, "弱", 100, 5)
	strong := newTestPlayer(2, "强", 100, 30)
	e := newTestEnemy("e1", "哥布林", 50, 5)
	b := newTestContext([]*models.PlayerCombatant{weak, strong}, []*models.EnemyCombatant{e})

	got := b.SelectTargetForEnemy(e, fixedDice{0.5})
	if got == nil || got.CharacterID != 2 {
		t.Fatalf("威胁最高策略应选攻击力最高的玩家，实际 %v", got)
	}

	// 敌人侧无粘性：高威胁玩家死亡后立即切换
	strong.Health = 0
	strong.IsAlive = false
	got = b.SelectTargetForEnemy(e, fixedDice{0.5})
	if got == nil || got.CharacterID != 1 {
		t.Fatalf("高威胁玩家死亡后应切换目标，实际 %v", got)
	}
}
