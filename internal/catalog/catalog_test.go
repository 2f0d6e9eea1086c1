// catalog_test.go

package catalog

import (
	"testing"
)

func TestSpawnEnemyClonesTemplate(t *testing.T) {
	cat := NewDefault()

	e1, err := cat.SpawnEnemy("哥布林", 0, 1.0)
	if err != nil {
		t.Fatalf("生成敌人失败: %v", err)
	}
	e2, err := cat.SpawnEnemy("哥布林", 0, 1.0)
	if err != nil {
		t.Fatalf("生成敌人失败: %v", err)
	}

	if e1.ID == e2.ID {
		t.Fatal("每次生成应持有独立ID")
	}
	if e1.Health != 50 || e1.MaxHealth != 50 || e1.AttackPower != 5 {
		t.Fatalf("哥布林基础数值错误: %d/%d 攻击 %d", e1.Health, e1.MaxHealth, e1.AttackPower)
	}

	// 克隆副本互不影响
	e1.Health = 1
	if e2.Health != 50 {
		t.Fatal("修改一个副本不应影响另一个")
	}
}

func TestSpawnEnemyUnknownTemplate(t *testing.T) {
	cat := NewDefault()
	if _, err := cat.SpawnEnemy("不存在的怪", 0, 1.0); err == nil {
		t.Fatal("未知模板应返回错误")
	}
}

func TestSpawnEnemyWaveModifiers(t *testing.T) {
	cat := NewDefault()

	// 野狼: 80血/8攻/3级；等级+1 → 1.1倍缩放，血量再乘1.5
	e, err := cat.SpawnEnemy("野狼", 1, 1.5)
	if err != nil {
		t.Fatalf("生成敌人失败: %v", err)
	}
	if e.Level != 4 {
		t.Fatalf("等级修正应为4，实际 %d", e.Level)
	}
	if e.MaxHealth != 132 {
		t.Fatalf("血量应为80×1.1×1.5=132，实际 %d", e.MaxHealth)
	}
	if e.AttackPower != 8 {
		t.Fatalf("攻击应为8×1.1取整=8，实际 %d", e.AttackPower)
	}
}

func TestInitialCooldownsEagerlyFilled(t *testing.T) {
	cat := NewDefault()

	cooldowns := cat.InitialCooldowns([]int{1, 3, 999})
	if len(cooldowns) != 3 {
		t.Fatalf("冷却表应为全部装配技能填满，实际 %d 项", len(cooldowns))
	}
	if cooldowns[1] != 30 || cooldowns[3] != 40 {
		t.Fatalf("初始冷却应取技能定义值: %v", cooldowns)
	}
	// 未知技能也要有条目，值为0
	if cd, ok := cooldowns[999]; !ok || cd != 0 {
		t.Fatalf("未知技能应有0值条目: %v", cooldowns)
	}
}

func TestMonsterForLevelClosestMatch(t *testing.T) {
	cat := NewDefault()

	m, ok := cat.MonsterForLevel(1)
	if !ok || m.Name != "哥布林" {
		t.Fatalf("1级应匹配哥布林，实际 %v", m.Name)
	}

	m, ok = cat.MonsterForLevel(7)
	if !ok || m.Name != "巨魔" {
		t.Fatalf("7级应匹配8级的巨魔，实际 %v", m.Name)
	}

	// 多次调用结果稳定
	for i := 0; i < 10; i++ {
		again, _ := cat.MonsterForLevel(7)
		if again.Name != m.Name {
			t.Fatal("等级匹配应确定性稳定")
		}
	}
}

func TestDungeonLookup(t *testing.T) {
	cat := NewDefault()

	d, ok := cat.Dungeon(1)
	if !ok {
		t.Fatal("默认副本1应存在")
	}
	if d.WaveCount() != 3 {
		t.Fatalf("哥布林巢穴应有3波，实际 %d", d.WaveCount())
	}

	if _, ok := cat.Dungeon(999); ok {
		t.Fatal("不存在的副本不应查到")
	}
}
