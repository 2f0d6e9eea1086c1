// combatant_test.go

package models

import (
	"testing"
)

func TestApplyDamageClampsAndKills(t *testing.T) {
	c := Combatant{Health: 10, MaxHealth: 10, IsAlive: true}

	c.ApplyDamage(4)
	if c.Health != 6 || !c.IsAlive {
		t.Fatalf("扣血后应为6且存活: %d %v", c.Health, c.IsAlive)
	}

	// 超杀收口到0并标记死亡
	c.ApplyDamage(100)
	if c.Health != 0 || c.IsAlive {
		t.Fatalf("超杀应收口到0并死亡: %d %v", c.Health, c.IsAlive)
	}

	// 非正伤害是无效输入
	c2 := Combatant{Health: 10, MaxHealth: 10, IsAlive: true}
	c2.ApplyDamage(0)
	c2.ApplyDamage(-5)
	if c2.Health != 10 {
		t.Fatalf("非正伤害不应生效: %d", c2.Health)
	}
}

func TestApplyHealClampsAtMax(t *testing.T) {
	c := Combatant{Health: 5, MaxHealth: 10, IsAlive: true}

	c.ApplyHeal(100)
	if c.Health != 10 {
		t.Fatalf("治疗应收口到最大血量: %d", c.Health)
	}

	// 死亡单位不可治疗
	dead := Combatant{Health: 0, MaxHealth: 10, IsAlive: false}
	dead.ApplyHeal(5)
	if dead.Health != 0 {
		t.Fatalf("死亡单位不应被治疗: %d", dead.Health)
	}
}

func TestAttackInterval(t *testing.T) {
	c := Combatant{AttacksPerSecond: 2.0}
	if c.AttackInterval() != 0.5 {
		t.Fatalf("攻速2.0间隔应为0.5，实际 %f", c.AttackInterval())
	}

	// 非法攻速回退到1秒间隔
	bad := Combatant{AttacksPerSecond: 0}
	if bad.AttackInterval() != 1.0 {
		t.Fatalf("攻速非法应回退1.0，实际 %f", bad.AttackInterval())
	}
}

func TestHealthFraction(t *testing.T) {
	c := Combatant{Health: 25, MaxHealth: 100}
	if c.HealthFraction() != 0.25 {
		t.Fatalf("血量比例应为0.25，实际 %f", c.HealthFraction())
	}

	zero := Combatant{Health: 10, MaxHealth: 0}
	if zero.HealthFraction() != 0 {
		t.Fatalf("最大血量非法应返回0，实际 %f", zero.HealthFraction())
	}
}
