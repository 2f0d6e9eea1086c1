// roster_test.go

package roster

import (
	"testing"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

func newTestCharacter(id int64, name string) *models.Character {
	return &models.Character{
		ID:               id,
		Name:             name,
		Level:            1,
		MaxHealth:        100,
		Health:           100,
		AttackPower:      10,
		AttacksPerSecond: 1.0,
		SkillIDs:         []int{1},
	}
}

func TestCombatantCachedPerCharacter(t *testing.T) {
	r := New(catalog.NewDefault())
	r.Add(newTestCharacter(1, "剑士阿尔"))

	p1, err := r.Combatant(1)
	if err != nil {
		t.Fatalf("取得化身失败: %v", err)
	}
	p2, err := r.Combatant(1)
	if err != nil {
		t.Fatalf("取得化身失败: %v", err)
	}
	if p1 != p2 {
		t.Fatal("化身应与角色一一对应并跨战斗复用")
	}

	// 冷却表在创建时即为装配技能填满
	if cd, ok := p1.SkillCooldowns[1]; !ok || cd != 30 {
		t.Fatalf("化身冷却表应立即填满: %v", p1.SkillCooldowns)
	}
}

func TestCombatantUnknownCharacter(t *testing.T) {
	r := New(catalog.NewDefault())
	if _, err := r.Combatant(404); err == nil {
		t.Fatal("未登记的角色应返回错误")
	}
}

func TestCommitBattleResultWritesBack(t *testing.T) {
	r := New(catalog.NewDefault())
	c := newTestCharacter(1, "剑士阿尔")
	r.Add(c)

	p, _ := r.Combatant(1)
	p.Health = 40
	p.Kills = 3
	p.IsDead = false

	result := &models.RewardResult{
		Victory:         true,
		GoldByCharacter: map[int64]int64{1: 25},
		ExpByCharacter:  map[int64]int64{1: 50},
	}
	r.CommitBattleResult([]*models.PlayerCombatant{p}, result, false)

	if c.Health != 40 {
		t.Fatalf("血量应回写，实际 %d", c.Health)
	}
	if c.Gold != 25 || c.Exp != 50 {
		t.Fatalf("收益应累加: 金币 %d 经验 %d", c.Gold, c.Exp)
	}
	if c.TotalBattles != 1 || c.TotalKills != 3 || c.TotalDeaths != 0 {
		t.Fatalf("统计回写错误: battles=%d kills=%d deaths=%d", c.TotalBattles, c.TotalKills, c.TotalDeaths)
	}

	// 战斗范围的累计已清零
	if p.Kills != 0 || p.GoldGained != 0 || p.ExpGained != 0 {
		t.Fatalf("化身累计应清零: %d/%d/%d", p.Kills, p.GoldGained, p.ExpGained)
	}
}

func TestCommitBattleResultLevelUp(t *testing.T) {
	r := New(catalog.NewDefault())
	c := newTestCharacter(1, "剑士阿尔")
	r.Add(c)

	p, _ := r.Combatant(1)

	// 升到2级需100经验：升级成长+10血/+2攻并同步化身
	result := &models.RewardResult{
		Victory:        true,
		ExpByCharacter: map[int64]int64{1: 120},
	}
	r.CommitBattleResult([]*models.PlayerCombatant{p}, result, false)

	if c.Level != 2 {
		t.Fatalf("120经验应升到2级，实际 %d", c.Level)
	}
	if c.MaxHealth != 110 || c.AttackPower != 12 {
		t.Fatalf("升级成长错误: 血 %d 攻 %d", c.MaxHealth, c.AttackPower)
	}
	if p.MaxHealth != 110 || p.AttackPower != 12 || p.Level != 2 {
		t.Fatalf("成长应同步到化身: 血 %d 攻 %d 级 %d", p.MaxHealth, p.AttackPower, p.Level)
	}
}

func TestCommitBattleResultAdministrative(t *testing.T) {
	r := New(catalog.NewDefault())
	c := newTestCharacter(1, "剑士阿尔")
	r.Add(c)

	p, _ := r.Combatant(1)
	p.Health = 60

	// result为nil表示管理性拆除：只回写状态不发奖励
	r.CommitBattleResult([]*models.PlayerCombatant{p}, nil, false)

	if c.Health != 60 {
		t.Fatalf("血量应回写，实际 %d", c.Health)
	}
	if c.Gold != 0 || c.Exp != 0 {
		t.Fatalf("管理性拆除不应发奖励: 金币 %d 经验 %d", c.Gold, c.Exp)
	}
	if c.TotalBattles != 1 {
		t.Fatalf("战斗次数仍应累计，实际 %d", c.TotalBattles)
	}
}

func TestCommitBattleResultDungeonClear(t *testing.T) {
	r := New(catalog.NewDefault())
	c := newTestCharacter(1, "剑士阿尔")
	r.Add(c)

	p, _ := r.Combatant(1)
	p.IsDead = true
	p.IsAlive = false

	r.CommitBattleResult([]*models.PlayerCombatant{p}, &models.RewardResult{Victory: true}, true)

	if c.DungeonClears != 1 {
		t.Fatalf("通关次数应累计，实际 %d", c.DungeonClears)
	}
	if c.TotalDeaths != 1 {
		t.Fatalf("死亡次数应累计，实际 %d", c.TotalDeaths)
	}
}
