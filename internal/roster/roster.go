// roster.go

package roster

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

// Roster 角色名册
//
// 持久角色记录的唯一属主。战斗核心通过 Combatant 取得与
// 角色一一对应的参战化身(共享引用)，战斗退出时由
// CommitBattleResult 回写。所有操作显式经过名册，
// 不存在整体换列表的隐藏别名。
type Roster struct {
	mu         sync.RWMutex
	characters map[int64]*models.Character
	combatants map[int64]*models.PlayerCombatant
	catalog    *catalog.Catalog
}

// New 创建空名册
func New(cat *catalog.Catalog) *Roster {
	return &Roster{
		characters: make(map[int64]*models.Character),
		combatants: make(map[int64]*models.PlayerCombatant),
		catalog:    cat,
	}
}

// Add 登记角色
func (r *Roster) Add(c *models.Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.characters[c.ID] = c
}

// Get 查询角色
func (r *Roster) Get(characterID int64) (*models.Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.characters[characterID]
	return c, ok
}

// Combatant 取得角色的参战化身
//
// 化身与角色一一对应并跨战斗复用：刷新孵化的后续战斗
// 持有同一引用，血量与冷却自然延续。
func (r *Roster) Combatant(characterID int64) (*models.PlayerCombatant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.combatants[characterID]; ok {
		return p, nil
	}

	c, ok := r.characters[characterID]
	if !ok {
		return nil, fmt.Errorf("角色不存在: %d", characterID)
	}

	health := c.Health
	if health <= 0 || health > c.MaxHealth {
		health = c.MaxHealth
	}

	p := &models.PlayerCombatant{
		Combatant: models.Combatant{
			ID:                 uuid.New().String(),
			Name:               c.Name,
			Level:              c.Level,
			Health:             health,
			MaxHealth:          c.MaxHealth,
			IsAlive:            health > 0,
			AttackPower:        c.AttackPower,
			Defense:            c.Defense,
			AttacksPerSecond:   c.AttacksPerSecond,
			CriticalChance:     c.CriticalChance,
			CriticalMultiplier: c.CriticalMultiplier,
			DodgeChance:        c.DodgeChance,
			SkillIDs:           append([]int(nil), c.SkillIDs...),
			SkillCooldowns:     r.catalog.InitialCooldowns(c.SkillIDs),
		},
		CharacterID: c.ID,
	}

	r.combatants[characterID] = p
	return p, nil
}

// CommitBattleResult 战斗退出时回写
//
// 把化身的血量/死亡标记写回角色记录，累加战斗统计与
// 奖励收益并结算升级。result 为 nil 表示管理性拆除，
// 只回写状态不发奖励。
func (r *Roster) CommitBattleResult(players []*models.PlayerCombatant, result *models.RewardResult, dungeonClear bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		c, ok := r.characters[p.CharacterID]
		if !ok {
			continue
		}

		c.Health = p.Health
		c.TotalBattles++
		c.TotalKills += p.Kills
		if p.IsDead {
			c.TotalDeaths++
		}
		if dungeonClear {
			c.DungeonClears++
		}

		if result != nil {
			c.Gold += result.GoldByCharacter[p.CharacterID]
			exp := result.ExpByCharacter[p.CharacterID]
			if levels := c.ApplyExp(exp); levels > 0 {
				r.applyLevelUp(c, p, levels)
			}
		}

		// 战斗范围的累计清零，供下一场重新统计
		p.Kills = 0
		p.GoldGained = 0
		p.ExpGained = 0

		c.UpdatedAt = time.Now()
		if err := saveCharacter(c); err != nil {
			log.Printf("角色 %d 持久化失败: %v", c.ID, err)
		}
	}
}

// applyLevelUp 升级成长并同步到参战化身
func (r *Roster) applyLevelUp(c *models.Character, p *models.PlayerCombatant, levels int) {
	c.MaxHealth += 10 * levels
	c.AttackPower += 2 * levels

	p.Level = c.Level
	p.MaxHealth = c.MaxHealth
	p.AttackPower = c.AttackPower

	log.Printf("角色 %s 升到 %d 级", c.Name, c.Level)
}

// LoadFromDB 从数据库加载全部角色
func (r *Roster) LoadFromDB() error {
	if db.DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	rows, err := db.DB.Query(`
		SELECT id, name, level, exp, gold, max_health, health, attack_power, defense,
		       attacks_per_second, critical_chance, critical_multiplier, dodge_chance,
		       total_kills, total_deaths, total_battles, dungeon_clears
		FROM characters`)
	if err != nil {
		return fmt.Errorf("查询角色表失败: %w", err)
	}
	defer rows.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for rows.Next() {
		var c models.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Level, &c.Exp, &c.Gold, &c.MaxHealth, &c.Health,
			&c.AttackPower, &c.Defense, &c.AttacksPerSecond, &c.CriticalChance,
			&c.CriticalMultiplier, &c.DodgeChance, &c.TotalKills, &c.TotalDeaths,
			&c.TotalBattles, &c.DungeonClears); err != nil {
			return fmt.Errorf("读取角色数据失败: %w", err)
		}
		if err := loadCharacterSkills(&c); err != nil {
			log.Printf("加载角色 %d 技能失败: %v", c.ID, err)
		}
		r.characters[c.ID] = &c
		count++
	}

	log.Printf("角色名册加载完成: %d名角色", count)
	return nil
}

// loadCharacterSkills 加载角色技能装配
func loadCharacterSkills(c *models.Character) error {
	rows, err := db.DB.Query(`
		SELECT skill_id FROM character_skills
		WHERE character_id = $1 ORDER BY slot_index`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var skillID int
		if err := rows.Scan(&skillID); err != nil {
			return err
		}
		c.SkillIDs = append(c.SkillIDs, skillID)
	}
	return nil
}

// saveCharacter 角色落库，数据库未接入时跳过
func saveCharacter(c *models.Character) error {
	if db.DB == nil {
		return nil
	}

	_, err := db.DB.Exec(`
		UPDATE characters SET
			level = $2, exp = $3, gold = $4, max_health = $5, health = $6,
			attack_power = $7, total_kills = $8, total_deaths = $9,
			total_battles = $10, dungeon_clears = $11, updated_at = $12
		WHERE id = $1`,
		c.ID, c.Level, c.Exp, c.Gold, c.MaxHealth, c.Health,
		c.AttackPower, c.TotalKills, c.TotalDeaths,
		c.TotalBattles, c.DungeonClears, c.UpdatedAt)
	return err
}
