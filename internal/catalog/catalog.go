// catalog.go

package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// Catalog 静态内容目录(技能/怪物/物品/副本)
//
// 只读查询表：加载完成后不再变更，战斗核心通过克隆
// 获取独立的可变副本，绝不共享模板引用。
type Catalog struct {
	skills   map[int]models.Skill
	monsters map[string]models.MonsterTemplate
	items    map[int]models.Item
	dungeons map[int]models.DungeonTemplate
}

// New 创建空目录
func New() *Catalog {
	return &Catalog{
		skills:   make(map[int]models.Skill),
		monsters: make(map[string]models.MonsterTemplate),
		items:    make(map[int]models.Item),
		dungeons: make(map[int]models.DungeonTemplate),
	}
}

// NewDefault 创建带内置内容的目录
//
// 数据库不可用或表为空时的兜底内容，也是测试用内容。
func NewDefault() *Catalog {
	c := New()

	for _, s := range defaultSkills() {
		c.skills[s.ID] = s
	}
	for _, m := range defaultMonsters() {
		c.monsters[m.Name] = m
	}
	for _, it := range defaultItems() {
		c.items[it.ID] = it
	}
	for _, d := range defaultDungeons() {
		c.dungeons[d.ID] = d
	}

	return c
}

// Skill 按ID查询技能
func (c *Catalog) Skill(id int) (models.Skill, bool) {
	s, ok := c.skills[id]
	return s, ok
}

// Monster 按名称查询怪物模板
func (c *Catalog) Monster(name string) (models.MonsterTemplate, bool) {
	m, ok := c.monsters[name]
	return m, ok
}

// Item 按ID查询物品
func (c *Catalog) Item(id int) (models.Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Dungeon 按ID查询副本模板
func (c *Catalog) Dungeon(id int) (models.DungeonTemplate, bool) {
	d, ok := c.dungeons[id]
	return d, ok
}

// MonsterForLevel 返回与指定等级最接近的怪物模板
//
// 刷新战斗丢失敌人构成时的兜底匹配。
func (c *Catalog) MonsterForLevel(level int) (models.MonsterTemplate, bool) {
	names := make([]string, 0, len(c.monsters))
	for name := range c.monsters {
		names = append(names, name)
	}
	if len(names) == 0 {
		return models.MonsterTemplate{}, false
	}
	sort.Strings(names)

	best := c.monsters[names[0]]
	bestDiff := diff(best.Level, level)
	for _, name := range names[1:] {
		m := c.monsters[name]
		if d := diff(m.Level, level); d < bestDiff {
			best = m
			bestDiff = d
		}
	}
	return best, true
}

func diff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// SpawnEnemy 从怪物模板克隆一个独立的敌方参战者
//
// levelAdjust 和 healthMult 来自副本波次条目，普通战斗传 0/1。
func (c *Catalog) SpawnEnemy(name string, levelAdjust int, healthMult float64) (*models.EnemyCombatant, error) {
	tpl, ok := c.monsters[name]
	if !ok {
		return nil, fmt.Errorf("未知的怪物模板: %s", name)
	}

	if healthMult <= 0 {
		healthMult = 1.0
	}

	level := tpl.Level + levelAdjust
	if level < 1 {
		level = 1
	}

	// 等级修正按比例放大基础数值
	scale := 1.0 + 0.1*float64(level-tpl.Level)
	if scale < 0.1 {
		scale = 0.1
	}

	maxHealth := int(float64(tpl.MaxHealth) * scale * healthMult)
	if maxHealth < 1 {
		maxHealth = 1
	}
	attack := int(float64(tpl.AttackPower) * scale)
	if attack < 1 {
		attack = 1
	}

	enemy := &models.EnemyCombatant{
		Combatant: models.Combatant{
			ID:                 uuid.New().String(),
			Name:               tpl.Name,
			Level:              level,
			Health:             maxHealth,
			MaxHealth:          maxHealth,
			IsAlive:            true,
			AttackPower:        attack,
			Defense:            tpl.Defense,
			AttacksPerSecond:   tpl.AttacksPerSecond,
			CriticalChance:     tpl.CriticalChance,
			CriticalMultiplier: tpl.CriticalMultiplier,
			DodgeChance:        tpl.DodgeChance,
			SkillIDs:           append([]int(nil), tpl.SkillIDs...),
			SkillCooldowns:     c.InitialCooldowns(tpl.SkillIDs),
		},
		TemplateName: tpl.Name,
		GoldMin:      tpl.GoldMin,
		GoldMax:      tpl.GoldMax,
		ExpReward:    tpl.ExpReward,
	}

	return enemy, nil
}

// InitialCooldowns 为装配技能列表立即构建冷却表
//
// 所有条目在创建时填满，后续只做递减和重置。
func (c *Catalog) InitialCooldowns(skillIDs []int) map[int]int {
	cooldowns := make(map[int]int, len(skillIDs))
	for _, id := range skillIDs {
		if s, ok := c.skills[id]; ok {
			cooldowns[id] = s.CooldownRounds
		} else {
			cooldowns[id] = 0
		}
	}
	return cooldowns
}

// LoadFromDB 从数据库加载全部静态内容
//
// 任一类内容表为空时保留该类内容的内置默认值。
func (c *Catalog) LoadFromDB(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("数据库未初始化")
	}

	if err := c.loadSkills(db); err != nil {
		return err
	}
	if err := c.loadMonsters(db); err != nil {
		return err
	}
	if err := c.loadItems(db); err != nil {
		return err
	}
	if err := c.loadDungeons(db); err != nil {
		return err
	}

	log.Printf("内容目录加载完成: %d技能 %d怪物 %d物品 %d副本",
		len(c.skills), len(c.monsters), len(c.items), len(c.dungeons))
	return nil
}

// loadSkills 加载技能表
func (c *Catalog) loadSkills(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, name, COALESCE(description, ''), type, effect_value, cooldown_rounds FROM skills`)
	if err != nil {
		return fmt.Errorf("查询技能表失败: %w", err)
	}
	defer rows.Close()

	loaded := make(map[int]models.Skill)
	for rows.Next() {
		var s models.Skill
		var skillType string
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &skillType, &s.EffectValue, &s.CooldownRounds); err != nil {
			return fmt.Errorf("读取技能数据失败: %w", err)
		}
		s.Type = models.SkillType(skillType)
		loaded[s.ID] = s
	}

	if len(loaded) > 0 {
		c.skills = loaded
	}
	return nil
}

// loadMonsters 加载怪物模板表
func (c *Catalog) loadMonsters(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT name, COALESCE(description, ''), level, max_health, attack_power, defense,
		       attacks_per_second, critical_chance, critical_multiplier, dodge_chance,
		       skill_ids, gold_min, gold_max, exp_reward
		FROM monsters`)
	if err != nil {
		return fmt.Errorf("查询怪物表失败: %w", err)
	}
	defer rows.Close()

	loaded := make(map[string]models.MonsterTemplate)
	for rows.Next() {
		var m models.MonsterTemplate
		var skillIDs pq.Int64Array
		if err := rows.Scan(&m.Name, &m.Description, &m.Level, &m.MaxHealth, &m.AttackPower,
			&m.Defense, &m.AttacksPerSecond, &m.CriticalChance, &m.CriticalMultiplier,
			&m.DodgeChance, &skillIDs, &m.GoldMin, &m.GoldMax, &m.ExpReward); err != nil {
			return fmt.Errorf("读取怪物数据失败: %w", err)
		}
		for _, id := range skillIDs {
			m.SkillIDs = append(m.SkillIDs, int(id))
		}
		loaded[m.Name] = m
	}

	if len(loaded) > 0 {
		c.monsters = loaded
	}
	return nil
}

// loadItems 加载物品表
func (c *Catalog) loadItems(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, name, COALESCE(description, ''), rarity, sell_price FROM items`)
	if err != nil {
		return fmt.Errorf("查询物品表失败: %w", err)
	}
	defer rows.Close()

	loaded := make(map[int]models.Item)
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Rarity, &it.SellPrice); err != nil {
			return fmt.Errorf("读取物品数据失败: %w", err)
		}
		loaded[it.ID] = it
	}

	if len(loaded) > 0 {
		c.items = loaded
	}
	return nil
}

// loadDungeons 加载副本表(波次与奖励为JSONB)
func (c *Catalog) loadDungeons(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT id, name, COALESCE(description, ''), min_players, max_players,
		       allow_auto_revive, waves, rewards
		FROM dungeons`)
	if err != nil {
		return fmt.Errorf("查询副本表失败: %w", err)
	}
	defer rows.Close()

	loaded := make(map[int]models.DungeonTemplate)
	for rows.Next() {
		var d models.DungeonTemplate
		var wavesJSON, rewardsJSON []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.MinPlayers, &d.MaxPlayers,
			&d.AllowAutoRevive, &wavesJSON, &rewardsJSON); err != nil {
			return fmt.Errorf("读取副本数据失败: %w", err)
		}
		if err := json.Unmarshal(wavesJSON, &d.Waves); err != nil {
			return fmt.Errorf("解析副本波次失败: %w", err)
		}
		if err := json.Unmarshal(rewardsJSON, &d.Rewards); err != nil {
			return fmt.Errorf("解析副本奖励失败: %w", err)
		}
		loaded[d.ID] = d
	}

	if len(loaded) > 0 {
		c.dungeons = loaded
	}
	return nil
}
