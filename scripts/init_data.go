// init_data.go

package main

import (
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/jacl-coder/IdleRealm-Server/config"
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	dataType := flag.String("type", "all", "初始化数据类型 (gamedata, accounts, all)")
	drop := flag.Bool("drop", false, "初始化前删除已有表")
	flag.Parse()

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	if *drop {
		if err := db.DropAllTables(); err != nil {
			log.Fatalf("删除数据库表失败: %v", err)
		}
	}

	// 初始化数据库表
	if err := db.InitAllTables(); err != nil {
		log.Fatalf("初始化数据库表失败: %v", err)
	}
	log.Println("✓ 数据库表初始化完成")

	// 根据类型初始化数据
	switch *dataType {
	case "gamedata":
		if err := initGameData(); err != nil {
			log.Fatalf("初始化游戏数据失败: %v", err)
		}
		log.Println("游戏数据初始化完成")
	case "accounts":
		if err := initTestAccounts(); err != nil {
			log.Fatalf("初始化测试账号失败: %v", err)
		}
		log.Println("测试账号初始化完成")
	case "all":
		log.Println("开始初始化所有数据...")

		if err := initGameData(); err != nil {
			log.Fatalf("初始化游戏数据失败: %v", err)
		}
		log.Println("✓ 游戏数据初始化完成")

		if err := initTestAccounts(); err != nil {
			log.Fatalf("初始化测试账号失败: %v", err)
		}
		log.Println("✓ 测试账号初始化完成")

		log.Println("🎉 所有数据初始化完成！")
	default:
		log.Fatalf("未知的数据类型: %s", *dataType)
	}
}

// initGameData 初始化技能/怪物/物品/副本数据
func initGameData() error {
	log.Println("正在初始化游戏数据...")

	if err := initSkills(); err != nil {
		return err
	}
	if err := initMonsters(); err != nil {
		return err
	}
	if err := initItems(); err != nil {
		return err
	}
	return initDungeons()
}

// initSkills 初始化技能数据
func initSkills() error {
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM skills").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Printf("技能表已有 %d 条数据，跳过初始化", count)
		return nil
	}

	for _, s := range catalog.DefaultSkills() {
		_, err := db.DB.Exec(`
			INSERT INTO skills (id, name, description, type, effect_value, cooldown_rounds)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, s.Name, s.Description, string(s.Type), s.EffectValue, s.CooldownRounds)
		if err != nil {
			return fmt.Errorf("插入技能 %s 失败: %w", s.Name, err)
		}
	}

	log.Printf("已插入 %d 个技能", len(catalog.DefaultSkills()))
	return nil
}

// initMonsters 初始化怪物模板数据
func initMonsters() error {
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM monsters").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Printf("怪物表已有 %d 条数据，跳过初始化", count)
		return nil
	}

	for _, m := range catalog.DefaultMonsters() {
		skillIDs := make([]int64, 0, len(m.SkillIDs))
		for _, id := range m.SkillIDs {
			skillIDs = append(skillIDs, int64(id))
		}

		_, err := db.DB.Exec(`
			INSERT INTO monsters (name, description, level, max_health, attack_power, defense,
			                      attacks_per_second, critical_chance, critical_multiplier,
			                      dodge_chance, skill_ids, gold_min, gold_max, exp_reward)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			m.Name, m.Description, m.Level, m.MaxHealth, m.AttackPower, m.Defense,
			m.AttacksPerSecond, m.CriticalChance, m.CriticalMultiplier,
			m.DodgeChance, pq.Array(skillIDs), m.GoldMin, m.GoldMax, m.ExpReward)
		if err != nil {
			return fmt.Errorf("插入怪物 %s 失败: %w", m.Name, err)
		}
	}

	log.Printf("已插入 %d 个怪物模板", len(catalog.DefaultMonsters()))
	return nil
}

// initItems 初始化物品数据
func initItems() error {
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Printf("物品表已有 %d 条数据，跳过初始化", count)
		return nil
	}

	for _, it := range catalog.DefaultItems() {
		_, err := db.DB.Exec(`
			INSERT INTO items (id, name, description, rarity, sell_price)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.Name, it.Description, it.Rarity, it.SellPrice)
		if err != nil {
			return fmt.Errorf("插入物品 %s 失败: %w", it.Name, err)
		}
	}

	log.Printf("已插入 %d 个物品", len(catalog.DefaultItems()))
	return nil
}

// initDungeons 初始化副本数据(波次与奖励以JSON存储)
func initDungeons() error {
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM dungeons").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Printf("副本表已有 %d 条数据，跳过初始化", count)
		return nil
	}

	for _, d := range catalog.DefaultDungeons() {
		waves, err := json.Marshal(d.Waves)
		if err != nil {
			return fmt.Errorf("序列化副本 %s 波次失败: %w", d.Name, err)
		}
		rewards, err := json.Marshal(d.Rewards)
		if err != nil {
			return fmt.Errorf("序列化副本 %s 奖励失败: %w", d.Name, err)
		}

		_, err = db.DB.Exec(`
			INSERT INTO dungeons (id, name, description, min_players, max_players,
			                      allow_auto_revive, waves, rewards)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.ID, d.Name, d.Description, d.MinPlayers, d.MaxPlayers,
			d.AllowAutoRevive, waves, rewards)
		if err != nil {
			return fmt.Errorf("插入副本 %s 失败: %w", d.Name, err)
		}
	}

	log.Printf("已插入 %d 个副本", len(catalog.DefaultDungeons()))
	return nil
}

// initTestAccounts 初始化测试账号与角色
func initTestAccounts() error {
	log.Println("正在初始化测试账号...")

	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Printf("玩家表已有 %d 条数据，跳过初始化", count)
		return nil
	}

	accounts := []struct {
		username string
		password string
		email    string
		charName string
		level    int
		skills   []int
	}{
		{"test1", "test123", "test1@example.com", "剑士阿尔", 1, []int{1}},
		{"test2", "test123", "test2@example.com", "游侠贝卡", 3, []int{1, 5}},
		{"test3", "test123", "test3@example.com", "牧师赛拉", 5, []int{3, 4}},
	}

	for _, a := range accounts {
		hash := sha256.Sum256([]byte(a.password))

		var playerID int64
		err := db.DB.QueryRow(`
			INSERT INTO players (username, password, email)
			VALUES ($1, $2, $3) RETURNING id`,
			a.username, fmt.Sprintf("%x", hash), a.email).Scan(&playerID)
		if err != nil {
			return fmt.Errorf("创建玩家 %s 失败: %w", a.username, err)
		}

		maxHealth := 100 + (a.level-1)*10
		attackPower := 10 + (a.level-1)*2

		var characterID int64
		err = db.DB.QueryRow(`
			INSERT INTO characters (player_id, name, level, max_health, health, attack_power, defense)
			VALUES ($1, $2, $3, $4, $4, $5, $6) RETURNING id`,
			playerID, a.charName, a.level, maxHealth, attackPower, a.level).Scan(&characterID)
		if err != nil {
			return fmt.Errorf("创建角色 %s 失败: %w", a.charName, err)
		}

		for slot, skillID := range a.skills {
			_, err := db.DB.Exec(`
				INSERT INTO character_skills (character_id, skill_id, slot_index)
				VALUES ($1, $2, $3)`,
				characterID, skillID, slot)
			if err != nil {
				return fmt.Errorf("装配角色 %s 技能失败: %w", a.charName, err)
			}
		}

		log.Printf("已创建测试账号 %s (角色: %s)", a.username, a.charName)
	}

	return nil
}
