// schema.go

package db

import (
	"fmt"
	"log"
)

// 统一的数据库表结构定义

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 玩家表
CREATE TABLE IF NOT EXISTS players (
    id SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    password VARCHAR(100) NOT NULL,
    email VARCHAR(100) UNIQUE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 角色表
CREATE TABLE IF NOT EXISTS characters (
    id SERIAL PRIMARY KEY,
    player_id INT REFERENCES players(id),
    name VARCHAR(50) UNIQUE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    -- 成长属性
    level INT DEFAULT 1,
    exp BIGINT DEFAULT 0,
    gold BIGINT DEFAULT 0,

    -- 战斗属性
    max_health INT NOT NULL DEFAULT 100,
    health INT NOT NULL DEFAULT 100,
    attack_power INT NOT NULL DEFAULT 10,
    defense INT NOT NULL DEFAULT 0,
    attacks_per_second DECIMAL(5,2) NOT NULL DEFAULT 1.0,
    critical_chance DECIMAL(5,4) DEFAULT 0.05,
    critical_multiplier DECIMAL(5,2) DEFAULT 1.5,
    dodge_chance DECIMAL(5,4) DEFAULT 0.05,

    -- 战斗统计
    total_kills INT DEFAULT 0,
    total_deaths INT DEFAULT 0,
    total_battles INT DEFAULT 0,
    dungeon_clears INT DEFAULT 0
);

-- 技能表
CREATE TABLE IF NOT EXISTS skills (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    description TEXT,
    type VARCHAR(20) NOT NULL,
    effect_value DECIMAL(10,4) NOT NULL DEFAULT 0,
    cooldown_rounds INT NOT NULL DEFAULT 0
);

-- 角色技能关联表
CREATE TABLE IF NOT EXISTS character_skills (
    character_id INT REFERENCES characters(id),
    skill_id INT REFERENCES skills(id),
    slot_index INT DEFAULT 0,
    PRIMARY KEY (character_id, skill_id)
);

-- 怪物模板表
CREATE TABLE IF NOT EXISTS monsters (
    name VARCHAR(50) PRIMARY KEY,
    description TEXT,
    level INT NOT NULL DEFAULT 1,
    max_health INT NOT NULL,
    attack_power INT NOT NULL,
    defense INT NOT NULL DEFAULT 0,
    attacks_per_second DECIMAL(5,2) NOT NULL DEFAULT 1.0,
    critical_chance DECIMAL(5,4) DEFAULT 0,
    critical_multiplier DECIMAL(5,2) DEFAULT 1.5,
    dodge_chance DECIMAL(5,4) DEFAULT 0,
    skill_ids INT[] DEFAULT '{}',
    gold_min INT NOT NULL DEFAULT 0,
    gold_max INT NOT NULL DEFAULT 0,
    exp_reward INT NOT NULL DEFAULT 0
);

-- 物品表
CREATE TABLE IF NOT EXISTS items (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    description TEXT,
    rarity INT DEFAULT 1,
    sell_price BIGINT DEFAULT 0
);

-- 副本表(波次与奖励以JSON存储)
CREATE TABLE IF NOT EXISTS dungeons (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    description TEXT,
    min_players INT NOT NULL DEFAULT 1,
    max_players INT NOT NULL DEFAULT 5,
    allow_auto_revive BOOLEAN DEFAULT false,
    waves JSONB NOT NULL DEFAULT '[]',
    rewards JSONB NOT NULL DEFAULT '[]'
);

-- 背包表
CREATE TABLE IF NOT EXISTS inventory (
    character_id INT REFERENCES characters(id),
    item_id INT REFERENCES items(id),
    quantity INT NOT NULL DEFAULT 0,
    PRIMARY KEY (character_id, item_id)
);

-- 任务进度表
CREATE TABLE IF NOT EXISTS quest_progress (
    character_id INT REFERENCES characters(id),
    quest_type VARCHAR(20) NOT NULL,
    target_id VARCHAR(50) NOT NULL,
    amount INT NOT NULL DEFAULT 0,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (character_id, quest_type, target_id)
);
`

// DropAllTablesSQL 删除所有表的SQL语句
const DropAllTablesSQL = `
DROP TABLE IF EXISTS quest_progress;
DROP TABLE IF EXISTS inventory;
DROP TABLE IF EXISTS dungeons;
DROP TABLE IF EXISTS items;
DROP TABLE IF EXISTS monsters;
DROP TABLE IF EXISTS character_skills;
DROP TABLE IF EXISTS skills;
DROP TABLE IF EXISTS characters;
DROP TABLE IF EXISTS players;
`

// InitAllTables 初始化所有数据库表
func InitAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	if _, err := DB.Exec(CreateAllTablesSQL); err != nil {
		return fmt.Errorf("创建数据库表失败: %w", err)
	}

	log.Println("数据库表初始化完成")
	return nil
}

// DropAllTables 删除所有数据库表
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	if _, err := DB.Exec(DropAllTablesSQL); err != nil {
		return fmt.Errorf("删除数据库表失败: %w", err)
	}

	log.Println("数据库表已删除")
	return nil
}
