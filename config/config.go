// config.go

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	GatewayPort int    `mapstructure:"gateway_port"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	MaxBattles  int    `mapstructure:"max_battles"`
}

// BattleConfig 战斗模拟配置
//
// 历史版本中刷新冷却和复活时长存在多个不一致的取值，
// 因此全部作为具名配置项暴露，而不是写死某一个。
type BattleConfig struct {
	TickInterval           float64 `mapstructure:"tick_interval"`            // 模拟步长(秒)
	RefreshCooldown        float64 `mapstructure:"refresh_cooldown"`         // 单人/组队战斗刷新冷却(秒)
	DungeonRefreshCooldown float64 `mapstructure:"dungeon_refresh_cooldown"` // 副本通关后刷新冷却(秒)
	RevivalDuration        float64 `mapstructure:"revival_duration"`         // 玩家复活倒计时(秒)
	MitigationK            int     `mapstructure:"mitigation_k"`             // 防御减伤常数 K
	SoloAutoRevive         bool    `mapstructure:"solo_auto_revive"`         // 单人/组队战斗是否自动复活
	MaxActionHistory       int     `mapstructure:"max_action_history"`       // 战斗日志保留条数
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config
)

// DefaultBattleConfig 返回战斗配置的默认值
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		TickInterval:           0.1,
		RefreshCooldown:        3.0,
		DungeonRefreshCooldown: 5.0,
		RevivalDuration:        2.0,
		MitigationK:            50,
		SoloAutoRevive:         true,
		MaxActionHistory:       100,
	}
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) error {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	// 战斗相关默认值
	def := DefaultBattleConfig()
	viper.SetDefault("battle.tick_interval", def.TickInterval)
	viper.SetDefault("battle.refresh_cooldown", def.RefreshCooldown)
	viper.SetDefault("battle.dungeon_refresh_cooldown", def.DungeonRefreshCooldown)
	viper.SetDefault("battle.revival_duration", def.RevivalDuration)
	viper.SetDefault("battle.mitigation_k", def.MitigationK)
	viper.SetDefault("battle.solo_auto_revive", def.SoloAutoRevive)
	viper.SetDefault("battle.max_action_history", def.MaxActionHistory)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		return fmt.Errorf("无法解析配置文件: %w", err)
	}

	return nil
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
