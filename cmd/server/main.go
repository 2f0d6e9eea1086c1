// main.go

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacl-coder/IdleRealm-Server/config"
	"github.com/jacl-coder/IdleRealm-Server/internal/battle"
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/gateway"
	"github.com/jacl-coder/IdleRealm-Server/internal/notify"
	"github.com/jacl-coder/IdleRealm-Server/internal/roster"
	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
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

	// 初始化Redis连接(排行榜用，失败降级不中断)
	if err := db.InitRedis(); err != nil {
		log.Printf("初始化Redis失败，排行榜不可用: %v", err)
		db.RedisClient = nil
	} else {
		defer db.CloseRedis()
	}

	// 加载游戏数据目录，数据库为空时回退内置默认
	cat := catalog.NewDefault()
	if err := cat.LoadFromDB(db.DB); err != nil {
		log.Printf("从数据库加载游戏数据失败，使用内置默认数据: %v", err)
	}

	// 加载角色名册
	ros := roster.New(cat)
	if err := ros.LoadFromDB(); err != nil {
		log.Fatalf("加载角色名册失败: %v", err)
	}

	// 创建战斗管理器并装配协作方
	manager := battle.NewManager(config.GlobalConfig.Battle, cat, ros)
	hub := notify.NewHub()
	manager.WireCollaborators(hub, roster.NewQuestLog(), roster.NewInventoryStore(), gateway.NewRedisStatsRecorder())

	// 启动tick循环
	if err := manager.Start(); err != nil {
		log.Fatalf("启动战斗管理器失败: %v", err)
	}

	// 启动API网关
	gw := gateway.NewGateway(&config.GlobalConfig, manager, ros, hub)
	if err := gw.Start(); err != nil {
		log.Fatalf("启动网关服务失败: %v", err)
	}

	log.Println("服务器已启动")

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("接收到关闭信号，正在关闭服务器...")

	gw.Stop()
	manager.Stop()

	log.Println("服务器已安全关闭")
}
