package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jacl-coder/IdleRealm-Server/config"
	"github.com/jacl-coder/IdleRealm-Server/internal/battle"
	"github.com/jacl-coder/IdleRealm-Server/internal/notify"
	"github.com/jacl-coder/IdleRealm-Server/internal/roster"
)

// Gateway API网关
//
// 对外暴露认证、战斗操作、战斗查询和排行榜HTTP接口，
// 以及战斗事件的WebSocket推送入口。
type Gateway struct {
	config     *config.Config
	manager    *battle.Manager
	roster     *roster.Roster
	hub        *notify.Hub
	httpServer *http.Server
	isRunning  bool
}

// NewGateway 创建网关
func NewGateway(cfg *config.Config, manager *battle.Manager, ros *roster.Roster, hub *notify.Hub) *Gateway {
	return &Gateway{
		config:  cfg,
		manager: manager,
		roster:  ros,
		hub:     hub,
	}
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	// 初始化HTTP服务器
	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", g.config.Server.GatewayPort),
		Handler: g.createHandler(),
	}

	// 启动HTTP服务器
	go func() {
		log.Printf("API网关启动，监听端口: %d", g.config.Server.GatewayPort)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop() error {
	if !g.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP服务器关闭出错: %v", err)
	}

	g.isRunning = false
	log.Println("API网关已停止")
	return nil
}

// createHandler 创建HTTP处理器
func (g *Gateway) createHandler() http.Handler {
	mux := http.NewServeMux()

	// 创建各种处理器
	authHandler := NewAuthHandler(g.config.Server.JWTSecret)
	battleHandler := NewBattleHandler(g.manager, g.roster, authHandler)
	statsHandler := NewStatsHandler(authHandler)

	// 注册认证相关路由
	authHandler.RegisterHandlers(mux)

	// 注册战斗相关路由
	battleHandler.RegisterHandlers(mux)

	// 注册排行榜相关路由
	statsHandler.RegisterHandlers(mux)

	// 战斗事件推送（WebSocket）
	mux.HandleFunc("/ws", g.handleWebSocket(authHandler))

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 应用中间件
	handler := g.applyMiddleware(mux)

	return handler
}

// applyMiddleware 应用中间件
func (g *Gateway) applyMiddleware(handler http.Handler) http.Handler {
	// 创建中间件
	loggingMiddleware := NewLoggingMiddleware()
	corsMiddleware := NewCORSMiddleware()
	rateLimiter := NewRateLimiter(120, 20) // 每分钟120次请求，突发20次

	// 按顺序应用中间件（从外到内）
	handler = loggingMiddleware.Middleware(handler)
	handler = corsMiddleware.Middleware(handler)
	handler = rateLimiter.Middleware(handler)

	return handler
}

// handleWebSocket 认证后移交推送中心
func (g *Gateway) handleWebSocket(auth *AuthHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.authenticate(r)
		if !ok {
			http.Error(w, "未授权", http.StatusUnauthorized)
			return
		}
		g.hub.ServeWS(claims.CharacterID, w, r)
	}
}
