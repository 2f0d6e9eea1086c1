// hub.go

package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 64 * 1024 // 64KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message 推送消息结构
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client 一条已连接的推送通道
type Client struct {
	ID          string
	CharacterID int64
	Send        chan []byte
	LastActive  time.Time
}

// Hub 推送中心
//
// 战斗事件的 fire-and-forget 推送：接收方不在线即丢弃，
// 推送失败不影响战斗推进。
type Hub struct {
	clients map[int64][]*Client
	mu      sync.RWMutex
}

// NewHub 创建推送中心
func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64][]*Client),
	}
}

// ServeWS 接管一条已认证的WebSocket连接
//
// 认证由网关完成，这里只负责升级和收发循环。
func (h *Hub) ServeWS(characterID int64, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		CharacterID: characterID,
		Send:        make(chan []byte, 256),
		LastActive:  time.Now(),
	}

	h.mu.Lock()
	h.clients[characterID] = append(h.clients[characterID], client)
	h.mu.Unlock()

	log.Printf("角色 %d 推送通道已连接", characterID)

	go h.readPump(conn, client)
	go h.writePump(conn, client)
}

// readPump 维持读取端(仅处理pong和断开)
func (h *Hub) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		h.removeClient(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}
		client.LastActive = time.Now()
	}
}

// writePump 向WebSocket写入数据
func (h *Hub) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// removeClient 移除断开的连接
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[client.CharacterID]
	for i, c := range conns {
		if c.ID == client.ID {
			h.clients[client.CharacterID] = append(conns[:i], conns[i+1:]...)
			close(c.Send)
			break
		}
	}
	if len(h.clients[client.CharacterID]) == 0 {
		delete(h.clients, client.CharacterID)
	}

	log.Printf("角色 %d 推送通道已断开", client.CharacterID)
}

// Push 向单个角色推送消息，离线即丢弃
func (h *Hub) Push(characterID int64, msgType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("序列化推送消息失败: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[characterID] {
		select {
		case client.Send <- data:
			// 消息已入队
		default:
			// 通道已满，丢弃
		}
	}
}

// BattleStarted 战斗开始推送(实现战斗核心的 Notifier 接口)
func (h *Hub) BattleStarted(characterIDs []int64, battleID string, battleType models.BattleType) {
	payload := map[string]interface{}{
		"battle_id": battleID,
		"type":      battleType,
	}
	for _, id := range characterIDs {
		h.Push(id, "battle_started", payload)
	}
}

// BattleCompleted 战斗结束推送
func (h *Hub) BattleCompleted(characterIDs []int64, result *models.RewardResult) {
	for _, id := range characterIDs {
		h.Push(id, "battle_completed", result)
	}
}
