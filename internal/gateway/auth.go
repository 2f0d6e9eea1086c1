package gateway

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jacl-coder/IdleRealm-Server/pkg/db"
)

// AuthHandler 认证处理器
//
// 登录后签发JWT令牌，令牌中携带玩家ID与角色ID，
// 后续请求无需查库即可完成认证。
type AuthHandler struct {
	secret   []byte
	tokenTTL time.Duration
}

// TokenClaims JWT载荷
type TokenClaims struct {
	PlayerID    int64  `json:"player_id"`
	CharacterID int64  `json:"character_id"`
	Username    string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Token       string `json:"token,omitempty"`
	PlayerID    int64  `json:"player_id,omitempty"`
	CharacterID int64  `json:"character_id,omitempty"`
	Username    string `json:"username,omitempty"`
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(secret string) *AuthHandler {
	if secret == "" {
		secret = "idlerealm-dev-secret"
	}
	return &AuthHandler{
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *AuthHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/validate", h.handleValidate)
}

// handleLogin 处理登录请求
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	// 解析请求
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	// 验证用户名和密码
	playerID, err := h.validateCredentials(req.Username, req.Password)
	if err != nil {
		resp := AuthResponse{
			Success: false,
			Message: "用户名或密码错误",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	// 查询该玩家的角色
	characterID, err := h.lookupCharacter(playerID)
	if err != nil {
		resp := AuthResponse{
			Success: false,
			Message: "玩家尚未创建角色",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	// 签发令牌
	token, err := h.issueToken(playerID, characterID, req.Username)
	if err != nil {
		http.Error(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	// 返回成功响应
	resp := AuthResponse{
		Success:     true,
		Message:     "登录成功",
		Token:       token,
		PlayerID:    playerID,
		CharacterID: characterID,
		Username:    req.Username,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleRegister 处理注册请求
func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	// 解析请求
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	// 验证请求
	if req.Username == "" || req.Password == "" || req.Email == "" {
		http.Error(w, "缺少必要参数", http.StatusBadRequest)
		return
	}

	// 创建用户
	playerID, err := h.createUser(req.Username, req.Password, req.Email)
	if err != nil {
		resp := AuthResponse{
			Success: false,
			Message: fmt.Sprintf("注册失败: %v", err),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	// 注册后角色由初始化脚本或后续接口创建，令牌中角色ID为0
	token, err := h.issueToken(playerID, 0, req.Username)
	if err != nil {
		http.Error(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	// 返回成功响应
	resp := AuthResponse{
		Success:  true,
		Message:  "注册成功",
		Token:    token,
		PlayerID: playerID,
		Username: req.Username,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleValidate 处理令牌验证请求
func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.authenticate(r)
	if !ok {
		http.Error(w, "无效或已过期的令牌", http.StatusUnauthorized)
		return
	}

	// 返回成功响应
	resp := AuthResponse{
		Success:     true,
		Message:     "令牌有效",
		PlayerID:    claims.PlayerID,
		CharacterID: claims.CharacterID,
		Username:    claims.Username,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// issueToken 签发JWT令牌
func (h *AuthHandler) issueToken(playerID, characterID int64, username string) (string, error) {
	claims := TokenClaims{
		PlayerID:    playerID,
		CharacterID: characterID,
		Username:    username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "idlerealm",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// parseToken 解析并校验JWT令牌
func (h *AuthHandler) parseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名算法: %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("令牌无效")
	}
	return claims, nil
}

// authenticate 从请求中提取并校验令牌
func (h *AuthHandler) authenticate(r *http.Request) (*TokenClaims, bool) {
	token := r.Header.Get("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		// 尝试从查询参数获取(WebSocket握手用)
		token = r.URL.Query().Get("token")
		if token == "" {
			return nil, false
		}
	}

	claims, err := h.parseToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// validateCredentials 验证用户凭据
func (h *AuthHandler) validateCredentials(username, password string) (int64, error) {
	// 计算密码哈希
	hashedPassword := hashPassword(password)

	// 查询数据库
	var playerID int64
	err := db.DB.QueryRow("SELECT id FROM players WHERE username = $1 AND password = $2", username, hashedPassword).Scan(&playerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("用户名或密码错误")
		}
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}

	return playerID, nil
}

// lookupCharacter 查询玩家名下的角色
func (h *AuthHandler) lookupCharacter(playerID int64) (int64, error) {
	var characterID int64
	err := db.DB.QueryRow("SELECT id FROM characters WHERE player_id = $1 ORDER BY id LIMIT 1", playerID).Scan(&characterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("角色不存在")
		}
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}
	return characterID, nil
}

// createUser 创建用户
func (h *AuthHandler) createUser(username, password, email string) (int64, error) {
	// 检查用户名是否已存在
	var count int
	err := db.DB.QueryRow("SELECT COUNT(*) FROM players WHERE username = $1", username).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否已存在
	err = db.DB.QueryRow("SELECT COUNT(*) FROM players WHERE email = $1", email).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("邮箱已被使用")
	}

	// 计算密码哈希
	hashedPassword := hashPassword(password)

	// 插入用户
	var playerID int64
	err = db.DB.QueryRow(
		"INSERT INTO players (username, password, email, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id",
		username, hashedPassword, email,
	).Scan(&playerID)
	if err != nil {
		return 0, fmt.Errorf("创建用户失败: %w", err)
	}

	return playerID, nil
}

// hashPassword 计算密码哈希
func hashPassword(password string) string {
	// 使用SHA-256哈希
	// 在实际应用中，应该使用更安全的哈希算法，如bcrypt
	hash := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", hash)
}
