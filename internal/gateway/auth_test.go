// auth_test.go

package gateway

import (
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	h := NewAuthHandler("test-secret")

	token, err := h.issueToken(7, 42, "test1")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	claims, err := h.parseToken(token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.PlayerID != 7 || claims.CharacterID != 42 || claims.Username != "test1" {
		t.Fatalf("载荷不匹配: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewAuthHandler("secret-a")
	verifier := NewAuthHandler("secret-b")

	token, _ := issuer.issueToken(1, 1, "test1")
	if _, err := verifier.parseToken(token); err == nil {
		t.Fatal("不同密钥签发的令牌应验证失败")
	}
}

func TestAuthenticateFromHeaderAndQuery(t *testing.T) {
	h := NewAuthHandler("test-secret")
	token, _ := h.issueToken(1, 2, "test1")

	// Authorization头(Bearer前缀)
	r := httptest.NewRequest("GET", "/battle/current", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	claims, ok := h.authenticate(r)
	if !ok || claims.CharacterID != 2 {
		t.Fatalf("头部认证失败: %v %v", ok, claims)
	}

	// 查询参数(WebSocket握手用)
	r = httptest.NewRequest("GET", "/ws?token="+token, nil)
	claims, ok = h.authenticate(r)
	if !ok || claims.CharacterID != 2 {
		t.Fatalf("查询参数认证失败: %v %v", ok, claims)
	}

	// 无令牌
	r = httptest.NewRequest("GET", "/battle/current", nil)
	if _, ok := h.authenticate(r); ok {
		t.Fatal("无令牌不应通过认证")
	}

	// 伪造令牌
	r = httptest.NewRequest("GET", "/battle/current", nil)
	r.Header.Set("Authorization", "Bearer invalid.token.here")
	if _, ok := h.authenticate(r); ok {
		t.Fatal("伪造令牌不应通过认证")
	}
}
