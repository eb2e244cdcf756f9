package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"  Keeper "}`))

	key := KeyByIPAndJSONField("username")(c)
	if !strings.HasPrefix(key, "keeper|") {
		t.Fatalf("key should start with normalized field value, got %q", key)
	}

	// The body must still be readable by the handler afterwards.
	var payload struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		t.Fatalf("body should be replayable: %v", err)
	}
	if payload.Username != "  Keeper " {
		t.Fatalf("body content changed: %q", payload.Username)
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))

	key := KeyByIPAndJSONField("username")(c)
	if key != c.ClientIP() {
		t.Fatalf("missing field should fall back to client ip, got %q", key)
	}
}

func TestToInt64(t *testing.T) {
	if v, ok := toInt64(int64(7)); !ok || v != 7 {
		t.Fatalf("int64 conversion failed: %d %v", v, ok)
	}
	if v, ok := toInt64(float64(3.9)); !ok || v != 3 {
		t.Fatalf("float64 conversion failed: %d %v", v, ok)
	}
	if _, ok := toInt64("nope"); ok {
		t.Fatalf("string should not convert")
	}
}
