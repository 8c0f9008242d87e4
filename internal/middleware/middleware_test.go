package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNotFound(t *testing.T) {
	router := gin.New()
	router.NoRoute(NotFound())

	w := serve(router, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	want := `{"statusCode":404,"error":"Not Found","message":"Not Found"}`
	if w.Body.String() != want {
		t.Errorf("body = %s, want %s", w.Body.String(), want)
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"statusCode":500`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || generated != w.Body.String() {
		t.Errorf("generated request id = %q, body = %q", generated, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(router, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRateLimiter(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(0.001, 1))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusNoContent {
		t.Errorf("first request status = %d, want 204", w.Code)
	}
	if w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
}

func TestContentTypeValidation(t *testing.T) {
	router := gin.New()
	router.Use(ContentTypeValidation("application/json"))
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{name: "no body", want: http.StatusNoContent},
		{name: "json", body: `{}`, contentType: "application/json; charset=utf-8", want: http.StatusNoContent},
		{name: "missing content type", body: `{}`, want: http.StatusBadRequest},
		{name: "unsupported", body: `a=b`, contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if w := serve(router, req); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCompression(t *testing.T) {
	router := gin.New()
	router.Use(Compression(gzip.DefaultCompression))
	router.GET("/encoding", func(c *gin.Context) { c.String(http.StatusOK, "encoding-gzip") })
	router.GET("/precompressed", func(c *gin.Context) {
		c.Header("Content-Encoding", "br")
		c.Data(http.StatusOK, "application/octet-stream", []byte{1, 2, 3})
	})

	req := httptest.NewRequest(http.MethodGet, "/encoding", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := serve(router, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not gzip: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gzip read failed: %v", err)
	}
	if string(plain) != "encoding-gzip" {
		t.Errorf("body = %q, want encoding-gzip", plain)
	}

	// Without Accept-Encoding the body is sent as is
	w = serve(router, httptest.NewRequest(http.MethodGet, "/encoding", nil))
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "encoding-gzip" {
		t.Errorf("uncompressed response = %q (%q)", w.Body.String(), w.Header().Get("Content-Encoding"))
	}

	// An existing encoding is left alone
	req = httptest.NewRequest(http.MethodGet, "/precompressed", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = serve(router, req)
	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Errorf("Content-Encoding = %q, want br", got)
	}
	if !bytes.Equal(w.Body.Bytes(), []byte{1, 2, 3}) {
		t.Errorf("body = %v, want [1 2 3]", w.Body.Bytes())
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := map[string]bool{
		"":                  false,
		"gzip":              true,
		"GZIP":              true,
		"deflate, gzip":     true,
		"br;q=1.0, gzip;q=0": false,
		"*":                 true,
		"identity":          false,
		"gzip; q=0.5":       true,
	}

	for header, want := range tests {
		if got := acceptsGzip(header); got != want {
			t.Errorf("acceptsGzip(%q) = %v, want %v", header, got, want)
		}
	}
}

func TestAuthentication(t *testing.T) {
	authService := NewAuthService(&AuthConfig{JWTSecret: "secret", TokenDuration: time.Minute})

	router := gin.New()
	router.Use(Authentication(authService), Authorization(RoleAdmin))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("username")) })

	adminToken, err := authService.GenerateToken("1", "marcus", []string{string(RoleAdmin)})
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	viewerToken, err := authService.GenerateToken("2", "norman", []string{string(RoleViewer)})
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "insufficient role", header: "Bearer " + viewerToken, want: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if w := serve(router, req); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewAuthService(&AuthConfig{JWTSecret: "one"})
	verifier := NewAuthService(&AuthConfig{JWTSecret: "two"})

	token, err := issuer.GenerateToken("1", "marcus", nil)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("ValidateToken() should reject a token signed with another secret")
	}
}
