package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newIdemRouter(opts IdempotencyOptions, seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(opts))
	r.PATCH("/chats", func(c *gin.Context) {
		if key, ok := GetIdempotencyKey(c); ok {
			*seen = key
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestIdempotencyValidator_AbsentHeaderIsNoop(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/chats", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if seen != "" {
		t.Fatalf("no key should be stashed, got %q", seen)
	}
}

func TestIdempotencyValidator_ValidKeyStashed(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/chats", nil)
	req.Header.Set(HeaderIdempotencyKey, "append-7f3a:retry.1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if seen != "append-7f3a:retry.1" {
		t.Fatalf("stashed key = %q", seen)
	}
}

func TestIdempotencyValidator_RejectsInvalidCharacters(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{}, &seen)

	for _, bad := range []string{"has spaces", "emoji-🙂", "quo\"te"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/chats", nil)
		req.Header.Set(HeaderIdempotencyKey, bad)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d, want 400", bad, w.Code)
		}
		if !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: body = %s", bad, w.Body.String())
		}
	}
	if seen != "" {
		t.Fatalf("invalid key must not be stashed, got %q", seen)
	}
}

func TestIdempotencyValidator_RejectsOverlongKey(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{MaxLen: 8}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/chats", nil)
	req.Header.Set(HeaderIdempotencyKey, "way-too-long-for-the-limit")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIdempotencyValidator_CustomPattern(t *testing.T) {
	var seen string
	r := newIdemRouter(IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/chats", nil)
	req.Header.Set(HeaderIdempotencyKey, "12345")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || seen != "12345" {
		t.Fatalf("status = %d seen = %q", w.Code, seen)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPatch, "/chats", nil)
	req2.Header.Set(HeaderIdempotencyKey, "abc")
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w2.Code)
	}
}

func TestGetIdempotencyKey_NonStringValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatal("expected absent key")
	}

	c.Set(ctxKeyIdemKey, 42)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatal("non-string value should read as absent")
	}
}
