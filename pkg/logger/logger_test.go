package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestInitWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", &buf)
	defer Init("info")

	Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}

	Warnf("visible %d", 1)
	entry := lastLine(t, &buf)
	if entry["message"] != "visible 1" {
		t.Errorf("message = %v, expected %q", entry["message"], "visible 1")
	}
	if entry["service"] != "mindmate" {
		t.Errorf("service = %v, expected %q", entry["service"], "mindmate")
	}
}

func TestInitWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("loud", &buf)
	defer Init("info")

	Debug().Msg("hidden")
	Infof("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug should be filtered when level falls back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info should be written")
	}
}

func TestGinLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", &buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/api/dashboard", func(c *gin.Context) {
		c.Set("user_id", uint(9))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/dashboard", nil)
	router.ServeHTTP(w, req)

	requestID := w.Header().Get(RequestIDHeader)
	if requestID == "" {
		t.Fatal("response should carry a request id")
	}

	entry := lastLine(t, &buf)
	if entry["request_id"] != requestID {
		t.Errorf("request_id = %v, expected %q", entry["request_id"], requestID)
	}
	if entry["path"] != "/api/dashboard" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["user_id"] != float64(9) {
		t.Errorf("user_id = %v, expected 9", entry["user_id"])
	}
}

func TestGinLogger_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", &buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/missing", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, expected %q", got, "abc-123")
	}
	entry := lastLine(t, &buf)
	if entry["level"] != "warn" {
		t.Errorf("4xx should log at warn, got %v", entry["level"])
	}
}

func TestGinRecovery(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", &buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinRecovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic should be logged, got %q", buf.String())
	}
}
