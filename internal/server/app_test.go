package server

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewAppRequiresLogger(t *testing.T) {
	if _, err := NewApp(AppOptions{}); err == nil {
		t.Fatalf("缺少 logger 应当报错")
	}
}

func TestRequestIDHeaderAssigned(t *testing.T) {
	app, err := NewApp(AppOptions{Logger: newTestLogger()})
	if err != nil {
		t.Fatalf("构建应用失败: %v", err)
	}

	var seen string
	app.Get("/ping", func(c fiber.Ctx) error {
		seen = RequestID(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	header := resp.Header.Get("X-Request-ID")
	if header == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if seen != header {
		t.Fatalf("Locals 中的 request_id (%s) 与响应头 (%s) 不一致", seen, header)
	}
}

func TestRequestIDDistinctPerRequest(t *testing.T) {
	app, err := NewApp(AppOptions{Logger: newTestLogger()})
	if err != nil {
		t.Fatalf("构建应用失败: %v", err)
	}
	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	ids := map[string]struct{}{}
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		if err != nil {
			t.Fatalf("app.Test failed: %v", err)
		}
		ids[resp.Header.Get("X-Request-ID")] = struct{}{}
		resp.Body.Close()
	}
	if len(ids) != 3 {
		t.Fatalf("每个请求应获得独立的 request_id，得到 %d 个", len(ids))
	}
}
