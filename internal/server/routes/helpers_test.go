package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/server"
	"github.com/sketch-hub/sketch-hub/internal/sketch"
	"github.com/sketch-hub/sketch-hub/internal/toolchain"
	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// stubRunner 记录最近一次工具链调用，并返回预设结果。
type stubRunner struct {
	lastDir  string
	lastArgs []string
	result   toolchain.Result
	err      error
}

func (s *stubRunner) Run(_ context.Context, dir string, args ...string) (toolchain.Result, error) {
	s.lastDir = dir
	s.lastArgs = args
	return s.result, s.err
}

// newTestApp 在临时 sketchbook 上搭建完整路由栈：
// 一个 Blink 工程、一个带 Sweep 示例的 Servo 库。
func newTestApp(t *testing.T) (*fiber.App, *stubRunner, string) {
	t.Helper()

	sketchbook := t.TempDir()
	librariesDir := filepath.Join(sketchbook, "libraries")

	writeFixture(t, filepath.Join(sketchbook, "Blink", "Blink.ino"), "void loop() {}")
	writeFixture(t, filepath.Join(librariesDir, "Servo", "Servo.h"), "#pragma once")
	writeFixture(t, filepath.Join(librariesDir, "Servo", "examples", "Sweep", "Sweep.ino"), "// sweep")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver, err := tree.NewResolver(sketchbook, librariesDir)
	if err != nil {
		t.Fatalf("构建解析器失败: %v", err)
	}
	svc := sketch.NewService(tree.NewCache(), resolver, logger)
	if err := svc.Warm(); err != nil {
		t.Fatalf("缓存预热失败: %v", err)
	}

	runner := &stubRunner{}
	tools := toolchain.NewClient(runner, "arduino:avr:nano:cpu=atmega328old", sketchbook, logger)

	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		t.Fatalf("构建应用失败: %v", err)
	}
	Register(app, Deps{Logger: logger, Service: svc, Toolchain: tools})

	return app, runner, sketchbook
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	payload := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp, payload
}

func stringSlice(t *testing.T, payload map[string]any, key string) []string {
	t.Helper()

	raw, ok := payload[key].([]any)
	if !ok {
		t.Fatalf("字段 %s 不是数组: %#v", key, payload[key])
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, item.(string))
	}
	return out
}
