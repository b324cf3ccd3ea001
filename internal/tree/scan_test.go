package tree

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeFixtureFile creates a file (and its parents) under dir.
func writeFixtureFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func TestScanEntityCollectsRelativeLeaves(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "Blink.ino", "void loop() {}")
	writeFixtureFile(t, dir, "src/util.h", "#pragma once")
	writeFixtureFile(t, dir, "src/util.cpp", "")

	files, err := ScanEntity(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	want := []string{"Blink.ino", "src/util.cpp", "src/util.h"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("文件列表不符: %v", files)
	}
}

func TestScanEntityIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "b.ino", "b")
	writeFixtureFile(t, dir, "a/one.h", "1")
	writeFixtureFile(t, dir, "a/two.h", "2")

	first, err := ScanEntity(dir)
	if err != nil {
		t.Fatalf("first scan error: %v", err)
	}
	second, err := ScanEntity(dir)
	if err != nil {
		t.Fatalf("second scan error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("相同目录两次扫描结果应一致: %v vs %v", first, second)
	}
}

func TestScanEntitySkipsHiddenAndSystemFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "Main.ino", "")
	writeFixtureFile(t, dir, ".DS_Store", "")
	writeFixtureFile(t, dir, "Thumbs.db", "")
	writeFixtureFile(t, dir, ".git/config", "")
	writeFixtureFile(t, dir, "docs/.hidden", "")

	files, err := ScanEntity(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"Main.ino"}) {
		t.Fatalf("隐藏/系统文件应被过滤: %v", files)
	}
}

func TestScanRootExcludesSystemDirectories(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "Blink/Blink.ino", "")
	writeFixtureFile(t, root, "libraries/Servo/Servo.h", "")
	writeFixtureFile(t, root, "hardware/avr/boards.txt", "")
	writeFixtureFile(t, root, ".trash/old.ino", "")
	writeFixtureFile(t, root, "stray.txt", "")

	exclude := map[string]struct{}{"hardware": {}, "libraries": {}, "tools": {}}
	entries, err := ScanRoot(root, exclude)
	if err != nil {
		t.Fatalf("scan root error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("仅应包含 Blink 一个实体: %v", entries)
	}
	if !reflect.DeepEqual(entries["Blink"], []string{"Blink.ino"}) {
		t.Fatalf("Blink 文件列表不符: %v", entries["Blink"])
	}
}
