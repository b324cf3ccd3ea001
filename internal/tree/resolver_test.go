package tree

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("构造 Resolver 失败: %v", err)
	}
	return r
}

func TestResolveWithinEntity(t *testing.T) {
	r := newTestResolver(t)

	abs, err := r.Resolve(RootProjects, "Blink", "src/main.ino")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	want := filepath.Join(r.RootDir(RootProjects), "Blink", "src", "main.ino")
	if abs != want {
		t.Fatalf("路径不匹配: %s != %s", abs, want)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	r := newTestResolver(t)

	cases := []string{
		"../../etc/passwd",
		"..",
		"src/../../other/file.ino",
		"/../escape.ino",
		"//../escape.ino",
		`\..\escape.ino`,
	}
	for _, rel := range cases {
		if _, err := r.Resolve(RootProjects, "Blink", rel); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("%q 应返回 ErrInvalidPath，得到 %v", rel, err)
		}
	}
}

func TestResolveCleansInteriorDotDot(t *testing.T) {
	r := newTestResolver(t)

	abs, err := r.Resolve(RootProjects, "Blink", "src/../Blink.ino")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	want := filepath.Join(r.RootDir(RootProjects), "Blink", "Blink.ino")
	if abs != want {
		t.Fatalf("内部 .. 应被折叠: %s", abs)
	}
}

func TestEntityDirRejectsMultiSegmentNames(t *testing.T) {
	r := newTestResolver(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := r.EntityDir(RootProjects, name); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("实体名 %q 应被拒绝，得到 %v", name, err)
		}
	}
}

func TestResolveEmptyRelReturnsEntityDir(t *testing.T) {
	r := newTestResolver(t)

	abs, err := r.Resolve(RootLibraries, "Servo", "")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if abs != filepath.Join(r.RootDir(RootLibraries), "Servo") {
		t.Fatalf("空相对路径应返回实体目录: %s", abs)
	}
}
