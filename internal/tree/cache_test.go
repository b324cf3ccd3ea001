package tree

import (
	"reflect"
	"sync"
	"testing"
)

func TestCacheGetReturnsSnapshotCopy(t *testing.T) {
	c := NewCache()
	c.Put(RootProjects, "Blink", []string{"Blink.ino"})

	files, ok := c.Get(RootProjects, "Blink")
	if !ok {
		t.Fatalf("应命中缓存")
	}
	files[0] = "mutated"

	again, _ := c.Get(RootProjects, "Blink")
	if again[0] != "Blink.ino" {
		t.Fatalf("读取方修改不应影响缓存: %v", again)
	}
}

func TestCacheNamespacesAreIndependent(t *testing.T) {
	c := NewCache()
	c.Put(RootProjects, "Shared", []string{"p.ino"})
	c.Put(RootLibraries, "Shared", []string{"lib.h"})

	p, _ := c.Get(RootProjects, "Shared")
	l, _ := c.Get(RootLibraries, "Shared")
	if reflect.DeepEqual(p, l) {
		t.Fatalf("两个命名空间应互不影响: %v vs %v", p, l)
	}
}

func TestCacheAppend(t *testing.T) {
	c := NewCache()
	c.Put(RootProjects, "Blink", []string{"Blink.ino"})

	c.Append(RootProjects, "Blink", "notes.txt")
	c.Append(RootProjects, "Blink", "Blink.ino") // 已存在，不重复

	files, _ := c.Get(RootProjects, "Blink")
	if !reflect.DeepEqual(files, []string{"Blink.ino", "notes.txt"}) {
		t.Fatalf("append 结果不符: %v", files)
	}
}

func TestCacheAppendIgnoresUnknownEntity(t *testing.T) {
	c := NewCache()
	c.Append(RootProjects, "Ghost", "a.ino")
	if _, ok := c.Get(RootProjects, "Ghost"); ok {
		t.Fatalf("append 不应凭空创建条目")
	}
}

func TestCacheNamesSorted(t *testing.T) {
	c := NewCache()
	c.Put(RootLibraries, "Servo", nil)
	c.Put(RootLibraries, "Bounce2", nil)
	c.Put(RootLibraries, "Adafruit_GFX", nil)

	names := c.Names(RootLibraries)
	want := []string{"Adafruit_GFX", "Bounce2", "Servo"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("名称应排序: %v", names)
	}
}

func TestCacheReplace(t *testing.T) {
	c := NewCache()
	c.Put(RootProjects, "Old", []string{"old.ino"})

	c.Replace(RootProjects, map[string][]string{"New": {"new.ino"}})

	if _, ok := c.Get(RootProjects, "Old"); ok {
		t.Fatalf("Replace 后旧条目应消失")
	}
	if c.Len(RootProjects) != 1 {
		t.Fatalf("条目数应为 1，得到 %d", c.Len(RootProjects))
	}
}

func TestCacheConcurrentReadersAndWriters(t *testing.T) {
	c := NewCache()
	c.Put(RootProjects, "Blink", []string{"Blink.ino"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Put(RootProjects, "Blink", []string{"Blink.ino", "extra.h"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				files, ok := c.Get(RootProjects, "Blink")
				if ok && len(files) == 0 {
					t.Error("读取到空列表快照")
					return
				}
			}
		}()
	}
	wg.Wait()
}
