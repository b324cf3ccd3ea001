package tree

import (
	"sort"
	"sync"
)

// Cache 持有 projects/libraries 两个互不影响的 名称 → 相对文件列表 映射。
// 读取获得快照副本，写入整体替换条目，读者永远观察不到半成品列表。
type Cache struct {
	projects  namespace
	libraries namespace
}

type namespace struct {
	mu      sync.RWMutex
	entries map[string][]string
}

// NewCache 构造空缓存，启动阶段由 Service.Warm 填充。
func NewCache() *Cache {
	return &Cache{
		projects:  namespace{entries: map[string][]string{}},
		libraries: namespace{entries: map[string][]string{}},
	}
}

func (c *Cache) ns(root Root) *namespace {
	if root == RootLibraries {
		return &c.libraries
	}
	return &c.projects
}

// Get 返回某实体的缓存文件列表副本；未缓存时第二个返回值为 false。
func (c *Cache) Get(root Root, name string) ([]string, bool) {
	ns := c.ns(root)
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	files, ok := ns.entries[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), files...), true
}

// Put 整体替换实体的文件列表，存入副本以隔离调用方后续修改。
func (c *Cache) Put(root Root, name string, files []string) {
	copied := append([]string(nil), files...)

	ns := c.ns(root)
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.entries[name] = copied
}

// Append 向已缓存的列表插入一个相对路径（已存在则不动）。
// 实体尚未缓存时不做任何事：创建单文件条目会掩盖磁盘上的其余文件，
// 留给 staleness fallback 做一次完整扫描更安全。
func (c *Cache) Append(root Root, name, rel string) {
	ns := c.ns(root)
	ns.mu.Lock()
	defer ns.mu.Unlock()

	files, ok := ns.entries[name]
	if !ok {
		return
	}
	for _, existing := range files {
		if existing == rel {
			return
		}
	}
	ns.entries[name] = append(append([]string(nil), files...), rel)
}

// Names 返回某根类别下已缓存实体名的有序集合。
func (c *Cache) Names(root Root) []string {
	ns := c.ns(root)
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	names := make([]string, 0, len(ns.entries))
	for name := range ns.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回某根类别下的缓存条目数，供诊断端输出。
func (c *Cache) Len(root Root) int {
	ns := c.ns(root)
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.entries)
}

// Replace 以一次启动扫描的结果整体替换某根类别的全部条目。
func (c *Cache) Replace(root Root, entries map[string][]string) {
	copied := make(map[string][]string, len(entries))
	for name, files := range entries {
		copied[name] = append([]string(nil), files...)
	}

	ns := c.ns(root)
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.entries = copied
}
