package sketch

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// sketchbook 根目录下不属于工程的系统目录。
var projectRootExclusions = map[string]struct{}{
	"hardware":  {},
	"libraries": {},
	"tools":     {},
}

// Service 组合缓存、解析器与按需回退扫描。每个服务进程持有一份实例并注入
// 到全部请求处理器中。
type Service struct {
	cache    *tree.Cache
	resolver *tree.Resolver
	logger   *logrus.Logger

	// scans 合并同一实体上并发的 miss 扫描，磁盘只被遍历一次。
	scans singleflight.Group

	mu    sync.Mutex
	locks map[string]*projectLock
}

// projectLock 通过引用计数在最后一个持有者释放后回收，避免锁表无界增长。
type projectLock struct {
	mu   sync.Mutex
	refs int
}

// NewService 构造查找服务。cache 传入空实例即可，启动时调用 Warm 填充。
func NewService(cache *tree.Cache, resolver *tree.Resolver, logger *logrus.Logger) *Service {
	return &Service{
		cache:    cache,
		resolver: resolver,
		logger:   logger,
		locks:    make(map[string]*projectLock),
	}
}

// Warm 在启动阶段对两个根做一次全量递归扫描并填充缓存。根目录不存在时
// 先行创建，与空 sketchbook 的首次启动兼容。
func (s *Service) Warm() error {
	for _, root := range []tree.Root{tree.RootProjects, tree.RootLibraries} {
		dir := s.resolver.RootDir(root)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tree.NewWriteError(root, "", dir, err)
		}

		var exclude map[string]struct{}
		if root == tree.RootProjects {
			exclude = projectRootExclusions
		}
		entries, err := tree.ScanRoot(dir, exclude)
		if err != nil {
			return tree.NewReadError(root, "", dir, err)
		}
		s.cache.Replace(root, entries)

		s.logger.WithFields(logrus.Fields{
			"action":   "cache_warm",
			"root":     string(root),
			"entities": len(entries),
		}).Info("目录缓存构建完成")
	}
	return nil
}

// ProjectExists 直接探测磁盘，存在性必须反映实时状态而非缓存。
func (s *Service) ProjectExists(name string) (bool, error) {
	return s.entityExists(tree.RootProjects, name)
}

// LibraryExists 同 ProjectExists，面向 libraries 根。
func (s *Service) LibraryExists(name string) (bool, error) {
	return s.entityExists(tree.RootLibraries, name)
}

func (s *Service) entityExists(root tree.Root, name string) (bool, error) {
	dir, err := s.resolver.EntityDir(root, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, tree.NewReadError(root, name, dir, err)
	}
	return info.IsDir(), nil
}

// ListProjects 返回缓存当前已知的工程名有序集合，不触发回退扫描。
func (s *Service) ListProjects() []string {
	return s.cache.Names(tree.RootProjects)
}

// ListLibraries 返回缓存当前已知的库名有序集合，不触发回退扫描。
func (s *Service) ListLibraries() []string {
	return s.cache.Names(tree.RootLibraries)
}

// CachedProjects 返回工程缓存的条目数，供诊断端输出。
func (s *Service) CachedProjects() int {
	return s.cache.Len(tree.RootProjects)
}

// CachedLibraries 返回库缓存的条目数，供诊断端输出。
func (s *Service) CachedLibraries() int {
	return s.cache.Len(tree.RootLibraries)
}

// ListFiles 返回实体的缓存文件列表。缓存 miss 时对该实体做一次按需扫描：
// 目录确实不存在返回 ErrNotFound 且不落空条目；存在则写入缓存后返回。
func (s *Service) ListFiles(root tree.Root, name string) ([]string, error) {
	if files, ok := s.cache.Get(root, name); ok {
		return files, nil
	}
	return s.scanOnDemand(root, name)
}

func (s *Service) scanOnDemand(root tree.Root, name string) ([]string, error) {
	key := string(root) + "/" + name
	v, err, _ := s.scans.Do(key, func() (interface{}, error) {
		dir, err := s.resolver.EntityDir(root, name)
		if err != nil {
			return nil, err
		}

		info, statErr := os.Stat(dir)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				return nil, tree.NewNotFound(root, name, "")
			}
			return nil, tree.NewReadError(root, name, dir, statErr)
		}
		if !info.IsDir() {
			return nil, tree.NewNotFound(root, name, "")
		}

		files, scanErr := tree.ScanEntity(dir)
		if scanErr != nil {
			return nil, tree.NewReadError(root, name, dir, scanErr)
		}

		s.cache.Put(root, name, files)
		s.logger.WithFields(logrus.Fields{
			"action": "cache_fallback_scan",
			"root":   string(root),
			"entity": name,
			"files":  len(files),
		}).Info("缓存 miss，已按需扫描")
		return files, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// ReadFile 解析路径后直接读取磁盘字节。文件内容从不进缓存，缓存只存文件名。
func (s *Service) ReadFile(root tree.Root, name, rel string) ([]byte, error) {
	if rel == "" {
		return nil, tree.NewInvalidPath(root, name, rel)
	}
	abs, err := s.resolver.Resolve(root, name, rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tree.NewNotFound(root, name, rel)
		}
		return nil, tree.NewReadError(root, name, rel, err)
	}
	return data, nil
}

// MainSketchPath 返回工程主 .ino 文件（<name>/<name>.ino）的绝对路径，
// 文件缺失时返回 ErrNotFound。编译/烧录端点在调用外部工具前先走这里。
func (s *Service) MainSketchPath(name string) (string, error) {
	abs, err := s.resolver.Resolve(tree.RootProjects, name, name+".ino")
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", tree.NewNotFound(tree.RootProjects, name, name+".ino")
		}
		return "", tree.NewReadError(tree.RootProjects, name, name+".ino", err)
	}
	return abs, nil
}

// ProjectDir 返回工程目录的绝对路径，供外部工具以目录为单位调用。
func (s *Service) ProjectDir(name string) (string, error) {
	return s.resolver.EntityDir(tree.RootProjects, name)
}

// lockProject 对单个工程名加互斥锁：同名写操作串行，不同工程互不阻塞。
func (s *Service) lockProject(name string) func() {
	s.mu.Lock()
	lock := s.locks[name]
	if lock == nil {
		lock = &projectLock{}
		s.locks[name] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, name)
		}
		s.mu.Unlock()
	}
}
