package sketch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// SketchExtension 是默认主文件的扩展名，未显式给出路径时使用 <工程名>.ino。
const SketchExtension = ".ino"

// CreateProject 创建新工程并写入首个文件。目标目录已存在时返回
// ErrAlreadyExists 且不碰磁盘内容；成功后缓存条目恰为刚写入的那一个文件。
// 返回实际写入的相对路径（rel 为空时为 <name>.ino）。
func (s *Service) CreateProject(name, content, rel string) (string, error) {
	if rel == "" {
		rel = name + SketchExtension
	}

	// 先做路径校验，非法路径在任何文件系统访问之前拒绝。
	abs, err := s.resolver.Resolve(tree.RootProjects, name, rel)
	if err != nil {
		return "", err
	}
	cleaned := tree.NormalizeRel(rel)

	unlock := s.lockProject(name)
	defer unlock()

	dir, err := s.resolver.EntityDir(tree.RootProjects, name)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(dir); statErr == nil {
		return "", tree.NewAlreadyExists(tree.RootProjects, name)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return "", tree.NewReadError(tree.RootProjects, name, "", statErr)
	}

	if err := writeFileCreatingParents(abs, content); err != nil {
		// 半成品目录会让重试撞上 AlreadyExists，清掉再报错。
		os.RemoveAll(dir)
		return "", tree.NewWriteError(tree.RootProjects, name, cleaned, err)
	}

	s.cache.Put(tree.RootProjects, name, []string{cleaned})
	s.logger.WithFields(logrus.Fields{
		"action":  "create_project",
		"project": name,
		"file":    cleaned,
	}).Info("工程已创建")
	return cleaned, nil
}

// SaveSketchFile 在既有工程内写入/覆盖一个文件，必要时创建中间目录。
// 工程目录不存在时返回 ErrNotFound。写入成功后仅向缓存条目增量插入该
// 路径，不对整个实体做重扫。
func (s *Service) SaveSketchFile(name, content, rel string) (string, error) {
	if rel == "" {
		rel = name + SketchExtension
	}

	abs, err := s.resolver.Resolve(tree.RootProjects, name, rel)
	if err != nil {
		return "", err
	}
	cleaned := tree.NormalizeRel(rel)

	unlock := s.lockProject(name)
	defer unlock()

	dir, err := s.resolver.EntityDir(tree.RootProjects, name)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(dir); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", tree.NewNotFound(tree.RootProjects, name, "")
		}
		return "", tree.NewReadError(tree.RootProjects, name, "", statErr)
	}

	if err := writeFileCreatingParents(abs, content); err != nil {
		return "", tree.NewWriteError(tree.RootProjects, name, cleaned, err)
	}

	s.cache.Append(tree.RootProjects, name, cleaned)
	s.logger.WithFields(logrus.Fields{
		"action":  "save_sketch_file",
		"project": name,
		"file":    cleaned,
	}).Info("文件已写入")
	return cleaned, nil
}

func writeFileCreatingParents(abs, content string) error {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(content), 0o644)
}
