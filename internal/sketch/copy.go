package sketch

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// examplesDir 是 Arduino 库约定存放示例工程的子目录名。
const examplesDir = "examples"

// CopyExample 把库的 examples/<folder> 子树整体复制为一个新工程，保持相对
// 结构。库或示例目录缺失返回 ErrNotFound；目标工程已存在返回
// ErrAlreadyExists。新工程的缓存条目由复制过程中收集的相对路径直接构成，
// 不做二次扫描。返回复制出的相对路径列表。
func (s *Service) CopyExample(library, exampleFolder, newProject string) ([]string, error) {
	if exampleFolder == "" {
		return nil, tree.NewInvalidPath(tree.RootLibraries, library, exampleFolder)
	}

	// 示例目录路径同样经过越界校验，折叠后不得逃出库目录。
	srcDir, err := s.resolver.Resolve(tree.RootLibraries, library, path.Join(examplesDir, exampleFolder))
	if err != nil {
		return nil, err
	}

	info, statErr := os.Stat(srcDir)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return nil, tree.NewNotFound(tree.RootLibraries, library, path.Join(examplesDir, exampleFolder))
		}
		return nil, tree.NewReadError(tree.RootLibraries, library, srcDir, statErr)
	}
	if !info.IsDir() {
		return nil, tree.NewNotFound(tree.RootLibraries, library, path.Join(examplesDir, exampleFolder))
	}

	unlock := s.lockProject(newProject)
	defer unlock()

	destDir, err := s.resolver.EntityDir(tree.RootProjects, newProject)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(destDir); statErr == nil {
		return nil, tree.NewAlreadyExists(tree.RootProjects, newProject)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, tree.NewReadError(tree.RootProjects, newProject, "", statErr)
	}

	copied, err := copyFileTree(srcDir, destDir)
	if err != nil {
		// 半成品目录会让后续重试撞上 AlreadyExists，清掉再报错。
		os.RemoveAll(destDir)
		return nil, tree.NewWriteError(tree.RootProjects, newProject, "", err)
	}

	s.cache.Put(tree.RootProjects, newProject, copied)
	s.logger.WithFields(logrus.Fields{
		"action":  "copy_example",
		"library": library,
		"example": exampleFolder,
		"project": newProject,
		"files":   len(copied),
	}).Info("库示例已复制为新工程")
	return copied, nil
}

// copyFileTree 递归复制 srcDir 下的全部普通文件到 destDir，过滤规则与
// 扫描器一致，返回复制出的相对路径（正斜杠分隔、字典序）。
func copyFileTree(srcDir, destDir string) ([]string, error) {
	copied := []string{}
	err := fs.WalkDir(os.DirFS(srcDir), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if tree.SkipName(name) {
				return fs.SkipDir
			}
			return nil
		}
		if tree.SkipName(name) || !d.Type().IsRegular() {
			return nil
		}

		src := filepath.Join(srcDir, filepath.FromSlash(p))
		dst := filepath.Join(destDir, filepath.FromSlash(p))
		if err := copyFileContents(src, dst); err != nil {
			return err
		}
		copied = append(copied, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}
