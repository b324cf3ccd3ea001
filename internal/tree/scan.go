package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// 系统杂项文件不进入缓存，对远端 agent 没有意义。
var ignoredFiles = map[string]struct{}{
	".DS_Store": {},
	"Thumbs.db": {},
}

// SkipName 判定某个目录/文件名是否应被扫描与复制流程一并忽略。
func SkipName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := ignoredFiles[name]
	return ok
}

// ScanEntity 递归收集 dir 下所有普通文件相对实体根的路径（正斜杠分隔，
// 不记录目录本身）。fs.WalkDir 在每层目录内按字典序遍历，因此同一文件系统
// 状态下重复扫描产出完全一致的列表。
func ScanEntity(dir string) ([]string, error) {
	files := []string{}
	err := fs.WalkDir(os.DirFS(dir), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if SkipName(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ScanRoot 扫描根目录的全部一级实体目录并逐一收集文件列表。
// exclude 中出现的目录名（如 sketchbook 下的 hardware/libraries/tools）被跳过。
func ScanRoot(dir string, exclude map[string]struct{}) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]string, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || SkipName(entry.Name()) {
			continue
		}
		if _, excluded := exclude[strings.ToLower(entry.Name())]; excluded {
			continue
		}

		files, err := ScanEntity(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		result[entry.Name()] = files
	}
	return result, nil
}
