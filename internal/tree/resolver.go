package tree

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Root 标识实体所属的顶层目录类别。projects 可读写，libraries 只读。
type Root string

const (
	RootProjects  Root = "projects"
	RootLibraries Root = "libraries"
)

// Resolver 将逻辑名称与相对路径映射为绝对路径，并在任何文件系统访问之前
// 拦截越界路径。自身不检查路径是否存在。
type Resolver struct {
	projectsDir  string
	librariesDir string
}

// NewResolver 解析两个根目录为绝对路径后构造 Resolver，整个进程复用一份。
func NewResolver(projectsDir, librariesDir string) (*Resolver, error) {
	if projectsDir == "" {
		return nil, errors.New("projects dir required")
	}
	if librariesDir == "" {
		return nil, errors.New("libraries dir required")
	}

	absProjects, err := filepath.Abs(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve projects dir: %w", err)
	}
	absLibraries, err := filepath.Abs(librariesDir)
	if err != nil {
		return nil, fmt.Errorf("resolve libraries dir: %w", err)
	}

	return &Resolver{projectsDir: absProjects, librariesDir: absLibraries}, nil
}

// RootDir 返回某个根类别对应的绝对目录。
func (r *Resolver) RootDir(root Root) string {
	if root == RootLibraries {
		return r.librariesDir
	}
	return r.projectsDir
}

// EntityDir 返回实体目录的绝对路径。name 必须是单一路径段。
func (r *Resolver) EntityDir(root Root, name string) (string, error) {
	if !validEntityName(name) {
		return "", newError(ErrInvalidPath, root, name, "", errors.New("entity name must be a single path segment"))
	}
	return filepath.Join(r.RootDir(root), name), nil
}

// Resolve 返回实体内 rel 对应的绝对路径；rel 为空时返回实体目录本身。
// 任何解析后逃逸实体目录的相对路径都以 ErrInvalidPath 拒绝。
func (r *Resolver) Resolve(root Root, name, rel string) (string, error) {
	entityDir, err := r.EntityDir(root, name)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return entityDir, nil
	}

	cleaned := NormalizeRel(rel)
	if cleaned == "" {
		return "", newError(ErrInvalidPath, root, name, rel, nil)
	}

	abs := filepath.Join(entityDir, filepath.FromSlash(cleaned))
	if abs != entityDir && !strings.HasPrefix(abs, entityDir+string(filepath.Separator)) {
		return "", newError(ErrInvalidPath, root, name, rel, nil)
	}
	return abs, nil
}

// NormalizeRel 将相对路径规整为正斜杠分隔、无前导斜杠的形式；
// 残留 ".." 前缀的路径返回空串由调用方拒绝。前导斜杠在折叠之前剥离，
// 以根写法夹带 ".." 的路径（如 "/../x"）不会被 Clean 吞掉。
func NormalizeRel(rel string) string {
	slashed := strings.ReplaceAll(rel, "\\", "/")
	slashed = strings.TrimLeft(slashed, "/")
	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ""
	}
	return cleaned
}

func validEntityName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
