package toolchain

import "context"

// Result 捕获一次外部工具调用的输出与退出状态，不做任何解析，
// 编译器诊断原样透传给远端 agent。
type Result struct {
	Stdout   string `json:"output"`
	Stderr   string `json:"error"`
	ExitCode int    `json:"-"`
}

// Success 表示命令以零退出码结束。
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner 以同步、一次性、不可取消（调用方只能放弃等待）的方式执行外部
// 工具命令。dir 为空时继承服务进程的工作目录。测试通过注入假实现把
// 端点与真实工具链解耦。
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// RunnerFunc 将函数适配为 Runner。
type RunnerFunc func(ctx context.Context, dir string, args ...string) (Result, error)

// Run 使 RunnerFunc 满足 Runner。
func (f RunnerFunc) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	return f(ctx, dir, args...)
}
