package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/sketch-hub/sketch-hub/internal/tree"
)

// NewExecRunner 返回基于 os/exec 的 Runner。cliPath 指向 arduino-cli
// 可执行文件；timeout 大于 0 时在其之上附加调用级超时。
func NewExecRunner(cliPath string, timeout time.Duration) Runner {
	return &execRunner{cliPath: cliPath, timeout: timeout}
}

type execRunner struct {
	cliPath string
	timeout time.Duration
}

func (r *execRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.cliPath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 非零退出不是本层的错误：输出已捕获，交由调用方透传。
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// 连进程都没能启动（二进制缺失、超时杀死等）。
		return result, tree.NewExternalToolError(r.cliPath, err)
	}
	return result, nil
}
