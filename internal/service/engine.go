package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
	"github.com/lucksec/boxgen/internal/logger"
)

// 保留的引擎输出上限
const maxCapturedOutput = 8 * 1024

const waitDelay = 2 * time.Second

// Engine 外部配置生成引擎
//
// 引擎根据模板序号与选项 JSON 生成配置，并写入 outputPath（选项中的
// save_config_path 与其一致）。成功返回 nil。
type Engine interface {
	Generate(ctx context.Context, templateIndex, optionsJSON, outputPath string) error
}

// processEngine 以子进程方式调用生成引擎
type processEngine struct {
	cfg     config.EngineConfig
	baseDir string
}

// NewProcessEngine 创建子进程引擎，工作目录为部署根目录
func NewProcessEngine(cfg *config.Config) Engine {
	return &processEngine{
		cfg:     cfg.Engine,
		baseDir: cfg.Paths.BaseDir,
	}
}

// Generate 启动引擎并阻塞等待退出
func (e *processEngine) Generate(ctx context.Context, templateIndex, optionsJSON, outputPath string) error {
	log := logger.GetLogger()

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	args := e.args(templateIndex, optionsJSON)
	command := e.describe()

	cmd := exec.CommandContext(ctx, e.cfg.ExecPath, args...)
	cmd.Dir = e.baseDir
	cmd.Env = e.environ()
	// 引擎被终止后，其子进程可能仍持有输出管道
	cmd.WaitDelay = waitDelay

	stdout := &tailBuffer{max: maxCapturedOutput}
	stderr := &tailBuffer{max: maxCapturedOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Info("启动生成引擎: command=%s, template_index=%s, output=%s", command, templateIndex, outputPath)

	if err := cmd.Start(); err != nil {
		log.Error("生成引擎启动失败: command=%s, error=%v", command, err)
		return &domain.ProcessLaunchError{Command: command, Cause: err}
	}

	err := cmd.Wait()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		log.Debug("生成引擎输出: %s", out)
	}
	if err != nil {
		execErr := &domain.ProcessExecutionError{
			Command:  command,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Cause:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			execErr.Cause = errors.Join(err, ctxErr)
		}
		log.Error("生成引擎执行失败: command=%s, exit=%d, stderr=%s", command, execErr.ExitCode, strings.TrimSpace(execErr.Stderr))
		return execErr
	}

	if s := strings.TrimSpace(stderr.String()); s != "" {
		log.Warn("生成引擎 stderr: %s", s)
	}
	log.Info("生成引擎执行成功: template_index=%s", templateIndex)
	return nil
}

// args 构造引擎参数：[script] --template_index N --temp_json_data JSON
func (e *processEngine) args(templateIndex, optionsJSON string) []string {
	var args []string
	if script := e.scriptPath(); script != "" {
		args = append(args, script)
	}
	return append(args, "--template_index", templateIndex, "--temp_json_data", optionsJSON)
}

func (e *processEngine) scriptPath() string {
	if e.cfg.Script == "" {
		return ""
	}
	if filepath.IsAbs(e.cfg.Script) {
		return e.cfg.Script
	}
	return filepath.Join(e.baseDir, e.cfg.Script)
}

func (e *processEngine) describe() string {
	if script := e.scriptPath(); script != "" {
		return e.cfg.ExecPath + " " + script
	}
	return e.cfg.ExecPath
}

// environ 在当前环境基础上设置模块搜索路径，使引擎能从部署根目录加载自身模块
func (e *processEngine) environ() []string {
	envMap := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}
	if e.cfg.PathEnv != "" {
		envMap[e.cfg.PathEnv] = e.baseDir
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}

// tailBuffer 只保留最后 max 字节的输出
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
