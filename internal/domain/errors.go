package domain

import (
	"fmt"
	"strings"
)

// ValidationError 调用方提交的数据不合法（JSON 解析失败等）
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// IOError 目录、文件读写失败
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// ProcessLaunchError 生成引擎无法启动（可执行文件不存在、无权限等）
type ProcessLaunchError struct {
	Command string
	Cause   error
}

func (e *ProcessLaunchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("无法启动生成引擎 %s: %v", e.Command, e.Cause)
}

func (e *ProcessLaunchError) Unwrap() error { return e.Cause }

// ProcessExecutionError 生成引擎运行后以非零状态退出
type ProcessExecutionError struct {
	Command  string
	ExitCode int
	// Stderr 引擎的错误输出（已截断）
	Stderr string
	Cause  error
}

func (e *ProcessExecutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("生成引擎 %s 退出码 %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessExecutionError) Unwrap() error { return e.Cause }

// ArtifactMissingError 引擎报告成功但没有产出配置文件
type ArtifactMissingError struct {
	Path string
}

func (e *ArtifactMissingError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("生成引擎已成功退出，但未找到产物文件 %s", e.Path)
}
