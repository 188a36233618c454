package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
)

// ProviderRepository 订阅提供方列表仓库接口
//
// 读取走部署根目录下的 providers.json，写入只落到可写目录；
// 在只读部署环境中，更新仅在本次进程的可写目录内生效。
type ProviderRepository interface {
	// Read 读取提供方列表，文件不存在时返回空对象
	Read() (interface{}, error)

	// Text 格式化后的提供方列表
	Text() (string, error)

	// Parse 校验调用方提交的提供方列表文本
	Parse(text string) (interface{}, error)

	// Write 写入回退路径
	Write(value interface{}) error
}

// providerRepository 提供方仓库实现
type providerRepository struct {
	paths config.StoragePaths
}

// NewProviderRepository 创建提供方仓库实例
func NewProviderRepository(paths config.StoragePaths) ProviderRepository {
	return &providerRepository{paths: paths}
}

// Read 读取持久路径；允许 // 与 /* */ 注释
func (r *providerRepository) Read() (interface{}, error) {
	path := r.paths.ProvidersPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, &domain.IOError{Op: "read", Path: path, Cause: err}
	}

	v, err := decodeJSON(jsonc.ToJSON(data))
	if err != nil {
		return nil, &domain.IOError{Op: "parse", Path: path, Cause: err}
	}
	return v, nil
}

// Text 格式化后的提供方列表
func (r *providerRepository) Text() (string, error) {
	v, err := r.Read()
	if err != nil {
		return "", err
	}
	out, err := prettyJSON(v)
	if err != nil {
		return "", &domain.IOError{Op: "encode", Path: r.paths.ProvidersPath(), Cause: err}
	}
	return string(out), nil
}

// Parse 校验提交的文本
func (r *providerRepository) Parse(text string) (interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ValidationError{Field: "providers_data", Message: "Empty data"}
	}
	v, err := decodeJSON([]byte(text))
	if err != nil {
		return nil, &domain.ValidationError{Field: "providers_data", Message: err.Error(), Cause: err}
	}
	return v, nil
}

// Write 序列化后写入可写目录，持久路径不做任何写入
func (r *providerRepository) Write(value interface{}) error {
	path := r.paths.FallbackProvidersPath()

	data, err := prettyJSON(value)
	if err != nil {
		return &domain.IOError{Op: "encode", Path: path, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &domain.IOError{Op: "write", Path: path, Cause: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &domain.IOError{Op: "write", Path: path, Cause: err}
	}
	return nil
}
