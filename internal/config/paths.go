package config

import "path/filepath"

const (
	providersFile = "providers.json"
	artifactFile  = "config.json"
)

// StoragePaths 描述读写分离的存储位置
//
// BaseDir 是部署根目录，可能以只读方式挂载；所有写入都落在 WritableDir。
type StoragePaths struct {
	BaseDir     string
	WritableDir string

	// TemplateDir 为相对路径时相对 BaseDir 解析
	TemplateDir string
}

// ProvidersPath 订阅提供方列表的持久路径（只读）
func (p StoragePaths) ProvidersPath() string {
	return filepath.Join(p.BaseDir, providersFile)
}

// FallbackProvidersPath 订阅提供方列表的回退写入路径
func (p StoragePaths) FallbackProvidersPath() string {
	return filepath.Join(p.WritableDir, providersFile)
}

// ArtifactPath 生成引擎输出配置文件的固定路径
func (p StoragePaths) ArtifactPath() string {
	return filepath.Join(p.WritableDir, artifactFile)
}

// TemplatesPath 模板目录
func (p StoragePaths) TemplatesPath() string {
	if filepath.IsAbs(p.TemplateDir) {
		return p.TemplateDir
	}
	return filepath.Join(p.BaseDir, p.TemplateDir)
}

// resolved 将 BaseDir 和 WritableDir 转为绝对路径，子进程的工作目录依赖它
func (p StoragePaths) resolved() StoragePaths {
	if abs, err := filepath.Abs(p.BaseDir); err == nil {
		p.BaseDir = abs
	}
	if abs, err := filepath.Abs(p.WritableDir); err == nil {
		p.WritableDir = abs
	}
	return p
}
