package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/lucksec/boxgen/internal/config"
	"github.com/lucksec/boxgen/internal/domain"
	"github.com/lucksec/boxgen/internal/logger"
	"github.com/lucksec/boxgen/internal/repository"
)

// GenerationService 配置生成服务接口
type GenerationService interface {
	// Generate 使用当前选项和指定模板生成配置，返回产物内容
	// templateIndexRaw 为调用方提交的 1 起始序号，无法解析时使用模板 0
	Generate(ctx context.Context, templateIndexRaw string) ([]byte, error)
}

// generationService 配置生成服务实现
type generationService struct {
	store   repository.OptionsStore
	engine  Engine
	paths   config.StoragePaths
	isolate bool
}

// NewGenerationService 创建配置生成服务实例
func NewGenerationService(store repository.OptionsStore, engine Engine, cfg *config.Config) GenerationService {
	return &generationService{
		store:   store,
		engine:  engine,
		paths:   cfg.Paths,
		isolate: cfg.Engine.IsolateArtifacts,
	}
}

// ResolveTemplateIndex 将 1 起始的序号转换为引擎使用的 0 起始序号
//
// 仅由 ASCII 数字组成的输入返回 value-1（"0" 得到 "-1"，不做上界检查），
// 其它输入（含空串）返回 "0"。
func ResolveTemplateIndex(raw string) string {
	if raw == "" {
		return "0"
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "0"
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(n-1, 10)
}

// Generate 生成配置
func (s *generationService) Generate(ctx context.Context, templateIndexRaw string) ([]byte, error) {
	log := logger.GetLogger()

	templateIndex := ResolveTemplateIndex(templateIndexRaw)
	artifactPath := s.artifactPath()
	if s.isolate {
		defer os.Remove(artifactPath)
	}

	// 引擎的输出位置始终由这里决定，与文档中的值无关
	snapshot := s.store.Get().Clone()
	snapshot[domain.SaveConfigPathKey] = artifactPath

	optionsJSON, err := repository.CompactJSON(snapshot)
	if err != nil {
		return nil, &domain.ValidationError{Field: "temp_json_data", Message: err.Error(), Cause: err}
	}

	// 清理上一次的产物，避免引擎未写文件时误读旧结果
	if err := os.Remove(artifactPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("清理旧产物失败: path=%s, error=%v", artifactPath, err)
	}

	log.Debug("生成配置: raw_index=%q, template_index=%s, artifact=%s", templateIndexRaw, templateIndex, artifactPath)
	if err := s.engine.Generate(ctx, templateIndex, optionsJSON, artifactPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error("生成引擎未产出文件: path=%s", artifactPath)
			return nil, &domain.ArtifactMissingError{Path: artifactPath}
		}
		return nil, &domain.IOError{Op: "read", Path: artifactPath, Cause: err}
	}

	log.Info("配置生成完成: template_index=%s, bytes=%d", templateIndex, len(data))
	return data, nil
}

func (s *generationService) artifactPath() string {
	if !s.isolate {
		return s.paths.ArtifactPath()
	}
	return filepath.Join(s.paths.WritableDir, fmt.Sprintf("config-%s.json", uuid.New().String()))
}
