package repository

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lucksec/boxgen/internal/domain"
)

// TemplateRepository 模板仓库接口
type TemplateRepository interface {
	// ListTemplates 列出所有模板，按名称升序，序号从 1 开始
	ListTemplates() ([]domain.Template, error)
}

// templateRepository 模板仓库实现
type templateRepository struct {
	dir string
	ext string
}

// NewTemplateRepository 创建模板仓库实例，dir 下每个 ext 后缀的文件是一个模板
func NewTemplateRepository(dir, ext string) TemplateRepository {
	return &templateRepository{dir: dir, ext: ext}
}

// ListTemplates 列出所有模板；目录不存在时返回空列表
func (r *templateRepository) ListTemplates() ([]domain.Template, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Template{}, nil
		}
		return nil, &domain.IOError{Op: "list", Path: r.dir, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), r.ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), r.ext)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	templates := make([]domain.Template, 0, len(names))
	for i, name := range names {
		templates = append(templates, domain.Template{Index: i + 1, Name: name})
	}
	return templates, nil
}

// TemplateLabels 返回页面展示用的 "序号、名称" 标签
func TemplateLabels(templates []domain.Template) []string {
	labels := make([]string, 0, len(templates))
	for _, t := range templates {
		labels = append(labels, fmt.Sprintf("%d、%s", t.Index, t.Name))
	}
	return labels
}
