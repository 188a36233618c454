package repository

import (
	"strings"
	"sync"

	"github.com/lucksec/boxgen/internal/domain"
)

// OptionsStore 进程内的生成选项存储，不落盘
type OptionsStore interface {
	// Get 返回当前文档；值缺失或无法解析时返回空对象
	Get() domain.OptionsDocument

	// Replace 校验并整体替换文档，校验失败时不修改已有值
	Replace(text string) error

	// Clear 重置为空对象
	Clear()

	// Text 当前文档的格式化文本
	Text() string
}

type optionsStore struct {
	mu  sync.RWMutex
	raw string
}

// NewOptionsStore 创建选项存储，initial 为启动时的默认文档
func NewOptionsStore(initial string) OptionsStore {
	s := &optionsStore{raw: "{}"}
	if err := s.Replace(initial); err != nil {
		// 默认值无效时保持空对象
		s.raw = "{}"
	}
	return s
}

func (s *optionsStore) Get() domain.OptionsDocument {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	if raw == "" {
		return domain.OptionsDocument{}
	}
	v, err := decodeJSON([]byte(raw))
	if err != nil {
		return domain.OptionsDocument{}
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return domain.OptionsDocument{}
	}
	return domain.OptionsDocument(m)
}

func (s *optionsStore) Replace(text string) error {
	if strings.TrimSpace(text) == "" {
		return &domain.ValidationError{Field: "temp_json_data", Message: "Empty data"}
	}

	v, err := decodeJSON([]byte(text))
	if err != nil {
		return &domain.ValidationError{Field: "temp_json_data", Message: err.Error(), Cause: err}
	}
	if _, ok := v.(map[string]interface{}); !ok {
		return &domain.ValidationError{Field: "temp_json_data", Message: "options document must be a JSON object"}
	}

	pretty, err := prettyJSON(v)
	if err != nil {
		return &domain.ValidationError{Field: "temp_json_data", Message: err.Error(), Cause: err}
	}

	s.mu.Lock()
	s.raw = string(pretty)
	s.mu.Unlock()
	return nil
}

func (s *optionsStore) Clear() {
	s.mu.Lock()
	s.raw = "{}"
	s.mu.Unlock()
}

func (s *optionsStore) Text() string {
	out, err := prettyJSON(s.Get())
	if err != nil {
		return "{}"
	}
	return string(out)
}
