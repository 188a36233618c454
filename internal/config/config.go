package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// envPrefix 环境变量覆盖前缀，例如 BOXGEN_BASE_DIR
const envPrefix = "BOXGEN_"

// Config 应用配置
type Config struct {
	// 存储路径（部署根目录只读，可写目录用于落盘）
	Paths StoragePaths

	// 模板文件扩展名
	TemplateExt string

	// HTTP 服务配置
	Server ServerConfig

	// 生成引擎配置
	Engine EngineConfig

	// 日志配置
	Log LogConfig

	// 实际加载的配置文件路径（未找到时为空）
	ConfigPath string
}

// ServerConfig HTTP 服务相关配置
type ServerConfig struct {
	// 监听地址
	Listen string

	// 读取请求超时
	ReadTimeout time.Duration

	// 收到退出信号后的优雅退出等待时间
	ShutdownTimeout time.Duration

	// 应用名（fiber AppName）
	AppName string
}

// EngineConfig 外部生成引擎相关配置
type EngineConfig struct {
	// 解释器或可执行文件路径
	ExecPath string

	// 引擎脚本（相对部署根目录），为空时直接执行 ExecPath
	Script string

	// 追加到子进程环境中的模块搜索路径变量名
	PathEnv string

	// 单次生成的超时，0 表示不限制
	Timeout time.Duration

	// 为每次请求使用独立的产物文件
	IsolateArtifacts bool
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别：DEBUG, INFO, WARN, ERROR
	Level string

	// 是否启用控制台输出
	EnableConsole bool

	// 是否启用文件输出
	EnableFile bool

	// 日志目录
	LogDir string

	// 日志文件名（如果为空，则使用默认格式）
	LogFile string
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Paths: StoragePaths{
			BaseDir:     ".",
			WritableDir: os.TempDir(),
			TemplateDir: "config_template",
		},
		TemplateExt: ".json",
		Server: ServerConfig{
			Listen:          "127.0.0.1:5000",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AppName:         "boxgen",
		},
		Engine: EngineConfig{
			ExecPath: "python3",
			Script:   "main.py",
			PathEnv:  "PYTHONPATH",
		},
		Log: LogConfig{
			Level:         "INFO",
			EnableConsole: true,
			// 部署根目录可能只读，默认不写日志文件
			EnableFile: false,
			LogDir:     "logs",
		},
	}
}

// searchPaths 返回配置文件的候选路径
func searchPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	paths := []string{".boxgen.ini"}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".boxgen", ".boxgen.ini"))
	}
	return paths
}

// LoadConfig 加载配置：默认值 -> ini 文件 -> .env / 环境变量
// explicit 非空时只读取该文件，且文件必须存在
func LoadConfig(explicit string) (*Config, error) {
	cfg := Default()

	for _, path := range searchPaths(explicit) {
		if _, err := os.Stat(path); err != nil {
			if explicit != "" {
				return nil, fmt.Errorf("配置文件 %s 不可用: %w", path, err)
			}
			continue
		}
		file, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
		if err := cfg.applyINI(file); err != nil {
			return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
		}
		cfg.ConfigPath = path
		break
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Paths = cfg.Paths.resolved()

	if err := ensureDirs(cfg); err != nil {
		return nil, fmt.Errorf("创建目录失败: %w", err)
	}
	return cfg, nil
}

// applyINI 读取 ini 中的配置值，空值保持默认
func (c *Config) applyINI(file *ini.File) error {
	section := file.Section("default")
	setString(&c.Paths.BaseDir, section.Key("base_dir").String())
	setString(&c.Paths.WritableDir, section.Key("writable_dir").String())
	setString(&c.Paths.TemplateDir, section.Key("template_dir").String())
	setString(&c.TemplateExt, section.Key("template_ext").String())

	section = file.Section("server")
	setString(&c.Server.Listen, section.Key("listen").String())
	setString(&c.Server.AppName, section.Key("app_name").String())
	if err := setDuration(&c.Server.ReadTimeout, "server.read_timeout", section.Key("read_timeout").String()); err != nil {
		return err
	}
	if err := setDuration(&c.Server.ShutdownTimeout, "server.shutdown_timeout", section.Key("shutdown_timeout").String()); err != nil {
		return err
	}

	section = file.Section("engine")
	setString(&c.Engine.ExecPath, section.Key("exec_path").String())
	if section.HasKey("script") {
		c.Engine.Script = strings.TrimSpace(section.Key("script").String())
	}
	setString(&c.Engine.PathEnv, section.Key("path_env").String())
	if err := setDuration(&c.Engine.Timeout, "engine.timeout", section.Key("timeout").String()); err != nil {
		return err
	}
	setBool(&c.Engine.IsolateArtifacts, section.Key("isolate_artifacts").String())

	section = file.Section("log")
	setString(&c.Log.Level, section.Key("level").String())
	setBool(&c.Log.EnableConsole, section.Key("enable_console").String())
	setBool(&c.Log.EnableFile, section.Key("enable_file").String())
	setString(&c.Log.LogDir, section.Key("log_dir").String())
	setString(&c.Log.LogFile, section.Key("log_file").String())
	return nil
}

// applyEnv 使用 BOXGEN_* 环境变量覆盖配置
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) string {
		v, _ := lookup(envPrefix + name)
		return v
	}

	setString(&c.Paths.BaseDir, get("BASE_DIR"))
	setString(&c.Paths.WritableDir, get("WRITABLE_DIR"))
	setString(&c.Paths.TemplateDir, get("TEMPLATE_DIR"))
	setString(&c.TemplateExt, get("TEMPLATE_EXT"))
	setString(&c.Server.Listen, get("LISTEN"))
	setString(&c.Engine.ExecPath, get("ENGINE_EXEC_PATH"))
	if v, ok := lookup(envPrefix + "ENGINE_SCRIPT"); ok {
		c.Engine.Script = strings.TrimSpace(v)
	}
	setString(&c.Engine.PathEnv, get("ENGINE_PATH_ENV"))
	if err := setDuration(&c.Engine.Timeout, envPrefix+"ENGINE_TIMEOUT", get("ENGINE_TIMEOUT")); err != nil {
		return err
	}
	setBool(&c.Engine.IsolateArtifacts, get("ENGINE_ISOLATE_ARTIFACTS"))
	setString(&c.Log.Level, get("LOG_LEVEL"))
	return nil
}

// ensureDirs 确保可写目录存在，部署根目录不做任何写入
func ensureDirs(config *Config) error {
	if err := os.MkdirAll(config.Paths.WritableDir, 0755); err != nil {
		return fmt.Errorf("创建目录 %s 失败: %w", config.Paths.WritableDir, err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*dst = v == "on" || v == "yes"
		return
	}
	*dst = b
}

func setDuration(dst *time.Duration, name, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s 不是合法的时长: %w", name, err)
	}
	*dst = d
	return nil
}
