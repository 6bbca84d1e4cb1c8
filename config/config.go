// Package config 为 aegis 提供统一的配置加载能力。
// 基于 Viper 实现，支持多源配置加载与热更新。
//
// 特性：
//   - 多源加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 环境特定配置 > 基础配置
//   - 热更新：监听配置文件变化，按 key 推送变更事件
//
// 弹性策略（重试次数、退避延迟、熔断阈值）作为配置数据加载，
// 代码中的缺省值仅在配置缺失时生效。
//
// ## 基本使用
//
//	loader, _ := config.New(&config.Config{
//	    Name:      "resilience",
//	    Paths:     []string{"./config"},
//	    EnvPrefix: "AEGIS",
//	})
//	if err := loader.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	var rc retry.Config
//	if err := loader.UnmarshalKey("retry.firestore", &rc); err != nil {
//	    log.Fatal(err)
//	}
//
// 监听配置变化：
//
//	ch, _ := loader.Watch(ctx, "retry.firestore.max_retries")
//	for event := range ch {
//	    logger.Info("config changed", logx.Any("value", event.Value))
//	}
package config

import (
	"context"
	"strings"
	"time"
)

// Loader 配置加载器接口，负责加载、解析和监听配置变化。
type Loader interface {
	// Load 从所有来源加载配置并初始化内部状态
	Load(ctx context.Context) error

	// Get 获取原始配置值，key 不存在时返回 nil
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 订阅指定 key 的变更事件，通过 ctx 取消订阅
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string
	Value     any
	OldValue  any
	Source    string // "file" | "env"
	Timestamp time.Time
}

// Config 加载器配置
type Config struct {
	// Name 配置文件名称，不含扩展名，默认 "config"
	Name string
	// Paths 配置文件搜索路径，默认 [".", "./config"]
	Paths []string
	// FileType 配置文件类型，默认 "yaml"
	FileType string
	// EnvPrefix 环境变量前缀，默认 "AEGIS"
	EnvPrefix string
}

func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{".", "./config"}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "AEGIS"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
	return nil
}

// New 创建配置加载器。cfg 为 nil 时使用默认配置。
func New(cfg *Config, opts ...Option) (Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newLoader(cfg, opts...)
}
