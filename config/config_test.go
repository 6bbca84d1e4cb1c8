package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chaiyo/aegis/testkit"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

// TestLoaderLoad 测试配置加载的完整优先级链
func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "resilience.yaml"), `
retry:
  default:
    max_retries: 3
    base_delay: 1s
    max_delay: 10s
  firestore:
    max_retries: 5
classify:
  overrides:
    firestore_quota:
      max_retries: 2
`)

	// 环境特定配置：提升 firestore 重试上限
	writeFile(t, filepath.Join(tmpDir, "resilience.staging.yaml"), `
retry:
  firestore:
    max_retries: 7
`)

	os.Setenv("AEGIS_ENV", "staging")
	os.Setenv("AEGIS_RETRY_DEFAULT_MAX_RETRIES", "4")
	defer func() {
		os.Unsetenv("AEGIS_ENV")
		os.Unsetenv("AEGIS_RETRY_DEFAULT_MAX_RETRIES")
	}()

	loader, err := New(&Config{
		Name:  "resilience",
		Paths: []string{tmpDir},
	})
	if err != nil {
		t.Fatalf("New() 返回错误：%v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() 返回错误：%v", err)
	}

	// 环境变量优先级最高（注意环境变量取到的是字符串）
	if got := loader.Get("retry.default.max_retries"); got != "4" {
		t.Errorf("retry.default.max_retries = %v，期望 4（来自环境变量）", got)
	}

	// 环境特定配置覆盖基础配置
	if got := loader.Get("retry.firestore.max_retries"); got != 7 {
		t.Errorf("retry.firestore.max_retries = %v，期望 7（来自 staging 配置）", got)
	}

	// 基础配置兜底
	if got := loader.Get("retry.default.base_delay"); got != "1s" {
		t.Errorf("retry.default.base_delay = %v，期望 1s", got)
	}
}

// TestUnmarshalKey 测试反序列化到策略结构体
func TestUnmarshalKey(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "resilience.yaml"), `
retry:
  network:
    max_retries: 3
    base_delay: 1s
    max_delay: 8s
    jitter: true
    breaker_threshold: 5
    breaker_timeout: 60s
`)

	loader, err := New(&Config{Name: "resilience", Paths: []string{tmpDir}})
	if err != nil {
		t.Fatalf("New() 返回错误：%v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() 返回错误：%v", err)
	}

	var policy struct {
		MaxRetries       int           `mapstructure:"max_retries"`
		BaseDelay        time.Duration `mapstructure:"base_delay"`
		MaxDelay         time.Duration `mapstructure:"max_delay"`
		Jitter           bool          `mapstructure:"jitter"`
		BreakerThreshold int           `mapstructure:"breaker_threshold"`
		BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
	}
	if err := loader.UnmarshalKey("retry.network", &policy); err != nil {
		t.Fatalf("UnmarshalKey() 返回错误：%v", err)
	}

	if policy.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d，期望 3", policy.MaxRetries)
	}
	if policy.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v，期望 1s", policy.BaseDelay)
	}
	if policy.MaxDelay != 8*time.Second {
		t.Errorf("MaxDelay = %v，期望 8s", policy.MaxDelay)
	}
	if !policy.Jitter {
		t.Error("Jitter = false，期望 true")
	}
	if policy.BreakerTimeout != time.Minute {
		t.Errorf("BreakerTimeout = %v，期望 60s", policy.BreakerTimeout)
	}
}

// TestLoadEmpty 测试空配置校验
func TestLoadEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	loader, err := New(&Config{Name: "absent", Paths: []string{tmpDir}, EnvPrefix: "NOPREFIX"})
	if err != nil {
		t.Fatalf("New() 返回错误：%v", err)
	}

	err = loader.Load(context.Background())
	if err == nil {
		t.Fatal("Load() 未返回错误，期望空配置错误")
	}
}

// TestWatch 测试配置热更新事件
func TestWatch(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "resilience.yaml")
	writeFile(t, configPath, "retry:\n  default:\n    max_retries: 3\n")

	loader, err := New(&Config{Name: "resilience", Paths: []string{tmpDir}})
	if err != nil {
		t.Fatalf("New() 返回错误：%v", err)
	}

	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	if err := loader.Load(ctx); err != nil {
		t.Fatalf("Load() 返回错误：%v", err)
	}

	ch, err := loader.Watch(ctx, "retry.default.max_retries")
	if err != nil {
		t.Fatalf("Watch() 返回错误：%v", err)
	}

	// 给 fsnotify 一点建立监听的时间，再修改配置文件
	time.Sleep(100 * time.Millisecond)
	writeFile(t, configPath, "retry:\n  default:\n    max_retries: 6\n")

	select {
	case event := <-ch:
		if event.Key != "retry.default.max_retries" {
			t.Errorf("event.Key = %q，期望 retry.default.max_retries", event.Key)
		}
		if event.Value != 6 {
			t.Errorf("event.Value = %v，期望 6", event.Value)
		}
		if event.Source != "file" {
			t.Errorf("event.Source = %q，期望 file", event.Source)
		}
	case <-time.After(3 * time.Second):
		t.Skip("未在时限内收到文件变更事件（文件系统通知不可用）")
	}
}

// TestNewDefaults 测试默认值填充
func TestNewDefaults(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) 返回错误：%v", err)
	}

	impl, ok := l.(*loader)
	if !ok {
		t.Fatalf("New() 返回类型 = %T，期望 *loader", l)
	}
	if impl.cfg.Name != "config" {
		t.Errorf("默认 Name = %q，期望 config", impl.cfg.Name)
	}
	if impl.cfg.FileType != "yaml" {
		t.Errorf("默认 FileType = %q，期望 yaml", impl.cfg.FileType)
	}
	if impl.cfg.EnvPrefix != "AEGIS" {
		t.Errorf("默认 EnvPrefix = %q，期望 AEGIS", impl.cfg.EnvPrefix)
	}
}
