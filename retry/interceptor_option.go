package retry

// InterceptorOption 拦截器选项函数类型
type InterceptorOption func(*interceptorConfig)

// interceptorConfig 拦截器内部配置
type interceptorConfig struct {
	allow map[string]struct{}
	deny  map[string]struct{}
}

func newInterceptorConfig(opts []InterceptorOption) *interceptorConfig {
	cfg := &interceptorConfig{
		allow: make(map[string]struct{}),
		deny:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// enabled 判断方法是否启用重试。
// 排除名单优先于启用名单，启用名单为空时默认全部启用。
func (c *interceptorConfig) enabled(method string) bool {
	if _, ok := c.deny[method]; ok {
		return false
	}
	if len(c.allow) == 0 {
		return true
	}
	_, ok := c.allow[method]
	return ok
}

// WithMethods 仅对指定方法启用重试，未指定时默认全部启用
func WithMethods(methods ...string) InterceptorOption {
	return func(cfg *interceptorConfig) {
		for _, m := range methods {
			cfg.allow[m] = struct{}{}
		}
	}
}

// WithoutMethods 对指定方法禁用重试，优先级高于 WithMethods
func WithoutMethods(methods ...string) InterceptorOption {
	return func(cfg *interceptorConfig) {
		for _, m := range methods {
			cfg.deny[m] = struct{}{}
		}
	}
}
