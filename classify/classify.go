// Package classify 提供了错误分类组件，将任意运行时错误归类为结构化的分类结论。
//
// classify 是 aegis 弹性层的基础组件，它提供了：
// - 规则化的错误识别，按优先级匹配网络、认证、存储、校验、档案五类错误
// - 每种错误的严重级别、可重试性与建议重试策略
// - 面向终端用户的泰文提示文案（标题、说明、建议、图标）
// - 指数退避与抖动的延迟计算函数
// - 开箱即用的 Gin 中间件，将分类结论映射为 HTTP 响应
//
// ## 基本使用
//
//	classifier, _ := classify.New(nil, classify.WithLogger(logger))
//
//	cls := classifier.Classify(err, classify.Info{Operation: "borrow_submit"})
//	if cls.Retryable {
//	    delay := classify.RetryDelay(cls.RetryDelay, 1, 10*time.Second)
//	    // delay 后重试
//	}
//
//	// 展示给用户的提示
//	msg := classifier.Message(cls)
//	fmt.Println(msg.Title, msg.Suggestion)
//
// ## 自定义识别规则
//
// 识别规则是数据而非控制流，新的后端错误形态通过规则扩展，
// 不需要修改任何调用方：
//
//	rules := append([]classify.Rule{{
//	    Kind:  classify.KindFirestoreQuota,
//	    Match: func(e classify.Evidence) bool { return strings.Contains(e.Message, "billing") },
//	}}, classify.DefaultRules()...)
//
//	classifier, _ := classify.New(nil, classify.WithRules(rules...))
//
// ## Gin 中间件
//
//	r := gin.New()
//	r.Use(classify.GinMiddleware(classifier))
package classify

import (
	"time"

	"github.com/chaiyo/aegis/errx"
)

// ========================================
// 类型定义 (Type Definitions)
// ========================================

// Category 错误的大类归属
type Category string

const (
	// CategoryNetwork 网络类错误（断网、超时、连接失败）
	CategoryNetwork Category = "network"
	// CategoryAuth 认证与授权类错误
	CategoryAuth Category = "authentication"
	// CategoryFirestore 后端存储类错误
	CategoryFirestore Category = "firestore"
	// CategoryValidation 输入校验类错误
	CategoryValidation Category = "validation"
	// CategoryProfile 用户档案类错误
	CategoryProfile Category = "profile"
	// CategoryUnknown 未能识别的错误
	CategoryUnknown Category = "unknown"
)

// Kind 错误的细分种类，是消息文案和重试策略的主键
type Kind string

const (
	// KindNetwork 一般网络错误（连接被拒、DNS 失败等）
	KindNetwork Kind = "network"
	// KindNetworkOffline 设备离线
	KindNetworkOffline Kind = "network_offline"
	// KindNetworkTimeout 请求超时
	KindNetworkTimeout Kind = "network_timeout"
	// KindAuthRequired 需要登录
	KindAuthRequired Kind = "auth_required"
	// KindAuthExpired 登录已过期
	KindAuthExpired Kind = "auth_expired"
	// KindPermissionDenied 权限不足
	KindPermissionDenied Kind = "permission_denied"
	// KindFirestoreUnavailable 存储服务不可用
	KindFirestoreUnavailable Kind = "firestore_unavailable"
	// KindFirestoreQuota 存储配额耗尽
	KindFirestoreQuota Kind = "firestore_quota"
	// KindValidationRequired 缺少必填字段
	KindValidationRequired Kind = "validation_required"
	// KindValidationFormat 字段格式不正确
	KindValidationFormat Kind = "validation_format"
	// KindValidationDuplicate 数据重复
	KindValidationDuplicate Kind = "validation_duplicate"
	// KindProfileNotFound 档案不存在
	KindProfileNotFound Kind = "profile_not_found"
	// KindProfileIncomplete 档案信息不完整
	KindProfileIncomplete Kind = "profile_incomplete"
	// KindProfileDuplicate 档案已存在
	KindProfileDuplicate Kind = "profile_duplicate"
	// KindUnknown 未知错误
	KindUnknown Kind = "unknown"
)

// AllKinds 返回全部已声明的错误种类，顺序稳定。
// 每个种类都保证在消息目录中有对应的文案条目。
func AllKinds() []Kind {
	return []Kind{
		KindNetwork, KindNetworkOffline, KindNetworkTimeout,
		KindAuthRequired, KindAuthExpired, KindPermissionDenied,
		KindFirestoreUnavailable, KindFirestoreQuota,
		KindValidationRequired, KindValidationFormat, KindValidationDuplicate,
		KindProfileNotFound, KindProfileIncomplete, KindProfileDuplicate,
		KindUnknown,
	}
}

// Severity 错误严重级别，有序：low < medium < high < critical
type Severity int

const (
	// SeverityLow 低：用户输入问题，修正后即可继续
	SeverityLow Severity = iota
	// SeverityMedium 中：暂时性问题，可能自行恢复
	SeverityMedium
	// SeverityHigh 高：影响核心流程，计入熔断统计
	SeverityHigh
	// SeverityCritical 紧急：当前环境下操作不可能成功，永不自动重试
	SeverityCritical
)

// String 返回严重级别的字符串表示
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalJSON 将严重级别序列化为字符串
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON 从字符串反序列化严重级别
func (s *Severity) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	parsed, err := ParseSeverity(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity 解析严重级别字符串
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, errx.Errorf("classify: invalid severity %q", s)
	}
}

// Info 调用方提供的分类上下文，原样带入分类结论。
type Info struct {
	// Operation 产生错误的业务操作名（如 "profile_create"、"borrow_submit"）。
	// 以 "profile_" 开头的操作参与档案类错误识别，"validation" 表示校验场景。
	Operation string `json:"operation,omitempty"`

	// Offline 调用方感知到的离线状态。
	// 置位时强制归类为 network_offline，优先于其他所有规则。
	Offline bool `json:"offline,omitempty"`

	// Attrs 附加诊断字段，分类本身不使用，仅透传给日志和调用方
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Classification 一次错误分类的结论。
//
// 每次 Classify 调用都会创建一个全新的值，创建后不再修改。
type Classification struct {
	// Category 错误大类
	Category Category `json:"category"`
	// Kind 错误细分种类
	Kind Kind `json:"kind"`
	// Severity 严重级别
	Severity Severity `json:"severity"`
	// Retryable 重试是否可能成功
	Retryable bool `json:"retryable"`
	// MaxRetries 该种类错误建议的重试次数上限
	MaxRetries int `json:"max_retries"`
	// RetryDelay 首次重试前建议的基础延迟
	RetryDelay time.Duration `json:"retry_delay"`
	// Info 调用方提供的上下文，原样透传
	Info Info `json:"info"`
	// Timestamp 分类发生的时间
	Timestamp time.Time `json:"timestamp"`
	// Cause 被分类的原始错误，仅用于日志，不参与序列化
	Cause error `json:"-"`
}

// Message 面向终端用户的错误提示。
//
// 文案为泰文，是设备借还系统前端直接展示的内容。
type Message struct {
	// Title 提示标题
	Title string `json:"title"`
	// Message 问题说明
	Message string `json:"message"`
	// Suggestion 建议用户采取的动作
	Suggestion string `json:"suggestion"`
	// Icon 展示图标（emoji）
	Icon string `json:"icon"`
	// Severity 对应分类的严重级别
	Severity Severity `json:"severity"`
	// Retryable 对应分类的可重试性
	Retryable bool `json:"retryable"`
	// Timestamp 提示生成时间
	Timestamp time.Time `json:"timestamp"`
}

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Classifier 错误分类器核心接口
type Classifier interface {
	// Classify 对错误进行归类，返回结构化的分类结论。
	//
	// 永不 panic：任何输入（包括 nil）至少归类为
	// category=unknown、severity=medium、retryable=true。
	//
	// 使用示例:
	//
	//	cls := classifier.Classify(err, classify.Info{Operation: "profile_create"})
	//	if !cls.Retryable {
	//	    return classifier.Message(cls)
	//	}
	Classify(err error, info Info) Classification

	// Message 返回分类结论对应的用户提示文案。
	// 未识别的种类返回通用兜底文案。
	Message(cls Classification) Message

	// MessageFor 直接从原始错误生成用户提示，
	// 等价于 Message(Classify(err, info))。
	MessageFor(err error, info Info) Message
}

// ========================================
// 配置定义 (Configuration)
// ========================================

// Config 分类器配置
type Config struct {
	// Overrides 按错误种类覆盖默认重试策略。
	// 零值字段保持默认：MaxRetries 和 RetryDelay 仅在大于 0 时生效。
	Overrides map[Kind]Override `json:"overrides" yaml:"overrides" mapstructure:"overrides"`
}

// Override 单个错误种类的重试策略覆盖
type Override struct {
	// MaxRetries 覆盖该种类的重试次数上限（0 表示保持默认）
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryDelay 覆盖该种类的基础重试延迟（0 表示保持默认）
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`
}

// validate 验证配置
func (c *Config) validate() error {
	for kind, ov := range c.Overrides {
		if _, ok := kindPolicies[kind]; !ok {
			return errx.Wrapf(ErrInvalidOverride, "unknown kind %q", kind)
		}
		if ov.MaxRetries < 0 {
			return errx.Wrapf(ErrInvalidOverride, "kind %q: negative max_retries", kind)
		}
		if ov.RetryDelay < 0 {
			return errx.Wrapf(ErrInvalidOverride, "kind %q: negative retry_delay", kind)
		}
	}
	return nil
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建错误分类器实例
// 这是标准的工厂函数，支持在不依赖其他容器的情况下独立实例化
//
// 参数:
//   - cfg: 分类器配置，nil 时使用全部默认策略
//   - opts: 可选参数 (Logger, Meter, Rules, OfflineProbe)
//
// 使用示例:
//
//	classifier, err := classify.New(&classify.Config{
//	    Overrides: map[classify.Kind]classify.Override{
//	        classify.KindFirestoreUnavailable: {MaxRetries: 8},
//	    },
//	}, classify.WithLogger(logger))
func New(cfg *Config, opts ...Option) (Classifier, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// 应用选项
	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	return newClassifier(cfg, opt)
}
