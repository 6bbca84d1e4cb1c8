package classify

import (
	"context"
	"time"

	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// classifier 分类器实现（非导出）
type classifier struct {
	rules     []Rule
	overrides map[Kind]Override
	offline   func() bool
	logger    logx.Logger
	meter     metrics.Meter
}

// newClassifier 创建分类器实例（内部函数）
func newClassifier(cfg *Config, opt options) (Classifier, error) {
	logger := logx.Discard()
	if opt.logger != nil {
		logger = opt.logger.WithNamespace("classify")
	}
	meter := opt.meter
	if meter == nil {
		meter = metrics.Noop()
	}

	rules := opt.rules
	if rules == nil {
		rules = DefaultRules()
	}

	c := &classifier{
		rules:     rules,
		overrides: cfg.Overrides,
		offline:   opt.offline,
		logger:    logger,
		meter:     meter,
	}

	logger.Info("classifier created",
		logx.Int("rules", len(rules)),
		logx.Int("overrides", len(cfg.Overrides)))

	return c, nil
}

// Classify 对错误进行归类
func (c *classifier) Classify(err error, info Info) Classification {
	ev := newEvidence(err, info, c.offline)

	kind := KindUnknown
	for _, r := range c.rules {
		if r.Match(ev) {
			kind = r.Kind
			break
		}
	}

	cls := c.resolve(kind, err, info)
	c.observe(cls)
	return cls
}

// Message 返回分类结论对应的用户提示文案
func (c *classifier) Message(cls Classification) Message {
	return messageFor(cls)
}

// MessageFor 直接从原始错误生成用户提示
func (c *classifier) MessageFor(err error, info Info) Message {
	return messageFor(c.Classify(err, info))
}

// resolve 按策略表和配置覆盖生成分类结论。
// 自定义规则可能引入策略表之外的种类，此时沿用 unknown 的保守策略，
// 仅保留规则给出的种类标识。
func (c *classifier) resolve(kind Kind, err error, info Info) Classification {
	p, ok := kindPolicies[kind]
	if !ok {
		p = kindPolicies[KindUnknown]
		p.Category = CategoryUnknown
	}

	cls := Classification{
		Category:   p.Category,
		Kind:       kind,
		Severity:   p.Severity,
		Retryable:  p.Retryable,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
		Info:       info,
		Timestamp:  time.Now(),
		Cause:      err,
	}

	if ov, ok := c.overrides[kind]; ok {
		if ov.MaxRetries > 0 {
			cls.MaxRetries = ov.MaxRetries
		}
		if ov.RetryDelay > 0 {
			cls.RetryDelay = ov.RetryDelay
		}
	}

	return cls
}

// observe 记录分类日志与指标
func (c *classifier) observe(cls Classification) {
	c.logger.Debug("error classified",
		logx.String("category", string(cls.Category)),
		logx.String("kind", string(cls.Kind)),
		logx.String("severity", cls.Severity.String()),
		logx.Bool("retryable", cls.Retryable),
		logx.String("operation", cls.Info.Operation),
		logx.Err(cls.Cause))

	if counter, err := c.meter.Counter(MetricErrorsTotal, "Classified errors"); err == nil {
		counter.Inc(context.Background(),
			metrics.L(metrics.LabelCategory, string(cls.Category)),
			metrics.L(LabelKind, string(cls.Kind)))
	}
}
