package classify

// Metrics 指标常量定义
const (
	// MetricErrorsTotal 被分类的错误总数 (Counter)
	MetricErrorsTotal = "classify_errors_total"

	// LabelKind 错误种类标签
	LabelKind = "kind"
)
