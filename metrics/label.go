package metrics

// Label 指标标签，为指标添加维度信息。
//
// 标签命名使用小写字母和下划线，避免高基数取值（用户 ID、请求 ID 等）。
type Label struct {
	Key   string
	Value string
}

// L 便捷构造一个 Label。
//
//	counter.Inc(ctx, metrics.L("outcome", "success"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// 通用标签键
const (
	LabelService   = "service"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelCategory  = "category"
)

// 通用结果取值
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
