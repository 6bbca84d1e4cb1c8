package classify

import "github.com/chaiyo/aegis/errx"

// 预定义错误
var (
	// ErrInvalidOverride 配置中的策略覆盖不合法（未知种类或负值）
	ErrInvalidOverride = errx.WithCode(
		errx.New("classify: invalid override"), "classify.invalid_override")
)
