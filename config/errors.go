package config

import "github.com/chaiyo/aegis/errx"

// ErrEmptyConfig 加载完成后配置为空
var ErrEmptyConfig = errx.New("config: no settings loaded")

// WrapLoadError 包装加载错误
func WrapLoadError(err error, msg string) error {
	return errx.Wrapf(err, "load config: %s", msg)
}
