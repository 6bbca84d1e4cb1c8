package classify

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextOperationKey 处理函数通过 c.Set 写入操作名的键，
// 中间件分类时将其作为 Info.Operation 使用。
const ContextOperationKey = "classify.operation"

// MiddlewareOption 中间件选项函数
type MiddlewareOption func(*middlewareOptions)

// middlewareOptions 中间件选项集合
type middlewareOptions struct {
	operation func(*gin.Context) string
}

// WithOperationFunc 自定义从请求中提取操作名的方式。
// 默认读取 handler 通过 c.Set(ContextOperationKey, ...) 写入的值。
func WithOperationFunc(fn func(*gin.Context) string) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.operation = fn
	}
}

// GinMiddleware 创建 Gin 错误处理中间件
//
// 处理链结束后，若 handler 通过 c.Error 上报了错误且尚未写出响应，
// 中间件将最后一个错误分类，映射为 HTTP 状态码并返回泰文提示体。
//
// 使用示例:
//
//	r := gin.New()
//	r.Use(classify.GinMiddleware(classifier))
//	r.POST("/borrow", func(c *gin.Context) {
//	    c.Set(classify.ContextOperationKey, "borrow_submit")
//	    if err := svc.Borrow(c.Request.Context()); err != nil {
//	        c.Error(err)
//	        return
//	    }
//	    c.JSON(200, gin.H{"status": "ok"})
//	})
func GinMiddleware(classifier Classifier, opts ...MiddlewareOption) gin.HandlerFunc {
	opt := middlewareOptions{
		operation: func(c *gin.Context) string {
			return c.GetString(ContextOperationKey)
		},
	}
	for _, o := range opts {
		o(&opt)
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		cls := classifier.Classify(err, Info{Operation: opt.operation(c)})
		c.AbortWithStatusJSON(HTTPStatus(cls.Kind), classifier.Message(cls))
	}
}

// HTTPStatus 返回错误种类对应的 HTTP 状态码
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNetwork, KindNetworkOffline, KindFirestoreUnavailable:
		return http.StatusServiceUnavailable
	case KindNetworkTimeout:
		return http.StatusGatewayTimeout
	case KindAuthRequired, KindAuthExpired:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindFirestoreQuota:
		return http.StatusTooManyRequests
	case KindValidationRequired, KindValidationFormat:
		return http.StatusBadRequest
	case KindValidationDuplicate, KindProfileDuplicate:
		return http.StatusConflict
	case KindProfileNotFound:
		return http.StatusNotFound
	case KindProfileIncomplete:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
