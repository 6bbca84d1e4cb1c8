package retry

import (
	"context"

	"google.golang.org/grpc"

	"github.com/chaiyo/aegis/classify"
)

// UnaryClientInterceptor 返回带自动重试的 gRPC 一元客户端拦截器。
// 每次调用经由 Handler.Execute 执行，方法名作为分类操作标识，
// 失败后按分类结果退避重试，熔断器打开时直接拒绝。
//
// 注意: 重试会重复触发 invoker，仅适用于幂等的 RPC 方法，
// 非幂等方法请通过 WithoutMethods 排除。
//
// 使用示例:
//
//	conn, err := grpc.NewClient(target,
//	    grpc.WithUnaryInterceptor(retry.UnaryClientInterceptor(handler,
//	        retry.WithoutMethods("/loan.LoanService/CreateLoan"),
//	    )),
//	)
func UnaryClientInterceptor(h Handler, opts ...InterceptorOption) grpc.UnaryClientInterceptor {
	cfg := newInterceptorConfig(opts)

	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, callOpts ...grpc.CallOption) error {
		if !cfg.enabled(method) {
			return invoker(ctx, method, req, reply, cc, callOpts...)
		}

		_, err := h.Execute(ctx, func(ctx context.Context) (interface{}, error) {
			return nil, invoker(ctx, method, req, reply, cc, callOpts...)
		}, WithInfo(classify.Info{Operation: method}))
		return err
	}
}

// StreamClientInterceptor 返回带自动重试的 gRPC 流式客户端拦截器。
// 仅重试流的建立，流建立后的收发错误不在重试范围内。
func StreamClientInterceptor(h Handler, opts ...InterceptorOption) grpc.StreamClientInterceptor {
	cfg := newInterceptorConfig(opts)

	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, callOpts ...grpc.CallOption) (grpc.ClientStream, error) {
		if !cfg.enabled(method) {
			return streamer(ctx, desc, cc, method, callOpts...)
		}

		result, err := h.Execute(ctx, func(ctx context.Context) (interface{}, error) {
			return streamer(ctx, desc, cc, method, callOpts...)
		}, WithInfo(classify.Info{Operation: method}))
		if err != nil {
			return nil, err
		}
		stream, _ := result.(grpc.ClientStream)
		return stream, nil
	}
}
