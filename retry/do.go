package retry

import "context"

// Do 是 Execute 的泛型封装，免去调用方的类型断言。
//
// 使用示例:
//
//	loan, err := retry.Do(ctx, handler, func(ctx context.Context) (*Loan, error) {
//	    return svc.LoadLoan(ctx, loanID)
//	}, retry.WithInfo(classify.Info{Operation: "loan_load"}))
func Do[T any](ctx context.Context, h Handler, op func(ctx context.Context) (T, error), opts ...CallOption) (T, error) {
	result, err := h.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return op(ctx)
	}, opts...)

	var v T
	if err != nil {
		return v, err
	}
	if typed, ok := result.(T); ok {
		v = typed
	}
	return v, nil
}

// DoManual 是 ExecuteManual 的泛型封装
func DoManual[T any](ctx context.Context, h Handler, op func(ctx context.Context) (T, error), opts ...CallOption) (T, *Token, error) {
	result, tok, err := h.ExecuteManual(ctx, func(ctx context.Context) (interface{}, error) {
		return op(ctx)
	}, opts...)

	var v T
	if typed, ok := result.(T); ok {
		v = typed
	}
	return v, tok, err
}
