package classify

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/chaiyo/aegis/errx"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ========================================
// 证据归一化 (Evidence Normalization)
// ========================================

// Evidence 是规则求值的输入：从原始错误归一化出的证据。
// Message、Code、Operation 均已转为小写，规则内无需再做大小写处理。
type Evidence struct {
	// Message 错误消息
	Message string
	// Code 机器可读错误码，来源依次为 errx 错误码、Code() 方法、gRPC 状态码
	Code string
	// Operation 调用方声明的操作名
	Operation string
	// Offline 是否处于离线状态
	Offline bool
	// Err 原始错误，供基于类型的判定（errx.Is / errx.As）使用
	Err error
}

// newEvidence 从原始错误和调用上下文构造证据
func newEvidence(err error, info Info, probe func() bool) Evidence {
	e := Evidence{
		Operation: strings.ToLower(info.Operation),
		Offline:   info.Offline,
		Err:       err,
	}
	if !e.Offline && probe != nil {
		e.Offline = probe()
	}
	if err != nil {
		e.Message = strings.ToLower(err.Error())
		e.Code = strings.ToLower(extractCode(err))
	}
	return e
}

// extractCode 从错误链中提取机器可读错误码
func extractCode(err error) string {
	if code := errx.GetCode(err); code != "" {
		return code
	}
	var coder interface{ Code() string }
	if errx.As(err, &coder) {
		return coder.Code()
	}
	if s, ok := status.FromError(err); ok && s != nil && s.Code() != codes.OK {
		return grpcCodeNames[s.Code()]
	}
	return ""
}

// grpcCodeNames 将 gRPC 状态码映射为 Firestore SDK 风格的 kebab-case 错误码，
// 使 gRPC 后端的错误能复用同一套识别规则。
var grpcCodeNames = map[codes.Code]string{
	codes.Canceled:           "cancelled",
	codes.Unknown:            "unknown",
	codes.InvalidArgument:    "invalid-argument",
	codes.DeadlineExceeded:   "deadline-exceeded",
	codes.NotFound:           "not-found",
	codes.AlreadyExists:      "already-exists",
	codes.PermissionDenied:   "permission-denied",
	codes.ResourceExhausted:  "resource-exhausted",
	codes.FailedPrecondition: "failed-precondition",
	codes.Aborted:            "aborted",
	codes.OutOfRange:         "out-of-range",
	codes.Unimplemented:      "unimplemented",
	codes.Internal:           "internal",
	codes.Unavailable:        "unavailable",
	codes.DataLoss:           "data-loss",
	codes.Unauthenticated:    "unauthenticated",
}

// ========================================
// 识别规则 (Classification Rules)
// ========================================

// Rule 一条错误识别规则。
//
// 规则按切片顺序求值，第一条命中的规则决定错误种类。
// 规则之间的互斥性由判定条件的构造保证，而不是由求值顺序补救。
type Rule struct {
	// Kind 命中后归入的错误种类
	Kind Kind

	// Match 判定函数，必须是无副作用的纯函数
	Match func(e Evidence) bool
}

// DefaultRules 返回默认识别规则链的副本。
//
// 求值顺序：离线 -> 超时 -> 网络 -> 认证 -> 存储 -> 校验 -> 档案，
// 全部未命中时分类器回退到 unknown。
// 调用方可以在副本上追加或前置自定义规则后经 WithRules 注入。
func DefaultRules() []Rule {
	return slices.Clone(defaultRules)
}

var defaultRules = []Rule{
	// 离线状态优先于一切：设备离线时任何操作都不可能成功
	{Kind: KindNetworkOffline, Match: func(e Evidence) bool {
		return e.Offline
	}},
	{Kind: KindNetworkTimeout, Match: isTimeout},
	{Kind: KindNetwork, Match: isNetwork},
	{Kind: KindAuthExpired, Match: func(e Evidence) bool {
		return hasAny(e.Code, "expired") ||
			hasAny(e.Message, "token expired", "session expired", "login expired")
	}},
	{Kind: KindPermissionDenied, Match: func(e Evidence) bool {
		return hasAny(e.Code, "permission-denied", "permission_denied") ||
			hasAny(e.Message, "permission denied", "insufficient permission", "forbidden", "access denied")
	}},
	{Kind: KindAuthRequired, Match: func(e Evidence) bool {
		return strings.HasPrefix(e.Code, "auth/") || e.Code == "unauthenticated" ||
			hasAny(e.Message, "unauthorized", "unauthenticated", "not logged in", "login required", "sign in", "authorization")
	}},
	{Kind: KindFirestoreQuota, Match: func(e Evidence) bool {
		return e.Code == "resource-exhausted" ||
			hasAny(e.Message, "quota", "resource exhausted", "too many requests")
	}},
	{Kind: KindFirestoreUnavailable, Match: func(e Evidence) bool {
		return e.Code == "unavailable" || strings.HasPrefix(e.Code, "firestore/") ||
			hasAny(e.Message, "firestore", "service unavailable", "backend error")
	}},
	{Kind: KindValidationRequired, Match: func(e Evidence) bool {
		return hasAny(e.Message, "required", "must not be empty", "is missing", "missing field")
	}},
	{Kind: KindValidationFormat, Match: func(e Evidence) bool {
		return e.Code == "invalid-argument" ||
			hasAny(e.Message, "invalid", "format", "malformed", "must be a")
	}},
	// 档案场景下的重复判给 profile_duplicate，这里排除
	{Kind: KindValidationDuplicate, Match: func(e Evidence) bool {
		return !profileScoped(e) && isDuplicate(e)
	}},
	{Kind: KindValidationFormat, Match: func(e Evidence) bool {
		return e.Operation == "validation"
	}},
	{Kind: KindProfileDuplicate, Match: func(e Evidence) bool {
		return profileScoped(e) && isDuplicate(e)
	}},
	{Kind: KindProfileIncomplete, Match: func(e Evidence) bool {
		return profileScoped(e) && hasAny(e.Message, "incomplete", "not complete")
	}},
	{Kind: KindProfileNotFound, Match: func(e Evidence) bool {
		return profileScoped(e) && (e.Code == "not-found" ||
			hasAny(e.Message, "not found", "does not exist", "no such") ||
			strings.HasPrefix(e.Operation, "profile_"))
	}},
}

// isTimeout 判定超时类错误：类型判定优先，字符串匹配兜底
func isTimeout(e Evidence) bool {
	if errx.Is(e.Err, context.DeadlineExceeded) || errx.Is(e.Err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errx.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return e.Code == "deadline-exceeded" ||
		hasAny(e.Message, "timeout", "timed out", "deadline exceeded")
}

// isNetwork 判定一般网络错误
func isNetwork(e Evidence) bool {
	var opErr *net.OpError
	if errx.As(e.Err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errx.As(e.Err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errx.As(e.Err, &urlErr) {
		return true
	}
	if errx.Is(e.Err, net.ErrClosed) || errx.Is(e.Err, io.ErrUnexpectedEOF) {
		return true
	}
	return hasAny(e.Message,
		"network", "connection refused", "connection reset", "connection closed",
		"no such host", "broken pipe", "unreachable",
		"econnrefused", "econnreset", "failed to fetch", "fetch failed")
}

// isDuplicate 判定重复数据类错误
func isDuplicate(e Evidence) bool {
	return e.Code == "already-exists" ||
		hasAny(e.Message, "duplicate", "already exists", "already in use", "already registered")
}

// profileScoped 判定证据是否带有档案场景标记
func profileScoped(e Evidence) bool {
	return strings.Contains(e.Message, "profile") || strings.HasPrefix(e.Operation, "profile_")
}

// hasAny 判断 s 是否包含任一标记串
func hasAny(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ========================================
// 默认策略表 (Default Policies)
// ========================================

// policy 某错误种类的默认分类策略
type policy struct {
	Category   Category
	Severity   Severity
	Retryable  bool
	MaxRetries int
	RetryDelay time.Duration
}

// kindPolicies 各错误种类的默认策略表。
// 数值按设备借还场景标定：存储不可用给足重试空间，配额耗尽拉长间隔，
// 认证、校验、档案类错误重试无意义，交还给用户处理。
var kindPolicies = map[Kind]policy{
	KindNetwork:              {CategoryNetwork, SeverityMedium, true, 3, 2 * time.Second},
	KindNetworkOffline:       {CategoryNetwork, SeverityCritical, true, 3, 5 * time.Second},
	KindNetworkTimeout:       {CategoryNetwork, SeverityMedium, true, 3, 3 * time.Second},
	KindAuthRequired:         {CategoryAuth, SeverityHigh, false, 0, 0},
	KindAuthExpired:          {CategoryAuth, SeverityHigh, false, 0, 0},
	KindPermissionDenied:     {CategoryAuth, SeverityHigh, false, 0, 0},
	KindFirestoreUnavailable: {CategoryFirestore, SeverityHigh, true, 5, 5 * time.Second},
	KindFirestoreQuota:       {CategoryFirestore, SeverityHigh, true, 2, 10 * time.Second},
	KindValidationRequired:   {CategoryValidation, SeverityLow, false, 0, 0},
	KindValidationFormat:     {CategoryValidation, SeverityLow, false, 0, 0},
	KindValidationDuplicate:  {CategoryValidation, SeverityLow, false, 0, 0},
	KindProfileNotFound:      {CategoryProfile, SeverityMedium, false, 0, 0},
	KindProfileIncomplete:    {CategoryProfile, SeverityLow, false, 0, 0},
	KindProfileDuplicate:     {CategoryProfile, SeverityMedium, false, 0, 0},
	KindUnknown:              {CategoryUnknown, SeverityMedium, true, 3, 2 * time.Second},
}
