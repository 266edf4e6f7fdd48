package utils

import (
	"fmt"
	"strings"
	"time"
)

// MissingFieldError 地址缺少必填字段，编码前检出，不会发起网络调用
type MissingFieldError struct {
	Address string // collection / delivery
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s address: missing %s", e.Address, e.Field)
}

// ValidationErrors 聚合的本地校验错误
type ValidationErrors struct {
	errs []error
}

func (e *ValidationErrors) Add(problem string) {
	e.errs = append(e.errs, fmt.Errorf("%s", problem))
}

func (e *ValidationErrors) AddError(err error) {
	e.errs = append(e.errs, err)
}

func (e *ValidationErrors) Empty() bool {
	return len(e.errs) == 0
}

// OrNil 没有任何问题时返回 nil，便于直接 return
func (e *ValidationErrors) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap 暴露逐条错误，errors.As 可匹配到具体的 MissingFieldError
func (e *ValidationErrors) Unwrap() []error {
	return e.errs
}

func (e *ValidationErrors) Problems() []string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// ConstraintViolation 重量超出计费单元上限
type ConstraintViolation struct {
	WeightKg float64
	UnitCode string
	MaxKg    float64
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("weight %.0fkg exceeds the %s limit (%.0fkg)", e.WeightKg, e.UnitCode, e.MaxKg)
}

// RateLimitError 凭证配额耗尽
type RateLimitError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("API rate limit reached (100 requests/minute), retry after %s", e.RetryAfter.Round(time.Second))
}

// TransportError 网络层失败（超时、连接失败）
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("carrier connection failed (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HttpError HTTP 层失败，保留响应前缀便于排查
type HttpError struct {
	StatusCode int
	BodyPrefix string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("carrier HTTP error %d: %s", e.StatusCode, e.BodyPrefix)
}

// CarrierAuthError API Key 未授权或未提供
type CarrierAuthError struct {
	Message string
}

func (e *CarrierAuthError) Error() string {
	return "carrier authorisation failed: " + e.Message
}

// CarrierNotConfiguredError 账户未开通该能力或数据不存在
type CarrierNotConfiguredError struct {
	Message string
}

func (e *CarrierNotConfiguredError) Error() string {
	return "carrier not configured: " + e.Message
}

// CarrierProtocolError 响应无法解析或结构不符合预期
type CarrierProtocolError struct {
	BodyPrefix string
}

func (e *CarrierProtocolError) Error() string {
	return "unexpected carrier response: " + e.BodyPrefix
}

// CarrierError 承运商返回的业务拒绝，带完整描述与校验明细
type CarrierError struct {
	Description string
	Details     []string
}

func (e *CarrierError) Error() string {
	if len(e.Details) == 0 {
		return "carrier rejected the request: " + e.Description
	}
	return fmt.Sprintf("carrier rejected the request: %s\n• %s", e.Description, strings.Join(e.Details, "\n• "))
}
