package errcode

import (
	"errors"
	"fmt"
)

// 错误码按类别分段:
//
//	100xx 参数校验失败 (原样返回给调用方, 不记错误日志)
//	200xx 状态冲突 (返回给调用方, 记 info/warn 日志)
//	300xx 事务/基础设施失败 (回滚后对外只给通用提示)
//	400xx 不变量被破坏 (说明数据已经不一致, 记错误日志并告警)
const (
	CodeOK = 0

	CodeInvalidParams   = 10001
	CodeCustomValidate  = 10002
	CodeStateConflict   = 20001
	CodeTransactionFail = 30001
	CodeUnexpected      = 30002
	CodeInvariant       = 40001
)

// Err 带业务码的错误
type Err struct {
	code uint32
	msg  string
}

func NewErr(code uint32, msg string) *Err {
	return &Err{code: code, msg: msg}
}

func (e *Err) Error() string { return e.msg }

func (e *Err) Code() uint32 { return e.code }

// IsValidation 是否为参数校验类错误
func (e *Err) IsValidation() bool { return e.code >= 10000 && e.code < 20000 }

// IsStateConflict 是否为状态冲突类错误
func (e *Err) IsStateConflict() bool { return e.code >= 20000 && e.code < 30000 }

// IsInvariant 是否为不变量破坏类错误
func (e *Err) IsInvariant() bool { return e.code >= 40000 && e.code < 50000 }

// 通用错误
var (
	ErrInvalidParams = NewErr(CodeInvalidParams, "invalid params")
	ErrUnexpected    = NewErr(CodeUnexpected, "service internal error")
	ErrTransaction   = NewErr(CodeTransactionFail, "operation failed, please retry later")
)

// 拍卖行业务错误
var (
	ErrListingNotFound   = NewErr(20101, "listing not found")
	ErrListingNotActive  = NewErr(20102, "listing is no longer active")
	ErrListingExpired    = NewErr(20103, "listing has already ended")
	ErrSelfBid           = NewErr(20104, "you cannot bid on your own listing")
	ErrAlreadyHighest    = NewErr(20105, "you are already the highest bidder")
	ErrBidTooLow         = NewErr(20106, "bid amount is below the current price")
	ErrInsufficientFunds = NewErr(20107, "not enough currency to cover the bid")
	ErrItemNotAvailable  = NewErr(20108, "item cannot be listed")
	ErrUnknownCurrency   = NewErr(20109, "unsupported currency type")
	ErrEmptyTagBuffer    = NewErr(20110, "no items tagged for sale")
	ErrBidConflict       = NewErr(20111, "listing changed while your bid was processing")

	ErrEscrowCorrupted = NewErr(40101, "escrow pool inconsistency detected")
)

// NewCustomErr 用给定文案包装一个参数校验错误
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustomValidate, msg)
}

// NewInvalidField 指名是哪个字段没通过校验
func NewInvalidField(field, reason string) *Err {
	return NewErr(CodeInvalidParams, fmt.Sprintf("invalid %s: %s", field, reason))
}

// AsErr 尝试把 error 还原成 *Err
// 沿包装链查找: 业务错误经过 errors.Wrap 或事务层再抛出后仍能还原出原始错误码
func AsErr(err error) (*Err, bool) {
	var e *Err
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
