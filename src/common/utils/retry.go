package utils

import (
	"time"

	"github.com/pkg/errors"
)

// Retry 通用重试函数
// @param name: 操作名称(用于错误提示)
// @param attempts: 最大尝试次数
// @param sleep: 每次重试间隔时间
// @param retryable: 判断错误是否值得重试, 为 nil 时所有错误都重试
// @param fn: 需要执行的函数,返回 error 表示失败需要重试
// @return error: 所有尝试都失败时返回最后一次的错误
func Retry(name string, attempts int, sleep time.Duration, retryable func(error) bool, fn func() error) error {
	var last error
	for i := 0; i < attempts; i++ {
		last = fn()
		if last == nil {
			return nil
		}
		// 不可重试的错误直接返回, 比如业务校验失败
		if retryable != nil && !retryable(last) {
			return last
		}
		time.Sleep(sleep)
	}
	return errors.Wrapf(last, "retry over for %s", name)
}
