package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"go.uber.org/zap"
)

// Response 统一响应信封
// 所有对外接口都使用该结构返回: 成功时 code=0, 失败时携带业务错误码和单行提示
type Response struct {
	Code uint32      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson 返回成功响应
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: errcode.CodeOK,
		Msg:  "success",
		Data: data,
	})
}

// Error 返回失败响应
// 校验/状态冲突类错误原样透出; 其余错误一律折叠成通用提示, 细节只进服务端日志
func Error(c *gin.Context, err error) {
	e, ok := errcode.AsErr(err)
	if !ok {
		// 非业务错误: 记录后对外只给通用提示, 不泄露内部信息
		xzap.WithContext(c.Request.Context()).Error("unexpected handler error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		e = errcode.ErrUnexpected
	}

	switch {
	case e.IsValidation():
		// 校验错误不记错误日志
	case e.IsStateConflict():
		xzap.WithContext(c.Request.Context()).Info("request rejected by state conflict",
			zap.String("path", c.FullPath()),
			zap.Uint32("code", e.Code()),
			zap.String("reason", e.Error()))
	case e.IsInvariant():
		// 不变量破坏意味着别处的数据已经损坏, 需要触发告警
		xzap.WithContext(c.Request.Context()).Error("ALERT: invariant violation surfaced to handler",
			zap.String("path", c.FullPath()),
			zap.Uint32("code", e.Code()),
			zap.String("reason", e.Error()))
		e = errcode.ErrUnexpected
	default:
		xzap.WithContext(c.Request.Context()).Error("transaction failure surfaced to handler",
			zap.String("path", c.FullPath()),
			zap.Uint32("code", e.Code()),
			zap.String("reason", e.Error()))
		e = errcode.ErrTransaction
	}

	c.JSON(http.StatusOK, Response{
		Code: e.Code(),
		Msg:  e.Error(),
	})
}
