package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
)

// RecoverMiddleware 自定义恢复中间件
// handler 发生 panic 时记录堆栈并返回统一信封, 不向调用方泄露内部信息
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c.Request.Context()).Error("handler panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				c.AbortWithStatusJSON(http.StatusOK, xhttp.Response{
					Code: errcode.CodeUnexpected,
					Msg:  errcode.ErrUnexpected.Error(),
				})
			}
		}()
		c.Next()
	}
}
