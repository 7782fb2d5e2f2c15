package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
)

// PendingMailHandler 查询角色的待领取邮件
// 功能: 列出清算流程投递给该角色、但尚未被邮件协作方取走的物品
func PendingMailHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取路径参数中的角色 id
		receiverID, err := strconv.ParseUint(c.Params.ByName("actor"), 10, 64)
		if err != nil || receiverID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 调用 Service 层查询待领取邮件
		res, err := service.GetPendingMail(c.Request.Context(), svcCtx, receiverID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 3. 返回成功结果
		xhttp.OkJson(c, res)
	}
}
