package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
	types "github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// CreateSellOrderHandler 创建卖单
// 功能: 消费卖家当前的标记缓冲区, 托管全部标记物品并创建挂单
func CreateSellOrderHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 绑定并校验请求参数
		var req types.SellReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 调用 Service 层创建卖单
		listing, err := service.CreateSellOrder(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 3. 返回成功结果
		xhttp.OkJson(c, types.SellResp{Listing: *listing})
	}
}
