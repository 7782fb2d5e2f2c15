package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
	types "github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// PlaceBidHandler 对卖单出价
// 功能: 校验出价合法性, 托管出价人货币, 返还前任最高出价人的押金, 更新挂单最高价
func PlaceBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取路径参数中的卖单 id
		listingID, err := strconv.ParseInt(c.Params.ByName("id"), 10, 64)
		if err != nil || listingID <= 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 绑定并校验请求参数
		var req types.BidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 3. 调用 Service 层执行出价流程
		res, err := service.PlaceBid(c.Request.Context(), svcCtx, listingID, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 4. 返回成功结果
		xhttp.OkJson(c, res)
	}
}
