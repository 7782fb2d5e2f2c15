package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
)

// MarketStatsHandler 市场统计
// 功能: 按配置内的货币维度汇总在售数量/成交总额/均价等指标
func MarketStatsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetMarketStats(c.Request.Context(), svcCtx)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
