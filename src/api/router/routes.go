package router

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/ProjectsTask/EasyAuctionHouse/src/api/v1"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
)

// loadV1 注册 v1 版本的所有路由
func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	apiV1 := r.Group("/api/v1")

	// 上架与浏览
	apiV1.POST("/sell", v1.CreateSellOrderHandler(svcCtx))                  // 创建卖单
	apiV1.GET("/listings", v1.ListingsHandler(svcCtx))                      // 浏览在售列表
	apiV1.GET("/listings/:id", v1.ListingDetailHandler(svcCtx))             // 查询单个卖单详情
	apiV1.GET("/sellers/:actor/listings", v1.SellerListingsHandler(svcCtx)) // 查询卖家的卖单

	// 出价
	apiV1.POST("/listings/:id/bid", v1.PlaceBidHandler(svcCtx)) // 对卖单出价

	// 标记缓冲区
	apiV1.POST("/tag/add", v1.TagAddHandler(svcCtx))       // 标记物品
	apiV1.POST("/tag/remove", v1.TagRemoveHandler(svcCtx)) // 取消标记
	apiV1.POST("/tag/clear", v1.TagClearHandler(svcCtx))   // 清空标记
	apiV1.GET("/tag/list", v1.TagListHandler(svcCtx))      // 查询已标记物品

	// 银行寄存
	apiV1.POST("/bank/deposit", v1.BankDepositHandler(svcCtx))   // 寄存物品
	apiV1.POST("/bank/withdraw", v1.BankWithdrawHandler(svcCtx)) // 取回物品
	apiV1.GET("/bank/:actor/items", v1.BankItemsHandler(svcCtx)) // 查询寄存物品

	// 邮件与统计
	apiV1.GET("/mails/:actor", v1.PendingMailHandler(svcCtx)) // 查询待领取邮件
	apiV1.GET("/stats", v1.MarketStatsHandler(svcCtx))        // 市场统计
}
