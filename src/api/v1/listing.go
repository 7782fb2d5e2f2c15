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

// ListingsHandler 浏览在售列表
// 功能: 分页查询在售挂单, 支持货币/卖家/关键字过滤与白名单排序
func ListingsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 绑定查询参数
		var filter types.ListingFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 调用 Service 层查询列表 (排序/分页的白名单校验在 Dao 层完成)
		res, err := service.GetListings(c.Request.Context(), svcCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 3. 返回成功结果
		xhttp.OkJson(c, res)
	}
}

// ListingDetailHandler 查询单个卖单详情
func ListingDetailHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取路径参数中的卖单 id
		listingID, err := strconv.ParseInt(c.Params.ByName("id"), 10, 64)
		if err != nil || listingID <= 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 调用 Service 层查询详情
		res, err := service.GetListingDetail(c.Request.Context(), svcCtx, listingID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 3. 返回成功结果
		xhttp.OkJson(c, res)
	}
}

// SellerListingsHandler 查询指定卖家的卖单
// 功能: 按状态过滤 (active/completed/cancelled), 不传状态则返回全部
func SellerListingsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取路径参数中的卖家 id
		sellerID, err := strconv.ParseUint(c.Params.ByName("actor"), 10, 64)
		if err != nil || sellerID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 获取可选的状态过滤参数
		status := c.Query("status")

		// 3. 调用 Service 层查询该卖家的卖单
		res, err := service.GetSellerListings(c.Request.Context(), svcCtx, sellerID, status)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		// 4. 返回成功结果
		xhttp.OkJson(c, res)
	}
}
