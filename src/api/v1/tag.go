package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xhttp"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	types "github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// TagAddHandler 标记物品
// 功能: 把物品加入角色的标记缓冲区, 供后续创建卖单时消费
// 只校验物品当前在角色身上且可挂单; 最终可用性在创建卖单时再次校验
func TagAddHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 绑定并校验请求参数
		var req types.TagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 确认物品在角色自己的背包/装备栏可达
		item, err := svcCtx.Inventory.FindItem(c.Request.Context(), req.ActorID, req.ItemID)
		if err != nil || item == nil {
			xhttp.Error(c, errcode.ErrItemNotAvailable)
			return
		}
		if !item.Available() {
			xhttp.Error(c, errcode.ErrItemNotAvailable)
			return
		}

		// 3. 加入标记缓冲区 (重复标记是幂等的)
		svcCtx.TagBuffer.Add(req.ActorID, req.ItemID)
		xhttp.OkJson(c, types.TagListResp{
			ActorID: req.ActorID,
			ItemIDs: svcCtx.TagBuffer.List(req.ActorID),
		})
	}
}

// TagRemoveHandler 取消标记
func TagRemoveHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 绑定并校验请求参数
		var req types.TagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 从缓冲区移除; 未标记过的物品视为状态冲突
		if ok := svcCtx.TagBuffer.Remove(req.ActorID, req.ItemID); !ok {
			xhttp.Error(c, errcode.NewCustomErr("Item is not tagged."))
			return
		}

		xhttp.OkJson(c, types.TagListResp{
			ActorID: req.ActorID,
			ItemIDs: svcCtx.TagBuffer.List(req.ActorID),
		})
	}
}

// TagClearHandler 清空标记缓冲区
func TagClearHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TagClearReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		svcCtx.TagBuffer.Clear(req.ActorID)
		xhttp.OkJson(c, types.TagListResp{ActorID: req.ActorID, ItemIDs: []uint64{}})
	}
}

// TagListHandler 查询角色当前标记的物品集合
func TagListHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 查询参数中获取角色 id
		actorID, err := strconv.ParseUint(c.Query("actor_id"), 10, 64)
		if err != nil || actorID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		// 2. 返回当前标记集合
		xhttp.OkJson(c, types.TagListResp{
			ActorID: actorID,
			ItemIDs: svcCtx.TagBuffer.List(actorID),
		})
	}
}
