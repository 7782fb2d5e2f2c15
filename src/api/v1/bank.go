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

// BankDepositHandler 寄存物品到银行池
func BankDepositHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.BankReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.BankDeposit(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// BankWithdrawHandler 取回寄存的物品
func BankWithdrawHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.BankReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.BankWithdraw(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// BankItemsHandler 查询角色寄存中的物品
func BankItemsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := strconv.ParseUint(c.Params.ByName("actor"), 10, 64)
		if err != nil || actorID == 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		res, err := service.GetBankItems(c.Request.Context(), svcCtx, actorID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
