// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"errors"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &VendorHandler{}

// VendorHandler 商家及平台管理员的订单操作入口,
// 操作权限的判定收敛在 domain.Actor 上
type VendorHandler struct {
	svc service.Service
}

func NewVendorHandler(svc service.Service) *VendorHandler {
	return &VendorHandler{svc: svc}
}

func (h *VendorHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/status/update", ginx.BS[UpdateOrderStatusReq](h.UpdateStatus))
	g.POST("/vendor/list", ginx.BS[ListShopOrdersReq](h.ListShopOrders))
	g.POST("/admin/list", ginx.BS[ListAllOrdersReq](h.ListAllOrders))
}

func (h *VendorHandler) PublicRoutes(_ *gin.Engine) {}

// UpdateStatus 推进订单状态。买家取消走 /order/cancel,这里面向商家和管理员。
func (h *VendorHandler) UpdateStatus(ctx *ginx.Context, req UpdateOrderStatusReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	err := h.svc.UpdateStatus(ctx.Request.Context(), req.OrderSN, domain.OrderStatus(req.Status), actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return orderNotFoundResult, err
		case errors.Is(err, service.ErrForbidden):
			return forbiddenResult, err
		case errors.Is(err, service.ErrInvalidTransition):
			return invalidTransitionResult, err
		}
		return systemErrorResult, fmt.Errorf("更新订单状态失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// ListShopOrders 商家查询包含自己店铺商品的订单
func (h *VendorHandler) ListShopOrders(ctx *ginx.Context, req ListShopOrdersReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	if actor.Role != domain.RoleVendor || actor.ShopID == 0 {
		return forbiddenResult, service.ErrForbidden
	}
	orders, total, err := h.svc.ListOrdersByShopID(ctx.Request.Context(), req.Offset, req.Limit, actor.ShopID)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return toOrderVO(src)
			}),
		},
	}, nil
}

// ListAllOrders 管理员查询全量订单
func (h *VendorHandler) ListAllOrders(ctx *ginx.Context, req ListAllOrdersReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	if actor.Role != domain.RoleAdmin {
		return forbiddenResult, service.ErrForbidden
	}
	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return toOrderVO(src)
			}),
		},
	}, nil
}

func actorFromSession(sess session.Session) domain.Actor {
	claims := sess.Claims()
	actor := domain.Actor{UID: claims.Uid, Role: domain.RoleBuyer}
	switch claims.Get("role").StringOrDefault("") {
	case "admin":
		actor.Role = domain.RoleAdmin
	case "vendor":
		actor.Role = domain.RoleVendor
		actor.ShopID, _ = claims.Get("shopID").AsInt64()
	}
	return actor
}
