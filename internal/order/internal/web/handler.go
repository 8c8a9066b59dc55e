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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/inventory"
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc   service.Service
	cache ecache.Cache
}

func NewHandler(svc service.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/create", ginx.BS[CreateOrderReq](h.CreateOrder))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/cancel", ginx.BS[CancelOrderReq](h.CancelOrder))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// CreateOrder 下单。客户端必须携带幂等键,网络重试不会产生重复订单。
func (h *Handler) CreateOrder(ctx *ginx.Context, req CreateOrderReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}

	res, err := h.svc.CreateOrder(ctx.Request.Context(), service.CreateOrderCommand{
		BuyerID: sess.Claims().Uid,
		Items: slice.Map(req.Items, func(idx int, src Item) service.CartItem {
			return service.CartItem{ProductID: src.ProductID, Quantity: src.Quantity}
		}),
		Address: domain.Address{
			Recipient:  req.Recipient,
			Phone:      req.Phone,
			Detail:     req.Detail,
			City:       req.City,
			DistrictID: req.DistrictID,
			WardCode:   req.WardCode,
		},
		Method:      domain.PaymentMethod(req.Method),
		ShippingFee: req.ShippingFee,
		ClientIP:    ctx.ClientIP(),
		BankCode:    req.BankCode,
	})
	if err != nil {
		return h.toCreateErrResult(err), err
	}
	return ginx.Result{
		Data: CreateOrderResp{
			OrderSN:     res.Order.SN,
			Status:      res.Order.Status.ToUint8(),
			RedirectURL: res.RedirectURL,
		},
	}, nil
}

func (h *Handler) toCreateErrResult(err error) ginx.Result {
	switch {
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidQuantity):
		return emptyCartResult
	case errors.Is(err, service.ErrProductNotFound):
		return productNotFoundResult
	}
	var ise *inventory.InsufficientStockError
	if errors.As(err, &ise) {
		res := insufficientStockResult
		res.Data = map[string]any{
			"productID": ise.ProductID,
			"available": ise.Available,
		}
		return res
	}
	return systemErrorResult
}

// requestIDExpiration 幂等键的保护窗口,超过这个窗口的重试当成新请求
const requestIDExpiration = 24 * time.Hour

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := fmt.Sprintf("order:create:%s", requestID)
	// SetNX 原子判重,并发重试只有一个能抢到键
	ok, err := h.cache.SetNX(ctx, key, requestID, requestIDExpiration)
	if err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	if !ok {
		return fmt.Errorf("重复请求")
	}
	return nil
}

// ListOrders 分页查询买家自己的订单
func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListOrdersByBuyerID(ctx.Request.Context(), req.Offset, req.Limit, sess.Claims().Uid)
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

// RetrieveOrderDetail 查看订单详情,只能看自己的
func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrderBySNAndBuyerID(ctx.Request.Context(), req.OrderSN, sess.Claims().Uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return orderNotFoundResult, err
		}
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

// CancelOrder 买家取消自己的订单
func (h *Handler) CancelOrder(ctx *ginx.Context, req CancelOrderReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.CancelOrder(ctx.Request.Context(), req.OrderSN, domain.Actor{
		UID:  sess.Claims().Uid,
		Role: domain.RoleBuyer,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return orderNotFoundResult, err
		case errors.Is(err, service.ErrForbidden):
			return forbiddenResult, err
		case errors.Is(err, service.ErrInvalidTransition):
			return invalidTransitionResult, err
		}
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func toOrderVO(order domain.Order) Order {
	return Order{
		SN:            order.SN,
		Status:        order.Status.ToUint8(),
		Method:        order.Method.ToUint8(),
		PaymentStatus: order.PaymentStatus.ToUint8(),
		ItemsAmount:   order.ItemsAmount,
		ShippingFee:   order.ShippingFee,
		TotalAmount:   order.TotalAmount,
		Address: Address{
			Recipient:  order.Address.Recipient,
			Phone:      order.Address.Phone,
			Detail:     order.Address.Detail,
			City:       order.Address.City,
			DistrictID: order.Address.DistrictID,
			WardCode:   order.Address.WardCode,
		},
		Items: slice.Map(order.Items, func(idx int, src domain.OrderItem) OrderItem {
			return OrderItem{
				ProductID: src.ProductID,
				ShopID:    src.ShopID,
				Name:      src.Name,
				Image:     src.Image,
				Price:     src.Price,
				Quantity:  src.Quantity,
			}
		}),
		TrackingCode:     order.Shipment.TrackingCode,
		ExpectedDelivery: order.Shipment.ExpectedDelivery,
		DeliveredAt:      order.DeliveredAt,
		Ctime:            order.Ctime,
		Utime:            order.Utime,
	}
}
