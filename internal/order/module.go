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

package order

import (
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/event/consumer"
	"github.com/ecodeclub/eshop/internal/order/internal/service"
	"github.com/ecodeclub/eshop/internal/order/internal/web"
)

type (
	Handler              = web.Handler
	VendorHandler        = web.VendorHandler
	Service              = service.Service
	CreateOrderCommand   = service.CreateOrderCommand
	CreateOrderResult    = service.CreateOrderResult
	CartItem             = service.CartItem
	PaymentEventConsumer = consumer.PaymentEventConsumer
	Order                = domain.Order
	OrderItem            = domain.OrderItem
	Address              = domain.Address
	Shipment             = domain.Shipment
	Actor                = domain.Actor
	OrderStatus          = domain.OrderStatus
	PaymentMethod        = domain.PaymentMethod
	PaymentStatus        = domain.PaymentStatus
	Role                 = domain.Role
)

const (
	StatusPendingPayment = domain.StatusPendingPayment
	StatusProcessing     = domain.StatusProcessing
	StatusShipped        = domain.StatusShipped
	StatusCompleted      = domain.StatusCompleted
	StatusCancelled      = domain.StatusCancelled

	MethodCashOnDelivery = domain.MethodCashOnDelivery
	MethodGateway        = domain.MethodGateway

	PaymentStatusUnpaid = domain.PaymentStatusUnpaid
	PaymentStatusPaid   = domain.PaymentStatusPaid
	PaymentStatusFailed = domain.PaymentStatusFailed

	RoleBuyer  = domain.RoleBuyer
	RoleVendor = domain.RoleVendor
	RoleAdmin  = domain.RoleAdmin
)

var (
	ErrEmptyCart         = service.ErrEmptyCart
	ErrProductNotFound   = service.ErrProductNotFound
	ErrOrderNotFound     = service.ErrOrderNotFound
	ErrForbidden         = service.ErrForbidden
	ErrInvalidTransition = service.ErrInvalidTransition
)

type Module struct {
	Hdl       *Handler
	VendorHdl *VendorHandler
	Svc       Service
	// 支付结果事件的消费端,随模块初始化一并启动
	C *PaymentEventConsumer
}
