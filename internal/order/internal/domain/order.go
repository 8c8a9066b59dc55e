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

package domain

type OrderStatus uint8

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPendingPayment OrderStatus = 1 // 待支付
	StatusProcessing     OrderStatus = 2 // 处理中
	StatusShipped        OrderStatus = 3 // 已发货
	StatusCompleted      OrderStatus = 4 // 已完成
	StatusCancelled      OrderStatus = 5 // 已取消
)

type PaymentMethod uint8

func (m PaymentMethod) ToUint8() uint8 {
	return uint8(m)
}

const (
	MethodCashOnDelivery PaymentMethod = 1 // 货到付款
	MethodGateway        PaymentMethod = 2 // 网关在线支付
)

type PaymentStatus uint8

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PaymentStatusUnpaid PaymentStatus = 1
	PaymentStatusPaid   PaymentStatus = 2
	PaymentStatusFailed PaymentStatus = 3
)

type Order struct {
	ID            int64
	SN            string
	BuyerID       int64
	Method        PaymentMethod
	PaymentStatus PaymentStatus
	Status        OrderStatus
	// ItemsAmount + ShippingFee == TotalAmount,创建后不变
	ItemsAmount int64
	ShippingFee int64
	TotalAmount int64
	Address     Address
	Shipment    Shipment
	// 网关回调携带的第三方流水号,用于去重
	GatewayTxnNO string
	Items        []OrderItem
	DeliveredAt  int64
	Ctime        int64
	Utime        int64
}

// OrderItem 下单时的商品快照,商品价格后续变动不影响已创建的订单
type OrderItem struct {
	OrderID   int64
	ProductID int64
	ShopID    int64
	Name      string
	Image     string
	Price     int64
	Quantity  int64
}

type Address struct {
	Recipient  string
	Phone      string
	Detail     string
	City       string
	DistrictID int64
	WardCode   string
}

// Shipment 承运商运单信息,每个订单至多设置一次
type Shipment struct {
	TrackingCode     string
	ExpectedDelivery int64
}

// legalTransitions 订单状态机,已发货及之后不允许取消
var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusCompleted},
}

func (o Order) CanTransitionTo(target OrderStatus) bool {
	for _, s := range legalTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

func (o Order) Cancellable() bool {
	return o.CanTransitionTo(StatusCancelled)
}

type Role uint8

const (
	RoleBuyer  Role = 1
	RoleVendor Role = 2
	RoleAdmin  Role = 3
)

// Actor 执行订单操作的主体,从会话中解析得到
type Actor struct {
	UID    int64
	Role   Role
	ShopID int64
}

// CanAct 集中式的权限判定:
// 管理员可以操作任意订单;
// 商家只要订单中有一件自己店铺的商品就可以操作整个订单;
// 买家只能取消自己的订单。
func (a Actor) CanAct(o Order, target OrderStatus) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleVendor:
		for _, it := range o.Items {
			if it.ShopID == a.ShopID {
				return true
			}
		}
		return false
	case RoleBuyer:
		return target == StatusCancelled && o.BuyerID == a.UID
	default:
		return false
	}
}
