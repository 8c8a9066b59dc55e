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

type CreateOrderReq struct {
	// RequestID 客户端生成的幂等键,重复提交直接拒绝
	RequestID string `json:"requestID"`
	Items     []Item `json:"items"`
	Address   `json:"address"`
	// 支付方式 1=货到付款 2=网关在线支付
	Method      uint8  `json:"method"`
	ShippingFee int64  `json:"shippingFee"`
	BankCode    string `json:"bankCode,omitempty"`
}

type Item struct {
	ProductID int64 `json:"productID"`
	Quantity  int64 `json:"quantity"`
}

type Address struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Detail     string `json:"detail"`
	City       string `json:"city"`
	DistrictID int64  `json:"districtID"`
	WardCode   string `json:"wardCode"`
}

type CreateOrderResp struct {
	OrderSN string `json:"orderSN"`
	Status  uint8  `json:"status"`
	// 网关在线支付时的收银台跳转地址
	RedirectURL string `json:"redirectURL,omitempty"`
}

type ListOrdersReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total"`
	Orders []Order `json:"orders"`
}

type Order struct {
	SN               string      `json:"sn"`
	Status           uint8       `json:"status"`
	Method           uint8       `json:"method"`
	PaymentStatus    uint8       `json:"paymentStatus"`
	ItemsAmount      int64       `json:"itemsAmount"`
	ShippingFee      int64       `json:"shippingFee"`
	TotalAmount      int64       `json:"totalAmount"`
	Address          Address     `json:"address"`
	Items            []OrderItem `json:"items"`
	TrackingCode     string      `json:"trackingCode,omitempty"`
	ExpectedDelivery int64       `json:"expectedDelivery,omitempty"`
	DeliveredAt      int64       `json:"deliveredAt,omitempty"`
	Ctime            int64       `json:"ctime"`
	Utime            int64       `json:"utime"`
}

type OrderItem struct {
	ProductID int64  `json:"productID"`
	ShopID    int64  `json:"shopID"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type RetrieveOrderDetailReq struct {
	OrderSN string `json:"orderSN"`
}

type RetrieveOrderDetailResp struct {
	Order Order `json:"order"`
}

type CancelOrderReq struct {
	OrderSN string `json:"orderSN"`
}

type UpdateOrderStatusReq struct {
	OrderSN string `json:"orderSN"`
	// 目标状态,必须是状态机允许的流转
	Status uint8 `json:"status"`
}

type ListShopOrdersReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ListAllOrdersReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
