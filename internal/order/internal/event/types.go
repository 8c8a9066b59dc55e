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

package event

const (
	orderEvents = "order_events"
	// PaymentEvents 支付模块发布的支付结果,与支付模块约定的主题
	PaymentEvents = "payment_events"
)

// OrderEvent 订单状态变更通知,供营销、通知等下游消费
type OrderEvent struct {
	OrderSN string `json:"orderSN"`
	BuyerID int64  `json:"buyerID"`
	Status  uint8  `json:"status"`
}

// PaymentEvent 与支付模块的事件结构保持一致
type PaymentEvent struct {
	OrderSN      string
	GatewayTxnNO string
	Status       uint8
}
