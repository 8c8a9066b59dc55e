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

type PaymentStatus uint8

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PaymentStatusUnpaid      PaymentStatus = 1
	PaymentStatusPaidSuccess PaymentStatus = 2
	PaymentStatusPaidFailed  PaymentStatus = 3
)

type Payment struct {
	ID      int64
	OrderSN string
	BuyerID int64
	// 支付金额,最小货币单位
	Amount int64
	Status PaymentStatus
	// 网关返回的第三方交易号
	GatewayTxnNO string
	// 用户指定的银行通道,可为空,为空时由网关收银台选择
	BankCode string
	PaidAt   int64
	Ctime    int64
	Utime    int64
}

// CallbackResult 网关回调验签通过后的解析结果
type CallbackResult struct {
	OrderSN      string
	Amount       int64
	GatewayTxnNO string
	ResponseCode string
	Success      bool
}
