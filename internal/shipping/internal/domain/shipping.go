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

// Degraded 标记: 承运商不可达时本地估算出的结果,非权威数据

type Region struct {
	ID   int64
	Name string
	// province / district / ward
	Type string
}

type Regions struct {
	List     []Region
	Degraded bool
}

type FeeQuote struct {
	// 最小货币单位
	Total    int64
	Degraded bool
}

type LeadTime struct {
	// 预计送达时间,毫秒时间戳
	ExpectedDelivery int64
	Degraded         bool
}

type ShipmentRequest struct {
	OrderSN     string
	Recipient   string
	Phone       string
	Detail      string
	City        string
	DistrictID  int64
	WardCode    string
	WeightGrams int64
	// 货到付款需承运商代收的金额,在线支付为0
	CODAmount int64
}

type Shipment struct {
	TrackingCode     string
	ExpectedDelivery int64
	Degraded         bool
}

type TrackInfo struct {
	TrackingCode string
	Status       string
	Degraded     bool
}
