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

type Inventory struct {
	ProductID int64
	Stock     int64
	Sold      int64
}

// ReservationItem 一次预占/释放中的单个商品及数量,归属且仅归属于一个订单
type ReservationItem struct {
	ProductID int64
	Quantity  int64
}
