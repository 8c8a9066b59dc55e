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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_CanTransitionTo(t *testing.T) {
	t.Parallel()
	allStatuses := []OrderStatus{
		StatusPendingPayment,
		StatusProcessing,
		StatusShipped,
		StatusCompleted,
		StatusCancelled,
	}
	legal := map[OrderStatus][]OrderStatus{
		StatusPendingPayment: {StatusProcessing, StatusCancelled},
		StatusProcessing:     {StatusShipped, StatusCancelled},
		StatusShipped:        {StatusCompleted},
		StatusCompleted:      {},
		StatusCancelled:      {},
	}
	for from, allowed := range legal {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed {
				if a == to {
					want = true
				}
			}
			got := Order{Status: from}.CanTransitionTo(to)
			assert.Equal(t, want, got, "from=%d to=%d", from, to)
		}
	}
}

func TestOrder_Cancellable(t *testing.T) {
	t.Parallel()
	assert.True(t, Order{Status: StatusPendingPayment}.Cancellable())
	assert.True(t, Order{Status: StatusProcessing}.Cancellable())
	// 已发货之后不允许取消
	assert.False(t, Order{Status: StatusShipped}.Cancellable())
	assert.False(t, Order{Status: StatusCompleted}.Cancellable())
	assert.False(t, Order{Status: StatusCancelled}.Cancellable())
}

func TestActor_CanAct(t *testing.T) {
	t.Parallel()
	order := Order{
		BuyerID: 100,
		Status:  StatusProcessing,
		Items: []OrderItem{
			{ProductID: 1, ShopID: 10},
			{ProductID: 2, ShopID: 20},
		},
	}

	testCases := []struct {
		name   string
		actor  Actor
		target OrderStatus
		want   bool
	}{
		{
			name:   "管理员可以操作任意订单",
			actor:  Actor{UID: 999, Role: RoleAdmin},
			target: StatusShipped,
			want:   true,
		},
		{
			name:   "商家可以操作包含自己店铺商品的订单",
			actor:  Actor{UID: 7, Role: RoleVendor, ShopID: 10},
			target: StatusShipped,
			want:   true,
		},
		{
			name:   "商家不能操作与自己店铺无关的订单",
			actor:  Actor{UID: 7, Role: RoleVendor, ShopID: 30},
			target: StatusShipped,
			want:   false,
		},
		{
			name:   "买家可以取消自己的订单",
			actor:  Actor{UID: 100, Role: RoleBuyer},
			target: StatusCancelled,
			want:   true,
		},
		{
			name:   "买家不能取消别人的订单",
			actor:  Actor{UID: 101, Role: RoleBuyer},
			target: StatusCancelled,
			want:   false,
		},
		{
			name:   "买家不能推进发货",
			actor:  Actor{UID: 100, Role: RoleBuyer},
			target: StatusShipped,
			want:   false,
		},
		{
			name:   "未知角色一律拒绝",
			actor:  Actor{UID: 100, Role: Role(42)},
			target: StatusCancelled,
			want:   false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.actor.CanAct(order, tc.target))
		})
	}
}
