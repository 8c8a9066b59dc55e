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

//go:build e2e

package dao_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ecodeclub/eshop/internal/order/internal/repository/dao"
	testioc "github.com/ecodeclub/eshop/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestOrderDAO(t *testing.T) {
	suite.Run(t, new(OrderDAOTestSuite))
}

type OrderDAOTestSuite struct {
	suite.Suite
	db  *egorm.Component
	dao dao.OrderDAO
}

func (s *OrderDAOTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	err := dao.InitTables(s.db)
	require.NoError(s.T(), err)
	s.dao = dao.NewOrderGORMDAO(s.db)
}

func (s *OrderDAOTestSuite) TearDownTest() {
	for _, table := range []string{"orders", "order_items"} {
		err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE `%s`", table)).Error
		require.NoError(s.T(), err)
	}
}

func (s *OrderDAOTestSuite) createOrder(sn string) int64 {
	oid, err := s.dao.CreateOrder(context.Background(), dao.Order{
		SN:          sn,
		BuyerId:     234,
		Method:      1,
		ItemsAmount: 100000,
		ShippingFee: 20000,
		TotalAmount: 120000,
	}, []dao.OrderItem{
		{ProductId: 1, ShopId: 10, Name: "Áo thun", Price: 50000, Quantity: 2},
	})
	require.NoError(s.T(), err)
	return oid
}

func (s *OrderDAOTestSuite) TestSetShipment_AtMostOnce() {
	t := s.T()
	oid := s.createOrder("SN-SHIP-1")

	ok, err := s.dao.SetShipment(context.Background(), oid, "GHN001", 1717401600000)
	require.NoError(t, err)
	assert.True(t, ok)

	// 第二次设置不生效,第一个成功拿到的运单号保持不变
	ok, err = s.dao.SetShipment(context.Background(), oid, "GHN002", 1717488000000)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.dao.FindBySN(context.Background(), "SN-SHIP-1")
	require.NoError(t, err)
	assert.Equal(t, "GHN001", got.TrackingCode)
	assert.Equal(t, int64(1717401600000), got.ExpectedDelivery)
}

func (s *OrderDAOTestSuite) TestUpdatePaymentResult_NoDowngrade() {
	t := s.T()
	oid := s.createOrder("SN-PAY-1")

	ok, err := s.dao.UpdatePaymentResult(context.Background(), oid, dao.PaymentStatusPaid, "TXN001")
	require.NoError(t, err)
	assert.True(t, ok)

	// 已支付的订单不再接受任何支付结果,迟到的失败回调也不行
	ok, err = s.dao.UpdatePaymentResult(context.Background(), oid, 3, "TXN002")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.dao.FindBySN(context.Background(), "SN-PAY-1")
	require.NoError(t, err)
	assert.Equal(t, uint8(dao.PaymentStatusPaid), got.PaymentStatus)
	assert.Equal(t, "TXN001", got.GatewayTxnNO)
}

func (s *OrderDAOTestSuite) TestUpdateStatus_CAS() {
	t := s.T()
	oid := s.createOrder("SN-CAS-1")

	ok, err := s.dao.UpdateStatus(context.Background(), oid, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// from 已经不匹配,CAS 失败
	ok, err = s.dao.UpdateStatus(context.Background(), oid, 1, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.dao.FindBySN(context.Background(), "SN-CAS-1")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), got.Status)
}
