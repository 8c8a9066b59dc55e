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

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecodeclub/eshop/internal/inventory"
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/event"
	"github.com/ecodeclub/eshop/internal/order/internal/repository"
	"github.com/ecodeclub/eshop/internal/payment"
	"github.com/ecodeclub/eshop/internal/pkg/sequencenumber"
	"github.com/ecodeclub/eshop/internal/product"
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.OrderRepository = (*fakeRepo)(nil)

type fakeRepo struct {
	orders    map[string]*domain.Order
	nextID    int64
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeRepo) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}
	f.nextID++
	order.ID = f.nextID
	f.orders[order.SN] = &order
	return order, nil
}

func (f *fakeRepo) FindOrderBySN(_ context.Context, sn string) (domain.Order, error) {
	o, ok := f.orders[sn]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return *o, nil
}

func (f *fakeRepo) FindOrderBySNAndBuyerID(_ context.Context, sn string, buyerID int64) (domain.Order, error) {
	o, ok := f.orders[sn]
	if !ok || o.BuyerID != buyerID {
		return domain.Order{}, ErrOrderNotFound
	}
	return *o, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.Status == from {
			o.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpdatePaymentResult(_ context.Context, orderID int64, status domain.PaymentStatus, gatewayTxnNO string) (bool, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.PaymentStatus != domain.PaymentStatusPaid {
			o.PaymentStatus = status
			o.GatewayTxnNO = gatewayTxnNO
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SetShipment(_ context.Context, orderID int64, shipment domain.Shipment) (bool, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.Shipment.TrackingCode == "" {
			o.Shipment = shipment
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) MarkDelivered(_ context.Context, orderID int64, deliveredAt int64) error {
	for _, o := range f.orders {
		if o.ID == orderID {
			o.DeliveredAt = deliveredAt
			o.PaymentStatus = domain.PaymentStatusPaid
		}
	}
	return nil
}

func (f *fakeRepo) ListOrdersByBuyerID(_ context.Context, _, _ int, buyerID int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			res = append(res, *o)
		}
	}
	return res, nil
}

func (f *fakeRepo) TotalOrdersByBuyerID(_ context.Context, buyerID int64) (int64, error) {
	var total int64
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			total++
		}
	}
	return total, nil
}

func (f *fakeRepo) ListOrdersByShopID(_ context.Context, _, _ int, shopID int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range f.orders {
		for _, it := range o.Items {
			if it.ShopID == shopID {
				res = append(res, *o)
				break
			}
		}
	}
	return res, nil
}

func (f *fakeRepo) TotalOrdersByShopID(ctx context.Context, shopID int64) (int64, error) {
	os, _ := f.ListOrdersByShopID(ctx, 0, 0, shopID)
	return int64(len(os)), nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _, _ int) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range f.orders {
		res = append(res, *o)
	}
	return res, nil
}

func (f *fakeRepo) TotalOrders(_ context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}

type fakeProductSvc struct {
	products map[int64]product.Product
}

func (f *fakeProductSvc) FindByID(ctx context.Context, id int64) (product.Product, error) {
	return f.FindOnShelfByID(ctx, id)
}

func (f *fakeProductSvc) FindOnShelfByID(_ context.Context, id int64) (product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return product.Product{}, product.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductSvc) Create(_ context.Context, _ product.Product) (int64, error) {
	return 0, errors.New("不支持")
}

type fakeInventorySvc struct {
	reserveErr error
	reserved   [][]inventory.ReservationItem
	released   [][]inventory.ReservationItem
}

func (f *fakeInventorySvc) FindByProductID(_ context.Context, _ int64) (inventory.Inventory, error) {
	return inventory.Inventory{}, nil
}

func (f *fakeInventorySvc) Save(_ context.Context, _ inventory.Inventory) error {
	return nil
}

func (f *fakeInventorySvc) ReserveAll(_ context.Context, items []inventory.ReservationItem) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	f.reserved = append(f.reserved, items)
	return nil
}

func (f *fakeInventorySvc) ReleaseAll(_ context.Context, items []inventory.ReservationItem) error {
	f.released = append(f.released, items)
	return nil
}

type fakePaymentSvc struct {
	created     []payment.Payment
	redirectURL string
}

func (f *fakePaymentSvc) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePaymentSvc) BuildRedirectURL(_ context.Context, _, _, _ string) (string, error) {
	return f.redirectURL, nil
}

func (f *fakePaymentSvc) HandleCallback(_ context.Context, _ map[string]string) (payment.CallbackResult, error) {
	return payment.CallbackResult{}, errors.New("不支持")
}

func (f *fakePaymentSvc) FindByOrderSN(_ context.Context, _ string) (payment.Payment, error) {
	return payment.Payment{}, errors.New("不支持")
}

type fakeShippingSvc struct {
	err  error
	code string
	eta  int64
}

func (f *fakeShippingSvc) ListRegions(_ context.Context) (shipping.Regions, error) {
	return shipping.Regions{}, f.err
}

func (f *fakeShippingSvc) QuoteFee(_ context.Context, _ int64, _ int64) (shipping.FeeQuote, error) {
	return shipping.FeeQuote{}, f.err
}

func (f *fakeShippingSvc) LeadTime(_ context.Context, _ int64) (shipping.LeadTime, error) {
	return shipping.LeadTime{}, f.err
}

func (f *fakeShippingSvc) CreateShipment(_ context.Context, _ shipping.ShipmentRequest) (shipping.Shipment, error) {
	if f.err != nil {
		return shipping.Shipment{}, f.err
	}
	return shipping.Shipment{TrackingCode: f.code, ExpectedDelivery: f.eta}, nil
}

func (f *fakeShippingSvc) Track(_ context.Context, trackingCode string) (shipping.TrackInfo, error) {
	if f.err != nil {
		return shipping.TrackInfo{}, f.err
	}
	return shipping.TrackInfo{TrackingCode: trackingCode, Status: "delivering"}, nil
}

type fakeProducer struct {
	events []event.OrderEvent
}

func (f *fakeProducer) Produce(_ context.Context, evt event.OrderEvent) error {
	f.events = append(f.events, evt)
	return nil
}

type testDeps struct {
	repo      *fakeRepo
	products  *fakeProductSvc
	inv       *fakeInventorySvc
	pay       *fakePaymentSvc
	ship      *fakeShippingSvc
	producer  *fakeProducer
	generator *sequencenumber.Generator
}

func newTestDeps() *testDeps {
	return &testDeps{
		repo: newFakeRepo(),
		products: &fakeProductSvc{products: map[int64]product.Product{
			1: {ID: 1, ShopID: 10, Name: "Áo thun", Image: "tshirt.png", Price: 50000, Weight: 300, Status: product.StatusOnShelf},
			2: {ID: 2, ShopID: 20, Name: "Giày", Image: "shoes.png", Price: 200000, Weight: 800, Status: product.StatusOnShelf},
		}},
		inv:       &fakeInventorySvc{},
		pay:       &fakePaymentSvc{redirectURL: "https://sandbox.example.com/pay?vnp_TxnRef=SN"},
		ship:      &fakeShippingSvc{code: "GHN123", eta: 1717401600000},
		producer:  &fakeProducer{},
		generator: sequencenumber.NewGeneratorWith(
			func(t time.Time) int64 { return 1717200000000 },
			func() string { return "FIXEDUUIDFIXEDUUIDFIXEDUUID" }),
	}
}

func (d *testDeps) service() Service {
	return NewService(d.repo, d.products, d.inv, d.pay, d.ship, d.producer, d.generator)
}

func codCommand() CreateOrderCommand {
	return CreateOrderCommand{
		BuyerID: 100,
		Items: []CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		Address: domain.Address{
			Recipient:  "Nguyen Van A",
			Phone:      "0901234567",
			Detail:     "12 Ly Thuong Kiet",
			City:       "Hà Nội",
			DistrictID: 1442,
		},
		Method:      domain.MethodCashOnDelivery,
		ShippingFee: 20000,
	}
}

func TestService_CreateOrder_COD(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	svc := deps.service()

	res, err := svc.CreateOrder(context.Background(), codCommand())
	require.NoError(t, err)

	// 商品总价 = 50000*2 + 200000*1
	assert.Equal(t, int64(300000), res.Order.ItemsAmount)
	assert.Equal(t, int64(20000), res.Order.ShippingFee)
	assert.Equal(t, int64(320000), res.Order.TotalAmount)
	// 货到付款直接进入处理中,不走支付
	assert.Equal(t, domain.StatusProcessing, res.Order.Status)
	assert.Empty(t, res.RedirectURL)
	assert.Empty(t, deps.pay.created)
	// 库存按下单数量预占
	require.Len(t, deps.inv.reserved, 1)
	assert.Equal(t, []inventory.ReservationItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, deps.inv.reserved[0])
	// 运单挂到订单上
	assert.Equal(t, "GHN123", res.Order.Shipment.TrackingCode)
	// 状态变更事件
	require.Len(t, deps.producer.events, 1)
	assert.Equal(t, domain.StatusProcessing.ToUint8(), deps.producer.events[0].Status)
}

func TestService_CreateOrder_Gateway(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	svc := deps.service()

	cmd := codCommand()
	cmd.Method = domain.MethodGateway
	cmd.BankCode = "NCB"
	res, err := svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	// 在线支付停留在待支付,等网关回调推进
	assert.Equal(t, domain.StatusPendingPayment, res.Order.Status)
	assert.Equal(t, deps.pay.redirectURL, res.RedirectURL)
	require.Len(t, deps.pay.created, 1)
	assert.Equal(t, res.Order.SN, deps.pay.created[0].OrderSN)
	assert.Equal(t, int64(320000), deps.pay.created[0].Amount)
	assert.Empty(t, deps.producer.events)
}

func TestService_CreateOrder_EmptyCart(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	svc := deps.service()

	cmd := codCommand()
	cmd.Items = nil
	_, err := svc.CreateOrder(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestService_CreateOrder_InvalidQuantity(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	svc := deps.service()

	cmd := codCommand()
	cmd.Items = []CartItem{{ProductID: 1, Quantity: 0}}
	_, err := svc.CreateOrder(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, deps.inv.reserved)
}

func TestService_CreateOrder_ProductNotFound(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	svc := deps.service()

	cmd := codCommand()
	cmd.Items = []CartItem{{ProductID: 404, Quantity: 1}}
	_, err := svc.CreateOrder(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, deps.inv.reserved)
}

func TestService_CreateOrder_InsufficientStock(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	deps.inv.reserveErr = &inventory.InsufficientStockError{ProductID: 2, Available: 0}
	svc := deps.service()

	_, err := svc.CreateOrder(context.Background(), codCommand())
	var ise *inventory.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, int64(2), ise.ProductID)
	// 库存不足时订单不落库
	assert.Empty(t, deps.repo.orders)
}

func TestService_CreateOrder_CarrierDown(t *testing.T) {
	t.Parallel()
	deps := newTestDeps()
	deps.ship.err = errors.New("连接承运商超时")
	svc := deps.service()

	res, err := svc.CreateOrder(context.Background(), codCommand())
	// 运单失败不阻塞下单
	require.NoError(t, err)
	assert.Empty(t, res.Order.Shipment.TrackingCode)
	assert.Len(t, deps.repo.orders, 1)
}

func TestService_CancelOrder(t *testing.T) {
	t.Parallel()

	t.Run("买家取消自己的待支付订单", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		cmd := codCommand()
		cmd.Method = domain.MethodGateway
		res, err := svc.CreateOrder(context.Background(), cmd)
		require.NoError(t, err)

		err = svc.CancelOrder(context.Background(), res.Order.SN, domain.Actor{UID: 100, Role: domain.RoleBuyer})
		require.NoError(t, err)
		got, err := svc.FindOrderBySN(context.Background(), res.Order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		// 取消后库存归还
		require.Len(t, deps.inv.released, 1)
		assert.Equal(t, deps.inv.reserved[0], deps.inv.released[0])
	})

	t.Run("别的买家无权取消", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		res, err := svc.CreateOrder(context.Background(), codCommand())
		require.NoError(t, err)

		err = svc.CancelOrder(context.Background(), res.Order.SN, domain.Actor{UID: 101, Role: domain.RoleBuyer})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Empty(t, deps.inv.released)
	})

	t.Run("已发货订单不可取消", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		res, err := svc.CreateOrder(context.Background(), codCommand())
		require.NoError(t, err)
		admin := domain.Actor{UID: 1, Role: domain.RoleAdmin}
		require.NoError(t, svc.UpdateStatus(context.Background(), res.Order.SN, domain.StatusShipped, admin))

		err = svc.CancelOrder(context.Background(), res.Order.SN, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("订单不存在", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		err := svc.CancelOrder(context.Background(), "SN404", domain.Actor{UID: 100, Role: domain.RoleBuyer})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("商家推进发货和完成", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		res, err := svc.CreateOrder(context.Background(), codCommand())
		require.NoError(t, err)
		vendor := domain.Actor{UID: 7, Role: domain.RoleVendor, ShopID: 10}

		require.NoError(t, svc.UpdateStatus(context.Background(), res.Order.SN, domain.StatusShipped, vendor))
		got, err := svc.FindOrderBySN(context.Background(), res.Order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, got.Status)

		require.NoError(t, svc.UpdateStatus(context.Background(), res.Order.SN, domain.StatusCompleted, vendor))
		got, err = svc.FindOrderBySN(context.Background(), res.Order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		// 货到付款签收即收款
		assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
		assert.NotZero(t, got.DeliveredAt)
	})

	t.Run("无关商家被拒绝", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		res, err := svc.CreateOrder(context.Background(), codCommand())
		require.NoError(t, err)

		err = svc.UpdateStatus(context.Background(), res.Order.SN, domain.StatusShipped,
			domain.Actor{UID: 8, Role: domain.RoleVendor, ShopID: 999})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("非法流转被拒绝", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		cmd := codCommand()
		cmd.Method = domain.MethodGateway
		res, err := svc.CreateOrder(context.Background(), cmd)
		require.NoError(t, err)

		// 待支付不能直接发货
		err = svc.UpdateStatus(context.Background(), res.Order.SN, domain.StatusShipped,
			domain.Actor{UID: 1, Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_ApplyPaymentResult(t *testing.T) {
	t.Parallel()

	t.Run("支付成功推进订单", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		cmd := codCommand()
		cmd.Method = domain.MethodGateway
		res, err := svc.CreateOrder(context.Background(), cmd)
		require.NoError(t, err)

		require.NoError(t, svc.ApplyPaymentResult(context.Background(), res.Order.SN, true, "TXN14422574"))
		got, err := svc.FindOrderBySN(context.Background(), res.Order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessing, got.Status)
		assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
		assert.Equal(t, "TXN14422574", got.GatewayTxnNO)
		require.Len(t, deps.producer.events, 1)

		// 重复事件幂等,不再发通知
		require.NoError(t, svc.ApplyPaymentResult(context.Background(), res.Order.SN, true, "TXN14422574"))
		assert.Len(t, deps.producer.events, 1)
	})

	t.Run("支付失败订单停在待支付", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		cmd := codCommand()
		cmd.Method = domain.MethodGateway
		res, err := svc.CreateOrder(context.Background(), cmd)
		require.NoError(t, err)

		require.NoError(t, svc.ApplyPaymentResult(context.Background(), res.Order.SN, false, ""))
		got, err := svc.FindOrderBySN(context.Background(), res.Order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingPayment, got.Status)
		assert.Equal(t, domain.PaymentStatusFailed, got.PaymentStatus)
		assert.Empty(t, deps.producer.events)
	})

	t.Run("订单不存在", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		svc := deps.service()
		err := svc.ApplyPaymentResult(context.Background(), "SN404", true, "TXN1")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
