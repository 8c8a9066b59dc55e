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
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/inventory"
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/event"
	"github.com/ecodeclub/eshop/internal/order/internal/repository"
	"github.com/ecodeclub/eshop/internal/order/internal/repository/dao"
	"github.com/ecodeclub/eshop/internal/payment"
	"github.com/ecodeclub/eshop/internal/pkg/sequencenumber"
	"github.com/ecodeclub/eshop/internal/product"
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart         = errors.New("购物车为空")
	ErrInvalidQuantity   = errors.New("商品数量非法")
	ErrProductNotFound   = errors.New("商品不存在或已下架")
	ErrOrderNotFound     = dao.ErrOrderNotFound
	ErrForbidden         = errors.New("无权操作该订单")
	ErrInvalidTransition = errors.New("订单状态流转非法")
)

// CartItem 买家提交的购买请求中的一项
type CartItem struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderCommand struct {
	BuyerID int64
	Items   []CartItem
	Address domain.Address
	Method  domain.PaymentMethod
	// 买家在结算页确认过的运费,计入应付总价
	ShippingFee int64
	ClientIP    string
	BankCode    string
}

type CreateOrderResult struct {
	Order domain.Order
	// 网关在线支付时的收银台跳转地址,货到付款为空
	RedirectURL string
}

//go:generate mockgen -source=./service.go -package=ordermocks -destination=../../mocks/order.mock.go -typed Service
type Service interface {
	// CreateOrder 下单主流程:校验商品、预占库存、落库订单、申请运单、发起支付
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	// CancelOrder 取消订单并归还库存,已发货及之后的订单不允许取消
	CancelOrder(ctx context.Context, sn string, actor domain.Actor) error
	// UpdateStatus 商家/管理员推进订单状态,非法流转被拒绝
	UpdateStatus(ctx context.Context, sn string, target domain.OrderStatus, actor domain.Actor) error
	// ApplyPaymentResult 应用支付模块的终态结果,幂等
	ApplyPaymentResult(ctx context.Context, orderSN string, paid bool, gatewayTxnNO string) error
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, int64, error)
	ListOrdersByShopID(ctx context.Context, offset, limit int, shopID int64) ([]domain.Order, int64, error)
	ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, int64, error)
}

func NewService(repo repository.OrderRepository,
	productSvc product.Service,
	inventorySvc inventory.Service,
	paymentSvc payment.Service,
	shippingSvc shipping.Service,
	producer event.OrderEventProducer,
	snGenerator *sequencenumber.Generator) Service {
	return &service{
		repo:         repo,
		productSvc:   productSvc,
		inventorySvc: inventorySvc,
		paymentSvc:   paymentSvc,
		shippingSvc:  shippingSvc,
		producer:     producer,
		snGenerator:  snGenerator,
		logger:       elog.DefaultLogger,
	}
}

type service struct {
	repo         repository.OrderRepository
	productSvc   product.Service
	inventorySvc inventory.Service
	paymentSvc   payment.Service
	shippingSvc  shipping.Service
	producer     event.OrderEventProducer
	snGenerator  *sequencenumber.Generator
	logger       *elog.Component
}

func (s *service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if len(cmd.Items) == 0 {
		return CreateOrderResult{}, ErrEmptyCart
	}

	items, itemsAmount, weight, err := s.buildOrderItems(ctx, cmd.Items)
	if err != nil {
		return CreateOrderResult{}, err
	}

	reservations := s.toReservations(items)
	// 先预占库存再落订单,中途失败宁可少卖不可超卖
	if err = s.inventorySvc.ReserveAll(ctx, reservations); err != nil {
		return CreateOrderResult{}, err
	}

	sn, err := s.snGenerator.Generate(cmd.BuyerID)
	if err != nil {
		s.releaseQuietly(ctx, reservations, "生成订单序列号失败")
		return CreateOrderResult{}, fmt.Errorf("生成订单序列号失败: %w", err)
	}

	order := domain.Order{
		SN:            sn,
		BuyerID:       cmd.BuyerID,
		Method:        cmd.Method,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Status:        domain.StatusPendingPayment,
		ItemsAmount:   itemsAmount,
		ShippingFee:   cmd.ShippingFee,
		TotalAmount:   itemsAmount + cmd.ShippingFee,
		Address:       cmd.Address,
		Items:         items,
	}
	order, err = s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.releaseQuietly(ctx, reservations, "订单落库失败")
		return CreateOrderResult{}, fmt.Errorf("创建订单失败: %w", err)
	}

	// 运单申请失败不阻塞下单,后续可人工补录
	s.attachShipment(ctx, &order, weight)

	var redirectURL string
	switch cmd.Method {
	case domain.MethodCashOnDelivery:
		// 货到付款无需支付环节,直接进入处理中
		changed, er := s.repo.UpdateStatus(ctx, order.ID, domain.StatusPendingPayment, domain.StatusProcessing)
		if er != nil {
			return CreateOrderResult{}, fmt.Errorf("货到付款订单流转失败: %w", er)
		}
		if changed {
			order.Status = domain.StatusProcessing
			s.produce(ctx, order.SN, order.BuyerID, domain.StatusProcessing)
		}
	case domain.MethodGateway:
		_, er := s.paymentSvc.CreatePayment(ctx, payment.Payment{
			OrderSN:  order.SN,
			BuyerID:  order.BuyerID,
			Amount:   order.TotalAmount,
			BankCode: cmd.BankCode,
		})
		if er != nil {
			return CreateOrderResult{}, fmt.Errorf("创建支付记录失败: %w", er)
		}
		redirectURL, er = s.paymentSvc.BuildRedirectURL(ctx, order.SN, cmd.ClientIP, cmd.BankCode)
		if er != nil {
			return CreateOrderResult{}, fmt.Errorf("构造支付跳转地址失败: %w", er)
		}
	default:
		return CreateOrderResult{}, fmt.Errorf("支付方式非法: %d", cmd.Method)
	}
	return CreateOrderResult{Order: order, RedirectURL: redirectURL}, nil
}

func (s *service) buildOrderItems(ctx context.Context, carts []CartItem) ([]domain.OrderItem, int64, int64, error) {
	items := make([]domain.OrderItem, 0, len(carts))
	var itemsAmount, weight int64
	for _, c := range carts {
		if c.Quantity < 1 {
			return nil, 0, 0, fmt.Errorf("%w: product_id=%d", ErrInvalidQuantity, c.ProductID)
		}
		p, err := s.productSvc.FindOnShelfByID(ctx, c.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, 0, 0, fmt.Errorf("%w: product_id=%d", ErrProductNotFound, c.ProductID)
			}
			return nil, 0, 0, fmt.Errorf("查找商品失败: %w", err)
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			ShopID:    p.ShopID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  c.Quantity,
		})
		itemsAmount += p.Price * c.Quantity
		weight += p.Weight * c.Quantity
	}
	return items, itemsAmount, weight, nil
}

func (s *service) toReservations(items []domain.OrderItem) []inventory.ReservationItem {
	return slice.Map(items, func(idx int, src domain.OrderItem) inventory.ReservationItem {
		return inventory.ReservationItem{
			ProductID: src.ProductID,
			Quantity:  src.Quantity,
		}
	})
}

func (s *service) releaseQuietly(ctx context.Context, items []inventory.ReservationItem, reason string) {
	if err := s.inventorySvc.ReleaseAll(ctx, items); err != nil {
		s.logger.Error("回滚库存预占失败",
			elog.FieldErr(err),
			elog.String("reason", reason))
	}
}

func (s *service) attachShipment(ctx context.Context, order *domain.Order, weightGrams int64) {
	var codAmount int64
	if order.Method == domain.MethodCashOnDelivery {
		codAmount = order.TotalAmount
	}
	shipment, err := s.shippingSvc.CreateShipment(ctx, shipping.ShipmentRequest{
		OrderSN:     order.SN,
		Recipient:   order.Address.Recipient,
		Phone:       order.Address.Phone,
		Detail:      order.Address.Detail,
		City:        order.Address.City,
		DistrictID:  order.Address.DistrictID,
		WardCode:    order.Address.WardCode,
		WeightGrams: weightGrams,
		CODAmount:   codAmount,
	})
	if err != nil {
		s.logger.Error("创建运单失败", elog.FieldErr(err), elog.String("order_sn", order.SN))
		return
	}
	set, err := s.repo.SetShipment(ctx, order.ID, domain.Shipment{
		TrackingCode:     shipment.TrackingCode,
		ExpectedDelivery: shipment.ExpectedDelivery,
	})
	if err != nil || !set {
		s.logger.Error("记录运单信息失败", elog.FieldErr(err), elog.String("order_sn", order.SN))
		return
	}
	order.Shipment = domain.Shipment{
		TrackingCode:     shipment.TrackingCode,
		ExpectedDelivery: shipment.ExpectedDelivery,
	}
}

func (s *service) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	return s.repo.FindOrderBySNAndBuyerID(ctx, sn, buyerID)
}

func (s *service) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	return s.repo.FindOrderBySN(ctx, sn)
}

func (s *service) CancelOrder(ctx context.Context, sn string, actor domain.Actor) error {
	order, err := s.repo.FindOrderBySN(ctx, sn)
	if err != nil {
		return err
	}
	if !actor.CanAct(order, domain.StatusCancelled) {
		return ErrForbidden
	}
	if !order.Cancellable() {
		return fmt.Errorf("%w: 当前状态 %d 不允许取消", ErrInvalidTransition, order.Status)
	}
	return s.cancel(ctx, order)
}

// cancel 先 CAS 改状态再归还库存,并发取消时只有赢家归还,
// 中途崩溃的后果是库存偏少,可由对账任务修复,不会超卖
func (s *service) cancel(ctx context.Context, order domain.Order) error {
	changed, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, domain.StatusCancelled)
	if err != nil {
		return fmt.Errorf("取消订单失败: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: 订单状态已变更", ErrInvalidTransition)
	}
	if er := s.inventorySvc.ReleaseAll(ctx, s.toReservations(order.Items)); er != nil {
		s.logger.Error("取消订单后归还库存失败",
			elog.FieldErr(er),
			elog.String("order_sn", order.SN))
	}
	s.produce(ctx, order.SN, order.BuyerID, domain.StatusCancelled)
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, sn string, target domain.OrderStatus, actor domain.Actor) error {
	order, err := s.repo.FindOrderBySN(ctx, sn)
	if err != nil {
		return err
	}
	if !actor.CanAct(order, target) {
		return ErrForbidden
	}
	if !order.CanTransitionTo(target) {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, order.Status, target)
	}
	if target == domain.StatusCancelled {
		return s.cancel(ctx, order)
	}

	changed, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, target)
	if err != nil {
		return fmt.Errorf("更新订单状态失败: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: 订单状态已变更", ErrInvalidTransition)
	}

	switch target {
	case domain.StatusShipped:
		s.syncTrack(ctx, order)
	case domain.StatusCompleted:
		if er := s.repo.MarkDelivered(ctx, order.ID, time.Now().UnixMilli()); er != nil {
			s.logger.Error("记录签收时间失败",
				elog.FieldErr(er),
				elog.String("order_sn", order.SN))
		}
	}
	s.produce(ctx, order.SN, order.BuyerID, target)
	return nil
}

// syncTrack 发货时顺带同步一次承运商轨迹,仅做日志记录
func (s *service) syncTrack(ctx context.Context, order domain.Order) {
	if order.Shipment.TrackingCode == "" {
		return
	}
	info, err := s.shippingSvc.Track(ctx, order.Shipment.TrackingCode)
	if err != nil {
		s.logger.Warn("同步承运商轨迹失败",
			elog.FieldErr(err),
			elog.String("tracking_code", order.Shipment.TrackingCode))
		return
	}
	s.logger.Info("承运商轨迹",
		elog.String("order_sn", order.SN),
		elog.String("tracking_code", info.TrackingCode),
		elog.String("status", info.Status))
}

func (s *service) ApplyPaymentResult(ctx context.Context, orderSN string, paid bool, gatewayTxnNO string) error {
	order, err := s.repo.FindOrderBySN(ctx, orderSN)
	if err != nil {
		return err
	}
	status := domain.PaymentStatusFailed
	if paid {
		status = domain.PaymentStatusPaid
	}
	changed, err := s.repo.UpdatePaymentResult(ctx, order.ID, status, gatewayTxnNO)
	if err != nil {
		return fmt.Errorf("更新订单支付结果失败: %w", err)
	}
	if !changed {
		// 重复事件,或订单已处于已支付
		return nil
	}
	if !paid {
		return nil
	}
	ok, err := s.repo.UpdateStatus(ctx, order.ID, domain.StatusPendingPayment, domain.StatusProcessing)
	if err != nil {
		return fmt.Errorf("支付成功后流转订单失败: %w", err)
	}
	if ok {
		s.produce(ctx, orderSN, order.BuyerID, domain.StatusProcessing)
	}
	return nil
}

func (s *service) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByBuyerID(ctx, offset, limit, buyerID)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersByBuyerID(ctx, buyerID)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListOrdersByShopID(ctx context.Context, offset, limit int, shopID int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByShopID(ctx, offset, limit, shopID)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersByShopID(ctx, shopID)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrders(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) produce(ctx context.Context, orderSN string, buyerID int64, status domain.OrderStatus) {
	err := s.producer.Produce(ctx, event.OrderEvent{
		OrderSN: orderSN,
		BuyerID: buyerID,
		Status:  status.ToUint8(),
	})
	if err != nil {
		// 事件丢失不影响订单本身,下游各自有对账手段
		s.logger.Error("发送订单状态事件失败",
			elog.FieldErr(err),
			elog.String("order_sn", orderSN),
			elog.Any("status", status))
	}
}
