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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/order/internal/domain"
	"github.com/ecodeclub/eshop/internal/order/internal/repository/dao"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error)
	UpdatePaymentResult(ctx context.Context, orderID int64, status domain.PaymentStatus, gatewayTxnNO string) (bool, error)
	SetShipment(ctx context.Context, orderID int64, shipment domain.Shipment) (bool, error)
	MarkDelivered(ctx context.Context, orderID int64, deliveredAt int64) error
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error)
	TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListOrdersByShopID(ctx context.Context, offset, limit int, shopID int64) ([]domain.Order, error)
	TotalOrdersByShopID(ctx context.Context, shopID int64) (int64, error)
	ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, error)
	TotalOrders(ctx context.Context) (int64, error)
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{d: d}
}

type orderRepository struct {
	d dao.OrderDAO
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	oid, err := o.d.CreateOrder(ctx, o.toOrderEntity(order), o.toOrderItemEntities(order.Items))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = oid
	return order, nil
}

func (o *orderRepository) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	order, err := o.d.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := o.d.FindItemsByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, err
	}
	return o.toOrderDomain(order, items), nil
}

func (o *orderRepository) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	order, err := o.d.FindBySNAndBuyerID(ctx, sn, buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := o.d.FindItemsByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, err
	}
	return o.toOrderDomain(order, items), nil
}

func (o *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	return o.d.UpdateStatus(ctx, orderID, from.ToUint8(), to.ToUint8())
}

func (o *orderRepository) UpdatePaymentResult(ctx context.Context, orderID int64, status domain.PaymentStatus, gatewayTxnNO string) (bool, error) {
	return o.d.UpdatePaymentResult(ctx, orderID, status.ToUint8(), gatewayTxnNO)
}

func (o *orderRepository) SetShipment(ctx context.Context, orderID int64, shipment domain.Shipment) (bool, error) {
	return o.d.SetShipment(ctx, orderID, shipment.TrackingCode, shipment.ExpectedDelivery)
}

func (o *orderRepository) MarkDelivered(ctx context.Context, orderID int64, deliveredAt int64) error {
	return o.d.MarkDelivered(ctx, orderID, deliveredAt)
}

func (o *orderRepository) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error) {
	os, err := o.d.ListByBuyerID(ctx, offset, limit, buyerID)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(ctx, os)
}

func (o *orderRepository) TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	return o.d.CountByBuyerID(ctx, buyerID)
}

func (o *orderRepository) ListOrdersByShopID(ctx context.Context, offset, limit int, shopID int64) ([]domain.Order, error) {
	os, err := o.d.ListByShopID(ctx, offset, limit, shopID)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(ctx, os)
}

func (o *orderRepository) TotalOrdersByShopID(ctx context.Context, shopID int64) (int64, error) {
	return o.d.CountByShopID(ctx, shopID)
}

func (o *orderRepository) ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, error) {
	os, err := o.d.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(ctx, os)
}

func (o *orderRepository) TotalOrders(ctx context.Context) (int64, error) {
	return o.d.Count(ctx)
}

func (o *orderRepository) toOrderDomains(ctx context.Context, os []dao.Order) ([]domain.Order, error) {
	res := make([]domain.Order, 0, len(os))
	for _, src := range os {
		items, err := o.d.FindItemsByOrderID(ctx, src.Id)
		if err != nil {
			return nil, err
		}
		res = append(res, o.toOrderDomain(src, items))
	}
	return res, nil
}

func (o *orderRepository) toOrderEntity(order domain.Order) dao.Order {
	return dao.Order{
		Id:               order.ID,
		SN:               order.SN,
		BuyerId:          order.BuyerID,
		Method:           order.Method.ToUint8(),
		PaymentStatus:    order.PaymentStatus.ToUint8(),
		Status:           order.Status.ToUint8(),
		ItemsAmount:      order.ItemsAmount,
		ShippingFee:      order.ShippingFee,
		TotalAmount:      order.TotalAmount,
		Recipient:        order.Address.Recipient,
		Phone:            order.Address.Phone,
		AddressDetail:    order.Address.Detail,
		City:             order.Address.City,
		DistrictId:       order.Address.DistrictID,
		WardCode:         order.Address.WardCode,
		TrackingCode:     order.Shipment.TrackingCode,
		ExpectedDelivery: order.Shipment.ExpectedDelivery,
		GatewayTxnNO:     order.GatewayTxnNO,
		DeliveredAt:      order.DeliveredAt,
	}
}

func (o *orderRepository) toOrderItemEntities(items []domain.OrderItem) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.OrderItem) dao.OrderItem {
		return dao.OrderItem{
			ProductId: src.ProductID,
			ShopId:    src.ShopID,
			Name:      src.Name,
			Image:     src.Image,
			Price:     src.Price,
			Quantity:  src.Quantity,
		}
	})
}

func (o *orderRepository) toOrderDomain(order dao.Order, items []dao.OrderItem) domain.Order {
	return domain.Order{
		ID:            order.Id,
		SN:            order.SN,
		BuyerID:       order.BuyerId,
		Method:        domain.PaymentMethod(order.Method),
		PaymentStatus: domain.PaymentStatus(order.PaymentStatus),
		Status:        domain.OrderStatus(order.Status),
		ItemsAmount:   order.ItemsAmount,
		ShippingFee:   order.ShippingFee,
		TotalAmount:   order.TotalAmount,
		Address: domain.Address{
			Recipient:  order.Recipient,
			Phone:      order.Phone,
			Detail:     order.AddressDetail,
			City:       order.City,
			DistrictID: order.DistrictId,
			WardCode:   order.WardCode,
		},
		Shipment: domain.Shipment{
			TrackingCode:     order.TrackingCode,
			ExpectedDelivery: order.ExpectedDelivery,
		},
		GatewayTxnNO: order.GatewayTxnNO,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.OrderItem {
			return domain.OrderItem{
				OrderID:   src.OrderId,
				ProductID: src.ProductId,
				ShopID:    src.ShopId,
				Name:      src.Name,
				Image:     src.Image,
				Price:     src.Price,
				Quantity:  src.Quantity,
			}
		}),
		DeliveredAt: order.DeliveredAt,
		Ctime:       order.Ctime,
		Utime:       order.Utime,
	}
}
