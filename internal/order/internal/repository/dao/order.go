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

package dao

import (
	"context"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("订单未找到")

type OrderDAO interface {
	CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error)
	FindBySN(ctx context.Context, sn string) (Order, error)
	FindBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error)
	FindItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error)
	// UpdateStatus CAS 更新订单状态,并发下只有一个调用方能把 from 改成 to
	UpdateStatus(ctx context.Context, oid int64, from, to uint8) (bool, error)
	// UpdatePaymentResult 已支付的订单不再接受任何支付结果
	UpdatePaymentResult(ctx context.Context, oid int64, status uint8, gatewayTxnNO string) (bool, error)
	// SetShipment 每个订单至多设置一次运单
	SetShipment(ctx context.Context, oid int64, trackingCode string, expectedDelivery int64) (bool, error)
	MarkDelivered(ctx context.Context, oid int64, deliveredAt int64) error
	ListByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error)
	CountByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListByShopID(ctx context.Context, offset, limit int, shopID int64) ([]Order, error)
	CountByShopID(ctx context.Context, shopID int64) (int64, error)
	List(ctx context.Context, offset, limit int) ([]Order, error)
	Count(ctx context.Context) (int64, error)
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &gormOrderDAO{db: db}
}

type gormOrderDAO struct {
	db *egorm.Component
}

func (g *gormOrderDAO) CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error) {
	now := time.Now().UnixMilli()
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o.Ctime, o.Utime = now, now
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = o.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return 0, err
	}
	return o.Id, nil
}

func (g *gormOrderDAO) FindBySN(ctx context.Context, sn string) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (g *gormOrderDAO) FindBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).
		Where("sn = ? AND buyer_id = ?", sn, buyerID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (g *gormOrderDAO) FindItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error) {
	var items []OrderItem
	err := g.db.WithContext(ctx).Where("order_id = ?", oid).Find(&items).Error
	return items, err
}

func (g *gormOrderDAO) UpdateStatus(ctx context.Context, oid int64, from, to uint8) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", oid, from).
		Updates(map[string]any{
			"status": to,
			"utime":  time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *gormOrderDAO) UpdatePaymentResult(ctx context.Context, oid int64, status uint8, gatewayTxnNO string) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND payment_status != ?", oid, PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status": status,
			"gateway_txn_no": gatewayTxnNO,
			"utime":          time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *gormOrderDAO) SetShipment(ctx context.Context, oid int64, trackingCode string, expectedDelivery int64) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND tracking_code = ''", oid).
		Updates(map[string]any{
			"tracking_code":     trackingCode,
			"expected_delivery": expectedDelivery,
			"utime":             time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *gormOrderDAO) MarkDelivered(ctx context.Context, oid int64, deliveredAt int64) error {
	// 货到付款在签收时视为收款完成,在线支付此时本就处于已支付
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", oid).
		Updates(map[string]any{
			"delivered_at":   deliveredAt,
			"payment_status": PaymentStatusPaid,
			"utime":          time.Now().UnixMilli(),
		}).Error
}

func (g *gormOrderDAO) ListByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error) {
	var os []Order
	err := g.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("ctime DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, err
}

func (g *gormOrderDAO) CountByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("buyer_id = ?", buyerID).Count(&total).Error
	return total, err
}

func (g *gormOrderDAO) ListByShopID(ctx context.Context, offset, limit int, shopID int64) ([]Order, error) {
	var os []Order
	sub := g.db.Model(&OrderItem{}).Select("DISTINCT order_id").Where("shop_id = ?", shopID)
	err := g.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("ctime DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, err
}

func (g *gormOrderDAO) CountByShopID(ctx context.Context, shopID int64) (int64, error) {
	var total int64
	sub := g.db.Model(&OrderItem{}).Select("DISTINCT order_id").Where("shop_id = ?", shopID)
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("id IN (?)", sub).Count(&total).Error
	return total, err
}

func (g *gormOrderDAO) List(ctx context.Context, offset, limit int) ([]Order, error) {
	var os []Order
	err := g.db.WithContext(ctx).
		Order("ctime DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, err
}

func (g *gormOrderDAO) Count(ctx context.Context) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(&Order{}).Count(&total).Error
	return total, err
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Order{}, &OrderItem{})
}

// PaymentStatusPaid 与 domain.PaymentStatusPaid 保持一致,DAO 层不反向依赖领域层
const PaymentStatusPaid = 2

type Order struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN            string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId       int64  `gorm:"not null;index:idx_order_buyer_id;comment:买家ID"`
	Method        uint8  `gorm:"type:tinyint unsigned;not null;comment:支付方式 1=货到付款 2=网关在线支付"`
	PaymentStatus uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=未支付 2=已支付 3=支付失败"`
	Status        uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:订单状态 1=待支付 2=处理中 3=已发货 4=已完成 5=已取消"`
	ItemsAmount   int64  `gorm:"not null;comment:商品总价;最小货币单位"`
	ShippingFee   int64  `gorm:"not null;comment:运费;最小货币单位"`
	TotalAmount   int64  `gorm:"not null;comment:应付总价=商品总价+运费"`
	Recipient     string `gorm:"type:varchar(255);not null;comment:收件人"`
	Phone         string `gorm:"type:varchar(63);not null;comment:收件人电话"`
	AddressDetail string `gorm:"type:varchar(512);not null;comment:详细地址"`
	City          string `gorm:"type:varchar(255);not null;comment:城市"`
	DistrictId    int64  `gorm:"not null;comment:承运商行政区ID"`
	WardCode      string `gorm:"type:varchar(63);not null;default:'';comment:承运商坊/乡编码"`
	// 承运商运单号,至多设置一次
	TrackingCode     string `gorm:"type:varchar(255);not null;default:'';comment:运单号"`
	ExpectedDelivery int64  `gorm:"comment:预计送达时间"`
	GatewayTxnNO     string `gorm:"type:varchar(255);not null;default:'';comment:网关第三方交易号"`
	DeliveredAt      int64  `gorm:"comment:实际签收时间"`
	Ctime            int64
	Utime            int64
}

// OrderItem 商品快照,下单后商品信息变动不影响订单
type OrderItem struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId   int64  `gorm:"not null;index:idx_order_item_order_id;comment:订单自增ID"`
	ProductId int64  `gorm:"not null;index:idx_order_item_product_id;comment:商品ID"`
	ShopId    int64  `gorm:"not null;index:idx_order_item_shop_id;comment:店铺ID"`
	Name      string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	Image     string `gorm:"type:varchar(512);not null;comment:商品图片快照"`
	Price     int64  `gorm:"not null;comment:成交单价快照;最小货币单位"`
	Quantity  int64  `gorm:"not null;comment:购买数量"`
	Ctime     int64
	Utime     int64
}
