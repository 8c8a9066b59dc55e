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

var ErrPaymentNotFound = errors.New("支付记录未找到")

type PaymentDAO interface {
	Create(ctx context.Context, p Payment) (int64, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	// MarkResult 幂等落账: 已成功的记录不会被重复更新,返回是否真的发生了状态变更
	MarkResult(ctx context.Context, orderSN string, status uint8, txnNO string, paidAt int64) (bool, error)
}

type PaymentGORMDAO struct {
	db *egorm.Component
}

func NewPaymentGORMDAO(db *egorm.Component) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

func (d *PaymentGORMDAO) Create(ctx context.Context, p Payment) (int64, error) {
	now := time.Now()
	p.Utime, p.Ctime = now.UnixMilli(), now.UnixMilli()
	return p.Id, d.db.WithContext(ctx).Create(&p).Error
}

func (d *PaymentGORMDAO) FindByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := d.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Payment{}, ErrPaymentNotFound
	}
	return res, err
}

func (d *PaymentGORMDAO) MarkResult(ctx context.Context, orderSN string, status uint8, txnNO string, paidAt int64) (bool, error) {
	// 已成功的记录不可被任何结果覆盖,包括迟到的失败回调
	res := d.db.WithContext(ctx).Model(&Payment{}).
		Where("order_sn = ? AND status NOT IN ?", orderSN, []uint8{StatusPaidSuccess, status}).
		Updates(map[string]any{
			"status":         status,
			"gateway_txn_no": txnNO,
			"paid_at":        paidAt,
			"utime":          time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// StatusPaidSuccess 与 domain.PaymentStatusPaidSuccess 保持一致,DAO 层不反向依赖领域层
const StatusPaidSuccess = 2

type Payment struct {
	Id           int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	OrderSN      string `gorm:"column:order_sn;type:varchar(255);not null;uniqueIndex:uniq_payment_order_sn;comment:订单序列号"`
	BuyerID      int64  `gorm:"column:buyer_id;not null;index:idx_buyer_id;comment:买家ID"`
	Amount       int64  `gorm:"not null;comment:支付金额;最小货币单位"`
	Status       uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=未支付 2=成功 3=失败"`
	GatewayTxnNO string `gorm:"column:gateway_txn_no;type:varchar(255);not null;default:'';comment:网关第三方交易号"`
	BankCode     string `gorm:"type:varchar(64);not null;default:'';comment:银行通道"`
	PaidAt       int64  `gorm:"comment:支付完成时间"`
	Ctime        int64
	Utime        int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Payment{})
}
