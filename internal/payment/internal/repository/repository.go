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

	"github.com/ecodeclub/eshop/internal/payment/internal/domain"
	"github.com/ecodeclub/eshop/internal/payment/internal/repository/dao"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	MarkResult(ctx context.Context, orderSN string, status domain.PaymentStatus, txnNO string, paidAt int64) (bool, error)
}

func NewRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{d: d}
}

type paymentRepository struct {
	d dao.PaymentDAO
}

func (r *paymentRepository) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	id, err := r.d.Create(ctx, dao.Payment{
		OrderSN:  p.OrderSN,
		BuyerID:  p.BuyerID,
		Amount:   p.Amount,
		Status:   p.Status.ToUint8(),
		BankCode: p.BankCode,
	})
	if err != nil {
		return domain.Payment{}, err
	}
	p.ID = id
	return p, nil
}

func (r *paymentRepository) FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	p, err := r.d.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{
		ID:           p.Id,
		OrderSN:      p.OrderSN,
		BuyerID:      p.BuyerID,
		Amount:       p.Amount,
		Status:       domain.PaymentStatus(p.Status),
		GatewayTxnNO: p.GatewayTxnNO,
		BankCode:     p.BankCode,
		PaidAt:       p.PaidAt,
		Ctime:        p.Ctime,
		Utime:        p.Utime,
	}, nil
}

func (r *paymentRepository) MarkResult(ctx context.Context, orderSN string, status domain.PaymentStatus, txnNO string, paidAt int64) (bool, error) {
	return r.d.MarkResult(ctx, orderSN, status.ToUint8(), txnNO, paidAt)
}
