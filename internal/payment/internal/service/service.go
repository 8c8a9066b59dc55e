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
	"fmt"
	"time"

	"github.com/ecodeclub/eshop/internal/payment/internal/domain"
	"github.com/ecodeclub/eshop/internal/payment/internal/event"
	"github.com/ecodeclub/eshop/internal/payment/internal/repository"
	"github.com/ecodeclub/eshop/internal/payment/internal/service/gateway"
	"github.com/gotomicro/ego/core/elog"
)

//go:generate mockgen -source=./service.go -package=paymentmocks -destination=../../mocks/payment.mock.go -typed Service
type Service interface {
	// CreatePayment 为订单创建一条未支付记录
	CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
	// BuildRedirectURL 构造带签名的网关跳转地址
	BuildRedirectURL(ctx context.Context, orderSN, clientIP, bankCode string) (string, error)
	// HandleCallback 验签并幂等落账。验签失败不产生任何状态变更。
	HandleCallback(ctx context.Context, params map[string]string) (domain.CallbackResult, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
}

func NewService(repo repository.PaymentRepository, gw *gateway.Gateway, producer event.PaymentEventProducer) Service {
	return &service{
		repo:     repo,
		gw:       gw,
		producer: producer,
		logger:   elog.DefaultLogger,
	}
}

type service struct {
	repo     repository.PaymentRepository
	gw       *gateway.Gateway
	producer event.PaymentEventProducer
	logger   *elog.Component
}

func (s *service) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	p.Status = domain.PaymentStatusUnpaid
	return s.repo.CreatePayment(ctx, p)
}

func (s *service) BuildRedirectURL(ctx context.Context, orderSN, clientIP, bankCode string) (string, error) {
	p, err := s.repo.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return "", fmt.Errorf("查找支付记录失败: %w", err)
	}
	return s.gw.BuildRedirectURL(gateway.RedirectRequest{
		OrderSN:  p.OrderSN,
		Amount:   p.Amount,
		Memo:     fmt.Sprintf("Thanh toan don hang %s", p.OrderSN),
		ClientIP: clientIP,
		BankCode: bankCode,
	})
}

func (s *service) FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	return s.repo.FindByOrderSN(ctx, orderSN)
}

func (s *service) HandleCallback(ctx context.Context, params map[string]string) (domain.CallbackResult, error) {
	if err := s.gw.VerifyCallback(params); err != nil {
		s.logger.Warn("网关回调验签失败", elog.FieldErr(err))
		return domain.CallbackResult{}, err
	}
	orderSN, amount, txnNO, code, err := s.gw.ParseCallback(params)
	if err != nil {
		return domain.CallbackResult{}, err
	}
	res := domain.CallbackResult{
		OrderSN:      orderSN,
		Amount:       amount,
		GatewayTxnNO: txnNO,
		ResponseCode: code,
		Success:      code == gateway.SuccessCode,
	}

	existing, err := s.repo.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.CallbackResult{}, fmt.Errorf("回调引用的订单不存在: %w", err)
	}
	// 浏览器跳转和服务端通知可能都会送达,已成功的记录直接忽略后续回调
	if existing.Status == domain.PaymentStatusPaidSuccess {
		return res, nil
	}

	status := domain.PaymentStatusPaidFailed
	var paidAt int64
	if res.Success {
		status = domain.PaymentStatusPaidSuccess
		paidAt = time.Now().UnixMilli()
	}
	changed, err := s.repo.MarkResult(ctx, orderSN, status, txnNO, paidAt)
	if err != nil {
		return domain.CallbackResult{}, fmt.Errorf("更新支付结果失败: %w", err)
	}
	if changed {
		er := s.producer.Produce(ctx, event.PaymentEvent{
			OrderSN:      orderSN,
			GatewayTxnNO: txnNO,
			Status:       status.ToUint8(),
		})
		if er != nil {
			// 事件发送失败不影响已落库的支付结果,依赖定时对账兜底
			s.logger.Error("发送支付结果事件失败",
				elog.FieldErr(er),
				elog.String("order_sn", orderSN))
		}
	}
	return res, nil
}
