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

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/eshop/internal/order/internal/event"
	"github.com/ecodeclub/eshop/internal/order/internal/service"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

// 支付模块的终态定义,1=未支付 2=已支付 3=支付失败
const paymentStatusPaidSuccess = 2

// PaymentEventConsumer 消费支付模块发布的支付结果,驱动订单状态机。
// 支付回调的幂等性已由支付模块保证,这里对同一订单的重复事件也做幂等处理。
type PaymentEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentEventConsumer(svc service.Service, q mq.MQ) (*PaymentEventConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(event.PaymentEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付结果事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt event.PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	paid := evt.Status == paymentStatusPaidSuccess
	err = c.svc.ApplyPaymentResult(ctx, evt.OrderSN, paid, evt.GatewayTxnNO)
	if err != nil {
		c.logger.Error("应用支付结果失败",
			elog.FieldErr(err),
			elog.String("order_sn", evt.OrderSN))
		return err
	}
	return nil
}
