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

//go:build wireinject

package order

import (
	"context"
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/eshop/internal/inventory"
	"github.com/ecodeclub/eshop/internal/order/internal/event"
	"github.com/ecodeclub/eshop/internal/order/internal/event/consumer"
	"github.com/ecodeclub/eshop/internal/order/internal/repository"
	"github.com/ecodeclub/eshop/internal/order/internal/repository/dao"
	"github.com/ecodeclub/eshop/internal/order/internal/service"
	"github.com/ecodeclub/eshop/internal/order/internal/web"
	"github.com/ecodeclub/eshop/internal/payment"
	"github.com/ecodeclub/eshop/internal/pkg/sequencenumber"
	"github.com/ecodeclub/eshop/internal/product"
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component,
	q mq.MQ,
	cache ecache.Cache,
	pm *product.Module,
	im *inventory.Module,
	paym *payment.Module,
	sm *shipping.Module) (*Module, error) {
	wire.Build(
		InitTablesOnce,
		repository.NewRepository,
		wire.FieldsOf(new(*product.Module), "Svc"),
		wire.FieldsOf(new(*inventory.Module), "Svc"),
		wire.FieldsOf(new(*payment.Module), "Svc"),
		wire.FieldsOf(new(*shipping.Module), "Svc"),
		sequencenumber.NewGenerator,
		event.NewOrderEventProducer,
		service.NewService,
		web.NewHandler,
		web.NewVendorHandler,
		newPaymentEventConsumer,
		wire.Struct(new(Module), "*"),
	)
	return nil, nil
}

func newPaymentEventConsumer(svc service.Service, q mq.MQ) (*consumer.PaymentEventConsumer, error) {
	res, err := consumer.NewPaymentEventConsumer(svc, q)
	if err == nil {
		res.Start(context.Background())
	}
	return res, err
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.OrderDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewOrderGORMDAO(db)
}
