//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/eshop/internal/inventory"
	"github.com/ecodeclub/eshop/internal/order"
	"github.com/ecodeclub/eshop/internal/payment"
	"github.com/ecodeclub/eshop/internal/product"
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitRedis, InitCache, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitSession,
		InitCarrierClient,
		initCarrierConfig,
		initGatewayConfig,
		initLandingConfig,
		product.InitModule,
		inventory.InitModule,
		payment.InitModule,
		shipping.InitModule,
		order.InitModule,
		initGinxServer)
	return new(App), nil
}
