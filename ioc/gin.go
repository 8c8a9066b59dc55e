package ioc

import (
	"net/http"
	"strings"

	"github.com/ecodeclub/eshop/internal/order"
	"github.com/ecodeclub/eshop/internal/payment"
	"github.com/ecodeclub/eshop/internal/pkg/middleware"
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(sp session.Provider,
	om *order.Module,
	paym *payment.Module,
	sm *shipping.Module,
) *egin.Component {
	session.SetDefaultProvider(sp)
	res := egin.Load("web").Build()
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc: allowOrigin(econf.GetStringSlice("cors.allowedOrigins")),
	}))
	res.Use(middleware.NewMetricsBuilder().Build())
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	// 网关回调、运费与时效报价不要求登录
	paym.Hdl.PublicRoutes(res.Engine)
	sm.Hdl.PublicRoutes(res.Engine)
	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	om.Hdl.PrivateRoutes(res.Engine)
	om.VendorHdl.PrivateRoutes(res.Engine)
	paym.Hdl.PrivateRoutes(res.Engine)
	sm.Hdl.PrivateRoutes(res.Engine)
	return res
}

// allowOrigin 本地调试一律放行,线上域名走配置
func allowOrigin(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		if strings.HasPrefix(origin, "http://localhost") {
			return true
		}
		for _, domain := range allowed {
			if strings.Contains(origin, domain) {
				return true
			}
		}
		return false
	}
}
