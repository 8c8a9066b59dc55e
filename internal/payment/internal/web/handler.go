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

package web

import (
	"errors"
	"fmt"

	"github.com/ecodeclub/eshop/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/eshop/internal/payment/internal/service"
	"github.com/ecodeclub/eshop/internal/payment/internal/service/gateway"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = &Handler{}

// LandingConfig 回调处理完成后前端的落地页
type LandingConfig struct {
	SuccessURL string `yaml:"successURL"`
	FailureURL string `yaml:"failureURL"`
}

type Handler struct {
	svc     service.Service
	landing LandingConfig
	logger  *elog.Component
}

func NewHandler(svc service.Service, landing LandingConfig) *Handler {
	return &Handler{svc: svc, landing: landing, logger: elog.DefaultLogger}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/pay/redirect", ginx.BS[BuildRedirectReq](h.BuildRedirect))
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	// 浏览器跳转与网关服务端通知共用同一入口
	server.GET("/pay/callback", ginx.W(h.HandleCallback))
}

// BuildRedirect 为待支付订单构造网关收银台跳转地址
func (h *Handler) BuildRedirect(ctx *ginx.Context, req BuildRedirectReq, _ session.Session) (ginx.Result, error) {
	u, err := h.svc.BuildRedirectURL(ctx.Request.Context(), req.OrderSN, ctx.ClientIP(), req.BankCode)
	if err != nil {
		if errors.Is(err, dao.ErrPaymentNotFound) {
			return paymentNotFoundResult, err
		}
		return systemErrorResult, fmt.Errorf("构造网关跳转地址失败: %w", err)
	}
	return ginx.Result{
		Data: BuildRedirectResp{RedirectURL: u},
	}, nil
}

// HandleCallback 网关回调入口。验签失败返回结构化错误码,绝不跳转。
func (h *Handler) HandleCallback(ctx *ginx.Context) (ginx.Result, error) {
	params := make(map[string]string)
	for k, vs := range ctx.Request.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	res, err := h.svc.HandleCallback(ctx.Request.Context(), params)
	if err != nil {
		if errors.Is(err, gateway.ErrChecksumMismatch) || errors.Is(err, gateway.ErrMissingParam) {
			return checksumMismatchResult, err
		}
		if errors.Is(err, dao.ErrPaymentNotFound) {
			return paymentNotFoundResult, err
		}
		return systemErrorResult, fmt.Errorf("处理网关回调失败: %w", err)
	}
	landing := h.landing.FailureURL
	if res.Success {
		landing = h.landing.SuccessURL
	}
	return ginx.Result{
		Data: CallbackResp{
			OrderSN:     res.OrderSN,
			Paid:        res.Success,
			RedirectURL: fmt.Sprintf("%s?orderSN=%s", landing, res.OrderSN),
		},
	}, nil
}
