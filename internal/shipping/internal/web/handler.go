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
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/shipping/internal/domain"
	"github.com/ecodeclub/eshop/internal/shipping/internal/errs"
	"github.com/ecodeclub/eshop/internal/shipping/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

var systemErrorResult = ginx.Result{
	Code: errs.SystemError.Code,
	Msg:  errs.SystemError.Msg,
}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/shipping")
	g.GET("/regions", ginx.W(h.ListRegions))
	g.POST("/fee", ginx.B[QuoteFeeReq](h.QuoteFee))
	g.POST("/leadtime", ginx.B[LeadTimeReq](h.LeadTime))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/shipping/track", ginx.B[TrackReq](h.Track))
}

func (h *Handler) ListRegions(ctx *ginx.Context) (ginx.Result, error) {
	regions, err := h.svc.ListRegions(ctx.Request.Context())
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListRegionsResp{
			Regions: slice.Map(regions.List, func(idx int, src domain.Region) Region {
				return Region{ID: src.ID, Name: src.Name, Type: src.Type}
			}),
			Degraded: regions.Degraded,
		},
	}, nil
}

func (h *Handler) QuoteFee(ctx *ginx.Context, req QuoteFeeReq) (ginx.Result, error) {
	quote, err := h.svc.QuoteFee(ctx.Request.Context(), req.DistrictID, req.WeightGrams)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: QuoteFeeResp{Total: quote.Total, Degraded: quote.Degraded},
	}, nil
}

func (h *Handler) LeadTime(ctx *ginx.Context, req LeadTimeReq) (ginx.Result, error) {
	lt, err := h.svc.LeadTime(ctx.Request.Context(), req.DistrictID)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: LeadTimeResp{ExpectedDelivery: lt.ExpectedDelivery, Degraded: lt.Degraded},
	}, nil
}

func (h *Handler) Track(ctx *ginx.Context, req TrackReq) (ginx.Result, error) {
	info, err := h.svc.Track(ctx.Request.Context(), req.TrackingCode)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: TrackResp{
			TrackingCode: info.TrackingCode,
			Status:       info.Status,
			Degraded:     info.Degraded,
		},
	}, nil
}
