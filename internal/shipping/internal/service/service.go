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
	"time"

	"github.com/ecodeclub/eshop/internal/shipping/internal/domain"
	"github.com/ecodeclub/eshop/internal/shipping/internal/service/carrier"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
)

//go:generate mockgen -source=./service.go -package=shippingmocks -destination=../../mocks/shipping.mock.go -typed Service
type Service interface {
	ListRegions(ctx context.Context) (domain.Regions, error)
	QuoteFee(ctx context.Context, districtID int64, weightGrams int64) (domain.FeeQuote, error)
	LeadTime(ctx context.Context, districtID int64) (domain.LeadTime, error)
	// CreateShipment 尽力而为: 承运商不可达时返回本地运单,绝不让下单失败
	CreateShipment(ctx context.Context, req domain.ShipmentRequest) (domain.Shipment, error)
	Track(ctx context.Context, trackingCode string) (domain.TrackInfo, error)
}

const (
	// 本地估算运费: 基础费 + 按重量分级加价
	fallbackBaseFee = 15000
	// 标准时效,本地估算统一按 4 天
	fallbackLeadDays = 4
)

func NewService(cli carrier.Client) Service {
	return NewServiceWith(cli, time.Now, func() string { return "LOCAL-" + shortuuid.New() })
}

func NewServiceWith(cli carrier.Client, now func() time.Time, trackingGen func() string) Service {
	return &service{
		cli:         cli,
		now:         now,
		trackingGen: trackingGen,
		logger:      elog.DefaultLogger,
	}
}

type service struct {
	cli         carrier.Client
	now         func() time.Time
	trackingGen func() string
	logger      *elog.Component
}

func (s *service) ListRegions(ctx context.Context) (domain.Regions, error) {
	list, err := s.cli.ListRegions(ctx)
	if err != nil {
		s.logger.Warn("承运商不可达,返回本地地区表", elog.FieldErr(err))
		return domain.Regions{List: fallbackRegions, Degraded: true}, nil
	}
	return domain.Regions{List: list}, nil
}

func (s *service) QuoteFee(ctx context.Context, districtID int64, weightGrams int64) (domain.FeeQuote, error) {
	total, err := s.cli.QuoteFee(ctx, districtID, weightGrams)
	if err != nil {
		s.logger.Warn("承运商不可达,本地估算运费",
			elog.FieldErr(err),
			elog.Int64("district_id", districtID),
			elog.Int64("weight", weightGrams))
		return domain.FeeQuote{Total: FallbackFee(weightGrams), Degraded: true}, nil
	}
	return domain.FeeQuote{Total: total}, nil
}

func (s *service) LeadTime(ctx context.Context, districtID int64) (domain.LeadTime, error) {
	at, err := s.cli.LeadTime(ctx, districtID)
	if err != nil {
		s.logger.Warn("承运商不可达,本地估算时效", elog.FieldErr(err), elog.Int64("district_id", districtID))
		return domain.LeadTime{ExpectedDelivery: s.fallbackDelivery(), Degraded: true}, nil
	}
	return domain.LeadTime{ExpectedDelivery: at}, nil
}

func (s *service) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (domain.Shipment, error) {
	code, eta, err := s.cli.CreateShipment(ctx, req)
	if err != nil {
		// 可用性优先: 创建运单失败只记日志,订单流程继续,后续由运营补录
		s.logger.Error("承运商创建运单失败,生成本地运单",
			elog.FieldErr(err),
			elog.String("order_sn", req.OrderSN))
		return domain.Shipment{
			TrackingCode:     s.trackingGen(),
			ExpectedDelivery: s.fallbackDelivery(),
			Degraded:         true,
		}, nil
	}
	return domain.Shipment{TrackingCode: code, ExpectedDelivery: eta}, nil
}

func (s *service) Track(ctx context.Context, trackingCode string) (domain.TrackInfo, error) {
	status, err := s.cli.Track(ctx, trackingCode)
	if err != nil {
		s.logger.Warn("承运商轨迹查询失败", elog.FieldErr(err), elog.String("tracking_code", trackingCode))
		return domain.TrackInfo{TrackingCode: trackingCode, Status: "unknown", Degraded: true}, nil
	}
	return domain.TrackInfo{TrackingCode: trackingCode, Status: status}, nil
}

// FallbackFee 确定性的本地运费估算
func FallbackFee(weightGrams int64) int64 {
	switch {
	case weightGrams <= 500:
		return fallbackBaseFee
	case weightGrams <= 1000:
		return fallbackBaseFee + 5000
	case weightGrams <= 2000:
		return fallbackBaseFee + 10000
	default:
		extraKg := (weightGrams - 2000 + 999) / 1000
		return fallbackBaseFee + 10000 + extraKg*5000
	}
}

func (s *service) fallbackDelivery() int64 {
	return s.now().Add(fallbackLeadDays * 24 * time.Hour).UnixMilli()
}

var fallbackRegions = []domain.Region{
	{ID: 201, Name: "Hà Nội", Type: "province"},
	{ID: 202, Name: "Hồ Chí Minh", Type: "province"},
	{ID: 203, Name: "Đà Nẵng", Type: "province"},
	{ID: 204, Name: "Hải Phòng", Type: "province"},
	{ID: 205, Name: "Cần Thơ", Type: "province"},
}
