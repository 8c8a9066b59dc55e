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

package carrier

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/shipping/internal/domain"
	"github.com/gotomicro/ego/client/ehttp"
)

// Client 承运商开放平台客户端。
// 所有请求带 token 和 shop-id 头,超时由 ehttp 组件配置控制。
//
//go:generate mockgen -source=./client.go -package=carriermocks -destination=../../../mocks/carrier.mock.go -typed Client
type Client interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	QuoteFee(ctx context.Context, districtID int64, weightGrams int64) (int64, error)
	LeadTime(ctx context.Context, districtID int64) (int64, error)
	CreateShipment(ctx context.Context, req domain.ShipmentRequest) (string, int64, error)
	Track(ctx context.Context, trackingCode string) (string, error)
}

type Config struct {
	Token  string `yaml:"token"`
	ShopID string `yaml:"shopID"`
}

type client struct {
	cli *ehttp.Component
	cfg Config
}

func NewClient(cli *ehttp.Component, cfg Config) Client {
	return &client{cli: cli, cfg: cfg}
}

type regionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type carrierResp[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func (c *client) ListRegions(ctx context.Context) ([]domain.Region, error) {
	var out carrierResp[[]regionDTO]
	resp, err := c.cli.R().SetContext(ctx).
		SetHeader("Token", c.cfg.Token).
		SetResult(&out).
		Get("/services/regions")
	if err != nil {
		return nil, fmt.Errorf("请求承运商地区列表失败: %w", err)
	}
	if resp.IsError() || out.Code != 200 {
		return nil, fmt.Errorf("承运商地区列表响应异常: http=%d code=%d msg=%s", resp.StatusCode(), out.Code, out.Message)
	}
	return slice.Map(out.Data, func(idx int, src regionDTO) domain.Region {
		return domain.Region{ID: src.ID, Name: src.Name, Type: src.Type}
	}), nil
}

func (c *client) QuoteFee(ctx context.Context, districtID int64, weightGrams int64) (int64, error) {
	var out carrierResp[struct {
		Total int64 `json:"total"`
	}]
	resp, err := c.cli.R().SetContext(ctx).
		SetHeader("Token", c.cfg.Token).
		SetHeader("ShopId", c.cfg.ShopID).
		SetBody(map[string]any{
			"district_id": districtID,
			"weight":      weightGrams,
		}).
		SetResult(&out).
		Post("/services/fee")
	if err != nil {
		return 0, fmt.Errorf("请求承运商运费报价失败: %w", err)
	}
	if resp.IsError() || out.Code != 200 {
		return 0, fmt.Errorf("承运商运费报价响应异常: http=%d code=%d msg=%s", resp.StatusCode(), out.Code, out.Message)
	}
	return out.Data.Total, nil
}

func (c *client) LeadTime(ctx context.Context, districtID int64) (int64, error) {
	var out carrierResp[struct {
		LeadTime int64 `json:"leadtime"`
	}]
	resp, err := c.cli.R().SetContext(ctx).
		SetHeader("Token", c.cfg.Token).
		SetHeader("ShopId", c.cfg.ShopID).
		SetBody(map[string]any{"district_id": districtID}).
		SetResult(&out).
		Post("/services/leadtime")
	if err != nil {
		return 0, fmt.Errorf("请求承运商时效失败: %w", err)
	}
	if resp.IsError() || out.Code != 200 {
		return 0, fmt.Errorf("承运商时效响应异常: http=%d code=%d msg=%s", resp.StatusCode(), out.Code, out.Message)
	}
	// 承运商返回秒级时间戳
	return out.Data.LeadTime * 1000, nil
}

func (c *client) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (string, int64, error) {
	var out carrierResp[struct {
		OrderCode        string `json:"order_code"`
		ExpectedDelivery int64  `json:"expected_delivery_time"`
	}]
	resp, err := c.cli.R().SetContext(ctx).
		SetHeader("Token", c.cfg.Token).
		SetHeader("ShopId", c.cfg.ShopID).
		SetBody(map[string]any{
			"client_order_code": req.OrderSN,
			"to_name":           req.Recipient,
			"to_phone":          req.Phone,
			"to_address":        req.Detail,
			"to_district_id":    req.DistrictID,
			"to_ward_code":      req.WardCode,
			"weight":            req.WeightGrams,
			"cod_amount":        req.CODAmount,
		}).
		SetResult(&out).
		Post("/shipments")
	if err != nil {
		return "", 0, fmt.Errorf("请求承运商创建运单失败: %w", err)
	}
	if resp.IsError() || out.Code != 200 {
		return "", 0, fmt.Errorf("承运商创建运单响应异常: http=%d code=%d msg=%s", resp.StatusCode(), out.Code, out.Message)
	}
	return out.Data.OrderCode, out.Data.ExpectedDelivery * 1000, nil
}

func (c *client) Track(ctx context.Context, trackingCode string) (string, error) {
	var out carrierResp[struct {
		Status string `json:"status"`
	}]
	resp, err := c.cli.R().SetContext(ctx).
		SetHeader("Token", c.cfg.Token).
		SetResult(&out).
		Get("/shipments/" + trackingCode)
	if err != nil {
		return "", fmt.Errorf("请求承运商轨迹失败: %w", err)
	}
	if resp.IsError() || out.Code != 200 {
		return "", fmt.Errorf("承运商轨迹响应异常: http=%d code=%d msg=%s", resp.StatusCode(), out.Code, out.Message)
	}
	return out.Data.Status, nil
}
