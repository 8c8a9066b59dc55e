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
	"errors"
	"testing"
	"time"

	"github.com/ecodeclub/eshop/internal/shipping/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCarrierDown = errors.New("连接承运商超时")

// fakeClient 可按需失败的承运商客户端
type fakeClient struct {
	down bool

	regions []domain.Region
	fee     int64
	eta     int64
	code    string
	status  string
}

func (f *fakeClient) ListRegions(_ context.Context) ([]domain.Region, error) {
	if f.down {
		return nil, errCarrierDown
	}
	return f.regions, nil
}

func (f *fakeClient) QuoteFee(_ context.Context, _ int64, _ int64) (int64, error) {
	if f.down {
		return 0, errCarrierDown
	}
	return f.fee, nil
}

func (f *fakeClient) LeadTime(_ context.Context, _ int64) (int64, error) {
	if f.down {
		return 0, errCarrierDown
	}
	return f.eta, nil
}

func (f *fakeClient) CreateShipment(_ context.Context, _ domain.ShipmentRequest) (string, int64, error) {
	if f.down {
		return "", 0, errCarrierDown
	}
	return f.code, f.eta, nil
}

func (f *fakeClient) Track(_ context.Context, _ string) (string, error) {
	if f.down {
		return "", errCarrierDown
	}
	return f.status, nil
}

func newTestService(cli *fakeClient) Service {
	now := func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return NewServiceWith(cli, now, func() string { return "LOCAL-FIXED" })
}

func TestService_QuoteFee(t *testing.T) {
	t.Parallel()

	t.Run("承运商正常", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&fakeClient{fee: 22000})
		quote, err := svc.QuoteFee(context.Background(), 1442, 800)
		require.NoError(t, err)
		assert.Equal(t, int64(22000), quote.Total)
		assert.False(t, quote.Degraded)
	})

	t.Run("承运商不可达走本地估算", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&fakeClient{down: true})
		quote, err := svc.QuoteFee(context.Background(), 1442, 800)
		require.NoError(t, err)
		assert.Equal(t, FallbackFee(800), quote.Total)
		assert.True(t, quote.Degraded)
	})
}

func TestFallbackFee(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		weight int64
		want   int64
	}{
		{weight: 0, want: 15000},
		{weight: 500, want: 15000},
		{weight: 501, want: 20000},
		{weight: 1000, want: 20000},
		{weight: 1001, want: 25000},
		{weight: 2000, want: 25000},
		{weight: 2001, want: 30000},
		{weight: 3000, want: 30000},
		{weight: 3001, want: 35000},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FallbackFee(tc.weight), "weight=%d", tc.weight)
	}
}

func TestService_LeadTime_Fallback(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeClient{down: true})
	lt, err := svc.LeadTime(context.Background(), 1442)
	require.NoError(t, err)
	assert.True(t, lt.Degraded)
	// 本地估算统一按 4 天
	want := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, want, lt.ExpectedDelivery)
}

func TestService_CreateShipment(t *testing.T) {
	t.Parallel()

	t.Run("承运商正常返回运单号", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&fakeClient{code: "GHN123456", eta: 1717401600000})
		shipment, err := svc.CreateShipment(context.Background(), domain.ShipmentRequest{OrderSN: "SN1"})
		require.NoError(t, err)
		assert.Equal(t, "GHN123456", shipment.TrackingCode)
		assert.Equal(t, int64(1717401600000), shipment.ExpectedDelivery)
		assert.False(t, shipment.Degraded)
	})

	t.Run("承运商失败生成本地运单", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&fakeClient{down: true})
		shipment, err := svc.CreateShipment(context.Background(), domain.ShipmentRequest{OrderSN: "SN1"})
		// 创建运单永远不让下单失败
		require.NoError(t, err)
		assert.Equal(t, "LOCAL-FIXED", shipment.TrackingCode)
		assert.True(t, shipment.Degraded)
	})
}

func TestService_ListRegions_Fallback(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeClient{down: true})
	regions, err := svc.ListRegions(context.Background())
	require.NoError(t, err)
	assert.True(t, regions.Degraded)
	assert.NotEmpty(t, regions.List)
}

func TestService_Track_Fallback(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeClient{down: true})
	info, err := svc.Track(context.Background(), "GHN123456")
	require.NoError(t, err)
	assert.True(t, info.Degraded)
	assert.Equal(t, "GHN123456", info.TrackingCode)
	assert.Equal(t, "unknown", info.Status)
}
