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

type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type ListRegionsResp struct {
	Regions  []Region `json:"regions"`
	Degraded bool     `json:"degraded"`
}

// QuoteFeeReq 运费报价
type QuoteFeeReq struct {
	DistrictID  int64 `json:"districtID"`
	WeightGrams int64 `json:"weightGrams"`
}

type QuoteFeeResp struct {
	Total    int64 `json:"total"`
	Degraded bool  `json:"degraded"`
}

// LeadTimeReq 送达时效
type LeadTimeReq struct {
	DistrictID int64 `json:"districtID"`
}

type LeadTimeResp struct {
	ExpectedDelivery int64 `json:"expectedDelivery"`
	Degraded         bool  `json:"degraded"`
}

// TrackReq 运单轨迹
type TrackReq struct {
	TrackingCode string `json:"trackingCode"`
}

type TrackResp struct {
	TrackingCode string `json:"trackingCode"`
	Status       string `json:"status"`
	Degraded     bool   `json:"degraded"`
}
