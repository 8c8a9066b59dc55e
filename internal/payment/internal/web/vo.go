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

// BuildRedirectReq 获取网关收银台跳转地址
type BuildRedirectReq struct {
	OrderSN  string `json:"orderSN"`
	BankCode string `json:"bankCode,omitempty"`
}

type BuildRedirectResp struct {
	RedirectURL string `json:"redirectURL"`
}

// CallbackResp 回调处理结果,前端据此跳转到成功/失败落地页
type CallbackResp struct {
	OrderSN     string `json:"orderSN"`
	Paid        bool   `json:"paid"`
	RedirectURL string `json:"redirectURL"`
}
