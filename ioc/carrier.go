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

package ioc

import (
	"github.com/ecodeclub/eshop/internal/shipping"
	"github.com/gotomicro/ego/client/ehttp"
	"github.com/gotomicro/ego/core/econf"
)

// InitCarrierClient 承运商开放平台的出站 HTTP 客户端,
// 地址与超时都在 http.carrier 配置段里
func InitCarrierClient() *ehttp.Component {
	return ehttp.Load("http.carrier").Build()
}

func initCarrierConfig() shipping.CarrierConfig {
	var cfg shipping.CarrierConfig
	err := econf.UnmarshalKey("carrier", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}
