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

package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrChecksumMismatch = errors.New("回调签名校验失败")
	ErrMissingParam     = errors.New("回调参数缺失")
)

const (
	paramVersion       = "vnp_Version"
	paramCommand       = "vnp_Command"
	paramMerchantCode  = "vnp_TmnCode"
	paramAmount        = "vnp_Amount"
	paramCurrency      = "vnp_CurrCode"
	paramTxnRef        = "vnp_TxnRef"
	paramOrderInfo     = "vnp_OrderInfo"
	paramReturnURL     = "vnp_ReturnUrl"
	paramIPAddr        = "vnp_IpAddr"
	paramCreateDate    = "vnp_CreateDate"
	paramBankCode      = "vnp_BankCode"
	paramSecureHash    = "vnp_SecureHash"
	paramSecureType    = "vnp_SecureHashType"
	paramResponseCode  = "vnp_ResponseCode"
	paramTransactionNO = "vnp_TransactionNo"

	// SuccessCode 网关约定的支付成功响应码
	SuccessCode = "00"
)

type Config struct {
	Version      string `yaml:"version"`
	Command      string `yaml:"command"`
	MerchantCode string `yaml:"merchantCode"`
	Currency     string `yaml:"currency"`
	Secret       string `yaml:"secret"`
	GatewayURL   string `yaml:"gatewayURL"`
	ReturnURL    string `yaml:"returnURL"`
}

// Gateway 负责出站支付请求的规范化编码与签名,以及入站回调的验签。
// 密钥通过显式配置注入,不读任何全局状态。
type Gateway struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Gateway {
	return NewWithClock(cfg, time.Now)
}

func NewWithClock(cfg Config, now func() time.Time) *Gateway {
	return &Gateway{cfg: cfg, now: now}
}

type RedirectRequest struct {
	OrderSN string
	// 金额为最小货币单位,网关侧约定再乘100
	Amount   int64
	Memo     string
	ClientIP string
	BankCode string
}

// BuildRedirectURL 构造带签名的网关收银台跳转地址
func (g *Gateway) BuildRedirectURL(req RedirectRequest) (string, error) {
	if req.OrderSN == "" {
		return "", fmt.Errorf("%w: 订单号为空", ErrMissingParam)
	}
	params := map[string]string{
		paramVersion:      g.cfg.Version,
		paramCommand:      g.cfg.Command,
		paramMerchantCode: g.cfg.MerchantCode,
		paramCurrency:     g.cfg.Currency,
		paramAmount:       strconv.FormatInt(req.Amount*100, 10),
		paramTxnRef:       req.OrderSN,
		paramOrderInfo:    req.Memo,
		paramReturnURL:    g.cfg.ReturnURL,
		paramIPAddr:       req.ClientIP,
		paramCreateDate:   g.now().Format("20060102150405"),
	}
	// 可选参数缺席时不参与规范化编码,缺席 != 空值
	if req.BankCode != "" {
		params[paramBankCode] = req.BankCode
	}
	canonical := Canonicalize(params)
	sig := g.Sign(canonical)
	return g.cfg.GatewayURL + "?" + canonical + "&" + paramSecureHash + "=" + sig, nil
}

// Canonicalize 规范化编码: key 按其百分号编码后的形式字典序排序,
// 以 key=value 用 & 连接,value 做百分号编码。签名覆盖的就是这串字节。
func Canonicalize(params map[string]string) string {
	type pair struct {
		encKey string
		encVal string
	}
	pairs := make([]pair, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, pair{encKey: url.QueryEscape(k), encVal: url.QueryEscape(v)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].encKey < pairs[j].encKey
	})
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.encKey)
		sb.WriteByte('=')
		sb.WriteString(p.encVal)
	}
	return sb.String()
}

// Sign HMAC-SHA512,十六进制小写输出
func (g *Gateway) Sign(canonical string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.Secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback 剔除签名字段后重新规范化并重签,常数时间比较。
// 不匹配时返回 ErrChecksumMismatch,调用方不得改变任何订单状态。
func (g *Gateway) VerifyCallback(params map[string]string) error {
	claimed, ok := params[paramSecureHash]
	if !ok || claimed == "" {
		return fmt.Errorf("%w: %s", ErrMissingParam, paramSecureHash)
	}
	rest := make(map[string]string, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureType {
			continue
		}
		rest[k] = v
	}
	expected := g.Sign(Canonicalize(rest))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(claimed))) {
		return ErrChecksumMismatch
	}
	return nil
}

// ParseCallback 验签通过后再调用,解析订单号/金额/响应码
func (g *Gateway) ParseCallback(params map[string]string) (orderSN string, amount int64, txnNO string, responseCode string, err error) {
	orderSN = params[paramTxnRef]
	if orderSN == "" {
		return "", 0, "", "", fmt.Errorf("%w: %s", ErrMissingParam, paramTxnRef)
	}
	responseCode = params[paramResponseCode]
	if responseCode == "" {
		return "", 0, "", "", fmt.Errorf("%w: %s", ErrMissingParam, paramResponseCode)
	}
	if raw := params[paramAmount]; raw != "" {
		total, er := strconv.ParseInt(raw, 10, 64)
		if er != nil {
			return "", 0, "", "", fmt.Errorf("%w: %s非法", ErrMissingParam, paramAmount)
		}
		amount = total / 100
	}
	return orderSN, amount, params[paramTransactionNO], responseCode, nil
}
