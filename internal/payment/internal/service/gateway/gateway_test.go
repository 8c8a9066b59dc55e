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
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	cfg := Config{
		Version:      "2.1.0",
		Command:      "pay",
		MerchantCode: "TESTTMN1",
		Currency:     "VND",
		Secret:       "TESTSECRETKEY",
		GatewayURL:   "https://sandbox.example.com/paymentv2/vpcpay.html",
		ReturnURL:    "http://localhost:8002/pay/callback",
	}
	now := func() time.Time {
		return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	}
	return NewWithClock(cfg, now)
}

func TestGateway_BuildRedirectURL(t *testing.T) {
	t.Parallel()
	gw := newTestGateway(t)

	u, err := gw.BuildRedirectURL(RedirectRequest{
		OrderSN:  "SN20240601ABC",
		Amount:   150000,
		Memo:     "Thanh toan don hang SN20240601ABC",
		ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	q := parsed.Query()

	// 金额按网关约定乘以100
	assert.Equal(t, "15000000", q.Get("vnp_Amount"))
	assert.Equal(t, "SN20240601ABC", q.Get("vnp_TxnRef"))
	assert.Equal(t, "20240601103000", q.Get("vnp_CreateDate"))
	// 未指定银行时该参数整个缺席,而不是空值
	_, ok := q["vnp_BankCode"]
	assert.False(t, ok)

	// 跳转地址自身携带的签名必须能通过验签
	params := make(map[string]string, len(q))
	for k, vs := range q {
		params[k] = vs[0]
	}
	assert.NoError(t, gw.VerifyCallback(params))
}

func TestGateway_BuildRedirectURL_WithBankCode(t *testing.T) {
	t.Parallel()
	gw := newTestGateway(t)

	u, err := gw.BuildRedirectURL(RedirectRequest{
		OrderSN:  "SN1",
		Amount:   1000,
		ClientIP: "127.0.0.1",
		BankCode: "NCB",
	})
	require.NoError(t, err)
	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "NCB", parsed.Query().Get("vnp_BankCode"))
}

func TestGateway_BuildRedirectURL_Deterministic(t *testing.T) {
	t.Parallel()
	gw := newTestGateway(t)
	req := RedirectRequest{OrderSN: "SN1", Amount: 99, Memo: "memo", ClientIP: "127.0.0.1"}

	u1, err := gw.BuildRedirectURL(req)
	require.NoError(t, err)
	u2, err := gw.BuildRedirectURL(req)
	require.NoError(t, err)
	// 时钟固定时,同样的输入字节级一致
	assert.Equal(t, u1, u2)
}

func TestCanonicalize_OrderIndependent(t *testing.T) {
	t.Parallel()
	p1 := map[string]string{}
	p1["vnp_TxnRef"] = "SN1"
	p1["vnp_Amount"] = "100"
	p1["vnp_OrderInfo"] = "Thanh toan"

	p2 := map[string]string{}
	p2["vnp_OrderInfo"] = "Thanh toan"
	p2["vnp_Amount"] = "100"
	p2["vnp_TxnRef"] = "SN1"

	assert.Equal(t, Canonicalize(p1), Canonicalize(p2))
	assert.Equal(t, "vnp_Amount=100&vnp_OrderInfo=Thanh+toan&vnp_TxnRef=SN1", Canonicalize(p1))
}

func signedCallbackParams(gw *Gateway, mutate func(map[string]string)) map[string]string {
	params := map[string]string{
		"vnp_TmnCode":       "TESTTMN1",
		"vnp_TxnRef":        "SN20240601ABC",
		"vnp_Amount":        "15000000",
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14422574",
	}
	if mutate != nil {
		mutate(params)
	}
	params["vnp_SecureHash"] = gw.Sign(Canonicalize(params))
	return params
}

func TestGateway_VerifyCallback(t *testing.T) {
	t.Parallel()
	gw := newTestGateway(t)

	testCases := []struct {
		name    string
		params  func() map[string]string
		wantErr error
	}{
		{
			name: "签名正确",
			params: func() map[string]string {
				return signedCallbackParams(gw, nil)
			},
		},
		{
			name: "签名大写同样通过",
			params: func() map[string]string {
				p := signedCallbackParams(gw, nil)
				p["vnp_SecureHash"] = strings.ToUpper(p["vnp_SecureHash"])
				return p
			},
		},
		{
			name: "SecureHashType不参与签名",
			params: func() map[string]string {
				p := signedCallbackParams(gw, nil)
				p["vnp_SecureHashType"] = "HmacSHA512"
				return p
			},
		},
		{
			name: "签名被篡改一个字符",
			params: func() map[string]string {
				p := signedCallbackParams(gw, nil)
				sig := []byte(p["vnp_SecureHash"])
				if sig[0] == 'a' {
					sig[0] = 'b'
				} else {
					sig[0] = 'a'
				}
				p["vnp_SecureHash"] = string(sig)
				return p
			},
			wantErr: ErrChecksumMismatch,
		},
		{
			name: "参数被篡改",
			params: func() map[string]string {
				p := signedCallbackParams(gw, nil)
				p["vnp_Amount"] = "1"
				return p
			},
			wantErr: ErrChecksumMismatch,
		},
		{
			name: "缺少签名",
			params: func() map[string]string {
				p := signedCallbackParams(gw, nil)
				delete(p, "vnp_SecureHash")
				return p
			},
			wantErr: ErrMissingParam,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := gw.VerifyCallback(tc.params())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGateway_ParseCallback(t *testing.T) {
	t.Parallel()
	gw := newTestGateway(t)

	t.Run("正常解析", func(t *testing.T) {
		t.Parallel()
		orderSN, amount, txnNO, code, err := gw.ParseCallback(map[string]string{
			"vnp_TxnRef":        "SN1",
			"vnp_Amount":        "15000000",
			"vnp_TransactionNo": "14422574",
			"vnp_ResponseCode":  "00",
		})
		require.NoError(t, err)
		assert.Equal(t, "SN1", orderSN)
		assert.Equal(t, int64(150000), amount)
		assert.Equal(t, "14422574", txnNO)
		assert.Equal(t, SuccessCode, code)
	})

	t.Run("缺少订单号", func(t *testing.T) {
		t.Parallel()
		_, _, _, _, err := gw.ParseCallback(map[string]string{
			"vnp_ResponseCode": "00",
		})
		assert.ErrorIs(t, err, ErrMissingParam)
	})

	t.Run("缺少响应码", func(t *testing.T) {
		t.Parallel()
		_, _, _, _, err := gw.ParseCallback(map[string]string{
			"vnp_TxnRef": "SN1",
		})
		assert.ErrorIs(t, err, ErrMissingParam)
	})
}
