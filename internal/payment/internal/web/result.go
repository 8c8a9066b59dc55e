package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/eshop/internal/payment/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	checksumMismatchResult = ginx.Result{
		Code: errs.ChecksumMismatch.Code,
		Msg:  errs.ChecksumMismatch.Msg,
	}
	paymentNotFoundResult = ginx.Result{
		Code: errs.PaymentNotFound.Code,
		Msg:  errs.PaymentNotFound.Msg,
	}
)
