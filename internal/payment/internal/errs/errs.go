package errs

var (
	SystemError      = ErrorCode{Code: 504001, Msg: "系统错误"}
	ChecksumMismatch = ErrorCode{Code: 504002, Msg: "签名校验失败"}
	PaymentNotFound  = ErrorCode{Code: 504003, Msg: "支付记录未找到"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
