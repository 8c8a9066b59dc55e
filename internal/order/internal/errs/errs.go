package errs

var (
	SystemError       = ErrorCode{Code: 503001, Msg: "系统错误"}
	EmptyCart         = ErrorCode{Code: 503002, Msg: "购物车为空"}
	ProductNotFound   = ErrorCode{Code: 503003, Msg: "商品不存在或已下架"}
	InsufficientStock = ErrorCode{Code: 503004, Msg: "商品库存不足"}
	OrderNotFound     = ErrorCode{Code: 503005, Msg: "订单未找到"}
	InvalidTransition = ErrorCode{Code: 503006, Msg: "订单状态不允许该操作"}
	Forbidden         = ErrorCode{Code: 503007, Msg: "无权操作该订单"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
