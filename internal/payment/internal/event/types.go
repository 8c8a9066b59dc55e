package event

const paymentEvents = "payment_events"

// PaymentEvent 最简设计,订单模块只需要订单号和终态
type PaymentEvent struct {
	OrderSN      string
	GatewayTxnNO string
	Status       uint8
}
