package testioc

import "github.com/google/wire"

// BaseSet 集成测试共享的基础设施
var BaseSet = wire.NewSet(InitDB, InitCache, InitMQ)
