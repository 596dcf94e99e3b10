package healthcheck

import (
	"github.com/dropstation/marketapi/base/ctx"
)

type HealthCheckRepo interface {
	PingDB(ctx.Ctx) error
}

type HealthCheckUsecase interface {
	Check(ctx.Ctx) error
}
