package context

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Key string

const (
	Params    Key = "params"
	RequestID Key = "request_id"
)

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestID).(string)
	return id
}

func ParamsFrom(ctx context.Context) httprouter.Params {
	ps, _ := ctx.Value(Params).(httprouter.Params)
	return ps
}
