package server

import (
	"context"
	"time"

	"skatebook/internal/metrics"

	"connectrpc.com/connect"
)

// metricsInterceptor records the duration and outcome code of every unary call.
func metricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRequest(req.Spec().Procedure, code, time.Since(start))
			return resp, err
		}
	}
}
