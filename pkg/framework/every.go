package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Every returns a Runnable calling fn once per interval until the context
// is done. Errors from fn are logged and do not stop it.
func Every(interval time.Duration, fn func(context.Context) error) RunFunc {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				glog.Warningf("%v", err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
