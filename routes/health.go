package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/util"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func AddHealthCheckRoutes(group *gin.RouterGroup, store Pinger) {
	health := group.Group("/health")
	health.GET("", util.HandlerWrapper(func(c *gin.Context) (interface{}, *util.HTTPError) {
		return AliveCheck(c, store)
	}, &util.HandlerOpts{}))
}

// AliveCheck succeeds when the store answers a ping within two seconds.
func AliveCheck(c *gin.Context, store Pinger) (interface{}, *util.HTTPError) {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusServiceUnavailable,
			Code:    util.ErrCodeInternal,
			Message: "store unavailable",
			IError:  err,
		}
	}
	return nil, nil
}
