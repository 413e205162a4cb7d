package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/util"
)

type Suggester interface {
	Suggest(ctx context.Context) (json.RawMessage, error)
}

func AddSuggestRoutes(group *gin.RouterGroup, suggester Suggester) {
	group.POST("/suggest-messages", util.HandlerWrapper(func(c *gin.Context) (interface{}, *util.HTTPError) {
		raw, err := suggester.Suggest(c)
		if err != nil {
			log.Error.Println("suggestion request failed", err)
			return nil, &util.HTTPError{
				Status:  http.StatusBadGateway,
				Code:    util.ErrCodeInternal,
				Message: "could not fetch a suggestion",
				IError:  err,
			}
		}
		return raw, nil
	}, &util.HandlerOpts{}))
}
