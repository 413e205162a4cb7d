package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/controllers"
	"github.com/hushmail/hushmail-be/util"
)

type responseRoutes struct {
	responses *controllers.ResponseController
}

// AddResponseRoutes registers the unauthenticated response endpoints.
func AddResponseRoutes(group *gin.RouterGroup, responses *controllers.ResponseController) {
	routes := responseRoutes{responses: responses}
	public := group.Group("/response/public")
	public.GET("/:postID", util.HandlerWrapper(routes.listResponses, &util.HandlerOpts{}))
	public.POST("/:postID", util.HandlerWrapper(routes.createResponse, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

func (rr *responseRoutes) listResponses(c *gin.Context) (interface{}, *util.HTTPError) {
	responses, httpErr := rr.responses.ListResponses(c, c.Param("postID"))
	if httpErr != nil {
		return nil, httpErr
	}
	return responses, nil
}

func (rr *responseRoutes) createResponse(c *gin.Context) (interface{}, *util.HTTPError) {
	var req controllers.CreateResponseReq
	if httpErr := util.BindJSON(c, &req); httpErr != nil {
		return nil, httpErr
	}
	id, httpErr := rr.responses.CreateResponse(c, c.ClientIP(), c.Param("postID"), &req)
	if httpErr != nil {
		return nil, httpErr
	}
	return &gin.H{
		"success":    true,
		"message":    "Responded to post successfully",
		"responseId": id,
	}, nil
}
