package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/controllers"
	"github.com/hushmail/hushmail-be/util"
)

type feedRoutes struct {
	posts *controllers.PostController
}

// AddFeedRoutes registers the unpaginated feed and, when live is non-nil, its websocket stream.
func AddFeedRoutes(group *gin.RouterGroup, posts *controllers.PostController, live http.Handler, auth *Authenticator) {
	routes := feedRoutes{posts: posts}
	feed := group.Group("/feed", auth.Required())
	feed.GET("/getFeed", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
	if live != nil {
		feed.GET("/live", gin.WrapH(live))
	}
}

func (fr *feedRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	posts, httpErr := fr.posts.GetAllPublicPosts(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return &gin.H{
		"success": true,
		"message": "Public posts retrieved successfully",
		"posts":   posts,
	}, nil
}
