package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/app"
	"github.com/hushmail/hushmail-be/config"
	"github.com/hushmail/hushmail-be/controllers"
	"github.com/hushmail/hushmail-be/middleware"
	"github.com/hushmail/hushmail-be/util"
)

type postRoutes struct {
	posts *controllers.PostController
	feed  config.FeedConfig
}

func AddPostRoutes(group *gin.RouterGroup, posts *controllers.PostController, feed config.FeedConfig, auth *Authenticator) {
	routes := postRoutes{posts: posts, feed: feed}
	post := group.Group("/post")
	post.GET("/chunks", auth.Required(), util.HandlerWrapper(routes.getChunk, &util.HandlerOpts{}))
	post.GET("/my", auth.Required(), util.HandlerWrapper(routes.getMyPosts, &util.HandlerOpts{}))
	post.POST("/my", auth.Required(), util.HandlerWrapper(routes.createPost, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	post.DELETE("/my", auth.Required(), util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	post.GET("/:postID", auth.Optional(), util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
}

func (pr *postRoutes) getChunk(c *gin.Context) (interface{}, *util.HTTPError) {
	limit, err := util.ParseLimit(c.Query("limit"), pr.feed.DefaultPageSize, pr.feed.MaxPageSize)
	if err != nil {
		return nil, util.ValidationHTTPErr(map[string]string{"limit": err.Error()})
	}
	cursor, err := app.ParseCursor(c.Query("lastTimestamp"), c.Query("lastId"))
	if err != nil {
		return nil, util.ValidationHTTPErr(map[string]string{"lastTimestamp": "LastTimestamp must be an ISO-8601 timestamp"})
	}
	posts, next, httpErr := pr.posts.GetPublicPostsPage(c, cursor, limit)
	if httpErr != nil {
		return nil, httpErr
	}
	message := "Posts retrieved successfully"
	if len(posts) == 0 {
		message = "No more posts available"
	}
	return &gin.H{
		"success": true,
		"message": message,
		"posts":   posts,
		"cursor":  next,
	}, nil
}

func (pr *postRoutes) getMyPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	posts, httpErr := pr.posts.GetPostsByOwner(c, middleware.MustGetIdentity(c))
	if httpErr != nil {
		return nil, httpErr
	}
	return &gin.H{
		"success":   true,
		"userPosts": posts,
	}, nil
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req controllers.CreatePostReq
	if httpErr := util.BindJSON(c, &req); httpErr != nil {
		return nil, httpErr
	}
	id, httpErr := pr.posts.CreatePost(c, middleware.MustGetIdentity(c), &req)
	if httpErr != nil {
		return nil, httpErr
	}
	return &gin.H{
		"success": true,
		"message": "Post created successfully",
		"postId":  id,
	}, nil
}

type deletePostReq struct {
	PostId string `json:"postId" validate:"required"`
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req deletePostReq
	if httpErr := util.BindJSON(c, &req); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := pr.posts.DeletePost(c, middleware.MustGetIdentity(c), req.PostId); httpErr != nil {
		return nil, httpErr
	}
	return &gin.H{
		"success": true,
		"message": "Post deleted successfully",
	}, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	post, httpErr := pr.posts.GetPostById(c, middleware.GetIdentityMaybe(c), c.Param("postID"))
	if httpErr != nil {
		return nil, httpErr
	}
	return post, nil
}
