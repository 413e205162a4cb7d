package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
	"github.com/hushmail/hushmail-be/util"
)

type RateLimiter interface {
	// Allow records one hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

type ResponseController struct {
	db      appDb.Database
	limiter RateLimiter
	now     func() time.Time
}

// NewResponseController builds a controller. A nil limiter disables rate limiting.
func NewResponseController(db appDb.Database, limiter RateLimiter) *ResponseController {
	return &ResponseController{db: db, limiter: limiter, now: time.Now}
}

type CreateResponseReq struct {
	Content        string `json:"content" validate:"notblank"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

var rateLimitedHTTPErr = util.HTTPError{
	Status:  http.StatusTooManyRequests,
	Code:    util.ErrCodeRateLimited,
	Message: "too many responses, try again later",
}

// CreateResponse attaches an optionally anonymous response to a public post.
// clientKey identifies the sender for rate limiting.
func (rc *ResponseController) CreateResponse(ctx context.Context, clientKey string, postId string, req *CreateResponseReq) (string, *util.HTTPError) {
	if httpErr := util.ValidateStruct(req); httpErr != nil {
		return "", httpErr
	}

	post, err := rc.db.GetPostById(ctx, postId)
	if err != nil {
		return "", util.BuildDbHTTPErr(err)
	}
	if post == nil || !post.IsPublic {
		return "", util.NotFoundHTTPErr("post not found")
	}
	if !post.AcceptingResponses {
		return "", util.ForbiddenHTTPErr("post is not accepting responses")
	}
	if httpErr := rc.checkRateLimit(ctx, clientKey); httpErr != nil {
		return "", httpErr
	}

	id, err := rc.db.CreateResponse(ctx, &appDb.CreateResponse{
		PostId:         postId,
		Content:        req.Content,
		Username:       optionalStr(util.XSSSanitize(req.Username)),
		ProfilePicture: optionalStr(req.ProfilePicture),
		Timestamp:      rc.now().UTC().Truncate(time.Millisecond),
	})
	if errors.Is(err, appDb.ErrPostNotFound) {
		return "", util.NotFoundHTTPErr("post not found")
	}
	if err != nil {
		return "", util.BuildDbHTTPErr(err)
	}
	return id, nil
}

func (rc *ResponseController) ListResponses(ctx context.Context, postId string) ([]*model.Response, *util.HTTPError) {
	responses, err := rc.db.GetResponses(ctx, postId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return responses, nil
}

// checkRateLimit fails open when the limiter itself is unavailable.
func (rc *ResponseController) checkRateLimit(ctx context.Context, clientKey string) *util.HTTPError {
	if rc.limiter == nil || clientKey == "" {
		return nil
	}
	allowed, err := rc.limiter.Allow(ctx, clientKey)
	if err != nil {
		log.Warn.Println("rate limiter unavailable, allowing response", err)
		return nil
	}
	if !allowed {
		return &rateLimitedHTTPErr
	}
	return nil
}

func optionalStr(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
