// Package client talks to the HushMail HTTP API and keeps feed views in sync with it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hushmail/hushmail-be/app"
	"github.com/hushmail/hushmail-be/model"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ae *APIError) Error() string {
	return fmt.Sprintf("%s (status=%d code=%s)", ae.Message, ae.Status, ae.Code)
}

type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
	dialer  *websocket.Dialer
}

// NewAPIClient targets baseURL (e.g. http://localhost:8080). token may be empty for public calls.
func NewAPIClient(baseURL string, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		dialer:  websocket.DefaultDialer,
	}
}

type postsPage struct {
	Posts  []*model.Post   `json:"posts"`
	Cursor *app.PostCursor `json:"cursor"`
}

// PublicPosts fetches one page older than cursor. limit <= 0 fetches the whole feed.
func (ac *APIClient) PublicPosts(ctx context.Context, cursor *app.PostCursor, limit int) ([]*model.Post, *app.PostCursor, error) {
	var page postsPage
	if limit <= 0 {
		if err := ac.do(ctx, http.MethodGet, "/api/feed/getFeed", nil, &page); err != nil {
			return nil, nil, err
		}
		return page.Posts, nil, nil
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if cursor != nil {
		query.Set("lastTimestamp", cursor.LastTimestamp.UTC().Format(time.RFC3339Nano))
		if cursor.LastId != "" {
			query.Set("lastId", cursor.LastId)
		}
	}
	if err := ac.do(ctx, http.MethodGet, "/api/post/chunks?"+query.Encode(), nil, &page); err != nil {
		return nil, nil, err
	}
	return page.Posts, page.Cursor, nil
}

func (ac *APIClient) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := ac.do(ctx, http.MethodGet, "/api/post/"+url.PathEscape(id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (ac *APIClient) MyPosts(ctx context.Context) ([]*model.Post, error) {
	var res struct {
		UserPosts []*model.Post `json:"userPosts"`
	}
	if err := ac.do(ctx, http.MethodGet, "/api/post/my", nil, &res); err != nil {
		return nil, err
	}
	return res.UserPosts, nil
}

func (ac *APIClient) CreatePost(ctx context.Context, content string, isPublic bool, anonymous bool) (string, error) {
	var res struct {
		PostId string `json:"postId"`
	}
	body := map[string]interface{}{"content": content, "isPublic": isPublic, "anonymous": anonymous}
	if err := ac.do(ctx, http.MethodPost, "/api/post/my", body, &res); err != nil {
		return "", err
	}
	return res.PostId, nil
}

func (ac *APIClient) DeletePost(ctx context.Context, id string) error {
	return ac.do(ctx, http.MethodDelete, "/api/post/my", map[string]string{"postId": id}, nil)
}

func (ac *APIClient) ListResponses(ctx context.Context, postId string) ([]*model.Response, error) {
	var responses []*model.Response
	if err := ac.do(ctx, http.MethodGet, "/api/response/public/"+url.PathEscape(postId), nil, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateResponse posts a response. An empty username sends it anonymously.
func (ac *APIClient) CreateResponse(ctx context.Context, postId string, content string, username string) (string, error) {
	var res struct {
		ResponseId string `json:"responseId"`
	}
	body := map[string]string{"content": content}
	if username != "" {
		body["username"] = username
	}
	if err := ac.do(ctx, http.MethodPost, "/api/response/public/"+url.PathEscape(postId), body, &res); err != nil {
		return "", err
	}
	return res.ResponseId, nil
}

// Live streams feed events until ctx ends or the connection drops; the channel is closed then.
func (ac *APIClient) Live(ctx context.Context) (<-chan *model.FeedEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(ac.baseURL, "http") + "/api/feed/live"
	conn, _, err := ac.dialer.DialContext(ctx, wsURL, ac.authHeader())
	if err != nil {
		return nil, fmt.Errorf("dial live feed: %w", err)
	}
	events := make(chan *model.FeedEvent, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(events)
		for {
			var event model.FeedEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			select {
			case events <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (ac *APIClient) authHeader() http.Header {
	header := http.Header{}
	if ac.token != "" {
		header.Set("Authorization", "Bearer "+ac.token)
	}
	return header
}

func (ac *APIClient) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, ac.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header = ac.authHeader()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := ac.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
