package app

import (
	"errors"
	"time"

	"github.com/hushmail/hushmail-be/util"
)

var ErrMalformedCursor = errors.New("malformed cursor")

// PostCursor marks the oldest post a client already holds. LastId breaks timestamp ties.
type PostCursor struct {
	LastTimestamp time.Time `json:"lastTimestamp"`
	LastId        string    `json:"lastId,omitempty"`
}

// ParseCursor builds a cursor from query values. An empty lastTimestamp means "start from the newest post".
func ParseCursor(lastTimestamp string, lastId string) (*PostCursor, error) {
	if lastTimestamp == "" {
		if lastId != "" {
			return nil, ErrMalformedCursor
		}
		return nil, nil
	}
	ts, err := util.ParseTime(lastTimestamp)
	if err != nil {
		return nil, ErrMalformedCursor
	}
	return &PostCursor{LastTimestamp: ts.UTC(), LastId: lastId}, nil
}
