package client

import (
	"context"
	"sync"
	"time"

	"github.com/hushmail/hushmail-be/app"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
)

const (
	DefaultRotateInterval = 6 * time.Second
	DefaultCarouselPage   = 5
)

type PageFetcher interface {
	PublicPosts(ctx context.Context, cursor *app.PostCursor, limit int) ([]*model.Post, *app.PostCursor, error)
}

type CarouselOpts struct {
	PageSize       int
	RotateInterval time.Duration
	// OnShow is called with the post to display after every rotation.
	OnShow func(index int, post *model.Post)
}

type CarouselState struct {
	Loaded       []*model.Post
	Cursor       *app.PostCursor
	HasMore      bool
	Loading      bool
	DisplayIndex int
}

// Carousel shows one post at a time and grows its list page by page as the
// rotation approaches the end of what is loaded.
type Carousel struct {
	fetcher PageFetcher
	opts    CarouselOpts

	mu           sync.Mutex
	loaded       []*model.Post
	cursor       *app.PostCursor
	hasMore      bool
	loading      bool
	displayIndex int
}

func NewCarousel(fetcher PageFetcher, opts *CarouselOpts) *Carousel {
	c := &Carousel{fetcher: fetcher, hasMore: true}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.PageSize <= 0 {
		c.opts.PageSize = DefaultCarouselPage
	}
	if c.opts.RotateInterval <= 0 {
		c.opts.RotateInterval = DefaultRotateInterval
	}
	return c
}

// LoadNextPage fetches the page after the current cursor. It is a no-op while
// another page is in flight or once the feed is exhausted.
func (c *Carousel) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	cursor := c.cursor
	c.mu.Unlock()

	posts, next, err := c.fetcher.PublicPosts(ctx, cursor, c.opts.PageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Warn.Println("could not load feed page", err)
		return err
	}
	if len(posts) == 0 {
		c.hasMore = false
		return nil
	}
	c.loaded = append(c.loaded, posts...)
	c.cursor = next
	return nil
}

// Advance moves to the next loaded post, wrapping to the first. prefetch reports
// whether the caller should load the next page now.
func (c *Carousel) Advance() (index int, post *model.Post, prefetch bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.loaded) == 0 {
		return 0, nil, false
	}
	c.displayIndex = (c.displayIndex + 1) % len(c.loaded)
	return c.displayIndex, c.loaded[c.displayIndex], c.shouldPrefetch()
}

func (c *Carousel) shouldPrefetch() bool {
	return c.displayIndex == len(c.loaded)-1 && c.hasMore && !c.loading
}

func (c *Carousel) State() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	loaded := make([]*model.Post, len(c.loaded))
	copy(loaded, c.loaded)
	return CarouselState{
		Loaded:       loaded,
		Cursor:       c.cursor,
		HasMore:      c.hasMore,
		Loading:      c.loading,
		DisplayIndex: c.displayIndex,
	}
}

// Run loads the first page and rotates until ctx is done.
func (c *Carousel) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	_ = c.LoadNextPage(ctx)
	c.mu.Lock()
	var first *model.Post
	if len(c.loaded) > 0 {
		first = c.loaded[0]
	}
	prefetch := first != nil && c.shouldPrefetch()
	c.mu.Unlock()
	if first != nil {
		c.show(0, first)
	}

	ticker := time.NewTicker(c.opts.RotateInterval)
	defer ticker.Stop()
	for {
		if prefetch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.LoadNextPage(ctx)
			}()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		var (
			index int
			post  *model.Post
		)
		index, post, prefetch = c.Advance()
		if post == nil {
			// nothing loaded yet, keep asking
			prefetch = c.State().HasMore
			continue
		}
		c.show(index, post)
	}
}

func (c *Carousel) show(index int, post *model.Post) {
	if c.opts.OnShow != nil {
		c.opts.OnShow(index, post)
	}
}
