package client

import (
	"context"
	"sync"
	"time"

	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
)

const DefaultGridInterval = 5 * time.Second

type GridOpts struct {
	PollInterval time.Duration
	// OnUpdate is called with the new set after every applied refresh.
	OnUpdate func(posts []*model.Post)
}

// Grid mirrors the whole public feed, replacing its set wholesale on every poll.
// Each refresh takes a sequence number; results older than the last applied one are dropped.
type Grid struct {
	fetcher PageFetcher
	opts    GridOpts

	mu      sync.Mutex
	issued  uint64
	applied uint64
	posts   []*model.Post

	// deliver serializes OnUpdate so a superseded set never reaches the display after a newer one.
	deliver sync.Mutex
}

func NewGrid(fetcher PageFetcher, opts *GridOpts) *Grid {
	g := &Grid{fetcher: fetcher}
	if opts != nil {
		g.opts = *opts
	}
	if g.opts.PollInterval <= 0 {
		g.opts.PollInterval = DefaultGridInterval
	}
	return g
}

// Refresh refetches the feed. applied is false when the fetch failed or a newer refresh won.
func (g *Grid) Refresh(ctx context.Context) (applied bool, err error) {
	g.mu.Lock()
	g.issued++
	seq := g.issued
	g.mu.Unlock()

	posts, _, err := g.fetcher.PublicPosts(ctx, nil, 0)
	if err != nil {
		log.Warn.Println("could not refresh feed grid", err)
		return false, err
	}

	g.mu.Lock()
	if seq <= g.applied {
		g.mu.Unlock()
		return false, nil
	}
	g.applied = seq
	g.posts = posts
	g.mu.Unlock()

	if g.opts.OnUpdate == nil {
		return true, nil
	}
	g.deliver.Lock()
	defer g.deliver.Unlock()
	if !g.isCurrent(seq) {
		return false, nil
	}
	g.opts.OnUpdate(posts)
	return true, nil
}

func (g *Grid) isCurrent(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.applied
}

func (g *Grid) Posts() []*model.Post {
	g.mu.Lock()
	defer g.mu.Unlock()
	posts := make([]*model.Post, len(g.posts))
	copy(posts, g.posts)
	return posts
}

// Run polls until ctx is done. Events on nudges trigger an immediate extra refresh; nudges may be nil.
func (g *Grid) Run(ctx context.Context, nudges <-chan *model.FeedEvent) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	refresh := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.Refresh(ctx)
		}()
	}

	refresh()
	ticker := time.NewTicker(g.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			refresh()
		case _, ok := <-nudges:
			if !ok {
				nudges = nil
				continue
			}
			refresh()
		}
	}
}
