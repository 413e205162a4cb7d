// Command feed follows the public HushMail feed from a terminal, either one post
// at a time (carousel) or as a continuously refreshed list (grid).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hushmail/hushmail-be/client"
	"github.com/hushmail/hushmail-be/config"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/middleware"
	"github.com/hushmail/hushmail-be/model"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:8080", "API base url")
		token    = flag.String("token", os.Getenv("HUSHMAIL_TOKEN"), "session token")
		mode     = flag.String("mode", "carousel", "carousel or grid")
		pageSize = flag.Int("page", client.DefaultCarouselPage, "carousel page size")
		rotate   = flag.Duration("rotate", client.DefaultRotateInterval, "carousel rotation interval")
		poll     = flag.Duration("poll", client.DefaultGridInterval, "grid poll interval")
		live     = flag.Bool("live", true, "grid: refresh on live feed events")
		signAs   = flag.String("as", "", "mint a session token for this email using the server config (dev only)")
		cfgPath  = flag.String("config", "", "server YAML config used with -as")
	)
	flag.Parse()

	if *token == "" && *signAs != "" {
		minted, err := devToken(*cfgPath, *signAs)
		if err != nil {
			log.Error.Fatal("could not mint session token: ", err)
		}
		*token = minted
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.NewAPIClient(*server, *token)
	var err error
	switch *mode {
	case "carousel":
		carousel := client.NewCarousel(api, &client.CarouselOpts{
			PageSize:       *pageSize,
			RotateInterval: *rotate,
			OnShow: func(index int, post *model.Post) {
				fmt.Printf("[%d] %s\n", index+1, formatPost(post))
			},
		})
		err = carousel.Run(ctx)
	case "grid":
		var nudges <-chan *model.FeedEvent
		if *live {
			if nudges, err = api.Live(ctx); err != nil {
				log.Warn.Println("live feed unavailable, polling only", err)
			}
		}
		grid := client.NewGrid(api, &client.GridOpts{
			PollInterval: *poll,
			OnUpdate:     printGrid,
		})
		err = grid.Run(ctx, nudges)
	default:
		log.Error.Fatalf("unknown mode %q\n", *mode)
	}
	if err != nil && ctx.Err() == nil {
		log.Error.Fatal(err)
	}
}

// devToken signs a session token the way the server verifies them, valid for the configured session TTL.
func devToken(cfgPath string, email string) (string, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return "", err
	}
	if cfg.Auth.Provider != config.AuthProviderSession {
		return "", fmt.Errorf("auth provider is %q, tokens can only be minted for session auth", cfg.Auth.Provider)
	}
	return middleware.NewSessionVerifier(cfg.Auth.SessionSecret).Sign(&model.Identity{Id: email}, cfg.Auth.SessionTTL)
}

var (
	authorColor = color.New(color.FgCyan, color.Bold)
	metaColor   = color.New(color.Faint)
)

func formatPost(post *model.Post) string {
	author := "anonymous"
	if post.Username != nil {
		author = *post.Username
	}
	return fmt.Sprintf("%s %s\n    %s",
		authorColor.Sprint(author),
		metaColor.Sprintf("%s, %d responses", post.Timestamp.Local().Format(time.Stamp), post.ResponseCount),
		strings.ReplaceAll(post.Content, "\n", "\n    "))
}

func printGrid(posts []*model.Post) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(metaColor.Sprintf("%d public posts, updated %s", len(posts), time.Now().Format(time.Kitchen)))
	for _, post := range posts {
		fmt.Println(formatPost(post))
	}
}
