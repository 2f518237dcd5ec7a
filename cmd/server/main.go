// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/quizstage/gameshow/internal/auth"
	"github.com/quizstage/gameshow/internal/catalog"
	"github.com/quizstage/gameshow/internal/config"
	"github.com/quizstage/gameshow/internal/content"
	"github.com/quizstage/gameshow/internal/feed"
	"github.com/quizstage/gameshow/internal/handlers"
	"github.com/quizstage/gameshow/internal/middleware"
	"github.com/quizstage/gameshow/internal/points"
	"github.com/quizstage/gameshow/internal/show"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Action feed is optional: without Redis the show runs feed-less.
	if err := feed.ConnectRedis(); err != nil {
		logger.Warnf("action feed disabled: %v", err)
	}

	contentClient := content.NewClient(cfg.ContentBaseURL, logger)
	pointsClient := points.NewClient(cfg.PointsBaseURL)
	cache := catalog.NewCache()
	hub := handlers.NewHub()

	m := show.NewManager(cfg, logger, clockwork.NewRealClock(), cache, contentClient, pointsClient, auth.AllowAll{})
	m.BroadcastAllFn = hub.BroadcastAll
	m.BroadcastConnFn = hub.SendTo

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ShowWSHandler(logger, hub, m),
	)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Initial catalog load schedules the next event's phase triggers.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := m.RefreshCatalog(ctx, contentClient); err != nil {
		logger.Errorf("initial catalog refresh failed: %v", err)
	}
	cancel()

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
