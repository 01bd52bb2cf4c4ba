// One-shot search runner: extract keywords from the configured CV, run
// every enabled site once and exit. Meant for cron-style deployments
// that don't need the HTTP server.

package main

import (
	"context"
	"log"
	"time"

	"github.com/kangichu/autojob/internal/config"
	"github.com/kangichu/autojob/internal/cv"
	"github.com/kangichu/autojob/internal/dedup"
	"github.com/kangichu/autojob/internal/reporter"
	"github.com/kangichu/autojob/internal/search"
	"github.com/kangichu/autojob/internal/sites"
	"github.com/kangichu/autojob/internal/store"
)

func main() {
	cfg := config.Load()

	//keywords: config first, CV extraction as fallback
	keywords := cfg.Search.DefaultKeywords
	if keywords == "" && cfg.CVPath != "" {
		text := cv.ExtractText(cfg.CVPath)
		keywords = cv.TopKeywords(text, 10)
		log.Printf("🔑 Extracted keywords from CV: %s", keywords)
	}
	if keywords == "" {
		log.Fatal("❌ No keywords: set search.default_keywords or cv_path in config")
	}

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer st.Close()
	if err := st.InitSchema(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize schema: %v", err)
	}

	var fetcher sites.Fetcher
	if cfg.Search.UseBrowser {
		bf, err := sites.NewBrowserFetcher(cfg.CookiesPath)
		if err != nil {
			log.Fatalf("❌ Failed to init browser fetcher: %v", err)
		}
		defer bf.Close()
		fetcher = bf
		log.Println("✅ Browser initialized successfully!")
	} else {
		fetcher = sites.NewHTTPFetcher(30 * time.Second)
	}

	var notifier search.JobNotifier
	var tg *reporter.TelegramReporter
	if cfg.Telegram.Token != "" {
		tg, err = reporter.NewTelegramReporter(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			notifier = tg
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	cache := dedup.NewCache(cfg.CachePath)
	sink := search.NewSink(st, cache, notifier)

	adapters := sites.NewAdapters(fetcher, cfg.Search.PageCap,
		time.Duration(cfg.Search.DelayMinMs)*time.Millisecond,
		time.Duration(cfg.Search.DelayMaxMs)*time.Millisecond)
	siteAdapters := make([]search.SiteAdapter, len(adapters))
	for i, a := range adapters {
		siteAdapters[i] = a
	}
	orch := search.New(siteAdapters, sink)

	if err := orch.Start(ctx, keywords, cfg.Search.DefaultLocation, cfg.Search.Sites); err != nil {
		log.Fatalf("❌ Failed to start search: %v", err)
	}

	//drain progress until the run finishes
	done := orch.Done()
	for {
		select {
		case <-done:
			if tg != nil {
				if err := tg.SendStatus("Search run finished."); err != nil {
					log.Printf("⚠️ Failed to send status to Telegram: %v", err)
				}
			}
			log.Println("🏁 Execution finished.")
			return
		case <-orch.Events():
			//progress lines are already logged by the orchestrator
		}
	}
}
