package main

import (
	"context"
	"log"
	"time"

	"github.com/kangichu/autojob/internal/ai"
	"github.com/kangichu/autojob/internal/api"
	"github.com/kangichu/autojob/internal/apply"
	"github.com/kangichu/autojob/internal/config"
	"github.com/kangichu/autojob/internal/dedup"
	"github.com/kangichu/autojob/internal/mailer"
	"github.com/kangichu/autojob/internal/reporter"
	"github.com/kangichu/autojob/internal/search"
	"github.com/kangichu/autojob/internal/sites"
	"github.com/kangichu/autojob/internal/store"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Sites: %v", cfg.Search.Sites)

	ctx := context.Background()

	//connect to database
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer st.Close()
	if err := st.InitSchema(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize schema: %v", err)
	}
	log.Println("🗄️ Database ready.")

	//pick the page fetcher
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

	//optional telegram notifications
	var notifier search.JobNotifier
	if cfg.Telegram.Token != "" {
		tg, err := reporter.NewTelegramReporter(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			notifier = tg
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	//wire the search pipeline
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

	//application generation and email dispatch
	var summarizer ai.Summarizer
	if cfg.Summarizer.APIKey != "" {
		summarizer = ai.NewGroqClient(cfg.Summarizer.APIKey, cfg.Summarizer.Model)
	}
	gen := apply.NewGenerator(st, summarizer)
	disp := mailer.NewDispatcher(st)

	//recurring searches
	if cfg.Search.Cron != "" && cfg.Search.DefaultKeywords != "" {
		sched, err := search.NewScheduler(cfg.Search.Cron, func() error {
			return orch.Start(ctx, cfg.Search.DefaultKeywords, cfg.Search.DefaultLocation, cfg.Search.Sites)
		})
		if err != nil {
			log.Fatalf("❌ Failed to set up scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("⏰ Scheduled searches enabled: %s", cfg.Search.Cron)
	}

	srv := api.NewServer(st, orch, gen, disp, cfg)
	log.Printf("🚀 Listening on %s", cfg.ListenAddr)
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
