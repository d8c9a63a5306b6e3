package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	discordrouter "github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/adapters/discord"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/app/service"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/config"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Registry store: Postgres when configured, local JSON snapshot otherwise.
	var store storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := storage.Migrate(db); err != nil {
			log.Fatal("migrate:", err)
		}
		store = storage.NewSnapshotRepo(db)
		log.Println("✅ registry on Postgres")
	} else {
		store = storage.NewFileStore(cfg.RegistryFile)
		log.Printf("✅ registry on %s", cfg.RegistryFile)
	}

	// a corrupt registry is fatal at boot; at runtime it halts the operation
	if _, err := store.Load(context.Background()); err != nil {
		log.Fatal("registry:", err)
	}

	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ logged in as %s (%s)", s.State.User.Username, s.State.User.ID)

	platform := discordrouter.NewPlatform(s, cfg.DiscordGuild)
	sched := service.NewScheduler(clockwork.NewRealClock())
	ser := service.NewSerializer()

	voiceSvc := service.NewVoiceService(store, platform, platform, sched, cfg.GracePeriod)
	partySvc := service.NewPartyService(store, platform, platform, sched, voiceSvc, service.PartyPolicy{
		MinStartMembers:    cfg.PartyMinStart,
		AutoCloseWhenEmpty: cfg.PartyAutoCloseEmpty,
	})

	r := discordrouter.NewRouter(s, cfg.DiscordGuild, platform, store, partySvc, voiceSvc, ser, cfg.AdminRoleIDs)
	if err := r.Register(); err != nil {
		log.Fatalf("registering commands: %v", err)
	}
	r.Handlers()
	log.Printf("✅ commands registered in guild %s", cfg.DiscordGuild)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
