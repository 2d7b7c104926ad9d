package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"decaptrack/internal/audit"
	"decaptrack/internal/auth"
	"decaptrack/internal/config"
	"decaptrack/internal/httpserver"
	"decaptrack/internal/logger"
	"decaptrack/internal/models"
	"decaptrack/internal/obs"
	"decaptrack/internal/store"
	"decaptrack/internal/store/memory"
	"decaptrack/internal/store/pg"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()
	obs.Init()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pgStore, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			lg.Fatalw("db connect failed", "error", err)
		}
		st = pgStore
		lg.Infow("using postgres store")
	} else {
		st = memory.New()
		lg.Infow("using in-memory store")
	}
	seedDefaults(st, lg)

	rec := audit.NewRecorder(st, lg)
	jwtm := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	router := httpserver.NewRouter(st, rec, jwtm, cfg, lg)

	lg.Infow("listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

// seedDefaults populates an empty store with the site's initial accounts,
// machine fleet and document shelf.
func seedDefaults(st store.Store, lg *zap.SugaredLogger) {
	ctx := context.Background()
	if users, err := st.ListUsers(ctx); err != nil || len(users) > 0 {
		return
	}

	adminHash, _ := auth.HashPassword("admin123")
	if _, err := st.CreateUser(ctx, models.User{
		Username: "admin", PasswordHash: adminHash, Name: "Administrator", Role: models.RoleAdmin,
	}); err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	supHash, _ := auth.HashPassword("admin123")
	_, _ = st.CreateUser(ctx, models.User{
		Username: "supervisor", PasswordHash: supHash, Name: "Ahmed Bouhmidi", Role: models.RoleSupervisor,
	})

	machines := []models.Machine{
		{
			Name: "Bulldozer D11-1", Type: "d11", DecapingMethod: models.MethodPoussage,
			Specifications: `{"power":"850 HP","weight":"104.5 tonnes","blade":"4.6 m³"}`,
			CurrentState:   models.StateRunning, IsActive: true,
		},
		{
			Name: "Excavatrice PH1", Type: "ph1", DecapingMethod: models.MethodCasement,
			Specifications: `{"capacity":"15 m³","weight":"120 tonnes","reach":"18 m"}`,
			CurrentState:   models.StateRunning, IsActive: true,
		},
		{
			Name: "Transwine 777F", Type: "transwine", DecapingMethod: models.MethodTransport,
			Specifications: `{"capacity":"90 tonnes","power":"1,000 HP","maxSpeed":"68 km/h"}`,
			CurrentState:   models.StateStopped, IsActive: true,
		},
	}
	for _, m := range machines {
		_, _ = st.CreateMachine(ctx, m)
	}

	documents := []models.Document{
		{
			Title: "Manuel des Procédures", Description: "Protocoles standards pour opérations de décapage",
			FileType: "pdf", FileSize: 5.2, LastUpdated: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			DownloadURL: "/documents/manuel-procedures.pdf", Category: "procedures",
		},
		{
			Title: "Guide HSE", Description: "Normes de sécurité et environnement",
			FileType: "pdf", FileSize: 3.8, LastUpdated: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
			DownloadURL: "/documents/guide-hse.pdf", Category: "safety",
		},
		{
			Title: "Catalogue Machines", Description: "Fiches techniques et maintenance",
			FileType: "pdf", FileSize: 7.1, LastUpdated: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			DownloadURL: "/documents/catalogue-machines.pdf", Category: "equipment",
		},
	}
	for _, d := range documents {
		_, _ = st.CreateDocument(ctx, d)
	}

	lg.Infow("seeded default data", "users", 2, "machines", len(machines), "documents", len(documents))
}
