package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"aiplus/internal/config"
	"aiplus/internal/database"
	"aiplus/internal/middleware"
	"aiplus/internal/modules/account"
	"aiplus/internal/modules/auth"
	"aiplus/internal/modules/recovery"
	"aiplus/internal/modules/verification"
	"aiplus/internal/notification"
	jwtsvc "aiplus/internal/pkg/jwt"
	"aiplus/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	resetRepo := repository.NewPasswordResetTokenRepository(db)
	historyRepo := repository.NewPasswordHistoryRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	emailSender := notification.NewEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsProd())
	smsSender := notification.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.IsProd())

	authService := auth.NewService(
		userRepo, refreshRepo, historyRepo, tokens, emailSender, smsSender,
		cfg.VerifyTTL, cfg.LoginSMSTTL, cfg.RefreshTTL, cfg.IsProd(),
	)
	authHandler := auth.NewHandler(authService, tokens, cfg)

	verificationService := verification.NewService(userRepo)
	verificationHandler := verification.NewHandler(verificationService)

	recoveryService := recovery.NewService(userRepo, resetRepo, historyRepo, emailSender, smsSender, cfg.ResetTTL)
	recoveryHandler := recovery.NewHandler(recoveryService, cfg)

	accountService := account.NewService(userRepo, refreshRepo)
	accountHandler := account.NewHandler(accountService, cfg)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(splitOrigins(os.Getenv("CORS_ORIGINS"))))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		verificationHandler.RegisterPublicRoutes(v1)
		recoveryHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.CookieAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			accountHandler.RegisterProtectedRoutes(protected)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
