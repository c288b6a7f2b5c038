package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"shoemarket/config"
	"shoemarket/internal/domain"
	"shoemarket/internal/event"
	"shoemarket/internal/pkg/cache"
	"shoemarket/internal/pkg/database"
	"shoemarket/internal/pkg/firebaseauth"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
	"shoemarket/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"shoemarket/internal/api/cart"
	"shoemarket/internal/api/checkout"
	"shoemarket/internal/api/finder"
	"shoemarket/internal/api/listing"
	"shoemarket/internal/api/profile"
	"shoemarket/internal/api/router"
	"shoemarket/internal/api/user"
	"shoemarket/internal/api/wishlist"
	"shoemarket/internal/repository/firestorerepo"
	"shoemarket/internal/repository/guestcartrepo"
	"shoemarket/internal/repository/listingrepo"
	"shoemarket/internal/repository/orderrepo"
	"shoemarket/internal/repository/profilerepo"
	"shoemarket/internal/repository/userrepo"
	"shoemarket/internal/service/cartservice"
	"shoemarket/internal/service/catalogservice"
	"shoemarket/internal/service/checkoutservice"
	"shoemarket/internal/service/profileservice"
	"shoemarket/internal/service/userservice"
	"shoemarket/internal/service/wishlistservice"
)

// @title Shoemarket API
// @version 1.0
// @description Marketplace de tênis: catálogo com filtros, carrinho de visitante e checkout.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço Shoemarket...")
	if err := godotenv.Load(); err != nil {
		// As variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "feed": cfg.ListingFeed, "auth": cfg.AuthProvider})

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(rootCtx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err := cacheClient.Ping(rootCtx); err != nil {
		// Sem Redis o catálogo continua no ar; carrinho de visitante e rate limit degradam.
		appLog.Warn("Redis não respondeu ao ping.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		appLog.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Eventos (Kafka). Sem brokers, os eventos são descartados.
	var publisher event.Publisher = event.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = event.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, appLog)
		appLog.Info("Produtor Kafka inicializado.", map[string]interface{}{"topic": cfg.KafkaTopic})
	}
	defer publisher.Close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	listingRepo := listingrepo.NewListingRepository(db, cacheClient, cfg.DBTimeout(), cfg.CacheTTL(), appLog)
	profileRepo := profilerepo.NewProfileRepository(db, cfg.DBTimeout(), appLog)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout(), appLog)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout(), appLog)
	guestCarts := guestcartrepo.NewRepository(cacheClient, appLog, guestcartrepo.WithTTL(cfg.GuestCartTTL()))
	userCarts := profilerepo.NewCartStore(profileRepo, appLog, profilerepo.WithProfileSeed(func(ctx context.Context, userID string) domain.Profile {
		id, _ := middleware.IdentityFromContext(ctx)
		id.UserID = userID
		return profileservice.DefaultProfile(id)
	}))
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Feed do catálogo (Postgres LISTEN/NOTIFY ou Firestore)
	var feed domain.ListingFeed
	switch cfg.ListingFeed {
	case config.FeedFirestore:
		fsClient, err := firestorerepo.NewClient(rootCtx, cfg.FirestoreProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			appLog.Fatal("Falha ao abrir o cliente do Firestore.", err)
		}
		defer fsClient.Close()
		feed = firestorerepo.NewFeed(fsClient, appLog)
	default:
		pgFeed := listingrepo.NewFeed(cfg.DatabaseURL, listingRepo, appLog)
		defer pgFeed.Close()
		feed = pgFeed
	}

	// C. Autenticação (JWT próprio ou Firebase ID token)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry())
	var auth middleware.Authenticator = tokenSvc
	if cfg.AuthProvider == config.AuthFirebase {
		roles := func(ctx context.Context, userID string) (domain.UserRole, error) {
			return profileRepo.RoleOf(ctx, userID), nil
		}
		fbAuth, err := firebaseauth.New(rootCtx, cfg.FirestoreProjectID, cfg.GoogleCredentialsFile, roles)
		if err != nil {
			appLog.Fatal("Falha ao inicializar o Firebase Auth.", err)
		}
		auth = fbAuth
	}

	// D. Serviços
	pricing := cartservice.Pricing{
		FreeShippingThreshold: cfg.ShippingFreeThreshold,
		FlatShipping:          cfg.ShippingFlatRate,
		TaxRate:               cfg.TaxRate,
	}
	catalogSvc := catalogservice.NewService(feed, listingRepo, appLog)
	cartSvc := cartservice.NewService(guestCarts, userCarts, catalogSvc, pricing, publisher, appLog)
	checkoutSvc := checkoutservice.NewService(cartSvc, orderRepo, profileRepo, publisher, appLog)
	wishlistSvc := wishlistservice.NewService(profileRepo, listingRepo, appLog)
	profileSvc := profileservice.NewService(profileRepo, listingRepo, appLog)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	if err := catalogSvc.Start(rootCtx); err != nil {
		appLog.Fatal("Falha ao assinar o feed do catálogo.", err)
	}
	defer catalogSvc.Stop()

	// E. Handlers
	handlers := router.Handlers{
		Listing:  listing.NewHandler(catalogSvc, appLog),
		Finder:   finder.NewHandler(catalogSvc, appLog),
		Cart:     cart.NewHandler(cartSvc, appLog),
		Checkout: checkout.NewHandler(checkoutSvc, appLog),
		Wishlist: wishlist.NewHandler(wishlistSvc, appLog),
		Profile:  profile.NewHandler(profileSvc, appLog),
		User:     user.NewHandler(userSvc, appLog),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, auth, cacheClient, router.RateLimit{
		Limit:  cfg.RateLimitMaxRequests,
		Window: cfg.RateLimitPeriod(),
	}, appLog)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor Shoemarket ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
