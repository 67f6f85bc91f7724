package http

import (
	"errors"
	"net/http"

	"github.com/tofaramususa/fastapi-production-api/internal/config"
	"github.com/tofaramususa/fastapi-production-api/internal/domain"
	"github.com/tofaramususa/fastapi-production-api/internal/infra/auth/oidc"
	"github.com/tofaramususa/fastapi-production-api/internal/infra/db"
	"github.com/tofaramususa/fastapi-production-api/internal/infra/ratelimit"
	"github.com/tofaramususa/fastapi-production-api/internal/log"
	"github.com/tofaramususa/fastapi-production-api/internal/usecase"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	folderSvc  *usecase.FolderService
	productSvc *usecase.ProductService
	permSvc    *usecase.PermissionService

	masterKey     string
	authenticator domain.Authenticator
	authInitErr   error

	tiers   domain.TierSet
	limiter domain.RateLimiter
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

// ServerDeps lets tests inject fakes for every external dependency.
type ServerDeps struct {
	Folders       usecase.FolderRepository
	Products      usecase.ProductRepository
	Permissions   usecase.PermissionRepository
	Authenticator domain.Authenticator
	RateLimiter   domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:           cfg,
		r:             r,
		masterKey:     cfg.MasterKey,
		authenticator: deps.Authenticator,
		tiers:         cfg.Tiers(),
		limiter:       deps.RateLimiter,
	}
	s.initServices(deps.Folders, deps.Products, deps.Permissions)
	s.routes()
	return s
}

func (s *Server) initDeps() {
	s.masterKey = s.cfg.MasterKey
	s.tiers = s.cfg.Tiers()

	var conn *gorm.DB
	if s.store != nil {
		conn = s.store.DB
	}
	s.initServices(
		db.NewFolderRepository(conn),
		db.NewProductRepository(conn),
		db.NewPermissionRepository(conn),
	)

	s.initRateLimit()
	s.initAuth()
}

func (s *Server) initServices(folders usecase.FolderRepository, products usecase.ProductRepository, perms usecase.PermissionRepository) {
	access := usecase.NewAccessChecker(folders, perms)
	s.folderSvc = usecase.NewFolderService(folders, products, perms, access)
	s.productSvc = usecase.NewProductService(products, access)
	s.permSvc = usecase.NewPermissionService(folders, perms)
}

func (s *Server) initAuth() {
	switch s.cfg.AuthMode {
	case "", "none":
		return
	case "oidc":
		authenticator, err := oidc.NewAuthenticator(s.cfg)
		if err != nil {
			s.authInitErr = err
			return
		}
		s.authenticator = authenticator
	default:
		s.authInitErr = errors.New("unsupported auth mode")
	}
}

// initRateLimit picks the Redis limiter when an address is configured and
// falls back to the in-process one otherwise. Either way the limiter is
// wrapped in the fail-open guard.
func (s *Server) initRateLimit() {
	var limiter domain.RateLimiter
	if s.cfg.RedisAddr != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil)
		if err != nil {
			log.Logger().Warn("redis limiter unavailable, using in-memory limiter")
		} else {
			limiter = redisLimiter
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
			MaxKeys: s.cfg.RateLimitMaxKeys,
		})
	}
	s.limiter = ratelimit.NewGuard(limiter, s.cfg.RateLimitTimeout())
}

func (s *Server) routes() {
	s.r.GET("/", s.handleWelcome)
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/api/v1")
	{
		v1.POST("/folders", s.handleCreateFolder)
		v1.GET("/folders", s.handleListFolders)
		v1.GET("/folders/navigation", s.handleFolderNavigation)
		v1.GET("/folders/:folder_id", s.handleGetFolder)

		v1.POST("/products", s.handleCreateProduct)
		v1.GET("/products", s.handleListProducts)
		v1.GET("/products/:product_id", s.handleGetProduct)

		v1.POST("/folder-permissions/:folder_id", s.handleAssignPermission)
		v1.GET("/folder-permissions/:folder_id", s.handleListPermissions)
		v1.GET("/folder-permissions/:folder_id/:email", s.handleCheckPermission)
		v1.DELETE("/folder-permissions/:folder_id/:email", s.handleRevokePermission)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	if !s.cfg.TrustProxyHeaders {
		if err := s.r.SetTrustedProxies(nil); err != nil {
			return err
		}
	}
	return s.r.Run(s.cfg.HTTPAddr)
}
