package httpserver

import (
	"context"
	"errors"
	"log"

	"greenville/internal/domain"
	customersvc "greenville/internal/service/customer"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartService is the server side of the synchronization protocol.
type CartService interface {
	Items(ctx context.Context, customerID string) ([]domain.LineItem, error)
	Sync(ctx context.Context, customerID string, entries []domain.CartEntry) error
	Merge(ctx context.Context, customerID string, entries []domain.CartEntry) ([]domain.LineItem, error)
}

// CustomerService handles signup, login and token lookups.
type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// ProductService serves catalog lookups.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	CartSvc     CartService
	CustomerSvc CustomerService
	ProductSvc  ProductService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.CustomerSvc == nil || deps.ProductSvc == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/customers/register", registerHandler(deps.CustomerSvc))
	router.POST("/customers/login", loginHandler(deps.CustomerSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))

	carts := router.Group("/cart", authMiddleware(deps.CustomerSvc))
	carts.GET("", getCartHandler(deps.CartSvc))
	carts.POST("/sync", syncCartHandler(deps.CartSvc))
	carts.POST("/merge", mergeCartHandler(deps.CartSvc))

	return router, nil
}

const requestIDHeader = "X-Request-Id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
