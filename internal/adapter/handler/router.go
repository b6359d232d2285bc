package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/core/service"
)

type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Inventory     *service.InventoryService
	Sales         *service.SaleService
	Reports       *service.ReportService
	Dashboard     *service.DashboardService
	Notifications *service.NotificationService
}

// NewRouter wires the REST surface. Route-level role requirements follow the
// original access rules: reads for any authenticated user, writes for
// managers and admins, destructive operations for admins (sale deletion also
// allows the owning user, enforced in the service).
func NewRouter(svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(svc.Auth, svc.Users)
	invH := NewInventoryHandler(svc.Inventory)
	salesH := NewSalesHandler(svc.Sales, svc.Reports)
	dashH := NewDashboardHandler(svc.Dashboard)
	notifH := NewNotificationHandler(svc.Notifications)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/me", AuthRequired(svc.Auth), authH.Me)
	}

	users := api.Group("/users", AuthRequired(svc.Auth), RequireRole(domain.RoleAdmin))
	{
		users.GET("", authH.ListUsers)
		users.GET("/:id", authH.GetUser)
		users.PUT("/:id/role", authH.UpdateUserRole)
		users.DELETE("/:id", authH.DeleteUser)
	}

	manage := RequireRole(domain.RoleManager, domain.RoleAdmin)

	inventory := api.Group("/inventory", AuthRequired(svc.Auth))
	{
		inventory.GET("", invH.List)
		inventory.GET("/low-stock", invH.LowStock)
		inventory.GET("/categories", invH.Categories)
		inventory.GET("/search", invH.Search)
		inventory.GET("/:id", invH.Get)
		inventory.POST("", manage, invH.Create)
		inventory.PUT("/:id", manage, invH.Update)
		inventory.DELETE("/:id", RequireRole(domain.RoleAdmin), invH.Delete)
	}

	sales := api.Group("/sales", AuthRequired(svc.Auth))
	{
		sales.GET("", salesH.List)
		sales.GET("/:id", salesH.Get)
		sales.POST("", salesH.Create)
		sales.PUT("/:id", salesH.Update)
		sales.DELETE("/:id", salesH.Delete)
		sales.GET("/stats/:period", manage, salesH.Stats)
		sales.POST("/export", manage, salesH.Export)
	}

	dashboard := api.Group("/dashboard", AuthRequired(svc.Auth))
	{
		dashboard.GET("/summary", dashH.Summary)
	}

	notifications := api.Group("/notifications", AuthRequired(svc.Auth))
	{
		notifications.GET("", notifH.List)
		notifications.PUT("/read-all", notifH.MarkAllRead)
		notifications.PUT("/:id/read", notifH.MarkRead)
		notifications.DELETE("/:id", notifH.Delete)
	}

	return r
}
