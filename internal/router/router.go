package router

import (
	"github.com/gin-gonic/gin"

	"onionpay-api/internal/app"
	"onionpay-api/internal/constant"
	"onionpay-api/internal/handler"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/middleware"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

const uploadCacheControl = "public, max-age=31536000"

// New 注册全部路由
func New(a *app.App) *gin.Engine {
	utils.RegisterJSONTagNames()

	r := gin.New()
	if len(a.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(a.Config.Server.TrustedProxies); err != nil {
			logger.ErrorLog.Errorf("[HTTP] invalid trusted proxies: %v", err)
		}
	}
	r.MaxMultipartMemory = a.Config.Upload.MaxBytes + (1 << 20)
	r.Use(middleware.Trace(), middleware.RequestLogger(), middleware.Recover(), middleware.CORS(a.Config.Server.AllowedOrigins))

	baseURL := a.Config.Server.PublicBaseURL
	checkout := handler.NewCheckoutHandler(a.Checkout, a.Orders, baseURL)
	dashboard := handler.NewDashboardHandler(a.Dashboard, a.Orders)
	apiKeys := handler.NewApiKeyHandler(a.ApiKeys)
	products := handler.NewProductHandler(a.Products)
	qrCodes := handler.NewQrCodeHandler(a.QrCodes, a.Config.Upload.MaxBytes)
	auth := handler.NewAuthHandler(a.Users)
	ws := handler.NewWsHandler(a.Hub)
	health := handler.NewHealthHandler(a.DB)

	publishable := middleware.ApiKeyAuth(a.ApiKeys, service.TierPublishable)
	secret := middleware.ApiKeyAuth(a.ApiKeys, service.TierSecret)
	admin := middleware.AdminAuth(a.Config.Security.JWTSecret)
	limited := a.Limiter.Middleware()

	r.GET("/healthz", health.Healthz)

	uploads := r.Group("/uploads", func(c *gin.Context) {
		c.Header("Cache-Control", uploadCacheControl)
		c.Next()
	})
	uploads.Static("/", a.Config.Upload.Dir)

	v1 := r.Group("/v1")
	{
		v1.POST("/checkout/sessions", publishable, checkout.CreateSession)
		v1.GET("/checkout/status/:orderId", checkout.Status)
		v1.GET("/checkout/orders/:orderId", checkout.PaymentPage)
		v1.GET("/checkout/qr/:orderId", checkout.QRImage)
		v1.POST("/checkout/submit", limited, checkout.Submit)
		v1.GET("/orders/:orderId", secret, checkout.GetOrder)
	}

	api := r.Group("/api")
	{
		// 旧版接口
		api.POST("/onionpay/initiate", secret, checkout.CreateSession)
		api.POST("/onionpay/submit", limited, checkout.Submit)
		api.GET("/onionpay/status/:orderId", checkout.Status)

		adm := api.Group("", admin)
		adm.GET("/auth/user", auth.CurrentUser)

		adm.GET("/api-keys", apiKeys.List)
		adm.POST("/api-keys", apiKeys.Create)
		adm.DELETE("/api-keys/:id", apiKeys.Revoke)

		adm.GET("/products", products.List)
		adm.GET("/products/:id", products.Get)
		adm.POST("/products", products.Create)
		adm.PUT("/products/:id", products.Update)
		adm.DELETE("/products/:id", products.Delete)

		adm.GET("/qr-code", qrCodes.Current)
		adm.POST("/qr-code", qrCodes.Create)

		adm.GET("/dashboard/stats", dashboard.Stats)
		adm.GET("/dashboard/pending-orders", dashboard.PendingOrders)
		adm.POST("/dashboard/approve-payment/:orderId", dashboard.Approve)
		adm.POST("/dashboard/reject-payment/:orderId", dashboard.Reject)
	}

	r.GET("/ws", admin, ws.Serve)

	r.NoRoute(func(c *gin.Context) {
		utils.Abort(c, constant.CodeRouteNotFound)
	})
	return r
}
