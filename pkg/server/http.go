package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/backoffice/app/api/routes"
	"github.com/backoffice/pkg/config"
	"github.com/backoffice/pkg/database"

	"github.com/backoffice/pkg/domains/account"
	"github.com/backoffice/pkg/domains/verification"
	"github.com/backoffice/pkg/mailer"
	"github.com/backoffice/pkg/middleware"
	"github.com/backoffice/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func LaunchHttpServer(appc config.App, mailc config.Mail, allows config.Allows) {
	log.Println("Starting HTTP Server...")
	gin.SetMode(gin.DebugMode)
	utils.RegisterGinValidators()

	app := gin.New()
	app.Use(gin.LoggerWithFormatter(func(log gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] - %s \"%s %s %s %d %s\"\n",
			log.TimeStamp.Format("2006-01-02 15:04:05"),
			log.ClientIP,
			log.Method,
			log.Path,
			log.Request.Proto,
			log.StatusCode,
			log.Latency,
		)
	}))
	app.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	app.Use(gin.Recovery())
	app.Use(otelgin.Middleware(appc.Name))
	app.Use(middleware.ClaimIp())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Origin", "Accept"},
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	p := ginprom.New(
		ginprom.Engine(app),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/swagger/*any"),
	)
	app.Use(p.Instrument())

	db := database.DBClient()

	// User Routes
	sender := mailer.NewAuditedSender(mailer.NewSMTPSender(mailc), db)
	account_repo := account.NewRepo(db)
	verification_service := verification.NewService(account_repo, sender, utils.GenerateVerificationCode)
	account_service := account.NewService(account_repo, verification_service)
	routes.UserRoutes(app.Group("/users"), account_service, verification_service)

	fmt.Println("Server is running on port " + appc.Port)
	if err := app.Run(net.JoinHostPort(appc.Host, appc.Port)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
