package routes

import (
	"os"

	authController "esport-accounts/controllers/auth"
	userController "esport-accounts/controllers/user"
	"esport-accounts/httpServices/mailer"
	"esport-accounts/logger"
	"esport-accounts/middleware"
	"esport-accounts/repository"
	authService "esport-accounts/services/auth"
	otpService "esport-accounts/services/otp"
	"esport-accounts/services/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires the repositories, services and controllers together and
// mounts the account API.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb redis.UniversalClient) {
	users := repository.NewUserRepository(db)
	otps := repository.NewOTPRepository(db)

	smtpMailer := mailer.NewFromEnv()
	otpSvc := otpService.NewService(otps, users, smtpMailer)
	tokens := token.NewIssuer(os.Getenv("JWT_SECRET"), rdb)
	authSvc := authService.NewService(users, otpSvc, tokens)

	asyncLogger := logger.NewAsyncLogger(db)
	authCtrl := authController.NewAuthController(authSvc, asyncLogger)
	userCtrl := userController.NewUserController(authSvc, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "esport-accounts", "status": "ok"})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	accounts := app.Group("/api/accounts")
	accounts.Post("/register", authCtrl.Register)
	accounts.Post("/verify-otp", authCtrl.VerifyOTP)
	accounts.Post("/resend-otp", authCtrl.ResendOTP)
	accounts.Post("/login", authCtrl.Login)
	accounts.Post("/token/refresh", authCtrl.RefreshToken)
	accounts.Post("/reset-password", authCtrl.ResetPassword)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	protected := accounts.Group("").Use(middleware.RequireAuth(tokens))
	protected.Post("/logout", authCtrl.Logout)
	protected.Get("/profile", userCtrl.Profile)
	protected.Patch("/profile", userCtrl.UpdateProfile)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	admin := accounts.Group("/users").Use(middleware.RequireAuth(tokens), middleware.RequireSuperAdmin())
	admin.Get("/", userCtrl.ListUsers)
	admin.Get("/:id", userCtrl.GetUser)
}
