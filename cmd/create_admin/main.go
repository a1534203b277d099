package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/config"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/database"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/services"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	username := flag.String("username", "admin", "Login name for the admin screens")
	password := flag.String("password", "", "Password to hash (required)")
	email := flag.String("email", "", "Also ensure a user with this email exists and is flagged as admin")
	name := flag.String("name", "Admin User", "Name used when the user has to be created")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	if *email != "" {
		// Same DB_* settings as the server
		_ = godotenv.Load()
		conf, err := config.LoadConfig()
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
		db, err := database.InitDatabase(database.FromConfig(conf))
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		userID, err := ensureAdminUser(context.Background(), services.NewUserService(db), *email, *name)
		if err != nil {
			log.Fatal("Failed to ensure admin user:", err)
		}
		fmt.Printf("Admin user: %s (ID: %d)\n", *email, userID)
	}

	fmt.Println("Add these lines to your .env file:")
	fmt.Printf("ADMIN_USERNAME=%s\n", *username)
	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
}

// ensureAdminUser finds or creates the user with email and flags it as admin
func ensureAdminUser(ctx context.Context, users services.UserService, email, name string) (uint, error) {
	user, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsAdmin {
			if err := users.SetAdmin(ctx, user.ID, true); err != nil {
				return 0, err
			}
		}
		fmt.Printf("Found existing user: %s (ID: %d)\n", user.Email, user.ID)
		return user.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return 0, err
	}

	user = &models.User{Email: email, Name: name, IsAdmin: true}
	if err := users.CreateUser(ctx, user); err != nil {
		return 0, err
	}
	fmt.Printf("Created new user: %s (ID: %d)\n", user.Email, user.ID)
	return user.ID, nil
}
