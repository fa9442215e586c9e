// User manager for go-blogleaf accounts
package main

import (
	"bufio"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/joho/godotenv"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/database"
	"github.com/go-while/go-blogleaf/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("go-blogleaf User Manager (version: %s)", config.AppVersion)
	var (
		createUser = flag.Bool("create", false, "Create a new user")
		listUsers  = flag.Bool("list", false, "List all users")
		deleteUser = flag.Bool("delete", false, "Delete a user")
		updateUser = flag.Bool("update", false, "Update a user's password")
		email      = flag.String("email", "", "Email for user operations")
		display    = flag.String("display", "", "Display name for user creation")
		dataPath   = flag.String("data", "", "Path to the SQLite database file (overrides DATABASE_URL)")
	)
	flag.Parse()

	if !*createUser && !*listUsers && !*deleteUser && !*updateUser {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -email john@example.com -display \"John Doe\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -update -email john@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -email john@example.com\n", os.Args[0])
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	dbConfig := database.DefaultDBConfig()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		dbConfig.MainDB = dsn
	}
	if *dataPath != "" {
		dbConfig.MainDB = *dataPath
	}

	// OpenDatabase applies pending migrations
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *createUser:
		if *email == "" {
			log.Fatal("Email is required for user creation")
		}
		if err := createNewUser(db, *email, *display); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

	case *listUsers:
		if err := listAllUsers(db); err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}

	case *deleteUser:
		if *email == "" {
			log.Fatal("Email is required for user deletion")
		}
		if err := deleteExistingUser(db, *email); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}

	case *updateUser:
		if *email == "" {
			log.Fatal("Email is required for user update")
		}
		if err := updateUserPassword(db, *email); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
	}
}

func createNewUser(db *database.Database, email, displayName string) error {
	email = models.NormalizeEmail(email)

	// Check if email already exists
	if _, err := db.GetUserByEmail(email); err == nil {
		return fmt.Errorf("email '%s' already exists", email)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing email: %v", err)
	}

	// Get password
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %v", err)
	}
	fmt.Println()

	if string(password) != string(confirmPassword) {
		return fmt.Errorf("passwords do not match")
	}

	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	// Set display name to the email's local part if not provided
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashedPassword),
	}

	if err := db.InsertUser(user); err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}

	fmt.Printf("✅ User '%s' created successfully (ID: %d)\n", email, user.ID)
	if user.ID == config.AdminUserID {
		fmt.Printf("✅ User '%s' is the admin account\n", email)
	}

	return nil
}

func listAllUsers(db *database.Database) error {
	users, err := db.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to get users: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("Found %d users:\n\n", len(users))
	fmt.Printf("%-4s %-6s %-30s %-20s %s\n", "ID", "Admin", "Email", "Display Name", "Created")
	fmt.Printf("%-4s %-6s %-30s %-20s %s\n", "----", "-----", "-----", "------------", "-------")

	for _, user := range users {
		adminMark := "no"
		if user.ID == config.AdminUserID {
			adminMark = "yes"
		}
		fmt.Printf("%-4d %-6s %-30s %-20s %s\n",
			user.ID,
			adminMark,
			truncate(user.Email, 30),
			truncate(user.DisplayName, 20),
			user.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	return nil
}

func deleteExistingUser(db *database.Database, email string) error {
	email = models.NormalizeEmail(email)

	user, err := db.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("user '%s' not found", email)
	}

	// Confirm deletion
	fmt.Printf("Are you sure you want to delete user '%s' (ID: %d)? [y/N]: ", email, user.ID)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response != "y" && response != "yes" {
		fmt.Println("User deletion cancelled")
		return nil
	}

	if err := db.DeleteUser(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	fmt.Printf("✅ User '%s' (ID: %d) deleted\n", user.Email, user.ID)
	return nil
}

func updateUserPassword(db *database.Database, email string) error {
	email = models.NormalizeEmail(email)

	user, err := db.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("user '%s' not found", email)
	}

	// Get new password
	fmt.Printf("Enter new password for '%s': ", email)
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm new password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %v", err)
	}
	fmt.Println()

	if string(password) != string(confirmPassword) {
		return fmt.Errorf("passwords do not match")
	}

	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	if err := db.UpdateUserPassword(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	fmt.Printf("✅ Password updated successfully for user '%s'\n", email)

	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
