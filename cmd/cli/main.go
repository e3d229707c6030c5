package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	postgresRepo "github.com/druiz/poscaja/internal/adapter/repository/postgres"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/postgres"
	"github.com/druiz/poscaja/internal/usecase"
)

// bcryptGenerate is swappable in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "poscaja-cli",
		Short: "POS caja CLI tool",
		Long:  `A command line interface for the poscaja API and database.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the poscaja API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("POSCAJA_TOKEN"), "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Closure commands
	closureCmd := &cobra.Command{
		Use:   "closure",
		Short: "Cash closure operations",
	}

	var (
		date   string
		scope  string
		userID string
	)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a date is closed",
		Run: func(cmd *cobra.Command, args []string) {
			closureStatus(date, scope, userID)
		},
	}
	statusCmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "Closure date (YYYY-MM-DD)")
	statusCmd.Flags().StringVar(&scope, "scope", "general", "Closure scope (general or personal)")
	statusCmd.Flags().StringVar(&userID, "user", "", "User ID for personal scope")

	var from, to string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List closures in a date range",
		Run: func(cmd *cobra.Command, args []string) {
			closureList(from, to)
		},
	}
	listCmd.Flags().StringVar(&from, "from", time.Now().UTC().Format("2006-01-02"), "Range start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", time.Now().UTC().Format("2006-01-02"), "Range end (YYYY-MM-DD)")

	closureCmd.AddCommand(statusCmd)
	closureCmd.AddCommand(listCmd)
	rootCmd.AddCommand(closureCmd)

	// Migration commands
	var (
		databaseURL    string
		migrationsPath string
	)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, migrationsPath)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrationsDown(databaseURL, migrationsPath)
		},
	}

	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(hashPasswordCmd())

	// User commands talk to the database directly: the first admin has
	// to exist before anyone can authenticate against the API.
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management",
	}

	var (
		userEmail    string
		userName     string
		userPassword string
		userRole     string
	)

	userCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return userCreate(databaseURL, userEmail, userName, userPassword, userRole)
		},
	}
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "User email")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(domain.RoleCashier), "Role (admin, cashier, or viewer)")

	userListCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return userList(databaseURL)
		},
	}

	userCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// hashPasswordCmd produces a bcrypt hash suitable for seeding user rows.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Generate a bcrypt hash for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func newUserUseCase(ctx context.Context, databaseURL string) (*usecase.UserUseCase, func(), error) {
	pool, err := postgres.NewPool(ctx, databaseURL, 2, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	uc := usecase.NewUserUseCase(postgresRepo.NewUserRepository(pool), postgresRepo.NewULIDGenerator())

	return uc, pool.Close, nil
}

func userCreate(databaseURL, email, name, password, role string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uc, cleanup, err := newUserUseCase(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := uc.CreateUser(ctx, usecase.CreateUserInput{
		Email:    email,
		Name:     name,
		Password: password,
		Role:     domain.Role(role),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s, %s)\n", user.ID, user.Email, user.Role)

	return nil
}

func userList(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uc, cleanup, err := newUserUseCase(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := uc.ListUsers(ctx, 0, 0)
	if err != nil {
		return err
	}

	for _, u := range users {
		fmt.Printf("%s  %-30s  %-8s  active=%v\n", u.ID, u.Email, u.Role, u.Active)
	}

	fmt.Printf("%d user(s)\n", len(users))

	return nil
}

func apiGet(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return body, resp.StatusCode
}

func closureStatus(date, scope, userID string) {
	path := "/api/v1/closures/status?date=" + date + "&scope=" + scope
	if userID != "" {
		path += "&user_id=" + userID
	}

	body, status := apiGet(path)
	if status != http.StatusOK {
		fmt.Printf("Status check failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Date: %s\nScope: %s\nClosed: %v\n", result["date"], result["scope"], result["closed"])
}

func closureList(from, to string) {
	body, status := apiGet("/api/v1/closures?from=" + from + "&to=" + to)
	if status != http.StatusOK {
		fmt.Printf("List failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var closures []map[string]any
	if err := json.Unmarshal(body, &closures); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, c := range closures {
		fmt.Printf("%s  %-8s  amount=%v  difference=%v  user=%v\n",
			c["date"], c["scope"], c["amount"], c["difference"], c["user_name"])
	}

	fmt.Printf("%d closure(s)\n", len(closures))
}
