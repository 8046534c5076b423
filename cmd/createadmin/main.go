package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"expensetracker/internal/config"
	"expensetracker/internal/credentials"
	"expensetracker/internal/database"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email (defaults to <user>@localhost)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	sqlitePath := fs.String("sqlite", "", "Use the SQLite database at this path instead of DB_DRIVER")
	promote := fs.Bool("promote", false, "Grant ADMIN to the user if it already exists")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: createadmin -user <username> [-email <email>] [-password <password>] [-sqlite <path>] [-promote]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}
	if *email == "" {
		*email = *username + "@localhost"
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *sqlitePath != "" {
		cfg.DBDriver = database.DriverSQLite
		cfg.SQLitePath = *sqlitePath
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return err
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}

	// only hashing is used, the signing key never leaves this process
	key, err := credentials.GenerateKey()
	if err != nil {
		return err
	}
	creds, err := credentials.NewService(credentials.Config{Key: key, BcryptCost: cfg.BcryptCost})
	if err != nil {
		return err
	}

	db := dbManager.DB()
	users := services.NewUserService(repository.NewUserStore(db), repository.NewRoleStore(db), creds)
	ctx := context.Background()

	if *promote {
		id, err := users.GetUserIDByUsername(ctx, *username)
		if err == nil {
			if _, err := users.GrantAdmin(ctx, id); err != nil {
				return fmt.Errorf("failed to grant admin: %w", err)
			}
			fmt.Fprintf(stdout, "User %s is now an admin\n", *username)
			return nil
		}
		if !errors.Is(err, apperrors.ErrEntityNotFound) {
			return err
		}
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	user, err := users.Register(ctx, *email, *username, password, []string{models.RoleUser, models.RoleAdmin})
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			return fmt.Errorf("user %s already exists (use -promote to grant admin)", *username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "Admin %s created successfully with ID %s\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
