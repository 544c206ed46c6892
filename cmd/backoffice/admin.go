package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/infutrix/backoffice-api/internal/database"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/service"
	"github.com/infutrix/backoffice-api/internal/tools/ui"
)

const adminTaskTimeout = 2 * time.Minute

// The operator commands only need a database connection, not the full
// server configuration.
type dbEnv struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL"`
}

type dbFlags struct {
	driver string
	url    string
	ci     bool
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "", "database driver: postgres or sqlite (default $DB_DRIVER)")
	cmd.Flags().StringVar(&f.url, "database-url", "", "database DSN (default $DATABASE_URL)")
	cmd.Flags().BoolVar(&f.ci, "ci", false, "plain output without the interactive spinner")
}

// options fills unset flags from .env and the environment.
func (f *dbFlags) options() (database.Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return database.Options{}, fmt.Errorf("load .env file: %w", err)
	}
	fromEnv, err := env.ParseAs[dbEnv]()
	if err != nil {
		return database.Options{}, fmt.Errorf("parse environment: %w", err)
	}
	driver, url := f.driver, f.url
	if driver == "" {
		driver = fromEnv.Driver
	}
	if url == "" {
		url = fromEnv.URL
	}
	if url == "" {
		return database.Options{}, errors.New("database URL is required (--database-url or DATABASE_URL)")
	}
	return database.Options{Driver: driver, DSN: url, MaxOpenConns: 2, MaxIdleConns: 1}, nil
}

func (f *dbFlags) run(cmd *cobra.Command, title string, task ui.Task) error {
	if f.ci {
		ctx, cancel := context.WithTimeout(cmd.Context(), adminTaskTimeout)
		defer cancel()
		_, err := ui.RunPlain(ctx, cmd.OutOrStdout(), title, task)
		return err
	}
	_, err := ui.Run(title, task)
	return err
}

func migrateCmd() *cobra.Command {
	var flags dbFlags
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			return flags.run(cmd, "migrate", func(ctx context.Context) ([]string, error) {
				if err := migrateWith(ctx, opts); err != nil {
					return nil, err
				}
				return []string{fmt.Sprintf("driver=%s tables=%d", opts.Driver, len(database.Models()))}, nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func createUserCmd() *cobra.Command {
	var (
		flags dbFlags
		in    service.RegisterInput
		role  string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account, typically the first admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			in.Role = domain.Role(role)
			return flags.run(cmd, "create-user", func(ctx context.Context) ([]string, error) {
				u, err := createUser(ctx, opts, in)
				if err != nil {
					return nil, err
				}
				return []string{fmt.Sprintf("id=%s username=%s role=%s", u.ID, u.Username, u.Role)}, nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "admin, editor or viewer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createUser(ctx context.Context, opts database.Options, in service.RegisterInput) (*domain.User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	db, err := database.Open(opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = database.Close(db) }()

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := repository.NewUserRepository(db).Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func keygenCmd() *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print fresh JWT key pairs and a lead encryption key as env lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return keygen(cmd.OutOrStdout(), bits)
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 2048, "RSA key size")
	return cmd
}

func keygen(w io.Writer, bits int) error {
	// Plain KEY=value lines so the output can be appended to a .env file.
	lines := make([][2]string, 0, 5)
	for _, prefix := range []string{"JWT_ACCESS", "JWT_REFRESH"} {
		kp, err := security.GenerateKeyPair(bits)
		if err != nil {
			return err
		}
		priv, pub, err := security.EncodeKeyPair(kp)
		if err != nil {
			return err
		}
		lines = append(lines, [2]string{prefix + "_PRIVATE_KEY", priv}, [2]string{prefix + "_PUBLIC_KEY", pub})
	}
	leadKey := make([]byte, 32)
	if _, err := rand.Read(leadKey); err != nil {
		return fmt.Errorf("generate lead key: %w", err)
	}
	lines = append(lines, [2]string{"LEAD_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(leadKey)})

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s=%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	return nil
}
