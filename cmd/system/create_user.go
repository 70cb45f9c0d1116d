package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/user"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/gymdesk_backend/pkg/database"
)

// NewCreateUserCommand bootstraps logins, typically the first admin, before
// anyone can call POST /users.
func NewCreateUserCommand() *cobra.Command {
	var (
		username string
		password string
		role     string
		staffID  uint
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a back-office login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			db, err := database.NewGormDB(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close(db)

			azCfg := authorize.FromCentralConfig(cfg.Authorization)
			enforcer, cleanup, err := authorize.NewEnforcer(azCfg, database.NewDSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(context.Background())

			auth, err := authorize.NewAuthorization(enforcer, azCfg.SuperadminBypass)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			defer cancel()

			req := user.CreateRequest{Username: username, Password: password, Role: role}
			if staffID != 0 {
				req.StaffID = &staffID
			}
			res, err := user.New(db, cfg, auth).Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("User %s created with role %s (id %s).\n", res.User.Username, res.User.Role, res.User.ID)
			if res.GeneratedPassword != "" {
				fmt.Printf("Generated password: %s\n", res.GeneratedPassword)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password; generated when empty")
	cmd.Flags().StringVar(&role, "role", authorize.UserRoleAdmin, "superadmin, admin, manager, reception or coach")
	cmd.Flags().UintVar(&staffID, "staff-id", 0, "link the login to a staff record")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
