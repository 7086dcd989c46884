package cmd

import (
	"context"
	"fmt"
	"strings"

	"news-portal/config"
	"news-portal/events"
	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"
	"news-portal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	userEmail    string
	userName     string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage identities without going through the API",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an identity, typically the first admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(strings.ToLower(userRole))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", userRole)
		}

		repos, err := openRepositories()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		svc := services.NewServices(cfg, repos, nil, events.NewNoopPublisher(), logger)
		author, err := svc.Auth.Register(ctx, models.RegisterRequest{
			Email:    userEmail,
			Name:     userName,
			Password: userPassword,
		})
		if err != nil {
			return err
		}

		if role != models.RoleUser {
			if err := setRole(ctx, repos, author, role); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (id %d) with role %s\n", author.Email, author.ID, role)
		return nil
	},
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change the role of an existing identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(strings.ToLower(userRole))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", userRole)
		}

		repos, err := openRepositories()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		author, err := repos.Authors.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(userEmail)))
		if err != nil {
			return fmt.Errorf("find %s: %w", userEmail, err)
		}
		if err := setRole(ctx, repos, author, role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", author.Email, role)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "password")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(models.RoleUser), "user, editor or admin")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("password")

	userSetRoleCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userSetRoleCmd.Flags().StringVar(&userRole, "role", "", "user, editor or admin")
	_ = userSetRoleCmd.MarkFlagRequired("email")
	_ = userSetRoleCmd.MarkFlagRequired("role")

	userCmd.AddCommand(userCreateCmd, userSetRoleCmd)
	rootCmd.AddCommand(userCmd)
}

func openRepositories() (*repositories.Repositories, error) {
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return repositories.NewRepositories(db), nil
}

// setRole updates the role and leaves an audit entry with no acting user.
func setRole(ctx context.Context, repos *repositories.Repositories, author *models.Author, role models.Role) error {
	if err := repos.Authors.Update(ctx, author.ID, map[string]interface{}{"role": role}); err != nil {
		return err
	}

	objectID := author.ID
	if err := repos.AuditLogs.Create(ctx, &models.AuditLog{
		EventType:  models.EventRoleChange,
		ObjectType: string(policy.KindAuthor),
		ObjectID:   &objectID,
		Details:    fmt.Sprintf("%s -> %s (cli)", author.Role, role),
	}); err != nil {
		logger.Warn("audit role change failed", zap.Uint("author_id", author.ID), zap.Error(err))
	}
	author.Role = role
	return nil
}
