package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"artist-management/internal/domain"
	"artist-management/internal/service"
)

func newCreateSuperAdminCmd(o *rootOpts) *cobra.Command {
	in := service.SignupInput{Role: domain.RoleSuperAdmin}
	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create the first super_admin account",
		Long: `Create a super_admin user. The password may also come from ADMIN_PASSWORD.

Examples:
  admin create-superadmin --email root@example.com --password 's3cret'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("ADMIN_PASSWORD")
			}
			if in.Email == "" || in.Password == "" {
				return errors.New("--email and --password (or ADMIN_PASSWORD) are required")
			}
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			u, err := e.users.Signup(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create super_admin: %w", err)
			}
			e.log.Info("super_admin created", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "created super_admin %d %s\n", u.ID, u.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "Login email")
	f.StringVar(&in.Password, "password", "", "Login password")
	f.StringVar(&in.FirstName, "first-name", "Super", "First name")
	f.StringVar(&in.LastName, "last-name", "Admin", "Last name")
	f.StringVar(&in.DOB, "dob", "1970-01-01", "Date of birth (YYYY-MM-DD)")
	return cmd
}
