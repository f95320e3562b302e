// Command issue-token mints a bearer token for the write endpoints.
//
//	JWT_SECRET=... issue-token --subject alice --role admin --ttl 24h
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rogerio-castellano/grocery-inventory/internal/auth"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	flags.String("subject", "", "token subject, recorded as the actor of stock movements")
	flags.String("role", auth.RoleStaff, "role claim (admin or staff)")
	flags.Duration("ttl", 12*time.Hour, "token lifetime")
	flags.String("secret", "", "signing secret (defaults to JWT_SECRET)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	_ = v.BindEnv("secret", "INVENTORY_AUTH_JWT_SECRET", "JWT_SECRET")

	subject := v.GetString("subject")
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}
	role := v.GetString("role")
	if role != auth.RoleAdmin && role != auth.RoleStaff {
		return fmt.Errorf("unknown role %q", role)
	}

	token, err := auth.GenerateToken([]byte(v.GetString("secret")), subject, role, v.GetDuration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
