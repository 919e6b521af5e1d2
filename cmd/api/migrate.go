package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/01moynul/glowbeauty-golang/internal/config"
	"github.com/01moynul/glowbeauty-golang/internal/database"
	"github.com/01moynul/glowbeauty-golang/internal/logger"
)

const databaseURLFlag = "database-url"

var migrateFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "Database URL (overrides DATABASE_URL)",
	},
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply, roll back or inspect schema migrations",
		Args:  cobra.ExactArgs(1),
		RunE:  runMigrate,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if url := migrateFlags[databaseURLFlag].GetString(); url != "" {
		cfg.DatabaseURL = url
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	db, dialect, err := database.OpenDB(ctx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	m := database.NewMigrator(cfg.DatabaseURL, dialect, db, log)

	switch args[0] {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		st, err := m.Status(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or status)", args[0])
	}
}
