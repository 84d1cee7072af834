package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/chatshop-backend/pkg/config"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
)

// ErrUnsupportedOnSQLite is returned for goose commands on a sqlite
// database. Its schema comes from the models, so there is no version table.
var ErrUnsupportedOnSQLite = errors.New("command not supported on sqlite, only up is")

// Command is a migrate action that needs a database connection.
type Command struct {
	Name string
	Dir  string
	// Version is the target for the version command.
	Version string
}

// Apply runs cmd against client. Postgres goes through the goose SQL
// migrations; sqlite only supports up, which auto-migrates the models.
func Apply(ctx context.Context, cfg config.DBConfig, client *db.Client, cmd Command) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}

	if cfg.IsSQLite() {
		if cmd.Name != "up" {
			return fmt.Errorf("%s: %w", cmd.Name, ErrUnsupportedOnSQLite)
		}
		return AutoMigrate(client.DB())
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	switch cmd.Name {
	case "up", "down", "status":
		return Run(ctx, sqlDB, cmd.Dir, cmd.Name)
	case "version":
		return MigrateToVersion(ctx, sqlDB, cmd.Dir, cmd.Version)
	default:
		return fmt.Errorf("unknown migrate command %q", cmd.Name)
	}
}
