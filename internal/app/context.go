package app

import (
	"database/sql"
	"fmt"

	"github.com/whovibhor/PersonalOS/internal/config"
	"github.com/whovibhor/PersonalOS/internal/db"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/migrate"
)

// Context bundles everything a command needs to run against a
// workspace: the open database, the engine over it, and the config.
type Context struct {
	Workspace string
	DB        *sql.DB
	Engine    engine.Engine
	Config    *config.Config
}

// Open resolves the workspace, loads the config (defaults when absent),
// opens the database and applies pending migrations.
func Open(workspace string) (*Context, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Context{
		Workspace: workspace,
		DB:        conn,
		Engine:    engine.New(conn),
		Config:    cfg,
	}, nil
}

func (c *Context) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
