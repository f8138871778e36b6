package db

import (
	"fmt"

	"github.com/dtnitsch/reserve-fetch/internal/common"
	"github.com/dtnitsch/reserve-fetch/models"
	dbpkg "github.com/dtnitsch/reserve-fetch/pkg/db"
	"github.com/urfave/cli/v2"
)

// openHistory opens the history database named by --db or the config file.
func openHistory(c *cli.Context) (*dbpkg.DB, *models.Config, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	database, err := dbpkg.Open(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, cfg, nil
}
