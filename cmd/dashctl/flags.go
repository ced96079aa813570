package main

import (
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/listdash/internal/store/restclient"
	"github.com/faciam-dev/listdash/internal/store/sqlstore"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/store"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openStore picks the record backend from the persistent flags: the HTTP API
// when --api-url is set, otherwise a direct database connection. The returned
// close func releases the connection.
func openStore(cmd *cobra.Command) (store.Store, func() error, error) {
	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL != "" {
		token, _ := cmd.Flags().GetString("token")
		var opts []restclient.Option
		if token != "" {
			opts = append(opts, restclient.WithToken(token))
		}
		return restclient.New(apiURL, opts...), func() error { return nil }, nil
	}
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return nil, nil, errors.New("either --api-url or --dsn is required")
	}
	driver, _ := cmd.Flags().GetString("driver")
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlstore.New(db, driver), db.Close, nil
}
