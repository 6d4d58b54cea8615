package cli

import (
	"strings"
	"time"

	"shopfront-cli/internal/browse"
	"shopfront-cli/internal/model"
	"shopfront-cli/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Fetch, filter and export the product catalog",
	}
	cmd.AddCommand(newProductsListCmd(app))
	cmd.AddCommand(newProductsSnapshotCmd(app))
	return cmd
}

func newProductsListCmd(app *App) *cobra.Command {
	var (
		query  string
		page   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products (title filter, 10 per page)",
		Example: strings.TrimSpace(`
  shopfront products list --query shirt
  shopfront products list --page 3 --format edn
  shopfront products list --db ./catalog.db
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return writeErr(cmd, errInvalidFlag("page", page, "a page number >= 1"))
			}

			ctx := commandContext(cmd)
			var (
				products []model.Product
				source   string
				err      error
			)
			if strings.TrimSpace(dbPath) != "" {
				// Offline: browse the most recent export instead of the API.
				var snap store.Snapshot
				snap, products, err = store.SnapshotStore{Path: dbPath}.Latest(ctx)
				source = snap.DBPath
			} else {
				client := newCatalogClient(app)
				products, err = client.Fetch(ctx)
				source = client.Endpoint()
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			view := browse.New()
			view.SetCatalog(products)
			view.SetQuery(query)
			view.SetPage(page)

			items := view.Visible()
			if items == nil {
				items = []model.Product{}
			}
			app.log.Debug("products listed",
				zap.String("query", query),
				zap.Int("page", page),
				zap.Int("matches", len(view.Items())),
			)

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"source":     source,
					"query":      view.Query(),
					"page":       view.Page(),
					"totalPages": view.TotalPages(),
					"total":      len(view.Items()),
					"items":      items,
				},
			})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Case-insensitive title substring filter")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Read the latest snapshot from this SQLite file instead of the API")
	return cmd
}

func newProductsSnapshotCmd(app *App) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch the catalog and save it into a SQLite file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			client := newCatalogClient(app)
			products, err := client.Fetch(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			snap, err := store.SnapshotStore{Path: dbPath}.Save(ctx, client.Endpoint(), products, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("snapshot saved",
				zap.String("id", snap.ID),
				zap.String("db", snap.DBPath),
				zap.Int("products", snap.Products),
			)
			return writeOut(cmd, app, map[string]any{"data": snap})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to write (created if missing)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}
