package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	appctx "github.com/bassista/go_quotes/internal/app"
	"github.com/bassista/go_quotes/internal/category"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/spf13/cobra"
)

// cli carries state shared by every subcommand.
type cli struct {
	newApp  func() (*appctx.App, error)
	app     *appctx.App
	verbose bool
}

func newRootCommand(newApp func() (*appctx.App, error)) *cobra.Command {
	c := &cli{newApp: newApp}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Manage the quote catalog",
		Long: `quotectl reads and edits the same quote collection the server uses.
Run it against the server's data directory (see QUOTES_CONFIG_PATH).`,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.listCommand(),
		c.addCommand(),
		c.categoriesCommand(),
		c.filterCommand(),
		c.randomCommand(),
		c.exportCommand(),
		c.importCommand(),
		c.syncCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		return err
	}

	a, err := c.newApp()
	if err != nil {
		return err
	}
	if err := a.Init(cmd.Context()); err != nil {
		a.Shutdown()
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) error {
	if c.app != nil {
		c.app.Shutdown()
	}
	return nil
}

func (c *cli) listCommand() *cobra.Command {
	var selection string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes, optionally of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes := c.app.Store.All()
			if selection != "" {
				quotes = c.app.Index.ByCategory(selection)
			}
			return printQuotes(cmd.OutOrStdout(), quotes)
		},
	}
	cmd.Flags().StringVarP(&selection, "category", "c", "", "only show this category")
	return cmd
}

func (c *cli) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT CATEGORY",
		Short: "Add a quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.app.Store.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added to %s: %s\n", q.Category, q.Text)
			return nil
		},
	}
}

func (c *cli) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories; the active filter is starred",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected := c.app.Index.Selected()
			for _, cat := range c.app.Index.Categories() {
				marker := " "
				if cat == selected {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, cat)
			}
			return nil
		},
	}
}

func (c *cli) filterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter CATEGORY",
		Short: "Set the active category filter (" + category.All + " clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Index.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "filter set to %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) randomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print a random quote from the active filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := c.app.Picker.Next(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q - %s\n", q.Text, q.Category)
			return nil
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.app.Codec.Export()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d quotes to %s\n", c.app.Store.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge quotes from a JSON document; existing text is never overwritten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := c.app.Codec.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported: %d added, %d ignored, %d total\n", res.Added, res.Ignored, res.Total)
			return nil
		},
	}
}

func (c *cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync round-trip with the remote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.SyncNow(cmd.Context())
			if err != nil {
				return err
			}
			pushed := "skipped"
			if res.Pushed {
				pushed = "ok"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sync %s: push %s, pulled %d, added %d\n", res.TickID, pushed, res.Pulled, res.Added)
			return nil
		},
	}
}

func printQuotes(w io.Writer, quotes []repository.Quote) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s\n", q.Category, strings.ReplaceAll(q.Text, "\n", " "))
	}
	return tw.Flush()
}
