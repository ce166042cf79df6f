package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ananyateklu/second-brain-sub004/brain"
	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/internal/logger"
	"github.com/ananyateklu/second-brain-sub004/model"
)

const commandTimeout = 30 * time.Second

var (
	serviceURL string
	debug      bool
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sbctl",
		Short:         "sbctl manages notes and ideas in a second brain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = logger.NewConsole(debug)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("SECONDBRAIN_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Item service URL (overrides SECONDBRAIN_SERVICE_URL)")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newCreateCmd(),
		newEditCmd(),
		newItemOpCmd("pin", "Toggle the pinned flag", pinItem),
		newItemOpCmd("favorite", "Toggle the favorite flag", favoriteItem),
		newArchiveCmd(),
		newUnarchiveCmd(),
		newDeleteCmd(),
		newRestoreCmd(),
		newRestoreArchivedCmd(),
		newLinkCmd("link", "Link two items in both directions", true),
		newLinkCmd("unlink", "Remove the link between two items", false),
		newPrefCmd(),
	)
	return root
}

// withWorkspace opens and loads a workspace, runs fn and closes it. Pending
// activity entries are drained before returning.
func withWorkspace(cmd *cobra.Command, fn func(ctx context.Context, w *brain.Workspace) error) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if serviceURL != "" {
		cfg.ServiceURL = serviceURL
	}
	lg := log.Logger.Level(logger.ParseLevel(cfg.LogLevel))
	if debug {
		lg = lg.Level(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	w, err := brain.Open(ctx, cfg, brain.WithLogger(lg))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			lg.Warn().Err(cerr).Msg("workspace close failed")
		}
	}()

	start := time.Now()
	if err := w.Load(ctx); err != nil {
		lg.Error().Err(err).Str("service_url", cfg.ServiceURL).Msg("load failed")
		return err
	}
	lg.Debug().Dur("elapsed", time.Since(start)).
		Int("active", len(w.Items.Active())).
		Int("archived", len(w.Items.Archived())).
		Int("trash", len(w.Trash.Items())).
		Msg("workspace loaded")
	return fn(ctx, w)
}

func printItem(out io.Writer, it model.Item) {
	var flags []string
	if it.IsPinned {
		flags = append(flags, "pinned")
	}
	if it.IsFavorite {
		flags = append(flags, "favorite")
	}
	if it.IsArchived {
		flags = append(flags, "archived")
	}
	line := fmt.Sprintf("%s\t%s\t%s", it.ID, it.Type(), it.Title)
	if len(flags) > 0 {
		line += "\t[" + strings.Join(flags, ",") + "]"
	}
	if len(it.Tags) > 0 {
		line += "\t#" + strings.Join(it.Tags, " #")
	}
	fmt.Fprintln(out, line)
}
