package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ananyateklu/second-brain-sub004/brain"
	"github.com/ananyateklu/second-brain-sub004/model"
)

func newListCmd() *cobra.Command {
	var archived, trashed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active, archived or trashed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if archived && trashed {
				return fmt.Errorf("--archived and --trash are mutually exclusive")
			}
			out := cmd.OutOrStdout()
			return withWorkspace(cmd, func(_ context.Context, w *brain.Workspace) error {
				switch {
				case trashed:
					for _, t := range w.Trash.Items() {
						fmt.Fprintf(out, "%s\t%s\t%s\t%d days left\n", t.ID, t.Type, t.Title, w.Trash.DaysRemaining(t))
					}
				case archived:
					for _, it := range w.Items.Archived() {
						printItem(out, it)
					}
				default:
					for _, it := range w.Items.Active() {
						printItem(out, it)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "List archived items")
	cmd.Flags().BoolVar(&trashed, "trash", false, "List the trash")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item and the items linked to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withWorkspace(cmd, func(_ context.Context, w *brain.Workspace) error {
				it, state, ok := w.Items.Get(args[0])
				if !ok {
					if t, inTrash := w.Trash.Get(args[0]); inTrash {
						fmt.Fprintf(out, "%s\t%s\t%s\ttrashed, %d days left\n", t.ID, t.Type, t.Title, w.Trash.DaysRemaining(t))
						return nil
					}
					return model.NewNotFoundError("item", args[0])
				}
				printItem(out, it)
				fmt.Fprintf(out, "state: %s\n", state)
				if it.Content != "" {
					fmt.Fprintf(out, "\n%s\n", it.Content)
				}
				linked, err := w.Items.LinkedItems(it.ID)
				if err != nil {
					return err
				}
				if len(linked) > 0 {
					fmt.Fprintln(out, "\nlinked:")
					for _, l := range linked {
						printItem(out, l)
					}
				}
				return nil
			})
		},
	}
}

func newCreateCmd() *cobra.Command {
	var title, content, tags string
	var idea, pinned, favorite bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note, or an idea with --idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				it, err := w.Items.Create(ctx, model.Draft{
					Title: title, Content: content, Tags: splitTags(tags),
					IsIdea: idea, IsPinned: pinned, IsFavorite: favorite,
				})
				if err != nil {
					return err
				}
				printItem(cmd.OutOrStdout(), *it)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Body text")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().BoolVar(&idea, "idea", false, "Create an idea instead of a note")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "Pin the new item")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark the new item as favorite")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd() *cobra.Command {
	var title, content, tags string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, content or tags of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.Patch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("content") {
				p.Content = &content
			}
			if cmd.Flags().Changed("tags") {
				t := splitTags(tags)
				p.Tags = &t
			}
			if p.Empty() {
				return fmt.Errorf("nothing to change: pass --title, --content or --tags")
			}
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				it, err := w.Items.Update(ctx, args[0], p)
				if err != nil {
					return err
				}
				printItem(cmd.OutOrStdout(), *it)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags (empty clears)")
	return cmd
}

type itemOp func(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error)

func pinItem(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error) {
	return w.Items.TogglePin(ctx, id)
}

func favoriteItem(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error) {
	return w.Items.ToggleFavorite(ctx, id)
}

func newArchiveCmd() *cobra.Command {
	return newItemOpCmd("archive", "Move an item to the archive",
		func(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error) {
			return w.Items.Archive(ctx, id)
		})
}

func newUnarchiveCmd() *cobra.Command {
	return newItemOpCmd("unarchive", "Return an archived item to the active list",
		func(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error) {
			return w.Items.Unarchive(ctx, id)
		})
}

func newRestoreCmd() *cobra.Command {
	return newItemOpCmd("restore", "Restore an item from the trash",
		func(ctx context.Context, w *brain.Workspace, id string) (*model.Item, error) {
			return w.Trash.Restore(ctx, id)
		})
}

func newItemOpCmd(use, short string, op itemOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				it, err := op(ctx, w, args[0])
				if err != nil {
					return err
				}
				printItem(cmd.OutOrStdout(), *it)
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Move an item to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				if err := w.Items.Delete(ctx, args[0]); err != nil {
					return err
				}
				if t, ok := w.Trash.Get(args[0]); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Moved to trash: %s - %s (%d days to restore)\n",
						t.ID, t.Title, w.Trash.DaysRemaining(t))
				}
				return nil
			})
		},
	}
}

func newRestoreArchivedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore-archived <id>...",
		Short: "Unarchive several items at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				res := w.Items.RestoreMultiple(ctx, args)
				fmt.Fprintf(out, "Restored %d notes and %d ideas\n", res.Notes, res.Ideas)
				for _, f := range res.Failed {
					fmt.Fprintf(out, "failed: %s: %v\n", f.ID, f.Err)
				}
				if len(res.Restored) == 0 && len(res.Failed) > 0 {
					return fmt.Errorf("no items restored")
				}
				return nil
			})
		},
	}
}

func newLinkCmd(use, short string, link bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <source-id> <target-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				var res *model.LinkResult
				var err error
				if link {
					res, err = w.Items.AddLink(ctx, args[0], args[1])
				} else {
					res, err = w.Items.RemoveLink(ctx, args[0], args[1])
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printItem(out, res.Source)
				printItem(out, res.Target)
				return nil
			})
		},
	}
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
