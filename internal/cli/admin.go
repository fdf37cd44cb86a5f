package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"github.com/spf13/cobra"
)

const confirmPrompt = "Bạn có chắc chắn không? Hành động này không thể hoàn tác. [y/N] "

// openAdmin builds the admin service from config. Tests swap it for an
// in-memory one.
var openAdmin = func(ctx context.Context, configPath string) (*app.AdminService, func(), error) {
	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return nil, nil, err
	}
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}
	admin := app.NewAdminService(app.NewGateway(b.store), app.NewPlayerFactory())
	return admin, func() {
		b.Close()
		log.Sync()
	}, nil
}

// NewPlayersCmd groups roster management commands.
func NewPlayersCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage player profiles",
	}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			players, err := admin.ListPlayers(cmd.Context())
			if err != nil {
				return err
			}
			printPlayers(cmd.OutOrStdout(), players)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Create a player",
		Args:  cobra.MinimumNArgs(1),
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			player, err := admin.AddPlayer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", player.Name, player.ID)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete one player",
		Args:  cobra.ExactArgs(1),
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			if err := admin.DeletePlayer(cmd.Context(), args[0], confirm(cmd, yes)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every player",
		Args:  cobra.NoArgs,
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			if err := admin.ClearPlayers(cmd.Context(), confirm(cmd, yes)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "roster cleared")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the seed roster",
		Args:  cobra.NoArgs,
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			if err := admin.ResetPlayers(cmd.Context(), confirm(cmd, yes)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "roster reset")
			return nil
		}),
	})
	return cmd
}

// NewQuestionsCmd exports and imports the question bank.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Export or import the question bank",
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write the question bank as JSON",
		Args:  cobra.NoArgs,
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			data, err := admin.ExportQuestions(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		}),
	}
	export.Flags().StringVarP(&out, "out", "o", "", "file to write instead of stdout")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Replace the question bank from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: withAdmin(configPath, func(cmd *cobra.Command, admin *app.AdminService, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			n, err := admin.ImportQuestions(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import thành công! (%d questions)\n", n)
			return nil
		}),
	})
	return cmd
}

type adminRun func(cmd *cobra.Command, admin *app.AdminService, args []string) error

func withAdmin(configPath *string, run adminRun) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		admin, closeFn, err := openAdmin(ctx, *configPath)
		if err != nil {
			return err
		}
		defer closeFn()
		return run(cmd, admin, args)
	}
}

// confirm asks on the command's input unless yes is set.
func confirm(cmd *cobra.Command, yes bool) bool {
	if yes {
		return true
	}
	fmt.Fprint(cmd.OutOrStdout(), confirmPrompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "c", "có":
		return true
	}
	return false
}

func printPlayers(w io.Writer, players []domain.Player) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTARS\tSTAGES")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Stars, strings.Join(p.CompletedStages, ","))
	}
	_ = tw.Flush()
}
