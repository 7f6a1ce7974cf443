package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whovibhor/PersonalOS/internal/app"
	"github.com/whovibhor/PersonalOS/internal/config"
	"github.com/whovibhor/PersonalOS/internal/db"
	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/repo"
	"github.com/whovibhor/PersonalOS/internal/server"
	"github.com/whovibhor/PersonalOS/internal/views"
)

var rootCmd = &cobra.Command{
	Use:   "pos",
	Short: "PersonalOS CLI",
	Long: `PersonalOS is a personal productivity dashboard: tasks with
recurrence and live countdowns, habits, notes, quick expenses, and a
small finance ledger with balance-affecting transactions.

The task views (today, board, upcoming, calendar) are composed
server-side from the full task collection, so the CLI, the HTTP API
and the SDK all see the same buckets.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PERSONALOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(habitCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(financeCmd())
	rootCmd.AddCommand(watchCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			cfgPath := config.Path(workspace)
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := os.WriteFile(cfgPath, []byte(config.GenerateDefault()), 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", cfgPath)
			}
			appCtx, err := app.Open(workspace)
			if err != nil {
				return err
			}
			defer appCtx.Close()
			fmt.Println("workspace ready:", db.Path(workspace))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			appCtx, err := app.Open(workspace)
			if err != nil {
				return err
			}
			defer appCtx.Close()
			if addr == "" {
				addr = appCtx.Config.Server.Listen
			}
			handler, err := server.New(server.Config{
				Engine:   appCtx.Engine,
				BasePath: basePath,
				Logger:   newLogger(),
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			fmt.Printf("Serving PersonalOS API on http://%s%s (OpenAPI at %s/openapi.json, docs at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path")
	return cmd
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskDoneCmd())
	task.AddCommand(taskRmCmd())
	task.AddCommand(taskTodayCmd())
	task.AddCommand(taskBoardCmd())
	task.AddCommand(taskUpcomingCmd())
	task.AddCommand(taskHistoryCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var desc, category, recurrence, start, due string
	var labels []string
	var priority, estimate int
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.TaskCreateOptions{
					Title:      args[0],
					Labels:     labels,
					Priority:   priority,
					Recurrence: recurrence,
				}
				if desc != "" {
					opts.Description = &desc
				}
				if category != "" {
					opts.Category = &category
				}
				if start != "" {
					opts.StartDate = &start
				}
				if due != "" {
					opts.DueDate = &due
				}
				if estimate > 0 {
					opts.EstimatedMinutes = &estimate
				}
				t, err := e.CreateTask(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("created task %d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label (repeatable)")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority 1..3")
	cmd.Flags().StringVar(&recurrence, "recur", "", "recurrence: daily, weekly or monthly")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	return cmd
}

func taskListCmd() *cobra.Command {
	var view string
	var saveFilters, clearFilters bool
	var status, category string
	var labels []string
	var priority int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if clearFilters {
				if err := config.ClearPreferences(workspace); err != nil {
					return err
				}
			}
			if saveFilters {
				err := config.SavePreferences(workspace, config.Preferences{
					Status:   status,
					Category: category,
					Priority: priority,
					Labels:   labels,
				})
				if err != nil {
					return err
				}
			}
			prefs, err := config.LoadPreferences(workspace)
			if err != nil {
				return err
			}
			f := prefs.Filters()
			if cmd.Flags().Changed("status") {
				f.Status = status
			}
			if cmd.Flags().Changed("category") {
				f.Category = category
			}
			if cmd.Flags().Changed("priority") {
				f.Priority = priority
			}
			if cmd.Flags().Changed("label") {
				f.Labels = labels
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				tasks, err := e.ListTasks(ctx, view)
				if err != nil {
					return err
				}
				today := views.DateOf(time.Now())
				var kept []domain.Task
				for _, t := range tasks {
					if views.MatchesFilters(t, f, today) {
						kept = append(kept, t)
					}
				}
				if viper.GetBool("json") {
					return printJSON(kept)
				}
				renderTaskTable(kept, time.Now())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "view: all or today")
	cmd.Flags().StringVar(&status, "status", "", "status filter: all, pending or completed")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority filter 1..3")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label filter (repeatable)")
	cmd.Flags().BoolVar(&saveFilters, "save-filters", false, "persist the given filters as defaults")
	cmd.Flags().BoolVar(&clearFilters, "clear-filters", false, "drop persisted filter defaults")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, desc, category, recurrence, start, due string
	var labels []string
	var priority, estimate int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch engine.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("label") {
				patch.Labels = &labels
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}
			if cmd.Flags().Changed("recur") {
				patch.Recurrence = &recurrence
			}
			if cmd.Flags().Changed("start") {
				patch.StartDate = &start
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = &due
			}
			if cmd.Flags().Changed("estimate") {
				patch.EstimatedMinutes = &estimate
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.UpdateTask(ctx, id, patch)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("updated task %d\n", t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&desc, "desc", "", "description (empty clears)")
	cmd.Flags().StringVar(&category, "category", "", "category (empty clears)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "labels (replaces the set)")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority 1..3")
	cmd.Flags().StringVar(&recurrence, "recur", "", "recurrence (empty clears)")
	cmd.Flags().StringVar(&start, "start", "", "start date (empty clears)")
	cmd.Flags().StringVar(&due, "due", "", "due date (empty clears)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	var on string
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete (or un-complete) a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			completed := !undo
			patch := engine.TaskPatch{Completed: &completed}
			if on != "" {
				patch.CompletedOn = &on
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.UpdateTask(ctx, id, patch)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				if undo {
					fmt.Printf("reopened task %d: %s\n", t.ID, t.Title)
				} else {
					fmt.Printf("completed task %d: %s\n", t.ID, t.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "completion date for recurring tasks (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task incomplete again")
	return cmd
}

func taskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := e.DeleteTask(ctx, id); err != nil {
					return err
				}
				fmt.Printf("deleted task %d\n", id)
				return nil
			})
		},
	}
}

func taskTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the today view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				snap, err := snapshotWithPrefs(ctx, e, views.ModeToday, "")
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(snap)
				}
				renderTodayView(snap)
				return nil
			})
		},
	}
}

func taskBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the board view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				snap, err := snapshotWithPrefs(ctx, e, views.ModeToday, "")
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(snap.Board)
				}
				renderBoard(snap.Board)
				return nil
			})
		},
	}
}

func taskUpcomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "Show upcoming tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				snap, err := e.TaskViews(ctx, views.Options{Mode: views.ModeToday})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(snap.Upcoming)
				}
				renderTaskTable(snap.Upcoming, time.Now())
				return nil
			})
		},
	}
}

func taskHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent task activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				entries, err := e.ListTaskHistory(ctx, limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(entries)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"When", "Action", "Task", "Changes"})
				for _, h := range entries {
					changes := ""
					if h.Changes != nil {
						changes = *h.Changes
					}
					tw.AppendRow(table.Row{h.CreatedAt, h.Action, h.TaskTitle, changes})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "max entries (1..200)")
	return cmd
}

func habitCmd() *cobra.Command {
	habit := &cobra.Command{Use: "habit", Short: "Manage habits"}

	var freq string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				h, err := e.CreateHabit(ctx, args[0], freq)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(h)
				}
				fmt.Printf("created habit %d: %s (%s)\n", h.ID, h.Name, h.Frequency)
				return nil
			})
		},
	}
	add.Flags().StringVar(&freq, "freq", "", "frequency (default daily)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				habits, err := e.ListHabits(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(habits)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Frequency"})
				for _, h := range habits {
					tw.AppendRow(table.Row{h.ID, h.Name, h.Frequency})
				}
				tw.Render()
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteHabit(ctx, id)
			})
		},
	}

	habit.AddCommand(add, list, rm)
	return habit
}

func noteCmd() *cobra.Command {
	note := &cobra.Command{Use: "note", Short: "Manage notes"}

	var content string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				n, err := e.CreateNote(ctx, args[0], content)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(n)
				}
				fmt.Printf("created note %s: %s\n", n.ID, n.Title)
				return nil
			})
		},
	}
	add.Flags().StringVar(&content, "content", "", "note body")

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				notes, err := e.ListNotes(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(notes)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Updated"})
				for _, n := range notes {
					tw.AppendRow(table.Row{n.ID, n.Title, n.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteNote(ctx, args[0])
			})
		},
	}

	note.AddCommand(add, list, rm)
	return note
}

func expenseCmd() *cobra.Command {
	expense := &cobra.Command{Use: "expense", Short: "Track quick expenses"}

	var desc, on string
	add := &cobra.Command{
		Use:   "add <amount> [category]",
		Short: "Record an expense",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			category := ""
			if len(args) > 1 {
				category = args[1]
			}
			var descPtr *string
			if desc != "" {
				descPtr = &desc
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				x, err := e.CreateExpense(ctx, amount, category, descPtr, on)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(x)
				}
				fmt.Printf("recorded %.2f (%s) on %s\n", x.Amount, x.Category, x.SpentOn)
				return nil
			})
		},
	}
	add.Flags().StringVar(&desc, "desc", "", "description")
	add.Flags().StringVar(&on, "on", "", "spend date YYYY-MM-DD (default today)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				expenses, err := e.ListExpenses(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(expenses)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Amount", "Category", "Date"})
				for _, x := range expenses {
					tw.AppendRow(table.Row{x.ID, fmt.Sprintf("%.2f", x.Amount), x.Category, x.SpentOn})
				}
				tw.Render()
				return nil
			})
		},
	}

	expense.AddCommand(add, list)
	return expense
}

func financeCmd() *cobra.Command {
	finance := &cobra.Command{Use: "finance", Short: "Finance ledger"}
	finance.AddCommand(financeAssetCmd())
	finance.AddCommand(financeLiabilityCmd())
	finance.AddCommand(financeTxnCmd())
	finance.AddCommand(financeSummaryCmd())
	return finance
}

func financeAssetCmd() *cobra.Command {
	asset := &cobra.Command{Use: "asset", Short: "Manage assets"}

	var assetType, currency, notes string
	var balance float64
	var primary bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var notesPtr *string
			if notes != "" {
				notesPtr = &notes
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, err := e.CreateAsset(ctx, engine.AssetOptions{
					Name:      args[0],
					AssetType: assetType,
					Currency:  currency,
					Balance:   balance,
					IsPrimary: primary,
					Notes:     notesPtr,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(a)
				}
				fmt.Printf("created asset %d: %s (%.2f %s)\n", a.ID, a.Name, a.Balance, a.Currency)
				return nil
			})
		},
	}
	add.Flags().StringVar(&assetType, "type", "cash", "asset type")
	add.Flags().StringVar(&currency, "currency", "", "currency (default INR)")
	add.Flags().Float64Var(&balance, "balance", 0, "opening balance")
	add.Flags().BoolVar(&primary, "primary", false, "make this the primary account")
	add.Flags().StringVar(&notes, "notes", "", "notes")

	list := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				assets, err := e.ListAssets(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(assets)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Type", "Balance", "Primary"})
				for _, a := range assets {
					tw.AppendRow(table.Row{a.ID, a.Name, a.AssetType, fmt.Sprintf("%.2f %s", a.Balance, a.Currency), a.IsPrimary})
				}
				tw.Render()
				return nil
			})
		},
	}

	asset.AddCommand(add, list)
	return asset
}

func financeLiabilityCmd() *cobra.Command {
	liability := &cobra.Command{Use: "liability", Short: "Manage liabilities"}

	var liabilityType string
	var balance float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a liability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				l, err := e.CreateLiability(ctx, engine.LiabilityOptions{
					Name:          args[0],
					LiabilityType: liabilityType,
					Balance:       balance,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(l)
				}
				fmt.Printf("created liability %d: %s (%.2f)\n", l.ID, l.Name, l.Balance)
				return nil
			})
		},
	}
	add.Flags().StringVar(&liabilityType, "type", "loan", "liability type")
	add.Flags().Float64Var(&balance, "balance", 0, "outstanding balance")

	list := &cobra.Command{
		Use:   "list",
		Short: "List liabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				liabilities, err := e.ListLiabilities(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(liabilities)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Type", "Balance"})
				for _, l := range liabilities {
					tw.AppendRow(table.Row{l.ID, l.Name, l.LiabilityType, fmt.Sprintf("%.2f", l.Balance)})
				}
				tw.Render()
				return nil
			})
		},
	}

	liability.AddCommand(add, list)
	return liability
}

func financeTxnCmd() *cobra.Command {
	txn := &cobra.Command{Use: "txn", Short: "Manage transactions"}

	var txnType, category, desc string
	var amount float64
	var fromAsset, toAsset, liabilityID int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.TransactionOptions{
				TxnType:  txnType,
				Amount:   amount,
				Category: category,
			}
			if desc != "" {
				opts.Description = &desc
			}
			if cmd.Flags().Changed("from") {
				opts.FromAssetID = &fromAsset
			}
			if cmd.Flags().Changed("to") {
				opts.ToAssetID = &toAsset
			}
			if cmd.Flags().Changed("liability") {
				opts.LiabilityID = &liabilityID
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.CreateTransaction(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("recorded %s of %.2f (%s)\n", t.TxnType, t.Amount, t.Category)
				return nil
			})
		},
	}
	add.Flags().StringVar(&txnType, "type", "expense", "txn type: income, expense, transfer or liability_payment")
	add.Flags().Float64Var(&amount, "amount", 0, "amount")
	add.Flags().StringVar(&category, "category", "", "category")
	add.Flags().StringVar(&desc, "desc", "", "description")
	add.Flags().Int64Var(&fromAsset, "from", 0, "source asset id")
	add.Flags().Int64Var(&toAsset, "to", 0, "destination asset id")
	add.Flags().Int64Var(&liabilityID, "liability", 0, "liability id")

	var startDate, endDate, typeFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				txns, err := e.ListTransactions(ctx, repo.TransactionFilters{
					StartDate: startDate,
					EndDate:   endDate,
					TxnType:   typeFilter,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(txns)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Type", "Amount", "Category", "When"})
				for _, t := range txns {
					tw.AppendRow(table.Row{t.ID, t.TxnType, fmt.Sprintf("%.2f", t.Amount), t.Category, t.TransactedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	list.Flags().StringVar(&startDate, "start", "", "start date filter")
	list.Flags().StringVar(&endDate, "end", "", "end date filter")
	list.Flags().StringVar(&typeFilter, "type", "", "txn type filter")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction and reverse its effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteTransaction(ctx, id)
			})
		},
	}

	txn.AddCommand(add, list, rm)
	return txn
}

func financeSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the finance dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.FinanceSummary(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendRow(table.Row{"Net worth", fmt.Sprintf("%.2f", s.NetWorth)})
				tw.AppendRow(table.Row{"Assets", fmt.Sprintf("%.2f", s.TotalAssets)})
				tw.AppendRow(table.Row{"Liabilities", fmt.Sprintf("%.2f", s.TotalLiabilities)})
				tw.AppendRow(table.Row{"Income (month)", fmt.Sprintf("%.2f", s.IncomeThisMonth)})
				tw.AppendRow(table.Row{"Expenses (month)", fmt.Sprintf("%.2f", s.ExpensesThisMonth)})
				tw.AppendRow(table.Row{"Savings (month)", fmt.Sprintf("%.2f (%.0f%%)", s.SavingsThisMonth, s.SavingsRate)})
				tw.Render()
				return nil
			})
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live today view, re-rendered on the countdown tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ticker := time.NewTicker(views.TickInterval)
			defer ticker.Stop()
			for {
				err := withEngine(ctx, func(ctx context.Context, e engine.Engine) error {
					snap, err := snapshotWithPrefs(ctx, e, views.ModeToday, "")
					if err != nil {
						return err
					}
					fmt.Print("\033[2J\033[H")
					renderTodayView(snap)
					return nil
				})
				if err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					fmt.Println()
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}

func snapshotWithPrefs(ctx context.Context, e engine.Engine, mode views.DateMode, date string) (views.Snapshot, error) {
	prefs, err := config.LoadPreferences(viper.GetString("workspace"))
	if err != nil {
		return views.Snapshot{}, err
	}
	return e.TaskViews(ctx, views.Options{
		Mode:       mode,
		CustomDate: date,
		Filters:    prefs.Filters(),
	})
}

func renderTodayView(snap views.Snapshot) {
	fmt.Printf("Today (%s)\n", snap.ReferenceDate)
	renderBucket("Due today", snap.Today, snap.Countdowns)
	renderBucket("Ongoing", snap.Ongoing, snap.Countdowns)
	renderBucket("Main list", snap.List, snap.Countdowns)
	fmt.Printf("%d tasks, %d done (%d%%)\n", snap.Insights.Total, snap.Insights.Done, snap.Insights.PercentDone)
}

func renderBucket(name string, tasks []domain.Task, countdowns map[int64]string) {
	if len(tasks) == 0 {
		return
	}
	fmt.Println(name + ":")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Priority", "Due", "Countdown"})
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		tw.AppendRow(table.Row{t.ID, t.Title, domain.PriorityLabel(t.Priority), due, countdowns[t.ID]})
	}
	tw.Render()
}

func renderBoard(b views.BoardColumns) {
	now := time.Now()
	renderColumn := func(name string, tasks []domain.Task) {
		fmt.Printf("%s (%d):\n", name, len(tasks))
		renderTaskTable(tasks, now)
	}
	renderColumn("Pending", b.Pending)
	renderColumn("In progress", b.InProgress)
	renderColumn("Completed", b.Completed)
}

func renderTaskTable(tasks []domain.Task, now time.Time) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Due", "Countdown"})
	for _, t := range tasks {
		due, countdown := "", ""
		if t.DueDate != nil {
			due = *t.DueDate
			if t.CompletedAt == nil {
				countdown = views.FormatCountdown(*t.DueDate, now)
			}
		}
		tw.AppendRow(table.Row{t.ID, t.Title, t.Status, domain.PriorityLabel(t.Priority), due, countdown})
	}
	tw.Render()
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	if _, err := db.EnsureWorkspace(workspace); err != nil {
		return err
	}
	appCtx, err := app.Open(workspace)
	if err != nil {
		return err
	}
	defer appCtx.Close()
	return fn(ctx, appCtx.Engine)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
