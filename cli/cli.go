package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"meteo/manager"
	"meteo/server"
)

func New(defaults []byte) *cobra.Command {
	return newRoot(configOpener(defaults))
}

func newRoot(open opener) *cobra.Command {
	withEnv := func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			e, err := open(cmd)
			if err != nil {
				return err
			}
			if e.close != nil {
				defer func() {
					err = errors.Join(err, e.close())
				}()
			}
			return run(cmd, args, e)
		}
	}

	cmd := &cobra.Command{
		Use:           "meteo",
		Short:         "Current conditions, hourly and 7-day forecast for a city",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          withEnv(runShow),
	}

	cmd.PersistentFlags().String("config", "", "YAML file overriding the built-in configuration")
	cmd.PersistentFlags().String("store", "", "selection store: file, sqlite or redis")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	search := &cobra.Command{
		Use:   "search <city>",
		Short: "List locations matching a city name",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withEnv(runSearch),
	}

	selectCmd := &cobra.Command{
		Use:   "select <city>",
		Short: "Pick a location, remember it and show its weather",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withEnv(runSelect),
	}
	selectCmd.Flags().Int("index", 1, "1-based position in the suggestion list")
	selectCmd.Flags().Int64("id", 0, "location id from the suggestion list")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the weather for the remembered location",
		Args:  cobra.NoArgs,
		RunE:  withEnv(runShow),
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the remembered location's weather again",
		Args:  cobra.NoArgs,
		RunE:  withEnv(runShow),
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the widget as a JSON API",
		Args:  cobra.NoArgs,
		RunE:  withEnv(runServe),
	}
	serve.Flags().String("addr", "", "listen address (default from config)")

	cmd.AddCommand(search, selectCmd, show, refresh, serve)

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, e *env) error {
	query := strings.Join(args, " ")
	if err := checkQuery(query); err != nil {
		return err
	}

	locations, err := e.widget.Search(cmd.Context(), query)
	if err != nil {
		return errors.New(manager.Message(err))
	}

	printSuggestions(cmd, locations)
	return nil
}

func runSelect(cmd *cobra.Command, args []string, e *env) error {
	query := strings.Join(args, " ")
	if err := checkQuery(query); err != nil {
		return err
	}

	locations, err := e.widget.Search(cmd.Context(), query)
	if err != nil {
		return errors.New(manager.Message(err))
	}
	if len(locations) == 0 {
		return fmt.Errorf("no location matches %q", query)
	}

	id, _ := cmd.Flags().GetInt64("id")
	if id == 0 {
		index, _ := cmd.Flags().GetInt("index")
		if index < 1 || index > len(locations) {
			return fmt.Errorf("index %d out of range 1..%d", index, len(locations))
		}
		id = locations[index-1].ID
	}

	if err = e.widget.SelectID(cmd.Context(), id); err != nil {
		if errors.Is(err, manager.ErrNotFound) {
			return err
		}
		if errors.Is(err, manager.ErrNotSaved) {
			cmd.PrintErrf("warning: selection could not be saved: %v\n", err)
		}
		slog.Debug("select", "error", err)
	}

	return render(cmd, e.widget.State())
}

// runShow restores the remembered location and renders it; show and refresh share it.
func runShow(cmd *cobra.Command, _ []string, e *env) error {
	restored, err := e.widget.Restore(cmd.Context())
	if !restored {
		return errors.New("no location selected yet, run: meteo select <city>")
	}
	if err != nil {
		slog.Debug("restore", "error", err)
	}

	return render(cmd, e.widget.State())
}

func runServe(cmd *cobra.Command, _ []string, e *env) error {
	addr := e.addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if restored, err := e.widget.Restore(ctx); restored && err != nil {
		slog.Warn("initial fetch failed", "error", err)
	}

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      server.New(e.widget).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("meteo serving", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func checkQuery(query string) error {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < manager.MinQueryLength {
		return fmt.Errorf("query %q is too short, type at least %d characters", query, manager.MinQueryLength)
	}
	return nil
}
