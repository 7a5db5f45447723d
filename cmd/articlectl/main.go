package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/article-cms-api/internal/auth"
	"github.com/article-cms-api/internal/client"
	"github.com/article-cms-api/internal/pager"
	"github.com/article-cms-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	log       zerolog.Logger
	apiURL    string
	token     string
	timeout   time.Duration
	logLevel  string
	batchSize int
	pageSize  int
)

var rootCmd = &cobra.Command{
	Use:   "articlectl",
	Short: "articlectl - command line client for the article API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.NewWithWriter(os.Stderr, logLevel, "pretty")
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse article summaries page by page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkListFlags(batchSize, pageSize); err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c := client.New(apiURL, token, timeout, log)
		p := pager.New(c, pager.Options{BatchSize: batchSize, PageSize: pageSize}, log)
		if err := p.Load(ctx); err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		return browse(ctx, p, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print one article as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(apiURL, token, timeout, log)
		article, err := c.GetArticle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an article you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(apiURL, token, timeout, log)
		if err := c.DeleteArticle(cmd.Context(), args[0]); err != nil {
			return err
		}
		log.Info().Str("article_id", args[0]).Msg("Article deleted")
		return nil
	},
}

var (
	tokenSecret string
	tokenIssuer string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Issue a bearer token for local development",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSecret == "" {
			return fmt.Errorf("--secret or JWT_SECRET is required")
		}
		signed, err := auth.NewVerifier(tokenSecret, tokenIssuer).Issue(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("ARTICLECTL_API", "http://localhost:8080"), "Base URL of the article API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ARTICLECTL_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	listCmd.Flags().IntVar(&batchSize, "batch-size", pager.DefaultBatchSize, "Summaries fetched per request")
	listCmd.Flags().IntVar(&pageSize, "page-size", pager.DefaultPageSize, "Summaries shown per page")

	tokenCmd.Flags().StringVar(&tokenSecret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	tokenCmd.Flags().StringVar(&tokenIssuer, "issuer", os.Getenv("JWT_ISSUER"), "Token issuer")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(listCmd, getCmd, deleteCmd, tokenCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// checkListFlags rejects sizes the API would refuse on every fetch
func checkListFlags(batch, page int) error {
	if batch < 1 || batch > client.MaxBatchSize {
		return fmt.Errorf("--batch-size must be between 1 and %d", client.MaxBatchSize)
	}
	if page < 1 {
		return errors.New("--page-size must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
