// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"smctl/internal/library"
	"smctl/internal/logger"
	"smctl/internal/smfake"

	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveUser     string
	servePassword string
	serveSeed     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an in-memory Service Manager for trying smctl",
	Long: `Starts an HTTP server that speaks the ScriptLibrary part of the Service
Manager REST API and keeps everything in memory. Point an environment at the
printed URL to try smctl without a real server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fake := smfake.New(serveUser, servePassword)
		if serveSeed != "" {
			n, err := seedLibraries(fake, serveSeed)
			if err != nil {
				return err
			}
			statusColor.Printf("Seeded %d libraries from %s\n", n, serveSeed)
		}
		return runFakeServer(cmd, fake)
	},
}

// seedLibraries loads every library file in dir into fake.
func seedLibraries(fake *smfake.Server, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+library.Ext))
	if err != nil {
		return 0, err
	}
	for _, file := range files {
		script, err := os.ReadFile(file)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", file, err)
		}
		fake.Put(smfake.Record{Name: library.NameFromPath(file), Package: "User", Script: string(script)})
	}
	return len(files), nil
}

// runFakeServer serves fake until the command is interrupted.
func runFakeServer(cmd *cobra.Command, fake *smfake.Server) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	url := "http://" + displayAddr(serveAddr) + smfake.RestPrefix
	logger.Info("Fake Service Manager listening", "addr", serveAddr)
	successColor.Printf("Serving Service Manager REST API at %s\n", identifierColor.Sprint(url))
	dimColor.Printf("Credentials: %s / %s\n", serveUser, servePassword)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// displayAddr turns ":13080" into "localhost:13080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":13080", "address to listen on")
	serveCmd.Flags().StringVar(&serveUser, "user", "falcon", "accepted basic-auth user")
	serveCmd.Flags().StringVar(&servePassword, "password", "", "accepted basic-auth password")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "directory of .js files to preload")
}
