// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smctl/internal/config"
	"smctl/internal/envsetup"
	"smctl/internal/logger"
	"smctl/internal/wizard"

	"golang.org/x/sync/errgroup"
)

// checkConcurrency bounds the probes CheckEnvironments runs at once.
const checkConcurrency = 4

// Target is a configured environment chosen for an operation.
type Target struct {
	Alias string
	Env   config.Environment
}

// AddEnvironment runs the add-environment flow and stores the result.
func (c *Commands) AddEnvironment(ctx context.Context) error {
	cfg, err := c.Store.Load()
	if err != nil {
		return c.fail("Unable to load the configuration.", err)
	}

	flow := &envsetup.Flow{
		Presenter:  c.Presenter,
		Confirm:    c.Confirm,
		AliasTaken: cfg.HasEnvironment,
	}
	st, outcome, err := flow.Run(ctx)
	if err != nil {
		if abandoned(err) {
			return nil
		}
		return c.fail("Adding the environment failed.", err)
	}
	if outcome != wizard.Completed {
		logger.Info("Add environment cancelled")
		return nil
	}

	alias, env := envsetup.BuildEnvironment(st)
	if err := cfg.AddEnvironment(alias, env); err != nil {
		return c.fail(fmt.Sprintf("Unable to add environment %q.", alias), err)
	}
	if err := c.Store.Save(cfg); err != nil {
		return c.fail("Unable to save the configuration.", err)
	}
	logger.Info("Environment added", "alias", alias, "url", env.URL)
	c.Notifier.Info("Service Manager Environment has been added successfully to your configuration!")
	return nil
}

// PickEnvironment resolves alias, or asks the user to choose an environment
// when alias is empty. ok is false when the user dismissed the list.
func (c *Commands) PickEnvironment(ctx context.Context, alias string) (target Target, ok bool, err error) {
	cfg, err := c.Store.Load()
	if err != nil {
		return Target{}, false, c.fail("Unable to load the configuration.", err)
	}
	if len(cfg.Environments) == 0 {
		return Target{}, false, c.warn(`No Service Manager environment is configured. Add one with "smctl env add".`, config.ErrNoEnvironments)
	}

	if alias != "" {
		env, err := cfg.GetEnvironment(alias)
		if err != nil {
			return Target{}, false, c.warn(fmt.Sprintf("Unknown environment %q.", alias), err)
		}
		return Target{Alias: alias, Env: env}, true, nil
	}

	items := make([]wizard.Item, 0, len(cfg.Environments))
	for _, a := range cfg.Aliases() {
		env := cfg.Environments[a]
		items = append(items, wizard.Item{Key: a, Label: env.Name, Description: a})
	}
	item, ok, err := wizard.Pick(ctx, c.Presenter, wizard.QuickPickParams{
		Title:       "Select a Service Manager Environment",
		Items:       items,
		Placeholder: "Type to filter environments",
	})
	if err != nil {
		if abandoned(err) {
			return Target{}, false, nil
		}
		return Target{}, false, c.fail("Selecting an environment failed.", err)
	}
	if !ok {
		return Target{}, false, nil
	}
	return Target{Alias: item.Key, Env: cfg.Environments[item.Key]}, true, nil
}

// RemoveEnvironment deletes an environment after confirmation. An empty alias
// asks which one.
func (c *Commands) RemoveEnvironment(ctx context.Context, alias string) error {
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return err
	}

	yes, err := c.confirm(ctx, fmt.Sprintf("Remove environment %q (%s)?", target.Alias, target.Env.Name))
	if err != nil {
		if abandoned(err) {
			return nil
		}
		return c.fail("Removing the environment failed.", err)
	}
	if !yes {
		return nil
	}

	cfg, err := c.Store.Load()
	if err != nil {
		return c.fail("Unable to load the configuration.", err)
	}
	if err := cfg.RemoveEnvironment(target.Alias); err != nil {
		return c.fail(fmt.Sprintf("Unable to remove environment %q.", target.Alias), err)
	}
	if err := c.Store.Save(cfg); err != nil {
		return c.fail("Unable to save the configuration.", err)
	}
	logger.Info("Environment removed", "alias", target.Alias)
	c.Notifier.Info(fmt.Sprintf("Environment %q removed.", target.Alias))
	return nil
}

// EnvStatus is the result of probing one environment.
type EnvStatus struct {
	Alias     string
	Name      string
	URL       string
	Libraries int
	Latency   time.Duration
	Err       error
}

// Reachable reports whether the probe succeeded.
func (s EnvStatus) Reachable() bool { return s.Err == nil }

// CheckEnvironments lists the libraries of every configured environment
// concurrently. Failures of individual environments are recorded in their
// status, not returned.
func (c *Commands) CheckEnvironments(ctx context.Context) ([]EnvStatus, error) {
	cfg, err := c.Store.Load()
	if err != nil {
		return nil, c.fail("Unable to load the configuration.", err)
	}
	if len(cfg.Environments) == 0 {
		return nil, c.warn(`No Service Manager environment is configured. Add one with "smctl env add".`, config.ErrNoEnvironments)
	}

	aliases := cfg.Aliases()
	statuses := make([]EnvStatus, len(aliases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, alias := range aliases {
		i, alias := i, alias
		env := cfg.Environments[alias]
		g.Go(func() error {
			start := time.Now()
			names, err := c.client(env).ListLibraries(gctx)
			statuses[i] = EnvStatus{
				Alias:     alias,
				Name:      env.Name,
				URL:       env.URL,
				Libraries: len(names),
				Latency:   time.Since(start),
				Err:       err,
			}
			if err != nil {
				logger.Warn("Environment check failed", "alias", alias, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}

// IsNoEnvironments reports whether err means nothing is configured yet.
func IsNoEnvironments(err error) bool {
	return errors.Is(err, config.ErrNoEnvironments)
}
