// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"smctl/internal/client"
	"smctl/internal/config"
	"smctl/internal/library"
	"smctl/internal/smfake"
	"smctl/internal/wizard/wizardtest"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	kind string
	text string
}

// recorder is a Notifier that keeps everything it is told.
type recorder struct {
	mu    sync.Mutex
	notes []note
	docs  map[string]string
}

func (r *recorder) add(kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{kind, text})
}

func (r *recorder) Info(msg string)   { r.add("info", msg) }
func (r *recorder) Warn(msg string)   { r.add("warn", msg) }
func (r *recorder) Error(msg string)  { r.add("error", msg) }
func (r *recorder) Status(msg string) { r.add("status", msg) }
func (r *recorder) Document(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.docs == nil {
		r.docs = map[string]string{}
	}
	r.docs[title] = body
	r.notes = append(r.notes, note{"document", title})
}

func (r *recorder) of(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.kind == kind {
			out = append(out, n.text)
		}
	}
	return out
}

type fixture struct {
	fake    *smfake.Server
	store   config.FileStore
	notes   *recorder
	workDir string
}

// newFixture configures one environment, "dev", backed by a fake server.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := smfake.New("falcon", "secret")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	f := &fixture{
		fake:    fake,
		store:   config.FileStore{Dir: t.TempDir()},
		notes:   &recorder{},
		workDir: t.TempDir(),
	}
	cfg := config.Config{}
	require.NoError(t, cfg.AddEnvironment("dev", fake.Environment("Development", srv.URL, f.workDir)))
	require.NoError(t, f.store.Save(cfg))
	return f
}

func (f *fixture) commands(scripts ...wizardtest.Script) *Commands {
	return &Commands{
		Store:     f.store,
		Presenter: wizardtest.New(scripts...),
		Notifier:  f.notes,
		NewClient: func(env config.Environment) *client.Client {
			return client.New(env, client.WithBackoff(func() backoff.BackOff {
				return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 1)
			}))
		},
	}
}

func (f *fixture) writeLocal(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(f.workDir, name+library.Ext)
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))
	return path
}

func TestAddEnvironmentStoresIt(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	c := f.commands(
		wizardtest.Enter("Production Server"),
		wizardtest.Enter("Production Server"),
		wizardtest.AcceptValue(),
		wizardtest.AcceptValue(),
		wizardtest.Enter("falcon"),
		wizardtest.Enter("s3cret"),
		wizardtest.Enter(dir),
	)

	require.NoError(t, c.AddEnvironment(context.Background()))

	cfg, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "production-server"}, cfg.Aliases())
	env := cfg.Environments["production-server"]
	assert.Equal(t, "s3cret", env.Password)
	assert.Equal(t, dir, env.Path)
	assert.Equal(t, []string{"Service Manager Environment has been added successfully to your configuration!"}, f.notes.of("info"))
}

func TestAddEnvironmentCancelledTakesNoAction(t *testing.T) {
	f := newFixture(t)
	c := f.commands(wizardtest.Dismiss())

	require.NoError(t, c.AddEnvironment(context.Background()))

	cfg, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev"}, cfg.Aliases())
	assert.Empty(t, f.notes.notes)
}

func TestPickEnvironmentWithoutConfiguration(t *testing.T) {
	c := &Commands{
		Store:     config.FileStore{Dir: t.TempDir()},
		Presenter: wizardtest.New(),
		Notifier:  &recorder{},
	}

	_, ok, err := c.PickEnvironment(context.Background(), "")

	assert.False(t, ok)
	require.ErrorIs(t, err, ErrReported)
	assert.True(t, IsNoEnvironments(err))
}

func TestPickEnvironmentFromList(t *testing.T) {
	f := newFixture(t)
	p := wizardtest.New(wizardtest.ChooseKey("dev"))
	c := f.commands()
	c.Presenter = p

	target, ok, err := c.PickEnvironment(context.Background(), "")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dev", target.Alias)
	assert.Equal(t, "Development", target.Env.Name)

	opts := p.Widgets()[0].PickOptions()
	require.Len(t, opts.Items, 1)
	assert.Equal(t, "Development", opts.Items[0].Label)
}

func TestPickEnvironmentDismissed(t *testing.T) {
	f := newFixture(t)
	c := f.commands(wizardtest.Dismiss())

	_, ok, err := c.PickEnvironment(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickUnknownAlias(t *testing.T) {
	f := newFixture(t)
	c := f.commands()

	_, _, err := c.PickEnvironment(context.Background(), "prod")

	require.ErrorIs(t, err, ErrReported)
	require.ErrorIs(t, err, config.ErrUnknownAlias)
	assert.Equal(t, []string{`Unknown environment "prod".`}, f.notes.of("warn"))
}

func TestGetLibraryPullsPickedLibrary(t *testing.T) {
	f := newFixture(t)
	f.fake.Put(smfake.Record{Name: "helpers", Script: "function help() {}"})
	f.fake.Put(smfake.Record{Name: "utils", Script: "var u;"})
	c := f.commands(wizardtest.ChooseKey("dev"), wizardtest.ChooseKey("helpers"))

	require.NoError(t, c.GetLibrary(context.Background(), ""))

	data, err := os.ReadFile(filepath.Join(f.workDir, "helpers.js"))
	require.NoError(t, err)
	assert.Equal(t, "function help() {}", string(data))
	assert.Contains(t, f.notes.of("status"), "Found 2 Script Libraries")
	assert.Equal(t, []string{"ScriptLibrary helpers saved successfully."}, f.notes.of("info"))
}

func TestGetLibraryWithNoLibrariesWarns(t *testing.T) {
	f := newFixture(t)
	c := f.commands()

	err := c.GetLibrary(context.Background(), "dev")

	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"Unable to fetch available libraries."}, f.notes.of("warn"))
}

func TestPullLibraryOpensSavedFile(t *testing.T) {
	f := newFixture(t)
	f.fake.Put(smfake.Record{Name: "helpers", Script: "remote"})
	c := f.commands()
	var opened string
	c.Open = func(_ context.Context, path string) error {
		opened = path
		return nil
	}

	path, err := c.PullLibrary(context.Background(), "dev", "/somewhere/else/helpers.js")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.workDir, "helpers.js"), path)
	assert.Equal(t, path, opened)
}

func TestPullUnknownLibraryWarns(t *testing.T) {
	f := newFixture(t)
	c := f.commands()

	_, err := c.PullLibrary(context.Background(), "dev", "missing.js")

	require.ErrorIs(t, err, ErrReported)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, []string{"Unable to pull library missing."}, f.notes.of("warn"))
}

func TestPushCreatesThenUpdates(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	c := f.commands()

	require.NoError(t, c.PushLibrary(context.Background(), "dev", file))
	rec, ok := f.fake.Get("helpers")
	require.True(t, ok)
	assert.Equal(t, smfake.Record{Name: "helpers", Package: "User", Script: "v1"}, rec)

	require.NoError(t, os.WriteFile(file, []byte("v2"), 0644))
	require.NoError(t, c.PushLibrary(context.Background(), "dev", file))
	rec, _ = f.fake.Get("helpers")
	assert.Equal(t, "v2", rec.Script)

	assert.Equal(t, []string{"ScriptLibrary record added.", "ScriptLibrary record updated."}, f.notes.of("info"))
	assert.Contains(t, f.notes.of("status"), "Sending push request...")
}

func TestPushUnsavedFileSendsNothing(t *testing.T) {
	f := newFixture(t)
	c := f.commands()

	err := c.PushLibrary(context.Background(), "dev", filepath.Join(f.workDir, "nope.js"))

	require.ErrorIs(t, err, ErrReported)
	require.ErrorIs(t, err, library.ErrUnsaved)
	assert.Equal(t, []string{"You can't push an unsaved file!"}, f.notes.of("warn"))
	assert.Empty(t, f.fake.Requests())
}

func TestPushServerErrorShowsStatusAndMessages(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	c := f.commands()

	// The existence probe sees no record, then the create fails.
	f.fake.FailNext(http.StatusNotFound, http.StatusInternalServerError)
	err := c.PushLibrary(context.Background(), "dev", file)

	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"500 - Internal Server Error"}, f.notes.of("error"))
	_, ok := f.fake.Get("helpers")
	assert.False(t, ok)
}

func TestCompileMessages(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	f.fake.Put(smfake.Record{Name: "helpers"})
	c := f.commands()
	ctx := context.Background()

	require.NoError(t, c.CompileLibrary(ctx, "dev", file))
	f.fake.SetCompileMessages("helpers", "Compiled with warnings")
	require.NoError(t, c.CompileLibrary(ctx, "dev", file))
	f.fake.SetCompileMessages("helpers", "line 1: oops", "line 2: oops")
	require.NoError(t, c.CompileLibrary(ctx, "dev", file))

	assert.Equal(t, []string{"Script Library compiled successfully", "Compiled with warnings"}, f.notes.of("info"))
	assert.Equal(t, "line 1: oops\nline 2: oops", f.notes.docs["Compile messages for helpers"])
}

func TestExecuteMissingLibraryReportsServerError(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	c := f.commands()

	err := c.ExecuteLibrary(context.Background(), "dev", file)

	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"404 - No (more) records found"}, f.notes.of("error"))
}

func TestExecuteShowsOutput(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	f.fake.Put(smfake.Record{Name: "helpers"})
	f.fake.SetExecuteMessages("helpers", "done")
	c := f.commands()

	require.NoError(t, c.ExecuteLibrary(context.Background(), "dev", file))
	assert.Equal(t, []string{"done"}, f.notes.of("info"))
}

func TestCompareShowsDiff(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "same\nlocal\n")
	f.fake.Put(smfake.Record{Name: "helpers", Script: "same\nremote\n"})
	c := f.commands()

	cmp, err := c.CompareLibrary(context.Background(), "dev", file)

	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(cmp.RemotePath) })
	diff := f.notes.docs[library.Title]
	assert.Contains(t, diff, "-local")
	assert.Contains(t, diff, "+remote")
}

func TestCompareIdentical(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "same\n")
	f.fake.Put(smfake.Record{Name: "helpers", Script: "same\n"})
	c := f.commands()

	cmp, err := c.CompareLibrary(context.Background(), "dev", file)

	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(cmp.RemotePath) })
	assert.Equal(t, []string{"Local and remote versions of helpers are identical."}, f.notes.of("info"))
	assert.Empty(t, f.notes.docs)
}

func TestCompareWithDiffTool(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "a\n")
	f.fake.Put(smfake.Record{Name: "helpers", Script: "b\n"})
	c := f.commands()
	var left, right string
	c.DiffTool = func(_ context.Context, l, r string) error {
		left, right = l, r
		return nil
	}

	cmp, err := c.CompareLibrary(context.Background(), "dev", file)

	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(cmp.RemotePath) })
	assert.Equal(t, file, left)
	assert.Equal(t, cmp.RemotePath, right)
	assert.Empty(t, f.notes.docs)
}

func TestCompareUnknownRemoteWarns(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "a\n")
	c := f.commands()

	_, err := c.CompareLibrary(context.Background(), "dev", file)

	require.ErrorIs(t, err, ErrReported)
	assert.Equal(t, []string{"Unable to compare library helpers."}, f.notes.of("warn"))
}

func TestSyncFilePushesAndCompiles(t *testing.T) {
	f := newFixture(t)
	file := f.writeLocal(t, "helpers", "v1")
	c := f.commands()
	cfg, err := f.store.Load()
	require.NoError(t, err)
	target := Target{Alias: "dev", Env: cfg.Environments["dev"]}

	require.NoError(t, c.SyncFile(context.Background(), target, file, true))

	assert.Equal(t, []string{"ScriptLibrary record added.", "Script Library compiled successfully"}, f.notes.of("info"))
}

func TestRemoveEnvironment(t *testing.T) {
	f := newFixture(t)
	c := f.commands()
	var asked string
	c.Confirm = func(_ context.Context, q string) (bool, error) {
		asked = q
		return true, nil
	}

	require.NoError(t, c.RemoveEnvironment(context.Background(), "dev"))

	assert.Equal(t, `Remove environment "dev" (Development)?`, asked)
	cfg, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Environments)
}

func TestRemoveEnvironmentDeclined(t *testing.T) {
	f := newFixture(t)
	c := f.commands()

	require.NoError(t, c.RemoveEnvironment(context.Background(), "dev"))

	cfg, err := f.store.Load()
	require.NoError(t, err)
	assert.True(t, cfg.HasEnvironment("dev"))
}

func TestCheckEnvironments(t *testing.T) {
	f := newFixture(t)
	f.fake.Put(smfake.Record{Name: "helpers"})

	cfg, err := f.store.Load()
	require.NoError(t, err)
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()
	require.NoError(t, cfg.AddEnvironment("broken", f.fake.Environment("Broken", downURL, f.workDir)))
	require.NoError(t, f.store.Save(cfg))

	statuses, err := f.commands().CheckEnvironments(context.Background())

	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "broken", statuses[0].Alias)
	assert.False(t, statuses[0].Reachable())
	assert.Equal(t, "dev", statuses[1].Alias)
	assert.True(t, statuses[1].Reachable())
	assert.Equal(t, 1, statuses[1].Libraries)
}
