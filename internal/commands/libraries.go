// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smctl/internal/client"
	"smctl/internal/library"
	"smctl/internal/logger"
	"smctl/internal/wizard"

	"github.com/dustin/go-humanize"
)

// GetLibrary lists the libraries of an environment, lets the user pick one
// and pulls it into the workspace.
func (c *Commands) GetLibrary(ctx context.Context, alias string) error {
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return err
	}
	c.Notifier.Status(fmt.Sprintf("Fetching Script Libraries from %q", target.Env.Name))

	cl := c.client(target.Env)
	names, err := cl.ListLibraries(ctx)
	if err != nil {
		return c.fail(describe(err), err)
	}
	if len(names) == 0 {
		return c.warn("Unable to fetch available libraries.", nil)
	}
	c.Notifier.Status(fmt.Sprintf("Found %s Script Libraries", humanize.Comma(int64(len(names)))))

	items := make([]wizard.Item, len(names))
	for i, name := range names {
		items[i] = wizard.Item{Key: name, Label: name}
	}
	item, ok, err := wizard.Pick(ctx, c.Presenter, wizard.QuickPickParams{
		Title:       fmt.Sprintf("Script Libraries on %s", target.Env.Name),
		Items:       items,
		Placeholder: "Type to filter libraries",
	})
	if err != nil {
		if abandoned(err) {
			return nil
		}
		return c.fail("Selecting a library failed.", err)
	}
	if !ok {
		return nil
	}
	_, err = c.pull(ctx, cl, item.Key)
	return err
}

// PullLibrary fetches the remote version of file's library and saves it into
// the environment's workspace.
func (c *Commands) PullLibrary(ctx context.Context, alias, file string) (string, error) {
	if file == "" {
		return "", c.warn("You can't fetch a remote library from an unsaved file!", nil)
	}
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return "", err
	}
	c.Notifier.Status(fmt.Sprintf("Fetching ScriptLibrary from %q", target.Env.Name))
	return c.pull(ctx, c.client(target.Env), library.NameFromPath(file))
}

func (c *Commands) pull(ctx context.Context, cl *client.Client, name string) (string, error) {
	lib, err := cl.FetchLibrary(ctx, name)
	if err != nil {
		return "", c.warn(fmt.Sprintf("Unable to pull library %s.", name), err)
	}
	path, err := library.Save(cl.Environment(), lib)
	if err != nil {
		return "", c.fail(fmt.Sprintf("Unable to save ScriptLibrary %s - %v", lib.Name, err), err)
	}
	logger.Info("Library pulled", "name", lib.Name, "path", path, "bytes", len(lib.Script))
	c.Notifier.Info(fmt.Sprintf("ScriptLibrary %s saved successfully.", lib.Name))

	if c.Open != nil {
		if err := c.Open(ctx, path); err != nil {
			return path, c.warn(fmt.Sprintf("Unable to open %s.", path), err)
		}
	}
	return path, nil
}

// readLocal returns file's content, warning with unsavedMsg when there is
// nothing on disk.
func (c *Commands) readLocal(file, unsavedMsg string) (string, error) {
	if file == "" {
		return "", c.warn(unsavedMsg, nil)
	}
	script, err := library.ReadScript(file)
	if err != nil {
		if errors.Is(err, library.ErrUnsaved) {
			return "", c.warn(unsavedMsg, err)
		}
		return "", c.fail(fmt.Sprintf("Unable to read %s.", file), err)
	}
	return script, nil
}

// PushLibrary uploads file, creating the remote library when it does not exist.
func (c *Commands) PushLibrary(ctx context.Context, alias, file string) error {
	script, err := c.readLocal(file, "You can't push an unsaved file!")
	if err != nil {
		return err
	}
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return err
	}
	return c.push(ctx, c.client(target.Env), library.NameFromPath(file), script)
}

func (c *Commands) push(ctx context.Context, cl *client.Client, name, script string) error {
	c.Notifier.Status("Sending push request...")
	res, err := cl.Push(ctx, name, script)
	if err != nil {
		return c.fail(describe(err), err)
	}
	switch len(res.Messages) {
	case 0:
		c.Notifier.Info(fmt.Sprintf("ScriptLibrary %s pushed (%s).", name, humanize.Bytes(uint64(len(script)))))
	case 1:
		c.Notifier.Info(res.Messages[0])
	default:
		return c.fail(strings.Join(res.Messages, ""), nil)
	}
	return nil
}

// CompileLibrary asks the server to compile file's library.
func (c *Commands) CompileLibrary(ctx context.Context, alias, file string) error {
	if _, err := c.readLocal(file, "You can't compile an unsaved file!"); err != nil {
		return err
	}
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return err
	}
	return c.compile(ctx, c.client(target.Env), library.NameFromPath(file))
}

func (c *Commands) compile(ctx context.Context, cl *client.Client, name string) error {
	c.Notifier.Status("Sending compile request...")
	res, err := cl.Compile(ctx, name)
	if err != nil {
		return c.fail(describe(err), err)
	}
	c.showMessages(fmt.Sprintf("Compile messages for %s", name), "Script Library compiled successfully", res.Messages)
	return nil
}

// ExecuteLibrary runs file's library on the server.
func (c *Commands) ExecuteLibrary(ctx context.Context, alias, file string) error {
	if _, err := c.readLocal(file, "You can't execute an unsaved file!"); err != nil {
		return err
	}
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return err
	}
	name := library.NameFromPath(file)
	c.Notifier.Status("Sending execute request...")
	res, err := c.client(target.Env).Execute(ctx, name)
	if err != nil {
		return c.fail(describe(err), err)
	}
	c.showMessages(fmt.Sprintf("Execution output of %s", name), "Script Library executed successfully", res.Messages)
	return nil
}

// CompareLibrary diffs file against its remote version. The diff opens as a
// document, or in DiffTool when one is set.
func (c *Commands) CompareLibrary(ctx context.Context, alias, file string) (*library.Comparison, error) {
	if _, err := c.readLocal(file, "You can't compare a remote library from an unsaved file!"); err != nil {
		return nil, err
	}
	target, ok, err := c.PickEnvironment(ctx, alias)
	if err != nil || !ok {
		return nil, err
	}
	c.Notifier.Status(fmt.Sprintf("Compare ScriptLibrary from %q", target.Env.Name))

	name := library.NameFromPath(file)
	remote, err := c.client(target.Env).FetchLibrary(ctx, name)
	if err != nil {
		return nil, c.warn(fmt.Sprintf("Unable to compare library %s.", name), err)
	}
	cmp, err := library.Compare(file, remote)
	if err != nil {
		return nil, c.fail(fmt.Sprintf("Unable to compare library %s.", name), err)
	}

	if c.DiffTool != nil {
		if err := c.DiffTool(ctx, cmp.LocalPath, cmp.RemotePath); err != nil {
			return cmp, c.fail(fmt.Sprintf("Diff tool failed for %s.", name), err)
		}
		return cmp, nil
	}
	if cmp.Diff == "" {
		c.Notifier.Info(fmt.Sprintf("Local and remote versions of %s are identical.", name))
		return cmp, nil
	}
	c.Notifier.Document(library.Title, cmp.Diff)
	return cmp, nil
}

// SyncFile pushes file to an already resolved environment and optionally
// compiles it afterwards. It is what the watcher runs on every save.
func (c *Commands) SyncFile(ctx context.Context, target Target, file string, compile bool) error {
	script, err := c.readLocal(file, "You can't push an unsaved file!")
	if err != nil {
		return err
	}
	cl := c.client(target.Env)
	name := library.NameFromPath(file)
	if err := c.push(ctx, cl, name, script); err != nil {
		return err
	}
	if !compile {
		return nil
	}
	return c.compile(ctx, cl, name)
}
