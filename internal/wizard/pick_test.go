// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package wizard_test

import (
	"context"
	"testing"

	"smctl/internal/wizard"
	"smctl/internal/wizard/wizardtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envItems = []wizard.Item{
	{Key: "dev", Label: "dev", Description: "Development"},
	{Key: "prod", Label: "prod", Description: "Production"},
}

func TestPickReturnsTheSelectedItem(t *testing.T) {
	p := wizardtest.New(wizardtest.Choose(envItems[1]))

	item, ok, err := wizard.Pick(context.Background(), p, wizard.QuickPickParams{
		Title:       "Select environment",
		Items:       envItems,
		ActiveItem:  &envItems[0],
		Placeholder: "Environment",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prod", item.Key)

	opts := p.Widgets()[0].PickOptions()
	assert.Equal(t, envItems, opts.Items)
	require.NotNil(t, opts.ActiveItem)
	assert.Equal(t, "dev", opts.ActiveItem.Key)
	assert.False(t, opts.ShowBack)
}

func TestPickDismissedIsNotOK(t *testing.T) {
	p := wizardtest.New(wizardtest.Dismiss())

	_, ok, err := wizard.Pick(context.Background(), p, wizard.QuickPickParams{Items: envItems})

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickBackReturnsToTheInputStep(t *testing.T) {
	type form struct {
		name string
		env  string
	}
	var pickStep wizard.Step[form]
	nameStep := func(ctx context.Context, seq *wizard.Sequencer[form], st *form) (wizard.Step[form], error) {
		v, err := seq.ShowInputBox(ctx, wizard.InputBoxParams{Step: 1, TotalSteps: 2, Value: st.name})
		if err != nil {
			return nil, err
		}
		st.name = v
		return pickStep, nil
	}
	pickStep = func(ctx context.Context, seq *wizard.Sequencer[form], st *form) (wizard.Step[form], error) {
		item, err := seq.ShowQuickPick(ctx, wizard.QuickPickParams{Step: 2, TotalSteps: 2, Items: envItems})
		if err != nil {
			return nil, err
		}
		st.env = item.Key
		return nil, nil
	}

	p := wizardtest.New(wizardtest.Enter("first"), wizardtest.GoBack(), wizardtest.Enter("second"), wizardtest.Choose(envItems[0]))
	st := &form{}

	outcome, err := wizard.Run(context.Background(), p, st, nameStep)

	require.NoError(t, err)
	assert.Equal(t, wizard.Completed, outcome)
	assert.Equal(t, "second", st.name)
	assert.Equal(t, "dev", st.env)
	widgets := p.Widgets()
	require.Len(t, widgets, 4)
	assert.True(t, widgets[1].PickOptions().ShowBack)
	assert.Equal(t, "first", widgets[2].InputOptions().Value)
}

func TestPickResumeAfterDismissal(t *testing.T) {
	p := wizardtest.New(wizardtest.Dismiss(), wizardtest.Choose(envItems[0]))

	item, ok, err := wizard.Pick(context.Background(), p, wizard.QuickPickParams{
		Items:        envItems,
		ShouldResume: func(context.Context) (bool, error) { return true, nil },
	})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dev", item.Key)
}

func TestSignalAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "wizard: back", wizard.Back.Error())
	assert.Equal(t, "completed", wizard.Completed.String())
	assert.Equal(t, "cancelled", wizard.Cancelled.String())
	assert.Equal(t, "accept", wizard.EventAccept.String())
}
