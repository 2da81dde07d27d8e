// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package wizard

import "context"

// QuickPickParams describes one pick-list prompt.
type QuickPickParams struct {
	Title        string
	Step         int
	TotalSteps   int
	Items        []Item
	ActiveItem   *Item
	Placeholder  string
	ShouldResume ResumeFunc
}

// ShowQuickPick displays a list and blocks until the user selects an item,
// presses back, or dismisses the list.
func (s *Sequencer[S]) ShowQuickPick(ctx context.Context, p QuickPickParams) (Item, error) {
	s.release()
	pick := s.presenter.CreateQuickPick()
	pick.Configure(QuickPickOptions{
		Title:       p.Title,
		Step:        p.Step,
		TotalSteps:  p.TotalSteps,
		Items:       p.Items,
		ActiveItem:  p.ActiveItem,
		Placeholder: p.Placeholder,
		ShowBack:    len(s.steps) > 1,
	})
	events, unsubscribe := pick.Subscribe()
	defer unsubscribe()
	s.current = pick
	pick.Show()

	for {
		select {
		case <-ctx.Done():
			return Item{}, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				ev = Event{Kind: EventHide}
			}
			switch ev.Kind {
			case EventSelect:
				return ev.Item, nil
			case EventBack:
				return Item{}, Back
			case EventHide:
				return Item{}, dismissed(ctx, p.ShouldResume)
			}
		}
	}
}

// Pick runs a single quick pick outside of a larger flow. ok is false when
// the user dismissed the list.
func Pick(ctx context.Context, presenter Presenter, p QuickPickParams) (item Item, ok bool, err error) {
	var selected Item
	outcome, err := Run(ctx, presenter, &selected, func(ctx context.Context, seq *Sequencer[Item], state *Item) (Step[Item], error) {
		it, err := seq.ShowQuickPick(ctx, p)
		if err != nil {
			return nil, err
		}
		*state = it
		return nil, nil
	})
	if err != nil {
		return Item{}, false, err
	}
	return selected, outcome == Completed, nil
}

// Ask runs a single input box outside of a larger flow.
func Ask(ctx context.Context, presenter Presenter, p InputBoxParams) (value string, ok bool, err error) {
	var answer string
	outcome, err := Run(ctx, presenter, &answer, func(ctx context.Context, seq *Sequencer[string], state *string) (Step[string], error) {
		v, err := seq.ShowInputBox(ctx, p)
		if err != nil {
			return nil, err
		}
		*state = v
		return nil, nil
	})
	if err != nil {
		return "", false, err
	}
	return answer, outcome == Completed, nil
}
