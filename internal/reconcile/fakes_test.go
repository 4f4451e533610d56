package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/label"
	"github.com/semmy-space/opsync/internal/onepassword"
)

type edit struct {
	ID          string
	Assignments []string
}

type fakeVault struct {
	items   map[string]*onepassword.Item
	edits   []edit
	created []*onepassword.CreateItemRequest
	link    string

	// editErr fails edits whose first assignment starts with the given prefix.
	editErr map[string]error
}

func newFakeVault(items ...*onepassword.Item) *fakeVault {
	v := &fakeVault{items: map[string]*onepassword.Item{}, editErr: map[string]error{}}
	for _, item := range items {
		v.items[item.ID] = item
	}
	return v
}

func newItem(id, title, notes, fileName string) *onepassword.Item {
	item := &onepassword.Item{ID: id, Title: title, Category: "SECURE_NOTE"}
	item.Fields = append(item.Fields, onepassword.Field{ID: onepassword.NotesFieldID, Label: "notesPlain", Value: notes})
	if fileName != "" {
		item.Fields = append(item.Fields, onepassword.Field{ID: "f1", Label: onepassword.FileNameLabel, Value: fileName})
	}
	return item
}

func (v *fakeVault) ListItems(_ context.Context, _, _ string) ([]onepassword.ItemSummary, error) {
	ids := make([]string, 0, len(v.items))
	for id := range v.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]onepassword.ItemSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, onepassword.ItemSummary{ID: id, Title: v.items[id].Title})
	}
	return out, nil
}

func (v *fakeVault) GetItem(_ context.Context, id, _ string) (*onepassword.Item, error) {
	item, ok := v.items[id]
	if !ok {
		return nil, fmt.Errorf("no item %s", id)
	}
	copied := *item
	copied.Fields = slices.Clone(item.Fields)
	return &copied, nil
}

func (v *fakeVault) CreateItem(_ context.Context, req *onepassword.CreateItemRequest) (*onepassword.Item, error) {
	v.created = append(v.created, req)
	item := &onepassword.Item{ID: "created-1", Title: req.Title}
	v.items[item.ID] = item
	return item, nil
}

func (v *fakeVault) EditItem(_ context.Context, id, _ string, assignments ...string) (*onepassword.Item, error) {
	v.edits = append(v.edits, edit{ID: id, Assignments: assignments})
	for prefix, err := range v.editErr {
		if len(assignments) > 0 && strings.HasPrefix(assignments[0], prefix) {
			return nil, err
		}
	}

	item, ok := v.items[id]
	if !ok {
		return nil, fmt.Errorf("no item %s", id)
	}
	for _, a := range assignments {
		if notes, ok := strings.CutPrefix(a, onepassword.NotesFieldID+"="); ok {
			for i := range item.Fields {
				if item.Fields[i].ID == onepassword.NotesFieldID {
					item.Fields[i].Value = notes
				}
			}
		}
	}
	return item, nil
}

func (v *fakeVault) ShareLink(_ context.Context, id, _ string) (string, error) {
	return v.link, nil
}

// editsWithPrefix counts edits whose first assignment starts with prefix.
func (v *fakeVault) editsWithPrefix(prefix string) int {
	n := 0
	for _, e := range v.edits {
		if len(e.Assignments) > 0 && strings.HasPrefix(e.Assignments[0], prefix) {
			n++
		}
	}
	return n
}

type fakeRemote struct {
	names        []string
	listErr      error
	setErr       error
	setRelease   *fly.Release
	unsetRelease *fly.Release

	setCalls   []*envblock.SecretSet
	unsetCalls [][]string
}

func (r *fakeRemote) SetSecrets(_ context.Context, _ string, secrets *envblock.SecretSet) (*fly.Release, error) {
	r.setCalls = append(r.setCalls, secrets)
	if r.setErr != nil {
		return nil, r.setErr
	}
	return r.setRelease, nil
}

func (r *fakeRemote) ListSecretNames(_ context.Context, _ string) ([]string, error) {
	return r.names, r.listErr
}

func (r *fakeRemote) UnsetSecrets(_ context.Context, _ string, keys []string) (*fly.Release, error) {
	r.unsetCalls = append(r.unsetCalls, keys)
	return r.unsetRelease, nil
}

type scriptedUI struct {
	answers []bool
	prompts []string
	infos   []string
	warns   []string
}

func (u *scriptedUI) Confirm(prompt string) (bool, error) {
	u.prompts = append(u.prompts, prompt)
	if len(u.answers) == 0 {
		return false, errors.New("unexpected prompt: " + prompt)
	}
	answer := u.answers[0]
	u.answers = u.answers[1:]
	return answer, nil
}

func (u *scriptedUI) Infof(format string, args ...any) {
	u.infos = append(u.infos, fmt.Sprintf(format, args...))
}

func (u *scriptedUI) Warnf(format string, args ...any) {
	u.warns = append(u.warns, fmt.Sprintf(format, args...))
}

func (u *scriptedUI) Spin(string) func() { return func() {} }

type stubLabels struct {
	label label.Label
	note  string
}

func (s stubLabels) Derive(context.Context, string) (label.Label, string, error) {
	return s.label, s.note, nil
}

type stubEditor func(string) (string, error)

func (f stubEditor) Edit(_ context.Context, content string) (string, error) {
	return f(content)
}

var fixedNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.Local)

func newEngine(vault *fakeVault, remote *fakeRemote, ui *scriptedUI) *Engine {
	return &Engine{
		Vault:  vault,
		Remote: remote,
		UI:     ui,
		Labels: stubLabels{label: "repo:org/app"},
		Now:    func() time.Time { return fixedNow },
	}
}
