// Package secretdiff compares two snapshots of a secret set.
package secretdiff

import (
	"slices"
	"strings"

	"github.com/semmy-space/opsync/internal/envblock"
)

// Change kinds used in Rows.
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "deleted"
	ChangeModified = "modified"
)

// Diff holds the keys that differ between two snapshots. The three lists are disjoint
// and sorted lexicographically.
type Diff struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified []string `json:"modified"`
}

// Row is one changed key, used for table output.
type Row struct {
	Key    string `json:"key"`
	Change string `json:"change"`
}

// Compute returns the keys added, removed and modified going from previous to next.
// Values are compared by exact string equality.
func Compute(previous, next *envblock.SecretSet) Diff {
	d := Diff{
		Added:    []string{},
		Removed:  []string{},
		Modified: []string{},
	}

	for k, v := range next.All() {
		old, ok := previous.Get(k)
		switch {
		case !ok:
			d.Added = append(d.Added, k)
		case old != v:
			d.Modified = append(d.Modified, k)
		}
	}
	for k := range previous.All() {
		if _, ok := next.Get(k); !ok {
			d.Removed = append(d.Removed, k)
		}
	}

	d.sort()
	return d
}

// CompareKeys diffs a store that only exposes key names against next.
// Values on such a store are unknown, so Modified is always empty.
func CompareKeys(previousKeys []string, next *envblock.SecretSet) Diff {
	previous := envblock.NewSecretSet()
	for _, k := range previousKeys {
		previous.Set(k, "")
	}

	d := Diff{
		Added:    []string{},
		Removed:  []string{},
		Modified: []string{},
	}
	for k := range next.All() {
		if _, ok := previous.Get(k); !ok {
			d.Added = append(d.Added, k)
		}
	}
	for k := range previous.All() {
		if _, ok := next.Get(k); !ok {
			d.Removed = append(d.Removed, k)
		}
	}

	d.sort()
	return d
}

// IsEmpty reports whether nothing changed.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Summary renders the change summary shown before asking for confirmation.
// Empty categories are left out.
func (d Diff) Summary() string {
	var b strings.Builder
	b.WriteString("Change summary")
	writeCategory(&b, "Deleted", d.Removed)
	writeCategory(&b, "Added", d.Added)
	writeCategory(&b, "Modified", d.Modified)
	return b.String()
}

// Rows flattens the diff into one row per key, ordered by key.
func (d Diff) Rows() []Row {
	rows := make([]Row, 0, len(d.Added)+len(d.Removed)+len(d.Modified))
	for _, k := range d.Added {
		rows = append(rows, Row{Key: k, Change: ChangeAdded})
	}
	for _, k := range d.Removed {
		rows = append(rows, Row{Key: k, Change: ChangeRemoved})
	}
	for _, k := range d.Modified {
		rows = append(rows, Row{Key: k, Change: ChangeModified})
	}
	slices.SortFunc(rows, func(a, b Row) int {
		return strings.Compare(a.Key, b.Key)
	})
	return rows
}

func (d *Diff) sort() {
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Modified)
}

func writeCategory(b *strings.Builder, name string, keys []string) {
	if len(keys) == 0 {
		return
	}
	b.WriteString("\n ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(strings.Join(keys, ", "))
}
