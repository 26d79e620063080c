// Package notulendiff compares two snapshots of a Notulen.
//
// Lists are compared as unordered collections: an item is unchanged when an
// item with the same key exists on the other side, otherwise it is removed
// (old side) or added (new side). There is no notion of a modified item; an
// edited agenda item shows up as one removal plus one addition.
package notulendiff

import (
	"time"

	"github.com/dkl25/admin-api/pkg/models"
)

type ChangeType string

const (
	Added     ChangeType = "added"
	Removed   ChangeType = "removed"
	Unchanged ChangeType = "unchanged"
)

type ItemDiff[T any] struct {
	Type ChangeType `json:"type"`
	Item T          `json:"item"`
}

type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type VersionComparison struct {
	FromVersie  int                           `json:"from_versie"`
	ToVersie    int                           `json:"to_versie"`
	Fields      []FieldChange                 `json:"fields"`
	AgendaItems []ItemDiff[models.AgendaItem] `json:"agenda_items"`
	Besluiten   []ItemDiff[models.Besluit]    `json:"besluiten"`
	Actiepunten []ItemDiff[models.Actiepunt]  `json:"actiepunten"`
	Aanwezigen  []ItemDiff[string]            `json:"aanwezigen"`
	Afwezigen   []ItemDiff[string]            `json:"afwezigen"`
}

// CompareArrays tags the items of both lists. Items of oldItems come first in
// their original order (removed or unchanged), followed by the added items of
// newItems in their order.
func CompareArrays[T any](oldItems, newItems []T, key func(T) string) []ItemDiff[T] {
	out := make([]ItemDiff[T], 0, len(oldItems)+len(newItems))
	for _, o := range oldItems {
		if containsKey(newItems, key(o), key) {
			out = append(out, ItemDiff[T]{Type: Unchanged, Item: o})
		} else {
			out = append(out, ItemDiff[T]{Type: Removed, Item: o})
		}
	}
	for _, n := range newItems {
		if !containsKey(oldItems, key(n), key) {
			out = append(out, ItemDiff[T]{Type: Added, Item: n})
		}
	}
	return out
}

func containsKey[T any](items []T, k string, key func(T) string) bool {
	for _, it := range items {
		if key(it) == k {
			return true
		}
	}
	return false
}

func AgendaKey(a models.AgendaItem) string { return a.Titel + "\x00" + a.Details }
func BesluitKey(b models.Besluit) string { return b.Besluit }
func ActieKey(a models.Actiepunt) string { return a.Actie }
func nameKey(s string) string { return s }

// Compare diffs two snapshots field by field and list by list.
func Compare(from, to models.NotulenSnapshot) VersionComparison {
	return VersionComparison{
		Fields:      compareFields(from, to),
		AgendaItems: CompareArrays(from.AgendaItems, to.AgendaItems, AgendaKey),
		Besluiten:   CompareArrays(from.Besluiten, to.Besluiten, BesluitKey),
		Actiepunten: CompareArrays(from.Actiepunten, to.Actiepunten, ActieKey),
		Aanwezigen:  CompareArrays(from.Aanwezigen, to.Aanwezigen, nameKey),
		Afwezigen:   CompareArrays(from.Afwezigen, to.Afwezigen, nameKey),
	}
}

// CompareVersions is Compare on two history entries.
func CompareVersions(from, to models.NotulenVersion) VersionComparison {
	cmp := Compare(from.Snapshot, to.Snapshot)
	cmp.FromVersie = from.Versie
	cmp.ToVersie = to.Versie
	return cmp
}

// HasChanges reports whether anything differs between the two snapshots.
func (c VersionComparison) HasChanges() bool {
	if len(c.Fields) > 0 {
		return true
	}
	return changed(c.AgendaItems) || changed(c.Besluiten) || changed(c.Actiepunten) ||
		changed(c.Aanwezigen) || changed(c.Afwezigen)
}

func changed[T any](diffs []ItemDiff[T]) bool {
	for _, d := range diffs {
		if d.Type != Unchanged {
			return true
		}
	}
	return false
}

func compareFields(from, to models.NotulenSnapshot) []FieldChange {
	var out []FieldChange
	add := func(field, o, n string) {
		if o != n {
			out = append(out, FieldChange{Field: field, Old: o, New: n})
		}
	}
	add("titel", from.Titel, to.Titel)
	add("vergadering_datum", formatDate(from.VergaderingDatum), formatDate(to.VergaderingDatum))
	add("locatie", deref(from.Locatie), deref(to.Locatie))
	add("voorzitter", deref(from.Voorzitter), deref(to.Voorzitter))
	add("notulist", deref(from.Notulist), deref(to.Notulist))
	add("notities", deref(from.Notities), deref(to.Notities))
	add("status", string(from.Status), string(to.Status))
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
