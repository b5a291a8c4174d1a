package network

import (
	"arcrun/internal/overlay"
)

// AllowList holds the carrier sets that survive filtering, one per
// component class. A nil set leaves that class untouched; an empty non-nil
// set would remove everything and is rejected upstream by config
// validation.
type AllowList struct {
	Generators   map[string]bool
	StorageUnits map[string]bool
	Links        map[string]bool
}

// AllowListFromConfig builds the allow-list from the merged scenario
// configuration (custom.technology_filter.{generators,storage_units,links}).
func AllowListFromConfig(doc overlay.Document) AllowList {
	return AllowList{
		Generators:   carrierSet(doc, "generators"),
		StorageUnits: carrierSet(doc, "storage_units"),
		Links:        carrierSet(doc, "links"),
	}
}

func carrierSet(doc overlay.Document, key string) map[string]bool {
	list, ok := doc.StringList("custom", "technology_filter", key)
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(list))
	for _, c := range list {
		set[c] = true
	}
	return set
}

// Empty reports whether no class has an allow-list, i.e. filtering is a
// no-op.
func (a AllowList) Empty() bool {
	return a.Generators == nil && a.StorageUnits == nil && a.Links == nil
}

// Removed summarizes what FilterCarriers dropped.
type Removed struct {
	Generators   int
	StorageUnits int
	Links        int
}

// Total returns the total number of removed components.
func (r Removed) Total() int {
	return r.Generators + r.StorageUnits + r.Links
}

// FilterCarriers removes components whose carrier is not in the allow-list
// for their class. The network is mutated in place. Multiple filters may be
// chained; order only matters when allow-lists overlap destructively, which
// the scenario configs avoid.
func (n *Network) FilterCarriers(allow AllowList) Removed {
	var removed Removed

	if allow.Generators != nil {
		removed.Generators = n.Generators.RemoveWhere(func(r Row) bool {
			return !allow.Generators[r["carrier"]]
		})
	}
	if allow.StorageUnits != nil {
		removed.StorageUnits = n.StorageUnits.RemoveWhere(func(r Row) bool {
			return !allow.StorageUnits[r["carrier"]]
		})
	}
	if allow.Links != nil {
		removed.Links = n.Links.RemoveWhere(func(r Row) bool {
			return !allow.Links[r["carrier"]]
		})
	}

	return removed
}
