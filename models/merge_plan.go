package models

import (
	"github.com/lib/pq"
)

// MergePlan partitions a duplicate's attribute rows into those that can be
// repointed at the merge target and those that conflict with a row the
// target already has and must be deleted.
type MergePlan struct {
	Reassign []uint
	Delete   []uint
}

// planAttributeTypeMerge plans a merge of two attribute types: a duplicate
// row survives only if the target has no row for the same product.
func planAttributeTypeMerge(target, duplicate []ProductAttribute) MergePlan {
	taken := make(map[uint]struct{}, len(target))
	for _, attribute := range target {
		taken[attribute.ProductID] = struct{}{}
	}
	var plan MergePlan
	for _, attribute := range duplicate {
		if _, ok := taken[attribute.ProductID]; ok {
			plan.Delete = append(plan.Delete, attribute.ID)
		} else {
			plan.Reassign = append(plan.Reassign, attribute.ID)
		}
	}
	return plan
}

// planProductMerge plans a merge of two products: a duplicate row survives
// only if the target has no row for the same attribute type.
func planProductMerge(target, duplicate []ProductAttribute) MergePlan {
	taken := make(map[uint]struct{}, len(target))
	for _, attribute := range target {
		taken[attribute.AttributeTypeID] = struct{}{}
	}
	var plan MergePlan
	for _, attribute := range duplicate {
		if _, ok := taken[attribute.AttributeTypeID]; ok {
			plan.Delete = append(plan.Delete, attribute.ID)
		} else {
			plan.Reassign = append(plan.Reassign, attribute.ID)
		}
	}
	return plan
}

// unionNames folds a duplicate's primary and alternate names into an
// existing alternate-name list, preserving order and dropping repeats.
func unionNames(existing pq.StringArray, primary string, alternates pq.StringArray) pq.StringArray {
	seen := make(map[string]struct{}, len(existing)+len(alternates)+1)
	var out pq.StringArray
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range existing {
		add(name)
	}
	add(primary)
	for _, name := range alternates {
		add(name)
	}
	return out
}
