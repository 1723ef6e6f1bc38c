package tutorial

import "sort"

// Hierarchy maps index id -> price type -> date -> price. Traversals always go
// in lexicographic key order so that output built from a Hierarchy is
// deterministic.
type Hierarchy map[string]PriceTypes

// PriceTypes maps price type -> date -> price for a single index id.
type PriceTypes map[string]Prices

// Prices maps date -> price for a single (index id, price type).
type Prices map[string]float64

// PriceTypes returns the price types for indexID, creating them if needed.
func (h Hierarchy) PriceTypes(indexID string) PriceTypes {
	pt, ok := h[indexID]
	if !ok {
		pt = make(PriceTypes)
		h[indexID] = pt
	}
	return pt
}

// Prices returns the prices for priceType, creating them if needed.
func (pt PriceTypes) Prices(priceType string) Prices {
	p, ok := pt[priceType]
	if !ok {
		p = make(Prices)
		pt[priceType] = p
	}
	return p
}

// Keys returns the index ids in sorted order.
func (h Hierarchy) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keys returns the price types in sorted order.
func (pt PriceTypes) Keys() []string {
	keys := make([]string, 0, len(pt))
	for k := range pt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keys returns the dates in sorted order.
func (p Prices) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of leaf prices in the hierarchy.
func (h Hierarchy) Len() int {
	n := 0
	for _, pt := range h {
		for _, p := range pt {
			n += len(p)
		}
	}
	return n
}
