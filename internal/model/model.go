package model

import (
	"encoding/json"
	"sort"
)

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is one catalog entry as served by the storefront API.
//
// Fields the TUI does not know about are kept in Extra and written back out
// unchanged by MarshalJSON, so CLI output and snapshots keep the full payload.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Rating      *Rating `json:"rating,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// productFields mirrors Product without methods so the codec doesn't recurse.
type productFields Product

var knownProductKeys = map[string]bool{
	"id":          true,
	"title":       true,
	"price":       true,
	"image":       true,
	"description": true,
	"category":    true,
	"rating":      true,
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var f productFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if knownProductKeys[k] {
			continue
		}
		if f.Extra == nil {
			f.Extra = map[string]json.RawMessage{}
		}
		f.Extra[k] = v
	}
	*p = Product(f)
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(productFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return b, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if knownProductKeys[k] {
			continue
		}
		out[k] = p.Extra[k]
	}
	return json.Marshal(out)
}
