// Package categorykey maps between a (main category, subcategory) pair and
// the composite key stored on menu items.
//
// The key is "{mainId}-{subId}". Ids may contain hyphens themselves, so a key
// cannot be split back into its parts; use Resolve, which scans the options
// built from real categories.
package categorykey

import (
	"fmt"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// Pair is the typed form of a composite key.
type Pair struct {
	MainCategoryID string `json:"mainCategory"`
	SubCategoryID  string `json:"subCategory"`
}

func (p Pair) Key() string {
	return Build(p.MainCategoryID, p.SubCategoryID)
}

// Option is one selectable (main, sub) entry for admin forms.
type Option struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	MainCategory string `json:"mainCategory"`
	SubCategory  string `json:"subCategory"`
}

func (o Option) Pair() Pair {
	return Pair{MainCategoryID: o.MainCategory, SubCategoryID: o.SubCategory}
}

func Build(mainID, subID string) string {
	return mainID + "-" + subID
}

// ToOptions flattens every subcategory of every category, in the order given,
// with subcategories in their stored order.
func ToOptions(categories []model.MainCategory) []Option {
	opts := []Option{}
	for _, c := range categories {
		for _, s := range c.Subcategories {
			opts = append(opts, Option{
				Value:        Build(c.ID, s.ID),
				Label:        fmt.Sprintf("%s > %s", c.Name, s.Name),
				MainCategory: c.ID,
				SubCategory:  s.ID,
			})
		}
	}
	return opts
}

// Resolve finds the pair behind key by scanning options. The first match wins
// when two pairs concatenate to the same key.
func Resolve(options []Option, key string) (Pair, bool) {
	for _, o := range options {
		if o.Value == key {
			return o.Pair(), true
		}
	}
	return Pair{}, false
}

// Index builds a lookup set of every valid key.
func Index(options []Option) map[string]Pair {
	idx := make(map[string]Pair, len(options))
	for _, o := range options {
		if _, dup := idx[o.Value]; !dup {
			idx[o.Value] = o.Pair()
		}
	}
	return idx
}
