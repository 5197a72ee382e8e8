package migration

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/slug"
)

const (
	DefaultPriceRate = 90000
	DefaultPriceStep = 5000
)

// RemapCategories rewrites item category keys through mapping. Every target
// must be a real (main, sub) key; nothing is written otherwise.
func (m *Migrator) RemapCategories(ctx context.Context, mapping map[string]string) (Report, error) {
	opts, err := m.options(ctx)
	if err != nil {
		return Report{}, err
	}

	var unknown []string
	for _, to := range mapping {
		if _, ok := categorykey.Resolve(opts, to); !ok {
			unknown = append(unknown, to)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Report{}, apperr.Validation("unknown target categories: %s", strings.Join(unknown, ", "))
	}

	items, err := m.items.FindAll(ctx, nil)
	if err != nil {
		return Report{}, err
	}

	return m.inBatches(ctx, "remap categories", len(items), func(ctx context.Context, i int) (Change, error) {
		item := items[i]
		change := Change{ID: item.ID, Name: item.Name, From: item.Category}

		to, ok := mapping[item.Category]
		if !ok || to == item.Category {
			return change, errSkip
		}
		pair, _ := categorykey.Resolve(opts, to)

		item.Category = to
		item.MainCategoryID = pair.MainCategoryID
		item.SubCategoryID = pair.SubCategoryID
		item.UpdatedAt = m.touch(item.UpdatedAt)
		change.To = to
		return change, m.items.Update(ctx, &item)
	})
}

// ConvertedPrice multiplies price by rate and rounds to the nearest step.
func ConvertedPrice(price, rate, step float64) float64 {
	if step <= 0 {
		return price * rate
	}
	return math.Round(price*rate/step) * step
}

// ConvertPrices converts every item from source (all items when source is
// empty). The old price is kept in originalPrice; items that already carry
// one are skipped so a rerun does not convert twice.
func (m *Migrator) ConvertPrices(ctx context.Context, rate, step float64, source string) (Report, error) {
	if rate <= 0 {
		return Report{}, apperr.Validation("rate must be positive")
	}
	if step < 0 {
		return Report{}, apperr.Validation("step must not be negative")
	}

	items, err := m.items.FindAll(ctx, nil)
	if err != nil {
		return Report{}, err
	}

	return m.inBatches(ctx, "convert prices", len(items), func(ctx context.Context, i int) (Change, error) {
		item := items[i]
		change := Change{ID: item.ID, Name: item.Name}

		if (source != "" && item.Source != source) || item.OriginalPrice != nil {
			return change, errSkip
		}

		old := item.Price
		item.OriginalPrice = &old
		item.Price = ConvertedPrice(old, rate, step)
		item.UpdatedAt = m.touch(item.UpdatedAt)

		change.From = formatPrice(old)
		change.To = formatPrice(item.Price)
		return change, m.items.Update(ctx, &item)
	})
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// LooksGenerated reports whether id looks like a store-generated random id
// rather than one derived from a name.
func LooksGenerated(id string) bool {
	return len(id) > 10 && !strings.Contains(id, "-")
}

// MigrateIDs renames items with generated ids to ids derived from their
// names. New ids are planned up front against every existing id so two
// items with the same name do not collide.
func (m *Migrator) MigrateIDs(ctx context.Context) (Report, error) {
	items, err := m.items.FindAll(ctx, nil)
	if err != nil {
		return Report{}, err
	}

	taken := make(map[string]bool, len(items))
	for _, item := range items {
		taken[item.ID] = true
	}

	type rename struct {
		oldID string
		item  model.MenuItem
	}
	var plan []rename
	for _, item := range items {
		if !LooksGenerated(item.ID) {
			continue
		}
		base := slug.Make(item.Name)
		if base == "" {
			base = "item-" + strconv.FormatInt(m.now().UnixMilli(), 10)
		}
		id := base
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		taken[id] = true

		oldID := item.ID
		item.ID = id
		item.UpdatedAt = m.touch(item.UpdatedAt)
		plan = append(plan, rename{oldID: oldID, item: item})
	}

	return m.inBatches(ctx, "migrate ids", len(plan), func(ctx context.Context, i int) (Change, error) {
		r := plan[i]
		change := Change{ID: r.item.ID, Name: r.item.Name, From: r.oldID, To: r.item.ID}
		return change, m.items.Rename(ctx, r.oldID, &r.item)
	})
}

// Indexer is the part of search.Client ReindexSearch needs.
type Indexer interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
}

// ReindexSearch copies every item into the search index. Bulk commands write
// to the database directly, so run it after them when search is enabled.
func (m *Migrator) ReindexSearch(ctx context.Context, es Indexer, index string) (Report, error) {
	if err := es.CreateIndex(ctx, index, menuitem.SearchMapping); err != nil {
		return Report{}, err
	}

	items, err := m.items.FindAll(ctx, nil)
	if err != nil {
		return Report{}, err
	}

	return m.inBatches(ctx, "reindex search", len(items), func(ctx context.Context, i int) (Change, error) {
		item := items[i]
		return Change{ID: item.ID, Name: item.Name}, es.Index(ctx, index, item.ID, &item)
	})
}
