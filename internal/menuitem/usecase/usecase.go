package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/slug"
)

const (
	defaultIndex = "menu_items"
	searchLimit  = 50
)

type itemUseCase struct {
	repo       menuitem.Repository
	categories menuitem.CategoryOptions
	cache      cache.Cache[[]model.MenuItem]
	publisher  broker.Publisher
	es         *search.Client
	index      string
	indexOnce  sync.Once
	origin     string
	now        func() time.Time
	logger     logger.ZapLogger
}

type Option func(*itemUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *itemUseCase) { uc.now = now }
}

// WithCache puts a read cache in front of the unfiltered list.
func WithCache(c cache.Cache[[]model.MenuItem]) Option {
	return func(uc *itemUseCase) { uc.cache = c }
}

// WithPublisher announces writes on the event topic. origin identifies this
// instance in the events it sends.
func WithPublisher(p broker.Publisher, origin string) Option {
	return func(uc *itemUseCase) {
		uc.publisher = p
		uc.origin = origin
	}
}

// WithSearch mirrors items into an Elasticsearch index and serves search
// from it.
func WithSearch(es *search.Client, index string) Option {
	return func(uc *itemUseCase) {
		uc.es = es
		if index != "" {
			uc.index = index
		}
	}
}

func NewItemUseCase(repo menuitem.Repository, categories menuitem.CategoryOptions, log logger.ZapLogger, opts ...Option) menuitem.UseCase {
	uc := &itemUseCase{
		repo:       repo,
		categories: categories,
		index:      defaultIndex,
		now:        time.Now,
		logger:     log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *itemUseCase) timestamp() time.Time {
	return uc.now().UTC().Truncate(time.Microsecond)
}

// touch returns a timestamp strictly after prev.
func (uc *itemUseCase) touch(prev time.Time) time.Time {
	now := uc.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (uc *itemUseCase) CreateItem(ctx context.Context, input *dto.ItemInput) (*model.MenuItem, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		Name:      strings.TrimSpace(*input.Name),
		Price:     price,
		Allergens: parseAllergens(input.Allergens),
	}
	if err := uc.applyCategory(ctx, item, input); err != nil {
		return nil, err
	}
	applyText(item, input)
	item.IsVegetarian = truthy(input.IsVegetarian)
	item.Popular = truthy(input.Popular)
	item.AgeRestricted = truthy(input.AgeRestricted)

	id, err := uc.itemID(ctx, input.ID, item.Name)
	if err != nil {
		return nil, err
	}
	now := uc.timestamp()
	item.BaseModel = model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.afterWrite(ctx, menuitem.EventItemCreated, item)
	return item, nil
}

// itemID uses the requested id when free; otherwise it derives one from the
// name, adding -2, -3... on collision.
func (uc *itemUseCase) itemID(ctx context.Context, requested, name string) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		existing, err := uc.repo.FindByID(ctx, requested)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", apperr.Validation("menu item %q already exists", requested)
		}
		return requested, nil
	}

	base := slug.Make(name)
	if base == "" {
		return strings.ReplaceAll(uuid.New().String(), "-", ""), nil
	}
	candidate := base
	for n := 2; ; n++ {
		existing, err := uc.repo.FindByID(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// applyCategory sets the key and the typed pair. A pair wins over a key;
// a key is resolved to its pair through the known options. Keys that match
// no option are kept as is and the pair is left empty.
func (uc *itemUseCase) applyCategory(ctx context.Context, item *model.MenuItem, input *dto.ItemInput) error {
	var mainID, subID string
	if input.MainCategoryID != nil {
		mainID = strings.TrimSpace(*input.MainCategoryID)
	}
	if input.SubCategoryID != nil {
		subID = strings.TrimSpace(*input.SubCategoryID)
	}

	if (mainID == "") != (subID == "") {
		return apperr.Validation("mainCategoryId and subCategoryId must be sent together")
	}

	switch {
	case mainID != "":
		pair := categorykey.Pair{MainCategoryID: mainID, SubCategoryID: subID}
		item.Category = pair.Key()
		item.MainCategoryID, item.SubCategoryID = mainID, subID
	case input.Category != nil:
		key := strings.TrimSpace(*input.Category)
		item.Category = key
		item.MainCategoryID, item.SubCategoryID = "", ""
		if uc.categories != nil && key != "" {
			if pair, ok := categorykey.Resolve(uc.categories.Options(ctx), key); ok {
				item.MainCategoryID, item.SubCategoryID = pair.MainCategoryID, pair.SubCategoryID
			}
		}
	}

	if item.Category == "" {
		return apperr.Validation("category is required")
	}
	return nil
}

func applyText(item *model.MenuItem, input *dto.ItemInput) {
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Description2 != nil {
		item.Description2 = *input.Description2
	}
	if input.Image != nil {
		item.Image = *input.Image
	}
	if input.PrepTime != nil {
		item.PrepTime = *input.PrepTime
	}
	if input.Source != nil {
		item.Source = *input.Source
	}
}

func (uc *itemUseCase) GetItem(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("menu item %q not found", id)
	}
	return item, nil
}

// ListItems serves the unfiltered list from the cache when it is warm. A
// category filter is applied to the cached list too.
func (uc *itemUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.MenuItem, error) {
	items, err := uc.allItems(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil || filters.Category == "" {
		return items, nil
	}

	out := []model.MenuItem{}
	for _, item := range items {
		if item.Category == filters.Category {
			out = append(out, item)
		}
	}
	return out, nil
}

// allItems fills the cache only if no write invalidated it while the store
// read was in flight.
func (uc *itemUseCase) allItems(ctx context.Context) ([]model.MenuItem, error) {
	var gen uint64
	if uc.cache != nil {
		gen = uc.cache.Generation(ctx)
		if items, ok := uc.cache.Get(ctx); ok {
			return items, nil
		}
	}

	items, err := uc.repo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && !uc.cache.SetIfCurrent(ctx, gen, items) {
		uc.logger.Debug("menu item list changed during read, not caching")
	}
	return items, nil
}

// UpdateItem writes input over the stored item. Name, price, category and
// text fields keep their stored values when not sent. The flags and
// allergens are always rewritten, so leaving them out clears them.
func (uc *itemUseCase) UpdateItem(ctx context.Context, id string, input *dto.ItemInput) (*model.MenuItem, error) {
	item, err := uc.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		item.Name = name
	}
	if input.Price != nil {
		price, err := parsePrice(input.Price)
		if err != nil {
			return nil, err
		}
		item.Price = price
	}
	if input.Category != nil || input.MainCategoryID != nil || input.SubCategoryID != nil {
		if err := uc.applyCategory(ctx, item, input); err != nil {
			return nil, err
		}
	}
	applyText(item, input)
	item.Allergens = parseAllergens(input.Allergens)
	item.IsVegetarian = truthy(input.IsVegetarian)
	item.Popular = truthy(input.Popular)
	item.AgeRestricted = truthy(input.AgeRestricted)

	item.UpdatedAt = uc.touch(item.UpdatedAt)
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	uc.afterWrite(ctx, menuitem.EventItemUpdated, item)
	return item, nil
}

// DeleteItem is idempotent: deleting a missing item succeeds.
func (uc *itemUseCase) DeleteItem(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.afterWrite(ctx, menuitem.EventItemDeleted, &model.MenuItem{BaseModel: model.BaseModel{ID: id}})
	return nil
}

// SearchItems asks Elasticsearch first and falls back to the database when
// search is disabled or failing. An empty query lists everything.
func (uc *itemUseCase) SearchItems(ctx context.Context, q string) ([]model.MenuItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return uc.ListItems(ctx, nil)
	}

	if uc.es != nil {
		items, err := uc.searchElastic(ctx, q)
		if err == nil {
			return items, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.Search(ctx, q, searchLimit)
}

func (uc *itemUseCase) searchElastic(ctx context.Context, q string) ([]model.MenuItem, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "description", "description2", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": searchLimit,
	}

	res, err := uc.es.Search(ctx, uc.index, query)
	if err != nil {
		return nil, err
	}

	items := make([]model.MenuItem, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var item model.MenuItem
		if err := json.Unmarshal(hit.Source, &item); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *itemUseCase) InvalidateCache(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

// afterWrite drops the local cache right away. Publishing and indexing are
// best effort and run in the background.
func (uc *itemUseCase) afterWrite(ctx context.Context, eventType string, item *model.MenuItem) {
	uc.InvalidateCache(ctx)

	if uc.publisher != nil {
		event := menuitem.Event{
			EventID:   uuid.New().String(),
			EventType: eventType,
			ItemID:    item.ID,
			Origin:    uc.origin,
			Timestamp: uc.timestamp(),
		}
		go uc.publish(context.Background(), event)
	}

	if uc.es != nil {
		if eventType == menuitem.EventItemDeleted {
			go uc.removeFromElastic(context.Background(), item.ID)
		} else {
			doc := *item
			go uc.syncToElastic(context.Background(), &doc)
		}
	}
}

func (uc *itemUseCase) publish(ctx context.Context, event menuitem.Event) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := uc.publisher.Publish(ctx, event.ItemID, event); err != nil {
		uc.logger.Error("failed to publish menu event",
			zap.String("event_type", event.EventType),
			zap.String("item_id", event.ItemID),
			zap.Error(err),
		)
	}
}

func (uc *itemUseCase) syncToElastic(ctx context.Context, item *model.MenuItem) {
	uc.indexOnce.Do(func() {
		if err := uc.es.CreateIndex(ctx, uc.index, menuitem.SearchMapping); err != nil {
			uc.logger.Error("failed to create search index", zap.String("index", uc.index), zap.Error(err))
		}
	})

	if err := uc.es.Index(ctx, uc.index, item.ID, item); err != nil {
		uc.logger.Error("failed to index menu item", zap.String("item_id", item.ID), zap.Error(err))
	}
}

func (uc *itemUseCase) removeFromElastic(ctx context.Context, id string) {
	if err := uc.es.Delete(ctx, uc.index, id); err != nil {
		uc.logger.Error("failed to delete menu item from ES", zap.String("item_id", id), zap.Error(err))
	}
}
