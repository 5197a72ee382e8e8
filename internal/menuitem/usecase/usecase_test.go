package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

type fakeRepo struct {
	mu       sync.Mutex
	rows     map[string]model.MenuItem
	findAlls int
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]model.MenuItem{}}
}

func (f *fakeRepo) Create(_ context.Context, item *model.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[item.ID] = *item
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (f *fakeRepo) FindAll(_ context.Context, _ *dto.ItemFilters) ([]model.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findAlls++
	if f.err != nil {
		return nil, f.err
	}
	out := []model.MenuItem{}
	for _, item := range f.rows {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, item *model.MenuItem) error {
	return f.Create(ctx, item)
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) Rename(ctx context.Context, oldID string, item *model.MenuItem) error {
	if err := f.Create(ctx, item); err != nil {
		return err
	}
	return f.Delete(ctx, oldID)
}

func (f *fakeRepo) Search(_ context.Context, q string, _ int) ([]model.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.MenuItem{}
	for _, item := range f.rows {
		if item.Name == q {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeCategories []categorykey.Option

func (f fakeCategories) Options(context.Context) []categorykey.Option { return f }

type recordingPublisher struct {
	events chan menuitem.Event
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.events <- payload.(menuitem.Event)
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func options() fakeCategories {
	return fakeCategories{
		{Value: "food-pizza", Label: "Food > Pizza", MainCategory: "food", SubCategory: "pizza"},
		{Value: "hot-drinks-tea", Label: "Hot drinks > Tea", MainCategory: "hot-drinks", SubCategory: "tea"},
	}
}

func newTestUseCase(repo *fakeRepo, opts ...Option) menuitem.UseCase {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewItemUseCase(repo, options(), logger.NewNop(), opts...)
}

func str(s string) *string { return &s }

func TestCreateItemNormalizes(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)

	item, err := uc.CreateItem(context.Background(), &dto.ItemInput{
		Name:         str("Margherita Pizza"),
		Price:        "12.50",
		Category:     str("food-pizza"),
		Allergens:    "Gluten;Dairy;none",
		IsVegetarian: "true",
		Popular:      1.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "margherita-pizza", item.ID)
	assert.Equal(t, 12.5, item.Price)
	assert.Equal(t, model.StringList{"Gluten", "Dairy"}, item.Allergens)
	assert.True(t, item.IsVegetarian)
	assert.True(t, item.Popular)
	assert.False(t, item.AgeRestricted)
	assert.Equal(t, "food", item.MainCategoryID)
	assert.Equal(t, "pizza", item.SubCategoryID)
	assert.Equal(t, fixedNow, item.CreatedAt)
	assert.Equal(t, fixedNow, item.UpdatedAt)
	assert.Contains(t, repo.rows, "margherita-pizza")
}

func TestCreateItemValidation(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())
	ctx := context.Background()

	cases := map[string]*dto.ItemInput{
		"missing name":     {Price: 1.0, Category: str("food-pizza")},
		"missing price":    {Name: str("Soup"), Category: str("food-pizza")},
		"negative price":   {Name: str("Soup"), Price: -2.0, Category: str("food-pizza")},
		"price not number": {Name: str("Soup"), Price: "cheap", Category: str("food-pizza")},
		"missing category": {Name: str("Soup"), Price: 1.0},
		"half pair":        {Name: str("Soup"), Price: 1.0, MainCategoryID: str("food")},
	}
	for name, input := range cases {
		_, err := uc.CreateItem(ctx, input)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), name)
	}
}

func TestCreateItemCategoryResolution(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())
	ctx := context.Background()

	byPair, err := uc.CreateItem(ctx, &dto.ItemInput{
		Name: str("Green Tea"), Price: 3.0,
		MainCategoryID: str("hot-drinks"), SubCategoryID: str("tea"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hot-drinks-tea", byPair.Category)

	// a hyphenated main id still resolves to the right pair
	byKey, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Black Tea"), Price: 3.0, Category: str("hot-drinks-tea")})
	require.NoError(t, err)
	assert.Equal(t, "hot-drinks", byKey.MainCategoryID)
	assert.Equal(t, "tea", byKey.SubCategoryID)

	dangling, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Mystery"), Price: 3.0, Category: str("old-key")})
	require.NoError(t, err)
	assert.Equal(t, "old-key", dangling.Category)
	assert.Empty(t, dangling.MainCategoryID)
}

func TestCreateItemIDCollisions(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())
	ctx := context.Background()
	input := func() *dto.ItemInput {
		return &dto.ItemInput{Name: str("Caesar Salad"), Price: 9.0, Category: str("food-pizza")}
	}

	first, err := uc.CreateItem(ctx, input())
	require.NoError(t, err)
	second, err := uc.CreateItem(ctx, input())
	require.NoError(t, err)
	third, err := uc.CreateItem(ctx, input())
	require.NoError(t, err)
	assert.Equal(t, []string{"caesar-salad", "caesar-salad-2", "caesar-salad-3"}, []string{first.ID, second.ID, third.ID})

	explicit := input()
	explicit.ID = "caesar-salad"
	_, err = uc.CreateItem(ctx, explicit)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateItemRewritesNormalizedFields(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	created, err := uc.CreateItem(ctx, &dto.ItemInput{
		Name: str("Lasagna"), Price: 14.0, Category: str("food-pizza"),
		Description: str("Layered"), Allergens: "Gluten", IsVegetarian: true, Popular: true,
	})
	require.NoError(t, err)

	updated, err := uc.UpdateItem(ctx, created.ID, &dto.ItemInput{Price: "6"})
	require.NoError(t, err)
	assert.Equal(t, 6.0, updated.Price)
	assert.Equal(t, "Lasagna", updated.Name)
	assert.Equal(t, "Layered", updated.Description)
	assert.Equal(t, "food-pizza", updated.Category)
	assert.False(t, updated.Popular)
	assert.False(t, updated.IsVegetarian)
	assert.False(t, updated.AgeRestricted)
	assert.NotNil(t, updated.Allergens)
	assert.Empty(t, updated.Allergens)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	stored, err := uc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Popular)
	assert.Empty(t, stored.Allergens)

	flagged, err := uc.UpdateItem(ctx, created.ID, &dto.ItemInput{Popular: "yes", Allergens: "Dairy;none"})
	require.NoError(t, err)
	assert.True(t, flagged.Popular)
	assert.Equal(t, model.StringList{"Dairy"}, flagged.Allergens)

	moved, err := uc.UpdateItem(ctx, created.ID, &dto.ItemInput{Category: str("hot-drinks-tea")})
	require.NoError(t, err)
	assert.Equal(t, "hot-drinks", moved.MainCategoryID)
	assert.Equal(t, 6.0, moved.Price)

	_, err = uc.UpdateItem(ctx, created.ID, &dto.ItemInput{Price: -1.0})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = uc.UpdateItem(ctx, "missing", &dto.ItemInput{Price: 1.0})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetAndDeleteItem(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())
	ctx := context.Background()

	created, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Soup"), Price: 4.0, Category: str("food-pizza")})
	require.NoError(t, err)

	got, err := uc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Name)

	require.NoError(t, uc.DeleteItem(ctx, created.ID))
	require.NoError(t, uc.DeleteItem(ctx, created.ID))

	_, err = uc.GetItem(ctx, created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListItemsCachesUntilWrite(t *testing.T) {
	repo := newFakeRepo()
	clk := fixedNow
	mem := cache.NewMemory[[]model.MenuItem](5*time.Minute, func() time.Time { return clk })
	uc := newTestUseCase(repo, WithCache(mem))
	ctx := context.Background()

	_, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Soup"), Price: 4.0, Category: str("food-pizza")})
	require.NoError(t, err)

	items, err := uc.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	_, err = uc.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAlls, "second list is served from cache")

	// a write bypassing the usecase is only seen after the TTL
	repo.rows["ghost"] = model.MenuItem{BaseModel: model.BaseModel{ID: "ghost"}, Category: "food-pizza"}
	items, _ = uc.ListItems(ctx, nil)
	assert.Len(t, items, 1)
	clk = clk.Add(5 * time.Minute)
	items, _ = uc.ListItems(ctx, nil)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, repo.findAlls)

	// writes through the usecase invalidate immediately
	_, err = uc.CreateItem(ctx, &dto.ItemInput{Name: str("Tea"), Price: 2.0, Category: str("hot-drinks-tea")})
	require.NoError(t, err)
	items, _ = uc.ListItems(ctx, nil)
	assert.Len(t, items, 3)

	filtered, err := uc.ListItems(ctx, &dto.ItemFilters{Category: "hot-drinks-tea"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Tea", filtered[0].Name)

	uc.InvalidateCache(ctx)
	_, _ = uc.ListItems(ctx, nil)
	assert.Equal(t, 4, repo.findAlls)
}

// blockingRepo holds FindAll after it has read its rows, until release is
// closed.
type blockingRepo struct {
	*fakeRepo
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRepo) FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.MenuItem, error) {
	items, err := b.fakeRepo.FindAll(ctx, filters)
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return items, err
}

func TestListItemsDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	repo := &blockingRepo{fakeRepo: newFakeRepo(), entered: make(chan struct{}), release: make(chan struct{})}
	mem := cache.NewMemory[[]model.MenuItem](5*time.Minute, nil)
	uc := NewItemUseCase(repo, options(), logger.NewNop(), WithClock(func() time.Time { return fixedNow }), WithCache(mem))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := uc.ListItems(ctx, nil)
		done <- err
	}()

	<-repo.entered
	_, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Soup"), Price: 4.0, Category: str("food-pizza")})
	require.NoError(t, err)
	close(repo.release)
	require.NoError(t, <-done)

	items, err := uc.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1, "item created during an in-flight read must be visible")
}

func TestListItemsPropagatesStoreErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.err = apperr.StoreUnavailable("select menu items", errors.New("connection refused"))
	uc := newTestUseCase(repo)

	_, err := uc.ListItems(context.Background(), nil)
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(err))
}

func TestWritesPublishEvents(t *testing.T) {
	pub := &recordingPublisher{events: make(chan menuitem.Event, 3)}
	uc := newTestUseCase(newFakeRepo(), WithPublisher(pub, "instance-a"))
	ctx := context.Background()

	created, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Soup"), Price: 4.0, Category: str("food-pizza")})
	require.NoError(t, err)
	_, err = uc.UpdateItem(ctx, created.ID, &dto.ItemInput{Price: 5.0})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteItem(ctx, created.ID))

	seen := map[string]menuitem.Event{}
	for i := 0; i < 3; i++ {
		select {
		case e := <-pub.events:
			seen[e.EventType] = e
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	require.Len(t, seen, 3)
	assert.Equal(t, "soup", seen[menuitem.EventItemDeleted].ItemID)
	assert.Equal(t, "instance-a", seen[menuitem.EventItemCreated].Origin)
}

func TestSearchItemsFallsBackToRepository(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())
	ctx := context.Background()

	_, err := uc.CreateItem(ctx, &dto.ItemInput{Name: str("Soup"), Price: 4.0, Category: str("food-pizza")})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, &dto.ItemInput{Name: str("Tea"), Price: 2.0, Category: str("hot-drinks-tea")})
	require.NoError(t, err)

	found, err := uc.SearchItems(ctx, "Tea")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "tea", found[0].ID)

	all, err := uc.SearchItems(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
