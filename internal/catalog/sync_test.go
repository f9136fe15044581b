package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

// fakeBackend records calls and serves canned lists.
type fakeBackend struct {
	mu         sync.Mutex
	calls      []string
	categories []model.Category
	attributes map[int64][]model.Attribute

	failList   error
	failMutate error
	failDelete error

	// gate, if set, blocks ListAttributes for the category until closed.
	gate map[int64]chan struct{}

	lastCategoryCreate payload.CategoryCreate
	lastAttrUpdate     payload.AttributeUpdate
	lastOptionUpdate   struct {
		attributeID, optionID int64
		body                  payload.OptionUpdate
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ListCategories(context.Context) (client.Sequence[model.Category], error) {
	f.record("GET categories")
	if f.failList != nil {
		return client.Sequence[model.Category]{}, f.failList
	}
	return client.Sequence[model.Category]{Items: f.categories}, nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, body payload.CategoryCreate) error {
	f.record("POST category")
	f.lastCategoryCreate = body
	return f.failMutate
}

func (f *fakeBackend) UpdateCategory(context.Context, int64, payload.CategoryUpdate) error {
	f.record("PATCH category")
	return f.failMutate
}

func (f *fakeBackend) DeleteCategory(context.Context, int64) error {
	f.record("DELETE category")
	return f.failDelete
}

func (f *fakeBackend) ListAttributes(_ context.Context, categoryID int64) ([]model.Attribute, error) {
	f.record("GET attributes")
	f.mu.Lock()
	gate := f.gate[categoryID]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.failList != nil {
		return nil, f.failList
	}
	return f.attributes[categoryID], nil
}

func (f *fakeBackend) CreateAttribute(context.Context, int64, payload.AttributeCreate) error {
	f.record("POST attribute")
	return f.failMutate
}

func (f *fakeBackend) UpdateAttribute(_ context.Context, _ int64, body payload.AttributeUpdate) error {
	f.record("PATCH attribute")
	f.lastAttrUpdate = body
	return f.failMutate
}

func (f *fakeBackend) DeleteAttribute(context.Context, int64) error {
	f.record("DELETE attribute")
	return f.failDelete
}

func (f *fakeBackend) CreateOption(context.Context, int64, payload.OptionCreate) error {
	f.record("POST option")
	return f.failMutate
}

func (f *fakeBackend) UpdateOption(_ context.Context, attributeID, optionID int64, body payload.OptionUpdate) error {
	f.record("PATCH option")
	f.lastOptionUpdate.attributeID = attributeID
	f.lastOptionUpdate.optionID = optionID
	f.lastOptionUpdate.body = body
	return f.failMutate
}

func (f *fakeBackend) DeleteOption(context.Context, int64, int64) error {
	f.record("DELETE option")
	return f.failDelete
}

var (
	yes = ConfirmFunc(func(context.Context, string) bool { return true })
	no  = ConfirmFunc(func(context.Context, string) bool { return false })
)

func newSync(f *fakeBackend) *Synchronizer {
	return New(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleBackend() *fakeBackend {
	return &fakeBackend{
		categories: []model.Category{{ID: 1, Name: "Phones"}, {ID: 2, Name: "Books"}},
		attributes: map[int64][]model.Attribute{
			1: {
				{ID: 10, CategoryID: 1, Name: "Brand", Type: model.TypeText},
				{ID: 11, CategoryID: 1, Name: "Color", Type: model.TypeSelect, Options: []model.Option{
					{ID: 100, CategoryAttributeID: 11, Label: "Red", Value: "red"},
				}},
			},
			2: {{ID: 20, CategoryID: 2, Name: "Author", Type: model.TypeText}},
		},
	}
}

func TestFetchCategories(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	assert.Equal(t, Unloaded, s.Categories().State)

	require.NoError(t, s.FetchCategories(context.Background()))
	snap := s.Categories()
	assert.Equal(t, Loaded, snap.State)
	assert.Len(t, snap.Items, 2)
	assert.Empty(t, s.Notice())
}

func TestCategoryFetchFailurePreservesList(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.FetchCategories(ctx))

	f.failList = &client.TransportError{Method: "GET", URL: "/admin/categories", Err: io.EOF}
	err := s.FetchCategories(ctx)
	require.Error(t, err)

	snap := s.Categories()
	assert.Equal(t, Errored, snap.State)
	assert.Len(t, snap.Items, 2, "category failure keeps the stale list")
	assert.Equal(t, MsgCategoriesLoad, s.Notice())
}

func TestAttributeFetchFailureClearsList(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))
	require.Len(t, s.Attributes().Items, 2)

	f.failList = &client.APIError{Status: 500}
	require.Error(t, s.FetchAttributes(ctx))

	snap := s.Attributes()
	assert.Equal(t, Errored, snap.State)
	assert.Nil(t, snap.Items, "attribute failure clears the list")
	assert.Equal(t, MsgAttributesLoad, s.Notice())
}

func TestCreateCategoryRefetchesAndCloses(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	s.OpenSurface(Surface{Kind: NewCategory})

	err := s.CreateCategory(ctx, payload.Form{"name": "  Shoes  ", "description": "", "id": 9})
	require.NoError(t, err)

	assert.Equal(t, payload.CategoryCreate{Name: "Shoes"}, f.lastCategoryCreate)
	assert.Equal(t, []string{"POST category", "GET categories"}, f.Calls())
	assert.False(t, s.Surface().Open())
	assert.Equal(t, Loaded, s.Categories().State)
}

func TestMutationFailurePropagatesAndKeepsSurface(t *testing.T) {
	f := sampleBackend()
	f.failMutate = &client.APIError{Status: 400, Messages: []string{"name should not be empty"}}
	s := newSync(f)
	ctx := context.Background()
	s.OpenSurface(Surface{Kind: EditCategory, ID: 1})

	err := s.UpdateCategory(ctx, 1, payload.Form{"name": ""})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "name should not be empty", apiErr.Message())

	assert.Equal(t, []string{"PATCH category"}, f.Calls(), "no refetch after a failed mutation")
	assert.Equal(t, Surface{Kind: EditCategory, ID: 1}, s.Surface())
	assert.Empty(t, s.Notice(), "create/update errors go to the form, not the page")
}

func TestRemoveWithoutConfirmation(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.FetchCategories(ctx))
	require.NoError(t, s.SelectCategory(ctx, 1))
	before := f.Calls()

	assert.False(t, s.RemoveCategory(ctx, 1, no))
	assert.False(t, s.RemoveAttribute(ctx, 10, no))
	assert.False(t, s.RemoveOption(ctx, 11, 100, no))

	assert.Equal(t, before, f.Calls(), "no request without confirmation")
	assert.Len(t, s.Categories().Items, 2)
	assert.Len(t, s.Attributes().Items, 2)
}

func TestRemoveConfirmed(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))

	var prompts []string
	confirm := ConfirmFunc(func(_ context.Context, prompt string) bool {
		prompts = append(prompts, prompt)
		return true
	})

	assert.True(t, s.RemoveOption(ctx, 11, 100, confirm))
	assert.True(t, s.RemoveAttribute(ctx, 10, confirm))
	assert.True(t, s.RemoveCategory(ctx, 1, confirm))

	assert.Equal(t, []string{PromptDeleteOption, PromptDeleteAttribute, PromptDeleteCategory}, prompts)
	assert.Equal(t, []string{
		"GET attributes",
		"DELETE option", "GET attributes",
		"DELETE attribute", "GET attributes",
		"DELETE category", "GET categories",
	}, f.Calls())
}

func TestRemoveFailureIsTerminal(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.FetchCategories(ctx))
	require.NoError(t, s.SelectCategory(ctx, 1))
	f.failDelete = &client.APIError{Status: 409, Messages: []string{"in use"}}

	tests := []struct {
		name   string
		remove func() bool
		notice string
	}{
		{"category", func() bool { return s.RemoveCategory(ctx, 1, yes) }, MsgCategoryDelete},
		{"attribute", func() bool { return s.RemoveAttribute(ctx, 10, yes) }, MsgAttributeDelete},
		{"option", func() bool { return s.RemoveOption(ctx, 11, 100, yes) }, MsgOptionDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.remove())
			assert.Equal(t, tt.notice, s.Notice())
		})
	}
	assert.Len(t, s.Categories().Items, 2)
	assert.Len(t, s.Attributes().Items, 2)
}

func TestSelectCategoryResetsSynchronously(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))
	require.Equal(t, Loaded, s.Attributes().State)

	release := make(chan struct{})
	f.gate = map[int64]chan struct{}{2: release}

	done := make(chan error)
	go func() { done <- s.SelectCategory(ctx, 2) }()

	// Wait until the fetch for category 2 is in flight.
	require.Eventually(t, func() bool {
		calls := f.Calls()
		return len(calls) == 2 && s.Attributes().State == Loading
	}, time.Second, time.Millisecond)
	assert.Nil(t, s.Attributes().Items, "the old category's attributes are gone before the fetch resolves")
	assert.Equal(t, int64(2), s.Selected())

	close(release)
	require.NoError(t, <-done)
	snap := s.Attributes()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Author", snap.Items[0].Name)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()

	slow := make(chan struct{})
	f.gate = map[int64]chan struct{}{1: slow}

	first := make(chan error)
	go func() { first <- s.SelectCategory(ctx, 1) }()
	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, time.Millisecond)

	// Switch to category 2 while category 1 is still loading.
	require.NoError(t, s.SelectCategory(ctx, 2))
	require.Equal(t, "Author", s.Attributes().Items[0].Name)

	close(slow)
	require.NoError(t, <-first)

	snap := s.Attributes()
	assert.Equal(t, Loaded, snap.State)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Author", snap.Items[0].Name, "the superseded fetch must not overwrite the newer one")
}

func TestStaleFailureIsDiscarded(t *testing.T) {
	l := NewList[int](ClearOnError)
	old := l.begin()
	current := l.begin()

	require.True(t, l.finish(current, []int{1, 2}, nil))
	assert.False(t, l.finish(old, nil, errors.New("boom")))

	snap := l.Snapshot()
	assert.Equal(t, Loaded, snap.State)
	assert.Equal(t, []int{1, 2}, snap.Items)
	assert.NoError(t, snap.Err)
}

func TestCreateAttributeNeedsCategory(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)

	err := s.CreateAttribute(context.Background(), payload.Form{"name": "Size"})
	require.ErrorIs(t, err, ErrNoCategory)
	assert.Empty(t, f.Calls())
}

func TestFetchAttributesWithoutSelection(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)

	require.NoError(t, s.FetchAttributes(context.Background()))
	assert.Empty(t, f.Calls())
	assert.Equal(t, Unloaded, s.Attributes().State)
}

func TestUpdateAttributeDropsBoundsForNonNumber(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))

	require.NoError(t, s.UpdateAttribute(ctx, 10, payload.Form{"type": "TEXT", "minValue": 5}))
	assert.Nil(t, f.lastAttrUpdate.MinValue)
	require.NotNil(t, f.lastAttrUpdate.Type)
	assert.Equal(t, "TEXT", *f.lastAttrUpdate.Type)
}

func TestUpdateOptionResolvesOwner(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))
	s.OpenSurface(Surface{Kind: EditOption, ID: 100})

	sent, err := s.UpdateOption(ctx, 100, payload.Form{"label": " Crimson "})
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, int64(11), f.lastOptionUpdate.attributeID)
	assert.Equal(t, int64(100), f.lastOptionUpdate.optionID)
	require.NotNil(t, f.lastOptionUpdate.body.Value)
	assert.Equal(t, "Crimson", *f.lastOptionUpdate.body.Value)
	assert.False(t, s.Surface().Open())
}

func TestUpdateOptionWithoutOwnerIsNoop(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 2))
	s.OpenSurface(Surface{Kind: EditOption, ID: 100})
	before := f.Calls()

	sent, err := s.UpdateOption(ctx, 100, payload.Form{"label": "Crimson"})
	assert.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, before, f.Calls(), "no request is sent")
	assert.Empty(t, s.Notice(), "no error is shown")
	assert.True(t, s.Surface().Open())
}

func TestCreateOptionRefetchesAttributes(t *testing.T) {
	f := sampleBackend()
	s := newSync(f)
	ctx := context.Background()
	require.NoError(t, s.SelectCategory(ctx, 1))

	require.NoError(t, s.CreateOption(ctx, 11, payload.Form{"value": "blue"}))
	assert.Equal(t, []string{"GET attributes", "POST option", "GET attributes"}, f.Calls())
}

func TestUnauthorizedFetchIsReturned(t *testing.T) {
	f := sampleBackend()
	f.failList = client.ErrUnauthorized
	s := newSync(f)

	err := s.FetchCategories(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}
