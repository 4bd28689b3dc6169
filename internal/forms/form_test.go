package forms

import (
	"context"
	"net/url"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/stockgrid/internal/api"
	"github.com/jask/stockgrid/internal/grid"
)

type fakeAPI struct {
	created map[string]any
	updated map[string]any
	deleted []int64
	actions []string
	reply   map[string]any
	err     error
}

func (f *fakeAPI) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	f.created = payload
	return f.reply, f.err
}

func (f *fakeAPI) Update(ctx context.Context, resource string, pk int64, payload map[string]any) (map[string]any, error) {
	f.updated = payload
	return f.reply, f.err
}

func (f *fakeAPI) Delete(ctx context.Context, resource string, pk int64) error {
	f.deleted = append(f.deleted, pk)
	return f.err
}

func (f *fakeAPI) Perform(ctx context.Context, resource string, pk int64, action string, payload map[string]any) (map[string]any, error) {
	f.actions = append(f.actions, action)
	f.created = payload
	return f.reply, f.err
}

type countingFetcher struct {
	calls int
	rows  []grid.Record
}

func (f *countingFetcher) List(ctx context.Context, resource string, query url.Values) ([]grid.Record, int, error) {
	f.calls++
	return f.rows, len(f.rows), nil
}

func loadedController(fetcher *countingFetcher) *grid.Controller {
	ctrl := grid.NewController(context.Background(), fetcher, grid.ControllerConfig{
		Name: "t", URL: "/api/t/",
		Columns: []grid.Column{{Accessor: "name"}},
	})
	msg := ctrl.Init()().(grid.RowsLoadedMsg)
	ctrl.HandleRows(msg)
	return ctrl
}

func submit(t *testing.T, f *Form) ResultMsg {
	t.Helper()
	cmd := f.submitCmd()
	require.NotNil(t, cmd)
	return cmd().(ResultMsg)
}

func TestEditPrefillsFromRecord(t *testing.T) {
	rec := grid.Record{"name": "Shelf", "description": "", "icon": nil}
	f := NewEdit(context.Background(), &fakeAPI{}, "/api/t/", 3, "Edit", []Field{
		{Name: "name", Label: "Name"},
		{Name: "description", Label: "Description"},
		{Name: "icon", Label: "Icon"},
	}, rec, nil)

	require.Equal(t, "Shelf", f.inputs[0].Value())
	// Absent and empty values must not surface the dash placeholder.
	require.Equal(t, "", f.inputs[1].Value())
	require.Equal(t, "", f.inputs[2].Value())
}

func TestRequiredFieldBlocksSubmit(t *testing.T) {
	client := &fakeAPI{}
	f := NewCreate(context.Background(), client, "/api/t/", "Add", []Field{
		{Name: "name", Label: "Name", Required: true},
	}, nil)

	cmd, consumed := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, consumed)
	require.Nil(t, cmd)
	require.Equal(t, []string{"this field is required"}, f.FieldErrors("name"))
	require.Nil(t, client.created)
	require.False(t, f.Done())
}

func TestSubmitRejectionKeepsDialogOpen(t *testing.T) {
	client := &fakeAPI{err: &api.SubmitError{StatusCode: 400, Fields: map[string][]string{
		"quantity": {"A valid number is required."},
	}}}
	f := NewCreate(context.Background(), client, "/api/t/", "Add", []Field{
		{Name: "quantity", Label: "Quantity", Value: "x"},
	}, nil)

	msg := submit(t, f)
	cmd := f.HandleResult(msg)
	require.Nil(t, cmd)
	require.False(t, f.Done())
	require.Equal(t, []string{"A valid number is required."}, f.FieldErrors("quantity"))

	// A corrected resubmission clears the stale messages.
	client.err = nil
	msg = submit(t, f)
	require.Empty(t, f.FieldErrors("quantity"))
	_ = f.HandleResult(msg)
	require.True(t, f.Done())
}

func TestSuccessRefetchPolicy(t *testing.T) {
	fetcher := &countingFetcher{rows: []grid.Record{{"pk": float64(1), "name": "old"}}}
	ctrl := loadedController(fetcher)
	require.Equal(t, 1, fetcher.calls)

	cb := Success(ctrl, SuccessRefetch)
	cmd := cb(grid.Record{"pk": float64(1), "name": "new"})
	require.NotNil(t, cmd)
	cmd()
	require.Equal(t, 2, fetcher.calls)
	// The refetch path never touches rows directly.
	require.Equal(t, "old", ctrl.Rows()[0]["name"])
}

func TestSuccessPatchPolicy(t *testing.T) {
	fetcher := &countingFetcher{rows: []grid.Record{{"pk": float64(1), "name": "old"}}}
	ctrl := loadedController(fetcher)

	cb := Success(ctrl, SuccessPatch)
	cmd := cb(grid.Record{"pk": float64(1), "name": "new"})
	require.Nil(t, cmd)
	require.Equal(t, "new", ctrl.Rows()[0]["name"])
	require.Equal(t, 1, fetcher.calls)
}

func TestSuccessPatchFallsBackToRefetch(t *testing.T) {
	fetcher := &countingFetcher{rows: []grid.Record{{"pk": float64(1), "name": "old"}}}
	ctrl := loadedController(fetcher)

	cb := Success(ctrl, SuccessPatch)
	// Row 9 is not on this page; an empty response body is also possible.
	require.NotNil(t, cb(grid.Record{"pk": float64(9)}))
	require.NotNil(t, cb(nil))
}

func TestDeleteConfirmation(t *testing.T) {
	client := &fakeAPI{}
	f := NewDelete(context.Background(), client, "/api/t/", 5, "Delete", nil)

	_, consumed := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.True(t, consumed)
	require.True(t, f.Done())
	require.Empty(t, client.deleted)

	f = NewDelete(context.Background(), client, "/api/t/", 5, "Delete", nil)
	cmd, _ := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	msg := cmd().(ResultMsg)
	require.Equal(t, []int64{5}, client.deleted)
	_ = f.HandleResult(msg)
	require.True(t, f.Done())
}

func TestPerformUsesMappedPayload(t *testing.T) {
	client := &fakeAPI{}
	f := NewPerform(context.Background(), client, "/api/order/po/", 9, "receive", "Receive", []Field{
		{Name: "location", Label: "Location", Value: "14"},
	}, nil)
	f.MapPayload = func(values map[string]any) map[string]any {
		return map[string]any{
			"items":    []map[string]any{{"line_item": 1, "quantity": 4}},
			"location": values["location"],
		}
	}

	msg := submit(t, f)
	require.NoError(t, msg.Err)
	require.Equal(t, []string{"receive"}, client.actions)
	require.Equal(t, "14", client.created["location"])
	require.NotNil(t, client.created["items"])
}

func TestHandleResultIgnoresOtherForms(t *testing.T) {
	f := NewCreate(context.Background(), &fakeAPI{}, "/api/t/", "Add", nil, nil)
	other := NewCreate(context.Background(), &fakeAPI{}, "/api/t/", "Add", nil, nil)
	require.Nil(t, f.HandleResult(ResultMsg{Form: other}))
	require.False(t, f.Done())
}

func TestEscAbandonsDialog(t *testing.T) {
	f := NewCreate(context.Background(), &fakeAPI{}, "/api/t/", "Add", []Field{{Name: "name"}}, nil)
	_, consumed := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, consumed)
	require.True(t, f.Done())
}
