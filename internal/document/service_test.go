package document

import (
	"context"
	defError "errors"
	"net/http"
	"rab-dashboard/internal/domain"
	apiError "rab-dashboard/internal/errors"
	"rab-dashboard/internal/kv"
	"rab-dashboard/internal/seed"
	"rab-dashboard/internal/store"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainHash(pw string) (string, error) { return "hash:" + pw, nil }

func setupService(t *testing.T) (Service, *store.Store) {
	t.Helper()
	ctx := context.Background()

	data, err := seed.Build(plainHash)
	require.NoError(t, err)
	st, err := store.Open(ctx, kv.NewMemorySubstrate(), store.Options{Namespace: "test", Seed: data})
	require.NoError(t, err)
	require.NoError(t, st.Initialize(ctx))
	t.Cleanup(func() { st.Close() })

	return NewService(st, nil), st
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apiError.APIError
	require.True(t, defError.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.Status
}

var admin = domain.SafeUser{
	ID: "usr-1", Username: "admin.utama", Name: "Admin Utama",
	Permissions: domain.NewStringSet(domain.AllPermissions...),
}

func TestCreateDocument_DefaultsAndCreator(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, admin, domain.KindBQ, domain.BudgetDocument{EMPR: "BQ777", ProjectName: "Gudang"})
	require.NoError(t, err)
	assert.Regexp(t, `^bq-\d+-[0-9a-f]{8}$`, doc.ID)
	assert.Equal(t, "Admin Utama", doc.CreatorName)
	assert.Equal(t, 0, doc.SLA)
	assert.False(t, doc.PDFReady)
	assert.Empty(t, doc.DetailItems)

	bq, err := st.ListDocuments(ctx, domain.KindBQ)
	require.NoError(t, err)
	assert.Len(t, bq, 2)
}

func TestCreateDocument_NeedsKindPermission(t *testing.T) {
	svc, _ := setupService(t)
	rabOnly := domain.SafeUser{Username: "rab.only", Permissions: domain.NewStringSet(domain.PermRABCreate)}

	_, err := svc.CreateDocument(context.Background(), rabOnly, domain.KindBQ, domain.BudgetDocument{})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = svc.CreateDocument(context.Background(), rabOnly, domain.KindRAB, domain.BudgetDocument{})
	assert.NoError(t, err)
}

func TestUpdateDocument_RoutesByID(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	patch, err := domain.NewPatch(map[string]any{"status": "Revisi"})
	require.NoError(t, err)
	doc, err := svc.UpdateDocument(ctx, admin, "bq-init-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "Revisi", doc.Status)

	rab, _, err := st.GetDocument(ctx, "rab-init-1")
	require.NoError(t, err)
	assert.NotEqual(t, "Revisi", rab.Status)
}

func TestUpdateDocument_ApprovalNeedsApprovePermission(t *testing.T) {
	svc, _ := setupService(t)
	editor := domain.SafeUser{Username: "editor", Permissions: domain.NewStringSet(domain.PermRABEdit)}

	patch, err := domain.NewPatch(map[string]any{"approverName": "Editor"})
	require.NoError(t, err)
	_, err = svc.UpdateDocument(context.Background(), editor, "rab-init-1", patch)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestUpdateDocument_InvalidValueRejected(t *testing.T) {
	svc, _ := setupService(t)

	patch, err := domain.NewPatch(map[string]any{"tenderValue": -5})
	require.NoError(t, err)
	_, err = svc.UpdateDocument(context.Background(), admin, "rab-init-1", patch)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestDeleteDocument_NotFound(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.DeleteDocument(context.Background(), admin, "rab-missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeleteDocument_RemovesFromCollection(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteDocument(ctx, admin, "rab-init-1"))
	rab, err := st.ListDocuments(ctx, domain.KindRAB)
	require.NoError(t, err)
	assert.Empty(t, rab)
}

func TestListDocuments_Paginates(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for range 3 {
		_, err := svc.CreateDocument(ctx, admin, domain.KindRAB, domain.BudgetDocument{ProjectName: "P"})
		require.NoError(t, err)
	}

	result, err := svc.ListDocuments(ctx, admin, domain.KindRAB, 2, 3)
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 4, result.Meta.Total)
	assert.Equal(t, 2, result.Meta.TotalPage)
}
