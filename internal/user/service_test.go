package user

import (
	"context"
	defError "errors"
	"net/http"
	"os"
	"rab-dashboard/auth"
	"rab-dashboard/internal/domain"
	apiError "rab-dashboard/internal/errors"
	"rab-dashboard/internal/kv"
	"rab-dashboard/internal/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func setupService(t *testing.T) (Service, *store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, kv.NewMemorySubstrate(), store.Options{Namespace: "test"})
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

func TestLogin_SeededUsers(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	cases := []struct{ identifier, password string }{
		{"admin.utama", "12345"},
		{"ADMIN@proyekku.com", "12345"},
		{"Bambang.OBM", "password"},
		{"gas.project@proyekku.com", "password"},
	}
	for _, tc := range cases {
		t.Run(tc.identifier, func(t *testing.T) {
			before := time.Now().UTC()
			u, err := svc.Login(ctx, tc.identifier, tc.password)
			require.NoError(t, err)
			assert.False(t, u.LastLogin.Before(before))

			stored, err := st.GetUser(ctx, u.ID)
			require.NoError(t, err)
			assert.True(t, stored.LastLogin.Equal(u.LastLogin))

			sess := svc.CurrentUser(ctx)
			require.NotNil(t, sess)
			assert.Equal(t, u.ID, sess.User.ID)
		})
	}
}

func TestLogin_WrongPasswordMutatesNothing(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	before, err := st.ListUsers(ctx)
	require.NoError(t, err)

	u, err := svc.Login(ctx, "admin.utama", "wrong")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	after, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Nil(t, svc.CurrentUser(ctx))
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	patch, err := domain.NewPatch(map[string]any{"status": domain.StatusInactive})
	require.NoError(t, err)
	_, err = st.PatchUser(ctx, "usr-2", patch)
	require.NoError(t, err)
	before, err := st.GetUser(ctx, "usr-2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bambang.obm", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	after, err := st.GetUser(ctx, "usr-2")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin.utama", "12345")
	require.NoError(t, err)
	users, err := st.ListUsers(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "admin.utama"))
	assert.Nil(t, svc.CurrentUser(ctx))

	after, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, after)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "admin.utama", &FormCreateUser{
		Username:    "siti.rab",
		Name:        "Siti RAB",
		Email:       "siti@proyekku.com",
		Role:        "Estimator",
		Password:    "rahasia",
		Permissions: domain.StringSet{domain.PermRABView, domain.PermRABEdit},
		Plant:       domain.StringSet{"Sunter", "Cikarang"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.NotEqual(t, "rahasia", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "rahasia"))
	assert.False(t, created.LastLogin.IsZero())

	stored, err := st.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StringSet{"Sunter", "Cikarang"}, stored.Plant)

	u, err := svc.Login(ctx, "siti.rab", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
}

func TestCreateUser_DuplicateIdentifier(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "admin.utama", &FormCreateUser{
		Username: "Admin.Utama",
		Name:     "Copy",
		Email:    "copy@proyekku.com",
		Role:     "Admin",
		Password: "12345",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestUpdateUser_EmptyPasswordKeepsHash(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	before, err := st.GetUser(ctx, "usr-3")
	require.NoError(t, err)

	name := "Gatot Subroto"
	updated, err := svc.UpdateUser(ctx, "admin.utama", "usr-3", &FormUpdateUser{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, before.PasswordHash, updated.PasswordHash)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, before.Permissions, updated.Permissions)
}

func TestUpdateUser_ChangesPassword(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, "admin.utama", "usr-2", &FormUpdateUser{Password: "baru123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bambang.obm", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "bambang.obm", "baru123")
	assert.NoError(t, err)
}

func TestUpdateUser_MissingUser(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	before, err := st.ListUsers(ctx)
	require.NoError(t, err)

	name := "Ghost"
	_, err = svc.UpdateUser(ctx, "admin.utama", "usr-404", &FormUpdateUser{Name: &name})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	after, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateUser_EmailTakenByOther(t *testing.T) {
	svc, _ := setupService(t)
	email := "obm@proyekku.com"

	_, err := svc.UpdateUser(context.Background(), "admin.utama", "usr-3", &FormUpdateUser{Email: &email})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestDeleteUser(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, "admin.utama", "usr-2"))
	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	err = svc.DeleteUser(ctx, "admin.utama", "usr-2")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdateUser_RefreshesCurrentSession(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin.utama", "12345")
	require.NoError(t, err)
	started := svc.CurrentUser(ctx).StartedAt

	name := "Admin Baru"
	_, err = svc.UpdateUser(ctx, "admin.utama", "usr-1", &FormUpdateUser{Name: &name})
	require.NoError(t, err)

	session := svc.CurrentUser(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "Admin Baru", session.User.Name)
	assert.True(t, started.Equal(session.StartedAt))

	// other users leave the session alone
	other := "Bambang Baru"
	_, err = svc.UpdateUser(ctx, "admin.utama", "usr-2", &FormUpdateUser{Name: &other})
	require.NoError(t, err)
	assert.Equal(t, "Admin Baru", svc.CurrentUser(ctx).User.Name)
}

func TestUpdateUser_DeactivationEndsSession(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin.utama", "12345")
	require.NoError(t, err)

	inactive := domain.StatusInactive
	_, err = svc.UpdateUser(ctx, "admin.utama", "usr-1", &FormUpdateUser{Status: &inactive})
	require.NoError(t, err)
	assert.Nil(t, svc.CurrentUser(ctx))
}

func TestDeleteUser_EndsOwnSession(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "bambang.obm", "password")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "admin.utama", "usr-3"))
	assert.NotNil(t, svc.CurrentUser(ctx))

	require.NoError(t, svc.DeleteUser(ctx, "admin.utama", "usr-2"))
	assert.Nil(t, svc.CurrentUser(ctx))
}

func TestListUsers_HidesPasswordHash(t *testing.T) {
	svc, _ := setupService(t)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "admin.utama", users[0].Username)
}
