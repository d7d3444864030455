package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
)

func adminRole() *session.Role {
	r := session.RoleAdmin
	return &r
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, err := svc.Register(ctx, &Account{FullName: "A B", Email: "a@b.com", UserRole: adminRole()}, "secret")
	require.NoError(t, err)
	require.Equal(t, 1, a.ID)
	require.NotEmpty(t, a.PasswordHash)
	require.NotEqual(t, "secret", a.PasswordHash)

	got, err := svc.Authenticate(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "A B", got.FullName)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@b.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetPasswordRotatesCredential(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, &Account{Email: "a@b.com"}, "old")
	require.NoError(t, err)
	require.NoError(t, svc.SetPassword(ctx, "a@b.com", "new"))

	_, err = svc.Authenticate(ctx, "a@b.com", "old")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "a@b.com", "new")
	require.NoError(t, err)
}

func TestMemoryRepositoryCRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, &Account{FullName: "A", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &Account{FullName: "B", Email: "b@x.com"})
	require.NoError(t, err)
	require.Equal(t, a.ID+1, b.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A", list[0].FullName)

	b.FullName = "B2"
	updated, err := repo.Update(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "B2", updated.FullName)

	missing, err := repo.Update(ctx, &Account{ID: 99})
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, a.ID))
	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Nil(t, got)
}
