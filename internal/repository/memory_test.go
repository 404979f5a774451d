package repository

import (
	"testing"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryCreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindUserByEmail("a@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	created, err := repo.CreateUser(&domain.User{Email: "a@x.com", FullName: "Alice"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.FullName)

	_, err = repo.CreateUser(&domain.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestMemoryRepositoryFindReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.CreateUser(&domain.User{Email: "a@x.com", FullName: "Alice"})
	require.NoError(t, err)

	found, err := repo.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	found.FullName = "Mutated"

	// nothing changes until SaveUser
	again, err := repo.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FullName)

	require.NoError(t, repo.SaveUser(found))
	again, err = repo.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Mutated", again.FullName)
}
