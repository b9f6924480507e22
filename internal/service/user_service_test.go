package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/courierhq/courier/internal/domain"
	"github.com/courierhq/courier/internal/repository/postgres"
	"github.com/courierhq/courier/internal/service"
	"github.com/courierhq/courier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, service.NewPasswordHasher(cfg.BcryptCost))
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Username:  "newuser",
				Password:  "password123",
				FirstName: "New",
				LastName:  "User",
				Phone:     "+15550000002",
			},
		},
		{
			name: "duplicate username",
			input: service.RegisterInput{
				Username: "existinguser",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("existinguser").
					Build(t, testDB.DB)
			},
			wantErr: domain.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up between tests
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := userService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, user.Username)
			assert.NotEqual(t, tt.input.Password, user.Password)
			assert.Nil(t, user.LastLoginAt)

			// Register followed by Get round-trips the public fields
			got, err := userService.Get(ctx, tt.input.Username)
			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, got.Username)
			assert.Equal(t, tt.input.FirstName, got.FirstName)
			assert.Equal(t, tt.input.LastName, got.LastName)
			assert.Equal(t, tt.input.Phone, got.Phone)
			assert.WithinDuration(t, time.Now(), got.JoinAt, 5*time.Second)
		})
	}
}

func TestUserService_RegisterConflictKeepsFirst(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, service.NewPasswordHasher(cfg.BcryptCost))
	ctx := context.Background()

	first, err := userService.Register(ctx, service.RegisterInput{
		Username:  "contested",
		Password:  "firstpassword",
		FirstName: "First",
	})
	require.NoError(t, err)

	_, err = userService.Register(ctx, service.RegisterInput{
		Username:  "contested",
		Password:  "secondpassword",
		FirstName: "Second",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	got, err := userService.Get(ctx, "contested")
	require.NoError(t, err)
	assert.Equal(t, first.FirstName, got.FirstName)
	assert.Equal(t, first.Password, got.Password)
}

func TestUserService_Authenticate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, service.NewPasswordHasher(cfg.BcryptCost))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("authuser").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{
			name:     "correct credentials",
			username: user.Username,
			password: rawPassword,
			want:     true,
		},
		{
			name:     "wrong password",
			username: user.Username,
			password: "wrongpassword",
			want:     false,
		},
		{
			name:     "unknown user is false, not an error",
			username: "nonexistent",
			password: "anypassword",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := userService.Authenticate(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestUserService_UpdateLoginTimestamp(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, service.NewPasswordHasher(cfg.BcryptCost))
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("stampuser").
		Build(t, testDB.DB)

	before := time.Now()
	stamped, err := userService.UpdateLoginTimestamp(ctx, user.Username)
	require.NoError(t, err)
	assert.False(t, stamped.Before(before))

	got, err := userService.Get(ctx, user.Username)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, stamped, *got.LastLoginAt, time.Second)

	_, err = userService.UpdateLoginTimestamp(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_All(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, service.NewPasswordHasher(cfg.BcryptCost))
	ctx := context.Background()

	testutil.NewUserBuilder().WithUsername("all_alice").WithName("Alice", "Ames").Build(t, testDB.DB)
	testutil.NewUserBuilder().WithUsername("all_bob").WithName("Bob", "Burns").Build(t, testDB.DB)

	listing, err := userService.All(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 2)

	assert.Equal(t, "all_alice", listing[0].Username)
	assert.Equal(t, "Alice", listing[0].FirstName)
	assert.Equal(t, "all_bob", listing[1].Username)
}
