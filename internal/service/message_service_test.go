package service_test

import (
	"context"
	"testing"

	"github.com/courierhq/courier/internal/domain"
	"github.com/courierhq/courier/internal/repository/postgres"
	"github.com/courierhq/courier/internal/service"
	"github.com/courierhq/courier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Threads(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	messageService := service.NewMessageService(repos.Message, repos.User)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithUsername("alice").WithName("Alice", "Ames").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("bob").WithName("Bob", "Burns").Build(t, testDB.DB)

	sent, err := messageService.Send(ctx, alice.Username, bob.Username, "hi")
	require.NoError(t, err)
	require.NotZero(t, sent.ID)

	inbound, err := messageService.MessagesTo(ctx, bob.Username)
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.Equal(t, "hi", inbound[0].Body)
	assert.Equal(t, alice.Username, inbound[0].FromUser.Username)
	assert.Equal(t, "Alice", inbound[0].FromUser.FirstName)
	assert.Nil(t, inbound[0].ReadAt)

	outbound, err := messageService.MessagesFrom(ctx, alice.Username)
	require.NoError(t, err)
	require.Len(t, outbound, 1)
	assert.Equal(t, "hi", outbound[0].Body)
	assert.Equal(t, bob.Username, outbound[0].ToUser.Username)

	// The message shows up on neither party's opposite thread
	aliceInbound, err := messageService.MessagesTo(ctx, alice.Username)
	require.NoError(t, err)
	assert.Empty(t, aliceInbound)

	bobOutbound, err := messageService.MessagesFrom(ctx, bob.Username)
	require.NoError(t, err)
	assert.Empty(t, bobOutbound)
}

func TestMessageService_UnknownUserFailsLoudly(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	messageService := service.NewMessageService(repos.Message, repos.User)
	ctx := context.Background()

	_, err := messageService.MessagesFrom(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = messageService.MessagesTo(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMessageService_Send(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	messageService := service.NewMessageService(repos.Message, repos.User)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithUsername("send_alice").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("send_bob").Build(t, testDB.DB)

	first, err := messageService.Send(ctx, alice.Username, bob.Username, "one")
	require.NoError(t, err)
	second, err := messageService.Send(ctx, alice.Username, bob.Username, "two")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	_, err = messageService.Send(ctx, alice.Username, "nonexistent", "lost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMessageService_MarkRead(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	messageService := service.NewMessageService(repos.Message, repos.User)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithUsername("mark_alice").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("mark_bob").Build(t, testDB.DB)

	sent, err := messageService.Send(ctx, alice.Username, bob.Username, "unread")
	require.NoError(t, err)

	readAt, err := messageService.MarkRead(ctx, sent.ID)
	require.NoError(t, err)

	got, err := messageService.Get(ctx, sent.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)
	assert.Equal(t, readAt.Unix(), got.ReadAt.Unix())

	_, err = messageService.MarkRead(ctx, sent.ID+1000)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}
