package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickcart/internal/model"
	"quickcart/internal/store"
)

func TestAuth_OTPFlow(t *testing.T) {
	f := newFixture(t, false)
	f.backend.addUser("tok-9876543210", model.User{ID: "9", Name: "Asha", Phone: "9876543210", Role: "admin"})
	svc := NewAuthService(f.client, f.store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, "+91 9876543210"))

	var verrs ValidationErrors
	require.ErrorAs(t, svc.SendOTP(ctx, "12345"), &verrs)
	assert.Equal(t, "phone", verrs[0].Field)

	_, err := svc.VerifyOTP(ctx, "9876543210", "0000")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyOTP(ctx, "9876543210", "12")
	require.ErrorAs(t, err, &verrs)

	session, err := svc.VerifyOTP(ctx, "9876543210", "1234")
	require.NoError(t, err)
	assert.Equal(t, "tok-9876543210", session.Token)
	assert.True(t, session.User.IsAdmin())

	token, ok := store.LoadJSON[string](ctx, f.store, store.Scoped(store.KeyAuthToken, "9876543210"))
	require.True(t, ok)
	assert.Equal(t, session.Token, token)
}

func TestAuth_ValidateToken(t *testing.T) {
	f := newFixture(t, false)
	f.backend.addUser("good", model.User{ID: "1", Name: "Ravi", Phone: "9123456789"})
	f.backend.addUser("off", model.User{ID: "2", Name: "Old", Disabled: true})
	svc := NewAuthService(f.client, f.store, zap.NewNop())
	ctx := context.Background()

	u, err := svc.ValidateToken(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", u.Name)
	assert.False(t, u.IsAdmin())

	_, err = svc.ValidateToken(ctx, "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ValidateToken(ctx, "off")
	assert.ErrorIs(t, err, ErrUserDisabled)

	// sin backend se acepta el último usuario conocido del token
	f.backend.setDown(true)
	u, err = svc.ValidateToken(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, model.ID("1"), u.ID)

	_, err = svc.ValidateToken(ctx, "never-seen")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
