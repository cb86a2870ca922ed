package progate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

func proStatus() models.SubscriptionStatus {
	validUntil := time.Now().Add(30 * 24 * time.Hour)
	return models.SubscriptionStatus{Plan: models.PlanPro, ValidUntil: &validUntil}
}

func freeStatus() models.SubscriptionStatus {
	return models.SubscriptionStatus{Plan: models.PlanFree}
}

func TestGuardStartsLoadingAndRendersNothing(t *testing.T) {
	g := NewGuard()

	assert.Equal(t, StateLoading, g.State())
	assert.False(t, g.Allowed())
	assert.Empty(t, g.Render(func() string { return "pro content" }))
}

func TestGuardAllowsPro(t *testing.T) {
	g := NewGuard()

	attempt := g.Begin()
	require.True(t, g.Resolve(attempt, proStatus()))

	assert.Equal(t, StateAllowed, g.State())
	assert.Equal(t, "pro content", g.Render(func() string { return "pro content" }))
	assert.Empty(t, g.RedirectTo())
}

func TestGuardBlocksFreeWithRedirect(t *testing.T) {
	g := NewGuard()

	attempt := g.Begin()
	require.True(t, g.Resolve(attempt, freeStatus()))

	assert.Equal(t, StateBlocked, g.State())
	assert.Empty(t, g.Render(func() string { return "pro content" }))
	assert.Equal(t, FallbackPath, g.RedirectTo())
}

// Устаревший успешный ответ не должен перебивать корректный blocked:
// побеждает последняя выданная попытка, а не последняя пришедшая.
func TestGuardDiscardsStaleResolution(t *testing.T) {
	g := NewGuard()

	older := g.Begin()
	newer := g.Begin()

	require.True(t, g.Resolve(newer, freeStatus()))
	assert.Equal(t, StateBlocked, g.State())

	assert.False(t, g.Resolve(older, proStatus()))
	assert.Equal(t, StateBlocked, g.State())
	assert.Empty(t, g.Render(func() string { return "pro content" }))
}

// blocked может смениться на allowed только свежим циклом проверки.
func TestGuardFreshCycleUnblocks(t *testing.T) {
	g := NewGuard()

	first := g.Begin()
	require.True(t, g.Resolve(first, freeStatus()))
	assert.Equal(t, StateBlocked, g.State())

	second := g.Begin()
	require.True(t, g.Resolve(second, proStatus()))
	assert.Equal(t, StateAllowed, g.State())
}

// Фоновая перепроверка, обнаружившая истечение подписки, блокирует гейт:
// проверка не одноразовая.
func TestGuardReevaluatesOnExpiry(t *testing.T) {
	g := NewGuard()

	first := g.Begin()
	require.True(t, g.Resolve(first, proStatus()))
	assert.Equal(t, StateAllowed, g.State())

	second := g.Begin()
	require.True(t, g.Resolve(second, freeStatus()))
	assert.Equal(t, StateBlocked, g.State())
	assert.Equal(t, FallbackPath, g.RedirectTo())
}

func TestGuardCancelDiscardsInFlight(t *testing.T) {
	g := NewGuard()

	attempt := g.Begin()
	g.Cancel()

	assert.False(t, g.Resolve(attempt, proStatus()))
	assert.Equal(t, StateLoading, g.State())
	assert.False(t, g.Allowed())
}

func TestGuardRejectsUnissuedAttempt(t *testing.T) {
	g := NewGuard()

	assert.False(t, g.Resolve(42, proStatus()))
	assert.Equal(t, StateLoading, g.State())
}

func TestGuardDuplicateResolveIgnored(t *testing.T) {
	g := NewGuard()

	attempt := g.Begin()
	require.True(t, g.Resolve(attempt, proStatus()))
	assert.False(t, g.Resolve(attempt, freeStatus()))
	assert.Equal(t, StateAllowed, g.State())
}
