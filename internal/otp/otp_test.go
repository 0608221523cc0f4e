package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = "test-seed"

func TestSecretForIsCaseInsensitive(t *testing.T) {
	a := SecretFor(testSeed, "Jane@Example.com")
	b := SecretFor(testSeed, "jane@example.com")
	assert.Equal(t, a, b)
}

func TestSecretForVariesByEmailAndSeed(t *testing.T) {
	a := SecretFor(testSeed, "jane@example.com")
	b := SecretFor(testSeed, "john@example.com")
	c := SecretFor("other-seed", "jane@example.com")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateAndCheckRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code, err := GenerateAt(testSeed, "jane@example.com", 15*time.Minute, 6, now)
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.True(t, CheckAt(code, testSeed, "jane@example.com", 15*time.Minute, 6, 1, now))
}

func TestCheckRejectsWrongEmail(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code, err := GenerateAt(testSeed, "jane@example.com", 15*time.Minute, 6, now)
	require.NoError(t, err)

	assert.False(t, CheckAt(code, testSeed, "john@example.com", 15*time.Minute, 6, 1, now))
}

func TestCheckRejectsWrongStep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code, err := GenerateAt(testSeed, "admin@example.com", 15*time.Minute, 6, now)
	require.NoError(t, err)

	// A code minted for the wide window must not pass the tight window.
	assert.False(t, CheckAt(code, testSeed, "admin@example.com", 5*time.Minute, 6, 1, now))
}

func TestCheckHonorsSkew(t *testing.T) {
	step := 15 * time.Minute
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code, err := GenerateAt(testSeed, "jane@example.com", step, 6, now)
	require.NoError(t, err)

	// One step later the code still passes with skew 1, two steps later it
	// must not.
	assert.True(t, CheckAt(code, testSeed, "jane@example.com", step, 6, 1, now.Add(step)))
	assert.False(t, CheckAt(code, testSeed, "jane@example.com", step, 6, 1, now.Add(2*step)))
}
