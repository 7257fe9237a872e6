package ratelimit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reqwire/internal/domain"
)

// testLimiter returns a limiter with a controllable clock and no sweeper
// race concerns for the assertions below.
func testLimiter(t *testing.T, def Rule, rules map[string]Rule) (*Limiter, *time.Time) {
	t.Helper()
	l := New(def, rules)
	t.Cleanup(l.Close)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowsUpToMaxThenRejects(t *testing.T) {
	l, _ := testLimiter(t, Rule{MaxRequests: 3, Window: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Admit("client-a", "GET default", "default"), "request %d", i+1)
	}

	err := l.Admit("client-a", "GET default", "default")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrRateLimited)

	var rlErr *domain.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	require.Greater(t, rlErr.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, rlErr.RetryAfter, time.Minute)
}

func TestLimiter_WindowResets(t *testing.T) {
	l, now := testLimiter(t, Rule{MaxRequests: 2, Window: time.Minute}, nil)

	require.NoError(t, l.Admit("client-a", "r", "default"))
	require.NoError(t, l.Admit("client-a", "r", "default"))
	require.Error(t, l.Admit("client-a", "r", "default"))

	*now = now.Add(time.Minute)
	require.NoError(t, l.Admit("client-a", "r", "default"))
}

func TestLimiter_ClientsAndRoutesAreIndependent(t *testing.T) {
	l, _ := testLimiter(t, Rule{MaxRequests: 1, Window: time.Minute}, nil)

	require.NoError(t, l.Admit("client-a", "r1", "default"))
	require.Error(t, l.Admit("client-a", "r1", "default"))

	// Different client, same route
	require.NoError(t, l.Admit("client-b", "r1", "default"))
	// Same client, different route
	require.NoError(t, l.Admit("client-a", "r2", "default"))
}

func TestLimiter_FamilyRuleOverridesDefault(t *testing.T) {
	l, _ := testLimiter(t, Rule{MaxRequests: 100, Window: time.Minute},
		map[string]Rule{FamilyPipeline: {MaxRequests: 1, Window: time.Minute}})

	require.NoError(t, l.Admit("client-a", "p", FamilyPipeline))
	require.Error(t, l.Admit("client-a", "p", FamilyPipeline))

	// Default family still wide open
	require.NoError(t, l.Admit("client-a", "d", "default"))
}

func TestLimiter_RetryAfterAtLeastOneSecond(t *testing.T) {
	l, now := testLimiter(t, Rule{MaxRequests: 1, Window: time.Minute}, nil)

	require.NoError(t, l.Admit("c", "r", "default"))
	*now = now.Add(59*time.Second + 900*time.Millisecond)

	err := l.Admit("c", "r", "default")
	var rlErr *domain.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	require.GreaterOrEqual(t, rlErr.RetryAfter, time.Second)
}

func TestLoadRules_Defaults(t *testing.T) {
	def, rules, err := LoadRules("")
	require.NoError(t, err)
	require.Equal(t, DefaultRule, def)
	require.Equal(t, PipelineRule, rules[FamilyPipeline])
}

func TestLoadRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := []byte(`
default:
  max_requests: 10
  window: 30s
families:
  pipeline:
    max_requests: 2
    window: 1m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	def, rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Equal(t, Rule{MaxRequests: 10, Window: 30 * time.Second}, def)
	require.Equal(t, Rule{MaxRequests: 2, Window: time.Minute}, rules[FamilyPipeline])
}

func TestLoadRules_RejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default:\n  max_requests: 5\n  window: nonsense\n"), 0o600))

	_, _, err := LoadRules(path)
	require.Error(t, err)
}
