package services

import (
	"net/url"
	"regexp"
	"sync"
	"testing"

	"robotdance/internal/models"
	"robotdance/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSiteURL = "https://robotdance.example"

func newReferralService(st *memstore.Store) *ReferralService {
	return NewReferralService(st, testSiteURL+"/")
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode("John Doe!")
	assert.Regexp(t, regexp.MustCompile(`^johndoe\d{4}$`), code)
	assert.True(t, IsValidReferralCode(code))

	// Long names are truncated to 12 characters before the digits.
	code = GenerateReferralCode("An Extremely Long Display Name")
	assert.Regexp(t, regexp.MustCompile(`^anextremelyl\d{4}$`), code)

	// A name with no usable characters falls back to the "user" prefix so
	// the code still passes validation.
	code = GenerateReferralCode("非凡!!")
	assert.Regexp(t, regexp.MustCompile(`^user\d{4}$`), code)
	assert.True(t, IsValidReferralCode(code))
}

func TestIsValidReferralCode(t *testing.T) {
	assert.True(t, IsValidReferralCode("alice1234"))
	assert.True(t, IsValidReferralCode("12345"))
	assert.False(t, IsValidReferralCode("abcd"))        // too short
	assert.False(t, IsValidReferralCode("Alice1234"))   // uppercase
	assert.False(t, IsValidReferralCode("alice-1234"))  // punctuation
	assert.False(t, IsValidReferralCode(""))
}

func TestNewCodeUnique(t *testing.T) {
	st := memstore.New()
	svc := newReferralService(st)

	code, err := svc.NewCode("alice")
	require.NoError(t, err)
	assert.True(t, IsValidReferralCode(code))
}

// everyCodeTaken reports every code as owned, forcing the retry loop to
// exhaust.
type everyCodeTaken struct {
	*memstore.Store
}

func (s everyCodeTaken) FindUserByReferralCode(code string) (*models.User, error) {
	return &models.User{ID: 1, ReferralCode: code}, nil
}

func TestNewCodeExhausted(t *testing.T) {
	svc := NewReferralService(everyCodeTaken{memstore.New()}, testSiteURL)

	_, err := svc.NewCode("alice")
	assert.ErrorIs(t, err, ErrCodeGenerationExhausted)
}

func TestReferralLink(t *testing.T) {
	svc := newReferralService(memstore.New())
	assert.Equal(t, testSiteURL+"/r/alice1234/claude", svc.ReferralLink("alice1234", "claude"))
}

func TestBuildAffiliateURL(t *testing.T) {
	got, err := BuildAffiliateURL("https://partner.example/landing?cmp=x", "alice1234", "claude")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "x", q.Get("cmp")) // existing params survive
	assert.Equal(t, "alice1234", q.Get("subId1"))
	assert.Equal(t, "claude", q.Get("subId2"))
	assert.Equal(t, "alice1234_claude", q.Get("afftrack"))

	_, err = BuildAffiliateURL("/relative/path", "alice1234", "claude")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = BuildAffiliateURL("://nope", "alice1234", "claude")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestRecordClick(t *testing.T) {
	st := memstore.New()
	require.NoError(t, st.CreateUser(&models.User{Name: "alice", ReferralCode: "alice1234"}))
	svc := newReferralService(st)

	require.NoError(t, svc.RecordClick("alice1234"))
	require.NoError(t, svc.RecordClick("alice1234"))

	user, err := st.FindUserByReferralCode("alice1234")
	require.NoError(t, err)
	assert.Equal(t, 2, user.TotalClicks)

	// Unknown code is a silent no-op.
	require.NoError(t, svc.RecordClick("nosuchcode1"))
	user, err = st.FindUserByReferralCode("alice1234")
	require.NoError(t, err)
	assert.Equal(t, 2, user.TotalClicks)
}

func TestRecordClickConcurrent(t *testing.T) {
	st := memstore.New()
	require.NoError(t, st.CreateUser(&models.User{Name: "alice", ReferralCode: "alice1234"}))
	svc := newReferralService(st)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordClick("alice1234"))
		}()
	}
	wg.Wait()

	user, err := st.FindUserByReferralCode("alice1234")
	require.NoError(t, err)
	assert.Equal(t, n, user.TotalClicks)
}

func TestResolve(t *testing.T) {
	st := memstore.New()
	require.NoError(t, st.CreateUser(&models.User{Name: "alice", ReferralCode: "alice1234"}))
	svc := newReferralService(st)

	withAffiliate := &models.Solution{
		Name: "Claude", Slug: "claude",
		WebsiteURL:   "https://claude.ai",
		AffiliateURL: "https://partner.example/claude",
	}
	require.NoError(t, st.CreateSolution(withAffiliate))
	websiteOnly := &models.Solution{Name: "Midjourney", Slug: "midjourney", WebsiteURL: "https://midjourney.com"}
	require.NoError(t, st.CreateSolution(websiteOnly))
	bare := &models.Solution{Name: "Mystery", Slug: "mystery"}
	require.NoError(t, st.CreateSolution(bare))

	// Unknown code: plain solution page, no click recorded.
	assert.Equal(t, testSiteURL+"/solutions/claude", svc.Resolve("nosuchcode1", "claude"))
	user, _ := st.FindUserByReferralCode("alice1234")
	assert.Equal(t, 0, user.TotalClicks)

	// Malformed code: same untracked fallback, without a store lookup.
	assert.Equal(t, testSiteURL+"/solutions/claude", svc.Resolve("Not-A-Code!", "claude"))
	user, _ = st.FindUserByReferralCode("alice1234")
	assert.Equal(t, 0, user.TotalClicks)

	// Known code, unknown solution: home.
	assert.Equal(t, testSiteURL+"/", svc.Resolve("alice1234", "nope"))
	user, _ = st.FindUserByReferralCode("alice1234")
	assert.Equal(t, 0, user.TotalClicks)

	// Affiliate URL present: tracked redirect with sub-IDs, click recorded.
	target := svc.Resolve("alice1234", "claude")
	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "partner.example", u.Host)
	assert.Equal(t, "alice1234", u.Query().Get("subId1"))
	user, _ = st.FindUserByReferralCode("alice1234")
	assert.Equal(t, 1, user.TotalClicks)

	// No affiliate URL: website, untracked.
	assert.Equal(t, "https://midjourney.com", svc.Resolve("alice1234", "midjourney"))
	user, _ = st.FindUserByReferralCode("alice1234")
	assert.Equal(t, 1, user.TotalClicks)

	// Neither URL: detail page.
	assert.Equal(t, testSiteURL+"/solutions/mystery", svc.Resolve("alice1234", "mystery"))
}
