package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"regexp"
	"strings"

	"robotdance/internal/store"
)

var (
	ErrInvalidURL              = errors.New("affiliate base URL is not an absolute URL")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique referral code")
)

// Generation retries before giving up; collisions are rare with the 4-digit
// suffix, so a handful of attempts is plenty.
const maxCodeAttempts = 5

var referralCodePattern = regexp.MustCompile(`^[a-z0-9]{5,20}$`)

// ReferralService handles referral codes, click attribution and affiliate
// URL construction.
type ReferralService struct {
	st      store.Store
	siteURL string
}

func NewReferralService(st store.Store, siteURL string) *ReferralService {
	return &ReferralService{st: st, siteURL: strings.TrimRight(siteURL, "/")}
}

// GenerateReferralCode derives a code from a display name: lowercase
// alphanumerics only, at most 12 characters, plus 4 random digits. A name
// with no usable characters falls back to "user" so the result always
// satisfies IsValidReferralCode. Not guaranteed unique; callers go through
// NewCode for that.
func GenerateReferralCode(name string) string {
	var clean strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			clean.WriteRune(r)
			if clean.Len() == 12 {
				break
			}
		}
	}
	prefix := clean.String()
	if prefix == "" {
		prefix = "user"
	}
	digits := rand.Intn(9000) + 1000
	return fmt.Sprintf("%s%d", prefix, digits)
}

// IsValidReferralCode checks the code format: lowercase alphanumeric, 5-20
// characters.
func IsValidReferralCode(code string) bool {
	return referralCodePattern.MatchString(code)
}

// NewCode generates a referral code not yet owned by any user, retrying on
// collision a bounded number of times.
func (s *ReferralService) NewCode(name string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := GenerateReferralCode(name)
		_, err := s.st.FindUserByReferralCode(code)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Taken, try again with new digits.
	}
	return "", ErrCodeGenerationExhausted
}

// ReferralLink builds the shareable link for a reviewer and solution.
func (s *ReferralService) ReferralLink(code, slug string) string {
	return fmt.Sprintf("%s/r/%s/%s", s.siteURL, code, slug)
}

// BuildAffiliateURL appends the tracking sub-IDs used by the common
// affiliate networks (Impact: subId1/subId2, ShareASale: afftrack) to the
// solution's affiliate URL.
func BuildAffiliateURL(baseURL, referralCode, solutionSlug string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || !u.IsAbs() {
		return "", ErrInvalidURL
	}

	q := u.Query()
	q.Set("subId1", referralCode)
	q.Set("subId2", solutionSlug)
	q.Set("afftrack", referralCode+"_"+solutionSlug)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// RecordClick credits a click to the owner of the referral code. An unknown
// code is a silent no-op: click tracking must never block the redirect.
func (s *ReferralService) RecordClick(code string) error {
	user, err := s.st.FindUserByReferralCode(code)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.st.IncrementUserClicks(user.ID)
}

// Resolve maps a referral visit to its redirect target. Invalid code: plain
// solution page, untracked. Unknown solution: home. Otherwise the affiliate
// URL (with the click recorded), falling back to the solution's website and
// finally its detail page.
func (s *ReferralService) Resolve(code, slug string) string {
	// Malformed codes skip the store lookup entirely.
	if !IsValidReferralCode(code) {
		return s.siteURL + "/solutions/" + slug
	}

	user, err := s.st.FindUserByReferralCode(code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("referral lookup for code %q failed: %v", code, err)
		}
		return s.siteURL + "/solutions/" + slug
	}

	solution, err := s.st.FindSolutionBySlug(slug)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("solution lookup for slug %q failed: %v", slug, err)
		}
		return s.siteURL + "/"
	}

	if solution.AffiliateURL != "" {
		if err := s.st.IncrementUserClicks(user.ID); err != nil {
			log.Printf("click for referral code %q not recorded: %v", code, err)
		}
		target, err := BuildAffiliateURL(solution.AffiliateURL, code, slug)
		if err != nil {
			log.Printf("bad affiliate URL on solution %q: %v", slug, err)
			return s.siteURL + "/solutions/" + slug
		}
		return target
	}

	if solution.WebsiteURL != "" {
		return solution.WebsiteURL
	}

	return s.siteURL + "/solutions/" + slug
}
