// Package memstore is an in-memory store.Store used by the test suites. A
// single mutex serializes every operation, which also makes each read-modify-
// write (helpful counters, clicks, the trust score pair) atomic.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/store"
	"robotdance/internal/utils"
)

type Store struct {
	mu sync.Mutex

	solutions    map[uint]*models.Solution
	reviews      map[uint]*models.Review
	users        map[uint]*models.User
	trustRatings map[uint]*models.TrustRating
	submissions  map[uint]*models.Submission

	nextID map[string]uint
}

func New() *Store {
	return &Store{
		solutions:    make(map[uint]*models.Solution),
		reviews:      make(map[uint]*models.Review),
		users:        make(map[uint]*models.User),
		trustRatings: make(map[uint]*models.TrustRating),
		submissions:  make(map[uint]*models.Submission),
		nextID:       make(map[string]uint),
	}
}

func (s *Store) id(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

// ---------- Solutions ----------

func (s *Store) FindSolution(id uint) (*models.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sol, ok := s.solutions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sol
	return &cp, nil
}

func (s *Store) FindSolutionBySlug(slug string) (*models.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sol := range s.solutions {
		if sol.Slug == slug {
			cp := *sol
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListSolutions(f store.SolutionFilter) ([]models.Solution, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Solution
	for _, sol := range s.solutions {
		if f.Category != "" && sol.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(sol.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *sol)
	}

	asc := f.Order == "asc"
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch f.Sort {
		case "name":
			less = out[i].Name < out[j].Name
		case "review_count":
			less = out[i].ReviewCount < out[j].ReviewCount
		case "created_at":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			less = out[i].RDSScore < out[j].RDSScore
		}
		if asc {
			return less
		}
		return !less
	})

	total := int64(len(out))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (s *Store) CreateSolution(sol *models.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.solutions {
		if existing.Slug == sol.Slug {
			return store.ErrDuplicateSlug
		}
	}
	sol.ID = s.id("solutions")
	if sol.CreatedAt.IsZero() {
		sol.CreatedAt = time.Now()
	}
	cp := *sol
	s.solutions[sol.ID] = &cp
	return nil
}

func (s *Store) UpdateSolutionAggregate(solutionID uint, score, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sol, ok := s.solutions[solutionID]
	if !ok {
		return store.ErrNotFound
	}
	sol.RDSScore = score
	sol.ReviewCount = count
	return nil
}

// ---------- Reviews ----------

func (s *Store) FindReview(id uint) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) FindReviewsBySolution(solutionID uint) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.SolutionID == solutionID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) FindReviewsByUser(userID uint) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) HasUserReviewed(userID, solutionID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.SolutionID == solutionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateReview(r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.SolutionID == r.SolutionID {
			return store.ErrAlreadyReviewed
		}
	}
	r.ID = s.id("reviews")
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	cp := *r
	s.reviews[r.ID] = &cp
	return nil
}

func (s *Store) IncrementHelpful(reviewID uint, isHelpful bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return store.ErrNotFound
	}
	r.HelpfulTotal++
	if isHelpful {
		r.HelpfulYes++
	}
	return nil
}

// ---------- Users ----------

func (s *Store) FindUser(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUserByProviderID(provider, providerID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Provider == provider && u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUserByReferralCode(code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id("users")
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) IncrementUserClicks(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TotalClicks++
	return nil
}

// ---------- Trust ratings ----------

func (s *Store) ExistsTrustRating(raterID, reviewID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tr := range s.trustRatings {
		if tr.RaterID == raterID && tr.ReviewID == reviewID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ApplyTrustRating(raterID, reviewerID, reviewID uint, rating int) (float64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviewer, ok := s.users[reviewerID]
	if !ok {
		return 0, 0, store.ErrNotFound
	}
	for _, tr := range s.trustRatings {
		if tr.RaterID == raterID && tr.ReviewID == reviewID {
			return 0, 0, store.ErrDuplicateRating
		}
	}

	fact := &models.TrustRating{
		ID:         s.id("trust_ratings"),
		RaterID:    raterID,
		ReviewerID: reviewerID,
		ReviewID:   reviewID,
		Rating:     rating,
		CreatedAt:  time.Now(),
	}
	s.trustRatings[fact.ID] = fact

	newCount := reviewer.TrustRatingCount + 1
	newScore := rds.Round1((reviewer.TrustScore*float64(reviewer.TrustRatingCount) + float64(rating)) / float64(newCount))
	reviewer.TrustScore = newScore
	reviewer.TrustRatingCount = newCount
	return newScore, newCount, nil
}

// ---------- Submissions ----------

func (s *Store) CreateSubmission(sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = s.id("submissions")
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

func (s *Store) FindSubmission(id uint) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

// FindSubmissionByURL matches on the normalized stored URL, mirroring the
// SQL adapter. Callers pass an already-normalized URL.
func (s *Store) FindSubmissionByURL(url string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.submissions {
		if utils.NormalizeURL(sub.WebsiteURL) == url {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) MarkSubmissionPublished(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	sub.Status = "approved"
	sub.PublishedAt = &now
	return nil
}
