package services

import (
	"log"
	"sync"
	"time"

	"robotdance/internal/models"
	"robotdance/internal/rds"
	"robotdance/internal/store"
)

// RDSService recomputes the denormalized (rds_score, review_count) pair on
// solution records. The submit path calls Recompute synchronously; failed or
// deferred recomputes go through a buffered queue drained by a single
// background worker, which also serves as the retry path when the write-back
// fails after a review was already persisted.
type RDSService struct {
	st      store.Store
	queue   chan uint
	pending map[uint]bool
	mu      sync.Mutex

	// Serializes the read-averages-then-write-aggregate sequence per
	// process so concurrent recomputes cannot overwrite a fresher count
	// with a stale one.
	recomputeMu sync.Mutex
}

func NewRDSService(st store.Store) *RDSService {
	s := &RDSService{
		st:      st,
		queue:   make(chan uint, 1000), // buffered so ScheduleUpdate never blocks a request
		pending: make(map[uint]bool),
	}
	go s.worker()
	return s
}

// ScheduleUpdate queues a solution for recomputation. Duplicate IDs already
// waiting in the queue are dropped.
func (s *RDSService) ScheduleUpdate(solutionID uint) {
	s.mu.Lock()
	if s.pending[solutionID] {
		s.mu.Unlock()
		return
	}
	s.pending[solutionID] = true
	s.mu.Unlock()

	select {
	case s.queue <- solutionID:
	default:
		s.mu.Lock()
		delete(s.pending, solutionID)
		s.mu.Unlock()
		log.Printf("RDS update queue full, dropping solution %d", solutionID)
	}
}

func (s *RDSService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case solutionID := <-s.queue:
			batch = append(batch, solutionID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *RDSService) processBatch(solutionIDs []uint) {
	for _, solutionID := range solutionIDs {
		if err := s.Recompute(solutionID); err != nil {
			log.Printf("RDS recompute for solution %d failed: %v", solutionID, err)
		}

		s.mu.Lock()
		delete(s.pending, solutionID)
		s.mu.Unlock()
	}
}

// Recompute fetches all reviews for the solution, averages the six rating
// dimensions, scores the average, and writes the pair back. A solution with
// no reviews gets (0, 0); the zero sentinel never reaches the calculator.
func (s *RDSService) Recompute(solutionID uint) error {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	reviews, err := s.st.FindReviewsBySolution(solutionID)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		return s.st.UpdateSolutionAggregate(solutionID, 0, 0)
	}

	avg := rds.AverageRatings(RatingVectors(reviews))
	score := rds.CalculateRDS(avg)
	return s.st.UpdateSolutionAggregate(solutionID, score, len(reviews))
}

// RatingVectors converts persisted reviews to rating vectors for averaging.
func RatingVectors(reviews []models.Review) []rds.Vector {
	vectors := make([]rds.Vector, len(reviews))
	for i, r := range reviews {
		vectors[i] = rds.Vector{
			Performance: float64(r.Performance),
			Reliability: float64(r.Reliability),
			EaseOfUse:   float64(r.EaseOfUse),
			Value:       float64(r.Value),
			Trust:       float64(r.Trust),
			Delight:     float64(r.Delight),
		}
	}
	return vectors
}
