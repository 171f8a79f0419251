package usecases

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
	"github.com/jwoopark/trailhead/internal/pkg/geospatial"
	"github.com/jwoopark/trailhead/internal/pkg/metrics"
)

const (
	// Members whose first point lies within this distance of the running
	// sequence's tail are joined without duplicating the shared vertex.
	stitchThresholdM = 5.0

	minCourseKm = 1.0
	maxCourseKm = 35.0

	// Score weights: route completeness (member count) and length, both
	// logarithmically damped so length never dominates.
	memberWeight   = 0.8
	distanceWeight = 0.6

	// DefaultMaxCandidates bounds how many relations are considered per
	// build before assembly.
	DefaultMaxCandidates = 50
)

// CourseService turns raw route relations into ranked, deduplicated
// trekking course candidates.
type CourseService struct {
	trails ports.TrailSource
}

// NewCourseService creates a new CourseService.
func NewCourseService(trails ports.TrailSource) *CourseService {
	return &CourseService{trails: trails}
}

// BuildCourses fetches hiking/foot relations inside bbox and assembles them
// into courses sorted by (score, distance) descending, deduplicated by name.
// Disqualified relations are skipped silently; only a total query failure is
// an error.
func (s *CourseService) BuildCourses(ctx context.Context, bbox domain.BoundingBox, maxCandidates int) ([]domain.Course, error) {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	rels, err := s.trails.RelationsInBox(ctx, bbox)
	if err != nil {
		return nil, fmt.Errorf("fetch trail relations: %w", err)
	}

	rels = preferNamed(rels)
	if len(rels) > maxCandidates {
		rels = rels[:maxCandidates]
	}

	courses := make([]domain.Course, 0, len(rels))
	for _, rel := range rels {
		c, ok := courseFromRelation(rel)
		if !ok {
			metrics.CoursesDiscarded.Inc()
			continue
		}
		courses = append(courses, c)
	}
	metrics.CoursesBuilt.Add(float64(len(courses)))

	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Score != courses[j].Score {
			return courses[i].Score > courses[j].Score
		}
		return courses[i].DistanceKm > courses[j].DistanceKm
	})

	return dedupByName(courses), nil
}

// preferNamed keeps only named relations when any exist; an all-anonymous
// result set passes through untouched rather than being discarded outright.
func preferNamed(rels []domain.Relation) []domain.Relation {
	named := make([]domain.Relation, 0, len(rels))
	for _, r := range rels {
		if r.Name() != "" {
			named = append(named, r)
		}
	}
	if len(named) > 0 {
		return named
	}
	return rels
}

// courseFromRelation stitches a relation's member geometries into one
// coordinate sequence and validates the result. ok is false when the
// relation is disqualified.
func courseFromRelation(rel domain.Relation) (domain.Course, bool) {
	name := rel.Name()
	if name == "" {
		return domain.Course{}, false
	}

	coords := stitchMembers(rel.Members)
	if len(coords) < 2 {
		return domain.Course{}, false
	}

	distKm := round2(geospatial.PolylineLengthKm(coords))
	if distKm < minCourseKm || distKm > maxCourseKm {
		return domain.Course{}, false
	}

	memberCount := len(rel.Members)
	score := round3(memberWeight*math.Log1p(float64(memberCount)) +
		distanceWeight*math.Log1p(distKm))

	return domain.Course{
		CourseID:   name + " (" + strconv.FormatFloat(distKm, 'f', -1, 64) + "km)",
		Name:       name,
		DistanceKm: distKm,
		Difficulty: difficultyLabel(rel.Tags["sac_scale"], distKm),
		Score:      score,
		Coords:     coords,
		Start:      coords[0],
		End:        coords[len(coords)-1],
		Members:    memberCount,
	}, true
}

// stitchMembers joins member geometries in order. Members with fewer than
// two points contribute nothing. When the next member starts within the
// stitch threshold of the running tail its first vertex is dropped to avoid
// a near-duplicate; otherwise all its points are appended, accepting a gap
// rather than dropping data.
func stitchMembers(members []domain.RelationMember) []domain.GeoPoint {
	var coords []domain.GeoPoint
	for _, m := range members {
		if len(m.Points) < 2 {
			continue
		}
		if len(coords) == 0 {
			coords = append(coords, m.Points...)
			continue
		}
		tail := coords[len(coords)-1]
		head := m.Points[0]
		if geospatial.Haversine(tail.Lat, tail.Lon, head.Lat, head.Lon) < stitchThresholdM {
			coords = append(coords, m.Points[1:]...)
		} else {
			coords = append(coords, m.Points...)
		}
	}
	return coords
}

// sacDifficulty maps the sac_scale tag vocabulary onto our three levels.
var sacDifficulty = map[string]string{
	"hiking":                    domain.DifficultyEasy,
	"mountain_hiking":           domain.DifficultyModerate,
	"demanding_mountain_hiking": domain.DifficultyHard,
	"alpine_hiking":             domain.DifficultyHard,
	"demanding_alpine_hiking":   domain.DifficultyHard,
	"difficult_alpine_hiking":   domain.DifficultyHard,
}

// difficultyLabel derives a difficulty from the sac_scale hint when it is
// recognized, falling back to distance thresholds.
func difficultyLabel(sacHint string, distanceKm float64) string {
	if d, ok := sacDifficulty[sacHint]; ok {
		return d
	}
	switch {
	case distanceKm < 5:
		return domain.DifficultyEasy
	case distanceKm < 10:
		return domain.DifficultyModerate
	default:
		return domain.DifficultyHard
	}
}

// dedupByName keeps the first (highest-ranked) course per name, preserving
// sort order.
func dedupByName(courses []domain.Course) []domain.Course {
	seen := make(map[string]bool, len(courses))
	out := courses[:0]
	for _, c := range courses {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
