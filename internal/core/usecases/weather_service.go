package usecases

import (
	"context"
	"fmt"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
)

// WeatherService fetches current conditions and judges their fitness for
// outdoor trekking.
type WeatherService struct {
	source ports.WeatherSource
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(source ports.WeatherSource) *WeatherService {
	return &WeatherService{source: source}
}

// CurrentJudgment fetches the observation at a point and judges it.
func (s *WeatherService) CurrentJudgment(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, domain.WeatherJudgment, error) {
	obs, err := s.source.Current(ctx, lat, lon)
	if err != nil {
		return nil, domain.WeatherJudgment{}, fmt.Errorf("fetch weather: %w", err)
	}
	return obs, JudgeOutdoor(*obs), nil
}

// JudgeOutdoor scores an observation for outdoor activity fitness. Pure and
// deterministic: starts at 100 and applies independent additive penalties,
// clamped to [0,100]. Level thresholds: ≥75 good, ≥50 caution, else bad.
func JudgeOutdoor(obs domain.WeatherObservation) domain.WeatherJudgment {
	precip := precipPerHour(obs)
	score := 100
	var reasons []string

	switch {
	case precip >= 2.0:
		score -= 55
		reasons = append(reasons, fmt.Sprintf("heavy rain/snow (%.1fmm/h)", precip))
	case precip >= 0.5:
		score -= 25
		reasons = append(reasons, fmt.Sprintf("light rain/snow (%.1fmm/h)", precip))
	}

	switch {
	case obs.FeelsLike <= -5:
		score -= 35
		reasons = append(reasons, fmt.Sprintf("very cold (feels like %.0f°C)", obs.FeelsLike))
	case obs.FeelsLike <= 0:
		score -= 18
		reasons = append(reasons, fmt.Sprintf("cold (feels like %.0f°C)", obs.FeelsLike))
	case obs.FeelsLike >= 30:
		score -= 30
		reasons = append(reasons, fmt.Sprintf("very hot (feels like %.0f°C)", obs.FeelsLike))
	}

	switch {
	case obs.WindSpeed >= 10:
		score -= 25
		reasons = append(reasons, fmt.Sprintf("strong wind (%.1fm/s)", obs.WindSpeed))
	case obs.WindSpeed >= 7:
		score -= 12
		reasons = append(reasons, fmt.Sprintf("windy (%.1fm/s)", obs.WindSpeed))
	}

	if obs.Humidity >= 85 && obs.FeelsLike >= 25 {
		score -= 12
		reasons = append(reasons, fmt.Sprintf("high humidity (%.0f%%)", obs.Humidity))
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := domain.LevelBad
	switch {
	case score >= 75:
		level = domain.LevelGood
	case score >= 50:
		level = domain.LevelCaution
	}

	if len(reasons) == 0 {
		reasons = []string{"no concerns"}
	}

	return domain.WeatherJudgment{
		Level:     level,
		Score:     score,
		PrecipMMH: precip,
		Reasons:   reasons,
	}
}

// precipPerHour estimates precipitation intensity in mm/h: the max over
// rain and snow, where 3h accumulations are averaged down to an hourly rate.
func precipPerHour(obs domain.WeatherObservation) float64 {
	var precip float64
	if obs.Rain1h != nil && *obs.Rain1h > precip {
		precip = *obs.Rain1h
	}
	if obs.Rain3h != nil && *obs.Rain3h/3 > precip {
		precip = *obs.Rain3h / 3
	}
	if obs.Snow1h != nil && *obs.Snow1h > precip {
		precip = *obs.Snow1h
	}
	if obs.Snow3h != nil && *obs.Snow3h/3 > precip {
		precip = *obs.Snow3h / 3
	}
	return precip
}
