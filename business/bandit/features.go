package bandit

import (
	"hash/fnv"
	"time"
)

// FeatureDim is the width of the serving-side feature vector handed to
// contextual arms: bias, time bucket, day-of-week, platform hash.
const FeatureDim = 4

func timeBucketFromHour(hour int) float64 {
	switch {
	case hour < 6:
		return 0.0
	case hour < 12:
		return 0.33
	case hour < 18:
		return 0.66
	default:
		return 1.0
	}
}

// dowBucket encodes day-of-week (0=Sunday .. 6=Saturday) into [0, 1].
func dowBucket(dow int) float64 {
	if dow < 0 {
		dow = 0
	} else if dow > 6 {
		dow = 6
	}
	return float64(dow) / 6.0
}

// hashToUnit deterministically hashes a string into [0, 1].
func hashToUnit(s string) float64 {
	if s == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum32()) / float64(^uint32(0))
}

func platformBucket(platform string) float64 {
	if platform == "" {
		// neutral default when platform is unknown
		return 0.5
	}
	return hashToUnit("platform:" + platform)
}

// BuildFeatureVector derives the serving features for one request.
// Defaults come from "now" and can be overridden through reqCtx
// ("dow" as int, "platform" as string).
func BuildFeatureVector(now time.Time, reqCtx map[string]any) []float64 {
	hour := now.Hour()
	dow := int(now.Weekday())
	platform := ""

	if reqCtx != nil {
		if d, ok := reqCtx["dow"].(int); ok {
			dow = d
		}
		if p, ok := reqCtx["platform"].(string); ok {
			platform = p
		}
	}

	x := make([]float64, FeatureDim)
	x[0] = 1.0 // bias
	x[1] = timeBucketFromHour(hour)
	x[2] = dowBucket(dow)
	x[3] = platformBucket(platform)
	return x
}

// mergeContext merges multiple maps into a new one.
func mergeContext(maps ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// buildBaseContext builds the standard context logged with both decision and
// feedback events.
func buildBaseContext(now time.Time, platform string) map[string]any {
	return map[string]any{
		"time_bucket": computeTimeBucket(now),
		"dow":         int(now.Weekday()), // 0=Sunday
		"platform":    platform,
		"event_time":  now.Format(time.RFC3339),
	}
}

func computeTimeBucket(t time.Time) string {
	h := t.Hour()
	switch {
	case h < 6:
		return "night"
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
