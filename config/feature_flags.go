package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles with gradual rollout.
// Rollout assignment is stable per user: hashing the user ID keeps a
// user in the same bucket across requests and restarts.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int
}

// Predefined feature flag names.
const (
	// === Search Features ===
	FeatureSearchCourses     = "search.courses"     // Semantic course search
	FeatureSearchDiscussions = "search.discussions" // Semantic discussion search
	FeatureSearchBlending    = "search.blending"    // Similarity x rating blended ranking

	// === Social Features ===
	FeatureSocialReviews     = "social.reviews"     // Course reviews
	FeatureSocialDiscussions = "social.discussions" // Discussions and replies
	FeatureSocialLikes       = "social.likes"       // Likes on all objects
	FeatureSocialJourneys    = "social.journeys"    // Learning journeys

	// === Infrastructure Features ===
	FeatureInfraRedisEventBus  = "infra.redis_event_bus" // Fan events out over redis
	FeatureInfraEmbeddingCache = "infra.embedding_cache" // Cache vectors in redis
	FeatureInfraStatsWarming   = "infra.stats_warming"   // Nightly stats refresh job
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	defaults := []*Feature{
		{Name: FeatureSearchCourses, Description: "Semantic course search", Enabled: true, RolloutPercent: 100},
		{Name: FeatureSearchDiscussions, Description: "Semantic discussion search", Enabled: true, RolloutPercent: 100},
		{Name: FeatureSearchBlending, Description: "Blended similarity and rating scoring", Enabled: true, RolloutPercent: 100},

		{Name: FeatureSocialReviews, Description: "Course reviews", Enabled: true, RolloutPercent: 100},
		{Name: FeatureSocialDiscussions, Description: "Discussions and replies", Enabled: true, RolloutPercent: 100},
		{Name: FeatureSocialLikes, Description: "Likes on courses, journeys, discussions and replies", Enabled: true, RolloutPercent: 100},
		{Name: FeatureSocialJourneys, Description: "Learning journeys", Enabled: true, RolloutPercent: 100},

		{Name: FeatureInfraRedisEventBus, Description: "Redis pub/sub event fan-out", Enabled: false, RolloutPercent: 100},
		{Name: FeatureInfraEmbeddingCache, Description: "Redis embedding cache", Enabled: true, RolloutPercent: 100},
		{Name: FeatureInfraStatsWarming, Description: "Nightly review stats refresh", Enabled: true, RolloutPercent: 100},
	}

	for _, f := range defaults {
		ff.features[f.Name] = f
	}
}

// loadFromEnvironment applies overrides of the form
// FEATURE_SEARCH_COURSES=false or FEATURE_SOCIAL_LIKES=25 (rollout percent).
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := "FEATURE_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			continue
		}

		if pct, err := strconv.Atoi(val); err == nil && pct >= 0 && pct <= 100 {
			feature.Enabled = pct > 0
			feature.RolloutPercent = pct
		}
	}
}

// IsEnabled reports whether a feature is globally enabled.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[name]
	return ok && f.Enabled
}

// IsEnabledForUser reports whether a feature is enabled for a specific user,
// honoring overrides and rollout percentage.
func (ff *FeatureFlags) IsEnabledForUser(name, userID string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	if overrides, ok := ff.userOverrides[userID]; ok {
		if enabled, ok := overrides[name]; ok {
			return enabled
		}
	}

	f, ok := ff.features[name]
	if !ok || !f.Enabled {
		return false
	}

	if f.RolloutPercent >= 100 {
		return true
	}
	if f.RolloutPercent <= 0 {
		return false
	}

	return rolloutBucket(name, userID) < f.RolloutPercent
}

// SetOverride forces a feature on or off for a single user.
func (ff *FeatureFlags) SetOverride(userID, name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if ff.userOverrides[userID] == nil {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][name] = enabled
}

// SetEnabled toggles a feature globally at runtime.
func (ff *FeatureFlags) SetEnabled(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if f, ok := ff.features[name]; ok {
		f.Enabled = enabled
	}
}

// ListFeatures returns a snapshot of all features.
func (ff *FeatureFlags) ListFeatures() []Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	features := make([]Feature, 0, len(ff.features))
	for _, f := range ff.features {
		features = append(features, *f)
	}
	return features
}

// rolloutBucket maps (feature, user) to a stable bucket in [0, 100).
// The feature name is part of the hash so different features roll out
// to different user subsets.
func rolloutBucket(name, userID string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	h.Write([]byte(":"))
	h.Write([]byte(userID))
	return int(h.Sum32() % 100)
}
