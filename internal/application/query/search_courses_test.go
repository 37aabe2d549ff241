package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/ranking"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (shared.Embedding, error) {
	f.calls++
	return make(shared.Embedding, shared.EmbeddingDim), nil
}

type fakeRetriever struct {
	courses []ranking.CourseMatch
	social  []ranking.SocialMatch

	gotThreshold float64
	gotK         int
}

func (f *fakeRetriever) SimilarCourses(_ context.Context, _ shared.Embedding, threshold float64, k int) ([]ranking.CourseMatch, error) {
	f.gotThreshold = threshold
	f.gotK = k
	return f.courses, nil
}

func (f *fakeRetriever) SimilarSocial(_ context.Context, _ shared.Embedding, threshold float64, k int) ([]ranking.SocialMatch, error) {
	f.gotThreshold = threshold
	f.gotK = k
	return f.social, nil
}

func courseMatch(title string, similarity float64, internal course.ReviewStats, external course.ExternalRating) ranking.CourseMatch {
	return ranking.CourseMatch{
		Course: &course.Course{
			ID:       shared.NewID(),
			Title:    title,
			Platform: course.PlatformUdemy,
			URL:      "https://udemy.com/" + title,
			Rating:   external,
		},
		Similarity: similarity,
		Stats:      internal,
	}
}

func TestSearchCourses_PrefersProvenOverMarginallyCloser(t *testing.T) {
	// Курс B чуть дальше от запроса, но с сотнями оценок против одной
	// пятёрки у A. Смешанный скор должен вывести B вперёд.
	a := courseMatch("single-five-star", 0.9, course.ReviewStats{}, course.ExternalRating{Value: 5, Count: 1})
	b := courseMatch("well-reviewed", 0.7, course.ReviewStats{}, course.ExternalRating{Value: 4, Count: 500})

	retriever := &fakeRetriever{courses: []ranking.CourseMatch{a, b}}
	handler := NewSearchCoursesHandler(&fakeEmbedder{}, retriever)

	result, err := handler.Handle(context.Background(), SearchCoursesQuery{Text: "golang"})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.Equal(t, "well-reviewed", result.Results[0].Title)
	assert.Equal(t, "single-five-star", result.Results[1].Title)

	// Рабочий набор - 2×Limit при дефолтном лимите 5.
	assert.Equal(t, 10, retriever.gotK)
	assert.Equal(t, 0.5, retriever.gotThreshold)
}

func TestSearchCourses_InternalReviewsOverridePlatformRating(t *testing.T) {
	m := courseMatch("with-reviews", 0.8,
		course.ReviewStats{Count: 3, Average: 4.33, Min: 4, Max: 5},
		course.ExternalRating{Value: 2.0, Count: 10000})

	retriever := &fakeRetriever{courses: []ranking.CourseMatch{m}}
	handler := NewSearchCoursesHandler(&fakeEmbedder{}, retriever)

	result, err := handler.Handle(context.Background(), SearchCoursesQuery{Text: "golang"})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	got := result.Results[0]
	assert.Equal(t, "internal", got.RatingSource)
	assert.Equal(t, 4.33, got.Rating)
	assert.Equal(t, 3, got.RatingCount)
}

func TestSearchCourses_EmptyTextRejected(t *testing.T) {
	handler := NewSearchCoursesHandler(&fakeEmbedder{}, &fakeRetriever{})

	_, err := handler.Handle(context.Background(), SearchCoursesQuery{Text: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestSearchCourses_EmptyRetrievalYieldsEmptyResult(t *testing.T) {
	embedder := &fakeEmbedder{}
	handler := NewSearchCoursesHandler(embedder, &fakeRetriever{})

	result, err := handler.Handle(context.Background(), SearchCoursesQuery{Text: "rust"})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, 1, embedder.calls)
}

func TestSearchDiscussions_OrdersBySimilarity(t *testing.T) {
	d1 := shared.NewID()
	d2 := shared.NewID()
	retriever := &fakeRetriever{social: []ranking.SocialMatch{
		{ID: d1, Type: ranking.ContentDiscussion, Title: "closer", DiscussionID: d1, Similarity: 0.9},
		{ID: d2, Type: ranking.ContentReply, Text: "farther", DiscussionID: d1, Similarity: 0.6},
	}}
	handler := NewSearchDiscussionsHandler(&fakeEmbedder{}, retriever)

	result, err := handler.Handle(context.Background(), SearchDiscussionsQuery{Text: "channels", Limit: 5})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.Equal(t, "closer", result.Results[0].Title)
	assert.Equal(t, "discussion", result.Results[0].Type)
	assert.Equal(t, "reply", result.Results[1].Type)
}

// emptyEmbedder имитирует шлюз, вернувший пустой вектор.
type emptyEmbedder struct{}

func (emptyEmbedder) Embed(_ context.Context, _ string) (shared.Embedding, error) {
	return shared.Embedding{}, nil
}

func TestSearchCourses_EmptyQueryEmbeddingRejected(t *testing.T) {
	handler := NewSearchCoursesHandler(emptyEmbedder{}, &fakeRetriever{})

	_, err := handler.Handle(context.Background(), SearchCoursesQuery{Text: "golang"})
	assert.ErrorIs(t, err, shared.ErrEmptyQueryEmbedding)
	assert.True(t, shared.IsValidation(err))
}

func TestSearchDiscussions_EmptyQueryEmbeddingRejected(t *testing.T) {
	handler := NewSearchDiscussionsHandler(emptyEmbedder{}, &fakeRetriever{})

	_, err := handler.Handle(context.Background(), SearchDiscussionsQuery{Text: "golang"})
	assert.ErrorIs(t, err, shared.ErrEmptyQueryEmbedding)
}
