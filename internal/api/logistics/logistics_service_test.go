package logistics

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/roamerhq/roamer/internal/api/generative_ai"
	"github.com/roamerhq/roamer/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, opts generativeAI.CallOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

func setupLogisticServiceTest() (*ServiceImpl, *MockGenerator) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockGen := new(MockGenerator)
	return NewLogisticService(mockGen, 2000, 1000, logger), mockGen
}

func TestLogisticServiceImpl_CreateItinerary(t *testing.T) {
	ctx := context.Background()

	sampleAttractions := &types.AttractionList{Attractions: []types.Attraction{
		{Name: "Park Guell", Description: "Gaudi's hillside park", HoursNeeded: "2-3 hours", Category: "architecture"},
	}}

	t.Run("returns itinerary with days", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(
			`{"days": [
				{"day_number": "1", "title": "Gaudi Highlights",
				 "activities": [
					{"time": "morning", "activity": "Park Guell", "duration": "3 hours"},
					{"time": "afternoon", "activity": "Sagrada Familia", "duration": "2 hours"}
				 ],
				 "meals": {"breakfast": "Hotel", "lunch": "La Boqueria", "dinner": "El Xampanyet"}}
			]}`, nil).Once()

		itinerary, err := service.CreateItinerary(ctx, "Barcelona", 1, sampleAttractions)
		require.NoError(t, err)
		require.Len(t, itinerary.Days, 1)
		assert.Equal(t, "Gaudi Highlights", itinerary.Days[0].Title)
		require.Len(t, itinerary.Days[0].Activities, 2)
		assert.Equal(t, "Park Guell", itinerary.Days[0].Activities[0].Activity)
		assert.Equal(t, "La Boqueria", itinerary.Days[0].Meals.Lunch)
		mockGen.AssertExpectations(t)
	})

	t.Run("prompt embeds the attraction list", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything,
			mock.MatchedBy(func(prompt string) bool {
				return strings.Contains(prompt, "Barcelona") && strings.Contains(prompt, "Park Guell")
			}),
			mock.MatchedBy(func(opts generativeAI.CallOptions) bool {
				return opts.Type == generativeAI.CallItinerary && opts.MaxOutputTokens == 2000
			}),
		).Return(`{"days": [{"day_number": "1", "title": "Arrival"}]}`, nil).Once()

		_, err := service.CreateItinerary(ctx, "Barcelona", 3, sampleAttractions)
		require.NoError(t, err)
		mockGen.AssertExpectations(t)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("Day 1: arrive and relax.", nil).Once()

		_, err := service.CreateItinerary(ctx, "Barcelona", 3, sampleAttractions)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedAIResponse)
	})

	t.Run("empty day list fails validation", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"days": []}`, nil).Once()

		_, err := service.CreateItinerary(ctx, "Barcelona", 3, sampleAttractions)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedAIResponse)
	})

	t.Run("model outage propagates", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("", types.ErrLLMUnavailable).Once()

		_, err := service.CreateItinerary(ctx, "Barcelona", 3, sampleAttractions)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrLLMUnavailable)
	})
}

func TestLogisticServiceImpl_TransportationSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns transport options", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything,
			mock.MatchedBy(func(prompt string) bool { return strings.Contains(prompt, "Lisbon") }),
			mock.MatchedBy(func(opts generativeAI.CallOptions) bool {
				return opts.Type == generativeAI.CallTransport && opts.MaxOutputTokens == 1000
			}),
		).Return(
			`{"transportation": [
				{"method": "Metro", "description": "Four lines covering the center", "cost_estimate": "1.80 EUR per ride", "recommended_for": "Getting across town quickly"},
				{"method": "Tram 28", "description": "Historic tram through Alfama", "cost_estimate": "3.10 EUR", "recommended_for": "Sightseeing on a budget"}
			]}`, nil).Once()

		guide, err := service.TransportationSuggestions(ctx, "Lisbon")
		require.NoError(t, err)
		require.Len(t, guide.Transportation, 2)
		assert.Equal(t, "Metro", guide.Transportation[0].Method)
		assert.Equal(t, "Sightseeing on a budget", guide.Transportation[1].RecommendedFor)
		mockGen.AssertExpectations(t)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("Take the metro, it's great.", nil).Once()

		_, err := service.TransportationSuggestions(ctx, "Lisbon")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedAIResponse)
	})

	t.Run("empty option list fails validation", func(t *testing.T) {
		service, mockGen := setupLogisticServiceTest()
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"transportation": []}`, nil).Once()

		_, err := service.TransportationSuggestions(ctx, "Lisbon")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedAIResponse)
	})
}
