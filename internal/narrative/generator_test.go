package narrative

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzvengeance/skylog/internal/llm"
	"github.com/nzvengeance/skylog/internal/models"
)

type fakeClient struct {
	reply string
	err   error
	last  llm.Prompt
}

func (f *fakeClient) TestConnection(context.Context) error { return nil }

func (f *fakeClient) ListModels(context.Context) ([]llm.Model, error) { return nil, nil }

func (f *fakeClient) Generate(_ context.Context, p llm.Prompt) (string, error) {
	f.last = p
	return f.reply, f.err
}

func testGenerator(c llm.Client) *Generator {
	g := NewGenerator(c, "test-model")
	g.now = func() time.Time { return time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC) }
	g.pick = func(int) int { return 0 }
	return g
}

func luna() models.Plane {
	return models.Plane{
		InstanceID:    "starter-luna",
		Nickname:      "Luna",
		Personality:   models.PersonalityDreamer,
		Level:         2,
		Mood:          85,
		Bond:          45,
		AssignedRoute: "beijing-shanghai",
		FlightStatus:  models.StatusAirborne,
	}
}

func TestDiaryMoodFor(t *testing.T) {
	assert.Equal(t, models.DiaryHappy, DiaryMoodFor(81))
	assert.Equal(t, models.DiaryPeaceful, DiaryMoodFor(80))
	assert.Equal(t, models.DiaryExcited, DiaryMoodFor(60))
	assert.Equal(t, models.DiaryTired, DiaryMoodFor(40))
	assert.Equal(t, models.DiaryMelancholy, DiaryMoodFor(20))
}

func TestDiaryFromLLM(t *testing.T) {
	fc := &fakeClient{reply: "  The clouds looked like whales today.  "}
	g := testGenerator(fc)

	d := g.Diary(context.Background(), DiaryInput{Plane: luna(), From: "Beijing", To: "Shanghai", Phase: models.PhaseDay})
	assert.Equal(t, "The clouds looked like whales today.", d.Content)
	assert.Equal(t, "starter-luna", d.PlaneID)
	assert.Equal(t, "beijing-shanghai", d.RouteID)
	assert.Equal(t, models.DiaryHappy, d.Mood)
	assert.Equal(t, weatherOptions[0], d.Weather)
	assert.NotEmpty(t, d.ID)

	assert.Equal(t, "test-model", fc.last.Model)
	assert.Equal(t, diaryMaxTokens, fc.last.MaxTokens)
	assert.InDelta(t, 0.85, fc.last.Temperature, 1e-6)
	assert.Contains(t, fc.last.System, "dreamer")
	assert.Contains(t, fc.last.User, "Beijing to Shanghai")
}

func TestDiaryFallsBackToMock(t *testing.T) {
	resting := luna()
	resting.FlightStatus = models.StatusIdle

	for _, c := range []llm.Client{nil, &fakeClient{err: errors.New("boom")}, &fakeClient{reply: "   "}} {
		g := testGenerator(c)
		d := g.Diary(context.Background(), DiaryInput{Plane: resting, Phase: models.PhaseNight})
		assert.Equal(t, mockDiaries[models.PersonalityDreamer][0], d.Content)
		assert.Empty(t, d.RouteID)
	}
}

func TestDiaryUnknownPersonality(t *testing.T) {
	p := luna()
	p.Personality = "grumpy"
	d := testGenerator(nil).Diary(context.Background(), DiaryInput{Plane: p})
	assert.Equal(t, mockDiaries[models.PersonalityDreamer][0], d.Content)
}

func TestStoryFromLLM(t *testing.T) {
	fc := &fakeClient{reply: "Sure! ```json\n" + `{"passengerName":"Ada","content":"She is flying home.","choices":[{"id":"x","text":"Wave","consequence":"She waves back"},{"text":"Nod","consequence":"She nods"},{"id":"z","text":"extra","consequence":"ignored"}]}` + "\n```"}
	g := testGenerator(fc)

	s := g.Story(context.Background(), StoryInput{Plane: luna(), RouteID: "beijing-shanghai", From: "Beijing", To: "Shanghai", Phase: models.PhaseDusk})
	assert.Equal(t, "Ada", s.PassengerName)
	assert.Equal(t, "She is flying home.", s.Content)
	require.Len(t, s.Choices, 2)
	assert.Equal(t, "x", s.Choices[0].ID)
	assert.Equal(t, "b", s.Choices[1].ID)
	assert.Equal(t, "beijing-shanghai", s.RouteID)
	assert.Empty(t, s.ChosenID)
	assert.NotNil(t, s.ButterflyEffects)

	assert.Equal(t, storyMaxTokens, fc.last.MaxTokens)
	assert.Contains(t, fc.last.User, "flight number 1")
}

func TestStoryFallsBackOnBadJSON(t *testing.T) {
	for _, reply := range []string{
		"no json here",
		`{"passengerName":"Ada","content":"x"}`,
		`{"passengerName":"","content":"x","choices":[{},{}]}`,
		`{"passengerName":"Ada","content":"x","choices":[{"id":"a"}]}`,
	} {
		g := testGenerator(&fakeClient{reply: reply})
		s := g.Story(context.Background(), StoryInput{Plane: luna(), RouteID: "r"})
		assert.Equal(t, mockStories[0].passenger, s.PassengerName, reply)
		assert.Len(t, s.Choices, 2)
	}
}

func TestMockStoryChoicesAreCopied(t *testing.T) {
	g := testGenerator(nil)
	s := g.Story(context.Background(), StoryInput{Plane: luna()})
	s.Choices[0].Text = "changed"
	assert.NotEqual(t, "changed", mockStories[0].choices[0].Text)
}

func TestMockPoolsCoverEveryPersonality(t *testing.T) {
	for _, p := range []models.Personality{
		models.PersonalityDreamer, models.PersonalitySteady, models.PersonalityAdventurer,
		models.PersonalityGentle, models.PersonalityProud, models.PersonalityShy,
	} {
		assert.NotEmpty(t, mockDiaries[p], p)
		assert.Contains(t, personalityPrompts, p)
	}
	for _, s := range mockStories {
		assert.Len(t, s.choices, 2)
	}
}
