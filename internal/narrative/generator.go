// Package narrative writes plane diaries and passenger stories. It prompts an
// LLM when one is configured and falls back to canned entries otherwise.
package narrative

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/llm"
	"github.com/nzvengeance/skylog/internal/models"
)

const (
	diaryMaxTokens   = 300
	diaryTemperature = 0.85
	storyMaxTokens   = 600
	storyTemperature = 0.8
	requestTimeout   = 30 * time.Second
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Generator produces narrative content. A nil client means every request is
// served from the mock pool.
type Generator struct {
	client llm.Client
	model  string
	now    func() time.Time
	pick   func(n int) int
}

func NewGenerator(client llm.Client, model string) *Generator {
	return &Generator{client: client, model: model, now: time.Now, pick: rand.IntN}
}

// Live reports whether an LLM backs the generator.
func (g *Generator) Live() bool {
	return g.client != nil
}

// DiaryInput describes the plane and flight a diary entry is written about.
// From and To are city display names, empty when the plane is resting.
type DiaryInput struct {
	Plane    models.Plane
	From, To string
	Phase    models.DayPhase
}

// StoryInput describes the flight a passenger story happens on.
type StoryInput struct {
	Plane    models.Plane
	RouteID  string
	From, To string
	Phase    models.DayPhase
}

// DiaryMoodFor maps a plane's mood score to a diary mood tag.
func DiaryMoodFor(mood float64) models.DiaryMood {
	switch {
	case mood > 80:
		return models.DiaryHappy
	case mood > 60:
		return models.DiaryPeaceful
	case mood > 40:
		return models.DiaryExcited
	case mood > 20:
		return models.DiaryTired
	default:
		return models.DiaryMelancholy
	}
}

func isFlying(s models.FlightStatus) bool {
	return s == models.StatusTaxiing || s == models.StatusAirborne || s == models.StatusLanding
}

// Diary writes one diary entry for the plane. LLM failures are logged and
// answered with a mock entry, so the call always succeeds.
func (g *Generator) Diary(ctx context.Context, in DiaryInput) models.Diary {
	p := in.Plane
	weather := weatherOptions[g.pick(len(weatherOptions))]

	d := models.Diary{
		ID:        uuid.NewString(),
		PlaneID:   p.InstanceID,
		Mood:      DiaryMoodFor(p.Mood),
		Weather:   weather,
		CreatedAt: g.now(),
	}
	if isFlying(p.FlightStatus) {
		d.RouteID = p.AssignedRoute
	}

	if g.client != nil {
		text, err := g.generate(ctx, llm.Prompt{
			System: diarySystemPrompt(p.Personality),
			User: diaryUserPrompt(diaryContext{
				Nickname:     p.Nickname,
				Level:        p.Level,
				Mood:         p.Mood,
				Bond:         p.Bond,
				From:         in.From,
				To:           in.To,
				TotalFlights: p.TotalFlights,
				Weather:      weather,
				Phase:        in.Phase,
			}),
			MaxTokens:   diaryMaxTokens,
			Temperature: diaryTemperature,
		})
		if err == nil {
			d.Content = text
			return d
		}
		log.Warn().Err(err).Str("plane", p.InstanceID).Msg("diary generation failed, using mock")
	}

	d.Content = g.mockDiary(p.Personality)
	return d
}

// Story writes one passenger story with two choices for the flight.
func (g *Generator) Story(ctx context.Context, in StoryInput) models.PassengerStory {
	s := models.PassengerStory{
		ID:               uuid.NewString(),
		RouteID:          in.RouteID,
		PlaneID:          in.Plane.InstanceID,
		ButterflyEffects: []string{},
		CreatedAt:        g.now(),
	}

	if g.client != nil {
		text, err := g.generate(ctx, llm.Prompt{
			System: storySystem,
			User: storyUserPrompt(storyContext{
				From:         in.From,
				To:           in.To,
				Nickname:     in.Plane.Nickname,
				Phase:        in.Phase,
				FlightNumber: in.Plane.TotalFlights + 1,
			}),
			MaxTokens:   storyMaxTokens,
			Temperature: storyTemperature,
		})
		if err == nil {
			if name, content, choices, ok := ParseStory(text); ok {
				s.PassengerName = name
				s.Content = content
				s.Choices = choices
				return s
			}
			log.Warn().Str("plane", in.Plane.InstanceID).Msg("story response did not parse, using mock")
		} else {
			log.Warn().Err(err).Str("plane", in.Plane.InstanceID).Msg("story generation failed, using mock")
		}
	}

	m := mockStories[g.pick(len(mockStories))]
	s.PassengerName = m.passenger
	s.Content = m.content
	s.Choices = append([]models.StoryChoice(nil), m.choices...)
	return s
}

func (g *Generator) generate(ctx context.Context, p llm.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	p.Model = g.model
	text, err := g.client.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (g *Generator) mockDiary(p models.Personality) string {
	pool, ok := mockDiaries[p]
	if !ok {
		pool = mockDiaries[models.PersonalityDreamer]
	}
	return pool[g.pick(len(pool))]
}

type storyPayload struct {
	PassengerName string `json:"passengerName"`
	Content       string `json:"content"`
	Choices       []struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		Consequence string `json:"consequence"`
	} `json:"choices"`
}

// ParseStory extracts the first JSON object from an LLM reply and validates
// it as a passenger story. Only the first two choices are kept; missing
// choice ids become "a" and "b".
func ParseStory(text string) (passenger, content string, choices []models.StoryChoice, ok bool) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return "", "", nil, false
	}

	var p storyPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return "", "", nil, false
	}
	if p.PassengerName == "" || p.Content == "" || len(p.Choices) < 2 {
		return "", "", nil, false
	}

	defaults := []string{"a", "b"}
	for i, c := range p.Choices[:2] {
		id := c.ID
		if id == "" {
			id = defaults[i]
		}
		choices = append(choices, models.StoryChoice{ID: id, Text: c.Text, Consequence: c.Consequence})
	}
	return p.PassengerName, p.Content, choices, true
}
