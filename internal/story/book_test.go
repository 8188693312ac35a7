package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzvengeance/skylog/internal/models"
)

func sampleStory(id string) models.PassengerStory {
	return models.PassengerStory{
		ID:            id,
		RouteID:       "beijing-shanghai",
		PlaneID:       "starter-luna",
		PassengerName: "Mia",
		Content:       "A girl keeps looking at an old photo.",
		Choices: []models.StoryChoice{
			{ID: "a", Text: "Say welcome home", Consequence: "She sent a thank you letter weeks later."},
			{ID: "b", Text: "Bring tea", Consequence: "She held the cup quietly."},
		},
	}
}

func TestMakeChoice(t *testing.T) {
	b := NewBook()
	b.Add(sampleStory("s1"))
	require.NoError(t, b.SetPending("s1"))

	got, err := b.MakeChoice("s1", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ChosenID)
	assert.Equal(t, "She sent a thank you letter weeks later.", got.Outcome)
	assert.Equal(t, []string{"Mia's story raised your airport's reputation"}, got.ButterflyEffects)
	assert.Equal(t, got.ButterflyEffects, b.ButterflyQueue())

	_, ok := b.Pending()
	assert.False(t, ok)

	_, err = b.MakeChoice("s1", "b")
	assert.ErrorIs(t, err, ErrAlreadyChosen)
}

func TestMakeChoiceErrors(t *testing.T) {
	b := NewBook()
	b.Add(sampleStory("s1"))

	_, err := b.MakeChoice("nope", "a")
	assert.ErrorIs(t, err, ErrStoryNotFound)
	_, err = b.MakeChoice("s1", "z")
	assert.ErrorIs(t, err, ErrChoiceNotFound)

	s, _ := b.Get("s1")
	assert.Empty(t, s.ChosenID)
	assert.ErrorIs(t, b.SetPending("nope"), ErrStoryNotFound)
}

func TestButterflyEffects(t *testing.T) {
	tests := []struct {
		name        string
		consequence string
		want        []string
	}{
		{"default", "She held the cup quietly.", []string{"Mia will remember this trip"}},
		{"viral", "The photo went viral online.", []string{"Your airline caught attention on social media"}},
		{"two rules", "He found the courage and will fly again.", []string{
			"Mia may fly with you again",
			"A small gesture of yours changed someone's path",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ButterflyEffects("Mia", tt.consequence))
		})
	}
}

func TestRecentAndRestore(t *testing.T) {
	b := NewBook()
	for _, id := range []string{"s1", "s2", "s3"} {
		b.Add(sampleStory(id))
	}
	require.NoError(t, b.SetPending("s3"))
	_, err := b.MakeChoice("s2", "b")
	require.NoError(t, err)

	recent := b.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "s2", recent[0].ID)
	assert.Equal(t, "s3", recent[1].ID)

	restored := NewBook()
	restored.Restore(b.Snapshot())
	assert.Equal(t, 3, restored.Count())
	assert.Equal(t, b.ButterflyQueue(), restored.ButterflyQueue())
	_, ok := restored.Pending()
	assert.False(t, ok, "pending story is not restored")

	s2, _ := restored.Get("s2")
	assert.Equal(t, "b", s2.ChosenID)
}
