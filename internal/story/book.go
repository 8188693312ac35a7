// Package story keeps the passenger stories told aboard the fleet, the one
// story currently waiting on the captain's choice, and the queue of
// butterfly effects those choices set off.
package story

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nzvengeance/skylog/internal/models"
)

var (
	ErrStoryNotFound  = errors.New("story not found")
	ErrChoiceNotFound = errors.New("choice not found")
	ErrAlreadyChosen  = errors.New("story choice already made")
)

// ChoiceReputation is the reputation a player earns for answering a story.
const ChoiceReputation = 5

// Snapshot is the persisted form of the book. The pending story is not
// persisted.
type Snapshot struct {
	Stories        []models.PassengerStory `json:"stories"`
	ButterflyQueue []string                `json:"butterfly_queue"`
}

type Book struct {
	mu        sync.Mutex
	stories   []models.PassengerStory
	pendingID string
	butterfly []string
}

func NewBook() *Book {
	return &Book{
		stories:   []models.PassengerStory{},
		butterfly: []string{},
	}
}

// Add files a finished story.
func (b *Book) Add(s models.PassengerStory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.ButterflyEffects == nil {
		s.ButterflyEffects = []string{}
	}
	b.stories = append(b.stories, clone(s))
}

// SetPending marks a filed story as waiting for a choice. An empty id clears
// the pending story.
func (b *Book) SetPending(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != "" && b.index(id) < 0 {
		return ErrStoryNotFound
	}
	b.pendingID = id
	return nil
}

func (b *Book) Pending() (models.PassengerStory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pendingID == "" {
		return models.PassengerStory{}, false
	}
	i := b.index(b.pendingID)
	if i < 0 {
		return models.PassengerStory{}, false
	}
	return clone(b.stories[i]), true
}

func (b *Book) Get(id string) (models.PassengerStory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return models.PassengerStory{}, false
	}
	return clone(b.stories[i]), true
}

// MakeChoice records the captain's answer and its outcome, clears the
// pending story and queues the butterfly effects the choice causes.
func (b *Book) MakeChoice(storyID, choiceID string) (models.PassengerStory, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(storyID)
	if i < 0 {
		return models.PassengerStory{}, ErrStoryNotFound
	}
	s := &b.stories[i]
	if s.ChosenID != "" {
		return models.PassengerStory{}, ErrAlreadyChosen
	}

	var choice *models.StoryChoice
	for j := range s.Choices {
		if s.Choices[j].ID == choiceID {
			choice = &s.Choices[j]
			break
		}
	}
	if choice == nil {
		return models.PassengerStory{}, fmt.Errorf("%w: %s", ErrChoiceNotFound, choiceID)
	}

	effects := ButterflyEffects(s.PassengerName, choice.Consequence)
	s.ChosenID = choice.ID
	s.Outcome = choice.Consequence
	s.ButterflyEffects = append(s.ButterflyEffects, effects...)
	b.butterfly = append(b.butterfly, effects...)
	b.pendingID = ""

	return clone(*s), nil
}

// Recent returns up to n newest stories, oldest first.
func (b *Book) Recent(n int) []models.PassengerStory {
	b.mu.Lock()
	defer b.mu.Unlock()
	src := b.stories
	if n >= 0 && len(src) > n {
		src = src[len(src)-n:]
	}
	out := make([]models.PassengerStory, len(src))
	for i, s := range src {
		out[i] = clone(s)
	}
	return out
}

func (b *Book) ButterflyQueue() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.butterfly...)
}

func (b *Book) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stories)
}

func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Snapshot{
		Stories:        make([]models.PassengerStory, len(b.stories)),
		ButterflyQueue: append([]string{}, b.butterfly...),
	}
	for i, st := range b.stories {
		s.Stories[i] = clone(st)
	}
	return s
}

func (b *Book) Restore(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stories = make([]models.PassengerStory, 0, len(s.Stories))
	for _, st := range s.Stories {
		if st.ButterflyEffects == nil {
			st.ButterflyEffects = []string{}
		}
		b.stories = append(b.stories, clone(st))
	}
	b.butterfly = append([]string{}, s.ButterflyQueue...)
	b.pendingID = ""
}

func (b *Book) index(id string) int {
	for i := range b.stories {
		if b.stories[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(s models.PassengerStory) models.PassengerStory {
	s.Choices = append([]models.StoryChoice(nil), s.Choices...)
	if s.ButterflyEffects != nil {
		s.ButterflyEffects = append([]string{}, s.ButterflyEffects...)
	}
	return s
}

var effectRules = []struct {
	keywords []string
	effect   string
}{
	{[]string{"thank", "moved", "touched"}, "%s's story raised your airport's reputation"},
	{[]string{"social", "online", "viral"}, "Your airline caught attention on social media"},
	{[]string{"return", "again"}, "%s may fly with you again"},
	{[]string{"dream", "brave", "courage", "chang"}, "A small gesture of yours changed someone's path"},
}

// ButterflyEffects derives the ripples of a choice from its consequence.
// Every choice leaves at least one.
func ButterflyEffects(passenger, consequence string) []string {
	text := strings.ToLower(consequence)
	var out []string
	for _, rule := range effectRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				out = append(out, render(rule.effect, passenger))
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, passenger+" will remember this trip")
	}
	return out
}

func render(format, passenger string) string {
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, passenger)
	}
	return format
}
