package narrative

import "github.com/nzvengeance/skylog/internal/models"

var mockDiaries = map[models.Personality][]string{
	models.PersonalityDreamer: {
		"The cloud we passed today looked like a whale swimming slowly through the sky. If I climbed a little higher, maybe we could talk.",
		"At sunset the whole sky turned peach. My wings caught the colour too, like wearing a new coat.",
		"On the night leg the moonlight came in from the left side. I counted over three hundred stars, seventeen more than yesterday.",
	},
	models.PersonalitySteady: {
		"Flight summary: departed on time, landed on time. Fuel burn three percent under plan. Winds were kind. All normal.",
		"Another safe landing on a wet runway with a twelve knot crosswind. The passengers may not notice these things, but I do.",
		"Engines smooth, every system green. Sometimes 'all normal' is the best entry there is.",
	},
	models.PersonalityAdventurer: {
		"Finally, a new direction! The coastline out the window looked completely different and my engines were humming with excitement!",
		"Same route again... honestly a bit dull. There was a crosswind challenge today though, so that was something.",
		"We skirted the edge of a storm cell today and it got bumpy. Honestly? I loved it. Don't tell the captain.",
	},
	models.PersonalityGentle: {
		"An older lady gave her window seat to the boy next to her today. I flew as smoothly as I could so they'd have a nice trip.",
		"There was a little bump on landing. I hope it didn't frighten anyone. I'll do better next time.",
		"I heard a baby laughing in the cabin. For that I'd fly any distance.",
	},
	models.PersonalityProud: {
		"Perfect landing. Textbook smooth. If anyone were scoring, at least a 9.5. No, 9.8.",
		"My livery looked especially good in the sun today. I noticed the other planes on the apron looking. Maybe I imagined it. Maybe not.",
		"The captain said I flew 'really steady' today. Well, I always do. Still... being praised isn't bad.",
	},
	models.PersonalityShy: {
		"Today was... fine. One flight. Nothing special... probably.",
		"I think the captain looked at me a moment longer today. Maybe I'm overthinking it. But if not... that's nice.",
		"The sunset was beautiful. I wanted to say so, but didn't know how. Just... beautiful. That's all.",
	},
}

type mockStory struct {
	passenger string
	content   string
	choices   []models.StoryChoice
}

var mockStories = []mockStory{
	{
		passenger: "Lin Xiaoyu",
		content:   "The girl in 17C keeps scrolling back to one photo of her with a white-haired old man. She hasn't been home in three years. Just before landing she starts crying, then wipes her eyes and fixes her makeup.",
		choices: []models.StoryChoice{
			{ID: "a", Text: "Announce 'welcome home' over the PA", Consequence: "She froze, then smiled. Weeks later a thank-you letter arrived saying those words gave her the courage to ring the doorbell."},
			{ID: "b", Text: "Have the crew bring her hot tea", Consequence: "Her hands shook as she took the cup. The attendant said nothing, just patted her shoulder. Sometimes silence says more."},
		},
	},
	{
		passenger: "James Chen",
		content:   "A man in a rumpled suit sits in business class with a resignation letter open on his laptop. He has stared at the send button the whole flight. As the clouds spread out like cotton below, he suddenly shuts the laptop.",
		choices: []models.StoryChoice{
			{ID: "a", Text: "Wish everyone 'a fresh start' on departure", Consequence: "Three months later he founded his own company. He says the decision he made on that flight changed everything."},
			{ID: "b", Text: "Keep service normal and leave him be", Consequence: "He never sent the letter. But he started painting on weekends. Some changes are quiet."},
		},
	},
	{
		passenger: "Misaki Sato",
		content:   "An elderly couple in the front row hold hands while he points out every view to her. The crew whispers that it is her first flight ever. She is seventy-eight, and this is his birthday present to her.",
		choices: []models.StoryChoice{
			{ID: "a", Text: "Bank gently over the clouds so she can see", Consequence: "She clapped with delight and he quietly wiped his eyes. A passenger across the aisle filmed it and it moved a hundred thousand people online."},
			{ID: "b", Text: "Send a small cake and announce her birthday", Consequence: "The whole cabin sang. She said it was the best birthday of her life and tucked the boarding pass carefully into her wallet."},
		},
	},
	{
		passenger: "Amara Okafor",
		content:   "A little girl travels alone with an unaccompanied minor tag round her neck. She clutches a teddy bear missing one ear. Her eyes are red but she isn't crying. Her destination reads 'Dad's house'.",
		choices: []models.StoryChoice{
			{ID: "a", Text: "Invite her to visit the cockpit", Consequence: "Her eyes lit up. She asked whether the plane was alive and whether it got tired. You didn't know how to answer, but you flew extra smoothly that day."},
			{ID: "b", Text: "Give her a pair of captain's wings", Consequence: "She pinned the wings on her bear and said solemnly, 'Now Bear is a captain too.' You remembered that for a long time."},
		},
	},
}
