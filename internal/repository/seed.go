package repository

import "github.com/stemsi/smartexam/internal/model"

// Built-in question bank. Seed items are never custom and cannot be deleted.
var seedQuestions = []model.Question{
	{
		ID:                 "1",
		Text:               "Who is known as the Father of the Indian Constitution?",
		Options:            []string{"Mahatma Gandhi", "Dr. B.R. Ambedkar", "Jawaharlal Nehru", "Sardar Patel"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyEasy,
		Subject:            "Indian Polity",
		Explanation:        "Dr. B.R. Ambedkar is known as the Father of the Indian Constitution as he was the chairman of the drafting committee.",
	},
	{
		ID:                 "2",
		Text:               "Which article of the Indian Constitution deals with the Right to Equality?",
		Options:            []string{"Article 12", "Article 14", "Article 16", "Article 18"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyEasy,
		Subject:            "Indian Polity",
		Explanation:        "Article 14 guarantees equality before law and equal protection of laws.",
	},
	{
		ID:                 "3",
		Text:               "The Tropic of Cancer passes through which of the following states?",
		Options:            []string{"Maharashtra", "Gujarat", "Rajasthan", "All of the above"},
		CorrectAnswerIndex: 3,
		Difficulty:         model.DifficultyEasy,
		Subject:            "Geography",
		Explanation:        "The Tropic of Cancer passes through Gujarat, Rajasthan, Madhya Pradesh, Chhattisgarh, Jharkhand, West Bengal, Tripura, and Mizoram.",
	},
	{
		ID:                 "4",
		Text:               "Which is the highest peak in India?",
		Options:            []string{"Mount Everest", "Kanchenjunga", "Nanda Devi", "K2"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyEasy,
		Subject:            "Geography",
		Explanation:        "Kanchenjunga is the highest peak entirely within India at 8,586 meters.",
	},
	{
		ID:                 "5",
		Text:               `The concept of "Judicial Review" in the Indian Constitution is borrowed from which country?`,
		Options:            []string{"United Kingdom", "United States", "Canada", "Australia"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyMedium,
		Subject:            "Indian Polity",
		Explanation:        "The concept of Judicial Review is borrowed from the United States Constitution.",
	},
	{
		ID:                 "6",
		Text:               `Which amendment act is known as the "Mini Constitution"?`,
		Options:            []string{"42nd Amendment", "44th Amendment", "52nd Amendment", "73rd Amendment"},
		CorrectAnswerIndex: 0,
		Difficulty:         model.DifficultyMedium,
		Subject:            "Indian Polity",
		Explanation:        "The 42nd Amendment (1976) is called the Mini Constitution due to the extensive changes it made.",
	},
	{
		ID:                 "7",
		Text:               "The Western Ghats are also known as:",
		Options:            []string{"Sahyadri", "Nilgiris", "Cardamom Hills", "Palani Hills"},
		CorrectAnswerIndex: 0,
		Difficulty:         model.DifficultyMedium,
		Subject:            "Geography",
		Explanation:        "The Western Ghats are locally known as Sahyadri in Maharashtra and Karnataka.",
	},
	{
		ID:                 "8",
		Text:               `Which river is known as the "Sorrow of Bengal"?`,
		Options:            []string{"Ganges", "Damodar", "Hooghly", "Teesta"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyMedium,
		Subject:            "Geography",
		Explanation:        `Damodar river was called the "Sorrow of Bengal" due to frequent floods before the construction of dams.`,
	},
	{
		ID:                 "9",
		Text:               `The doctrine of "Severability" is related to which aspect of the Constitution?`,
		Options:            []string{"Fundamental Rights", "Constitutional Amendments", "Emergency Provisions", "Judicial Review"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyHard,
		Subject:            "Indian Polity",
		Explanation:        "Severability doctrine allows courts to strike down only the invalid part of a constitutional amendment while keeping the valid parts intact.",
	},
	{
		ID:                 "10",
		Text:               `In which case did the Supreme Court establish the "Basic Structure Doctrine"?`,
		Options:            []string{"Golaknath Case", "Kesavananda Bharati Case", "Minerva Mills Case", "Maneka Gandhi Case"},
		CorrectAnswerIndex: 1,
		Difficulty:         model.DifficultyHard,
		Subject:            "Indian Polity",
		Explanation:        "The Basic Structure Doctrine was established in the Kesavananda Bharati vs State of Kerala case (1973).",
	},
	{
		ID:                 "11",
		Text:               `The concept of "Neo-determinism" in geography is associated with:`,
		Options:            []string{"Ratzel", "Huntington", "Griffith Taylor", "Semple"},
		CorrectAnswerIndex: 2,
		Difficulty:         model.DifficultyHard,
		Subject:            "Geography",
		Explanation:        "Griffith Taylor proposed the concept of Neo-determinism or Stop-and-Go determinism.",
	},
	{
		ID:                 "12",
		Text:               "Which of the following is NOT a biodiversity hotspot in India?",
		Options:            []string{"Western Ghats", "Eastern Himalayas", "Indo-Burma", "Deccan Plateau"},
		CorrectAnswerIndex: 3,
		Difficulty:         model.DifficultyHard,
		Subject:            "Geography",
		Explanation:        "The Deccan Plateau is not recognized as a biodiversity hotspot. India has four hotspots: Western Ghats, Eastern Himalayas, Indo-Burma, and Sundaland.",
	},
}

var seedExams = []model.ExamConfig{
	{
		ID:              "upsc-prelims-1",
		Title:           "UPSC Prelims Mock Test 1",
		Description:     "Comprehensive test covering Indian Polity, Geography, and Current Affairs",
		Difficulty:      model.DifficultyEasy,
		DurationMinutes: 30,
		TotalQuestions:  6,
		Quota:           model.Quota{Easy: 4, Medium: 2, Hard: 0},
	},
	{
		ID:              "upsc-prelims-2",
		Title:           "UPSC Prelims Mock Test 2",
		Description:     "Intermediate level test for serious aspirants",
		Difficulty:      model.DifficultyMedium,
		DurationMinutes: 45,
		TotalQuestions:  8,
		Quota:           model.Quota{Easy: 2, Medium: 4, Hard: 2},
	},
	{
		ID:              "upsc-prelims-3",
		Title:           "UPSC Prelims Mock Test 3",
		Description:     "Advanced level test for final preparation",
		Difficulty:      model.DifficultyHard,
		DurationMinutes: 60,
		TotalQuestions:  10,
		Quota:           model.Quota{Easy: 2, Medium: 4, Hard: 4},
	},
}

// SeedQuestions returns a copy of the built-in question bank.
func SeedQuestions() []model.Question {
	out := make([]model.Question, len(seedQuestions))
	for i, q := range seedQuestions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// SeedExams returns a copy of the built-in exam catalog.
func SeedExams() []model.ExamConfig {
	out := make([]model.ExamConfig, len(seedExams))
	copy(out, seedExams)
	return out
}

func cloneQuestion(q model.Question) model.Question {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}
