package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CustomQuestionsKey holds the snapshot of user-added questions.
func (r *CacheKeyStruct) CustomQuestionsKey() string {
	return "smartexam:custom_questions"
}

// CustomExamsKey holds the snapshot of user-created exam configs.
func (r *CacheKeyStruct) CustomExamsKey() string {
	return "smartexam:custom_exams"
}

var CacheKey = NewCacheKeyStruct()
