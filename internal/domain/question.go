package domain

// Question is a single exam question with its reference answer and topic.
// Hash is the sha256 content hash used as the stable question identifier
// everywhere else in the system.
type Question struct {
	Prompt string
	Answer string
	Topic  string
	Hash   string
}
