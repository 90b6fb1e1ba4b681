package types

type FeedbackType string

const (
	FeedbackIncorrectOverall  FeedbackType = "incorrect_overall"
	FeedbackFalsePositive     FeedbackType = "false_positive"
	FeedbackFalseNegative     FeedbackType = "false_negative"
	FeedbackIncorrectSentence FeedbackType = "incorrect_sentence"
	FeedbackMixedAccuracy     FeedbackType = "mixed_accuracy"
)

// FeedbackTypes lists the selectable issue types in display order.
var FeedbackTypes = []FeedbackType{
	FeedbackIncorrectOverall,
	FeedbackFalsePositive,
	FeedbackFalseNegative,
	FeedbackIncorrectSentence,
	FeedbackMixedAccuracy,
}

var feedbackLabels = map[FeedbackType]string{
	FeedbackIncorrectOverall:  "Overall prediction is wrong",
	FeedbackFalsePositive:     "Incorrectly flagged as AI (false positive)",
	FeedbackFalseNegative:     "Missed AI-generated content (false negative)",
	FeedbackIncorrectSentence: "Some sentences incorrectly classified",
	FeedbackMixedAccuracy:     "Mixed results - some right, some wrong",
}

// ParseFeedbackType returns false for empty or unknown values.
func ParseFeedbackType(s string) (FeedbackType, bool) {
	t := FeedbackType(s)
	_, ok := feedbackLabels[t]
	return t, ok
}

func (t FeedbackType) Label() string {
	return feedbackLabels[t]
}
