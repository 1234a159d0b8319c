// Package qa holds question/answer records, their store, and the
// generation coordinator that drives a backend from submission to a
// completed answer.
package qa

import (
	"github.com/chalktalk/chalktalk/pkg/scene"
)

// Question is a submitted question. AnswerID is allocated at submission
// time, before the Answer record exists.
type Question struct {
	ID        string `json:"id" msgpack:"id"`
	UserID    string `json:"userId" msgpack:"user_id"`
	Question  string `json:"question" msgpack:"question"`
	AnswerID  string `json:"answerId" msgpack:"answer_id"`
	Timestamp int64  `json:"timestamp" msgpack:"timestamp"` // unix ms
}

// Answer is a completed answer. It is inserted into the store only once
// generation finishes or falls back; until then lookups by its id fail.
type Answer struct {
	ID            string               `json:"id" msgpack:"id"`
	QuestionID    string               `json:"questionId" msgpack:"question_id"`
	Text          string               `json:"text" msgpack:"text"`
	Visualization *scene.Visualization `json:"visualization,omitempty" msgpack:"visualization"`
	Timestamp     int64                `json:"timestamp" msgpack:"timestamp"` // unix ms
}
