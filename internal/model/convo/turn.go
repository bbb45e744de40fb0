package convo

import "time"

// HistoryLimit bounds how many turns a chat keeps; older turns are evicted.
const HistoryLimit = 2

// Turn captures one completed user-utterance/bot-reply exchange.
type Turn struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	CreatedAt time.Time `json:"createdAt"`
}
