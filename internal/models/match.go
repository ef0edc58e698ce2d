package models

// MatchResult is the outcome of a successful pairing: the freshly minted
// room and the topic resolved for it.
type MatchResult struct {
	RoomID string `json:"room"`
	Topic  string `json:"topic"`
}
