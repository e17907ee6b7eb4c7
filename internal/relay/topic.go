package relay

// TopicFor derives the broker topic carrying messages sent from one number
// to another within a tenant's application. Order-sensitive: each direction
// of a conversation has its own topic, so a webhook naming from/to maps to
// exactly one topic.
func TopicFor(userID, applicationID, from, to string) string {
	return "message:" + userID + ":" + applicationID + ":" + from + ":" + to
}

// topicsFor returns both direction topics for a session's conversation.
func topicsFor(userID, applicationID, phone, service string) []string {
	return []string{
		TopicFor(userID, applicationID, phone, service),
		TopicFor(userID, applicationID, service, phone),
	}
}
