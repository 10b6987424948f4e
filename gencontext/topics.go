package gencontext

import (
	"os"
	"strings"
)

// Lines of a message definition starting with this marker declare the topic names the message is published on.
const TopicsMarker = "# TOPICS "

// GetTopics returns the topic names declared on marker lines of a message definition file, in file order. When the file declares none, the result is just defaultName.
//
// Topic names are not checked or de-duplicated.
func GetTopics(path, defaultName string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTopics(string(b), defaultName), nil
}

// ParseTopics is GetTopics operating on message definition text.
func ParseTopics(text, defaultName string) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, TopicsMarker) {
			continue
		}
		topics = append(topics, strings.Fields(strings.TrimPrefix(line, TopicsMarker))...)
	}
	if len(topics) == 0 {
		return []string{defaultName}
	}
	return topics
}
