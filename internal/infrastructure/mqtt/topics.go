package mqtt

import (
	"fmt"
	"strconv"
)

// Topic prefixes.
const (
	// TopicPrefix is the root of every topic this service publishes.
	TopicPrefix = "todoapi"

	// TopicPrefixEvents is the base for change events.
	TopicPrefixEvents = TopicPrefix + "/events"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for the service's MQTT topics.
//
//	topic := mqtt.Topics{}.TodoEvent(42)
//	// Returns: "todoapi/events/todo/42"
type Topics struct{}

// TodoEvent returns the topic for change events on one todo.
func (Topics) TodoEvent(id int64) string {
	return fmt.Sprintf("%s/todo/%s", TopicPrefixEvents, strconv.FormatInt(id, 10))
}

// AllTodoEvents returns a wildcard matching every todo event.
func (Topics) AllTodoEvents() string {
	return TopicPrefixEvents + "/todo/+"
}

// SystemStatus returns the retained service status topic.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
