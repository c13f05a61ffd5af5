// Package mqtt publishes todo change events to an MQTT broker.
//
// The client connects with auto-reconnect, announces itself with a
// retained online status and registers a Last Will so subscribers see an
// offline status if the process dies. EventPublisher adapts the client to
// the todo.Notifier interface.
//
// # Topics
//
//	todoapi/events/todo/{id}   one message per create, update or delete
//	todoapi/system/status      retained online/offline status
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	svc := todo.NewService(repo, mqtt.NewEventPublisher(client, byte(cfg.MQTT.QoS)))
package mqtt
