// Package msgs defines the messages exchanged with a soft UART daemon.
//
// Producer of commands: feeds (stdin, websocket, MQTT clients)
// Producer of events and replies: softuartd
package msgs
